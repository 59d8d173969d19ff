package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/jntun/rave/internal/config"
	"github.com/jntun/rave/internal/walker"
)

// ListCmd is the "list" subcommand: it enumerates every chunk under a save
// root, optionally grouped by region file instead of flattened.
type ListCmd struct {
	cfg      *config.Config
	byRegion bool
}

// NewListCmd builds the list subcommand against the options cfg was resolved
// to by the top-level flags.
func NewListCmd(cfg *config.Config) *ListCmd {
	return &ListCmd{cfg: cfg}
}

func (*ListCmd) Name() string     { return "list" }
func (*ListCmd) Synopsis() string { return "enumerate the chunks in a save" }
func (*ListCmd) Usage() string {
	return `list [region|r]:
	List every chunk under the save root. With the region argument, group
	the listing by region file instead of flattening it into one sequence.
`
}

func (c *ListCmd) SetFlags(*flag.FlagSet) {}

func (c *ListCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if arg := f.Arg(0); arg == "region" || arg == "r" {
		c.byRegion = true
	} else if arg != "" {
		fmt.Fprintf(stderr, "unrecognized list argument %q\n", arg)
		return subcommands.ExitUsageError
	}

	groups, err := walker.Walk(c.cfg.Root)
	if err != nil {
		return reportError(err)
	}

	if c.byRegion {
		groups, err = selectIndex(groups, c.cfg)
		if err != nil {
			return reportError(err)
		}
		for _, g := range groups {
			rx, rz, err := g.RegionFile.Coords()
			if err != nil {
				return reportError(err)
			}
			fmt.Fprintf(stdout, "%s region (%d, %d) [%s]: %d chunk(s)\n",
				g.RegionFile.Dimension, rx, rz, g.RegionFile.Path, len(g.Chunks))
			for _, chunk := range g.Chunks {
				dx, dz := chunk.Header.ChunkXZ()
				x, z := chunkCoords(rx, rz, dx, dz)
				fmt.Fprintf(stdout, "  chunk (%d, %d) timestamp=%d\n", x, z, chunk.Header.Timestamp)
			}
		}
		return subcommands.ExitSuccess
	}

	type flatChunk struct {
		dim  walker.Dimension
		x, z int
		ts   int32
	}
	var flat []flatChunk
	for _, g := range groups {
		rx, rz, err := g.RegionFile.Coords()
		if err != nil {
			return reportError(err)
		}
		for _, chunk := range g.Chunks {
			dx, dz := chunk.Header.ChunkXZ()
			x, z := chunkCoords(rx, rz, dx, dz)
			flat = append(flat, flatChunk{
				dim: g.RegionFile.Dimension,
				x:   x,
				z:   z,
				ts:  chunk.Header.Timestamp,
			})
		}
	}
	flat, err = selectIndex(flat, c.cfg)
	if err != nil {
		return reportError(err)
	}
	for _, fc := range flat {
		fmt.Fprintf(stdout, "%s chunk (%d, %d) timestamp=%d\n", fc.dim, fc.x, fc.z, fc.ts)
	}
	return subcommands.ExitSuccess
}
