package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/jntun/rave/internal/config"
	"github.com/jntun/rave/internal/nbt"
	"github.com/jntun/rave/internal/query"
	"github.com/jntun/rave/internal/walker"
)

// SearchCmd is the "search" subcommand: it finds every tag with a given name
// across every chunk under a save root.
type SearchCmd struct {
	cfg *config.Config
}

// NewSearchCmd builds the search subcommand against the options cfg was
// resolved to by the top-level flags.
func NewSearchCmd(cfg *config.Config) *SearchCmd {
	return &SearchCmd{cfg: cfg}
}

func (*SearchCmd) Name() string     { return "search" }
func (*SearchCmd) Synopsis() string { return "find every tag with a given name across a save" }
func (*SearchCmd) Usage() string {
	return `search <name>:
	Print every tag named <name> found anywhere in the save, one per line,
	along with the chunk it was found in.
`
}

func (c *SearchCmd) SetFlags(*flag.FlagSet) {}

func (c *SearchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := f.Arg(0)
	if name == "" {
		fmt.Fprintln(stderr, "search requires a tag name")
		return subcommands.ExitUsageError
	}

	groups, err := walker.Walk(c.cfg.Root)
	if err != nil {
		return reportError(err)
	}

	type hit struct {
		dim  walker.Dimension
		x, z int
		tag  *nbt.Tag
	}
	var hits []hit
	for _, g := range groups {
		rx, rz, err := g.RegionFile.Coords()
		if err != nil {
			return reportError(err)
		}
		for _, chunk := range g.Chunks {
			dx, dz := chunk.Header.ChunkXZ()
			x, z := chunkCoords(rx, rz, dx, dz)
			for _, tag := range query.FindManyByName(chunk.Root, []byte(name)) {
				hits = append(hits, hit{
					dim: g.RegionFile.Dimension,
					x:   x,
					z:   z,
					tag: tag,
				})
			}
		}
	}

	if len(hits) == 0 {
		return reportError(query.ErrNotFound)
	}

	hits, err = selectIndex(hits, c.cfg)
	if err != nil {
		return reportError(err)
	}
	for _, h := range hits {
		fmt.Fprintf(stdout, "%s chunk (%d, %d) %s = %s\n", h.dim, h.x, h.z, h.tag.Name, renderPayload(h.tag.Payload))
	}
	return subcommands.ExitSuccess
}

// renderPayload formats a tag's value for display. It is deliberately
// shallow: a List prints its element count and a Compound its member names
// rather than recursing, since the full subtree is what search would have
// matched on its own had the caller named it.
func renderPayload(p nbt.Payload) string {
	switch v := p.(type) {
	case nbt.PByte:
		return fmt.Sprintf("%d", int8(v))
	case nbt.PShort:
		return fmt.Sprintf("%d", int16(v))
	case nbt.PInt:
		return fmt.Sprintf("%d", int32(v))
	case nbt.PLong:
		return fmt.Sprintf("%d", int64(v))
	case nbt.PFloat:
		return fmt.Sprintf("%g", float32(v))
	case nbt.PDouble:
		return fmt.Sprintf("%g", float64(v))
	case nbt.PString:
		return string(v)
	case nbt.PByteArray:
		return fmt.Sprintf("<%d byte(s)>", len(v))
	case nbt.PIntArray:
		return fmt.Sprintf("<%d int(s)>", len(v))
	case nbt.PLongArray:
		return fmt.Sprintf("<%d long(s)>", len(v))
	case nbt.PList:
		return fmt.Sprintf("<list of %d element(s)>", len(v.Items))
	case nbt.PCompound:
		names := make([]string, 0, len(v.Tags))
		for _, t := range v.Tags {
			names = append(names, string(t.Name))
		}
		return fmt.Sprintf("<compound {%s}>", strings.Join(names, ", "))
	default:
		return "<end>"
	}
}
