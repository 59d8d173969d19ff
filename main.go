// Command rave queries Minecraft Java Edition world saves: it walks a save's
// region files, decodes their NBT chunk data, and lists or searches the
// result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/jntun/rave/commands"
	"github.com/jntun/rave/internal/config"
	"github.com/jntun/rave/internal/savepath"
	"github.com/jntun/rave/log"
)

// indexFlag is a flag.Value wrapping a *uint that also records whether it
// was ever set, since 0 is both the zero value and a legitimate index and so
// can't itself signal absence.
type indexFlag struct {
	value *uint
	set   *bool
}

func (f indexFlag) String() string {
	if f.value == nil {
		return "0"
	}
	return strconv.FormatUint(uint64(*f.value), 10)
}

func (f indexFlag) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", s, err)
	}
	*f.value = uint(n)
	*f.set = true
	return nil
}

// aliasList and aliasSearch give "l" and "s" their own Command identity so
// subcommands.Register can list both the long and short names; everything
// but Name delegates straight through to the command they alias.
type aliasList struct{ *commands.ListCmd }

func (aliasList) Name() string { return "l" }

type aliasSearch struct{ *commands.SearchCmd }

func (aliasSearch) Name() string { return "s" }

func main() {
	var (
		root     string
		index    uint
		hasIndex bool
	)
	flag.StringVar(&root, "root", "", "save directory to operate on (default: the platform's Minecraft saves directory)")
	flag.StringVar(&root, "r", "", "shorthand for --root")
	idx := indexFlag{value: &index, set: &hasIndex}
	flag.Var(idx, "index", "select only the result at this position")
	flag.Var(idx, "i", "shorthand for --index")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rave [OPTIONS] COMMAND\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	cfg.Root = root
	cfg.HasIndex = hasIndex
	cfg.Index = index

	if cfg.Root == "" {
		def, err := savepath.Default()
		if err != nil {
			log.Errorf("no save root given and none could be inferred: %s", err)
			os.Exit(int(subcommands.ExitUsageError))
		}
		cfg.Root = def
	}

	cdr := subcommands.NewCommander(flag.CommandLine, "rave")
	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(cdr.FlagsCommand(), "")
	cdr.Register(cdr.CommandsCommand(), "")

	listCmd := commands.NewListCmd(cfg)
	searchCmd := commands.NewSearchCmd(cfg)
	cdr.Register(listCmd, "")
	cdr.Register(aliasList{listCmd}, "")
	cdr.Register(searchCmd, "")
	cdr.Register(aliasSearch{searchCmd}, "")

	os.Exit(int(cdr.Execute(context.Background())))
}
