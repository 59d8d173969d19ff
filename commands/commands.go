// Package commands provides the subcommands supported by this tool: list and
// search, both driven by the shared --root/--index options in config.Config.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/jntun/rave/internal/config"
	"github.com/jntun/rave/internal/diag"
)

// stdout and stderr are package-level so tests can redirect them without
// touching os.Stdout/os.Stderr globally.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// chunkCoords returns a chunk's absolute coordinates given the region file's
// own coordinates (parsed from its r.<rx>.<rz>.mca name) and its slot within
// that region's directory.
func chunkCoords(rx, rz, dx, dz int) (x, z int) {
	return rx*32 + dx, rz*32 + dz
}

// selectIndex narrows items to the single element at cfg.Index when the
// caller asked for one, or returns items unchanged otherwise. An out-of-range
// index is reported as an error, not silently truncated to empty.
func selectIndex[T any](items []T, cfg *config.Config) ([]T, error) {
	if !cfg.HasIndex {
		return items, nil
	}
	if int(cfg.Index) >= len(items) {
		return nil, fmt.Errorf("--index %d is out of range (%d result(s))", cfg.Index, len(items))
	}
	return items[cfg.Index : cfg.Index+1], nil
}

// reportError prints a failure in the system's two-part shape: a single
// category line, followed by a diagnostic hex dump when the error carries
// one.
func reportError(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error operating on save: %s\n", err)
	var report *diag.Report
	if errors.As(err, &report) {
		fmt.Fprint(stderr, report.HexDump())
	}
	return subcommands.ExitFailure
}
