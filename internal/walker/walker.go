// Package walker enumerates a save's region files across its three
// dimensions and drives the region decoder over each.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jntun/rave/internal/region"
	"github.com/jntun/rave/log"
)

// Dimension identifies one of a save's three fixed dimensions.
type Dimension int

const (
	Overworld Dimension = iota
	Nether
	TheEnd
)

// String names the dimension the way the on-disk layout does.
func (d Dimension) String() string {
	switch d {
	case Overworld:
		return "overworld"
	case Nether:
		return "nether"
	case TheEnd:
		return "the end"
	default:
		return "unknown dimension"
	}
}

// subdir is the directory, relative to the save root, holding a dimension's
// region files.
func (d Dimension) subdir() string {
	switch d {
	case Overworld:
		return filepath.Join("region")
	case Nether:
		return filepath.Join("DIM-1", "region")
	case TheEnd:
		return filepath.Join("DIM1", "region")
	default:
		return ""
	}
}

// dimensions is walked in this fixed order: overworld, then nether, then the
// end.
var dimensions = []Dimension{Overworld, Nether, TheEnd}

// RegionFile is one .mca file discovered under a save root, along with the
// dimension it belongs to.
type RegionFile struct {
	Dimension Dimension
	Path      string
}

// Coords parses the region's own coordinates out of its filename, which
// follows the fixed r.<x>.<z>.mca convention.
func (f RegionFile) Coords() (x, z int, err error) {
	base := filepath.Base(f.Path)
	if _, err := fmt.Sscanf(base, "r.%d.%d.mca", &x, &z); err != nil {
		return 0, 0, fmt.Errorf("parse region coordinates from %q: %w", base, err)
	}
	return x, z, nil
}

// Chunks pairs the decoded chunks of one region file with that file (and so
// the dimension it belongs to).
type Chunks struct {
	RegionFile RegionFile
	Chunks     []region.Chunk
}

// ListRegionFiles enumerates every .mca file under root across all three
// dimensions, in directory-listing order within each dimension and
// overworld -> nether -> end across dimensions. A missing dimension
// directory is an error: dimensions are not optional at this layer.
func ListRegionFiles(root string) ([]RegionFile, error) {
	var files []RegionFile
	for _, dim := range dimensions {
		dir := filepath.Join(root, dim.subdir())
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read %s directory %q: %w", dim, dir, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".mca") {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			files = append(files, RegionFile{Dimension: dim, Path: filepath.Join(dir, name)})
		}
	}
	return files, nil
}

// Walk decodes every region file under root, across all three dimensions, in
// the order ListRegionFiles enumerates them, and returns one Chunks group per
// file in that order.
func Walk(root string) ([]Chunks, error) {
	files, err := ListRegionFiles(root)
	if err != nil {
		return nil, err
	}

	out := make([]Chunks, 0, len(files))
	for _, f := range files {
		log.Debugf("decoding %s region file %s", f.Dimension, f.Path)
		buf, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("read region file %q: %w", f.Path, err)
		}
		chunks, err := region.Decode(buf)
		if err != nil {
			return nil, fmt.Errorf("decode region file %q: %w", f.Path, err)
		}
		out = append(out, Chunks{RegionFile: f, Chunks: chunks})
	}
	return out, nil
}
