// Package region decodes Minecraft's Anvil region-file container format: a
// 4 KiB-sector-aligned file holding up to 1024 chunks, each a compressed NBT
// Compound, addressed through a fixed-size location/timestamp directory.
package region

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/jntun/rave/internal/diag"
	"github.com/jntun/rave/internal/nbt"
)

const (
	sectorSize     = 4096
	tableEntries   = 1024
	headerSectors  = 2 // location table + timestamp table
)

// Location is a region file's pointer to a chunk's payload: a sector offset
// from the start of the file and the payload's length in whole sectors.
type Location struct {
	Offset uint32 // sector index
	Sector uint8  // length in 4 KiB sectors
}

// Header pairs a chunk's location with its last-modified timestamp and the
// slot index (0..1023) it occupied in the region's directory.
type Header struct {
	Index     int
	Location  Location
	Timestamp int32
}

// ChunkXZ returns the chunk's coordinates relative to this region's origin,
// derived from its directory slot (dx = index % 32, dz = index / 32).
func (h Header) ChunkXZ() (dx, dz int) {
	return h.Index % 32, h.Index / 32
}

// Chunk pairs a decoded NBT root with the directory header that pointed to it.
type Chunk struct {
	Header Header
	Root   *nbt.Tag
}

// Decode reads every present chunk out of a region-file buffer, in ascending
// location-offset order. An empty buffer yields an empty, error-free result
// so that an absent dimension's directory can be tolerated by callers that
// choose to be lenient about it.
func Decode(buf []byte) ([]Chunk, error) {
	if len(buf) == 0 {
		return nil, nil
	}

	r := bytes.NewReader(buf)

	locs, err := readLocations(r)
	if err != nil {
		return nil, diag.NewReport(buf, len(buf)-r.Len(), errChunkLength())
	}
	timestamps, err := readTimestamps(r)
	if err != nil {
		return nil, diag.NewReport(buf, len(buf)-r.Len(), errChunkLength())
	}

	headers := presentHeaders(locs, timestamps)
	headers = dedupeByOffset(headers)
	sort.SliceStable(headers, func(i, j int) bool {
		return headers[i].Location.Offset < headers[j].Location.Offset
	})

	chunks := make([]Chunk, 0, len(headers))
	for _, h := range headers {
		chunk, err := decodeChunk(buf, r, h)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func readLocations(r *bytes.Reader) ([]Location, error) {
	raw := make([]byte, tableEntries*4)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, err
	}
	locs := make([]Location, tableEntries)
	for i := range locs {
		word := binary.BigEndian.Uint32(raw[i*4 : i*4+4])
		locs[i] = Location{Offset: word >> 8, Sector: byte(word & 0xFF)}
	}
	return locs, nil
}

func readTimestamps(r *bytes.Reader) ([]int32, error) {
	raw := make([]byte, tableEntries*4)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, err
	}
	out := make([]int32, tableEntries)
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(raw[i*4 : i*4+4]))
	}
	return out, nil
}

// presentHeaders retains directory slots where both offset and sector are
// nonzero. A slot with exactly one of the two set to zero is an
// inconsistency and is treated as absent, per the canonical "&&" reading of
// the format (the two revisions of the original parser disagreed on this).
// A slot whose offset points into the header sectors is treated as absent
// too, so every retained offset is at least headerSectors.
func presentHeaders(locs []Location, timestamps []int32) []Header {
	headers := make([]Header, 0, tableEntries)
	for i, loc := range locs {
		if loc.Offset == 0 || loc.Sector == 0 || loc.Offset < headerSectors {
			continue
		}
		headers = append(headers, Header{Index: i, Location: loc, Timestamp: timestamps[i]})
	}
	return headers
}

// dedupeByOffset collapses directory slots that point at the same sector
// offset: the slot that appears last, in original directory-index order,
// wins.
func dedupeByOffset(headers []Header) []Header {
	winner := make(map[uint32]Header, len(headers))
	for _, h := range headers {
		winner[h.Location.Offset] = h
	}
	out := make([]Header, 0, len(winner))
	for _, h := range winner {
		out = append(out, h)
	}
	return out
}

func decodeChunk(buf []byte, r *bytes.Reader, h Header) (Chunk, error) {
	offset := int64(h.Location.Offset) * sectorSize
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return Chunk{}, diag.NewReport(buf, int(offset), errChunkLength())
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Chunk{}, diag.NewReport(buf, len(buf)-r.Len(), errChunkLength())
	}
	length := binary.BigEndian.Uint32(lenBuf[:])

	compression, err := r.ReadByte()
	if err != nil {
		return Chunk{}, diag.NewReport(buf, len(buf)-r.Len(), errCompression())
	}
	compressedPos := len(buf) - r.Len()

	if length == 0 {
		return Chunk{}, diag.NewReport(buf, compressedPos, errChunkLength())
	}
	compressedLen := int64(length) - 1
	if compressedLen < 0 || compressedLen > int64(r.Len()) {
		return Chunk{}, diag.NewReport(buf, compressedPos, errChunkLength())
	}

	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return Chunk{}, diag.NewReport(buf, compressedPos, errChunkLength())
	}

	payload, err := decompress(compression, compressed)
	if err != nil {
		return Chunk{}, diag.NewReport(buf, compressedPos, err)
	}

	dec := nbt.NewDecoder(payload)
	root, err := dec.Decode()
	if err != nil {
		return Chunk{}, diag.NewReport(payload, dec.Pos(), errChunkNBT(err))
	}

	return Chunk{Header: h, Root: root}, nil
}
