package region

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"testing"
)

// buildNBT assembles TAG_Compound("") { TAG_String("Name") = "hello" }, TAG_End.
func buildNBT() []byte {
	var b []byte
	b = append(b, 10) // IDCompound
	b = append(b, 0, 0) // name length 0
	b = append(b, 8) // IDString
	b = append(b, 0, 4) // name length 4
	b = append(b, "Name"...)
	b = append(b, 0, 5) // value length 5
	b = append(b, "hello"...)
	b = append(b, 0) // IDEnd, closes the compound
	return b
}

// buildRegion assembles a minimal but well-formed region file with a single
// chunk at directory slot 0, stored with the given compression (zlib or none).
func buildRegion(t *testing.T, compression byte, payload []byte) []byte {
	t.Helper()

	var compressed bytes.Buffer
	switch compression {
	case CompressionZlib:
		zw := zlib.NewWriter(&compressed)
		if _, err := zw.Write(payload); err != nil {
			t.Fatalf("zlib write: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("zlib close: %v", err)
		}
	case CompressionNone:
		compressed.Write(payload)
	default:
		t.Fatalf("unsupported compression in test fixture: %d", compression)
	}

	chunkData := compressed.Bytes()
	length := uint32(len(chunkData) + 1) // +1 for the compression-type byte

	var chunkSector bytes.Buffer
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], length)
	chunkSector.Write(lenBuf[:])
	chunkSector.WriteByte(compression)
	chunkSector.Write(chunkData)
	for chunkSector.Len()%sectorSize != 0 {
		chunkSector.WriteByte(0)
	}
	sectors := chunkSector.Len() / sectorSize

	buf := make([]byte, headerSectors*sectorSize)
	// slot 0's location entry: offset = headerSectors (sector 2), sector count
	word := uint32(headerSectors)<<8 | uint32(sectors)
	binary.BigEndian.PutUint32(buf[0:4], word)
	// slot 0's timestamp
	binary.BigEndian.PutUint32(buf[sectorSize:sectorSize+4], 12345)

	buf = append(buf, chunkSector.Bytes()...)
	return buf
}

func TestDecodeEmptyBuffer(t *testing.T) {
	chunks, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode(nil) error = %v", err)
	}
	if chunks != nil {
		t.Fatalf("Decode(nil) = %v, want nil", chunks)
	}
}

func TestDecodeSingleChunk(t *testing.T) {
	buf := buildRegion(t, CompressionZlib, buildNBT())

	chunks, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	chunk := chunks[0]
	if chunk.Header.Index != 0 {
		t.Fatalf("Index = %d, want 0", chunk.Header.Index)
	}
	if chunk.Header.Timestamp != 12345 {
		t.Fatalf("Timestamp = %d, want 12345", chunk.Header.Timestamp)
	}
	if chunk.Root == nil || chunk.Root.Type != 10 {
		t.Fatalf("Root = %+v, want a Compound tag", chunk.Root)
	}
}

func TestDecodeUnsupportedCompression(t *testing.T) {
	buf := buildRegion(t, CompressionNone, buildNBT())
	// flip the compression byte at offset headerSectors*sectorSize+4 to an
	// unsupported id.
	buf[headerSectors*sectorSize+4] = 127

	_, err := Decode(buf)
	if err == nil {
		t.Fatal("Decode() error = nil, want an error")
	}
	var regionErr *Error
	if !errors.As(err, &regionErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if regionErr.Kind != CompressionType {
		t.Fatalf("Kind = %v, want CompressionType", regionErr.Kind)
	}
}

func TestPresentHeadersRequiresBothOffsetAndSector(t *testing.T) {
	locs := []Location{
		{Offset: 0, Sector: 1}, // inconsistent: offset zero
		{Offset: 5, Sector: 0}, // inconsistent: sector zero
		{Offset: 5, Sector: 1}, // present
	}
	timestamps := make([]int32, len(locs))

	headers := presentHeaders(locs, timestamps)
	if len(headers) != 1 {
		t.Fatalf("len(headers) = %d, want 1", len(headers))
	}
	if headers[0].Index != 2 {
		t.Fatalf("Index = %d, want 2", headers[0].Index)
	}
}
