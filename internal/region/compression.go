package region

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Compression ids, as they appear after a chunk's length prefix.
const (
	CompressionGZip   byte = 1
	CompressionZlib   byte = 2
	CompressionNone   byte = 3
	CompressionLZ4    byte = 4
	CompressionCustom byte = 127
)

// decompress expands compressed according to the indicated scheme. No silent
// fallback: an unsupported or unrecognized id is always CompressionType,
// never a best-effort passthrough.
func decompress(id byte, compressed []byte) ([]byte, error) {
	switch id {
	case CompressionGZip:
		zr, err := gzip.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, errDecompress(id, err.Error())
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, errDecompress(id, err.Error())
		}
		return out, nil

	case CompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, errDecompress(id, err.Error())
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, errDecompress(id, err.Error())
		}
		return out, nil

	case CompressionNone:
		return compressed, nil

	case CompressionLZ4:
		lr := lz4.NewReader(bytes.NewReader(compressed))
		out, err := io.ReadAll(lr)
		if err != nil {
			return nil, errDecompress(id, err.Error())
		}
		return out, nil

	case CompressionCustom:
		return nil, errCompressionType(id)

	default:
		return nil, errCompressionType(id)
	}
}
