// zstd.go
// Adapted from mmp-vice/pkg/util/resources.go's LoadResource/DecompressZstd:
// the teacher decompresses zstd-packed startup resources; the compiler
// reuses the same library to decompress the magnetic grid sample table
// (§4.8). Binary scenery archives are read as-is, without decompression.
package util

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// DecompressZstd decodes a zstd-compressed byte slice in one shot. Used
// for the magnetic grid samples.
func DecompressZstd(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(b, nil)
}

// NewZstdReader wraps r in a streaming zstd decompressor. The caller
// must call Close when done to release the decoder's goroutines.
func NewZstdReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &zstdReadCloser{dec: dec}, nil
}

type zstdReadCloser struct {
	dec *zstd.Decoder
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.dec.Read(p) }
func (z *zstdReadCloser) Close() error                { z.dec.Close(); return nil }
