package api

import (
	"bytes"
	"fmt"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Shared coders; EncodeAll and DecodeAll are safe for concurrent use.
var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
)

// IsCompressed reports whether b starts with a zstd frame.
func IsCompressed(b []byte) bool {
	return bytes.HasPrefix(b, zstdMagic)
}

// Compress wraps b in a single zstd frame.
func Compress(b []byte) []byte {
	return encoder.EncodeAll(b, make([]byte, 0, len(b)/4))
}

// Decompress inflates a zstd stream produced by Compress or any zstd tool.
func Decompress(b []byte) ([]byte, error) {
	out, err := decoder.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}

func maybeDecompress(b []byte) ([]byte, error) {
	if !IsCompressed(b) {
		return b, nil
	}
	return Decompress(b)
}

// Fingerprint is a short content digest used for manifests and pack
// de-duplication: the xxhash64 of b as 16 hex digits.
func Fingerprint(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}
