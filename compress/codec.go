// Package compress implements the chunk compression codec (component C):
// None, Zstd, and LZ4 in its frame (not block) format.
package compress

import (
	"strings"

	"github.com/ag0st/zffgo/header"
)

// Algorithm is an alias of header.CompressionAlgorithm so callers that only
// need the compression codec don't have to import header directly.
type Algorithm = header.CompressionAlgorithm

const (
	None Algorithm = header.CompressionNone
	Zstd Algorithm = header.CompressionZstd
	Lz4  Algorithm = header.CompressionLz4
)

// ParseAlgorithm parses alg case-insensitively: "zstd" -> Zstd, "lz4" ->
// Lz4, anything else -> None.
func ParseAlgorithm(alg string) Algorithm {
	switch strings.ToLower(alg) {
	case "zstd":
		return Zstd
	case "lz4":
		return Lz4
	default:
		return None
	}
}

// Compress encodes buf under algorithm at the given level. level is ignored
// by None and Lz4's frame writer (which has no per-call level knob worth
// exposing here).
func Compress(buf []byte, algorithm Algorithm, level int) ([]byte, error) {
	switch algorithm {
	case Zstd:
		return compressZstd(buf, level)
	case Lz4:
		return compressLz4(buf)
	default:
		return compressNone(buf)
	}
}

// Decompress decodes buf, previously produced by Compress under the same
// algorithm.
func Decompress(buf []byte, algorithm Algorithm) ([]byte, error) {
	switch algorithm {
	case Zstd:
		return decompressZstd(buf)
	case Lz4:
		return decompressLz4(buf)
	default:
		return decompressNone(buf)
	}
}
