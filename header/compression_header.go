package header

import (
	"bytes"

	"github.com/ag0st/zffgo/codec"
)

// CompressionAlgorithm selects the codec used on chunk payloads.
type CompressionAlgorithm uint8

const (
	CompressionNone CompressionAlgorithm = 0
	CompressionZstd CompressionAlgorithm = 1
	CompressionLz4  CompressionAlgorithm = 2
)

// CompressionHeader selects the compression algorithm and its parameters.
type CompressionHeader struct {
	version   uint8
	algorithm CompressionAlgorithm
	level     uint8
	threshold uint8
}

// NewCompressionHeader builds a CompressionHeader. threshold is the minimum
// compression ratio (in percent) below which a producer may choose to
// store a chunk uncompressed; 0 disables the threshold check.
func NewCompressionHeader(version uint8, algorithm CompressionAlgorithm, level, threshold uint8) *CompressionHeader {
	return &CompressionHeader{version: version, algorithm: algorithm, level: level, threshold: threshold}
}

func (h *CompressionHeader) Algorithm() CompressionAlgorithm { return h.algorithm }
func (h *CompressionHeader) Level() uint8                    { return h.level }
func (h *CompressionHeader) Threshold() uint8                { return h.threshold }

func (h *CompressionHeader) Identifier() uint32 { return IdentifierCompressionHeader }
func (h *CompressionHeader) Version() uint8     { return h.version }

func (h *CompressionHeader) EncodeContent() []byte {
	out := make([]byte, 0, 3)
	out = append(out, codec.EncodeUint8(uint8(h.algorithm))...)
	out = append(out, codec.EncodeUint8(h.level)...)
	out = append(out, codec.EncodeUint8(h.threshold)...)
	return out
}

// DecodeCompressionHeader reads the full envelope and content for a
// CompressionHeader.
func DecodeCompressionHeader(r *bytes.Reader) (*CompressionHeader, error) {
	version, content, err := DecodeFrame(r, IdentifierCompressionHeader)
	if err != nil {
		return nil, err
	}
	return decodeCompressionHeaderContent(version, content)
}

func decodeCompressionHeaderContent(version uint8, content *bytes.Reader) (*CompressionHeader, error) {
	alg, err := codec.DecodeUint8(content)
	if err != nil {
		return nil, err
	}
	level, err := codec.DecodeUint8(content)
	if err != nil {
		return nil, err
	}
	threshold, err := codec.DecodeUint8(content)
	if err != nil {
		return nil, err
	}
	return &CompressionHeader{
		version:   version,
		algorithm: CompressionAlgorithm(alg),
		level:     level,
		threshold: threshold,
	}, nil
}
