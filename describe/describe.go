// Package describe implements the description/report view (component M):
// a JSON-serialisable, human-facing projection of a decoded main header,
// for inspect-style tooling that prints a header without decoding the
// whole image.
package describe

import (
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/ag0st/zffgo/header"
)

// Summary is the human-facing projection of a MainHeader. chunk_size is
// rendered expanded (1<<k, not the exponent), signature as a bool, and
// segment_size as a string, matching the original format's report view.
type Summary struct {
	HeaderVersion     uint8  `json:"header_version"`
	Encrypted         bool   `json:"encrypted"`
	CompressionAlgorithm string `json:"compression_algorithm"`
	ChunkSize         uint64 `json:"chunk_size"`
	SignatureFlag     bool   `json:"signature_flag"`
	SegmentSize       string `json:"segment_size"`
	UniqueIdentifier  int64  `json:"unique_identifier"`
	DescriptionNotes  string `json:"description_notes,omitempty"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Summarize builds a Summary from a decoded MainHeader.
func Summarize(h *header.MainHeader) Summary {
	notes, hasNotes := h.DescriptionNotes()
	if !hasNotes {
		notes = ""
	}

	algorithm := "none"
	if ch := h.CompressionHeader(); ch != nil {
		algorithm = compressionAlgorithmName(ch.Algorithm())
	}

	return Summary{
		HeaderVersion:         h.Version(),
		Encrypted:             h.EncryptionFlag() != 0,
		CompressionAlgorithm:  algorithm,
		ChunkSize:             h.ChunkSize(),
		SignatureFlag:         h.SignatureFlag(),
		SegmentSize:           strconv.FormatUint(h.SegmentSize(), 10),
		UniqueIdentifier:      h.UniqueIdentifier(),
		DescriptionNotes:      notes,
	}
}

func compressionAlgorithmName(alg header.CompressionAlgorithm) string {
	switch alg {
	case header.CompressionNone:
		return "none"
	case header.CompressionZstd:
		return "zstd"
	case header.CompressionLz4:
		return "lz4"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the summary through json-iterator, kept as a
// dedicated method so callers do not need to know which JSON library
// backs it.
func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	return json.Marshal(alias(s))
}
