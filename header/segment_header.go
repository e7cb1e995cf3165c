package header

import (
	"bytes"

	"github.com/ag0st/zffgo/codec"
)

// SegmentHeader is the first record in every segment file: it identifies
// which image the segment belongs to, its position in the sequence of
// segments, and where the SegmentFooter begins.
type SegmentHeader struct {
	version          uint8
	segmentNumber    uint64
	uniqueIdentifier int64
	footerOffset     uint64
}

// NewSegmentHeader builds a SegmentHeader. footerOffset is filled in by the
// producer once the segment's chunk run has been written and its length is
// known.
func NewSegmentHeader(version uint8, segmentNumber uint64, uniqueIdentifier int64, footerOffset uint64) *SegmentHeader {
	return &SegmentHeader{
		version:          version,
		segmentNumber:    segmentNumber,
		uniqueIdentifier: uniqueIdentifier,
		footerOffset:     footerOffset,
	}
}

func (h *SegmentHeader) SegmentNumber() uint64    { return h.segmentNumber }
func (h *SegmentHeader) UniqueIdentifier() int64  { return h.uniqueIdentifier }
func (h *SegmentHeader) FooterOffset() uint64     { return h.footerOffset }

// SetFooterOffset back-fills the footer offset once known. Must only be
// called before the header is written.
func (h *SegmentHeader) SetFooterOffset(offset uint64) { h.footerOffset = offset }

func (h *SegmentHeader) Identifier() uint32 { return IdentifierSegmentHeader }
func (h *SegmentHeader) Version() uint8     { return h.version }

func (h *SegmentHeader) EncodeContent() []byte {
	out := make([]byte, 0, 24)
	out = append(out, codec.EncodeUint64(h.segmentNumber)...)
	out = append(out, codec.EncodeInt64(h.uniqueIdentifier)...)
	out = append(out, codec.EncodeUint64(h.footerOffset)...)
	return out
}

// DecodeSegmentHeader reads the full envelope and content for a
// SegmentHeader.
func DecodeSegmentHeader(r *bytes.Reader) (*SegmentHeader, error) {
	version, content, err := DecodeFrame(r, IdentifierSegmentHeader)
	if err != nil {
		return nil, err
	}
	return decodeSegmentHeaderContent(version, content)
}

func decodeSegmentHeaderContent(version uint8, content *bytes.Reader) (*SegmentHeader, error) {
	segmentNumber, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	uniqueIdentifier, err := codec.DecodeInt64(content)
	if err != nil {
		return nil, err
	}
	footerOffset, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	return &SegmentHeader{
		version:          version,
		segmentNumber:    segmentNumber,
		uniqueIdentifier: uniqueIdentifier,
		footerOffset:     footerOffset,
	}, nil
}
