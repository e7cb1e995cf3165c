// Package footer implements the SegmentFooter record (component G-footer):
// the segment's total length and the ordered chunk-offset table a Segment
// uses to answer random-access chunk lookups.
package footer

import (
	"bytes"

	"github.com/ag0st/zffgo/codec"
	"github.com/ag0st/zffgo/header"
)

// SegmentFooter carries the segment's total length and the ordered list of
// byte offsets, one per chunk, at which each chunk's ChunkHeader begins.
// Entry i corresponds to chunk number initial_chunk_number+i, where
// initial_chunk_number is recovered from the segment's first ChunkHeader.
type SegmentFooter struct {
	version         uint8
	lengthOfSegment uint64
	chunkOffsets    []uint64
	footerOffset    uint64
}

// NewEmptySegmentFooter returns a SegmentFooter with no offsets yet, ready
// for a producer to fill in as chunks are appended.
func NewEmptySegmentFooter(version uint8) *SegmentFooter {
	return &SegmentFooter{version: version}
}

// NewSegmentFooter builds a fully-populated SegmentFooter.
func NewSegmentFooter(version uint8, lengthOfSegment uint64, chunkOffsets []uint64, footerOffset uint64) *SegmentFooter {
	return &SegmentFooter{
		version:         version,
		lengthOfSegment: lengthOfSegment,
		chunkOffsets:    append([]uint64(nil), chunkOffsets...),
		footerOffset:    footerOffset,
	}
}

func (f *SegmentFooter) LengthOfSegment() uint64 { return f.lengthOfSegment }
func (f *SegmentFooter) ChunkOffsets() []uint64  { return f.chunkOffsets }
func (f *SegmentFooter) FooterOffset() uint64    { return f.footerOffset }

// SetLengthOfSegment back-fills the segment's total length once known.
func (f *SegmentFooter) SetLengthOfSegment(length uint64) { f.lengthOfSegment = length }

// AddOffset appends the byte offset of the next chunk's ChunkHeader, in
// chunk-number order.
func (f *SegmentFooter) AddOffset(offset uint64) { f.chunkOffsets = append(f.chunkOffsets, offset) }

// SetFooterOffset back-fills the footer's own self-offset, informational
// only - a Segment learns the footer's position from the SegmentHeader, not
// from this field.
func (f *SegmentFooter) SetFooterOffset(offset uint64) { f.footerOffset = offset }

func (f *SegmentFooter) Identifier() uint32 { return header.IdentifierSegmentFooter }
func (f *SegmentFooter) Version() uint8     { return f.version }

func (f *SegmentFooter) EncodeContent() []byte {
	out := make([]byte, 0, 24+8*len(f.chunkOffsets))
	out = append(out, codec.EncodeUint64(f.lengthOfSegment)...)
	out = append(out, codec.EncodeUint64Slice(f.chunkOffsets)...)
	out = append(out, codec.EncodeUint64(f.footerOffset)...)
	return out
}

// Decode reads the full envelope and content for a SegmentFooter.
func Decode(r *bytes.Reader) (*SegmentFooter, error) {
	version, content, err := header.DecodeFrame(r, header.IdentifierSegmentFooter)
	if err != nil {
		return nil, err
	}
	return decodeContent(version, content)
}

func decodeContent(version uint8, content *bytes.Reader) (*SegmentFooter, error) {
	lengthOfSegment, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	chunkOffsets, err := codec.DecodeUint64Slice(content)
	if err != nil {
		return nil, err
	}
	footerOffset, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	return &SegmentFooter{
		version:         version,
		lengthOfSegment: lengthOfSegment,
		chunkOffsets:    chunkOffsets,
		footerOffset:    footerOffset,
	}, nil
}
