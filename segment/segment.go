// Package segment implements the segment engine (component J): opening a
// segment, materialising its chunk-offset index from the footer, and
// serving random-access chunk reads, optionally decrypted and decompressed.
package segment

import (
	"bytes"
	"io"

	"github.com/ag0st/zffgo/compress"
	"github.com/ag0st/zffgo/crypto"
	"github.com/ag0st/zffgo/errs"
	"github.com/ag0st/zffgo/footer"
	"github.com/ag0st/zffgo/header"
)

// Segment owns a readable, seekable byte source holding one physical
// container file: a SegmentHeader, a run of chunks, and a SegmentFooter.
// A Segment is not safe for concurrent use - chunk_data* mutates the
// underlying stream's cursor.
type Segment struct {
	r              io.ReadSeeker
	segmentHeader  *header.SegmentHeader
	chunkOffsets   map[uint64]uint64
	initialChunk   uint64
}

// Open decodes the segment header, the first chunk header (to learn the
// segment's starting chunk number), and the footer, then builds the
// chunk-number to byte-offset index. r is left positioned just after the
// segment header, matching the original's "decode again on the way back"
// behaviour.
func Open(r io.ReadSeeker) (*Segment, error) {
	streamPosition, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindIO, "seek failed"))
	}

	segmentHeader, err := decodeSegmentHeaderAt(r)
	if err != nil {
		return nil, err
	}

	firstChunk, err := decodeChunkHeaderAt(r)
	if err != nil {
		return nil, err
	}
	initialChunk := firstChunk.ChunkNumber()

	if _, err := r.Seek(int64(segmentHeader.FooterOffset()), io.SeekStart); err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindIO, "seek to footer failed"))
	}
	segFooter, err := decodeSegmentFooterAt(r)
	if err != nil {
		return nil, err
	}

	offsets := make(map[uint64]uint64, len(segFooter.ChunkOffsets()))
	for i, offset := range segFooter.ChunkOffsets() {
		offsets[initialChunk+uint64(i)] = offset
	}

	if _, err := r.Seek(streamPosition, io.SeekStart); err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindIO, "seek back to segment header failed"))
	}
	// Re-decode so the reader ends up positioned just after the header,
	// ready for a caller to walk the chunk run sequentially if it wants to.
	segmentHeader, err = decodeSegmentHeaderAt(r)
	if err != nil {
		return nil, err
	}

	return &Segment{
		r:             r,
		segmentHeader: segmentHeader,
		chunkOffsets:  offsets,
		initialChunk:  initialChunk,
	}, nil
}

func decodeSegmentHeaderAt(r io.Reader) (*header.SegmentHeader, error) {
	buf, err := readFrameBytes(r)
	if err != nil {
		return nil, err
	}
	return header.DecodeSegmentHeader(bytes.NewReader(buf))
}

func decodeChunkHeaderAt(r io.Reader) (*header.ChunkHeader, error) {
	buf, err := readFrameBytes(r)
	if err != nil {
		return nil, err
	}
	return header.DecodeChunkHeader(bytes.NewReader(buf))
}

func decodeSegmentFooterAt(r io.Reader) (*footer.SegmentFooter, error) {
	buf, err := readFrameBytes(r)
	if err != nil {
		return nil, err
	}
	return footer.Decode(bytes.NewReader(buf))
}

// readFrameBytes reads one framed record's worth of bytes (identifier,
// length, and body) off r without needing to know the record type ahead of
// time, so the decoders above can be handed a self-contained byte slice.
func readFrameBytes(r io.Reader) ([]byte, error) {
	var prefix [12]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "short read for record prefix"))
	}
	totalLength := leUint64(prefix[4:12])
	if totalLength < 12 {
		return nil, errs.NewKind(errs.KindMalformedHeader, "record length shorter than envelope")
	}
	body := make([]byte, totalLength-12)
	if len(body) > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "short read for record body"))
		}
	}
	out := make([]byte, 0, totalLength)
	out = append(out, prefix[:]...)
	out = append(out, body...)
	return out, nil
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// Header returns the segment's header.
func (s *Segment) Header() *header.SegmentHeader { return s.segmentHeader }

// ChunkOffsets returns the chunk-number to byte-offset index built at Open.
func (s *Segment) ChunkOffsets() map[uint64]uint64 { return s.chunkOffsets }

// ChunkData seeks to chunk_number's offset, decodes its ChunkHeader, reads
// exactly chunk_size bytes of payload, and decompresses it.
func (s *Segment) ChunkData(chunkNumber uint64, algorithm header.CompressionAlgorithm) ([]byte, error) {
	raw, err := s.readChunkPayload(chunkNumber)
	if err != nil {
		return nil, err
	}
	return compress.Decompress(raw, algorithm)
}

// ChunkDataDecrypted is ChunkData plus an AEAD decrypt step, keyed by
// chunk_number, before decompression.
func (s *Segment) ChunkDataDecrypted(chunkNumber uint64, algorithm header.CompressionAlgorithm, key []byte, encAlgorithm header.EncryptionAlgorithm) ([]byte, error) {
	raw, err := s.readChunkPayload(chunkNumber)
	if err != nil {
		return nil, err
	}
	plaintext, err := crypto.DecryptChunk(key, raw, chunkNumber, crypto.Algorithm(encAlgorithm))
	if err != nil {
		return nil, err
	}
	return compress.Decompress(plaintext, algorithm)
}

func (s *Segment) readChunkPayload(chunkNumber uint64) ([]byte, error) {
	offset, ok := s.chunkOffsets[chunkNumber]
	if !ok {
		return nil, errs.NewKind(errs.KindChunkNumberNotInSegment, "chunk number not in segment")
	}

	if _, err := s.r.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindIO, "seek to chunk failed"))
	}
	chunkHeader, err := decodeChunkHeaderAt(s.r)
	if err != nil {
		return nil, err
	}

	payloadOffset, err := s.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindIO, "seek failed"))
	}

	section := io.NewSectionReader(asReaderAt(s.r), payloadOffset, int64(chunkHeader.ChunkSize()))
	payload := make([]byte, chunkHeader.ChunkSize())
	if _, err := io.ReadFull(section, payload); err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindIO, "short read for chunk payload"))
	}
	return payload, nil
}

// asReaderAt adapts an io.ReadSeeker to io.ReaderAt for io.SectionReader,
// the Go analogue of a bounded slice over the stream. Every ReadSeeker this
// package is handed (*os.File, *minio.Object) already implements ReaderAt;
// this narrows the interface back down for the one caller that needs it.
func asReaderAt(r io.ReadSeeker) io.ReaderAt {
	if ra, ok := r.(io.ReaderAt); ok {
		return ra
	}
	return &seekReaderAt{r: r}
}

// seekReaderAt is a fallback io.ReaderAt for a ReadSeeker that does not
// natively implement it. It is not safe for concurrent use, consistent
// with the rest of Segment.
type seekReaderAt struct {
	r io.ReadSeeker
}

func (s *seekReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if _, err := s.r.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return io.ReadFull(s.r, p)
}
