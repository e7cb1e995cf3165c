// Package header implements the record envelope shared by every header
// type (MainHeader, EncryptionHeader, PBEHeader, CompressionHeader,
// ChunkHeader, SegmentHeader, FileHeader) and the header types themselves.
//
// Every record is framed as:
//
//	identifier (u32, BE) | total_length (u64, LE) | version (u8) | content...
//
// total_length counts the whole record, including the identifier and the
// length field itself.
package header

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/ag0st/zffgo/errs"
)

// Magic identifiers. These are compared on the wire as big-endian u32s.
const (
	IdentifierMainHeader          uint32 = 0x7A66666D // "zff" + 'm'
	IdentifierEncryptedMainHeader uint32 = 0x7A666645 // "zff" + 'E'
	IdentifierDescriptionHeader   uint32 = 0x7A666664
	IdentifierSplitHeader         uint32 = 0x7A666673
	IdentifierCompressionHeader   uint32 = 0x7A666663
	IdentifierPBEHeader           uint32 = 0x7A666670
	IdentifierEncryptionHeader    uint32 = 0x7A666665
	IdentifierChunkHeader         uint32 = 0x7A666643
	IdentifierSegmentHeader       uint32 = 0x7A666648 // "zff" + 'H'
	IdentifierSegmentFooter       uint32 = 0x7A666666 // "zff" + 'f'
	IdentifierFileHeader          uint32 = 0x7A666658 // "zff" + 'X'
	IdentifierPBEKDFParameters    uint32 = 0x6B646670
)

// Encoding-key tags used with "for key" optional fields (4-byte ASCII).
const (
	KeyCaseNumber      = "cn"
	KeyEvidenceNumber  = "ev"
	KeyExaminerName    = "ex"
	KeyNotes           = "no"
	KeyAcquisitionDate = "ad"
	KeyDescriptionNote = "de"
)

// Coder is implemented by every record type so the envelope framing logic
// can stay a single pair of free functions instead of being duplicated
// per record.
type Coder interface {
	Identifier() uint32
	Version() uint8
	EncodeContent() []byte
}

// Encode frames c per the envelope layout described in the package doc.
func Encode(c Coder) []byte {
	content := c.EncodeContent()
	inner := make([]byte, 0, 1+len(content))
	inner = append(inner, c.Version())
	inner = append(inner, content...)

	totalLength := uint64(4 + 8 + len(inner))

	out := make([]byte, 0, int(totalLength))
	var idBuf [4]byte
	binary.BigEndian.PutUint32(idBuf[:], c.Identifier())
	out = append(out, idBuf[:]...)

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], totalLength)
	out = append(out, lenBuf[:]...)

	out = append(out, inner...)
	return out
}

// DecodeFrame reads the envelope off r, verifies identifier against want,
// and returns the version byte plus a reader bounded to exactly the
// content bytes that follow.
func DecodeFrame(r io.Reader, want uint32) (version uint8, content *bytes.Reader, err error) {
	var idBuf [4]byte
	if _, err = io.ReadFull(r, idBuf[:]); err != nil {
		return 0, nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "short read for record identifier"))
	}
	got := binary.BigEndian.Uint32(idBuf[:])
	if got != want {
		return 0, nil, errs.NewKind(errs.KindMismatchIdentifier, "record identifier mismatch")
	}

	var lenBuf [8]byte
	if _, err = io.ReadFull(r, lenBuf[:]); err != nil {
		return 0, nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "short read for record length"))
	}
	totalLength := binary.LittleEndian.Uint64(lenBuf[:])
	if totalLength < 12 {
		return 0, nil, errs.NewKind(errs.KindMalformedHeader, "record length shorter than envelope")
	}

	body := make([]byte, totalLength-12)
	if len(body) > 0 {
		if _, err = io.ReadFull(r, body); err != nil {
			return 0, nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "short read for record body"))
		}
	}

	br := bytes.NewReader(body)
	var vBuf [1]byte
	if _, err = io.ReadFull(br, vBuf[:]); err != nil {
		return 0, nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "short read for record version"))
	}
	return vBuf[0], br, nil
}
