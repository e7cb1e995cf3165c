package header

import (
	"bytes"
	"testing"

	"github.com/ag0st/zffgo/errs"
)

type stubRecord struct {
	identifier uint32
	version    uint8
	content    []byte
}

func (s stubRecord) Identifier() uint32   { return s.identifier }
func (s stubRecord) Version() uint8       { return s.version }
func (s stubRecord) EncodeContent() []byte { return s.content }

func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	rec := stubRecord{identifier: 0x7A666643, version: 1, content: []byte("payload")}
	encoded := Encode(rec)

	r := bytes.NewReader(encoded)
	version, content, err := DecodeFrame(r, rec.identifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != rec.version {
		t.Fatalf("version = %d, want %d", version, rec.version)
	}
	got := make([]byte, content.Len())
	content.Read(got)
	if !bytes.Equal(got, rec.content) {
		t.Fatalf("content = %q, want %q", got, rec.content)
	}
}

func TestDecodeFrameMismatchedIdentifier(t *testing.T) {
	rec := stubRecord{identifier: 0x7A666643, version: 1, content: []byte("x")}
	encoded := Encode(rec)
	r := bytes.NewReader(encoded)

	_, _, err := DecodeFrame(r, 0x7A666664)
	if !errs.Is(err, errs.KindMismatchIdentifier) {
		t.Fatalf("expected KindMismatchIdentifier, got %v", err)
	}
}

func TestDecodeFrameShortRecordLength(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	var idBuf [4]byte
	idBuf[0], idBuf[1], idBuf[2], idBuf[3] = 0x7A, 0x66, 0x66, 0x43
	buf.Write(idBuf[:])
	buf.Write([]byte{1, 0, 0, 0, 0, 0, 0, 0}) // total_length = 1, shorter than the 12-byte envelope

	_, _, err := DecodeFrame(bytes.NewReader(buf.Bytes()), 0x7A666643)
	if !errs.Is(err, errs.KindMalformedHeader) {
		t.Fatalf("expected KindMalformedHeader, got %v", err)
	}
}
