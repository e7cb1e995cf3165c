package codec

import (
	"bytes"
	"testing"

	"github.com/ag0st/zffgo/errs"
)

func TestUint8RoundTrip(t *testing.T) {
	buf := bytes.NewReader(EncodeUint8(0xAB))
	got, err := DecodeUint8(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0xAB {
		t.Fatalf("got %x, want %x", got, 0xAB)
	}
}

func TestUint32RoundTrip(t *testing.T) {
	buf := bytes.NewReader(EncodeUint32(0xDEADBEEF))
	got, err := DecodeUint32(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Fatalf("got %x, want %x", got, 0xDEADBEEF)
	}
}

func TestUint64RoundTrip(t *testing.T) {
	buf := bytes.NewReader(EncodeUint64(1 << 40))
	got, err := DecodeUint64(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1<<40 {
		t.Fatalf("got %d, want %d", got, 1<<40)
	}
}

func TestInt64RoundTripNegative(t *testing.T) {
	buf := bytes.NewReader(EncodeInt64(-42))
	got, err := DecodeInt64(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -42 {
		t.Fatalf("got %d, want %d", got, -42)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	in := []byte("forensic image chunk")
	buf := bytes.NewReader(EncodeBytes(in))
	got, err := DecodeBytes(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Fatalf("got %q, want %q", got, in)
	}
}

func TestBytesRoundTripEmpty(t *testing.T) {
	buf := bytes.NewReader(EncodeBytes(nil))
	got, err := DecodeBytes(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	buf := bytes.NewReader(EncodeString("zffgo"))
	got, err := DecodeString(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "zffgo" {
		t.Fatalf("got %q, want %q", got, "zffgo")
	}
}

func TestFixedBytesRoundTrip(t *testing.T) {
	in := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	buf := bytes.NewReader(EncodeFixedBytes(in))
	got, err := DecodeFixedBytes(buf, len(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Fatalf("got %v, want %v", got, in)
	}
}

func TestUint64SliceRoundTrip(t *testing.T) {
	in := []uint64{0, 1, 4096, 1 << 32}
	buf := bytes.NewReader(EncodeUint64Slice(in))
	got, err := DecodeUint64Slice(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(in) {
		t.Fatalf("got %d elements, want %d", len(got), len(in))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Fatalf("element %d: got %d, want %d", i, got[i], in[i])
		}
	}
}

func TestDecodeShortReadIsMalformedHeader(t *testing.T) {
	buf := bytes.NewReader([]byte{0x01, 0x02})
	_, err := DecodeUint64(buf)
	if err == nil {
		t.Fatal("expected error on short read")
	}
	if !errs.Is(err, errs.KindMalformedHeader) {
		t.Fatalf("expected KindMalformedHeader, got %v", err)
	}
}
