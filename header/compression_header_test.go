package header

import (
	"bytes"
	"testing"
)

func TestCompressionHeaderRoundTrip(t *testing.T) {
	h := NewCompressionHeader(1, CompressionZstd, 3, 90)
	encoded := Encode(h)

	decoded, err := DecodeCompressionHeader(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Algorithm() != CompressionZstd || decoded.Level() != 3 || decoded.Threshold() != 90 {
		t.Fatalf("unexpected decoded header: %+v", decoded)
	}
}
