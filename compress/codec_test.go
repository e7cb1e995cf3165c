package compress

import (
	"bytes"
	"testing"
)

func TestParseAlgorithmCaseInsensitive(t *testing.T) {
	cases := map[string]Algorithm{
		"zstd":    Zstd,
		"ZSTD":    Zstd,
		"Lz4":     Lz4,
		"lz4":     Lz4,
		"":        None,
		"garbage": None,
	}
	for in, want := range cases {
		if got := ParseAlgorithm(in); got != want {
			t.Errorf("ParseAlgorithm(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRoundTripNone(t *testing.T) {
	buf := bytes.Repeat([]byte("zff"), 1024)
	compressed, err := Compress(buf, None, 0)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	got, err := Decompress(compressed, None)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(got, buf) {
		t.Fatal("round trip mismatch")
	}
}

func TestRoundTripZstd(t *testing.T) {
	buf := bytes.Repeat([]byte("zff"), 1024)
	compressed, err := Compress(buf, Zstd, 3)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	got, err := Decompress(compressed, Zstd)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(got, buf) {
		t.Fatal("round trip mismatch")
	}
}

func TestRoundTripLz4(t *testing.T) {
	buf := bytes.Repeat([]byte("zff"), 1024)
	compressed, err := Compress(buf, Lz4, 0)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	got, err := Decompress(compressed, Lz4)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(got, buf) {
		t.Fatal("round trip mismatch")
	}
}

func TestRoundTripEmptyBuffer(t *testing.T) {
	for _, alg := range []Algorithm{None, Zstd, Lz4} {
		compressed, err := Compress(nil, alg, 0)
		if err != nil {
			t.Fatalf("compress (alg=%v): %v", alg, err)
		}
		got, err := Decompress(compressed, alg)
		if err != nil {
			t.Fatalf("decompress (alg=%v): %v", alg, err)
		}
		if len(got) != 0 {
			t.Fatalf("alg=%v: got %v, want empty", alg, got)
		}
	}
}
