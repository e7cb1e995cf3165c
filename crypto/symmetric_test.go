package crypto

import (
	"bytes"
	"testing"

	"github.com/ag0st/zffgo/errs"
)

func TestEncryptDecryptChunkRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x07}, 32)
	plaintext := []byte("a chunk of forensic data")

	ciphertext, err := EncryptChunk(key, plaintext, 42, AES256GCMSIV)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	got, err := DecryptChunk(key, ciphertext, 42, AES256GCMSIV)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("got %q, want %q", got, plaintext)
	}
}

func TestDecryptChunkWrongNumberFails(t *testing.T) {
	key := bytes.Repeat([]byte{0x07}, 16)
	plaintext := []byte("payload")

	ciphertext, err := EncryptChunk(key, plaintext, 1, AES128GCMSIV)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	_, err = DecryptChunk(key, ciphertext, 2, AES128GCMSIV)
	if !errs.Is(err, errs.KindDecryptionFailed) {
		t.Fatalf("expected KindDecryptionFailed, got %v", err)
	}
}

func TestEncryptDecryptHeaderPayloadRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x09}, 32)
	nonce := bytes.Repeat([]byte{0x00}, 12)
	plaintext := []byte("main header inner content")

	ciphertext, err := EncryptHeaderPayload(key, plaintext, nonce, AES256GCMSIV)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	got, err := DecryptHeaderPayload(key, ciphertext, nonce, AES256GCMSIV)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("got %q, want %q", got, plaintext)
	}
}

func TestFixedNonceReuseAcrossDistinctHeadersIsSafe(t *testing.T) {
	key := bytes.Repeat([]byte{0x09}, 16)
	nonce := bytes.Repeat([]byte{0x01}, 12)

	a, err := EncryptHeaderPayload(key, []byte("header A content"), nonce, AES128GCMSIV)
	if err != nil {
		t.Fatalf("encrypt a: %v", err)
	}
	b, err := EncryptHeaderPayload(key, []byte("header B content"), nonce, AES128GCMSIV)
	if err != nil {
		t.Fatalf("encrypt b: %v", err)
	}

	gotA, err := DecryptHeaderPayload(key, a, nonce, AES128GCMSIV)
	if err != nil {
		t.Fatalf("decrypt a: %v", err)
	}
	gotB, err := DecryptHeaderPayload(key, b, nonce, AES128GCMSIV)
	if err != nil {
		t.Fatalf("decrypt b: %v", err)
	}
	if string(gotA) != "header A content" || string(gotB) != "header B content" {
		t.Fatalf("round trip mismatch: %q / %q", gotA, gotB)
	}
}

func TestUnknownAlgorithmRejected(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, 16)
	_, err := EncryptChunk(key, []byte("x"), 1, Algorithm(99))
	if !errs.Is(err, errs.KindUnknownEncryptionAlgorithm) {
		t.Fatalf("expected KindUnknownEncryptionAlgorithm, got %v", err)
	}
}
