package header

import (
	"bytes"
	"testing"
)

func TestEncryptionHeaderRoundTrip(t *testing.T) {
	salt := bytes.Repeat([]byte{0x01}, 16)
	cbcIV := bytes.Repeat([]byte{0x02}, 16)
	params := NewPBKDF2Parameters(1, 100000, salt)
	pbe := NewPBEHeader(1, KDFPBKDF2SHA256, PBEAES256CBC, params, cbcIV)

	wrappedKey := bytes.Repeat([]byte{0x03}, 48)
	headerNonce := bytes.Repeat([]byte{0x04}, 12)
	h := NewEncryptionHeader(1, pbe, EncryptionAES256GCMSIV, wrappedKey, headerNonce)

	encoded := Encode(h)
	decoded, err := DecodeEncryptionHeader(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Algorithm() != EncryptionAES256GCMSIV {
		t.Fatalf("algorithm = %v, want AES256GCMSIV", decoded.Algorithm())
	}
	if !bytes.Equal(decoded.EncryptedEncryptionKey(), wrappedKey) {
		t.Fatal("encrypted encryption key mismatch")
	}
	if !bytes.Equal(decoded.HeaderNonce(), headerNonce) {
		t.Fatal("header nonce mismatch")
	}
	if decoded.PBEHeader().KDFParameters().Iterations() != 100000 {
		t.Fatal("nested pbe header did not round trip")
	}
}

func TestNewEncryptionHeaderPanicsOnBadNonceLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on wrong nonce length")
		}
	}()
	params := NewPBKDF2Parameters(1, 1000, []byte{0x00})
	pbe := NewPBEHeader(1, KDFPBKDF2SHA256, PBEAES128CBC, params, bytes.Repeat([]byte{0}, 16))
	NewEncryptionHeader(1, pbe, EncryptionAES128GCMSIV, []byte{0x01}, []byte{0x02, 0x03})
}
