package header

import (
	"bytes"
	"testing"

	"github.com/ag0st/zffgo/errs"
)

func TestPBEHeaderRoundTripPBKDF2(t *testing.T) {
	salt := bytes.Repeat([]byte{0x01}, 16)
	nonce := bytes.Repeat([]byte{0x02}, 16)
	params := NewPBKDF2Parameters(1, 100000, salt)
	h := NewPBEHeader(1, KDFPBKDF2SHA256, PBEAES256CBC, params, nonce)

	encoded := Encode(h)
	decoded, err := DecodePBEHeader(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.KDFScheme() != KDFPBKDF2SHA256 || decoded.PBEScheme() != PBEAES256CBC {
		t.Fatalf("unexpected schemes: %+v", decoded)
	}
	if decoded.KDFParameters().Iterations() != 100000 {
		t.Fatalf("iterations = %d, want 100000", decoded.KDFParameters().Iterations())
	}
	if !bytes.Equal(decoded.Nonce(), nonce) {
		t.Fatalf("nonce mismatch")
	}
}

func TestPBEHeaderRoundTripScrypt(t *testing.T) {
	salt := bytes.Repeat([]byte{0x03}, 16)
	nonce := bytes.Repeat([]byte{0x04}, 16)
	params := NewScryptParameters(1, 15, 1, 8, salt)
	h := NewPBEHeader(1, KDFScrypt, PBEAES128CBC, params, nonce)

	encoded := Encode(h)
	decoded, err := DecodePBEHeader(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.KDFParameters().LogN() != 15 || decoded.KDFParameters().P() != 1 || decoded.KDFParameters().R() != 8 {
		t.Fatalf("unexpected scrypt params: %+v", decoded.KDFParameters())
	}
}

func TestNewPBEHeaderPanicsOnSchemeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on kdf scheme / parameters mismatch")
		}
	}()
	params := NewPBKDF2Parameters(1, 1000, []byte{0x00})
	NewPBEHeader(1, KDFScrypt, PBEAES256CBC, params, bytes.Repeat([]byte{0}, 16))
}

func TestDecodePBEHeaderSchemeMismatchIsMalformed(t *testing.T) {
	// Hand-build a record whose kdf_scheme byte disagrees with the nested
	// KDFParameters variant, which a well-formed encoder never produces.
	salt := bytes.Repeat([]byte{0x05}, 8)
	params := NewPBKDF2Parameters(1, 1000, salt)

	content := make([]byte, 0)
	content = append(content, byte(KDFScrypt)) // claims scrypt...
	content = append(content, byte(PBEAES256CBC))
	content = append(content, Encode(params)...) // ...but nests pbkdf2 parameters
	content = append(content, bytes.Repeat([]byte{0}, 16)...)

	rec := rawCoder{identifier: IdentifierPBEHeader, version: 1, content: content}
	encoded := Encode(rec)

	_, err := DecodePBEHeader(bytes.NewReader(encoded))
	if !errs.Is(err, errs.KindMalformedHeader) {
		t.Fatalf("expected KindMalformedHeader, got %v", err)
	}
}
