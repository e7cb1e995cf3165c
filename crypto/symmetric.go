package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"

	siv "github.com/secure-io/siv-go"

	"github.com/ag0st/zffgo/errs"
)

// Algorithm selects the AEAD cipher used for header and chunk encryption.
// Values mirror header.EncryptionAlgorithm.
type Algorithm uint8

const (
	AES128GCMSIV Algorithm = 0
	AES256GCMSIV Algorithm = 1
)

const chunkNonceSize = 12

func algorithmKeyLength(alg Algorithm) (int, error) {
	switch alg {
	case AES128GCMSIV:
		return 16, nil
	case AES256GCMSIV:
		return 32, nil
	default:
		return 0, errs.NewKind(errs.KindUnknownEncryptionAlgorithm, "unknown encryption algorithm")
	}
}

func newAEAD(key []byte, alg Algorithm) (cipher.AEAD, error) {
	keyLen, err := algorithmKeyLength(alg)
	if err != nil {
		return nil, err
	}
	if len(key) != keyLen {
		return nil, errs.NewKind(errs.KindMalformedHeader, "key length does not match encryption algorithm")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "invalid aes key"))
	}
	aead, err := siv.NewGCM(block)
	if err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "gcm-siv init failed"))
	}
	return aead, nil
}

// chunkNonce derives the 12-byte nonce for a chunk from its number: four
// zero bytes followed by the chunk number, little-endian. Chunk numbers
// are unique per image, so this mapping is injective and every chunk gets
// a unique nonce without needing to store one on the wire.
func chunkNonce(chunkNumber uint64) []byte {
	nonce := make([]byte, chunkNonceSize)
	binary.LittleEndian.PutUint64(nonce[4:], chunkNumber)
	return nonce
}

// EncryptHeaderPayload seals plaintext under key with the fixed 12-byte
// header nonce stored in the image's EncryptionHeader. Reusing this nonce
// across every header in the image is safe only because GCM-SIV is
// misuse-resistant; this must not be done with plain GCM.
func EncryptHeaderPayload(key, plaintext, nonce []byte, alg Algorithm) ([]byte, error) {
	aead, err := newAEAD(key, alg)
	if err != nil {
		return nil, err
	}
	if len(nonce) != chunkNonceSize {
		return nil, errs.NewKind(errs.KindMalformedHeader, "header nonce must be 12 bytes")
	}
	return aead.Seal(nil, nonce, plaintext, nil), nil
}

// DecryptHeaderPayload opens ciphertext under key with the fixed header
// nonce. A tag mismatch (wrong password, tampering) is reported as
// DecryptionFailed.
func DecryptHeaderPayload(key, ciphertext, nonce []byte, alg Algorithm) ([]byte, error) {
	aead, err := newAEAD(key, alg)
	if err != nil {
		return nil, err
	}
	if len(nonce) != chunkNonceSize {
		return nil, errs.NewKind(errs.KindMalformedHeader, "header nonce must be 12 bytes")
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindDecryptionFailed, "header decryption failed"))
	}
	return plaintext, nil
}

// EncryptChunk seals plaintext under key with the nonce derived from
// chunkNumber.
func EncryptChunk(key, plaintext []byte, chunkNumber uint64, alg Algorithm) ([]byte, error) {
	aead, err := newAEAD(key, alg)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, chunkNonce(chunkNumber), plaintext, nil), nil
}

// DecryptChunk opens ciphertext under key with the nonce derived from
// chunkNumber. A tag mismatch is reported as DecryptionFailed.
func DecryptChunk(key, ciphertext []byte, chunkNumber uint64, alg Algorithm) ([]byte, error) {
	aead, err := newAEAD(key, alg)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, chunkNonce(chunkNumber), ciphertext, nil)
	if err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindDecryptionFailed, "chunk decryption failed"))
	}
	return plaintext, nil
}
