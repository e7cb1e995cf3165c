// Package crypto implements the password-based key-wrap layer (component D)
// and the AEAD layer used for header and chunk encryption (component E).
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"

	"github.com/ag0st/zffgo/errs"
)

// KDFScheme selects the password-based key derivation function. Values
// mirror header.KDFScheme.
type KDFScheme uint8

const (
	KDFPBKDF2SHA256 KDFScheme = 0
	KDFScrypt       KDFScheme = 1
)

// PBEScheme selects the cipher used to wrap/unwrap the data key. Values
// mirror header.PBEScheme.
type PBEScheme uint8

const (
	PBEAES128CBC PBEScheme = 0
	PBEAES256CBC PBEScheme = 1
)

func pbeKeyLength(scheme PBEScheme) (int, error) {
	switch scheme {
	case PBEAES128CBC:
		return 16, nil
	case PBEAES256CBC:
		return 32, nil
	default:
		return 0, errs.NewKind(errs.KindMalformedHeader, "unknown pbe scheme")
	}
}

// DeriveWrapKey computes the password-derived wrap key. For KDFPBKDF2SHA256,
// iterations is used; for KDFScrypt, logN/p/r are used. The output length
// matches pbeScheme's key length (16 or 32 bytes).
func DeriveWrapKey(kdfScheme KDFScheme, pbeScheme PBEScheme, password string, salt []byte, iterations uint64, logN uint8, p, r uint32) ([]byte, error) {
	keyLen, err := pbeKeyLength(pbeScheme)
	if err != nil {
		return nil, err
	}

	switch kdfScheme {
	case KDFPBKDF2SHA256:
		return pbkdf2.Key([]byte(password), salt, int(iterations), keyLen, sha256.New), nil
	case KDFScrypt:
		n := 1 << logN
		key, err := scrypt.Key([]byte(password), salt, n, int(r), int(p), keyLen)
		if err != nil {
			return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "scrypt key derivation failed"))
		}
		return key, nil
	default:
		return nil, errs.NewKind(errs.KindMalformedHeader, "unknown kdf scheme")
	}
}

func pbeBlock(pbeScheme PBEScheme, wrapKey []byte) (cipher.Block, error) {
	keyLen, err := pbeKeyLength(pbeScheme)
	if err != nil {
		return nil, err
	}
	if len(wrapKey) != keyLen {
		return nil, errs.NewKind(errs.KindMalformedHeader, "wrap key length does not match pbe scheme")
	}
	block, err := aes.NewCipher(wrapKey)
	if err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "invalid aes key"))
	}
	return block, nil
}

// UnwrapDataKey AES-CBC decrypts encryptedKey under wrapKey with iv, and
// strips PKCS#7 padding. A padding failure surfaces as DecryptionFailed,
// the signal that the password was wrong.
func UnwrapDataKey(pbeScheme PBEScheme, wrapKey []byte, encryptedKey []byte, iv []byte) ([]byte, error) {
	block, err := pbeBlock(pbeScheme, wrapKey)
	if err != nil {
		return nil, err
	}
	if len(encryptedKey) == 0 || len(encryptedKey)%aes.BlockSize != 0 {
		return nil, errs.NewKind(errs.KindDecryptionFailed, "encrypted key is not a multiple of the block size")
	}
	if len(iv) != aes.BlockSize {
		return nil, errs.NewKind(errs.KindMalformedHeader, "iv must be 16 bytes")
	}

	plaintext := make([]byte, len(encryptedKey))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(plaintext, encryptedKey)

	return pkcs7Unpad(plaintext)
}

// WrapDataKey AES-CBC encrypts dataKey under wrapKey with iv, PKCS#7
// padding it to the block size first. Used by producers.
func WrapDataKey(pbeScheme PBEScheme, wrapKey []byte, dataKey []byte, iv []byte) ([]byte, error) {
	block, err := pbeBlock(pbeScheme, wrapKey)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, errs.NewKind(errs.KindMalformedHeader, "iv must be 16 bytes")
	}

	padded := pkcs7Pad(dataKey, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(append([]byte(nil), data...), padding...)
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	n := len(data)
	if n == 0 {
		return nil, errs.NewKind(errs.KindDecryptionFailed, "empty plaintext")
	}
	padLen := int(data[n-1])
	if padLen == 0 || padLen > aes.BlockSize || padLen > n {
		return nil, errs.NewKind(errs.KindDecryptionFailed, "invalid pkcs7 padding")
	}
	for _, b := range data[n-padLen:] {
		if int(b) != padLen {
			return nil, errs.NewKind(errs.KindDecryptionFailed, "invalid pkcs7 padding")
		}
	}
	return data[:n-padLen], nil
}
