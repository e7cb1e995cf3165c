package header

import (
	"bytes"

	"github.com/ag0st/zffgo/codec"
)

// EncryptionAlgorithm selects the AEAD cipher used for header and chunk
// encryption.
type EncryptionAlgorithm uint8

const (
	EncryptionAES128GCMSIV EncryptionAlgorithm = 0
	EncryptionAES256GCMSIV EncryptionAlgorithm = 1
)

const headerNonceSize = 12

// EncryptionHeader wraps the parameters needed to recover the symmetric
// data key from a password, plus the fixed nonce used for every header
// encryption in the image.
type EncryptionHeader struct {
	version              uint8
	pbeHeader            *PBEHeader
	algorithm            EncryptionAlgorithm
	encryptedEncryptionKey []byte
	headerNonce          []byte // 12 bytes, constant across all headers
}

// NewEncryptionHeader builds an EncryptionHeader. encryptedEncryptionKey is
// the data key already wrapped by the PBE layer; headerNonce must be 12
// bytes.
func NewEncryptionHeader(version uint8, pbeHeader *PBEHeader, algorithm EncryptionAlgorithm, encryptedEncryptionKey, headerNonce []byte) *EncryptionHeader {
	if len(headerNonce) != headerNonceSize {
		panic("header: header nonce must be 12 bytes")
	}
	return &EncryptionHeader{
		version:                version,
		pbeHeader:              pbeHeader,
		algorithm:              algorithm,
		encryptedEncryptionKey: append([]byte(nil), encryptedEncryptionKey...),
		headerNonce:            append([]byte(nil), headerNonce...),
	}
}

func (h *EncryptionHeader) PBEHeader() *PBEHeader             { return h.pbeHeader }
func (h *EncryptionHeader) Algorithm() EncryptionAlgorithm    { return h.algorithm }
func (h *EncryptionHeader) EncryptedEncryptionKey() []byte    { return h.encryptedEncryptionKey }
func (h *EncryptionHeader) HeaderNonce() []byte               { return h.headerNonce }

func (h *EncryptionHeader) Identifier() uint32 { return IdentifierEncryptionHeader }
func (h *EncryptionHeader) Version() uint8     { return h.version }

func (h *EncryptionHeader) EncodeContent() []byte {
	out := make([]byte, 0, 1+len(h.encryptedEncryptionKey)+headerNonceSize)
	out = append(out, Encode(h.pbeHeader)...)
	out = append(out, codec.EncodeUint8(uint8(h.algorithm))...)
	out = append(out, codec.EncodeBytes(h.encryptedEncryptionKey)...)
	out = append(out, codec.EncodeFixedBytes(h.headerNonce)...)
	return out
}

// DecodeEncryptionHeader reads the full envelope and content for an
// EncryptionHeader.
func DecodeEncryptionHeader(r *bytes.Reader) (*EncryptionHeader, error) {
	version, content, err := DecodeFrame(r, IdentifierEncryptionHeader)
	if err != nil {
		return nil, err
	}
	return decodeEncryptionHeaderContent(version, content)
}

func decodeEncryptionHeaderContent(version uint8, content *bytes.Reader) (*EncryptionHeader, error) {
	pbeHeader, err := DecodePBEHeader(content)
	if err != nil {
		return nil, err
	}
	alg, err := codec.DecodeUint8(content)
	if err != nil {
		return nil, err
	}
	key, err := codec.DecodeBytes(content)
	if err != nil {
		return nil, err
	}
	nonce, err := codec.DecodeFixedBytes(content, headerNonceSize)
	if err != nil {
		return nil, err
	}
	return &EncryptionHeader{
		version:                version,
		pbeHeader:              pbeHeader,
		algorithm:              EncryptionAlgorithm(alg),
		encryptedEncryptionKey: key,
		headerNonce:            nonce,
	}, nil
}
