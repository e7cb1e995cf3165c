package header

import (
	"bytes"

	"github.com/ag0st/zffgo/codec"
	"github.com/ag0st/zffgo/errs"
)

// KDFScheme selects the password-based key derivation function.
type KDFScheme uint8

const (
	KDFPBKDF2SHA256 KDFScheme = 0
	KDFScrypt       KDFScheme = 1
)

// PBEScheme selects the cipher used to wrap the data key.
type PBEScheme uint8

const (
	PBEAES128CBC PBEScheme = 0
	PBEAES256CBC PBEScheme = 1
)

// KDFParameters carries the parameters for one of the two supported KDF
// schemes. Exactly one of the PBKDF2 or Scrypt field groups is meaningful,
// selected by Scheme.
type KDFParameters struct {
	version uint8
	scheme  KDFScheme

	// PBKDF2-SHA256
	iterations uint64

	// Scrypt
	logN uint8
	p    uint32
	r    uint32

	salt []byte
}

// NewPBKDF2Parameters builds KDFParameters for PBKDF2-HMAC-SHA256.
func NewPBKDF2Parameters(version uint8, iterations uint64, salt []byte) *KDFParameters {
	return &KDFParameters{version: version, scheme: KDFPBKDF2SHA256, iterations: iterations, salt: salt}
}

// NewScryptParameters builds KDFParameters for Scrypt.
func NewScryptParameters(version uint8, logN uint8, p, r uint32, salt []byte) *KDFParameters {
	return &KDFParameters{version: version, scheme: KDFScrypt, logN: logN, p: p, r: r, salt: salt}
}

func (k *KDFParameters) Scheme() KDFScheme  { return k.scheme }
func (k *KDFParameters) Iterations() uint64 { return k.iterations }
func (k *KDFParameters) LogN() uint8        { return k.logN }
func (k *KDFParameters) P() uint32          { return k.p }
func (k *KDFParameters) R() uint32          { return k.r }
func (k *KDFParameters) Salt() []byte       { return k.salt }

func (k *KDFParameters) Identifier() uint32 { return IdentifierPBEKDFParameters }
func (k *KDFParameters) Version() uint8     { return k.version }

func (k *KDFParameters) EncodeContent() []byte {
	out := make([]byte, 0, 16+len(k.salt))
	out = append(out, codec.EncodeUint8(uint8(k.scheme))...)
	switch k.scheme {
	case KDFPBKDF2SHA256:
		out = append(out, codec.EncodeUint64(k.iterations)...)
	case KDFScrypt:
		out = append(out, codec.EncodeUint8(k.logN)...)
		out = append(out, codec.EncodeUint32(k.p)...)
		out = append(out, codec.EncodeUint32(k.r)...)
	}
	out = append(out, codec.EncodeBytes(k.salt)...)
	return out
}

// DecodeKDFParameters reads the full envelope and content for KDFParameters.
func DecodeKDFParameters(r *bytes.Reader) (*KDFParameters, error) {
	version, content, err := DecodeFrame(r, IdentifierPBEKDFParameters)
	if err != nil {
		return nil, err
	}
	return decodeKDFParametersContent(version, content)
}

func decodeKDFParametersContent(version uint8, content *bytes.Reader) (*KDFParameters, error) {
	scheme, err := codec.DecodeUint8(content)
	if err != nil {
		return nil, err
	}
	k := &KDFParameters{version: version, scheme: KDFScheme(scheme)}
	switch k.scheme {
	case KDFPBKDF2SHA256:
		iterations, err := codec.DecodeUint64(content)
		if err != nil {
			return nil, err
		}
		k.iterations = iterations
	case KDFScrypt:
		logN, err := codec.DecodeUint8(content)
		if err != nil {
			return nil, err
		}
		p, err := codec.DecodeUint32(content)
		if err != nil {
			return nil, err
		}
		r, err := codec.DecodeUint32(content)
		if err != nil {
			return nil, err
		}
		k.logN, k.p, k.r = logN, p, r
	default:
		return nil, errs.NewKind(errs.KindMalformedHeader, "unknown kdf scheme")
	}
	salt, err := codec.DecodeBytes(content)
	if err != nil {
		return nil, err
	}
	k.salt = salt
	return k, nil
}

// PBEHeader describes how the symmetric data key is wrapped by a
// password-derived key.
type PBEHeader struct {
	version    uint8
	kdfScheme  KDFScheme
	pbeScheme  PBEScheme
	kdfParams  *KDFParameters
	nonce      []byte // IV for the CBC wrap, 16 bytes
}

// NewPBEHeader builds a PBEHeader. params.Scheme() must equal kdfScheme;
// NewPBEHeader panics otherwise since this is a producer-side programming
// error, not a decode-time condition.
func NewPBEHeader(version uint8, kdfScheme KDFScheme, pbeScheme PBEScheme, params *KDFParameters, nonce []byte) *PBEHeader {
	if params.Scheme() != kdfScheme {
		panic("header: KDF scheme does not match KDF parameters variant")
	}
	return &PBEHeader{
		version:   version,
		kdfScheme: kdfScheme,
		pbeScheme: pbeScheme,
		kdfParams: params,
		nonce:     append([]byte(nil), nonce...),
	}
}

func (h *PBEHeader) KDFScheme() KDFScheme       { return h.kdfScheme }
func (h *PBEHeader) PBEScheme() PBEScheme       { return h.pbeScheme }
func (h *PBEHeader) KDFParameters() *KDFParameters { return h.kdfParams }
func (h *PBEHeader) Nonce() []byte              { return h.nonce }

func (h *PBEHeader) Identifier() uint32 { return IdentifierPBEHeader }
func (h *PBEHeader) Version() uint8     { return h.version }

func (h *PBEHeader) EncodeContent() []byte {
	out := make([]byte, 0, 2+len(h.nonce))
	out = append(out, codec.EncodeUint8(uint8(h.kdfScheme))...)
	out = append(out, codec.EncodeUint8(uint8(h.pbeScheme))...)
	out = append(out, Encode(h.kdfParams)...)
	out = append(out, codec.EncodeFixedBytes(h.nonce)...)
	return out
}

// DecodePBEHeader reads the full envelope and content for a PBEHeader.
func DecodePBEHeader(r *bytes.Reader) (*PBEHeader, error) {
	version, content, err := DecodeFrame(r, IdentifierPBEHeader)
	if err != nil {
		return nil, err
	}
	return decodePBEHeaderContent(version, content)
}

func decodePBEHeaderContent(version uint8, content *bytes.Reader) (*PBEHeader, error) {
	kdfScheme, err := codec.DecodeUint8(content)
	if err != nil {
		return nil, err
	}
	pbeScheme, err := codec.DecodeUint8(content)
	if err != nil {
		return nil, err
	}
	params, err := DecodeKDFParameters(content)
	if err != nil {
		return nil, err
	}
	if params.Scheme() != KDFScheme(kdfScheme) {
		return nil, errs.NewKind(errs.KindMalformedHeader, "kdf scheme does not match kdf parameters variant")
	}
	nonce, err := codec.DecodeFixedBytes(content, 16)
	if err != nil {
		return nil, err
	}
	return &PBEHeader{
		version:   version,
		kdfScheme: KDFScheme(kdfScheme),
		pbeScheme: PBEScheme(pbeScheme),
		kdfParams: params,
		nonce:     nonce,
	}, nil
}
