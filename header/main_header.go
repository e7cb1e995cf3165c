package header

import (
	"bytes"

	"github.com/ag0st/zffgo/codec"
	"github.com/ag0st/zffgo/crypto"
	"github.com/ag0st/zffgo/errs"
	"github.com/google/uuid"
)

// Encryption flag values for MainHeader.
const (
	mainHeaderFlagPlaintext       uint8 = 0 // no encryption envelope
	mainHeaderFlagEnvelopeOnly    uint8 = 1 // envelope present, inner content plaintext
	mainHeaderFlagEnvelopeEncrypt uint8 = 2 // envelope present, inner content encrypted
)

// MainHeader is the root descriptor of an image.
type MainHeader struct {
	version           uint8
	encryptionFlag    uint8
	encryptionHeader  *EncryptionHeader // nil unless encryptionFlag >= 1
	compressionHeader *CompressionHeader
	chunkSizeExponent uint8
	signatureFlag     bool
	segmentSize       uint64
	uniqueIdentifier  int64
	hasDescription    bool
	descriptionNotes  string
}

// NewUniqueIdentifier draws a fresh UUID and folds it into a signed 64-bit
// value by XORing its high and low halves, giving collision resistance
// equivalent to a UUID within the i64 wire field. Purely a producer-side
// convenience - decoding never depends on this scheme.
func NewUniqueIdentifier() int64 {
	id := uuid.New()
	var hi, lo uint64
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(id[i])
	}
	for i := 8; i < 16; i++ {
		lo = lo<<8 | uint64(id[i])
	}
	return int64(hi ^ lo)
}

// NewMainHeader builds a plaintext MainHeader (no encryption envelope).
func NewMainHeader(version uint8, compressionHeader *CompressionHeader, chunkSizeExponent uint8, signatureFlag bool, segmentSize uint64, uniqueIdentifier int64) *MainHeader {
	return &MainHeader{
		version:           version,
		encryptionFlag:    mainHeaderFlagPlaintext,
		compressionHeader: compressionHeader,
		chunkSizeExponent: chunkSizeExponent,
		signatureFlag:     signatureFlag,
		segmentSize:       segmentSize,
		uniqueIdentifier:  uniqueIdentifier,
	}
}

// SetEncryptionHeader attaches an EncryptionHeader and raises the
// encryption flag to envelope-only (1). Use EncodeEncrypted to frame the
// header with the inner content encrypted (flag 2).
func (h *MainHeader) SetEncryptionHeader(e *EncryptionHeader) {
	h.encryptionHeader = e
	if h.encryptionFlag == mainHeaderFlagPlaintext {
		h.encryptionFlag = mainHeaderFlagEnvelopeOnly
	}
}

// SetDescriptionNotes attaches optional free-text description notes.
func (h *MainHeader) SetDescriptionNotes(notes string) {
	h.hasDescription = true
	h.descriptionNotes = notes
}

func (h *MainHeader) Version() uint8                      { return h.version }
func (h *MainHeader) EncryptionFlag() uint8                { return h.encryptionFlag }
func (h *MainHeader) EncryptionHeader() *EncryptionHeader  { return h.encryptionHeader }
func (h *MainHeader) CompressionHeader() *CompressionHeader { return h.compressionHeader }
func (h *MainHeader) ChunkSizeExponent() uint8             { return h.chunkSizeExponent }
func (h *MainHeader) ChunkSize() uint64                    { return 1 << h.chunkSizeExponent }
func (h *MainHeader) SignatureFlag() bool                  { return h.signatureFlag }
func (h *MainHeader) SegmentSize() uint64                  { return h.segmentSize }
func (h *MainHeader) UniqueIdentifier() int64              { return h.uniqueIdentifier }

// DescriptionNotes returns the description notes and whether they were set.
func (h *MainHeader) DescriptionNotes() (string, bool) { return h.descriptionNotes, h.hasDescription }

// innerContent encodes everything from the compression header onward -
// the part that is either left plaintext (flag 1) or AEAD-encrypted as one
// blob (flag 2).
func (h *MainHeader) innerContent() []byte {
	out := make([]byte, 0, 64)
	out = append(out, Encode(h.compressionHeader)...)
	out = append(out, codec.EncodeUint8(h.chunkSizeExponent)...)
	out = append(out, codec.EncodeUint8(boolToByte(h.signatureFlag))...)
	out = append(out, codec.EncodeUint64(h.segmentSize)...)
	out = append(out, codec.EncodeInt64(h.uniqueIdentifier)...)
	if h.hasDescription {
		out = append(out, codec.EncodeForKey(KeyDescriptionNote, codec.EncodeString(h.descriptionNotes))...)
	}
	return out
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Encode frames the MainHeader for encryptionFlag 0 (plaintext) or 1
// (envelope present, inner content still plaintext). Use EncodeEncrypted
// for flag 2.
func (h *MainHeader) Encode() ([]byte, error) {
	if h.encryptionFlag == mainHeaderFlagEnvelopeEncrypt {
		return nil, errs.New("MainHeader: use EncodeEncrypted for encryption_flag 2")
	}

	content := make([]byte, 0, 128)
	content = append(content, codec.EncodeUint8(h.encryptionFlag)...)
	if h.encryptionFlag == mainHeaderFlagEnvelopeOnly {
		if h.encryptionHeader == nil {
			return nil, errs.NewKind(errs.KindMissingEncryptionHeader, "encryption_flag 1 requires an EncryptionHeader")
		}
		content = append(content, Encode(h.encryptionHeader)...)
	}
	content = append(content, h.innerContent()...)

	return encodeFramed(IdentifierMainHeader, h.version, content), nil
}

// EncodeEncrypted frames the MainHeader under the ENCRYPTED_MAIN_HEADER
// identifier with encryption_flag 2: the EncryptionHeader stays plaintext,
// everything from the compression header onward is AEAD-encrypted as one
// blob under dataKey.
func (h *MainHeader) EncodeEncrypted(dataKey []byte) ([]byte, error) {
	if h.encryptionHeader == nil {
		return nil, errs.NewKind(errs.KindMissingEncryptionHeader, "encryption_flag 2 requires an EncryptionHeader")
	}
	ciphertext, err := crypto.EncryptHeaderPayload(dataKey, h.innerContent(), h.encryptionHeader.HeaderNonce(), crypto.Algorithm(h.encryptionHeader.Algorithm()))
	if err != nil {
		return nil, err
	}

	content := make([]byte, 0, 128)
	content = append(content, codec.EncodeUint8(mainHeaderFlagEnvelopeEncrypt)...)
	content = append(content, Encode(h.encryptionHeader)...)
	content = append(content, codec.EncodeBytes(ciphertext)...)

	return encodeFramed(IdentifierEncryptedMainHeader, h.version, content), nil
}

func encodeFramed(identifier uint32, version uint8, content []byte) []byte {
	return Encode(rawCoder{identifier: identifier, version: version, content: content})
}

// rawCoder adapts already-assembled content bytes to the Coder interface so
// Encode can be reused for records whose content depends on runtime
// arguments (a key, in MainHeader's case) rather than just the record's
// own fields.
type rawCoder struct {
	identifier uint32
	version    uint8
	content    []byte
}

func (c rawCoder) Identifier() uint32   { return c.identifier }
func (c rawCoder) Version() uint8       { return c.version }
func (c rawCoder) EncodeContent() []byte { return c.content }

// DecodeMainHeader reads a plaintext MainHeader record (encryption_flag 0
// or 1). Use DecodeMainHeaderEncrypted for the ENCRYPTED_MAIN_HEADER
// identifier.
func DecodeMainHeader(r *bytes.Reader) (*MainHeader, error) {
	version, content, err := DecodeFrame(r, IdentifierMainHeader)
	if err != nil {
		return nil, err
	}

	flag, err := codec.DecodeUint8(content)
	if err != nil {
		return nil, err
	}
	if flag > 1 {
		return nil, errs.NewKind(errs.KindEncryptedMainHeader, "encryption_flag out of range for plaintext main header")
	}

	h := &MainHeader{version: version, encryptionFlag: flag}
	if flag == mainHeaderFlagEnvelopeOnly {
		encHeader, err := DecodeEncryptionHeader(content)
		if err != nil {
			return nil, err
		}
		h.encryptionHeader = encHeader
	}

	if err := h.decodeInnerContent(content); err != nil {
		return nil, err
	}
	return h, nil
}

// DecodeMainHeaderEncrypted reads an ENCRYPTED_MAIN_HEADER record and
// recovers the data key from password via the embedded EncryptionHeader's
// PBE parameters, then decrypts and decodes the inner content.
func DecodeMainHeaderEncrypted(r *bytes.Reader, password string) (*MainHeader, error) {
	version, content, err := DecodeFrame(r, IdentifierEncryptedMainHeader)
	if err != nil {
		return nil, err
	}

	flag, err := codec.DecodeUint8(content)
	if err != nil {
		return nil, err
	}
	if flag != mainHeaderFlagEnvelopeEncrypt {
		return nil, errs.NewKind(errs.KindEncryptedMainHeader, "encrypted main header requires encryption_flag 2")
	}

	encHeader, err := DecodeEncryptionHeader(content)
	if err != nil {
		return nil, err
	}

	dataKey, err := recoverDataKey(encHeader, password)
	if err != nil {
		return nil, err
	}

	ciphertext, err := codec.DecodeBytes(content)
	if err != nil {
		return nil, err
	}
	plaintext, err := crypto.DecryptHeaderPayload(dataKey, ciphertext, encHeader.HeaderNonce(), crypto.Algorithm(encHeader.Algorithm()))
	if err != nil {
		return nil, err
	}

	h := &MainHeader{version: version, encryptionFlag: flag, encryptionHeader: encHeader}
	if err := h.decodeInnerContent(bytes.NewReader(plaintext)); err != nil {
		return nil, err
	}
	return h, nil
}

// recoverDataKey derives the wrap key from password per the EncryptionHeader's
// PBEHeader, then unwraps the stored encrypted data key.
func recoverDataKey(encHeader *EncryptionHeader, password string) ([]byte, error) {
	pbe := encHeader.PBEHeader()
	params := pbe.KDFParameters()

	wrapKey, err := crypto.DeriveWrapKey(
		crypto.KDFScheme(pbe.KDFScheme()),
		crypto.PBEScheme(pbe.PBEScheme()),
		password,
		params.Salt(),
		params.Iterations(),
		params.LogN(),
		params.P(),
		params.R(),
	)
	if err != nil {
		return nil, err
	}

	return crypto.UnwrapDataKey(crypto.PBEScheme(pbe.PBEScheme()), wrapKey, encHeader.EncryptedEncryptionKey(), pbe.Nonce())
}

func (h *MainHeader) decodeInnerContent(content *bytes.Reader) error {
	compressionHeader, err := DecodeCompressionHeader(content)
	if err != nil {
		return err
	}
	h.compressionHeader = compressionHeader

	chunkSizeExponent, err := codec.DecodeUint8(content)
	if err != nil {
		return err
	}
	h.chunkSizeExponent = chunkSizeExponent

	signatureByte, err := codec.DecodeUint8(content)
	if err != nil {
		return err
	}
	h.signatureFlag = signatureByte != 0

	segmentSize, err := codec.DecodeUint64(content)
	if err != nil {
		return err
	}
	h.segmentSize = segmentSize

	uniqueIdentifier, err := codec.DecodeInt64(content)
	if err != nil {
		return err
	}
	h.uniqueIdentifier = uniqueIdentifier

	notes, err := codec.DecodeStringForKey(content, KeyDescriptionNote)
	if err != nil {
		if errs.Is(err, errs.KindKeyNotOnPosition) {
			return nil
		}
		return err
	}
	h.hasDescription = true
	h.descriptionNotes = notes
	return nil
}
