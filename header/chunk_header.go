package header

import (
	"bytes"

	"github.com/ag0st/zffgo/codec"
	"github.com/ag0st/zffgo/errs"
)

const (
	chunkFlagError       uint8 = 1 << 0
	chunkFlagCompression uint8 = 1 << 1
)

const signatureSize = 64

// ChunkHeader carries per-chunk metadata: its globally unique number, the
// size of the payload that follows it, the CRC32 of that payload before
// compression/encryption, flags, and an optional Ed25519 signature.
//
// Producers build an empty header with NewChunkHeader and back-fill size,
// CRC32, and signature with the Set* methods before the header is framed
// and written - once written, a ChunkHeader must not be mutated again.
type ChunkHeader struct {
	version         uint8
	chunkNumber     uint64
	chunkSize       uint64
	crc32           uint32
	errorFlag       bool
	compressionFlag bool
	signature       []byte // nil, or exactly 64 bytes
}

// NewChunkHeader returns an empty ChunkHeader for chunkNumber, ready for a
// producer to back-fill via the Set* methods.
func NewChunkHeader(version uint8, chunkNumber uint64) *ChunkHeader {
	return &ChunkHeader{version: version, chunkNumber: chunkNumber}
}

func (c *ChunkHeader) ChunkNumber() uint64    { return c.chunkNumber }
func (c *ChunkHeader) ChunkSize() uint64      { return c.chunkSize }
func (c *ChunkHeader) CRC32() uint32          { return c.crc32 }
func (c *ChunkHeader) ErrorFlag() bool        { return c.errorFlag }
func (c *ChunkHeader) CompressionFlag() bool  { return c.compressionFlag }
func (c *ChunkHeader) Signature() []byte      { return c.signature }
func (c *ChunkHeader) HasSignature() bool     { return c.signature != nil }

// SetChunkSize records the size, in bytes, of the payload following this
// header once it has been compressed and encrypted.
func (c *ChunkHeader) SetChunkSize(size uint64) { c.chunkSize = size }

// SetCRC32 records the CRC32 of the uncompressed, unencrypted payload.
func (c *ChunkHeader) SetCRC32(crc uint32) { c.crc32 = crc }

// SetErrorFlag marks that the source could not be read for this chunk.
func (c *ChunkHeader) SetErrorFlag(v bool) { c.errorFlag = v }

// SetCompressionFlag marks whether the payload following this header is
// compressed.
func (c *ChunkHeader) SetCompressionFlag(v bool) { c.compressionFlag = v }

// SetSignature attaches a 64-byte Ed25519 signature. Passing nil removes
// any previously set signature.
func (c *ChunkHeader) SetSignature(sig []byte) error {
	if sig == nil {
		c.signature = nil
		return nil
	}
	if len(sig) != signatureSize {
		return errs.NewKind(errs.KindMalformedHeader, "ed25519 signature must be 64 bytes")
	}
	c.signature = append([]byte(nil), sig...)
	return nil
}

func (c *ChunkHeader) Identifier() uint32 { return IdentifierChunkHeader }
func (c *ChunkHeader) Version() uint8     { return c.version }

func (c *ChunkHeader) flags() uint8 {
	var f uint8
	if c.errorFlag {
		f |= chunkFlagError
	}
	if c.compressionFlag {
		f |= chunkFlagCompression
	}
	return f
}

// EncodeContent implements Coder.
func (c *ChunkHeader) EncodeContent() []byte {
	out := make([]byte, 0, 21+signatureSize)
	out = append(out, codec.EncodeUint64(c.chunkNumber)...)
	out = append(out, codec.EncodeUint64(c.chunkSize)...)
	out = append(out, codec.EncodeUint32(c.crc32)...)
	out = append(out, codec.EncodeUint8(c.flags())...)
	if c.signature != nil {
		out = append(out, codec.EncodeFixedBytes(c.signature)...)
	}
	return out
}

// DecodeChunkHeader reads the full envelope and content for a ChunkHeader.
func DecodeChunkHeader(r *bytes.Reader) (*ChunkHeader, error) {
	version, content, err := DecodeFrame(r, IdentifierChunkHeader)
	if err != nil {
		return nil, err
	}
	return decodeChunkHeaderContent(version, content)
}

func decodeChunkHeaderContent(version uint8, content *bytes.Reader) (*ChunkHeader, error) {
	c := &ChunkHeader{version: version}

	chunkNumber, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	c.chunkNumber = chunkNumber

	chunkSize, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	c.chunkSize = chunkSize

	crc, err := codec.DecodeUint32(content)
	if err != nil {
		return nil, err
	}
	c.crc32 = crc

	flags, err := codec.DecodeUint8(content)
	if err != nil {
		return nil, err
	}
	c.errorFlag = flags&chunkFlagError != 0
	c.compressionFlag = flags&chunkFlagCompression != 0

	// Signature presence is signalled by bytes remaining in the record,
	// not by a flag bit.
	if content.Len() > 0 {
		sig, err := codec.DecodeFixedBytes(content, signatureSize)
		if err != nil {
			return nil, err
		}
		c.signature = sig
	}

	return c, nil
}
