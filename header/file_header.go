package header

import (
	"bytes"
	"fmt"

	"github.com/ag0st/zffgo/codec"
	"github.com/ag0st/zffgo/crypto"
	"github.com/ag0st/zffgo/errs"
)

// FileType classifies the filesystem object a FileHeader describes.
type FileType uint8

const (
	FileTypeFile      FileType = 1
	FileTypeDirectory FileType = 2
	FileTypeSymlink   FileType = 3
	FileTypeHardlink  FileType = 4
)

func (t FileType) String() string {
	switch t {
	case FileTypeFile:
		return "File"
	case FileTypeDirectory:
		return "Directory"
	case FileTypeSymlink:
		return "Symlink"
	case FileTypeHardlink:
		return "Hardlink"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// FileHeader is a per-file metadata record. It may optionally be
// header-encrypted: the file number stays in cleartext so the object can
// be located/indexed without decrypting anything, while everything else
// is AEAD-encrypted as one blob.
type FileHeader struct {
	version          uint8
	fileNumber       uint64
	fileType         FileType
	filename         string
	parentFileNumber uint64
	atime            uint64
	mtime            uint64
	ctime            uint64
	btime            uint64
	metadataExt      *codec.OrderedMap
}

// NewFileHeader builds a FileHeader.
func NewFileHeader(version uint8, fileNumber uint64, fileType FileType, filename string, parentFileNumber uint64, atime, mtime, ctime, btime uint64, metadataExt *codec.OrderedMap) *FileHeader {
	if metadataExt == nil {
		metadataExt = codec.NewOrderedMap()
	}
	return &FileHeader{
		version:          version,
		fileNumber:       fileNumber,
		fileType:         fileType,
		filename:         filename,
		parentFileNumber: parentFileNumber,
		atime:            atime,
		mtime:            mtime,
		ctime:            ctime,
		btime:            btime,
		metadataExt:      metadataExt,
	}
}

func (h *FileHeader) FileNumber() uint64             { return h.fileNumber }
func (h *FileHeader) FileType() FileType             { return h.fileType }
func (h *FileHeader) Filename() string               { return h.filename }
func (h *FileHeader) ParentFileNumber() uint64       { return h.parentFileNumber }
func (h *FileHeader) ATime() uint64                  { return h.atime }
func (h *FileHeader) MTime() uint64                  { return h.mtime }
func (h *FileHeader) CTime() uint64                  { return h.ctime }
func (h *FileHeader) BTime() uint64                  { return h.btime }
func (h *FileHeader) MetadataExt() *codec.OrderedMap { return h.metadataExt }

// TransformToHardlink converts a File into a Hardlink. A Symlink is left
// untouched - symlinks are never reinterpreted as hardlinks.
func (h *FileHeader) TransformToHardlink() {
	if h.fileType == FileTypeSymlink {
		return
	}
	h.fileType = FileTypeHardlink
}

func (h *FileHeader) Identifier() uint32 { return IdentifierFileHeader }
func (h *FileHeader) Version() uint8     { return h.version }

func (h *FileHeader) innerContent() []byte {
	out := make([]byte, 0, 64+len(h.filename))
	out = append(out, codec.EncodeUint8(uint8(h.fileType))...)
	out = append(out, codec.EncodeString(h.filename)...)
	out = append(out, codec.EncodeUint64(h.parentFileNumber)...)
	out = append(out, codec.EncodeUint64(h.atime)...)
	out = append(out, codec.EncodeUint64(h.mtime)...)
	out = append(out, codec.EncodeUint64(h.ctime)...)
	out = append(out, codec.EncodeUint64(h.btime)...)
	out = append(out, codec.EncodeOrderedMap(h.metadataExt)...)
	return out
}

// EncodeContent implements Coder for the plaintext (not header-encrypted)
// form: file_number followed by the inner content.
func (h *FileHeader) EncodeContent() []byte {
	out := make([]byte, 0, 8+64+len(h.filename))
	out = append(out, codec.EncodeUint64(h.fileNumber)...)
	out = append(out, h.innerContent()...)
	return out
}

// EncodeEncryptedContent encodes the header-encrypted form: file_number
// stays cleartext, everything else is AEAD-sealed under key/nonce/alg.
func (h *FileHeader) EncodeEncryptedContent(key []byte, nonce []byte, alg EncryptionAlgorithm) ([]byte, error) {
	ciphertext, err := crypto.EncryptHeaderPayload(key, h.innerContent(), nonce, crypto.Algorithm(alg))
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 8+8+len(ciphertext))
	out = append(out, codec.EncodeUint64(h.fileNumber)...)
	out = append(out, codec.EncodeBytes(ciphertext)...)
	return out, nil
}

// DecodeFileHeader reads the envelope and plaintext content for a
// FileHeader that is not header-encrypted.
func DecodeFileHeader(r *bytes.Reader) (*FileHeader, error) {
	version, content, err := DecodeFrame(r, IdentifierFileHeader)
	if err != nil {
		return nil, err
	}
	fileNumber, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	return decodeFileHeaderInner(version, fileNumber, content)
}

// DecodeFileHeaderEncrypted reads the envelope for a header-encrypted
// FileHeader, decrypts the inner content with key/nonce/alg, and decodes
// it.
func DecodeFileHeaderEncrypted(r *bytes.Reader, key []byte, nonce []byte, alg EncryptionAlgorithm) (*FileHeader, error) {
	version, content, err := DecodeFrame(r, IdentifierFileHeader)
	if err != nil {
		return nil, err
	}
	fileNumber, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	ciphertext, err := codec.DecodeBytes(content)
	if err != nil {
		return nil, err
	}
	plaintext, err := crypto.DecryptHeaderPayload(key, ciphertext, nonce, crypto.Algorithm(alg))
	if err != nil {
		return nil, err
	}
	return decodeFileHeaderInner(version, fileNumber, bytes.NewReader(plaintext))
}

func decodeFileHeaderInner(version uint8, fileNumber uint64, content *bytes.Reader) (*FileHeader, error) {
	fileTypeByte, err := codec.DecodeUint8(content)
	if err != nil {
		return nil, err
	}
	fileType := FileType(fileTypeByte)
	switch fileType {
	case FileTypeFile, FileTypeDirectory, FileTypeSymlink, FileTypeHardlink:
	default:
		return nil, errs.NewKind(errs.KindUnknownFileType, fmt.Sprintf("unknown file type %d", fileTypeByte))
	}

	filename, err := codec.DecodeString(content)
	if err != nil {
		return nil, err
	}
	parentFileNumber, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	atime, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	mtime, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	ctime, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	btime, err := codec.DecodeUint64(content)
	if err != nil {
		return nil, err
	}
	metadataExt, err := codec.DecodeOrderedMap(content)
	if err != nil {
		return nil, err
	}

	return &FileHeader{
		version:          version,
		fileNumber:       fileNumber,
		fileType:         fileType,
		filename:         filename,
		parentFileNumber: parentFileNumber,
		atime:            atime,
		mtime:            mtime,
		ctime:            ctime,
		btime:            btime,
		metadataExt:      metadataExt,
	}, nil
}
