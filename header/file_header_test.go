package header

import (
	"bytes"
	"testing"

	"github.com/ag0st/zffgo/codec"
	"github.com/ag0st/zffgo/errs"
)

func TestFileHeaderRoundTripPlaintext(t *testing.T) {
	meta := codec.NewOrderedMap()
	meta.Set("owner", "root")
	h := NewFileHeader(1, 42, FileTypeFile, "evidence.dd", 0, 100, 200, 300, 400, meta)

	encoded := Encode(h)
	decoded, err := DecodeFileHeader(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.FileNumber() != 42 || decoded.Filename() != "evidence.dd" || decoded.FileType() != FileTypeFile {
		t.Fatalf("unexpected decoded header: %+v", decoded)
	}
	owner, ok := decoded.MetadataExt().Get("owner")
	if !ok || owner != "root" {
		t.Fatalf("metadata_ext did not round trip: %v", decoded.MetadataExt())
	}
}

func TestFileHeaderEncryptedRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x09}, 32)
	nonce := bytes.Repeat([]byte{0x01}, 12)

	h := NewFileHeader(1, 7, FileTypeDirectory, "subdir", 1, 1, 2, 3, 4, nil)
	encoded, err := h.EncodeEncryptedContent(key, nonce, EncryptionAES256GCMSIV)
	if err != nil {
		t.Fatalf("encode encrypted: %v", err)
	}
	framed := Encode(rawCoder{identifier: IdentifierFileHeader, version: 1, content: encoded})

	decoded, err := DecodeFileHeaderEncrypted(bytes.NewReader(framed), key, nonce, EncryptionAES256GCMSIV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.FileNumber() != 7 || decoded.Filename() != "subdir" || decoded.FileType() != FileTypeDirectory {
		t.Fatalf("unexpected decoded header: %+v", decoded)
	}
}

func TestFileHeaderEncryptedFileNumberStaysCleartext(t *testing.T) {
	key := bytes.Repeat([]byte{0x09}, 16)
	nonce := bytes.Repeat([]byte{0x02}, 12)

	h := NewFileHeader(1, 123, FileTypeFile, "secret.txt", 0, 0, 0, 0, 0, nil)
	content, err := h.EncodeEncryptedContent(key, nonce, EncryptionAES128GCMSIV)
	if err != nil {
		t.Fatalf("encode encrypted: %v", err)
	}
	framed := Encode(rawCoder{identifier: IdentifierFileHeader, version: 1, content: content})

	// Decode as plaintext: file_number is readable even without the key.
	r := bytes.NewReader(framed)
	_, plainContent, err := DecodeFrame(r, IdentifierFileHeader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fileNumber, err := codec.DecodeUint64(plainContent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fileNumber != 123 {
		t.Fatalf("file number = %d, want 123", fileNumber)
	}
}

func TestTransformToHardlinkLeavesSymlinkUntouched(t *testing.T) {
	h := NewFileHeader(1, 1, FileTypeSymlink, "link", 0, 0, 0, 0, 0, nil)
	h.TransformToHardlink()
	if h.FileType() != FileTypeSymlink {
		t.Fatalf("symlink must not convert to hardlink, got %v", h.FileType())
	}

	f := NewFileHeader(1, 2, FileTypeFile, "f", 0, 0, 0, 0, 0, nil)
	f.TransformToHardlink()
	if f.FileType() != FileTypeHardlink {
		t.Fatalf("file must convert to hardlink, got %v", f.FileType())
	}
}

func TestFileHeaderUnknownFileTypeRejected(t *testing.T) {
	h := NewFileHeader(1, 1, FileTypeFile, "f", 0, 0, 0, 0, 0, nil)
	encoded := Encode(h)

	// corrupt the file_type byte (first byte of inner content, right after
	// file_number) to an out-of-range value.
	fileTypeOffset := len(encoded) - len(h.innerContent())
	encoded[fileTypeOffset] = 7

	_, err := DecodeFileHeader(bytes.NewReader(encoded))
	if !errs.Is(err, errs.KindUnknownFileType) {
		t.Fatalf("expected KindUnknownFileType, got %v", err)
	}
}
