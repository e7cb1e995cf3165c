package codec

import (
	"bytes"
	"io"

	"github.com/ag0st/zffgo/errs"
)

// EncodeForKey emits the 4-byte key tag followed by encoded, the
// already-encoded value, unchanged. Used to mark optional fields.
func EncodeForKey(key string, encoded []byte) []byte {
	out := make([]byte, 0, 4+len(encoded))
	out = append(out, keyBytes(key)...)
	out = append(out, encoded...)
	return out
}

func keyBytes(key string) []byte {
	b := make([]byte, 4)
	copy(b, key)
	return b
}

// DecodeStringForKey peeks a 4-byte big-endian key tag at the reader's
// current position. If it matches key, the tag is consumed and the
// length-prefixed string value that follows is decoded and returned. If it
// does not match (or the reader is exhausted), the cursor is left exactly
// where it was and errs.KindKeyNotOnPosition is returned - this is the
// sentinel callers use to treat the field as absent, not as a failure.
func DecodeStringForKey(r *bytes.Reader, key string) (string, error) {
	start := currentOffset(r)
	var tag [4]byte
	n, err := io.ReadFull(r, tag[:])
	if err != nil || n < 4 || !bytes.Equal(tag[:], keyBytes(key)) {
		r.Seek(start, io.SeekStart)
		return "", errs.NewKind(errs.KindKeyNotOnPosition, "key not at position: "+key)
	}
	v, err := DecodeString(r)
	if err != nil {
		return "", err
	}
	return v, nil
}

func currentOffset(r *bytes.Reader) int64 {
	off, _ := r.Seek(0, io.SeekCurrent)
	return off
}
