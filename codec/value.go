// Package codec implements the typed on-wire value encoding shared by every
// header record: fixed-width little-endian primitives, length-prefixed
// variable-length items, and "for key" tagged optional fields.
//
// All multi-byte primitives are little-endian. Variable-length items (byte
// slices, strings, sequences, maps) are prefixed by an 8-byte unsigned count
// followed by the elements in insertion order.
package codec

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/ag0st/zffgo/errs"
)

// EncodeUint8 appends a single byte.
func EncodeUint8(v uint8) []byte {
	return []byte{v}
}

// DecodeUint8 reads a single byte.
func DecodeUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "short read for uint8"))
	}
	return buf[0], nil
}

// EncodeUint32 appends a little-endian uint32.
func EncodeUint32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}

// DecodeUint32 reads a little-endian uint32.
func DecodeUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "short read for uint32"))
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// EncodeUint64 appends a little-endian uint64.
func EncodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// DecodeUint64 reads a little-endian uint64.
func DecodeUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "short read for uint64"))
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// EncodeInt64 appends a little-endian int64.
func EncodeInt64(v int64) []byte {
	return EncodeUint64(uint64(v))
}

// DecodeInt64 reads a little-endian int64.
func DecodeInt64(r io.Reader) (int64, error) {
	v, err := DecodeUint64(r)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// EncodeLength appends the 8-byte unsigned count prefix used by every
// variable-length item.
func EncodeLength(n int) []byte {
	if n < 0 || uint64(n) > math.MaxUint64 {
		panic("codec: length overflow")
	}
	return EncodeUint64(uint64(n))
}

// DecodeLength reads the 8-byte unsigned count prefix.
func DecodeLength(r io.Reader) (uint64, error) {
	return DecodeUint64(r)
}

// EncodeBytes appends a length-prefixed byte slice.
func EncodeBytes(v []byte) []byte {
	out := make([]byte, 0, 8+len(v))
	out = append(out, EncodeLength(len(v))...)
	out = append(out, v...)
	return out
}

// DecodeBytes reads a length-prefixed byte slice.
func DecodeBytes(r io.Reader) ([]byte, error) {
	n, err := DecodeLength(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "short read for byte slice"))
		}
	}
	return buf, nil
}

// EncodeFixedBytes appends a raw, non-length-prefixed byte slice. Used for
// fixed-size fields (nonces, signatures) whose size is implied by context.
func EncodeFixedBytes(v []byte) []byte {
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

// DecodeFixedBytes reads exactly n raw bytes.
func DecodeFixedBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "short read for fixed byte slice"))
	}
	return buf, nil
}

// EncodeString appends a length-prefixed UTF-8 string.
func EncodeString(v string) []byte {
	return EncodeBytes([]byte(v))
}

// DecodeString reads a length-prefixed UTF-8 string.
func DecodeString(r io.Reader) (string, error) {
	b, err := DecodeBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeUint64Slice appends a length-prefixed sequence of little-endian
// uint64 values, in order (used for the segment footer's chunk offset
// table).
func EncodeUint64Slice(v []uint64) []byte {
	out := make([]byte, 0, 8+8*len(v))
	out = append(out, EncodeLength(len(v))...)
	for _, e := range v {
		out = append(out, EncodeUint64(e)...)
	}
	return out
}

// DecodeUint64Slice reads a length-prefixed sequence of little-endian uint64
// values.
func DecodeUint64Slice(r io.Reader) ([]uint64, error) {
	n, err := DecodeLength(r)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := DecodeUint64(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
