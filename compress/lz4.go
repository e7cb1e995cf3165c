package compress

import (
	"bytes"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/ag0st/zffgo/errs"
)

var lz4WriterPool = sync.Pool{
	New: func() any { return lz4.NewWriter(nil) },
}

var lz4ReaderPool = sync.Pool{
	New: func() any { return lz4.NewReader(nil) },
}

// compressLz4 writes buf through the LZ4 *frame* writer. This is a
// wire-compatibility commitment: the block API (lz4.CompressBlock) produces
// bytes that are not interchangeable with the frame format and must not be
// used here.
func compressLz4(buf []byte) ([]byte, error) {
	out := bytes.NewBuffer(nil)

	w := lz4WriterPool.Get().(*lz4.Writer)
	defer lz4WriterPool.Put(w)
	w.Reset(out)

	if _, err := w.Write(buf); err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "lz4 frame encode failed"))
	}
	if err := w.Close(); err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "lz4 frame encode failed"))
	}
	return out.Bytes(), nil
}

func decompressLz4(buf []byte) ([]byte, error) {
	r := lz4ReaderPool.Get().(*lz4.Reader)
	defer lz4ReaderPool.Put(r)
	r.Reset(bytes.NewReader(buf))

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "lz4 frame decode failed"))
	}
	return out, nil
}
