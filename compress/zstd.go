package compress

import (
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/ag0st/zffgo/errs"
)

var zstdEncoderPool = sync.Pool{
	New: func() any {
		enc, _ := zstd.NewWriter(nil)
		return enc
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, _ := zstd.NewReader(nil)
		return dec
	},
}

// compressZstd encodes buf at the given zstd level. klauspost/compress pins
// the encoder level at construction time via zstd.WithEncoderLevel, so only
// level 0 (the library default) goes through the pooled encoder; any other
// level builds a dedicated encoder for the call.
func compressZstd(buf []byte, level int) ([]byte, error) {
	if level != 0 {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		if err != nil {
			return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "zstd encoder init failed"))
		}
		defer enc.Close()
		return enc.EncodeAll(buf, nil), nil
	}
	enc := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(buf, nil), nil
}

func decompressZstd(buf []byte) ([]byte, error) {
	dec := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	out, err := dec.DecodeAll(buf, nil)
	if err != nil {
		return nil, errs.WrapWithError(err, errs.NewKind(errs.KindMalformedHeader, "zstd decode failed"))
	}
	return out, nil
}
