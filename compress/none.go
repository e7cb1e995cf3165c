package compress

func compressNone(buf []byte) ([]byte, error) {
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

func decompressNone(buf []byte) ([]byte, error) {
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}
