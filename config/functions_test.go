package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ag0st/zffgo/compress"
	"github.com/ag0st/zffgo/header"
)

const sampleConfig = `
container:
  chunk_size_exponent: 15
  segment_size: "2 GBi"
  compression:
    algorithm: zstd
    level: 3
    threshold: 90
  signature: true
  pbe:
    kdf: scrypt
    pbe_scheme: aes256cbc
    iterations: 0
    logn: 15
    p: 8
    r: 1
objectstore:
  endpoint: "localhost:9000"
  access_key: "minioadmin"
  secret_key: "minioadmin"
  bucket: "evidence"
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestNewConfigParsesContainerAndObjectStore(t *testing.T) {
	path := writeTempConfig(t, sampleConfig)

	cfg, err := NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	if cfg.Container().ChunkSizeExponent() != 15 {
		t.Fatalf("chunk size exponent = %d, want 15", cfg.Container().ChunkSizeExponent())
	}
	if cfg.Container().SegmentSize() != 2<<30 {
		t.Fatalf("segment size = %d, want %d", cfg.Container().SegmentSize(), 2<<30)
	}
	if cfg.Container().Compression().Algorithm() != compress.Zstd {
		t.Fatalf("compression algorithm = %v, want Zstd", cfg.Container().Compression().Algorithm())
	}
	if !cfg.Container().Signature() {
		t.Fatal("signature should be true")
	}
	if cfg.Container().PBE().KDF() != header.KDFScrypt {
		t.Fatalf("kdf = %v, want scrypt", cfg.Container().PBE().KDF())
	}
	if cfg.Container().PBE().PBEScheme() != header.PBEAES256CBC {
		t.Fatalf("pbe scheme = %v, want aes256cbc", cfg.Container().PBE().PBEScheme())
	}
	if cfg.ObjectStore().Bucket() != "evidence" {
		t.Fatalf("bucket = %q, want evidence", cfg.ObjectStore().Bucket())
	}
	if cfg.ObjectStore().Endpoint() != "localhost:9000" {
		t.Fatalf("endpoint = %q", cfg.ObjectStore().Endpoint())
	}
}

func TestNewConfigRejectsUnknownKDF(t *testing.T) {
	bad := `
container:
  chunk_size_exponent: 15
  segment_size: "1 MBi"
  compression:
    algorithm: none
  signature: false
  pbe:
    kdf: argon2
    pbe_scheme: aes256cbc
objectstore:
  endpoint: "localhost:9000"
  access_key: "a"
  secret_key: "b"
  bucket: "c"
`
	path := writeTempConfig(t, bad)
	if _, err := NewConfig(path); err == nil {
		t.Fatal("expected error for unknown kdf scheme")
	}
}

func TestNewConfigRejectsMalformedSegmentSize(t *testing.T) {
	bad := `
container:
  chunk_size_exponent: 15
  segment_size: "not-a-size"
  compression:
    algorithm: none
  signature: false
  pbe:
    kdf: pbkdf2
    pbe_scheme: aes256cbc
objectstore:
  endpoint: "localhost:9000"
  access_key: "a"
  secret_key: "b"
  bucket: "c"
`
	path := writeTempConfig(t, bad)
	if _, err := NewConfig(path); err == nil {
		t.Fatal("expected error for malformed segment size")
	}
}

func TestValidateConfigPathRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := ValidateConfigPath(dir); err == nil {
		t.Fatal("expected error for directory path")
	}
}

func TestGetCurrentPanicsWhenUnloaded(t *testing.T) {
	currentConfig = nil
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	GetCurrent()
}
