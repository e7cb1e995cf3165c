/*
Package config allows to use a file as configuration for a producer or
reader process built on zffgo.

It uses gopkg.in/yaml.v3 to parse the configuration file, which holds two
top-level sections: container (defaults for chunk size, compression,
signature, and PBE/KDF parameters) and objectstore (optional S3-compatible
transport settings for segstore).

It offers the capacity to retrieve the configuration file path from
different endpoints:
  - CLI flag (-config [path]) default = config.yaml
  - Environment variable (CONFIG_FILE=[path])

Particularities:
 1. If both endpoints are detected, it will use environment variable.
 2. If no endpoints explicitly given (no detection of env var & no flag
    given in argument) it will use the default path "./config.yaml"

Below, an example of how to use the package:

	cfgPath, err := config.ParseFlags()
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := config.NewConfig(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
*/
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ag0st/zffgo/compress"
	"github.com/ag0st/zffgo/errs"
	"github.com/ag0st/zffgo/header"
)

var currentConfig *Config

// Config is the parsed configuration. Using getters instead of public
// members to prevent modification of the configuration once loaded.
type Config struct {
	container   Container
	objectStore ObjectStore
}

func (c *Config) Container() *Container   { return &c.container }
func (c *Config) ObjectStore() *ObjectStore { return &c.objectStore }

// Container holds producer defaults for the container format.
type Container struct {
	chunkSizeExponent uint8
	segmentSize       uint64
	compression       CompressionDefaults
	signature         bool
	pbe               PBEDefaults
}

func (c *Container) ChunkSizeExponent() uint8        { return c.chunkSizeExponent }
func (c *Container) SegmentSize() uint64             { return c.segmentSize }
func (c *Container) Compression() *CompressionDefaults { return &c.compression }
func (c *Container) Signature() bool                 { return c.signature }
func (c *Container) PBE() *PBEDefaults               { return &c.pbe }

// CompressionDefaults holds the default compression selection.
type CompressionDefaults struct {
	algorithm compress.Algorithm
	level     uint8
	threshold uint8
}

func (c *CompressionDefaults) Algorithm() compress.Algorithm { return c.algorithm }
func (c *CompressionDefaults) Level() uint8                  { return c.level }
func (c *CompressionDefaults) Threshold() uint8              { return c.threshold }

// PBEDefaults holds the default password-based-encryption parameters.
type PBEDefaults struct {
	kdf        header.KDFScheme
	pbeScheme  header.PBEScheme
	iterations uint64
	logN       uint8
	p          uint32
	r          uint32
}

func (p *PBEDefaults) KDF() header.KDFScheme   { return p.kdf }
func (p *PBEDefaults) PBEScheme() header.PBEScheme { return p.pbeScheme }
func (p *PBEDefaults) Iterations() uint64      { return p.iterations }
func (p *PBEDefaults) LogN() uint8             { return p.logN }
func (p *PBEDefaults) P() uint32               { return p.p }
func (p *PBEDefaults) R() uint32               { return p.r }

// ObjectStore holds the optional S3-compatible transport settings
// consumed by segstore.
type ObjectStore struct {
	endpoint  string
	accessKey string
	secretKey string
	bucket    string
}

func (o *ObjectStore) Endpoint() string  { return o.endpoint }
func (o *ObjectStore) AccessKey() string { return o.accessKey }
func (o *ObjectStore) SecretKey() string { return o.secretKey }
func (o *ObjectStore) Bucket() string    { return o.bucket }

// ValidateConfigPath just makes sure, that the path provided is a file,
// that can be read
func ValidateConfigPath(path string) error {
	abs, err2 := filepath.Abs(path)
	if err2 != nil {
		return err2
	}
	s, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return errs.New(fmt.Sprintf("'%s' is a directory, not a normal file", path))
	}
	return nil
}

// ParseFlags will create and parse the CLI flags
// and return the path to be used elsewhere
func ParseFlags() (string, error) {
	var configPath string

	flag.StringVar(&configPath, "config", "config.yaml", "path to config file")
	flag.Parse()

	getenv := os.Getenv("CONFIG_FILE")
	if len(getenv) > 0 {
		configPath = getenv
	}

	if err := ValidateConfigPath(configPath); err != nil {
		return "", err
	}

	return configPath, nil
}

// NewConfig returns a new decoded Config struct
func NewConfig(configPath string) (*Config, error) {
	configyml := &ConfigYml{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(&configyml); err != nil {
		return nil, err
	}

	segmentSize, err := extractSize(configyml.Container.SegmentSizeStr)
	if err != nil {
		return nil, err
	}

	kdfScheme, err := parseKDFScheme(configyml.Container.PBE.KDF)
	if err != nil {
		return nil, err
	}
	pbeScheme, err := parsePBEScheme(configyml.Container.PBE.PBEScheme)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		container: Container{
			chunkSizeExponent: configyml.Container.ChunkSizeExponent,
			segmentSize:       segmentSize,
			compression: CompressionDefaults{
				algorithm: compress.ParseAlgorithm(configyml.Container.Compression.Algorithm),
				level:     configyml.Container.Compression.Level,
				threshold: configyml.Container.Compression.Threshold,
			},
			signature: configyml.Container.Signature,
			pbe: PBEDefaults{
				kdf:        kdfScheme,
				pbeScheme:  pbeScheme,
				iterations: configyml.Container.PBE.Iterations,
				logN:       configyml.Container.PBE.LogN,
				p:          configyml.Container.PBE.P,
				r:          configyml.Container.PBE.R,
			},
		},
		objectStore: ObjectStore{
			endpoint:  configyml.ObjectStore.Endpoint,
			accessKey: configyml.ObjectStore.AccessKey,
			secretKey: configyml.ObjectStore.SecretKey,
			bucket:    configyml.ObjectStore.Bucket,
		},
	}

	currentConfig = &cfg
	return currentConfig, nil
}

func parseKDFScheme(s string) (header.KDFScheme, error) {
	switch strings.ToLower(s) {
	case "pbkdf2":
		return header.KDFPBKDF2SHA256, nil
	case "scrypt":
		return header.KDFScrypt, nil
	default:
		return 0, errs.New(fmt.Sprintf("unknown kdf scheme %q, use [pbkdf2, scrypt]", s))
	}
}

func parsePBEScheme(s string) (header.PBEScheme, error) {
	switch strings.ToLower(s) {
	case "aes128cbc":
		return header.PBEAES128CBC, nil
	case "aes256cbc":
		return header.PBEAES256CBC, nil
	default:
		return 0, errs.New(fmt.Sprintf("unknown pbe scheme %q, use [aes128cbc, aes256cbc]", s))
	}
}

// GetCurrent gives the current config. This method panics if NewConfig has
// not been called before without error.
func GetCurrent() *Config {
	if currentConfig == nil {
		panic(errs.New("config not loaded"))
	}
	return currentConfig
}
