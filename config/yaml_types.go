package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ag0st/zffgo/errs"
)

// ConfigYml is the unmarshal target for config.yaml.
type ConfigYml struct {
	Container   ContainerYml   `yaml:"container"`
	ObjectStore ObjectStoreYml `yaml:"objectstore"`
}

type ContainerYml struct {
	ChunkSizeExponent uint8          `yaml:"chunk_size_exponent"`
	SegmentSizeStr    string         `yaml:"segment_size"`
	Compression       CompressionYml `yaml:"compression"`
	Signature         bool           `yaml:"signature"`
	PBE               PBEYml         `yaml:"pbe"`
}

type CompressionYml struct {
	Algorithm string `yaml:"algorithm"`
	Level     uint8  `yaml:"level"`
	Threshold uint8  `yaml:"threshold"`
}

type PBEYml struct {
	KDF        string `yaml:"kdf"`
	PBEScheme  string `yaml:"pbe_scheme"`
	Iterations uint64 `yaml:"iterations"`
	LogN       uint8  `yaml:"logn"`
	P          uint32 `yaml:"p"`
	R          uint32 `yaml:"r"`
}

type ObjectStoreYml struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
}

// extractSize take a string formatted size which can be given in the configuration file
// and format it as int (representing the number of bytes).
func extractSize(size string) (uint64, error) {
	split := strings.Split(size, " ") // space separator
	if len(split) != 2 {
		return 0, errs.New(fmt.Sprintf("cannot parse %s, must be of type: \n "+
			"xx yy : where xx is an int and yy is one of [B, KBi, MBi, GBi]", size))
	}
	var shifter = 0
	switch split[1] {
	case "B": // byte
		break
	case "KBi": // kilobytes
		shifter = 10
	case "MBi": // megabytes
		shifter = 20
	case "GBi": // gigabytes
		shifter = 30
	default:
		return 0, errs.New(fmt.Sprintf("unit uknown [%s], use [B, KBi, MBi, GBi]", split[1]))
	}
	quantity, err := strconv.Atoi(split[0])
	if err != nil {
		return 0, err
	}
	return uint64(quantity) << shifter, nil
}
