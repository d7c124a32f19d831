// Package config loads bitread TOML configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"go.uber.org/zap/zapcore"

	"github.com/pnsafonov/bitread/pkg/bitio"
	"github.com/pnsafonov/bitread/pkg/errors"
)

// Output formats.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
	OutputTOML = "toml"
	OutputCBOR = "cbor"
)

// Input encodings.
const (
	EncodingHex    = "hex"
	EncodingBase64 = "base64"
	EncodingRaw    = "raw"
)

// Decompressors.
const (
	DecompressNone   = "none"
	DecompressSnappy = "snappy"
)

type Config struct {
	LogLevel      string   `toml:"log_level" default:"warn"`
	Output        string   `toml:"output" default:"json"`
	InputEncoding string   `toml:"input_encoding" default:"hex"`
	Decompress    string   `toml:"decompress" default:"none"`
	SchemaDirs    []string `toml:"schema_dirs"`

	// BitOrder and Endian override the format when set.
	BitOrder string `toml:"bit_order"`
	Endian   string `toml:"endian"`
}

// Default returns the configuration used without a config file.
func Default() Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(err)
	}
	return c
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path(path).
			Detail("load config").
			Cause(err).
			Build()
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.InvalidInput(errors.PhaseConfig, []string{path},
			fmt.Sprintf("unknown keys %s", strings.Join(keys, ", ")))
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func oneOf(key, v string, valid ...string) error {
	for _, s := range valid {
		if v == s {
			return nil
		}
	}
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Path(key).
		Detail("%q is not one of %s", v, strings.Join(valid, ", ")).
		Value(v).
		Build()
}

// Validate checks values that defaults and TOML decoding can't.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("log_level").
			Cause(err).
			Value(c.LogLevel).
			Build()
	}
	if err := oneOf("output", c.Output, OutputJSON, OutputYAML, OutputTOML, OutputCBOR); err != nil {
		return err
	}
	if err := oneOf("input_encoding", c.InputEncoding, EncodingHex, EncodingBase64, EncodingRaw); err != nil {
		return err
	}
	if err := oneOf("decompress", c.Decompress, DecompressNone, DecompressSnappy); err != nil {
		return err
	}
	if c.BitOrder != "" {
		if _, ok := bitio.ParseBitOrder(c.BitOrder); !ok {
			return oneOf("bit_order", c.BitOrder, "lsb", "msb")
		}
	}
	if c.Endian != "" {
		if _, ok := bitio.ParseEndian(c.Endian); !ok {
			return oneOf("endian", c.Endian, "little", "big")
		}
	}
	return nil
}
