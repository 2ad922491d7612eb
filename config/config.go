// Package config loads the host configuration from a YAML or TOML file and the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fornjot/modelhost/hostfuncs"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvModelDir overrides Config.ModelDir when set.
const EnvModelDir = "MODEL_DIR"

// validate is a package-level singleton; validators cache struct metadata.
var validate = validator.New()

// Config is the host configuration.
type Config struct {
	// ModelDir is the directory scanned for model binaries.
	ModelDir string `yaml:"model_dir" toml:"model_dir" validate:"required"`

	// Extension marks a file as a model binary.
	Extension string `yaml:"extension" toml:"extension" validate:"required,startswith=."`

	// LogLevel is one of error, warn, info, debug or verbose.
	LogLevel string `yaml:"log_level" toml:"log_level" validate:"required,oneof=error warn info debug verbose"`

	// ValidatePayloads checks guest payloads against the ABI JSON schemas before
	// decoding them.
	ValidatePayloads bool `yaml:"validate_payloads" toml:"validate_payloads"`

	Runtime RuntimeConfig `yaml:"runtime" toml:"runtime"`
}

// RuntimeConfig tunes the sandbox runtime.
type RuntimeConfig struct {
	ModuleName       string `yaml:"module_name" toml:"module_name" validate:"required"`
	MaxMessageSize   uint32 `yaml:"max_message_size" toml:"max_message_size" validate:"gt=0"`
	MaxResultSize    uint32 `yaml:"max_result_size" toml:"max_result_size" validate:"gt=0"`
	MemoryLimitPages uint32 `yaml:"memory_limit_pages" toml:"memory_limit_pages" validate:"lte=65536"`
	WASI             bool   `yaml:"wasi" toml:"wasi"`
	Interpreter      bool   `yaml:"interpreter" toml:"interpreter"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ModelDir:  ".",
		Extension: ".wasm",
		LogLevel:  "info",
		Runtime: RuntimeConfig{
			ModuleName:     "fornjot_v1",
			MaxMessageSize: 1 << 20,
			MaxResultSize:  16 << 20,
			WASI:           true,
		},
	}
}

// Format names a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the syntax from a file extension; anything but .toml is YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes YAML on top of the defaults and validates the result.
// Keys that are not set keep their default value.
func Parse(data []byte) (Config, error) {
	return ParseFormat(data, FormatYAML)
}

// ParseFormat is Parse for an explicit syntax.
func ParseFormat(data []byte, format Format) (Config, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the YAML or TOML file at path, or starts from Default when path is empty, and
// then applies the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if cfg, err = ParseFormat(data, FormatFor(path)); err != nil {
			return Config{}, err
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if dir, ok := lookup(EnvModelDir); ok && dir != "" {
		c.ModelDir = dir
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// SlogLevel returns the slog level named by LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "verbose":
		return hostfuncs.LevelVerbose, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}
