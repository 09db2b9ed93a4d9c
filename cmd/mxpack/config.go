package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/wippyai/mxpack/codec"
	"github.com/wippyai/mxpack/errors"
	"github.com/wippyai/mxpack/wire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the optional mxpack.yaml file.
type Config struct {
	// LogLevel is a zap level name: debug, info, warn or error.
	// Defaults to warn.
	LogLevel string `yaml:"log_level,omitempty"`

	// MaxDepth bounds container nesting. Defaults to 512.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Workers bounds how many input files are decoded at once.
	// Defaults to the number of CPUs.
	Workers int `yaml:"workers,omitempty"`

	// RecordHeaders writes a map header for single-field structs.
	RecordHeaders bool `yaml:"record_headers,omitempty"`
}

// LoadConfig reads and parses a config file. An empty path yields defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		cfg := &Config{}
		cfg.setDefaults()
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read config "+path)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses config content. The path is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse "+path)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if c.MaxDepth < 0 {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("%s: max_depth must not be negative", path))
	}
	if c.Workers < 0 {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("%s: workers must not be negative", path))
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, path+": log_level")
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = wire.DefaultMaxDepth
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Logger builds a console logger at the configured level, or debug when
// verbose is set.
func (c *Config) Logger(verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	return zc.Build()
}

// Codec builds a codec with the configured settings.
func (c *Config) Codec(log *zap.Logger) *codec.Codec {
	return codec.New(nil).
		WithMaxDepth(c.MaxDepth).
		WithRecordHeaders(c.RecordHeaders).
		WithLogger(log)
}
