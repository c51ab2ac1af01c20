// Package config describes settings of path reconstruction runs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sirkon/smpath/internal/reconstruct"
	"github.com/sirkon/smpath/internal/solution"
)

// Config of reconstruction runs.
type Config struct {
	// DefaultState is the state of entry triples.
	DefaultState solution.State `yaml:"default-state"`

	Budgets Budgets `yaml:"budgets"`

	// Strict validates transitions against the supergraph.
	Strict bool `yaml:"strict"`

	// Workers is the number of concurrent requests. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// DotDir is where pruned error graphs are exported. Empty disables the export.
	DotDir string `yaml:"dot-dir"`

	Log Log `yaml:"log"`
}

// Budgets bound a single request.
type Budgets struct {
	MaxSteps       int           `yaml:"max-steps"`
	MaxPruneRounds int           `yaml:"max-prune-rounds"`
	Timeout        time.Duration `yaml:"timeout"`
}

// Log settings.
type Log struct {
	Level  slog.Level `yaml:"level"`
	Format LogFormat  `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DefaultState: "START",
		Budgets: Budgets{
			MaxSteps:       100_000,
			MaxPruneRounds: 1_000,
			Timeout:        time.Minute,
		},
		Strict: true,
		Log: Log{
			Level:  slog.LevelInfo,
			Format: LogFormatText,
		},
	}
}

// Load reads the configuration file. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse file %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes the configuration over the defaults and validates it.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings for consistency.
func (c *Config) Validate() error {
	switch {
	case c.DefaultState == "":
		return fmt.Errorf("default-state must not be empty")
	case c.Budgets.MaxSteps < 0:
		return fmt.Errorf("budgets.max-steps must not be negative")
	case c.Budgets.MaxPruneRounds < 0:
		return fmt.Errorf("budgets.max-prune-rounds must not be negative")
	case c.Budgets.Timeout < 0:
		return fmt.Errorf("budgets.timeout must not be negative")
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative")
	}

	return nil
}

// Logger creates a logger writing into w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Log.Level}
	if c.Log.Format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// Options returns reconstruction options. Side outputs are left for the caller.
func (c *Config) Options(log *slog.Logger) reconstruct.Options {
	return reconstruct.Options{
		MaxSteps:       c.Budgets.MaxSteps,
		MaxPruneRounds: c.Budgets.MaxPruneRounds,
		Strict:         c.Strict,
		Workers:        c.Workers,
		Logger:         log,
	}
}

// LogFormat is a format of log records.
type LogFormat int

const (
	logFormatInvalid LogFormat = iota
	LogFormatText
	LogFormatJSON
)

var logFormatValueMap = map[LogFormat]string{
	LogFormatText: "text",
	LogFormatJSON: "json",
}

func (f LogFormat) String() string {
	v, ok := logFormatValueMap[f]
	if !ok {
		return fmt.Sprintf("invalid(%d)", f)
	}

	return v
}

// UnmarshalText for setting values with configs, CLI, etc.
func (f *LogFormat) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range logFormatValueMap {
		if v == text {
			*f = k
			return nil
		}
	}

	return fmt.Errorf("unknown log format %q", text)
}
