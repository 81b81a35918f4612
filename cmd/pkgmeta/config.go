package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/logicossoftware/go-pkgmeta"
)

// config holds the settings shared by all subcommands.
type config struct {
	Workers  int
	LogLevel string
	Archives bool
	SkipDirs []string
	Limits   pkgmeta.Limits
}

func defaultConfig() config {
	return config{
		Workers:  runtime.NumCPU(),
		LogLevel: "warn",
		SkipDirs: []string{".git", ".hg", "__pycache__", "node_modules"},
	}
}

type fileConfig struct {
	Workers  int          `toml:"workers"`
	LogLevel string       `toml:"log_level"`
	Archives bool         `toml:"archives"`
	SkipDirs []string     `toml:"skip_dirs"`
	Limits   limitsConfig `toml:"limits"`
}

type limitsConfig struct {
	MaxLineLen      int   `toml:"max_line_len"`
	MaxHeaderLines  int   `toml:"max_header_lines"`
	MaxPayloadLen   int64 `toml:"max_payload_len"`
	MaxDecompressed int64 `toml:"max_decompressed"`
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("archives") {
		cfg.Archives = raw.Archives
	}
	if meta.IsDefined("skip_dirs") {
		cfg.SkipDirs = normalizeDirs(raw.SkipDirs)
	}
	if meta.IsDefined("limits", "max_line_len") {
		cfg.Limits.MaxLineLen = raw.Limits.MaxLineLen
	}
	if meta.IsDefined("limits", "max_header_lines") {
		cfg.Limits.MaxHeaderLines = raw.Limits.MaxHeaderLines
	}
	if meta.IsDefined("limits", "max_payload_len") {
		cfg.Limits.MaxPayloadLen = raw.Limits.MaxPayloadLen
	}
	if meta.IsDefined("limits", "max_decompressed") {
		cfg.Limits.MaxDecompressed = raw.Limits.MaxDecompressed
	}

	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Limits.MaxLineLen < 0 || c.Limits.MaxHeaderLines < 0 || c.Limits.MaxPayloadLen < 0 || c.Limits.MaxDecompressed < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	return nil
}

func normalizeDirs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, d := range in {
		d = strings.Trim(strings.TrimSpace(d), "/")
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
