package pkgmeta

import (
	"io"
	"log/slog"
)

type readConfig struct {
	limits       Limits
	autoDetect   bool
	compression  Compression
	logger       *slog.Logger
	onDiagnostic func(Diagnostic)
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithAutoDetect controls whether Parse sniffs gzip, zstd and lz4 magic
// bytes at the start of the stream. It is enabled by default.
func WithAutoDetect(v bool) ReadOption {
	return func(c *readConfig) { c.autoDetect = v }
}

// WithInputCompression declares the compression of the input stream and
// disables detection. Brotli streams carry no magic and need this option.
func WithInputCompression(comp Compression) ReadOption {
	return func(c *readConfig) {
		c.compression = comp
		c.autoDetect = false
	}
}

// WithLogger sets the logger diagnostics are written to.
// By default they are discarded.
func WithLogger(logger *slog.Logger) ReadOption {
	return func(c *readConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDiagnosticHandler registers fn to receive each diagnostic as it is
// produced. Diagnostics are also available from Record.Diagnostics.
func WithDiagnosticHandler(fn func(Diagnostic)) ReadOption {
	return func(c *readConfig) { c.onDiagnostic = fn }
}

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{
		limits:     defaultLimits(),
		autoDetect: true,
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	return cfg
}

func (c readConfig) report(d Diagnostic) {
	switch d.Level {
	case LevelWarn:
		c.logger.Warn(d.Message, "field", d.Field)
	default:
		c.logger.Info(d.Message, "field", d.Field)
	}
	if c.onDiagnostic != nil {
		c.onDiagnostic(d)
	}
}

type writeConfig struct {
	compression Compression
}

type WriteOption func(*writeConfig)

// WithCompression compresses the written text with comp.
func WithCompression(comp Compression) WriteOption {
	return func(c *writeConfig) { c.compression = comp }
}
