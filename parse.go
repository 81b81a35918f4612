package pkgmeta

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse reads one record of schema s from r.
//
// The parsing process:
//  1. Detects and strips a gzip, zstd or lz4 stream compression
//  2. Reads "Key: value" header lines and their space-prefixed continuation
//     lines up to a blank line or the end of the stream
//  3. Unfolds each field with the schema's folder and stores it, dropping
//     fields whose value is UNKNOWN
//  4. Stores the remaining text as the payload field
//  5. Validates required fields and the schema's version
//
// Parse returns ErrSyntax for a header line without a colon,
// ErrDuplicateField if a scalar field occurs twice, ErrMissingField if a
// required field is absent, ErrUnsupportedPayload if text follows the
// header block of a schema without a payload field, and
// ErrUnsupportedVersion if the schema's version field is not recognized.
// No record is returned on error.
//
// Unknown fields and newer-than-known versions are not errors; they are
// reported as diagnostics (see WithDiagnosticHandler and WithLogger).
func Parse(r io.Reader, s *Schema, opts ...ReadOption) (*Record, error) {
	if s == nil {
		return nil, errors.New("pkgmeta: schema is nil")
	}
	cfg := newReadConfig(opts)
	src, err := decompressReader(r, cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return parseRecord(newLineReader(src, cfg.limits), s, cfg)
}

func ParseMetadata(r io.Reader, opts ...ReadOption) (*Record, error) {
	return Parse(r, Metadata, opts...)
}

func ParsePkgInfo(r io.Reader, opts ...ReadOption) (*Record, error) {
	return Parse(r, PkgInfo, opts...)
}

func ParseWheel(r io.Reader, opts ...ReadOption) (*Record, error) {
	return Parse(r, Wheel, opts...)
}

// ParseFile parses the file at name with the schema selected by
// SchemaForFile. A compression extension selects the input compression.
func ParseFile(name string, opts ...ReadOption) (*Record, error) {
	s, ok := SchemaForFile(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if comp := CompressionFromExt(name); comp != CompNone {
		opts = append([]ReadOption{WithInputCompression(comp)}, opts...)
	}
	return Parse(f, s, opts...)
}

func parseRecord(lr *lineReader, s *Schema, cfg readConfig) (*Record, error) {
	rec := NewRecord(s)
	line, err := lr.readLine()
	if err != nil {
		return nil, err
	}
	for line != "" && !isSeparator(line) {
		if lr.lineNo > cfg.limits.MaxHeaderLines {
			return nil, fmt.Errorf("%w: more than %d header lines", ErrLimitExceeded, cfg.limits.MaxHeaderLines)
		}
		start := lr.lineNo
		key, rest, ok := splitHeader(line)
		if !ok {
			return nil, fmt.Errorf("%w: line %d: no colon in %q", ErrSyntax, start, strings.TrimRight(line, "\n"))
		}
		raw := []string{rest}
		for {
			if line, err = lr.readLine(); err != nil {
				return nil, err
			}
			if !isContinuation(line) {
				break
			}
			if lr.lineNo > cfg.limits.MaxHeaderLines {
				return nil, fmt.Errorf("%w: more than %d header lines", ErrLimitExceeded, cfg.limits.MaxHeaderLines)
			}
			raw = append(raw, line)
		}
		value := s.folder(NormalizeKey(key))(raw)
		if strings.TrimSpace(value) == UnknownValue {
			continue
		}
		if err := rec.storePair(key, value); err != nil {
			return nil, fmt.Errorf("line %d: %w", start, err)
		}
	}

	payload, err := lr.readRest()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload) != "" {
		if s.payloadKey == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedPayload, s.name)
		}
		if err := rec.storePair(s.payloadKey, payload); err != nil {
			return nil, fmt.Errorf("payload: %w", err)
		}
	}

	report := func(d Diagnostic) {
		rec.diags = append(rec.diags, d)
		cfg.report(d)
	}
	if err := validateRecord(rec, report); err != nil {
		return nil, err
	}
	return rec, nil
}
