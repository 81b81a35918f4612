package pkgmeta

import (
	"fmt"
	"strings"
)

const (
	// FoldSpaces prefixes a continuation line of the description field.
	FoldSpaces = "        "
	// FoldPipe prefixes an intentionally blank continuation line of the description field.
	FoldPipe = "       |"

	// UnknownValue marks a field whose value was intentionally omitted.
	UnknownValue = "UNKNOWN"
)

// FieldSpec declares one recognized header field.
type FieldSpec struct {
	Name       string // canonical name as written on output, e.g. "Home-page"
	Key        string // normalized name, e.g. "home_page"
	Required   bool
	Repeatable bool
}

// FieldFlag modifies a FieldSpec built with Field.
type FieldFlag int

const (
	Required FieldFlag = 1 << iota
	Repeatable
)

// Field declares a field named name. The normalized key is derived from name.
func Field(name string, flags ...FieldFlag) FieldSpec {
	f := FieldSpec{Name: name, Key: NormalizeKey(name)}
	for _, fl := range flags {
		f.Required = f.Required || fl&Required != 0
		f.Repeatable = f.Repeatable || fl&Repeatable != 0
	}
	return f
}

// NormalizeKey lowercases name and replaces hyphens with underscores.
func NormalizeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}

// Level is the severity of a Diagnostic.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Diagnostic is a non-fatal observation made while validating a record,
// such as an unknown field or a version newer than the known-good ceiling.
type Diagnostic struct {
	Level   Level
	Field   string // raw or canonical field name, if the diagnostic concerns one
	Message string
}

func (d Diagnostic) String() string {
	return d.Level.String() + ": " + d.Message
}

// UnknownPair is a header field not declared by the record's schema.
type UnknownPair struct {
	Key   string // as written in the input
	Value string
}

// Compression identifies a stream compression applied around a whole file.
type Compression uint16

const (
	CompNone Compression = iota
	CompGzip
	CompZSTD
	CompLZ4
	CompBR
)

func (c Compression) String() string {
	switch c {
	case CompNone:
		return "none"
	case CompGzip:
		return "gzip"
	case CompZSTD:
		return "zstd"
	case CompLZ4:
		return "lz4"
	case CompBR:
		return "brotli"
	default:
		return "unknown"
	}
}

// ParseCompression maps a compression name as accepted by String to its id.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompNone, nil
	case "gzip", "gz":
		return CompGzip, nil
	case "zstd", "zst":
		return CompZSTD, nil
	case "lz4":
		return CompLZ4, nil
	case "brotli", "br":
		return CompBR, nil
	}
	return CompNone, fmt.Errorf("%w: unknown compression %q", ErrInvalidCompression, name)
}
