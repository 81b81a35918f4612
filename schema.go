package pkgmeta

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// VersionCheck runs after the generic validation of a record. It reports
// non-fatal findings through report and returns an error for fatal ones.
type VersionCheck func(r *Record, report func(Diagnostic)) error

// Schema is an immutable declaration of the fields of one record type.
// Schemas are safe for concurrent use.
type Schema struct {
	name       string
	fields     []FieldSpec
	index      map[string]int
	payloadKey string
	folders    map[string]FoldFunc
	check      VersionCheck
}

type schemaConfig struct {
	payload string
	folders map[string]FoldFunc
	check   VersionCheck
}

type SchemaOption func(*schemaConfig)

// WithPayloadField designates the field stored in the payload section,
// after the blank separator line.
func WithPayloadField(name string) SchemaOption {
	return func(c *schemaConfig) { c.payload = name }
}

// WithFolder overrides FoldGeneric for the named field.
func WithFolder(name string, fn FoldFunc) SchemaOption {
	return func(c *schemaConfig) { c.folders[NormalizeKey(name)] = fn }
}

func WithVersionCheck(fn VersionCheck) SchemaOption {
	return func(c *schemaConfig) { c.check = fn }
}

// NewSchema builds a schema from fields in their output order.
func NewSchema(name string, fields []FieldSpec, opts ...SchemaOption) (*Schema, error) {
	cfg := schemaConfig{folders: make(map[string]FoldFunc)}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Schema{
		name:    name,
		fields:  make([]FieldSpec, 0, len(fields)),
		index:   make(map[string]int, len(fields)),
		folders: cfg.folders,
		check:   cfg.check,
	}
	for _, f := range fields {
		if f.Key == "" {
			f.Key = NormalizeKey(f.Name)
		}
		if f.Key != NormalizeKey(f.Name) {
			return nil, fmt.Errorf("schema %s: field %q has key %q, want %q", name, f.Name, f.Key, NormalizeKey(f.Name))
		}
		if _, ok := s.index[f.Key]; ok {
			return nil, fmt.Errorf("schema %s: field %q declared twice", name, f.Name)
		}
		s.index[f.Key] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	if cfg.payload != "" {
		key := NormalizeKey(cfg.payload)
		i, ok := s.index[key]
		if !ok {
			return nil, fmt.Errorf("schema %s: payload field %q is not declared", name, cfg.payload)
		}
		if s.fields[i].Repeatable {
			return nil, fmt.Errorf("schema %s: payload field %q must not be repeatable", name, cfg.payload)
		}
		s.payloadKey = key
	}
	for key := range s.folders {
		if _, ok := s.index[key]; !ok {
			return nil, fmt.Errorf("schema %s: folder for undeclared field %q", name, key)
		}
	}
	return s, nil
}

func mustSchema(s *Schema, err error) *Schema {
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string { return s.name }

// Fields returns a copy of the declared fields in output order.
func (s *Schema) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup finds a field by any case or separator spelling of its name.
func (s *Schema) Lookup(name string) (FieldSpec, bool) {
	i, ok := s.index[NormalizeKey(name)]
	if !ok {
		return FieldSpec{}, false
	}
	return s.fields[i], true
}

// PayloadKey returns the normalized key of the payload field, or "" if the
// schema accepts no payload.
func (s *Schema) PayloadKey() string { return s.payloadKey }

func (s *Schema) folder(key string) FoldFunc {
	if fn, ok := s.folders[key]; ok {
		return fn
	}
	return FoldGeneric
}

var metadataFields = []FieldSpec{
	Field("Metadata-Version", Required),
	Field("Name", Required),
	Field("Version", Required),
	Field("Dynamic", Repeatable),
	Field("Platform", Repeatable),
	Field("Supported-Platform", Repeatable),
	Field("Summary"),
	Field("Description"),
	Field("Description-Content-Type"),
	Field("Keywords"),
	Field("Home-page"),
	Field("Download-URL"),
	Field("Author"),
	Field("Author-email"),
	Field("Maintainer"),
	Field("Maintainer-email"),
	Field("License"),
	Field("Classifier", Repeatable),
	Field("Requires-Dist", Repeatable),
	Field("Requires-Python"),
	Field("Requires-External", Repeatable),
	Field("Project-URL", Repeatable),
	Field("Provides-Extra", Repeatable),
	// rarely used
	Field("Provides-Dist", Repeatable),
	Field("Obsoletes-Dist", Repeatable),
}

var wheelFields = []FieldSpec{
	Field("Wheel-Version", Required),
	Field("Generator"),
	Field("Root-Is-Purelib"),
	Field("Tag", Repeatable),
	Field("Build"),
}

func newMetadataSchema(name string) *Schema {
	return mustSchema(NewSchema(name, metadataFields,
		WithPayloadField("Description"),
		WithFolder("Description", FoldDescription),
		WithVersionCheck(checkMetadataVersion),
	))
}

var (
	// Metadata is the schema of the METADATA file in a wheel's .dist-info directory.
	Metadata = newMetadataSchema("METADATA")
	// PkgInfo is the schema of the PKG-INFO file in a source distribution.
	PkgInfo = newMetadataSchema("PKG-INFO")
	// Wheel is the schema of the WHEEL file in a wheel's .dist-info directory.
	Wheel = mustSchema(NewSchema("WHEEL", wheelFields, WithVersionCheck(checkWheelVersion)))
)

// SchemaForFile selects a schema by file name. A trailing compression
// extension (see CompressionFromExt) is ignored.
func SchemaForFile(name string) (*Schema, bool) {
	base := path.Base(filepath.ToSlash(name))
	if c := CompressionFromExt(base); c != CompNone {
		base = strings.TrimSuffix(base, path.Ext(base))
	}
	switch base {
	case "METADATA":
		return Metadata, true
	case "PKG-INFO":
		return PkgInfo, true
	case "WHEEL":
		return Wheel, true
	}
	return nil, false
}
