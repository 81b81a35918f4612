package pkgmeta

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

const minimalMetadata = "Metadata-Version: 2.1\nName: foo\nVersion: 1.0\n"

const sampleMetadata = `Metadata-Version: 2.1
Name: sample
Version: 0.3.1
Summary: A sample
  project
Home-page: https://example.org
Author-email: Jane <jane@example.org>
Classifier: Programming Language :: Python
Classifier: License :: OSI Approved
Requires-Dist: requests (>=2.0)
Requires-Dist: click ; extra == "cli"
Provides-Extra: cli
Description-Content-Type: text/markdown

# Sample

Long description.
`

func TestParseMinimalMetadata(t *testing.T) {
	rec, err := ParseMetadata(strings.NewReader(minimalMetadata + "\n"))
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	want := map[string]any{"metadata_version": "2.1", "name": "foo", "version": "1.0"}
	if got := rec.Structured(); !reflect.DeepEqual(got, want) {
		t.Fatalf("fields mismatch\nwant: %#v\ngot:  %#v", want, got)
	}
	if _, ok := rec.Payload(); ok {
		t.Fatal("expected no payload")
	}
	if d := rec.Diagnostics(); len(d) != 0 {
		t.Fatalf("expected no diagnostics, got %v", d)
	}
}

func TestParseSampleMetadata(t *testing.T) {
	rec, err := ParseMetadata(strings.NewReader(sampleMetadata))
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	if v, _ := rec.Get("summary"); v != "A sample project" {
		t.Fatalf("summary = %q", v)
	}
	wantDeps := []string{"requests (>=2.0)", `click ; extra == "cli"`}
	if got := rec.Values("Requires-Dist"); !reflect.DeepEqual(got, wantDeps) {
		t.Fatalf("requires_dist = %q", got)
	}
	if got := rec.Values("classifier"); !reflect.DeepEqual(got, []string{"Programming Language :: Python", "License :: OSI Approved"}) {
		t.Fatalf("classifier = %q", got)
	}
	payload, ok := rec.Payload()
	if !ok || payload != "# Sample\n\nLong description.\n" {
		t.Fatalf("payload = %q, %v", payload, ok)
	}
}

func TestParseWheelTags(t *testing.T) {
	in := "Wheel-Version: 1.0\nGenerator: test\nRoot-Is-Purelib: true\nTag: py3-none-any\nTag: py2-none-any\n\n"
	rec, err := ParseWheel(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseWheel: %v", err)
	}
	want := map[string]any{
		"wheel_version":   "1.0",
		"generator":       "test",
		"root_is_purelib": "true",
		"tag":             []string{"py3-none-any", "py2-none-any"},
	}
	if got := rec.Structured(); !reflect.DeepEqual(got, want) {
		t.Fatalf("fields mismatch\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestParseUnsupportedMetadataVersion(t *testing.T) {
	for _, v := range []string{"0.9", "3.0", "", "21"} {
		in := "Metadata-Version: " + v + "\nName: foo\nVersion: 1.0\n\n"
		_, err := ParseMetadata(strings.NewReader(in))
		if !errors.Is(err, ErrUnsupportedVersion) {
			t.Fatalf("version %q: expected ErrUnsupportedVersion, got %v", v, err)
		}
	}
}

func TestParseNewerMetadataVersionWarns(t *testing.T) {
	var got []Diagnostic
	in := "Metadata-Version: 2.4\nName: foo\nVersion: 1.0\n\n"
	rec, err := ParsePkgInfo(strings.NewReader(in), WithDiagnosticHandler(func(d Diagnostic) { got = append(got, d) }))
	if err != nil {
		t.Fatalf("ParsePkgInfo: %v", err)
	}
	if len(got) != 1 || got[0].Level != LevelWarn || got[0].Field != "Metadata-Version" {
		t.Fatalf("unexpected diagnostics %v", got)
	}
	if !reflect.DeepEqual(rec.Diagnostics(), got) {
		t.Fatalf("record diagnostics %v differ from reported %v", rec.Diagnostics(), got)
	}
	if !strings.Contains(got[0].Message, "PKG-INFO") {
		t.Fatalf("message does not name the file type: %q", got[0].Message)
	}
}

func TestParseKnownMetadataVersionsQuiet(t *testing.T) {
	for _, v := range []string{"1.0", "1.1", "1.2", "2.0", "2.1", "2.2"} {
		in := "Metadata-Version: " + v + "\nName: foo\nVersion: 1.0\n\n"
		rec, err := ParseMetadata(strings.NewReader(in))
		if err != nil {
			t.Fatalf("version %s: %v", v, err)
		}
		if len(rec.Diagnostics()) != 0 {
			t.Fatalf("version %s: unexpected diagnostics %v", v, rec.Diagnostics())
		}
	}
}

func TestParseWheelVersions(t *testing.T) {
	cases := []struct {
		version string
		err     error
		warn    bool
	}{
		{"1.0", nil, false},
		{"1.1", nil, true},
		{"2.0", ErrUnsupportedVersion, false},
		{"0.1", ErrUnsupportedVersion, false},
	}
	for _, tc := range cases {
		rec, err := ParseWheel(strings.NewReader("Wheel-Version: " + tc.version + "\n"))
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("%s: expected %v, got %v", tc.version, tc.err, err)
			}
			if rec != nil {
				t.Fatalf("%s: expected no record on error", tc.version)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tc.version, err)
		}
		if warned := len(rec.Diagnostics()) == 1; warned != tc.warn {
			t.Fatalf("%s: warn = %v, diagnostics %v", tc.version, warned, rec.Diagnostics())
		}
	}
}

func TestParseDuplicateScalarFields(t *testing.T) {
	for _, s := range []*Schema{Metadata, Wheel} {
		base := minimalMetadata
		if s == Wheel {
			base = "Wheel-Version: 1.0\n"
		}
		for _, f := range s.Fields() {
			if f.Repeatable {
				continue
			}
			in := base + f.Name + ": a\n"
			if !f.Required {
				in += f.Name + ": b\n"
			}
			_, err := Parse(strings.NewReader(in), s)
			if !errors.Is(err, ErrDuplicateField) {
				t.Fatalf("%s %s: expected ErrDuplicateField, got %v", s.Name(), f.Name, err)
			}
		}
	}
}

func TestParseRepeatableFieldsKeepOrder(t *testing.T) {
	for _, f := range Metadata.Fields() {
		if !f.Repeatable {
			continue
		}
		want := []string{"one", "two", "three"}
		var b strings.Builder
		b.WriteString(minimalMetadata)
		for _, v := range want {
			b.WriteString(f.Name + ": " + v + "\n")
		}
		rec, err := ParseMetadata(strings.NewReader(b.String()))
		if err != nil {
			t.Fatalf("%s: %v", f.Name, err)
		}
		if got := rec.Values(f.Name); !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: got %q", f.Name, got)
		}
		if _, ok := rec.Structured()[f.Key].([]string); !ok {
			t.Fatalf("%s: structured value is not a list", f.Name)
		}
	}
}

func TestParseUnknownValueDropped(t *testing.T) {
	in := minimalMetadata +
		"Summary: UNKNOWN\n" +
		"Home-page:   UNKNOWN  \n" +
		"Platform: UNKNOWN\n" +
		"Platform: linux\n" +
		"Author:\n UNKNOWN\n" +
		"Author: Someone\n"
	rec, err := ParseMetadata(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	for _, name := range []string{"Summary", "Home-page"} {
		if rec.Has(name) {
			t.Fatalf("%s should have been dropped", name)
		}
	}
	if got := rec.Values("Platform"); !reflect.DeepEqual(got, []string{"linux"}) {
		t.Fatalf("platform = %q", got)
	}
	// A dropped field does not count toward the duplicate rule.
	if v, _ := rec.Get("Author"); v != "Someone" {
		t.Fatalf("author = %q", v)
	}
}

func TestParseUnknownRequiredFieldIsMissing(t *testing.T) {
	in := "Metadata-Version: 2.1\nName: UNKNOWN\nVersion: 1.0\n"
	_, err := ParseMetadata(strings.NewReader(in))
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestParseMissingRequiredFields(t *testing.T) {
	cases := []string{
		"",
		"\n",
		"Name: foo\nVersion: 1.0\n",
		"Metadata-Version: 2.1\nVersion: 1.0\n",
		"Metadata-Version: 2.1\nName: foo\n",
	}
	for _, in := range cases {
		_, err := ParseMetadata(strings.NewReader(in))
		if !errors.Is(err, ErrMissingField) {
			t.Fatalf("%q: expected ErrMissingField, got %v", in, err)
		}
	}
	_, err := ParseWheel(strings.NewReader("Generator: x\n"))
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("wheel: expected ErrMissingField, got %v", err)
	}
}

func TestParseSyntaxError(t *testing.T) {
	in := minimalMetadata + "this line has no colon\n"
	_, err := ParseMetadata(strings.NewReader(in))
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Fatalf("expected line number in %q", err)
	}
}

func TestParseKeyNormalization(t *testing.T) {
	in := "metadata_version: 2.1\nNAME: foo\nversion: 1.0\nhome_PAGE: https://x\n"
	rec, err := ParseMetadata(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	if v, _ := rec.Get("Home-page"); v != "https://x" {
		t.Fatalf("home_page = %q", v)
	}
	if len(rec.Unknown()) != 0 {
		t.Fatalf("unexpected unknown fields %v", rec.Unknown())
	}
}

func TestParseUnknownFieldsReported(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	in := minimalMetadata + "X-Custom: one\nLicense-Expression: MIT\n"
	rec, err := ParseMetadata(strings.NewReader(in), WithLogger(logger))
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	want := []UnknownPair{{Key: "X-Custom", Value: "one"}, {Key: "License-Expression", Value: "MIT"}}
	if got := rec.Unknown(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unknown = %#v", got)
	}
	diags := rec.Diagnostics()
	if len(diags) != 2 || diags[0].Level != LevelInfo || diags[0].Field != "X-Custom" {
		t.Fatalf("diagnostics = %v", diags)
	}
	if !strings.Contains(logs.String(), "X-Custom") {
		t.Fatalf("logger did not receive diagnostic: %q", logs.String())
	}
}

func TestParseDescriptionHeaderFolding(t *testing.T) {
	in := minimalMetadata +
		"Description: First line\n" +
		"        indented  keep  \n" +
		"       |\n" +
		"          deeper\n" +
		"   odd\n" +
		"Summary: after\n"
	rec, err := ParseMetadata(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	want := "First line\nindented  keep  \n\n  deeper\nodd\n"
	if got, _ := rec.Payload(); got != want {
		t.Fatalf("description = %q, want %q", got, want)
	}
	if v, _ := rec.Get("Summary"); v != "after" {
		t.Fatalf("summary = %q", v)
	}
}

func TestParseDescriptionFoldOnlyForMetadata(t *testing.T) {
	s, err := NewSchema("PLAIN", []FieldSpec{Field("Description")})
	if err != nil {
		t.Fatal(err)
	}
	rec, err := Parse(strings.NewReader("Description: a\n        b\n"), s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, _ := rec.Get("Description"); v != "a b" {
		t.Fatalf("description = %q", v)
	}
}

func TestParseDescriptionHeaderAndPayload(t *testing.T) {
	in := minimalMetadata + "Description: short\n\nlong body\n"
	_, err := ParseMetadata(strings.NewReader(in))
	if !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
}

func TestParsePayloadWithoutPayloadField(t *testing.T) {
	in := "Wheel-Version: 1.0\n\nunexpected text\n"
	_, err := ParseWheel(strings.NewReader(in))
	if !errors.Is(err, ErrUnsupportedPayload) {
		t.Fatalf("expected ErrUnsupportedPayload, got %v", err)
	}

	// Blank trailing content is not a payload.
	if _, err := ParseWheel(strings.NewReader("Wheel-Version: 1.0\n\n  \n\n")); err != nil {
		t.Fatalf("blank trailer: %v", err)
	}
}

func TestParseBlankPayloadIgnored(t *testing.T) {
	rec, err := ParseMetadata(strings.NewReader(minimalMetadata + "\n\n \n"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Has("Description") {
		t.Fatal("blank payload should not be stored")
	}
}

func TestParseCRLF(t *testing.T) {
	in := "Metadata-Version: 2.1\r\nName: foo\r\nSummary: a\r\n  b\r\nVersion: 1.0\r\n\r\nbody\r\nmore\r\n"
	rec, err := ParseMetadata(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	if v, _ := rec.Get("Summary"); v != "a b" {
		t.Fatalf("summary = %q", v)
	}
	if p, _ := rec.Payload(); p != "body\nmore\n" {
		t.Fatalf("payload = %q", p)
	}
}

func TestParseNoTrailingNewline(t *testing.T) {
	rec, err := ParseMetadata(strings.NewReader("Metadata-Version: 2.1\nName: foo\nVersion: 1.0"))
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	if v, _ := rec.Get("Version"); v != "1.0" {
		t.Fatalf("version = %q", v)
	}
}

func TestParseValueWithColons(t *testing.T) {
	rec, err := ParseMetadata(strings.NewReader(minimalMetadata + "Project-URL: Source, https://example.org:8080/x\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.Values("Project-URL"); len(got) != 1 || got[0] != "Source, https://example.org:8080/x" {
		t.Fatalf("project_url = %q", got)
	}
}

func TestParseNilSchema(t *testing.T) {
	if _, err := Parse(strings.NewReader(minimalMetadata), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseReaderError(t *testing.T) {
	_, err := ParseMetadata(&failingReader{data: []byte("Metadata-Version: 2.1\n")})
	if !errors.Is(err, errReadFailed) {
		t.Fatalf("expected read error, got %v", err)
	}
}

var errReadFailed = errors.New("read failed")

// failingReader returns data and then fails.
type failingReader struct {
	data []byte
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, errReadFailed
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}
