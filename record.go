package pkgmeta

import (
	"bytes"
	"fmt"
)

// Record holds the fields of one parsed or constructed metadata file.
//
// Field names passed to the accessors may use any case or separator
// spelling; they are matched on their normalized key. Scalar fields hold
// exactly one value, repeatable fields keep their values in input order.
//
// A Record is not safe for concurrent mutation.
type Record struct {
	schema  *Schema
	fields  map[string][]string
	unknown []UnknownPair
	diags   []Diagnostic
}

// NewRecord returns an empty record for s.
func NewRecord(s *Schema) *Record {
	return &Record{schema: s, fields: make(map[string][]string)}
}

func (r *Record) Schema() *Schema { return r.schema }

// Get returns the value of a scalar field, or the first value of a
// repeatable one.
func (r *Record) Get(name string) (string, bool) {
	v := r.fields[NormalizeKey(name)]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Values returns a copy of all values stored for name.
func (r *Record) Values(name string) []string {
	v := r.fields[NormalizeKey(name)]
	if v == nil {
		return nil
	}
	out := make([]string, len(v))
	copy(out, v)
	return out
}

func (r *Record) Has(name string) bool {
	_, ok := r.fields[NormalizeKey(name)]
	return ok
}

// Set replaces all values of name with value.
func (r *Record) Set(name, value string) error {
	f, ok := r.schema.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q is not a %s field", ErrUnknownField, name, r.schema.name)
	}
	r.fields[f.Key] = []string{value}
	return nil
}

// Add appends value to a repeatable field. On a scalar field it behaves
// like Set but fails with ErrDuplicateField if the field is already present.
func (r *Record) Add(name, value string) error {
	f, ok := r.schema.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q is not a %s field", ErrUnknownField, name, r.schema.name)
	}
	return r.add(f, value)
}

func (r *Record) add(f FieldSpec, value string) error {
	if f.Repeatable {
		r.fields[f.Key] = append(r.fields[f.Key], value)
		return nil
	}
	if _, ok := r.fields[f.Key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateField, f.Name)
	}
	r.fields[f.Key] = []string{value}
	return nil
}

func (r *Record) Del(name string) {
	delete(r.fields, NormalizeKey(name))
}

// Payload returns the payload field, if the schema declares one and it is set.
func (r *Record) Payload() (string, bool) {
	if r.schema.payloadKey == "" {
		return "", false
	}
	return r.Get(r.schema.payloadKey)
}

// SetPayload stores text as the payload field. An empty text removes it.
func (r *Record) SetPayload(text string) error {
	if r.schema.payloadKey == "" {
		return fmt.Errorf("%w: %s", ErrUnsupportedPayload, r.schema.name)
	}
	if text == "" {
		r.Del(r.schema.payloadKey)
		return nil
	}
	return r.Set(r.schema.payloadKey, text)
}

// Unknown returns the fields not declared by the schema, in input order.
// They are never written back out.
func (r *Record) Unknown() []UnknownPair {
	out := make([]UnknownPair, len(r.unknown))
	copy(out, r.unknown)
	return out
}

// Diagnostics returns the non-fatal findings of the last validation.
func (r *Record) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}

// Structured returns a copy of the fields keyed by normalized name.
// Scalar fields map to a string, repeatable fields to a []string.
func (r *Record) Structured() map[string]any {
	out := make(map[string]any, len(r.fields))
	for _, f := range r.schema.fields {
		v, ok := r.fields[f.Key]
		if !ok {
			continue
		}
		if f.Repeatable {
			vs := make([]string, len(v))
			copy(vs, v)
			out[f.Key] = vs
		} else if len(v) > 0 {
			out[f.Key] = v[0]
		}
	}
	return out
}

// storePair records one parsed header field.
func (r *Record) storePair(key, value string) error {
	f, ok := r.schema.Lookup(key)
	if !ok {
		r.unknown = append(r.unknown, UnknownPair{Key: key, Value: value})
		return nil
	}
	return r.add(f, value)
}

// String renders r in its text form. A record that fails validation
// renders as the empty string.
func (r *Record) String() string {
	b, err := r.MarshalText()
	if err != nil {
		return ""
	}
	return string(b)
}

// MarshalText implements encoding.TextMarshaler using Write.
func (r *Record) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
