package pkgmeta

import (
	"bufio"
	"io"
)

// Write writes rec to w in its text form.
//
// The record is validated first and nothing is written if validation
// fails. Fields are written in the order the schema declares them, one
// "Name: value" line per value, followed by a blank line and the payload
// field verbatim. Values are not folded again: a value that contains line
// breaks must already carry its continuation prefixes. Unknown fields are
// never written.
//
// Use WithCompression to compress the output.
func Write(w io.Writer, rec *Record, opts ...WriteOption) error {
	var cfg writeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validateRecord(rec, func(Diagnostic) {}); err != nil {
		return err
	}

	cw, err := compressWriter(w, cfg.compression)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(cw)
	if err := writeRecord(bw, rec); err != nil {
		_ = cw.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = cw.Close()
		return err
	}
	return cw.Close()
}

func writeRecord(w *bufio.Writer, rec *Record) error {
	s := rec.schema
	for _, f := range s.fields {
		if f.Key == s.payloadKey {
			continue
		}
		for _, v := range rec.fields[f.Key] {
			if err := writeHeader(w, f.Name, v); err != nil {
				return err
			}
		}
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	if payload, ok := rec.Payload(); ok && payload != "" {
		if _, err := w.WriteString(payload); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(w *bufio.Writer, name, value string) error {
	w.WriteString(name)
	w.WriteString(": ")
	w.WriteString(value)
	return w.WriteByte('\n')
}
