// Package pkgmeta reads and writes the key/value metadata files of Python
// distributions: METADATA and WHEEL in a wheel's .dist-info directory, and
// PKG-INFO in a source distribution.
//
// # File Format Overview
//
// A metadata file consists of:
//   - A header block of "Key: value" lines. A line starting with a space
//     continues the value of the previous field.
//   - A blank line ending the header block.
//   - An optional payload, which METADATA and PKG-INFO use for the long
//     description.
//
// Field names match case-insensitively and treat "-" and "_" alike. A field
// whose value is UNKNOWN is treated as absent.
//
// Continuation lines are joined with a single space, except for the
// description field, whose continuation lines carry an 8-character prefix
// (eight spaces, or seven spaces and "|" for an empty line) that is removed
// while the rest of the line is kept verbatim.
//
// # Schemas
//
// Each file type is described by an immutable [Schema] listing its fields,
// which of them are required or repeatable, which one is stored as the
// payload, and a version check. [Metadata], [PkgInfo] and [Wheel] are
// predefined; [NewSchema] builds others.
//
// # Basic Usage
//
// To parse a METADATA file:
//
//	f, _ := os.Open("METADATA")
//	defer f.Close()
//	rec, err := pkgmeta.ParseMetadata(f)
//	name, _ := rec.Get("Name")
//	deps := rec.Values("Requires-Dist")
//
// To write it back out in canonical field order:
//
//	err := pkgmeta.Write(os.Stdout, rec)
//
// # Diagnostics
//
// Unknown fields and versions newer than the ones this package knows about
// do not fail parsing. They are reported as [Diagnostic] values through
// [WithDiagnosticHandler], [WithLogger] and [Record.Diagnostics].
//
// # Security Considerations
//
// Parsing is bounded by configurable [Limits] on line length, header lines,
// payload size and decompressed size. Compressed inputs (gzip, zstd, lz4,
// brotli) are decompressed transparently and count against those limits.
package pkgmeta
