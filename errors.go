package pkgmeta

import "errors"

var (
	ErrSyntax             = errors.New("pkgmeta: invalid field")
	ErrDuplicateField     = errors.New("pkgmeta: duplicate field")
	ErrMissingField       = errors.New("pkgmeta: required field missing")
	ErrUnsupportedPayload = errors.New("pkgmeta: key-value pairs only, no payload allowed")
	ErrUnsupportedVersion = errors.New("pkgmeta: unsupported version")
	ErrUnknownField       = errors.New("pkgmeta: unknown field")
	ErrLimitExceeded      = errors.New("pkgmeta: limit exceeded")
	ErrInvalidCompression = errors.New("pkgmeta: invalid compression")
	ErrArchive            = errors.New("pkgmeta: invalid archive")
	ErrUnknownSchema      = errors.New("pkgmeta: no schema for file")
)
