package pkgmeta

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Function variables for testing injection.
var (
	newGzipReader = func(r io.Reader) (*gzip.Reader, error) { return gzip.NewReader(r) }
	newZstdReader = func(r io.Reader) (*zstd.Decoder, error) { return zstd.NewReader(r) }
	newZstdWriter = func(w io.Writer) (*zstd.Encoder, error) { return zstd.NewWriter(w) }
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// detectCompression inspects the first bytes of a stream. Brotli has no
// magic number and is never detected.
func detectCompression(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, magicZstd):
		return CompZSTD
	case bytes.HasPrefix(head, magicLZ4):
		return CompLZ4
	case bytes.HasPrefix(head, magicGzip):
		return CompGzip
	}
	return CompNone
}

// CompressionFromExt maps a file extension (".gz", ".zst", ".lz4", ".br")
// to its compression. Other names map to CompNone.
func CompressionFromExt(name string) Compression {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz", ".tgz":
		return CompGzip
	case ".zst", ".zstd":
		return CompZSTD
	case ".lz4":
		return CompLZ4
	case ".br":
		return CompBR
	}
	return CompNone
}

// decompressReader wraps r according to cfg. The returned reader yields at
// most cfg.limits.MaxDecompressed bytes from a compressed stream before
// failing with ErrLimitExceeded.
func decompressReader(r io.Reader, cfg readConfig) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	comp := cfg.compression
	if cfg.autoDetect {
		// Short streams return fewer bytes and an error we do not care about.
		head, _ := br.Peek(len(magicZstd))
		comp = detectCompression(head)
	}
	var rc io.ReadCloser
	switch comp {
	case CompNone:
		return io.NopCloser(br), nil
	case CompGzip:
		zr, err := newGzipReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrInvalidCompression, err)
		}
		rc = zr
	case CompZSTD:
		dec, err := newZstdReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrInvalidCompression, err)
		}
		rc = dec.IOReadCloser()
	case CompLZ4:
		rc = io.NopCloser(lz4.NewReader(br))
	case CompBR:
		rc = io.NopCloser(brotli.NewReader(br))
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidCompression, comp)
	}
	return &capReader{rc: rc, max: cfg.limits.MaxDecompressed, comp: comp}, nil
}

// capReader fails once more than max bytes have been read.
type capReader struct {
	rc   io.ReadCloser
	max  int64
	n    int64
	comp Compression
}

func (c *capReader) Read(p []byte) (int, error) {
	n, err := c.rc.Read(p)
	c.n += int64(n)
	if c.n > c.max {
		return n - int(c.n-c.max), fmt.Errorf("%w: %s stream expands beyond %d bytes", ErrLimitExceeded, c.comp, c.max)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %s: %v", ErrInvalidCompression, c.comp, err)
	}
	return n, err
}

func (c *capReader) Close() error { return c.rc.Close() }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// compressWriter wraps w so that written bytes are compressed with comp.
// The caller must Close the result to flush it.
func compressWriter(w io.Writer, comp Compression) (io.WriteCloser, error) {
	switch comp {
	case CompNone:
		return nopWriteCloser{w}, nil
	case CompGzip:
		return gzip.NewWriter(w), nil
	case CompZSTD:
		enc, err := newZstdWriter(w)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrInvalidCompression, err)
		}
		return enc, nil
	case CompLZ4:
		return lz4.NewWriter(w), nil
	case CompBR:
		return brotli.NewWriter(w), nil
	}
	return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidCompression, comp)
}
