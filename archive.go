package pkgmeta

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Distribution holds the metadata records of one built or source
// distribution. Wheel is nil for source distributions.
type Distribution struct {
	Metadata *Record
	Wheel    *Record
}

// ReadWheel reads the METADATA and WHEEL files of the single .dist-info
// directory at the top level of a wheel archive.
func ReadWheel(r io.ReaderAt, size int64, opts ...ReadOption) (*Distribution, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}
	members := make(map[string]*zip.File)
	seen := make(map[string]bool)
	var distInfo []string
	for _, zf := range zr.File {
		dir, _ := path.Split(zf.Name)
		if !strings.HasSuffix(dir, ".dist-info/") || strings.Count(dir, "/") != 1 {
			continue
		}
		if !seen[dir] {
			seen[dir] = true
			distInfo = append(distInfo, dir)
		}
		members[zf.Name] = zf
	}
	if len(distInfo) != 1 {
		return nil, fmt.Errorf("%w: wheel must contain exactly one .dist-info directory, found %d", ErrArchive, len(distInfo))
	}
	opts = memberOptions(opts)

	var dist Distribution
	for _, m := range []struct {
		name   string
		schema *Schema
		out    **Record
	}{
		{"METADATA", Metadata, &dist.Metadata},
		{"WHEEL", Wheel, &dist.Wheel},
	} {
		zf := members[distInfo[0]+m.name]
		if zf == nil {
			return nil, fmt.Errorf("%w: %s%s missing", ErrArchive, distInfo[0], m.name)
		}
		rec, err := parseZipMember(zf, m.schema, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", zf.Name, err)
		}
		*m.out = rec
	}
	return &dist, nil
}

func parseZipMember(zf *zip.File, s *Schema, opts []ReadOption) (*Record, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}
	defer rc.Close()
	return Parse(rc, s, opts...)
}

// OpenWheel reads the wheel archive at name.
func OpenWheel(name string, opts ...ReadOption) (*Distribution, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return ReadWheel(f, fi.Size(), opts...)
}

// ReadSdist reads the top-level PKG-INFO file of a source distribution
// tarball. The tar stream may be compressed with any detectable
// compression, or the one given by WithInputCompression.
func ReadSdist(r io.Reader, opts ...ReadOption) (*Distribution, error) {
	cfg := newReadConfig(opts)
	src, err := decompressReader(r, cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tr := tar.NewReader(src)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, ErrLimitExceeded) || errors.Is(err, ErrInvalidCompression) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrArchive, err)
		}
		if hdr.Typeflag != tar.TypeReg || !isTopLevelPkgInfo(hdr.Name) {
			continue
		}
		rec, err := Parse(tr, PkgInfo, memberOptions(opts)...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", hdr.Name, err)
		}
		return &Distribution{Metadata: rec}, nil
	}
	return nil, fmt.Errorf("%w: no top-level PKG-INFO", ErrArchive)
}

// OpenSdist reads the source distribution at name.
func OpenSdist(name string, opts ...ReadOption) (*Distribution, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if comp := CompressionFromExt(name); comp != CompNone {
		opts = append([]ReadOption{WithInputCompression(comp)}, opts...)
	}
	return ReadSdist(f, opts...)
}

// isTopLevelPkgInfo matches "<dir>/PKG-INFO", ignoring a leading "./".
func isTopLevelPkgInfo(name string) bool {
	name = strings.TrimPrefix(name, "./")
	dir, base := path.Split(name)
	return base == "PKG-INFO" && strings.Count(dir, "/") == 1
}

// memberOptions reads archive members as plain text whatever the
// compression of the archive itself.
func memberOptions(opts []ReadOption) []ReadOption {
	out := make([]ReadOption, 0, len(opts)+1)
	out = append(out, opts...)
	return append(out, WithInputCompression(CompNone))
}
