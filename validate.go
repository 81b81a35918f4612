package pkgmeta

import (
	"fmt"
	"strings"
)

const (
	maxKnownMetadataVersion = "2.2"
	knownWheelVersion       = "1.0"
)

// validateRecord checks r against its schema. Non-fatal findings are passed
// to report in the order they are found.
func validateRecord(r *Record, report func(Diagnostic)) error {
	if r == nil || r.schema == nil {
		return fmt.Errorf("%w: record has no schema", ErrMissingField)
	}
	for _, f := range r.schema.fields {
		v, ok := r.fields[f.Key]
		if !ok {
			if f.Required {
				return fmt.Errorf("%w: %s", ErrMissingField, f.Name)
			}
			continue
		}
		if !f.Repeatable && len(v) != 1 {
			return fmt.Errorf("%w: %s holds %d values", ErrDuplicateField, f.Name, len(v))
		}
	}
	for _, p := range r.unknown {
		report(Diagnostic{Level: LevelInfo, Field: p.Key, Message: fmt.Sprintf("unknown field name %q", p.Key)})
	}
	if r.schema.check != nil {
		return r.schema.check(r, report)
	}
	return nil
}

func checkMetadataVersion(r *Record, report func(Diagnostic)) error {
	version, _ := r.Get("Metadata-Version")
	if !strings.HasPrefix(version, "1.") && !strings.HasPrefix(version, "2.") {
		return fmt.Errorf("%w: %s file with version %s", ErrUnsupportedVersion, r.schema.name, version)
	}
	// Plain string comparison; every released version has a single-digit minor.
	if version > maxKnownMetadataVersion {
		report(Diagnostic{
			Level: LevelWarn,
			Field: "Metadata-Version",
			Message: fmt.Sprintf("encountered %s file with version %s, the maximum supported version is %s",
				r.schema.name, version, maxKnownMetadataVersion),
		})
	}
	return nil
}

func checkWheelVersion(r *Record, report func(Diagnostic)) error {
	version, _ := r.Get("Wheel-Version")
	if !strings.HasPrefix(version, "1.") {
		return fmt.Errorf("%w: %s file with version %s", ErrUnsupportedVersion, r.schema.name, version)
	}
	if version != knownWheelVersion {
		report(Diagnostic{
			Level: LevelWarn,
			Field: "Wheel-Version",
			Message: fmt.Sprintf("encountered %s file with version %s, only version %s is supported",
				r.schema.name, version, knownWheelVersion),
		})
	}
	return nil
}
