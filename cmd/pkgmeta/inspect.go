package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/logicossoftware/go-pkgmeta"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the fields of a metadata file or distribution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		schemaName, _ := cmd.Flags().GetString("schema")
		return runInspect(cmd.OutOrStdout(), args[0], schemaName, format, appConfig)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("format", "f", "yaml", "output format (yaml, json)")
	inspectCmd.Flags().String("schema", "", "schema to parse with (metadata, pkg-info, wheel); default from file name")
}

// recordReport is the structured view of one record.
type recordReport struct {
	File        string            `json:"file" yaml:"file"`
	Schema      string            `json:"schema" yaml:"schema"`
	Fields      map[string]any    `json:"fields" yaml:"fields"`
	Unknown     map[string]string `json:"unknown,omitempty" yaml:"unknown,omitempty"`
	Diagnostics []string          `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

func newRecordReport(file string, rec *pkgmeta.Record) recordReport {
	r := recordReport{File: file, Schema: rec.Schema().Name(), Fields: rec.Structured()}
	for _, p := range rec.Unknown() {
		if r.Unknown == nil {
			r.Unknown = make(map[string]string)
		}
		r.Unknown[p.Key] = p.Value
	}
	for _, d := range rec.Diagnostics() {
		r.Diagnostics = append(r.Diagnostics, d.String())
	}
	return r
}

func runInspect(w io.Writer, file, schemaName, format string, cfg config) error {
	records, err := readRecords(file, schemaName, cfg, logger)
	if err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, rec := range records {
			if err := enc.Encode(newRecordReport(file, rec)); err != nil {
				return err
			}
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		for _, rec := range records {
			if err := enc.Encode(newRecordReport(file, rec)); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

func schemaByName(name string) (*pkgmeta.Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "metadata":
		return pkgmeta.Metadata, nil
	case "pkg-info", "pkginfo", "pkg_info":
		return pkgmeta.PkgInfo, nil
	case "wheel":
		return pkgmeta.Wheel, nil
	}
	return nil, fmt.Errorf("unknown schema %q", name)
}

// parseWithSchema parses the file at p with s, honoring a compression
// extension on the file name.
func parseWithSchema(p string, s *pkgmeta.Schema, opts []pkgmeta.ReadOption) (*pkgmeta.Record, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if comp := pkgmeta.CompressionFromExt(p); comp != pkgmeta.CompNone {
		opts = append([]pkgmeta.ReadOption{pkgmeta.WithInputCompression(comp)}, opts...)
	}
	return pkgmeta.Parse(f, s, opts...)
}
