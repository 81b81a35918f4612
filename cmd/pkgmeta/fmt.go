package main

import (
	"fmt"
	"io"
	"os"

	"github.com/logicossoftware/go-pkgmeta"
	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Rewrite a metadata file in canonical field order",
	Long: `Parses a METADATA, PKG-INFO or WHEEL file and writes it back with fields in
schema order and unknown fields removed. The output goes to stdout unless
--output is given; its compression follows --compress or the output name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		schemaName, _ := cmd.Flags().GetString("schema")
		comp := pkgmeta.CompressionFromExt(out)
		if cmd.Flags().Changed("compress") {
			name, _ := cmd.Flags().GetString("compress")
			c, err := pkgmeta.ParseCompression(name)
			if err != nil {
				return err
			}
			comp = c
		}
		return runFmt(cmd.OutOrStdout(), args[0], out, schemaName, comp, appConfig)
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	fmtCmd.Flags().String("compress", "", "output compression (gzip, zstd, lz4, brotli)")
	fmtCmd.Flags().String("schema", "", "schema to parse with (metadata, pkg-info, wheel); default from file name")
}

func runFmt(stdout io.Writer, in, out, schemaName string, comp pkgmeta.Compression, cfg config) error {
	if archiveKind(in) != "" {
		return fmt.Errorf("%s: fmt works on metadata files, not archives", in)
	}
	records, err := readRecords(in, schemaName, cfg, logger)
	if err != nil {
		return err
	}
	rec := records[0]
	if out == "" {
		return pkgmeta.Write(stdout, rec, pkgmeta.WithCompression(comp))
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := pkgmeta.Write(f, rec, pkgmeta.WithCompression(comp)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
