package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/logicossoftware/go-pkgmeta"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir...]",
	Short: "Parse and re-serialize every metadata file below the given directories",
	Long: `Walks the given directories (default: the current one), parses every METADATA,
PKG-INFO and WHEEL file and writes each record back out. Failures are logged
per file; the command fails if any file failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if cmd.Flags().Changed("workers") {
			cfg.Workers, _ = cmd.Flags().GetInt("workers")
		}
		if cmd.Flags().Changed("archives") {
			cfg.Archives, _ = cmd.Flags().GetBool("archives")
		}
		if err := cfg.validate(); err != nil {
			return err
		}
		if len(args) == 0 {
			args = []string{"."}
		}
		res, err := runCheck(cmd.Context(), cfg, args, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d files, %d failed\n", res.Checked, res.Failed)
		if res.Failed > 0 {
			return fmt.Errorf("%d of %d files failed", res.Failed, res.Checked)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().IntP("workers", "j", appConfig.Workers, "number of files parsed in parallel")
	checkCmd.Flags().Bool("archives", false, "also check .whl and .tar.gz distributions")
}

type checkResult struct {
	Checked int
	Failed  int
}

// runCheck checks every candidate file below roots. A file that fails is
// logged and counted; only walk errors and cancellation abort the run.
func runCheck(ctx context.Context, cfg config, roots []string, logger zerolog.Logger) (checkResult, error) {
	var paths []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != root && slices.Contains(cfg.SkipDirs, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if isCandidate(d.Name(), cfg.Archives) {
				paths = append(paths, p)
			}
			return nil
		})
		if err != nil {
			return checkResult{}, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	var checked, failed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, p := range paths {
		p := p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			checked.Add(1)
			if err := checkFile(p, cfg, logger); err != nil {
				failed.Add(1)
				logger.Error().Err(err).Str("path", p).Msg("parsing failed")
				return nil
			}
			logger.Debug().Str("path", p).Msg("ok")
			return nil
		})
	}
	err := g.Wait()
	return checkResult{Checked: int(checked.Load()), Failed: int(failed.Load())}, err
}

func isCandidate(name string, archives bool) bool {
	if _, ok := pkgmeta.SchemaForFile(name); ok {
		return true
	}
	return archives && archiveKind(name) != ""
}

func archiveKind(name string) string {
	switch {
	case strings.HasSuffix(name, ".whl"):
		return "wheel"
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return "sdist"
	}
	return ""
}

// checkFile parses the file at p and writes every record it holds back out.
func checkFile(p string, cfg config, logger zerolog.Logger) error {
	records, err := readRecords(p, "", cfg, logger)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := pkgmeta.Write(io.Discard, rec); err != nil {
			return fmt.Errorf("write %s: %w", rec.Schema().Name(), err)
		}
	}
	return nil
}

// readRecords parses a metadata file or the metadata files of a
// distribution archive. schemaName overrides the schema chosen from the
// file name for plain files.
func readRecords(p, schemaName string, cfg config, logger zerolog.Logger) ([]*pkgmeta.Record, error) {
	opts := []pkgmeta.ReadOption{
		pkgmeta.WithReadLimits(cfg.Limits),
		pkgmeta.WithDiagnosticHandler(diagnosticLogger(logger, p)),
	}
	switch archiveKind(p) {
	case "wheel":
		dist, err := pkgmeta.OpenWheel(p, opts...)
		if err != nil {
			return nil, err
		}
		return []*pkgmeta.Record{dist.Metadata, dist.Wheel}, nil
	case "sdist":
		dist, err := pkgmeta.OpenSdist(p, opts...)
		if err != nil {
			return nil, err
		}
		return []*pkgmeta.Record{dist.Metadata}, nil
	}
	if schemaName == "" {
		rec, err := pkgmeta.ParseFile(p, opts...)
		if err != nil {
			return nil, err
		}
		return []*pkgmeta.Record{rec}, nil
	}
	s, err := schemaByName(schemaName)
	if err != nil {
		return nil, err
	}
	rec, err := parseWithSchema(p, s, opts)
	if err != nil {
		return nil, err
	}
	return []*pkgmeta.Record{rec}, nil
}
