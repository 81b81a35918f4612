package main

import (
	"io"
	"time"

	"github.com/logicossoftware/go-pkgmeta"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func initLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	output := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(w),
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "pkgmeta").Logger()
	log.Logger = logger
	return logger, nil
}

// diagnosticLogger forwards parse diagnostics for the file at path.
func diagnosticLogger(logger zerolog.Logger, path string) func(pkgmeta.Diagnostic) {
	return func(d pkgmeta.Diagnostic) {
		ev := logger.Info()
		if d.Level == pkgmeta.LevelWarn {
			ev = logger.Warn()
		}
		ev.Str("path", path).Str("field", d.Field).Msg(d.Message)
	}
}
