package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	appConfig = defaultConfig()
	logger    = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "pkgmeta",
	Short: "Inspect and check Python distribution metadata files",
	Long: `pkgmeta parses METADATA, PKG-INFO and WHEEL files, alone or inside wheels
and source distributions, and writes them back in canonical form.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := defaultConfig()
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			loaded, err := loadConfig(path)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		l, err := initLogger(cmd.ErrOrStderr(), cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
		}
		appConfig, logger = cfg, l
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "TOML configuration file")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
}
