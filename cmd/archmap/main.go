// Package main is the entry point for the archmap CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/archmapio/archmap"
	"github.com/archmapio/archmap/internal/config"
	"github.com/archmapio/archmap/internal/log"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archmap",
		Short: "Archmap enterprise-architecture catalog",
		Long: `Archmap imports spreadsheet exports into an architecture catalog:
flat entity collections keyed by business key, relationship sheets as
junction records, and a resolution pass that links the two.`,
	}

	cmd.AddCommand(importCmd())
	cmd.AddCommand(resolveCmd())
	cmd.AddCommand(relatedCmd())
	cmd.AddCommand(unresolvedCmd())
	cmd.AddCommand(treeCmd())
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from a .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newClient builds an archmap client from resolved configuration.
func newClient(cfg config.AppConfig, logger *slog.Logger) (*archmap.Client, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	opts := []archmap.Option{
		archmap.WithDatabaseURL(cfg.DBURL()),
		archmap.WithBatchSize(cfg.BatchSize()),
		archmap.WithLogger(logger),
	}
	if cfg.StrictChoices() {
		opts = append(opts, archmap.WithStrictChoices())
	}

	client, err := archmap.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create archmap client: %w", err)
	}
	return client, nil
}

func newLogger(cfg config.AppConfig) *slog.Logger {
	return log.NewLogger(cfg)
}
