package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/archmapio/archmap/application/service"
	"github.com/archmapio/archmap/domain/relation"
)

func resolveCmd() *cobra.Command {
	var (
		envFile      string
		junctionType string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve junction business keys to internal IDs",
		Long: `Sweep junction records and rewrite their resolved internal IDs from the
current entity tables. Safe to run repeatedly: a sweep against an unchanged
catalog writes the same result again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), envFile, junctionType)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&junctionType, "junction-type", "", "Restrict the sweep to one junction collection")

	return cmd
}

func runResolve(ctx context.Context, envFile, junctionType string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close client", slog.Any("error", err))
		}
	}()

	var report service.ResolveReport
	if junctionType != "" {
		report, err = client.Resolver.ResolveType(ctx, relation.JunctionType(junctionType))
	} else {
		report, err = client.Resolver.ResolveAll(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Printf("resolve: %d scanned, %d resolved, %d partial\n",
		report.Scanned, report.Resolved, report.Partial)
	for _, ref := range report.Unresolved {
		fmt.Fprintf(os.Stderr, "  unresolved: %s\n", ref)
	}
	return nil
}
