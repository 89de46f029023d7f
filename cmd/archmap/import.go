package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/archmapio/archmap/application/service"
	"github.com/archmapio/archmap/domain/mapping"
	"github.com/archmapio/archmap/internal/config"
)

func importCmd() *cobra.Command {
	var (
		envFile     string
		planPath    string
		file        string
		skipResolve bool
		batchSize   int
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import entity and junction sheets per an import plan",
		Long: `Import spreadsheet data per a YAML import plan.

The plan lists entity sources first and junction sources second; the import
runs them in that order and finishes with a resolution sweep unless
--skip-resolve is given. Rows failing validation are reported and excluded;
the rest of the sheet still imports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), envFile, planPath, file, skipResolve, batchSize)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&planPath, "plan", "plan.yaml", "Path to the YAML import plan")
	cmd.Flags().StringVar(&file, "file", "", "Default input file (sheets may override per source)")
	cmd.Flags().BoolVar(&skipResolve, "skip-resolve", false, "Import without the final resolution sweep")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Rows per import batch (default: 100)")

	return cmd
}

func runImport(ctx context.Context, envFile, planPath, file string, skipResolve bool, batchSize int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if batchSize > 0 {
		cfg = cfg.Apply(config.WithBatchSize(batchSize))
	}
	logger := newLogger(cfg)

	plan, err := mapping.LoadPlan(planPath)
	if err != nil {
		return err
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close client", slog.Any("error", err))
		}
	}()

	report, err := client.Pipeline.Run(ctx, service.PipelineParams{
		Plan:        plan,
		File:        file,
		SkipResolve: skipResolve,
	})
	if err != nil {
		return err
	}

	printPipelineReport(report)
	return nil
}

func printPipelineReport(report service.PipelineReport) {
	for _, src := range report.Entities {
		printSourceReport("entities", src)
	}
	for _, src := range report.Junctions {
		printSourceReport("junctions", src)
	}
	if report.Resolve.RunID != "" {
		fmt.Printf("resolve: %d scanned, %d resolved, %d partial\n",
			report.Resolve.Scanned, report.Resolve.Resolved, report.Resolve.Partial)
		for _, ref := range report.Resolve.Unresolved {
			fmt.Fprintf(os.Stderr, "  unresolved: %s\n", ref)
		}
	}
}

func printSourceReport(phase string, src service.SourceReport) {
	fmt.Printf("%s %q: %d rows, %d created, %d updated, %d failed, %d excluded\n",
		phase, src.Collection, src.Rows,
		src.Import.Created, src.Import.Updated, src.Import.Failed, src.Excluded)
	for _, e := range src.Errors {
		fmt.Fprintf(os.Stderr, "  error: %s\n", e.Error())
	}
	for _, w := range src.Warnings {
		fmt.Fprintf(os.Stderr, "  warning: %s\n", w)
	}
	for _, b := range src.Import.BatchErrors {
		fmt.Fprintf(os.Stderr, "  batch error: %s\n", b.Error())
	}
}
