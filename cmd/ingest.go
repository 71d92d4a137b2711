package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Geotexan/data-wang/internal/ingest"
	"github.com/Geotexan/data-wang/internal/model"
	"github.com/Geotexan/data-wang/internal/report"
)

var (
	ingestSourceDir   string
	ingestOutput      string
	ingestFormat      string
	ingestConcurrency int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Parse instrument exports and write the per-day report",
	Long: `Walks the source directory for Lenzing .txt exports, extracts one
sample per file and writes one report row per batch, grouped by test date.

Examples:
  # Default source directory and output (samples/ -> out.csv)
  data-wang ingest

  # Spreadsheet output from a mounted instrument share
  data-wang ingest --sourcedir /mnt/lenzing --output fibra.xlsx --format xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sourceDir := ingestSourceDir
		if sourceDir == "" {
			sourceDir = cfg.Source.Dir
		}
		output := ingestOutput
		if output == "" {
			output = cfg.Report.Output
		}
		format := ingestFormat
		if format == "" {
			format = cfg.Report.Format
		}
		concurrency := ingestConcurrency
		if concurrency == 0 {
			concurrency = cfg.Ingest.Concurrency
		}

		rep, paths, err := runIngest(ctx, sourceDir, concurrency)
		if err != nil {
			return err
		}

		if err := writeReport(rep, output, format); err != nil {
			return err
		}

		zap.L().Info("report written",
			zap.String("output", output),
			zap.Int("files", len(paths)),
			zap.Int("dates", len(rep)),
		)
		return nil
	},
}

// runIngest discovers and aggregates every export under sourceDir.
func runIngest(ctx context.Context, sourceDir string, concurrency int) (model.Report, []string, error) {
	paths, err := ingest.Discover(sourceDir)
	if err != nil {
		return nil, nil, err
	}
	zap.L().Info("discovered exports", zap.String("dir", sourceDir), zap.Int("files", len(paths)))

	rep, err := ingest.Aggregate(ctx, paths, ingest.Options{Concurrency: concurrency})
	if err != nil {
		return nil, nil, err
	}
	return rep, paths, nil
}

// writeReport dispatches on the output format.
func writeReport(rep model.Report, output, format string) error {
	switch format {
	case "csv":
		return report.WriteCSV(rep, output)
	case "xlsx":
		return report.WriteXLSX(rep, output)
	default:
		return eris.Errorf("unsupported report format: %s", format)
	}
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSourceDir, "sourcedir", "", "directory holding the .txt exports (default from config)")
	ingestCmd.Flags().StringVar(&ingestOutput, "output", "", "report output path (default from config)")
	ingestCmd.Flags().StringVar(&ingestFormat, "format", "", "report format: csv or xlsx (default from config)")
	ingestCmd.Flags().IntVar(&ingestConcurrency, "concurrency", 0, "parallel file extractions (default from config)")
	rootCmd.AddCommand(ingestCmd)
}
