package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportRunID  string
	reportOutput string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Re-emit the report for a persisted run",
	Long:  "Reads a stored ingestion run (latest by default) and writes its report without touching the instrument files.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runID := reportRunID
		if runID == "" {
			latest, err := st.LatestRun(ctx)
			if err != nil {
				return err
			}
			runID = latest.ID
		}

		rep, err := st.GetReport(ctx, runID)
		if err != nil {
			return err
		}

		output := reportOutput
		if output == "" {
			output = cfg.Report.Output
		}
		format := reportFormat
		if format == "" {
			format = cfg.Report.Format
		}

		if err := writeReport(rep, output, format); err != nil {
			return err
		}

		zap.L().Info("report written",
			zap.String("run", runID),
			zap.String("output", output),
			zap.Int("dates", len(rep)),
		)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportRunID, "run", "", "run id (default: latest run)")
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "report output path (default from config)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "report format: csv or xlsx (default from config)")
	rootCmd.AddCommand(reportCmd)
}
