package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Geotexan/data-wang/internal/ingest"
)

var importSourceDir string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Parse instrument exports and persist the run",
	Long:  "Runs the same extraction as ingest but stores the samples in the run-history database instead of writing a report file.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sourceDir := importSourceDir
		if sourceDir == "" {
			sourceDir = cfg.Source.Dir
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		paths, err := ingest.Discover(sourceDir)
		if err != nil {
			return err
		}

		samples, err := ingest.Collect(ctx, paths, ingest.Options{Concurrency: cfg.Ingest.Concurrency})
		if err != nil {
			return err
		}

		run, err := st.CreateRun(ctx, sourceDir, len(paths))
		if err != nil {
			return err
		}
		if err := st.AddSamples(ctx, run.ID, samples); err != nil {
			return eris.Wrapf(err, "import: store samples for run %s", run.ID)
		}

		zap.L().Info("import complete",
			zap.String("run", run.ID),
			zap.String("sourcedir", sourceDir),
			zap.Int("samples", len(samples)),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importSourceDir, "sourcedir", "", "directory holding the .txt exports (default from config)")
	rootCmd.AddCommand(importCmd)
}
