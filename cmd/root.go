package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Geotexan/data-wang/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "data-wang",
	Short: "Lenzing lab export ingestion and reporting",
	Long:  "Parses the .txt exports produced by the laboratory Lenzing fiber tester and builds per-batch, per-day reports of titer, elongation and tenacity.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
