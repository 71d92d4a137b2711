package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Geotexan/data-wang/internal/fetcher"
)

var (
	fetchURL  string
	fetchDest string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Mirror exports from the tester's FTP share",
	Long:  "Downloads .txt exports from the instrument's embedded FTP server into the source directory, skipping files already mirrored.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		ftpURL := fetchURL
		if ftpURL == "" {
			ftpURL = cfg.Fetch.URL
		}
		if ftpURL == "" {
			return eris.New("ftp url is required (--url or DATAWANG_FETCH_URL)")
		}
		dest := fetchDest
		if dest == "" {
			dest = cfg.Source.Dir
		}

		f := fetcher.NewFTPFetcher(fetcher.FTPOptions{
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			RatePerSec: cfg.Fetch.RatePerSec,
		})

		fetched, err := f.Mirror(ctx, ftpURL, dest)
		if err != nil {
			return eris.Wrap(err, "fetch")
		}

		zap.L().Info("fetch complete",
			zap.String("url", ftpURL),
			zap.String("dest", dest),
			zap.Int("fetched", fetched),
		)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "ftp url of the instrument export share (default from config)")
	fetchCmd.Flags().StringVar(&fetchDest, "dest", "", "destination directory (default: source dir)")
	rootCmd.AddCommand(fetchCmd)
}
