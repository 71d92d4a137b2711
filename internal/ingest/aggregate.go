package ingest

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Geotexan/data-wang/internal/lenzing"
	"github.com/Geotexan/data-wang/internal/model"
)

// Options configures an ingestion pass.
type Options struct {
	// Concurrency bounds parallel file extraction. Values below 1 mean
	// sequential processing.
	Concurrency int
}

// Collect extracts one sample per file. Results keep discovery order
// regardless of concurrency: each worker writes into its own slot of an
// index-addressed slice. An unreadable file aborts the whole pass.
func Collect(ctx context.Context, paths []string, opts Options) ([]model.Sample, error) {
	workers := opts.Concurrency
	if workers < 1 {
		workers = 1
	}

	samples := make([]model.Sample, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, rec, err := lenzing.Extract(path)
			if err != nil {
				return err
			}
			samples[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return samples, nil
}

// Group buckets samples by test date string. Samples keep their collection
// order within each date; date ordering is the report writer's concern.
func Group(samples []model.Sample) model.Report {
	report := make(model.Report)
	for _, s := range samples {
		report[s.Date] = append(report[s.Date], s)
	}
	return report
}

// Aggregate collects every file and groups the results by date.
func Aggregate(ctx context.Context, paths []string, opts Options) (model.Report, error) {
	samples, err := Collect(ctx, paths, opts)
	if err != nil {
		return nil, err
	}
	return Group(samples), nil
}
