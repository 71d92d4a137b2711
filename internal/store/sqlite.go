package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Geotexan/data-wang/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS ingest_runs (
	id         TEXT PRIMARY KEY,
	source_dir TEXT NOT NULL,
	file_count INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS samples (
	id            TEXT PRIMARY KEY,
	run_id        TEXT NOT NULL REFERENCES ingest_runs(id),
	position      INTEGER NOT NULL,
	source        TEXT NOT NULL,
	test_date     TEXT NOT NULL DEFAULT '',
	material_code TEXT NOT NULL DEFAULT '',
	batch_id      TEXT NOT NULL DEFAULT '',
	material_type TEXT NOT NULL DEFAULT '',
	nominal_titer  TEXT NOT NULL DEFAULT '',
	measured_titer TEXT NOT NULL DEFAULT '',
	cv_titer       TEXT NOT NULL DEFAULT '',
	elongation     TEXT NOT NULL DEFAULT '',
	cv_elongation  TEXT NOT NULL DEFAULT '',
	tenacity       TEXT NOT NULL DEFAULT '',
	cv_tenacity    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_samples_run_id ON samples(run_id);
CREATE INDEX IF NOT EXISTS idx_samples_test_date ON samples(test_date);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, sourceDir string, fileCount int) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingest_runs (id, source_dir, file_count, created_at) VALUES (?, ?, ?, ?)`,
		id, sourceDir, fileCount, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{ID: id, SourceDir: sourceDir, FileCount: fileCount, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var run model.Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source_dir, file_count, created_at FROM ingest_runs WHERE id = ?`, runID,
	).Scan(&run.ID, &run.SourceDir, &run.FileCount, &run.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	return &run, nil
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*model.Run, error) {
	var run model.Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source_dir, file_count, created_at FROM ingest_runs ORDER BY created_at DESC, id LIMIT 1`,
	).Scan(&run.ID, &run.SourceDir, &run.FileCount, &run.CreatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest run")
	}
	return &run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_dir, file_count, created_at FROM ingest_runs ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(&run.ID, &run.SourceDir, &run.FileCount, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) AddSamples(ctx context.Context, runID string, samples []model.Sample) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	for i, sample := range samples {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO samples (
				id, run_id, position, source, test_date, material_code, batch_id,
				material_type, nominal_titer, measured_titer, cv_titer, elongation,
				cv_elongation, tenacity, cv_tenacity
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), runID, i, sample.Source, sample.Date,
			sample.MaterialCode, sample.BatchID, sample.MaterialType,
			sample.NominalTiter, sample.MeasuredTiter, sample.CVTiter,
			sample.Elongation, sample.CVElongation, sample.Tenacity, sample.CVTenacity,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert sample %s", sample.Source)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit samples")
}

func (s *SQLiteStore) GetReport(ctx context.Context, runID string) (model.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, test_date, material_code, batch_id, material_type,
			nominal_titer, measured_titer, cv_titer, elongation, cv_elongation,
			tenacity, cv_tenacity
		FROM samples WHERE run_id = ? ORDER BY position`, runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get report %s", runID)
	}
	defer rows.Close()

	report := make(model.Report)
	for rows.Next() {
		var s model.Sample
		if err := rows.Scan(
			&s.Source, &s.Date, &s.MaterialCode, &s.BatchID, &s.MaterialType,
			&s.NominalTiter, &s.MeasuredTiter, &s.CVTiter, &s.Elongation,
			&s.CVElongation, &s.Tenacity, &s.CVTenacity,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan sample")
		}
		report[s.Date] = append(report[s.Date], s)
	}
	return report, eris.Wrap(rows.Err(), "sqlite: iterate samples")
}
