package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Geotexan/data-wang/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot store operations.
var preparedStatements = map[string]string{
	"insert_run":    `INSERT INTO ingest_runs (id, source_dir, file_count, created_at) VALUES ($1, $2, $3, $4)`,
	"insert_sample": pgInsertSample,
	"get_report":    pgSelectReport,
}

const pgInsertSample = `INSERT INTO samples (
	id, run_id, position, source, test_date, material_code, batch_id,
	material_type, nominal_titer, measured_titer, cv_titer, elongation,
	cv_elongation, tenacity, cv_tenacity
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const pgSelectReport = `SELECT source, test_date, material_code, batch_id, material_type,
	nominal_titer, measured_titer, cv_titer, elongation, cv_elongation,
	tenacity, cv_tenacity
FROM samples WHERE run_id = $1 ORDER BY position`

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS ingest_runs (
	id         UUID PRIMARY KEY,
	source_dir TEXT NOT NULL,
	file_count INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS samples (
	id            UUID PRIMARY KEY,
	run_id        UUID NOT NULL REFERENCES ingest_runs(id),
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

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, sourceDir string, fileCount int) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO ingest_runs (id, source_dir, file_count, created_at) VALUES ($1, $2, $3, $4)`,
		id, sourceDir, fileCount, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{ID: id, SourceDir: sourceDir, FileCount: fileCount, CreatedAt: now}, nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var run model.Run
	err := s.pool.QueryRow(ctx,
		`SELECT id, source_dir, file_count, created_at FROM ingest_runs WHERE id = $1`, runID,
	).Scan(&run.ID, &run.SourceDir, &run.FileCount, &run.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return &run, nil
}

func (s *PostgresStore) LatestRun(ctx context.Context) (*model.Run, error) {
	var run model.Run
	err := s.pool.QueryRow(ctx,
		`SELECT id, source_dir, file_count, created_at FROM ingest_runs ORDER BY created_at DESC, id LIMIT 1`,
	).Scan(&run.ID, &run.SourceDir, &run.FileCount, &run.CreatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: latest run")
	}
	return &run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, source_dir, file_count, created_at FROM ingest_runs ORDER BY created_at DESC, id LIMIT $1`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(&run.ID, &run.SourceDir, &run.FileCount, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func (s *PostgresStore) AddSamples(ctx context.Context, runID string, samples []model.Sample) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for i, sample := range samples {
		_, err := tx.Exec(ctx, pgInsertSample,
			uuid.New().String(), runID, i, sample.Source, sample.Date,
			sample.MaterialCode, sample.BatchID, sample.MaterialType,
			sample.NominalTiter, sample.MeasuredTiter, sample.CVTiter,
			sample.Elongation, sample.CVElongation, sample.Tenacity, sample.CVTenacity,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert sample %s", sample.Source)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit samples")
}

func (s *PostgresStore) GetReport(ctx context.Context, runID string) (model.Report, error) {
	rows, err := s.pool.Query(ctx, pgSelectReport, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get report %s", runID)
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
			return nil, eris.Wrap(err, "postgres: scan sample")
		}
		report[s.Date] = append(report[s.Date], s)
	}
	return report, eris.Wrap(rows.Err(), "postgres: iterate samples")
}
