package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geotexan/data-wang/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "samples", 3)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "samples", got.SourceDir)
	assert.Equal(t, 3, got.FileCount)
}

func TestSQLite_GetRun_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "nope")
	require.Error(t, err)
}

func TestSQLite_AddSamplesAndGetReport(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "samples", 3)
	require.NoError(t, err)

	samples := []model.Sample{
		{Source: "a.txt", Date: "26/09/2016", BatchID: "LOTE 2378", MaterialType: "REPSOL 050", NominalTiter: "6.7"},
		{Source: "b.txt", Date: "26/09/2016", BatchID: "LOTE 2379"},
		{Source: "c.txt", Date: "27/09/2016", BatchID: "LOTE 2380"},
	}
	require.NoError(t, st.AddSamples(ctx, run.ID, samples))

	report, err := st.GetReport(ctx, run.ID)
	require.NoError(t, err)

	require.Len(t, report, 2)
	require.Len(t, report["26/09/2016"], 2)
	// Insertion order survives the round trip.
	assert.Equal(t, "a.txt", report["26/09/2016"][0].Source)
	assert.Equal(t, "b.txt", report["26/09/2016"][1].Source)
	assert.Equal(t, "6.7", report["26/09/2016"][0].NominalTiter)
	assert.Equal(t, "LOTE 2380", report["27/09/2016"][0].BatchID)
}

func TestSQLite_LatestRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.LatestRun(ctx)
	require.Error(t, err)

	_, err = st.CreateRun(ctx, "old", 1)
	require.NoError(t, err)
	second, err := st.CreateRun(ctx, "new", 2)
	require.NoError(t, err)

	latest, err := st.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "new", latest.SourceDir)
}

func TestSQLite_ListRuns_Limit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for range 5 {
		_, err := st.CreateRun(ctx, "samples", 1)
		require.NoError(t, err)
	}

	runs, err := st.ListRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	runs, err = st.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

func TestSQLite_GetReport_EmptyRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "samples", 0)
	require.NoError(t, err)

	report, err := st.GetReport(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, report)
}
