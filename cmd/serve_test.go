package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geotexan/data-wang/internal/model"
	"github.com/Geotexan/data-wang/internal/store"
)

func newServeTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestServeMux_Health(t *testing.T) {
	mux := newServeMux(newServeTestStore(t))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeMux_RunsAndReport(t *testing.T) {
	st := newServeTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "samples", 1)
	require.NoError(t, err)
	require.NoError(t, st.AddSamples(ctx, run.ID, []model.Sample{
		{Source: "a.txt", Date: "26/09/2016", BatchID: "LOTE 2378", MaterialType: "REPSOL 050"},
	}))

	mux := newServeMux(st)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []model.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+run.ID+"/report", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var rep model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	require.Len(t, rep["26/09/2016"], 1)
	assert.Equal(t, "LOTE 2378", rep["26/09/2016"][0].BatchID)
}

func TestServeMux_ReportNotFound(t *testing.T) {
	mux := newServeMux(newServeTestStore(t))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/nope/report", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
