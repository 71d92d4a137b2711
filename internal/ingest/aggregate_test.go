package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geotexan/data-wang/internal/model"
)

// writeExport drops a minimal ASCII export (ASCII is a subset of the
// instrument's ISO-8859-1) into dir under the given name.
func writeExport(t *testing.T, dir, name, date, batch string) string {
	t.Helper()
	cols := make([]string, 15)
	cols[0] = "Vibroskop 400"
	cols[3] = date + " 10:33"
	cols[12] = "6.7"
	cols[14] = batch
	content := strings.Join([]string{
		"Vibroskop 400",
		strings.Join(cols, "\t"),
		"No.\tTiter\tElong.\tForce\tTenacity",
		"Average\t6.3\tx\t94.08\t47.70",
		"CV%\t6.75\tx\t23.76\t6.59",
	}, "\n") + "\n"

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiscover_FindsTxtFilesRecursively(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "week38")
	require.NoError(t, os.Mkdir(sub, 0o755))

	a := writeExport(t, dir, "a.txt", "26/09/2016", "LOTE 2378 REPSOL 050")
	b := writeExport(t, sub, "b.txt", "27/09/2016", "LOTE 2379 REPSOL 050")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.csv"), []byte("x"), 0o644))

	paths, err := Discover(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, paths)
}

func TestDiscover_MissingRootFails(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestAggregate_GroupsByDateInDiscoveryOrder(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "a.txt", "26/09/2016", "LOTE 2378 REPSOL 050")
	writeExport(t, dir, "b.txt", "26/09/2016", "LOTE 2379 REPSOL 050")
	writeExport(t, dir, "c.txt", "27/09/2016", "LOTE 2380 REPSOL 050")

	paths, err := Discover(dir)
	require.NoError(t, err)

	report, err := Aggregate(context.Background(), paths, Options{})
	require.NoError(t, err)

	require.Len(t, report, 2)
	require.Len(t, report["26/09/2016"], 2)
	require.Len(t, report["27/09/2016"], 1)
	assert.Equal(t, "LOTE 2378", report["26/09/2016"][0].BatchID)
	assert.Equal(t, "LOTE 2379", report["26/09/2016"][1].BatchID)
}

func TestCollect_KeepsOrderUnderConcurrency(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	batches := []string{"LOTE 2301", "LOTE 2302", "LOTE 2303", "LOTE 2304", "LOTE 2305", "LOTE 2306"}
	for i, b := range batches {
		paths = append(paths, writeExport(t, dir, string(rune('a'+i))+".txt", "26/09/2016", b+" REPSOL 050"))
	}

	samples, err := Collect(context.Background(), paths, Options{Concurrency: 4})
	require.NoError(t, err)
	require.Len(t, samples, len(batches))
	for i, b := range batches {
		assert.Equal(t, b, samples[i].BatchID)
		assert.Equal(t, paths[i], samples[i].Source)
	}
}

func TestCollect_UnreadableFileAborts(t *testing.T) {
	dir := t.TempDir()
	good := writeExport(t, dir, "a.txt", "26/09/2016", "LOTE 2378 REPSOL 050")

	_, err := Collect(context.Background(), []string{good, filepath.Join(dir, "missing.txt")}, Options{})
	require.Error(t, err)
}

func TestGroup_EmptyInput(t *testing.T) {
	report := Group(nil)
	assert.Empty(t, report)
	assert.Equal(t, model.Report{}, report)
}
