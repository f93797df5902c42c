package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagewa/wedged-lamellae/internal/model"
	"github.com/dagewa/wedged-lamellae/internal/store"
	"github.com/dagewa/wedged-lamellae/internal/testutil"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pairs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBatch_Text(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "plots")
	writeTable(t, dir, "n1.csv", "P 1", testutil.Linear(20, 1, 0))
	writeTable(t, dir, "n2.csv", "P 1", testutil.Linear(10, 1, 1))
	writeTable(t, dir, "d1.csv", "P 1", testutil.Linear(5, 2, 0))
	manifest := writeManifest(t, dir, `
pairs:
  - {title: native, a: n1.csv, b: n2.csv}
  - {title: derivative, a: n1.csv, b: d1.csv}
`)

	stdout, _, code := runRoot(t, "--out-dir", out, "batch", manifest)
	require.Equal(t, ExitSuccess, code, stdout)

	assert.Contains(t, stdout, "10 reflections are common")
	assert.Contains(t, stdout, "5 reflections are common")
	assert.Less(t, strings.Index(stdout, "native_dI.png"), strings.Index(stdout, "derivative_dI.png"), "manifest order")
	for _, name := range []string{"native_dI.png", "native_qq.png", "derivative_dI.png", "derivative_qq.png"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
}

func TestBatch_JSONRecordsRuns(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	writeTable(t, dir, "a.csv", "P 1", testutil.Linear(6, 1, 0))
	writeTable(t, dir, "b.csv", "P 1", testutil.Linear(6, 2, 0))
	manifest := writeManifest(t, dir, "pairs:\n  - {title: one, a: a.csv, b: b.csv}\n  - {title: two, a: b.csv, b: a.csv}\n")

	stdout, _, code := runRoot(t, "--format", "json", "--out-dir", dir, "--db", db, "batch", manifest)
	require.Equal(t, ExitSuccess, code, stdout)

	var resp struct {
		Status string      `json:"status"`
		Data   BatchOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Results, 2)
	assert.Equal(t, "one", resp.Data.Results[0].Result.Title)
	assert.Equal(t, "two", resp.Data.Results[1].Result.Title)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(context.Background(), store.KindCompare)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, resp.Data.Results[0].RunID, runs[0].ID)
	assert.Equal(t, resp.Data.Results[1].RunID, runs[1].ID)
}

func TestBatch_AnalysisFailureNamesStage(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "a.csv", "P 1", testutil.Linear(3, 1, 0))
	writeTable(t, dir, "c.csv", "P 1", []testutil.Reflection{{Key: model.Key{0, 0, 5}, Value: 1, Sigma: 1}})
	manifest := writeManifest(t, dir, "pairs:\n  - {title: ok, a: a.csv, b: a.csv}\n  - {title: disjoint, a: a.csv, b: c.csv}\n")

	stdout, _, code := runRoot(t, "--format", "json", "--out-dir", dir, "batch", manifest)
	assert.Equal(t, ExitFailure, code)

	var resp struct {
		Error CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "EMPTY_INTERSECTION", resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "match", details["stage"])
	assert.Equal(t, "disjoint", details["title"])
}

func TestBatch_ManifestErrors(t *testing.T) {
	dir := t.TempDir()

	stdout, _, code := runRoot(t, "batch", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stdout, "Error [E005]")

	manifest := writeManifest(t, dir, "pairs: []\n")
	stdout, _, code = runRoot(t, "batch", manifest)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stdout, "Error [E003]")
}

func TestBatch_MissingTable(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, "pairs:\n  - {title: t, a: nope.csv, b: nope.csv}\n")

	stdout, _, code := runRoot(t, "--out-dir", dir, "batch", manifest)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stdout, "Error [E005]")
}
