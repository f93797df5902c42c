package store

import (
	"path/filepath"
	"testing"

	"github.com/dagewa/wedged-lamellae/internal/sweep"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type testConfig struct {
	Column string `json:"column"`
	Window int    `json:"window"`
}

func createTestSweep(t *testing.T) *sweep.Sweep {
	t.Helper()
	sw, err := sweep.Aggregate([]sweep.Dataset{
		{Name: "job_0", Parameter: 0, Bins: []sweep.Bin{{Count: 5, Statistic: 0.5}}},
		{Name: "job_-10", Parameter: -10, Bins: []sweep.Bin{{Count: 10, Statistic: 0.9}}},
	})
	if err != nil {
		t.Fatalf("Aggregate() failed: %v", err)
	}
	return sw
}
