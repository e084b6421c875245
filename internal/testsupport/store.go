package testsupport

import (
	"context"
	"testing"

	"avtranscribe/internal/config"
	"avtranscribe/internal/results"
	"avtranscribe/internal/transcript"
)

// MustOpenResults opens the SQLite results store described by cfg, inserts
// records, and registers cleanup.
func MustOpenResults(t testing.TB, cfg *config.Config, records ...transcript.FileRecord) *results.Store {
	t.Helper()

	store, err := results.OpenSQLite(context.Background(), cfg.Results.SQLitePath, cfg.Results.Table)
	if err != nil {
		t.Fatalf("results.OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	for _, rec := range records {
		if err := store.Insert(context.Background(), rec); err != nil {
			t.Fatalf("store.Insert %s: %v", rec.FileName, err)
		}
	}
	return store
}
