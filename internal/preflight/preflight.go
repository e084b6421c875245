package preflight

import (
	"context"
	"path/filepath"

	"avtranscribe/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Source directory (always checked, read only)
	results = append(results, CheckDirectoryAccess("Source directory", cfg.Stage.SourceDir, false))

	if cfg.Stage.Backend == config.BackendLocal {
		results = append(results, CheckDirectoryAccess("Local stage", cfg.Stage.Local.Dir, true))
	}
	if cfg.Results.Backend == config.BackendSQLite {
		results = append(results, CheckDirectoryAccess("Results database", filepath.Dir(cfg.Results.SQLitePath), true))
	}
	results = append(results, CheckDirectoryAccess("Export directory", cfg.Export.Dir, true))

	if cfg.UsesWarehouse() {
		results = append(results, CheckPrivateKey(ctx, cfg.Warehouse.PrivateKeyPath))
	}
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
