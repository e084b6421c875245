package testsupport

import (
	"path/filepath"
	"testing"

	"avtranscribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config that never touches the warehouse: a local
// directory stage and a SQLite results file, all under a per-test temp dir.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Stage.Backend = config.BackendLocal
	cfgVal.Stage.SourceDir = filepath.Join(base, "source")
	cfgVal.Stage.Local.Dir = filepath.Join(base, "stage")
	cfgVal.Results.Backend = config.BackendSQLite
	cfgVal.Results.SQLitePath = filepath.Join(base, "results.db")
	cfgVal.Export.Dir = filepath.Join(base, "exports")
	cfgVal.Warehouse.PrivateKeyPath = filepath.Join(base, "rsa_key.p8")

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWarehouse fills in warehouse credentials and switches both backends to
// the warehouse. The key path stays inside the temp dir.
func WithWarehouse(account, user string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Warehouse.Account = account
		b.cfg.Warehouse.User = user
		b.cfg.Warehouse.Database = "MEDIA"
		b.cfg.Warehouse.Schema = "PUBLIC"
		b.cfg.Stage.Backend = config.BackendSnowflake
		b.cfg.Results.Backend = config.BackendSnowflake
	}
}
