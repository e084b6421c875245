package warehouse

import (
	"context"
	"crypto/rsa"
	"database/sql"
	"log/slog"
	"time"

	sf "github.com/snowflakedb/gosnowflake"

	"avtranscribe/internal/config"
	"avtranscribe/internal/logging"
	"avtranscribe/internal/services"
)

const applicationName = "avtranscribe"

// DriverConfig maps warehouse settings and a private key onto the driver config.
func DriverConfig(cfg config.Warehouse, key *rsa.PrivateKey) *sf.Config {
	return &sf.Config{
		Account:       cfg.Account,
		User:          cfg.User,
		Role:          cfg.Role,
		Warehouse:     cfg.Warehouse,
		Database:      cfg.Database,
		Schema:        cfg.Schema,
		Authenticator: sf.AuthTypeJwt,
		Application:   applicationName,
		PrivateKey:    key,
		LoginTimeout:  time.Duration(cfg.LoginTimeoutSeconds) * time.Second,
	}
}

// Open loads the private key, connects with key-pair authentication, and
// pings once. The caller owns the returned handle.
func Open(ctx context.Context, cfg config.Warehouse, logger *slog.Logger) (*sql.DB, error) {
	logger = logging.NewComponentLogger(logger, "warehouse")
	key, err := LoadPrivateKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	connector := sf.NewConnector(sf.SnowflakeDriver{}, *DriverConfig(cfg, key))
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)

	logger.Debug("connecting to warehouse",
		logging.String("account", cfg.Account),
		logging.String("user", cfg.User),
		logging.String("warehouse", cfg.Warehouse),
	)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrConnectivity, "warehouse", "connect", cfg.Account, err)
	}
	logger.Info("connected to warehouse",
		logging.String("user", cfg.User),
		logging.String("auth", "key-pair"),
	)
	return db, nil
}
