package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// IsIdentifier reports whether name is a plain SQL identifier, optionally
// qualified with dots (DB.SCHEMA.NAME).
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if !identifierPattern.MatchString(part) {
			return false
		}
	}
	return true
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStage(); err != nil {
		return err
	}
	if err := c.validateResults(); err != nil {
		return err
	}
	if c.UsesWarehouse() {
		if err := c.validateWarehouse(); err != nil {
			return err
		}
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func configHint() string {
	path, err := DefaultConfigPath()
	if err != nil {
		path = defaultConfigPath
	}
	return fmt.Sprintf("edit %s (create with 'avdash config init')", path)
}

func (c *Config) validateWarehouse() error {
	w := c.Warehouse
	if w.Account == "" {
		return fmt.Errorf("warehouse.account is required. Set SNOWFLAKE_ACCOUNT or %s", configHint())
	}
	if strings.EqualFold(w.Account, PlaceholderAccount) {
		return fmt.Errorf("warehouse.account still holds the placeholder %q; replace it with your account identifier", PlaceholderAccount)
	}
	if w.User == "" {
		return fmt.Errorf("warehouse.user is required. Set SNOWFLAKE_USER or %s", configHint())
	}
	for field, value := range map[string]string{
		"warehouse.role":      w.Role,
		"warehouse.warehouse": w.Warehouse,
		"warehouse.database":  w.Database,
		"warehouse.schema":    w.Schema,
	} {
		if value != "" && !IsIdentifier(value) {
			return fmt.Errorf("%s %q is not a valid identifier", field, value)
		}
	}
	if c.Stage.Backend == BackendSnowflake && (w.Database == "" || w.Schema == "") {
		return errors.New("warehouse.database and warehouse.schema must be set for the snowflake stage")
	}
	return nil
}

func (c *Config) validateStage() error {
	switch c.Stage.Backend {
	case BackendSnowflake:
		if !IsIdentifier(c.Stage.Name) {
			return fmt.Errorf("stage.name %q is not a valid identifier", c.Stage.Name)
		}
	case BackendS3:
		if c.Stage.S3.Bucket == "" {
			return errors.New("stage.s3.bucket must be set when stage.backend is \"s3\"")
		}
		if (c.Stage.S3.AccessKey == "") != (c.Stage.S3.SecretKey == "") {
			return errors.New("stage.s3.access_key and stage.s3.secret_key must be set together")
		}
	case BackendLocal:
		if c.Stage.Local.Dir == "" {
			return errors.New("stage.local.dir must be set when stage.backend is \"local\"")
		}
	default:
		return fmt.Errorf("stage.backend %q is not supported (use snowflake, s3, or local)", c.Stage.Backend)
	}
	return nil
}

func (c *Config) validateResults() error {
	switch c.Results.Backend {
	case BackendSnowflake, BackendSQLite:
	default:
		return fmt.Errorf("results.backend %q is not supported (use snowflake or sqlite)", c.Results.Backend)
	}
	if !IsIdentifier(c.Results.Table) {
		return fmt.Errorf("results.table %q is not a valid identifier", c.Results.Table)
	}
	if !IsLoadLimit(c.Results.LoadLimit) {
		return fmt.Errorf("results.load_limit must be one of %v, got %d", LoadLimits, c.Results.LoadLimit)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	if !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic must be a full http(s) URL, got %q", topic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not supported (use debug, info, warn, or error)", c.Logging.Level)
	}
}
