package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeWarehouse(); err != nil {
		return err
	}
	if err := c.normalizeStage(); err != nil {
		return err
	}
	if err := c.normalizeResults(); err != nil {
		return err
	}
	if err := c.normalizeExport(); err != nil {
		return err
	}
	c.normalizeNotifications()
	return c.normalizeLogging()
}

func envFallback(value string, keys ...string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	for _, key := range keys {
		if env, ok := os.LookupEnv(key); ok && strings.TrimSpace(env) != "" {
			return strings.TrimSpace(env)
		}
	}
	return ""
}

func (c *Config) normalizeWarehouse() error {
	w := &c.Warehouse
	w.Account = envFallback(w.Account, "SNOWFLAKE_ACCOUNT")
	w.User = envFallback(w.User, "SNOWFLAKE_USER")
	w.Role = envFallback(w.Role, "SNOWFLAKE_ROLE")
	w.Warehouse = envFallback(w.Warehouse, "SNOWFLAKE_WAREHOUSE")
	w.Database = envFallback(w.Database, "SNOWFLAKE_DATABASE")
	w.Schema = envFallback(w.Schema, "SNOWFLAKE_SCHEMA")
	if env, ok := os.LookupEnv("SNOWFLAKE_PRIVATE_KEY_PATH"); ok && strings.TrimSpace(env) != "" && (w.PrivateKeyPath == "" || w.PrivateKeyPath == defaultPrivateKeyPath) {
		w.PrivateKeyPath = strings.TrimSpace(env)
	}
	if strings.TrimSpace(w.PrivateKeyPath) == "" {
		w.PrivateKeyPath = defaultPrivateKeyPath
	}
	var err error
	if w.PrivateKeyPath, err = expandPath(strings.TrimSpace(w.PrivateKeyPath)); err != nil {
		return fmt.Errorf("warehouse.private_key_path: %w", err)
	}
	if w.LoginTimeoutSeconds <= 0 {
		w.LoginTimeoutSeconds = defaultLoginTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeStage() error {
	s := &c.Stage
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	if s.Backend == "" {
		s.Backend = defaultStageBackend
	}
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		s.Name = defaultStageName
	}
	if strings.TrimSpace(s.SourceDir) == "" {
		s.SourceDir = defaultSourceDir
	}
	var err error
	if s.SourceDir, err = expandPath(strings.TrimSpace(s.SourceDir)); err != nil {
		return fmt.Errorf("stage.source_dir: %w", err)
	}
	if strings.TrimSpace(s.Local.Dir) == "" {
		s.Local.Dir = defaultLocalStageDir
	}
	if s.Local.Dir, err = expandPath(strings.TrimSpace(s.Local.Dir)); err != nil {
		return fmt.Errorf("stage.local.dir: %w", err)
	}
	s.S3.Bucket = strings.TrimSpace(s.S3.Bucket)
	s.S3.Region = envFallback(s.S3.Region, "AWS_REGION", "AWS_DEFAULT_REGION")
	if s.S3.Region == "" {
		s.S3.Region = defaultS3Region
	}
	s.S3.Endpoint = strings.TrimRight(strings.TrimSpace(s.S3.Endpoint), "/")
	s.S3.Prefix = strings.Trim(strings.TrimSpace(s.S3.Prefix), "/")
	s.S3.AccessKey = strings.TrimSpace(s.S3.AccessKey)
	s.S3.SecretKey = strings.TrimSpace(s.S3.SecretKey)
	return nil
}

func (c *Config) normalizeResults() error {
	r := &c.Results
	r.Backend = strings.ToLower(strings.TrimSpace(r.Backend))
	if r.Backend == "" {
		r.Backend = defaultResultsBackend
	}
	r.Table = strings.TrimSpace(r.Table)
	if r.Table == "" {
		r.Table = defaultResultsTable
	}
	if strings.TrimSpace(r.SQLitePath) == "" {
		r.SQLitePath = defaultSQLitePath
	}
	var err error
	if r.SQLitePath, err = expandPath(strings.TrimSpace(r.SQLitePath)); err != nil {
		return fmt.Errorf("results.sqlite_path: %w", err)
	}
	if r.LoadLimit == 0 {
		r.LoadLimit = defaultLoadLimit
	}
	if r.SearchLimit <= 0 {
		r.SearchLimit = defaultSearchLimit
	}
	return nil
}

func (c *Config) normalizeExport() error {
	if strings.TrimSpace(c.Export.Dir) == "" {
		c.Export.Dir = defaultExportDir
	}
	var err error
	if c.Export.Dir, err = expandPath(strings.TrimSpace(c.Export.Dir)); err != nil {
		return fmt.Errorf("export.dir: %w", err)
	}
	if c.Export.ContextSize < 0 {
		c.Export.ContextSize = 0
	}
	if c.Export.ContextSize > maxContextSize {
		c.Export.ContextSize = maxContextSize
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = envFallback(c.Notifications.NtfyTopic, "NTFY_TOPIC")
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
