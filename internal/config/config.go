package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"avtranscribe/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Warehouse contains the key-pair connection settings for the data warehouse.
type Warehouse struct {
	Account             string `toml:"account"`
	User                string `toml:"user"`
	Role                string `toml:"role"`
	Warehouse           string `toml:"warehouse"`
	Database            string `toml:"database"`
	Schema              string `toml:"schema"`
	PrivateKeyPath      string `toml:"private_key_path"`
	LoginTimeoutSeconds int    `toml:"login_timeout_seconds"`
}

// StageS3 configures an S3-compatible bucket used as the upload stage.
type StageS3 struct {
	Bucket         string `toml:"bucket"`
	Region         string `toml:"region"`
	Endpoint       string `toml:"endpoint"`
	Prefix         string `toml:"prefix"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// StageLocal configures a plain directory used as the upload stage.
type StageLocal struct {
	Dir string `toml:"dir"`
}

// Stage selects where the uploader pushes media files.
type Stage struct {
	Backend   string     `toml:"backend"`
	Name      string     `toml:"name"`
	SourceDir string     `toml:"source_dir"`
	S3        StageS3    `toml:"s3"`
	Local     StageLocal `toml:"local"`
}

// Results selects the transcription results store read by the dashboard.
type Results struct {
	Backend     string `toml:"backend"`
	Table       string `toml:"table"`
	SQLitePath  string `toml:"sqlite_path"`
	LoadLimit   int    `toml:"load_limit"`
	SearchLimit int    `toml:"search_limit"`
}

// Export contains defaults for CSV and SRT downloads.
type Export struct {
	Dir             string `toml:"dir"`
	IncludeSpeakers bool   `toml:"include_speakers"`
	ContextSize     int    `toml:"context_size"`
}

// Notifications configures ntfy push messages sent when an upload run ends.
// An empty topic disables them.
type Notifications struct {
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for avtranscribe.
//
// Configuration sections:
//   - Warehouse: account, user, and key-pair credentials
//   - Stage: upload source directory and remote stage backend
//   - Results: results table location and dashboard limits
//   - Export: CSV/SRT output preferences
//   - Notifications: optional ntfy topic for upload summaries
//   - Logging: log format, level, and optional file
type Config struct {
	Warehouse     Warehouse     `toml:"warehouse"`
	Stage         Stage         `toml:"stage"`
	Results       Results       `toml:"results"`
	Export        Export        `toml:"export"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "resolve", "", err)
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "open", resolvedPath, err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "parse", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "normalize", "", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(defaultProjectConfig)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// UsesWarehouse reports whether any configured backend needs a warehouse connection.
func (c *Config) UsesWarehouse() bool {
	return c.Stage.Backend == BackendSnowflake || c.Results.Backend == BackendSnowflake
}

// QualifiedStage returns the fully qualified stage name for the snowflake backend.
func (c *Config) QualifiedStage() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{c.Warehouse.Database, c.Warehouse.Schema, c.Stage.Name} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ".")
}

// EnsureDirectories creates directories the configured backends write into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{}
	if c.Stage.Backend == BackendLocal {
		dirs = append(dirs, c.Stage.Local.Dir)
	}
	if c.Results.Backend == BackendSQLite {
		dirs = append(dirs, filepath.Dir(c.Results.SQLitePath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// IsLoadLimit reports whether n is one of the offered dashboard load limits.
func IsLoadLimit(n int) bool {
	for _, limit := range LoadLimits {
		if n == limit {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration text.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
