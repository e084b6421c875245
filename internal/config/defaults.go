package config

const (
	defaultConfigPath          = "~/.config/avtranscribe/config.toml"
	defaultProjectConfig       = "avtranscribe.toml"
	defaultPrivateKeyPath      = "~/.config/avtranscribe/rsa_key.p8"
	defaultLoginTimeoutSeconds = 60
	defaultStageBackend        = BackendSnowflake
	defaultStageName           = "AUDIO_VIDEO_STAGE"
	defaultSourceDir           = "../AUDIO_VIDEO_STAGE_FILES"
	defaultLocalStageDir       = "~/.local/share/avtranscribe/stage"
	defaultS3Region            = "us-east-1"
	defaultResultsBackend      = BackendSnowflake
	defaultResultsTable        = "TRANSCRIPTION_RESULTS"
	defaultSQLitePath          = "~/.local/share/avtranscribe/results.db"
	defaultLoadLimit           = 1000
	defaultSearchLimit         = 50
	defaultExportDir           = "."
	defaultContextSize         = 10
	maxContextSize             = 50
	defaultNotifyTimeout       = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"

	// PlaceholderAccount is the value shipped in the sample config.
	PlaceholderAccount = "YOUR_ACCOUNT_IDENTIFIER"
)

// Backend names accepted by the stage and results sections.
const (
	BackendSnowflake = "snowflake"
	BackendS3        = "s3"
	BackendLocal     = "local"
	BackendSQLite    = "sqlite"
)

// LoadLimits lists the record counts the dashboard offers for loading.
var LoadLimits = []int{100, 500, 1000, 2000}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Warehouse: Warehouse{
			PrivateKeyPath:      defaultPrivateKeyPath,
			LoginTimeoutSeconds: defaultLoginTimeoutSeconds,
		},
		Stage: Stage{
			Backend:   defaultStageBackend,
			Name:      defaultStageName,
			SourceDir: defaultSourceDir,
			S3: StageS3{
				Region: defaultS3Region,
			},
			Local: StageLocal{
				Dir: defaultLocalStageDir,
			},
		},
		Results: Results{
			Backend:     defaultResultsBackend,
			Table:       defaultResultsTable,
			SQLitePath:  defaultSQLitePath,
			LoadLimit:   defaultLoadLimit,
			SearchLimit: defaultSearchLimit,
		},
		Export: Export{
			Dir:             defaultExportDir,
			IncludeSpeakers: true,
			ContextSize:     defaultContextSize,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
