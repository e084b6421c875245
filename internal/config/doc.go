// Package config loads, normalizes, and validates avtranscribe configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours SNOWFLAKE_* environment fallbacks
// for warehouse credentials. The Config type centralizes the warehouse
// connection, the remote stage used by the uploader, the results store read by
// the dashboard, export preferences, and logging.
//
// Validation only demands warehouse credentials when a snowflake backend is
// selected, so local and S3 stages or a SQLite results store work without an
// account.
package config
