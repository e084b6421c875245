package stage

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"
	"time"

	"avtranscribe/internal/config"
	"avtranscribe/internal/services"
)

// PutStatus classifies the result of a single transfer as reported by the stage.
type PutStatus string

const (
	StatusUploaded PutStatus = "UPLOADED"
	StatusSkipped  PutStatus = "SKIPPED"
	StatusError    PutStatus = "ERROR"
)

// Object is one file held by a stage.
type Object struct {
	Name         string
	Size         int64
	Checksum     string
	LastModified time.Time
}

// BaseName returns the final path component of the object name.
func (o Object) BaseName() string {
	return path.Base(strings.ReplaceAll(o.Name, "\\", "/"))
}

// Stage is a remote file area keyed by base filename.
type Stage interface {
	// Name identifies the stage for logs and summaries.
	Name() string
	// List returns every object currently in the stage.
	List(ctx context.Context) ([]Object, error)
	// Put transfers a local file unless an object with the same base name
	// already exists. Existing objects are never overwritten.
	Put(ctx context.Context, localPath string) (PutStatus, error)
}

// Open builds the stage selected by cfg.Stage.Backend. db is only used by the
// snowflake backend and may be nil otherwise.
func Open(ctx context.Context, cfg *config.Config, db *sql.DB) (Stage, error) {
	switch cfg.Stage.Backend {
	case config.BackendSnowflake:
		if db == nil {
			return nil, services.Wrap(services.ErrConfiguration, "stage", "open", "snowflake stage requires a warehouse connection", nil)
		}
		return NewWarehouseStage(db, cfg.QualifiedStage())
	case config.BackendS3:
		return NewS3Stage(ctx, cfg.Stage.S3)
	case config.BackendLocal:
		return NewLocalStage(cfg.Stage.Local.Dir)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "stage", "open", fmt.Sprintf("unsupported backend %q", cfg.Stage.Backend), nil)
	}
}

// Names returns the set of base names present in objects.
func Names(objects []Object) map[string]struct{} {
	names := make(map[string]struct{}, len(objects))
	for _, obj := range objects {
		names[obj.BaseName()] = struct{}{}
	}
	return names
}
