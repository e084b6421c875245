package stage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"avtranscribe/internal/fileutil"
	"avtranscribe/internal/services"
)

// LocalStage uses a directory as the stage. Only the top level is listed.
type LocalStage struct {
	dir string
}

// NewLocalStage creates dir if needed and returns the backend.
func NewLocalStage(dir string) (*LocalStage, error) {
	if dir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "stage", "open", "local stage directory is empty", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "stage", "open", dir, err)
	}
	return &LocalStage{dir: dir}, nil
}

func (s *LocalStage) Name() string { return s.dir }

func (s *LocalStage) List(ctx context.Context) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, services.Wrap(services.ErrConnectivity, "stage", "list", s.dir, err)
	}
	objects := make([]Object, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		objects = append(objects, Object{
			Name:         entry.Name(),
			Size:         info.Size(),
			LastModified: info.ModTime().UTC(),
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

func (s *LocalStage) Put(ctx context.Context, localPath string) (PutStatus, error) {
	if err := ctx.Err(); err != nil {
		return StatusError, err
	}
	base := filepath.Base(localPath)
	_, err := fileutil.CopyNew(localPath, filepath.Join(s.dir, base))
	switch {
	case err == nil:
		return StatusUploaded, nil
	case errors.Is(err, fileutil.ErrExists):
		return StatusSkipped, nil
	default:
		return StatusError, services.Wrap(services.ErrTransfer, "stage", "put", fmt.Sprintf("%s -> %s", base, s.dir), err)
	}
}
