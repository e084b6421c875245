package stage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"avtranscribe/internal/config"
	"avtranscribe/internal/services"
)

// Querier is the subset of *sql.DB used by the warehouse stage.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// WarehouseStage drives a warehouse internal stage with LIST and PUT.
type WarehouseStage struct {
	db    Querier
	stage string
}

// NewWarehouseStage validates the stage identifier and returns the backend.
// The identifier is interpolated into statements, so only plain (optionally
// dotted) identifiers are accepted.
func NewWarehouseStage(db Querier, qualifiedStage string) (*WarehouseStage, error) {
	if !config.IsIdentifier(qualifiedStage) {
		return nil, services.Wrap(services.ErrConfiguration, "stage", "open", fmt.Sprintf("invalid stage name %q", qualifiedStage), nil)
	}
	return &WarehouseStage{db: db, stage: qualifiedStage}, nil
}

func (s *WarehouseStage) Name() string { return "@" + s.stage }

func (s *WarehouseStage) List(ctx context.Context) ([]Object, error) {
	rows, err := s.db.QueryContext(ctx, "LIST @"+s.stage)
	if err != nil {
		return nil, services.Wrap(services.ErrConnectivity, "stage", "list", s.Name(), err)
	}
	defer rows.Close()

	table, err := scanStrings(rows)
	if err != nil {
		return nil, services.Wrap(services.ErrConnectivity, "stage", "list", s.Name(), err)
	}
	objects := make([]Object, 0, len(table.rows))
	for _, row := range table.rows {
		objects = append(objects, objectFromRow(table.columns, row))
	}
	return objects, nil
}

func (s *WarehouseStage) Put(ctx context.Context, localPath string) (PutStatus, error) {
	stmt, err := PutStatement(localPath, s.stage)
	if err != nil {
		return StatusError, err
	}
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return StatusError, services.Wrap(services.ErrTransfer, "stage", "put", filepath.Base(localPath), err)
	}
	defer rows.Close()

	table, err := scanStrings(rows)
	if err != nil {
		return StatusError, services.Wrap(services.ErrTransfer, "stage", "put", filepath.Base(localPath), err)
	}
	if len(table.rows) == 0 {
		return StatusError, services.Wrap(services.ErrTransfer, "stage", "put", "no status row returned", nil)
	}
	status, message := statusFromRow(table.columns, table.rows[0])
	if status == StatusError && message != "" {
		return status, services.Wrap(services.ErrTransfer, "stage", "put", message, nil)
	}
	return status, nil
}

// PutStatement builds the PUT statement for localPath. Compression and
// overwrite are always disabled.
func PutStatement(localPath, qualifiedStage string) (string, error) {
	abs, err := filepath.Abs(localPath)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", localPath, err)
	}
	abs = filepath.ToSlash(abs)
	if strings.ContainsAny(abs, "'\n") {
		return "", services.Wrap(services.ErrValidation, "stage", "put", fmt.Sprintf("path %q cannot be quoted", abs), nil)
	}
	return fmt.Sprintf("PUT 'file://%s' @%s AUTO_COMPRESS=FALSE OVERWRITE=FALSE", abs, qualifiedStage), nil
}

type stringTable struct {
	columns []string
	rows    [][]string
}

func scanStrings(rows *sql.Rows) (stringTable, error) {
	columns, err := rows.Columns()
	if err != nil {
		return stringTable{}, err
	}
	table := stringTable{columns: make([]string, len(columns))}
	for i, col := range columns {
		table.columns[i] = strings.ToLower(col)
	}
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return stringTable{}, err
		}
		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = v.String
		}
		table.rows = append(table.rows, row)
	}
	return table, rows.Err()
}

func column(columns, row []string, name string, fallback int) string {
	for i, col := range columns {
		if col == name && i < len(row) {
			return row[i]
		}
	}
	if fallback >= 0 && fallback < len(row) {
		return row[fallback]
	}
	return ""
}

// objectFromRow maps a LIST row (name, size, md5, last_modified).
func objectFromRow(columns, row []string) Object {
	obj := Object{
		Name:     column(columns, row, "name", 0),
		Checksum: column(columns, row, "md5", 2),
	}
	if size, err := strconv.ParseInt(strings.TrimSpace(column(columns, row, "size", 1)), 10, 64); err == nil {
		obj.Size = size
	}
	if ts, err := time.Parse(time.RFC1123, strings.TrimSpace(column(columns, row, "last_modified", 3))); err == nil {
		obj.LastModified = ts
	}
	return obj
}

// statusFromRow reads the status and message columns of a PUT result row.
func statusFromRow(columns, row []string) (PutStatus, string) {
	status := strings.ToUpper(strings.TrimSpace(column(columns, row, "status", 6)))
	message := strings.TrimSpace(column(columns, row, "message", 7))
	switch {
	case strings.Contains(status, string(StatusUploaded)):
		return StatusUploaded, message
	case strings.Contains(status, string(StatusSkipped)):
		return StatusSkipped, message
	default:
		if message == "" {
			message = status
		}
		return StatusError, message
	}
}
