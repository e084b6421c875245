package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"avtranscribe/internal/config"
	"avtranscribe/internal/services"
	"avtranscribe/internal/transcript"
)

const columns = `FILE_NAME, FILE_TYPE, DETECTED_LANGUAGE, TRANSCRIPT, TRANSCRIPT_WITH_SPEAKERS,
    SPEAKER_COUNT, PROCESSING_TIME_SECONDS, FILE_SIZE_BYTES, AUDIO_DURATION_SECONDS, TRANSCRIPTION_TIMESTAMP`

// sqliteTimestampLayout is how timestamps are stored in the SQLite backend so
// DATE() and lexical ordering both work.
const sqliteTimestampLayout = "2006-01-02 15:04:05"

// Store queries a results table.
type Store struct {
	db     *sql.DB
	table  string
	sqlite bool
	owned  bool
}

// New wraps an open connection. The store does not close db.
func New(db *sql.DB, table string) (*Store, error) {
	if !config.IsIdentifier(table) {
		return nil, services.Wrap(services.ErrConfiguration, "results", "open", fmt.Sprintf("invalid table name %q", table), nil)
	}
	return &Store{db: db, table: table}, nil
}

// Open picks the backend from cfg.Results. db is the shared warehouse
// handle and is only used by the snowflake backend.
func Open(ctx context.Context, cfg *config.Config, db *sql.DB) (*Store, error) {
	switch cfg.Results.Backend {
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.Results.SQLitePath, cfg.Results.Table)
	case config.BackendSnowflake:
		if db == nil {
			return nil, services.Wrap(services.ErrConfiguration, "results", "open", "snowflake results require a warehouse connection", nil)
		}
		return New(db, cfg.Results.Table)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "results", "open", fmt.Sprintf("unsupported backend %q", cfg.Results.Backend), nil)
	}
}

// Close releases the connection when the store opened it itself.
func (s *Store) Close() error {
	if s == nil || s.db == nil || !s.owned {
		return nil
	}
	return s.db.Close()
}

// Table returns the table name queried by the store.
func (s *Store) Table() string { return s.table }

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]transcript.FileRecord, error) {
	if limit <= 0 {
		return nil, services.Wrap(services.ErrValidation, "results", "recent", fmt.Sprintf("invalid limit %d", limit), nil)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY TRANSCRIPTION_TIMESTAMP DESC LIMIT %d", columns, s.table, limit)
	return s.queryRecords(ctx, "recent", query)
}

// Record returns the newest record for fileName.
func (s *Store) Record(ctx context.Context, fileName string) (transcript.FileRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE FILE_NAME = ? ORDER BY TRANSCRIPTION_TIMESTAMP DESC LIMIT 1", columns, s.table)
	records, err := s.queryRecords(ctx, "record", query, fileName)
	if err != nil {
		return transcript.FileRecord{}, err
	}
	if len(records) == 0 {
		return transcript.FileRecord{}, services.Wrap(services.ErrNotFound, "results", "record", fileName, nil)
	}
	return records[0], nil
}

// FileNames lists distinct file names that carry speaker segments.
func (s *Store) FileNames(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT FILE_NAME FROM %s WHERE TRANSCRIPT_WITH_SPEAKERS IS NOT NULL ORDER BY FILE_NAME", s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, services.Wrap(services.ErrQuery, "results", "file names", "", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, services.Wrap(services.ErrQuery, "results", "file names", "scan", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrQuery, "results", "file names", "", err)
	}
	return names, nil
}

// Insert adds one record.
func (s *Store) Insert(ctx context.Context, rec transcript.FileRecord) error {
	return insert(ctx, s.db, s.table, s.sqlite, rec)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, table string, sqlite bool, rec transcript.FileRecord) error {
	if strings.TrimSpace(rec.FileName) == "" {
		return services.Wrap(services.ErrValidation, "results", "insert", "file name is required", nil)
	}
	ts := rec.TranscribedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	var tsArg any = ts.UTC()
	if sqlite {
		tsArg = ts.UTC().Format(sqliteTimestampLayout)
	}
	var speakers any
	if rec.HasSpeakers() {
		speakers = rec.TranscriptWithSpeaker
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", table, columns)
	_, err := db.ExecContext(ctx, query,
		rec.FileName,
		nullable(rec.FileType),
		nullable(rec.Language),
		rec.Transcript,
		speakers,
		rec.SpeakerCount,
		rec.ProcessingSeconds,
		rec.FileSizeBytes,
		rec.DurationSeconds,
		tsArg,
	)
	if err != nil {
		return services.Wrap(services.ErrQuery, "results", "insert", rec.FileName, err)
	}
	return nil
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func (s *Store) queryRecords(ctx context.Context, op, query string, args ...any) ([]transcript.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrQuery, "results", op, "", err)
	}
	defer rows.Close()

	var records []transcript.FileRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrQuery, "results", op, "scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrQuery, "results", op, "", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (transcript.FileRecord, error) {
	var (
		rec        transcript.FileRecord
		fileType   sql.NullString
		language   sql.NullString
		plain      sql.NullString
		speakers   sql.NullString
		count      sql.NullInt64
		processing sql.NullFloat64
		size       sql.NullInt64
		duration   sql.NullFloat64
		stamp      timestamp
	)
	if err := rows.Scan(&rec.FileName, &fileType, &language, &plain, &speakers,
		&count, &processing, &size, &duration, &stamp); err != nil {
		return rec, err
	}
	rec.FileType = fileType.String
	rec.Language = language.String
	rec.Transcript = plain.String
	rec.TranscriptWithSpeaker = speakers.String
	rec.SpeakerCount = int(count.Int64)
	rec.ProcessingSeconds = processing.Float64
	rec.FileSizeBytes = size.Int64
	rec.DurationSeconds = duration.Float64
	rec.TranscribedAt = stamp.Time
	return rec, nil
}

// timestamp scans warehouse TIMESTAMP values and SQLite TEXT columns alike.
type timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	sqliteTimestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02",
}

func (t *timestamp) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", value)
	}
}

func (t *timestamp) parse(value string) error {
	parsed, err := ParseTimestamp(value)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTimestamp accepts the timestamp spellings produced by the warehouse,
// SQLite, and JSON exports. Zone-less values are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.New("unrecognized timestamp " + value)
}

func timeFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
