package results

import (
	"context"
	"fmt"
	"strings"
	"time"

	"avtranscribe/internal/services"
	"avtranscribe/internal/transcript"
)

// DefaultSearchLimit caps search results when Filter.Limit is unset.
const DefaultSearchLimit = 50

const dateLayout = "2006-01-02"

// Filter narrows a transcript search. Empty fields do not filter.
type Filter struct {
	Term     string
	FileType string
	Language string
	From     time.Time
	To       time.Time
	Limit    int
}

// Search returns records whose transcript contains f.Term (case-insensitive),
// newest first. An empty term is rejected.
func (s *Store) Search(ctx context.Context, f Filter) ([]transcript.FileRecord, error) {
	query, args, err := s.searchQuery(f)
	if err != nil {
		return nil, err
	}
	return s.queryRecords(ctx, "search", query, args...)
}

func (s *Store) searchQuery(f Filter) (string, []any, error) {
	term := strings.TrimSpace(f.Term)
	if term == "" {
		return "", nil, services.Wrap(services.ErrValidation, "results", "search", "search term is required", nil)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	where := []string{"LOWER(TRANSCRIPT) LIKE ? ESCAPE '!'"}
	args := []any{"%" + EscapeLike(strings.ToLower(term)) + "%"}
	if v := strings.TrimSpace(f.FileType); v != "" && !strings.EqualFold(v, "all") {
		where = append(where, "FILE_TYPE = ?")
		args = append(args, v)
	}
	if v := strings.TrimSpace(f.Language); v != "" && !strings.EqualFold(v, "all") {
		where = append(where, "DETECTED_LANGUAGE = ?")
		args = append(args, v)
	}
	switch {
	case !f.From.IsZero() && !f.To.IsZero():
		if f.To.Before(f.From) {
			return "", nil, services.Wrap(services.ErrValidation, "results", "search", "date range end precedes start", nil)
		}
		where = append(where, "DATE(TRANSCRIPTION_TIMESTAMP) BETWEEN ? AND ?")
		args = append(args, f.From.Format(dateLayout), f.To.Format(dateLayout))
	case !f.From.IsZero():
		where = append(where, "DATE(TRANSCRIPTION_TIMESTAMP) >= ?")
		args = append(args, f.From.Format(dateLayout))
	case !f.To.IsZero():
		where = append(where, "DATE(TRANSCRIPTION_TIMESTAMP) <= ?")
		args = append(args, f.To.Format(dateLayout))
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY TRANSCRIPTION_TIMESTAMP DESC LIMIT %d",
		columns, s.table, strings.Join(where, " AND "), limit)
	return query, args, nil
}

// EscapeLike escapes LIKE wildcards so the term matches literally under ESCAPE '!'.
func EscapeLike(term string) string {
	replacer := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return replacer.Replace(term)
}
