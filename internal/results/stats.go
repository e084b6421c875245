package results

import (
	"context"
	"database/sql"
	"fmt"

	"avtranscribe/internal/services"
)

// Stats summarizes the whole results table.
type Stats struct {
	TotalFiles           int64   `json:"total_files"`
	TotalHours           float64 `json:"total_hours"`
	AvgProcessingSeconds float64 `json:"avg_processing_seconds"`
	Languages            int64   `json:"languages"`
	FilesWithSpeakers    int64   `json:"files_with_speakers"`
	AvgSpeakers          float64 `json:"avg_speakers"`
}

// Stats computes the overview metrics in a single aggregate query. Averages
// over no rows report zero.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	query := fmt.Sprintf(`SELECT
    COUNT(*),
    SUM(AUDIO_DURATION_SECONDS) / 3600.0,
    AVG(PROCESSING_TIME_SECONDS),
    COUNT(DISTINCT DETECTED_LANGUAGE),
    SUM(CASE WHEN TRANSCRIPT_WITH_SPEAKERS IS NOT NULL THEN 1 ELSE 0 END),
    AVG(CASE WHEN SPEAKER_COUNT > 0 THEN SPEAKER_COUNT END)
FROM %s`, s.table)

	var (
		stats        Stats
		hours        sql.NullFloat64
		processing   sql.NullFloat64
		withSpeakers sql.NullInt64
		avgSpeakers  sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalFiles, &hours, &processing, &stats.Languages, &withSpeakers, &avgSpeakers,
	)
	if err != nil {
		return Stats{}, services.Wrap(services.ErrQuery, "results", "stats", "", err)
	}
	stats.TotalHours = hours.Float64
	stats.AvgProcessingSeconds = processing.Float64
	stats.FilesWithSpeakers = withSpeakers.Int64
	stats.AvgSpeakers = avgSpeakers.Float64
	return stats, nil
}
