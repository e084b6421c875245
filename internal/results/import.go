package results

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"avtranscribe/internal/services"
	"avtranscribe/internal/transcript"
)

// importRow mirrors the warehouse column names. TRANSCRIPT_WITH_SPEAKERS may
// arrive as an embedded JSON string or as a nested object, and the timestamp
// in any layout ParseTimestamp understands.
type importRow struct {
	FileName          string          `json:"FILE_NAME"`
	FileType          string          `json:"FILE_TYPE"`
	Language          string          `json:"DETECTED_LANGUAGE"`
	Transcript        string          `json:"TRANSCRIPT"`
	Speakers          json.RawMessage `json:"TRANSCRIPT_WITH_SPEAKERS"`
	SpeakerCount      *float64        `json:"SPEAKER_COUNT"`
	ProcessingSeconds *float64        `json:"PROCESSING_TIME_SECONDS"`
	FileSizeBytes     *float64        `json:"FILE_SIZE_BYTES"`
	DurationSeconds   *float64        `json:"AUDIO_DURATION_SECONDS"`
	Timestamp         json.RawMessage `json:"TRANSCRIPTION_TIMESTAMP"`
}

// DecodeRecords parses a JSON array of result rows.
func DecodeRecords(r io.Reader) ([]transcript.FileRecord, error) {
	var rows []importRow
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rows); err != nil {
		return nil, services.Wrap(services.ErrParse, "results", "decode", "expected a JSON array of records", err)
	}
	records := make([]transcript.FileRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, services.Wrap(services.ErrParse, "results", "decode", fmt.Sprintf("record %d", i+1), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (row importRow) record() (transcript.FileRecord, error) {
	rec := transcript.FileRecord{
		FileName:   strings.TrimSpace(row.FileName),
		FileType:   strings.TrimSpace(row.FileType),
		Language:   strings.TrimSpace(row.Language),
		Transcript: row.Transcript,
	}
	if rec.FileName == "" {
		return rec, fmt.Errorf("FILE_NAME is required")
	}
	if row.SpeakerCount != nil {
		rec.SpeakerCount = int(*row.SpeakerCount)
	}
	if row.ProcessingSeconds != nil {
		rec.ProcessingSeconds = *row.ProcessingSeconds
	}
	if row.FileSizeBytes != nil {
		rec.FileSizeBytes = int64(*row.FileSizeBytes)
	}
	if row.DurationSeconds != nil {
		rec.DurationSeconds = *row.DurationSeconds
	}

	speakers, err := rawSpeakers(row.Speakers)
	if err != nil {
		return rec, err
	}
	rec.TranscriptWithSpeaker = speakers

	stamp, err := rawTimestamp(row.Timestamp)
	if err != nil {
		return rec, err
	}
	rec.TranscribedAt = stamp.Time
	return rec, nil
}

func rawSpeakers(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("TRANSCRIPT_WITH_SPEAKERS: %w", err)
		}
		return s, nil
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return "", fmt.Errorf("TRANSCRIPT_WITH_SPEAKERS: %w", err)
	}
	return compact.String(), nil
}

func rawTimestamp(raw json.RawMessage) (timestamp, error) {
	var stamp timestamp
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return stamp, nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return stamp, fmt.Errorf("TRANSCRIPTION_TIMESTAMP: %w", err)
		}
		if err := stamp.parse(s); err != nil {
			return stamp, fmt.Errorf("TRANSCRIPTION_TIMESTAMP: %w", err)
		}
		return stamp, nil
	}
	// Epoch milliseconds, as pandas writes them.
	ms, err := strconv.ParseInt(string(trimmed), 10, 64)
	if err != nil {
		return stamp, fmt.Errorf("TRANSCRIPTION_TIMESTAMP: %w", err)
	}
	stamp.Time = timeFromMillis(ms)
	return stamp, nil
}

// ImportJSON decodes records from r and inserts them in one transaction.
// Nothing is written when any record fails to decode or insert.
func (s *Store) ImportJSON(ctx context.Context, r io.Reader) (int, error) {
	records, err := DecodeRecords(r)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	err = retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()
		for _, rec := range records {
			if err := insert(ctx, tx, s.table, s.sqlite, rec); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, services.Wrap(services.ErrQuery, "results", "import", "", err)
	}
	return len(records), nil
}
