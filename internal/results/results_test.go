package results_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"avtranscribe/internal/config"
	"avtranscribe/internal/results"
	"avtranscribe/internal/services"
	"avtranscribe/internal/transcript"
)

func openStore(t *testing.T) *results.Store {
	t.Helper()
	store, err := results.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "results.db"), "TRANSCRIPTION_RESULTS")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func day(d, hour int) time.Time {
	return time.Date(2024, time.March, d, hour, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, store *results.Store) {
	t.Helper()
	records := []transcript.FileRecord{
		{
			FileName: "standup.mp3", FileType: "mp3", Language: "en",
			Transcript:            "Budget review and the 100% plan",
			TranscriptWithSpeaker: `{"speakers":[{"speaker":"A","text":"Budget review","start_time":0,"end_time":2}]}`,
			SpeakerCount:          2, ProcessingSeconds: 10, FileSizeBytes: 1000, DurationSeconds: 3600,
			TranscribedAt: day(1, 9),
		},
		{
			FileName: "interview.mp4", FileType: "mp4", Language: "de",
			Transcript:   "Kein budget heute",
			SpeakerCount: 0, ProcessingSeconds: 20, FileSizeBytes: 2000, DurationSeconds: 1800,
			TranscribedAt: day(5, 12),
		},
		{
			FileName: "notes.wav", FileType: "wav", Language: "en",
			Transcript:            "nothing relevant here",
			TranscriptWithSpeaker: `{"speakers":[]}`,
			SpeakerCount:          4, ProcessingSeconds: 30, FileSizeBytes: 3000, DurationSeconds: 1800,
			TranscribedAt: day(10, 8),
		},
	}
	for _, rec := range records {
		if err := store.Insert(context.Background(), rec); err != nil {
			t.Fatalf("Insert %s: %v", rec.FileName, err)
		}
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := openStore(t)
	seed(t, store)

	recs, err := store.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].FileName != "notes.wav" || recs[1].FileName != "interview.mp4" {
		t.Fatalf("unexpected order: %s, %s", recs[0].FileName, recs[1].FileName)
	}
	if !recs[0].TranscribedAt.Equal(day(10, 8)) {
		t.Fatalf("timestamp = %v", recs[0].TranscribedAt)
	}
	if recs[1].HasSpeakers() {
		t.Fatal("interview.mp4 should have no speaker document")
	}
	if _, err := store.Recent(context.Background(), 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStats(t *testing.T) {
	store := openStore(t)

	empty, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats on empty table: %v", err)
	}
	if empty != (results.Stats{}) {
		t.Fatalf("expected zero stats, got %+v", empty)
	}

	seed(t, store)
	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalFiles != 3 || stats.Languages != 2 || stats.FilesWithSpeakers != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.TotalHours != 2 {
		t.Fatalf("TotalHours = %v", stats.TotalHours)
	}
	if stats.AvgProcessingSeconds != 20 {
		t.Fatalf("AvgProcessingSeconds = %v", stats.AvgProcessingSeconds)
	}
	if stats.AvgSpeakers != 3 {
		t.Fatalf("AvgSpeakers = %v", stats.AvgSpeakers)
	}
}

func TestSearchFilters(t *testing.T) {
	store := openStore(t)
	seed(t, store)
	ctx := context.Background()

	names := func(recs []transcript.FileRecord) string {
		out := make([]string, 0, len(recs))
		for _, r := range recs {
			out = append(out, r.FileName)
		}
		return strings.Join(out, ",")
	}

	cases := []struct {
		name   string
		filter results.Filter
		want   string
	}{
		{"case insensitive", results.Filter{Term: "BUDGET"}, "interview.mp4,standup.mp3"},
		{"file type", results.Filter{Term: "budget", FileType: "mp3"}, "standup.mp3"},
		{"all is no filter", results.Filter{Term: "budget", FileType: "All", Language: "All"}, "interview.mp4,standup.mp3"},
		{"language", results.Filter{Term: "budget", Language: "de"}, "interview.mp4"},
		{"date range", results.Filter{Term: "budget", From: day(1, 0), To: day(1, 0)}, "standup.mp3"},
		{"from only", results.Filter{Term: "budget", From: day(2, 0)}, "interview.mp4"},
		{"limit", results.Filter{Term: "budget", Limit: 1}, "interview.mp4"},
		{"percent is literal", results.Filter{Term: "100%"}, "standup.mp3"},
		{"underscore is literal", results.Filter{Term: "budget_"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs, err := store.Search(ctx, tc.filter)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if got := names(recs); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}

	if _, err := store.Search(ctx, results.Filter{Term: "  "}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for blank term, got %v", err)
	}
	if _, err := store.Search(ctx, results.Filter{Term: "x", From: day(5, 0), To: day(1, 0)}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}
}

func TestRecordAndFileNames(t *testing.T) {
	store := openStore(t)
	seed(t, store)
	ctx := context.Background()

	rec, err := store.Record(ctx, "standup.mp3")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	segs, err := rec.Segments()
	if err != nil || len(segs) != 1 || segs[0].Text != "Budget review" {
		t.Fatalf("unexpected segments %+v (err %v)", segs, err)
	}
	if _, err := store.Record(ctx, "missing.mp3"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	names, err := store.FileNames(ctx)
	if err != nil {
		t.Fatalf("FileNames: %v", err)
	}
	if strings.Join(names, ",") != "notes.wav,standup.mp3" {
		t.Fatalf("FileNames = %v", names)
	}
}

func TestImportJSON(t *testing.T) {
	store := openStore(t)
	payload := `[
	  {"FILE_NAME":"a.mp3","FILE_TYPE":"mp3","DETECTED_LANGUAGE":"en","TRANSCRIPT":"hello",
	   "TRANSCRIPT_WITH_SPEAKERS":"{\"speakers\":[{\"speaker\":\"S1\",\"text\":\"hello\",\"start_time\":0,\"end_time\":1}]}",
	   "SPEAKER_COUNT":1,"PROCESSING_TIME_SECONDS":1.5,"FILE_SIZE_BYTES":10,"AUDIO_DURATION_SECONDS":1,
	   "TRANSCRIPTION_TIMESTAMP":"2024-03-01 10:00:00"},
	  {"FILE_NAME":"b.mp3","TRANSCRIPT":"world",
	   "TRANSCRIPT_WITH_SPEAKERS":{"speakers":[{"speaker":"S2","text":"world","start_time":1,"end_time":2}]},
	   "TRANSCRIPTION_TIMESTAMP":1709287200000}
	]`
	n, err := store.ImportJSON(context.Background(), strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if n != 2 {
		t.Fatalf("imported %d records", n)
	}

	b, err := store.Record(context.Background(), "b.mp3")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	segs, err := b.Segments()
	if err != nil || len(segs) != 1 || segs[0].Speaker != "S2" {
		t.Fatalf("unexpected segments %+v (err %v)", segs, err)
	}
	if !b.TranscribedAt.Equal(time.UnixMilli(1709287200000)) {
		t.Fatalf("timestamp = %v", b.TranscribedAt)
	}
}

func TestImportJSONRejectsBadInputAtomically(t *testing.T) {
	store := openStore(t)
	if _, err := store.ImportJSON(context.Background(), strings.NewReader(`{"FILE_NAME":"x"}`)); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	bad := `[{"FILE_NAME":"ok.mp3"},{"FILE_NAME":""}]`
	if _, err := store.ImportJSON(context.Background(), strings.NewReader(bad)); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalFiles != 0 {
		t.Fatalf("expected no rows after failed import, got %d", stats.TotalFiles)
	}
}

func TestOpenSelectsBackendAndValidatesTable(t *testing.T) {
	cfg := config.Default()
	cfg.Results.Backend = config.BackendSQLite
	cfg.Results.SQLitePath = filepath.Join(t.TempDir(), "nested", "r.db")
	store, err := results.Open(context.Background(), &cfg, nil)
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	_ = store.Close()

	cfg.Results.Backend = config.BackendSnowflake
	if _, err := results.Open(context.Background(), &cfg, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error without a warehouse handle, got %v", err)
	}
	if _, err := results.OpenSQLite(context.Background(), ":memory:", "bad table"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for bad table, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	store, err := results.OpenSQLite(context.Background(), path, "TRANSCRIPTION_RESULTS")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := store.Insert(context.Background(), transcript.FileRecord{FileName: "a.mp3", TranscribedAt: day(1, 0)}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	_ = store.Close()

	store, err = results.OpenSQLite(context.Background(), path, "TRANSCRIPTION_RESULTS")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	recs, err := store.Recent(context.Background(), 10)
	if err != nil || len(recs) != 1 {
		t.Fatalf("Recent after reopen: %v %v", recs, err)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := results.EscapeLike("a%b_c!"); got != "a!%b!_c!!" {
		t.Fatalf("EscapeLike = %q", got)
	}
}
