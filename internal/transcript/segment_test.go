package transcript_test

import (
	"errors"
	"testing"

	"avtranscribe/internal/services"
	"avtranscribe/internal/transcript"
)

func TestParseSpeakersAppliesDefaults(t *testing.T) {
	segments, err := transcript.ParseSpeakers(`{"speakers":[
		{"text":"hello","start_time":1.5,"end_time":4},
		{"speaker":"A","text":"x","start_time":5,"end_time":6,"duration":9}
	]}`)
	if err != nil {
		t.Fatalf("ParseSpeakers: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	first := segments[0]
	if first.Speaker != transcript.UnknownSpeaker {
		t.Fatalf("expected Unknown speaker, got %q", first.Speaker)
	}
	if first.Duration != 2.5 {
		t.Fatalf("expected derived duration 2.5, got %v", first.Duration)
	}
	if segments[1].Duration != 9 {
		t.Fatalf("explicit duration should be kept, got %v", segments[1].Duration)
	}
}

func TestParseSpeakersMissingKeyAndErrors(t *testing.T) {
	segments, err := transcript.ParseSpeakers(`{"other":1}`)
	if err != nil || len(segments) != 0 {
		t.Fatalf("expected empty list without error, got %v %v", segments, err)
	}
	if _, err := transcript.ParseSpeakers(`{"speakers":[`); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if _, err := transcript.ParseSpeakers("  "); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error for empty document, got %v", err)
	}
}

func TestMarshalSpeakersRoundTrip(t *testing.T) {
	in := []transcript.Segment{transcript.NewSegment("A", "hi", 0, 1.25)}
	raw, err := transcript.MarshalSpeakers(in)
	if err != nil {
		t.Fatalf("MarshalSpeakers: %v", err)
	}
	out, err := transcript.ParseSpeakers(raw)
	if err != nil {
		t.Fatalf("ParseSpeakers: %v", err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestFileRecordSegments(t *testing.T) {
	rec := transcript.FileRecord{Transcript: "one two  three"}
	if rec.HasSpeakers() {
		t.Fatal("record without document should not report speakers")
	}
	if segs, err := rec.Segments(); err != nil || len(segs) != 0 {
		t.Fatalf("expected empty segments, got %v %v", segs, err)
	}
	if rec.WordCount() != 3 {
		t.Fatalf("word count = %d", rec.WordCount())
	}
	rec.TranscriptWithSpeaker = "not json"
	if _, err := rec.Segments(); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
