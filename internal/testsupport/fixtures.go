package testsupport

import (
	"testing"
	"time"

	"avtranscribe/internal/transcript"
)

// Segments builds segments from alternating speaker/text pairs, each five
// seconds long and back to back.
func Segments(pairs ...string) []transcript.Segment {
	out := make([]transcript.Segment, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		start := float64(i/2) * 5
		out = append(out, transcript.NewSegment(pairs[i], pairs[i+1], start, start+5))
	}
	return out
}

// Record returns a results row carrying segs as its speaker document.
func Record(t testing.TB, name string, at time.Time, segs ...transcript.Segment) transcript.FileRecord {
	t.Helper()

	rec := transcript.FileRecord{
		FileName:          name,
		FileType:          "mp3",
		Language:          "en",
		ProcessingSeconds: 12.5,
		FileSizeBytes:     1 << 20,
		TranscribedAt:     at,
	}
	speakers := map[string]struct{}{}
	for i, s := range segs {
		if i > 0 {
			rec.Transcript += " "
		}
		rec.Transcript += s.Text
		rec.DurationSeconds = s.End
		speakers[s.Speaker] = struct{}{}
	}
	if len(segs) > 0 {
		raw, err := transcript.MarshalSpeakers(segs)
		if err != nil {
			t.Fatalf("MarshalSpeakers: %v", err)
		}
		rec.TranscriptWithSpeaker = raw
		rec.SpeakerCount = len(speakers)
	}
	return rec
}
