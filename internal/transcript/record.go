package transcript

import (
	"strings"
	"time"
)

// FileRecord is one row of the transcription results table.
type FileRecord struct {
	FileName              string    `json:"FILE_NAME"`
	FileType              string    `json:"FILE_TYPE"`
	Language              string    `json:"DETECTED_LANGUAGE"`
	Transcript            string    `json:"TRANSCRIPT"`
	TranscriptWithSpeaker string    `json:"TRANSCRIPT_WITH_SPEAKERS,omitempty"`
	SpeakerCount          int       `json:"SPEAKER_COUNT"`
	ProcessingSeconds     float64   `json:"PROCESSING_TIME_SECONDS"`
	FileSizeBytes         int64     `json:"FILE_SIZE_BYTES"`
	DurationSeconds       float64   `json:"AUDIO_DURATION_SECONDS"`
	TranscribedAt         time.Time `json:"TRANSCRIPTION_TIMESTAMP"`
}

// HasSpeakers reports whether the record carries a structured segment document.
func (r FileRecord) HasSpeakers() bool {
	return strings.TrimSpace(r.TranscriptWithSpeaker) != ""
}

// Segments decodes the structured segment document. Records without one
// return an empty list and no error.
func (r FileRecord) Segments() ([]Segment, error) {
	if !r.HasSpeakers() {
		return []Segment{}, nil
	}
	return ParseSpeakers(r.TranscriptWithSpeaker)
}

// WordCount counts the words of the plain transcript.
func (r FileRecord) WordCount() int {
	return WordCount(r.Transcript)
}
