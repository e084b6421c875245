package export

import "time"

// FileInfo describes the source file for metadata rows.
type FileInfo struct {
	FileName        string
	Language        string
	DurationSeconds float64
	SpeakerCount    int
}

// Options controls how segments are rendered.
type Options struct {
	// Search enables the match columns and [MATCH] subtitle tags.
	Search     bool
	SearchTerm string
	// IncludeSpeakers prefixes subtitle text with the speaker label.
	IncludeSpeakers bool
	// File, when set, prepends metadata rows to CSV output.
	File *FileInfo
	Now  func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
