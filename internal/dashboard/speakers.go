package dashboard

import (
	"context"
	"errors"
	"strings"

	"github.com/dustin/go-humanize"

	"avtranscribe/internal/export"
	"avtranscribe/internal/logging"
	"avtranscribe/internal/services"
	"avtranscribe/internal/transcript"
)

// FileSummary is the header shown above a single file's transcript.
type FileSummary struct {
	FileName        string  `json:"file_name"`
	FileType        string  `json:"file_type"`
	Language        string  `json:"language"`
	LanguageLabel   string  `json:"language_label"`
	DurationSeconds float64 `json:"duration_seconds"`
	SpeakerCount    int     `json:"speaker_count"`
	Size            string  `json:"size"`
	Words           int     `json:"words"`
}

// SpeakersView shows one file's speaker-separated transcript.
type SpeakersView struct {
	// Files lists the files that carry speaker data, for selection.
	Files []string     `json:"files"`
	File  *FileSummary `json:"file,omitempty"`
	// Segments are normalized for reading; RawSegments counts the input.
	Segments    []transcript.Segment `json:"segments,omitempty"`
	RawSegments int                  `json:"raw_segments"`
	// Transcript is the plain-text fallback when no segments are usable.
	Transcript string   `json:"transcript,omitempty"`
	CSVName    string   `json:"csv_name,omitempty"`
	SRTName    string   `json:"srt_name,omitempty"`
	Notices    []Notice `json:"notices,omitempty"`
}

// Speakers lists files with speaker data and, when fileName is set, loads
// that file's segments.
func (s *Service) Speakers(ctx context.Context, fileName string) (SpeakersView, error) {
	view := SpeakersView{Files: []string{}}

	files, err := s.store.FileNames(ctx)
	if err != nil {
		view.Notices = append(view.Notices, s.degrade(ctx, "speakers", "file list", err))
	} else if files != nil {
		view.Files = files
	}

	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		if err == nil && len(view.Files) == 0 {
			view.Notices = append(view.Notices, Notice{Level: NoticeInfo, Message: "No files with speaker data found."})
		}
		return view, nil
	}

	rec, err := s.store.Record(ctx, fileName)
	switch {
	case errors.Is(err, services.ErrNotFound):
		view.Notices = append(view.Notices, Notice{Level: NoticeWarning, Message: "No transcription found for " + fileName + "."})
		return view, nil
	case err != nil:
		view.Notices = append(view.Notices, s.degrade(ctx, "speakers", "speaker segments", err))
		return view, nil
	}
	view.File = summarize(rec)

	segments, err := rec.Segments()
	if err != nil {
		logging.WithContext(ctx, s.logger).Warn("speaker data unreadable; using plain transcript",
			logging.File(rec.FileName),
			logging.Error(err),
		)
		view.Notices = append(view.Notices, Notice{Level: NoticeWarning, Message: "Could not parse speaker data; showing full transcript."})
		view.Transcript = rec.Transcript
		return view, nil
	}
	if len(segments) == 0 {
		view.Notices = append(view.Notices, Notice{Level: NoticeInfo, Message: "Speaker segments not available; showing full transcript."})
		view.Transcript = rec.Transcript
		return view, nil
	}

	view.RawSegments = len(segments)
	view.Segments = transcript.Normalize(segments)
	view.CSVName = export.FileName(export.KindCSV, rec.FileName, "")
	view.SRTName = export.FileName(export.KindSRT, rec.FileName, "")
	return view, nil
}

func summarize(rec transcript.FileRecord) *FileSummary {
	size := ""
	if rec.FileSizeBytes > 0 {
		size = humanize.IBytes(uint64(rec.FileSizeBytes))
	}
	return &FileSummary{
		FileName:        rec.FileName,
		FileType:        rec.FileType,
		Language:        rec.Language,
		LanguageLabel:   LanguageLabel(rec.Language),
		DurationSeconds: rec.DurationSeconds,
		SpeakerCount:    rec.SpeakerCount,
		Size:            size,
		Words:           rec.WordCount(),
	}
}
