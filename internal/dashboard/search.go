package dashboard

import (
	"context"
	"errors"
	"strings"
	"time"

	"avtranscribe/internal/export"
	"avtranscribe/internal/logging"
	"avtranscribe/internal/results"
	"avtranscribe/internal/services"
	"avtranscribe/internal/transcript"
)

// PreviewChars bounds the plain-transcript fallback shown for a hit.
const PreviewChars = 500

// SearchRequest describes one transcript search.
type SearchRequest struct {
	Term        string
	FileType    string
	Language    string
	From        time.Time
	To          time.Time
	Limit       int
	ContextSize int
	// SpeakerView renders matches inside their speaker segments when the
	// record has them.
	SpeakerView bool
}

// SearchHit is one matching file.
type SearchHit struct {
	FileName        string    `json:"file_name"`
	FileType        string    `json:"file_type"`
	Language        string    `json:"language"`
	SpeakerCount    int       `json:"speaker_count"`
	DurationSeconds float64   `json:"duration_seconds"`
	TranscribedAt   time.Time `json:"transcribed_at"`

	// Context holds the raw context segments, as exported.
	Context []transcript.Segment `json:"context,omitempty"`
	// Groups holds normalized segments per match window, matches highlighted.
	Groups  [][]transcript.Segment `json:"groups,omitempty"`
	Matches int                    `json:"matches"`
	// Preview is set when the hit falls back to the plain transcript.
	Preview string `json:"preview,omitempty"`
	Notice  string `json:"notice,omitempty"`

	CSVName string `json:"csv_name,omitempty"`
	SRTName string `json:"srt_name,omitempty"`
}

// SearchView lists search hits for a term.
type SearchView struct {
	Term        string      `json:"term"`
	ContextSize int         `json:"context_size"`
	Hits        []SearchHit `json:"hits"`
	Notices     []Notice    `json:"notices,omitempty"`
}

// Search runs a transcript search and expands each hit into match windows.
func (s *Service) Search(ctx context.Context, req SearchRequest) (SearchView, error) {
	term := strings.TrimSpace(req.Term)
	if term == "" {
		return SearchView{}, services.Wrap(services.ErrValidation, "dashboard", "search", "search term is required", nil)
	}
	size := transcript.ClampContextSize(req.ContextSize)
	view := SearchView{Term: term, ContextSize: size, Hits: []SearchHit{}}

	records, err := s.store.Search(ctx, results.Filter{
		Term:     term,
		FileType: req.FileType,
		Language: req.Language,
		From:     req.From,
		To:       req.To,
		Limit:    req.Limit,
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return SearchView{}, err
		}
		view.Notices = append(view.Notices, s.degrade(ctx, "search", "search results", err))
		return view, nil
	}

	for _, rec := range records {
		view.Hits = append(view.Hits, s.searchHit(ctx, rec, term, size, req.SpeakerView))
	}
	return view, nil
}

func (s *Service) searchHit(ctx context.Context, rec transcript.FileRecord, term string, size int, speakerView bool) SearchHit {
	hit := SearchHit{
		FileName:        rec.FileName,
		FileType:        rec.FileType,
		Language:        rec.Language,
		SpeakerCount:    rec.SpeakerCount,
		DurationSeconds: rec.DurationSeconds,
		TranscribedAt:   rec.TranscribedAt,
	}
	fallback := func(notice string) SearchHit {
		hit.Preview = s.highlight(transcript.Preview(rec.Transcript, PreviewChars), term)
		hit.Notice = notice
		return hit
	}
	if !speakerView || !rec.HasSpeakers() {
		return fallback("")
	}

	segments, err := rec.Segments()
	if err != nil {
		logging.WithContext(ctx, s.logger).Warn("speaker data unreadable; using transcript preview",
			logging.File(rec.FileName),
			logging.Error(err),
		)
		return fallback("Could not parse speaker data; showing transcript preview.")
	}
	window := transcript.ExtractContext(segments, term, size)
	if len(window) == 0 {
		return fallback("No matching speaker segments; showing transcript preview.")
	}

	hit.Context = window
	for _, group := range transcript.MatchGroups(transcript.Normalize(window)) {
		for i := range group {
			if group[i].IsMatch {
				group[i].Text = s.highlight(group[i].Text, term)
			}
		}
		hit.Groups = append(hit.Groups, group)
	}
	for _, seg := range window {
		if seg.IsMatch {
			hit.Matches++
		}
	}
	hit.CSVName = export.FileName(export.KindCSV, rec.FileName, term)
	hit.SRTName = export.FileName(export.KindSRT, rec.FileName, term)
	return hit
}
