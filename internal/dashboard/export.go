package dashboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"avtranscribe/internal/export"
	"avtranscribe/internal/logging"
	"avtranscribe/internal/services"
	"avtranscribe/internal/transcript"
)

// ExportRequest selects a file and format. A non-empty Term exports only the
// context windows around matches.
type ExportRequest struct {
	FileName        string
	Kind            export.Kind
	Term            string
	ContextSize     int
	IncludeSpeakers bool
}

// ExportResult is a rendered export ready to be written.
type ExportResult struct {
	Name     string
	Content  []byte
	Segments int
}

// Export renders one file's speaker segments as CSV or SRT. Unlike the
// views, failures are returned: there is nothing partial to show.
func (s *Service) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	if req.Kind != export.KindCSV && req.Kind != export.KindSRT {
		return ExportResult{}, services.Wrap(services.ErrValidation, "dashboard", "export",
			fmt.Sprintf("unsupported format %q (csv or srt)", req.Kind), nil)
	}
	rec, err := s.store.Record(ctx, strings.TrimSpace(req.FileName))
	if err != nil {
		return ExportResult{}, err
	}
	segments, err := rec.Segments()
	if err != nil {
		return ExportResult{}, err
	}
	if len(segments) == 0 {
		return ExportResult{}, services.Wrap(services.ErrNotFound, "dashboard", "export",
			"no speaker segments available for "+rec.FileName, nil)
	}

	term := strings.TrimSpace(req.Term)
	opts := export.Options{
		IncludeSpeakers: req.IncludeSpeakers,
		File: &export.FileInfo{
			FileName:        rec.FileName,
			Language:        rec.Language,
			DurationSeconds: rec.DurationSeconds,
			SpeakerCount:    rec.SpeakerCount,
		},
		Now: s.now,
	}
	if term != "" {
		segments = transcript.ExtractContext(segments, term, transcript.ClampContextSize(req.ContextSize))
		if len(segments) == 0 {
			return ExportResult{}, services.Wrap(services.ErrNotFound, "dashboard", "export",
				fmt.Sprintf("no segments in %s match %q", rec.FileName, term), nil)
		}
		opts.Search = true
		opts.SearchTerm = term
	}

	result := ExportResult{Name: export.FileName(req.Kind, rec.FileName, term), Segments: len(segments)}
	switch req.Kind {
	case export.KindCSV:
		content, err := export.CSV(segments, opts)
		if err != nil {
			return ExportResult{}, services.Wrap(services.ErrValidation, "dashboard", "export", "render csv", err)
		}
		result.Content = []byte(content)
	case export.KindSRT:
		content := export.SRT(segments, opts)
		if issues := export.Validate(content); len(issues) > 0 {
			logging.WithContext(ctx, s.logger).Warn("subtitle export has issues",
				logging.File(rec.FileName),
				logging.String("issues", strings.Join(issues, "; ")),
			)
		}
		result.Content = []byte(content)
	}
	return result, nil
}

// Write stores the export under dir and returns the written path. An existing
// file with the same name is replaced.
func (r ExportResult) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "dashboard", "export", "create export directory", err)
	}
	path := filepath.Join(dir, r.Name)
	if err := os.WriteFile(path, r.Content, 0o644); err != nil {
		return "", services.Wrap(services.ErrTransfer, "dashboard", "export", "write "+path, err)
	}
	return path, nil
}
