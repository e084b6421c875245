package dashboard

import (
	"context"
	"fmt"

	"avtranscribe/internal/analytics"
	"avtranscribe/internal/config"
	"avtranscribe/internal/results"
	"avtranscribe/internal/services"
	"avtranscribe/internal/transcript"
)

const (
	recentRows     = 5
	topLanguages   = 10
	topWordCounts  = 20
	topFileSizes   = 20
	topWordsByLang = 10
)

// Metric is one labelled headline number.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// OverviewView is the landing page: headline metrics and summary charts.
type OverviewView struct {
	Stats     results.Stats           `json:"stats"`
	Metrics   []Metric                `json:"metrics"`
	Timeline  []analytics.Count       `json:"timeline"`
	FileTypes []analytics.Count       `json:"file_types"`
	Languages []analytics.Count       `json:"languages"`
	Recent    []transcript.FileRecord `json:"recent"`
	Notices   []Notice                `json:"notices,omitempty"`
}

func validateLimit(view string, limit int) error {
	if !config.IsLoadLimit(limit) {
		return services.Wrap(services.ErrValidation, "dashboard", view,
			fmt.Sprintf("unsupported record limit %d (choose one of %v)", limit, config.LoadLimits), nil)
	}
	return nil
}

// Overview loads summary statistics and the most recent limit records.
func (s *Service) Overview(ctx context.Context, limit int) (OverviewView, error) {
	if err := validateLimit("overview", limit); err != nil {
		return OverviewView{}, err
	}
	var view OverviewView

	stats, err := s.store.Stats(ctx)
	if err != nil {
		view.Notices = append(view.Notices, s.degrade(ctx, "overview", "statistics", err))
	}
	view.Stats = stats
	view.Metrics = s.metrics(stats)

	records, err := s.store.Recent(ctx, limit)
	if err != nil {
		view.Notices = append(view.Notices, s.degrade(ctx, "overview", "transcriptions", err))
		records = nil
	}
	if err == nil && len(records) == 0 {
		view.Notices = append(view.Notices, Notice{Level: NoticeInfo, Message: "No transcription results found."})
	}
	view.Timeline = analytics.Timeline(records)
	view.FileTypes = analytics.FileTypeCounts(records)
	view.Languages = labelLanguages(analytics.LanguageCounts(records, topLanguages))
	view.Recent = records[:min(recentRows, len(records))]
	return view, nil
}

func (s *Service) metrics(stats results.Stats) []Metric {
	p := s.printer
	return []Metric{
		{Label: "Total Files", Value: p.Sprintf("%d", stats.TotalFiles)},
		{Label: "Total Duration", Value: p.Sprintf("%.1f hours", stats.TotalHours)},
		{Label: "Avg Processing", Value: p.Sprintf("%.1fs", stats.AvgProcessingSeconds)},
		{Label: "Languages Detected", Value: p.Sprintf("%d", stats.Languages)},
		{Label: "Files with Speakers", Value: p.Sprintf("%d", stats.FilesWithSpeakers)},
		{Label: "Avg Speakers", Value: p.Sprintf("%.1f", stats.AvgSpeakers)},
	}
}

func labelLanguages(counts []analytics.Count) []analytics.Count {
	out := make([]analytics.Count, len(counts))
	for i, c := range counts {
		out[i] = analytics.Count{Label: LanguageLabel(c.Label), Count: c.Count}
	}
	return out
}
