package dashboard

import (
	"context"

	"avtranscribe/internal/analytics"
)

// AnalyticsView carries every analytics series over the loaded records.
type AnalyticsView struct {
	Records                int                    `json:"records"`
	ProcessingVsDuration   []analytics.Point      `json:"processing_vs_duration"`
	FileSizes              []analytics.Count      `json:"file_sizes"`
	SpeakerCounts          []analytics.Count      `json:"speaker_counts"`
	SpeakersByLanguage     []analytics.Count      `json:"speakers_by_language"`
	Efficiency             []analytics.Efficiency `json:"efficiency"`
	WordCounts             []analytics.Count      `json:"word_counts"`
	AverageWordsByLanguage []analytics.Value      `json:"average_words_by_language"`
	Notices                []Notice               `json:"notices,omitempty"`
}

// Analytics loads the most recent limit records and computes the analytics series.
func (s *Service) Analytics(ctx context.Context, limit int) (AnalyticsView, error) {
	if err := validateLimit("analytics", limit); err != nil {
		return AnalyticsView{}, err
	}
	var view AnalyticsView
	records, err := s.store.Recent(ctx, limit)
	if err != nil {
		view.Notices = append(view.Notices, s.degrade(ctx, "analytics", "transcriptions", err))
		records = nil
	}
	view.Records = len(records)
	view.ProcessingVsDuration = analytics.ProcessingVsDuration(records)
	view.FileSizes = analytics.FileSizeDistribution(records, topFileSizes)
	view.SpeakerCounts = analytics.SpeakerCountDistribution(records)
	view.SpeakersByLanguage = labelLanguages(analytics.SpeakersByLanguage(records))
	view.Efficiency = analytics.ProcessingEfficiency(records)
	view.WordCounts = analytics.WordCountDistribution(records, topWordCounts)
	view.AverageWordsByLanguage = analytics.AverageWordsByLanguage(records, topWordsByLang)
	for i := range view.AverageWordsByLanguage {
		view.AverageWordsByLanguage[i].Label = LanguageLabel(view.AverageWordsByLanguage[i].Label)
	}
	if err == nil && len(records) == 0 {
		view.Notices = append(view.Notices, Notice{Level: NoticeInfo, Message: "No transcription results found."})
	}
	return view, nil
}

// BrowseView is one page of the browse table plus the filter choices.
type BrowseView struct {
	analytics.BrowsePage
	FileTypes []string `json:"file_types"`
	Languages []string `json:"languages"`
	Notices   []Notice `json:"notices,omitempty"`
}

// Browse filters and sorts the most recent limit records.
func (s *Service) Browse(ctx context.Context, limit int, opts analytics.BrowseOptions) (BrowseView, error) {
	if err := validateLimit("browse", limit); err != nil {
		return BrowseView{}, err
	}
	var view BrowseView
	records, err := s.store.Recent(ctx, limit)
	if err != nil {
		view.Notices = append(view.Notices, s.degrade(ctx, "browse", "transcriptions", err))
		records = nil
	}
	page, err := analytics.Browse(records, opts)
	if err != nil {
		return BrowseView{}, err
	}
	view.BrowsePage = page
	view.FileTypes = analytics.FileTypes(records)
	view.Languages = analytics.Languages(records)
	return view, nil
}
