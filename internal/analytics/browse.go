package analytics

import (
	"fmt"
	"sort"
	"strings"

	"avtranscribe/internal/services"
	"avtranscribe/internal/transcript"
)

// DefaultPageSize is how many records a browse page shows.
const DefaultPageSize = 20

// Sort columns accepted by Browse.
const (
	SortTimestamp  = "TRANSCRIPTION_TIMESTAMP"
	SortFileName   = "FILE_NAME"
	SortSpeakers   = "SPEAKER_COUNT"
	SortProcessing = "PROCESSING_TIME_SECONDS"
	SortDuration   = "AUDIO_DURATION_SECONDS"
)

// SortColumns lists the accepted sort keys in menu order.
var SortColumns = []string{SortTimestamp, SortFileName, SortSpeakers, SortProcessing, SortDuration}

// BrowseOptions filters and orders the browse view. Empty or "All" filters
// match everything.
type BrowseOptions struct {
	FileType string
	Language string
	SortBy   string
	Page     int
	PageSize int
}

// BrowsePage is one page of filtered records plus the filtered total.
type BrowsePage struct {
	Total   int                     `json:"total"`
	Page    int                     `json:"page"`
	Records []transcript.FileRecord `json:"records"`
}

// Browse filters records and sorts them descending by opts.SortBy.
func Browse(records []transcript.FileRecord, opts BrowseOptions) (BrowsePage, error) {
	sortBy := strings.ToUpper(strings.TrimSpace(opts.SortBy))
	if sortBy == "" {
		sortBy = SortTimestamp
	}
	less, ok := sorters[sortBy]
	if !ok {
		return BrowsePage{}, services.Wrap(services.ErrValidation, "analytics", "browse",
			fmt.Sprintf("unsupported sort column %q (choose one of %s)", opts.SortBy, strings.Join(SortColumns, ", ")), nil)
	}
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := max(opts.Page, 1)

	filtered := make([]transcript.FileRecord, 0, len(records))
	for _, rec := range records {
		if !matchesFilter(rec.FileType, opts.FileType) || !matchesFilter(rec.Language, opts.Language) {
			continue
		}
		filtered = append(filtered, rec)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return less(filtered[j], filtered[i]) })

	lo := min((page-1)*size, len(filtered))
	hi := min(lo+size, len(filtered))
	return BrowsePage{Total: len(filtered), Page: page, Records: filtered[lo:hi]}, nil
}

func matchesFilter(value, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" || strings.EqualFold(filter, "all") {
		return true
	}
	return value == filter
}

var sorters = map[string]func(a, b transcript.FileRecord) bool{
	SortTimestamp:  func(a, b transcript.FileRecord) bool { return a.TranscribedAt.Before(b.TranscribedAt) },
	SortFileName:   func(a, b transcript.FileRecord) bool { return a.FileName < b.FileName },
	SortSpeakers:   func(a, b transcript.FileRecord) bool { return a.SpeakerCount < b.SpeakerCount },
	SortProcessing: func(a, b transcript.FileRecord) bool { return a.ProcessingSeconds < b.ProcessingSeconds },
	SortDuration:   func(a, b transcript.FileRecord) bool { return a.DurationSeconds < b.DurationSeconds },
}
