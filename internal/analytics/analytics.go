package analytics

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"avtranscribe/internal/transcript"
)

// Count is one bar of a categorical series.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Value is one bar of a numeric series.
type Value struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Efficiency compares mean processing time with mean media duration for one
// file type. Ratios below 1 mean faster than real time.
type Efficiency struct {
	FileType        string  `json:"file_type"`
	MeanProcessing  float64 `json:"mean_processing_seconds"`
	MeanDuration    float64 `json:"mean_duration_seconds"`
	ProcessingRatio float64 `json:"processing_ratio"`
	Files           int     `json:"files"`
}

// Point pairs media duration with processing time for one file.
type Point struct {
	FileName          string  `json:"file_name"`
	DurationSeconds   float64 `json:"duration_seconds"`
	ProcessingSeconds float64 `json:"processing_seconds"`
}

const unknownLabel = "unknown"

func label(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return unknownLabel
	}
	return s
}

// valueCounts tallies labels, most frequent first, ties by label.
func valueCounts(labels []string) []Count {
	tally := make(map[string]int)
	for _, l := range labels {
		tally[l]++
	}
	out := make([]Count, 0, len(tally))
	for l, n := range tally {
		out = append(out, Count{Label: l, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func head[T any](items []T, top int) []T {
	if top > 0 && len(items) > top {
		return items[:top]
	}
	return items
}

// Timeline counts files per transcription date, oldest first.
func Timeline(records []transcript.FileRecord) []Count {
	tally := make(map[string]int)
	for _, rec := range records {
		if rec.TranscribedAt.IsZero() {
			continue
		}
		tally[rec.TranscribedAt.Format("2006-01-02")]++
	}
	days := make([]string, 0, len(tally))
	for d := range tally {
		days = append(days, d)
	}
	slices.Sort(days)
	out := make([]Count, 0, len(days))
	for _, d := range days {
		out = append(out, Count{Label: d, Count: tally[d]})
	}
	return out
}

// FileTypeCounts counts files per file type.
func FileTypeCounts(records []transcript.FileRecord) []Count {
	labels := make([]string, 0, len(records))
	for _, rec := range records {
		labels = append(labels, label(rec.FileType))
	}
	return valueCounts(labels)
}

// LanguageCounts counts files per detected language, keeping the top entries.
// top <= 0 keeps everything.
func LanguageCounts(records []transcript.FileRecord, top int) []Count {
	labels := make([]string, 0, len(records))
	for _, rec := range records {
		labels = append(labels, label(rec.Language))
	}
	return head(valueCounts(labels), top)
}

// ProcessingEfficiency groups by file type. Types whose mean duration is zero
// have no meaningful ratio and are omitted.
func ProcessingEfficiency(records []transcript.FileRecord) []Efficiency {
	type acc struct {
		processing, duration float64
		n                    int
	}
	groups := make(map[string]*acc)
	for _, rec := range records {
		key := label(rec.FileType)
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.processing += rec.ProcessingSeconds
		g.duration += rec.DurationSeconds
		g.n++
	}

	out := make([]Efficiency, 0, len(groups))
	for key, g := range groups {
		meanDuration := g.duration / float64(g.n)
		if meanDuration <= 0 {
			continue
		}
		meanProcessing := g.processing / float64(g.n)
		out = append(out, Efficiency{
			FileType:        key,
			MeanProcessing:  meanProcessing,
			MeanDuration:    meanDuration,
			ProcessingRatio: meanProcessing / meanDuration,
			Files:           g.n,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileType < out[j].FileType })
	return out
}

// SpeakerCountDistribution counts files by number of speakers, ignoring files
// without speaker data, ordered by speaker count.
func SpeakerCountDistribution(records []transcript.FileRecord) []Count {
	tally := make(map[int]int)
	for _, rec := range records {
		if rec.SpeakerCount > 0 {
			tally[rec.SpeakerCount]++
		}
	}
	keys := make([]int, 0, len(tally))
	for k := range tally {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]Count, 0, len(keys))
	for _, k := range keys {
		out = append(out, Count{Label: strconv.Itoa(k), Count: tally[k]})
	}
	return out
}

// SpeakersByLanguage counts files with speaker data per language, ordered by language.
func SpeakersByLanguage(records []transcript.FileRecord) []Count {
	tally := make(map[string]int)
	for _, rec := range records {
		if rec.SpeakerCount > 0 {
			tally[label(rec.Language)]++
		}
	}
	out := make([]Count, 0, len(tally))
	for l, n := range tally {
		out = append(out, Count{Label: l, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// WordCountDistribution counts files by transcript word count, most common first.
func WordCountDistribution(records []transcript.FileRecord, top int) []Count {
	labels := make([]string, 0, len(records))
	for _, rec := range records {
		labels = append(labels, strconv.Itoa(rec.WordCount()))
	}
	return head(valueCounts(labels), top)
}

// AverageWordsByLanguage reports the mean transcript word count per
// language, highest first.
func AverageWordsByLanguage(records []transcript.FileRecord, top int) []Value {
	type acc struct{ words, n int }
	groups := make(map[string]*acc)
	for _, rec := range records {
		key := label(rec.Language)
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.words += rec.WordCount()
		g.n++
	}
	out := make([]Value, 0, len(groups))
	for key, g := range groups {
		out = append(out, Value{Label: key, Value: float64(g.words) / float64(g.n)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Label < out[j].Label
	})
	return head(out, top)
}

// FileSizeDistribution counts files by size in megabytes rounded to two
// decimals, most common first.
func FileSizeDistribution(records []transcript.FileRecord, top int) []Count {
	labels := make([]string, 0, len(records))
	for _, rec := range records {
		mb := float64(rec.FileSizeBytes) / (1024 * 1024)
		labels = append(labels, fmt.Sprintf("%.2f MB", math.Round(mb*100)/100))
	}
	return head(valueCounts(labels), top)
}

// ProcessingVsDuration returns one point per file with a known duration,
// ordered by duration.
func ProcessingVsDuration(records []transcript.FileRecord) []Point {
	out := make([]Point, 0, len(records))
	for _, rec := range records {
		if rec.DurationSeconds <= 0 {
			continue
		}
		out = append(out, Point{
			FileName:          rec.FileName,
			DurationSeconds:   rec.DurationSeconds,
			ProcessingSeconds: rec.ProcessingSeconds,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DurationSeconds < out[j].DurationSeconds })
	return out
}

// FileTypes lists the distinct file types present, sorted.
func FileTypes(records []transcript.FileRecord) []string {
	return distinct(records, func(r transcript.FileRecord) string { return r.FileType })
}

// Languages lists the distinct languages present, sorted.
func Languages(records []transcript.FileRecord) []string {
	return distinct(records, func(r transcript.FileRecord) string { return r.Language })
}

func distinct(records []transcript.FileRecord, key func(transcript.FileRecord) string) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		if v := strings.TrimSpace(key(rec)); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
