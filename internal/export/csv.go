package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"avtranscribe/internal/transcript"
)

const (
	metadataMarker   = "METADATA"
	separatorMarker  = "---"
	exportDateLayout = "2006-01-02 15:04:05"
)

// Header returns the CSV column names for the given options.
func Header(opts Options) []string {
	if opts.Search {
		return []string{"Segment", "Speaker", "Start_Time", "End_Time", "Start_Seconds", "End_Seconds", "Duration_Seconds", "Is_Match", "Match_Group", "Text"}
	}
	return []string{"Segment", "Speaker", "Start_Time", "End_Time", "Start_Seconds", "End_Seconds", "Duration_Seconds", "Text"}
}

// CSVRecords builds the CSV rows, header first. Segments are ordered by start
// time and numbered from 1; empty-text segments are kept.
func CSVRecords(segments []transcript.Segment, opts Options) [][]string {
	header := Header(opts)
	records := [][]string{header}
	if opts.File != nil {
		records = append(records, metadataRows(opts, len(header))...)
	}
	for i, seg := range transcript.SortByStart(segments) {
		row := []string{
			strconv.Itoa(i + 1),
			seg.Speaker,
			transcript.FormatClock(seg.Start),
			transcript.FormatClock(seg.End),
			formatSeconds(seg.Start),
			formatSeconds(seg.End),
			formatSeconds(roundTo(seg.Duration, 2)),
		}
		if opts.Search {
			flag := "CONTEXT"
			if seg.IsMatch {
				flag = "YES"
			}
			row = append(row, flag, strconv.Itoa(seg.ContextGroup+1))
		}
		row = append(row, strings.TrimSpace(seg.Text))
		records = append(records, row)
	}
	return records
}

func metadataRows(opts Options, width int) [][]string {
	info := opts.File
	pairs := make([][2]string, 0, 5)
	if opts.Search {
		pairs = append(pairs, [2]string{"Search_Term", opts.SearchTerm})
	}
	pairs = append(pairs,
		[2]string{"File", orUnknown(info.FileName)},
		[2]string{"Language", orUnknown(info.Language)},
		[2]string{"Duration", fmt.Sprintf("%.1fs", info.DurationSeconds)},
		[2]string{"Export_Date", opts.now().Format(exportDateLayout)},
	)
	rows := make([][]string, 0, len(pairs)+1)
	for _, pair := range pairs {
		row := make([]string, width)
		row[0], row[1], row[2] = metadataMarker, pair[0], pair[1]
		rows = append(rows, row)
	}
	sep := make([]string, width)
	for i := range sep {
		sep[i] = separatorMarker
	}
	return append(rows, sep)
}

// WriteCSV writes the CSV rendering of segments to w.
func WriteCSV(w io.Writer, segments []transcript.Segment, opts Options) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(CSVRecords(segments, opts)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// CSV returns the CSV rendering of segments as a string.
func CSV(segments []transcript.Segment, opts Options) (string, error) {
	var b strings.Builder
	if err := WriteCSV(&b, segments, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// formatSeconds renders the shortest decimal form, keeping one fractional
// digit on whole numbers (15 -> "15.0").
func formatSeconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return transcript.UnknownSpeaker
	}
	return s
}
