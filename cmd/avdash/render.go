package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"avtranscribe/internal/analytics"
	"avtranscribe/internal/dashboard"
	"avtranscribe/internal/termui"
	"avtranscribe/internal/transcript"
)

const (
	timestampLayout = "2006-01-02 15:04"
	browsePreview   = 80
)

type printer struct {
	out      io.Writer
	colorize bool
}

func newPrinter(cmd *cobra.Command) printer {
	out := cmd.OutOrStdout()
	return printer{out: out, colorize: termui.IsTerminal(out)}
}

func (p printer) section(title string) {
	fmt.Fprintln(p.out)
	for _, line := range termui.SectionHeader(title, p.colorize) {
		fmt.Fprintln(p.out, line)
	}
}

func (p printer) notices(notices []dashboard.Notice) {
	for _, n := range notices {
		fmt.Fprintln(p.out, termui.StatusLine("Notice", noticeKind(n.Level), n.Message, p.colorize))
	}
}

func (p printer) table(headers []string, rows [][]string, aligns []termui.Alignment) {
	if len(rows) == 0 {
		fmt.Fprintln(p.out, "  (no data)")
		return
	}
	fmt.Fprintln(p.out, termui.Table(headers, rows, aligns))
}

func (p printer) counts(title, labelHeader string, counts []analytics.Count) {
	p.section(title)
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Count)})
	}
	p.table([]string{labelHeader, "Files"}, rows, []termui.Alignment{termui.AlignLeft, termui.AlignRight})
}

// writeJSON is the --json renderer shared by every view.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func noticeKind(level dashboard.NoticeLevel) termui.Kind {
	switch level {
	case dashboard.NoticeError:
		return termui.KindError
	case dashboard.NoticeWarning:
		return termui.KindWarn
	default:
		return termui.KindInfo
	}
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}

func formatSpeakers(n int) string {
	if n <= 0 {
		return "N/A"
	}
	return strconv.Itoa(n)
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1fs", seconds)
}

func recordRows(records []transcript.FileRecord, preview int) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := []string{
			rec.FileName,
			orNA(rec.FileType),
			dashboard.LanguageLabel(rec.Language),
			formatSpeakers(rec.SpeakerCount),
			formatDuration(rec.DurationSeconds),
			rec.TranscribedAt.Format(timestampLayout),
		}
		if preview > 0 {
			row = append(row, singleLine(transcript.Preview(rec.Transcript, preview)))
		}
		rows = append(rows, row)
	}
	return rows
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// segmentLines renders segments as "[MM:SS - MM:SS] Speaker: text", marking
// matched segments with a leading '>'.
func segmentLines(segments []transcript.Segment) []string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		marker := " "
		if seg.IsMatch {
			marker = ">"
		}
		lines = append(lines, fmt.Sprintf("%s [%s] %s: %s", marker, transcript.FormatRange(seg.Start, seg.End), seg.Speaker, seg.Text))
	}
	return lines
}
