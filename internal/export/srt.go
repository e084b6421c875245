package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"avtranscribe/internal/transcript"
)

const matchTag = "[MATCH]"

// FormatTimestamp renders seconds as HH:MM:SS,mmm, truncating to whole
// milliseconds. Negative values render as zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	// The epsilon absorbs binary representation error so 15.2 yields 200ms.
	totalMs := int64(math.Floor(seconds*1000 + 1e-6))
	hours := totalMs / 3_600_000
	minutes := (totalMs / 60_000) % 60
	secs := (totalMs / 1000) % 60
	millis := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// SRT renders segments with non-empty text as numbered subtitle entries.
func SRT(segments []transcript.Segment, opts Options) string {
	entries := make([]string, 0, len(segments))
	n := 0
	for _, seg := range transcript.SortByStart(segments) {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		n++
		entries = append(entries, fmt.Sprintf("%d\n%s --> %s\n%s\n",
			n, FormatTimestamp(seg.Start), FormatTimestamp(seg.End), caption(seg, text, opts)))
	}
	return strings.Join(entries, "\n")
}

func caption(seg transcript.Segment, text string, opts Options) string {
	match := opts.Search && seg.IsMatch
	withSpeaker := opts.IncludeSpeakers && seg.Speaker != transcript.UnknownSpeaker
	switch {
	case withSpeaker && match:
		return seg.Speaker + " " + matchTag + ": " + text
	case withSpeaker:
		return seg.Speaker + ": " + text
	case match:
		return matchTag + ": " + text
	default:
		return text
	}
}

// ParseTimestamp parses an SRT timestamp into seconds. A period is accepted in
// place of the millisecond comma.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// CountCues returns the number of non-blank entries in SRT content.
func CountCues(content string) int {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

// Validate checks SRT content for structural problems. An empty result means
// the content passed.
func Validate(content string) []string {
	if CountCues(content) == 0 {
		return []string{"empty_subtitle_file"}
	}
	var issues []string
	expected := 1
	for _, block := range strings.Split(strings.TrimSpace(content), "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			issues = append(issues, fmt.Sprintf("cue %d: incomplete entry", expected))
			expected++
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(lines[0])); err != nil || n != expected {
			issues = append(issues, fmt.Sprintf("cue %d: unexpected sequence number %q", expected, lines[0]))
		}
		parts := strings.Split(lines[1], "-->")
		if len(parts) != 2 {
			issues = append(issues, fmt.Sprintf("cue %d: missing time range", expected))
			expected++
			continue
		}
		start, errStart := ParseTimestamp(parts[0])
		end, errEnd := ParseTimestamp(parts[1])
		switch {
		case errStart != nil || errEnd != nil:
			issues = append(issues, fmt.Sprintf("cue %d: timestamp_parse_error", expected))
		case end < start:
			issues = append(issues, fmt.Sprintf("cue %d: end before start", expected))
		}
		expected++
	}
	return issues
}
