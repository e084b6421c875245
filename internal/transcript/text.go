package transcript

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Highlight wraps every case-insensitive occurrence of term in text with
// open and close markers. The replacement renders the term upper-cased.
func Highlight(text, term, open, closing string) string {
	if text == "" || term == "" {
		return text
	}
	lowerText := strings.ToLower(text)
	lowerTerm := strings.ToLower(term)
	if len(lowerText) != len(text) {
		// Case folding changed byte widths; fall back to rune-wise search.
		return highlightRunes(text, term, open, closing)
	}
	replacement := open + strings.ToUpper(term) + closing
	var b strings.Builder
	pos := 0
	for {
		idx := strings.Index(lowerText[pos:], lowerTerm)
		if idx < 0 {
			break
		}
		b.WriteString(text[pos : pos+idx])
		b.WriteString(replacement)
		pos += idx + len(lowerTerm)
	}
	b.WriteString(text[pos:])
	return b.String()
}

func highlightRunes(text, term, open, closing string) string {
	src := []rune(text)
	needle := []rune(strings.ToLower(term))
	replacement := open + strings.ToUpper(term) + closing
	var b strings.Builder
	for i := 0; i < len(src); {
		if i+len(needle) <= len(src) && strings.ToLower(string(src[i:i+len(needle)])) == string(needle) {
			b.WriteString(replacement)
			i += len(needle)
			continue
		}
		b.WriteRune(src[i])
		i++
	}
	return b.String()
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Preview truncates text to at most n runes, appending "..." when cut.
func Preview(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}

// FormatClock renders whole seconds as MM:SS. Minutes are not wrapped at an
// hour, so 3725s renders as 62:05.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatRange renders "MM:SS - MM:SS".
func FormatRange(start, end float64) string {
	return FormatClock(start) + " - " + FormatClock(end)
}
