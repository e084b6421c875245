package transcript

import (
	"math"
	"sort"
	"strings"
)

const (
	// MergeGapSeconds is the largest start/end distance at which consecutive
	// same-speaker segments are merged.
	MergeGapSeconds = 2.0
	// DefaultContextSize is the number of neighbours kept on each side of a match.
	DefaultContextSize = 10
	// MaxContextSize bounds user-supplied context sizes.
	MaxContextSize = 50
)

// SortByStart returns a copy of segments stably ordered by start time.
func SortByStart(segments []Segment) []Segment {
	sorted := make([]Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	return sorted
}

// Normalize sorts segments by start time and merges runs of the same speaker
// whose gap is under MergeGapSeconds. Segments with differing IsMatch or
// ContextGroup values are never merged. The input slice is not modified.
func Normalize(segments []Segment) []Segment {
	if len(segments) == 0 {
		return []Segment{}
	}
	sorted := SortByStart(segments)
	out := make([]Segment, 0, len(sorted))
	acc := sorted[0]
	for _, next := range sorted[1:] {
		if canMerge(acc, next) {
			acc = merge(acc, next)
			continue
		}
		out = append(out, acc)
		acc = next
	}
	return append(out, acc)
}

func canMerge(acc, next Segment) bool {
	return acc.Speaker == next.Speaker &&
		math.Abs(next.Start-acc.End) < MergeGapSeconds &&
		acc.IsMatch == next.IsMatch &&
		acc.ContextGroup == next.ContextGroup
}

func merge(acc, next Segment) Segment {
	parts := make([]string, 0, 2)
	for _, text := range []string{acc.Text, next.Text} {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	acc.Text = strings.Join(parts, " ")
	acc.End = next.End
	acc.Duration = acc.End - acc.Start
	return acc
}

// FindMatches returns, in order, the indices of segments whose text contains
// term case-insensitively.
func FindMatches(segments []Segment, term string) []int {
	if term == "" || len(segments) == 0 {
		return []int{}
	}
	needle := strings.ToLower(term)
	matches := []int{}
	for i, seg := range segments {
		if strings.Contains(strings.ToLower(seg.Text), needle) {
			matches = append(matches, i)
		}
	}
	return matches
}

// ExtractContext returns the union of the context windows around every
// segment matching term, in start-time order. Each returned segment has
// IsMatch set when it matches on its own and ContextGroup set to the earliest
// match whose window includes it. A negative size is treated as zero.
func ExtractContext(segments []Segment, term string, size int) []Segment {
	if len(segments) == 0 || term == "" {
		return []Segment{}
	}
	if size < 0 {
		size = 0
	}
	sorted := SortByStart(segments)
	matches := FindMatches(sorted, term)
	if len(matches) == 0 {
		return []Segment{}
	}

	isMatch := make(map[int]bool, len(matches))
	for _, m := range matches {
		isMatch[m] = true
	}
	group := make(map[int]int)
	for _, m := range matches {
		lo := max(0, m-size)
		hi := min(len(sorted), m+size+1)
		for i := lo; i < hi; i++ {
			if _, claimed := group[i]; !claimed {
				group[i] = m
			}
		}
	}

	out := make([]Segment, 0, len(group))
	for i, seg := range sorted {
		g, ok := group[i]
		if !ok {
			continue
		}
		seg.IsMatch = isMatch[i]
		seg.ContextGroup = g
		out = append(out, seg)
	}
	return out
}

// ClampContextSize bounds n to [0, MaxContextSize].
func ClampContextSize(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxContextSize {
		return MaxContextSize
	}
	return n
}

// MatchGroups splits context-extracted segments into runs sharing a
// ContextGroup, preserving order.
func MatchGroups(segments []Segment) [][]Segment {
	var groups [][]Segment
	for i, seg := range segments {
		if i == 0 || seg.ContextGroup != segments[i-1].ContextGroup {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], seg)
	}
	return groups
}
