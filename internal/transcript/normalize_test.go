package transcript_test

import (
	"reflect"
	"strings"
	"testing"

	"avtranscribe/internal/transcript"
)

func seg(speaker, text string, start, end float64) transcript.Segment {
	return transcript.NewSegment(speaker, text, start, end)
}

func TestNormalizeMergesCloseSameSpeaker(t *testing.T) {
	in := []transcript.Segment{
		seg("A", "Hello", 0.0, 2.0),
		seg("A", "world", 2.5, 4.0),
		seg("B", "Hi", 4.2, 5.0),
	}
	got := transcript.Normalize(in)
	want := []transcript.Segment{
		{Speaker: "A", Text: "Hello world", Start: 0, End: 4, Duration: 4},
		{Speaker: "B", Text: "Hi", Start: 4.2, End: 5, Duration: 0.8},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Speaker != want[i].Speaker || got[i].Text != want[i].Text || got[i].Start != want[i].Start || got[i].End != want[i].End {
			t.Fatalf("segment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNormalizeKeepsLargeGapsAndSorts(t *testing.T) {
	in := []transcript.Segment{
		seg("A", "later", 10, 12),
		seg("A", "first", 0, 2),
	}
	got := transcript.Normalize(in)
	if len(got) != 2 || got[0].Text != "first" || got[1].Text != "later" {
		t.Fatalf("unexpected result %+v", got)
	}
	if in[0].Text != "later" {
		t.Fatal("input must not be reordered")
	}
}

func TestNormalizeOverlapUsesAbsoluteGap(t *testing.T) {
	deep := transcript.Normalize([]transcript.Segment{
		seg("A", "long", 0, 10),
		seg("A", "inside", 5, 6),
	})
	if len(deep) != 2 {
		t.Fatalf("overlap of 5s should not merge, got %+v", deep)
	}

	shallow := transcript.Normalize([]transcript.Segment{
		seg("A", "long", 0, 10),
		seg("A", "tail", 9, 12),
	})
	if len(shallow) != 1 || shallow[0].Text != "long tail" || shallow[0].End != 12 {
		t.Fatalf("overlap of 1s should merge, got %+v", shallow)
	}
}

func TestNormalizeRespectsMatchBoundaries(t *testing.T) {
	a := seg("A", "one", 0, 1)
	b := seg("A", "two", 1, 2)
	b.IsMatch = true
	c := seg("A", "three", 2, 3)
	c.IsMatch = true
	c.ContextGroup = 5
	got := transcript.Normalize([]transcript.Segment{a, b, c})
	if len(got) != 3 {
		t.Fatalf("segments with different match flags must stay apart, got %+v", got)
	}
}

func TestNormalizeProperties(t *testing.T) {
	in := []transcript.Segment{
		seg("B", " b1 ", 3, 4),
		seg("A", "a1", 0, 1),
		seg("A", "", 1.5, 2),
		seg("A", "a2", 2.2, 2.9),
		seg("B", "b2", 4.1, 5),
		seg("A", "a3", 9, 10),
	}
	once := transcript.Normalize(in)
	twice := transcript.Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("normalize is not idempotent:\n%+v\n%+v", once, twice)
	}
	if len(once) > len(in) {
		t.Fatal("normalize must not add segments")
	}
	for i := 1; i < len(once); i++ {
		if once[i].Start < once[i-1].Start {
			t.Fatalf("output not sorted at %d", i)
		}
	}
	var words int
	for _, s := range in {
		words += len(strings.Fields(s.Text))
	}
	var gotWords int
	for _, s := range once {
		gotWords += len(strings.Fields(s.Text))
	}
	if words != gotWords {
		t.Fatalf("word count changed: %d -> %d", words, gotWords)
	}
	if once[0].Text != "a1 a2" {
		t.Fatalf("empty text should not leave double spaces, got %q", once[0].Text)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := transcript.Normalize(nil); len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}

func TestFindMatches(t *testing.T) {
	segments := []transcript.Segment{
		seg("A", "The Budget is tight", 0, 1),
		seg("B", "no", 1, 2),
		seg("A", "budgets!", 2, 3),
	}
	if got := transcript.FindMatches(segments, "BUDGET"); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Fatalf("FindMatches = %v", got)
	}
	if got := transcript.FindMatches(segments, ""); len(got) != 0 {
		t.Fatalf("empty term should match nothing, got %v", got)
	}
	if got := transcript.FindMatches(nil, "x"); len(got) != 0 {
		t.Fatalf("empty list should match nothing, got %v", got)
	}
}

func numbered(n int) []transcript.Segment {
	out := make([]transcript.Segment, n)
	for i := range out {
		out[i] = seg("S", "filler", float64(i*10), float64(i*10+5))
	}
	return out
}

func TestExtractContextWindows(t *testing.T) {
	segments := numbered(10)
	segments[5].Text = "the target word"
	got := transcript.ExtractContext(segments, "target", 2)
	if len(got) != 5 {
		t.Fatalf("expected 5 segments, got %d", len(got))
	}
	for i, s := range got {
		wantStart := float64((i + 3) * 10)
		if s.Start != wantStart {
			t.Fatalf("segment %d start = %v, want %v", i, s.Start, wantStart)
		}
		if s.IsMatch != (i == 2) {
			t.Fatalf("segment %d is_match = %v", i, s.IsMatch)
		}
		if s.ContextGroup != 5 {
			t.Fatalf("segment %d group = %d, want 5", i, s.ContextGroup)
		}
	}
}

func TestExtractContextOverlappingWindows(t *testing.T) {
	segments := numbered(10)
	segments[3].Text = "target one"
	segments[5].Text = "target two"
	got := transcript.ExtractContext(segments, "TARGET", 2)
	if len(got) != 7 {
		t.Fatalf("expected union of 7 segments, got %d", len(got))
	}
	matches := 0
	for _, s := range got {
		idx := int(s.Start / 10)
		if s.IsMatch {
			matches++
			if idx != 3 && idx != 5 {
				t.Fatalf("unexpected match at %d", idx)
			}
		}
		wantGroup := 3
		if idx > 5 {
			wantGroup = 5
		}
		if s.ContextGroup != wantGroup {
			t.Fatalf("segment %d group = %d, want %d", idx, s.ContextGroup, wantGroup)
		}
	}
	if matches != 2 {
		t.Fatalf("both matches must be flagged, got %d", matches)
	}
}

func TestExtractContextEdgeCases(t *testing.T) {
	segments := numbered(4)
	segments[0].Text = "hit"
	if got := transcript.ExtractContext(segments, "absent", 3); len(got) != 0 {
		t.Fatalf("no matches should yield empty, got %+v", got)
	}
	if got := transcript.ExtractContext(segments, "", 3); len(got) != 0 {
		t.Fatalf("empty term should yield empty, got %+v", got)
	}
	got := transcript.ExtractContext(segments, "hit", -4)
	if len(got) != 1 || !got[0].IsMatch {
		t.Fatalf("negative size should behave like zero, got %+v", got)
	}
	got = transcript.ExtractContext(segments, "hit", 100)
	if len(got) != 4 {
		t.Fatalf("window should clip to the list, got %d", len(got))
	}
}

func TestExtractContextMatchesFindMatches(t *testing.T) {
	segments := numbered(30)
	for _, i := range []int{2, 14, 15, 29} {
		segments[i].Text = "Budget talk"
	}
	got := transcript.ExtractContext(segments, "budget", 3)
	var flagged int
	for i, s := range got {
		if i > 0 && got[i-1].Start > s.Start {
			t.Fatal("result must be sorted by start")
		}
		if s.IsMatch {
			flagged++
		}
	}
	if flagged != len(transcript.FindMatches(segments, "budget")) {
		t.Fatalf("flagged %d matches", flagged)
	}
	if groups := transcript.MatchGroups(got); len(groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(groups))
	}
}

func TestClampContextSize(t *testing.T) {
	for in, want := range map[int]int{-1: 0, 0: 0, 10: 10, 50: 50, 51: 50} {
		if got := transcript.ClampContextSize(in); got != want {
			t.Fatalf("ClampContextSize(%d) = %d, want %d", in, got, want)
		}
	}
}
