package transcript

import (
	"encoding/json"
	"fmt"
	"strings"

	"avtranscribe/internal/services"
)

// UnknownSpeaker is the label used when a segment carries no speaker.
const UnknownSpeaker = "Unknown"

// Segment is one contiguous utterance attributed to a single speaker.
//
// IsMatch and ContextGroup are only meaningful on segments produced by
// ExtractContext. ContextGroup holds the index (in start-time order) of the
// match whose window first claimed the segment.
type Segment struct {
	Speaker      string  `json:"speaker"`
	Text         string  `json:"text"`
	Start        float64 `json:"start_time"`
	End          float64 `json:"end_time"`
	Duration     float64 `json:"duration"`
	IsMatch      bool    `json:"is_match,omitempty"`
	ContextGroup int     `json:"context_group,omitempty"`
}

// NewSegment builds a segment with defaults applied.
func NewSegment(speaker, text string, start, end float64) Segment {
	if strings.TrimSpace(speaker) == "" {
		speaker = UnknownSpeaker
	}
	return Segment{
		Speaker:  speaker,
		Text:     text,
		Start:    start,
		End:      end,
		Duration: end - start,
	}
}

type rawSegment struct {
	Speaker      *string  `json:"speaker"`
	Text         *string  `json:"text"`
	Start        *float64 `json:"start_time"`
	End          *float64 `json:"end_time"`
	Duration     *float64 `json:"duration"`
	IsMatch      bool     `json:"is_match"`
	ContextGroup int      `json:"context_group"`
}

// UnmarshalJSON decodes a segment, defaulting absent fields.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var raw rawSegment
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var speaker, text string
	var start, end float64
	if raw.Speaker != nil {
		speaker = *raw.Speaker
	}
	if raw.Text != nil {
		text = *raw.Text
	}
	if raw.Start != nil {
		start = *raw.Start
	}
	if raw.End != nil {
		end = *raw.End
	}
	seg := NewSegment(speaker, text, start, end)
	if raw.Duration != nil {
		seg.Duration = *raw.Duration
	}
	seg.IsMatch = raw.IsMatch
	seg.ContextGroup = raw.ContextGroup
	*s = seg
	return nil
}

// ParseSpeakers decodes a {"speakers": [...]} document. A document without a
// speakers key yields an empty list.
func ParseSpeakers(raw string) ([]Segment, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, services.Wrap(services.ErrParse, "transcript", "parse speakers", "empty document", nil)
	}
	var doc struct {
		Speakers []Segment `json:"speakers"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, services.Wrap(services.ErrParse, "transcript", "parse speakers", "", err)
	}
	return doc.Speakers, nil
}

// MarshalSpeakers encodes segments into the {"speakers": [...]} document form.
func MarshalSpeakers(segments []Segment) (string, error) {
	doc := struct {
		Speakers []Segment `json:"speakers"`
	}{Speakers: segments}
	if doc.Speakers == nil {
		doc.Speakers = []Segment{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode speakers: %w", err)
	}
	return string(data), nil
}
