package domain

import (
	"fmt"
	"time"
)

// SegmentSource distinguishes segments captured live during the meeting
// from segments regenerated by the post-processing pipeline.
type SegmentSource string

const (
	SegmentSourceLive           SegmentSource = "live"
	SegmentSourcePostProcessing SegmentSource = "post_processing"
)

// TranscriptSegment is one contiguous utterance. Start and end times are
// offsets in seconds relative to the meeting start. Segments from the same
// meeting are totally orderable by StartTime; equal start times are allowed
// only across different speakers (simultaneous speech).
type TranscriptSegment struct {
	ID             string
	MeetingID      string
	ParticipantID  string // optional, speaker names may not resolve to a participant
	SpeakerName    string
	Text           string
	Language       string
	StartTime      float64
	EndTime        float64
	Confidence     float64
	SentimentScore float64
	SentimentLabel string
	WordCount      int
	Source         SegmentSource
	CreatedAt      time.Time
}

// ValidateTranscriptSegment validates a TranscriptSegment instance
func ValidateTranscriptSegment(s *TranscriptSegment) error {
	if s == nil {
		return fmt.Errorf("segment cannot be nil")
	}

	if s.ID == "" {
		return fmt.Errorf("segment ID is required")
	}

	if s.MeetingID == "" {
		return fmt.Errorf("segment MeetingID is required")
	}

	if s.SpeakerName == "" {
		return fmt.Errorf("segment SpeakerName is required")
	}

	if s.Text == "" {
		return fmt.Errorf("segment Text is required")
	}

	if s.EndTime < s.StartTime {
		return fmt.Errorf("segment EndTime must not precede StartTime")
	}

	if !isValidSegmentSource(s.Source) {
		return fmt.Errorf("segment Source is invalid: %s", s.Source)
	}

	return nil
}

// isValidSegmentSource checks if a SegmentSource is valid
func isValidSegmentSource(s SegmentSource) bool {
	switch s {
	case SegmentSourceLive, SegmentSourcePostProcessing:
		return true
	}
	return false
}
