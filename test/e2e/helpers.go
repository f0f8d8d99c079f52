package e2e

import (
	"time"

	"github.com/google/uuid"

	"github.com/speakinsights/speakinsights/internal/domain"
)

func newMeeting(title string) *domain.Meeting {
	m := domain.NewMeeting(uuid.NewString(), title, uuid.NewString()[:8], "Host", time.Now().UTC())
	m.Status = domain.MeetingStatusActive
	return m
}

func newSegment(meetingID, speaker, text string, start, end float64) *domain.TranscriptSegment {
	return &domain.TranscriptSegment{
		ID:          uuid.NewString(),
		MeetingID:   meetingID,
		SpeakerName: speaker,
		Text:        text,
		StartTime:   start,
		EndTime:     end,
		Confidence:  0.9,
		WordCount:   len(text),
		Source:      domain.SegmentSourcePostProcessing,
		CreatedAt:   time.Now().UTC(),
	}
}

// unitVector returns a 768-dim embedding with all weight on one axis,
// giving predictable cosine ordering in similarity tests.
func unitVector(axis int) []float32 {
	v := make([]float32, 768)
	v[axis%768] = 1
	return v
}
