package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/speakinsights/speakinsights/internal/domain"
	"github.com/speakinsights/speakinsights/internal/sentiment"
	"github.com/speakinsights/speakinsights/internal/whisperx"
)

func transcriptionFixture(score sentiment.Result) (*MockMeetingRepo, *MockSegmentRepo, *MockSpeechGateway, *TranscriptionService) {
	meetings := new(MockMeetingRepo)
	segments := new(MockSegmentRepo)
	speech := new(MockSpeechGateway)
	svc := NewTranscriptionService(meetings, segments, speech, fixedScorer{result: score})
	return meetings, segments, speech, svc
}

func TestIngestChunk_PersistsLiveSegments(t *testing.T) {
	meetings, segments, speech, svc := transcriptionFixture(sentiment.Result{Compound: -0.3, Label: "negative"})

	meetings.On("GetByID", mock.Anything, "m1").
		Return(&domain.Meeting{ID: "m1", Language: "en", Status: domain.MeetingStatusActive}, nil)
	speech.On("TranscribeChunk", mock.Anything, []byte("audio"), "en", 40.0).
		Return([]whisperx.Segment{{Start: 40.5, End: 42.0, Text: "this is not working", Confidence: 0.8}}, nil)
	segments.On("CreateBatch", mock.Anything, mock.MatchedBy(func(rows []*domain.TranscriptSegment) bool {
		return len(rows) == 1 &&
			rows[0].Source == domain.SegmentSourceLive &&
			rows[0].SpeakerName == "Alice" &&
			rows[0].ParticipantID == "p1" &&
			rows[0].SentimentLabel == "negative" &&
			rows[0].StartTime == 40.5
	})).Return(nil)

	rows, err := svc.IngestChunk(context.Background(), "m1", "p1", "Alice", []byte("audio"), 40.0)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "this is not working", rows[0].Text)
	segments.AssertExpectations(t)
}

func TestIngestChunk_RejectsInactiveMeeting(t *testing.T) {
	meetings, segments, _, svc := transcriptionFixture(sentiment.Result{})

	meetings.On("GetByID", mock.Anything, "m1").
		Return(&domain.Meeting{ID: "m1", Status: domain.MeetingStatusCompleted}, nil)

	_, err := svc.IngestChunk(context.Background(), "m1", "p1", "Alice", []byte("audio"), 0)

	assert.ErrorIs(t, err, domain.ErrMeetingNotActive)
	segments.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestIngestChunk_SkipsEmptySegments(t *testing.T) {
	meetings, segments, speech, svc := transcriptionFixture(sentiment.Result{Label: "neutral"})

	meetings.On("GetByID", mock.Anything, "m1").
		Return(&domain.Meeting{ID: "m1", Language: "auto", Status: domain.MeetingStatusActive}, nil)
	speech.On("TranscribeChunk", mock.Anything, mock.Anything, "auto", 0.0).
		Return([]whisperx.Segment{{Start: 0, End: 1, Text: ""}}, nil)

	rows, err := svc.IngestChunk(context.Background(), "m1", "", "Alice", []byte("audio"), 0)

	require.NoError(t, err)
	assert.Nil(t, rows)
	segments.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}
