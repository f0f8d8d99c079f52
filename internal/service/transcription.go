package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/speakinsights/speakinsights/internal/domain"
	"github.com/speakinsights/speakinsights/internal/whisperx"
)

// ChunkTranscriber defines the live-chunk transcription operation.
type ChunkTranscriber interface {
	TranscribeChunk(ctx context.Context, audio []byte, language string, offset float64) ([]whisperx.Segment, error)
}

// TranscriptionService handles the live path: short audio chunks
// arriving while the meeting runs are transcribed, sentiment-scored,
// and persisted with live provenance. The pipeline later regenerates
// the full transcript from the complete tracks.
type TranscriptionService struct {
	meetings MeetingRepositoryInterface
	segments SegmentRepositoryInterface
	speech   ChunkTranscriber
	scorer   SentimentScorer
}

func NewTranscriptionService(
	meetings MeetingRepositoryInterface,
	segments SegmentRepositoryInterface,
	speech ChunkTranscriber,
	scorer SentimentScorer,
) *TranscriptionService {
	return &TranscriptionService{
		meetings: meetings,
		segments: segments,
		speech:   speech,
		scorer:   scorer,
	}
}

// IngestChunk transcribes one live audio chunk and persists its
// segments. The offset places the chunk's timestamps relative to the
// meeting start.
func (s *TranscriptionService) IngestChunk(ctx context.Context, meetingID, participantID, speakerName string, audio []byte, offset float64) ([]*domain.TranscriptSegment, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Status != domain.MeetingStatusActive {
		return nil, domain.ErrMeetingNotActive
	}

	transcribed, err := s.speech.TranscribeChunk(ctx, audio, meeting.Language, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe chunk: %w", err)
	}

	now := time.Now().UTC()
	rows := make([]*domain.TranscriptSegment, 0, len(transcribed))
	for _, seg := range transcribed {
		if seg.Text == "" {
			continue
		}
		score := s.scorer.Score(seg.Text)
		rows = append(rows, &domain.TranscriptSegment{
			ID:             uuid.New().String(),
			MeetingID:      meetingID,
			ParticipantID:  participantID,
			SpeakerName:    speakerName,
			Text:           seg.Text,
			Language:       seg.Language,
			StartTime:      seg.Start,
			EndTime:        seg.End,
			Confidence:     seg.Confidence,
			SentimentScore: score.Compound,
			SentimentLabel: score.Label,
			WordCount:      len(strings.Fields(seg.Text)),
			Source:         domain.SegmentSourceLive,
			CreatedAt:      now,
		})
	}
	if len(rows) == 0 {
		return nil, nil
	}

	if err := s.segments.CreateBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to persist live segments: %w", err)
	}
	return rows, nil
}
