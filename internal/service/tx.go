package service

import (
	"context"
	"time"

	"github.com/speakinsights/speakinsights/internal/domain"
)

// MeetingRepositoryInterface defines meeting persistence operations.
type MeetingRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*domain.Meeting, error)
	UpdateStatus(ctx context.Context, id string, status domain.MeetingStatus) error
	MarkCompleted(ctx context.Context, id string, endedAt time.Time) error
}

// RecordingRepositoryInterface defines audio track persistence operations.
type RecordingRepositoryInterface interface {
	ListByMeeting(ctx context.Context, meetingID string) ([]*domain.IndividualRecording, error)
	UpdateTranscriptionStatus(ctx context.Context, id string, status domain.TranscriptionStatus) error
}

// ParticipantRepositoryInterface defines participant lookups.
type ParticipantRepositoryInterface interface {
	ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Participant, error)
}

// SegmentRepositoryInterface defines transcript segment persistence.
type SegmentRepositoryInterface interface {
	CreateBatch(ctx context.Context, segments []*domain.TranscriptSegment) error
	ListByMeeting(ctx context.Context, meetingID string) ([]*domain.TranscriptSegment, error)
}

// ChunkSearchResult is one similarity hit over a meeting's chunks.
type ChunkSearchResult struct {
	ChunkText   string
	SpeakerName string
	StartTime   float64
	EndTime     float64
	Score       float64
}

// ChunkRepositoryInterface defines embedding chunk persistence.
type ChunkRepositoryInterface interface {
	ReplaceForMeeting(ctx context.Context, meetingID string, chunks []*domain.TranscriptChunk) error
	SearchByEmbedding(ctx context.Context, meetingID string, embedding []float32, limit int) ([]*ChunkSearchResult, error)
}

// SummaryRepositoryInterface defines summary persistence.
type SummaryRepositoryInterface interface {
	Create(ctx context.Context, s *domain.Summary) error
	ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Summary, error)
}

// TaskRepositoryInterface defines task persistence.
type TaskRepositoryInterface interface {
	Create(ctx context.Context, t *domain.Task) error
	ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Task, error)
}

// CalendarExportRepositoryInterface defines calendar export persistence.
type CalendarExportRepositoryInterface interface {
	Create(ctx context.Context, e *domain.CalendarExport) error
}

// TxRepositories provides transaction-bound repositories.
type TxRepositories interface {
	Meetings() MeetingRepositoryInterface
	Recordings() RecordingRepositoryInterface
	Segments() SegmentRepositoryInterface
	Chunks() ChunkRepositoryInterface
	Summaries() SummaryRepositoryInterface
	Tasks() TaskRepositoryInterface
	CalendarExports() CalendarExportRepositoryInterface
}

// TxRunner executes a function within a transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
