package domain

import "time"

// TranscriptChunk is a derived, possibly multi-speaker window of transcript
// words sized for embedding. Immutable once created; regenerating the
// pipeline for a meeting supersedes prior chunks.
type TranscriptChunk struct {
	ID          string
	MeetingID   string
	ChunkText   string
	ChunkIndex  int
	SpeakerName string // single name, or comma-joined sorted list for multi-speaker windows
	StartTime   float64
	EndTime     float64
	Embedding   []float32
	ModelUsed   string
	CreatedAt   time.Time
}
