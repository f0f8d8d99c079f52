package domain

import (
	"fmt"
	"time"
)

// TranscriptionStatus represents the transcription state of a single
// audio track, independent of the owning meeting's status.
type TranscriptionStatus string

const (
	TranscriptionStatusPending    TranscriptionStatus = "pending"
	TranscriptionStatusProcessing TranscriptionStatus = "processing"
	TranscriptionStatusCompleted  TranscriptionStatus = "completed"
	TranscriptionStatusFailed     TranscriptionStatus = "failed"
)

// IndividualRecording is one participant's audio track for a meeting.
// Created when track recording starts; its transcription status is
// mutated only by the transcription stage of the pipeline.
type IndividualRecording struct {
	ID                  string
	MeetingID           string
	ParticipantID       string
	SpeakerName         string
	FilePath            string
	StorageKey          string // set when the track lives in object storage
	Format              string
	FileSize            int64
	Duration            float64
	TranscriptionStatus TranscriptionStatus
	CreatedAt           time.Time
}

// NewIndividualRecording creates a new IndividualRecording instance
func NewIndividualRecording(id, meetingID, speakerName string, createdAt time.Time) *IndividualRecording {
	return &IndividualRecording{
		ID:                  id,
		MeetingID:           meetingID,
		SpeakerName:         speakerName,
		Format:              "ogg",
		TranscriptionStatus: TranscriptionStatusPending,
		CreatedAt:           createdAt,
	}
}

// HasAudio reports whether the recording has a resolvable audio source.
func (r *IndividualRecording) HasAudio() bool {
	return r.FilePath != "" || r.StorageKey != ""
}

// ValidateIndividualRecording validates an IndividualRecording instance
func ValidateIndividualRecording(r *IndividualRecording) error {
	if r == nil {
		return fmt.Errorf("recording cannot be nil")
	}

	if r.ID == "" {
		return fmt.Errorf("recording ID is required")
	}

	if r.MeetingID == "" {
		return fmt.Errorf("recording MeetingID is required")
	}

	if r.SpeakerName == "" {
		return fmt.Errorf("recording SpeakerName is required")
	}

	if !isValidTranscriptionStatus(r.TranscriptionStatus) {
		return fmt.Errorf("recording TranscriptionStatus is invalid: %s", r.TranscriptionStatus)
	}

	return nil
}

// isValidTranscriptionStatus checks if a TranscriptionStatus is valid
func isValidTranscriptionStatus(s TranscriptionStatus) bool {
	switch s {
	case TranscriptionStatusPending, TranscriptionStatusProcessing,
		TranscriptionStatusCompleted, TranscriptionStatusFailed:
		return true
	}
	return false
}
