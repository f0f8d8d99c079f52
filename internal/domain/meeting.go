package domain

import (
	"fmt"
	"time"
)

// MeetingStatus represents the lifecycle status of a meeting
type MeetingStatus string

const (
	MeetingStatusWaiting    MeetingStatus = "waiting"
	MeetingStatusActive     MeetingStatus = "active"
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusFailed     MeetingStatus = "failed"
)

// Meeting is the aggregate root owning all transcript artifacts
type Meeting struct {
	ID              string
	Title           string
	Description     string
	Code            string
	Language        string
	Status          MeetingStatus
	HostName        string
	MaxParticipants int
	StartedAt       *time.Time
	EndedAt         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewMeeting creates a new Meeting instance
func NewMeeting(id, title, code, hostName string, createdAt time.Time) *Meeting {
	return &Meeting{
		ID:              id,
		Title:           title,
		Code:            code,
		Language:        "auto",
		Status:          MeetingStatusWaiting,
		HostName:        hostName,
		MaxParticipants: 20,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

// CanBeProcessed reports whether the meeting is in a state that permits
// triggering the post-processing pipeline.
func (m *Meeting) CanBeProcessed() bool {
	return m.Status == MeetingStatusActive
}

// ValidateMeeting validates a Meeting instance
func ValidateMeeting(m *Meeting) error {
	if m == nil {
		return fmt.Errorf("meeting cannot be nil")
	}

	if m.ID == "" {
		return fmt.Errorf("meeting ID is required")
	}

	if m.Title == "" {
		return fmt.Errorf("meeting Title is required")
	}

	if m.Code == "" {
		return fmt.Errorf("meeting Code is required")
	}

	if m.HostName == "" {
		return fmt.Errorf("meeting HostName is required")
	}

	if !isValidMeetingStatus(m.Status) {
		return fmt.Errorf("meeting Status is invalid: %s", m.Status)
	}

	return nil
}

// isValidMeetingStatus checks if a MeetingStatus is valid
func isValidMeetingStatus(s MeetingStatus) bool {
	switch s {
	case MeetingStatusWaiting, MeetingStatusActive, MeetingStatusProcessing,
		MeetingStatusCompleted, MeetingStatusFailed:
		return true
	}
	return false
}
