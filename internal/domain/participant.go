package domain

import "time"

// Participant is a meeting attendee.
type Participant struct {
	ID          string
	MeetingID   string
	DisplayName string
	IsHost      bool
	IsActive    bool
	JoinedAt    *time.Time
	LeftAt      *time.Time
	CreatedAt   time.Time
}
