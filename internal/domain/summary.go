package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SummaryType represents the kind of generated summary record
type SummaryType string

const (
	SummaryTypeExecutive SummaryType = "executive"
	SummaryTypeKeyPoints SummaryType = "key_points"
	SummaryTypeDecisions SummaryType = "decisions"
	SummaryTypeSentiment SummaryType = "sentiment"
)

// Summary is one record per summary type per processing run; not a single
// mutable document.
type Summary struct {
	ID             string
	MeetingID      string
	Type           SummaryType
	Content        string
	StructuredData json.RawMessage // shape varies by type
	ModelUsed      string
	GeneratedAt    time.Time
	CreatedAt      time.Time
}

// ValidateSummary validates a Summary instance
func ValidateSummary(s *Summary) error {
	if s == nil {
		return fmt.Errorf("summary cannot be nil")
	}

	if s.ID == "" {
		return fmt.Errorf("summary ID is required")
	}

	if s.MeetingID == "" {
		return fmt.Errorf("summary MeetingID is required")
	}

	if !isValidSummaryType(s.Type) {
		return fmt.Errorf("summary Type is invalid: %s", s.Type)
	}

	return nil
}

// isValidSummaryType checks if a SummaryType is valid
func isValidSummaryType(t SummaryType) bool {
	switch t {
	case SummaryTypeExecutive, SummaryTypeKeyPoints, SummaryTypeDecisions, SummaryTypeSentiment:
		return true
	}
	return false
}
