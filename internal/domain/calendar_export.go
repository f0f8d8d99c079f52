package domain

import "time"

// CalendarExport is one record per generated calendar artifact.
type CalendarExport struct {
	ID            string
	MeetingID     string
	FilePath      string
	FileURL       string
	ExportType    string // "ics"
	TasksIncluded []string
	CreatedAt     time.Time
}
