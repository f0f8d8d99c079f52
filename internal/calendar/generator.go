// Package calendar generates iCalendar (.ics) export files for
// processed meetings and their action items.
package calendar

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

const (
	productID      = "-//SpeakInsights//EN"
	mailDomain     = "speakinsights.local"
	reminderBefore = "-PT15M"
)

// Task is one action item to include in the export.
type Task struct {
	Title    string
	Assignee string
	Context  string
	Priority string
	DueDate  *time.Time
}

// Request describes the meeting to export.
type Request struct {
	MeetingID       string
	Title           string
	Description     string
	StartTime       time.Time
	DurationMinutes int
	Attendees       []string
	Tasks           []Task
}

// Generator writes .ics files under the configured storage path.
type Generator struct {
	storagePath string
}

// NewGenerator creates a generator rooted at storagePath.
func NewGenerator(storagePath string) *Generator {
	return &Generator{storagePath: storagePath}
}

// GenerateICS builds the calendar for a meeting: one event for the
// meeting itself, with action items embedded in the description and a
// 15-minute display reminder, plus one all-day event per task that has
// a due date. The file is written to <storagePath>/exports and both
// the path and the serialized content are returned.
func (g *Generator) GenerateICS(req Request) (string, string, error) {
	now := time.Now().UTC()

	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetCalscale("GREGORIAN")

	event := cal.AddEvent(fmt.Sprintf("meeting-%s@speakinsights", req.MeetingID))
	event.SetDtStampTime(now)
	event.SetCreatedTime(now)
	event.SetStartAt(req.StartTime)
	event.SetEndAt(req.StartTime.Add(time.Duration(req.DurationMinutes) * time.Minute))
	event.SetSummary(req.Title)
	event.SetDescription(buildDescription(req.Description, req.Tasks))

	for _, attendee := range req.Attendees {
		event.AddAttendee(mailAddress(attendee))
	}

	alarm := event.AddAlarm()
	alarm.SetAction(ics.ActionDisplay)
	alarm.SetTrigger(reminderBefore)
	alarm.SetProperty(ics.ComponentPropertyDescription, "Reminder: "+req.Title)

	for _, task := range req.Tasks {
		if task.DueDate == nil {
			continue
		}
		g.addTaskEvent(cal, task, now)
	}

	content := cal.Serialize()

	exportsDir := filepath.Join(g.storagePath, "exports")
	if err := os.MkdirAll(exportsDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create exports directory: %w", err)
	}
	filePath := filepath.Join(exportsDir, fmt.Sprintf("meeting_%s.ics", req.MeetingID))
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write calendar file: %w", err)
	}

	log.Printf("calendar: generated export %s", filePath)
	return filePath, content, nil
}

func (g *Generator) addTaskEvent(cal *ics.Calendar, task Task, now time.Time) {
	due := task.DueDate.UTC()

	event := cal.AddEvent(fmt.Sprintf("task-%s@speakinsights", uuid.New()))
	event.SetDtStampTime(now)
	event.SetCreatedTime(now)
	event.SetAllDayStartAt(due)
	event.SetAllDayEndAt(due.AddDate(0, 0, 1))
	event.SetSummary("Task due: " + task.Title)

	var desc strings.Builder
	if task.Context != "" {
		desc.WriteString(task.Context)
		desc.WriteString("\n")
	}
	if task.Priority != "" {
		desc.WriteString("Priority: " + task.Priority)
	}
	event.SetDescription(desc.String())

	if task.Assignee != "" {
		event.AddAttendee(mailAddress(task.Assignee))
	}
}

func buildDescription(description string, tasks []Task) string {
	parts := []string{description}
	if len(tasks) > 0 {
		parts = append(parts, "", "--- Action Items ---")
		for i, task := range tasks {
			assignee := task.Assignee
			if assignee == "" {
				assignee = "Unassigned"
			}
			due := "No due date"
			if task.DueDate != nil {
				due = task.DueDate.Format("2006-01-02")
			}
			parts = append(parts, fmt.Sprintf("%d. %s [%s] (Due: %s)", i+1, task.Title, assignee, due))
		}
	}
	return strings.Join(parts, "\n")
}

// mailAddress turns an attendee name into a mailto address. Strings
// that already look like email addresses are used as-is; plain names
// get a pseudo-address under the local domain.
func mailAddress(name string) string {
	if strings.Contains(name, "@") {
		return name
	}
	local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	return local + "@" + mailDomain
}
