package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/speakinsights/speakinsights/internal/api"
	"github.com/speakinsights/speakinsights/internal/domain"
)

type MeetingReader interface {
	GetByID(ctx context.Context, id string) (*domain.Meeting, error)
}

// PipelineTrigger enqueues a meeting for post-processing. The returned
// channel closes when the run finishes; handlers do not wait on it.
type PipelineTrigger interface {
	Trigger(meetingID string) <-chan struct{}
}

type MeetingHandler struct {
	meetings MeetingReader
	trigger  PipelineTrigger
}

func NewMeetingHandler(meetings MeetingReader, trigger PipelineTrigger) *MeetingHandler {
	return &MeetingHandler{meetings: meetings, trigger: trigger}
}

type MeetingResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Code        string `json:"code"`
	Language    string `json:"language"`
	Status      string `json:"status"`
	HostName    string `json:"host_name"`
	StartedAt   string `json:"started_at,omitempty"`
	EndedAt     string `json:"ended_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func meetingToResponse(m *domain.Meeting) *MeetingResponse {
	resp := &MeetingResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Code:        m.Code,
		Language:    m.Language,
		Status:      string(m.Status),
		HostName:    m.HostName,
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if m.StartedAt != nil {
		resp.StartedAt = m.StartedAt.UTC().Format(time.RFC3339)
	}
	if m.EndedAt != nil {
		resp.EndedAt = m.EndedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	meeting, err := h.meetings.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, meetingToResponse(meeting))
}

// End triggers the post-processing pipeline for an active meeting. The
// pipeline runs in the background; the caller polls meeting status.
func (h *MeetingHandler) End(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	meeting, err := h.meetings.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if !meeting.CanBeProcessed() {
		api.HandleError(w, domain.ErrMeetingNotActive)
		return
	}

	h.trigger.Trigger(meeting.ID)

	api.Success(w, http.StatusAccepted, map[string]string{
		"meeting_id": meeting.ID,
		"status":     "processing_queued",
	})
}
