package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/speakinsights/speakinsights/internal/api"
	"github.com/speakinsights/speakinsights/internal/domain"
	"github.com/speakinsights/speakinsights/internal/pagination"
)

const defaultSegmentPageSize = 100

type SummaryLister interface {
	ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Summary, error)
}

type TaskLister interface {
	ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Task, error)
}

type SegmentPager interface {
	ListByMeetingPage(ctx context.Context, meetingID string, after *pagination.Cursor, limit int) ([]*domain.TranscriptSegment, error)
}

// InsightsHandler serves the artifacts the pipeline produced for a meeting.
type InsightsHandler struct {
	meetings  MeetingReader
	summaries SummaryLister
	tasks     TaskLister
	segments  SegmentPager
}

func NewInsightsHandler(meetings MeetingReader, summaries SummaryLister, tasks TaskLister, segments SegmentPager) *InsightsHandler {
	return &InsightsHandler{
		meetings:  meetings,
		summaries: summaries,
		tasks:     tasks,
		segments:  segments,
	}
}

type SummaryResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Content        string          `json:"content"`
	StructuredData json.RawMessage `json:"structured_data,omitempty"`
	ModelUsed      string          `json:"model_used,omitempty"`
	GeneratedAt    string          `json:"generated_at"`
}

type TaskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type SegmentResponse struct {
	ID             string  `json:"id"`
	SpeakerName    string  `json:"speaker_name"`
	Text           string  `json:"text"`
	StartTime      float64 `json:"start_time"`
	EndTime        float64 `json:"end_time"`
	Confidence     float64 `json:"confidence"`
	SentimentScore float64 `json:"sentiment_score"`
	SentimentLabel string  `json:"sentiment_label,omitempty"`
	Source         string  `json:"source"`
}

func (h *InsightsHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := h.resolveMeeting(w, r)
	if !ok {
		return
	}

	summaries, err := h.summaries.ListByMeeting(r.Context(), meetingID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, &SummaryResponse{
			ID:             s.ID,
			Type:           string(s.Type),
			Content:        s.Content,
			StructuredData: s.StructuredData,
			ModelUsed:      s.ModelUsed,
			GeneratedAt:    s.GeneratedAt.UTC().Format(time.RFC3339),
		})
	}
	api.Success(w, http.StatusOK, resp)
}

func (h *InsightsHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := h.resolveMeeting(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListByMeeting(r.Context(), meetingID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		tr := &TaskResponse{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Assignee:    t.Assignee,
			Priority:    string(t.Priority),
			Status:      string(t.Status),
			CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		}
		if t.DueDate != nil {
			tr.DueDate = t.DueDate.Format("2006-01-02")
		}
		resp = append(resp, tr)
	}
	api.Success(w, http.StatusOK, resp)
}

func (h *InsightsHandler) ListSegments(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := h.resolveMeeting(w, r)
	if !ok {
		return
	}

	cursor, err := pagination.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid cursor")
		return
	}

	limit := defaultSegmentPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	segments, err := h.segments.ListByMeetingPage(r.Context(), meetingID, cursor, limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*SegmentResponse, 0, len(segments))
	for _, s := range segments {
		items = append(items, &SegmentResponse{
			ID:             s.ID,
			SpeakerName:    s.SpeakerName,
			Text:           s.Text,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			Confidence:     s.Confidence,
			SentimentScore: s.SentimentScore,
			SentimentLabel: s.SentimentLabel,
			Source:         string(s.Source),
		})
	}

	next := pagination.CreateNextCursor(segments, limit,
		func(s *domain.TranscriptSegment) string { return s.ID },
		func(s *domain.TranscriptSegment) float64 { return s.StartTime },
	)

	api.Success(w, http.StatusOK, pagination.PageResult[*SegmentResponse]{
		Items:   items,
		Cursor:  next,
		HasMore: next != "",
	})
}

// resolveMeeting checks the path meeting exists so listing endpoints
// distinguish an unknown meeting from an empty result.
func (h *InsightsHandler) resolveMeeting(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return "", false
	}

	if _, err := h.meetings.GetByID(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return "", false
	}
	return id, true
}
