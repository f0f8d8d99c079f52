package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/speakinsights/speakinsights/internal/api"
	"github.com/speakinsights/speakinsights/internal/llm"
)

type ChatAnswerer interface {
	Ask(ctx context.Context, meetingID, question string) (string, error)
	AskStream(ctx context.Context, meetingID, question string) (llm.Stream, error)
}

// ChatHandler answers questions about a processed meeting transcript.
type ChatHandler struct {
	svc ChatAnswerer
}

func NewChatHandler(svc ChatAnswerer) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Question string `json:"question"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	meetingID := chi.URLParam(r, "id")
	if meetingID == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.svc.Ask(r.Context(), meetingID, req.Question)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ChatResponse{Answer: answer})
}

// AskStream answers over server-sent events. Each token arrives as a
// `data:` line with a JSON object; the stream ends with `data: [DONE]`.
func (h *ChatHandler) AskStream(w http.ResponseWriter, r *http.Request) {
	meetingID := chi.URLParam(r, "id")
	if meetingID == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		api.Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	stream, err := h.svc.AskStream(r.Context(), meetingID, req.Question)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Headers are out; all we can do is log and end the stream.
			log.Printf("chat: stream for meeting %s aborted: %v", meetingID, err)
			return
		}

		payload, err := json.Marshal(map[string]string{"delta": delta})
		if err != nil {
			log.Printf("chat: failed to encode delta: %v", err)
			return
		}
		if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
			return
		}
		flusher.Flush()
	}

	w.Write([]byte("data: [DONE]\n\n"))
	flusher.Flush()
}
