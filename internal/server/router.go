package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/speakinsights/speakinsights/internal/api"
	"github.com/speakinsights/speakinsights/internal/api/handlers"
	"github.com/speakinsights/speakinsights/internal/api/middleware"
)

type RouterConfig struct {
	MeetingHandler  *handlers.MeetingHandler
	InsightsHandler *handlers.InsightsHandler
	ChatHandler     *handlers.ChatHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/meetings/{id}", func(r chi.Router) {
		r.Get("/", cfg.MeetingHandler.Get)
		r.Post("/end", cfg.MeetingHandler.End)

		r.Get("/summaries", cfg.InsightsHandler.ListSummaries)
		r.Get("/tasks", cfg.InsightsHandler.ListTasks)
		r.Get("/segments", cfg.InsightsHandler.ListSegments)

		r.Post("/chat", cfg.ChatHandler.Ask)
		r.Post("/chat/stream", cfg.ChatHandler.AskStream)
	})

	return r
}
