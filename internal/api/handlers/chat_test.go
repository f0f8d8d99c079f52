package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/speakinsights/speakinsights/internal/domain"
	"github.com/speakinsights/speakinsights/internal/llm"
)

func TestChatAsk(t *testing.T) {
	svc := new(MockChatAnswerer)
	h := NewChatHandler(svc)

	svc.On("Ask", mock.Anything, "m1", "What was decided?").
		Return("The launch moved to Q4.", nil)

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/meetings/m1/chat",
		strings.NewReader(`{"question":"What was decided?"}`)), "id", "m1")
	rec := httptest.NewRecorder()
	h.Ask(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The launch moved to Q4.")
}

func TestChatAsk_InvalidBody(t *testing.T) {
	svc := new(MockChatAnswerer)
	h := NewChatHandler(svc)

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/meetings/m1/chat",
		strings.NewReader(`{`)), "id", "m1")
	rec := httptest.NewRecorder()
	h.Ask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
}

func TestChatAsk_UnknownMeeting(t *testing.T) {
	svc := new(MockChatAnswerer)
	h := NewChatHandler(svc)

	svc.On("Ask", mock.Anything, "missing", "hello").
		Return("", domain.ErrMeetingNotFound)

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/meetings/missing/chat",
		strings.NewReader(`{"question":"hello"}`)), "id", "missing")
	rec := httptest.NewRecorder()
	h.Ask(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatAskStream(t *testing.T) {
	svc := new(MockChatAnswerer)
	h := NewChatHandler(svc)

	stream := &fakeStream{deltas: []string{"The ", "launch ", "moved."}}
	svc.On("AskStream", mock.Anything, "m1", "What was decided?").
		Return(llm.Stream(stream), nil)

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/meetings/m1/chat/stream",
		strings.NewReader(`{"question":"What was decided?"}`)), "id", "m1")
	rec := httptest.NewRecorder()
	h.AskStream(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `data: {"delta":"The "}`)
	assert.Contains(t, body, `data: {"delta":"moved."}`)
	assert.Contains(t, body, "data: [DONE]")
	assert.True(t, stream.closed)
}

func TestChatAskStream_ServiceErrorBeforeHeaders(t *testing.T) {
	svc := new(MockChatAnswerer)
	h := NewChatHandler(svc)

	svc.On("AskStream", mock.Anything, "m1", "").
		Return(nil, domain.NewDomainError(domain.ErrCodeValidation, "question cannot be empty"))

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/meetings/m1/chat/stream",
		strings.NewReader(`{"question":""}`)), "id", "m1")
	rec := httptest.NewRecorder()
	h.AskStream(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
