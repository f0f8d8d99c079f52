package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/speakinsights/speakinsights/internal/domain"
	"github.com/speakinsights/speakinsights/internal/llm"
	"github.com/speakinsights/speakinsights/internal/pagination"
)

type MockMeetingReader struct {
	mock.Mock
}

func (m *MockMeetingReader) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Meeting), args.Error(1)
}

type MockPipelineTrigger struct {
	mock.Mock
}

func (m *MockPipelineTrigger) Trigger(meetingID string) <-chan struct{} {
	args := m.Called(meetingID)
	return args.Get(0).(<-chan struct{})
}

type MockSummaryLister struct {
	mock.Mock
}

func (m *MockSummaryLister) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Summary, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Summary), args.Error(1)
}

type MockTaskLister struct {
	mock.Mock
}

func (m *MockTaskLister) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Task, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

type MockSegmentPager struct {
	mock.Mock
}

func (m *MockSegmentPager) ListByMeetingPage(ctx context.Context, meetingID string, after *pagination.Cursor, limit int) ([]*domain.TranscriptSegment, error) {
	args := m.Called(ctx, meetingID, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TranscriptSegment), args.Error(1)
}

type MockChatAnswerer struct {
	mock.Mock
}

func (m *MockChatAnswerer) Ask(ctx context.Context, meetingID, question string) (string, error) {
	args := m.Called(ctx, meetingID, question)
	return args.String(0), args.Error(1)
}

func (m *MockChatAnswerer) AskStream(ctx context.Context, meetingID, question string) (llm.Stream, error) {
	args := m.Called(ctx, meetingID, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(llm.Stream), args.Error(1)
}

// fakeStream replays fixed deltas then io.EOF.
type fakeStream struct {
	deltas []string
	pos    int
	closed bool
}

func (s *fakeStream) Recv() (string, error) {
	if s.pos >= len(s.deltas) {
		return "", io.EOF
	}
	delta := s.deltas[s.pos]
	s.pos++
	return delta, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
