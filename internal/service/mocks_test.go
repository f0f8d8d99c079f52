package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/speakinsights/speakinsights/internal/calendar"
	"github.com/speakinsights/speakinsights/internal/domain"
	"github.com/speakinsights/speakinsights/internal/llm"
	"github.com/speakinsights/speakinsights/internal/sentiment"
	"github.com/speakinsights/speakinsights/internal/whisperx"
)

type MockMeetingRepo struct {
	mock.Mock
}

func (m *MockMeetingRepo) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Meeting), args.Error(1)
}

func (m *MockMeetingRepo) UpdateStatus(ctx context.Context, id string, status domain.MeetingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockMeetingRepo) MarkCompleted(ctx context.Context, id string, endedAt time.Time) error {
	return m.Called(ctx, id, endedAt).Error(0)
}

type MockRecordingRepo struct {
	mock.Mock
}

func (m *MockRecordingRepo) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.IndividualRecording, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.IndividualRecording), args.Error(1)
}

func (m *MockRecordingRepo) UpdateTranscriptionStatus(ctx context.Context, id string, status domain.TranscriptionStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockParticipantRepo struct {
	mock.Mock
}

func (m *MockParticipantRepo) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Participant, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Participant), args.Error(1)
}

type MockSegmentRepo struct {
	mock.Mock
}

func (m *MockSegmentRepo) CreateBatch(ctx context.Context, segments []*domain.TranscriptSegment) error {
	return m.Called(ctx, segments).Error(0)
}

func (m *MockSegmentRepo) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.TranscriptSegment, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TranscriptSegment), args.Error(1)
}

type MockChunkRepo struct {
	mock.Mock
}

func (m *MockChunkRepo) ReplaceForMeeting(ctx context.Context, meetingID string, chunks []*domain.TranscriptChunk) error {
	return m.Called(ctx, meetingID, chunks).Error(0)
}

func (m *MockChunkRepo) SearchByEmbedding(ctx context.Context, meetingID string, embedding []float32, limit int) ([]*ChunkSearchResult, error) {
	args := m.Called(ctx, meetingID, embedding, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ChunkSearchResult), args.Error(1)
}

type MockSummaryRepo struct {
	mock.Mock
}

func (m *MockSummaryRepo) Create(ctx context.Context, s *domain.Summary) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSummaryRepo) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Summary, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Summary), args.Error(1)
}

type MockTaskRepo struct {
	mock.Mock
}

func (m *MockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskRepo) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Task, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

type MockCalendarExportRepo struct {
	mock.Mock
}

func (m *MockCalendarExportRepo) Create(ctx context.Context, e *domain.CalendarExport) error {
	return m.Called(ctx, e).Error(0)
}

// fakeTxRunner hands every WithTx call the same set of repositories, so
// tests assert against one mock per entity regardless of transaction
// boundaries.
type fakeTxRunner struct {
	meetings  *MockMeetingRepo
	recording *MockRecordingRepo
	segments  *MockSegmentRepo
	chunks    *MockChunkRepo
	summaries *MockSummaryRepo
	tasks     *MockTaskRepo
	exports   *MockCalendarExportRepo
}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	return fn(f)
}

func (f *fakeTxRunner) Meetings() MeetingRepositoryInterface               { return f.meetings }
func (f *fakeTxRunner) Recordings() RecordingRepositoryInterface           { return f.recording }
func (f *fakeTxRunner) Segments() SegmentRepositoryInterface               { return f.segments }
func (f *fakeTxRunner) Chunks() ChunkRepositoryInterface                   { return f.chunks }
func (f *fakeTxRunner) Summaries() SummaryRepositoryInterface              { return f.summaries }
func (f *fakeTxRunner) Tasks() TaskRepositoryInterface                     { return f.tasks }
func (f *fakeTxRunner) CalendarExports() CalendarExportRepositoryInterface { return f.exports }

type MockSpeechGateway struct {
	mock.Mock
}

func (m *MockSpeechGateway) TranscribeFile(ctx context.Context, path string, language string) ([]whisperx.Segment, error) {
	args := m.Called(ctx, path, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]whisperx.Segment), args.Error(1)
}

func (m *MockSpeechGateway) TranscribeChunk(ctx context.Context, audio []byte, language string, offset float64) ([]whisperx.Segment, error) {
	args := m.Called(ctx, audio, language, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]whisperx.Segment), args.Error(1)
}

type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockLanguageModel) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockLanguageModel) Summarize(ctx context.Context, transcriptText, meetingTitle string) (llm.MeetingSummary, error) {
	args := m.Called(ctx, transcriptText, meetingTitle)
	return args.Get(0).(llm.MeetingSummary), args.Error(1)
}

func (m *MockLanguageModel) ExtractTasks(ctx context.Context, transcriptText string) (llm.TaskExtraction, error) {
	args := m.Called(ctx, transcriptText)
	return args.Get(0).(llm.TaskExtraction), args.Error(1)
}

func (m *MockLanguageModel) AnalyzeSentiment(ctx context.Context, transcriptText string, speakerNames []string) (llm.SentimentAnalysis, error) {
	args := m.Called(ctx, transcriptText, speakerNames)
	return args.Get(0).(llm.SentimentAnalysis), args.Error(1)
}

func (m *MockLanguageModel) Chat(ctx context.Context, messages []llm.Message, model string) (llm.Completion, error) {
	args := m.Called(ctx, messages, model)
	return args.Get(0).(llm.Completion), args.Error(1)
}

func (m *MockLanguageModel) ChatStream(ctx context.Context, messages []llm.Message, model string) (llm.Stream, error) {
	args := m.Called(ctx, messages, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(llm.Stream), args.Error(1)
}

func (m *MockLanguageModel) EmbeddingModel() string {
	return "test-embed-model"
}

// fakeStream replays a fixed sequence of deltas then io.EOF.
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

// fixedScorer returns a constant sentiment for every utterance.
type fixedScorer struct {
	result sentiment.Result
}

func (s fixedScorer) Score(text string) sentiment.Result {
	return s.result
}

type MockCalendarGenerator struct {
	mock.Mock
}

func (m *MockCalendarGenerator) GenerateICS(req calendar.Request) (string, string, error) {
	args := m.Called(req)
	return args.String(0), args.String(1), args.Error(2)
}
