package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/speakinsights/speakinsights/internal/domain"
	"github.com/speakinsights/speakinsights/internal/llm"
)

func chatFixture() (*MockMeetingRepo, *MockChunkRepo, *MockLanguageModel, *ChatService) {
	meetings := new(MockMeetingRepo)
	chunks := new(MockChunkRepo)
	model := new(MockLanguageModel)
	return meetings, chunks, model, NewChatService(meetings, chunks, model)
}

func TestChatService_Ask_GroundsOnRetrievedChunks(t *testing.T) {
	meetings, chunks, model, svc := chatFixture()

	meetings.On("GetByID", mock.Anything, "m1").
		Return(&domain.Meeting{ID: "m1", Title: "Q4 Planning", Status: domain.MeetingStatusCompleted}, nil)
	model.On("Embed", mock.Anything, "what was decided?").Return([]float32{0.1, 0.2}, nil)
	chunks.On("SearchByEmbedding", mock.Anything, "m1", []float32{0.1, 0.2}, 5).
		Return([]*ChunkSearchResult{
			{ChunkText: "we will ship in November", SpeakerName: "Alice", StartTime: 65, Score: 0.9},
		}, nil)
	model.On("Chat", mock.Anything, mock.MatchedBy(func(messages []llm.Message) bool {
		return len(messages) == 2 &&
			messages[0].Role == llm.RoleSystem &&
			assert.ObjectsAreEqual(messages[1], llm.Message{Role: llm.RoleUser, Content: "what was decided?"})
	}), "").Return(llm.Completion{Text: "Shipping in November."}, nil)

	answer, err := svc.Ask(context.Background(), "m1", "what was decided?")

	require.NoError(t, err)
	assert.Equal(t, "Shipping in November.", answer)

	// The system prompt carries the retrieved excerpt with its timestamp.
	systemPrompt := model.Calls[1].Arguments[1].([]llm.Message)[0].Content
	assert.Contains(t, systemPrompt, "[01:05] Alice: we will ship in November")
	assert.Contains(t, systemPrompt, "Q4 Planning")
}

func TestChatService_Ask_EmptyQuestion(t *testing.T) {
	_, _, _, svc := chatFixture()

	_, err := svc.Ask(context.Background(), "m1", "   ")

	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestChatService_Ask_UnknownMeeting(t *testing.T) {
	meetings, _, _, svc := chatFixture()
	meetings.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrMeetingNotFound)

	_, err := svc.Ask(context.Background(), "missing", "anything?")

	assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
}

func TestChatService_AskStream_ReturnsCallerOwnedStream(t *testing.T) {
	meetings, chunks, model, svc := chatFixture()

	meetings.On("GetByID", mock.Anything, "m1").
		Return(&domain.Meeting{ID: "m1", Title: "Sync", Status: domain.MeetingStatusCompleted}, nil)
	model.On("Embed", mock.Anything, "summary?").Return([]float32{0.3}, nil)
	chunks.On("SearchByEmbedding", mock.Anything, "m1", []float32{0.3}, 5).
		Return([]*ChunkSearchResult{}, nil)

	fake := &fakeStream{deltas: []string{"All ", "good."}}
	model.On("ChatStream", mock.Anything, mock.Anything, "").Return(fake, nil)

	stream, err := svc.AskStream(context.Background(), "m1", "summary?")

	require.NoError(t, err)
	first, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "All ", first)
	require.NoError(t, stream.Close())
	assert.True(t, fake.closed)
}
