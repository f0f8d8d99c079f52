package llm

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAPI is a mock for the upstream model service.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) CreateCompletion(ctx context.Context, req CompletionRequest) (Completion, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(Completion), args.Error(1)
}

func (m *MockAPI) CreateChat(ctx context.Context, messages []Message, model string) (Completion, error) {
	args := m.Called(ctx, messages, model)
	return args.Get(0).(Completion), args.Error(1)
}

func (m *MockAPI) CreateChatStream(ctx context.Context, messages []Message, model string) (Stream, error) {
	args := m.Called(ctx, messages, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Stream), args.Error(1)
}

func (m *MockAPI) CreateEmbedding(ctx context.Context, text string, model string) ([]float32, error) {
	args := m.Called(ctx, text, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
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

func testEmbedding(dims int) []float32 {
	embedding := make([]float32, dims)
	for i := range embedding {
		embedding[i] = float32(i) * 0.001
	}
	return embedding
}

func TestClient_Complete_AppliesDefaults(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newClient(mockAPI, Config{Model: "test-model"})

	ctx := context.Background()
	expected := CompletionRequest{
		Prompt:      "Say hello",
		Model:       "test-model",
		Format:      FormatText,
		Temperature: 0,
		MaxTokens:   defaultMaxTokens,
	}
	mockAPI.On("CreateCompletion", ctx, expected).Return(Completion{Text: "hello", Model: "test-model", TokenCount: 2}, nil)

	completion, err := client.Complete(ctx, CompletionRequest{Prompt: "Say hello"})

	require.NoError(t, err)
	assert.Equal(t, "hello", completion.Text)
	assert.Equal(t, 2, completion.TokenCount)
	mockAPI.AssertExpectations(t)
}

func TestClient_Complete_EmptyPrompt(t *testing.T) {
	client := newClient(new(MockAPI), Config{})

	_, err := client.Complete(context.Background(), CompletionRequest{})

	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestClient_Chat(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newClient(mockAPI, Config{Model: "test-model"})

	ctx := context.Background()
	messages := []Message{
		{Role: RoleSystem, Content: "You are a meeting assistant."},
		{Role: RoleUser, Content: "What was decided?"},
	}
	mockAPI.On("CreateChat", ctx, messages, "test-model").Return(Completion{Text: "The launch date."}, nil)

	completion, err := client.Chat(ctx, messages, "")

	require.NoError(t, err)
	assert.Equal(t, "The launch date.", completion.Text)
	mockAPI.AssertExpectations(t)
}

func TestClient_Chat_NoMessages(t *testing.T) {
	client := newClient(new(MockAPI), Config{})

	_, err := client.Chat(context.Background(), nil, "")

	assert.ErrorIs(t, err, ErrNoMessages)
}

func TestClient_ChatStream_ConsumedAndClosed(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newClient(mockAPI, Config{Model: "test-model"})

	ctx := context.Background()
	messages := []Message{{Role: RoleUser, Content: "hi"}}
	fake := &fakeStream{deltas: []string{"hel", "lo"}}
	mockAPI.On("CreateChatStream", ctx, messages, "test-model").Return(fake, nil)

	stream, err := client.ChatStream(ctx, messages, "")
	require.NoError(t, err)
	defer stream.Close()

	var full string
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		full += delta
	}

	assert.Equal(t, "hello", full)
	require.NoError(t, stream.Close())
	assert.True(t, fake.closed)
	mockAPI.AssertExpectations(t)
}

func TestClient_ChatStream_AbandonedEarly(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newClient(mockAPI, Config{})

	messages := []Message{{Role: RoleUser, Content: "hi"}}
	fake := &fakeStream{deltas: []string{"a", "b", "c"}}
	mockAPI.On("CreateChatStream", mock.Anything, messages, DefaultModel).Return(fake, nil)

	stream, err := client.ChatStream(context.Background(), messages, "")
	require.NoError(t, err)

	// Consumer disconnects after the first delta.
	_, err = stream.Recv()
	require.NoError(t, err)
	require.NoError(t, stream.Close())
	assert.True(t, fake.closed)
}

func TestClient_Embed_Success(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newClient(mockAPI, Config{})

	ctx := context.Background()
	expected := testEmbedding(DefaultEmbeddingDimensions)
	mockAPI.On("CreateEmbedding", ctx, "meeting notes", DefaultEmbeddingModel).Return(expected, nil)

	embedding, err := client.Embed(ctx, "meeting notes")

	require.NoError(t, err)
	assert.Equal(t, expected, embedding)
	mockAPI.AssertExpectations(t)
}

func TestClient_Embed_EmptyText(t *testing.T) {
	client := newClient(new(MockAPI), Config{})

	_, err := client.Embed(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestClient_Embed_WrongDimensions(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newClient(mockAPI, Config{EmbeddingDimensions: 768})

	mockAPI.On("CreateEmbedding", mock.Anything, "text", DefaultEmbeddingModel).Return(testEmbedding(512), nil)

	_, err := client.Embed(context.Background(), "text")

	assert.ErrorIs(t, err, ErrWrongDimensions)
}

func TestClient_EmbedBatch_Sequential(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newClient(mockAPI, Config{EmbeddingDimensions: 3})

	mockAPI.On("CreateEmbedding", mock.Anything, "first", DefaultEmbeddingModel).Return([]float32{1, 0, 0}, nil)
	mockAPI.On("CreateEmbedding", mock.Anything, "second", DefaultEmbeddingModel).Return([]float32{0, 1, 0}, nil)

	embeddings, err := client.EmbedBatch(context.Background(), []string{"first", "second"})

	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{1, 0, 0}, embeddings[0])
	assert.Equal(t, []float32{0, 1, 0}, embeddings[1])
	mockAPI.AssertExpectations(t)
}

func TestClient_EmbedBatch_AbortsOnFailure(t *testing.T) {
	mockAPI := new(MockAPI)
	client := newClient(mockAPI, Config{EmbeddingDimensions: 3})

	apiErr := errors.New("model not loaded")
	mockAPI.On("CreateEmbedding", mock.Anything, "first", DefaultEmbeddingModel).Return([]float32{1, 0, 0}, nil)
	mockAPI.On("CreateEmbedding", mock.Anything, "second", DefaultEmbeddingModel).Return(nil, apiErr)

	embeddings, err := client.EmbedBatch(context.Background(), []string{"first", "second", "third"})

	assert.Nil(t, embeddings)
	assert.ErrorContains(t, err, "embedding 2 of 3")
	mockAPI.AssertNotCalled(t, "CreateEmbedding", mock.Anything, "third", mock.Anything)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:11434/v1"})

	assert.Equal(t, DefaultModel, client.Model())
	assert.Equal(t, DefaultEmbeddingModel, client.EmbeddingModel())
}
