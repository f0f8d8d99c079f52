package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/speakinsights/speakinsights/internal/domain"
	"github.com/speakinsights/speakinsights/internal/llm"
)

// ErrEmptyQuestion is returned when a chat question is blank.
var ErrEmptyQuestion = domain.NewDomainError(domain.ErrCodeValidation, "question cannot be empty")

// ChatModel defines the model operations the chat service needs.
type ChatModel interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Chat(ctx context.Context, messages []llm.Message, model string) (llm.Completion, error)
	ChatStream(ctx context.Context, messages []llm.Message, model string) (llm.Stream, error)
}

// ChatService answers questions about a processed meeting by retrieving
// the transcript chunks nearest to the question and grounding the model
// on them.
type ChatService struct {
	meetings MeetingRepositoryInterface
	chunks   ChunkRepositoryInterface
	model    ChatModel
	topK     int
}

func NewChatService(meetings MeetingRepositoryInterface, chunks ChunkRepositoryInterface, model ChatModel) *ChatService {
	return &ChatService{
		meetings: meetings,
		chunks:   chunks,
		model:    model,
		topK:     5,
	}
}

// Ask answers a question synchronously.
func (s *ChatService) Ask(ctx context.Context, meetingID, question string) (string, error) {
	messages, err := s.buildMessages(ctx, meetingID, question)
	if err != nil {
		return "", err
	}

	completion, err := s.model.Chat(ctx, messages, "")
	if err != nil {
		return "", fmt.Errorf("failed to answer question: %w", err)
	}
	return completion.Text, nil
}

// AskStream answers a question as a token stream. The caller owns the
// stream and must Close it; abandoning it mid-answer must not leak the
// upstream connection.
func (s *ChatService) AskStream(ctx context.Context, meetingID, question string) (llm.Stream, error) {
	messages, err := s.buildMessages(ctx, meetingID, question)
	if err != nil {
		return nil, err
	}

	stream, err := s.model.ChatStream(ctx, messages, "")
	if err != nil {
		return nil, fmt.Errorf("failed to start answer stream: %w", err)
	}
	return stream, nil
}

func (s *ChatService) buildMessages(ctx context.Context, meetingID, question string) ([]llm.Message, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	embedding, err := s.model.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := s.chunks.SearchByEmbedding(ctx, meetingID, embedding, s.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search transcript: %w", err)
	}

	var contextBuilder strings.Builder
	for _, result := range results {
		minutes := int(result.StartTime) / 60
		seconds := int(result.StartTime) % 60
		fmt.Fprintf(&contextBuilder, "[%02d:%02d] %s: %s\n", minutes, seconds, result.SpeakerName, result.ChunkText)
	}
	excerpt := contextBuilder.String()
	if excerpt == "" {
		excerpt = "(no transcript available)"
	}

	system := fmt.Sprintf(`You are a helpful assistant answering questions about the meeting "%s".
Use only the transcript excerpts below. If the excerpts do not contain the answer, say so.

Transcript excerpts:
%s`, meeting.Title, excerpt)

	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: question},
	}, nil
}
