// Package llm is the gateway to the OpenAI-compatible language model
// service (Ollama, vLLM, or hosted OpenAI). It exposes generic
// completion, chat, streaming chat, embeddings, and the structured
// meeting-analysis calls.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the chat/completion model used when none is configured.
	DefaultModel = "llama3.2:3b"
	// DefaultEmbeddingModel is the embedding model used when none is configured.
	DefaultEmbeddingModel = "nomic-embed-text"
	// DefaultEmbeddingDimensions is the vector size of nomic-embed-text.
	DefaultEmbeddingDimensions = 768

	defaultMaxTokens = 2048
)

var (
	// ErrEmptyPrompt is returned when a prompt is empty
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
	// ErrEmptyText is returned when text to embed is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrNoMessages is returned when a chat call has no messages
	ErrNoMessages = errors.New("messages cannot be empty")
	// ErrWrongDimensions is returned when an embedding has unexpected dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
)

// Format selects the response format for a completion.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Completion is the result of a completion or chat call.
type Completion struct {
	Text       string
	Model      string
	TokenCount int
}

// CompletionRequest describes a generic completion call.
type CompletionRequest struct {
	Prompt      string
	Model       string
	Format      Format
	Temperature float32
	MaxTokens   int
}

// Stream is a forward-only token stream from a chat call. Recv returns
// io.EOF when the stream ends; Close abandons the upstream connection
// and must be safe to call at any point.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// API is the narrow surface of the upstream model service the gateway
// depends on.
type API interface {
	CreateCompletion(ctx context.Context, req CompletionRequest) (Completion, error)
	CreateChat(ctx context.Context, messages []Message, model string) (Completion, error)
	CreateChatStream(ctx context.Context, messages []Message, model string) (Stream, error)
	CreateEmbedding(ctx context.Context, text string, model string) ([]float32, error)
}

// Config holds gateway configuration.
type Config struct {
	// BaseURL of the OpenAI-compatible endpoint, e.g. http://ollama:11434/v1.
	BaseURL string
	// APIKey may be any non-empty string for local endpoints.
	APIKey              string
	Model               string
	EmbeddingModel      string
	EmbeddingDimensions int
}

// Client is the language model gateway.
type Client struct {
	api            API
	model          string
	embeddingModel string
	dimensions     int
}

// NewClient creates a gateway backed by the configured endpoint.
func NewClient(cfg Config) *Client {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "unused"
	}
	openaiCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		openaiCfg.BaseURL = cfg.BaseURL
	}
	return newClient(&openAIAdapter{client: openai.NewClientWithConfig(openaiCfg)}, cfg)
}

func newClient(api API, cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.EmbeddingDimensions <= 0 {
		cfg.EmbeddingDimensions = DefaultEmbeddingDimensions
	}
	return &Client{
		api:            api,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		dimensions:     cfg.EmbeddingDimensions,
	}
}

// Complete performs a generic completion call. Zero-value request fields
// fall back to the configured model, text format, and default token cap.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	if req.Prompt == "" {
		return Completion{}, ErrEmptyPrompt
	}
	if req.Model == "" {
		req.Model = c.model
	}
	if req.Format == "" {
		req.Format = FormatText
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}

	completion, err := c.api.CreateCompletion(ctx, req)
	if err != nil {
		return Completion{}, fmt.Errorf("completion failed: %w", err)
	}
	return completion, nil
}

// Chat performs a synchronous chat completion.
func (c *Client) Chat(ctx context.Context, messages []Message, model string) (Completion, error) {
	if len(messages) == 0 {
		return Completion{}, ErrNoMessages
	}
	if model == "" {
		model = c.model
	}

	completion, err := c.api.CreateChat(ctx, messages, model)
	if err != nil {
		return Completion{}, fmt.Errorf("chat failed: %w", err)
	}
	return completion, nil
}

// ChatStream starts a streaming chat completion. The caller owns the
// returned stream and must Close it; abandoning the stream mid-way
// releases the upstream connection.
func (c *Client) ChatStream(ctx context.Context, messages []Message, model string) (Stream, error) {
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}
	if model == "" {
		model = c.model
	}

	stream, err := c.api.CreateChatStream(ctx, messages, model)
	if err != nil {
		return nil, fmt.Errorf("chat stream failed: %w", err)
	}
	return stream, nil
}

// Embed generates an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	embedding, err := c.api.CreateEmbedding(ctx, text, c.embeddingModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(embedding) != c.dimensions {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongDimensions, c.dimensions, len(embedding))
	}
	return embedding, nil
}

// EmbedBatch embeds each text sequentially. The endpoint has no true
// bulk RPC; this is a convenience wrapper. The first failure aborts the
// batch.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for i, text := range texts {
		embedding, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding %d of %d: %w", i+1, len(texts), err)
		}
		embeddings = append(embeddings, embedding)
	}
	return embeddings, nil
}

// EmbeddingModel returns the configured embedding model identifier.
func (c *Client) EmbeddingModel() string {
	return c.embeddingModel
}

// Model returns the configured chat/completion model identifier.
func (c *Client) Model() string {
	return c.model
}

// openAIAdapter implements API against an OpenAI-compatible endpoint.
// Completions are issued through the chat endpoint; the legacy
// /completions API is not implemented by most compatible servers.
type openAIAdapter struct {
	client *openai.Client
}

func (a *openAIAdapter) CreateCompletion(ctx context.Context, req CompletionRequest) (Completion, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.Format == FormatJSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := a.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return Completion{}, errors.New("no completion choices returned")
	}
	return Completion{
		Text:       resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokenCount: resp.Usage.CompletionTokens,
	}, nil
}

func (a *openAIAdapter) CreateChat(ctx context.Context, messages []Message, model string) (Completion, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return Completion{}, errors.New("no chat choices returned")
	}
	return Completion{
		Text:       resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokenCount: resp.Usage.CompletionTokens,
	}, nil
}

func (a *openAIAdapter) CreateChatStream(ctx context.Context, messages []Message, model string) (Stream, error) {
	stream, err := a.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
		Stream:   true,
	})
	if err != nil {
		return nil, err
	}
	return &chatStream{stream: stream}, nil
}

func (a *openAIAdapter) CreateEmbedding(ctx context.Context, text string, model string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}
	return resp.Data[0].Embedding, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

// chatStream adapts the upstream SSE stream to the Stream interface.
// Chunks without choices (keep-alives, role-only deltas) are skipped.
type chatStream struct {
	stream *openai.ChatCompletionStream
}

func (s *chatStream) Recv() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		return resp.Choices[0].Delta.Content, nil
	}
}

func (s *chatStream) Close() error {
	return s.stream.Close()
}
