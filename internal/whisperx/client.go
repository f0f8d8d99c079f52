// Package whisperx wraps the self-hosted WhisperX HTTP transcription
// service. The client performs no retries; per-track retry and isolation
// policy belongs to the caller.
package whisperx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrEmptyAudio is returned when no audio bytes are provided
var ErrEmptyAudio = errors.New("audio cannot be empty")

// TranscriptionError is the typed failure surfaced to callers when the
// transcription service rejects or fails a request.
type TranscriptionError struct {
	StatusCode int
	Message    string
}

func (e *TranscriptionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("whisperx: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("whisperx: %s", e.Message)
}

// Word is one word-level timestamp within a segment.
type Word struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Segment is a normalised transcription segment. All timestamps already
// include any offset requested by the caller.
type Segment struct {
	Index      int     `json:"index"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words"`
	Language   string  `json:"language"`
}

// Client is an HTTP client for the WhisperX transcription service.
type Client struct {
	baseURL         string
	defaultLanguage string
	httpClient      *http.Client
	fileTimeout     time.Duration
}

// Config holds client configuration.
type Config struct {
	BaseURL         string
	DefaultLanguage string
	ChunkTimeout    time.Duration
	FileTimeout     time.Duration
}

// NewClient creates a new WhisperX client.
func NewClient(cfg Config) *Client {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "auto"
	}
	if cfg.ChunkTimeout <= 0 {
		cfg.ChunkTimeout = 60 * time.Second
	}
	if cfg.FileTimeout <= 0 {
		cfg.FileTimeout = 5 * time.Minute
	}
	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		defaultLanguage: cfg.DefaultLanguage,
		httpClient:      &http.Client{Timeout: cfg.ChunkTimeout},
		fileTimeout:     cfg.FileTimeout,
	}
}

// TranscribeChunk sends a short audio chunk for transcription, applying
// the given timestamp offset to all returned timestamps. Used on the live
// path for ~20s chunks.
func (c *Client) TranscribeChunk(ctx context.Context, audio []byte, language string, offset float64) ([]Segment, error) {
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}
	return c.transcribe(ctx, "chunk.wav", "audio/wav", audio, language, offset, c.httpClient.Timeout)
}

// TranscribeFile sends a complete audio track for transcription. Used
// post-meeting, with no timestamp offset.
func (c *Client) TranscribeFile(ctx context.Context, path string, language string) ([]Segment, error) {
	audio, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	mime := "audio/wav"
	if filepath.Ext(path) == ".ogg" {
		mime = "audio/ogg"
	}

	return c.transcribe(ctx, filepath.Base(path), mime, audio, language, 0, c.fileTimeout)
}

// Health reports whether the transcription service is reachable.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) transcribe(ctx context.Context, filename, mime string, audio []byte, language string, offset float64, timeout time.Duration) ([]Segment, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename=%q`, filename))
	header.Set("Content-Type", mime)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}

	if language == "" {
		language = c.defaultLanguage
	}
	if language != "auto" {
		if err := writer.WriteField("language", language); err != nil {
			return nil, fmt.Errorf("failed to build multipart request: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/transcribe", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TranscriptionError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &TranscriptionError{StatusCode: resp.StatusCode, Message: string(msg)}
	}

	var payload struct {
		Segments []rawSegment `json:"segments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &TranscriptionError{Message: fmt.Sprintf("invalid response: %v", err)}
	}

	return parseSegments(payload.Segments, offset), nil
}

type rawWord struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

type rawSegment struct {
	Start      float64   `json:"start"`
	End        float64   `json:"end"`
	Text       string    `json:"text"`
	Score      float64   `json:"score"`
	Confidence float64   `json:"confidence"`
	Words      []rawWord `json:"words"`
	Language   string    `json:"language"`
}

// parseSegments normalises raw service segments, applying the timestamp
// offset and rounding times to millisecond precision.
func parseSegments(raw []rawSegment, offset float64) []Segment {
	segments := make([]Segment, 0, len(raw))
	for idx, seg := range raw {
		words := make([]Word, 0, len(seg.Words))
		for _, w := range seg.Words {
			confidence := w.Score
			if confidence == 0 {
				confidence = w.Confidence
			}
			words = append(words, Word{
				Word:       w.Word,
				Start:      round3(w.Start + offset),
				End:        round3(w.End + offset),
				Confidence: round4(confidence),
			})
		}

		confidence := seg.Score
		if confidence == 0 {
			confidence = seg.Confidence
		}

		segments = append(segments, Segment{
			Index:      idx,
			Start:      round3(seg.Start + offset),
			End:        round3(seg.End + offset),
			Text:       strings.TrimSpace(seg.Text),
			Confidence: round4(confidence),
			Words:      words,
			Language:   seg.Language,
		})
	}
	return segments
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
