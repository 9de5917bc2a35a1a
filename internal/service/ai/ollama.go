package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var (
	ErrStreamingUnsupported = errors.New("ollama chat model does not stream")
	ErrMissingMessage       = errors.New("inference response has no message")
)

// OllamaChatModel talks to an Ollama-style /api/chat endpoint with
// non-streaming requests. It satisfies model.BaseChatModel.
type OllamaChatModel struct {
	url        string
	model      string
	httpClient *http.Client
}

// NewOllamaChatModel creates a chat model bound to url. Every request is
// bounded by timeout.
func NewOllamaChatModel(url, modelName string, timeout time.Duration) *OllamaChatModel {
	return &OllamaChatModel{
		url:   url,
		model: modelName,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaResponse struct {
	Message *ollamaMessage `json:"message"`
	Error   string         `json:"error,omitempty"`
}

// GetType names the component for eino callbacks.
func (m *OllamaChatModel) GetType() string {
	return "Ollama"
}

// Generate sends input as one chat request and returns the assistant reply.
func (m *OllamaChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{Model: &m.model}, opts...)
	modelName := m.model
	if options.Model != nil && *options.Model != "" {
		modelName = *options.Model
	}

	reqBody := ollamaRequest{
		Model:    modelName,
		Messages: make([]ollamaMessage, 0, len(input)),
		Stream:   false,
	}
	for _, msg := range input {
		if msg == nil {
			continue
		}
		reqBody.Messages = append(reqBody.Messages, ollamaMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading inference response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("inference non-success status=%d body=%s", resp.StatusCode, truncate(string(body), 400))
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse inference response: %s", truncate(string(body), 400))
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("inference error: %s", parsed.Error)
	}
	if parsed.Message == nil {
		return nil, ErrMissingMessage
	}

	return schema.AssistantMessage(parsed.Message.Content, nil), nil
}

// Stream is not supported; replies are always returned whole.
func (m *OllamaChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, ErrStreamingUnsupported
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
