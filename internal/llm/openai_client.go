package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"yolearn/internal/logging"
	jsonx "yolearn/internal/shared/json"
)

const defaultOpenAITimeout = 120 * time.Second

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	model      string
	apiKey     string
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	logger     logging.Logger
}

// NewOpenAIClient builds a client from config. BaseURL defaults to the
// public OpenAI endpoint when empty.
func NewOpenAIClient(config Config) *OpenAIClient {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultOpenAITimeout
	}
	return &OpenAIClient{
		model:      config.Model,
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		headers:    config.Headers,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger("OpenAIClient"),
	}
}

// Model returns the model name used by this client.
func (c *OpenAIClient) Model() string {
	return c.model
}

// wire types for the chat completions endpoint

type openaiChatRequest struct {
	Model       string          `json:"model"`
	Messages    []Message       `json:"messages"`
	Tools       []openaiTool    `json:"tools,omitempty"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openaiTool struct {
	Type     string           `json:"type"`
	Function openaiToolSchema `json:"function"`
}

type openaiToolSchema struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  any    `json:"parameters"`
}

type openaiChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role      string     `json:"role"`
			Content   string     `json:"content"`
			ToolCalls []ToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Chat sends a completion request and normalizes the first choice.
func (c *OpenAIClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	payload := openaiChatRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, def := range req.Tools {
		payload.Tools = append(payload.Tools, openaiTool{
			Type: "function",
			Function: openaiToolSchema{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}

	body, err := jsonx.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	resp, err := c.doPost(ctx, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}

	var parsed openaiChatResponse
	if err := jsonx.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode chat response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("provider error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("provider returned no choices")
	}

	choice := parsed.Choices[0]
	c.logger.Debug("chat completion ok: model=%s finish=%s tool_calls=%d",
		parsed.Model, choice.FinishReason, len(choice.Message.ToolCalls))

	return &ChatResponse{
		ID:        parsed.ID,
		Model:     parsed.Model,
		Content:   choice.Message.Content,
		ToolCalls: choice.Message.ToolCalls,
		Usage:     parsed.Usage,
	}, nil
}

// doPost sends an HTTP POST with standard headers (Content-Type,
// Authorization via Bearer, and any custom headers).
func (c *OpenAIClient) doPost(ctx context.Context, endpoint string, body []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	return c.httpClient.Do(httpReq)
}

var _ Client = (*OpenAIClient)(nil)
