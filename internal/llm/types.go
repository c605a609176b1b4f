package llm

import (
	"context"
	"time"

	"yolearn/internal/agent/ports"
)

// Client represents any LLM provider
type Client interface {
	// Chat sends messages and returns a response (non-streaming)
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Model returns the model identifier
	Model() string
}

// Config holds provider connection settings.
type Config struct {
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

// Message is a single conversation entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest contains all parameters for a completion call.
type ChatRequest struct {
	Messages    []Message              `json:"messages"`
	Tools       []ports.ToolDefinition `json:"tools,omitempty"`
	Temperature float64                `json:"temperature"`
	MaxTokens   int                    `json:"max_tokens,omitempty"`
}

// FunctionCall carries a provider-native structured tool invocation.
// Arguments is the raw JSON string exactly as the provider produced it.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall wraps a structured tool invocation from the provider.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the provider's reply. Content may be free text, possibly
// wrapping JSON in markdown code fences; ToolCalls is populated when the
// provider emitted a structured tool call instead.
type ChatResponse struct {
	ID        string     `json:"id"`
	Model     string     `json:"model"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	Usage     Usage      `json:"usage"`
}
