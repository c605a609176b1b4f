package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yolearn/internal/agent/ports"
	"yolearn/internal/llm"
	"yolearn/internal/logging"
	"yolearn/internal/parser"
	"yolearn/pkg/types"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultPlanTimeout   = 30 * time.Second
	defaultPlanCacheSize = 64
	defaultPlanCacheTTL  = 30 * time.Minute
)

// ModelConfig wires the model-backed planner.
type ModelConfig struct {
	Client   llm.Client
	Registry ports.ToolRegistry
	Profile  ports.ContextProvider
	// Timeout bounds one model round trip. A timed-out call is a
	// recoverable planning failure, never a hard error.
	Timeout time.Duration
	// CacheSize/CacheTTL bound the decoded-plan LRU cache. Size <= 0
	// disables caching.
	CacheSize int
	CacheTTL  time.Duration
	Logger    logging.Logger
}

// cachedPlan holds a decoded plan along with the timestamp it was stored.
type cachedPlan struct {
	plan     types.PlanResult
	storedAt time.Time
}

// Model is the primary planner. It sends the tool catalogue and context to
// the language model and decodes the reply into a plan. Every failure mode
// (transport, timeout, undecodable output) surfaces as an error for the
// pipeline to catch; Model never produces a terminal turn status itself.
type Model struct {
	client   llm.Client
	registry ports.ToolRegistry
	profile  ports.ContextProvider
	decoder  *parser.Parser
	timeout  time.Duration
	cache    *lru.Cache[string, cachedPlan]
	cacheTTL time.Duration
	logger   logging.Logger
}

// NewModel builds the model-backed planner.
func NewModel(config ModelConfig) *Model {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultPlanTimeout
	}
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultPlanCacheTTL
	}

	var cache *lru.Cache[string, cachedPlan]
	if config.CacheSize != 0 {
		size := config.CacheSize
		if size < 0 {
			size = defaultPlanCacheSize
		}
		if c, err := lru.New[string, cachedPlan](size); err == nil {
			cache = c
		}
	}

	return &Model{
		client:   config.Client,
		registry: config.Registry,
		profile:  config.Profile,
		decoder:  parser.New(),
		timeout:  timeout,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logging.OrNop(config.Logger),
	}
}

// PlanTurn asks the model for exactly one tool selection. One attempt only:
// a failed call goes straight back to the caller, which falls back to the
// heuristic planner.
func (m *Model) PlanTurn(ctx context.Context, message string) (*types.PlanResult, error) {
	if m.client == nil {
		return nil, fmt.Errorf("model planner has no client configured")
	}

	cacheKey := strings.ToLower(strings.TrimSpace(message))
	if plan, ok := m.cachedPlan(cacheKey); ok {
		m.logger.Debug("plan cache hit for message %q", cacheKey)
		return plan, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	req := &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: BuildSystemPrompt(m.registry.List(), m.profile.UserInfo(), m.profile.StudentContext())},
			{Role: "user", Content: message},
		},
		Tools:       m.registry.List(),
		Temperature: 0,
	}

	resp, err := m.client.Chat(callCtx, req)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	plan, err := m.decodePlan(resp)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		m.cache.Add(cacheKey, cachedPlan{plan: *plan, storedAt: time.Now()})
	}
	return plan, nil
}

// decodePlan applies the fixed decode policy: provider-native structured
// tool calls first, then the free-text content.
func (m *Model) decodePlan(resp *llm.ChatResponse) (*types.PlanResult, error) {
	if len(resp.ToolCalls) > 0 {
		tc := resp.ToolCalls[0]
		name := strings.TrimSpace(tc.Function.Name)
		if name != "" {
			args, err := m.decoder.DecodeArguments(tc.Function.Arguments)
			if err == nil {
				return &types.PlanResult{
					ToolName:     name,
					ToolArgs:     args,
					Source:       types.PlanSourceModel,
					RawModelText: resp.Content,
				}, nil
			}
			m.logger.Warn("structured tool call arguments undecodable, trying content: %v", err)
		}
	}

	call, err := m.decoder.DecodePlan(resp.Content)
	if err != nil {
		return nil, err
	}
	return &types.PlanResult{
		ToolName:     call.Name,
		ToolArgs:     call.Arguments,
		Source:       types.PlanSourceModel,
		RawModelText: resp.Content,
	}, nil
}

func (m *Model) cachedPlan(key string) (*types.PlanResult, bool) {
	if m.cache == nil {
		return nil, false
	}
	entry, ok := m.cache.Get(key)
	if !ok {
		return nil, false
	}
	if time.Since(entry.storedAt) >= m.cacheTTL {
		m.cache.Remove(key)
		return nil, false
	}
	plan := entry.plan
	return &plan, true
}
