package config

import "time"

// ValueSource describes where a configuration value originated from.
type ValueSource string

const (
	SourceDefault  ValueSource = "default"
	SourceFile     ValueSource = "file"
	SourceEnv      ValueSource = "environment"
	SourceOverride ValueSource = "override"
)

const (
	DefaultLLMProvider    = "openai"
	DefaultLLMModel       = "gpt-4o-mini"
	DefaultLLMBaseURL     = "https://api.openai.com/v1"
	DefaultLLMTimeout     = 30 * time.Second
	DefaultPlanCacheSize  = 64
	DefaultPlanCacheTTL   = 30 * time.Minute
	DefaultToolCacheSize  = 256
	DefaultToolCacheTTL   = 5 * time.Minute
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8000
	DefaultMaxPlanRetries = 0 // a failed model attempt goes straight to the heuristic planner
)

// RuntimeConfig captures user-configurable settings shared across binaries.
type RuntimeConfig struct {
	LLMProvider   string        `json:"llm_provider" yaml:"llm_provider"`
	LLMModel      string        `json:"llm_model" yaml:"llm_model"`
	APIKey        string        `json:"api_key" yaml:"api_key"`
	BaseURL       string        `json:"base_url" yaml:"base_url"`
	LLMTimeout    time.Duration `json:"llm_timeout" yaml:"llm_timeout"`
	PlanCacheSize int           `json:"plan_cache_size" yaml:"plan_cache_size"`
	PlanCacheTTL  time.Duration `json:"plan_cache_ttl" yaml:"plan_cache_ttl"`
	ToolCacheSize int           `json:"tool_cache_size" yaml:"tool_cache_size"`
	ToolCacheTTL  time.Duration `json:"tool_cache_ttl" yaml:"tool_cache_ttl"`
	Host          string        `json:"host" yaml:"host"`
	Port          int           `json:"port" yaml:"port"`
	Environment   string        `json:"environment" yaml:"environment"`
	Verbose       bool          `json:"verbose" yaml:"verbose"`

	// Sources tracks per-field provenance for diagnostics. Populated by Load.
	Sources map[string]ValueSource `json:"-" yaml:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() RuntimeConfig {
	cfg := RuntimeConfig{
		LLMProvider:   DefaultLLMProvider,
		LLMModel:      DefaultLLMModel,
		BaseURL:       DefaultLLMBaseURL,
		LLMTimeout:    DefaultLLMTimeout,
		PlanCacheSize: DefaultPlanCacheSize,
		PlanCacheTTL:  DefaultPlanCacheTTL,
		ToolCacheSize: DefaultToolCacheSize,
		ToolCacheTTL:  DefaultToolCacheTTL,
		Host:          DefaultHost,
		Port:          DefaultPort,
		Environment:   "development",
		Sources:       make(map[string]ValueSource),
	}
	for _, field := range configFields {
		cfg.Sources[field] = SourceDefault
	}
	return cfg
}

var configFields = []string{
	"llm_provider", "llm_model", "api_key", "base_url", "llm_timeout",
	"plan_cache_size", "plan_cache_ttl", "tool_cache_size", "tool_cache_ttl",
	"host", "port", "environment", "verbose",
}
