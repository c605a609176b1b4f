package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-user settings file consulted by Load.
const ConfigFileName = ".yolearn.yaml"

// EnvLookup abstracts os.LookupEnv so tests can inject environments.
type EnvLookup func(key string) (string, bool)

// DefaultEnvLookup reads from the process environment.
func DefaultEnvLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Load builds the runtime configuration: defaults, then the optional YAML
// file in the user's home directory, then environment variables.
func Load() (*RuntimeConfig, error) {
	return LoadWith(DefaultEnvLookup, defaultConfigPath())
}

// LoadWith is Load with injectable environment and file path, for tests.
func LoadWith(env EnvLookup, path string) (*RuntimeConfig, error) {
	cfg := Defaults()

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&cfg, env); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ConfigFileName)
}

// fileConfig mirrors RuntimeConfig with optional fields so absent keys do not
// clobber defaults. Durations are given in seconds in the file.
type fileConfig struct {
	LLMProvider       *string `yaml:"llm_provider"`
	LLMModel          *string `yaml:"llm_model"`
	APIKey            *string `yaml:"api_key"`
	BaseURL           *string `yaml:"base_url"`
	LLMTimeoutSeconds *int    `yaml:"llm_timeout_seconds"`
	PlanCacheSize     *int    `yaml:"plan_cache_size"`
	PlanCacheTTLSecs  *int    `yaml:"plan_cache_ttl_seconds"`
	ToolCacheSize     *int    `yaml:"tool_cache_size"`
	ToolCacheTTLSecs  *int    `yaml:"tool_cache_ttl_seconds"`
	Host              *string `yaml:"host"`
	Port              *int    `yaml:"port"`
	Environment       *string `yaml:"environment"`
	Verbose           *bool   `yaml:"verbose"`
}

func applyFile(cfg *RuntimeConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(cfg, &cfg.LLMProvider, "llm_provider", fc.LLMProvider, SourceFile)
	setString(cfg, &cfg.LLMModel, "llm_model", fc.LLMModel, SourceFile)
	setString(cfg, &cfg.APIKey, "api_key", fc.APIKey, SourceFile)
	setString(cfg, &cfg.BaseURL, "base_url", fc.BaseURL, SourceFile)
	setSeconds(cfg, &cfg.LLMTimeout, "llm_timeout", fc.LLMTimeoutSeconds, SourceFile)
	setInt(cfg, &cfg.PlanCacheSize, "plan_cache_size", fc.PlanCacheSize, SourceFile)
	setSeconds(cfg, &cfg.PlanCacheTTL, "plan_cache_ttl", fc.PlanCacheTTLSecs, SourceFile)
	setInt(cfg, &cfg.ToolCacheSize, "tool_cache_size", fc.ToolCacheSize, SourceFile)
	setSeconds(cfg, &cfg.ToolCacheTTL, "tool_cache_ttl", fc.ToolCacheTTLSecs, SourceFile)
	setString(cfg, &cfg.Host, "host", fc.Host, SourceFile)
	setInt(cfg, &cfg.Port, "port", fc.Port, SourceFile)
	setString(cfg, &cfg.Environment, "environment", fc.Environment, SourceFile)
	setBool(cfg, &cfg.Verbose, "verbose", fc.Verbose, SourceFile)
	return nil
}

// envAliases maps secondary environment names accepted for compatibility with
// provider SDK conventions.
var envAliases = map[string][]string{
	"YOLEARN_API_KEY":  {"OPENAI_API_KEY"},
	"YOLEARN_BASE_URL": {"OPENAI_BASE_URL"},
}

func lookupWithAliases(env EnvLookup, key string) (string, bool) {
	if value, ok := env(key); ok && strings.TrimSpace(value) != "" {
		return value, true
	}
	for _, alias := range envAliases[key] {
		if value, ok := env(alias); ok && strings.TrimSpace(value) != "" {
			return value, true
		}
	}
	return "", false
}

func applyEnv(cfg *RuntimeConfig, env EnvLookup) error {
	if env == nil {
		env = DefaultEnvLookup
	}

	envString(cfg, env, "YOLEARN_LLM_PROVIDER", "llm_provider", &cfg.LLMProvider)
	envString(cfg, env, "YOLEARN_LLM_MODEL", "llm_model", &cfg.LLMModel)
	envString(cfg, env, "YOLEARN_API_KEY", "api_key", &cfg.APIKey)
	envString(cfg, env, "YOLEARN_BASE_URL", "base_url", &cfg.BaseURL)
	envString(cfg, env, "YOLEARN_HOST", "host", &cfg.Host)
	envString(cfg, env, "YOLEARN_ENV", "environment", &cfg.Environment)

	if err := envInt(cfg, env, "YOLEARN_PORT", "port", &cfg.Port); err != nil {
		return err
	}
	if err := envInt(cfg, env, "YOLEARN_PLAN_CACHE_SIZE", "plan_cache_size", &cfg.PlanCacheSize); err != nil {
		return err
	}
	if err := envInt(cfg, env, "YOLEARN_TOOL_CACHE_SIZE", "tool_cache_size", &cfg.ToolCacheSize); err != nil {
		return err
	}
	if err := envSeconds(cfg, env, "YOLEARN_LLM_TIMEOUT_SECONDS", "llm_timeout", &cfg.LLMTimeout); err != nil {
		return err
	}
	if err := envSeconds(cfg, env, "YOLEARN_PLAN_CACHE_TTL_SECONDS", "plan_cache_ttl", &cfg.PlanCacheTTL); err != nil {
		return err
	}
	if err := envSeconds(cfg, env, "YOLEARN_TOOL_CACHE_TTL_SECONDS", "tool_cache_ttl", &cfg.ToolCacheTTL); err != nil {
		return err
	}

	if raw, ok := lookupWithAliases(env, "YOLEARN_VERBOSE"); ok {
		value, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid YOLEARN_VERBOSE value %q: %w", raw, err)
		}
		cfg.Verbose = value
		cfg.Sources["verbose"] = SourceEnv
	}
	return nil
}

func envString(cfg *RuntimeConfig, env EnvLookup, key, field string, dst *string) {
	if raw, ok := lookupWithAliases(env, key); ok {
		*dst = strings.TrimSpace(raw)
		cfg.Sources[field] = SourceEnv
	}
}

func envInt(cfg *RuntimeConfig, env EnvLookup, key, field string, dst *int) error {
	raw, ok := lookupWithAliases(env, key)
	if !ok {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	*dst = value
	cfg.Sources[field] = SourceEnv
	return nil
}

func envSeconds(cfg *RuntimeConfig, env EnvLookup, key, field string, dst *time.Duration) error {
	raw, ok := lookupWithAliases(env, key)
	if !ok {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fmt.Errorf("invalid %s value %q", key, raw)
	}
	*dst = time.Duration(value) * time.Second
	cfg.Sources[field] = SourceEnv
	return nil
}

func setString(cfg *RuntimeConfig, dst *string, field string, value *string, source ValueSource) {
	if value == nil {
		return
	}
	*dst = strings.TrimSpace(*value)
	cfg.Sources[field] = source
}

func setInt(cfg *RuntimeConfig, dst *int, field string, value *int, source ValueSource) {
	if value == nil {
		return
	}
	*dst = *value
	cfg.Sources[field] = source
}

func setBool(cfg *RuntimeConfig, dst *bool, field string, value *bool, source ValueSource) {
	if value == nil {
		return
	}
	*dst = *value
	cfg.Sources[field] = source
}

func setSeconds(cfg *RuntimeConfig, dst *time.Duration, field string, value *int, source ValueSource) {
	if value == nil || *value <= 0 {
		return
	}
	*dst = time.Duration(*value) * time.Second
	cfg.Sources[field] = source
}
