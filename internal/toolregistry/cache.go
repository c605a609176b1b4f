package toolregistry

import (
	"context"
	"fmt"
	"sort"
	"time"

	"yolearn/internal/agent/ports"
	jsonx "yolearn/internal/shared/json"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultCacheMaxSize = 256
	defaultCacheTTL     = 5 * time.Minute
)

// CacheConfig configures the tool result cache behaviour.
type CacheConfig struct {
	// Enabled turns result caching on.
	Enabled bool
	// MaxSize is the maximum number of entries in the LRU cache.
	MaxSize int
	// TTL is how long a cached result remains valid.
	TTL time.Duration
}

// DefaultCacheConfig returns sensible defaults for tool result caching.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: true,
		MaxSize: defaultCacheMaxSize,
		TTL:     defaultCacheTTL,
	}
}

// cacheEntry holds a cached tool result along with the timestamp it was stored.
type cacheEntry struct {
	content  string
	metadata map[string]any
	storedAt time.Time
}

// cacheExecutor is a ToolExecutor wrapper that caches results keyed by
// (toolName + normalised arguments). Only valid for tools whose Execute is a
// pure transform of validated arguments, which holds for every built-in.
type cacheExecutor struct {
	delegate ports.ToolExecutor
	cache    *lru.Cache[string, cacheEntry]
	ttl      time.Duration
}

// NewCacheExecutor wraps delegate with an LRU result cache.
// Zero config values fall back to DefaultCacheConfig defaults.
func NewCacheExecutor(delegate ports.ToolExecutor, config CacheConfig) ports.ToolExecutor {
	if delegate == nil {
		return nil
	}
	if config.MaxSize <= 0 {
		config.MaxSize = defaultCacheMaxSize
	}
	if config.TTL <= 0 {
		config.TTL = defaultCacheTTL
	}
	cache, err := lru.New[string, cacheEntry](config.MaxSize)
	if err != nil {
		// lru.New only errors on non-positive size which we guard above.
		return delegate
	}
	return &cacheExecutor{
		delegate: delegate,
		cache:    cache,
		ttl:      config.TTL,
	}
}

func (c *cacheExecutor) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	key := c.cacheKey(call)

	if entry, ok := c.cache.Get(key); ok {
		if time.Since(entry.storedAt) < c.ttl {
			// Cache hit. Return a copy carrying the current call's ID.
			return &ports.ToolResult{
				CallID:   call.ID,
				Content:  entry.content,
				Metadata: cloneMetadata(entry.metadata),
			}, nil
		}
		// Expired. Evict so the LRU bookkeeping stays clean.
		c.cache.Remove(key)
	}

	result, err := c.delegate.Execute(ctx, call)
	if err != nil {
		return result, err
	}
	// Do not cache error results.
	if result != nil && result.Error == nil {
		c.cache.Add(key, cacheEntry{
			content:  result.Content,
			metadata: cloneMetadata(result.Metadata),
			storedAt: time.Now(),
		})
	}
	return result, nil
}

func (c *cacheExecutor) Definition() ports.ToolDefinition {
	return c.delegate.Definition()
}

func (c *cacheExecutor) Metadata() ports.ToolMetadata {
	return c.delegate.Metadata()
}

// cacheKey produces a deterministic string key from tool name + arguments.
func (c *cacheExecutor) cacheKey(call ports.ToolCall) string {
	name := call.Name
	if name == "" {
		name = c.delegate.Metadata().Name
	}
	return fmt.Sprintf("%s:%s", name, normalizeArgs(call.Arguments))
}

// normalizeArgs serialises a map[string]any into a deterministic JSON string.
// json.Marshal sorts top-level map keys; nested maps are converted to the
// same concrete type so they sort too.
func normalizeArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := jsonx.Marshal(sortedMap(args))
	if err != nil {
		return "{}"
	}
	return string(data)
}

func sortedMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := m[k]
		if nested, ok := v.(map[string]any); ok {
			v = sortedMap(nested)
		}
		out[k] = v
	}
	return out
}

// cloneMetadata performs a shallow copy so cached entries do not alias
// caller maps.
func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

var _ ports.ToolExecutor = (*cacheExecutor)(nil)
