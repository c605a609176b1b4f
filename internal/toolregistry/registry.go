package toolregistry

import (
	"fmt"
	"sort"
	"sync"

	"yolearn/internal/agent/ports"
	"yolearn/internal/tools/builtin"
)

// Registry implements ports.ToolRegistry. Built-in learning tools are
// registered once at construction; the registry is effectively read-only
// during a turn.
type Registry struct {
	static  map[string]ports.ToolExecutor
	dynamic map[string]ports.ToolExecutor
	mu      sync.RWMutex
}

// Config controls registry construction.
type Config struct {
	// ResultCache wraps every built-in tool in an LRU result cache when
	// Enabled. Learning tools are pure transforms of their arguments, so
	// identical calls can be served from cache.
	ResultCache CacheConfig
}

// NewRegistry builds a registry holding the three learning tools.
func NewRegistry(config Config) (*Registry, error) {
	r := &Registry{
		static:  make(map[string]ports.ToolExecutor),
		dynamic: make(map[string]ports.ToolExecutor),
	}
	r.registerBuiltins(config)
	return r, nil
}

func (r *Registry) registerBuiltins(config Config) {
	wrap := func(tool ports.ToolExecutor) ports.ToolExecutor {
		if !config.ResultCache.Enabled {
			return tool
		}
		return NewCacheExecutor(tool, config.ResultCache)
	}

	r.static["note_maker"] = wrap(builtin.NewNoteMaker())
	r.static["flashcard_generator"] = wrap(builtin.NewFlashcardGenerator())
	r.static["concept_explainer"] = wrap(builtin.NewConceptExplainer())
}

// Register adds a non-builtin tool. Built-in names cannot be shadowed.
func (r *Registry) Register(tool ports.ToolExecutor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := tool.Metadata().Name
	if _, exists := r.static[name]; exists {
		return fmt.Errorf("tool already exists: %s", name)
	}
	if _, exists := r.dynamic[name]; exists {
		return fmt.Errorf("tool already exists: %s", name)
	}
	r.dynamic[name] = tool
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (ports.ToolExecutor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if tool, ok := r.static[name]; ok {
		return tool, nil
	}
	if tool, ok := r.dynamic[name]; ok {
		return tool, nil
	}
	return nil, fmt.Errorf("tool not found: %s", name)
}

// List returns the definitions of every registered tool, sorted by name so
// prompt catalogues are deterministic.
func (r *Registry) List() []ports.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ports.ToolDefinition, 0, len(r.static)+len(r.dynamic))
	for _, tool := range r.static {
		defs = append(defs, tool.Definition())
	}
	for _, tool := range r.dynamic {
		defs = append(defs, tool.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Unregister removes a dynamically registered tool.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.static[name]; ok {
		return fmt.Errorf("cannot unregister built-in tool: %s", name)
	}
	delete(r.dynamic, name)
	return nil
}

var _ ports.ToolRegistry = (*Registry)(nil)
