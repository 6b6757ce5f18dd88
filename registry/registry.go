package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonwraymond/toolfoundation/model"

	"github.com/jonwraymond/toolprompts/logging"
	"github.com/jonwraymond/toolprompts/prompts"
	"github.com/jonwraymond/toolprompts/search"
)

// Names of the tools every Registry serves.
const (
	GetPromptsTool    = "get_prompts"
	SearchPromptsTool = "search_prompts"
)

// Config configures a Registry.
type Config struct {
	ServerInfo ServerInfo
	// Prompts holds the example prompts. A fresh registry is used when nil.
	Prompts *prompts.Registry
	// Searcher enables the search_prompts tool when set.
	Searcher *search.Searcher
}

// ServerInfo describes this MCP server for initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// Registry is an MCP tool registry that advertises example prompts
// for its tools.
type Registry struct {
	mu       sync.RWMutex
	config   Config
	prompts  *prompts.Registry
	searcher *search.Searcher

	tools    map[string]model.Tool
	handlers map[string]ToolHandler
}

// New creates a new Registry with the given config.
func New(cfg Config) *Registry {
	reg := cfg.Prompts
	if reg == nil {
		reg = prompts.New()
	}

	r := &Registry{
		config:   cfg,
		prompts:  reg,
		searcher: cfg.Searcher,
		tools:    make(map[string]model.Tool),
		handlers: make(map[string]ToolHandler),
	}
	r.registerBuiltins()
	return r
}

// Prompts returns the prompt registry backing this server.
func (r *Registry) Prompts() *prompts.Registry {
	return r.prompts
}

// RegisterPrompts sets the example prompts for a tool name.
func (r *Registry) RegisterPrompts(name string, list []string) {
	r.prompts.Register(name, list)
}

// GetPrompts returns the prompts for name, or all prompts when name is empty.
func (r *Registry) GetPrompts(name string) map[string][]string {
	return r.prompts.Query(name)
}

// RegisterLocal registers a tool with a local execution handler.
// Registering an existing tool ID replaces it.
func (r *Registry) RegisterLocal(tool model.Tool, handler ToolHandler) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}
	if handler == nil {
		return fmt.Errorf("%w: handler is required for %s", ErrInvalidRequest, tool.ToolID())
	}

	id := tool.ToolID()
	r.mu.Lock()
	r.tools[id] = tool
	r.handlers[id] = handler
	r.mu.Unlock()

	return nil
}

// RegisterLocalFunc is a convenience for inline tool definition.
func (r *Registry) RegisterLocalFunc(
	name, description string,
	inputSchema map[string]any,
	handler ToolHandler,
	opts ...LocalToolOption,
) error {
	cfg := applyLocalToolOptions(opts)
	tool := buildLocalTool(name, description, inputSchema, cfg)
	if err := r.RegisterLocal(tool, handler); err != nil {
		return err
	}
	if cfg.hasPrompts {
		r.prompts.Register(tool.ToolID(), cfg.prompts)
	}

	logging.Debug().
		Add(logging.ToolName(tool.ToolID())).
		Add(logging.PromptCount(len(cfg.prompts))).
		Msg("registered local tool")
	return nil
}

// ListAll returns all registered tools ordered by ID.
func (r *Registry) ListAll(ctx context.Context) ([]model.Tool, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tools := make([]model.Tool, 0, len(ids))
	for _, id := range ids {
		tools = append(tools, r.tools[id])
	}
	r.mu.RUnlock()

	return tools, nil
}

// GetTool returns a tool by ID.
func (r *Registry) GetTool(ctx context.Context, id string) (model.Tool, error) {
	r.mu.RLock()
	tool, ok := r.tools[id]
	r.mu.RUnlock()
	if !ok {
		return model.Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}
	return tool, nil
}

// Execute runs a tool by ID with the given arguments.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	_, known := r.tools[name]
	handler, ok := r.handlers[name]
	r.mu.RUnlock()

	if !known {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, name)
	}

	start := time.Now()
	result, err := handler(ctx, args)
	if err != nil {
		logging.Error().
			Add(logging.ToolName(name)).
			Add(logging.ErrorField(err)).
			Add(logging.Duration(time.Since(start))).
			Msg("tool execution failed")
		return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}
	return result, nil
}

// RegistryStats returns registry statistics.
type RegistryStats struct {
	TotalTools       int
	ToolsWithPrompts int
	PromptNames      int
	TotalPrompts     int
}

// Stats returns registry statistics.
func (r *Registry) Stats() RegistryStats {
	all := r.prompts.All()

	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{
		TotalTools:  len(r.tools),
		PromptNames: len(all),
	}
	for name, list := range all {
		stats.TotalPrompts += len(list)
		if _, ok := r.tools[name]; ok {
			stats.ToolsWithPrompts++
		}
	}
	return stats
}

func (r *Registry) registerBuiltins() {
	getPrompts := buildLocalTool(
		GetPromptsTool,
		"Returns example prompts for a tool, or for every tool when name is omitted",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Tool name to look up",
				},
			},
		},
		localToolConfig{},
	)
	_ = r.RegisterLocal(getPrompts, func(ctx context.Context, args map[string]any) (any, error) {
		name, _ := args["name"].(string)
		return r.prompts.Query(name), nil
	})

	if r.searcher == nil {
		return
	}
	searchPrompts := buildLocalTool(
		SearchPromptsTool,
		"Finds example prompts matching a natural-language query",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
				"limit": map[string]any{"type": "integer"},
			},
			"required": []string{"query"},
		},
		localToolConfig{},
	)
	_ = r.RegisterLocal(searchPrompts, func(ctx context.Context, args map[string]any) (any, error) {
		query, _ := args["query"].(string)
		limit := 0
		switch v := args["limit"].(type) {
		case float64:
			limit = int(v)
		case int:
			limit = v
		}
		hits, err := r.searcher.Search(r.prompts, query, limit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"hits": hits}, nil
	})
}
