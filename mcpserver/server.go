package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/toolprompts/logging"
	"github.com/jonwraymond/toolprompts/prompts"
	"github.com/jonwraymond/toolprompts/search"
)

// ErrPromptNotFound is returned when a prompt is requested for an unknown tool.
var ErrPromptNotFound = errors.New("prompt not found")

// Options configures a Server.
type Options struct {
	// Searcher enables the search_prompts tool.
	Searcher *search.Searcher
	// Instructions are sent to clients on initialize.
	Instructions string
}

// GetPromptsInput is the argument of the get_prompts tool.
type GetPromptsInput struct {
	Name string `json:"name,omitempty" jsonschema:"tool name to look up; omit to list every tool"`
}

// GetPromptsOutput is the result of the get_prompts tool.
type GetPromptsOutput struct {
	Prompts map[string][]string `json:"prompts"`
}

// SearchPromptsInput is the argument of the search_prompts tool.
type SearchPromptsInput struct {
	Query string `json:"query" jsonschema:"natural-language request to match against example prompts"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of hits"`
}

// SearchPromptsOutput is the result of the search_prompts tool.
type SearchPromptsOutput struct {
	Hits []search.Hit `json:"hits"`
}

// Server binds a prompt registry to an *mcp.Server.
type Server struct {
	server   *mcp.Server
	prompts  *prompts.Registry
	searcher *search.Searcher

	mu    sync.Mutex
	bound map[string]struct{}
}

// New creates a Server and binds the prompts currently in reg.
func New(impl *mcp.Implementation, reg *prompts.Registry, opts Options) *Server {
	var serverOpts *mcp.ServerOptions
	if opts.Instructions != "" {
		serverOpts = &mcp.ServerOptions{Instructions: opts.Instructions}
	}

	s := &Server{
		server:   mcp.NewServer(impl, serverOpts),
		prompts:  reg,
		searcher: opts.Searcher,
		bound:    make(map[string]struct{}),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_prompts",
		Description: "Returns example prompts for a tool, or for every tool when name is omitted",
	}, s.getPrompts)

	if s.searcher != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search_prompts",
			Description: "Finds example prompts matching a natural-language query",
		}, s.searchPrompts)
	}

	s.Sync()
	return s
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Sync adds an MCP prompt for every registered tool name and removes the
// prompts of names that are gone.
func (s *Server) Sync() {
	names := s.prompts.Names()

	s.mu.Lock()
	defer s.mu.Unlock()

	current := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		current[name] = struct{}{}
		if _, ok := s.bound[name]; ok {
			continue
		}
		s.server.AddPrompt(&mcp.Prompt{
			Name:        name,
			Description: promptDescription(name),
		}, s.promptHandler(name))
	}

	var stale []string
	for name := range s.bound {
		if _, ok := current[name]; !ok {
			stale = append(stale, name)
		}
	}
	if len(stale) > 0 {
		s.server.RemovePrompts(stale...)
	}
	s.bound = current

	logging.Debug().
		Add(logging.Component("mcpserver")).
		Add(logging.ToolCount(len(names))).
		Add(logging.Int("removed", len(stale))).
		Msg("prompts synced")
}

// Run serves the MCP server over transport until ctx is done or the
// client disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

// HTTPHandler returns a streamable HTTP handler for the server.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

func (s *Server) getPrompts(ctx context.Context, req *mcp.CallToolRequest, in GetPromptsInput) (*mcp.CallToolResult, GetPromptsOutput, error) {
	return nil, GetPromptsOutput{Prompts: s.prompts.Query(in.Name)}, nil
}

func (s *Server) searchPrompts(ctx context.Context, req *mcp.CallToolRequest, in SearchPromptsInput) (*mcp.CallToolResult, SearchPromptsOutput, error) {
	hits, err := s.searcher.Search(s.prompts, in.Query, in.Limit)
	if err != nil {
		return nil, SearchPromptsOutput{}, err
	}
	return nil, SearchPromptsOutput{Hits: hits}, nil
}

func (s *Server) promptHandler(name string) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		list, ok := s.prompts.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPromptNotFound, name)
		}

		messages := make([]*mcp.PromptMessage, 0, len(list))
		for _, text := range list {
			messages = append(messages, &mcp.PromptMessage{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			})
		}
		return &mcp.GetPromptResult{
			Description: promptDescription(name),
			Messages:    messages,
		}, nil
	}
}

func promptDescription(name string) string {
	return "Example prompts for the " + name + " tool"
}
