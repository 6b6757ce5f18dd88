package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/toolfoundation/model"

	"github.com/jonwraymond/toolprompts/logging"
)

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *MCPError `json:"error,omitempty"`
}

// MCPError is a JSON-RPC error object.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// IsNotification reports whether req is a JSON-RPC notification,
// which must not be answered.
func (req MCPRequest) IsNotification() bool {
	return req.ID == nil && strings.HasPrefix(req.Method, "notifications/")
}

// ExamplePromptsMetaKey is the tools/list _meta key carrying example prompts.
const ExamplePromptsMetaKey = "examplePrompts"

// HandleRequest processes an MCP request and returns a response.
// Notifications yield a zero MCPResponse; transports send nothing for them.
func (r *Registry) HandleRequest(ctx context.Context, req MCPRequest) MCPResponse {
	logging.Debug().Add(logging.Method(req.Method)).Msg("handling request")

	if req.IsNotification() {
		return MCPResponse{}
	}

	switch req.Method {
	case "initialize":
		return r.handleInitialize(ctx, req.ID)
	case "tools/list":
		return r.handleToolsList(ctx, req.ID)
	case "tools/call":
		return r.handleToolsCall(ctx, req.ID, req.Params)
	case "prompts/list":
		return r.handlePromptsList(ctx, req.ID)
	case "prompts/get":
		return r.handlePromptsGet(ctx, req.ID, req.Params)
	default:
		return errorResponse(req.ID, ErrCodeMethodNotFound, fmt.Sprintf("method %s not found", req.Method))
	}
}

func (r *Registry) handleInitialize(ctx context.Context, id any) MCPResponse {
	return resultResponse(id, map[string]any{
		"protocolVersion": model.MCPVersion,
		"capabilities": map[string]any{
			"tools":   map[string]any{},
			"prompts": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    r.config.ServerInfo.Name,
			"version": r.config.ServerInfo.Version,
		},
	})
}

func (r *Registry) handleToolsList(ctx context.Context, id any) MCPResponse {
	tools, err := r.ListAll(ctx)
	if err != nil {
		return errorResponse(id, ErrCodeInternal, err.Error())
	}

	mcpTools := make([]map[string]any, 0, len(tools))
	for _, tool := range tools {
		mcpTool := map[string]any{
			"name":        tool.ToolID(),
			"description": tool.Description,
			"inputSchema": tool.InputSchema,
		}
		if list, ok := r.prompts.Lookup(tool.ToolID()); ok {
			mcpTool["_meta"] = map[string]any{ExamplePromptsMetaKey: list}
		}
		mcpTools = append(mcpTools, mcpTool)
	}

	return resultResponse(id, map[string]any{"tools": mcpTools})
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (r *Registry) handleToolsCall(ctx context.Context, id any, params json.RawMessage) MCPResponse {
	var callParams toolsCallParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return errorResponse(id, ErrCodeInvalidParams, err.Error())
	}

	result, err := r.Execute(ctx, callParams.Name, callParams.Arguments)
	if err != nil {
		code := ErrCodeToolExecFailed
		if errors.Is(err, ErrToolNotFound) {
			code = ErrCodeToolNotFound
		}
		return errorResponse(id, code, err.Error())
	}

	text, err := json.Marshal(result)
	if err != nil {
		return errorResponse(id, ErrCodeInternal, fmt.Sprintf("failed to encode result: %v", err))
	}
	callResult := map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": string(text)},
		},
	}
	if result != nil {
		callResult["structuredContent"] = result
	}
	return resultResponse(id, callResult)
}

func (r *Registry) handlePromptsList(ctx context.Context, id any) MCPResponse {
	names := r.prompts.Names()
	list := make([]map[string]any, 0, len(names))
	for _, name := range names {
		list = append(list, map[string]any{
			"name":        name,
			"description": promptDescription(name),
		})
	}
	return resultResponse(id, map[string]any{"prompts": list})
}

type promptsGetParams struct {
	Name string `json:"name"`
}

func (r *Registry) handlePromptsGet(ctx context.Context, id any, params json.RawMessage) MCPResponse {
	var getParams promptsGetParams
	if err := json.Unmarshal(params, &getParams); err != nil {
		return errorResponse(id, ErrCodeInvalidParams, err.Error())
	}

	list, ok := r.prompts.Lookup(getParams.Name)
	if !ok {
		return errorResponse(id, ErrCodeInvalidParams, fmt.Sprintf("%v: %s", ErrPromptNotFound, getParams.Name))
	}

	messages := make([]map[string]any, 0, len(list))
	for _, text := range list {
		messages = append(messages, map[string]any{
			"role": "user",
			"content": map[string]any{
				"type": "text",
				"text": text,
			},
		})
	}

	return resultResponse(id, map[string]any{
		"description": promptDescription(getParams.Name),
		"messages":    messages,
	})
}

func promptDescription(name string) string {
	return "Example prompts for the " + name + " tool"
}

func resultResponse(id any, result any) MCPResponse {
	return MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

func errorResponse(id any, code int, message string) MCPResponse {
	return MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
		},
	}
}
