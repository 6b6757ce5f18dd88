package registry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/toolfoundation/model"

	"github.com/jonwraymond/toolprompts/prompts"
	"github.com/jonwraymond/toolprompts/search"
)

func newTestRegistry() *Registry {
	return New(Config{
		ServerInfo: ServerInfo{Name: "test", Version: "1.0.0"},
	})
}

func noopHandler(ctx context.Context, args map[string]any) (any, error) {
	return nil, nil
}

func TestNew(t *testing.T) {
	reg := New(Config{
		ServerInfo: ServerInfo{
			Name:    "test-server",
			Version: "1.0.0",
		},
	})

	if reg == nil {
		t.Fatal("expected non-nil registry")
	}
	if reg.config.ServerInfo.Name != "test-server" {
		t.Errorf("expected server name 'test-server', got %s", reg.config.ServerInfo.Name)
	}
	if reg.Prompts() == nil {
		t.Fatal("expected a default prompt registry")
	}
	if _, err := reg.GetTool(context.Background(), GetPromptsTool); err != nil {
		t.Errorf("expected built-in %s tool: %v", GetPromptsTool, err)
	}
	if _, err := reg.GetTool(context.Background(), SearchPromptsTool); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected no %s tool without a searcher, got %v", SearchPromptsTool, err)
	}
}

func TestNew_SharedPromptRegistry(t *testing.T) {
	shared := prompts.New()
	shared.Register("external", []string{"from catalog"})

	reg := New(Config{Prompts: shared})
	if reg.Prompts() != shared {
		t.Fatal("expected the configured prompt registry to be used")
	}
	if got := reg.GetPrompts("external"); !reflect.DeepEqual(got, map[string][]string{"external": {"from catalog"}}) {
		t.Errorf("GetPrompts(external) = %v", got)
	}
}

func TestRegisterLocal(t *testing.T) {
	reg := newTestRegistry()

	callCount := 0
	handler := func(ctx context.Context, args map[string]any) (any, error) {
		callCount++
		return map[string]any{"echo": args["message"]}, nil
	}

	err := reg.RegisterLocalFunc(
		"echo",
		"Echoes back input",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message": map[string]any{"type": "string"},
			},
		},
		handler,
		WithNamespace("test"),
		WithTags("echo", "utility"),
	)
	if err != nil {
		t.Fatalf("RegisterLocalFunc failed: %v", err)
	}

	result, err := reg.Execute(context.Background(), "test:echo", map[string]any{"message": "hello"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected handler to be called once, got %d", callCount)
	}

	resultMap, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("expected result to be map[string]any, got %T", result)
	}
	if resultMap["echo"] != "hello" {
		t.Errorf("expected echo='hello', got %v", resultMap["echo"])
	}
}

func TestRegisterLocal_NilHandler(t *testing.T) {
	reg := newTestRegistry()

	err := reg.RegisterLocalFunc("broken", "No handler", map[string]any{"type": "object"}, nil)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestWithPrompts(t *testing.T) {
	reg := newTestRegistry()

	examples := []string{"下载函数代码到 /tmp/foo", "获取函数 abc 的代码并展现文件结构"}
	err := reg.RegisterLocalFunc(
		"pull_function_code",
		"Downloads function code",
		map[string]any{"type": "object"},
		noopHandler,
		WithPrompts(examples...),
	)
	if err != nil {
		t.Fatalf("RegisterLocalFunc failed: %v", err)
	}

	want := map[string][]string{"pull_function_code": examples}
	if got := reg.GetPrompts("pull_function_code"); !reflect.DeepEqual(got, want) {
		t.Errorf("GetPrompts = %v, want %v", got, want)
	}
	if got := reg.GetPrompts("other_tool"); !reflect.DeepEqual(got, map[string][]string{"other_tool": {}}) {
		t.Errorf("GetPrompts(other_tool) = %v", got)
	}
}

func TestWithPrompts_UsesToolID(t *testing.T) {
	reg := newTestRegistry()

	_ = reg.RegisterLocalFunc("deploy", "Deploys", map[string]any{"type": "object"}, noopHandler,
		WithNamespace("vefaas"), WithPrompts("deploy my function"))

	if _, ok := reg.Prompts().Lookup("vefaas:deploy"); !ok {
		t.Error("expected prompts under the namespaced tool ID")
	}
}

func TestWithoutPrompts_RegistersNothing(t *testing.T) {
	reg := newTestRegistry()
	_ = reg.RegisterLocalFunc("plain", "Plain", map[string]any{"type": "object"}, noopHandler)

	if reg.Prompts().Len() != 0 {
		t.Errorf("expected no prompts, got %v", reg.Prompts().All())
	}
}

func TestExecute_NotFound(t *testing.T) {
	reg := newTestRegistry()

	_, err := reg.Execute(context.Background(), "missing", nil)
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound, got %v", err)
	}
}

func TestExecute_HandlerError(t *testing.T) {
	reg := newTestRegistry()
	_ = reg.RegisterLocalFunc("fail", "Fails", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("boom")
		})

	_, err := reg.Execute(context.Background(), "fail", nil)
	if !errors.Is(err, ErrExecutionFailed) {
		t.Errorf("expected ErrExecutionFailed, got %v", err)
	}
}

func TestGetPromptsTool(t *testing.T) {
	reg := newTestRegistry()
	reg.RegisterPrompts("a", []string{"x"})
	reg.RegisterPrompts("b", []string{"y", "z"})

	ctx := context.Background()

	one, err := reg.Execute(ctx, GetPromptsTool, map[string]any{"name": "b"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !reflect.DeepEqual(one, map[string][]string{"b": {"y", "z"}}) {
		t.Errorf("get_prompts(b) = %v", one)
	}

	all, err := reg.Execute(ctx, GetPromptsTool, map[string]any{})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	want := map[string][]string{"a": {"x"}, "b": {"y", "z"}}
	if !reflect.DeepEqual(all, want) {
		t.Errorf("get_prompts() = %v, want %v", all, want)
	}
}

func TestSearchPromptsTool(t *testing.T) {
	searcher := search.NewSearcher(search.Config{})
	defer func() { _ = searcher.Close() }()

	reg := New(Config{Searcher: searcher})
	reg.RegisterPrompts("list_regions", []string{"which regions are available"})
	reg.RegisterPrompts("deploy_function", []string{"deploy my application"})

	result, err := reg.Execute(context.Background(), SearchPromptsTool, map[string]any{"query": "regions", "limit": 5})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	hits := result.(map[string]any)["hits"].([]search.Hit)
	if len(hits) == 0 || hits[0].Tool != "list_regions" {
		t.Errorf("expected list_regions hit, got %+v", hits)
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	reg := New(Config{
		ServerInfo: ServerInfo{
			Name:    "test-server",
			Version: "1.0.0",
		},
	})

	resp := reg.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	})
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}

	resultMap, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("expected result to be map, got %T", resp.Result)
	}
	if resultMap["protocolVersion"] != model.MCPVersion {
		t.Errorf("expected protocolVersion %s, got %v", model.MCPVersion, resultMap["protocolVersion"])
	}

	capabilities := resultMap["capabilities"].(map[string]any)
	if _, ok := capabilities["prompts"]; !ok {
		t.Error("expected prompts capability")
	}

	serverInfo := resultMap["serverInfo"].(map[string]any)
	if serverInfo["name"] != "test-server" {
		t.Errorf("expected name 'test-server', got %v", serverInfo["name"])
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	reg := newTestRegistry()
	_ = reg.RegisterLocalFunc("echo", "Echoes input", map[string]any{"type": "object"}, noopHandler,
		WithPrompts("echo hello"))

	resp := reg.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/list",
	})
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}

	tools := resp.Result.(map[string]any)["tools"].([]map[string]any)
	byName := make(map[string]map[string]any, len(tools))
	for _, tool := range tools {
		byName[tool["name"].(string)] = tool
	}

	echo, ok := byName["echo"]
	if !ok {
		t.Fatalf("expected echo in %v", tools)
	}
	meta, ok := echo["_meta"].(map[string]any)
	if !ok {
		t.Fatalf("expected _meta on echo, got %v", echo)
	}
	if !reflect.DeepEqual(meta[ExamplePromptsMetaKey], []string{"echo hello"}) {
		t.Errorf("unexpected example prompts %v", meta[ExamplePromptsMetaKey])
	}

	if _, ok := byName[GetPromptsTool]["_meta"]; ok {
		t.Errorf("expected no _meta on %s", GetPromptsTool)
	}
}

func TestHandleRequest_ToolsCall(t *testing.T) {
	reg := newTestRegistry()
	_ = reg.RegisterLocalFunc("process", "Processes input", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			return map[string]any{"result": args["input"]}, nil
		})

	params, _ := json.Marshal(map[string]any{
		"name":      "process",
		"arguments": map[string]any{"input": "test"},
	})

	resp := reg.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}

	resultMap := resp.Result.(map[string]any)
	structured := resultMap["structuredContent"].(map[string]any)
	if structured["result"] != "test" {
		t.Errorf("expected result='test', got %v", structured["result"])
	}

	content := resultMap["content"].([]map[string]any)
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("expected one text content block, got %v", content)
	}
	if content[0]["text"] != `{"result":"test"}` {
		t.Errorf("unexpected text content %v", content[0]["text"])
	}
}

func TestHandleRequest_ToolsCall_NilResult(t *testing.T) {
	reg := newTestRegistry()
	_ = reg.RegisterLocalFunc("noop", "Does nothing", map[string]any{"type": "object"}, noopHandler)

	resp := reg.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"noop","arguments":{}}`),
	})
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}

	resultMap := resp.Result.(map[string]any)
	if _, ok := resultMap["structuredContent"]; ok {
		t.Error("expected no structuredContent for a nil result")
	}
	if content := resultMap["content"].([]map[string]any); content[0]["text"] != "null" {
		t.Errorf("unexpected content %v", content)
	}
}

func TestHandleRequest_Notification(t *testing.T) {
	reg := newTestRegistry()

	resp := reg.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	})
	if resp.Error != nil || resp.Result != nil {
		t.Errorf("expected empty response for notification, got %+v", resp)
	}

	req := MCPRequest{JSONRPC: "2.0", ID: 1, Method: "notifications/initialized"}
	if req.IsNotification() {
		t.Error("a request with an id is not a notification")
	}
}

func TestHandleRequest_ToolsCall_Errors(t *testing.T) {
	reg := newTestRegistry()
	_ = reg.RegisterLocalFunc("fail", "Fails", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("boom")
		})

	tests := []struct {
		name   string
		params string
		code   int
	}{
		{name: "unknown tool", params: `{"name":"missing","arguments":{}}`, code: ErrCodeToolNotFound},
		{name: "handler failure", params: `{"name":"fail","arguments":{}}`, code: ErrCodeToolExecFailed},
		{name: "bad params", params: `[1,2]`, code: ErrCodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := reg.HandleRequest(context.Background(), MCPRequest{
				JSONRPC: "2.0",
				ID:      1,
				Method:  "tools/call",
				Params:  json.RawMessage(tt.params),
			})
			if resp.Error == nil {
				t.Fatal("expected error response")
			}
			if resp.Error.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, resp.Error.Code)
			}
		})
	}
}

func TestHandleRequest_PromptsList(t *testing.T) {
	reg := newTestRegistry()
	reg.RegisterPrompts("zeta", []string{"z"})
	reg.RegisterPrompts("alpha", []string{"a"})

	resp := reg.HandleRequest(context.Background(), MCPRequest{JSONRPC: "2.0", ID: 1, Method: "prompts/list"})
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}

	list := resp.Result.(map[string]any)["prompts"].([]map[string]any)
	if len(list) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(list))
	}
	if list[0]["name"] != "alpha" || list[1]["name"] != "zeta" {
		t.Errorf("expected sorted prompt names, got %v", list)
	}
}

func TestHandleRequest_PromptsGet(t *testing.T) {
	reg := newTestRegistry()
	reg.RegisterPrompts("pull_function_code", []string{"下载函数代码到 /tmp/foo", "获取函数 abc 的代码并展现文件结构"})

	resp := reg.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "prompts/get",
		Params:  json.RawMessage(`{"name":"pull_function_code"}`),
	})
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}

	messages := resp.Result.(map[string]any)["messages"].([]map[string]any)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	content := messages[1]["content"].(map[string]any)
	if content["text"] != "获取函数 abc 的代码并展现文件结构" {
		t.Errorf("unexpected second message %v", content)
	}

	missing := reg.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      2,
		Method:  "prompts/get",
		Params:  json.RawMessage(`{"name":"other_tool"}`),
	})
	if missing.Error == nil || missing.Error.Code != ErrCodeInvalidParams {
		t.Errorf("expected invalid params error, got %+v", missing.Error)
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	reg := newTestRegistry()

	resp := reg.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "unknown/method",
	})
	if resp.Error == nil {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != ErrCodeMethodNotFound {
		t.Errorf("expected ErrCodeMethodNotFound, got %d", resp.Error.Code)
	}
}

func TestStats(t *testing.T) {
	reg := newTestRegistry()

	_ = reg.RegisterLocalFunc("tool1", "Tool 1", map[string]any{"type": "object"}, noopHandler, WithPrompts("a", "b"))
	_ = reg.RegisterLocalFunc("tool2", "Tool 2", map[string]any{"type": "object"}, noopHandler)
	reg.RegisterPrompts("remote_tool", []string{"c"})

	stats := reg.Stats()
	if stats.TotalTools != 3 {
		t.Errorf("expected 3 total tools (including %s), got %d", GetPromptsTool, stats.TotalTools)
	}
	if stats.ToolsWithPrompts != 1 {
		t.Errorf("expected 1 tool with prompts, got %d", stats.ToolsWithPrompts)
	}
	if stats.PromptNames != 2 {
		t.Errorf("expected 2 prompt names, got %d", stats.PromptNames)
	}
	if stats.TotalPrompts != 3 {
		t.Errorf("expected 3 prompts, got %d", stats.TotalPrompts)
	}
}

func TestWithVersion(t *testing.T) {
	reg := newTestRegistry()

	err := reg.RegisterLocalFunc("versioned", "Versioned tool", map[string]any{"type": "object"}, noopHandler,
		WithVersion("2.0.0"))
	if err != nil {
		t.Fatalf("RegisterLocalFunc failed: %v", err)
	}

	tool, err := reg.GetTool(context.Background(), "versioned")
	if err != nil {
		t.Fatalf("GetTool failed: %v", err)
	}
	if tool.Version != "2.0.0" {
		t.Errorf("expected version '2.0.0', got %s", tool.Version)
	}
}

func TestServe(t *testing.T) {
	reg := newTestRegistry()
	reg.RegisterPrompts("echo", []string{"echo hi"})

	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_prompts","arguments":{"name":"echo"}}}`,
		``,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{not json`,
	}, "\n"))
	var out bytes.Buffer

	if err := Serve(context.Background(), reg, in, &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	scanner := bufio.NewScanner(&out)
	var responses []MCPResponse
	for scanner.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("bad response line %q: %v", scanner.Text(), err)
		}
		responses = append(responses, resp)
	}

	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}
	if responses[0].Error != nil {
		t.Fatalf("unexpected error %v", responses[0].Error)
	}
	result := responses[0].Result.(map[string]any)["structuredContent"].(map[string]any)
	if list := result["echo"].([]any); len(list) != 1 || list[0] != "echo hi" {
		t.Errorf("unexpected result %v", result)
	}
	if responses[1].Error == nil || responses[1].Error.Code != ErrCodeParseError {
		t.Errorf("expected parse error, got %+v", responses[1])
	}
}

func TestServe_ContextCancelled(t *testing.T) {
	reg := newTestRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Serve(ctx, reg, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`+"\n"), &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestServe_CancelWhileIdle(t *testing.T) {
	reg := newTestRegistry()
	ctx, cancel := context.WithCancel(context.Background())

	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, reg, pr, &bytes.Buffer{})
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel while input was idle")
	}
}

func TestServeHTTP_Notification(t *testing.T) {
	srv := httptest.NewServer(ServeHTTP(newTestRegistry()))
	defer srv.Close()

	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	resp, err := http.Post(srv.URL, "application/json", body)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("expected 202, got %d", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if len(data) != 0 {
		t.Errorf("expected empty body, got %q", data)
	}
}

func TestServeHTTP(t *testing.T) {
	reg := newTestRegistry()
	_ = reg.RegisterLocalFunc("echo", "Echo", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			return args, nil
		})

	srv := httptest.NewServer(ServeHTTP(reg))
	defer srv.Close()

	body := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp, err := http.Post(srv.URL, "application/json", body)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var mcpResp MCPResponse
	if err := json.NewDecoder(resp.Body).Decode(&mcpResp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if mcpResp.Error != nil {
		t.Fatalf("expected no error, got %v", mcpResp.Error)
	}
	resultMap, ok := mcpResp.Result.(map[string]any)
	if !ok {
		t.Fatalf("expected result map, got %T", mcpResp.Result)
	}
	tools, ok := resultMap["tools"].([]any)
	if !ok || len(tools) == 0 {
		t.Fatal("expected at least one tool")
	}
}

func TestServeSSE(t *testing.T) {
	reg := newTestRegistry()
	reg.RegisterPrompts("echo", []string{"echo hi"})

	srv := httptest.NewServer(ServeSSE(reg))
	defer srv.Close()

	reqBody := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"prompts/list"}`)
	resp, err := http.Post(srv.URL, "application/json", reqBody)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	scanner := bufio.NewScanner(resp.Body)
	var dataLine string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			dataLine = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scanner failed: %v", err)
	}
	if dataLine == "" {
		t.Fatal("expected SSE data line")
	}

	var mcpResp MCPResponse
	if err := json.Unmarshal([]byte(dataLine), &mcpResp); err != nil {
		t.Fatalf("unmarshal SSE data failed: %v", err)
	}
	if mcpResp.Error != nil {
		t.Fatalf("expected no error, got %v", mcpResp.Error)
	}
	list, ok := mcpResp.Result.(map[string]any)["prompts"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("expected one prompt, got %v", mcpResp.Result)
	}
}

func TestServeHTTP_MethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(ServeHTTP(newTestRegistry()))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestServeHTTP_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(ServeHTTP(newTestRegistry()))
	defer srv.Close()

	body := bytes.NewBufferString(`{invalid json`)
	resp, err := http.Post(srv.URL, "application/json", body)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var mcpResp MCPResponse
	_ = json.NewDecoder(resp.Body).Decode(&mcpResp)
	if mcpResp.Error == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if mcpResp.Error.Code != ErrCodeParseError {
		t.Errorf("expected ErrCodeParseError, got %d", mcpResp.Error.Code)
	}
}
