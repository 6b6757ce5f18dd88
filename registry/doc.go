// Package registry provides an MCP server whose tools carry example prompts.
//
// Registry combines toolfoundation/model tools, their local handlers, and a
// prompts.Registry of example invocations into one MCP endpoint.
//
// Features:
//   - Local tool registration with handlers and example prompts
//   - Example prompts advertised in tools/list (_meta.examplePrompts)
//   - Every tool's examples exposed as an MCP prompt (prompts/list, prompts/get)
//   - A built-in get_prompts tool, plus search_prompts when a searcher is set
//   - Multiple transports (stdio, HTTP, SSE)
//
// Example usage:
//
//	reg := registry.New(registry.Config{
//	    ServerInfo: registry.ServerInfo{
//	        Name:    "vefaas",
//	        Version: "1.0.0",
//	    },
//	})
//
//	reg.RegisterLocalFunc(
//	    "pull_function_code",
//	    "Downloads a function's code",
//	    map[string]any{"type": "object"},
//	    pullFunctionCode,
//	    registry.WithPrompts(
//	        "下载函数代码到 /tmp/foo",
//	        "获取函数 abc 的代码并展现文件结构",
//	    ),
//	)
//
//	registry.ServeStdio(ctx, reg)
package registry
