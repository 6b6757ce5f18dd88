// Package mcpserver exposes a prompts.Registry through the official MCP Go SDK.
//
// The server carries:
//   - a get_prompts tool returning {name: prompts} or every entry
//   - a search_prompts tool when Options.Searcher is set
//   - one MCP prompt per registered tool name whose messages are the examples
//
// Prompts registered after New (for example by a catalog reload) become
// visible after Sync.
//
//	srv := mcpserver.New(&mcp.Implementation{Name: "vefaas", Version: "1.0.0"}, reg, mcpserver.Options{})
//	err := srv.Run(ctx, &mcp.StdioTransport{})
package mcpserver
