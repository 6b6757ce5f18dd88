// Package prompts maps tool names to example prompt strings.
//
// Example prompts are natural-language invocations ("pull the code of function
// abc into /tmp/foo") that an MCP server advertises next to its tools so clients
// and users can see how a tool is meant to be called. The registry does not
// interpret them.
//
// # Registration
//
// Register sets or replaces the prompts for a tool name. The last write wins;
// lists are never merged:
//
//	reg := prompts.New()
//	reg.Register("pull_function_code", []string{
//		"下载函数代码到 /tmp/foo",
//		"获取函数 abc 的代码并展现文件结构",
//	})
//
// To keep the prompts next to the tool's definition, wrap the function with
// Decorate (or RegisterFor). The function is returned unchanged:
//
//	var pullFunctionCode = prompts.Decorate(reg, "pull_function_code",
//		[]string{"下载函数代码到 /tmp/foo"},
//		func(ctx context.Context, id, dest string) error { ... },
//	)
//
// # Queries
//
// Get returns a single-entry map for a name, with an empty slice for names that
// were never registered. All returns a copy of every entry. Query combines both
// behind one entry point: an empty name means "all".
//
// # Thread Safety
//
// Registry is safe for concurrent use. Lists are copied on write and on read, so
// callers may mutate what they passed in or got back.
package prompts
