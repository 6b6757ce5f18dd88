// Command toolprompts serves example prompts for MCP tools.
//
// Run with: go run ./cmd/toolprompts serve --catalog prompts.yaml
package main

import (
	"fmt"
	"os"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
