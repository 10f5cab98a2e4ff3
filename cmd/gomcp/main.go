// Command gomcp is an example binary exercising the library end to end:
// `gomcp serve` runs a demo MCP server over stdio, net, or HTTP+SSE;
// `gomcp call` drives one as a client. Per spec.md §1 these examples are
// themselves out of scope for detailed specification, but the teacher
// ships its own cmd/mcp binary the same way.
package main

import (
	"os"

	"github.com/richard-senior/gomcp/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error("gomcp: %v", err)
		os.Exit(1)
	}
}
