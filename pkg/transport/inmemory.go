package transport

import "net"

// NewInMemoryPair returns two connected transports backed by net.Pipe,
// for hermetic tests that exercise a full client/server round trip without
// touching stdio or a real socket (grounded in the golang.org/x/tools MCP
// transport reference's net.Pipe-based NewLocalTransport, and in
// honganh1206-clue/mcp's buffer-backed mockTransport).
func NewInMemoryPair() (client Transport, server Transport) {
	a, b := net.Pipe()
	return NewNetTransport(a), NewNetTransport(b)
}
