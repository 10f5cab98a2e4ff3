// Package transport defines the abstract duplex byte channel a peer runs
// over, plus the three conforming implementations spec.md names at the
// boundary: line-delimited stdio, framed network connections, and
// HTTP+SSE (pkg/transport/sse).
package transport

import (
	"context"
	"errors"
)

// ErrTemporarilyUnavailable is yielded by Receive's error channel when the
// underlying read would have blocked (EAGAIN/EWOULDBLOCK on a non-blocking
// fd). The peer runtime treats it as "sleep 10ms and keep reading" rather
// than a fatal transport failure (spec §4.2).
var ErrTemporarilyUnavailable = errors.New("transport: resource temporarily unavailable")

// Transport is the abstract duplex byte channel a peer owns exclusively
// for its lifetime (spec §4.5, §5). Framing — deciding where one JSON
// frame ends and the next begins — is the transport's responsibility, not
// the codec's.
type Transport interface {
	// Connect establishes the underlying channel. It must be safe to call
	// exactly once per Transport value.
	Connect(ctx context.Context) error

	// Disconnect tears the channel down. Receive's channels are closed
	// as part of this call.
	Disconnect() error

	// Send writes exactly one frame. Concurrent calls to Send are not
	// required to be safe; the peer actor serializes its own sends.
	Send(frame []byte) error

	// Receive returns two channels: one yielding exactly one decoded
	// frame's bytes per element, the other yielding transport-level
	// errors. Both are closed when the transport shuts down.
	Receive() (<-chan []byte, <-chan error)
}
