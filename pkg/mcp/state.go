package mcp

import "sync/atomic"

// State is the peer lifecycle state machine (spec §3): Disconnected →
// Connected → Initialized → Disconnected.
type State int32

const (
	StateDisconnected State = iota
	StateConnected
	StateInitialized
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateInitialized:
		return "initialized"
	default:
		return "unknown"
	}
}

type stateBox struct {
	v atomic.Int32
}

func (b *stateBox) get() State {
	return State(b.v.Load())
}

func (b *stateBox) set(s State) {
	b.v.Store(int32(s))
}

func (b *stateBox) isInitialized() bool {
	return b.get() == StateInitialized
}
