// Package mcp implements the MCP peer runtime: the concurrent
// message-dispatch core shared by Client and Server, plus the Tools,
// Resources, Prompts, and lifecycle schemas named at the protocol boundary.
package mcp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/richard-senior/gomcp/internal/config"
	"github.com/richard-senior/gomcp/internal/logger"
	"github.com/richard-senior/gomcp/pkg/jsonrpc"
	"github.com/richard-senior/gomcp/pkg/mcperr"
	"github.com/richard-senior/gomcp/pkg/mcpmetrics"
	"github.com/richard-senior/gomcp/pkg/transport"
)

// peer is the shared actor both Client and Server embed (spec §2, §4.2,
// §5): it owns the transport, the receive loop, the registries, and the
// pending-request table. Transport writes made through send() are
// serialized on the run() goroutine via submit(), which enqueues a closure
// onto the actor's mailbox and blocks until it has run. The registries and
// the pending table guard themselves with their own mutexes, capabilities
// and peer info sit behind capMu, and the lifecycle state is an atomic;
// these are read and written directly from caller and handler goroutines.
//
// Request and notification handlers are invoked on goroutines spawned by
// run(), never inline on the actor goroutine itself (spec §9: "handlers
// are spawned as independent tasks only if the implementation chooses").
// This keeps long-running handler work from blocking dispatch of the next
// frame, and lets a handler safely call back into the peer's public API
// (e.g. to send a request of its own) without deadlocking the actor.
type peer struct {
	name    string
	version string

	log     logger.Logger
	cfg     config.Configuration
	metrics *mcpmetrics.Registry

	transport     transport.Transport
	methods       *jsonrpc.MethodRegistry
	notifications *jsonrpc.NotificationRegistry
	pending       *jsonrpc.PendingTable

	state stateBox

	mailbox chan func()
	done    chan struct{}
	closeOnce sync.Once

	capMu      sync.RWMutex
	clientCaps ClientCapabilities
	serverCaps ServerCapabilities
	clientInfo Implementation
	serverInfo Implementation
}

// Option configures a peer at construction time.
type Option func(*peer)

func WithLogger(l logger.Logger) Option {
	return func(p *peer) { p.log = l }
}

func WithConfiguration(cfg config.Configuration) Option {
	return func(p *peer) { p.cfg = cfg }
}

func WithMetrics(m *mcpmetrics.Registry) Option {
	return func(p *peer) { p.metrics = m }
}

func newPeer(name, version string, opts ...Option) *peer {
	p := &peer{
		name:          name,
		version:       version,
		log:           logger.Default(),
		cfg:           config.Default(),
		metrics:       mcpmetrics.Noop(),
		methods:       jsonrpc.NewMethodRegistry(),
		notifications: jsonrpc.NewNotificationRegistry(),
		pending:       jsonrpc.NewPendingTable(),
		mailbox:       make(chan func()),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// attach connects t and starts the actor loop. Called by Client.Connect
// and Server.Start (spec §4.2: "store the transport ... call
// transport.connect() ... spawn the receive task").
func (p *peer) attach(ctx context.Context, t transport.Transport) error {
	if err := t.Connect(ctx); err != nil {
		return err
	}
	p.transport = t
	p.state.set(StateConnected)
	go p.run()
	return nil
}

func (p *peer) run() {
	msgCh, errCh := p.transport.Receive()
	for {
		select {
		case raw, ok := <-msgCh:
			if !ok {
				return
			}
			p.handleFrame(raw)
		case err, ok := <-errCh:
			if !ok {
				continue
			}
			if errors.Is(err, transport.ErrTemporarilyUnavailable) {
				time.Sleep(10 * time.Millisecond)
				continue
			}
			p.log.Errorf("mcp: receive loop terminating: %v", err)
			return
		case fn := <-p.mailbox:
			fn()
		case <-p.done:
			return
		}
	}
}

// submit runs fn on the actor goroutine and blocks until it completes.
func (p *peer) submit(fn func()) {
	reply := make(chan struct{})
	select {
	case p.mailbox <- func() { fn(); close(reply) }:
	case <-p.done:
		return
	}
	select {
	case <-reply:
	case <-p.done:
	}
}

// send writes frame through the transport. It is routed through submit so
// writes are serialized relative to the actor's own bookkeeping, matching
// spec §5's "requests on the outbound side ... are written to the
// transport serially."
func (p *peer) send(frame []byte) error {
	var err error
	p.submit(func() {
		err = p.transport.Send(frame)
	})
	return err
}

func (p *peer) isInitialized() bool {
	return p.state.get() == StateInitialized
}

func (p *peer) setInitialized() {
	p.state.set(StateInitialized)
}

func (p *peer) setClientInfo(info Implementation, caps ClientCapabilities) {
	p.capMu.Lock()
	defer p.capMu.Unlock()
	p.clientInfo = info
	p.clientCaps = caps
}

func (p *peer) setServerInfo(info Implementation, caps ServerCapabilities) {
	p.capMu.Lock()
	defer p.capMu.Unlock()
	p.serverInfo = info
	p.serverCaps = caps
}

func (p *peer) getServerCaps() ServerCapabilities {
	p.capMu.RLock()
	defer p.capMu.RUnlock()
	return p.serverCaps
}

func (p *peer) getClientCaps() ClientCapabilities {
	p.capMu.RLock()
	defer p.capMu.RUnlock()
	return p.clientCaps
}

// disconnect cancels the receive task, drains the pending table (resuming
// every awaiter with internalError), and releases the transport (spec
// §4.2 "Cancellation").
func (p *peer) disconnect(reason string) error {
	// Drain before closing done: every waiter's resultCh holds its
	// internalError before p.done closes, and callTyped's p.done branch
	// takes a buffered result in preference to connectionClosed, so a
	// waiter pending at disconnect always gets internalError.
	p.pending.Drain(mcperr.InternalError(reason))
	p.closeOnce.Do(func() {
		close(p.done)
	})
	p.state.set(StateDisconnected)
	if p.transport == nil {
		return nil
	}
	return p.transport.Disconnect()
}

// notify sends a notification with no expectation of a reply.
func (p *peer) notify(name string, params jsonrpc.Value, omitParams bool) error {
	raw, err := jsonrpc.EncodeNotification(name, params, omitParams)
	if err != nil {
		return err
	}
	return p.send(raw)
}

// callTyped sends a typed request and waits for its typed result,
// matching invariant 1/2 (pending entry installed before send, removed
// exactly once on resume).
func callTyped[P any, R any](ctx context.Context, p *peer, m jsonrpc.Method[P, R], params P) (R, *mcperr.Error) {
	var zero R
	if !p.stateAllowsSend() {
		return zero, mcperr.InternalError("peer is not initialized")
	}

	id := jsonrpc.NewID()
	req := jsonrpc.Request[P]{ID: id, Method: m.Name, Params: params}
	raw, err := req.MarshalJSON()
	if err != nil {
		return zero, mcperr.InternalError(err.Error())
	}

	resultCh := make(chan jsonrpc.ResolvedResponse, 1)
	p.pending.Install(id, func(result jsonrpc.Value, mErr *mcperr.Error) {
		resultCh <- jsonrpc.ResolvedResponse{ID: id, Result: result, Err: mErr}
	})

	if err := p.send(raw); err != nil {
		p.pending.Remove(id)
		return zero, mcperr.InternalError(err.Error())
	}

	var resolved jsonrpc.ResolvedResponse
	select {
	case resolved = <-resultCh:
	case <-ctx.Done():
		return zero, mcperr.InternalError(ctx.Err().Error())
	case <-p.done:
		select {
		case resolved = <-resultCh:
		default:
			return zero, mcperr.ConnectionClosed("Client disconnected")
		}
	}
	if resolved.Err != nil {
		return zero, resolved.Err
	}
	if err := resolved.Result.Decode(&zero); err != nil {
		return zero, mcperr.InternalError(err.Error())
	}
	return zero, nil
}

// stateAllowsSend matches spec §4.2's post-disconnect rule: "further send
// operations fail with internalError(...not initialized)." Only the
// Disconnected state blocks a send; any call may go out once connected,
// before Initialize as well as after.
func (p *peer) stateAllowsSend() bool {
	return p.state.get() != StateDisconnected
}
