package mcp

import (
	"context"
	"time"

	"github.com/richard-senior/gomcp/pkg/jsonrpc"
	"github.com/richard-senior/gomcp/pkg/mcperr"
	"github.com/richard-senior/gomcp/pkg/transport"
)

// InitHook runs after a client's Initialize params are validated but
// before the peer's state flips to Initialized (spec §4.2.1): "If it
// throws, the response is the hook's error and the peer remains
// uninitialized."
type InitHook func(Implementation, ClientCapabilities) *mcperr.Error

// Server is the tool/resource-provider role: it accepts one connection,
// answers requests through registered handlers, and fans out
// notifications (spec §2, §4.2).
type Server struct {
	*peer
	caps ServerCapabilities
	subs *SubscriptionTable
}

// NewServer constructs a Server advertising caps as its own capabilities.
func NewServer(name, version string, caps ServerCapabilities, opts ...Option) *Server {
	return &Server{peer: newPeer(name, version, opts...), caps: caps, subs: NewSubscriptionTable()}
}

// Subscriptions exposes the server's resources/subscribe bookkeeping
// (spec §6's SUPPLEMENTED FEATURES): a resources/subscribe handler
// registers a channel here, and whatever produces resource updates calls
// Publish to hand the updated Resource to each subscribed channel. Publish
// writes nothing to the wire; sending notifications/resource/updated to
// the client is done separately, e.g. with Notify.
func (s *Server) Subscriptions() *SubscriptionTable { return s.subs }

// Methods exposes the server's method registry for handler registration.
func (s *Server) Methods() *jsonrpc.MethodRegistry { return s.peer.methods }

// Notifications exposes the server's notification registry.
func (s *Server) Notifications() *jsonrpc.NotificationRegistry { return s.peer.notifications }

// ClientCapabilities returns the capabilities the connected client
// presented during Initialize.
func (s *Server) ClientCapabilities() ClientCapabilities { return s.peer.getClientCaps() }

// Start registers the default Initialize/Ping handlers, connects t, and
// spawns the receive task (spec §4.2: "(1) store the transport, (2)
// optionally register default handlers ..., (3) connect, (4) spawn").
// hook may be nil.
func (s *Server) Start(ctx context.Context, t transport.Transport, hook InitHook) error {
	jsonrpc.RegisterMethod(s.peer.methods, MethodInitialize, s.defaultInitializeHandler(hook))
	jsonrpc.RegisterMethod(s.peer.methods, MethodPing, func(jsonrpc.Empty) (jsonrpc.Empty, *mcperr.Error) {
		return jsonrpc.Empty{}, nil
	})
	return s.peer.attach(ctx, t)
}

// Stop cancels the receive task, drains the pending table, and releases
// the transport.
func (s *Server) Stop() error {
	return s.peer.disconnect("Server is shutting down")
}

// defaultInitializeHandler implements spec §4.2.1's default Initialize
// behavior: reject if already initialized, reject a mismatched protocol
// version, run the optional hook, store client info/capabilities, return
// this server's own capabilities, and schedule notifications/initialized
// roughly 100ms later.
func (s *Server) defaultInitializeHandler(hook InitHook) func(InitializeParams) (InitializeResult, *mcperr.Error) {
	return func(params InitializeParams) (InitializeResult, *mcperr.Error) {
		if s.isInitialized() {
			return InitializeResult{}, mcperr.InvalidRequest("Server is already initialized")
		}
		if params.ProtocolVersion != LatestProtocolVersion {
			return InitializeResult{}, mcperr.InvalidRequest("unsupported protocol version: " + params.ProtocolVersion)
		}
		if hook != nil {
			if err := hook(params.ClientInfo, params.Capabilities); err != nil {
				return InitializeResult{}, err
			}
		}

		s.setClientInfo(params.ClientInfo, params.Capabilities)
		s.setServerInfo(Implementation{Name: s.name, Version: s.version}, s.caps)
		s.setInitialized()

		go func() {
			time.Sleep(100 * time.Millisecond)
			if err := s.notify(NotificationInitialized.Name, jsonrpc.EmptyObject(), true); err != nil {
				s.log.Warnf("mcp: failed to send notifications/initialized: %v", err)
			}
		}()

		return InitializeResult{
			ProtocolVersion: LatestProtocolVersion,
			Capabilities:    s.caps,
			ServerInfo:      Implementation{Name: s.name, Version: s.version},
		}, nil
	}
}

// Notify sends a server-to-client notification by name with no expectation
// of a reply, e.g. notifications/tools/list_changed after the server's tool
// set changes.
func (s *Server) Notify(name string, params jsonrpc.Value, omitParams bool) error {
	return s.peer.notify(name, params, omitParams)
}
