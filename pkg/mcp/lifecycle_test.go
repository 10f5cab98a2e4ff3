package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/gomcp/internal/config"
	"github.com/richard-senior/gomcp/pkg/jsonrpc"
	"github.com/richard-senior/gomcp/pkg/mcperr"
	"github.com/richard-senior/gomcp/pkg/transport"
)

func testCapabilities() ServerCapabilities {
	return ServerCapabilities{
		Tools:     &ListChangedCapability{ListChanged: true},
		Resources: &ResourcesCapability{List: true, Read: true, Subscribe: true},
	}
}

// newConnectedPair spins up a Server and a Client over an in-memory
// transport pair and runs the Initialize handshake to completion
// (scenario S1).
func newConnectedPair(t *testing.T, opts ...Option) (*Server, *Client) {
	t.Helper()
	ctx := context.Background()
	clientT, serverT := transport.NewInMemoryPair()

	s := NewServer("test-server", "1.0.0", testCapabilities(), opts...)
	require.NoError(t, s.Start(ctx, serverT, nil))
	t.Cleanup(func() { _ = s.Stop() })

	c := NewClient("test-client", "1.0.0", opts...)
	require.NoError(t, c.Connect(ctx, clientT))
	t.Cleanup(func() { _ = c.Disconnect() })

	result, err := c.Initialize(ctx, ClientCapabilities{})
	require.Nil(t, err)
	require.Equal(t, LatestProtocolVersion, result.ProtocolVersion)
	return s, c
}

func TestInitialize_S1_NegotiatesCapabilitiesAndVersion(t *testing.T) {
	s, c := newConnectedPair(t)

	result := c.ServerCapabilities()
	assert.Equal(t, testCapabilities(), result)
	assert.Equal(t, "test-server", s.peer.name)
}

func TestInitialize_RejectsMismatchedProtocolVersion(t *testing.T) {
	ctx := context.Background()
	clientT, serverT := transport.NewInMemoryPair()

	s := NewServer("test-server", "1.0.0", testCapabilities())
	require.NoError(t, s.Start(ctx, serverT, nil))
	defer s.Stop()

	c := NewClient("test-client", "1.0.0")
	require.NoError(t, c.Connect(ctx, clientT))
	defer c.Disconnect()

	badParams := InitializeParams{ProtocolVersion: "1999-01-01", Capabilities: ClientCapabilities{}, ClientInfo: Implementation{Name: "bad"}}
	_, mErr := callTyped(ctx, c.peer, MethodInitialize, badParams)
	require.NotNil(t, mErr)
	assert.Equal(t, mcperr.CodeInvalidRequest, mErr.Code)
}

func TestInitialize_HookCanReject(t *testing.T) {
	ctx := context.Background()
	clientT, serverT := transport.NewInMemoryPair()

	s := NewServer("test-server", "1.0.0", testCapabilities())
	hook := func(Implementation, ClientCapabilities) *mcperr.Error {
		return mcperr.InvalidRequest("rejected by hook")
	}
	require.NoError(t, s.Start(ctx, serverT, hook))
	defer s.Stop()

	c := NewClient("test-client", "1.0.0")
	require.NoError(t, c.Connect(ctx, clientT))
	defer c.Disconnect()

	_, mErr := c.Initialize(ctx, ClientCapabilities{})
	require.NotNil(t, mErr)
	assert.False(t, s.isInitialized())
}

func TestInitialize_SecondAttemptFails(t *testing.T) {
	s, c := newConnectedPair(t)
	_, mErr := callTyped(context.Background(), c.peer, MethodInitialize, InitializeParams{
		ProtocolVersion: LatestProtocolVersion,
		ClientInfo:      Implementation{Name: "again"},
	})
	require.NotNil(t, mErr)
	assert.True(t, s.isInitialized())
}

func TestPing_RoundTrips(t *testing.T) {
	_, c := newConnectedPair(t)
	assert.Nil(t, c.Ping(context.Background()))
}

// TestStrictMode_S3_RejectsRequestBeforeInitialize matches scenario S3:
// a non-initialize request arriving before the handshake completes is
// refused with invalidRequest when strict mode is on.
func TestStrictMode_S3_RejectsRequestBeforeInitialize(t *testing.T) {
	ctx := context.Background()
	clientT, serverT := transport.NewInMemoryPair()

	strict := config.Default()
	strict.Strict = true

	s := NewServer("test-server", "1.0.0", testCapabilities(), WithConfiguration(strict))
	require.NoError(t, s.Start(ctx, serverT, nil))
	defer s.Stop()

	c := NewClient("test-client", "1.0.0", WithConfiguration(strict))
	require.NoError(t, c.Connect(ctx, clientT))
	defer c.Disconnect()

	// Ping is allowed through even before initialize.
	assert.Nil(t, c.Ping(ctx))

	_, mErr := callTyped(ctx, c.peer, MethodToolsList, ToolsListParams{})
	require.NotNil(t, mErr)
	assert.Equal(t, mcperr.CodeInvalidRequest, mErr.Code)
}

// TestDisconnect_S6_DrainsPendingCallers matches scenario S6: a caller
// blocked waiting on a response is released with an error the moment its
// own peer disconnects, rather than hanging forever.
func TestDisconnect_S6_DrainsPendingCallers(t *testing.T) {
	ctx := context.Background()
	clientT, serverT := transport.NewInMemoryPair()

	s := NewServer("test-server", "1.0.0", testCapabilities())
	require.NoError(t, s.Start(ctx, serverT, nil))
	defer s.Stop()

	c := NewClient("test-client", "1.0.0")
	require.NoError(t, c.Connect(ctx, clientT))

	// A pending entry that nothing will ever resolve over the wire: no
	// request is actually sent, so disconnect's drain is the only thing
	// that can ever resume it.
	id := jsonrpc.NewID()
	resultCh := make(chan *mcperr.Error, 1)
	c.peer.pending.Install(id, func(_ jsonrpc.Value, mErr *mcperr.Error) {
		resultCh <- mErr
	})

	require.NoError(t, c.Disconnect())

	select {
	case mErr := <-resultCh:
		require.NotNil(t, mErr)
		assert.Equal(t, mcperr.CodeInternal, mErr.Code)
		assert.Contains(t, mErr.Message, "disconnect")
	case <-time.After(2 * time.Second):
		t.Fatal("pending call did not resolve after client disconnect")
	}
}
