package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/gomcp/pkg/jsonrpc"
	"github.com/richard-senior/gomcp/pkg/mcperr"
)

// TestDispatch_S5_UnknownMethodReturnsMethodNotFound matches scenario S5's
// request-side case: a request naming an unregistered method gets
// methodNotFound back, not a hang or a dropped frame.
func TestDispatch_S5_UnknownMethodReturnsMethodNotFound(t *testing.T) {
	_, c := newConnectedPair(t)
	_, err := callTyped(context.Background(), c.peer, MethodToolsCall, ToolsCallParams{Name: "echo"})
	require.NotNil(t, err)
	assert.Equal(t, mcperr.CodeMethodNotFound, err.Code)
}

// TestDispatch_S5_ResponseForUnknownIDIsLoggedNotFatal matches scenario
// S5's response-side case: a stray response frame referencing an ID the
// pending table never installed is logged and dropped, and does not
// disturb the peer's ability to keep dispatching.
func TestDispatch_S5_ResponseForUnknownIDIsLoggedNotFatal(t *testing.T) {
	_, c := newConnectedPair(t)

	stray, err := jsonrpc.EncodeResponse(jsonrpc.NewStringID("never-installed"), jsonrpc.EmptyObject(), nil)
	require.NoError(t, err)
	require.NoError(t, c.peer.transport.Send(stray))

	// The peer is still alive and able to dispatch a real request after
	// swallowing the stray frame.
	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, c.Ping(context.Background()))
}

// TestDispatch_HandlerPanicBecomesInternalErrorResponse matches spec §7:
// a panicking request handler must not kill the receive loop, only turn
// into an internalError response for that one call.
func TestDispatch_HandlerPanicBecomesInternalErrorResponse(t *testing.T) {
	s, c := newConnectedPairWithTool(t)
	jsonrpc.RegisterMethod(s.Methods(), MethodToolsList, func(ToolsListParams) (ToolsListResult, *mcperr.Error) {
		panic("boom")
	})

	_, err := c.ListTools(context.Background(), ToolsListParams{})
	require.NotNil(t, err)
	assert.Equal(t, mcperr.CodeInternal, err.Code)
	assert.Contains(t, err.Message, "boom")

	// The receive loop survived: a later call still round-trips.
	assert.Nil(t, c.Ping(context.Background()))
}

func TestDispatch_UnparseableFrameIsDropped(t *testing.T) {
	_, c := newConnectedPair(t)
	require.NoError(t, c.peer.transport.Send([]byte("not json at all")))

	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, c.Ping(context.Background()))
}
