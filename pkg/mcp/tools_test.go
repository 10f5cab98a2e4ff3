package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/gomcp/pkg/jsonrpc"
	"github.com/richard-senior/gomcp/pkg/mcperr"
)

// TestToolCall_S2_RoundTrips matches scenario S2: listing and calling a
// registered tool over a real transport pair.
func TestToolCall_S2_RoundTrips(t *testing.T) {
	_, c := newConnectedPairWithTool(t)
	ctx := context.Background()

	listed, err := c.ListTools(ctx, ToolsListParams{})
	require.Nil(t, err)
	require.Len(t, listed.Tools, 1)
	assert.Equal(t, "echo", listed.Tools[0].Name)

	result, err := c.CallTool(ctx, ToolsCallParams{Name: "echo", Arguments: map[string]any{"text": "hi"}})
	require.Nil(t, err)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "hi", result.Content[0].Text)
}

func TestToolCall_UnknownNameReturnsMethodSpecificError(t *testing.T) {
	_, c := newConnectedPairWithTool(t)
	_, err := c.CallTool(context.Background(), ToolsCallParams{Name: "missing"})
	require.NotNil(t, err)
	assert.Equal(t, mcperr.CodeInvalidParams, err.Code)
}

func TestToolContent_UnmarshalRejectsUnknownType(t *testing.T) {
	v, encErr := jsonrpc.ValueOf(map[string]any{"type": "bogus"})
	require.NoError(t, encErr)
	raw, err := v.MarshalJSON()
	require.NoError(t, err)

	var c ToolContent
	assert.Error(t, c.UnmarshalJSON(raw))
}

func TestToolContent_Constructors(t *testing.T) {
	text := TextContent("hi")
	assert.Equal(t, ContentTypeText, text.Type)

	img := ImageContent("base64data", "image/png")
	assert.Equal(t, ContentTypeImage, img.Type)
	assert.Equal(t, "image/png", img.MimeType)

	res := ResourceContent("gomcp://x", "text/plain", "body")
	assert.Equal(t, ContentTypeResource, res.Type)
}

// TestGate_StrictModeRejectsMissingCapabilityLocally exercises Client.gate
// directly: a strict client never round-trips a call for a capability the
// server didn't advertise.
func TestGate_StrictModeRejectsMissingCapabilityLocally(t *testing.T) {
	_, c := newConnectedPair(t) // no prompts capability advertised
	c.cfg.Strict = true

	_, err := c.ListPrompts(context.Background(), PromptsListParams{})
	require.NotNil(t, err)
	assert.Equal(t, mcperr.CodeMethodNotFound, err.Code)
}

func TestGate_LenientModeLetsCallThrough(t *testing.T) {
	_, c := newConnectedPair(t)
	c.cfg.Strict = false

	// No prompts handler registered server-side, so the round trip itself
	// returns methodNotFound from the server, not a local short-circuit.
	_, err := c.ListPrompts(context.Background(), PromptsListParams{})
	require.NotNil(t, err)
	assert.Equal(t, mcperr.CodeMethodNotFound, err.Code)
}

func newConnectedPairWithTool(t *testing.T) (*Server, *Client) {
	t.Helper()
	s, c := newConnectedPair(t)
	jsonrpc.RegisterMethod(s.Methods(), MethodToolsList, func(ToolsListParams) (ToolsListResult, *mcperr.Error) {
		return ToolsListResult{Tools: []Tool{{Name: "echo", Description: "echoes text"}}}, nil
	})
	jsonrpc.RegisterMethod(s.Methods(), MethodToolsCall, func(p ToolsCallParams) (ToolsCallResult, *mcperr.Error) {
		if p.Name != "echo" {
			return ToolsCallResult{}, mcperr.InvalidParams("no such tool: " + p.Name)
		}
		text, _ := p.Arguments["text"].(string)
		return ToolsCallResult{Content: []ToolContent{TextContent(text)}}, nil
	})
	return s, c
}
