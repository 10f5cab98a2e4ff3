package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/richard-senior/gomcp/pkg/jsonrpc"
)

// Tool describes one callable tool: a stable name, a human description,
// and a JSON Schema for its arguments. The schema is carried as raw JSON
// (json.RawMessage) since its shape is caller-defined (spec §1: business logic behind
// a tool is out of scope for the core).
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ToolContent is the tagged union a tool result's content array holds:
// text, image, or an embedded resource reference (spec §6). An unknown
// "type" discriminator is a decode error, not a silently-ignored variant.
type ToolContent struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	Data     string         `json:"data,omitempty"`
	MimeType string         `json:"mimeType,omitempty"`
	URI      string         `json:"uri,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

const (
	ContentTypeText     = "text"
	ContentTypeImage    = "image"
	ContentTypeResource = "resource"
)

func TextContent(text string) ToolContent {
	return ToolContent{Type: ContentTypeText, Text: text}
}

func ImageContent(data, mimeType string) ToolContent {
	return ToolContent{Type: ContentTypeImage, Data: data, MimeType: mimeType}
}

func ResourceContent(uri, mimeType, text string) ToolContent {
	return ToolContent{Type: ContentTypeResource, URI: uri, MimeType: mimeType, Text: text}
}

// UnmarshalJSON rejects any content whose "type" is not one of the three
// known variants (spec §6: "Unknown type → decode error").
func (c *ToolContent) UnmarshalJSON(data []byte) error {
	type alias ToolContent
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	switch a.Type {
	case ContentTypeText, ContentTypeImage, ContentTypeResource:
		*c = ToolContent(a)
		return nil
	default:
		return fmt.Errorf("mcp: unknown tool content type %q", a.Type)
	}
}

// ToolsListParams supports cursor-based pagination (spec §9's resolved
// open question: listTools returns the (tools, nextCursor) pair form).
type ToolsListParams struct {
	Cursor string `json:"cursor,omitempty"`
}

type ToolsListResult struct {
	Tools      []Tool `json:"tools"`
	NextCursor string `json:"nextCursor,omitempty"`
}

type ToolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

type ToolsCallResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

var MethodToolsList = jsonrpc.NewMethod[ToolsListParams, ToolsListResult]("tools/list")
var MethodToolsCall = jsonrpc.NewMethod[ToolsCallParams, ToolsCallResult]("tools/call")

// NotificationToolsListChanged tells the client the tool set changed.
var NotificationToolsListChanged = jsonrpc.NewNotification[jsonrpc.Empty]("notifications/tools/list_changed")
