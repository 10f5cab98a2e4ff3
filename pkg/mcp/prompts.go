package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/richard-senior/gomcp/pkg/jsonrpc"
)

// PromptArgument describes one named, typed input a prompt template
// expects. The teacher's prompt registry performs `{{name}}` substitution
// against these; rendering stays a caller concern (spec §1 Non-goal), but
// the schema keeps the field the teacher used for it.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Prompt is a named, versionless template a server exposes.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptContent is the tagged union for one piece of a rendered prompt
// message: text, image, or an embedded resource (spec §6). As with
// ToolContent, an unrecognized "type" is a decode error.
type PromptContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	URI      string `json:"uri,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

func (c *PromptContent) UnmarshalJSON(data []byte) error {
	type alias PromptContent
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	switch a.Type {
	case ContentTypeText, ContentTypeImage, ContentTypeResource:
		*c = PromptContent(a)
		return nil
	default:
		return fmt.Errorf("mcp: unknown prompt content type %q", a.Type)
	}
}

// PromptMessage pairs a role with its rendered content.
type PromptMessage struct {
	Role    string        `json:"role"`
	Content PromptContent `json:"content"`
}

type PromptsListParams struct {
	Cursor string `json:"cursor,omitempty"`
}

type PromptsListResult struct {
	Prompts    []Prompt `json:"prompts"`
	NextCursor string   `json:"nextCursor,omitempty"`
}

type PromptsGetParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

type PromptsGetResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

var MethodPromptsList = jsonrpc.NewMethod[PromptsListParams, PromptsListResult]("prompts/list")
var MethodPromptsGet = jsonrpc.NewMethod[PromptsGetParams, PromptsGetResult]("prompts/get")

var NotificationPromptsListChanged = jsonrpc.NewNotification[jsonrpc.Empty]("notifications/prompts/list_changed")
