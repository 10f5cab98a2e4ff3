package mcp

import "github.com/richard-senior/gomcp/pkg/jsonrpc"

// Implementation identifies either side of the connection by name/version,
// carried in both the Initialize request and its result (spec §6).
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams is the client's opening request.
type InitializeParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      Implementation     `json:"clientInfo"`
}

// InitializeResult is the server's reply.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

var MethodInitialize = jsonrpc.NewMethod[InitializeParams, InitializeResult]("initialize")

var MethodPing = jsonrpc.NewMethod[jsonrpc.Empty, jsonrpc.Empty]("ping")

// NotificationInitialized is emitted server→client once initialization has
// completed (spec §6), scheduled ≈100ms after the Initialize response.
var NotificationInitialized = jsonrpc.NewNotification[jsonrpc.Empty]("notifications/initialized")
