package mcp

import "github.com/richard-senior/gomcp/pkg/jsonrpc"

// NotifyServer sends a typed notification from a server to its connected
// client, e.g. NotifyServer(s, NotificationToolsListChanged, jsonrpc.Empty{})
// after registering a new tool.
func NotifyServer[P any](s *Server, n jsonrpc.Notification[P], params P) error {
	return notifyOn(s.peer, n, params)
}

// NotifyClient sends a typed notification from a client to its connected
// server (the peer is symmetric; most notifications flow server→client,
// but nothing in spec.md restricts the direction, spec §2).
func NotifyClient[P any](c *Client, n jsonrpc.Notification[P], params P) error {
	return notifyOn(c.peer, n, params)
}

func notifyOn[P any](p *peer, n jsonrpc.Notification[P], params P) error {
	msg := jsonrpc.NotificationMessage[P]{Method: n.Name, Params: params}
	raw, err := msg.MarshalJSON()
	if err != nil {
		return err
	}
	return p.send(raw)
}
