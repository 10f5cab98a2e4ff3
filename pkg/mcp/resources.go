package mcp

import (
	"sync"

	"github.com/richard-senior/gomcp/pkg/jsonrpc"
)

// Resource describes one addressable resource: a URI, a display name, and
// an optional MIME type. Resource *storage* is out of scope for the core
// (spec §1); this is the schema a caller-supplied handler fills in.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

type ResourcesListParams struct {
	Cursor string `json:"cursor,omitempty"`
}

type ResourcesListResult struct {
	Resources  []Resource `json:"resources"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

type ResourcesReadParams struct {
	URI string `json:"uri"`
}

// ResourceContents is one item returned from resources/read: either text
// or base64-encoded binary, matching the resource content shape used by
// notifications/resource/updated (spec §6).
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

type ResourcesReadResult struct {
	Contents []ResourceContents `json:"contents"`
}

// ResourcesSubscribeParams requests delivery of
// notifications/resource/updated for the named URI. This call and the
// notification it triggers are named in spec §6 but absent from the
// teacher's own implementation; the subscription bookkeeping below gives
// a conforming server something to hang a real subscribe handler on.
type ResourcesSubscribeParams struct {
	URI string `json:"uri"`
}

// ResourceUpdatedParams is the payload of notifications/resource/updated.
type ResourceUpdatedParams struct {
	URI     string           `json:"uri"`
	Content ResourceContents `json:"content"`
}

var MethodResourcesList      = jsonrpc.NewMethod[ResourcesListParams, ResourcesListResult]("resources/list")
var MethodResourcesRead      = jsonrpc.NewMethod[ResourcesReadParams, ResourcesReadResult]("resources/read")
var MethodResourcesSubscribe = jsonrpc.NewMethod[ResourcesSubscribeParams, jsonrpc.Empty]("resources/subscribe")

var NotificationResourcesListChanged = jsonrpc.NewNotification[jsonrpc.Empty]("notifications/resources/list_changed")
var NotificationResourceUpdated = jsonrpc.NewNotification[ResourceUpdatedParams]("notifications/resource/updated")

// SubscriptionTable tracks which local channels want
// notifications/resource/updated for a given URI. A server's resources/subscribe
// handler registers here; whatever produces resource updates (entirely a
// caller concern, per the Non-goals) fans them out via Publish.
type SubscriptionTable struct {
	mu   sync.Mutex
	subs map[string][]chan Resource
}

func NewSubscriptionTable() *SubscriptionTable {
	return &SubscriptionTable{subs: make(map[string][]chan Resource)}
}

// Subscribe registers ch to receive updates for uri. The returned cancel
// function removes the registration.
func (t *SubscriptionTable) Subscribe(uri string, ch chan Resource) (cancel func()) {
	t.mu.Lock()
	t.subs[uri] = append(t.subs[uri], ch)
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		list := t.subs[uri]
		for i, c := range list {
			if c == ch {
				t.subs[uri] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

// Publish fans out an updated resource to every subscriber of its URI.
// The send is non-blocking: a subscriber whose channel is not ready to
// receive is skipped and does not get this update.
func (t *SubscriptionTable) Publish(uri string, r Resource) {
	t.mu.Lock()
	subs := append([]chan Resource{}, t.subs[uri]...)
	t.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- r:
		default:
		}
	}
}
