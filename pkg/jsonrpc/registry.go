package jsonrpc

import (
	"sync"

	"github.com/richard-senior/gomcp/pkg/mcperr"
)

// MethodHandler is the type-erased shape a registered method handler is
// boxed into: dynamic Value in, dynamic Value (or error) out. Concrete
// typed handlers are adapted into this shape at registration time so the
// registry itself never needs reflection (spec §9).
type MethodHandler func(params Value) (Value, *mcperr.Error)

// MethodRegistry maps method names to a single handler each (server side,
// spec §2 "method registry").
type MethodRegistry struct {
	mu       sync.RWMutex
	handlers map[string]MethodHandler
}

func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{handlers: make(map[string]MethodHandler)}
}

// Register binds name to handler, replacing any existing registration.
func (r *MethodRegistry) Register(name string, handler MethodHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Lookup returns the handler bound to name, if any.
func (r *MethodRegistry) Lookup(name string) (MethodHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// RegisterMethod adapts a typed handler into the registry's type-erased
// MethodHandler shape, re-encoding through Value on both sides of the call.
func RegisterMethod[P any, R any](r *MethodRegistry, m Method[P, R], handler func(P) (R, *mcperr.Error)) {
	r.Register(m.Name, func(raw Value) (Value, *mcperr.Error) {
		var params P
		if err := raw.Decode(&params); err != nil {
			return Value{}, mcperr.InvalidParams(err.Error())
		}
		result, mErr := handler(params)
		if mErr != nil {
			return Value{}, mErr
		}
		v, err := ValueOf(result)
		if err != nil {
			return Value{}, mcperr.InternalError(err.Error())
		}
		return v, nil
	})
}

// NotificationHandler is the type-erased shape of a registered notification
// handler.
type NotificationHandler func(params Value)

// NotificationRegistry maps notification names to an ordered list of
// handlers. Both client and server use this; all handlers registered for
// a name run sequentially, in registration order, for every matching frame
// (spec §5).
type NotificationRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]NotificationHandler
}

func NewNotificationRegistry() *NotificationRegistry {
	return &NotificationRegistry{handlers: make(map[string][]NotificationHandler)}
}

// Register appends handler to the ordered list for name.
func (r *NotificationRegistry) Register(name string, handler NotificationHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = append(r.handlers[name], handler)
}

// Handlers returns a snapshot of the ordered handler list for name.
func (r *NotificationRegistry) Handlers(name string) []NotificationHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]NotificationHandler, len(r.handlers[name]))
	copy(out, r.handlers[name])
	return out
}

// RegisterNotification adapts a typed handler into the registry's
// type-erased shape.
func RegisterNotification[P any](r *NotificationRegistry, n Notification[P], handler func(P)) {
	r.Register(n.Name, func(raw Value) {
		var params P
		if err := raw.Decode(&params); err != nil {
			return
		}
		handler(params)
	})
}
