package mcp

import (
	"encoding/json"

	"github.com/richard-senior/gomcp/pkg/jsonrpc"
	"github.com/richard-senior/gomcp/pkg/mcperr"
)

// handleFrame runs on the actor goroutine (run()) for every inbound byte
// frame. It implements the receive task's fixed-order decode attempt
// (spec §4.2): batch-of-responses, single response, request, notification,
// else a dropped/warned frame. A JSON array that is not a batch of
// responses (e.g. a client's batch of requests) is split and each element
// is handled as its own frame, so each request is answered individually.
func (p *peer) handleFrame(raw []byte) {
	frame, err := jsonrpc.DecodeFrame(raw)
	if err != nil {
		var elems []json.RawMessage
		if json.Unmarshal(raw, &elems) == nil && len(elems) > 0 {
			for _, elem := range elems {
				p.handleFrame(elem)
			}
			return
		}
		if id, ok := jsonrpc.SniffID(raw); ok {
			resp, encErr := jsonrpc.EncodeResponse(id, jsonrpc.Value{}, mcperr.ParseError(err.Error()))
			if encErr == nil {
				_ = p.transport.Send(resp)
			}
		} else {
			p.log.Warnf("mcp: dropping unparseable frame: %v", err)
		}
		return
	}

	switch frame.Kind {
	case jsonrpc.FrameBatchResponse, jsonrpc.FrameResponse:
		p.resolveResponses(frame)
	case jsonrpc.FrameRequest:
		info, _ := frame.RequestInfo()
		go p.dispatchRequest(info)
	case jsonrpc.FrameNotification:
		info, _ := frame.NotificationInfo()
		go p.dispatchNotification(info)
	}
}

// resolveResponses handles both a lone response and a batch-of-responses
// frame identically (spec §4.4 invariant c): each is dispatched by ID
// using the same pending-table machinery as a single response. Unknown
// IDs are logged, not treated as fatal (scenario S5's sibling case).
func (p *peer) resolveResponses(frame jsonrpc.Frame) {
	resolved, err := frame.Responses()
	if err != nil {
		p.log.Warnf("mcp: malformed response frame: %v", err)
		return
	}
	for _, r := range resolved {
		if !p.pending.Resume(r.ID, r.Result, r.Err) {
			p.log.Warnf("mcp: response for unknown request id %s", r.ID)
		}
	}
}

// dispatchRequest implements spec §4.2.1. It runs on a goroutine spawned
// by handleFrame, never inline on the actor, so a slow handler never
// blocks the next inbound frame from being read.
func (p *peer) dispatchRequest(info jsonrpc.RequestInfo) {
	if p.cfg.Strict && info.Method != MethodInitialize.Name && info.Method != MethodPing.Name {
		if !p.isInitialized() {
			p.writeError(info.ID, mcperr.InvalidRequest("Server is not initialized"))
			return
		}
	}

	handler, ok := p.methods.Lookup(info.Method)
	if !ok {
		p.writeError(info.ID, mcperr.MethodNotFound("method not found: "+info.Method))
		return
	}

	result, mErr := p.invokeMethodHandler(handler, info)
	if mErr != nil {
		p.log.Errorf("mcp: handler for %s failed: %v", info.Method, mErr)
		p.metrics.Errors.WithLabelValues(mErr.Kind.String()).Inc()
		p.writeError(info.ID, mErr)
		return
	}

	p.metrics.RequestsDispatched.WithLabelValues(info.Method).Inc()
	p.writeResult(info.ID, result)
}

// invokeMethodHandler runs handler with a panic recovered into an
// internalError, matching spec §7: "Handler failures produce an error
// response ... they do not kill the receive loop." dispatchRequest runs
// this on its own goroutine, so an unrecovered panic here would otherwise
// crash the process, not just this one exchange.
func (p *peer) invokeMethodHandler(handler jsonrpc.MethodHandler, info jsonrpc.RequestInfo) (result jsonrpc.Value, mErr *mcperr.Error) {
	defer func() {
		if r := recover(); r != nil {
			mErr = mcperr.FromPanic(r)
		}
	}()
	return handler(info.Params)
}

func (p *peer) writeResult(id jsonrpc.ID, result jsonrpc.Value) {
	raw, err := jsonrpc.EncodeResponse(id, result, nil)
	if err != nil {
		p.log.Errorf("mcp: failed to encode response for %s: %v", id, err)
		return
	}
	if err := p.send(raw); err != nil {
		p.log.Errorf("mcp: failed to send response for %s: %v", id, err)
		return
	}
	p.metrics.ResponsesSent.WithLabelValues("ok").Inc()
}

func (p *peer) writeError(id jsonrpc.ID, mErr *mcperr.Error) {
	raw, err := jsonrpc.EncodeResponse(id, jsonrpc.Value{}, mErr)
	if err != nil {
		p.log.Errorf("mcp: failed to encode error response for %s: %v", id, err)
		return
	}
	if err := p.send(raw); err != nil {
		p.log.Errorf("mcp: failed to send error response for %s: %v", id, err)
		return
	}
	p.metrics.ResponsesSent.WithLabelValues("error").Inc()
}

// dispatchNotification implements spec §4.2.2/§5: all handlers registered
// for the name run, in registration order, for this one inbound frame. A
// handler's error is logged and does not stop the next handler. Strict
// mode drops any notification but notifications/initialized before the
// peer is initialized.
func (p *peer) dispatchNotification(info jsonrpc.NotificationInfo) {
	if p.cfg.Strict && info.Method != NotificationInitialized.Name && !p.isInitialized() {
		p.log.Errorf("mcp: dropping notification %s before initialization", info.Method)
		return
	}

	handlers := p.notifications.Handlers(info.Method)
	p.metrics.NotificationsDispatched.WithLabelValues(info.Method).Inc()
	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					p.log.Errorf("mcp: notification handler for %s panicked: %v", info.Method, r)
				}
			}()
			h(info.Params)
		}()
	}
}
