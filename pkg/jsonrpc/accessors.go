package jsonrpc

import (
	"encoding/json"

	"github.com/richard-senior/gomcp/pkg/mcperr"
)

// ResolvedResponse is the peer-runtime-friendly view of one decoded
// response: exactly one of Result/Err is populated, mirroring Response[R]
// but with a dynamic Value in place of the generic R the caller doesn't
// know yet (the pending table resolves that at resume time).
type ResolvedResponse struct {
	ID     ID
	Result Value
	Err    *mcperr.Error
}

// Responses extracts every ResolvedResponse from a FrameResponse or
// FrameBatchResponse frame, in wire order.
func (f Frame) Responses() ([]ResolvedResponse, error) {
	switch f.Kind {
	case FrameResponse:
		rr, err := resolveRaw(*f.Response)
		if err != nil {
			return nil, err
		}
		return []ResolvedResponse{rr}, nil
	case FrameBatchResponse:
		out := make([]ResolvedResponse, 0, len(f.BatchResponse))
		for _, r := range f.BatchResponse {
			rr, err := resolveRaw(r)
			if err != nil {
				return nil, err
			}
			out = append(out, rr)
		}
		return out, nil
	default:
		return nil, mcperr.InternalError("frame is not a response frame")
	}
}

func resolveRaw(r rawResponse) (ResolvedResponse, error) {
	if len(r.Result) > 0 {
		var v Value
		if err := json.Unmarshal(r.Result, &v); err != nil {
			return ResolvedResponse{}, err
		}
		return ResolvedResponse{ID: r.ID, Result: v}, nil
	}
	return ResolvedResponse{ID: r.ID, Err: fromWireError(r.Error)}, nil
}

// RequestInfo is the peer-runtime-friendly view of a decoded request.
type RequestInfo struct {
	ID     ID
	Method string
	Params Value
}

// RequestInfo extracts a RequestInfo from a FrameRequest frame.
func (f Frame) RequestInfo() (RequestInfo, bool) {
	if f.Kind != FrameRequest {
		return RequestInfo{}, false
	}
	return RequestInfo{ID: f.Request.ID, Method: f.Request.Method, Params: paramsToValue(f.Request.Params)}, true
}

// NotificationInfo is the peer-runtime-friendly view of a decoded
// notification.
type NotificationInfo struct {
	Method string
	Params Value
}

// NotificationInfo extracts a NotificationInfo from a FrameNotification frame.
func (f Frame) NotificationInfo() (NotificationInfo, bool) {
	if f.Kind != FrameNotification {
		return NotificationInfo{}, false
	}
	return NotificationInfo{Method: f.Notification.Method, Params: paramsToValue(f.Notification.Params)}, true
}

func paramsToValue(raw json.RawMessage) Value {
	if len(raw) == 0 || string(raw) == "null" {
		return EmptyObject()
	}
	var v Value
	if err := json.Unmarshal(raw, &v); err != nil {
		return EmptyObject()
	}
	return v
}

// EncodeResponse renders a dynamic response frame: exactly one of result/
// err is written, matching spec §4.1's response encode rule. This is what
// the server dispatch path uses, since handlers are adapted to operate on
// Value rather than a concrete Result type (spec §9).
func EncodeResponse(id ID, result Value, mErr *mcperr.Error) ([]byte, error) {
	raw := rawResponse{JSONRPC: Version, ID: id}
	if mErr != nil {
		raw.Error = toWireError(mErr)
	} else {
		b, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		raw.Result = b
	}
	return json.Marshal(raw)
}

// EncodeNotification renders a dynamic notification frame. params is
// omitted entirely when omitParams is true (unit-parameter notification,
// spec §4.1).
func EncodeNotification(name string, params Value, omitParams bool) ([]byte, error) {
	raw := rawNotification{JSONRPC: Version, Method: name}
	if !omitParams {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		raw.Params = b
	}
	return json.Marshal(raw)
}

// SniffID recovers a bare "id" field from a malformed frame, used by the
// receive loop's parse-error-with-id-when-possible rule (spec §7).
func SniffID(raw []byte) (ID, bool) {
	var probe struct {
		ID *ID `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.ID == nil {
		return ID{}, false
	}
	return *probe.ID, true
}
