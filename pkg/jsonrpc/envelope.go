package jsonrpc

import (
	"encoding/json"

	"github.com/richard-senior/gomcp/pkg/mcperr"
)

const Version = "2.0"

// rawRequest, rawResponse, and rawNotification are the non-generic wire
// shapes the codec sniffs during batch-frame disambiguation (spec §4.1):
// the decoder doesn't know a frame's Parameters/Result type until after it
// has identified the method name, so generics can't drive this step.
type rawRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      ID              `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rawResponse struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      ID                `json:"id"`
	Result  json.RawMessage   `json:"result,omitempty"`
	Error   *wireError        `json:"error,omitempty"`
}

type rawNotification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// wireError is the over-the-wire shape of mcperr.Error: { code, message,
// data? } with data.detail carrying the optional prose detail (spec §6).
type wireError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type wireErrorData struct {
	Detail string `json:"detail,omitempty"`
}

func toWireError(e *mcperr.Error) *wireError {
	if e == nil {
		return nil
	}
	w := &wireError{Code: e.Code, Message: e.Message}
	if e.Detail != "" {
		data, _ := json.Marshal(wireErrorData{Detail: e.Detail})
		w.Data = data
	}
	return w
}

func fromWireError(w *wireError) *mcperr.Error {
	if w == nil {
		return nil
	}
	e := &mcperr.Error{Code: w.Code, Message: w.Message, Kind: kindForCode(w.Code)}
	if len(w.Data) > 0 {
		var d wireErrorData
		if err := json.Unmarshal(w.Data, &d); err == nil {
			e.Detail = d.Detail
		}
	}
	return e
}

func kindForCode(code int) mcperr.Kind {
	switch code {
	case mcperr.CodeParse:
		return mcperr.KindParse
	case mcperr.CodeInvalidRequest:
		return mcperr.KindInvalidRequest
	case mcperr.CodeMethodNotFound:
		return mcperr.KindMethodNotFound
	case mcperr.CodeInvalidParams:
		return mcperr.KindInvalidParams
	case mcperr.CodeInternal:
		return mcperr.KindInternal
	case mcperr.CodeConnectionClosed:
		return mcperr.KindConnectionClosed
	case mcperr.CodeTransportError:
		return mcperr.KindTransportError
	default:
		return mcperr.KindServerError
	}
}

// isUnit reports whether P is the Empty unit type, using a type assertion
// on the boxed zero value rather than reflection.
func isUnit[P any]() bool {
	var zero P
	_, ok := any(zero).(Empty)
	return ok
}

// Request is the generic envelope for an outbound/inbound JSON-RPC request.
// It always emits jsonrpc, id, method, and params — params is `{}` when P
// is Empty (spec §4.1).
type Request[P any] struct {
	ID     ID
	Method string
	Params P
}

func (r Request[P]) MarshalJSON() ([]byte, error) {
	var raw rawRequest
	raw.JSONRPC = Version
	raw.ID = r.ID
	raw.Method = r.Method
	if isUnit[P]() {
		raw.Params = json.RawMessage(`{}`)
	} else {
		b, err := json.Marshal(r.Params)
		if err != nil {
			return nil, err
		}
		raw.Params = b
	}
	return json.Marshal(raw)
}

func (r *Request[P]) UnmarshalJSON(data []byte) error {
	var raw rawRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.JSONRPC != Version {
		return mcperr.ParseError("jsonrpc version must be \"2.0\"")
	}
	r.ID = raw.ID
	r.Method = raw.Method
	if err := decodeParams(raw.Params, &r.Params); err != nil {
		return err
	}
	return nil
}

// decodeParams implements spec §4.1's unit-parameter leniency: absent,
// null, or {} are all accepted interchangeably when P is Empty.
func decodeParams[P any](raw json.RawMessage, dst *P) error {
	if len(raw) == 0 || string(raw) == "null" {
		var zero P
		*dst = zero
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// Response is the generic envelope for a JSON-RPC response: exactly one of
// Result/Err is populated.
type Response[R any] struct {
	ID     ID
	Result R
	Err    *mcperr.Error
}

func (r Response[R]) MarshalJSON() ([]byte, error) {
	var raw rawResponse
	raw.JSONRPC = Version
	raw.ID = r.ID
	if r.Err != nil {
		raw.Error = toWireError(r.Err)
	} else {
		b, err := json.Marshal(r.Result)
		if err != nil {
			return nil, err
		}
		raw.Result = b
	}
	return json.Marshal(raw)
}

func (r *Response[R]) UnmarshalJSON(data []byte) error {
	var raw rawResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.JSONRPC != Version {
		return mcperr.ParseError("jsonrpc version must be \"2.0\"")
	}
	r.ID = raw.ID
	if len(raw.Result) > 0 {
		return json.Unmarshal(raw.Result, &r.Result)
	}
	if raw.Error != nil {
		r.Err = fromWireError(raw.Error)
		return nil
	}
	return mcperr.ParseError("response has neither result nor error")
}

// NotificationMessage is the generic envelope for a notification: jsonrpc
// and method are always emitted, params only when P is not Empty.
type NotificationMessage[P any] struct {
	Method string
	Params P
}

func (n NotificationMessage[P]) MarshalJSON() ([]byte, error) {
	var raw rawNotification
	raw.JSONRPC = Version
	raw.Method = n.Method
	if !isUnit[P]() {
		b, err := json.Marshal(n.Params)
		if err != nil {
			return nil, err
		}
		raw.Params = b
	}
	return json.Marshal(raw)
}

func (n *NotificationMessage[P]) UnmarshalJSON(data []byte) error {
	var raw rawNotification
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.JSONRPC != Version {
		return mcperr.ParseError("jsonrpc version must be \"2.0\"")
	}
	n.Method = raw.Method
	return decodeParams(raw.Params, &n.Params)
}
