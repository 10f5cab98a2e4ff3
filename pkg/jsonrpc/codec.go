package jsonrpc

import (
	"bytes"
	"encoding/json"

	"github.com/richard-senior/gomcp/pkg/mcperr"
)

// FrameKind discriminates the shape DecodeFrame settled on.
type FrameKind int

const (
	FrameUnknown FrameKind = iota
	FrameBatchResponse
	FrameResponse
	FrameRequest
	FrameNotification
)

// Frame is the result of sniffing one top-level JSON value per the
// batch-frame-disambiguation algorithm in spec §4.1/§9: array-of-responses,
// then single response, then single request, then single notification.
// Exactly one of the corresponding fields is populated, matching Kind.
type Frame struct {
	Kind          FrameKind
	BatchResponse []rawResponse
	Response      *rawResponse
	Request       *rawRequest
	Notification  *rawNotification
}

// DecodeFrame sniffs raw for its shape in the fixed order the spec
// mandates. The ordering matters: a single response and a single
// notification share no required discriminator beyond id/result-or-error
// being present, so a naive "decode and see which fields are non-zero"
// approach would misclassify one as the other.
func DecodeFrame(raw []byte) (Frame, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Frame{}, mcperr.ParseError("empty frame")
	}

	if trimmed[0] == '[' {
		var batch []rawResponse
		if err := strictUnmarshal(trimmed, &batch); err == nil && looksLikeResponses(batch) {
			return Frame{Kind: FrameBatchResponse, BatchResponse: batch}, nil
		}
		return Frame{}, mcperr.ParseError("batch frame is not an array of responses")
	}

	var resp rawResponse
	if err := strictUnmarshal(trimmed, &resp); err == nil && looksLikeResponse(resp) {
		return Frame{Kind: FrameResponse, Response: &resp}, nil
	}

	var req rawRequest
	if err := strictUnmarshal(trimmed, &req); err == nil && req.Method != "" && !req.ID.IsZero() {
		return Frame{Kind: FrameRequest, Request: &req}, nil
	}

	var notif rawNotification
	if err := strictUnmarshal(trimmed, &notif); err == nil && notif.Method != "" {
		return Frame{Kind: FrameNotification, Notification: &notif}, nil
	}

	return Frame{}, mcperr.ParseError("frame matches neither response, request, nor notification shape")
}

// strictUnmarshal rejects unknown fields so a request (which has "method")
// can't be silently accepted by the response decoder.
func strictUnmarshal(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func looksLikeResponse(r rawResponse) bool {
	if r.JSONRPC != Version {
		return false
	}
	return len(r.Result) > 0 || r.Error != nil
}

func looksLikeResponses(rs []rawResponse) bool {
	if len(rs) == 0 {
		return false
	}
	for _, r := range rs {
		if !looksLikeResponse(r) {
			return false
		}
	}
	return true
}
