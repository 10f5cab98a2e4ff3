package sse

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/richard-senior/gomcp/pkg/transport"
)

// endpointDiscoveryTimeout bounds how long the client waits for the
// server's vendor `event: endpoint` event before giving up (spec §5).
const endpointDiscoveryTimeout = 45 * time.Second

// ClientTransport is the client side of the HTTP+SSE transport: it opens
// a long-lived GET to baseURL+"/sse" with Accept: text/event-stream, and
// POSTs outbound frames to whatever endpoint path the server's
// `event: endpoint` event announced (spec §6, a vendor extension retained
// here and clearly marked as such).
type ClientTransport struct {
	baseURL string
	client  *http.Client
	bearer  string

	mu         sync.Mutex
	sessionID  string
	lastEventID string
	postURL    string
	endpointCh chan struct{}

	msgCh chan []byte
	errCh chan error

	resp io.Closer
}

// NewClientTransport builds a client transport against baseURL (e.g.
// "http://localhost:8080"). bearer, if non-empty, is sent as
// Authorization: Bearer <jwt> on every request (spec §6).
func NewClientTransport(baseURL, bearer string) *ClientTransport {
	return &ClientTransport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{},
		bearer:     bearer,
		endpointCh: make(chan struct{}),
		msgCh:      make(chan []byte, 16),
		errCh:      make(chan error, 1),
	}
}

func (t *ClientTransport) Connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/sse", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	t.applyAuth(req)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("sse: unexpected status %d connecting to stream", resp.StatusCode)
	}
	t.resp = resp.Body

	go t.readEvents(resp.Body)

	select {
	case <-t.endpointCh:
		return nil
	case <-time.After(endpointDiscoveryTimeout):
		return fmt.Errorf("sse: endpoint discovery timed out after %s", endpointDiscoveryTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readEvents parses the SSE field grammar named in spec §6: event, data,
// id, retry. Multi-line "data:" fields are joined with '\n' per the SSE
// spec; MCP frames are single-line JSON so this is mostly a formality.
func (t *ClientTransport) readEvents(body io.ReadCloser) {
	defer close(t.msgCh)
	defer close(t.errCh)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var eventName string
	var data bytes.Buffer

	flush := func() {
		if data.Len() == 0 {
			eventName = ""
			return
		}
		payload := strings.TrimSuffix(data.String(), "\n")
		data.Reset()

		switch eventName {
		case "endpoint":
			t.mu.Lock()
			t.postURL = t.resolveEndpoint(payload)
			t.mu.Unlock()
			select {
			case <-t.endpointCh:
			default:
				close(t.endpointCh)
			}
		case "", "message":
			t.msgCh <- []byte(payload)
		}
		eventName = ""
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
			data.WriteString("\n")
		case strings.HasPrefix(line, "id:"):
			t.mu.Lock()
			t.lastEventID = strings.TrimSpace(strings.TrimPrefix(line, "id:"))
			t.mu.Unlock()
		case strings.HasPrefix(line, "retry:"):
			// Reconnection backoff hint; no automatic reconnect is
			// implemented here, so this is parsed and discarded.
		}
	}
	if err := scanner.Err(); err != nil {
		t.errCh <- err
	}
}

func (t *ClientTransport) resolveEndpoint(path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return t.baseURL + path
}

func (t *ClientTransport) applyAuth(req *http.Request) {
	if t.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+t.bearer)
	}
	t.mu.Lock()
	sid, lastID := t.sessionID, t.lastEventID
	t.mu.Unlock()
	if sid != "" {
		req.Header.Set(SessionHeader, sid)
	}
	if lastID != "" {
		req.Header.Set("Last-Event-ID", lastID)
	}
}

func (t *ClientTransport) Send(frame []byte) error {
	t.mu.Lock()
	postURL := t.postURL
	t.mu.Unlock()
	if postURL == "" {
		return fmt.Errorf("sse: no endpoint discovered yet")
	}

	req, err := http.NewRequest(http.MethodPost, postURL, bytes.NewReader(frame))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	t.applyAuth(req)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if sid := resp.Header.Get(SessionHeader); sid != "" {
		t.mu.Lock()
		t.sessionID = sid
		t.mu.Unlock()
	}

	if resp.StatusCode == http.StatusNotFound {
		t.mu.Lock()
		hadSession := t.sessionID != ""
		t.sessionID = ""
		t.mu.Unlock()
		if hadSession {
			return fmt.Errorf("sse: session expired")
		}
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sse: post to %s failed with status %d", postURL, resp.StatusCode)
	}
	return nil
}

func (t *ClientTransport) Receive() (<-chan []byte, <-chan error) {
	return t.msgCh, t.errCh
}

func (t *ClientTransport) Disconnect() error {
	if t.resp == nil {
		return nil
	}
	return t.resp.Close()
}

var _ transport.Transport = (*ClientTransport)(nil)
