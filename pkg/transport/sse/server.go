// Package sse implements the HTTP+SSE transport named at the boundary in
// spec §4.5/§6: a client POSTs JSON-RPC frames to a message endpoint and
// reads server-sent events from a long-lived GET stream. The server side
// is built on gin (DOMAIN STACK), matching how jinterlante1206-AleutianLocal
// wires gin behind its own HTTP surface.
package sse

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/richard-senior/gomcp/pkg/transport"
)

// SessionHeader is the header MCP's HTTP+SSE transport echoes between
// requests to bind a POST back to its SSE stream (spec §6).
const SessionHeader = "Mcp-Session-Id"

// ServerTransport accepts exactly one logical peer session over HTTP+SSE:
// one GET /sse stream paired with POSTs to /message. A process that wants
// to serve many concurrent MCP clients runs one peer (and one
// ServerTransport) per accepted session; ServerTransport itself models the
// single duplex channel a Transport owns (spec §4.5, §5).
type ServerTransport struct {
	addr   string
	engine *gin.Engine
	http   *http.Server

	sessionID string

	msgCh chan []byte
	errCh chan error

	mu       sync.Mutex
	sseReady chan struct{}
	flusher  http.Flusher
	writer   http.ResponseWriter
}

// NewServerTransport builds an HTTP+SSE server transport listening on addr
// (e.g. ":8080"). Handler() exposes the gin engine for callers that want
// to mount additional routes (metrics, health) on the same server.
func NewServerTransport(addr string) *ServerTransport {
	gin.SetMode(gin.ReleaseMode)
	t := &ServerTransport{
		addr:      addr,
		engine:    gin.New(),
		sessionID: uuid.NewString(),
		msgCh:     make(chan []byte, 16),
		errCh:     make(chan error, 1),
		sseReady:  make(chan struct{}),
	}
	t.engine.Use(gin.Recovery())
	t.engine.GET("/sse", t.handleSSE)
	t.engine.POST("/message", t.handleMessage)
	return t
}

// Handler exposes the underlying gin engine so a caller can mount
// /metrics or other routes on the same listener.
func (t *ServerTransport) Handler() http.Handler { return t.engine }

// Engine exposes the concrete gin engine for callers that need to register
// additional routes (e.g. GET /metrics via promhttp) before Connect starts
// serving, matching how jinterlante1206-AleutianLocal mounts
// prometheus/client_golang behind its own gin router.
func (t *ServerTransport) Engine() *gin.Engine { return t.engine }

func (t *ServerTransport) handleSSE(c *gin.Context) {
	t.mu.Lock()
	if t.writer != nil {
		t.mu.Unlock()
		c.Status(http.StatusConflict)
		return
	}
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		t.mu.Unlock()
		c.Status(http.StatusInternalServerError)
		return
	}
	t.writer = c.Writer
	t.flusher = flusher
	t.mu.Unlock()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header(SessionHeader, t.sessionID)

	// Vendor extension (spec §9): tell the client where to POST.
	fmt.Fprintf(c.Writer, "event: endpoint\ndata: /message?session=%s\n\n", t.sessionID)
	flusher.Flush()
	close(t.sseReady)

	<-c.Request.Context().Done()

	t.mu.Lock()
	t.writer = nil
	t.flusher = nil
	t.mu.Unlock()
}

func (t *ServerTransport) handleMessage(c *gin.Context) {
	if sid := c.Query("session"); sid != "" && sid != t.sessionID {
		c.Status(http.StatusNotFound)
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	t.msgCh <- body
	c.Status(http.StatusAccepted)
}

func (t *ServerTransport) Connect(ctx context.Context) error {
	ln, err := net.Listen("tcp", t.addr)
	if err != nil {
		return err
	}
	t.http = &http.Server{Addr: t.addr, Handler: t.engine}
	go func() {
		if err := t.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			select {
			case t.errCh <- err:
			default:
			}
		}
	}()
	return nil
}

func (t *ServerTransport) Send(frame []byte) error {
	select {
	case <-t.sseReady:
	case <-time.After(45 * time.Second):
		return fmt.Errorf("sse: no client connected within endpoint-discovery timeout")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.writer == nil {
		return fmt.Errorf("sse: client disconnected")
	}
	if _, err := fmt.Fprintf(t.writer, "data: %s\n\n", frame); err != nil {
		return err
	}
	t.flusher.Flush()
	return nil
}

func (t *ServerTransport) Receive() (<-chan []byte, <-chan error) {
	return t.msgCh, t.errCh
}

func (t *ServerTransport) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if t.http == nil {
		return nil
	}
	err := t.http.Shutdown(ctx)
	close(t.msgCh)
	close(t.errCh)
	return err
}

var _ transport.Transport = (*ServerTransport)(nil)
