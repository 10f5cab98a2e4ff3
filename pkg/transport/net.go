package transport

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
)

// NetTransport is the framed network transport (spec §4.5): the same
// newline-delimited framing as StdioTransport, generalized to any
// net.Conn (TCP or Unix domain socket).
type NetTransport struct {
	conn net.Conn

	dial func(ctx context.Context) (net.Conn, error)

	msgCh chan []byte
	errCh chan error

	mu        sync.Mutex
	connected bool
}

// NewNetTransport wraps an already-established connection.
func NewNetTransport(conn net.Conn) *NetTransport {
	return &NetTransport{conn: conn}
}

// DialNetTransport lazily dials network/addr (e.g. "tcp", "localhost:9000")
// when Connect is called, so construction doesn't block on the network.
func DialNetTransport(network, addr string) *NetTransport {
	var d net.Dialer
	return &NetTransport{
		dial: func(ctx context.Context) (net.Conn, error) {
			return d.DialContext(ctx, network, addr)
		},
	}
}

func (t *NetTransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.connected {
		return fmt.Errorf("transport: already connected")
	}
	if t.conn == nil {
		if t.dial == nil {
			return fmt.Errorf("transport: no connection or dialer configured")
		}
		conn, err := t.dial(ctx)
		if err != nil {
			return err
		}
		t.conn = conn
	}
	t.connected = true
	t.msgCh = make(chan []byte, 16)
	t.errCh = make(chan error, 1)
	go t.readLoop()
	return nil
}

func (t *NetTransport) readLoop() {
	defer close(t.msgCh)
	defer close(t.errCh)

	scanner := bufio.NewScanner(t.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		t.msgCh <- cp
	}
	if err := scanner.Err(); err != nil {
		t.errCh <- err
	}
}

func (t *NetTransport) Send(frame []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return fmt.Errorf("transport: not connected")
	}
	if _, err := t.conn.Write(frame); err != nil {
		return err
	}
	_, err := t.conn.Write([]byte{'\n'})
	return err
}

func (t *NetTransport) Receive() (<-chan []byte, <-chan error) {
	return t.msgCh, t.errCh
}

func (t *NetTransport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = false
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}
