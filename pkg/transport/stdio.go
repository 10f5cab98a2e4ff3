package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// StdioTransport is the line-delimited stdio transport (spec §4.5, §6):
// messages are separated by a single '\n'; a trailing partial line is
// buffered until completed.
//
// spec §6 describes EAGAIN/EWOULDBLOCK handling on a non-blocking fd,
// modeling a C-style polling read loop. Go's os.File already integrates
// pipe/socket reads with the runtime's netpoller, so a plain blocking
// Read achieves the same "don't busy-wait, don't block an OS thread"
// effect without hand-rolled non-blocking syscalls; ErrTemporarilyUnavailable
// is still defined and honored by the peer's receive loop for any
// Transport that does need to surface it (spec §4.2).
type StdioTransport struct {
	in  io.Reader
	out io.Writer

	msgCh chan []byte
	errCh chan error

	mu        sync.Mutex
	connected bool
}

// NewStdioTransport builds a transport over os.Stdin/os.Stdout.
func NewStdioTransport() *StdioTransport {
	return NewStdioTransportOver(os.Stdin, os.Stdout)
}

// NewStdioTransportOver builds a transport over arbitrary reader/writer,
// primarily for tests.
func NewStdioTransportOver(in io.Reader, out io.Writer) *StdioTransport {
	return &StdioTransport{in: in, out: out}
}

func (t *StdioTransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.connected {
		return fmt.Errorf("transport: already connected")
	}
	t.connected = true
	t.msgCh = make(chan []byte, 16)
	t.errCh = make(chan error, 1)
	go t.readLoop()
	return nil
}

func (t *StdioTransport) readLoop() {
	defer close(t.msgCh)
	defer close(t.errCh)

	scanner := bufio.NewScanner(t.in)
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

func (t *StdioTransport) Send(frame []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return fmt.Errorf("transport: not connected")
	}
	if _, err := t.out.Write(frame); err != nil {
		return err
	}
	_, err := t.out.Write([]byte{'\n'})
	return err
}

func (t *StdioTransport) Receive() (<-chan []byte, <-chan error) {
	return t.msgCh, t.errCh
}

func (t *StdioTransport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = false
	if closer, ok := t.in.(io.Closer); ok {
		closer.Close()
	}
	return nil
}
