package transport

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdioTransport_SendAppendsNewlineFraming(t *testing.T) {
	var out bytes.Buffer
	tr := NewStdioTransportOver(bytes.NewReader(nil), &out)
	require.NoError(t, tr.Connect(context.Background()))
	defer tr.Disconnect()

	require.NoError(t, tr.Send([]byte(`{"a":1}`)))
	require.NoError(t, tr.Send([]byte(`{"b":2}`)))
	assert.Equal(t, "{\"a\":1}\n{\"b\":2}\n", out.String())
}

func TestStdioTransport_ReceiveSplitsOnNewline(t *testing.T) {
	in := bytes.NewBufferString("{\"a\":1}\n{\"b\":2}\n")
	tr := NewStdioTransportOver(in, io.Discard)
	require.NoError(t, tr.Connect(context.Background()))
	defer tr.Disconnect()

	msgCh, errCh := tr.Receive()

	var got []string
	for i := 0; i < 2; i++ {
		select {
		case m := <-msgCh:
			got = append(got, string(m))
		case err := <-errCh:
			t.Fatalf("unexpected error: %v", err)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for message")
		}
	}
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, got)
}

func TestStdioTransport_SendBeforeConnectFails(t *testing.T) {
	tr := NewStdioTransportOver(bytes.NewReader(nil), io.Discard)
	assert.Error(t, tr.Send([]byte("x")))
}

func TestStdioTransport_DoubleConnectFails(t *testing.T) {
	tr := NewStdioTransportOver(bytes.NewReader(nil), io.Discard)
	require.NoError(t, tr.Connect(context.Background()))
	defer tr.Disconnect()
	assert.Error(t, tr.Connect(context.Background()))
}

func TestStdioTransport_BlankLinesAreSkipped(t *testing.T) {
	in := bytes.NewBufferString("\n\n{\"a\":1}\n")
	tr := NewStdioTransportOver(in, io.Discard)
	require.NoError(t, tr.Connect(context.Background()))
	defer tr.Disconnect()

	msgCh, _ := tr.Receive()
	select {
	case m := <-msgCh:
		assert.Equal(t, `{"a":1}`, string(m))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}
