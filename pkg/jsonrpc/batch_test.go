package jsonrpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_EncodeEmptyIsNil(t *testing.T) {
	b := NewBatch(NewPendingTable())
	raw, err := b.Encode()
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestBatch_EncodeProducesArrayInOrder(t *testing.T) {
	table := NewPendingTable()
	b := NewBatch(table)
	AddRequest(b, NewMethod[pingParams, pingResult]("ping"), pingParams{Note: "one"})
	AddRequest(b, NewMethod[pingParams, pingResult]("ping"), pingParams{Note: "two"})

	raw, err := b.Encode()
	require.NoError(t, err)

	var arr []json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &arr))
	require.Len(t, arr, 2)
	assert.Equal(t, 2, table.Len())

	var first, second struct {
		Params pingParams `json:"params"`
	}
	require.NoError(t, json.Unmarshal(arr[0], &first))
	require.NoError(t, json.Unmarshal(arr[1], &second))
	assert.Equal(t, "one", first.Params.Note)
	assert.Equal(t, "two", second.Params.Note)
}

func TestBatch_AwaitResolvesEveryFuture(t *testing.T) {
	table := NewPendingTable()
	b := NewBatch(table)
	f1 := AddRequest(b, NewMethod[pingParams, pingResult]("ping"), pingParams{Note: "one"})
	f2 := AddRequest(b, NewMethod[pingParams, pingResult]("ping"), pingParams{Note: "two"})

	okResult, err := ValueOf(pingResult{Pong: true})
	require.NoError(t, err)
	table.Resume(idOfRequestAt(t, b, 0), okResult, nil)
	table.Resume(idOfRequestAt(t, b, 1), okResult, nil)

	ctx := context.Background()
	r1, mErr1 := f1.Wait(ctx)
	r2, mErr2 := f2.Wait(ctx)
	assert.Nil(t, mErr1)
	assert.Nil(t, mErr2)
	assert.True(t, r1.Pong)
	assert.True(t, r2.Pong)

	assert.NoError(t, b.Await(ctx))
}

// idOfRequestAt decodes the ID field back out of the batch's encoded raw
// request at index i, since AddRequest doesn't hand the ID back directly
// (the future is the public handle).
func idOfRequestAt(t *testing.T, b *Batch, i int) ID {
	t.Helper()
	var probe struct {
		ID ID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(b.raws[i], &probe))
	return probe.ID
}
