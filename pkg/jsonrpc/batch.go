package jsonrpc

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"github.com/richard-senior/gomcp/pkg/mcperr"
)

// BatchFuture is the handle AddRequest returns: it resolves to that
// specific request's typed result once the matching response (or the
// batch's failure) arrives (spec §4.4).
type BatchFuture[R any] struct {
	done   chan struct{}
	result R
	err    *mcperr.Error
}

// Wait blocks until the future settles or ctx is done.
func (f *BatchFuture[R]) Wait(ctx context.Context) (R, *mcperr.Error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero R
		return zero, mcperr.InternalError(ctx.Err().Error())
	}
}

type batchWaiter interface {
	wait(ctx context.Context) error
}

func (f *BatchFuture[R]) wait(ctx context.Context) error {
	_, err := f.Wait(ctx)
	if err != nil {
		return err
	}
	return nil
}

// Batch accumulates outbound requests under a single scoped operation and
// renders them as one JSON array via Encode, which pkg/mcp's
// Client.SendBatch writes to the transport (spec §4.4). Pending-table entries
// for every request are installed before the array is written, satisfying
// invariant (a): entries exist the moment the batch hits the wire.
type Batch struct {
	table   *PendingTable
	raws    []json.RawMessage
	waiters []batchWaiter
}

// NewBatch opens a batch bound to table; frames resolved against table by
// the peer's receive loop will settle this batch's futures.
func NewBatch(table *PendingTable) *Batch {
	return &Batch{table: table}
}

// AddRequest appends a typed request to the batch in call order and
// returns a future resolving to its result. The pending entry is installed
// immediately, not deferred until the batch is written.
func AddRequest[P any, R any](b *Batch, m Method[P, R], params P) *BatchFuture[R] {
	id := NewID()
	req := Request[P]{ID: id, Method: m.Name, Params: params}
	raw, err := json.Marshal(req)
	future := &BatchFuture[R]{done: make(chan struct{})}
	if err != nil {
		future.err = mcperr.InternalError(err.Error())
		close(future.done)
		return future
	}

	b.table.Install(id, func(result Value, mErr *mcperr.Error) {
		defer close(future.done)
		if mErr != nil {
			future.err = mErr
			return
		}
		if err := result.Decode(&future.result); err != nil {
			future.err = mcperr.InternalError(err.Error())
		}
	})

	b.raws = append(b.raws, raw)
	b.waiters = append(b.waiters, future)
	return future
}

// Len reports how many requests have been added so far.
func (b *Batch) Len() int { return len(b.raws) }

// Encode renders the accumulated requests as a single JSON array, in
// insertion order. An empty batch encodes to nil, signaling the caller
// (Client.SendBatch) to write nothing (invariant b).
func (b *Batch) Encode() ([]byte, error) {
	if len(b.raws) == 0 {
		return nil, nil
	}
	buf := []byte{'['}
	for i, raw := range b.raws {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, raw...)
	}
	buf = append(buf, ']')
	return buf, nil
}

// Await waits for every future added to the batch to settle, using an
// errgroup so the wait fans out concurrently instead of a hand-rolled
// WaitGroup + error-collection loop. The first error encountered (if any)
// is returned; every future still resolves independently regardless.
func (b *Batch) Await(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range b.waiters {
		w := w
		g.Go(func() error {
			return w.wait(gctx)
		})
	}
	return g.Wait()
}
