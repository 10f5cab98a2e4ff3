package jsonrpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/gomcp/pkg/mcperr"
)

func TestPendingTable_InstallAndResume(t *testing.T) {
	table := NewPendingTable()
	id := NewStringID("1")

	var gotResult Value
	var gotErr *mcperr.Error
	table.Install(id, func(result Value, err *mcperr.Error) {
		gotResult, gotErr = result, err
	})

	ok := table.Resume(id, String("done"), nil)
	require.True(t, ok)
	assert.Nil(t, gotErr)
	s, _ := gotResult.AsString()
	assert.Equal(t, "done", s)
	assert.Equal(t, 0, table.Len())
}

func TestPendingTable_ResumeUnknownIDReturnsFalse(t *testing.T) {
	table := NewPendingTable()
	ok := table.Resume(NewStringID("nope"), Value{}, nil)
	assert.False(t, ok)
}

// TestPendingTable_SingleShot matches spec invariant 2: a resume closure
// fires exactly once; a second Resume for the same id finds no entry and
// reports false.
func TestPendingTable_SingleShot(t *testing.T) {
	table := NewPendingTable()
	id := NewStringID("1")

	calls := 0
	table.Install(id, func(Value, *mcperr.Error) { calls++ })

	assert.True(t, table.Resume(id, Value{}, nil))
	// Second resume attempt finds no entry; the table already removed it.
	assert.False(t, table.Resume(id, Value{}, nil))
	assert.Equal(t, 1, calls)
}

func TestPendingTable_Drain(t *testing.T) {
	table := NewPendingTable()
	a, b := NewStringID("a"), NewStringID("b")

	var aErr, bErr *mcperr.Error
	table.Install(a, func(_ Value, err *mcperr.Error) { aErr = err })
	table.Install(b, func(_ Value, err *mcperr.Error) { bErr = err })

	table.Drain(mcperr.ConnectionClosed("closed"))

	require.NotNil(t, aErr)
	require.NotNil(t, bErr)
	assert.Equal(t, mcperr.CodeConnectionClosed, aErr.Code)
	assert.Equal(t, mcperr.CodeConnectionClosed, bErr.Code)
	assert.Equal(t, 0, table.Len())
}

func TestPendingTable_RemoveWithoutResume(t *testing.T) {
	table := NewPendingTable()
	id := NewStringID("1")
	called := false
	table.Install(id, func(Value, *mcperr.Error) { called = true })

	table.Remove(id)
	assert.Equal(t, 0, table.Len())
	assert.False(t, table.Resume(id, Value{}, nil))
	assert.False(t, called)
}
