package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_StringRoundTrip(t *testing.T) {
	id := NewStringID("abc-123")
	raw, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"abc-123"`, string(raw))

	var decoded ID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id, decoded)
	assert.False(t, decoded.IsZero())
}

func TestID_IntRoundTrip(t *testing.T) {
	id := NewIntID(42)
	raw, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `42`, string(raw))

	var decoded ID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id, decoded)
	assert.Equal(t, "42", decoded.String())
}

func TestID_ZeroValueIsZero(t *testing.T) {
	var id ID
	assert.True(t, id.IsZero())
}

func TestID_RejectsNonStringNonNumber(t *testing.T) {
	var id ID
	err := json.Unmarshal([]byte(`true`), &id)
	assert.Error(t, err)
}

func TestNewID_GeneratesDistinctStringIDs(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())
}
