package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValue_RoundTrip exercises spec invariant 3: every JSON value
// round-trips through Value losslessly, including object key order.
func TestValue_RoundTrip(t *testing.T) {
	cases := []string{
		`null`,
		`true`,
		`false`,
		`42`,
		`-7`,
		`3.5`,
		`"hello"`,
		`[]`,
		`[1,2,3]`,
		`{}`,
		`{"b":1,"a":2,"c":3}`,
		`{"nested":{"x":[1,"two",{"three":3}]}}`,
	}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(raw), &v))
			out, err := json.Marshal(v)
			require.NoError(t, err)

			var want, got any
			require.NoError(t, json.Unmarshal([]byte(raw), &want))
			require.NoError(t, json.Unmarshal(out, &got))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValue_ObjectPreservesKeyOrder(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`{"z":1,"a":2,"m":3}`), &v))
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2,"m":3}`, string(out))
}

func TestValue_Field(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`{"name":"gomcp"}`), &v))
	got, ok := v.Field("name")
	require.True(t, ok)
	s, ok := got.AsString()
	require.True(t, ok)
	assert.Equal(t, "gomcp", s)

	_, ok = v.Field("missing")
	assert.False(t, ok)
}

func TestValue_DecodeAndValueOf(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	v, err := ValueOf(payload{Name: "ada", Age: 30})
	require.NoError(t, err)

	var out payload
	require.NoError(t, v.Decode(&out))
	assert.Equal(t, payload{Name: "ada", Age: 30}, out)
}

func TestValue_IntVsFloat(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`5`), &v))
	assert.Equal(t, KindInt, v.Kind())
	i, ok := v.AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 5, i)

	f, ok := v.AsFloat()
	require.True(t, ok)
	assert.Equal(t, 5.0, f)
}

func TestEmptyObject(t *testing.T) {
	v := EmptyObject()
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}
