package mcperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsComparesByCode(t *testing.T) {
	a := MethodNotFound("first")
	b := MethodNotFound("second")
	assert.True(t, a.Is(b))
	assert.False(t, a.Is(InternalError("x")))
}

func TestError_ErrorsIsIntegration(t *testing.T) {
	wrapped := fmt.Errorf("wrapping: %w", MethodNotFound("missing"))
	assert.True(t, errors.Is(wrapped, MethodNotFound("anything")))
}

func TestFromPanic_PassesThroughMCPError(t *testing.T) {
	e := InvalidParams("bad")
	got := FromPanic(e)
	assert.Same(t, e, got)
}

func TestFromPanic_WrapsArbitraryValue(t *testing.T) {
	got := FromPanic("boom")
	assert.Equal(t, KindInternal, got.Kind)
	assert.Contains(t, got.Message, "boom")
}

func TestFromPanic_Nil(t *testing.T) {
	assert.Nil(t, FromPanic(nil))
}

func TestWrap_PassesThroughMCPError(t *testing.T) {
	e := ServerError(-32050, "custom")
	assert.Same(t, e, Wrap(e))
}

func TestWrap_WrapsPlainError(t *testing.T) {
	got := Wrap(errors.New("plain"))
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, "plain", got.Message)
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil))
}

func TestAsError_UnwrapsChain(t *testing.T) {
	base := ConnectionClosed("gone")
	wrapped := fmt.Errorf("outer: %w", base)
	got, ok := AsError(wrapped)
	assert.True(t, ok)
	assert.Same(t, base, got)
}
