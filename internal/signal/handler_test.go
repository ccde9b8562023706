package signal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interruptedClosed reports whether the Interrupted channel is closed.
func interruptedClosed(h *Handler) bool {
	select {
	case <-h.Interrupted():
		return true
	default:
		return false
	}
}

func TestHandler_InitialState(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	assert.NoError(t, h.Context().Err())
	assert.False(t, interruptedClosed(h))
}

func TestHandler_SignalCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal()

	require.Error(t, h.Context().Err())
	assert.Equal(t, context.Canceled, h.Context().Err())
	assert.True(t, interruptedClosed(h))
}

func TestHandler_RepeatedSignalsAreIdempotent(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal()
	h.handleSignal()
	h.handleSignal()

	require.Error(t, h.Context().Err())
	assert.True(t, interruptedClosed(h))
}

func TestHandler_StopCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	h.Stop()

	assert.Error(t, h.Context().Err())
	assert.False(t, interruptedClosed(h), "Stop is not an interruption")
}

func TestHandler_StopIsIdempotent(t *testing.T) {
	h := NewHandler(context.Background())

	h.Stop()
	h.Stop()
	h.Stop()

	assert.Error(t, h.Context().Err())
}

func TestHandler_ParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()

	select {
	case <-h.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("handler context not canceled with parent")
	}
}

func TestHandler_ListenDrainsRepeatedSignals(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	// Simulate repeated Ctrl+C. If listen exited after the first signal
	// the second send would block forever.
	h.sigChan <- nil
	h.sigChan <- nil

	select {
	case <-h.Interrupted():
	case <-time.After(time.Second):
		t.Fatal("signal not processed")
	}
	assert.Error(t, h.Context().Err())
}
