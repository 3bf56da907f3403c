package presentation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientDefaultsMatchSpec(t *testing.T) {
	h := newTestHarness(t)
	defer h.client.Close()

	assert.Equal(t, DefaultPriority, h.client.Priority())
	assert.Equal(t, DefaultResponseTimeout, h.client.ResponseTimeout())
}

func TestClientSetPriority(t *testing.T) {
	h := newTestHarness(t)
	defer h.client.Close()

	h.client.SetPriority(PriorityFast)
	assert.Equal(t, PriorityFast, h.client.Priority())
}

func TestClientSetResponseTimeoutRejectsNonPositive(t *testing.T) {
	h := newTestHarness(t)
	defer h.client.Close()

	err := h.client.SetResponseTimeout(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = h.client.SetResponseTimeout(-time.Second)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, DefaultResponseTimeout, h.client.ResponseTimeout(), "a rejected timeout must not change state")
}

func TestClientSetResponseTimeoutAccepted(t *testing.T) {
	h := newTestHarness(t)
	defer h.client.Close()

	assert.NoError(t, h.client.SetResponseTimeout(250*time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, h.client.ResponseTimeout())
}

func TestClientStringDoesNotPanic(t *testing.T) {
	h := newTestHarness(t)
	defer h.client.Close()

	assert.NotPanics(t, func() {
		_ = h.client.String()
	})
}
