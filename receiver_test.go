package presentation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwhai/uavcan-presentation/internal/simplecodec"
)

type stringerName string

func (s stringerName) String() string { return string(s) }

func newTestReceiver(pending *PendingTable, stats *statistics) *receiver {
	return newReceiver(stringerName("test"), nil, echoResponse{}, simplecodec.New(), &sync.Mutex{}, pending, stats, nil)
}

func TestReceiverCorrelateCompletesMatchingSlot(t *testing.T) {
	pending := newPendingTable()
	var stats statistics
	r := newTestReceiver(pending, &stats)

	slot, ok := pending.Insert(9)
	require.True(t, ok)

	frags, err := r.codec.Serialize(echoResponse{N: 99})
	require.NoError(t, err)

	r.correlate(TransferFrom{Transfer: Transfer{TransferID: 9, Payload: frags}})

	comp := <-slot
	assert.NoError(t, comp.err)
	assert.Equal(t, echoResponse{N: 99}, comp.response)
	assert.Equal(t, 0, pending.Len())
	assert.Equal(t, uint64(0), stats.deserializationFailures.Load())
	assert.Equal(t, uint64(0), stats.unexpectedResponses.Load())
}

func TestReceiverCorrelateCountsDeserializationFailure(t *testing.T) {
	pending := newPendingTable()
	var stats statistics
	r := newTestReceiver(pending, &stats)

	_, ok := pending.Insert(1)
	require.True(t, ok)

	r.correlate(TransferFrom{Transfer: Transfer{TransferID: 1, Payload: Fragments{[]byte("not gob data")}}})

	assert.Equal(t, uint64(1), stats.deserializationFailures.Load())
	assert.Equal(t, uint64(0), stats.unexpectedResponses.Load())
	assert.Equal(t, 1, pending.Len(), "a malformed payload must not consume the pending slot")
}

func TestReceiverCorrelateCountsUnexpectedResponse(t *testing.T) {
	pending := newPendingTable()
	var stats statistics
	r := newTestReceiver(pending, &stats)

	frags, err := r.codec.Serialize(echoResponse{N: 1})
	require.NoError(t, err)

	r.correlate(TransferFrom{Transfer: Transfer{TransferID: 123, Payload: frags}})

	assert.Equal(t, uint64(0), stats.deserializationFailures.Load())
	assert.Equal(t, uint64(1), stats.unexpectedResponses.Load())
}
