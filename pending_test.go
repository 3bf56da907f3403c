package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingTableInsertRejectsDuplicate(t *testing.T) {
	pt := newPendingTable()

	_, ok := pt.Insert(7)
	require.True(t, ok)

	_, ok = pt.Insert(7)
	assert.False(t, ok, "inserting an already-present transfer-id must fail")
	assert.Equal(t, 1, pt.Len())
}

func TestPendingTableTakeRemovesEntry(t *testing.T) {
	pt := newPendingTable()
	slot, ok := pt.Insert(3)
	require.True(t, ok)

	taken, ok := pt.Take(3)
	require.True(t, ok)
	assert.Equal(t, slot, taken)
	assert.Equal(t, 0, pt.Len())

	_, ok = pt.Take(3)
	assert.False(t, ok, "a second Take of the same id must fail")
}

func TestPendingTableRemoveIsIdempotent(t *testing.T) {
	pt := newPendingTable()
	pt.Remove(42) // no entry; must not panic

	_, ok := pt.Insert(42)
	require.True(t, ok)
	pt.Remove(42)
	pt.Remove(42)
	assert.Equal(t, 0, pt.Len())
}

func TestPendingTableDrainWithErrorCompletesEverySlot(t *testing.T) {
	pt := newPendingTable()
	slotA, _ := pt.Insert(1)
	slotB, _ := pt.Insert(2)

	sentinel := assert.AnError
	pt.drainWithError(sentinel)

	assert.Equal(t, 0, pt.Len())

	ca := <-slotA
	cb := <-slotB
	assert.ErrorIs(t, ca.err, sentinel)
	assert.ErrorIs(t, cb.err, sentinel)
}
