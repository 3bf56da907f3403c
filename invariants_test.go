package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestPendingTableNeverDoubleBooks checks spec.md §8's core invariant: a
// transfer-id can have at most one pending slot at a time, for any
// interleaving of Insert/Remove/Take.
func TestPendingTableNeverDoubleBooks(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pt := newPendingTable()
		tracked := map[uint64]bool{} // model: what we believe is currently pending

		ops := rapid.SliceOfN(rapid.IntRange(0, 2), 1, 50).Draw(rt, "ops")
		ids := rapid.SliceOfN(rapid.Uint64Range(0, 7), len(ops), len(ops)).Draw(rt, "ids")

		for i, op := range ops {
			tid := ids[i]
			switch op {
			case 0: // insert
				_, ok := pt.Insert(tid)
				assert.Equal(rt, !tracked[tid], ok)
				if ok {
					tracked[tid] = true
				}
			case 1: // remove
				pt.Remove(tid)
				tracked[tid] = false
			case 2: // take
				_, ok := pt.Take(tid)
				assert.Equal(rt, tracked[tid], ok)
				tracked[tid] = false
			}
		}

		want := 0
		for _, v := range tracked {
			if v {
				want++
			}
		}
		assert.Equal(rt, want, pt.Len())
	})
}

// TestNextTransferIDStaysWithinModulus checks spec.md §3's invariant that
// every allocated transfer-id is strictly less than the modulus in effect
// at allocation time, for any sequence of allocations against any positive
// modulus.
func TestNextTransferIDStaysWithinModulus(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		modulus := rapid.Uint64Range(1, 1000).Draw(rt, "modulus")
		n := rapid.IntRange(1, 200).Draw(rt, "n")

		counter := NewTransferIDCounter()
		mod := func() uint64 { return modulus }

		for i := 0; i < n; i++ {
			tid := nextTransferID(counter, mod)
			assert.Less(rt, tid, modulus)
		}
	})
}

// TestTransferIDCounterNeverRepeatsBelowModulusExhaustion checks that n
// allocations, modulo any fixed modulus greater than n, never repeat a
// transfer-id - the property
// RequestTransferIDVariabilityExhausted exists to guard against.
func TestTransferIDCounterNeverRepeatsBelowModulusExhaustion(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(rt, "n")
		modulus := uint64(n) + 1 // strictly more room than calls made
		counter := NewTransferIDCounter()
		mod := func() uint64 { return modulus }

		seen := map[uint64]bool{}
		for i := 0; i < n; i++ {
			tid := nextTransferID(counter, mod)
			assert.False(rt, seen[tid], "transfer-id %d repeated before the counter could have wrapped", tid)
			seen[tid] = true
		}
	})
}
