package presentation

import "fmt"

// completion is what the Receiver delivers into a pending slot: either a
// successful response with its transfer metadata, or a terminal error
// (PortClosed on shutdown, or whatever fatal error killed the Receiver).
type completion struct {
	response any
	meta     TransferMetadata
	err      error
}

// pendingSlot is a one-shot completion channel awaited by exactly one
// caller. Buffered with capacity 1 so the Receiver (or the shutdown path)
// never blocks handing off a result, matching the "tolerate double
// completion gracefully" requirement of spec.md §4.3 - a second send simply
// never happens because the slot is removed from the table before being
// completed.
type pendingSlot chan completion

func newPendingSlot() pendingSlot {
	return make(pendingSlot, 1)
}

// PendingTable maps transfer-id-modulo-M to the one-shot slot a caller is
// waiting on (spec.md §3, §4.1 step 3-4, §4.3). It is mutated under the
// ClientImpl's mutex (insertion, by call) and by the Receiver goroutine
// (lookup + removal, on arrival); both sides hold the same mutex for their
// respective critical sections (see clientimpl.go and receiver.go), which is
// the Go-preemptive-scheduler equivalent of the single-threaded-cooperative
// "atomic by construction" property the original relies on (spec.md §5,
// §9 design notes).
//
// Grounded in the teacher's map-based correlation tables
// (register-manager.go) generalized to the RPC-id keyed completion pattern
// shown in the pack's reliable-RPC handler
// (appnet-org-arpc/pkg/custom/reliable/handlers.go's txReq map).
type PendingTable struct {
	slots map[uint64]pendingSlot
}

func newPendingTable() *PendingTable {
	return &PendingTable{slots: make(map[uint64]pendingSlot)}
}

// Insert adds a fresh slot for tid. The caller must already hold the
// ClientImpl mutex. Returns (nil, false) if tid is already present (spec.md §3:
// "insertion of an already-present key is a programmer-visible failure").
func (t *PendingTable) Insert(tid uint64) (pendingSlot, bool) {
	if _, exists := t.slots[tid]; exists {
		return nil, false
	}
	s := newPendingSlot()
	t.slots[tid] = s
	return s, true
}

// Remove deletes tid unconditionally; a no-op if absent. Every exit path of
// Call invokes this (spec.md §4.1 step 6, §8 invariant).
func (t *PendingTable) Remove(tid uint64) {
	delete(t.slots, tid)
}

// Take removes and returns the slot for tid, if present. Used by the
// Receiver to atomically claim a slot before completing it, so a
// concurrent timeout in Call cannot also try to complete the same slot
// (spec.md §4.3).
func (t *PendingTable) Take(tid uint64) (pendingSlot, bool) {
	s, ok := t.slots[tid]
	if ok {
		delete(t.slots, tid)
	}
	return s, ok
}

// Len reports the number of outstanding slots; used by tests asserting
// spec.md §8's "PendingTable is empty" invariant on close.
func (t *PendingTable) Len() int {
	return len(t.slots)
}

// drainWithError completes every remaining slot with err and empties the
// table. Called exactly once, from ClientImpl's one-shot close sequence
// (closeWithError), after the Receiver has stopped (spec.md §4.3 step 3).
func (t *PendingTable) drainWithError(err error) {
	for tid, s := range t.slots {
		select {
		case s <- completion{err: err}:
		default:
			// Slot already has a buffered completion (shouldn't happen
			// given Take semantics, but tolerate it rather than panic).
		}
		delete(t.slots, tid)
	}
}

func (t *PendingTable) String() string {
	ids := make([]uint64, 0, len(t.slots))
	for id := range t.slots {
		ids = append(ids, id)
	}
	return fmt.Sprintf("PendingTable(%v)", ids)
}
