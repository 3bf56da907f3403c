package presentation

import "sync/atomic"

// TransferIDCounter is a monotonically increasing counter shared by every
// ClientImpl bound to the same session specifier (spec.md §3). It outlives
// any single ClientImpl - the presentation layer owns it and hands the same
// instance to every ClientImpl created for a given (service-ID,
// server-node-ID) pair.
//
// Adapted from the teacher's TCPTransporter.NextTransactionID, which uses
// the same atomic-increment-and-wrap idiom for Modbus transaction IDs; here
// the wrap (modulo) is applied by the caller with a fresh modulus on every
// allocation rather than baked into the counter, since the modulus can
// change at runtime (spec.md §3, §9).
type TransferIDCounter struct {
	next atomic.Uint64
}

// NewTransferIDCounter returns a counter starting at zero.
func NewTransferIDCounter() *TransferIDCounter {
	return &TransferIDCounter{}
}

// GetThenIncrement atomically returns the current value and increments the
// counter. Two concurrent callers always observe distinct values.
func (c *TransferIDCounter) GetThenIncrement() uint64 {
	return c.next.Add(1) - 1
}

// nextTransferID implements the TransferIDAllocator contract of spec.md
// §4.5: read the modulus fresh, fold the counter value into it.
func nextTransferID(counter *TransferIDCounter, modulus ModulusSource) uint64 {
	m := modulus()
	if m == 0 {
		m = 1
	}
	return counter.GetThenIncrement() % m
}
