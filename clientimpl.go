package presentation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ClientImpl is the shared, reference-counted state machine multiplexing
// every Client proxy bound to the same session specifier (spec.md §3). It
// is never constructed directly by library users: the presentation-layer
// controller (out of this package's scope, spec.md §6) builds one per
// session specifier and hands out Client proxies that reference it.
//
// Grounded in the teacher's ModbusClient/TCPTransporter split: a single
// shared transport object multiplexing transactions keyed by a wrapping ID
// counter, generalized here from one in-flight transaction to many
// concurrent ones correlated by transfer-ID (spec.md §3).
type ClientImpl struct {
	id uuid.UUID

	serviceType ServiceType
	codec       Codec
	output      OutputSession
	input       InputSession
	tidCounter  *TransferIDCounter
	modulus     ModulusSource
	finalizer   Finalizer
	logger      *Logger

	mu         sync.Mutex
	pending    *PendingTable
	proxyCount int
	closed     bool

	stats statistics

	cancel    context.CancelFunc
	eg        *errgroup.Group
	closeOnce sync.Once
}

// NewClientImpl constructs a ClientImpl bound to the given sessions and
// starts its receiver goroutine. responseZero is the zero value of the
// declared response type, used by the Codec to recover the concrete type on
// deserialization.
func NewClientImpl(
	serviceType ServiceType,
	responseZero any,
	codec Codec,
	output OutputSession,
	input InputSession,
	tidCounter *TransferIDCounter,
	modulus ModulusSource,
	finalizer Finalizer,
	logger *Logger,
) *ClientImpl {
	ctx, cancel := context.WithCancel(context.Background())
	eg, egCtx := errgroup.WithContext(ctx)

	impl := &ClientImpl{
		id:          uuid.New(),
		serviceType: serviceType,
		codec:       codec,
		output:      output,
		input:       input,
		tidCounter:  tidCounter,
		modulus:     modulus,
		finalizer:   finalizer,
		logger:      logger,
		pending:     newPendingTable(),
		cancel:      cancel,
		eg:          eg,
	}

	recv := newReceiver(impl, input, responseZero, codec, &impl.mu, impl.pending, &impl.stats, logger)
	eg.Go(func() error { return recv.run(egCtx) })

	// Watch for a fatal receiver error and close the impl exactly once in
	// response, draining every pending caller with that error instead of
	// leaving them to time out individually (spec.md §4.3 step 3).
	go func() {
		if err := eg.Wait(); err != nil {
			impl.closeWithError(err)
		}
	}()

	return impl
}

func (c *ClientImpl) String() string {
	return fmt.Sprintf("ClientImpl(id=%s, service=%d)", c.id.String()[:8], c.serviceType.ID)
}

// RegisterProxy increments the proxy reference count, failing with
// PortClosed if the impl has already run its close sequence. Called by a
// Client proxy's constructor (spec.md §4.1, §4.6: Closed is terminal, both
// call and register_proxy must fail against it).
func (c *ClientImpl) RegisterProxy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return portClosedError(c)
	}
	c.proxyCount++
	return nil
}

// RemoveProxy decrements the proxy reference count and closes the impl once
// it reaches zero, matching the original's "last proxy out closes the
// transport" lifecycle (spec.md §4.4).
func (c *ClientImpl) RemoveProxy() {
	c.mu.Lock()
	c.proxyCount--
	n := c.proxyCount
	c.mu.Unlock()

	if n <= 0 {
		c.closeWithError(portClosedError(c))
	}
}

// Call sends req and waits up to timeout for a correlated response. A nil
// response with a nil error means the deadline elapsed without a reply
// (spec.md §4.2's Timeout) or the transport declined to accept the request
// before the deadline (UnsentRequest) - both are ordinary outcomes, not
// errors. A non-nil error is a programmer-visible failure (PortClosed,
// RequestTransferIDVariabilityExhausted, InvalidArgument or TypeMismatch),
// a serialization or transport send error, ctx's error if ctx is done
// first, or the fatal receiver error that closed the impl while waiting.
//
// Steps 1-4 (TID allocation, pending-slot insertion and the send itself) run
// with c.mu held the whole time, per spec.md §4.1/§5: interleaving two
// sends on the shared OutputSession would corrupt wire-level framing, so
// every Call is totally ordered by mutex acquisition up through the send.
// The mutex is released only once the send has returned, before the wait
// on the slot/timer/ctx below.
func (c *ClientImpl) Call(ctx context.Context, req any, priority Priority, timeout time.Duration) (any, *TransferMetadata, error) {
	if timeout <= 0 {
		return nil, nil, invalidTimeoutError(timeout.Seconds())
	}

	deadline := time.Now().Add(timeout)
	snd := newSender(c.serviceType, c.codec, c.output)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, nil, portClosedError(c)
	}

	tid := nextTransferID(c.tidCounter, c.modulus)
	slot, ok := c.pending.Insert(tid)
	if !ok {
		c.mu.Unlock()
		return nil, nil, tidExhaustedError(c, tid)
	}

	sent, err := snd.send(ctx, c, req, priority, tid, deadline)
	if err != nil {
		c.pending.Remove(tid)
		c.mu.Unlock()
		return nil, nil, err
	}
	if !sent {
		c.stats.unsentRequests.Add(1)
		c.pending.Remove(tid)
		c.mu.Unlock()
		return nil, nil, nil
	}
	c.stats.sentRequests.Add(1)
	c.mu.Unlock()

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case comp := <-slot:
		if comp.err != nil {
			return nil, nil, comp.err
		}
		meta := comp.meta
		return comp.response, &meta, nil
	case <-timer.C:
		c.forget(tid)
		return nil, nil, nil
	case <-ctx.Done():
		c.forget(tid)
		return nil, nil, ctx.Err()
	}
}

// forget removes tid from the pending table, used on every exit path of
// Call that did not already have its slot claimed by the receiver
// (spec.md §4.1 step 6, §8 invariant: no stale entries survive a call).
func (c *ClientImpl) forget(tid uint64) {
	c.mu.Lock()
	c.pending.Remove(tid)
	c.mu.Unlock()
}

// Statistics returns a snapshot of the counters and the two transport
// sessions' own statistics.
func (c *ClientImpl) Statistics() ClientStatistics {
	return c.stats.snapshot(c.output.SampleStatistics(), c.input.SampleStatistics())
}

// Closed reports whether the impl has already run its close sequence.
func (c *ClientImpl) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close triggers the impl's close sequence immediately, regardless of
// proxy count. Exposed for a presentation-layer controller that needs to
// force a session specifier closed (spec.md §6); ordinary proxies should
// use RemoveProxy instead.
func (c *ClientImpl) Close() {
	c.closeWithError(portClosedError(c))
}

// closeWithError runs the close sequence exactly once: stop the receiver,
// mark closed, drain every pending caller with err, then hand the sessions
// to the Finalizer. Mirrors the original's ClientImpl.close() + the
// _task_function's finally block collapsed into one idempotent path
// (spec.md §4.3 step 3, §6).
func (c *ClientImpl) closeWithError(err error) {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.eg.Wait()

		c.mu.Lock()
		c.closed = true
		c.pending.drainWithError(err)
		c.mu.Unlock()

		if c.logger != nil {
			c.logger.Infow("client impl closed", "who", c.String(), "reason", err)
		}

		if c.finalizer != nil {
			c.finalizer([]Session{c.output, c.input})
		}
	})
}
