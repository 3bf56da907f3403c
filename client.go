package presentation

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Client is a caller's handle onto a shared ClientImpl. Many Clients can be
// bound to the same ClientImpl (same session specifier); each carries its
// own priority and response timeout, matching the original's per-proxy
// _priority/_response_timeout fields (original_source's Client class).
//
// Grounded in the teacher's per-caller client object (client.go) wrapping a
// shared transporter, generalized so several Clients can multiplex one
// ClientImpl instead of one client owning its transport outright.
type Client struct {
	impl *ClientImpl

	mu              sync.Mutex
	priority        Priority
	responseTimeout time.Duration
	closed          bool
	closeOnce       sync.Once
}

// NewClient returns a proxy bound to impl, registering it with impl's proxy
// count. It fails with PortClosed if impl has already run its close
// sequence (spec.md §4.1, §4.6), so a registry handing out a proxy for an
// impl mid-shutdown can build a fresh one instead. Callers must Close a
// returned proxy when done; a finalizer logs a diagnostic if one is
// garbage collected without that (matching the original's __del__ warning,
// since Go has no deterministic destructors - SPEC_FULL.md's SUPPLEMENTED
// FEATURES).
func NewClient(impl *ClientImpl) (*Client, error) {
	if err := impl.RegisterProxy(); err != nil {
		return nil, err
	}
	c := &Client{
		impl:            impl,
		priority:        DefaultPriority,
		responseTimeout: DefaultResponseTimeout,
	}
	runtime.SetFinalizer(c, finalizeClient)
	return c, nil
}

func finalizeClient(c *Client) {
	c.mu.Lock()
	alreadyClosed := c.closed
	c.mu.Unlock()
	if alreadyClosed {
		return
	}
	if c.impl.logger != nil {
		c.impl.logger.Warnw("client proxy garbage collected without Close", "who", c.impl.String())
	}
	c.Close()
}

func (c *Client) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("Client(priority=%s, timeout=%s, impl=%s)", c.priority, c.responseTimeout, c.impl)
}

// Priority returns the priority this proxy stamps on outgoing requests.
func (c *Client) Priority() Priority {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.priority
}

// SetPriority changes the priority this proxy stamps on outgoing requests.
func (c *Client) SetPriority(p Priority) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.priority = p
}

// ResponseTimeout returns how long Call waits for a response.
func (c *Client) ResponseTimeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.responseTimeout
}

// SetResponseTimeout changes how long Call waits for a response. timeout
// must be strictly positive, matching the original's (0, +Inf) domain.
func (c *Client) SetResponseTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return invalidTimeoutError(timeout.Seconds())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseTimeout = timeout
	return nil
}

// Call issues req using this proxy's current priority and timeout. See
// ClientImpl.Call for the full result contract.
func (c *Client) Call(ctx context.Context, req any) (any, *TransferMetadata, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, nil, portClosedError(c.impl)
	}
	priority, timeout := c.priority, c.responseTimeout
	c.mu.Unlock()

	return c.impl.Call(ctx, req, priority, timeout)
}

// SampleStatistics returns a snapshot of the shared ClientImpl's counters.
func (c *Client) SampleStatistics() ClientStatistics {
	return c.impl.Statistics()
}

// TransferIDCounter returns the transfer-ID counter shared by every proxy
// bound to the same ClientImpl. It remains readable after Close, since the
// counter itself is owned by the presentation-layer controller, not by any
// one proxy (SPEC_FULL.md SUPPLEMENTED FEATURES).
func (c *Client) TransferIDCounter() *TransferIDCounter {
	return c.impl.tidCounter
}

// InputSession returns the underlying inbound transport session. Remains
// readable after Close so callers can inspect its final statistics.
func (c *Client) InputSession() InputSession {
	return c.impl.input
}

// OutputSession returns the underlying outbound transport session. Remains
// readable after Close so callers can inspect its final statistics.
func (c *Client) OutputSession() OutputSession {
	return c.impl.output
}

// Close removes this proxy from the shared ClientImpl. Once every proxy
// bound to a ClientImpl has closed, the ClientImpl itself closes and its
// sessions are handed to the Finalizer (spec.md §4.4). Close is idempotent.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		c.impl.RemoveProxy()
	})
}
