package presentation

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// receiveTimeout bounds every single ReceiveUntil poll so the receiver loop
// can notice context cancellation promptly instead of blocking forever on a
// quiet bus. Mirrors the original's _RECEIVE_TIMEOUT = 1 (seconds) in
// _client.py; the exact figure is a tradeoff between shutdown latency and
// busy-polling, not a protocol requirement.
const receiveTimeout = 1 * time.Second

// receiver is the long-running correlation loop bound to one ClientImpl's
// inbound session. It owns nothing but the InputSession and the shared
// PendingTable; ClientImpl decides what happens once run returns.
//
// Grounded in the teacher's read loop (TCPTransporter's background reader
// pulling framed PDUs off the wire and matching them to the outstanding
// transaction by ID), generalized from a single in-flight Modbus
// transaction to a PendingTable of many concurrent transfer-IDs, per
// spec.md §4.3.
type receiver struct {
	who          fmt.Stringer
	input        InputSession
	responseZero any // zero value of the declared response type, for TryDeserialize
	codec        Codec
	locker       sync.Locker
	pending      *PendingTable
	stats        *statistics
	logger       *Logger
}

func newReceiver(who fmt.Stringer, input InputSession, responseZero any, codec Codec, locker sync.Locker, pending *PendingTable, stats *statistics, logger *Logger) *receiver {
	return &receiver{
		who:          who,
		input:        input,
		responseZero: responseZero,
		codec:        codec,
		locker:       locker,
		pending:      pending,
		stats:        stats,
		logger:       logger,
	}
}

// run polls the InputSession until ctx is cancelled or the transport
// reports a fatal error, correlating every arriving transfer against the
// PendingTable. It returns nil on a clean ctx-cancelled shutdown and a
// non-nil error on a fatal receive failure (spec.md §4.3's FatalReceiver),
// the signal ClientImpl uses to begin its one-shot close sequence.
func (r *receiver) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		tf, err := r.input.ReceiveUntil(ctx, time.Now().Add(receiveTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if r.logger != nil {
				r.logger.Errorw("receiver: fatal transport error", "who", r.who.String(), "err", err)
			}
			return fmt.Errorf("%s: receiver: %w", r.who, err)
		}
		if tf == nil {
			continue // poll timed out, no transfer arrived; loop and recheck ctx
		}

		r.correlate(*tf)
	}
}

// correlate deserializes one inbound transfer and, if it matches an
// outstanding request, completes that request's slot. Deserialization
// failures and responses with no matching pending request are counted, not
// propagated (spec.md §7).
func (r *receiver) correlate(tf TransferFrom) {
	resp, ok := r.codec.TryDeserialize(r.responseZero, tf.Payload)
	if !ok {
		r.stats.deserializationFailures.Add(1)
		if r.logger != nil {
			r.logger.Debugw("receiver: deserialization failure", "who", r.who.String(), "transferID", tf.TransferID)
		}
		return
	}

	r.locker.Lock()
	slot, found := r.pending.Take(tf.TransferID)
	r.locker.Unlock()

	if !found {
		r.stats.unexpectedResponses.Add(1)
		if r.logger != nil {
			r.logger.Infow("receiver: unexpected response", "who", r.who.String(), "transferID", tf.TransferID)
		}
		return
	}

	slot <- completion{response: resp, meta: metadataOf(tf)}
}
