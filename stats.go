package presentation

import "sync/atomic"

// statistics are the monotonic counters ClientImpl maintains (spec.md §3).
// Go's scheduler is preemptive, unlike the source's single-threaded
// cooperative one, so these use atomics rather than the bare increments the
// original relies on (spec.md §5's "no atomic primitives required given
// single-thread scheduling" does not hold for a Go goroutine-based port).
type statistics struct {
	sentRequests            atomic.Uint64
	unsentRequests          atomic.Uint64
	deserializationFailures atomic.Uint64
	unexpectedResponses     atomic.Uint64
}

// ClientStatistics is the snapshot returned to callers, combining the
// ClientImpl counters with the two transport sessions' own statistics - the
// original's ClientStatistics dataclass nests exactly these fields
// (original_source/pyuavcan/presentation/_port/_client.py).
type ClientStatistics struct {
	RequestSession          SessionStatistics
	ResponseSession         SessionStatistics
	SentRequests            uint64
	UnsentRequests          uint64
	DeserializationFailures uint64
	UnexpectedResponses     uint64
}

func (s *statistics) snapshot(req, resp SessionStatistics) ClientStatistics {
	return ClientStatistics{
		RequestSession:          req,
		ResponseSession:         resp,
		SentRequests:            s.sentRequests.Load(),
		UnsentRequests:          s.unsentRequests.Load(),
		DeserializationFailures: s.deserializationFailures.Load(),
		UnexpectedResponses:     s.unexpectedResponses.Load(),
	}
}
