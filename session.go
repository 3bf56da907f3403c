package presentation

import (
	"context"
	"time"
)

// SessionStatistics mirrors the counters a transport session is expected to
// expose via sample_statistics() in spec.md §6. The concrete fields are
// transport specific; this library only forwards the value it is given.
type SessionStatistics struct {
	Transfers   uint64
	Frames      uint64
	Payload     uint64
	Errors      uint64
	Overruns    uint64
	Description string
}

// OutputSession is the subset of a transport-layer output session this
// library consumes. Implementations are supplied by the presentation-layer
// controller; this library never constructs one. See spec.md §6.
type OutputSession interface {
	// SendUntil attempts to emit transfer, blocking at most until
	// deadline. It returns true iff the transport accepted the transfer
	// before the deadline elapsed.
	SendUntil(ctx context.Context, transfer Transfer, deadline time.Time) (bool, error)
	SampleStatistics() SessionStatistics
	Close() error
}

// InputSession is the subset of a transport-layer input session this
// library consumes.
type InputSession interface {
	// ReceiveUntil blocks until a transfer arrives or deadline elapses.
	// A nil TransferFrom with a nil error means the deadline elapsed
	// without a transfer, matching spec.md §6's Option<TransferFrom>.
	ReceiveUntil(ctx context.Context, deadline time.Time) (*TransferFrom, error)
	SampleStatistics() SessionStatistics
	Close() error
}

// Session is the minimal surface the Finalizer needs: something that can be
// closed.
type Session interface {
	Close() error
}

// Codec is the DSDL serialization collaborator consumed from the
// presentation layer (spec.md §6). It is deliberately untyped (any) because
// ClientImpl and the Client proxy are untyped; this package provides no
// generic typed wrapper over Client.Call.
type Codec interface {
	// Serialize encodes obj into wire fragments.
	Serialize(obj any) (Fragments, error)
	// TryDeserialize decodes fragments into a value of the type that
	// sample indicates (sample is typically a zero value or pointer used
	// only to carry type information). It returns (nil, false) on any
	// structural failure, never an error - structural failures are a
	// normal, counted occurrence (spec.md §7, DeserializationFailure).
	TryDeserialize(sample any, fragments Fragments) (any, bool)
}

// ModulusSource returns the transfer-ID modulus currently in effect. It is
// evaluated fresh on every call because the transport may be reconfigured
// at runtime (spec.md §3, §9).
type ModulusSource func() uint64

// Finalizer is invoked exactly once when a ClientImpl closes. It is
// responsible for closing the given sessions and removing the ClientImpl
// from whatever session-specifier registry the presentation layer keeps
// (spec.md §6).
type Finalizer func(sessions []Session)

// ServiceType names the request/response pair a ClientImpl was created
// for, used by the Sender to validate the caller's request object
// (spec.md §4.2, TypeMismatch).
type ServiceType struct {
	ID      uint16
	Request any // zero value of the declared request type
}
