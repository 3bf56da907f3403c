package presentation

import "time"

// Priority is the UAVCAN transfer priority, lowest value wins arbitration.
// The eight levels mirror the UAVCAN presentation layer's Priority enum.
type Priority uint8

const (
	PriorityExceptional Priority = iota
	PriorityImmediate
	PriorityFast
	PriorityHigh
	PriorityNominal
	PriorityLow
	PrioritySlow
	PriorityOptional
)

func (p Priority) String() string {
	switch p {
	case PriorityExceptional:
		return "exceptional"
	case PriorityImmediate:
		return "immediate"
	case PriorityFast:
		return "fast"
	case PriorityHigh:
		return "high"
	case PriorityNominal:
		return "nominal"
	case PriorityLow:
		return "low"
	case PrioritySlow:
		return "slow"
	case PriorityOptional:
		return "optional"
	default:
		return "unknown"
	}
}

// DefaultPriority and DefaultResponseTimeout are the values a freshly
// constructed Client proxy starts with, per spec.md §4.4.
const (
	DefaultPriority        = PriorityNominal
	DefaultResponseTimeout = 1 * time.Second
)

// NodeID identifies a node on the bus. A restricted range is transport
// specific and is not validated here.
type NodeID uint32

// Fragments is a payload split into transport-sized pieces, matching the
// DSDL codec's serialize() contract (an iterable of byte fragments).
type Fragments [][]byte

// Transfer is one outbound logical message, built by the Sender and handed
// to the OutputSession.
type Transfer struct {
	Timestamp  time.Time
	Priority   Priority
	TransferID uint64
	Payload    Fragments
}

// TransferFrom is one inbound logical message, as read from the
// InputSession. It carries everything the Receiver needs to deserialize
// the payload and correlate it with a pending request.
type TransferFrom struct {
	Transfer
	SourceNodeID NodeID
}

// TransferMetadata is what a successful Call returns alongside the typed
// response: everything about the inbound transfer except the payload
// itself, which has already been deserialized by then.
type TransferMetadata struct {
	Timestamp    time.Time
	Priority     Priority
	TransferID   uint64
	SourceNodeID NodeID
}

func metadataOf(t TransferFrom) TransferMetadata {
	return TransferMetadata{
		Timestamp:    t.Timestamp,
		Priority:     t.Priority,
		TransferID:   t.TransferID,
		SourceNodeID: t.SourceNodeID,
	}
}
