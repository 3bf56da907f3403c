// Copyright (C) 2024  wwhai
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, see <https://www.gnu.org/licenses/>.

// Package memtransport is an in-process, channel-based implementation of
// presentation.OutputSession/InputSession used by tests and examples. It is
// not a UAVCAN transport: it exists only so ClientImpl, Sender and Receiver
// can be exercised end-to-end without a real bus.
//
// Adapted from the teacher's TCPTransporter (atomic closed flag,
// shutdownCh/sync.Once one-shot close, deadline-bounded send/receive) and
// FreeFrameTransport (raw frame send/receive with independent read/write
// timeouts), generalized from a net.Conn byte stream to a Go channel of
// already-framed transfers.
package memtransport

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wwhai/uavcan-presentation"
)

// Config configures a Link, mirroring the shape of the teacher's
// TCPTransporterConfig/KeepAliveConfig option structs.
type Config struct {
	// BufferSize is the channel capacity between the two ends. Zero means
	// unbuffered (every SendUntil blocks until a ReceiveUntil is waiting).
	BufferSize int
}

// DefaultConfig mirrors DefaultTCPTransporterConfig's role: a sane default
// for tests that don't care about tuning.
func DefaultConfig() Config {
	return Config{BufferSize: 16}
}

// Link is a full-duplex pair of sessions: sending on the Output delivers to
// the peer's Input, and vice versa. NewPair wires two independent Links so
// a "client side" and "server side" can be driven separately.
type Link struct {
	Output *Output
	Input  *Input
}

// NewPair builds two cross-wired Links: anything sent on a.Output arrives on
// b.Input, and anything sent on b.Output arrives on a.Input. This is the
// shape a ClientImpl needs: its own Output/Input session pair, with a test
// harness playing "the server" on the other Link.
func NewPair(cfg Config) (client, server *Link) {
	clientToServer := make(chan presentation.TransferFrom, cfg.BufferSize)
	serverToClient := make(chan presentation.TransferFrom, cfg.BufferSize)

	client = &Link{
		Output: newOutput(clientToServer, 0),
		Input:  newInput(serverToClient),
	}
	server = &Link{
		Output: newOutput(serverToClient, 0),
		Input:  newInput(clientToServer),
	}
	return client, server
}

// Close closes both sessions of the link.
func (l *Link) Close() error {
	_ = l.Output.Close()
	return l.Input.Close()
}

// Output implements presentation.OutputSession by posting framed transfers
// onto a channel read by the peer's Input.
type Output struct {
	mu           sync.RWMutex
	ch           chan<- presentation.TransferFrom
	sourceNodeID presentation.NodeID
	closed       atomic.Bool
	shutdownCh   chan struct{}
	shutdownOnce sync.Once

	sent atomic.Uint64
}

func newOutput(ch chan<- presentation.TransferFrom, sourceNodeID presentation.NodeID) *Output {
	return &Output{ch: ch, sourceNodeID: sourceNodeID, shutdownCh: make(chan struct{})}
}

// SendUntil posts transfer to the peer, blocking at most until deadline.
// Returns true iff the peer's channel accepted it before the deadline.
func (o *Output) SendUntil(ctx context.Context, transfer presentation.Transfer, deadline time.Time) (bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed.Load() {
		return false, fmt.Errorf("memtransport: output session closed")
	}

	tf := presentation.TransferFrom{Transfer: transfer, SourceNodeID: o.sourceNodeID}

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case o.ch <- tf:
		o.sent.Add(1)
		return true, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	case <-o.shutdownCh:
		return false, fmt.Errorf("memtransport: output session closed")
	}
}

func (o *Output) SampleStatistics() presentation.SessionStatistics {
	return presentation.SessionStatistics{
		Transfers:   o.sent.Load(),
		Description: "memtransport output",
	}
}

func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed.CompareAndSwap(false, true) {
		return nil
	}
	o.shutdownOnce.Do(func() { close(o.shutdownCh) })
	return nil
}

// Input implements presentation.InputSession by reading framed transfers
// posted by the peer's Output.
type Input struct {
	mu           sync.RWMutex
	ch           <-chan presentation.TransferFrom
	closed       atomic.Bool
	shutdownCh   chan struct{}
	shutdownOnce sync.Once

	received atomic.Uint64
}

func newInput(ch <-chan presentation.TransferFrom) *Input {
	return &Input{ch: ch, shutdownCh: make(chan struct{})}
}

// ReceiveUntil blocks until a transfer arrives or deadline elapses. A nil
// result with a nil error means the deadline elapsed, matching
// presentation.InputSession's contract.
func (in *Input) ReceiveUntil(ctx context.Context, deadline time.Time) (*presentation.TransferFrom, error) {
	in.mu.RLock()
	defer in.mu.RUnlock()

	if in.closed.Load() {
		return nil, fmt.Errorf("memtransport: input session closed")
	}

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case tf := <-in.ch:
		in.received.Add(1)
		return &tf, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-in.shutdownCh:
		return nil, nil
	}
}

func (in *Input) SampleStatistics() presentation.SessionStatistics {
	return presentation.SessionStatistics{
		Transfers:   in.received.Load(),
		Description: "memtransport input",
	}
}

func (in *Input) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.closed.CompareAndSwap(false, true) {
		return nil
	}
	in.shutdownOnce.Do(func() { close(in.shutdownCh) })
	return nil
}

// Checksum computes the Modbus-style CRC16 of data. Not used by the
// transport logic itself (UAVCAN transfer integrity is a transport-layer
// concern out of this library's scope); kept as a small corruption helper
// for tests that need to produce a structurally-broken frame to exercise
// DeserializationFailure handling. Adapted from the teacher's CRC16
// (enhancement-utils.go).
func Checksum(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&0x0001 != 0 {
				crc >>= 1
				crc ^= 0xA001
			} else {
				crc >>= 1
			}
		}
	}
	return (crc&0xFF)<<8 | (crc>>8)&0xFF
}
