package presentation

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

// sender validates, serializes and transmits one request. It is the Go
// shape of the original's ClientImpl._do_send_until: a small struct holding
// only the service type, codec and output session, with a send method
// taking everything else as arguments, so it does not need a full
// ClientImpl.
//
// Grounded in the teacher's write path (TCPTransporter.Send/WriteRequest
// building a framed PDU from a validated request before handing it to the
// wire), generalized from a fixed Modbus PDU to a Codec-serialized Fragments
// payload.
type sender struct {
	serviceType ServiceType
	codec       Codec
	output      OutputSession
}

func newSender(serviceType ServiceType, codec Codec, output OutputSession) *sender {
	return &sender{serviceType: serviceType, codec: codec, output: output}
}

// send validates req's runtime type against the declared service request
// type, serializes it, stamps priority and transferID, and hands the
// resulting Transfer to the OutputSession. Returns (true, nil) if the
// transport accepted the transfer before deadline, (false, nil) if the
// deadline elapsed (spec.md §4.2's UnsentRequest, not an error), or
// (false, err) for a TypeMismatch or a serialization error; for the send
// itself it returns whatever the OutputSession returns.
func (s *sender) send(ctx context.Context, who fmt.Stringer, req any, priority Priority, transferID uint64, deadline time.Time) (bool, error) {
	if !sameType(req, s.serviceType.Request) {
		return false, typeMismatchError(who, s.serviceType.Request, req)
	}

	fragments, err := s.codec.Serialize(req)
	if err != nil {
		return false, fmt.Errorf("%s: serialize request: %w", who, err)
	}

	transfer := Transfer{
		Timestamp:  time.Now(),
		Priority:   priority,
		TransferID: transferID,
		Payload:    fragments,
	}

	return s.output.SendUntil(ctx, transfer, deadline)
}

func sameType(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}
