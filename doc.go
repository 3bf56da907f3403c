// Package presentation implements the client side of a UAVCAN
// presentation-layer request/response exchange: correlating outgoing
// requests with incoming responses by transfer-ID, multiplexing many
// concurrent calls over one outbound and one inbound transport session, and
// tolerating lost responses, duplicate transfer-IDs and malformed payloads
// without taking the whole session down.
//
// The transport itself - frames, sessions, DSDL serialization - is supplied
// by the caller through the OutputSession, InputSession and Codec
// interfaces; this package owns only the correlation state machine
// (ClientImpl) and the per-caller proxy handle (Client) built on top of it.
// The internal/memtransport and internal/simplecodec packages provide
// minimal in-process implementations of those interfaces for tests and
// examples; they are not meant for production use against a real bus.
package presentation
