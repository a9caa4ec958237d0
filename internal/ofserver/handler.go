package ofserver

import (
	"errors"

	"github.com/flowforge/goflow10/internal/of10"
	"github.com/flowforge/goflow10/internal/packet"
)

// Handler receives one decoded switch-to-controller message at a time.
// The server calls Handler synchronously and in wire order for a given
// connection; it may be called concurrently across different
// connections. A Handler that blocks only stalls its own connection.
type Handler func(handle ConnHandle, xid of10.TransactionID, msg of10.SCMessage)

// errorKind classifies a decode/IO error into a stable label for metrics
// and logging. It covers both the message codec's errors (produced on
// the server's own dispatch path) and the packet codec's errors (for
// callers that decode a PacketIn's payload and want to record the
// result against the same counter). Unrecognized errors map to
// "io_error".
func errorKind(err error) string {
	switch {
	case errors.Is(err, of10.ErrTruncated):
		return "truncated"
	case errors.Is(err, of10.ErrVersionMismatch):
		return "version_mismatch"
	case errors.Is(err, of10.ErrUnknownMessageType):
		return "unknown_message_type"
	case errors.Is(err, of10.ErrMalformedTrailer):
		return "malformed_trailer"
	case errors.Is(err, of10.ErrInvalidEnum):
		return "invalid_enum"
	case errors.Is(err, of10.ErrLengthInconsistent):
		return "length_inconsistent"
	case errors.Is(err, packet.ErrUnknownEtherType):
		return "unknown_ether_type"
	case errors.Is(err, packet.ErrUnknownIPProtocol):
		return "unknown_ip_protocol"
	case errors.Is(err, packet.ErrInvalidARPOpcode):
		return "invalid_enum"
	default:
		return "io_error"
	}
}

// messageTypeName returns a stable label for metrics/logging describing
// the concrete SCMessage variant.
func messageTypeName(msg of10.SCMessage) string {
	switch msg.(type) {
	case of10.HelloMessage:
		return "Hello"
	case of10.EchoRequestMessage:
		return "EchoRequest"
	case of10.EchoReplyMessage:
		return "EchoReply"
	case of10.FeaturesMessage:
		return "Features"
	case of10.PacketInMessage:
		return "PacketIn"
	case of10.PortStatusMessage:
		return "PortStatus"
	case of10.FlowRemovedMessage:
		return "FlowRemoved"
	case of10.StatsReplyMessage:
		return "StatsReply"
	case of10.ErrorMessage:
		return "Error"
	case of10.BarrierReplyMessage:
		return "BarrierReply"
	case of10.QueueConfigReplyMessage:
		return "QueueConfigReply"
	case of10.GetConfigReplyMessage:
		return "GetConfigReply"
	case of10.VendorMessage:
		return "Vendor"
	default:
		return "Unknown"
	}
}
