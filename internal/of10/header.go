// Package of10 implements the OpenFlow 1.0 wire codec: the fixed
// 8-byte message header, the flow-match and action taxonomies, and the
// switch<->controller message variants built on top of them.
package of10

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

// MessageType is the OpenFlow header's type discriminant (canonical
// OpenFlow 1.0 assignments).
type MessageType uint8

const (
	TypeHello                 MessageType = 0
	TypeError                 MessageType = 1
	TypeEchoRequest           MessageType = 2
	TypeEchoReply             MessageType = 3
	TypeVendor                MessageType = 4
	TypeFeaturesRequest       MessageType = 5
	TypeFeaturesReply         MessageType = 6
	TypeGetConfigRequest      MessageType = 7
	TypeGetConfigReply        MessageType = 8
	TypeSetConfig             MessageType = 9
	TypePacketIn              MessageType = 10
	TypeFlowRemoved           MessageType = 11
	TypePortStatus            MessageType = 12
	TypePacketOut             MessageType = 13
	TypeFlowMod               MessageType = 14
	TypePortMod               MessageType = 15
	TypeStatsRequest          MessageType = 16
	TypeStatsReply            MessageType = 17
	TypeBarrierRequest        MessageType = 18
	TypeBarrierReply          MessageType = 19
	TypeQueueGetConfigRequest MessageType = 20
	TypeQueueGetConfigReply   MessageType = 21
)

func (t MessageType) String() string {
	switch t {
	case TypeHello:
		return "Hello"
	case TypeError:
		return "Error"
	case TypeEchoRequest:
		return "EchoRequest"
	case TypeEchoReply:
		return "EchoReply"
	case TypeVendor:
		return "Vendor"
	case TypeFeaturesRequest:
		return "FeaturesRequest"
	case TypeFeaturesReply:
		return "FeaturesReply"
	case TypeGetConfigRequest:
		return "GetConfigRequest"
	case TypeGetConfigReply:
		return "GetConfigReply"
	case TypeSetConfig:
		return "SetConfig"
	case TypePacketIn:
		return "PacketIn"
	case TypeFlowRemoved:
		return "FlowRemoved"
	case TypePortStatus:
		return "PortStatus"
	case TypePacketOut:
		return "PacketOut"
	case TypeFlowMod:
		return "FlowMod"
	case TypePortMod:
		return "PortMod"
	case TypeStatsRequest:
		return "StatsRequest"
	case TypeStatsReply:
		return "StatsReply"
	case TypeBarrierRequest:
		return "BarrierRequest"
	case TypeBarrierReply:
		return "BarrierReply"
	case TypeQueueGetConfigRequest:
		return "QueueGetConfigRequest"
	case TypeQueueGetConfigReply:
		return "QueueGetConfigReply"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// TransactionID correlates requests with replies across a connection.
type TransactionID uint32

// Header is the fixed 8-byte prefix of every OpenFlow message.
type Header struct {
	Version uint8
	Type    MessageType
	Length  uint16
	Xid     TransactionID
}

// decodeHeader parses the 8-byte header and validates version and
// length sanity, but does not validate Type against the enumerated
// set (callers dispatch on it and report UnknownMessageType
// themselves, since the valid range depends on direction).
func decodeHeader(buf []byte) (Header, []byte, error) {
	r := byteio.NewReader(buf)

	ver, err := r.ReadU8()
	if err != nil {
		return Header{}, nil, fmt.Errorf("read version: %w", ErrTruncated)
	}
	if ver != Version {
		return Header{}, nil, fmt.Errorf("version %#x: %w", ver, ErrVersionMismatch)
	}

	typ, err := r.ReadU8()
	if err != nil {
		return Header{}, nil, fmt.Errorf("read type: %w", ErrTruncated)
	}

	length, err := r.ReadU16()
	if err != nil {
		return Header{}, nil, fmt.Errorf("read length: %w", ErrTruncated)
	}
	if length < MinMessageLen {
		return Header{}, nil, fmt.Errorf("length %d < %d: %w", length, MinMessageLen, ErrLengthInconsistent)
	}

	xid, err := r.ReadU32()
	if err != nil {
		return Header{}, nil, fmt.Errorf("read xid: %w", ErrTruncated)
	}

	bodyLen := int(length) - HeaderLen
	body, err := r.ReadBytes(bodyLen)
	if err != nil {
		return Header{}, nil, fmt.Errorf("read body (%d bytes): %w", bodyLen, ErrTruncated)
	}

	hdr := Header{Version: ver, Type: MessageType(typ), Length: length, Xid: TransactionID(xid)}
	return hdr, body, nil
}

// encodeHeader writes the 8-byte header with a placeholder length into
// w, returning the offset to back-patch once the body has been
// emitted.
func encodeHeader(w *byteio.Writer, typ MessageType, xid TransactionID) int {
	w.WriteU8(Version)
	w.WriteU8(uint8(typ))
	lenOff := w.Reserve(2)
	w.WriteU32(uint32(xid))
	return lenOff
}

// finishMessage back-patches the length field of a message started
// with encodeHeader.
func finishMessage(w *byteio.Writer, lenOff int) []byte {
	w.PatchU16(lenOff, uint16(w.Len()))
	return w.Bytes()
}
