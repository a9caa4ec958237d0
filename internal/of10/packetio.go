package of10

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

// PacketInReason classifies why a switch sent a captured packet to the
// controller.
type PacketInReason uint8

const (
	PacketInReasonNoMatch PacketInReason = 0
	PacketInReasonAction  PacketInReason = 1
)

func (r PacketInReason) String() string {
	switch r {
	case PacketInReasonNoMatch:
		return "NoMatch"
	case PacketInReasonAction:
		return "Action"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(r))
	}
}

// PacketInfo is the body of a PacketIn message.
type PacketInfo struct {
	BufferID  uint32
	TotalLen  uint16
	InPort    uint16
	Reason    PacketInReason
	Data      []byte
}

// DecodePacketInfo decodes a PacketIn body.
func DecodePacketInfo(buf []byte) (PacketInfo, error) {
	const fixedLen = 4 + 2 + 2 + 1 + 1
	if len(buf) < fixedLen {
		return PacketInfo{}, fmt.Errorf("packet_in body needs %d bytes, got %d: %w", fixedLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf)

	var p PacketInfo
	p.BufferID, _ = r.ReadU32()
	p.TotalLen, _ = r.ReadU16()
	p.InPort, _ = r.ReadU16()
	reason, err := r.ReadU8()
	if err != nil {
		return PacketInfo{}, fmt.Errorf("read reason: %w", err)
	}
	if reason > uint8(PacketInReasonAction) {
		return PacketInfo{}, invalidEnum("packet_in reason", int(reason))
	}
	p.Reason = PacketInReason(reason)
	r.Skip(1) // pad
	p.Data = r.Rest()

	return p, nil
}

// EncodePacketInfo serializes a PacketIn body.
func EncodePacketInfo(p PacketInfo) []byte {
	w := byteio.NewWriterSize(8 + len(p.Data))
	w.WriteU32(p.BufferID)
	w.WriteU16(p.TotalLen)
	w.WriteU16(p.InPort)
	w.WriteU8(uint8(p.Reason))
	w.WriteZero(1)
	w.WriteBytes(p.Data)
	return w.Bytes()
}

// PacketOut is the body of a controller->switch PacketOut message.
// When BufferID is NoBufferID, Data carries the payload to send;
// otherwise the switch supplies the payload from its buffer and Data
// MUST be empty.
type PacketOut struct {
	BufferID uint32
	InPort   uint16
	Actions  []Action
	Data     []byte
}

const packetOutFixedLen = 4 + 2 + 2 // buffer_id + in_port + actions_len

// DecodePacketOut decodes a PacketOut body.
func DecodePacketOut(buf []byte) (PacketOut, error) {
	if len(buf) < packetOutFixedLen {
		return PacketOut{}, fmt.Errorf("packet_out body needs %d bytes, got %d: %w", packetOutFixedLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:packetOutFixedLen])

	var p PacketOut
	p.BufferID, _ = r.ReadU32()
	p.InPort, _ = r.ReadU16()
	actionsLen, _ := r.ReadU16()

	rest := buf[packetOutFixedLen:]
	if int(actionsLen) > len(rest) {
		return PacketOut{}, fmt.Errorf("actions_len %d exceeds remaining %d: %w", actionsLen, len(rest), ErrLengthInconsistent)
	}

	actions, err := DecodeActionList(rest[:actionsLen])
	if err != nil {
		return PacketOut{}, fmt.Errorf("decode packet_out actions: %w", err)
	}
	p.Actions = actions

	if p.BufferID == NoBufferID {
		p.Data = rest[actionsLen:]
	} else if len(rest) > int(actionsLen) {
		return PacketOut{}, fmt.Errorf("packet_out with buffer_id set carries a payload trailer: %w", ErrMalformedTrailer)
	}

	return p, nil
}

// EncodePacketOut serializes a PacketOut body.
func EncodePacketOut(p PacketOut) []byte {
	actionsBuf := EncodeActionList(p.Actions)
	w := byteio.NewWriterSize(packetOutFixedLen + len(actionsBuf) + len(p.Data))
	w.WriteU32(p.BufferID)
	w.WriteU16(p.InPort)
	w.WriteU16(uint16(len(actionsBuf)))
	w.WriteBytes(actionsBuf)
	if p.BufferID == NoBufferID {
		w.WriteBytes(p.Data)
	}
	return w.Bytes()
}
