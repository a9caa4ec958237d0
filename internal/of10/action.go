package of10

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

// ActionType is the 16-bit type field of an action's 4-byte header.
type ActionType uint16

const (
	ActionTypeOutput          ActionType = 0
	ActionTypeSetVlanVid      ActionType = 1
	ActionTypeSetVlanPcp      ActionType = 2
	ActionTypeStripVlanHeader ActionType = 3
	ActionTypeSetDlSrc        ActionType = 4
	ActionTypeSetDlDst        ActionType = 5
	ActionTypeSetNwSrc        ActionType = 6
	ActionTypeSetNwDst        ActionType = 7
	ActionTypeSetNwTos        ActionType = 8
	ActionTypeSetTpSrc        ActionType = 9
	ActionTypeSetTpDst        ActionType = 10
	ActionTypeEnqueue         ActionType = 11
	ActionTypeVendor          ActionType = 0xFFFF
)

const actionHeaderLen = 4

// Action is a tagged variant over the OpenFlow 1.0 action set.
// Implementations are the *Action types below.
type Action interface {
	isAction()
}

// OutputAction sends the matched packet out Port, or to the
// controller (port OFPP_CONTROLLER) capped at MaxLen bytes.
type OutputAction struct {
	Port   uint16
	MaxLen uint16
}

func (OutputAction) isAction() {}

// SetVlanVidAction rewrites the 802.1Q VLAN id.
type SetVlanVidAction struct {
	VlanID uint16
}

func (SetVlanVidAction) isAction() {}

// SetVlanPcpAction rewrites the 802.1Q priority bits.
type SetVlanPcpAction struct {
	Pcp uint8
}

func (SetVlanPcpAction) isAction() {}

// StripVlanHeaderAction removes the 802.1Q tag. It carries no fields.
type StripVlanHeaderAction struct{}

func (StripVlanHeaderAction) isAction() {}

// SetDlSrcAction rewrites the Ethernet source MAC.
type SetDlSrcAction struct {
	Addr [6]byte
}

func (SetDlSrcAction) isAction() {}

// SetDlDstAction rewrites the Ethernet destination MAC.
type SetDlDstAction struct {
	Addr [6]byte
}

func (SetDlDstAction) isAction() {}

// SetNwSrcAction rewrites the IPv4 source address.
type SetNwSrcAction struct {
	Addr uint32
}

func (SetNwSrcAction) isAction() {}

// SetNwDstAction rewrites the IPv4 destination address.
type SetNwDstAction struct {
	Addr uint32
}

func (SetNwDstAction) isAction() {}

// SetNwTosAction rewrites the IPv4 ToS/DSCP byte.
type SetNwTosAction struct {
	Tos uint8
}

func (SetNwTosAction) isAction() {}

// SetTpSrcAction rewrites the TCP/UDP source port.
type SetTpSrcAction struct {
	Port uint16
}

func (SetTpSrcAction) isAction() {}

// SetTpDstAction rewrites the TCP/UDP destination port.
type SetTpDstAction struct {
	Port uint16
}

func (SetTpDstAction) isAction() {}

// EnqueueAction directs the matched packet to a specific queue on a port.
type EnqueueAction struct {
	Port    uint16
	QueueID uint32
}

func (EnqueueAction) isAction() {}

// VendorAction carries an experimenter-defined action verbatim.
type VendorAction struct {
	VendorID uint32
	Data     []byte
}

func (VendorAction) isAction() {}

// DecodeActionList decodes a homogeneous sequence of actions filling
// buf exactly. Every action's (type, len) header drives how
// far the reader advances, even for action types this codec does not
// model field-by-field (VendorAction).
func DecodeActionList(buf []byte) ([]Action, error) {
	var actions []Action
	for len(buf) > 0 {
		action, consumed, err := decodeOneAction(buf)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
		buf = buf[consumed:]
	}
	return actions, nil
}

func decodeOneAction(buf []byte) (Action, int, error) {
	if len(buf) < actionHeaderLen {
		return nil, 0, fmt.Errorf("action header needs %d bytes, got %d: %w", actionHeaderLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf)
	typ, _ := r.ReadU16()
	length, err := r.ReadU16()
	if err != nil {
		return nil, 0, fmt.Errorf("read action length: %w", err)
	}
	if int(length) < actionHeaderLen || int(length) > len(buf) {
		return nil, 0, fmt.Errorf("action length %d exceeds remaining %d: %w", length, len(buf), ErrLengthInconsistent)
	}
	body := buf[actionHeaderLen:length]

	action, err := decodeActionBody(ActionType(typ), body)
	if err != nil {
		return nil, 0, err
	}
	return action, int(length), nil
}

func decodeActionBody(typ ActionType, body []byte) (Action, error) {
	r := byteio.NewReader(body)
	switch typ {
	case ActionTypeOutput:
		port, _ := r.ReadU16()
		maxLen, _ := r.ReadU16()
		return OutputAction{Port: port, MaxLen: maxLen}, nil
	case ActionTypeSetVlanVid:
		vid, _ := r.ReadU16()
		return SetVlanVidAction{VlanID: vid}, nil
	case ActionTypeSetVlanPcp:
		pcp, _ := r.ReadU8()
		return SetVlanPcpAction{Pcp: pcp}, nil
	case ActionTypeStripVlanHeader:
		return StripVlanHeaderAction{}, nil
	case ActionTypeSetDlSrc:
		addr, _ := r.ReadBytes(6)
		var a [6]byte
		copy(a[:], addr)
		return SetDlSrcAction{Addr: a}, nil
	case ActionTypeSetDlDst:
		addr, _ := r.ReadBytes(6)
		var a [6]byte
		copy(a[:], addr)
		return SetDlDstAction{Addr: a}, nil
	case ActionTypeSetNwSrc:
		addr, _ := r.ReadU32()
		return SetNwSrcAction{Addr: addr}, nil
	case ActionTypeSetNwDst:
		addr, _ := r.ReadU32()
		return SetNwDstAction{Addr: addr}, nil
	case ActionTypeSetNwTos:
		tos, _ := r.ReadU8()
		return SetNwTosAction{Tos: tos}, nil
	case ActionTypeSetTpSrc:
		port, _ := r.ReadU16()
		return SetTpSrcAction{Port: port}, nil
	case ActionTypeSetTpDst:
		port, _ := r.ReadU16()
		return SetTpDstAction{Port: port}, nil
	case ActionTypeEnqueue:
		port, _ := r.ReadU16()
		r.Skip(6) // pad
		queueID, _ := r.ReadU32()
		return EnqueueAction{Port: port, QueueID: queueID}, nil
	case ActionTypeVendor:
		vendorID, _ := r.ReadU32()
		return VendorAction{VendorID: vendorID, Data: r.Rest()}, nil
	default:
		// Unknown action types still advance by their declared length
		// (handled by the caller); surface the raw body as a vendor-shaped
		// blob rather than failing the whole list.
		return VendorAction{VendorID: uint32(typ), Data: r.Rest()}, nil
	}
}

// EncodeAction serializes a single action, including its 4-byte
// header. Fixed-size actions are padded to their 8- or 16-byte wire
// size; a VendorAction is written unpadded, with length
// 8 + len(Data).
func EncodeAction(a Action) []byte {
	w := byteio.NewWriter()

	switch act := a.(type) {
	case OutputAction:
		writeActionHeader(w, ActionTypeOutput, 8)
		w.WriteU16(act.Port)
		w.WriteU16(act.MaxLen)
	case SetVlanVidAction:
		writeActionHeader(w, ActionTypeSetVlanVid, 8)
		w.WriteU16(act.VlanID)
		w.WriteZero(2)
	case SetVlanPcpAction:
		writeActionHeader(w, ActionTypeSetVlanPcp, 8)
		w.WriteU8(act.Pcp)
		w.WriteZero(3)
	case StripVlanHeaderAction:
		writeActionHeader(w, ActionTypeStripVlanHeader, 8)
		w.WriteZero(4)
	case SetDlSrcAction:
		writeActionHeader(w, ActionTypeSetDlSrc, 16)
		w.WriteBytes(act.Addr[:])
		w.WriteZero(6)
	case SetDlDstAction:
		writeActionHeader(w, ActionTypeSetDlDst, 16)
		w.WriteBytes(act.Addr[:])
		w.WriteZero(6)
	case SetNwSrcAction:
		writeActionHeader(w, ActionTypeSetNwSrc, 8)
		w.WriteU32(act.Addr)
	case SetNwDstAction:
		writeActionHeader(w, ActionTypeSetNwDst, 8)
		w.WriteU32(act.Addr)
	case SetNwTosAction:
		writeActionHeader(w, ActionTypeSetNwTos, 8)
		w.WriteU8(act.Tos)
		w.WriteZero(3)
	case SetTpSrcAction:
		writeActionHeader(w, ActionTypeSetTpSrc, 8)
		w.WriteU16(act.Port)
		w.WriteZero(2)
	case SetTpDstAction:
		writeActionHeader(w, ActionTypeSetTpDst, 8)
		w.WriteU16(act.Port)
		w.WriteZero(2)
	case EnqueueAction:
		writeActionHeader(w, ActionTypeEnqueue, 16)
		w.WriteU16(act.Port)
		w.WriteZero(6)
		w.WriteU32(act.QueueID)
	case VendorAction:
		length := actionHeaderLen + 4 + len(act.Data)
		writeActionHeader(w, ActionTypeVendor, uint16(length))
		w.WriteU32(act.VendorID)
		w.WriteBytes(act.Data)
	}

	return w.Bytes()
}

func writeActionHeader(w *byteio.Writer, typ ActionType, length uint16) {
	w.WriteU16(uint16(typ))
	w.WriteU16(length)
}

// EncodeActionList concatenates the wire encoding of every action in order.
func EncodeActionList(actions []Action) []byte {
	w := byteio.NewWriter()
	for _, a := range actions {
		w.WriteBytes(EncodeAction(a))
	}
	return w.Bytes()
}
