package of10

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

// SCMessage is a switch->controller message: a tagged variant over
// the taxonomy below. A flat type switch on Decode's discriminant is
// preferred here over per-variant polymorphic dispatch.
type SCMessage interface {
	isSCMessage()
}

type HelloMessage struct{}

func (HelloMessage) isSCMessage() {}
func (HelloMessage) isCSMessage() {}

type EchoRequestMessage struct{ Payload []byte }

func (EchoRequestMessage) isSCMessage() {}
func (EchoRequestMessage) isCSMessage() {}

type EchoReplyMessage struct{ Payload []byte }

func (EchoReplyMessage) isSCMessage() {}
func (EchoReplyMessage) isCSMessage() {}

type FeaturesMessage struct{ Features SwitchFeatures }

func (FeaturesMessage) isSCMessage() {}

type PacketInMessage struct{ PacketIn PacketInfo }

func (PacketInMessage) isSCMessage() {}

type PortStatusMessage struct{ PortStatus PortStatus }

func (PortStatusMessage) isSCMessage() {}

type FlowRemovedMessage struct{ FlowRemoved FlowRemoved }

func (FlowRemovedMessage) isSCMessage() {}

type StatsReplyMessage struct{ StatsReply StatsReply }

func (StatsReplyMessage) isSCMessage() {}

type ErrorMessage struct{ Error SwitchError }

func (ErrorMessage) isSCMessage() {}
func (ErrorMessage) isCSMessage() {}

type BarrierReplyMessage struct{}

func (BarrierReplyMessage) isSCMessage() {}

type QueueConfigReplyMessage struct{ Reply QueueConfigReply }

func (QueueConfigReplyMessage) isSCMessage() {}

// CSMessage is a controller->switch message: a tagged variant over
// the taxonomy below.
type CSMessage interface {
	isCSMessage()
}

type FeaturesRequestMessage struct{}

func (FeaturesRequestMessage) isCSMessage() {}

type PacketOutMessage struct{ PacketOut PacketOut }

func (PacketOutMessage) isCSMessage() {}

type FlowModMessage struct{ FlowMod FlowMod }

func (FlowModMessage) isCSMessage() {}

type PortModMessage struct{ PortMod PortMod }

func (PortModMessage) isCSMessage() {}

type StatsRequestMessage struct{ StatsRequest StatsRequest }

func (StatsRequestMessage) isCSMessage() {}

type BarrierRequestMessage struct{}

func (BarrierRequestMessage) isCSMessage() {}

type SetConfigMessage struct{ Config SwitchConfig }

func (SetConfigMessage) isCSMessage() {}

type ExtQueueModifyMessage struct{ Op ExtQueueOp }

func (ExtQueueModifyMessage) isCSMessage() {}

type ExtQueueDeleteMessage struct{ Op ExtQueueOp }

func (ExtQueueDeleteMessage) isCSMessage() {}

type VendorMessage struct{ Data []byte }

func (VendorMessage) isSCMessage() {}
func (VendorMessage) isCSMessage() {}

type GetQueueConfigMessage struct{ Request QueueConfigRequest }

func (GetQueueConfigMessage) isCSMessage() {}

// GetConfigRequestMessage (controller->switch) has no body of its own;
// GetConfigReplyMessage (switch->controller) carries the same
// SwitchConfig body as SetConfigMessage.
type GetConfigRequestMessage struct{}

func (GetConfigRequestMessage) isCSMessage() {}

type GetConfigReplyMessage struct{ Config SwitchConfig }

func (GetConfigReplyMessage) isSCMessage() {}

// DecodeSC decodes a single switch->controller message from a
// complete, header-length-delimited buffer (as produced by the
// connection framer).
func DecodeSC(buf []byte) (TransactionID, SCMessage, error) {
	hdr, body, err := decodeHeader(buf)
	if err != nil {
		return 0, nil, err
	}

	msg, err := decodeSCBody(hdr.Type, body)
	if err != nil {
		return hdr.Xid, nil, fmt.Errorf("decode %s body: %w", hdr.Type, err)
	}
	return hdr.Xid, msg, nil
}

func decodeSCBody(typ MessageType, body []byte) (SCMessage, error) {
	switch typ {
	case TypeHello:
		return HelloMessage{}, nil
	case TypeEchoRequest:
		return EchoRequestMessage{Payload: body}, nil
	case TypeEchoReply:
		return EchoReplyMessage{Payload: body}, nil
	case TypeFeaturesReply:
		f, err := DecodeSwitchFeatures(body)
		if err != nil {
			return nil, err
		}
		return FeaturesMessage{Features: f}, nil
	case TypeGetConfigReply:
		c, err := DecodeSwitchConfig(body)
		if err != nil {
			return nil, err
		}
		return GetConfigReplyMessage{Config: c}, nil
	case TypePacketIn:
		p, err := DecodePacketInfo(body)
		if err != nil {
			return nil, err
		}
		return PacketInMessage{PacketIn: p}, nil
	case TypeFlowRemoved:
		fr, err := DecodeFlowRemoved(body)
		if err != nil {
			return nil, err
		}
		return FlowRemovedMessage{FlowRemoved: fr}, nil
	case TypePortStatus:
		ps, err := DecodePortStatus(body)
		if err != nil {
			return nil, err
		}
		return PortStatusMessage{PortStatus: ps}, nil
	case TypeStatsReply:
		sr, err := DecodeStatsReply(body)
		if err != nil {
			return nil, err
		}
		return StatsReplyMessage{StatsReply: sr}, nil
	case TypeError:
		e, err := DecodeSwitchError(body)
		if err != nil {
			return nil, err
		}
		return ErrorMessage{Error: e}, nil
	case TypeBarrierReply:
		return BarrierReplyMessage{}, nil
	case TypeQueueGetConfigReply:
		q, err := DecodeQueueConfigReply(body)
		if err != nil {
			return nil, err
		}
		return QueueConfigReplyMessage{Reply: q}, nil
	case TypeVendor:
		return VendorMessage{Data: body}, nil
	default:
		return nil, fmt.Errorf("type %d: %w", uint8(typ), ErrUnknownMessageType)
	}
}

// EncodeSC serializes a switch->controller message with its header.
func EncodeSC(xid TransactionID, msg SCMessage) ([]byte, error) {
	typ, body, err := encodeSCBody(msg)
	if err != nil {
		return nil, err
	}
	return assembleMessage(typ, xid, body), nil
}

func encodeSCBody(msg SCMessage) (MessageType, []byte, error) {
	switch m := msg.(type) {
	case HelloMessage:
		return TypeHello, nil, nil
	case EchoRequestMessage:
		return TypeEchoRequest, m.Payload, nil
	case EchoReplyMessage:
		return TypeEchoReply, m.Payload, nil
	case FeaturesMessage:
		return TypeFeaturesReply, EncodeSwitchFeatures(m.Features), nil
	case GetConfigReplyMessage:
		return TypeGetConfigReply, EncodeSwitchConfig(m.Config), nil
	case PacketInMessage:
		return TypePacketIn, EncodePacketInfo(m.PacketIn), nil
	case FlowRemovedMessage:
		return TypeFlowRemoved, EncodeFlowRemoved(m.FlowRemoved), nil
	case PortStatusMessage:
		return TypePortStatus, EncodePortStatus(m.PortStatus), nil
	case StatsReplyMessage:
		return TypeStatsReply, EncodeStatsReply(m.StatsReply), nil
	case ErrorMessage:
		return TypeError, EncodeSwitchError(m.Error), nil
	case BarrierReplyMessage:
		return TypeBarrierReply, nil, nil
	case QueueConfigReplyMessage:
		return TypeQueueGetConfigReply, EncodeQueueConfigReply(m.Reply), nil
	case VendorMessage:
		return TypeVendor, m.Data, nil
	default:
		return 0, nil, fmt.Errorf("encode sc message: unsupported type %T", msg)
	}
}

// DecodeCS decodes a single controller->switch message from a
// complete, header-length-delimited buffer.
func DecodeCS(buf []byte) (TransactionID, CSMessage, error) {
	hdr, body, err := decodeHeader(buf)
	if err != nil {
		return 0, nil, err
	}

	msg, err := decodeCSBody(hdr.Type, body)
	if err != nil {
		return hdr.Xid, nil, fmt.Errorf("decode %s body: %w", hdr.Type, err)
	}
	return hdr.Xid, msg, nil
}

func decodeCSBody(typ MessageType, body []byte) (CSMessage, error) {
	switch typ {
	case TypeHello:
		return HelloMessage{}, nil
	case TypeEchoRequest:
		return EchoRequestMessage{Payload: body}, nil
	case TypeEchoReply:
		return EchoReplyMessage{Payload: body}, nil
	case TypeFeaturesRequest:
		return FeaturesRequestMessage{}, nil
	case TypeGetConfigRequest:
		return GetConfigRequestMessage{}, nil
	case TypeSetConfig:
		c, err := DecodeSwitchConfig(body)
		if err != nil {
			return nil, err
		}
		return SetConfigMessage{Config: c}, nil
	case TypePacketOut:
		p, err := DecodePacketOut(body)
		if err != nil {
			return nil, err
		}
		return PacketOutMessage{PacketOut: p}, nil
	case TypeFlowMod:
		fm, err := DecodeFlowMod(body)
		if err != nil {
			return nil, err
		}
		return FlowModMessage{FlowMod: fm}, nil
	case TypePortMod:
		pm, err := DecodePortMod(body)
		if err != nil {
			return nil, err
		}
		return PortModMessage{PortMod: pm}, nil
	case TypeStatsRequest:
		sr, err := DecodeStatsRequest(body)
		if err != nil {
			return nil, err
		}
		return StatsRequestMessage{StatsRequest: sr}, nil
	case TypeBarrierRequest:
		return BarrierRequestMessage{}, nil
	case TypeError:
		e, err := DecodeSwitchError(body)
		if err != nil {
			return nil, err
		}
		return ErrorMessage{Error: e}, nil
	case TypeQueueGetConfigRequest:
		q, err := DecodeQueueConfigRequest(body)
		if err != nil {
			return nil, err
		}
		return GetQueueConfigMessage{Request: q}, nil
	case TypeVendor:
		return decodeVendorCS(body)
	default:
		return nil, fmt.Errorf("type %d: %w", uint8(typ), ErrUnknownMessageType)
	}
}

// extQueueVendorID and the subtype codes below give ExtQueueModify and
// ExtQueueDelete a wire encoding distinct from an opaque VendorMessage,
// carried inside the standard Vendor envelope the way a real
// experimenter extension would be.
const extQueueVendorID uint32 = 0x00002320

const (
	extQueueSubtypeModify uint32 = 1
	extQueueSubtypeDelete uint32 = 2
)

func decodeVendorCS(body []byte) (CSMessage, error) {
	if len(body) < 8 {
		return VendorMessage{Data: body}, nil
	}
	r := byteio.NewReader(body[:8])
	vendorID, _ := r.ReadU32()
	subtype, _ := r.ReadU32()
	if vendorID != extQueueVendorID {
		return VendorMessage{Data: body}, nil
	}

	op, err := DecodeExtQueueOp(body[8:])
	if err != nil {
		return nil, fmt.Errorf("decode ext_queue_op: %w", err)
	}
	switch subtype {
	case extQueueSubtypeModify:
		return ExtQueueModifyMessage{Op: op}, nil
	case extQueueSubtypeDelete:
		return ExtQueueDeleteMessage{Op: op}, nil
	default:
		return VendorMessage{Data: body}, nil
	}
}

// EncodeCS serializes a controller->switch message with its header.
func EncodeCS(xid TransactionID, msg CSMessage) ([]byte, error) {
	typ, body, err := encodeCSBody(msg)
	if err != nil {
		return nil, err
	}
	return assembleMessage(typ, xid, body), nil
}

func encodeCSBody(msg CSMessage) (MessageType, []byte, error) {
	switch m := msg.(type) {
	case HelloMessage:
		return TypeHello, nil, nil
	case EchoRequestMessage:
		return TypeEchoRequest, m.Payload, nil
	case EchoReplyMessage:
		return TypeEchoReply, m.Payload, nil
	case FeaturesRequestMessage:
		return TypeFeaturesRequest, nil, nil
	case GetConfigRequestMessage:
		return TypeGetConfigRequest, nil, nil
	case SetConfigMessage:
		return TypeSetConfig, EncodeSwitchConfig(m.Config), nil
	case PacketOutMessage:
		return TypePacketOut, EncodePacketOut(m.PacketOut), nil
	case FlowModMessage:
		return TypeFlowMod, EncodeFlowMod(m.FlowMod), nil
	case PortModMessage:
		return TypePortMod, EncodePortMod(m.PortMod), nil
	case StatsRequestMessage:
		return TypeStatsRequest, EncodeStatsRequest(m.StatsRequest), nil
	case BarrierRequestMessage:
		return TypeBarrierRequest, nil, nil
	case ErrorMessage:
		return TypeError, EncodeSwitchError(m.Error), nil
	case ExtQueueModifyMessage:
		return TypeVendor, encodeExtQueueVendor(extQueueSubtypeModify, m.Op), nil
	case ExtQueueDeleteMessage:
		return TypeVendor, encodeExtQueueVendor(extQueueSubtypeDelete, m.Op), nil
	case GetQueueConfigMessage:
		return TypeQueueGetConfigRequest, EncodeQueueConfigRequest(m.Request), nil
	case VendorMessage:
		return TypeVendor, m.Data, nil
	default:
		return 0, nil, fmt.Errorf("encode cs message: unsupported type %T", msg)
	}
}

func encodeExtQueueVendor(subtype uint32, op ExtQueueOp) []byte {
	opBuf := EncodeExtQueueOp(op)
	w := byteio.NewWriterSize(8 + len(opBuf))
	w.WriteU32(extQueueVendorID)
	w.WriteU32(subtype)
	w.WriteBytes(opBuf)
	return w.Bytes()
}

func assembleMessage(typ MessageType, xid TransactionID, body []byte) []byte {
	w := byteio.NewWriterSize(HeaderLen + len(body))
	lenOff := encodeHeader(w, typ, xid)
	w.WriteBytes(body)
	return finishMessage(w, lenOff)
}
