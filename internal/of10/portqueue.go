package of10

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

const portModLen = 2 + 6 + 2 + 4 + 4 + 4 // port_no + hw_addr + pad(2) + config + mask + advertise

// PortMod is the body of a controller->switch PortMod message.
type PortMod struct {
	PortNo    uint16
	HwAddr    [6]byte
	Config    uint32
	Mask      uint32
	Advertise uint32
}

// DecodePortMod decodes a PortMod body.
func DecodePortMod(buf []byte) (PortMod, error) {
	const fixedLen = 2 + 6 + 2 + 4 + 4 + 4
	if len(buf) < fixedLen {
		return PortMod{}, fmt.Errorf("port_mod body needs %d bytes, got %d: %w", fixedLen, len(buf), ErrTruncated)
	}
	if len(buf) > fixedLen {
		return PortMod{}, fmt.Errorf("port_mod body has %d trailing bytes: %w", len(buf)-fixedLen, ErrMalformedTrailer)
	}
	r := byteio.NewReader(buf[:fixedLen])

	var pm PortMod
	pm.PortNo, _ = r.ReadU16()
	hwAddr, _ := r.ReadBytes(6)
	copy(pm.HwAddr[:], hwAddr)
	r.Skip(2) // pad
	pm.Config, _ = r.ReadU32()
	pm.Mask, _ = r.ReadU32()
	pm.Advertise, _ = r.ReadU32()

	return pm, nil
}

// EncodePortMod serializes a PortMod body.
func EncodePortMod(pm PortMod) []byte {
	w := byteio.NewWriterSize(portModLen)
	w.WriteU16(pm.PortNo)
	w.WriteBytes(pm.HwAddr[:])
	w.WriteZero(2)
	w.WriteU32(pm.Config)
	w.WriteU32(pm.Mask)
	w.WriteU32(pm.Advertise)
	return w.Bytes()
}

// QueueProperty is a single property within a QueueConfig entry.
// MinRateProperty is the only property OpenFlow 1.0 defines; others
// round-trip as opaque bytes via OtherQueueProperty.
type QueueProperty interface {
	isQueueProperty()
}

// MinRateProperty reserves a minimum-rate guarantee on a queue, in
// tenths of a percent of port speed (1000 = line rate, 0xFFFF = disabled).
type MinRateProperty struct {
	Rate uint16
}

func (MinRateProperty) isQueueProperty() {}

// OtherQueueProperty carries an unrecognized queue property verbatim.
type OtherQueueProperty struct {
	Property uint16
	Data     []byte
}

func (OtherQueueProperty) isQueueProperty() {}

const queuePropertyHeaderLen = 8 // property(2) + len(2) + pad(4)
const queuePropertyMinRate = 1

// QueueConfig describes one queue attached to a port.
type QueueConfig struct {
	QueueID    uint32
	Properties []QueueProperty
}

const queueConfigHeaderLen = 4 + 2 + 2 // queue_id(4) + len(2) + pad(2)

// DecodeQueueConfigList decodes a sequence of QueueConfig entries
// filling buf exactly, mirroring the action list's length-driven
// advance.
func DecodeQueueConfigList(buf []byte) ([]QueueConfig, error) {
	var queues []QueueConfig
	for len(buf) > 0 {
		q, consumed, err := decodeOneQueueConfig(buf)
		if err != nil {
			return nil, err
		}
		queues = append(queues, q)
		buf = buf[consumed:]
	}
	return queues, nil
}

func decodeOneQueueConfig(buf []byte) (QueueConfig, int, error) {
	if len(buf) < queueConfigHeaderLen {
		return QueueConfig{}, 0, fmt.Errorf("queue header needs %d bytes, got %d: %w", queueConfigHeaderLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:queueConfigHeaderLen])
	queueID, _ := r.ReadU32()
	length, err := r.ReadU16()
	if err != nil {
		return QueueConfig{}, 0, fmt.Errorf("read queue length: %w", err)
	}
	if int(length) < queueConfigHeaderLen || int(length) > len(buf) {
		return QueueConfig{}, 0, fmt.Errorf("queue length %d exceeds remaining %d: %w", length, len(buf), ErrLengthInconsistent)
	}

	props, err := decodeQueueProperties(buf[queueConfigHeaderLen:length])
	if err != nil {
		return QueueConfig{}, 0, err
	}
	return QueueConfig{QueueID: queueID, Properties: props}, int(length), nil
}

func decodeQueueProperties(buf []byte) ([]QueueProperty, error) {
	var props []QueueProperty
	for len(buf) > 0 {
		if len(buf) < queuePropertyHeaderLen {
			return nil, fmt.Errorf("queue property header needs %d bytes, got %d: %w", queuePropertyHeaderLen, len(buf), ErrTruncated)
		}
		r := byteio.NewReader(buf[:queuePropertyHeaderLen])
		prop, _ := r.ReadU16()
		length, _ := r.ReadU16()
		if int(length) < queuePropertyHeaderLen || int(length) > len(buf) {
			return nil, fmt.Errorf("queue property length %d exceeds remaining %d: %w", length, len(buf), ErrLengthInconsistent)
		}
		body := buf[queuePropertyHeaderLen:length]

		switch prop {
		case queuePropertyMinRate:
			br := byteio.NewReader(body)
			rate, _ := br.ReadU16()
			props = append(props, MinRateProperty{Rate: rate})
		default:
			props = append(props, OtherQueueProperty{Property: prop, Data: body})
		}

		buf = buf[length:]
	}
	return props, nil
}

// EncodeQueueConfigList concatenates the wire encoding of each queue
// config entry in order.
func EncodeQueueConfigList(queues []QueueConfig) []byte {
	w := byteio.NewWriter()
	for _, q := range queues {
		w.WriteBytes(EncodeQueueConfig(q))
	}
	return w.Bytes()
}

// EncodeQueueConfig serializes a single QueueConfig entry.
func EncodeQueueConfig(q QueueConfig) []byte {
	propsBuf := encodeQueueProperties(q.Properties)
	w := byteio.NewWriterSize(queueConfigHeaderLen + len(propsBuf))
	w.WriteU32(q.QueueID)
	w.WriteU16(uint16(queueConfigHeaderLen + len(propsBuf)))
	w.WriteZero(2)
	w.WriteBytes(propsBuf)
	return w.Bytes()
}

func encodeQueueProperties(props []QueueProperty) []byte {
	w := byteio.NewWriter()
	for _, p := range props {
		switch prop := p.(type) {
		case MinRateProperty:
			w.WriteU16(queuePropertyMinRate)
			w.WriteU16(queuePropertyHeaderLen + 2 + 6) // rate(2) + pad(6)
			w.WriteZero(4)
			w.WriteU16(prop.Rate)
			w.WriteZero(6)
		case OtherQueueProperty:
			w.WriteU16(prop.Property)
			w.WriteU16(uint16(queuePropertyHeaderLen + len(prop.Data)))
			w.WriteZero(4)
			w.WriteBytes(prop.Data)
		}
	}
	return w.Bytes()
}

const queueConfigRequestLen = 2 + 2 // port(2) + pad(2)

// QueueConfigRequest is the body of a GetQueueConfig request.
type QueueConfigRequest struct {
	Port uint16
}

// DecodeQueueConfigRequest decodes a QueueConfigRequest body.
func DecodeQueueConfigRequest(buf []byte) (QueueConfigRequest, error) {
	if len(buf) < queueConfigRequestLen {
		return QueueConfigRequest{}, fmt.Errorf("queue_get_config request needs %d bytes, got %d: %w", queueConfigRequestLen, len(buf), ErrTruncated)
	}
	if len(buf) > queueConfigRequestLen {
		return QueueConfigRequest{}, fmt.Errorf("queue_get_config request has %d trailing bytes: %w", len(buf)-queueConfigRequestLen, ErrMalformedTrailer)
	}
	r := byteio.NewReader(buf[:queueConfigRequestLen])
	port, _ := r.ReadU16()
	return QueueConfigRequest{Port: port}, nil
}

// EncodeQueueConfigRequest serializes a QueueConfigRequest body.
func EncodeQueueConfigRequest(q QueueConfigRequest) []byte {
	w := byteio.NewWriterSize(queueConfigRequestLen)
	w.WriteU16(q.Port)
	w.WriteZero(2)
	return w.Bytes()
}

const queueConfigReplyFixedLen = 2 + 6 // port(2) + pad(6)

// QueueConfigReply is the body of a QueueGetConfigReply message.
type QueueConfigReply struct {
	Port   uint16
	Queues []QueueConfig
}

// DecodeQueueConfigReply decodes a QueueConfigReply body.
func DecodeQueueConfigReply(buf []byte) (QueueConfigReply, error) {
	if len(buf) < queueConfigReplyFixedLen {
		return QueueConfigReply{}, fmt.Errorf("queue_get_config reply needs %d bytes, got %d: %w", queueConfigReplyFixedLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:queueConfigReplyFixedLen])
	port, _ := r.ReadU16()

	queues, err := DecodeQueueConfigList(buf[queueConfigReplyFixedLen:])
	if err != nil {
		return QueueConfigReply{}, fmt.Errorf("decode queue list: %w", err)
	}
	return QueueConfigReply{Port: port, Queues: queues}, nil
}

// EncodeQueueConfigReply serializes a QueueConfigReply body.
func EncodeQueueConfigReply(q QueueConfigReply) []byte {
	queuesBuf := EncodeQueueConfigList(q.Queues)
	w := byteio.NewWriterSize(queueConfigReplyFixedLen + len(queuesBuf))
	w.WriteU16(q.Port)
	w.WriteZero(6)
	w.WriteBytes(queuesBuf)
	return w.Bytes()
}

// SwitchConfigFlags controls how the switch handles fragmented IP
// packets (ofp_config_flags).
const (
	ConfigFragNormal uint16 = 0
	ConfigFragDrop   uint16 = 1
	ConfigFragReasm  uint16 = 2
)

const switchConfigLen = 2 + 2 // flags(2) + miss_send_len(2)

// SwitchConfig is the 4-byte body OpenFlow 1.0 defines for SetConfig
// and GetConfigReply: fragmentation handling flags plus the
// miss_send_len controlling how much of an unmatched packet the
// switch forwards in a PacketIn.
type SwitchConfig struct {
	Flags       uint16
	MissSendLen uint16
}

// DecodeSwitchConfig decodes a SetConfig/GetConfigReply body.
func DecodeSwitchConfig(buf []byte) (SwitchConfig, error) {
	if len(buf) < switchConfigLen {
		return SwitchConfig{}, fmt.Errorf("switch_config body needs %d bytes, got %d: %w", switchConfigLen, len(buf), ErrTruncated)
	}
	if len(buf) > switchConfigLen {
		return SwitchConfig{}, fmt.Errorf("switch_config body has %d trailing bytes: %w", len(buf)-switchConfigLen, ErrMalformedTrailer)
	}
	r := byteio.NewReader(buf[:switchConfigLen])
	flags, _ := r.ReadU16()
	missSendLen, _ := r.ReadU16()
	return SwitchConfig{Flags: flags, MissSendLen: missSendLen}, nil
}

// EncodeSwitchConfig serializes a SetConfig/GetConfigReply body.
func EncodeSwitchConfig(c SwitchConfig) []byte {
	w := byteio.NewWriterSize(switchConfigLen)
	w.WriteU16(c.Flags)
	w.WriteU16(c.MissSendLen)
	return w.Bytes()
}

// ExtQueueOp is the body shared by ExtQueueModify and ExtQueueDelete:
// a port plus the queues to apply the operation to.
type ExtQueueOp struct {
	Port   uint16
	Queues []QueueConfig
}

const extQueueOpFixedLen = 2 + 6 // port(2) + pad(6)

// DecodeExtQueueOp decodes an ExtQueueModify/ExtQueueDelete body.
func DecodeExtQueueOp(buf []byte) (ExtQueueOp, error) {
	if len(buf) < extQueueOpFixedLen {
		return ExtQueueOp{}, fmt.Errorf("ext_queue_op body needs %d bytes, got %d: %w", extQueueOpFixedLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:extQueueOpFixedLen])
	port, _ := r.ReadU16()

	queues, err := DecodeQueueConfigList(buf[extQueueOpFixedLen:])
	if err != nil {
		return ExtQueueOp{}, fmt.Errorf("decode queue list: %w", err)
	}
	return ExtQueueOp{Port: port, Queues: queues}, nil
}

// EncodeExtQueueOp serializes an ExtQueueModify/ExtQueueDelete body.
func EncodeExtQueueOp(op ExtQueueOp) []byte {
	queuesBuf := EncodeQueueConfigList(op.Queues)
	w := byteio.NewWriterSize(extQueueOpFixedLen + len(queuesBuf))
	w.WriteU16(op.Port)
	w.WriteZero(6)
	w.WriteBytes(queuesBuf)
	return w.Bytes()
}
