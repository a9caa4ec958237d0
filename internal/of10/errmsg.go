package of10

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

// ErrorType is the high-level category of an OpenFlow Error message.
type ErrorType uint16

const (
	ErrorTypeHelloFailed    ErrorType = 0
	ErrorTypeBadRequest     ErrorType = 1
	ErrorTypeBadAction      ErrorType = 2
	ErrorTypeFlowModFailed  ErrorType = 3
	ErrorTypePortModFailed  ErrorType = 4
	ErrorTypeQueueOpFailed  ErrorType = 5
)

// HelloFailedCode enumerates the Code values under ErrorTypeHelloFailed.
const (
	HelloFailedIncompatibleVersions uint16 = 0
	HelloFailedEperm                uint16 = 1
)

const errorFixedLen = 4 // type(2) + code(2)

// SwitchError is the body of an Error message: a type/code pair plus
// the offending request's raw bytes, echoed back verbatim.
type SwitchError struct {
	Type ErrorType
	Code uint16
	Data []byte
}

// DecodeSwitchError decodes an Error body.
func DecodeSwitchError(buf []byte) (SwitchError, error) {
	if len(buf) < errorFixedLen {
		return SwitchError{}, fmt.Errorf("error body needs %d bytes, got %d: %w", errorFixedLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:errorFixedLen])
	typ, _ := r.ReadU16()
	code, _ := r.ReadU16()
	return SwitchError{Type: ErrorType(typ), Code: code, Data: buf[errorFixedLen:]}, nil
}

// EncodeSwitchError serializes an Error body.
func EncodeSwitchError(e SwitchError) []byte {
	w := byteio.NewWriterSize(errorFixedLen + len(e.Data))
	w.WriteU16(uint16(e.Type))
	w.WriteU16(e.Code)
	w.WriteBytes(e.Data)
	return w.Bytes()
}

// PortStatusReason classifies what changed about a port.
type PortStatusReason uint8

const (
	PortStatusReasonAdd    PortStatusReason = 0
	PortStatusReasonDelete PortStatusReason = 1
	PortStatusReasonModify PortStatusReason = 2
)

const portStatusFixedLen = 8 // reason(1) + 7 pad

// PortStatus is the body of a PortStatus message.
type PortStatus struct {
	Reason PortStatusReason
	Port   PhyPort
}

// DecodePortStatus decodes a PortStatus body.
func DecodePortStatus(buf []byte) (PortStatus, error) {
	if len(buf) < portStatusFixedLen+phyPortLen {
		return PortStatus{}, fmt.Errorf("port_status body needs %d bytes, got %d: %w", portStatusFixedLen+phyPortLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:portStatusFixedLen])
	reason, _ := r.ReadU8()
	if reason > uint8(PortStatusReasonModify) {
		return PortStatus{}, invalidEnum("port_status reason", int(reason))
	}
	port, err := decodePhyPort(buf[portStatusFixedLen : portStatusFixedLen+phyPortLen])
	if err != nil {
		return PortStatus{}, fmt.Errorf("decode phy_port: %w", err)
	}
	return PortStatus{Reason: PortStatusReason(reason), Port: port}, nil
}

// EncodePortStatus serializes a PortStatus body.
func EncodePortStatus(s PortStatus) []byte {
	w := byteio.NewWriterSize(portStatusFixedLen + phyPortLen)
	w.WriteU8(uint8(s.Reason))
	w.WriteZero(7)
	w.WriteU16(s.Port.PortNo)
	w.WriteBytes(s.Port.HwAddr[:])
	w.WriteBytes(encodeNulPadded(s.Port.Name, phyPortNameLen))
	w.WriteU32(s.Port.Config)
	w.WriteU32(s.Port.State)
	w.WriteU32(s.Port.Curr)
	w.WriteU32(s.Port.Advertised)
	w.WriteU32(s.Port.Supported)
	w.WriteU32(s.Port.Peer)
	return w.Bytes()
}

// FlowRemovedReason classifies why a flow entry was removed.
type FlowRemovedReason uint8

const (
	FlowRemovedReasonIdleTimeout FlowRemovedReason = 0
	FlowRemovedReasonHardTimeout FlowRemovedReason = 1
	FlowRemovedReasonDelete      FlowRemovedReason = 2
)

// flowRemovedFixedLen: cookie(8) + priority(2) + reason(1) + pad(1) +
// duration_sec(4) + duration_nsec(4) + idle_timeout(2) + pad(2) +
// packet_count(8) + byte_count(8) = 40.
const flowRemovedFixedLen = 8 + 2 + 1 + 1 + 4 + 4 + 2 + 2 + 8 + 8

// FlowRemoved is the body of a FlowRemoved message.
type FlowRemoved struct {
	Match        Match
	Cookie       uint64
	Priority     uint16
	Reason       FlowRemovedReason
	DurationSec  uint32
	DurationNSec uint32
	IdleTimeout  uint16
	PacketCount  uint64
	ByteCount    uint64
}

// DecodeFlowRemoved decodes a FlowRemoved body.
func DecodeFlowRemoved(buf []byte) (FlowRemoved, error) {
	if len(buf) < matchLen+flowRemovedFixedLen {
		return FlowRemoved{}, fmt.Errorf("flow_removed body needs %d bytes, got %d: %w", matchLen+flowRemovedFixedLen, len(buf), ErrTruncated)
	}
	match, err := DecodeMatch(buf[:matchLen])
	if err != nil {
		return FlowRemoved{}, fmt.Errorf("decode match: %w", err)
	}

	r := byteio.NewReader(buf[matchLen : matchLen+flowRemovedFixedLen])
	var fr FlowRemoved
	fr.Match = match
	fr.Cookie, _ = r.ReadU64()
	fr.Priority, _ = r.ReadU16()
	reason, _ := r.ReadU8()
	if reason > uint8(FlowRemovedReasonDelete) {
		return FlowRemoved{}, invalidEnum("flow_removed reason", int(reason))
	}
	fr.Reason = FlowRemovedReason(reason)
	r.Skip(1) // pad
	fr.DurationSec, _ = r.ReadU32()
	fr.DurationNSec, _ = r.ReadU32()
	fr.IdleTimeout, _ = r.ReadU16()
	r.Skip(2) // pad
	fr.PacketCount, _ = r.ReadU64()
	fr.ByteCount, err = r.ReadU64()
	if err != nil {
		return FlowRemoved{}, fmt.Errorf("read byte_count: %w", err)
	}

	return fr, nil
}

// EncodeFlowRemoved serializes a FlowRemoved body.
func EncodeFlowRemoved(fr FlowRemoved) []byte {
	w := byteio.NewWriterSize(matchLen + flowRemovedFixedLen)
	w.WriteBytes(EncodeMatch(fr.Match))
	w.WriteU64(fr.Cookie)
	w.WriteU16(fr.Priority)
	w.WriteU8(uint8(fr.Reason))
	w.WriteZero(1)
	w.WriteU32(fr.DurationSec)
	w.WriteU32(fr.DurationNSec)
	w.WriteU16(fr.IdleTimeout)
	w.WriteZero(2)
	w.WriteU64(fr.PacketCount)
	w.WriteU64(fr.ByteCount)
	return w.Bytes()
}
