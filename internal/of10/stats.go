package of10

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

// StatsType identifies which statistics table a StatsRequest/StatsReply
// envelope carries.
type StatsType uint16

const (
	StatsTypeDesc      StatsType = 0
	StatsTypeFlow      StatsType = 1
	StatsTypeAggregate StatsType = 2
	StatsTypeTable     StatsType = 3
	StatsTypePort      StatsType = 4
	StatsTypeQueue     StatsType = 5
	StatsTypeVendor    StatsType = 0xFFFF
)

// StatsReplyFlagMore signals that more StatsReply messages will follow
// for the same request (bit 0 of the flags field).
const StatsReplyFlagMore uint16 = 1 << 0

const statsEnvelopeLen = 4 // stats_type(2) + flags(2)

// StatsRequest is the body of a controller->switch StatsRequest
// message: a 4-byte envelope plus a type-specific body the codec
// passes through uninterpreted (reassembly and per-type body parsing
// are the handler's responsibility).
type StatsRequest struct {
	Type  StatsType
	Flags uint16
	Body  []byte
}

// DecodeStatsRequest decodes the 4-byte stats envelope and retains the
// type-specific remainder as Body.
func DecodeStatsRequest(buf []byte) (StatsRequest, error) {
	if len(buf) < statsEnvelopeLen {
		return StatsRequest{}, fmt.Errorf("stats_request envelope needs %d bytes, got %d: %w", statsEnvelopeLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:statsEnvelopeLen])
	typ, _ := r.ReadU16()
	flags, _ := r.ReadU16()
	return StatsRequest{Type: StatsType(typ), Flags: flags, Body: buf[statsEnvelopeLen:]}, nil
}

// EncodeStatsRequest serializes a StatsRequest.
func EncodeStatsRequest(s StatsRequest) []byte {
	w := byteio.NewWriterSize(statsEnvelopeLen + len(s.Body))
	w.WriteU16(uint16(s.Type))
	w.WriteU16(s.Flags)
	w.WriteBytes(s.Body)
	return w.Bytes()
}

// StatsReply is the body of a switch->controller StatsReply message.
// A single wire message is one chunk; a caller reassembling a
// multi-message reply watches StatsReplyFlagMore in Flags.
type StatsReply struct {
	Type  StatsType
	Flags uint16
	Body  []byte
}

// DecodeStatsReply decodes the 4-byte stats envelope and retains the
// type-specific remainder as Body.
func DecodeStatsReply(buf []byte) (StatsReply, error) {
	if len(buf) < statsEnvelopeLen {
		return StatsReply{}, fmt.Errorf("stats_reply envelope needs %d bytes, got %d: %w", statsEnvelopeLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:statsEnvelopeLen])
	typ, _ := r.ReadU16()
	flags, _ := r.ReadU16()
	return StatsReply{Type: StatsType(typ), Flags: flags, Body: buf[statsEnvelopeLen:]}, nil
}

// EncodeStatsReply serializes a StatsReply.
func EncodeStatsReply(s StatsReply) []byte {
	w := byteio.NewWriterSize(statsEnvelopeLen + len(s.Body))
	w.WriteU16(uint16(s.Type))
	w.WriteU16(s.Flags)
	w.WriteBytes(s.Body)
	return w.Bytes()
}

// More reports whether additional StatsReply messages follow this one.
func (s StatsReply) More() bool {
	return s.Flags&StatsReplyFlagMore != 0
}
