package packet

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

const tcpHeaderLen = 20

// TCPHeader is a decoded TCP header. Options beyond the fixed 20
// bytes are not modeled; only
// the fields OpenFlow matching needs round-trip.
type TCPHeader struct {
	SrcPort         uint16
	DstPort         uint16
	SeqNum          uint32
	AckNum          uint32
	DataOffsetFlags uint16 // top 4 bits data offset, low 12 bits flags
	Window          uint16
	Checksum        uint16
	Urgent          uint16
}

// TCPPayload wraps a decoded TCP header as an IPPayload variant.
type TCPPayload struct {
	Header TCPHeader
}

func (TCPPayload) isIPPayload() {}

// DecodeTCPHeader decodes the fixed 20-byte TCP header.
func DecodeTCPHeader(buf []byte) (TCPHeader, error) {
	if len(buf) < tcpHeaderLen {
		return TCPHeader{}, fmt.Errorf("tcp header needs %d bytes, got %d: %w", tcpHeaderLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:tcpHeaderLen])

	var h TCPHeader
	var err error
	if h.SrcPort, err = r.ReadU16(); err != nil {
		return TCPHeader{}, err
	}
	if h.DstPort, err = r.ReadU16(); err != nil {
		return TCPHeader{}, err
	}
	if h.SeqNum, err = r.ReadU32(); err != nil {
		return TCPHeader{}, err
	}
	if h.AckNum, err = r.ReadU32(); err != nil {
		return TCPHeader{}, err
	}
	if h.DataOffsetFlags, err = r.ReadU16(); err != nil {
		return TCPHeader{}, err
	}
	if h.Window, err = r.ReadU16(); err != nil {
		return TCPHeader{}, err
	}
	if h.Checksum, err = r.ReadU16(); err != nil {
		return TCPHeader{}, err
	}
	if h.Urgent, err = r.ReadU16(); err != nil {
		return TCPHeader{}, err
	}
	return h, nil
}

// EncodeTCPHeader serializes the fixed 20-byte TCP header.
func EncodeTCPHeader(h TCPHeader) []byte {
	w := byteio.NewWriterSize(tcpHeaderLen)
	w.WriteU16(h.SrcPort)
	w.WriteU16(h.DstPort)
	w.WriteU32(h.SeqNum)
	w.WriteU32(h.AckNum)
	w.WriteU16(h.DataOffsetFlags)
	w.WriteU16(h.Window)
	w.WriteU16(h.Checksum)
	w.WriteU16(h.Urgent)
	return w.Bytes()
}
