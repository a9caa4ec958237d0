package packet

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

const udpHeaderLen = 8

// UDPHeader is a decoded UDP header.
type UDPHeader struct {
	SrcPort  uint16
	DstPort  uint16
	Length   uint16
	Checksum uint16
}

// UDPPayload wraps a decoded UDP header plus trailing payload bytes as
// an IPPayload variant.
type UDPPayload struct {
	Header  UDPHeader
	Payload []byte
}

func (UDPPayload) isIPPayload() {}

// DecodeUDPHeader decodes only the fixed 8-byte UDP header; the caller
// slices the payload bytes that follow it.
func DecodeUDPHeader(buf []byte) (UDPHeader, error) {
	if len(buf) < udpHeaderLen {
		return UDPHeader{}, fmt.Errorf("udp header needs %d bytes, got %d: %w", udpHeaderLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:udpHeaderLen])

	var h UDPHeader
	var err error
	if h.SrcPort, err = r.ReadU16(); err != nil {
		return UDPHeader{}, err
	}
	if h.DstPort, err = r.ReadU16(); err != nil {
		return UDPHeader{}, err
	}
	if h.Length, err = r.ReadU16(); err != nil {
		return UDPHeader{}, err
	}
	if h.Checksum, err = r.ReadU16(); err != nil {
		return UDPHeader{}, err
	}
	return h, nil
}

// EncodeUDPHeader serializes the fixed 8-byte UDP header.
func EncodeUDPHeader(h UDPHeader) []byte {
	w := byteio.NewWriterSize(udpHeaderLen)
	w.WriteU16(h.SrcPort)
	w.WriteU16(h.DstPort)
	w.WriteU16(h.Length)
	w.WriteU16(h.Checksum)
	return w.Bytes()
}
