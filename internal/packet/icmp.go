package packet

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

const icmpMinHeaderLen = 2

// ICMPHeader is a decoded ICMP type/code pair. These are the only
// ICMP fields OpenFlow 1.0
// matching exposes (as tp_src/tp_dst); the checksum and message body
// travel through as Rest.
type ICMPHeader struct {
	Type uint8
	Code uint8
}

// ICMPPayload wraps a decoded ICMP type/code plus the remaining
// message bytes as an IPPayload variant.
type ICMPPayload struct {
	Header ICMPHeader
	Rest   []byte
}

func (ICMPPayload) isIPPayload() {}

// DecodeICMPHeader decodes only the 2-byte type/code prefix; the caller
// keeps the remaining bytes in ICMPPayload.Rest.
func DecodeICMPHeader(buf []byte) (ICMPHeader, error) {
	if len(buf) < icmpMinHeaderLen {
		return ICMPHeader{}, fmt.Errorf("icmp header needs %d bytes, got %d: %w", icmpMinHeaderLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:icmpMinHeaderLen])
	typ, _ := r.ReadU8()
	code, _ := r.ReadU8()
	return ICMPHeader{Type: typ, Code: code}, nil
}
