package packet

import (
	"fmt"
	"net/netip"

	"github.com/flowforge/goflow10/internal/byteio"
)

// IPProtocol identifies the IPv4 payload protocol.
type IPProtocol uint8

const (
	IPProtocolICMP IPProtocol = 1
	IPProtocolTCP  IPProtocol = 6
	IPProtocolUDP  IPProtocol = 17
)

const ipv4MinHeaderLen = 20

// IPHeader is a decoded IPv4 header, including any options.
type IPHeader struct {
	Version        uint8
	IHL            uint8 // header length in 32-bit words
	TOS            uint8
	TotalLength    uint16
	Identification uint16
	FlagsFragOff   uint16 // top 3 bits flags, low 13 bits fragment offset
	TTL            uint8
	Protocol       IPProtocol
	Checksum       uint16
	Src, Dst       netip.Addr
	Options        []byte
}

// IPPayload is the decoded transport-layer payload of an IP packet.
// Implementations are TCPPayload, UDPPayload, ICMPPayload, and
// OtherIPProtocolPayload.
type IPPayload interface {
	isIPPayload()
}

// OtherIPProtocolPayload carries the raw bytes of any IP protocol the
// core does not decode further.
type OtherIPProtocolPayload struct {
	Data []byte
}

func (OtherIPProtocolPayload) isIPPayload() {}

// IPPacket is a decoded IPv4 header plus its dispatched transport payload.
type IPPacket struct {
	Header  IPHeader
	Payload IPPayload
}

// IPBody wraps a decoded IP packet as an Ethernet Body variant.
type IPBody struct {
	IP IPPacket
}

func (IPBody) isBody() {}

// DecodeIPPacket decodes an IPv4 header and dispatches its payload by
// protocol number.
func DecodeIPPacket(buf []byte) (IPPacket, error) {
	r := byteio.NewReader(buf)

	verIHL, err := r.ReadU8()
	if err != nil {
		return IPPacket{}, fmt.Errorf("read version/ihl: %w", err)
	}
	hdr := IPHeader{
		Version: verIHL >> 4,
		IHL:     verIHL & 0x0F,
	}

	if hdr.TOS, err = r.ReadU8(); err != nil {
		return IPPacket{}, fmt.Errorf("read tos: %w", err)
	}
	if hdr.TotalLength, err = r.ReadU16(); err != nil {
		return IPPacket{}, fmt.Errorf("read total length: %w", err)
	}
	if hdr.Identification, err = r.ReadU16(); err != nil {
		return IPPacket{}, fmt.Errorf("read identification: %w", err)
	}
	if hdr.FlagsFragOff, err = r.ReadU16(); err != nil {
		return IPPacket{}, fmt.Errorf("read flags/fragment offset: %w", err)
	}
	if hdr.TTL, err = r.ReadU8(); err != nil {
		return IPPacket{}, fmt.Errorf("read ttl: %w", err)
	}
	proto, err := r.ReadU8()
	if err != nil {
		return IPPacket{}, fmt.Errorf("read protocol: %w", err)
	}
	hdr.Protocol = IPProtocol(proto)
	if hdr.Checksum, err = r.ReadU16(); err != nil {
		return IPPacket{}, fmt.Errorf("read checksum: %w", err)
	}

	src, err := r.ReadBytes(4)
	if err != nil {
		return IPPacket{}, fmt.Errorf("read src addr: %w", err)
	}
	dst, err := r.ReadBytes(4)
	if err != nil {
		return IPPacket{}, fmt.Errorf("read dst addr: %w", err)
	}
	hdr.Src = ipv4From4(src)
	hdr.Dst = ipv4From4(dst)

	optLen := int(hdr.IHL)*4 - ipv4MinHeaderLen
	if optLen > 0 {
		opts, err := r.ReadBytes(optLen)
		if err != nil {
			return IPPacket{}, fmt.Errorf("read options: %w", err)
		}
		hdr.Options = opts
	}

	payload, err := decodeIPPayload(hdr.Protocol, r.Rest())
	if err != nil {
		return IPPacket{}, err
	}

	return IPPacket{Header: hdr, Payload: payload}, nil
}

func decodeIPPayload(proto IPProtocol, buf []byte) (IPPayload, error) {
	switch proto {
	case IPProtocolTCP:
		tcp, err := DecodeTCPHeader(buf)
		if err != nil {
			return nil, fmt.Errorf("decode tcp header: %w", err)
		}
		return TCPPayload{Header: tcp}, nil
	case IPProtocolUDP:
		udp, err := DecodeUDPHeader(buf)
		if err != nil {
			return nil, fmt.Errorf("decode udp header: %w", err)
		}
		return UDPPayload{Header: udp, Payload: buf[udpHeaderLen:]}, nil
	case IPProtocolICMP:
		icmp, err := DecodeICMPHeader(buf)
		if err != nil {
			return nil, fmt.Errorf("decode icmp header: %w", err)
		}
		return ICMPPayload{Header: icmp, Rest: buf[icmpMinHeaderLen:]}, nil
	default:
		return OtherIPProtocolPayload{Data: buf}, nil
	}
}
