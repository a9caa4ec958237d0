// Package packet decodes and serializes the Ethernet/ARP/IP/TCP/UDP/ICMP
// payloads carried inside OpenFlow PacketIn/PacketOut messages.
//
// Decoders take a borrowed slice and never copy; the resulting Frame
// owns no data of its own beyond small fixed-size fields, mirroring the
// zero-copy decoders of the OpenFlow codec.
package packet

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

// EtherType identifies the payload carried after an Ethernet header.
type EtherType uint16

// Ethertypes dispatched by the core.
const (
	EtherTypeIPv4   EtherType = 0x0800
	EtherTypeARP    EtherType = 0x0806
	EtherTypePaneDP EtherType = 0x0777
	EtherTypeIPv6   EtherType = 0x86DD
	EtherTypeDot1X  EtherType = 0x888E
	EtherTypeDot1Q  EtherType = 0x8100

	// minEtherTypeII is the boundary below which the 2-byte field after
	// the source MAC is a length (Ethernet I), not an ethertype.
	minEtherTypeII EtherType = 0x0600

	// ipv6HeaderSize is the fixed IPv6 header size the core skips
	// without interpreting it.
	ipv6HeaderSize = 40

	// dot1xHeaderSize is the fixed 802.1X header size the core skips.
	dot1xHeaderSize = 4
)

// MAC is a 6-byte Ethernet hardware address.
type MAC [6]byte

// BroadcastMAC is the all-ones Ethernet broadcast address.
var BroadcastMAC = MAC{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// String renders the MAC in colon-separated hex form.
func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// Header is a decoded Ethernet header, optionally 802.1Q-tagged.
type Header struct {
	Dst, Src  MAC
	EtherType EtherType

	// Tagged indicates an 802.1Q VLAN tag was present between the
	// source MAC and the (true, inner) EtherType.
	Tagged bool
	PCP    uint8
	CFI    bool
	VID    uint16
}

// Body is the decoded Ethernet payload. Implementations are the
// tagged-variant set IPBody, ARPBody, PaneDPBody, and OpaqueBody; use a
// type switch to project into the variant you need.
type Body interface {
	isBody()
}

// OpaqueBody holds an uninterpreted payload: IPv6, 802.1X, or any
// ethertype whose body the core does not otherwise model.
type OpaqueBody struct {
	Data []byte
}

func (OpaqueBody) isBody() {}

// PaneDPBody is the experimental discovery frame carried under
// EtherTypePaneDP: an 8-byte switch id and 2-byte port id.
type PaneDPBody struct {
	SwitchID uint64
	PortID   uint16
}

func (PaneDPBody) isBody() {}

// Frame is a fully decoded Ethernet frame: header plus dispatched body.
type Frame struct {
	Header Header
	Body   Body
}

// AsIP projects a Frame into its Ethernet header and IP packet if the
// body is an IPBody.
func (f Frame) AsIP() (Header, IPPacket, bool) {
	b, ok := f.Body.(IPBody)
	if !ok {
		return Header{}, IPPacket{}, false
	}
	return f.Header, b.IP, true
}

// AsIPTCP projects a Frame into its Ethernet header, IP header, and TCP
// header if the body is IP-over-TCP.
func (f Frame) AsIPTCP() (Header, IPHeader, TCPHeader, bool) {
	hdr, ip, ok := f.AsIP()
	if !ok {
		return Header{}, IPHeader{}, TCPHeader{}, false
	}
	tcp, ok := ip.Payload.(TCPPayload)
	if !ok {
		return Header{}, IPHeader{}, TCPHeader{}, false
	}
	return hdr, ip.Header, tcp.Header, true
}

// AsARP projects a Frame into its Ethernet header and ARP packet if the
// body is an ARPBody.
func (f Frame) AsARP() (Header, ARPPacket, bool) {
	b, ok := f.Body.(ARPBody)
	if !ok {
		return Header{}, ARPPacket{}, false
	}
	return f.Header, b.ARP, true
}

// DecodeFrame decodes an Ethernet II frame (optionally 802.1Q-tagged)
// and dispatches its body by ethertype.
//
// A non-nil ErrUnknownEtherType is still accompanied by a Frame with a
// valid Header and a nil Body: callers that only need header fields
// (e.g. to log the rejected ethertype) do not need to discard the
// partial decode.
func DecodeFrame(buf []byte) (Frame, error) {
	r := byteio.NewReader(buf)

	hdr, err := decodeHeader(r)
	if err != nil {
		return Frame{}, fmt.Errorf("decode ethernet header: %w", err)
	}

	body, err := decodeBody(hdr.EtherType, r)
	if err != nil {
		return Frame{Header: hdr}, err
	}

	return Frame{Header: hdr, Body: body}, nil
}

func decodeHeader(r *byteio.Reader) (Header, error) {
	var hdr Header

	dst, err := r.ReadBytes(6)
	if err != nil {
		return Header{}, err
	}
	copy(hdr.Dst[:], dst)

	src, err := r.ReadBytes(6)
	if err != nil {
		return Header{}, err
	}
	copy(hdr.Src[:], src)

	et, err := r.ReadU16()
	if err != nil {
		return Header{}, err
	}

	if EtherType(et) < minEtherTypeII {
		return Header{}, fmt.Errorf("ethertype %#04x: %w", et, ErrNotEthernetII)
	}

	if EtherType(et) == EtherTypeDot1Q {
		tci, err := r.ReadU16()
		if err != nil {
			return Header{}, fmt.Errorf("read 802.1q tci: %w", err)
		}
		inner, err := r.ReadU16()
		if err != nil {
			return Header{}, fmt.Errorf("read 802.1q inner ethertype: %w", err)
		}
		pcp, cfi, vid := byteio.UnpackTCI(tci)
		hdr.Tagged = true
		hdr.PCP = pcp
		hdr.CFI = cfi
		hdr.VID = vid
		hdr.EtherType = EtherType(inner)
		return hdr, nil
	}

	hdr.EtherType = EtherType(et)
	return hdr, nil
}

func decodeBody(et EtherType, r *byteio.Reader) (Body, error) {
	switch et {
	case EtherTypeIPv4:
		ip, err := DecodeIPPacket(r.Rest())
		if err != nil {
			return nil, fmt.Errorf("decode ip packet: %w", err)
		}
		return IPBody{IP: ip}, nil

	case EtherTypeARP:
		arp, err := DecodeARPPacket(r.Rest())
		if err != nil {
			return nil, fmt.Errorf("decode arp packet: %w", err)
		}
		return ARPBody{ARP: arp}, nil

	case EtherTypePaneDP:
		switchID, err := r.ReadU64()
		if err != nil {
			return nil, fmt.Errorf("decode panedp switch id: %w", err)
		}
		portID, err := r.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("decode panedp port id: %w", err)
		}
		return PaneDPBody{SwitchID: switchID, PortID: portID}, nil

	case EtherTypeIPv6:
		if err := r.Skip(ipv6HeaderSize); err != nil {
			return nil, fmt.Errorf("skip ipv6 header: %w", err)
		}
		return OpaqueBody{Data: r.Rest()}, nil

	case EtherTypeDot1X:
		if err := r.Skip(dot1xHeaderSize); err != nil {
			return nil, fmt.Errorf("skip 802.1x header: %w", err)
		}
		return OpaqueBody{Data: r.Rest()}, nil

	default:
		return nil, fmt.Errorf("ethertype %#04x: %w", uint16(et), ErrUnknownEtherType)
	}
}

// EncodeFrame serializes f. Only PaneDPBody and OpaqueBody bodies are
// supported: IP and ARP re-encoding is out of scope because PacketOut
// forwards captured frames as opaque bytes rather than reconstructing
// them field by field.
func EncodeFrame(f Frame) ([]byte, error) {
	w := byteio.NewWriter()
	w.WriteBytes(f.Header.Dst[:])
	w.WriteBytes(f.Header.Src[:])

	if f.Header.Tagged {
		w.WriteU16(uint16(EtherTypeDot1Q))
		w.WriteU16(byteio.PackTCI(f.Header.PCP, f.Header.CFI, f.Header.VID))
	}
	w.WriteU16(uint16(f.Header.EtherType))

	switch b := f.Body.(type) {
	case PaneDPBody:
		w.WriteU64(b.SwitchID)
		w.WriteU16(b.PortID)
	case OpaqueBody:
		w.WriteBytes(b.Data)
	default:
		return nil, fmt.Errorf("encode ethernet frame: body type %T has no wire encoder", f.Body)
	}

	return w.Bytes(), nil
}
