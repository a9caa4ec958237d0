package packet

import (
	"fmt"
	"net/netip"

	"github.com/flowforge/goflow10/internal/byteio"
)

// ARPOpcode identifies the ARP message kind.
type ARPOpcode uint16

const (
	ARPRequest ARPOpcode = 1
	ARPReply   ARPOpcode = 2
)

const (
	arpHTypeEthernet = 1
	arpPTypeIPv4     = 0x0800
	arpHLenEthernet  = 6
	arpPLenIPv4      = 4
)

func (o ARPOpcode) String() string {
	switch o {
	case ARPRequest:
		return "Request"
	case ARPReply:
		return "Reply"
	default:
		return fmt.Sprintf("Unknown(%d)", uint16(o))
	}
}

// ARPPacket is a decoded ARP packet restricted to the Ethernet/IPv4
// combination OpenFlow switches actually carry.
type ARPPacket struct {
	Opcode    ARPOpcode
	SenderMAC MAC
	SenderIP  netip.Addr
	TargetMAC MAC
	TargetIP  netip.Addr
}

// DecodeARPPacket decodes an ARP packet body. Opcodes other
// than request/reply surface ErrInvalidARPOpcode per the REDESIGN FLAG
// rather than being silently dropped.
func DecodeARPPacket(buf []byte) (ARPPacket, error) {
	r := byteio.NewReader(buf)

	htype, err := r.ReadU16()
	if err != nil {
		return ARPPacket{}, fmt.Errorf("read hardware type: %w", err)
	}
	ptype, err := r.ReadU16()
	if err != nil {
		return ARPPacket{}, fmt.Errorf("read protocol type: %w", err)
	}
	hlen, err := r.ReadU8()
	if err != nil {
		return ARPPacket{}, fmt.Errorf("read hardware length: %w", err)
	}
	plen, err := r.ReadU8()
	if err != nil {
		return ARPPacket{}, fmt.Errorf("read protocol length: %w", err)
	}
	if htype != arpHTypeEthernet || ptype != arpPTypeIPv4 || hlen != arpHLenEthernet || plen != arpPLenIPv4 {
		return ARPPacket{}, fmt.Errorf("arp htype/ptype/hlen/plen %d/%d/%d/%d: %w", htype, ptype, hlen, plen, ErrUnknownIPProtocol)
	}

	opcodeRaw, err := r.ReadU16()
	if err != nil {
		return ARPPacket{}, fmt.Errorf("read opcode: %w", err)
	}
	opcode := ARPOpcode(opcodeRaw)
	if opcode != ARPRequest && opcode != ARPReply {
		return ARPPacket{}, fmt.Errorf("arp opcode %d: %w", opcodeRaw, ErrInvalidARPOpcode)
	}

	sha, err := r.ReadBytes(6)
	if err != nil {
		return ARPPacket{}, fmt.Errorf("read sender hw addr: %w", err)
	}
	spa, err := r.ReadBytes(4)
	if err != nil {
		return ARPPacket{}, fmt.Errorf("read sender proto addr: %w", err)
	}
	tha, err := r.ReadBytes(6)
	if err != nil {
		return ARPPacket{}, fmt.Errorf("read target hw addr: %w", err)
	}
	tpa, err := r.ReadBytes(4)
	if err != nil {
		return ARPPacket{}, fmt.Errorf("read target proto addr: %w", err)
	}

	pkt := ARPPacket{Opcode: opcode}
	copy(pkt.SenderMAC[:], sha)
	copy(pkt.TargetMAC[:], tha)
	pkt.SenderIP = ipv4From4(spa)
	pkt.TargetIP = ipv4From4(tpa)
	return pkt, nil
}

func ipv4From4(b []byte) netip.Addr {
	var a [4]byte
	copy(a[:], b)
	return netip.AddrFrom4(a)
}

// EncodeARPPacket serializes an ARP packet body.
func EncodeARPPacket(pkt ARPPacket) []byte {
	w := byteio.NewWriter()
	w.WriteU16(arpHTypeEthernet)
	w.WriteU16(arpPTypeIPv4)
	w.WriteU8(arpHLenEthernet)
	w.WriteU8(arpPLenIPv4)
	w.WriteU16(uint16(pkt.Opcode))
	w.WriteBytes(pkt.SenderMAC[:])
	spa := pkt.SenderIP.As4()
	w.WriteBytes(spa[:])
	w.WriteBytes(pkt.TargetMAC[:])
	tpa := pkt.TargetIP.As4()
	w.WriteBytes(tpa[:])
	return w.Bytes()
}

// ArpQuery builds a well-formed 42-byte ARP request Ethernet frame
// broadcast to ff:ff:ff:ff:ff:ff.
//
// Constructing and re-encoding ARP is the one exception to the
// decode-only asymmetry documented on EncodeFrame: these constructors
// emit wire bytes directly, so ArpQuery/ArpReply bypass EncodeFrame
// and serialize the ARP body inline.
func ArpQuery(sha MAC, spa, tpa netip.Addr) (Frame, []byte) {
	return encodeARPFrame(BroadcastMAC, sha, ARPPacket{
		Opcode:    ARPRequest,
		SenderMAC: sha,
		SenderIP:  spa,
		TargetMAC: MAC{},
		TargetIP:  tpa,
	})
}

// ArpReply builds a well-formed ARP reply Ethernet frame addressed to tha.
func ArpReply(sha MAC, spa netip.Addr, tha MAC, tpa netip.Addr) (Frame, []byte) {
	return encodeARPFrame(tha, sha, ARPPacket{
		Opcode:    ARPReply,
		SenderMAC: sha,
		SenderIP:  spa,
		TargetMAC: tha,
		TargetIP:  tpa,
	})
}

func encodeARPFrame(dst, src MAC, arp ARPPacket) (Frame, []byte) {
	f := Frame{
		Header: Header{Dst: dst, Src: src, EtherType: EtherTypeARP},
		Body:   ARPBody{ARP: arp},
	}

	w := byteio.NewWriter()
	w.WriteBytes(f.Header.Dst[:])
	w.WriteBytes(f.Header.Src[:])
	w.WriteU16(uint16(EtherTypeARP))
	w.WriteBytes(EncodeARPPacket(arp))
	return f, w.Bytes()
}

// ARPBody wraps a decoded ARP packet as an Ethernet Body variant.
type ARPBody struct {
	ARP ARPPacket
}

func (ARPBody) isBody() {}
