package packet_test

import (
	"net/netip"
	"testing"

	"github.com/flowforge/goflow10/internal/byteio"
	"github.com/flowforge/goflow10/internal/packet"
)

func buildIPv4(proto packet.IPProtocol, payload []byte) []byte {
	w := byteio.NewWriter()
	w.WriteU8(0x45) // version 4, IHL 5 (no options)
	w.WriteU8(0)    // tos
	totalLen := 20 + len(payload)
	w.WriteU16(uint16(totalLen))
	w.WriteU16(0x1234) // id
	w.WriteU16(0)      // flags/frag
	w.WriteU8(64)      // ttl
	w.WriteU8(uint8(proto))
	w.WriteU16(0) // checksum
	src := netip.MustParseAddr("192.168.0.1").As4()
	dst := netip.MustParseAddr("192.168.0.2").As4()
	w.WriteBytes(src[:])
	w.WriteBytes(dst[:])
	w.WriteBytes(payload)
	return w.Bytes()
}

func TestDecodeIPPacketTCP(t *testing.T) {
	t.Parallel()

	tcp := packet.EncodeTCPHeader(packet.TCPHeader{SrcPort: 80, DstPort: 443})
	buf := buildIPv4(packet.IPProtocolTCP, tcp)

	pkt, err := packet.DecodeIPPacket(buf)
	if err != nil {
		t.Fatalf("DecodeIPPacket() error = %v", err)
	}
	tp, ok := pkt.Payload.(packet.TCPPayload)
	if !ok {
		t.Fatalf("Payload type = %T, want TCPPayload", pkt.Payload)
	}
	if tp.Header.SrcPort != 80 || tp.Header.DstPort != 443 {
		t.Errorf("TCP ports = %d/%d, want 80/443", tp.Header.SrcPort, tp.Header.DstPort)
	}
}

func TestDecodeIPPacketUDP(t *testing.T) {
	t.Parallel()

	payload := append(packet.EncodeUDPHeader(packet.UDPHeader{SrcPort: 53, DstPort: 12345, Length: 8}), []byte("hi")...)
	buf := buildIPv4(packet.IPProtocolUDP, payload)

	pkt, err := packet.DecodeIPPacket(buf)
	if err != nil {
		t.Fatalf("DecodeIPPacket() error = %v", err)
	}
	up, ok := pkt.Payload.(packet.UDPPayload)
	if !ok {
		t.Fatalf("Payload type = %T, want UDPPayload", pkt.Payload)
	}
	if up.Header.SrcPort != 53 || string(up.Payload) != "hi" {
		t.Errorf("UDP header/payload = %+v/%q, want src=53 payload=hi", up.Header, up.Payload)
	}
}

func TestDecodeIPPacketOtherProtocol(t *testing.T) {
	t.Parallel()

	buf := buildIPv4(IPProtocolGRE, []byte{0xAA, 0xBB})

	pkt, err := packet.DecodeIPPacket(buf)
	if err != nil {
		t.Fatalf("DecodeIPPacket() error = %v", err)
	}
	other, ok := pkt.Payload.(packet.OtherIPProtocolPayload)
	if !ok {
		t.Fatalf("Payload type = %T, want OtherIPProtocolPayload", pkt.Payload)
	}
	if len(other.Data) != 2 {
		t.Errorf("len(Data) = %d, want 2", len(other.Data))
	}
}

// IPProtocolGRE (47) is not in the dispatch table, used to exercise the
// OtherIPProtocol fallback.
const IPProtocolGRE packet.IPProtocol = 47
