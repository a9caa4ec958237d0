package packet_test

import (
	"encoding/hex"
	"errors"
	"net/netip"
	"strings"
	"testing"

	"github.com/flowforge/goflow10/internal/packet"
)

func TestArpQueryConstruction(t *testing.T) {
	t.Parallel()

	sha := packet.MAC{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	spa := netip.MustParseAddr("10.0.0.1")
	tpa := netip.MustParseAddr("10.0.0.2")

	_, buf := packet.ArpQuery(sha, spa, tpa)

	if len(buf) != 42 {
		t.Fatalf("len(buf) = %d, want 42", len(buf))
	}

	want := "FFFFFFFFFFFF 001122334455 0806 0001 0800 0604 0001"
	want = strings.ReplaceAll(want, " ", "")
	got := strings.ToUpper(hex.EncodeToString(buf[:len(want)/2]))
	if got != want {
		t.Errorf("prefix = %s, want %s", got, want)
	}
}

func TestArpQueryDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	sha := packet.MAC{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	spa := netip.MustParseAddr("10.0.0.1")
	tpa := netip.MustParseAddr("10.0.0.2")

	_, buf := packet.ArpQuery(sha, spa, tpa)

	f, err := packet.DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}

	_, arp, ok := f.AsARP()
	if !ok {
		t.Fatalf("AsARP() ok = false")
	}
	if arp.Opcode != packet.ARPRequest {
		t.Errorf("Opcode = %v, want Request", arp.Opcode)
	}
	if arp.SenderMAC != sha {
		t.Errorf("SenderMAC = %v, want %v", arp.SenderMAC, sha)
	}
	if arp.SenderIP != spa || arp.TargetIP != tpa {
		t.Errorf("SenderIP/TargetIP = %v/%v, want %v/%v", arp.SenderIP, arp.TargetIP, spa, tpa)
	}
}

func TestArpReplyAddressedToRequester(t *testing.T) {
	t.Parallel()

	sha := packet.MAC{1, 2, 3, 4, 5, 6}
	tha := packet.MAC{6, 5, 4, 3, 2, 1}
	spa := netip.MustParseAddr("192.168.1.1")
	tpa := netip.MustParseAddr("192.168.1.2")

	f, buf := packet.ArpReply(sha, spa, tha, tpa)
	if f.Header.Dst != tha {
		t.Errorf("Header.Dst = %v, want %v", f.Header.Dst, tha)
	}

	decoded, err := packet.DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	_, arp, ok := decoded.AsARP()
	if !ok || arp.Opcode != packet.ARPReply {
		t.Fatalf("AsARP() = (%+v, %v), want Reply", arp, ok)
	}
}

func TestDecodeARPInvalidOpcode(t *testing.T) {
	t.Parallel()

	buf := []byte{
		0x00, 0x01, // htype
		0x08, 0x00, // ptype
		0x06,       // hlen
		0x04,       // plen
		0x00, 0x09, // opcode: invalid
		1, 2, 3, 4, 5, 6, // sha
		10, 0, 0, 1, // spa
		6, 5, 4, 3, 2, 1, // tha
		10, 0, 0, 2, // tpa
	}

	if _, err := packet.DecodeARPPacket(buf); !errors.Is(err, packet.ErrInvalidARPOpcode) {
		t.Fatalf("DecodeARPPacket() error = %v, want ErrInvalidARPOpcode", err)
	}
}
