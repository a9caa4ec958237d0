package packet_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/flowforge/goflow10/internal/packet"
)

func TestDecodeFrameRejectsEthernetI(t *testing.T) {
	t.Parallel()

	buf := append(append([]byte{}, bytes.Repeat([]byte{0}, 12)...), 0x05, 0xFF)
	if _, err := packet.DecodeFrame(buf); !errors.Is(err, packet.ErrNotEthernetII) {
		t.Fatalf("DecodeFrame() error = %v, want ErrNotEthernetII", err)
	}
}

func TestDecodeFrameAcceptsBoundaryEtherType(t *testing.T) {
	t.Parallel()

	// 0x0600 is the smallest valid Ethernet II ethertype; it has no
	// registered handler so we expect a
	// recoverable UnknownEtherType, not ErrNotEthernetII.
	buf := append(append([]byte{}, bytes.Repeat([]byte{0}, 12)...), 0x06, 0x00)
	_, err := packet.DecodeFrame(buf)
	if errors.Is(err, packet.ErrNotEthernetII) {
		t.Fatalf("DecodeFrame(0x0600) should not be ErrNotEthernetII, got %v", err)
	}
	if !errors.Is(err, packet.ErrUnknownEtherType) {
		t.Fatalf("DecodeFrame(0x0600) error = %v, want ErrUnknownEtherType", err)
	}
}

func TestDecodeFrameUnknownEtherType(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 14)
	buf[12], buf[13] = 0x12, 0x34
	_, err := packet.DecodeFrame(buf)
	if !errors.Is(err, packet.ErrUnknownEtherType) {
		t.Fatalf("DecodeFrame() error = %v, want ErrUnknownEtherType", err)
	}
}

func TestEncodeDecodePaneDPRoundTrip(t *testing.T) {
	t.Parallel()

	orig := packet.Frame{
		Header: packet.Header{
			Dst:       packet.MAC{1, 2, 3, 4, 5, 6},
			Src:       packet.MAC{6, 5, 4, 3, 2, 1},
			EtherType: packet.EtherTypePaneDP,
		},
		Body: packet.PaneDPBody{SwitchID: 0xDEADBEEFCAFEBABE, PortID: 42},
	}

	buf, err := packet.EncodeFrame(orig)
	if err != nil {
		t.Fatalf("EncodeFrame() error = %v", err)
	}

	decoded, err := packet.DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}

	if decoded.Header != orig.Header {
		t.Errorf("decoded header = %+v, want %+v", decoded.Header, orig.Header)
	}
	if decoded.Body != orig.Body {
		t.Errorf("decoded body = %+v, want %+v", decoded.Body, orig.Body)
	}
}

func TestDecodeFrame8021Q(t *testing.T) {
	t.Parallel()

	var buf []byte
	dstMAC := packet.MAC{1, 1, 1, 1, 1, 1}
	srcMAC := packet.MAC{2, 2, 2, 2, 2, 2}
	buf = append(buf, dstMAC[:]...)
	buf = append(buf, srcMAC[:]...)
	buf = append(buf, 0x81, 0x00) // 802.1Q
	buf = append(buf, 0x20, 0x0A) // pcp=1, cfi=0, vid=0x00A
	buf = append(buf, 0x07, 0x77) // inner ethertype = PaneDP
	buf = append(buf, 0, 0, 0, 0, 0, 0, 0, 7) // switch id
	buf = append(buf, 0, 1)                   // port id

	f, err := packet.DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if !f.Header.Tagged || f.Header.VID != 0x00A || f.Header.PCP != 1 {
		t.Fatalf("header = %+v, want tagged pcp=1 vid=0x00A", f.Header)
	}
	if f.Header.EtherType != packet.EtherTypePaneDP {
		t.Fatalf("inner ethertype = %#04x, want PaneDP", uint16(f.Header.EtherType))
	}
}
