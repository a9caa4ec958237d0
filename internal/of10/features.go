package of10

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

const switchFeaturesFixedLen = 24
const phyPortLen = 48

// Port capability and state bits (ofp_port_features / ofp_port_config / ofp_port_state).
const (
	PortConfigDown    uint32 = 1 << 0
	PortStateLinkDown uint32 = 1 << 0
)

// PhyPort describes one physical port reported in a FeaturesReply or
// PortStatus message.
type PhyPort struct {
	PortNo uint16
	HwAddr [6]byte
	Name   string // fixed 16 bytes on the wire, NUL-padded
	Config uint32
	State  uint32

	Curr       uint32
	Advertised uint32
	Supported  uint32
	Peer       uint32
}

const phyPortNameLen = 16

// SwitchFeatures is the body of a FeaturesReply message.
type SwitchFeatures struct {
	DatapathID   uint64
	NBuffers     uint32
	NTables      uint8
	Capabilities uint32
	Actions      uint32
	Ports        []PhyPort
}

// DecodeSwitchFeatures decodes the fixed header plus a trailing
// sequence of PhyPort records that runs to the end of buf.
func DecodeSwitchFeatures(buf []byte) (SwitchFeatures, error) {
	if len(buf) < switchFeaturesFixedLen {
		return SwitchFeatures{}, fmt.Errorf("features body needs %d bytes, got %d: %w", switchFeaturesFixedLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:switchFeaturesFixedLen])

	var f SwitchFeatures
	f.DatapathID, _ = r.ReadU64()
	f.NBuffers, _ = r.ReadU32()
	f.NTables, _ = r.ReadU8()
	r.Skip(3) // pad
	f.Capabilities, _ = r.ReadU32()
	f.Actions, _ = r.ReadU32()

	rest := buf[switchFeaturesFixedLen:]
	if len(rest)%phyPortLen != 0 {
		return SwitchFeatures{}, fmt.Errorf("trailing ports length %d not a multiple of %d: %w", len(rest), phyPortLen, ErrLengthInconsistent)
	}
	for len(rest) > 0 {
		port, err := decodePhyPort(rest[:phyPortLen])
		if err != nil {
			return SwitchFeatures{}, err
		}
		f.Ports = append(f.Ports, port)
		rest = rest[phyPortLen:]
	}

	return f, nil
}

func decodePhyPort(buf []byte) (PhyPort, error) {
	r := byteio.NewReader(buf)

	var p PhyPort
	portNo, err := r.ReadU16()
	if err != nil {
		return PhyPort{}, fmt.Errorf("read port_no: %w", err)
	}
	p.PortNo = portNo

	hwAddr, _ := r.ReadBytes(6)
	copy(p.HwAddr[:], hwAddr)

	name, _ := r.ReadBytes(phyPortNameLen)
	p.Name = trimNulPadded(name)

	p.Config, _ = r.ReadU32()
	p.State, _ = r.ReadU32()
	p.Curr, _ = r.ReadU32()
	p.Advertised, _ = r.ReadU32()
	p.Supported, _ = r.ReadU32()
	p.Peer, _ = r.ReadU32()

	return p, nil
}

func trimNulPadded(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func encodeNulPadded(s string, n int) []byte {
	buf := make([]byte, n)
	copy(buf, s)
	return buf
}

// EncodeSwitchFeatures serializes a SwitchFeatures body.
func EncodeSwitchFeatures(f SwitchFeatures) []byte {
	w := byteio.NewWriterSize(switchFeaturesFixedLen + len(f.Ports)*phyPortLen)
	w.WriteU64(f.DatapathID)
	w.WriteU32(f.NBuffers)
	w.WriteU8(f.NTables)
	w.WriteZero(3)
	w.WriteU32(f.Capabilities)
	w.WriteU32(f.Actions)

	for _, p := range f.Ports {
		w.WriteU16(p.PortNo)
		w.WriteBytes(p.HwAddr[:])
		w.WriteBytes(encodeNulPadded(p.Name, phyPortNameLen))
		w.WriteU32(p.Config)
		w.WriteU32(p.State)
		w.WriteU32(p.Curr)
		w.WriteU32(p.Advertised)
		w.WriteU32(p.Supported)
		w.WriteU32(p.Peer)
	}

	return w.Bytes()
}
