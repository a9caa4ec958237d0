package of10

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

const matchLen = 40

// Wildcard bits within the 32-bit wildcards field (OpenFlow 1.0 ofp_flow_wildcards).
const (
	wildcardInPort    uint32 = 1 << 0
	wildcardDlSrc     uint32 = 1 << 1
	wildcardDlDst     uint32 = 1 << 2
	wildcardDlVlan    uint32 = 1 << 3
	wildcardDlType    uint32 = 1 << 4
	wildcardNwProto   uint32 = 1 << 5
	wildcardTpSrc     uint32 = 1 << 6
	wildcardTpDst     uint32 = 1 << 7
	wildcardDlVlanPcp uint32 = 1 << 20
	wildcardNwTos     uint32 = 1 << 21

	nwSrcShift uint32 = 8
	nwDstShift uint32 = 14
	nwMaskBits uint32 = 0x3F // 6 bits per address mask

	wildcardAll uint32 = 0x003FFFFF
)

// Match is the fixed 40-byte flow-match predicate. Fields
// ignored by a set wildcard bit still carry their literal value on
// the wire. Wildcards holds every wildcard bit except the two 6-bit
// subnet mask counts, which live in NwSrcBits/NwDstBits: decode splits
// them out and encode folds them back in, so a fully-wildcarded subnet
// round-trips as mask=32, address=0 regardless of what was passed in.
type Match struct {
	Wildcards uint32

	InPort    uint16
	DlSrc     [6]byte
	DlDst     [6]byte
	DlVlan    uint16
	DlVlanPcp uint8
	DlType    uint16
	NwTos     uint8
	NwProto   uint8

	NwSrc     uint32
	NwSrcBits uint8 // number of wildcarded low-order address bits, from the wire's 6-bit mask count (0 = exact, 32 = wildcarded)
	NwDst     uint32
	NwDstBits uint8

	TpSrc uint16
	TpDst uint16
}

// IsWildcard reports whether the given bit is set in Wildcards.
func (m Match) IsWildcard(bit uint32) bool {
	return m.Wildcards&bit != 0
}

// DecodeMatch decodes the fixed 40-byte Match record.
func DecodeMatch(buf []byte) (Match, error) {
	if len(buf) < matchLen {
		return Match{}, fmt.Errorf("match needs %d bytes, got %d: %w", matchLen, len(buf), ErrTruncated)
	}
	r := byteio.NewReader(buf[:matchLen])

	var m Match
	wildcards, _ := r.ReadU32()
	m.Wildcards = wildcards &^ (nwMaskBits << nwSrcShift) &^ (nwMaskBits << nwDstShift)

	inPort, _ := r.ReadU16()
	m.InPort = inPort

	dlSrc, _ := r.ReadBytes(6)
	copy(m.DlSrc[:], dlSrc)
	dlDst, _ := r.ReadBytes(6)
	copy(m.DlDst[:], dlDst)

	dlVlan, _ := r.ReadU16()
	m.DlVlan = dlVlan
	dlVlanPcp, _ := r.ReadU8()
	m.DlVlanPcp = dlVlanPcp
	r.Skip(1) // pad

	dlType, _ := r.ReadU16()
	m.DlType = dlType

	nwTos, _ := r.ReadU8()
	m.NwTos = nwTos
	nwProto, _ := r.ReadU8()
	m.NwProto = nwProto
	r.Skip(2) // pad

	nwSrc, _ := r.ReadU32()
	m.NwSrc = nwSrc
	nwDst, _ := r.ReadU32()
	m.NwDst = nwDst

	m.NwSrcBits = uint8((wildcards >> nwSrcShift) & nwMaskBits)
	m.NwDstBits = uint8((wildcards >> nwDstShift) & nwMaskBits)

	tpSrc, _ := r.ReadU16()
	m.TpSrc = tpSrc
	tpDst, err := r.ReadU16()
	if err != nil {
		return Match{}, fmt.Errorf("read tp_dst: %w", err)
	}
	m.TpDst = tpDst

	return m, nil
}

// EncodeMatch serializes a Match, reconstructing the wildcards field
// from m.Wildcards plus the mask bit counts and clamping fully
// wildcarded subnet fields to mask=32/address=0 on the wire.
func EncodeMatch(m Match) []byte {
	w := byteio.NewWriterSize(matchLen)

	srcBits := m.NwSrcBits
	if srcBits > 32 {
		srcBits = 32
	}
	dstBits := m.NwDstBits
	if dstBits > 32 {
		dstBits = 32
	}

	wildcards := (m.Wildcards &^ (nwMaskBits << nwSrcShift) &^ (nwMaskBits << nwDstShift))
	wildcards |= uint32(srcBits) << nwSrcShift
	wildcards |= uint32(dstBits) << nwDstShift

	w.WriteU32(wildcards)
	w.WriteU16(m.InPort)
	w.WriteBytes(m.DlSrc[:])
	w.WriteBytes(m.DlDst[:])
	w.WriteU16(m.DlVlan)
	w.WriteU8(m.DlVlanPcp)
	w.WriteZero(1)
	w.WriteU16(m.DlType)
	w.WriteU8(m.NwTos)
	w.WriteU8(m.NwProto)
	w.WriteZero(2)

	nwSrc := m.NwSrc
	if srcBits >= 32 {
		nwSrc = 0
	}
	nwDst := m.NwDst
	if dstBits >= 32 {
		nwDst = 0
	}
	w.WriteU32(nwSrc)
	w.WriteU32(nwDst)

	w.WriteU16(m.TpSrc)
	w.WriteU16(m.TpDst)

	return w.Bytes()
}

// WildcardAllMatch returns a Match with every field wildcarded
// (used by FlowMod "add any packet" rules).
func WildcardAllMatch() Match {
	return Match{
		Wildcards: wildcardAll &^ (nwMaskBits << nwSrcShift) &^ (nwMaskBits << nwDstShift),
		NwSrcBits: 32,
		NwDstBits: 32,
	}
}
