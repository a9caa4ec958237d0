package of10_test

import (
	"testing"

	"github.com/flowforge/goflow10/internal/of10"
)

func TestMatchRoundTrip(t *testing.T) {
	t.Parallel()

	m := of10.Match{
		Wildcards: 0,
		InPort:    5,
		DlSrc:     [6]byte{1, 2, 3, 4, 5, 6},
		DlDst:     [6]byte{6, 5, 4, 3, 2, 1},
		DlVlan:    100,
		DlType:    0x0800,
		NwProto:   6,
		NwSrc:     0xC0A80001,
		NwSrcBits: 24,
		NwDst:     0xC0A80002,
		NwDstBits: 0,
		TpSrc:     80,
		TpDst:     443,
	}

	buf := of10.EncodeMatch(m)
	if len(buf) != 40 {
		t.Fatalf("len(buf) = %d, want 40", len(buf))
	}

	decoded, err := of10.DecodeMatch(buf)
	if err != nil {
		t.Fatalf("DecodeMatch() error = %v", err)
	}
	if decoded != m {
		t.Errorf("decoded = %+v, want %+v", decoded, m)
	}
}

func TestMatchFullyWildcardedSubnetClampsToZero(t *testing.T) {
	t.Parallel()

	m := of10.Match{
		NwSrc:     0xFFFFFFFF,
		NwSrcBits: 40, // >32 means fully wildcarded
		NwDst:     0xFFFFFFFF,
		NwDstBits: 32,
	}

	buf := of10.EncodeMatch(m)
	decoded, err := of10.DecodeMatch(buf)
	if err != nil {
		t.Fatalf("DecodeMatch() error = %v", err)
	}
	if decoded.NwSrc != 0 || decoded.NwSrcBits != 32 {
		t.Errorf("NwSrc/NwSrcBits = %#x/%d, want 0/32", decoded.NwSrc, decoded.NwSrcBits)
	}
	if decoded.NwDst != 0 || decoded.NwDstBits != 32 {
		t.Errorf("NwDst/NwDstBits = %#x/%d, want 0/32", decoded.NwDst, decoded.NwDstBits)
	}
}

func TestDecodeMatchTruncated(t *testing.T) {
	t.Parallel()

	if _, err := of10.DecodeMatch(make([]byte, 39)); err == nil {
		t.Fatal("DecodeMatch() error = nil, want truncation error")
	}
}
