package of10_test

import (
	"testing"

	"github.com/flowforge/goflow10/internal/of10"
)

func TestSwitchFeaturesRoundTripWithPorts(t *testing.T) {
	t.Parallel()

	f := of10.SwitchFeatures{
		DatapathID:   0x0102030405060708,
		NBuffers:     256,
		NTables:      2,
		Capabilities: 0x01,
		Actions:      0x02,
		Ports: []of10.PhyPort{
			{PortNo: 1, HwAddr: [6]byte{1, 2, 3, 4, 5, 6}, Name: "eth0", Config: 0, State: 0},
			{PortNo: 2, HwAddr: [6]byte{6, 5, 4, 3, 2, 1}, Name: "eth1", Config: of10.PortConfigDown},
		},
	}

	buf := of10.EncodeSwitchFeatures(f)

	decoded, err := of10.DecodeSwitchFeatures(buf)
	if err != nil {
		t.Fatalf("DecodeSwitchFeatures() error = %v", err)
	}
	if decoded.DatapathID != f.DatapathID || decoded.NBuffers != f.NBuffers || decoded.NTables != f.NTables {
		t.Errorf("fixed fields = %+v, want %+v", decoded, f)
	}
	if len(decoded.Ports) != 2 || decoded.Ports[0].Name != "eth0" || decoded.Ports[1].Name != "eth1" {
		t.Fatalf("ports = %+v", decoded.Ports)
	}
	if decoded.Ports[1].Config != of10.PortConfigDown {
		t.Errorf("Ports[1].Config = %#x, want PortConfigDown", decoded.Ports[1].Config)
	}
}

func TestDecodeSwitchFeaturesMisalignedPortsTrailer(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 24+10) // 10 bytes is not a multiple of phyPortLen (48)
	if _, err := of10.DecodeSwitchFeatures(buf); err == nil {
		t.Fatal("DecodeSwitchFeatures() error = nil, want length error")
	}
}
