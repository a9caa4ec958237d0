package of10_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/flowforge/goflow10/internal/of10"
)

func hexBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), "\n", ""), "\t", ""))
	if err != nil {
		t.Fatalf("hex decode: %v", err)
	}
	return b
}

func TestHelloRoundTrip(t *testing.T) {
	t.Parallel()

	buf := hexBytes(t, "01 00 00 08 00 00 00 01")

	xid, msg, err := of10.DecodeSC(buf)
	if err != nil {
		t.Fatalf("DecodeSC() error = %v", err)
	}
	if xid != 1 {
		t.Errorf("xid = %d, want 1", xid)
	}
	if _, ok := msg.(of10.HelloMessage); !ok {
		t.Fatalf("msg type = %T, want HelloMessage", msg)
	}

	out, err := of10.EncodeSC(xid, msg)
	if err != nil {
		t.Fatalf("EncodeSC() error = %v", err)
	}
	if !bytes.Equal(out, buf) {
		t.Errorf("re-encode = % X, want % X", out, buf)
	}
}

func TestEchoRequestWithPayload(t *testing.T) {
	t.Parallel()

	buf := hexBytes(t, "01 02 00 0C 00 00 00 2A DE AD BE EF")

	xid, msg, err := of10.DecodeSC(buf)
	if err != nil {
		t.Fatalf("DecodeSC() error = %v", err)
	}
	if xid != 42 {
		t.Errorf("xid = %d, want 42", xid)
	}
	er, ok := msg.(of10.EchoRequestMessage)
	if !ok {
		t.Fatalf("msg type = %T, want EchoRequestMessage", msg)
	}
	if !bytes.Equal(er.Payload, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Errorf("payload = % X, want DE AD BE EF", er.Payload)
	}
}

func TestFeaturesReplyMinimum(t *testing.T) {
	t.Parallel()

	buf := hexBytes(t, `
		01 06 00 20 00 00 00 07
		00 00 00 00 00 00 00 01 00 00 00 FF 03 00 00 00
		00 00 00 87 00 00 0F FF
	`)

	xid, msg, err := of10.DecodeSC(buf)
	if err != nil {
		t.Fatalf("DecodeSC() error = %v", err)
	}
	if xid != 7 {
		t.Errorf("xid = %d, want 7", xid)
	}
	fm, ok := msg.(of10.FeaturesMessage)
	if !ok {
		t.Fatalf("msg type = %T, want FeaturesMessage", msg)
	}
	f := fm.Features
	if f.DatapathID != 1 || f.NBuffers != 255 || f.NTables != 3 || f.Capabilities != 0x87 || f.Actions != 0x0FFF {
		t.Errorf("features = %+v, want datapath_id=1 n_buffers=255 n_tables=3 capabilities=0x87 actions=0xFFF", f)
	}
	if len(f.Ports) != 0 {
		t.Errorf("len(Ports) = %d, want 0", len(f.Ports))
	}

	out, err := of10.EncodeSC(xid, msg)
	if err != nil {
		t.Fatalf("EncodeSC() error = %v", err)
	}
	if !bytes.Equal(out, buf) {
		t.Errorf("re-encode = % X, want % X", out, buf)
	}
}

func TestFlowModAddDropIs72Bytes(t *testing.T) {
	t.Parallel()

	fm := of10.FlowMod{
		Match:    of10.WildcardAllMatch(),
		Command:  of10.FlowModCommandAdd,
		Priority: 0,
	}
	msg := of10.FlowModMessage{FlowMod: fm}

	buf, err := of10.EncodeCS(99, msg)
	if err != nil {
		t.Fatalf("EncodeCS() error = %v", err)
	}
	if len(buf) != 72 {
		t.Fatalf("len(buf) = %d, want 72", len(buf))
	}

	xid, decoded, err := of10.DecodeCS(buf)
	if err != nil {
		t.Fatalf("DecodeCS() error = %v", err)
	}
	if xid != 99 {
		t.Errorf("xid = %d, want 99", xid)
	}
	got, ok := decoded.(of10.FlowModMessage)
	if !ok {
		t.Fatalf("msg type = %T, want FlowModMessage", decoded)
	}
	if got.FlowMod.Match != fm.Match || got.FlowMod.Command != fm.Command || len(got.FlowMod.Actions) != 0 {
		t.Errorf("decoded FlowMod = %+v, want %+v", got.FlowMod, fm)
	}
}

func TestDecodeSCUnknownMessageType(t *testing.T) {
	t.Parallel()

	buf := hexBytes(t, "01 7F 00 08 00 00 00 01")
	if _, _, err := of10.DecodeSC(buf); !errors.Is(err, of10.ErrUnknownMessageType) {
		t.Fatalf("DecodeSC() error = %v, want ErrUnknownMessageType", err)
	}
}

func TestDecodeSCVersionMismatch(t *testing.T) {
	t.Parallel()

	buf := hexBytes(t, "02 00 00 08 00 00 00 01")
	if _, _, err := of10.DecodeSC(buf); !errors.Is(err, of10.ErrVersionMismatch) {
		t.Fatalf("DecodeSC() error = %v, want ErrVersionMismatch", err)
	}
}

func TestDecodeSCTruncated(t *testing.T) {
	t.Parallel()

	buf := hexBytes(t, "01 00 00 08 00 00 00")
	if _, _, err := of10.DecodeSC(buf); !errors.Is(err, of10.ErrTruncated) {
		t.Fatalf("DecodeSC() error = %v, want ErrTruncated", err)
	}
}

func TestEchoReplyTransparencyLargePayload(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0xAB}, 65527)
	buf, err := of10.EncodeSC(5, of10.EchoReplyMessage{Payload: payload})
	if err != nil {
		t.Fatalf("EncodeSC() error = %v", err)
	}

	xid, msg, err := of10.DecodeSC(buf)
	if err != nil {
		t.Fatalf("DecodeSC() error = %v", err)
	}
	if xid != 5 {
		t.Errorf("xid = %d, want 5", xid)
	}
	got, ok := msg.(of10.EchoReplyMessage)
	if !ok {
		t.Fatalf("msg type = %T, want EchoReplyMessage", msg)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Errorf("payload length = %d, want %d", len(got.Payload), len(payload))
	}
}

func TestExtQueueModifyRoundTrip(t *testing.T) {
	t.Parallel()

	op := of10.ExtQueueOp{
		Port: 3,
		Queues: []of10.QueueConfig{
			{QueueID: 1, Properties: []of10.QueueProperty{of10.MinRateProperty{Rate: 500}}},
		},
	}
	msg := of10.ExtQueueModifyMessage{Op: op}

	buf, err := of10.EncodeCS(1, msg)
	if err != nil {
		t.Fatalf("EncodeCS() error = %v", err)
	}

	_, decoded, err := of10.DecodeCS(buf)
	if err != nil {
		t.Fatalf("DecodeCS() error = %v", err)
	}
	got, ok := decoded.(of10.ExtQueueModifyMessage)
	if !ok {
		t.Fatalf("msg type = %T, want ExtQueueModifyMessage", decoded)
	}
	if got.Op.Port != op.Port || len(got.Op.Queues) != 1 || got.Op.Queues[0].QueueID != 1 {
		t.Errorf("decoded op = %+v, want %+v", got.Op, op)
	}
}
