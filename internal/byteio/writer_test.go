package byteio_test

import (
	"bytes"
	"testing"

	"github.com/flowforge/goflow10/internal/byteio"
)

func TestWriterRoundTrip(t *testing.T) {
	t.Parallel()

	w := byteio.NewWriter()
	w.WriteU8(0x01)
	w.WriteU16(0x0203)
	w.WriteU32(0x04050607)
	w.WriteU64(0x08090A0B0C0D0E0F)
	w.WriteBytes([]byte{0xAA, 0xBB})

	got := w.Bytes()
	want := []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
		0xAA, 0xBB,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Bytes() = % X, want % X", got, want)
	}
}

func TestWriterReserveAndPatch(t *testing.T) {
	t.Parallel()

	w := byteio.NewWriter()
	w.WriteU8(1)
	off := w.Reserve(2)
	w.WriteBytes([]byte{0xDE, 0xAD})
	w.PatchU16(off, uint16(w.Len()))

	got := w.Bytes()
	want := []byte{0x01, 0x00, 0x05, 0xDE, 0xAD}
	if !bytes.Equal(got, want) {
		t.Fatalf("Bytes() = % X, want % X", got, want)
	}
}

func TestWriterZero(t *testing.T) {
	t.Parallel()

	w := byteio.NewWriter()
	w.WriteZero(3)
	if !bytes.Equal(w.Bytes(), []byte{0, 0, 0}) {
		t.Fatalf("Bytes() = % X, want 00 00 00", w.Bytes())
	}
}
