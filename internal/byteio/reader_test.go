package byteio_test

import (
	"errors"
	"testing"

	"github.com/flowforge/goflow10/internal/byteio"
)

func TestReaderBasicReads(t *testing.T) {
	t.Parallel()

	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0xAA, 0xBB}
	r := byteio.NewReader(buf)

	u8, err := r.ReadU8()
	if err != nil || u8 != 0x01 {
		t.Fatalf("ReadU8() = (%d, %v), want (1, nil)", u8, err)
	}

	u16, err := r.ReadU16()
	if err != nil || u16 != 0x0203 {
		t.Fatalf("ReadU16() = (%#x, %v), want (0x0203, nil)", u16, err)
	}

	u32, err := r.ReadU32()
	if err != nil || u32 != 0x04050607 {
		t.Fatalf("ReadU32() = (%#x, %v), want (0x04050607, nil)", u32, err)
	}

	rest, err := r.ReadBytes(2)
	if err != nil || rest[0] != 0x08 || rest[1] != 0xAA {
		t.Fatalf("ReadBytes(2) = (%v, %v), want ([08 AA], nil)", rest, err)
	}

	if r.Remaining() != 1 {
		t.Errorf("Remaining() = %d, want 1", r.Remaining())
	}
}

func TestReaderReadU64(t *testing.T) {
	t.Parallel()

	buf := []byte{0, 0, 0, 0, 0, 0, 0, 1}
	r := byteio.NewReader(buf)
	v, err := r.ReadU64()
	if err != nil || v != 1 {
		t.Fatalf("ReadU64() = (%d, %v), want (1, nil)", v, err)
	}
}

func TestReaderTruncated(t *testing.T) {
	t.Parallel()

	r := byteio.NewReader([]byte{0x01, 0x02})
	if _, err := r.ReadU32(); !errors.Is(err, byteio.ErrTruncated) {
		t.Fatalf("ReadU32() error = %v, want ErrTruncated", err)
	}

	r2 := byteio.NewReader(nil)
	if _, err := r2.PeekU8(); !errors.Is(err, byteio.ErrTruncated) {
		t.Fatalf("PeekU8() error = %v, want ErrTruncated", err)
	}
}

func TestReaderSkipAndRest(t *testing.T) {
	t.Parallel()

	r := byteio.NewReader([]byte{1, 2, 3, 4, 5})
	if err := r.Skip(2); err != nil {
		t.Fatalf("Skip(2) error = %v", err)
	}
	rest := r.Rest()
	if len(rest) != 3 || rest[0] != 3 {
		t.Fatalf("Rest() = %v, want [3 4 5]", rest)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() after Rest() = %d, want 0", r.Remaining())
	}
}

func TestReaderPeekDoesNotAdvance(t *testing.T) {
	t.Parallel()

	r := byteio.NewReader([]byte{0x42})
	v, err := r.PeekU8()
	if err != nil || v != 0x42 {
		t.Fatalf("PeekU8() = (%#x, %v)", v, err)
	}
	if r.Remaining() != 1 {
		t.Errorf("Remaining() after peek = %d, want 1", r.Remaining())
	}
}
