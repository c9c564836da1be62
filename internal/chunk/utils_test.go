package chunk

import "testing"

func TestU32Roundtrip(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4)
	WriteU32(buf, 0xCAFE1234)
	if got := ReadU32(buf); got != 0xCAFE1234 {
		t.Fatalf("roundtrip mismatch: %#x", got)
	}

	// Little-endian byte order on the wire.
	if buf[0] != 0x34 || buf[3] != 0xCA {
		t.Fatalf("unexpected byte order: % x", buf)
	}
}

func TestF32Roundtrip(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4)
	WriteF32(buf, -533.375)
	if got := ReadF32(buf); got != -533.375 {
		t.Fatalf("roundtrip mismatch: %v", got)
	}
}

func TestReadShortBuffers(t *testing.T) {
	t.Parallel()

	if ReadU16([]byte{1}) != 0 {
		t.Fatalf("short u16 read should yield 0")
	}
	if ReadU32([]byte{1, 2, 3}) != 0 {
		t.Fatalf("short u32 read should yield 0")
	}
}
