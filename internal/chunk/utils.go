package chunk

import "math"

// ReadU16 reads a little-endian 16-bit integer from a byte slice.
func ReadU16(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}

	return uint16(b[0]) | uint16(b[1])<<8
}

// ReadU32 reads a little-endian 32-bit integer from a byte slice.
func ReadU32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}

	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// ReadF32 reads a little-endian 32-bit float from a byte slice.
func ReadF32(b []byte) float32 {
	return math.Float32frombits(ReadU32(b))
}

// WriteU16 writes a little-endian 16-bit integer to a byte slice.
func WriteU16(b []byte, v uint16) {
	if len(b) < 2 {
		return
	}

	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// WriteU32 writes a little-endian 32-bit integer to a byte slice.
func WriteU32(b []byte, v uint32) {
	if len(b) < 4 {
		return
	}

	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// WriteF32 writes a little-endian 32-bit float to a byte slice.
func WriteF32(b []byte, v float32) {
	WriteU32(b, math.Float32bits(v))
}
