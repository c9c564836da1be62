// Package chunk implements the tagged, length-prefixed chunk container
// shared by world definition and area data files.
package chunk

import "errors"

// HeaderSize is the fixed chunk header size: 4 tag bytes + u32 length.
const HeaderSize = 8

// ErrTruncated is returned when a buffer ends before a chunk header or
// its declared payload is complete.
var ErrTruncated = errors.New("truncated chunk")

// ErrUnknownChunk is returned when a mandatory chunk is missing or a
// decoder meets a tag it cannot interpret.
var ErrUnknownChunk = errors.New("unknown chunk tag")

// Tag is a 4-byte ASCII chunk identifier.
type Tag [4]byte

// MakeTag builds a Tag from the first four bytes of s.
func MakeTag(s string) Tag {
	var t Tag
	copy(t[:], s)
	return t
}

// String returns the tag as a 4-character string.
func (t Tag) String() string {
	return string(t[:])
}

// Chunk is one tagged record. Payload is a borrowed view into the
// owning file buffer; callers must copy before mutating it.
type Chunk struct {
	Payload []byte
	Offset  int // absolute offset of the chunk header
	Tag     Tag
}

// Len returns the payload length in bytes.
func (c Chunk) Len() int {
	return len(c.Payload)
}

// End returns the absolute offset of the first byte past this chunk.
func (c Chunk) End() int {
	return c.Offset + HeaderSize + len(c.Payload)
}
