package chunk

import "fmt"

// Reader is a cursor over a chunk stream in a byte buffer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// NewReaderAt returns a Reader positioned at pos within buf.
func NewReaderAt(buf []byte, pos int) *Reader {
	return &Reader{buf: buf, pos: pos}
}

// Pos returns the current absolute offset of the cursor.
func (r *Reader) Pos() int {
	return r.pos
}

// More reports whether any bytes remain at the cursor.
func (r *Reader) More() bool {
	return r.pos < len(r.buf)
}

// Read returns the chunk at the cursor and advances past it.
func (r *Reader) Read() (Chunk, error) {
	c, err := ReadAt(r.buf, r.pos)
	if err != nil {
		return Chunk{}, err
	}

	r.pos = c.End()

	return c, nil
}

// ReadAt reads one chunk at pos. The returned payload is a subslice of
// buf, not a copy.
func ReadAt(buf []byte, pos int) (Chunk, error) {
	if pos < 0 || pos+HeaderSize > len(buf) {
		return Chunk{}, fmt.Errorf("header at %d: %w", pos, ErrTruncated)
	}

	var tag Tag
	copy(tag[:], buf[pos:pos+4])

	size := int(ReadU32(buf[pos+4:]))
	start := pos + HeaderSize
	if start+size > len(buf) {
		return Chunk{}, fmt.Errorf("payload of %s at %d (%d bytes): %w", tag, pos, size, ErrTruncated)
	}

	return Chunk{Tag: tag, Offset: pos, Payload: buf[start : start+size]}, nil
}
