package chunk

// Writer accumulates a chunk stream into an output buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Put appends one chunk with a well-formed header and returns the
// absolute offset of the appended chunk header.
func (w *Writer) Put(tag Tag, payload []byte) int {
	off := len(w.buf)
	w.buf = Append(w.buf, tag, payload)
	return off
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Append appends a header and payload for tag to dst.
func Append(dst []byte, tag Tag, payload []byte) []byte {
	var hdr [HeaderSize]byte
	copy(hdr[:4], tag[:])
	WriteU32(hdr[4:], uint32(len(payload)))

	dst = append(dst, hdr[:]...)
	return append(dst, payload...)
}
