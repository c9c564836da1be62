package world

import (
	"fmt"
	"io"
)

// AccessFunc reads length bytes at an absolute file offset. It is the
// only capability the tool needs from the file provider.
type AccessFunc func(offset, length uint32) ([]byte, error)

// ReaderAtAccess adapts an io.ReaderAt (such as *os.File) to an
// AccessFunc, so the legacy monolith never has to be fully resident.
func ReaderAtAccess(r io.ReaderAt) AccessFunc {
	return func(offset, length uint32) ([]byte, error) {
		buf := make([]byte, length)
		if _, err := r.ReadAt(buf, int64(offset)); err != nil {
			return nil, err
		}
		return buf, nil
	}
}

// BufferAccess adapts an in-memory buffer to an AccessFunc.
func BufferAccess(buf []byte) AccessFunc {
	return func(offset, length uint32) ([]byte, error) {
		end := int(offset) + int(length)
		if int(offset) > len(buf) || end > len(buf) {
			return nil, fmt.Errorf("read %d..%d beyond buffer of %d bytes", offset, end, len(buf))
		}
		return buf[offset:end], nil
	}
}

// TileReader slices embedded tile blobs out of a legacy monolithic
// world file using the table's offset ranges.
type TileReader struct {
	table  *Table
	access AccessFunc
}

// NewTileReader returns a TileReader over the given access function.
func NewTileReader(table *Table, access AccessFunc) *TileReader {
	return &TileReader{table: table, access: access}
}

// ReadTile returns the raw bytes of one tile's embedded blob.
func (r *TileReader) ReadTile(c Coord) ([]byte, error) {
	offset, size, err := r.table.TileRange(c)
	if err != nil {
		return nil, err
	}

	return r.access(offset, size)
}
