// Package tileindex implements the fixed 256-entry terrain sub-tile
// index carried by area data files in the AIDX chunk.
package tileindex

import (
	"errors"
	"fmt"

	"github.com/mapforge/wdf-map-tool/internal/chunk"
)

const (
	// Side is the number of terrain sub-tiles per area side.
	Side = 16
	// Count is the fixed number of index slots (Side*Side).
	Count = 256
	// EntrySize is the on-disk size of one index entry.
	EntrySize = 16
	// PayloadSize is the full AIDX payload size.
	PayloadSize = Count * EntrySize
)

// ErrNoIndex is returned when a buffer carries no AIDX chunk.
var ErrNoIndex = errors.New("no index chunk")

// Entry locates one terrain sub-tile chunk inside an area file.
// Offset is the absolute file offset of the ACNK chunk header, Size
// its payload length. Both are zero for absent sub-tiles. The two
// reserved words are preserved byte-for-byte, never interpreted.
type Entry struct {
	Offset    uint32
	Size      uint32
	Reserved0 uint32
	Reserved1 uint32
}

// Index is the full sub-tile table in row-major order.
type Index struct {
	Entries [Count]Entry
}

// SubIndex converts a sub-tile coordinate to its row-major slot.
func SubIndex(row, col int) int {
	return row*Side + col
}

// FromPayload decodes an AIDX payload.
func FromPayload(p []byte) (*Index, error) {
	if len(p) != PayloadSize {
		return nil, fmt.Errorf("index payload is %d bytes, want %d", len(p), PayloadSize)
	}

	ix := &Index{}
	for i := range ix.Entries {
		b := p[i*EntrySize:]
		ix.Entries[i] = Entry{
			Offset:    chunk.ReadU32(b),
			Size:      chunk.ReadU32(b[4:]),
			Reserved0: chunk.ReadU32(b[8:]),
			Reserved1: chunk.ReadU32(b[12:]),
		}
	}

	return ix, nil
}

// Payload encodes the table as a fresh AIDX payload.
func (ix *Index) Payload() []byte {
	p := make([]byte, PayloadSize)
	if err := ix.WriteTo(p); err != nil {
		// PayloadSize buffer cannot fail.
		panic(err)
	}

	return p
}

// WriteTo encodes the table into an existing payload slice, typically
// a borrowed view into a serialized file.
func (ix *Index) WriteTo(p []byte) error {
	if len(p) != PayloadSize {
		return fmt.Errorf("index payload is %d bytes, want %d", len(p), PayloadSize)
	}

	for i, e := range ix.Entries {
		b := p[i*EntrySize:]
		chunk.WriteU32(b, e.Offset)
		chunk.WriteU32(b[4:], e.Size)
		chunk.WriteU32(b[8:], e.Reserved0)
		chunk.WriteU32(b[12:], e.Reserved1)
	}

	return nil
}

// Scan rebuilds the index from a serialized area file by walking its
// chunks top to bottom. Each terrain chunk names its own slot in the
// first payload word, and the format writes them in ascending slot
// order, so encounter order doubles as a consistency check. Absent
// slots stay zero; reserved words are carried over from an existing
// AIDX chunk so they survive a rebuild.
func Scan(buf []byte) (*Index, error) {
	ix := &Index{}
	prev := -1

	r := chunk.NewReader(buf)
	for r.More() {
		c, err := r.Read()
		if err != nil {
			return nil, err
		}

		switch c.Tag {
		case chunk.TagAIDX:
			old, err := FromPayload(c.Payload)
			if err != nil {
				return nil, err
			}
			for i := range ix.Entries {
				ix.Entries[i].Reserved0 = old.Entries[i].Reserved0
				ix.Entries[i].Reserved1 = old.Entries[i].Reserved1
			}

		case chunk.TagACNK:
			slot, err := SlotOf(c)
			if err != nil {
				return nil, err
			}
			if slot <= prev {
				return nil, fmt.Errorf("terrain chunk at %d for slot %d after slot %d", c.Offset, slot, prev)
			}
			prev = slot
			ix.Entries[slot].Offset = uint32(c.Offset)
			ix.Entries[slot].Size = uint32(c.Len())
		}
	}

	return ix, nil
}

// SlotOf reads and validates the sub-tile slot a terrain chunk names
// in its first payload word.
func SlotOf(c chunk.Chunk) (int, error) {
	if c.Len() < 4 {
		return 0, fmt.Errorf("terrain chunk at %d too short for its slot: %w", c.Offset, chunk.ErrTruncated)
	}

	slot := int(chunk.ReadU32(c.Payload))
	if slot >= Count {
		return 0, fmt.Errorf("terrain chunk at %d names slot %d of %d", c.Offset, slot, Count)
	}

	return slot, nil
}

// PatchInto rewrites the AIDX payload of a serialized file in place.
func (ix *Index) PatchInto(buf []byte) error {
	r := chunk.NewReader(buf)
	for r.More() {
		c, err := r.Read()
		if err != nil {
			return err
		}
		if c.Tag == chunk.TagAIDX {
			return ix.WriteTo(c.Payload)
		}
	}

	return ErrNoIndex
}
