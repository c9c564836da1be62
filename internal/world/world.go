// Package world implements the world definition file: the 64x64 tile
// existence grid and the global model name lists that placement
// records index into.
package world

import (
	"fmt"
	"sort"

	"github.com/mapforge/wdf-map-tool/internal/chunk"
)

const (
	// Side is the number of tiles per world side.
	Side = 64
	// TileCount is the number of slots in the tile table.
	TileCount = Side * Side
	// TablePayloadSize is the WTAB payload size (4096 u32 words).
	TablePayloadSize = TileCount * 4
)

// Coord identifies one tile of the world grid.
type Coord struct {
	Row int
	Col int
}

// Index returns the row-major slot of the coordinate.
func (c Coord) Index() int {
	return c.Row*Side + c.Col
}

// CoordAt is the inverse of Index.
func CoordAt(i int) Coord {
	return Coord{Row: i / Side, Col: i % Side}
}

// String formats the coordinate the way area file names do.
func (c Coord) String() string {
	return fmt.Sprintf("%d_%d", c.Col, c.Row)
}

// FileName returns the per-tile area file name for a map base name.
func (c Coord) FileName(base string) string {
	return fmt.Sprintf("%s_%d_%d.adf", base, c.Col, c.Row)
}

// Table is the in-memory world definition. The tile grid and name
// lists are read-only while tiles are being converted; placement
// records depend on the list order staying stable.
type Table struct {
	DoodadNames []string
	ObjectNames []string
	Offsets     [TileCount]uint32 // legacy monolith blob offsets, 0 = absent
	Exists      [TileCount]bool
	Flags       uint32
	Version     uint32

	fileSize int
	sorted   []uint32 // non-zero offsets ascending, for TileRange
}

// ExistingTiles returns the coordinates of all existing tiles in
// row-major order.
func (t *Table) ExistingTiles() []Coord {
	var out []Coord
	for i, ok := range t.Exists {
		if ok {
			out = append(out, CoordAt(i))
		}
	}

	return out
}

// TileRange returns the byte range of a tile's embedded blob inside
// the legacy monolithic file. The format stores only start offsets;
// the size is the distance to the next blob, or to end of file.
func (t *Table) TileRange(c Coord) (offset, size uint32, err error) {
	i := c.Index()
	if i < 0 || i >= TileCount {
		return 0, 0, fmt.Errorf("tile %s out of grid", c)
	}

	offset = t.Offsets[i]
	if offset == 0 {
		return 0, 0, fmt.Errorf("tile %s does not exist", c)
	}

	end := uint32(t.fileSize)
	j := sort.Search(len(t.sorted), func(k int) bool { return t.sorted[k] > offset })
	if j < len(t.sorted) {
		end = t.sorted[j]
	}
	if end < offset {
		return 0, 0, fmt.Errorf("tile %s blob range inverted: %d..%d", c, offset, end)
	}

	return offset, end - offset, nil
}

// DecodeLegacy parses the header region of a legacy monolithic world
// file. Tile blobs referenced by the table are not touched here; use
// TileRange and a TileReader to slice them out.
func DecodeLegacy(buf []byte) (*Table, error) {
	t := &Table{fileSize: len(buf)}

	var haveTab, haveDoodads, haveObjects bool

	r := chunk.NewReader(buf)
scan:
	for r.More() && !(haveTab && haveDoodads && haveObjects) {
		c, err := r.Read()
		if err != nil {
			return nil, err
		}

		switch c.Tag {
		case chunk.TagFVER:
			t.Version = chunk.ReadU32(c.Payload)
		case chunk.TagWHDR:
			t.Flags = chunk.ReadU32(c.Payload)
		case chunk.TagWTAB:
			if c.Len() != TablePayloadSize {
				return nil, fmt.Errorf("tile table is %d bytes, want %d", c.Len(), TablePayloadSize)
			}
			for i := 0; i < TileCount; i++ {
				off := chunk.ReadU32(c.Payload[i*4:])
				t.Offsets[i] = off
				t.Exists[i] = off != 0
				if off != 0 {
					t.sorted = append(t.sorted, off)
				}
			}
			haveTab = true
		case chunk.TagDNAM:
			t.DoodadNames = SplitNames(c.Payload)
			haveDoodads = true
		case chunk.TagONAM:
			t.ObjectNames = SplitNames(c.Payload)
			haveObjects = true
		case chunk.TagAHDR:
			// First embedded tile blob: the header region is over.
			break scan
		}
	}

	if !haveTab {
		return nil, fmt.Errorf("world file: WTAB: %w", chunk.ErrUnknownChunk)
	}

	sort.Slice(t.sorted, func(i, j int) bool { return t.sorted[i] < t.sorted[j] })

	return t, nil
}

// DecodeCurrent parses a current-generation world file, where the
// table holds existence flags instead of offsets.
func DecodeCurrent(buf []byte) (*Table, error) {
	t := &Table{fileSize: len(buf)}

	var haveTab bool

	r := chunk.NewReader(buf)
	for r.More() {
		c, err := r.Read()
		if err != nil {
			return nil, err
		}

		switch c.Tag {
		case chunk.TagFVER:
			t.Version = chunk.ReadU32(c.Payload)
		case chunk.TagWHDR:
			t.Flags = chunk.ReadU32(c.Payload)
		case chunk.TagWTAB:
			if c.Len() != TablePayloadSize {
				return nil, fmt.Errorf("tile table is %d bytes, want %d", c.Len(), TablePayloadSize)
			}
			for i := 0; i < TileCount; i++ {
				t.Exists[i] = chunk.ReadU32(c.Payload[i*4:]) != 0
			}
			haveTab = true
		case chunk.TagDNAM:
			t.DoodadNames = SplitNames(c.Payload)
		case chunk.TagONAM:
			t.ObjectNames = SplitNames(c.Payload)
		}
	}

	if !haveTab {
		return nil, fmt.Errorf("world file: WTAB: %w", chunk.ErrUnknownChunk)
	}

	return t, nil
}

// EncodeCurrent serializes the table as a current-generation world
// definition file.
func (t *Table) EncodeCurrent() []byte {
	ver := make([]byte, 4)
	chunk.WriteU32(ver, chunk.VersionCurrent)

	flags := make([]byte, 4)
	chunk.WriteU32(flags, t.Flags)

	tab := make([]byte, TablePayloadSize)
	for i, ok := range t.Exists {
		if ok {
			chunk.WriteU32(tab[i*4:], 1)
		}
	}

	w := chunk.NewWriter()
	w.Put(chunk.TagFVER, ver)
	w.Put(chunk.TagWHDR, flags)
	w.Put(chunk.TagWTAB, tab)
	w.Put(chunk.TagDNAM, JoinNames(t.DoodadNames))
	w.Put(chunk.TagONAM, JoinNames(t.ObjectNames))

	return w.Bytes()
}
