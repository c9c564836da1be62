// Package area implements the generation-neutral model of one tile's
// area data and the per-generation codecs that translate it to and
// from raw chunk bytes.
package area

import (
	"fmt"

	"github.com/mapforge/wdf-map-tool/internal/chunk"
	"github.com/mapforge/wdf-map-tool/internal/tileindex"
)

// AHDRSize is the area header payload size: origin 3xf32 + u32 flags.
const AHDRSize = 16

// Model is the in-memory form of one tile, shared by all generations.
// Mesh and Layers are indexed by row-major sub-tile slot; a nil Mesh
// slot means the sub-tile is absent. Reserved carries the two
// uninterpreted words of each index entry byte-for-byte.
type Model struct {
	Mesh     [tileindex.Count][]byte
	Layers   [tileindex.Count][]byte
	Reserved [tileindex.Count][2]uint32

	Doodads []Doodad
	Objects []Object

	// Name lists the records index into. After a legacy or mid decode
	// these alias the world's global lists; LocalizeNames rewrites
	// them to per-tile lists for a current-generation encode.
	DoodadNames []string
	ObjectNames []string

	Origin  [3]float32
	Flags   uint32
	Version uint32
}

// Decode dispatches to the generation's decoder. The name lists are
// only read for legacy and mid input; current files carry their own.
func Decode(gen chunk.Generation, buf []byte, doodadNames, objectNames []string) (*Model, error) {
	switch gen {
	case chunk.GenLegacy:
		return DecodeLegacy(buf, doodadNames, objectNames)
	case chunk.GenMid:
		return DecodeMid(buf, doodadNames, objectNames)
	case chunk.GenCurrent:
		return DecodeCurrent(buf)
	default:
		return nil, fmt.Errorf("cannot decode generation %q", gen)
	}
}

// Encode dispatches to the generation's encoder. The legacy monolith
// is a read-only source format and cannot be written.
func Encode(gen chunk.Generation, m *Model) ([]byte, error) {
	switch gen {
	case chunk.GenMid:
		return EncodeMid(m)
	case chunk.GenCurrent:
		return EncodeCurrent(m)
	default:
		return nil, fmt.Errorf("cannot encode generation %q", gen)
	}
}

// SubTileCount returns the number of present terrain sub-tiles.
func (m *Model) SubTileCount() int {
	n := 0
	for _, mesh := range m.Mesh {
		if mesh != nil {
			n++
		}
	}

	return n
}

// validateIndices checks every placement record against the model's
// name lists.
func (m *Model) validateIndices() error {
	for _, d := range m.Doodads {
		if int(d.NameIndex) >= len(m.DoodadNames) {
			return &DanglingNameIndexError{List: "doodad", Index: d.NameIndex, Len: len(m.DoodadNames)}
		}
	}
	for _, o := range m.Objects {
		if int(o.NameIndex) >= len(m.ObjectNames) {
			return &DanglingNameIndexError{List: "object", Index: o.NameIndex, Len: len(m.ObjectNames)}
		}
	}

	return nil
}

// decodeHeader fills origin and flags from an AHDR payload.
func (m *Model) decodeHeader(p []byte) error {
	if len(p) != AHDRSize {
		return fmt.Errorf("area header is %d bytes, want %d", len(p), AHDRSize)
	}

	m.Origin[0] = chunk.ReadF32(p)
	m.Origin[1] = chunk.ReadF32(p[4:])
	m.Origin[2] = chunk.ReadF32(p[8:])
	m.Flags = chunk.ReadU32(p[12:])

	return nil
}

// encodeHeader builds an AHDR payload.
func (m *Model) encodeHeader() []byte {
	p := make([]byte, AHDRSize)
	chunk.WriteF32(p, m.Origin[0])
	chunk.WriteF32(p[4:], m.Origin[1])
	chunk.WriteF32(p[8:], m.Origin[2])
	chunk.WriteU32(p[12:], m.Flags)

	return p
}

// copyReserved carries index reserved words into the model.
func (m *Model) copyReserved(ix *tileindex.Index) {
	for i, e := range ix.Entries {
		m.Reserved[i] = [2]uint32{e.Reserved0, e.Reserved1}
	}
}
