package area

import (
	"fmt"
	"sort"

	"github.com/mapforge/wdf-map-tool/internal/chunk"
	"github.com/mapforge/wdf-map-tool/internal/tileindex"
	"github.com/mapforge/wdf-map-tool/internal/world"
)

// DecodeLegacy parses one tile's blob as embedded in the legacy
// monolithic world file. Legacy blobs carry no name lists of their
// own; records index the world's global lists, which the caller
// supplies and which this function only reads.
func DecodeLegacy(blob []byte, doodadNames, objectNames []string) (*Model, error) {
	return decodeTile(blob, chunk.GenLegacy, doodadNames, objectNames)
}

// DecodeMid parses a mid-generation per-tile area file. Layers are
// still inline and name indices still resolve against the world's
// global lists.
func DecodeMid(buf []byte, doodadNames, objectNames []string) (*Model, error) {
	return decodeTile(buf, chunk.GenMid, doodadNames, objectNames)
}

// decodeTile is the chunk walk shared by all generations. For the
// current generation the name lists come from the file itself and the
// supplied lists are ignored.
func decodeTile(buf []byte, gen chunk.Generation, doodadNames, objectNames []string) (*Model, error) {
	inline := gen != chunk.GenCurrent

	m := &Model{Version: gen.Version()}
	if inline {
		m.DoodadNames = doodadNames
		m.ObjectNames = objectNames
	}

	var (
		slots      []int
		atex       []byte
		haveATEX   bool
		haveHeader bool
	)

	r := chunk.NewReader(buf)
	for r.More() {
		c, err := r.Read()
		if err != nil {
			return nil, err
		}

		switch c.Tag {
		case chunk.TagFVER:
			m.Version = chunk.ReadU32(c.Payload)
			if got := chunk.GenerationOfVersion(m.Version); got != gen {
				return nil, fmt.Errorf("file version %d is %s, decoding as %s", m.Version, got, gen)
			}

		case chunk.TagAHDR:
			if err := m.decodeHeader(c.Payload); err != nil {
				return nil, err
			}
			haveHeader = true

		case chunk.TagAIDX:
			ix, err := tileindex.FromPayload(c.Payload)
			if err != nil {
				return nil, err
			}
			m.copyReserved(ix)

		case chunk.TagATEX:
			if inline {
				return nil, fmt.Errorf("%s in a %s file: %w", c.Tag, gen, chunk.ErrUnknownChunk)
			}
			atex = c.Payload
			haveATEX = true

		case chunk.TagDNAM:
			if inline {
				return nil, fmt.Errorf("%s in a %s file: %w", c.Tag, gen, chunk.ErrUnknownChunk)
			}
			m.DoodadNames = world.SplitNames(c.Payload)

		case chunk.TagONAM:
			if inline {
				return nil, fmt.Errorf("%s in a %s file: %w", c.Tag, gen, chunk.ErrUnknownChunk)
			}
			m.ObjectNames = world.SplitNames(c.Payload)

		case chunk.TagADDF:
			if m.Doodads, err = DecodeDoodads(c.Payload); err != nil {
				return nil, err
			}

		case chunk.TagAOBF:
			if m.Objects, err = DecodeObjects(c.Payload); err != nil {
				return nil, err
			}

		case chunk.TagACNK:
			slot, err := tileindex.SlotOf(c)
			if err != nil {
				return nil, err
			}
			if m.Mesh[slot] != nil {
				return nil, fmt.Errorf("duplicate terrain chunk for slot %d at %d", slot, c.Offset)
			}

			body := c.Payload[4:]
			if inline {
				mesh, layers, err := splitInline(c.Offset, body)
				if err != nil {
					return nil, err
				}
				m.Mesh[slot] = mesh
				m.Layers[slot] = layers
			} else {
				m.Mesh[slot] = body
			}
			slots = append(slots, slot)

		default:
			return nil, fmt.Errorf("%s at offset %d: %w", c.Tag, c.Offset, chunk.ErrUnknownChunk)
		}
	}

	if !haveHeader {
		return nil, fmt.Errorf("area file: AHDR: %w", chunk.ErrUnknownChunk)
	}

	if haveATEX {
		if err := m.distributeLayers(atex, slots); err != nil {
			return nil, err
		}
	}

	if err := m.validateIndices(); err != nil {
		return nil, err
	}

	return m, nil
}

// splitInline splits a legacy/mid terrain chunk body (the payload
// after its slot word) into mesh and trailing texture-layer bytes.
// The body starts with the mesh byte count.
func splitInline(at int, body []byte) (mesh, layers []byte, err error) {
	if len(body) < 4 {
		return nil, nil, fmt.Errorf("terrain chunk at %d too short for mesh length: %w", at, chunk.ErrTruncated)
	}

	n := int(chunk.ReadU32(body))
	if 4+n > len(body) {
		return nil, nil, fmt.Errorf("terrain chunk at %d declares %d mesh bytes of %d: %w", at, n, len(body)-4, chunk.ErrTruncated)
	}

	return body[4 : 4+n], body[4+n:], nil
}

// distributeLayers assigns the ATEX payload, a sequence of length
// prefixed blocks in sub-tile order, to the present slots.
func (m *Model) distributeLayers(atex []byte, slots []int) error {
	ordered := append([]int(nil), slots...)
	sort.Ints(ordered)

	pos := 0
	for _, slot := range ordered {
		if pos+4 > len(atex) {
			return fmt.Errorf("texture chunk ends before sub-tile %d: %w", slot, chunk.ErrTruncated)
		}
		n := int(chunk.ReadU32(atex[pos:]))
		pos += 4
		if pos+n > len(atex) {
			return fmt.Errorf("texture block for sub-tile %d declares %d bytes of %d: %w", slot, n, len(atex)-pos, chunk.ErrTruncated)
		}
		m.Layers[slot] = atex[pos : pos+n]
		pos += n
	}

	if pos != len(atex) {
		return fmt.Errorf("texture chunk has %d trailing bytes", len(atex)-pos)
	}

	return nil
}

// EncodeMid serializes the model as a mid-generation per-tile file:
// layers ride inline on terrain chunks and records keep their global
// name indices.
func EncodeMid(m *Model) ([]byte, error) {
	if err := m.validateIndices(); err != nil {
		return nil, err
	}

	ver := make([]byte, 4)
	chunk.WriteU32(ver, chunk.VersionMid)

	w := chunk.NewWriter()
	w.Put(chunk.TagFVER, ver)
	w.Put(chunk.TagAHDR, m.encodeHeader())
	aidxOff := w.Put(chunk.TagAIDX, make([]byte, tileindex.PayloadSize))
	w.Put(chunk.TagADDF, EncodeDoodads(m.Doodads))
	w.Put(chunk.TagAOBF, EncodeObjects(m.Objects))

	ix := m.newIndex()
	for slot, mesh := range m.Mesh {
		if mesh == nil {
			continue
		}

		p := make([]byte, 8+len(mesh)+len(m.Layers[slot]))
		chunk.WriteU32(p, uint32(slot))
		chunk.WriteU32(p[4:], uint32(len(mesh)))
		copy(p[8:], mesh)
		copy(p[8+len(mesh):], m.Layers[slot])

		off := w.Put(chunk.TagACNK, p)
		ix.Entries[slot].Offset = uint32(off)
		ix.Entries[slot].Size = uint32(len(p))
	}

	buf := w.Bytes()
	if err := ix.WriteTo(buf[aidxOff+chunk.HeaderSize : aidxOff+chunk.HeaderSize+tileindex.PayloadSize]); err != nil {
		return nil, err
	}

	return buf, nil
}

// newIndex builds an index with only the reserved words populated.
func (m *Model) newIndex() *tileindex.Index {
	ix := &tileindex.Index{}
	for i, r := range m.Reserved {
		ix.Entries[i].Reserved0 = r[0]
		ix.Entries[i].Reserved1 = r[1]
	}

	return ix
}
