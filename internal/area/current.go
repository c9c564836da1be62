package area

import (
	"github.com/mapforge/wdf-map-tool/internal/chunk"
	"github.com/mapforge/wdf-map-tool/internal/tileindex"
	"github.com/mapforge/wdf-map-tool/internal/world"
)

// DecodeCurrent parses a current-generation per-tile area file. The
// file carries its own name lists; records are validated against them.
func DecodeCurrent(buf []byte) (*Model, error) {
	return decodeTile(buf, chunk.GenCurrent, nil, nil)
}

// EncodeCurrent serializes the model as a current-generation file:
// layers split into ATEX, name lists embedded, placement chunks
// immediately before the terrain chunks, index offsets exact.
//
// Records are written with the model's name lists as-is; convert a
// model decoded from an older generation with LocalizeNames first.
func EncodeCurrent(m *Model) ([]byte, error) {
	if err := m.validateIndices(); err != nil {
		return nil, err
	}

	ver := make([]byte, 4)
	chunk.WriteU32(ver, chunk.VersionCurrent)

	w := chunk.NewWriter()
	w.Put(chunk.TagFVER, ver)
	w.Put(chunk.TagAHDR, m.encodeHeader())
	aidxOff := w.Put(chunk.TagAIDX, make([]byte, tileindex.PayloadSize))
	w.Put(chunk.TagATEX, m.encodeLayers())
	w.Put(chunk.TagDNAM, world.JoinNames(m.DoodadNames))
	w.Put(chunk.TagONAM, world.JoinNames(m.ObjectNames))
	w.Put(chunk.TagADDF, EncodeDoodads(m.Doodads))
	w.Put(chunk.TagAOBF, EncodeObjects(m.Objects))

	ix := m.newIndex()
	for slot, mesh := range m.Mesh {
		if mesh == nil {
			continue
		}

		p := make([]byte, 4+len(mesh))
		chunk.WriteU32(p, uint32(slot))
		copy(p[4:], mesh)

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

// encodeLayers builds the ATEX payload: one length-prefixed block per
// present sub-tile in row-major order.
func (m *Model) encodeLayers() []byte {
	var out []byte
	for slot, mesh := range m.Mesh {
		if mesh == nil {
			continue
		}

		var n [4]byte
		chunk.WriteU32(n[:], uint32(len(m.Layers[slot])))
		out = append(out, n[:]...)
		out = append(out, m.Layers[slot]...)
	}

	return out
}

// LocalizeNames rewrites the model's name lists from the world's
// global lists to minimal per-tile lists, re-indexing every placement
// record. Each record resolves to the same filename before and after.
// Fails with DanglingNameIndexError on an out-of-range index.
func (m *Model) LocalizeNames() error {
	if err := m.validateIndices(); err != nil {
		return err
	}

	doodads, doodadMap := usedNames(m.DoodadNames, func(yield func(uint32)) {
		for _, d := range m.Doodads {
			yield(d.NameIndex)
		}
	})
	objects, objectMap := usedNames(m.ObjectNames, func(yield func(uint32)) {
		for _, o := range m.Objects {
			yield(o.NameIndex)
		}
	})

	for i := range m.Doodads {
		m.Doodads[i].NameIndex = doodadMap[m.Doodads[i].NameIndex]
	}
	for i := range m.Objects {
		m.Objects[i].NameIndex = objectMap[m.Objects[i].NameIndex]
	}

	m.DoodadNames = doodads
	m.ObjectNames = objects

	return nil
}

// usedNames collects the referenced subset of a global name list in
// first-use order and returns the old-index to new-index mapping.
func usedNames(global []string, indices func(yield func(uint32))) ([]string, map[uint32]uint32) {
	var local []string
	remap := make(map[uint32]uint32)

	indices(func(idx uint32) {
		if _, seen := remap[idx]; seen {
			return
		}
		remap[idx] = uint32(len(local))
		local = append(local, global[idx])
	})

	return local, remap
}
