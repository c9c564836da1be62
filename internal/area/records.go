package area

import (
	"fmt"

	"github.com/mapforge/wdf-map-tool/internal/chunk"
)

// On-disk placement record sizes; records are tightly packed.
const (
	DoodadSize = 38
	ObjectSize = 58
)

// Doodad is one small-decoration placement record.
type Doodad struct {
	NameIndex uint32
	Position  [3]float32
	Rotation  [3]float32
	Scale     float32
	UniqueID  uint32
	Flags     uint16
}

// Object is one large-object placement record with a bounding box.
type Object struct {
	NameIndex uint32
	Position  [3]float32
	Rotation  [3]float32
	Bounds    [6]float32 // min xyz, max xyz
	UniqueID  uint32
	Flags     uint16
}

// DecodeDoodads parses a packed ADDF payload.
func DecodeDoodads(p []byte) ([]Doodad, error) {
	if len(p)%DoodadSize != 0 {
		return nil, fmt.Errorf("doodad list of %d bytes is not a multiple of %d: %w", len(p), DoodadSize, chunk.ErrTruncated)
	}

	out := make([]Doodad, 0, len(p)/DoodadSize)
	for off := 0; off < len(p); off += DoodadSize {
		b := p[off:]
		d := Doodad{
			NameIndex: chunk.ReadU32(b),
			Scale:     chunk.ReadF32(b[28:]),
			UniqueID:  chunk.ReadU32(b[32:]),
			Flags:     chunk.ReadU16(b[36:]),
		}
		for i := 0; i < 3; i++ {
			d.Position[i] = chunk.ReadF32(b[4+i*4:])
			d.Rotation[i] = chunk.ReadF32(b[16+i*4:])
		}
		out = append(out, d)
	}

	return out, nil
}

// EncodeDoodads builds a packed ADDF payload.
func EncodeDoodads(list []Doodad) []byte {
	p := make([]byte, len(list)*DoodadSize)
	for n, d := range list {
		b := p[n*DoodadSize:]
		chunk.WriteU32(b, d.NameIndex)
		for i := 0; i < 3; i++ {
			chunk.WriteF32(b[4+i*4:], d.Position[i])
			chunk.WriteF32(b[16+i*4:], d.Rotation[i])
		}
		chunk.WriteF32(b[28:], d.Scale)
		chunk.WriteU32(b[32:], d.UniqueID)
		chunk.WriteU16(b[36:], d.Flags)
	}

	return p
}

// DecodeObjects parses a packed AOBF payload.
func DecodeObjects(p []byte) ([]Object, error) {
	if len(p)%ObjectSize != 0 {
		return nil, fmt.Errorf("object list of %d bytes is not a multiple of %d: %w", len(p), ObjectSize, chunk.ErrTruncated)
	}

	out := make([]Object, 0, len(p)/ObjectSize)
	for off := 0; off < len(p); off += ObjectSize {
		b := p[off:]
		o := Object{
			NameIndex: chunk.ReadU32(b),
			UniqueID:  chunk.ReadU32(b[52:]),
			Flags:     chunk.ReadU16(b[56:]),
		}
		for i := 0; i < 3; i++ {
			o.Position[i] = chunk.ReadF32(b[4+i*4:])
			o.Rotation[i] = chunk.ReadF32(b[16+i*4:])
		}
		for i := 0; i < 6; i++ {
			o.Bounds[i] = chunk.ReadF32(b[28+i*4:])
		}
		out = append(out, o)
	}

	return out, nil
}

// EncodeObjects builds a packed AOBF payload.
func EncodeObjects(list []Object) []byte {
	p := make([]byte, len(list)*ObjectSize)
	for n, o := range list {
		b := p[n*ObjectSize:]
		chunk.WriteU32(b, o.NameIndex)
		for i := 0; i < 3; i++ {
			chunk.WriteF32(b[4+i*4:], o.Position[i])
			chunk.WriteF32(b[16+i*4:], o.Rotation[i])
		}
		for i := 0; i < 6; i++ {
			chunk.WriteF32(b[28+i*4:], o.Bounds[i])
		}
		chunk.WriteU32(b[52:], o.UniqueID)
		chunk.WriteU16(b[56:], o.Flags)
	}

	return p
}
