// Package repair recomputes the internal absolute offsets of an
// already-serialized current-generation area file after its chunks
// were resized or moved, without round-tripping through the model.
package repair

import (
	"errors"
	"fmt"

	"github.com/mapforge/wdf-map-tool/internal/area"
	"github.com/mapforge/wdf-map-tool/internal/chunk"
	"github.com/mapforge/wdf-map-tool/internal/tileindex"
	"github.com/mapforge/wdf-map-tool/internal/world"
)

// ErrMissingChunk is returned when a chunk the repair pass must patch
// is absent. Fatal for the file, but a batch caller continues with
// its remaining files.
var ErrMissingChunk = errors.New("missing expected chunk")

// ErrOffsetRange is returned when a rebuilt offset would point past
// the end of the file. The input is left unmodified.
var ErrOffsetRange = errors.New("offset out of file range")

// TileSpan is the world-space edge length of one tile.
const TileSpan = 1600.0 / 3.0

// Options control one repair pass.
type Options struct {
	// Coord is the tile coordinate the file is meant to occupy; it
	// determines the expected origin. The zero coordinate maps to the
	// grid corner, so it is as valid as any other.
	Coord world.Coord
	// KeepOrigin skips the origin comparison and placement shift and
	// only rebuilds the index tables.
	KeepOrigin bool
	// HeightDelta is an extra vertical translation applied along with
	// the origin correction.
	HeightDelta float32
}

// Result reports what a repair pass did.
type Result struct {
	Delta    [3]float32 // translation applied to placements
	SubTiles int        // terrain chunks re-indexed
	Doodads  int
	Objects  int
}

// OriginFor returns the expected world-space origin of a tile. The
// world is centered on the middle of the 64x64 grid.
func OriginFor(c world.Coord) [2]float32 {
	half := world.Side / 2
	return [2]float32{
		float32(TileSpan * float64(half-c.Col)),
		float32(TileSpan * float64(half-c.Row)),
	}
}

// Repair returns a repaired copy of buf. The input is never mutated;
// on any error the caller's file is left exactly as it was.
func Repair(buf []byte, opts Options) ([]byte, Result, error) {
	out := append([]byte(nil), buf...)

	var (
		hdr     chunk.Chunk
		addf    chunk.Chunk
		aobf    chunk.Chunk
		haveHdr bool
		haveIdx bool
		haveDdf bool
		haveObf bool
	)

	r := chunk.NewReader(out)
	for r.More() {
		c, err := r.Read()
		if err != nil {
			return nil, Result{}, err
		}

		switch c.Tag {
		case chunk.TagAHDR:
			hdr, haveHdr = c, true
		case chunk.TagAIDX:
			haveIdx = true
		case chunk.TagADDF:
			addf, haveDdf = c, true
		case chunk.TagAOBF:
			aobf, haveObf = c, true
		}
	}

	switch {
	case !haveHdr:
		return nil, Result{}, fmt.Errorf("AHDR: %w", ErrMissingChunk)
	case !haveIdx:
		return nil, Result{}, fmt.Errorf("AIDX: %w", ErrMissingChunk)
	case !haveDdf:
		return nil, Result{}, fmt.Errorf("ADDF: %w", ErrMissingChunk)
	case !haveObf:
		return nil, Result{}, fmt.Errorf("AOBF: %w", ErrMissingChunk)
	}
	if len(hdr.Payload) != area.AHDRSize {
		return nil, Result{}, fmt.Errorf("area header is %d bytes, want %d", len(hdr.Payload), area.AHDRSize)
	}

	ix, err := tileindex.Scan(out)
	if err != nil {
		return nil, Result{}, err
	}

	res := Result{
		Doodads: len(addf.Payload) / area.DoodadSize,
		Objects: len(aobf.Payload) / area.ObjectSize,
	}
	for _, e := range ix.Entries {
		if e.Offset == 0 && e.Size == 0 {
			continue
		}
		if int(e.Offset)+chunk.HeaderSize+int(e.Size) > len(out) {
			return nil, Result{}, fmt.Errorf("terrain entry %d..%d beyond %d bytes: %w",
				e.Offset, e.Offset+e.Size, len(out), ErrOffsetRange)
		}
		res.SubTiles++
	}

	if !opts.KeepOrigin {
		res.Delta = originDelta(hdr.Payload, opts)
		shiftPlacements(addf.Payload, aobf.Payload, res.Delta)
		writeOrigin(hdr.Payload, res.Delta)
	}

	if err := ix.PatchInto(out); err != nil {
		return nil, Result{}, err
	}

	return out, res, nil
}

// originDelta compares the stored origin with the origin the tile
// coordinate implies and returns the translation to apply.
func originDelta(hdr []byte, opts Options) [3]float32 {
	want := OriginFor(opts.Coord)
	return [3]float32{
		want[0] - chunk.ReadF32(hdr),
		want[1] - chunk.ReadF32(hdr[4:]),
		opts.HeightDelta,
	}
}

// writeOrigin moves the stored origin by delta.
func writeOrigin(hdr []byte, delta [3]float32) {
	chunk.WriteF32(hdr, chunk.ReadF32(hdr)+delta[0])
	chunk.WriteF32(hdr[4:], chunk.ReadF32(hdr[4:])+delta[1])
	chunk.WriteF32(hdr[8:], chunk.ReadF32(hdr[8:])+delta[2])
}

// shiftPlacements translates every placement position in place. This
// is the single point where position values are mutated, and only by
// a fixed translation. Object bounding boxes are world-space corners
// and move with their record.
func shiftPlacements(addf, aobf []byte, delta [3]float32) {
	if delta == ([3]float32{}) {
		return
	}

	for off := 0; off+area.DoodadSize <= len(addf); off += area.DoodadSize {
		shiftVec(addf[off+4:], delta)
	}
	for off := 0; off+area.ObjectSize <= len(aobf); off += area.ObjectSize {
		shiftVec(aobf[off+4:], delta)  // position
		shiftVec(aobf[off+28:], delta) // bounds min
		shiftVec(aobf[off+40:], delta) // bounds max
	}
}

// shiftVec adds delta to a packed 3xf32 vector.
func shiftVec(b []byte, delta [3]float32) {
	for i := 0; i < 3; i++ {
		chunk.WriteF32(b[i*4:], chunk.ReadF32(b[i*4:])+delta[i])
	}
}
