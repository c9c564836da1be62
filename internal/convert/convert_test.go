package convert

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mapforge/wdf-map-tool/internal/area"
	"github.com/mapforge/wdf-map-tool/internal/chunk"
	"github.com/mapforge/wdf-map-tool/internal/world"
)

var (
	testDoodadNames = []string{"doodad/bush01.mdl", "doodad/rock02.mdl", "doodad/stump03.mdl"}
	testObjectNames = []string{"object/keep.mdo", "object/bridge.mdo"}
)

// legacyTileBlob serializes one embedded tile the way the monolith
// stores it: no version chunk, layers inline on the terrain chunk.
func legacyTileBlob(doodads []area.Doodad, objects []area.Object, mesh, layers []byte) []byte {
	w := chunk.NewWriter()
	w.Put(chunk.TagAHDR, make([]byte, area.AHDRSize))
	w.Put(chunk.TagADDF, area.EncodeDoodads(doodads))
	w.Put(chunk.TagAOBF, area.EncodeObjects(objects))

	p := make([]byte, 8+len(mesh)+len(layers))
	chunk.WriteU32(p, 0) // sub-tile slot
	chunk.WriteU32(p[4:], uint32(len(mesh)))
	copy(p[8:], mesh)
	copy(p[8+len(mesh):], layers)
	w.Put(chunk.TagACNK, p)

	return w.Bytes()
}

// buildLegacyWorld assembles a monolith with the given tile blobs.
func buildLegacyWorld(tiles map[world.Coord][]byte) []byte {
	ver := make([]byte, 4)
	chunk.WriteU32(ver, chunk.VersionLegacy)

	w := chunk.NewWriter()
	w.Put(chunk.TagFVER, ver)
	w.Put(chunk.TagWHDR, make([]byte, 4))
	wtabOff := w.Put(chunk.TagWTAB, make([]byte, world.TablePayloadSize))
	w.Put(chunk.TagDNAM, world.JoinNames(testDoodadNames))
	w.Put(chunk.TagONAM, world.JoinNames(testObjectNames))

	buf := w.Bytes()
	for i := 0; i < world.TileCount; i++ {
		blob, ok := tiles[world.CoordAt(i)]
		if !ok {
			continue
		}
		chunk.WriteU32(buf[wtabOff+chunk.HeaderSize+i*4:], uint32(len(buf)))
		buf = append(buf, blob...)
	}

	return buf
}

// memSink collects output in memory. Workers write concurrently.
type memSink struct {
	mu    sync.Mutex
	world []byte
	tiles map[world.Coord][]byte
}

func newMemSink() *memSink {
	return &memSink{tiles: make(map[world.Coord][]byte)}
}

func (s *memSink) WriteWorld(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world = data
	return nil
}

func (s *memSink) WriteTile(coord world.Coord, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiles[coord] = data
	return nil
}

func TestConvertLegacyWorld(t *testing.T) {
	t.Parallel()

	coordA := world.Coord{Row: 12, Col: 34}
	coordB := world.Coord{Row: 12, Col: 35}

	doodads := []area.Doodad{
		{NameIndex: 2, Position: [3]float32{1, 2, 3}, Scale: 1, UniqueID: 7},
		{NameIndex: 0, Position: [3]float32{4, 5, 6}, Scale: 1}, // no ID yet
	}
	objects := []area.Object{
		{NameIndex: 1, Position: [3]float32{10, 20, 30}, Bounds: [6]float32{-1, -1, -1, 1, 1, 1}},
	}

	tiles := map[world.Coord][]byte{
		coordA: legacyTileBlob(doodads, objects, []byte("mesh-a"), []byte("layers-a")),
		coordB: legacyTileBlob(nil, nil, []byte("mesh-b"), nil),
	}
	buf := buildLegacyWorld(tiles)

	table, err := world.DecodeLegacy(buf)
	if err != nil {
		t.Fatalf("decode world: %v", err)
	}

	sink := newMemSink()
	conv := New(table, world.BufferAccess(buf), Config{Workers: 2}, nil)

	rep, err := conv.Run(sink)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !rep.World || sink.world == nil {
		t.Fatalf("world definition not written")
	}
	if rep.TilesWritten != 2 || len(sink.tiles) != 2 {
		t.Fatalf("tiles written = %d (%d in sink), want 2", rep.TilesWritten, len(sink.tiles))
	}
	if failed := rep.Failed(); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	// The world output must round back with the same existence grid.
	outTable, err := world.DecodeCurrent(sink.world)
	if err != nil {
		t.Fatalf("decode converted world: %v", err)
	}
	want := []world.Coord{coordA, coordB}
	if diff := cmp.Diff(want, outTable.ExistingTiles()); diff != "" {
		t.Fatalf("existing tiles (-want +got):\n%s", diff)
	}

	// Tile A carries re-indexed per-tile name lists that still resolve
	// to the same filenames.
	m, err := area.DecodeCurrent(sink.tiles[coordA])
	if err != nil {
		t.Fatalf("decode converted tile: %v", err)
	}
	if got := m.DoodadNames[m.Doodads[0].NameIndex]; got != testDoodadNames[2] {
		t.Fatalf("doodad 0 resolves to %q, want %q", got, testDoodadNames[2])
	}
	if got := m.ObjectNames[m.Objects[0].NameIndex]; got != testObjectNames[1] {
		t.Fatalf("object 0 resolves to %q, want %q", got, testObjectNames[1])
	}
	if m.Doodads[0].UniqueID != 7 {
		t.Fatalf("existing unique ID overwritten: %d", m.Doodads[0].UniqueID)
	}
	if m.Doodads[1].UniqueID == 0 {
		t.Fatalf("missing unique ID not assigned")
	}
	if string(m.Mesh[0]) != "mesh-a" || string(m.Layers[0]) != "layers-a" {
		t.Fatalf("terrain data mangled: %q / %q", m.Mesh[0], m.Layers[0])
	}
}

func TestConvertAssignsDeterministicIDs(t *testing.T) {
	t.Parallel()

	coord := world.Coord{Row: 5, Col: 6}
	doodads := []area.Doodad{{NameIndex: 0, Position: [3]float32{1, 2, 3}, Scale: 1}}
	buf := buildLegacyWorld(map[world.Coord][]byte{
		coord: legacyTileBlob(doodads, nil, []byte("m"), nil),
	})

	run := func() uint32 {
		table, err := world.DecodeLegacy(buf)
		if err != nil {
			t.Fatalf("decode world: %v", err)
		}
		sink := newMemSink()
		if _, err := New(table, world.BufferAccess(buf), Config{}, nil).Run(sink); err != nil {
			t.Fatalf("run: %v", err)
		}
		m, err := area.DecodeCurrent(sink.tiles[coord])
		if err != nil {
			t.Fatalf("decode tile: %v", err)
		}
		return m.Doodads[0].UniqueID
	}

	first := run()
	if first == 0 {
		t.Fatalf("no ID assigned")
	}
	if second := run(); second != first {
		t.Fatalf("IDs differ between runs: %d vs %d", first, second)
	}
}

func TestConvertContinuesPastBadTile(t *testing.T) {
	t.Parallel()

	good := world.Coord{Row: 2, Col: 3}
	bad := world.Coord{Row: 2, Col: 4}

	// The bad tile has no AHDR and must fail to decode.
	buf := buildLegacyWorld(map[world.Coord][]byte{
		good: legacyTileBlob(nil, nil, []byte("m"), nil),
		bad:  chunk.Append(nil, chunk.TagADDF, nil),
	})

	table, err := world.DecodeLegacy(buf)
	if err != nil {
		t.Fatalf("decode world: %v", err)
	}

	sink := newMemSink()
	rep, err := New(table, world.BufferAccess(buf), Config{Scope: ScopeTiles}, nil).Run(sink)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if rep.World || sink.world != nil {
		t.Fatalf("world written despite tiles scope")
	}
	if rep.TilesWritten != 1 {
		t.Fatalf("tiles written = %d, want 1", rep.TilesWritten)
	}
	failed := rep.Failed()
	if len(failed) != 1 || failed[0].Coord != bad.String() {
		t.Fatalf("failed = %+v, want one entry for %s", failed, bad)
	}
	if _, ok := sink.tiles[bad]; ok {
		t.Fatalf("bad tile produced output")
	}
}

func TestConvertToMidKeepsGlobalIndices(t *testing.T) {
	t.Parallel()

	coord := world.Coord{Row: 8, Col: 9}
	doodads := []area.Doodad{{NameIndex: 2, Position: [3]float32{1, 1, 1}, Scale: 1, UniqueID: 5}}
	buf := buildLegacyWorld(map[world.Coord][]byte{
		coord: legacyTileBlob(doodads, nil, []byte("m"), []byte("l")),
	})

	table, err := world.DecodeLegacy(buf)
	if err != nil {
		t.Fatalf("decode world: %v", err)
	}

	sink := newMemSink()
	cfg := Config{Target: "mid", Scope: ScopeTiles}
	if _, err := New(table, world.BufferAccess(buf), cfg, nil).Run(sink); err != nil {
		t.Fatalf("run: %v", err)
	}

	m, err := area.DecodeMid(sink.tiles[coord], testDoodadNames, testObjectNames)
	if err != nil {
		t.Fatalf("decode mid tile: %v", err)
	}
	if m.Doodads[0].NameIndex != 2 {
		t.Fatalf("mid output re-indexed the record: %d", m.Doodads[0].NameIndex)
	}
}

func TestDirSink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sink, err := NewDirSink(filepath.Join(dir, "out"), "azeroth")
	if err != nil {
		t.Fatalf("sink: %v", err)
	}

	if err := sink.WriteWorld([]byte("w")); err != nil {
		t.Fatalf("write world: %v", err)
	}
	if err := sink.WriteTile(world.Coord{Row: 12, Col: 34}, []byte("a")); err != nil {
		t.Fatalf("write tile: %v", err)
	}
	if err := sink.WriteTile(world.Coord{Row: 12, Col: 35}, []byte("b")); err != nil {
		t.Fatalf("write tile: %v", err)
	}

	got, err := ListAreaFiles(sink.Dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{
		filepath.Join(sink.Dir, "azeroth_34_12.adf"),
		filepath.Join(sink.Dir, "azeroth_35_12.adf"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("area files (-want +got):\n%s", diff)
	}
}

func TestReportYAML(t *testing.T) {
	t.Parallel()

	rep := &Report{
		Target:       "current",
		World:        true,
		TilesWritten: 1,
		Tiles:        []TileReport{{Coord: "34_12", SubTiles: 1}},
	}

	out, err := rep.YAML()
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("empty report")
	}
}
