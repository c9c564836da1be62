// Package convert drives the batch conversion of a legacy monolithic
// world into mid or current generation output files.
package convert

import (
	"encoding/binary"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/cespare/xxhash"
	"go.uber.org/zap"

	"github.com/mapforge/wdf-map-tool/internal/area"
	"github.com/mapforge/wdf-map-tool/internal/chunk"
	"github.com/mapforge/wdf-map-tool/internal/world"
)

// Config is the conversion configuration, loadable from YAML.
type Config struct {
	Target   string `json:"target_generation,omitempty"` // "mid" or "current" (default)
	Scope    Scope  `json:"scope,omitempty"`
	Workers  int    `json:"workers,omitempty"`
	LogLevel string `json:"log_level,omitempty"`
	LogFile  string `json:"log_file,omitempty"`
}

// TargetGeneration resolves the configured target, defaulting to the
// current generation.
func (c Config) TargetGeneration() (chunk.Generation, error) {
	if c.Target == "" {
		return chunk.GenCurrent, nil
	}

	gen := chunk.ParseGeneration(c.Target)
	if gen != chunk.GenMid && gen != chunk.GenCurrent {
		return chunk.GenUnknown, fmt.Errorf("cannot convert to generation %q", c.Target)
	}

	return gen, nil
}

// Sink receives conversion output. WriteTile may be called from
// multiple workers at once; implementations must tolerate that.
type Sink interface {
	WriteWorld(data []byte) error
	WriteTile(coord world.Coord, data []byte) error
}

// Converter converts one legacy world. The world table is built once
// and then only read, so tile workers need no locking.
type Converter struct {
	table *world.Table
	tiles *world.TileReader
	cfg   Config
	log   *zap.Logger
}

// New builds a Converter over a decoded legacy world table and an
// access function for the monolithic file's bytes.
func New(table *world.Table, access world.AccessFunc, cfg Config, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}

	return &Converter{
		table: table,
		tiles: world.NewTileReader(table, access),
		cfg:   cfg,
		log:   log,
	}
}

// Run produces the configured outputs. Per-tile failures are recorded
// in the report and never abort the remaining tiles; Run returns an
// error only for whole-run failures such as an unwritable world file.
func (c *Converter) Run(sink Sink) (*Report, error) {
	gen, err := c.cfg.TargetGeneration()
	if err != nil {
		return nil, err
	}

	scope := c.cfg.Scope
	if scope == "" {
		scope = ScopeAll
	}

	rep := &Report{
		Target:      gen.String(),
		DoodadNames: len(c.table.DoodadNames),
		ObjectNames: len(c.table.ObjectNames),
	}

	if scope.IncludesWorld() {
		if err := sink.WriteWorld(c.table.EncodeCurrent()); err != nil {
			return nil, fmt.Errorf("write world definition: %w", err)
		}
		rep.World = true
		c.log.Info("world definition written", zap.Int("tiles", len(c.table.ExistingTiles())))
	}

	if scope.IncludesTiles() {
		c.runTiles(gen, sink, rep)
	}

	return rep, nil
}

// runTiles fans the existing tiles out over a worker pool. Each worker
// owns its own model; the only shared state is the read-only table.
func (c *Converter) runTiles(gen chunk.Generation, sink Sink, rep *Report) {
	coords := c.table.ExistingTiles()

	workers := c.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(coords) {
		workers = len(coords)
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		work = make(chan world.Coord)
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for coord := range work {
				tr := c.convertTile(gen, sink, coord)

				mu.Lock()
				rep.Tiles = append(rep.Tiles, tr)
				if tr.Error == "" {
					rep.TilesWritten++
				}
				mu.Unlock()
			}
		}()
	}

	for _, coord := range coords {
		work <- coord
	}
	close(work)
	wg.Wait()

	rep.sortTiles()
}

// convertTile processes one tile end to end: slice, decode, re-encode,
// write. Any failure is contained in the tile's report entry.
func (c *Converter) convertTile(gen chunk.Generation, sink Sink, coord world.Coord) TileReport {
	tr := TileReport{Coord: coord.String()}

	blob, err := c.tiles.ReadTile(coord)
	if err != nil {
		return tr.fail(c.log, coord, "read", err)
	}

	m, err := area.DecodeLegacy(blob, c.table.DoodadNames, c.table.ObjectNames)
	if err != nil {
		return tr.fail(c.log, coord, "decode", err)
	}

	ensureUniqueIDs(m)

	if gen == chunk.GenCurrent {
		if err := m.LocalizeNames(); err != nil {
			return tr.fail(c.log, coord, "localize names", err)
		}
	}

	out, err := area.Encode(gen, m)
	if err != nil {
		return tr.fail(c.log, coord, "encode", err)
	}

	if err := sink.WriteTile(coord, out); err != nil {
		return tr.fail(c.log, coord, "write", err)
	}

	tr.SubTiles = m.SubTileCount()
	tr.Doodads = len(m.Doodads)
	tr.Objects = len(m.Objects)
	c.log.Debug("tile converted",
		zap.String("tile", tr.Coord),
		zap.Int("sub_tiles", tr.SubTiles),
		zap.Int("doodads", tr.Doodads),
		zap.Int("objects", tr.Objects))

	return tr
}

// ensureUniqueIDs assigns a deterministic ID to every placement record
// that carries none; legacy files predate the field.
func ensureUniqueIDs(m *area.Model) {
	for i, d := range m.Doodads {
		if d.UniqueID == 0 {
			m.Doodads[i].UniqueID = placementID(m.DoodadNames[d.NameIndex], d.Position)
		}
	}
	for i, o := range m.Objects {
		if o.UniqueID == 0 {
			m.Objects[i].UniqueID = placementID(m.ObjectNames[o.NameIndex], o.Position)
		}
	}
}

// placementID builds a deterministic 32-bit ID from a model name and
// position.
func placementID(name string, pos [3]float32) uint32 {
	buf := make([]byte, 0, len(name)+12)
	buf = append(buf, name...)
	for _, v := range pos {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}

	h := xxhash.Sum64(buf)
	id := uint32(h) ^ uint32(h>>32)
	if id == 0 {
		id = 1
	}

	return id
}
