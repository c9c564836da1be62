package convert

import (
	"fmt"
	"sort"

	"github.com/invopop/yaml"
	"go.uber.org/zap"

	"github.com/mapforge/wdf-map-tool/internal/world"
)

// Report summarizes one conversion run.
type Report struct {
	Target       string       `json:"target"`
	World        bool         `json:"world_written"`
	DoodadNames  int          `json:"doodad_names"`
	ObjectNames  int          `json:"object_names"`
	TilesWritten int          `json:"tiles_written"`
	Tiles        []TileReport `json:"tiles,omitempty"`
}

// TileReport describes one tile's outcome. Error is empty on success.
type TileReport struct {
	Coord    string `json:"tile"`
	SubTiles int    `json:"sub_tiles,omitempty"`
	Doodads  int    `json:"doodads,omitempty"`
	Objects  int    `json:"objects,omitempty"`
	Error    string `json:"error,omitempty"`
}

// fail records the error on the entry and logs it, then returns the
// entry so callers can bail with a single statement.
func (tr TileReport) fail(log *zap.Logger, coord world.Coord, stage string, err error) TileReport {
	tr.Error = fmt.Sprintf("%s: %v", stage, err)
	log.Warn("tile skipped",
		zap.String("tile", coord.String()),
		zap.String("stage", stage),
		zap.Error(err))

	return tr
}

// Failed returns the entries of tiles that did not convert.
func (r *Report) Failed() []TileReport {
	var out []TileReport
	for _, tr := range r.Tiles {
		if tr.Error != "" {
			out = append(out, tr)
		}
	}

	return out
}

// sortTiles orders entries by coordinate string so the report is
// deterministic regardless of worker scheduling.
func (r *Report) sortTiles() {
	sort.Slice(r.Tiles, func(i, j int) bool {
		return r.Tiles[i].Coord < r.Tiles[j].Coord
	})
}

// YAML renders the report for files or stdout.
func (r *Report) YAML() ([]byte, error) {
	out, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	return out, nil
}
