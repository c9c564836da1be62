package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mapforge/wdf-map-tool/internal/world"
)

// WorldExt and AreaExt are the on-disk extensions of world definition
// and per-tile area files.
const (
	WorldExt = ".wdf"
	AreaExt  = ".adf"
)

// DirSink writes conversion output into a directory, naming files
// after the world's base name.
type DirSink struct {
	Dir  string
	Base string
}

// NewDirSink creates the output directory if needed and returns a sink
// writing into it. base is the world name without extension.
func NewDirSink(dir, base string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return &DirSink{Dir: dir, Base: base}, nil
}

// WriteWorld stores the world definition as <base>.wdf.
func (s *DirSink) WriteWorld(data []byte) error {
	return writeFile(filepath.Join(s.Dir, s.Base+WorldExt), data)
}

// WriteTile stores one tile as <base>_<col>_<row>.adf.
func (s *DirSink) WriteTile(coord world.Coord, data []byte) error {
	return writeFile(filepath.Join(s.Dir, coord.FileName(s.Base)), data)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	return nil
}

// ListAreaFiles returns the .adf files directly inside dir, sorted by
// name, for batch operations over a converted world.
func ListAreaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), AreaExt) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)

	return out, nil
}
