package world

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// SplitNames decodes a null-terminated name list payload. Order is
// preserved: placement records reference names by position.
func SplitNames(payload []byte) []string {
	if len(payload) == 0 {
		return nil
	}

	parts := bytes.Split(payload, []byte{0})
	// Drop the empty element after the final terminator, but keep any
	// interior empties so record indices stay aligned.
	if n := len(parts); n > 0 && len(parts[n-1]) == 0 {
		parts = parts[:n-1]
	}

	out := make([]string, len(parts))
	for i, raw := range parts {
		out[i] = string(raw)
	}

	return out
}

// JoinNames encodes a name list as null-terminated strings.
func JoinNames(names []string) []byte {
	var out []byte
	for _, n := range names {
		out = append(out, n...)
		out = append(out, 0)
	}

	return out
}

// ParseFileName extracts the tile coordinate from an area file name of
// the form <base>_<col>_<row>.adf. The base may itself contain
// underscores.
func ParseFileName(name string) (Coord, error) {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	parts := strings.Split(stem, "_")
	if len(parts) < 3 {
		return Coord{}, fmt.Errorf("no tile coordinate in file name %q", name)
	}

	col, errCol := strconv.Atoi(parts[len(parts)-2])
	row, errRow := strconv.Atoi(parts[len(parts)-1])
	if errCol != nil || errRow != nil {
		return Coord{}, fmt.Errorf("no tile coordinate in file name %q", name)
	}

	c := Coord{Row: row, Col: col}
	if c.Row < 0 || c.Row >= Side || c.Col < 0 || c.Col >= Side {
		return Coord{}, fmt.Errorf("tile %s from file name %q out of grid", c, name)
	}

	return c, nil
}
