package main

import (
	"fmt"
	"os"

	"github.com/mapforge/wdf-map-tool/internal/convert"
	"github.com/mapforge/wdf-map-tool/internal/repair"
	"github.com/mapforge/wdf-map-tool/internal/world"
)

type repairCmd struct {
	Args struct {
		Files []string `positional-arg-name:"FILE" description:"Area files to repair in place"`
	} `positional-args:"true"`

	Dir        string  `short:"d" long:"dir" description:"Repair every area file in this directory"`
	Output     string  `short:"o" long:"output" description:"Write the repaired file here instead of in place"`
	TileX      int     `short:"x" long:"tile-x" default:"-1" description:"Tile column (default: from file name)"`
	TileY      int     `short:"y" long:"tile-y" default:"-1" description:"Tile row (default: from file name)"`
	ZOffset    float32 `short:"z" long:"z-offset" description:"Extra height offset applied to placements"`
	KeepOrigin bool    `short:"k" long:"keep-origin" description:"Only rebuild offsets, keep the stored origin"`
}

// Execute repairs each input file, continuing past per-file failures.
func (c *repairCmd) Execute(_ []string) error {
	paths := c.Args.Files
	if c.Dir != "" {
		listed, err := convert.ListAreaFiles(c.Dir)
		if err != nil {
			return err
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files")
	}
	if (c.TileX >= 0 || c.TileY >= 0) && len(paths) > 1 {
		return fmt.Errorf("explicit tile coordinates apply to a single file")
	}
	if c.Output != "" && len(paths) > 1 {
		return fmt.Errorf("--output applies to a single file")
	}

	failed := 0
	for _, p := range paths {
		if err := c.repairOne(p); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", p, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}

	return nil
}

// repairOne rewrites one area file. The repaired bytes are a full copy;
// the file is only replaced after the whole pass succeeded.
func (c *repairCmd) repairOne(path string) error {
	coord := world.Coord{Row: c.TileY, Col: c.TileX}
	if c.TileX < 0 || c.TileY < 0 {
		var err error
		if coord, err = world.ParseFileName(path); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, res, err := repair.Repair(data, repair.Options{
		Coord:       coord,
		KeepOrigin:  c.KeepOrigin,
		HeightDelta: c.ZOffset,
	})
	if err != nil {
		return err
	}

	outPath := c.Output
	if outPath == "" {
		outPath = path
	}
	if err := os.WriteFile(outPath, out, 0o600); err != nil {
		return err
	}

	fmt.Printf("repaired %s: tile %s, %d sub-tiles, %d doodads, %d objects, delta (%g %g %g)\n",
		outPath, coord, res.SubTiles, res.Doodads, res.Objects,
		res.Delta[0], res.Delta[1], res.Delta[2])

	return nil
}
