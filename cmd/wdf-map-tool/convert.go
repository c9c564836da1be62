package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mapforge/wdf-map-tool/internal/chunk"
	"github.com/mapforge/wdf-map-tool/internal/convert"
	"github.com/mapforge/wdf-map-tool/internal/logger"
	"github.com/mapforge/wdf-map-tool/internal/magic"
	"github.com/mapforge/wdf-map-tool/internal/world"
)

type convertCmd struct {
	Args struct {
		Input  string `positional-arg-name:"IN" required:"true" description:"Legacy world file"`
		Output string `positional-arg-name:"OUT" description:"Output directory (default: directory of IN)"`
	} `positional-args:"true"`

	Config  string `short:"c" long:"config" description:"Config file (yaml/json)"`
	Target  string `short:"t" long:"target" description:"Target generation: mid or current"`
	Scope   string `short:"s" long:"scope" description:"What to write: all, world or tiles"`
	Workers int    `short:"j" long:"workers" description:"Parallel tile workers (default: CPU count)"`
	Report  string `short:"r" long:"report" description:"Write a YAML run report to this file"`
}

// Execute converts the legacy world file into the output directory.
func (c *convertCmd) Execute(_ []string) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.LogFile)
	defer func() { _ = log.Sync() }()

	kind, gen, err := magic.Detect(c.Args.Input)
	if err != nil {
		return err
	}
	if kind != magic.KindWorld || gen != chunk.GenLegacy {
		return fmt.Errorf("%s is a %s %s file, convert wants a legacy world", c.Args.Input, gen, kind)
	}

	data, err := os.ReadFile(c.Args.Input)
	if err != nil {
		return err
	}

	table, err := world.DecodeLegacy(data)
	if err != nil {
		return err
	}

	outDir := c.Args.Output
	if outDir == "" {
		outDir = filepath.Dir(c.Args.Input)
	}
	base := strings.TrimSuffix(filepath.Base(c.Args.Input), filepath.Ext(c.Args.Input))

	sink, err := convert.NewDirSink(outDir, base)
	if err != nil {
		return err
	}

	rep, err := convert.New(table, world.BufferAccess(data), cfg, log).Run(sink)
	if err != nil {
		return err
	}

	printConvertStats(rep, outDir)

	if c.Report != "" {
		out, err := rep.YAML()
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.Report, out, 0o600); err != nil {
			return err
		}
	}

	if failed := rep.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d tiles failed", len(failed), len(rep.Tiles))
	}

	return nil
}

// config merges the config file with the command line flags; flags win.
func (c *convertCmd) config() (convert.Config, error) {
	var cfg convert.Config
	if c.Config != "" {
		var err error
		if cfg, err = readConfig(c.Config); err != nil {
			return convert.Config{}, err
		}
	}

	if c.Target != "" {
		cfg.Target = c.Target
	}
	if c.Scope != "" {
		cfg.Scope = convert.Scope(c.Scope)
	}
	if c.Workers != 0 {
		cfg.Workers = c.Workers
	}

	return cfg, nil
}

// printConvertStats prints the conversion statistics.
func printConvertStats(rep *convert.Report, outDir string) {
	fmt.Printf("converted into %s\n", outDir)
	fmt.Printf("target generation: %s\n", rep.Target)
	if rep.World {
		fmt.Printf("world definition: written\n")
	}
	fmt.Printf("tiles written: %d\n", rep.TilesWritten)
	fmt.Printf("doodad names: %d\n", rep.DoodadNames)
	fmt.Printf("object names: %d\n", rep.ObjectNames)
}
