// Command wdf-map-tool converts and repairs chunked world map files.
package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mapforge/wdf-map-tool/internal/vars"
)

type rootCmd struct {
	Version versionCmd `command:"version" description:"Show version information"`
	Info    infoCmd    `command:"info" description:"Identify a map file and list its chunks"`
	Convert convertCmd `command:"convert" description:"Convert a legacy world into per-tile files"`
	Repair  repairCmd  `command:"repair" description:"Rebuild offsets and origins of area files"`
}

func main() {
	var root rootCmd
	parser := flags.NewParser(&root, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

type versionCmd struct{}

// Execute prints the version information.
func (c *versionCmd) Execute(_ []string) {
	vars.Print()
	os.Exit(0)
}
