// Package vars holds build-time version information.
package vars

import (
	"fmt"
	"runtime"
)

// Set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	URL     = "https://github.com/mapforge/wdf-map-tool"
)

// Print writes the version information to stdout.
func Print() {
	fmt.Printf("version:    %s\n", Version)
	fmt.Printf("commit:     %s\n", Commit)
	fmt.Printf("built:      %s\n", Date)
	fmt.Printf("go version: %s\n", runtime.Version())
	fmt.Printf("platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("url:        %s\n", URL)
}
