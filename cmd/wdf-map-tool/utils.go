package main

import (
	"os"

	"github.com/invopop/yaml"

	"github.com/mapforge/wdf-map-tool/internal/convert"
)

// readConfig reads the conversion config from the file.
func readConfig(path string) (convert.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return convert.Config{}, err
	}

	var cfg convert.Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return convert.Config{}, err
	}

	return cfg, nil
}
