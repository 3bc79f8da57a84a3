// Package levels holds the embedded level definitions: the terrain grid
// layout, base pads, starting wildlife, and the attached level script.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

type Level struct {
	Name     string  `yaml:"name"`
	Cols     int     `yaml:"cols"`
	Rows     int     `yaml:"rows"`
	CellSize float64 `yaml:"cell_size"`

	// Regions paint terrain over the open interior in file order.
	Regions []Region `yaml:"regions"`

	Bases    []Base         `yaml:"bases"`
	Critters []CritterSpawn `yaml:"critters"`

	// Script is the level script basename under prefabs/scripts, empty
	// for an unscripted level.
	Script string `yaml:"script"`
}

// Region is a rectangle of cells painted with one terrain kind.
type Region struct {
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	W       int    `yaml:"w"`
	H       int    `yaml:"h"`
	Terrain string `yaml:"terrain"` // solid, destructible, water, base, open
}

// Base is a landing pad with the owning player's ship spawn above it.
type Base struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	W      int `yaml:"w"`
	Player int `yaml:"player"`
}

type CritterSpawn struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// Load reads a level by name from the embedded set. The .yaml extension
// is optional.
func Load(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".yaml") {
		name += ".yaml"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if lvl.Cols <= 2 || lvl.Rows <= 2 || lvl.CellSize <= 0 {
		return nil, fmt.Errorf("levels: %s: bad grid %dx%d", name, lvl.Cols, lvl.Rows)
	}
	return &lvl, nil
}

// Names lists the embedded level basenames.
func Names() []string {
	entries, err := LevelsFS.ReadDir(".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return out
}
