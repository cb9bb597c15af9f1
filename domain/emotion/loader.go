package emotion

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// yamlPaletteDefinition is the YAML structure for label palettes.
type yamlPaletteDefinition struct {
	Labels []yamlLabel `yaml:"labels"`
}

type yamlLabel struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// LoadPalette reads a palette definition from an embedded or real filesystem.
// Every label in the set must be given a color.
func LoadPalette(fsys fs.FS, path string) (*Palette, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette file %s: %w", path, err)
	}
	return ParsePalette(data)
}

// ParsePalette parses a YAML palette definition.
func ParsePalette(data []byte) (*Palette, error) {
	var def yamlPaletteDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse palette: %w", err)
	}

	palette := NewPalette()
	for _, yl := range def.Labels {
		label, ok := ParseLabel(yl.Name)
		if !ok {
			return nil, fmt.Errorf("unknown label %q in palette", yl.Name)
		}
		c, err := ParseHexColor(yl.Color)
		if err != nil {
			return nil, fmt.Errorf("label %s: %w", label, err)
		}
		palette.Set(label, c)
	}

	if missing := palette.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("palette has no color for %v", missing)
	}

	return palette, nil
}
