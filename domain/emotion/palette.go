package emotion

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync"
)

// DefaultAccent is the color used when no label is on display.
var DefaultAccent = color.NRGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff}

// Palette maps labels to display colors.
type Palette struct {
	colors map[Label]color.NRGBA
	mu     sync.RWMutex
}

// NewPalette creates an empty palette.
func NewPalette() *Palette {
	return &Palette{
		colors: make(map[Label]color.NRGBA),
	}
}

// Set assigns a color to a label.
// If the label already has a color, it will be replaced.
func (p *Palette) Set(l Label, c color.NRGBA) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.colors[l] = c
}

// Color returns the color for a label, or DefaultAccent if none is set.
func (p *Palette) Color(l Label) color.NRGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if c, ok := p.colors[l]; ok {
		return c
	}
	return DefaultAccent
}

// Has reports whether a label has an assigned color.
func (p *Palette) Has(l Label) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.colors[l]
	return ok
}

// Missing returns the labels in model order that have no color.
func (p *Palette) Missing() []Label {
	var missing []Label
	for _, l := range labelSet {
		if !p.Has(l) {
			missing = append(missing, l)
		}
	}
	return missing
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}

	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
