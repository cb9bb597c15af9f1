package resources

import (
	"embed"

	"fyne.io/fyne/v2"

	"emotion-detector/domain/emotion"
)

//go:embed icons/app.svg
var iconData []byte

func GetAppIcon() fyne.Resource {
	return &fyne.StaticResource{
		StaticName:    "app.svg",
		StaticContent: iconData,
	}
}

//go:embed palettes/*.yaml
var PaletteFiles embed.FS

// LoadPalette returns the built-in label colors.
func LoadPalette() (*emotion.Palette, error) {
	return emotion.LoadPalette(PaletteFiles, "palettes/labels.yaml")
}
