package presentation

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const previewPlaceholder = "No image selected"

// ImagePreview shows the selected image, or a placeholder when there is none.
type ImagePreview struct {
	widget.BaseWidget

	background  *canvas.Rectangle
	image       *canvas.Image
	placeholder *canvas.Text
}

// NewImagePreview creates an empty preview with the given minimum size.
func NewImagePreview(size fyne.Size) *ImagePreview {
	p := &ImagePreview{
		background:  canvas.NewRectangle(color.White),
		image:       canvas.NewImageFromImage(nil),
		placeholder: canvas.NewText(previewPlaceholder, color.NRGBA{R: 0x95, G: 0xa5, B: 0xa6, A: 0xff}),
	}
	p.background.SetMinSize(size)
	p.image.FillMode = canvas.ImageFillContain
	p.image.Hide()
	p.placeholder.TextSize = 14
	p.placeholder.Alignment = fyne.TextAlignCenter
	p.ExtendBaseWidget(p)
	return p
}

// SetImage displays img.
func (p *ImagePreview) SetImage(img image.Image) {
	if img == nil {
		p.Clear()
		return
	}
	p.image.Image = img

	p.placeholder.Hide()
	p.image.Show()
	p.image.Refresh()
	p.Refresh()
}

// Clear drops the image and shows the placeholder.
func (p *ImagePreview) Clear() {
	p.image.Image = nil

	p.image.Hide()
	p.placeholder.Show()
	p.Refresh()
}

// CreateRenderer creates the widget renderer.
func (p *ImagePreview) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(
		p.background,
		container.NewPadded(p.image),
		container.NewCenter(p.placeholder),
	))
}
