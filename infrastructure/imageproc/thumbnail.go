package imageproc

import (
	"errors"
	"image"
	"io/fs"

	"github.com/nfnt/resize"

	"emotion-detector/domain/emotion"
)

// PreviewWidth is the width of the preview shown next to the controls.
const PreviewWidth = 400

// Thumbnail scales img to the given width, preserving aspect ratio.
func Thumbnail(img image.Image, width uint) image.Image {
	return resize.Resize(width, 0, img, resize.Lanczos3)
}

// OpenPreview decodes path and returns its thumbnail.
func OpenPreview(path string, width uint) (image.Image, error) {
	img, err := decodeFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, emotion.NewImageNotFoundError(path, err)
		}
		return nil, emotion.NewInvalidImageError(path, err)
	}
	return Thumbnail(img, width), nil
}
