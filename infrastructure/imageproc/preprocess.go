// Package imageproc turns image files into classifier input tensors and
// provides the image metadata and preview used by the UI.
package imageproc

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"emotion-detector/domain/emotion"
)

// DefaultSize is the side length of the square model input.
const DefaultSize = 48

// Tensor is a single-image batch in NHWC layout, shape (1, Size, Size, 1).
type Tensor struct {
	Data  []float32
	Shape [4]int
}

// Config configures a Preprocessor.
type Config struct {
	// Size is the target width and height. Zero means DefaultSize.
	Size int
	// Filter is the resampling filter name, see ParseFilter.
	Filter string
	Logger *slog.Logger
}

// DefaultConfig returns the 48x48 nearest-neighbour configuration.
func DefaultConfig() Config {
	return Config{
		Size:   DefaultSize,
		Filter: "nearest",
	}
}

// Preprocessor converts image files to normalized grayscale tensors.
type Preprocessor struct {
	size   int
	filter imaging.ResampleFilter
	logger *slog.Logger
}

// NewPreprocessor creates a Preprocessor. An unknown filter name is an error.
func NewPreprocessor(cfg Config) (*Preprocessor, error) {
	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}
	filter, err := ParseFilter(cfg.Filter)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Preprocessor{
		size:   cfg.Size,
		filter: filter,
		logger: logger.With("component", "preprocessor"),
	}, nil
}

// Size returns the side length of produced tensors.
func (p *Preprocessor) Size() int {
	return p.size
}

// Load reads path and returns its tensor.
// A missing file yields an error matching emotion.ErrImageNotFound, anything
// that cannot be decoded yields emotion.ErrInvalidImage.
func (p *Preprocessor) Load(path string) (*Tensor, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, emotion.NewImageNotFoundError(path, err)
		}
		return nil, emotion.NewInvalidImageError(path, err)
	}

	img, err := decodeFile(path)
	if err != nil {
		return nil, emotion.NewInvalidImageError(path, err)
	}

	b := img.Bounds()
	p.logger.Debug("Image decoded", "path", path, "width", b.Dx(), "height", b.Dy())

	return p.FromImage(img), nil
}

// FromImage converts an already decoded image.
func (p *Preprocessor) FromImage(img image.Image) *Tensor {
	gray := imaging.Grayscale(img)
	small := imaging.Resize(gray, p.size, p.size, p.filter)

	t := &Tensor{
		Data:  make([]float32, p.size*p.size),
		Shape: [4]int{1, p.size, p.size, 1},
	}
	for y := 0; y < p.size; y++ {
		row := small.Pix[y*small.Stride:]
		for x := 0; x < p.size; x++ {
			// R, G and B are equal after Grayscale.
			t.Data[y*p.size+x] = float32(row[x*4]) / 255
		}
	}
	return t
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// EXIF orientation is ignored; pixels are used as stored.
	img, err := imaging.Decode(f)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}
	return img, nil
}

// ParseFilter maps a filter name to an imaging resample filter.
// An empty name selects nearest-neighbour.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "nearest", "nearestneighbor":
		return imaging.NearestNeighbor, nil
	case "box":
		return imaging.Box, nil
	case "linear", "bilinear":
		return imaging.Linear, nil
	case "catmullrom", "bicubic":
		return imaging.CatmullRom, nil
	case "lanczos":
		return imaging.Lanczos, nil
	}
	return imaging.ResampleFilter{}, fmt.Errorf("unknown resample filter %q", name)
}
