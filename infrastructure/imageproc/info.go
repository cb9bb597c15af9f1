package imageproc

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders for image.Decode and imaging.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"emotion-detector/domain/emotion"
)

// Extensions lists the file extensions offered by the file picker.
var Extensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff", ".webp"}

// IsSupported reports whether path has one of Extensions.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Info describes an image file.
type Info struct {
	Path      string
	Name      string
	Width     int
	Height    int
	SizeBytes int64
	Format    string
}

// SizeKB returns the file size in kilobytes.
func (i Info) SizeKB() float64 {
	return float64(i.SizeBytes) / 1024
}

// String renders "name | WxH | N.N KB".
func (i Info) String() string {
	return fmt.Sprintf("%s | %dx%d | %.1f KB", i.Name, i.Width, i.Height, i.SizeKB())
}

// ReadInfo decodes the image at path and describes it. Files whose header
// parses but whose pixel data does not are rejected.
// It fails with the same error kinds as Preprocessor.Load.
func ReadInfo(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, emotion.NewImageNotFoundError(path, err)
		}
		return Info{}, emotion.NewInvalidImageError(path, err)
	}
	if st.IsDir() {
		return Info{}, emotion.NewInvalidImageError(path, fmt.Errorf("is a directory"))
	}

	f, err := os.Open(path)
	if err != nil {
		return Info{}, emotion.NewInvalidImageError(path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return Info{}, emotion.NewInvalidImageError(path, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return Info{}, emotion.NewInvalidImageError(path, fmt.Errorf("image has no pixels"))
	}

	return Info{
		Path:      path,
		Name:      filepath.Base(path),
		Width:     b.Dx(),
		Height:    b.Dy(),
		SizeBytes: st.Size(),
		Format:    format,
	}, nil
}
