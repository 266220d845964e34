package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// ErrImageNotFound is returned when no local file matches the requested name.
var ErrImageNotFound = errors.New("image not found")

// MaxDimension caps requested thumbnail sizes.
const MaxDimension = 2000

var imageExtensions = []string{"", ".jpg", ".jpeg", ".png"}

// Library serves images from a local directory.
type Library struct {
	dir string
}

// NewLibrary creates a Library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Find resolves name to a file in the library, trying the common image
// extensions when name has none.
func (l *Library) Find(name string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." || strings.HasPrefix(base, "..") {
		return "", ErrImageNotFound
	}
	for _, ext := range imageExtensions {
		path := filepath.Join(l.dir, base+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", ErrImageNotFound
}

// Thumbnail loads name and resizes it with Lanczos resampling. A zero width
// or height keeps the aspect ratio. It returns the encoded bytes and their
// content type.
func (l *Library) Thumbnail(name string, width, height uint) ([]byte, string, error) {
	path, err := l.Find(name)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	return Resize(data, width, height)
}

// Resize decodes a JPEG or PNG image, scales it and re-encodes it in the same
// format.
func Resize(imageData []byte, width, height uint) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	width = min(width, MaxDimension)
	height = min(height, MaxDimension)
	if width > 0 || height > 0 {
		img = resize.Resize(width, height, img, resize.Lanczos3)
	}

	var out bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&out, img, nil)
	case "png":
		err = png.Encode(&out, img)
	default:
		return nil, "", fmt.Errorf("unsupported image format: %s", format)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return out.Bytes(), "image/" + format, nil
}
