package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeImage(t *testing.T) {
	cdn := NewURLBuilder("demo", "")
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/c_fill,w_600,h_400/soup%20bowl.jpg", cdn.RecipeImage("soup bowl"))
	assert.Equal(t, "", cdn.RecipeImage(""))

	local := NewURLBuilder("", "/images/")
	assert.Equal(t, "/images/soup", local.RecipeImage("soup"))
}

func TestLogo(t *testing.T) {
	cdn := NewURLBuilder("demo", "")
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/c_fit,w_120,h_40,q_auto/foodgenius_logo", cdn.Logo(120, 40))
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/foodgenius_logo", cdn.Logo(0, 0))

	local := NewURLBuilder("", "")
	assert.Equal(t, "/images/foodgenius_logo?h=40&w=120", local.Logo(120, 40))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResize(t *testing.T) {
	out, contentType, err := Resize(pngBytes(t, 40, 20), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestResize_InvalidData(t *testing.T) {
	_, _, err := Resize([]byte("not an image"), 10, 10)
	assert.Error(t, err)
}

func TestLibrary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "soup.png"), pngBytes(t, 8, 8), 0o644))
	lib := NewLibrary(dir)

	path, err := lib.Find("soup")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "soup.png"), path)

	_, err = lib.Find("../etc/passwd")
	assert.ErrorIs(t, err, ErrImageNotFound)
	_, err = lib.Find("missing")
	assert.ErrorIs(t, err, ErrImageNotFound)

	out, contentType, err := lib.Thumbnail("soup.png", 4, 4)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.NotEmpty(t, out)
}
