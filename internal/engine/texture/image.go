// Package texture decodes image files into tightly packed RGBA texel data
// ready for OpenGL upload.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp" // BMP decoder registration

	"github.com/Faultbox/terrainview/internal/assets"
)

// Image is a decoded RGBA image.
// Rows are stored bottom-up, so row 0 is the bottom of the picture. This
// matches the OpenGL texture origin and lets Pix go straight to TexImage2D.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// Options controls decoding.
type Options struct {
	// MaxSize bounds the longer edge in pixels. Larger images are
	// downscaled preserving aspect ratio. Zero disables scaling.
	MaxSize int
}

// Load reads and decodes an image file.
func Load(path string, opts Options) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("image %s: %w", path, assets.ErrNotFound)
		}
		return nil, fmt.Errorf("image %s: %w", path, err)
	}
	return Decode(data, path, opts)
}

// LoadFrom decodes an image located through an asset manager.
func LoadFrom(m *assets.Manager, path string, opts Options) (*Image, error) {
	data, err := m.Load(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, path, opts)
}

// Decode decodes image bytes. name is only used to pick the TGA decoder
// (TGA has no magic number) and for error messages.
func Decode(data []byte, name string, opts Options) (*Image, error) {
	var (
		img image.Image
		err error
	)

	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err = DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %v: %w", name, err, assets.ErrUnsupported)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("decode %s: %w", name, assets.ErrUnsupported)
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	}

	if opts.MaxSize > 0 {
		img = fit(img, opts.MaxSize)
	}

	return FromImage(img), nil
}

// FromImage converts any image.Image into a bottom-up RGBA Image.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	out := &Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]byte, b.Dx()*b.Dy()*4),
	}

	rowSize := out.Width * 4
	for y := 0; y < out.Height; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+rowSize]
		dst := (out.Height - 1 - y) * rowSize
		copy(out.Pix[dst:dst+rowSize], src)
	}

	return out
}

// Empty reports whether the image holds no texels.
func (im *Image) Empty() bool {
	return im == nil || im.Width <= 0 || im.Height <= 0 || len(im.Pix) < im.Width*im.Height*4
}

// PixOffset returns the index of the first byte of texel (x, y),
// with y counted from the bottom row.
func (im *Image) PixOffset(x, y int) int {
	return (x + y*im.Width) * 4
}

func fit(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxSize && b.Dy() <= maxSize {
		return img
	}
	return resize.Thumbnail(uint(maxSize), uint(maxSize), img, resize.Lanczos3)
}
