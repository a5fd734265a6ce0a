package terrain

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/terrainview/internal/engine/texture"
)

// Sampler reads terrain heights from the red channel of an RGBA image.
type Sampler struct {
	width  int
	height int
	pix    []byte
	scale  float32
}

// NewSampler wraps a decoded heightmap image. Heights are red byte * scale.
func NewSampler(img *texture.Image, scale float32) (*Sampler, error) {
	if img.Empty() {
		return nil, fmt.Errorf("heightmap is empty")
	}

	return &Sampler{
		width:  img.Width,
		height: img.Height,
		pix:    img.Pix,
		scale:  scale,
	}, nil
}

// LoadSampler decodes a heightmap image file.
func LoadSampler(path string, scale float32) (*Sampler, error) {
	img, err := texture.Load(path, texture.Options{})
	if err != nil {
		return nil, fmt.Errorf("load heightmap: %w", err)
	}
	return NewSampler(img, scale)
}

// Size returns the image dimensions.
func (s *Sampler) Size() (w, h int) {
	return s.width, s.height
}

// HeightAt returns the height of the nearest-lower sample at (u, v).
// No interpolation is done, so terrain finer than the image shows steps.
// Coordinates outside [0,1] are clamped.
func (s *Sampler) HeightAt(u, v float32) float32 {
	px := int(math32.Floor(clampf(u, 0, 1) * float32(s.width-1)))
	py := int(math32.Floor(clampf(v, 0, 1) * float32(s.height-1)))

	offset := (px + py*s.width) * 4
	return float32(s.pix[offset]) * s.scale
}

func clampf(v, min, max float32) float32 {
	if !(v >= min) { // NaN lands on min
		return min
	}
	if v > max {
		return max
	}
	return v
}
