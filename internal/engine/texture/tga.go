package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// DecodeTGA decodes a TGA image file.
// Supports uncompressed (type 2) and RLE compressed (type 10) true-color
// images with 24 or 32 bits per pixel, which covers the skybox and vehicle
// textures exported by common DCC tools.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("TGA has zero size %dx%d", width, height)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	d := &tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		bpp:         bpp / 8,
		width:       width,
		height:      height,
		topToBottom: descriptor&0x20 != 0,
	}

	if imageType == TGATypeUncompressed {
		if len(d.src) < width*height*d.bpp {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < width*height; i++ {
			c, _ := d.next()
			d.put(i, c)
		}
		return d.img, nil
	}

	if err := d.decodeRLE(); err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.RGBA
	src         []byte
	pos         int
	bpp         int
	width       int
	height      int
	topToBottom bool
}

// next reads one BGR(A) pixel from the stream.
func (d *tgaDecoder) next() (color.RGBA, bool) {
	if d.pos+d.bpp > len(d.src) {
		return color.RGBA{}, false
	}
	p := d.src[d.pos : d.pos+d.bpp]
	d.pos += d.bpp

	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.bpp == 4 {
		c.A = p[3]
	}
	return c, true
}

// put stores pixel number i (in file order) honoring the origin bit.
func (d *tgaDecoder) put(i int, c color.RGBA) {
	x := i % d.width
	y := i / d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
}

func (d *tgaDecoder) decodeRLE() error {
	total := d.width * d.height
	i := 0

	for i < total {
		if d.pos >= len(d.src) {
			return fmt.Errorf("TGA RLE data truncated at pixel %d of %d", i, total)
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			c, ok := d.next()
			if !ok {
				return fmt.Errorf("TGA RLE packet truncated")
			}
			for j := 0; j < count && i < total; j++ {
				d.put(i, c)
				i++
			}
			continue
		}

		for j := 0; j < count && i < total; j++ {
			c, ok := d.next()
			if !ok {
				return fmt.Errorf("TGA raw packet truncated")
			}
			d.put(i, c)
			i++
		}
	}

	return nil
}
