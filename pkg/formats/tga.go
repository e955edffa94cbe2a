package formats

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA errors.
var (
	ErrTruncatedTGA   = errors.New("truncated TGA data")
	ErrUnsupportedTGA = errors.New("unsupported TGA format")
)

const tgaHeaderSize = 18

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// images at 24 or 32 bits per pixel. TGA has no magic number, so it is not
// registered with image.Decode; callers select it by file extension.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, ErrTruncatedTGA
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped", ErrUnsupportedTGA)
	}
	if imageType != 2 && imageType != 10 {
		return nil, fmt.Errorf("%w: image type %d", ErrUnsupportedTGA, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedTGA, bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, ErrTruncatedTGA
	}

	d := tgaDecoder{
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
		width:       width,
		height:      height,
		stride:      bpp / 8,
		topToBottom: descriptor&0x20 != 0,
		src:         data[offset:],
	}

	if imageType == 2 {
		if len(d.src) < width*height*d.stride {
			return nil, ErrTruncatedTGA
		}
		for i := 0; i < width*height; i++ {
			d.put(i, d.read())
		}
		return d.img, nil
	}

	if err := d.decodeRLE(); err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.NRGBA
	width       int
	height      int
	stride      int
	topToBottom bool
	src         []byte
	pos         int
}

// read consumes one BGR(A) pixel.
func (d *tgaDecoder) read() color.NRGBA {
	p := d.src[d.pos : d.pos+d.stride]
	d.pos += d.stride
	c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.stride == 4 {
		c.A = p[3]
	}
	return c
}

// put stores pixel i, flipping rows for bottom-up images.
func (d *tgaDecoder) put(i int, c color.NRGBA) {
	x := i % d.width
	y := i / d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetNRGBA(x, y, c)
}

func (d *tgaDecoder) decodeRLE() error {
	total := d.width * d.height
	for i := 0; i < total; {
		if d.pos >= len(d.src) {
			return ErrTruncatedTGA
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if d.pos+d.stride > len(d.src) {
				return ErrTruncatedTGA
			}
			c := d.read()
			for j := 0; j < count && i < total; j++ {
				d.put(i, c)
				i++
			}
			continue
		}

		for j := 0; j < count && i < total; j++ {
			if d.pos+d.stride > len(d.src) {
				return ErrTruncatedTGA
			}
			d.put(i, d.read())
			i++
		}
	}
	return nil
}
