package formats

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png" // register PNG
	"path/filepath"
	"strings"

	"github.com/Faultbox/grassfield/pkg/math"
	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
)

// ErrEmptyImage is returned for zero-sized textures.
var ErrEmptyImage = errors.New("empty image")

// DecodeImage decodes a texture. TGA is chosen by the .tga extension; every
// other file goes through image.Decode (PNG, BMP, TIFF).
func DecodeImage(name string, data []byte) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decoding %s: %w", name, ErrEmptyImage)
	}
	return img, nil
}

// NormalMap holds unpacked surface normals in x + y*width order.
type NormalMap struct {
	Width   int
	Height  int
	Normals []math.Vec3
}

// At returns the normal at (x, y), clamped to the map.
func (n *NormalMap) At(x, y int) math.Vec3 {
	if n == nil || len(n.Normals) == 0 {
		return math.Up
	}
	x = clampIndex(x, n.Width)
	y = clampIndex(y, n.Height)
	return n.Normals[x+y*n.Width]
}

// DecodeNormalMap unpacks an RGB-encoded normal map (channel*2-1).
func DecodeNormalMap(img image.Image) (*NormalMap, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	n := &NormalMap{
		Width:   b.Dx(),
		Height:  b.Dy(),
		Normals: make([]math.Vec3, b.Dx()*b.Dy()),
	}
	for y := 0; y < n.Height; y++ {
		for x := 0; x < n.Width; x++ {
			r := float32(channelValue(img, b.Min.X+x, b.Min.Y+y, 0)) / 255
			g := float32(channelValue(img, b.Min.X+x, b.Min.Y+y, 1)) / 255
			bl := float32(channelValue(img, b.Min.X+x, b.Min.Y+y, 2)) / 255
			n.Normals[x+y*n.Width] = math.Vec3{X: r*2 - 1, Y: g*2 - 1, Z: bl*2 - 1}
		}
	}
	return n, nil
}
