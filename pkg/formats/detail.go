package formats

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
)

// Detail data errors.
var (
	ErrDetailSize    = errors.New("detail data size does not match layer count")
	ErrMissingLayers = errors.New("not enough density textures for layer count")
)

// LayersPerTexture is the number of detail layers packed into one RGBA texture.
const LayersPerTexture = 4

// DetailMap holds one density byte per pixel per layer. Layers are stored as
// consecutive resolution×resolution row-major blocks.
type DetailMap struct {
	Layers     int
	Resolution int
	Density    []byte
}

// At returns the raw density for a layer at (x, y).
// Returns 0 for out-of-range coordinates or layers.
func (d *DetailMap) At(layer, x, y int) byte {
	if d == nil || len(d.Density) == 0 {
		return 0
	}
	if layer < 0 || layer >= d.Layers || x < 0 || y < 0 || x >= d.Resolution || y >= d.Resolution {
		return 0
	}
	return d.Density[layer*d.Resolution*d.Resolution+y*d.Resolution+x]
}

// Layer returns the density block of one layer.
func (d *DetailMap) Layer(layer int) []byte {
	size := d.Resolution * d.Resolution
	return d.Density[layer*size : (layer+1)*size]
}

// ParseDetail parses raw density blocks. The byte length must equal
// layers·resolution² exactly.
func ParseDetail(data []byte, layers, resolution int) (*DetailMap, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}
	if layers <= 0 {
		return nil, fmt.Errorf("%w: %d layers", ErrDetailSize, layers)
	}

	expected := layers * resolution * resolution
	if len(data) != expected {
		return nil, fmt.Errorf("%w: expected %d bytes for %d layers, got %d", ErrDetailSize, expected, layers, len(data))
	}

	density := make([]byte, expected)
	copy(density, data)

	return &DetailMap{
		Layers:     layers,
		Resolution: resolution,
		Density:    density,
	}, nil
}

// ParseDetailFile parses raw density blocks from disk.
func ParseDetailFile(path string, layers, resolution int) (*DetailMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading detail file: %w", err)
	}
	return ParseDetail(data, layers, resolution)
}

// WriteDetail writes density blocks in the raw layout.
func WriteDetail(w io.Writer, d *DetailMap) error {
	if len(d.Density) != d.Layers*d.Resolution*d.Resolution {
		return fmt.Errorf("%w: %d bytes", ErrDetailSize, len(d.Density))
	}
	_, err := w.Write(d.Density)
	return err
}

// MaxPackedLayers is the number of distinct layers four packed textures hold.
// Layer n and layer n+16 read the same texture channel.
const MaxPackedLayers = 16

// TextureSlot returns which packed texture and channel hold a layer.
func TextureSlot(layer int) (texture, channel int) {
	return (layer % MaxPackedLayers) / LayersPerTexture, layer % LayersPerTexture
}

// TexturesForLayers returns the number of packed textures needed for a layer count.
func TexturesForLayers(layers int) int {
	layers = min(layers, MaxPackedLayers)
	return (layers + LayersPerTexture - 1) / LayersPerTexture
}

// UnpackDetailTextures converts RGBA density textures into raw density blocks.
// Each texture must be at least resolution×resolution; image row y maps to pixel row y.
func UnpackDetailTextures(textures []image.Image, layers, resolution int) (*DetailMap, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}
	if need := TexturesForLayers(layers); len(textures) < need {
		return nil, fmt.Errorf("%w: have %d, need %d for %d layers", ErrMissingLayers, len(textures), need, layers)
	}

	d := &DetailMap{
		Layers:     layers,
		Resolution: resolution,
		Density:    make([]byte, layers*resolution*resolution),
	}

	for layer := 0; layer < layers; layer++ {
		tex, channel := TextureSlot(layer)
		img := textures[tex]
		b := img.Bounds()
		if b.Dx() < resolution || b.Dy() < resolution {
			return nil, fmt.Errorf("%w: texture %d is %dx%d", ErrInvalidResolution, tex, b.Dx(), b.Dy())
		}

		block := d.Layer(layer)
		for y := 0; y < resolution; y++ {
			for x := 0; x < resolution; x++ {
				block[y*resolution+x] = channelValue(img, b.Min.X+x, b.Min.Y+y, channel)
			}
		}
	}

	return d, nil
}

// channelValue returns one 8-bit channel (0=R, 1=G, 2=B, 3=A) of a pixel.
// Channels are read non-premultiplied so alpha does not scale the other layers.
func channelValue(img image.Image, x, y, channel int) byte {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba.Pix[nrgba.PixOffset(x, y)+channel]
	}
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	switch channel {
	case 0:
		return c.R
	case 1:
		return c.G
	case 2:
		return c.B
	default:
		return c.A
	}
}

// PackDetailTextures packs density blocks into RGBA textures, four layers per
// texture in R, G, B, A order. Channels without a layer are left at 0, except
// alpha which is opaque. Only the first MaxPackedLayers layers are stored.
func PackDetailTextures(d *DetailMap) []*image.NRGBA {
	res := d.Resolution
	textures := make([]*image.NRGBA, TexturesForLayers(d.Layers))
	for i := range textures {
		img := image.NewNRGBA(image.Rect(0, 0, res, res))
		for p := 3; p < len(img.Pix); p += 4 {
			img.Pix[p] = 0xFF
		}
		textures[i] = img
	}

	for layer := 0; layer < min(d.Layers, MaxPackedLayers); layer++ {
		tex, channel := TextureSlot(layer)
		img := textures[tex]
		block := d.Layer(layer)
		for y := 0; y < res; y++ {
			for x := 0; x < res; x++ {
				img.Pix[img.PixOffset(x, y)+channel] = block[y*res+x]
			}
		}
	}
	return textures
}
