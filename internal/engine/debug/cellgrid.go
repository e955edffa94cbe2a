package debug

import (
	"image"
	"image/color"

	"github.com/Faultbox/grassfield/internal/engine/grass"
)

// LineVertex is a colored line vertex.
type LineVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

var gridColor = [3]float32{0.5, 0.5, 0.5}

// GridLines returns line vertices outlining every cell of g at a fixed
// height, two vertices per line.
func GridLines(g *grass.Grid, height float32) []LineVertex {
	cx, cy := g.CellCount()
	if cx == 0 || cy == 0 {
		return nil
	}
	origin := g.Origin()
	cs := g.CellSize()
	maxX := origin.X + float32(cx)*cs.X
	maxZ := origin.Z + float32(cy)*cs.Y
	y := origin.Y + height

	vertices := make([]LineVertex, 0, 2*(cx+cy+2))
	for x := 0; x <= cx; x++ {
		wx := origin.X + float32(x)*cs.X
		vertices = append(vertices,
			LineVertex{wx, y, origin.Z, gridColor[0], gridColor[1], gridColor[2]},
			LineVertex{wx, y, maxZ, gridColor[0], gridColor[1], gridColor[2]},
		)
	}
	for z := 0; z <= cy; z++ {
		wz := origin.Z + float32(z)*cs.Y
		vertices = append(vertices,
			LineVertex{origin.X, y, wz, gridColor[0], gridColor[1], gridColor[2]},
			LineVertex{maxX, y, wz, gridColor[0], gridColor[1], gridColor[2]},
		)
	}
	return vertices
}

// StateColor returns the overlay color of a cell state.
func StateColor(s grass.CellState) color.NRGBA {
	switch s {
	case grass.Requested:
		return color.NRGBA{R: 200, G: 180, B: 0, A: 255} // Yellow
	case grass.Building:
		return color.NRGBA{R: 220, G: 110, B: 0, A: 255} // Orange
	case grass.Committed:
		return color.NRGBA{R: 0, G: 160, B: 0, A: 255} // Green
	default:
		return color.NRGBA{R: 40, G: 40, B: 40, A: 255} // Gray
	}
}

// StateOverlay paints a top-down image of a layer's cell states with
// pixelsPerCell pixels per cell edge. Row 0 of the image is cell row 0.
func StateOverlay(g *grass.Grid, state func(grass.CellIndex) grass.CellState, pixelsPerCell int) *image.NRGBA {
	if pixelsPerCell < 1 {
		pixelsPerCell = 1
	}
	cx, cy := g.CellCount()
	img := image.NewNRGBA(image.Rect(0, 0, cx*pixelsPerCell, cy*pixelsPerCell))

	for y := 0; y < cy; y++ {
		for x := 0; x < cx; x++ {
			c := StateColor(state(grass.CellIndex{X: x, Y: y}))
			for py := 0; py < pixelsPerCell; py++ {
				for px := 0; px < pixelsPerCell; px++ {
					// Leave a one pixel border so cells stay distinguishable.
					if pixelsPerCell > 2 && (px == 0 || py == 0) {
						continue
					}
					img.SetNRGBA(x*pixelsPerCell+px, y*pixelsPerCell+py, c)
				}
			}
		}
	}
	return img
}
