/*
Package raster converts images into pending cell updates and renders cells
back into images.

An image is scaled to the requested size without smoothing, placed at a
position on the grid and any part falling off the grid is clipped. Pixels
that are mostly transparent are skipped. If the image uses more colours than
requested it is reduced with a median cut quantizer first so the result
fits in as few palette batches as possible.
*/
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/bodgit/pixelcanvas/pixel"
	"github.com/ericpauley/go-quantize/quantize"
	xdraw "golang.org/x/image/draw"
)

const alphaThreshold = 0x80

var (
	errEmptyImage = errors.New("raster: empty image")
	errBadSize    = errors.New("raster: invalid size")
)

// Options control how an image is placed on the grid.
type Options struct {
	Grid pixel.Grid

	// X and Y position the top-left corner of the image on the grid
	X int
	Y int

	// Width and Height scale the image; zero keeps the image size
	Width  int
	Height int

	// MaxColors quantizes the image down to at most this many colours;
	// zero keeps every colour
	MaxColors int

	// SkipBlack drops pure black pixels as black is indistinguishable
	// from an unpainted cell on the canvas
	SkipBlack bool
}

func countColors(m *image.NRGBA) map[color.NRGBA]int {
	colors := make(map[color.NRGBA]int)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := m.NRGBAAt(x, y); c.A >= alphaThreshold {
				colors[c]++
			}
		}
	}
	return colors
}

// reducePalette returns the palette the opaque pixels of m should be
// mapped onto, or nil if they already fit.
func reducePalette(m *image.NRGBA, max int) color.Palette {
	colors := countColors(m)
	if max <= 0 || len(colors) <= max {
		return nil
	}

	// Quantize a strip of just the opaque pixels so transparent ones
	// don't take up a palette slot
	var n int
	for _, v := range colors {
		n += v
	}
	strip := image.NewNRGBA(image.Rect(0, 0, n, 1))
	var x int
	for c, v := range colors {
		for i := 0; i < v; i++ {
			strip.SetNRGBA(x, 0, color.NRGBA{c.R, c.G, c.B, 0xff})
			x++
		}
	}

	q := quantize.MedianCutQuantizer{}
	return q.Quantize(make(color.Palette, 0, max), strip)
}

func scale(m image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	b := m.Bounds()
	if b.Dx() == width && b.Dy() == height {
		draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
		return dst
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, xdraw.Src, nil)
	return dst
}

func toColor(c color.Color) pixel.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return pixel.RGB(n.R, n.G, n.B)
}

// Rasterize converts m into cell updates according to o.
func Rasterize(m image.Image, o Options) (*pixel.Set, error) {
	b := m.Bounds()
	if b.Empty() {
		return nil, errEmptyImage
	}

	width, height := o.Width, o.Height
	if width == 0 {
		width = b.Dx()
	}
	if height == 0 {
		height = b.Dy()
	}
	if width < 1 || height < 1 || width > o.Grid.Width || height > o.Grid.Height {
		return nil, fmt.Errorf("%w: %dx%d on %s grid", errBadSize, width, height, o.Grid)
	}
	if _, err := o.Grid.CheckedIndex(o.X, o.Y); err != nil {
		return nil, err
	}

	scaled := scale(m, width, height)
	palette := reducePalette(scaled, o.MaxColors)

	s := pixel.NewSet()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := scaled.NRGBAAt(x, y)
			if c.A < alphaThreshold {
				continue
			}

			tx, ty := o.X+x, o.Y+y
			if tx >= o.Grid.Width || ty >= o.Grid.Height {
				continue
			}

			opaque := color.NRGBA{c.R, c.G, c.B, 0xff}
			pc := toColor(opaque)
			if palette != nil {
				pc = toColor(palette.Convert(opaque))
			}
			if o.SkipBlack && pc == 0 {
				continue
			}

			s.Set(o.Grid.Index(tx, ty), pc)
		}
	}

	return s, nil
}

// Render draws each set onto an opaque black image the size of g, later
// sets drawn over earlier ones. Cells outside g are ignored.
func Render(g pixel.Grid, sets ...*pixel.Set) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	draw.Draw(m, m.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	for _, s := range sets {
		for _, u := range s.Entries() {
			if !g.Contains(u.Index) {
				continue
			}
			x, y := g.Coord(u.Index)
			m.Set(x, y, u.Color)
		}
	}

	return m
}
