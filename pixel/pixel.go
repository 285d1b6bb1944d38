/*
Package pixel implements the data model shared by the encoder packages: a
validated 24-bit colour, the grid geometry used to convert between cell
indices and coordinates, and the sparse set of pending cell updates.

Cells are addressed by a single index in row-major order, so for a grid of
width w the cell at (x, y) has index y*w + x.
*/
package pixel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultWidth is the width of the canvas unless configured otherwise
	DefaultWidth = 64
	// DefaultHeight is the height of the canvas unless configured otherwise
	DefaultHeight = 64

	// MaxColor is the largest packed RGB value
	MaxColor = 0xffffff

	// MaxCells bounds the grid so every index fits in 16 bits
	MaxCells = 1 << 16
)

var (
	// ErrColorRange is returned for colours outside 0..0xffffff
	ErrColorRange = errors.New("pixel: color out of range")
	// ErrGridSize is returned for grids that cannot be addressed
	ErrGridSize = errors.New("pixel: invalid grid size")
	// ErrIndexRange is returned for cell indices outside the grid
	ErrIndexRange = errors.New("pixel: index out of range")
)

// Color is a packed 24-bit RGB value with red in the high byte.
type Color uint32

// NewColor returns v as a Color, rejecting anything that doesn't fit in 24
// bits rather than masking it.
func NewColor(v int64) (Color, error) {
	if v < 0 || v > MaxColor {
		return 0, fmt.Errorf("%w: %#x", ErrColorRange, v)
	}
	return Color(v), nil
}

// RGB returns a Color built from its components.
func RGB(r, g, b uint8) Color {
	return Color(r)<<16 | Color(g)<<8 | Color(b)
}

// ParseColor parses "#rrggbb", "0xrrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if h == s {
		h = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	}
	if len(h) == 0 || len(h) > 6 {
		return 0, fmt.Errorf("%w: %q", ErrColorRange, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrColorRange, s)
	}
	return NewColor(int64(v))
}

// Components returns the red, green and blue bytes.
func (c Color) Components() (uint8, uint8, uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// RGBA implements the color.Color interface. Colors are always opaque.
func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	r, g, b := c.Components()
	return uint32(r) * 0x101, uint32(g) * 0x101, uint32(b) * 0x101, 0xffff
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

// Grid describes the fixed dimensions of the canvas. Both sides of the
// wire agree on it out of band; it is never carried in a payload.
type Grid struct {
	Width  int
	Height int
}

// DefaultGrid is the 64 by 64 canvas.
var DefaultGrid = Grid{Width: DefaultWidth, Height: DefaultHeight}

// NewGrid returns a Grid after checking that every cell index fits in 16
// bits.
func NewGrid(width, height int) (Grid, error) {
	if width < 1 || height < 1 || width*height > MaxCells {
		return Grid{}, fmt.Errorf("%w: %dx%d", ErrGridSize, width, height)
	}
	return Grid{Width: width, Height: height}, nil
}

// Cells returns the number of cells in the grid.
func (g Grid) Cells() int {
	return g.Width * g.Height
}

// Contains reports whether i is a valid cell index.
func (g Grid) Contains(i int) bool {
	return i >= 0 && i < g.Cells()
}

// Coord converts a cell index into x and y coordinates.
func (g Grid) Coord(i int) (int, int) {
	return i % g.Width, i / g.Width
}

// Index converts x and y coordinates into a cell index.
func (g Grid) Index(x, y int) int {
	return y*g.Width + x
}

// CheckedIndex returns the cell index for (x, y), or an error if the point lies
// outside the grid.
func (g Grid) CheckedIndex(x, y int) (int, error) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0, fmt.Errorf("%w: (%d, %d) on %dx%d", ErrIndexRange, x, y, g.Width, g.Height)
	}
	return g.Index(x, y), nil
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Width, g.Height)
}
