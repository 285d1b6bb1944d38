/*
Package rect extracts maximal same-colour rectangles from a set of pending
cell updates.

Painting a solid rectangle costs seven bytes regardless of its size so any
block of two or more matching cells is cheaper to submit as a rectangle
than as runs. Cells that don't form part of a rectangle are returned as a
residual set for run-length encoding.
*/
package rect

import (
	"sort"

	"github.com/bodgit/pixelcanvas/pixel"
)

// Rectangle is a solid block of cells sharing one colour.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
	Color  pixel.Color
}

// Area returns the number of cells covered.
func (r Rectangle) Area() int {
	return r.Width * r.Height
}

// Contains reports whether (x, y) lies within the rectangle.
func (r Rectangle) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Indices returns the cell indices covered by the rectangle on g, row by
// row.
func (r Rectangle) Indices(g pixel.Grid) []int {
	indices := make([]int, 0, r.Area())
	for dy := 0; dy < r.Height; dy++ {
		for dx := 0; dx < r.Width; dx++ {
			indices = append(indices, g.Index(r.X+dx, r.Y+dy))
		}
	}
	return indices
}

// Covered reports whether cell i on g is covered by any of rects.
func Covered(g pixel.Grid, i int, rects []Rectangle) bool {
	x, y := g.Coord(i)
	for _, r := range rects {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

type cell struct {
	color   pixel.Color
	present bool
	claimed bool
}

type finder struct {
	grid  pixel.Grid
	cells []cell
}

// available reports whether (x, y) holds an unclaimed cell of colour c.
func (f *finder) available(x, y int, c pixel.Color) bool {
	p := f.cells[f.grid.Index(x, y)]
	return p.present && !p.claimed && p.color == c
}

func (f *finder) grow(x, y int, c pixel.Color) (int, int) {
	width := 1
	for x+width < f.grid.Width && f.available(x+width, y, c) {
		width++
	}

	height := 1
outer:
	for y+height < f.grid.Height {
		for dx := 0; dx < width; dx++ {
			if !f.available(x+dx, y+height, c) {
				break outer
			}
		}
		height++
	}

	return width, height
}

func (f *finder) claim(r Rectangle) {
	for _, i := range r.Indices(f.grid) {
		f.cells[i].claimed = true
	}
}

// Find scans the cells of s in ascending (y, x) order and, from each
// unclaimed cell, grows a rectangle first to the right and then downwards
// over unclaimed cells of the same colour. Rectangles covering more than
// one cell are claimed and returned, largest first; equal areas keep the
// order they were found in. Every other cell, including any whose index
// lies outside g, is returned in the residual set.
func Find(g pixel.Grid, s *pixel.Set) ([]Rectangle, *pixel.Set) {
	f := finder{
		grid:  g,
		cells: make([]cell, g.Cells()),
	}

	// Ascending index is ascending (y, x)
	indices := s.Indices()
	for _, i := range indices {
		if !g.Contains(i) {
			continue
		}
		c, _ := s.Get(i)
		f.cells[i] = cell{color: c, present: true}
	}

	var rects []Rectangle
	for _, i := range indices {
		if !g.Contains(i) || f.cells[i].claimed {
			continue
		}

		x, y := g.Coord(i)
		c := f.cells[i].color

		width, height := f.grow(x, y, c)
		if width*height < 2 {
			continue
		}

		r := Rectangle{
			X:      x,
			Y:      y,
			Width:  width,
			Height: height,
			Color:  c,
		}
		f.claim(r)
		rects = append(rects, r)
	}

	residual := pixel.NewSet()
	for _, i := range indices {
		if g.Contains(i) && f.cells[i].claimed {
			continue
		}
		c, _ := s.Get(i)
		residual.Set(i, c)
	}

	sort.SliceStable(rects, func(i, j int) bool { return rects[i].Area() > rects[j].Area() })

	return rects, residual
}
