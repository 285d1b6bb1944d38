/*
Package pixelcanvas is a library for staging edits to a shared pixel canvas
and encoding them into the smallest set of payloads to submit.

Staged cells are first covered with solid same-colour rectangles, anything
left over is run-length encoded against a per-batch palette of at most 256
colours. The payloads are submitted one at a time in order through a
Submitter.
*/
package pixelcanvas

import (
	"image"
	"io/ioutil"
	"log"

	"github.com/bodgit/pixelcanvas/cart"
	"github.com/bodgit/pixelcanvas/pixel"
	"github.com/bodgit/pixelcanvas/raster"
	"github.com/bodgit/pixelcanvas/rle"
)

// Option configures a Canvas.
type Option func(*Canvas)

// WithGrid sets the grid dimensions, the default is 64 by 64.
func WithGrid(g pixel.Grid) Option {
	return func(c *Canvas) {
		c.grid = g
	}
}

// WithBatcher sets how runs are split into batches.
func WithBatcher(bt rle.Batcher) Option {
	return func(c *Canvas) {
		c.batcher = bt
	}
}

// WithLogger sets the logger, by default nothing is logged.
func WithLogger(logger *log.Logger) Option {
	return func(c *Canvas) {
		c.logger = logger
	}
}

// Canvas is an editing session against a DB.
type Canvas struct {
	db      *DB
	grid    pixel.Grid
	batcher rle.Batcher
	logger  *log.Logger
}

// New returns a Canvas backed by db.
func New(db *DB, options ...Option) *Canvas {
	c := &Canvas{
		db:     db,
		grid:   pixel.DefaultGrid,
		logger: log.New(ioutil.Discard, "", 0),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// Grid returns the grid dimensions in use.
func (c *Canvas) Grid() pixel.Grid {
	return c.grid
}

// Paint stages the cell at (x, y) with color. It returns false if the cell
// was already staged with that colour.
func (c *Canvas) Paint(x, y int, color pixel.Color) (bool, error) {
	i, err := c.grid.CheckedIndex(x, y)
	if err != nil {
		return false, err
	}
	return c.stage(pixel.SetOf(pixel.Update{Index: i, Color: color}))
}

// PaintImage rasterizes m according to o and stages the result, returning
// the number of cells staged. The grid in o is ignored.
func (c *Canvas) PaintImage(m image.Image, o raster.Options) (int, error) {
	o.Grid = c.grid
	s, err := raster.Rasterize(m, o)
	if err != nil {
		return 0, err
	}

	c.logger.Printf("Rasterized image to %d cells at (%d, %d)\n", s.Len(), o.X, o.Y)

	if _, err := c.stage(s); err != nil {
		return 0, err
	}
	return s.Len(), nil
}

func (c *Canvas) stage(s *pixel.Set) (bool, error) {
	if err := s.Validate(c.grid); err != nil {
		return false, err
	}

	ct, err := c.db.LoadCart()
	if err != nil {
		return false, err
	}

	var changed bool
	for _, i := range s.Indices() {
		color, _ := s.Get(i)
		original, err := c.db.CanvasColor(i)
		if err != nil {
			return false, err
		}
		if ct.Stage(i, color, original) {
			changed = true
		}
	}

	if !changed {
		return false, nil
	}
	return true, c.db.SaveCart(ct)
}

// Erase unstages the cell at (x, y) and returns the colour it reverts to.
func (c *Canvas) Erase(x, y int) (pixel.Color, bool, error) {
	i, err := c.grid.CheckedIndex(x, y)
	if err != nil {
		return 0, false, err
	}

	ct, err := c.db.LoadCart()
	if err != nil {
		return 0, false, err
	}

	o, ok := ct.Unstage(i)
	if !ok {
		return 0, false, nil
	}
	return o, true, c.db.SaveCart(ct)
}

// Clear unstages every cell, returning the colours they revert to.
func (c *Canvas) Clear() (map[int]pixel.Color, error) {
	ct, err := c.db.LoadCart()
	if err != nil {
		return nil, err
	}
	o := ct.Clear()
	return o, c.db.SaveCart(ct)
}

// Cart returns the staged cells.
func (c *Canvas) Cart() (*cart.Cart, error) {
	return c.db.LoadCart()
}

// Plan encodes the staged cells without submitting anything.
func (c *Canvas) Plan() (*Plan, error) {
	ct, err := c.db.LoadCart()
	if err != nil {
		return nil, err
	}
	return Encode(c.grid, ct.Pixels(), c.batcher)
}

// Preview renders the canvas with the staged cells drawn over it.
func (c *Canvas) Preview() (*image.RGBA, error) {
	base, err := c.db.Canvas()
	if err != nil {
		return nil, err
	}
	ct, err := c.db.LoadCart()
	if err != nil {
		return nil, err
	}
	return raster.Render(c.grid, base, ct.Pixels()), nil
}

// History returns the submission journal.
func (c *Canvas) History() ([]Submission, error) {
	return c.db.Submissions()
}
