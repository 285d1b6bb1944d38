package pixelcanvas

import (
	"errors"
	"sort"

	"github.com/bodgit/pixelcanvas/pixel"
	"github.com/bodgit/pixelcanvas/rect"
	"github.com/bodgit/pixelcanvas/rle"
	"github.com/bodgit/pixelcanvas/wire"
)

// Payload is one submission. Rectangle payloads only use Data; run
// payloads pair Data with Palette.
type Payload struct {
	Kind    Kind
	Data    []byte
	Palette []byte

	// Cells holds the colour of every cell the payload paints
	Cells *pixel.Set
}

// Size returns the number of payload bytes.
func (p Payload) Size() int {
	return len(p.Data) + len(p.Palette)
}

// Plan is the result of encoding a set of cell updates. Payloads must be
// submitted in order.
type Plan struct {
	Grid       pixel.Grid
	Rectangles []rect.Rectangle
	Runs       []rle.Run
	Batches    []rle.Batch
	Payloads   []Payload
}

// Cells returns the number of cells painted, which is what submission is
// charged for.
func (p *Plan) Cells() int {
	var n int
	for _, pl := range p.Payloads {
		n += pl.Cells.Len()
	}
	return n
}

// Size returns the total number of payload bytes.
func (p *Plan) Size() int {
	var n int
	for _, pl := range p.Payloads {
		n += pl.Size()
	}
	return n
}

// Encode turns s into a plan of payloads: first one rectangle payload
// covering every same-colour block of two or more cells, then one run
// payload per palette batch for whatever is left. Empty input gives an
// empty plan.
//
// On grids larger than 256 in either direction a rectangle may not fit
// the wire format. It is cut into pieces no bigger than 255x255; any piece
// that starts beyond 255 or covers a single cell is encoded as runs.
func Encode(g pixel.Grid, s *pixel.Set, bt rle.Batcher) (*Plan, error) {
	if err := s.Validate(g); err != nil {
		return nil, err
	}

	plan := &Plan{Grid: g}

	rects, residual := rect.Find(g, s)
	for _, r := range rects {
		for _, p := range split(r) {
			err := wire.CheckArea(p)
			switch {
			case err == nil && p.Area() > 1:
				plan.Rectangles = append(plan.Rectangles, p)
			case err == nil, errors.Is(err, wire.ErrCoordinateOverflow):
				for _, i := range p.Indices(g) {
					residual.Set(i, p.Color)
				}
			default:
				return nil, err
			}
		}
	}
	sort.SliceStable(plan.Rectangles, func(i, j int) bool {
		return plan.Rectangles[i].Area() > plan.Rectangles[j].Area()
	})

	if len(plan.Rectangles) > 0 {
		b, err := wire.EncodeAreas(plan.Rectangles)
		if err != nil {
			return nil, err
		}
		cells := pixel.NewSet()
		for _, r := range plan.Rectangles {
			for _, i := range r.Indices(g) {
				cells.Set(i, r.Color)
			}
		}
		plan.Payloads = append(plan.Payloads, Payload{Kind: KindAreas, Data: b, Cells: cells})
	}

	plan.Runs = rle.Encode(residual)
	plan.Batches = bt.Split(plan.Runs)

	for _, batch := range plan.Batches {
		data, palette, err := wire.EncodeBatch(batch)
		if err != nil {
			return nil, err
		}
		cells := pixel.NewSet()
		for _, r := range batch.Runs {
			for i := r.Start; i < r.End(); i++ {
				cells.Set(i, r.Color)
			}
		}
		plan.Payloads = append(plan.Payloads, Payload{Kind: KindRLE, Data: data, Palette: palette, Cells: cells})
	}

	return plan, nil
}

// split cuts r into pieces whose width and height fit in one byte.
func split(r rect.Rectangle) []rect.Rectangle {
	if r.Width <= wire.MaxAreaSide && r.Height <= wire.MaxAreaSide {
		return []rect.Rectangle{r}
	}

	var pieces []rect.Rectangle
	for dy := 0; dy < r.Height; dy += wire.MaxAreaSide {
		for dx := 0; dx < r.Width; dx += wire.MaxAreaSide {
			pieces = append(pieces, rect.Rectangle{
				X:      r.X + dx,
				Y:      r.Y + dy,
				Width:  min(wire.MaxAreaSide, r.Width-dx),
				Height: min(wire.MaxAreaSide, r.Height-dy),
				Color:  r.Color,
			})
		}
	}
	return pieces
}
