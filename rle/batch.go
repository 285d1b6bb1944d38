package rle

import (
	"github.com/bodgit/pixelcanvas/pixel"
)

// MaxPaletteColors is the number of colours a one byte index can address.
const MaxPaletteColors = 256

// Palette is a deduplicated list of colours in the order they were first
// used.
type Palette []pixel.Color

// Index returns the position of c in the palette, or -1.
func (p Palette) Index(c pixel.Color) int {
	for i, pc := range p {
		if pc == c {
			return i
		}
	}
	return -1
}

// Batch is one submittable group of runs along with its palette.
type Batch struct {
	Runs    []Run
	Palette Palette
}

// Cells returns the number of cells painted by the batch.
func (b Batch) Cells() int {
	var n int
	for _, r := range b.Runs {
		n += r.Length
	}
	return n
}

// Batcher splits runs into batches.
type Batcher struct {
	// MaxColors bounds the palette of each batch. Zero or anything above
	// MaxPaletteColors means MaxPaletteColors.
	MaxColors int
	// MaxRuns bounds the number of runs in each batch. Zero means no
	// bound; a batch only closes when its palette is full.
	MaxRuns int
}

type builder struct {
	runs    []Run
	palette Palette
	colors  map[pixel.Color]struct{}
}

func newBuilder() *builder {
	return &builder{
		colors: make(map[pixel.Color]struct{}),
	}
}

func (b *builder) has(c pixel.Color) bool {
	_, ok := b.colors[c]
	return ok
}

func (b *builder) add(r Run) {
	if !b.has(r.Color) {
		b.colors[r.Color] = struct{}{}
		b.palette = append(b.palette, r.Color)
	}
	b.runs = append(b.runs, r)
}

func (b *builder) batch() Batch {
	return Batch{Runs: b.runs, Palette: b.palette}
}

// Split walks runs in order adding each to the current batch. A run whose
// colour is already in the batch palette is always added; a run with a new
// colour is added while the palette has room, otherwise the batch is
// finished and a new one started with that run. Every run ends up in
// exactly one batch and the relative order of runs is preserved.
func (bt Batcher) Split(runs []Run) []Batch {
	maxColors := bt.MaxColors
	if maxColors <= 0 || maxColors > MaxPaletteColors {
		maxColors = MaxPaletteColors
	}

	var batches []Batch
	current := newBuilder()

	for _, r := range runs {
		full := bt.MaxRuns > 0 && len(current.runs) >= bt.MaxRuns
		if !full && (current.has(r.Color) || len(current.palette) < maxColors) {
			current.add(r)
			continue
		}
		batches = append(batches, current.batch())
		current = newBuilder()
		current.add(r)
	}

	if len(current.runs) > 0 {
		batches = append(batches, current.batch())
	}

	return batches
}

// Split splits runs using a palette of up to MaxPaletteColors colours and
// no bound on the number of runs per batch.
func Split(runs []Run) []Batch {
	return Batcher{}.Split(runs)
}
