package pixelcanvas

import (
	"math/rand"
	"testing"

	"github.com/bodgit/pixelcanvas/pixel"
	"github.com/bodgit/pixelcanvas/rect"
	"github.com/bodgit/pixelcanvas/rle"
	"github.com/bodgit/pixelcanvas/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeScenario(t *testing.T) {
	s := pixel.SetOf(
		pixel.Update{Index: 0, Color: 0xff0000},
		pixel.Update{Index: 1, Color: 0xff0000},
		pixel.Update{Index: 64, Color: 0xff0000},
		pixel.Update{Index: 65, Color: 0xff0000},
		pixel.Update{Index: 200, Color: 0x00ff00},
	)

	plan, err := Encode(pixel.DefaultGrid, s, rle.Batcher{})
	require.NoError(t, err)

	assert.Equal(t, []rect.Rectangle{{X: 0, Y: 0, Width: 2, Height: 2, Color: 0xff0000}}, plan.Rectangles)
	assert.Equal(t, []rle.Run{{Start: 200, Length: 1, Color: 0x00ff00}}, plan.Runs)
	require.Len(t, plan.Batches, 1)
	assert.Equal(t, rle.Palette{0x00ff00}, plan.Batches[0].Palette)

	require.Len(t, plan.Payloads, 2)
	assert.Equal(t, KindAreas, plan.Payloads[0].Kind)
	assert.Equal(t, "0x00000202ff0000", wire.Hex(plan.Payloads[0].Data))
	assert.Equal(t, KindRLE, plan.Payloads[1].Kind)
	assert.Equal(t, "0x00c80100", wire.Hex(plan.Payloads[1].Data))
	assert.Equal(t, "0x00ff00", wire.Hex(plan.Payloads[1].Palette))

	assert.Equal(t, 5, plan.Cells())
	assert.Equal(t, 7+4+3, plan.Size())
}

func TestEncodeEmpty(t *testing.T) {
	plan, err := Encode(pixel.DefaultGrid, pixel.NewSet(), rle.Batcher{})
	require.NoError(t, err)
	assert.Empty(t, plan.Rectangles)
	assert.Empty(t, plan.Runs)
	assert.Empty(t, plan.Batches)
	assert.Empty(t, plan.Payloads)
	assert.Equal(t, 0, plan.Cells())
}

func TestEncodeInvalidIndex(t *testing.T) {
	_, err := Encode(pixel.DefaultGrid, pixel.SetOf(pixel.Update{Index: 4096, Color: 1}), rle.Batcher{})
	assert.ErrorIs(t, err, pixel.ErrIndexRange)
}

func TestEncodeWideGrid(t *testing.T) {
	g, err := pixel.NewGrid(300, 4)
	require.NoError(t, err)

	s := pixel.NewSet()
	for x := 0; x < 300; x++ {
		s.Set(g.Index(x, 1), 0x0000ff)
	}
	for x := 0; x < 256; x++ {
		s.Set(g.Index(x, 2), 0xff0000)
	}
	s.Set(g.Index(10, 3), 0xff0000)
	s.Set(g.Index(11, 3), 0xff0000)
	s.Set(g.Index(280, 0), 0x00ff00)
	s.Set(g.Index(281, 0), 0x00ff00)

	plan, err := Encode(g, s, rle.Batcher{})
	require.NoError(t, err)

	// Oversized rectangles are cut to fit, a single cell piece or one
	// starting past x 255 becomes runs
	assert.Equal(t, []rect.Rectangle{
		{X: 0, Y: 1, Width: 255, Height: 1, Color: 0x0000ff},
		{X: 0, Y: 2, Width: 255, Height: 1, Color: 0xff0000},
		{X: 255, Y: 1, Width: 45, Height: 1, Color: 0x0000ff},
		{X: 10, Y: 3, Width: 2, Height: 1, Color: 0xff0000},
	}, plan.Rectangles)
	assert.Equal(t, []rle.Run{
		{Start: 280, Length: 2, Color: 0x00ff00},
		{Start: g.Index(255, 2), Length: 1, Color: 0xff0000},
	}, plan.Runs)
	assert.Equal(t, s.Len(), plan.Cells())

	cells := decode(t, g, plan)
	assert.Len(t, cells, s.Len())
}

func TestEncodeTallGrid(t *testing.T) {
	g, err := pixel.NewGrid(2, 600)
	require.NoError(t, err)

	s := pixel.NewSet()
	for y := 0; y < 600; y++ {
		s.Set(g.Index(0, y), 0x123456)
		s.Set(g.Index(1, y), 0x123456)
	}

	plan, err := Encode(g, s, rle.Batcher{})
	require.NoError(t, err)

	// The third piece starts at y 510 so is sent as runs
	assert.Equal(t, []rect.Rectangle{
		{X: 0, Y: 0, Width: 2, Height: 255, Color: 0x123456},
		{X: 0, Y: 255, Width: 2, Height: 255, Color: 0x123456},
	}, plan.Rectangles)
	assert.Equal(t, []rle.Run{{Start: g.Index(0, 510), Length: 180, Color: 0x123456}}, plan.Runs)
	assert.Equal(t, s.Len(), plan.Cells())

	cells := decode(t, g, plan)
	assert.Len(t, cells, s.Len())
	for _, colors := range cells {
		assert.Len(t, colors, 1)
	}
}

func TestEncodeColorRange(t *testing.T) {
	s := pixel.SetOf(
		pixel.Update{Index: 0, Color: pixel.MaxColor + 1},
		pixel.Update{Index: 1, Color: pixel.MaxColor + 1},
	)

	plan, err := Encode(pixel.DefaultGrid, s, rle.Batcher{})
	assert.ErrorIs(t, err, pixel.ErrColorRange)
	assert.Nil(t, plan)
}

// decode rebuilds the painted cells from the payloads alone.
func decode(t *testing.T, g pixel.Grid, plan *Plan) map[int][]pixel.Color {
	cells := make(map[int][]pixel.Color)
	for _, p := range plan.Payloads {
		switch p.Kind {
		case KindAreas:
			rects, err := wire.DecodeAreas(p.Data)
			require.NoError(t, err)
			for _, r := range rects {
				for _, i := range r.Indices(g) {
					cells[i] = append(cells[i], r.Color)
				}
			}
		case KindRLE:
			batch, err := wire.DecodeBatch(p.Data, p.Palette)
			require.NoError(t, err)
			for _, r := range batch.Runs {
				for i := r.Start; i < r.End(); i++ {
					cells[i] = append(cells[i], r.Color)
				}
			}
		}
	}
	return cells
}

func TestEncodeCoveragePartition(t *testing.T) {
	tables := []struct {
		name   string
		colors int
		fill   int
	}{
		{"sparse", 4, 500},
		{"dense", 2, 4096},
		{"noisy", 1000, 3000},
		{"solid", 1, 8192},
	}

	g := pixel.DefaultGrid
	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			r := rand.New(rand.NewSource(42))
			s := pixel.NewSet()
			for i := 0; i < table.fill; i++ {
				s.Set(r.Intn(g.Cells()), pixel.Color(r.Intn(table.colors)*0x10101%(pixel.MaxColor+1)))
			}

			plan, err := Encode(g, s, rle.Batcher{})
			require.NoError(t, err)

			cells := decode(t, g, plan)
			assert.Len(t, cells, s.Len())
			for i, colors := range cells {
				require.Len(t, colors, 1, "cell %d", i)
				c, ok := s.Get(i)
				require.True(t, ok)
				assert.Equal(t, c, colors[0])
			}

			for _, b := range plan.Batches {
				assert.LessOrEqual(t, len(b.Palette), rle.MaxPaletteColors)
			}
			assert.Equal(t, s.Len(), plan.Cells())
		})
	}
}

func TestEncodeManyColors(t *testing.T) {
	s := pixel.NewSet()
	for i := 0; i < 300; i++ {
		s.Set(i*2, pixel.Color(i))
	}

	plan, err := Encode(pixel.DefaultGrid, s, rle.Batcher{})
	require.NoError(t, err)
	assert.Empty(t, plan.Rectangles)
	require.Len(t, plan.Batches, 2)
	require.Len(t, plan.Payloads, 2)
	assert.Len(t, plan.Payloads[0].Palette, 256*wire.ColorSize)
	assert.Len(t, plan.Payloads[1].Palette, 44*wire.ColorSize)
}
