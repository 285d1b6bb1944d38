package rect

import (
	"math/rand"
	"testing"

	"github.com/bodgit/pixelcanvas/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(s *pixel.Set, g pixel.Grid, x, y, w, h int, c pixel.Color) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			s.Set(g.Index(x+dx, y+dy), c)
		}
	}
}

func TestFindSquare(t *testing.T) {
	s := pixel.SetOf(
		pixel.Update{Index: 0, Color: 0xff0000},
		pixel.Update{Index: 1, Color: 0xff0000},
		pixel.Update{Index: 64, Color: 0xff0000},
		pixel.Update{Index: 65, Color: 0xff0000},
	)

	rects, residual := Find(pixel.DefaultGrid, s)
	assert.Equal(t, []Rectangle{{X: 0, Y: 0, Width: 2, Height: 2, Color: 0xff0000}}, rects)
	assert.Equal(t, 0, residual.Len())
}

func TestFindSinglePixel(t *testing.T) {
	s := pixel.SetOf(pixel.Update{Index: 200, Color: 0x00ff00})

	rects, residual := Find(pixel.DefaultGrid, s)
	assert.Empty(t, rects)
	assert.Equal(t, []int{200}, residual.Indices())
}

func TestFindEmpty(t *testing.T) {
	rects, residual := Find(pixel.DefaultGrid, pixel.NewSet())
	assert.Empty(t, rects)
	assert.Equal(t, 0, residual.Len())
}

func TestFindGreedy(t *testing.T) {
	g := pixel.DefaultGrid
	s := pixel.NewSet()
	fill(s, g, 0, 0, 3, 1, 0xff0000)
	fill(s, g, 0, 1, 2, 1, 0xff0000)

	rects, residual := Find(g, s)
	assert.Equal(t, []Rectangle{
		{X: 0, Y: 0, Width: 3, Height: 1, Color: 0xff0000},
		{X: 0, Y: 1, Width: 2, Height: 1, Color: 0xff0000},
	}, rects)
	assert.Equal(t, 0, residual.Len())
}

func TestFindColorBoundary(t *testing.T) {
	g := pixel.DefaultGrid
	s := pixel.NewSet()
	fill(s, g, 0, 0, 2, 3, 0x0000ff)
	fill(s, g, 2, 0, 4, 4, 0x00ff00)
	s.Set(g.Index(0, 3), 0x0000ff)

	rects, residual := Find(g, s)
	assert.Equal(t, []Rectangle{
		{X: 2, Y: 0, Width: 4, Height: 4, Color: 0x00ff00},
		{X: 0, Y: 0, Width: 2, Height: 3, Color: 0x0000ff},
	}, rects)
	assert.Equal(t, []int{g.Index(0, 3)}, residual.Indices())
}

func TestFindStableOrder(t *testing.T) {
	g := pixel.DefaultGrid
	s := pixel.NewSet()
	fill(s, g, 10, 0, 2, 1, 0x000001)
	fill(s, g, 20, 5, 1, 2, 0x000002)
	fill(s, g, 30, 9, 2, 1, 0x000003)

	rects, _ := Find(g, s)
	require.Len(t, rects, 3)
	for i, c := range []pixel.Color{1, 2, 3} {
		assert.Equal(t, c, rects[i].Color)
	}
}

func TestFindEdges(t *testing.T) {
	g := pixel.DefaultGrid
	s := pixel.NewSet()
	fill(s, g, 62, 62, 2, 2, 0x123456)

	rects, residual := Find(g, s)
	assert.Equal(t, []Rectangle{{X: 62, Y: 62, Width: 2, Height: 2, Color: 0x123456}}, rects)
	assert.Equal(t, 0, residual.Len())

	// A row must not wrap onto the next one
	s = pixel.SetOf(pixel.Update{Index: 63, Color: 1}, pixel.Update{Index: 64, Color: 1})
	rects, residual = Find(g, s)
	assert.Empty(t, rects)
	assert.Equal(t, 2, residual.Len())
}

func TestFindOutsideGrid(t *testing.T) {
	g := pixel.Grid{Width: 4, Height: 4}
	s := pixel.SetOf(pixel.Update{Index: 16, Color: 1}, pixel.Update{Index: 17, Color: 1})

	rects, residual := Find(g, s)
	assert.Empty(t, rects)
	assert.Equal(t, []int{16, 17}, residual.Indices())
}

func TestFindCoveragePartition(t *testing.T) {
	for _, g := range []pixel.Grid{pixel.DefaultGrid, {Width: 7, Height: 3}, {Width: 300, Height: 10}} {
		t.Run(g.String(), func(t *testing.T) {
			r := rand.New(rand.NewSource(1))
			s := pixel.NewSet()
			for i := 0; i < g.Cells()/2; i++ {
				s.Set(r.Intn(g.Cells()), pixel.Color(r.Intn(3)))
			}

			rects, residual := Find(g, s)

			seen := make(map[int]int)
			for _, rc := range rects {
				assert.Greater(t, rc.Area(), 1)
				for _, i := range rc.Indices(g) {
					c, ok := s.Get(i)
					require.True(t, ok)
					assert.Equal(t, rc.Color, c)
					seen[i]++
				}
			}
			for _, u := range residual.Entries() {
				assert.False(t, Covered(g, u.Index, rects))
				seen[u.Index]++
			}

			assert.Len(t, seen, s.Len())
			for i, n := range seen {
				assert.Equal(t, 1, n, "cell %d", i)
			}

			for i := 1; i < len(rects); i++ {
				assert.GreaterOrEqual(t, rects[i-1].Area(), rects[i].Area())
			}
		})
	}
}

func TestCovered(t *testing.T) {
	g := pixel.DefaultGrid
	rects := []Rectangle{{X: 1, Y: 1, Width: 2, Height: 2}}

	assert.True(t, Covered(g, g.Index(2, 2), rects))
	assert.False(t, Covered(g, g.Index(3, 2), rects))
	assert.False(t, Covered(g, 0, nil))
}
