package wire

import (
	"testing"

	"github.com/bodgit/pixelcanvas/pixel"
	"github.com/bodgit/pixelcanvas/rect"
	"github.com/bodgit/pixelcanvas/rle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAreas(t *testing.T) {
	rects := []rect.Rectangle{
		{X: 0, Y: 0, Width: 2, Height: 2, Color: 0xff0000},
		{X: 10, Y: 63, Width: 54, Height: 1, Color: 0x3b82f6},
	}

	b, err := EncodeAreas(rects)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x00, 0x00, 0x02, 0x02, 0xff, 0x00, 0x00,
		0x0a, 0x3f, 0x36, 0x01, 0x3b, 0x82, 0xf6,
	}, b)
	assert.Equal(t, "0x00000202ff00000a3f36013b82f6", Hex(b))

	decoded, err := DecodeAreas(b)
	require.NoError(t, err)
	assert.Equal(t, rects, decoded)
}

func TestEncodeAreasEmpty(t *testing.T) {
	b, err := EncodeAreas(nil)
	require.NoError(t, err)
	assert.Empty(t, b)
	assert.Equal(t, "0x", Hex(b))
}

func TestEncodeAreasOverflow(t *testing.T) {
	rects := []rect.Rectangle{
		{X: 0, Y: 0, Width: 2, Height: 1, Color: 1},
		{X: 256, Y: 0, Width: 2, Height: 1, Color: 1},
	}

	_, err := EncodeAreas(rects)
	assert.ErrorIs(t, err, ErrCoordinateOverflow)
	assert.Contains(t, err.Error(), "rectangle 1")

	assert.ErrorIs(t, CheckArea(rect.Rectangle{Width: 300, Height: 1}), ErrCoordinateOverflow)
	assert.ErrorIs(t, CheckArea(rect.Rectangle{Width: 2, Height: 1, Color: 0x1000000}), pixel.ErrColorRange)
	assert.NoError(t, CheckArea(rect.Rectangle{X: 255, Y: 255, Width: 255, Height: 255}))
}

func TestEncodeBatch(t *testing.T) {
	batch := rle.Batch{
		Runs: []rle.Run{
			{Start: 200, Length: 1, Color: 0x00ff00},
			{Start: 4000, Length: 255, Color: 0x0000ff},
			{Start: 4095, Length: 1, Color: 0x00ff00},
		},
		Palette: rle.Palette{0x00ff00, 0x0000ff},
	}

	data, palette, err := EncodeBatch(batch)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x00, 0xc8, 0x01, 0x00,
		0x0f, 0xa0, 0xff, 0x01,
		0x0f, 0xff, 0x01, 0x00,
	}, data)
	assert.Equal(t, []byte{0x00, 0xff, 0x00, 0x00, 0x00, 0xff}, palette)
	assert.Equal(t, "0x00ff000000ff", Hex(palette))

	decoded, err := DecodeBatch(data, palette)
	require.NoError(t, err)
	assert.Equal(t, batch, decoded)
}

func TestEncodeBatchErrors(t *testing.T) {
	tables := []struct {
		name  string
		batch rle.Batch
		err   error
	}{
		{
			name:  "length",
			batch: rle.Batch{Runs: []rle.Run{{Start: 0, Length: 256, Color: 1}}, Palette: rle.Palette{1}},
			err:   ErrRunLengthOverflow,
		},
		{
			name:  "zero length",
			batch: rle.Batch{Runs: []rle.Run{{Start: 0, Length: 0, Color: 1}}, Palette: rle.Palette{1}},
			err:   ErrRunLengthOverflow,
		},
		{
			name:  "start",
			batch: rle.Batch{Runs: []rle.Run{{Start: 65536, Length: 1, Color: 1}}, Palette: rle.Palette{1}},
			err:   ErrStartOverflow,
		},
		{
			name:  "missing color",
			batch: rle.Batch{Runs: []rle.Run{{Start: 0, Length: 1, Color: 2}}, Palette: rle.Palette{1}},
			err:   ErrColorNotInPalette,
		},
		{
			name:  "palette",
			batch: rle.Batch{Palette: make(rle.Palette, 257)},
			err:   ErrPaletteOverflow,
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, _, err := EncodeBatch(table.batch)
			assert.ErrorIs(t, err, table.err)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := DecodeAreas(make([]byte, 8))
	assert.ErrorIs(t, err, ErrShortPayload)

	_, err = DecodeBatch(make([]byte, 4), make([]byte, 2))
	assert.ErrorIs(t, err, ErrShortPayload)

	_, err = DecodeBatch(make([]byte, 5), make([]byte, 3))
	assert.ErrorIs(t, err, ErrShortPayload)

	_, err = DecodeBatch([]byte{0, 0, 1, 1}, make([]byte, 3))
	assert.ErrorIs(t, err, ErrColorNotInPalette)
}

func TestParseHex(t *testing.T) {
	b, err := ParseHex("0x00ff0a")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff, 0x0a}, b)

	_, err = ParseHex("00ff0a")
	assert.ErrorIs(t, err, ErrHex)

	_, err = ParseHex("0xzz")
	assert.ErrorIs(t, err, ErrHex)
}
