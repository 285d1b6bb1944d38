package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/bodgit/pixelcanvas/pixel"
	"github.com/bodgit/pixelcanvas/rect"
	"github.com/bodgit/pixelcanvas/rle"
)

func writeColor(b *bytes.Buffer, c pixel.Color) {
	r, g, bl := c.Components()
	b.Write([]byte{r, g, bl})
}

// CheckArea returns an error if r cannot be represented in the rectangle
// format.
func CheckArea(r rect.Rectangle) error {
	for _, v := range []int{r.X, r.Y, r.Width, r.Height} {
		if v < 0 || v > maxCoordinate {
			return fmt.Errorf("%w: %+v", ErrCoordinateOverflow, r)
		}
	}
	if r.Color > pixel.MaxColor {
		return fmt.Errorf("%w: %+v", pixel.ErrColorRange, r)
	}
	return nil
}

// CheckRun returns an error if r cannot be represented in the run format.
func CheckRun(r rle.Run) error {
	if r.Start < 0 || r.Start > maxStart {
		return fmt.Errorf("%w: %+v", ErrStartOverflow, r)
	}
	if r.Length < 1 || r.Length > maxLength {
		return fmt.Errorf("%w: %+v", ErrRunLengthOverflow, r)
	}
	return nil
}

// EncodeAreas returns the rectangle payload for rects, in order. Nothing
// is truncated; the first rectangle that doesn't fit is reported along
// with its position.
func EncodeAreas(rects []rect.Rectangle) ([]byte, error) {
	b := new(bytes.Buffer)
	b.Grow(len(rects) * AreaSize)

	for i, r := range rects {
		if err := CheckArea(r); err != nil {
			return nil, fmt.Errorf("rectangle %d: %w", i, err)
		}
		b.Write([]byte{byte(r.X), byte(r.Y), byte(r.Width), byte(r.Height)})
		writeColor(b, r.Color)
	}

	return b.Bytes(), nil
}

// EncodeBatch returns the run data and palette payloads for batch.
func EncodeBatch(batch rle.Batch) ([]byte, []byte, error) {
	if len(batch.Palette) > maxPalette {
		return nil, nil, fmt.Errorf("%w: %d colors", ErrPaletteOverflow, len(batch.Palette))
	}

	palette := new(bytes.Buffer)
	palette.Grow(len(batch.Palette) * ColorSize)
	for _, c := range batch.Palette {
		if c > pixel.MaxColor {
			return nil, nil, fmt.Errorf("%w: %#x", pixel.ErrColorRange, uint32(c))
		}
		writeColor(palette, c)
	}

	indices := make(map[pixel.Color]int, len(batch.Palette))
	for i := len(batch.Palette) - 1; i >= 0; i-- {
		indices[batch.Palette[i]] = i
	}

	data := new(bytes.Buffer)
	data.Grow(len(batch.Runs) * RunSize)
	for i, r := range batch.Runs {
		if err := CheckRun(r); err != nil {
			return nil, nil, fmt.Errorf("run %d: %w", i, err)
		}
		ci, ok := indices[r.Color]
		if !ok {
			return nil, nil, fmt.Errorf("run %d: %w: %s", i, ErrColorNotInPalette, r.Color)
		}

		var tmp [RunSize]byte
		binary.BigEndian.PutUint16(tmp[:2], uint16(r.Start))
		tmp[2] = byte(r.Length)
		tmp[3] = byte(ci)
		data.Write(tmp[:])
	}

	return data.Bytes(), palette.Bytes(), nil
}
