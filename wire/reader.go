package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/bodgit/pixelcanvas/pixel"
	"github.com/bodgit/pixelcanvas/rect"
	"github.com/bodgit/pixelcanvas/rle"
)

func readColor(b []byte) pixel.Color {
	return pixel.RGB(b[0], b[1], b[2])
}

// DecodeAreas parses a rectangle payload.
func DecodeAreas(b []byte) ([]rect.Rectangle, error) {
	if len(b)%AreaSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes of areas", ErrShortPayload, len(b))
	}

	rects := make([]rect.Rectangle, 0, len(b)/AreaSize)
	for i := 0; i < len(b); i += AreaSize {
		rects = append(rects, rect.Rectangle{
			X:      int(b[i]),
			Y:      int(b[i+1]),
			Width:  int(b[i+2]),
			Height: int(b[i+3]),
			Color:  readColor(b[i+4 : i+7]),
		})
	}

	return rects, nil
}

// DecodeBatch parses a run data and palette payload pair, resolving each
// run's colour through the palette.
func DecodeBatch(data, palette []byte) (rle.Batch, error) {
	if len(palette)%ColorSize != 0 {
		return rle.Batch{}, fmt.Errorf("%w: %d bytes of palette", ErrShortPayload, len(palette))
	}
	if len(data)%RunSize != 0 {
		return rle.Batch{}, fmt.Errorf("%w: %d bytes of runs", ErrShortPayload, len(data))
	}
	if len(palette)/ColorSize > maxPalette {
		return rle.Batch{}, fmt.Errorf("%w: %d colors", ErrPaletteOverflow, len(palette)/ColorSize)
	}

	var batch rle.Batch

	batch.Palette = make(rle.Palette, 0, len(palette)/ColorSize)
	for i := 0; i < len(palette); i += ColorSize {
		batch.Palette = append(batch.Palette, readColor(palette[i:i+ColorSize]))
	}

	batch.Runs = make([]rle.Run, 0, len(data)/RunSize)
	for i := 0; i < len(data); i += RunSize {
		ci := int(data[i+3])
		if ci >= len(batch.Palette) {
			return rle.Batch{}, fmt.Errorf("run %d: %w: index %d", i/RunSize, ErrColorNotInPalette, ci)
		}
		batch.Runs = append(batch.Runs, rle.Run{
			Start:  int(binary.BigEndian.Uint16(data[i : i+2])),
			Length: int(data[i+2]),
			Color:  batch.Palette[ci],
		})
	}

	return batch, nil
}
