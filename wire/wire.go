/*
Package wire implements the binary payloads submitted to the canvas.

Rectangles are written as seven bytes each; x, y, width and height as one
byte each followed by the colour as three bytes R, G, B. There is no header
so the number of rectangles is the payload length divided by seven.

Runs are written as two separate payloads. The run data is four bytes per
run; a big-endian 16-bit start index, a one byte length and a one byte index
into the palette. The palette is three bytes R, G, B per colour in the order
the colours were first used.

Payloads are transported as a "0x" prefixed lowercase hex string. The grid
dimensions are never included; both sides agree on them out of band.
*/
package wire

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// AreaSize is the encoded size of one rectangle
	AreaSize = 7
	// RunSize is the encoded size of one run
	RunSize = 4
	// ColorSize is the encoded size of one palette entry
	ColorSize = 3
	// MaxAreaSide is the largest value any rectangle field can hold
	MaxAreaSide = 0xff

	maxCoordinate = MaxAreaSide
	maxStart      = 0xffff
	maxLength     = 0xff
	maxPalette    = 0x100

	hexPrefix = "0x"
)

var (
	// ErrCoordinateOverflow is returned when a rectangle field doesn't
	// fit in one byte
	ErrCoordinateOverflow = errors.New("wire: rectangle coordinate overflow")
	// ErrRunLengthOverflow is returned when a run length doesn't fit in
	// one byte
	ErrRunLengthOverflow = errors.New("wire: run length overflow")
	// ErrStartOverflow is returned when a run start doesn't fit in two
	// bytes
	ErrStartOverflow = errors.New("wire: run start overflow")
	// ErrPaletteOverflow is returned when a palette has more colours than
	// a one byte index can address
	ErrPaletteOverflow = errors.New("wire: palette overflow")
	// ErrColorNotInPalette is returned when a run uses a colour missing
	// from its batch palette
	ErrColorNotInPalette = errors.New("wire: color not in palette")
	// ErrShortPayload is returned when a payload isn't a whole number of
	// units
	ErrShortPayload = errors.New("wire: payload length mismatch")
	// ErrHex is returned for a malformed hex string
	ErrHex = errors.New("wire: invalid hex")
)

// Hex returns b as a "0x" prefixed lowercase hex string.
func Hex(b []byte) string {
	return hexPrefix + hex.EncodeToString(b)
}

// ParseHex is the inverse of Hex.
func ParseHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, hexPrefix) {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrHex, hexPrefix)
	}
	b, err := hex.DecodeString(s[len(hexPrefix):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHex, err)
	}
	return b, nil
}
