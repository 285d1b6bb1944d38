/*
Package cart implements the set of staged cell edits a user builds up before
submitting them, along with the colour each cell had before it was first
edited so the edit can be undone.

A cart can be written to and read from a small binary snapshot. The snapshot
starts with a four byte magic and a big-endian 32-bit count, followed by one
eight byte entry per staged cell sorted by index; a big-endian 16-bit index,
three bytes of staged colour, three bytes of original colour.
*/
package cart

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bodgit/pixelcanvas/pixel"
)

const (
	magic      = "PXC1"
	headerSize = len(magic) + 4
	entrySize  = 8
	maxEntries = pixel.MaxCells

	// MaxSize is the size of the largest possible snapshot
	MaxSize = headerSize + entrySize*maxEntries
)

var (
	errBadMagic  = errors.New("cart: invalid snapshot magic")
	errNotEnough = errors.New("cart: not enough snapshot data")
	errTooMuch   = errors.New("cart: too much snapshot data")
)

// Entry is one staged cell.
type Entry struct {
	Index    int
	Color    pixel.Color
	Original pixel.Color
}

// Cart is the caller-owned set of staged edits. It is not safe for
// concurrent use.
type Cart struct {
	edits     *pixel.Set
	originals map[int]pixel.Color
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{
		edits:     pixel.NewSet(),
		originals: make(map[int]pixel.Color),
	}
}

// Len returns the number of staged cells, which is also the number of
// cells that will be charged for on submission.
func (c *Cart) Len() int {
	return c.edits.Len()
}

// Stage sets cell i to color. The original colour is only recorded the
// first time a cell is staged. It returns false if the cell was already
// staged with the same colour.
func (c *Cart) Stage(i int, color, original pixel.Color) bool {
	if cur, ok := c.edits.Get(i); ok {
		if cur == color {
			return false
		}
	} else if _, ok := c.originals[i]; !ok {
		c.originals[i] = original
	}
	c.edits.Set(i, color)
	return true
}

// Unstage removes cell i from the cart and returns the colour it should be
// restored to.
func (c *Cart) Unstage(i int) (pixel.Color, bool) {
	if _, ok := c.edits.Get(i); !ok {
		return 0, false
	}
	o := c.originals[i]
	c.edits.Remove(i)
	delete(c.originals, i)
	return o, true
}

// Clear empties the cart and returns the original colour of every cell that
// was staged.
func (c *Cart) Clear() map[int]pixel.Color {
	o := c.originals
	c.edits = pixel.NewSet()
	c.originals = make(map[int]pixel.Color)
	return o
}

// Get returns the staged entry for cell i.
func (c *Cart) Get(i int) (Entry, bool) {
	color, ok := c.edits.Get(i)
	if !ok {
		return Entry{}, false
	}
	return Entry{Index: i, Color: color, Original: c.originals[i]}, true
}

// Entries returns every staged cell in ascending index order.
func (c *Cart) Entries() []Entry {
	indices := c.edits.Indices()
	entries := make([]Entry, 0, len(indices))
	for _, i := range indices {
		e, _ := c.Get(i)
		entries = append(entries, e)
	}
	return entries
}

// Pixels returns a snapshot of the staged colours for encoding. Later
// changes to the cart do not affect it.
func (c *Cart) Pixels() *pixel.Set {
	return c.edits.Clone()
}

// MarshalBinary encodes the cart into its snapshot form.
func (c *Cart) MarshalBinary() ([]byte, error) {
	entries := c.Entries()
	if len(entries) > maxEntries {
		return nil, fmt.Errorf("cart: more than %d entries", maxEntries)
	}

	b := new(bytes.Buffer)
	b.Grow(headerSize + len(entries)*entrySize)
	b.WriteString(magic)

	if err := binary.Write(b, binary.BigEndian, uint32(len(entries))); err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.Index < 0 || e.Index >= maxEntries {
			return nil, fmt.Errorf("cart: index %d out of range", e.Index)
		}
		var tmp [entrySize]byte
		binary.BigEndian.PutUint16(tmp[:2], uint16(e.Index))
		tmp[2], tmp[3], tmp[4] = e.Color.Components()
		tmp[5], tmp[6], tmp[7] = e.Original.Components()
		if _, err := b.Write(tmp[:]); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = errNotEnough
	}
	return err
}

// UnmarshalBinary decodes a snapshot, replacing the contents of the cart.
func (c *Cart) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	var hdr [headerSize]byte
	if err := readFull(r, hdr[:]); err != nil {
		return err
	}
	if string(hdr[:len(magic)]) != magic {
		return errBadMagic
	}
	n := binary.BigEndian.Uint32(hdr[len(magic):])
	if n > maxEntries {
		return errTooMuch
	}

	dup := New()
	for i := uint32(0); i < n; i++ {
		var tmp [entrySize]byte
		if err := readFull(r, tmp[:]); err != nil {
			return err
		}
		index := int(binary.BigEndian.Uint16(tmp[:2]))
		dup.edits.Set(index, pixel.RGB(tmp[2], tmp[3], tmp[4]))
		dup.originals[index] = pixel.RGB(tmp[5], tmp[6], tmp[7])
	}

	if r.Len() > 0 {
		return errTooMuch
	}

	*c = *dup
	return nil
}
