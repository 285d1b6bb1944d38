/*
Package rle run-length encodes the cells left over after rectangle
extraction and splits the runs into batches whose palette fits in a single
byte index.
*/
package rle

import (
	"github.com/bodgit/pixelcanvas/pixel"
)

// MaxRunLength is the longest run the one byte length field can hold.
const MaxRunLength = 255

// Run is a sequence of consecutive cell indices sharing a colour.
type Run struct {
	Start  int
	Length int
	Color  pixel.Color
}

// End returns the index one past the last cell of the run.
func (r Run) End() int {
	return r.Start + r.Length
}

// Encode sorts the cells of s by index and merges consecutive cells of the
// same colour into runs. A run is closed as soon as it reaches
// MaxRunLength and the remaining cells start a new one. Runs never span a
// gap in the indices or a change of colour; they may span the end of a
// grid row.
func Encode(s *pixel.Set) []Run {
	indices := s.Indices()
	if len(indices) == 0 {
		return nil
	}

	var runs []Run

	c, _ := s.Get(indices[0])
	current := Run{Start: indices[0], Length: 1, Color: c}

	for _, i := range indices[1:] {
		c, _ := s.Get(i)
		if i == current.End() && c == current.Color && current.Length < MaxRunLength {
			current.Length++
			continue
		}
		runs = append(runs, current)
		current = Run{Start: i, Length: 1, Color: c}
	}

	return append(runs, current)
}
