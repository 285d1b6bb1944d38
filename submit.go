package pixelcanvas

import (
	"context"
	"fmt"
	"io"

	"github.com/bodgit/pixelcanvas/wire"
)

// Submitter hands payloads to the remote canvas. Each call must only
// return once the submission has been confirmed or has failed.
type Submitter interface {
	SubmitAreas(ctx context.Context, data []byte) error
	SubmitRLE(ctx context.Context, data, palette []byte) error
}

type writerSubmitter struct {
	w io.Writer
}

// NewWriterSubmitter returns a Submitter that writes one line per payload
// to w, naming the entry point followed by the hex encoded arguments.
func NewWriterSubmitter(w io.Writer) Submitter {
	return &writerSubmitter{w: w}
}

func (s *writerSubmitter) SubmitAreas(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(s.w, "setPixelAreasCompact %s\n", wire.Hex(data))
	return err
}

func (s *writerSubmitter) SubmitRLE(ctx context.Context, data, palette []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(s.w, "setPixelColorsRLEPalette %s %s\n", wire.Hex(data), wire.Hex(palette))
	return err
}

func submit(ctx context.Context, s Submitter, p Payload) error {
	switch p.Kind {
	case KindAreas:
		return s.SubmitAreas(ctx, p.Data)
	case KindRLE:
		return s.SubmitRLE(ctx, p.Data, p.Palette)
	default:
		return fmt.Errorf("unknown payload kind %d", int(p.Kind))
	}
}
