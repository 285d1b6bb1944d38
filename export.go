package pixelcanvas

import (
	"errors"
	"io"

	"github.com/bodgit/pixelcanvas/cart"
	"github.com/klauspost/compress/zstd"
)

var errSnapshotSize = errors.New("pixelcanvas: snapshot too large")

// Export writes a zstd compressed snapshot of the cart to w.
func (c *Canvas) Export(w io.Writer) error {
	ct, err := c.db.LoadCart()
	if err != nil {
		return err
	}

	b, err := ct.MarshalBinary()
	if err != nil {
		return err
	}

	// EncodeAll records the content size so the frame window stays within
	// what Import accepts
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	defer enc.Close()

	_, err = w.Write(enc.EncodeAll(b, nil))

	return err
}

// Import replaces the cart with a snapshot previously written by Export,
// returning the number of cells staged.
func (c *Canvas) Import(r io.Reader) (int, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(uint64(cart.MaxSize)))
	if err != nil {
		return 0, err
	}
	defer dec.Close()

	b, err := io.ReadAll(io.LimitReader(dec, int64(cart.MaxSize)+1))
	if err != nil {
		return 0, err
	}
	if len(b) > cart.MaxSize {
		return 0, errSnapshotSize
	}

	ct := cart.New()
	if err := ct.UnmarshalBinary(b); err != nil {
		return 0, err
	}

	if err := ct.Pixels().Validate(c.grid); err != nil {
		return 0, err
	}

	c.logger.Printf("Imported %d staged cells\n", ct.Len())

	return ct.Len(), c.db.SaveCart(ct)
}
