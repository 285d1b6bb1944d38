package pixelcanvas

import (
	"context"
	"errors"
	"sync"
)

type sequenced struct {
	seq     int
	payload Payload
}

func (c *Canvas) generatePayloads(ctx context.Context, plan *Plan) (<-chan sequenced, <-chan error, error) {
	out := make(chan sequenced)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i, p := range plan.Payloads {
			select {
			case out <- sequenced{seq: i, payload: p}:
			case <-ctx.Done():
				errc <- errors.New("checkout cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

// submitWorker submits payloads strictly one at a time in the order they
// arrive, journalling each one before it is sent and confirming it only
// once the submitter returns.
func (c *Canvas) submitWorker(ctx context.Context, checkout int64, sub Submitter, in <-chan sequenced) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for s := range in {
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}

			id, err := c.db.addSubmission(checkout, s.seq, s.payload)
			if err != nil {
				errc <- err
				return
			}

			c.logger.Printf("Submitting %s payload %d, %d bytes for %d cells\n", s.payload.Kind, s.seq, s.payload.Size(), s.payload.Cells.Len())

			if err := submit(ctx, sub, s.payload); err != nil {
				c.logger.Printf("Payload %d failed: %s\n", s.seq, err)
				errc <- err
				return
			}

			if err := c.db.confirmSubmission(id, s.payload.Cells); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Checkout encodes the cart and submits the payloads in order, waiting
// for each to be confirmed before sending the next. Cells are moved from
// the cart onto the canvas as each payload is confirmed, so if a payload
// fails the cart is left holding exactly the cells that still need
// submitting. Nothing already confirmed is rolled back.
func (c *Canvas) Checkout(ctx context.Context, sub Submitter) (*Plan, error) {
	plan, err := c.Plan()
	if err != nil {
		return nil, err
	}
	if len(plan.Payloads) == 0 {
		return plan, nil
	}

	checkout, err := c.db.newCheckout()
	if err != nil {
		return nil, err
	}

	c.logger.Printf("Checkout %d: %d cells in %d payloads, %d bytes\n", checkout, plan.Cells(), len(plan.Payloads), plan.Size())

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	payloads, errc, err := c.generatePayloads(ctx, plan)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	// A single worker keeps submissions in order
	errc, err = c.submitWorker(ctx, checkout, sub, payloads)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	return plan, waitForPipeline(errcList...)
}
