// SPDX-License-Identifier: MIT

package analysis

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/decaytree/decay"
	"github.com/katalvlaran/decaytree/edm"
)

// VisitFunc is called once per successfully built (and, if configured,
// collapsed) event. Events are visited concurrently; a returned error is
// recorded on that event's Result only.
type VisitFunc func(ctx context.Context, ev *Event) error

// Result is the outcome for one event index.
type Result struct {
	Index   int
	Summary Summary
	Err     error
}

// Processor builds and analyses many events of one source in parallel.
// Events share no mutable state, so the only coordination is the worker
// bound.
type Processor struct {
	src  edm.Source
	opts Options
}

// NewProcessor returns a Processor over src.
func NewProcessor(src edm.Source, opts ...Option) (*Processor, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	return &Processor{src: src, opts: resolveOptions(opts)}, nil
}

// Process handles the given event indices, or every event of the source if
// none are given. Results are returned in the order of indices.
//
// A failure inside one event (load error, malformed range, cycle, visit
// error) is recorded on its Result and does not stop the others. Only
// cancellation of ctx aborts the run; the partial results are returned
// together with the context error.
func (p *Processor) Process(ctx context.Context, visit VisitFunc, indices ...int) ([]Result, error) {
	if len(indices) == 0 {
		indices = make([]int, p.src.Len())
		for i := range indices {
			indices[i] = i
		}
	}
	results := make([]Result, len(indices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for k, idx := range indices {
		if gctx.Err() != nil {
			break
		}
		k, idx := k, idx
		g.Go(func() error {
			results[k] = p.one(gctx, idx, visit)
			// only cancellation escapes; per-event failures stay in results
			if err := gctx.Err(); err != nil {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func (p *Processor) one(ctx context.Context, index int, visit VisitFunc) Result {
	r := Result{Index: index}
	log := p.opts.Logger.With("event", index)

	ev, err := Load(ctx, p.src, index, WithLogger(p.opts.Logger), WithMetrics(p.opts.Metrics))
	if err != nil {
		r.Err = err
		outcome := outcomeOf(err)
		p.opts.Metrics.observeEvent(outcome)
		log.Warn("event skipped", "outcome", outcome, "err", err)
		return r
	}
	if p.opts.Collapse {
		if _, err := ev.ProcessDecayTree(p.opts.Threshold); err != nil {
			r.Err = err
			p.opts.Metrics.observeEvent(OutcomeOther)
			log.Warn("collapse failed", "err", err)
			return r
		}
	}
	r.Summary = ev.Summary()
	if visit != nil {
		if err := visit(ctx, ev); err != nil {
			r.Err = err
			p.opts.Metrics.observeEvent(OutcomeVisit)
			log.Warn("visit failed", "err", err)
			return r
		}
	}
	p.opts.Metrics.observeEvent(OutcomeOK)
	return r
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, decay.ErrMalformedRange):
		return OutcomeMalformed
	case errors.Is(err, decay.ErrCyclicAncestry):
		return OutcomeCyclic
	case errors.Is(err, edm.ErrEventNotFound), errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return OutcomeLoad
	default:
		return OutcomeOther
	}
}
