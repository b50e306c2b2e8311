// SPDX-License-Identifier: MIT

package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/katalvlaran/decaytree/assoc"
	"github.com/katalvlaran/decaytree/decay"
	"github.com/katalvlaran/decaytree/edm"
	"github.com/katalvlaran/decaytree/ident"
)

// ErrNilSource indicates a nil edm.Source.
var ErrNilSource = errors.New("analysis: source is nil")

// snapshot pairs a view with the hit index built against it. Both are
// immutable; Event swaps them together.
type snapshot struct {
	view *decay.View
	hits *assoc.Index
}

// Event is the query surface over one loaded event. Reads run against the
// current snapshot and may proceed concurrently; ProcessDecayTree is the
// single writer and replaces the snapshot atomically.
type Event struct {
	raw     *edm.Event
	res     *ident.Resolver
	handler *decay.Handler
	log     *slog.Logger
	metrics *Metrics

	mu   sync.RWMutex
	snap snapshot
}

// New builds the resolver, decay graph and hit index of ev. Structural
// errors (decay.ErrMalformedRange, decay.ErrCyclicAncestry, dangling hit
// references) abort construction; no partially built Event is returned.
func New(ev *edm.Event, opts ...Option) (*Event, error) {
	if ev == nil {
		return nil, edm.ErrNilEvent
	}
	o := resolveOptions(opts)
	start := time.Now()

	res := ident.ForEvent(ev)
	h, err := decay.NewHandler(res, ev.Particles, decay.WithLogger(o.Logger))
	if err != nil {
		return nil, fmt.Errorf("analysis: event %d: %w", ev.Index, err)
	}
	view := h.View()
	hits, err := assoc.Build(ev, view)
	if err != nil {
		return nil, fmt.Errorf("analysis: event %d: %w", ev.Index, err)
	}
	o.Metrics.observeBuild(time.Since(start))

	return &Event{
		raw:     ev,
		res:     res,
		handler: h,
		log:     o.Logger.With("event", ev.Index),
		metrics: o.Metrics,
		snap:    snapshot{view: view, hits: hits},
	}, nil
}

// Load fetches event index from src and builds it.
func Load(ctx context.Context, src edm.Source, index int, opts ...Option) (*Event, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	ev, err := src.Event(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("analysis: load event %d: %w", index, err)
	}
	return New(ev, opts...)
}

func (e *Event) current() snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// Index returns the event index within its source.
func (e *Event) Index() int { return e.raw.Index }

// Raw returns the underlying records. They must not be modified.
func (e *Event) Raw() *edm.Event { return e.raw }

// Resolver returns the identifier resolver of this load.
func (e *Event) Resolver() *ident.Resolver { return e.res }

// Resolve maps (kind, local index) to its global id.
func (e *Event) Resolve(kind edm.Kind, local int) (ident.ID, error) {
	return e.res.Resolve(kind, local)
}

// Reverse maps a global id back to (kind, local index).
func (e *Event) Reverse(id ident.ID) (edm.Kind, int, error) {
	return e.res.Reverse(id)
}

// Particle returns the raw record of particle id. Collapsed particles are
// still addressable here.
func (e *Event) Particle(id ident.ID) (edm.Particle, error) {
	i, err := e.res.Expect(id, edm.Particles)
	if err != nil {
		return edm.Particle{}, err
	}
	return e.raw.Particles[i], nil
}

// State reports whether the event is raw or collapsed.
func (e *Event) State() decay.State {
	v := e.current().view
	return decay.State{Collapsed: v.Collapsed(), Threshold: v.Threshold()}
}

// View returns the current decay view.
func (e *Event) View() *decay.View { return e.current().view }

// Hits returns the hit index matching View.
func (e *Event) Hits() *assoc.Index { return e.current().hits }

// Ancestors returns the ancestors of id in the current view, nearest-first.
func (e *Event) Ancestors(id ident.ID) ([]ident.ID, error) {
	return e.current().view.Ancestors(id)
}

// Descendants returns the descendants of id in the current view.
func (e *Event) Descendants(id ident.ID) ([]ident.ID, error) {
	return e.current().view.Descendants(id)
}

// OriginatingParticle returns the particle hitID is attributed to in the
// current view.
func (e *Event) OriginatingParticle(hitID ident.ID) (ident.ID, error) {
	return e.current().hits.OriginatingParticle(hitID)
}

// HitsOf returns the kind records attributed to particleID in the current
// view.
func (e *Event) HitsOf(particleID ident.ID, kind edm.Kind) ([]ident.ID, error) {
	return e.current().hits.HitsOf(particleID, kind)
}

// DepositedEnergy returns the calorimeter energy attributed to particleID
// in the current view.
func (e *Event) DepositedEnergy(particleID ident.ID) (float64, error) {
	return e.current().hits.DepositedEnergy(particleID)
}

// ProcessDecayTree collapses the decay graph at threshold (always from the
// original graph) and rebuilds the hit index against the result. View and
// index are published together.
func (e *Event) ProcessDecayTree(threshold float64) (*decay.View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	view, err := e.handler.ProcessDecayTree(threshold)
	if err != nil {
		return nil, err
	}
	if view == e.snap.view {
		return view, nil
	}
	hits, err := assoc.Build(e.raw, view)
	if err != nil {
		return nil, fmt.Errorf("analysis: event %d: %w", e.raw.Index, err)
	}
	e.snap = snapshot{view: view, hits: hits}
	e.metrics.observeCollapsed(view.Removed())
	e.log.Debug("hit index rebuilt", "threshold", threshold, "survivors", view.Len())
	return view, nil
}

// Summary describes the current snapshot.
type Summary struct {
	Index         int
	State         decay.State
	Particles     int
	Survivors     int
	Roots         int
	Edges         int
	MultiParent   int
	TrackerHits   int
	CaloHits      int
	Contributions int
	Deposited     float64
}

// Summary reports counts for the current snapshot.
func (e *Event) Summary() Summary {
	s := e.current()
	adj := s.view.Adjacency()
	out := Summary{
		Index:         e.raw.Index,
		State:         decay.State{Collapsed: s.view.Collapsed(), Threshold: s.view.Threshold()},
		Particles:     adj.Len(),
		Survivors:     adj.Count(),
		Roots:         len(adj.Roots()),
		Edges:         adj.Edges(),
		MultiParent:   adj.MultiParent(),
		TrackerHits:   s.hits.Len(edm.TrackerHits),
		CaloHits:      s.hits.Len(edm.CaloHits),
		Contributions: s.hits.Len(edm.CaloContributions),
	}
	for _, c := range e.raw.CaloContributions {
		out.Deposited += float64(c.Energy)
	}
	return out
}
