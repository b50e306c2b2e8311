// SPDX-License-Identifier: MIT

package decay

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/katalvlaran/decaytree/edm"
	"github.com/katalvlaran/decaytree/ident"
)

// State describes which snapshot a Handler currently serves.
type State struct {
	Collapsed bool
	Threshold float64
}

// String renders the state as "Raw" or "Collapsed(<threshold>)".
func (s State) String() string {
	if !s.Collapsed {
		return "Raw"
	}
	return fmt.Sprintf("Collapsed(%g)", s.Threshold)
}

// Handler owns the decay graph of one loaded event: the original View,
// built once, and the current View, replaced wholesale by
// ProcessDecayTree. Queries read the current View.
type Handler struct {
	mu       sync.RWMutex
	res      *ident.Resolver
	energy   []float64
	original *View
	current  *View
	log      *slog.Logger
}

// NewHandler builds the decay graph of particles. res must have been
// created for the same event. Structural errors (ErrMalformedRange,
// ErrCyclicAncestry) abort construction; no Handler is returned.
func NewHandler(res *ident.Resolver, particles []edm.Particle, opts ...Option) (*Handler, error) {
	if res == nil || res.Size(edm.Particles) != len(particles) {
		return nil, ErrResolverMismatch
	}
	o := resolveOptions(opts)
	adj, err := Build(particles, opts...)
	if err != nil {
		return nil, err
	}
	energy := make([]float64, len(particles))
	for i := range particles {
		energy[i] = particles[i].E()
	}
	v := rawView(res, adj)
	return &Handler{
		res:      res,
		energy:   energy,
		original: v,
		current:  v,
		log:      o.Logger,
	}, nil
}

// State reports the current state.
func (h *Handler) State() State {
	v := h.View()
	return State{Collapsed: v.collapsed, Threshold: v.threshold}
}

// View returns the current snapshot.
func (h *Handler) View() *View {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Original returns the raw snapshot built at construction.
func (h *Handler) Original() *View { return h.original }

// Ancestors queries the current snapshot; see View.Ancestors.
func (h *Handler) Ancestors(id ident.ID) ([]ident.ID, error) {
	return h.View().Ancestors(id)
}

// Descendants queries the current snapshot; see View.Descendants.
func (h *Handler) Descendants(id ident.ID) ([]ident.ID, error) {
	return h.View().Descendants(id)
}

// ProcessDecayTree collapses every non-root particle with energy below
// threshold and makes the result the current snapshot. The collapse is
// always computed from the original graph, so the outcome depends only on
// threshold; repeating a call with the current threshold returns the
// current snapshot unchanged.
func (h *Handler) ProcessDecayTree(threshold float64) (*View, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current.collapsed && h.current.threshold == threshold {
		return h.current, nil
	}
	c, err := collapse(h.original.adj, h.energyOf, threshold)
	if err != nil {
		return nil, err
	}
	h.current = collapsedView(h.res, c, threshold)
	h.log.Debug("decay tree collapsed",
		"threshold", threshold,
		"collapsed", c.removed,
		"survivors", c.adj.Count())
	return h.current, nil
}

func (h *Handler) energyOf(i int) float64 { return h.energy[i] }
