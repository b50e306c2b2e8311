// Package assoc maps tracker hits, calorimeter hits and calorimeter
// contributions to the particle they are attributed to in a decay.View,
// and back.
//
// An Index is built from the raw originating-particle references of an
// event, resolved through the event's ident.Resolver and then through
// View.Representative. On a collapsed view every hit of a removed particle
// therefore lands on its nearest surviving ancestor, and HitsOf on that
// ancestor aggregates them. The index is never patched: a new view needs a
// new Index.
package assoc

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/decaytree/decay"
	"github.com/katalvlaran/decaytree/edm"
	"github.com/katalvlaran/decaytree/ident"
)

// Index is an immutable hit↔particle association for one view.
type Index struct {
	res  *ident.Resolver
	view *decay.View

	// origin[kind][hit] is the local index of the attributed particle.
	origin [edm.KindCount + 1][]int
	// hits[kind][particle] lists attributed hit local indices, ascending.
	hits [edm.KindCount + 1]map[int][]int

	// deposit[particle] sums calorimeter contribution energies.
	deposit map[int]float64
}

// Build resolves every hit and contribution of ev against view. It fails
// with ident.ErrUnknownIdentifier (wrapped) if a record references a
// particle outside the event.
func Build(ev *edm.Event, view *decay.View) (*Index, error) {
	if ev == nil {
		return nil, edm.ErrNilEvent
	}
	res := view.Resolver()
	ix := &Index{res: res, view: view, deposit: make(map[int]float64)}

	for _, kind := range edm.HitKinds {
		n := res.Size(kind)
		ix.origin[kind] = make([]int, n)
		ix.hits[kind] = make(map[int][]int)
		for h := 0; h < n; h++ {
			raw, _ := ev.OriginOf(kind, h)
			pid, err := res.Resolve(edm.Particles, raw)
			if err != nil {
				return nil, fmt.Errorf("assoc: %s %d: %w", kind, h, err)
			}
			rep, err := view.Representative(pid)
			if err != nil {
				return nil, fmt.Errorf("assoc: %s %d: %w", kind, h, err)
			}
			p := rep.Local()
			ix.origin[kind][h] = p
			// h ascends, so every per-particle list stays sorted
			ix.hits[kind][p] = append(ix.hits[kind][p], h)
		}
	}
	for h, c := range ev.CaloContributions {
		ix.deposit[ix.origin[edm.CaloContributions][h]] += float64(c.Energy)
	}
	return ix, nil
}

// View returns the view the index was built against.
func (ix *Index) View() *decay.View { return ix.view }

// Len returns the number of records of kind.
func (ix *Index) Len(kind edm.Kind) int {
	if !kind.Valid() {
		return 0
	}
	return len(ix.origin[kind])
}

// OriginatingParticle returns the particle hitID is attributed to in the
// index's view. hitID may be a tracker hit, calorimeter hit or calorimeter
// contribution id.
func (ix *Index) OriginatingParticle(hitID ident.ID) (ident.ID, error) {
	kind, h, err := ix.res.Reverse(hitID)
	if err != nil {
		return 0, err
	}
	if kind == edm.Particles {
		return 0, fmt.Errorf("%w: %v is a particle, not a hit", ident.ErrUnknownIdentifier, hitID)
	}
	return ix.res.MustResolve(edm.Particles, ix.origin[kind][h]), nil
}

// HitsOf returns the ids of the kind records attributed to particleID,
// ascending. particleID must be present in the view.
func (ix *Index) HitsOf(particleID ident.ID, kind edm.Kind) ([]ident.ID, error) {
	if kind == edm.Particles || !kind.Valid() {
		return nil, fmt.Errorf("%w: %s is not a hit collection", ident.ErrUnknownIdentifier, kind)
	}
	p, err := ix.particle(particleID)
	if err != nil {
		return nil, err
	}
	locals := ix.hits[kind][p]
	out := make([]ident.ID, len(locals))
	for k, h := range locals {
		out[k] = ix.res.MustResolve(kind, h)
	}
	return out, nil
}

// TrackerHitsOf is HitsOf(particleID, edm.TrackerHits).
func (ix *Index) TrackerHitsOf(particleID ident.ID) ([]ident.ID, error) {
	return ix.HitsOf(particleID, edm.TrackerHits)
}

// CaloHitsOf is HitsOf(particleID, edm.CaloHits).
func (ix *Index) CaloHitsOf(particleID ident.ID) ([]ident.ID, error) {
	return ix.HitsOf(particleID, edm.CaloHits)
}

// ContributionsOf is HitsOf(particleID, edm.CaloContributions).
func (ix *Index) ContributionsOf(particleID ident.ID) ([]ident.ID, error) {
	return ix.HitsOf(particleID, edm.CaloContributions)
}

// DepositedEnergy returns the summed energy of the calorimeter
// contributions attributed to particleID. Collapse moves deposits to the
// surviving ancestor, so the total over all survivors is unchanged.
func (ix *Index) DepositedEnergy(particleID ident.ID) (float64, error) {
	p, err := ix.particle(particleID)
	if err != nil {
		return 0, err
	}
	return ix.deposit[p], nil
}

// Attributed returns the particles that have at least one record of kind
// attributed to them, ascending.
func (ix *Index) Attributed(kind edm.Kind) []ident.ID {
	if !kind.Valid() {
		return nil
	}
	locals := make([]int, 0, len(ix.hits[kind]))
	for p := range ix.hits[kind] {
		locals = append(locals, p)
	}
	slices.Sort(locals)
	out := make([]ident.ID, len(locals))
	for k, p := range locals {
		out[k] = ix.res.MustResolve(edm.Particles, p)
	}
	return out
}

func (ix *Index) particle(id ident.ID) (int, error) {
	if !ix.view.Contains(id) {
		p, err := ix.res.Expect(id, edm.Particles)
		if err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: particle %d not present in view", ident.ErrUnknownIdentifier, p)
	}
	return id.Local(), nil
}
