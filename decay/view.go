// SPDX-License-Identifier: MIT

package decay

import (
	"fmt"

	"github.com/katalvlaran/decaytree/edm"
	"github.com/katalvlaran/decaytree/ident"
)

// View is an immutable, id-addressed snapshot of the decay forest: either
// the raw graph or the result of collapsing it at one threshold.
type View struct {
	res       *ident.Resolver
	adj       *Adjacency
	rep       []int
	up        [][]reach
	collapsed bool
	threshold float64
	removed   int
}

func rawView(res *ident.Resolver, adj *Adjacency) *View {
	rep := make([]int, adj.Len())
	for i := range rep {
		rep[i] = i
	}
	return &View{res: res, adj: adj, rep: rep}
}

func collapsedView(res *ident.Resolver, c *collapsed, threshold float64) *View {
	return &View{
		res:       res,
		adj:       c.adj,
		rep:       c.rep,
		up:        c.up,
		collapsed: true,
		threshold: threshold,
		removed:   c.removed,
	}
}

// Collapsed reports whether v is the result of a collapse pass.
func (v *View) Collapsed() bool { return v.collapsed }

// Threshold returns the collapse threshold, or 0 for a raw view.
func (v *View) Threshold() float64 { return v.threshold }

// Removed returns the number of particles collapsed away.
func (v *View) Removed() int { return v.removed }

// Len returns the number of particles present in v.
func (v *View) Len() int { return v.adj.Count() }

// Adjacency exposes the underlying immutable structure.
func (v *View) Adjacency() *Adjacency { return v.adj }

// Resolver returns the resolver ids in v are issued by.
func (v *View) Resolver() *ident.Resolver { return v.res }

// Contains reports whether id names a particle present in v.
func (v *View) Contains(id ident.ID) bool {
	_, err := v.local(id)
	return err == nil
}

// local resolves id to the local index of a particle present in v.
func (v *View) local(id ident.ID) (int, error) {
	i, err := v.res.Expect(id, edm.Particles)
	if err != nil {
		return 0, err
	}
	if !v.adj.Contains(i) {
		return 0, fmt.Errorf("%w: %v collapsed at threshold %v", ident.ErrUnknownIdentifier, id, v.threshold)
	}
	return i, nil
}

func (v *View) ids(locals []int) []ident.ID {
	out := make([]ident.ID, len(locals))
	for k, i := range locals {
		out[k] = v.res.MustResolve(edm.Particles, i)
	}
	return out
}

// Ancestors returns the ancestors of id, nearest-first, ending at roots.
// A root yields an empty, non-nil slice.
func (v *View) Ancestors(id ident.ID) ([]ident.ID, error) {
	i, err := v.local(id)
	if err != nil {
		return nil, err
	}
	return v.ids(v.adj.ancestors(i)), nil
}

// Descendants returns every particle reachable from id through child
// edges, excluding id, in ascending order. A leaf yields an empty, non-nil
// slice.
func (v *View) Descendants(id ident.ID) ([]ident.ID, error) {
	i, err := v.local(id)
	if err != nil {
		return nil, err
	}
	return v.ids(v.adj.descendants(i)), nil
}

// Parents returns the direct parents of id in v.
func (v *View) Parents(id ident.ID) ([]ident.ID, error) {
	i, err := v.local(id)
	if err != nil {
		return nil, err
	}
	return v.ids(v.adj.parents[i]), nil
}

// Children returns the direct children of id in v.
func (v *View) Children(id ident.ID) ([]ident.ID, error) {
	i, err := v.local(id)
	if err != nil {
		return nil, err
	}
	return v.ids(v.adj.children[i]), nil
}

// Roots returns the parentless particles of v, ascending.
func (v *View) Roots() []ident.ID { return v.ids(v.adj.roots) }

// Leaves returns the childless particles of v, ascending.
func (v *View) Leaves() []ident.ID {
	var out []int
	for i := 0; i < v.adj.Len(); i++ {
		if v.adj.Contains(i) && len(v.adj.children[i]) == 0 {
			out = append(out, i)
		}
	}
	return v.ids(out)
}

// Survivors returns every particle present in v, ascending.
func (v *View) Survivors() []ident.ID {
	out := make([]int, 0, v.adj.Count())
	for i := 0; i < v.adj.Len(); i++ {
		if v.adj.Contains(i) {
			out = append(out, i)
		}
	}
	return v.ids(out)
}

// IsCollapsed reports whether particle id was removed from v. Unlike the
// traversal queries it accepts any particle of the event.
func (v *View) IsCollapsed(id ident.ID) (bool, error) {
	i, err := v.res.Expect(id, edm.Particles)
	if err != nil {
		return false, err
	}
	return !v.adj.Contains(i), nil
}

// Representative returns the particle of v that stands for id: id itself
// if present, otherwise its nearest surviving ancestor. Hits and
// contributions are attributed through this mapping.
func (v *View) Representative(id ident.ID) (ident.ID, error) {
	i, err := v.res.Expect(id, edm.Particles)
	if err != nil {
		return 0, err
	}
	r := v.rep[i]
	if r < 0 {
		return 0, fmt.Errorf("%w: %v has no representative", ident.ErrUnknownIdentifier, id)
	}
	return v.res.MustResolve(edm.Particles, r), nil
}

// EffectiveParents returns the parents id has in v. For a collapsed
// particle it returns the surviving ancestors its children were re-linked
// to, nearest first.
func (v *View) EffectiveParents(id ident.ID) ([]ident.ID, error) {
	i, err := v.res.Expect(id, edm.Particles)
	if err != nil {
		return nil, err
	}
	if v.adj.Contains(i) {
		return v.ids(v.adj.parents[i]), nil
	}
	if v.up == nil || len(v.up[i]) == 0 {
		return nil, fmt.Errorf("%w: %v", ident.ErrUnknownIdentifier, id)
	}
	locals := make([]int, len(v.up[i]))
	for k, r := range v.up[i] {
		locals[k] = r.node
	}
	return v.ids(locals), nil
}
