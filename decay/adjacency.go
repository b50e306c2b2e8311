// SPDX-License-Identifier: MIT

package decay

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/decaytree/edm"
)

// Adjacency is an immutable parent/child structure over the local indices
// of one particle collection. Absent nodes (collapsed away) keep their slot
// but carry no edges.
type Adjacency struct {
	present  []bool
	children [][]int
	parents  [][]int
	roots    []int
	order    []int // topological: every parent before its children
	edges    int
	multi    int // nodes with more than one parent
}

// Build expands the Parents and Daughters ranges of particles into an
// Adjacency. Both encodings contribute edges; an edge stated on both sides
// is stored once.
//
// Build fails with ErrMalformedRange if any range leaves [0, len(particles))
// and with ErrCyclicAncestry if a particle is reachable from itself. On
// failure no Adjacency is returned.
func Build(particles []edm.Particle, opts ...Option) (*Adjacency, error) {
	o := resolveOptions(opts)
	n := len(particles)

	// 1) Eager bounds validation before touching any edge.
	for i := range particles {
		p := &particles[i]
		if !p.Daughters.Within(n) {
			return nil, fmt.Errorf("%w: particle %d daughters [%d,%d) outside [0,%d)",
				ErrMalformedRange, i, p.Daughters.Begin, p.Daughters.End, n)
		}
		if !p.Parents.Within(n) {
			return nil, fmt.Errorf("%w: particle %d parents [%d,%d) outside [0,%d)",
				ErrMalformedRange, i, p.Parents.Begin, p.Parents.End, n)
		}
	}

	// 2) Union of both encodings.
	children := make([][]int, n)
	parents := make([][]int, n)
	for i := range particles {
		p := &particles[i]
		for c := p.Daughters.Begin; c < p.Daughters.End; c++ {
			children[i] = append(children[i], c)
			parents[c] = append(parents[c], i)
		}
		for q := p.Parents.Begin; q < p.Parents.End; q++ {
			children[q] = append(children[q], i)
			parents[i] = append(parents[i], q)
		}
	}
	present := make([]bool, n)
	for i := range present {
		present[i] = true
		children[i] = sortedSet(children[i])
		parents[i] = sortedSet(parents[i])
	}

	adj, err := newAdjacency(present, children, parents)
	if err != nil {
		return nil, err
	}
	o.Logger.Debug("decay graph built",
		"particles", n,
		"edges", adj.edges,
		"roots", len(adj.roots),
		"multi_parent", adj.multi)
	return adj, nil
}

// newAdjacency validates acyclicity and derives roots, order and counts.
// children and parents must already be sorted sets.
func newAdjacency(present []bool, children, parents [][]int) (*Adjacency, error) {
	order, err := topoOrder(present, children)
	if err != nil {
		return nil, err
	}
	adj := &Adjacency{
		present:  present,
		children: children,
		parents:  parents,
		order:    order,
	}
	for i, ok := range present {
		if !ok {
			continue
		}
		adj.edges += len(children[i])
		switch len(parents[i]) {
		case 0:
			adj.roots = append(adj.roots, i)
		case 1:
		default:
			adj.multi++
		}
	}
	return adj, nil
}

// Len returns the size of the underlying particle collection, including
// absent nodes.
func (a *Adjacency) Len() int { return len(a.present) }

// Count returns the number of present nodes.
func (a *Adjacency) Count() int { return len(a.order) }

// Edges returns the number of parent→child edges.
func (a *Adjacency) Edges() int { return a.edges }

// MultiParent returns the number of present nodes with more than one parent.
func (a *Adjacency) MultiParent() int { return a.multi }

// Contains reports whether local index i is a present node.
func (a *Adjacency) Contains(i int) bool {
	return i >= 0 && i < len(a.present) && a.present[i]
}

// Children returns a copy of the sorted child list of i.
func (a *Adjacency) Children(i int) []int {
	if !a.Contains(i) {
		return nil
	}
	return slices.Clone(a.children[i])
}

// Parents returns a copy of the sorted parent list of i.
func (a *Adjacency) Parents(i int) []int {
	if !a.Contains(i) {
		return nil
	}
	return slices.Clone(a.parents[i])
}

// Roots returns a copy of the parentless present nodes, ascending.
func (a *Adjacency) Roots() []int { return slices.Clone(a.roots) }

// Order returns a copy of the present nodes in topological order.
func (a *Adjacency) Order() []int { return slices.Clone(a.order) }

// Equal reports whether a and b have the same present nodes and edges.
func (a *Adjacency) Equal(b *Adjacency) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !slices.Equal(a.present, b.present) {
		return false
	}
	for i := range a.children {
		if !slices.Equal(a.children[i], b.children[i]) || !slices.Equal(a.parents[i], b.parents[i]) {
			return false
		}
	}
	return true
}

// sortedSet sorts s in place and drops duplicates.
func sortedSet(s []int) []int {
	if len(s) < 2 {
		return s
	}
	slices.Sort(s)
	return slices.Compact(s)
}
