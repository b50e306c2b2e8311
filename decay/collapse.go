// SPDX-License-Identifier: MIT

package decay

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// reach is a surviving ancestor together with its distance (in original
// edges) from the collapsed node that recorded it.
type reach struct {
	node int
	dist int
}

// collapsed is the full outcome of one collapse pass.
type collapsed struct {
	adj *Adjacency
	// rep maps every local index to the node its hits belong to: itself if
	// it survived, otherwise its nearest surviving ancestor. Absent input
	// nodes map to -1.
	rep []int
	// up lists, for every removed node, its nearest surviving ancestors
	// ordered by (distance, index).
	up      [][]reach
	removed int
}

// ValidateThreshold returns ErrInvalidThreshold for negative, NaN or
// infinite thresholds.
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, t)
	}
	return nil
}

// Collapse removes every non-root node of adj whose energy is below
// threshold and re-links the children of removed nodes to their nearest
// surviving ancestors. energy is called with local indices of present
// nodes only.
//
// Collapse is pure: adj is not modified. Applied to its own output with the
// same threshold it returns an equal Adjacency, because every remaining
// node is a root or has energy >= threshold.
func Collapse(adj *Adjacency, energy func(int) float64, threshold float64) (*Adjacency, error) {
	res, err := collapse(adj, energy, threshold)
	if err != nil {
		return nil, err
	}
	return res.adj, nil
}

func collapse(adj *Adjacency, energy func(int) float64, threshold float64) (*collapsed, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	n := adj.Len()

	// 1) Survival: roots always, others iff E >= threshold.
	survive := make([]bool, n)
	for _, i := range adj.order {
		survive[i] = len(adj.parents[i]) == 0 || energy(i) >= threshold
	}

	// 2) Nearest surviving ancestors of removed nodes, top-down so that a
	//    removed parent is always resolved before its children.
	up := make([][]reach, n)
	removed := 0
	for _, i := range adj.order {
		if survive[i] {
			continue
		}
		removed++
		var acc []reach
		for _, p := range adj.parents[i] {
			if survive[p] {
				acc = append(acc, reach{node: p, dist: 1})
				continue
			}
			for _, r := range up[p] {
				acc = append(acc, reach{node: r.node, dist: r.dist + 1})
			}
		}
		up[i] = nearest(acc)
	}

	// 3) Re-link survivors. Iterating i ascending keeps children sorted.
	parents := make([][]int, n)
	children := make([][]int, n)
	for i := 0; i < n; i++ {
		if !survive[i] {
			continue
		}
		var ps []int
		for _, p := range adj.parents[i] {
			if survive[p] {
				ps = append(ps, p)
				continue
			}
			for _, r := range up[p] {
				ps = append(ps, r.node)
			}
		}
		ps = sortedSet(ps)
		parents[i] = ps
		for _, p := range ps {
			children[p] = append(children[p], i)
		}
	}

	out, err := newAdjacency(survive, children, parents)
	if err != nil {
		// unreachable for an acyclic input: re-linking only shortcuts
		// existing ancestor paths
		return nil, err
	}

	rep := make([]int, n)
	for i := range rep {
		switch {
		case survive[i]:
			rep[i] = i
		case adj.Contains(i):
			rep[i] = up[i][0].node
		default:
			rep[i] = -1
		}
	}
	return &collapsed{adj: out, rep: rep, up: up, removed: removed}, nil
}

// nearest keeps the smallest distance per node and orders the result by
// (distance, node).
func nearest(acc []reach) []reach {
	slices.SortFunc(acc, func(a, b reach) int {
		if c := cmp.Compare(a.node, b.node); c != 0 {
			return c
		}
		return cmp.Compare(a.dist, b.dist)
	})
	acc = slices.CompactFunc(acc, func(a, b reach) bool { return a.node == b.node })
	slices.SortFunc(acc, func(a, b reach) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return cmp.Compare(a.node, b.node)
	})
	return acc
}
