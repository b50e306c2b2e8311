package decay

import "slices"

// walker performs a level-synchronous breadth-first expansion over one
// direction of an Adjacency (parents or children).
type walker struct {
	next    func(int) []int
	visited []bool
	order   []int
}

func newWalker(n int, next func(int) []int) *walker {
	return &walker{next: next, visited: make([]bool, n)}
}

// run expands from start, excluding start itself. Nodes are emitted
// nearest-first; each level is sorted ascending. Every reachable node is
// emitted exactly once.
func (w *walker) run(start int) []int {
	w.visited[start] = true
	frontier := []int{start}
	for len(frontier) > 0 {
		var level []int
		for _, cur := range frontier {
			for _, nb := range w.next(cur) {
				if w.visited[nb] {
					continue
				}
				w.visited[nb] = true
				level = append(level, nb)
			}
		}
		slices.Sort(level)
		w.order = append(w.order, level...)
		frontier = level
	}
	return w.order
}

// ancestors returns the ancestors of i, nearest-first.
func (a *Adjacency) ancestors(i int) []int {
	return newWalker(a.Len(), func(n int) []int { return a.parents[n] }).run(i)
}

// descendants returns the descendants of i in ascending order.
func (a *Adjacency) descendants(i int) []int {
	out := newWalker(a.Len(), func(n int) []int { return a.children[n] }).run(i)
	slices.Sort(out)
	return out
}
