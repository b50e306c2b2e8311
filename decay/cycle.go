package decay

import "fmt"

// Visitation colours for the acyclicity pass.
const (
	white = iota // not visited yet
	gray         // on the current DFS path
	black        // fully explored
)

// frame is one level of the explicit DFS stack.
type frame struct {
	node int
	next int // index of the next child to explore
}

// topoOrder runs an iterative three-colour depth-first search over the
// present nodes and returns them in reverse post-order (parents before
// children). Reaching a gray node means the node is its own ancestor and
// the pass fails with ErrCyclicAncestry.
//
// The explicit stack keeps long decay chains from growing the goroutine
// stack; each node is pushed at most once, so the pass is bounded by the
// collection size.
func topoOrder(present []bool, children [][]int) ([]int, error) {
	n := len(present)
	state := make([]uint8, n)
	post := make([]int, 0, n)
	stack := make([]frame, 0, 16)

	for start := 0; start < n; start++ {
		if !present[start] || state[start] != white {
			continue
		}
		state[start] = gray
		stack = append(stack, frame{node: start})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(children[top.node]) {
				c := children[top.node][top.next]
				top.next++
				switch state[c] {
				case white:
					state[c] = gray
					stack = append(stack, frame{node: c})
				case gray:
					return nil, fmt.Errorf("%w: particle %d reached again via %v",
						ErrCyclicAncestry, c, cyclePath(stack, c))
				}
				continue
			}
			state[top.node] = black
			post = append(post, top.node)
			stack = stack[:len(stack)-1]
		}
	}

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post, nil
}

// cyclePath extracts the closed path [c ... top c] from the DFS stack.
func cyclePath(stack []frame, c int) []int {
	idx := len(stack) - 1
	for idx > 0 && stack[idx].node != c {
		idx--
	}
	path := make([]int, 0, len(stack)-idx+1)
	for _, f := range stack[idx:] {
		path = append(path, f.node)
	}
	return append(path, c)
}
