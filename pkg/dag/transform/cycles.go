package transform

import "github.com/matzehuels/nestlayout/pkg/dag"

// BreakCycles makes g acyclic by reversing every edge that points back to a
// node still on the depth-first search path. Roots are tried sources first,
// then the remaining nodes, both in insertion order, so a given graph
// always loses the same edges. Reversal keeps weight and minimum length and
// merges into an existing opposite edge.
//
// The search is iterative, so deep chains do not grow the goroutine stack.
// It returns the number of edges reversed.
func BreakCycles(g *dag.DAG) int {
	type frame struct {
		id   string
		next int
	}
	const (
		unseen = iota
		onPath
		done
	)

	state := make(map[string]uint8, g.NodeCount())
	var back [][2]string
	var stack []frame

	visit := func(root string) {
		if state[root] != unseen {
			return
		}
		state[root] = onPath
		stack = append(stack[:0], frame{id: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Children(top.id)
			if top.next == len(children) {
				state[top.id] = done
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch state[child] {
			case unseen:
				state[child] = onPath
				stack = append(stack, frame{id: child})
			case onPath:
				back = append(back, [2]string{top.id, child})
			}
		}
	}

	for _, n := range g.Sources() {
		visit(n.ID)
	}
	for _, n := range g.Nodes() {
		visit(n.ID)
	}

	for _, e := range back {
		g.ReverseEdge(e[0], e[1])
	}
	return len(back)
}
