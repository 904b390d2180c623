// Package domtree computes dominator trees, dominance frontiers, and
// iterated dominance frontiers over a flowgraph.Graph.
//
// The engine is direction-agnostic: post-dominance is the same
// computation over flowgraph.Reverse(g), with the synthetic exit as the
// tree root. All results are plain value structures, created fresh per
// call and read-only afterwards.
package domtree

import "github.com/mpyw/cfgdom/internal/flowgraph"

// DefaultMaxIterations caps convergence passes of the fixed-point loop.
// Reverse-postorder ordering converges in a small constant number of
// passes on reducible graphs; the cap guards pathological inputs.
const DefaultMaxIterations = 100

// Tree is a dominator (or post-dominator) tree over a graph's arena.
//
// All slices are parallel to the graph's block arena. Blocks not
// reachable from the tree root in the traversal direction have
// Parent == -1 and do not appear in Children or the postorder.
type Tree struct {
	// Root is the arena index of the tree root: the entry block, or
	// the synthetic exit for a reversed graph.
	Root int

	// Parent[i] is the immediate dominator of block i. The root maps
	// to itself by convention; uncovered blocks map to -1.
	Parent []int

	// Children[i] lists the blocks immediately dominated by block i,
	// in arena order.
	Children [][]int

	// Depth[i] is the depth of block i in the tree; the root has
	// depth 0. Uncovered blocks have depth -1.
	Depth []int

	// Iterations is the number of fixed-point passes performed.
	Iterations int

	// Converged reports whether the fixed point was reached before
	// the iteration cap.
	Converged bool

	postIndex []int // arena index -> postorder number, -1 if uncovered
}

// Covers reports whether block i is part of the tree, i.e. reachable
// from the root in the traversal direction.
func (t *Tree) Covers(i int) bool { return i == t.Root || t.Parent[i] >= 0 }

// Compute builds the dominator tree of g rooted at g.Entry using the
// iterative dataflow algorithm: every block's dominator set starts
// unconstrained and shrinks monotonically under intersection over
// processed predecessors, in reverse postorder, until a fixed point.
// Dominator sets are represented implicitly by immediate-dominator
// chains, with intersection walking postorder numbers (Cooper, Harvey,
// Kennedy, "A Simple, Fast Dominance Algorithm").
//
// maxIter caps the number of passes; values < 1 fall back to
// DefaultMaxIterations.
func Compute(g *flowgraph.Graph, maxIter int) *Tree {
	if maxIter < 1 {
		maxIter = DefaultMaxIterations
	}
	n := g.Len()

	t := &Tree{
		Root:      g.Entry,
		Parent:    make([]int, n),
		Children:  make([][]int, n),
		Depth:     make([]int, n),
		postIndex: make([]int, n),
	}
	for i := range t.Parent {
		t.Parent[i] = -1
		t.Depth[i] = -1
		t.postIndex[i] = -1
	}

	post := postorder(g)
	for num, b := range post {
		t.postIndex[b] = num
	}

	idom := t.Parent
	idom[g.Entry] = g.Entry

	changed := true
	for changed && t.Iterations < maxIter {
		changed = false
		t.Iterations++

		// Reverse postorder, skipping the root.
		for i := len(post) - 1; i >= 0; i-- {
			b := post[i]
			if b == g.Entry {
				continue
			}

			// First processed predecessor seeds the intersection.
			newIdom := -1
			for _, p := range g.Preds[b] {
				if idom[p] < 0 {
					continue
				}
				if newIdom < 0 {
					newIdom = p
				} else {
					newIdom = t.intersect(p, newIdom)
				}
			}
			if newIdom < 0 {
				continue
			}
			if idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	t.Converged = !changed

	for _, b := range post {
		if b == t.Root {
			continue
		}
		if p := idom[b]; p >= 0 {
			t.Children[p] = append(t.Children[p], b)
		}
	}

	// Depths in reverse postorder so parents are numbered first.
	t.Depth[t.Root] = 0
	for i := len(post) - 1; i >= 0; i-- {
		b := post[i]
		if b == t.Root {
			continue
		}
		if p := idom[b]; p >= 0 && t.Depth[p] >= 0 {
			t.Depth[b] = t.Depth[p] + 1
		}
	}

	return t
}

// intersect returns the nearest common ancestor of b1 and b2 in the
// partially built tree. Blocks closer to the root have higher
// postorder numbers.
func (t *Tree) intersect(b1, b2 int) int {
	for b1 != b2 {
		for t.postIndex[b1] < t.postIndex[b2] {
			b1 = t.Parent[b1]
		}
		for t.postIndex[b2] < t.postIndex[b1] {
			b2 = t.Parent[b2]
		}
	}
	return b1
}

// Dominates reports whether a dominates b. Every block dominates
// itself. Returns false if either block is not covered by the tree.
func (t *Tree) Dominates(a, b int) bool {
	if !t.Covers(a) || !t.Covers(b) {
		return false
	}
	if a == b {
		return true
	}
	for b != t.Root {
		b = t.Parent[b]
		if b == a {
			return true
		}
	}
	return a == t.Root
}

// StrictChain returns the strict dominators of b, nearest first,
// ending with the root. The root itself has an empty chain. Returns
// nil for uncovered blocks.
func (t *Tree) StrictChain(b int) []int {
	if !t.Covers(b) || b == t.Root {
		return nil
	}
	var chain []int
	for b != t.Root {
		b = t.Parent[b]
		chain = append(chain, b)
	}
	return chain
}

// postorder returns the arena indices reachable from g.Entry in DFS
// postorder, using an explicit stack.
func postorder(g *flowgraph.Graph) []int {
	n := g.Len()
	visited := make([]bool, n)
	post := make([]int, 0, n)

	type frame struct {
		block int
		next  int
	}
	stack := []frame{{block: g.Entry}}
	visited[g.Entry] = true

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next < len(g.Succs[f.block]) {
			s := g.Succs[f.block][f.next]
			f.next++
			if !visited[s] {
				visited[s] = true
				stack = append(stack, frame{block: s})
			}
			continue
		}
		post = append(post, f.block)
		stack = stack[:len(stack)-1]
	}
	return post
}
