package domtree

import (
	"sort"

	"github.com/mpyw/cfgdom/internal/flowgraph"
)

// Frontier maps each arena index to its sorted dominance-frontier
// member indices. Computed once per analysis call and read-only
// afterwards.
type Frontier [][]int

// ComputeFrontier derives the dominance frontier of every block from
// the tree and the graph's edge set, using the walk-up formulation from
// Cytron et al.: for each merge point B (two or more predecessors),
// walk each predecessor's immediate-dominator chain up to, exclusive
// of, idom(B), adding B to the frontier of every block visited.
//
// Over a reversed graph with the post-dominator tree this yields the
// post-dominance frontier; no separate algorithm exists.
func ComputeFrontier(g *flowgraph.Graph, t *Tree) Frontier {
	n := g.Len()
	sets := make([]map[int]struct{}, n)

	for b := 0; b < n; b++ {
		if !t.Covers(b) || len(g.Preds[b]) < 2 {
			continue
		}
		idom := t.Parent[b]
		for _, p := range g.Preds[b] {
			if !t.Covers(p) {
				continue
			}
			for runner := p; runner != idom; {
				if sets[runner] == nil {
					sets[runner] = make(map[int]struct{})
				}
				sets[runner][b] = struct{}{}
				if runner == t.Root {
					break
				}
				runner = t.Parent[runner]
			}
		}
	}

	f := make(Frontier, n)
	for i, set := range sets {
		if len(set) == 0 {
			continue
		}
		members := make([]int, 0, len(set))
		for m := range set {
			members = append(members, m)
		}
		sort.Ints(members)
		f[i] = members
	}
	return f
}

// Iterated computes the iterated dominance frontier of a seed set:
// the closure of the frontier relation over a growing worklist, the
// standard SSA phi-placement site computation. An empty seed set yields
// an empty result. Termination is guaranteed because the block universe
// is finite and the result only grows.
func (f Frontier) Iterated(seeds []int) []int {
	inResult := make([]bool, len(f))
	queued := make([]bool, len(f))
	worklist := make([]int, 0, len(seeds))
	for _, s := range seeds {
		if !queued[s] {
			queued[s] = true
			worklist = append(worklist, s)
		}
	}

	var result []int
	for len(worklist) > 0 {
		b := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, m := range f[b] {
			if inResult[m] {
				continue
			}
			inResult[m] = true
			result = append(result, m)
			if !queued[m] {
				queued[m] = true
				worklist = append(worklist, m)
			}
		}
	}
	sort.Ints(result)
	return result
}
