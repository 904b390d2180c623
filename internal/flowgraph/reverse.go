package flowgraph

// Reverse builds the reversed graph used for post-dominance: every edge
// is flipped and a synthetic exit block becomes the new entry.
//
// The synthetic exit is connected (in the reversed orientation) to
// every block that had zero forward successors. If no such block
// exists, as in a function whose every path loops forever, it is
// connected to every block instead, so the post-dominator tree is never
// silently empty. The fallback is reported via ExitFallback.
//
// The input graph is not modified.
func Reverse(g *Graph) *Graph {
	n := g.Len()
	r := &Graph{
		Function:      g.Function,
		Blocks:        make([]Block, n+1),
		Entry:         n,
		Succs:         make([][]int, n+1),
		Preds:         make([][]int, n+1),
		SyntheticExit: n,
		index:         make(map[BlockID]int, n+1),
	}
	copy(r.Blocks, g.Blocks)
	r.Blocks[n] = Block{ID: SyntheticExitID, Label: syntheticExitLabel}
	for i := range r.Blocks {
		r.index[r.Blocks[i].ID] = i
	}

	// Flipped edges.
	for i := 0; i < n; i++ {
		r.Succs[i] = append([]int(nil), g.Preds[i]...)
		r.Preds[i] = append([]int(nil), g.Succs[i]...)
	}

	var exits []int
	for i := 0; i < n; i++ {
		if len(g.Succs[i]) == 0 {
			exits = append(exits, i)
		}
	}
	if len(exits) == 0 {
		r.ExitFallback = true
		for i := 0; i < n; i++ {
			exits = append(exits, i)
		}
	}
	for _, e := range exits {
		r.Succs[n] = append(r.Succs[n], e)
		r.Preds[e] = append(r.Preds[e], n)
	}

	return r
}
