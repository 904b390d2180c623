package flowgraph

// containsID reports whether ids contains id.
func containsID(ids []BlockID, id BlockID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// Build normalizes a provider snapshot into a Graph.
//
// The snapshot is validated before any algorithm runs: the function
// must have at least one block, the entry must exist, every edge must
// reference a known block, and every successor edge must be mirrored by
// the matching predecessor edge (and vice versa). Any violation returns
// a *MalformedProviderDataError, except the zero-block case which
// returns a *EmptyFunctionError.
//
// Blocks unreachable from the entry are excluded from the arena and
// recorded in Graph.Dropped; the caller reports them as a warning.
func Build(function string, fg FunctionGraph) (*Graph, error) {
	if len(fg.Blocks) == 0 {
		return nil, &EmptyFunctionError{Function: function}
	}

	index := make(map[BlockID]int, len(fg.Blocks))
	for i, b := range fg.Blocks {
		if _, dup := index[b.ID]; dup {
			return nil, &MalformedProviderDataError{
				Function: function,
				From:     b.ID,
				To:       b.ID,
				Reason:   "duplicate block identifier",
			}
		}
		index[b.ID] = i
	}

	if _, ok := index[fg.Entry]; !ok {
		return nil, &MalformedProviderDataError{
			Function: function,
			Reason:   "entry block not present in block set",
		}
	}

	// Both edge lists must agree before either is trusted.
	for _, b := range fg.Blocks {
		for _, s := range b.Succs {
			j, ok := index[s]
			if !ok {
				return nil, &MalformedProviderDataError{
					Function: function, From: b.ID, To: s,
					Reason: "successor references unknown block",
				}
			}
			if !containsID(fg.Blocks[j].Preds, b.ID) {
				return nil, &MalformedProviderDataError{
					Function: function, From: b.ID, To: s,
					Reason: "successor edge not mirrored in predecessor list",
				}
			}
		}
		for _, p := range b.Preds {
			j, ok := index[p]
			if !ok {
				return nil, &MalformedProviderDataError{
					Function: function, From: p, To: b.ID,
					Reason: "predecessor references unknown block",
				}
			}
			if !containsID(fg.Blocks[j].Succs, b.ID) {
				return nil, &MalformedProviderDataError{
					Function: function, From: p, To: b.ID,
					Reason: "predecessor edge not mirrored in successor list",
				}
			}
		}
	}

	// Forward reachability from the entry. Dominance is undefined for
	// unreachable blocks, so they are pruned from the arena.
	reachable := make([]bool, len(fg.Blocks))
	stack := []int{index[fg.Entry]}
	reachable[index[fg.Entry]] = true
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range fg.Blocks[i].Succs {
			j := index[s]
			if !reachable[j] {
				reachable[j] = true
				stack = append(stack, j)
			}
		}
	}

	var dropped []BlockID
	remap := make([]int, len(fg.Blocks))
	n := 0
	for i, b := range fg.Blocks {
		if reachable[i] {
			remap[i] = n
			n++
		} else {
			remap[i] = -1
			dropped = append(dropped, b.ID)
		}
	}

	g := &Graph{
		Function:      function,
		Blocks:        make([]Block, 0, n),
		Succs:         make([][]int, n),
		Preds:         make([][]int, n),
		Dropped:       dropped,
		SyntheticExit: -1,
		index:         make(map[BlockID]int, n),
	}
	for i, b := range fg.Blocks {
		if remap[i] < 0 {
			continue
		}
		g.index[b.ID] = len(g.Blocks)
		g.Blocks = append(g.Blocks, Block{ID: b.ID, Label: b.Label})
		for _, s := range b.Succs {
			if j := remap[index[s]]; j >= 0 {
				g.Succs[remap[i]] = append(g.Succs[remap[i]], j)
			}
		}
		for _, p := range b.Preds {
			// Edges from pruned blocks are pruned with them.
			if j := remap[index[p]]; j >= 0 {
				g.Preds[remap[i]] = append(g.Preds[remap[i]], j)
			}
		}
	}
	g.Entry = g.index[fg.Entry]

	return g, nil
}
