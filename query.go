package cfgdom

import "fmt"

// =============================================================================
// Query Surface
//
// The six analysis views are one parameterized query over
// {View} x {Direction}, dispatched against the snapshot computed by
// Analyze. Every query is stateless and total given a valid snapshot;
// per-block queries on unknown blocks fail locally without touching
// the snapshot.
// =============================================================================

// Direction selects the forward (dominator) or reverse
// (post-dominator) structures of an Analysis.
type Direction int

const (
	// Forward queries the dominator tree and dominance frontier.
	Forward Direction = iota
	// Reverse queries the post-dominator tree and post-dominance
	// frontier, computed over the reversed graph with a synthetic
	// exit.
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// View selects which relation of the snapshot a query extracts.
type View int

const (
	// ViewTree extracts the entire tree as (parent, child) pairs.
	ViewTree View = iota
	// ViewTreeChildren extracts one block's immediate children in
	// the tree.
	ViewTreeChildren
	// ViewImmediate extracts one block's immediate dominator or
	// post-dominator.
	ViewImmediate
	// ViewStrictChain extracts the chain of strict dominators from a
	// block up to the tree root.
	ViewStrictChain
	// ViewFrontier extracts one block's dominance or post-dominance
	// frontier.
	ViewFrontier
	// ViewIteratedFrontier extracts the iterated frontier of a seed
	// set; with no explicit seeds the queried block is the seed.
	ViewIteratedFrontier
)

func (v View) String() string {
	switch v {
	case ViewTree:
		return "tree"
	case ViewTreeChildren:
		return "tree-children"
	case ViewImmediate:
		return "immediate"
	case ViewStrictChain:
		return "strict-chain"
	case ViewFrontier:
		return "frontier"
	case ViewIteratedFrontier:
		return "iterated-frontier"
	}
	return "unknown"
}

// EdgeKind classifies a relation edge for rendering.
type EdgeKind int

const (
	// EdgeIdom is a dominator-tree edge (parent dominates child).
	EdgeIdom EdgeKind = iota
	// EdgeIpdom is a post-dominator-tree edge.
	EdgeIpdom
	// EdgeFrontier links a block to a dominance-frontier member.
	EdgeFrontier
	// EdgePostFrontier links a block to a post-dominance-frontier
	// member.
	EdgePostFrontier
	// EdgeIterated links a seed to an iterated-frontier member.
	EdgeIterated
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeIdom:
		return "idom"
	case EdgeIpdom:
		return "ipdom"
	case EdgeFrontier:
		return "frontier"
	case EdgePostFrontier:
		return "post frontier"
	case EdgeIterated:
		return "IDF"
	}
	return "unknown"
}

// treeKind and frontierKind pick the edge kind for a direction.
func treeKind(dir Direction) EdgeKind {
	if dir == Reverse {
		return EdgeIpdom
	}
	return EdgeIdom
}

func frontierKind(dir Direction) EdgeKind {
	if dir == Reverse {
		return EdgePostFrontier
	}
	return EdgeFrontier
}

// Node is one labeled block in a relation list.
type Node struct {
	ID    BlockID
	Label string
}

// Edge is one directed relation between two blocks.
type Edge struct {
	From BlockID
	To   BlockID
	Kind EdgeKind
}

// Relations is the renderer-facing result of one query: a labeled node
// set, a directed edge set, and (for tree views) the tree root.
type Relations struct {
	Function string
	View     View
	Dir      Direction

	// Root is the tree root for ViewTree; HasRoot reports whether it
	// is meaningful for this view.
	Root    BlockID
	HasRoot bool

	Nodes []Node
	Edges []Edge
}

// Request describes one query against an Analysis snapshot.
type Request struct {
	View View
	Dir  Direction

	// Block is the inspected block for per-block views; ViewTree
	// ignores it.
	Block BlockID

	// Seeds is the seed set for ViewIteratedFrontier. nil defaults to
	// {Block}; an explicitly empty, non-nil slice is the valid
	// degenerate query with an empty result.
	Seeds []BlockID
}

// Query extracts one view of the snapshot as a relation list. It never
// mutates the snapshot; failed queries leave all other views usable.
func (a *Analysis) Query(req Request) (*Relations, error) {
	switch req.View {
	case ViewTree:
		return a.treeRelations(req.Dir), nil
	case ViewTreeChildren:
		return a.treeChildrenRelations(req.Dir, req.Block)
	case ViewImmediate:
		return a.immediateRelations(req.Dir, req.Block)
	case ViewStrictChain:
		return a.strictChainRelations(req.Dir, req.Block)
	case ViewFrontier:
		return a.frontierRelations(req.Dir, req.Block)
	case ViewIteratedFrontier:
		return a.iteratedRelations(req.Dir, req.Block, req.Seeds)
	}
	return nil, fmt.Errorf("cfgdom: unknown view %d", int(req.View))
}

// DominatorTree returns the full dominator tree as (parent, child)
// pairs rooted at the entry block.
func (a *Analysis) DominatorTree() *Relations {
	return a.treeRelations(Forward)
}

// PostDominatorTree returns the full post-dominator tree as
// (parent, child) pairs rooted at the synthetic exit.
func (a *Analysis) PostDominatorTree() *Relations {
	return a.treeRelations(Reverse)
}

// ImmediateRelations returns the (block, immediate dominator) pair for
// every block covered by the chosen tree, the whole-graph form of
// ViewImmediate. The root contributes a node but no edge.
func (a *Analysis) ImmediateRelations(dir Direction) *Relations {
	g, t, _ := a.graphFor(dir)
	r := &Relations{
		Function: a.Function,
		View:     ViewImmediate,
		Dir:      dir,
		Root:     g.ID(t.Root),
		HasRoot:  true,
	}
	kind := treeKind(dir)
	for i := 0; i < g.Len(); i++ {
		if !t.Covers(i) {
			continue
		}
		r.Nodes = append(r.Nodes, Node{ID: g.ID(i), Label: g.Label(i)})
		if i != t.Root {
			r.Edges = append(r.Edges, Edge{From: g.ID(t.Parent[i]), To: g.ID(i), Kind: kind})
		}
	}
	return r
}

func (a *Analysis) treeRelations(dir Direction) *Relations {
	// The immediate relation over all blocks is exactly the tree's
	// (parent, child) pair list; only the view tag differs.
	r := a.ImmediateRelations(dir)
	r.View = ViewTree
	return r
}

func (a *Analysis) treeChildrenRelations(dir Direction, b BlockID) (*Relations, error) {
	g, t, _ := a.graphFor(dir)
	i, err := a.index(dir, b)
	if err != nil {
		return nil, err
	}
	r := &Relations{Function: a.Function, View: ViewTreeChildren, Dir: dir}
	r.Nodes = append(r.Nodes, Node{ID: b, Label: g.Label(i)})
	kind := treeKind(dir)
	for _, c := range t.Children[i] {
		r.Nodes = append(r.Nodes, Node{ID: g.ID(c), Label: g.Label(c)})
		r.Edges = append(r.Edges, Edge{From: b, To: g.ID(c), Kind: kind})
	}
	return r, nil
}

func (a *Analysis) immediateRelations(dir Direction, b BlockID) (*Relations, error) {
	g, t, _ := a.graphFor(dir)
	i, err := a.index(dir, b)
	if err != nil {
		return nil, err
	}
	r := &Relations{Function: a.Function, View: ViewImmediate, Dir: dir}
	r.Nodes = append(r.Nodes, Node{ID: b, Label: g.Label(i)})
	// The root has no immediate dominator distinct from itself;
	// blocks that never reach the exit have no post-dominator.
	if i != t.Root && t.Covers(i) {
		p := t.Parent[i]
		r.Nodes = append(r.Nodes, Node{ID: g.ID(p), Label: g.Label(p)})
		r.Edges = append(r.Edges, Edge{From: g.ID(p), To: b, Kind: treeKind(dir)})
	}
	return r, nil
}

func (a *Analysis) strictChainRelations(dir Direction, b BlockID) (*Relations, error) {
	g, t, _ := a.graphFor(dir)
	i, err := a.index(dir, b)
	if err != nil {
		return nil, err
	}
	r := &Relations{Function: a.Function, View: ViewStrictChain, Dir: dir}
	chain := t.StrictChain(i)
	kind := treeKind(dir)
	for k, c := range chain {
		r.Nodes = append(r.Nodes, Node{ID: g.ID(c), Label: g.Label(c)})
		if k+1 < len(chain) {
			// Each further dominator dominates the nearer one.
			r.Edges = append(r.Edges, Edge{From: g.ID(chain[k+1]), To: g.ID(c), Kind: kind})
		}
	}
	return r, nil
}

func (a *Analysis) frontierRelations(dir Direction, b BlockID) (*Relations, error) {
	g, _, f := a.graphFor(dir)
	i, err := a.index(dir, b)
	if err != nil {
		return nil, err
	}
	r := &Relations{Function: a.Function, View: ViewFrontier, Dir: dir}
	r.Nodes = append(r.Nodes, Node{ID: b, Label: g.Label(i)})
	kind := frontierKind(dir)
	for _, m := range f[i] {
		r.Nodes = append(r.Nodes, Node{ID: g.ID(m), Label: g.Label(m)})
		r.Edges = append(r.Edges, Edge{From: b, To: g.ID(m), Kind: kind})
	}
	return r, nil
}

func (a *Analysis) iteratedRelations(dir Direction, b BlockID, seeds []BlockID) (*Relations, error) {
	g, _, f := a.graphFor(dir)

	if seeds == nil {
		// Absent an explicit seed set, the inspected block is the
		// single seed.
		seeds = []BlockID{b}
	}
	idx := make([]int, len(seeds))
	for k, s := range seeds {
		i, ok := g.Index(s)
		if !ok {
			return nil, &InvalidSeedError{Function: a.Function, Seed: s}
		}
		idx[k] = i
	}

	r := &Relations{Function: a.Function, View: ViewIteratedFrontier, Dir: dir}
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if seen[i] {
			continue
		}
		seen[i] = true
		r.Nodes = append(r.Nodes, Node{ID: g.ID(i), Label: g.Label(i)})
	}
	members := f.Iterated(idx)
	for _, m := range members {
		if seen[m] {
			continue
		}
		seen[m] = true
		r.Nodes = append(r.Nodes, Node{ID: g.ID(m), Label: g.Label(m)})
	}
	for _, i := range idx {
		for _, m := range members {
			r.Edges = append(r.Edges, Edge{From: g.ID(i), To: g.ID(m), Kind: EdgeIterated})
		}
	}
	return r, nil
}
