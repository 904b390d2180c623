package cfgdom

import (
	"errors"
	"testing"
)

func hasEdge(r *Relations, from, to BlockID, kind EdgeKind) bool {
	for _, e := range r.Edges {
		if e.From == from && e.To == to && e.Kind == kind {
			return true
		}
	}
	return false
}

func hasNode(r *Relations, id BlockID) bool {
	for _, n := range r.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

func TestQuery_Tree(t *testing.T) {
	a := analyzeDiamond(t)

	r, err := a.Query(Request{View: ViewTree})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if !r.HasRoot || r.Root != 1 {
		t.Errorf("expected root 1, got %d (has=%v)", r.Root, r.HasRoot)
	}
	if len(r.Nodes) != 4 {
		t.Errorf("expected 4 nodes, got %d", len(r.Nodes))
	}
	if len(r.Edges) != 3 {
		t.Errorf("expected 3 tree edges, got %d", len(r.Edges))
	}
	for _, to := range []BlockID{2, 3, 4} {
		if !hasEdge(r, 1, to, EdgeIdom) {
			t.Errorf("missing tree edge 1 -> %d", to)
		}
	}
}

func TestQuery_PostDominatorTree(t *testing.T) {
	a := analyzeDiamond(t)

	r, err := a.Query(Request{View: ViewTree, Dir: Reverse})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if !r.HasRoot || r.Root != SyntheticExitID {
		t.Errorf("expected synthetic exit root, got %#x", uint64(r.Root))
	}
	if !hasEdge(r, 4, 2, EdgeIpdom) || !hasEdge(r, 4, 3, EdgeIpdom) {
		t.Error("expected merge point to parent both branch arms")
	}
	if !hasEdge(r, SyntheticExitID, 4, EdgeIpdom) {
		t.Error("expected synthetic exit to parent the merge point")
	}
}

func TestQuery_TreeChildren(t *testing.T) {
	a := analyzeDiamond(t)

	r, err := a.Query(Request{View: ViewTreeChildren, Block: 1})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if len(r.Edges) != 3 {
		t.Errorf("expected 3 child edges, got %d", len(r.Edges))
	}
	for _, c := range []BlockID{2, 3, 4} {
		if !hasEdge(r, 1, c, EdgeIdom) {
			t.Errorf("missing child edge 1 -> %d", c)
		}
	}

	// A leaf yields its own node and nothing else.
	r, err = a.Query(Request{View: ViewTreeChildren, Block: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(r.Nodes) != 1 || len(r.Edges) != 0 {
		t.Errorf("leaf should yield one node and no edges, got %d/%d", len(r.Nodes), len(r.Edges))
	}
}

func TestQuery_Immediate(t *testing.T) {
	a := analyzeDiamond(t)

	r, err := a.Query(Request{View: ViewImmediate, Block: 4})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !hasEdge(r, 1, 4, EdgeIdom) {
		t.Error("expected idom edge 1 -> 4")
	}

	// The root contributes a node but no edge.
	r, err = a.Query(Request{View: ViewImmediate, Block: 1})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(r.Nodes) != 1 || len(r.Edges) != 0 {
		t.Errorf("root should yield one node and no edges, got %d/%d", len(r.Nodes), len(r.Edges))
	}
}

func TestQuery_StrictChain(t *testing.T) {
	p := mapProvider{"f": makeFunctionGraph(t, 1, []BlockID{1, 2, 3}, [][2]BlockID{
		{1, 2}, {2, 3},
	})}
	a, err := Analyze(p, "f")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	r, err := a.Query(Request{View: ViewStrictChain, Block: 3})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	// Nearest first: 2 then 1, with the further dominator pointing at
	// the nearer one.
	if len(r.Nodes) != 2 || r.Nodes[0].ID != 2 || r.Nodes[1].ID != 1 {
		t.Errorf("expected chain nodes [2 1], got %v", r.Nodes)
	}
	if !hasEdge(r, 1, 2, EdgeIdom) {
		t.Error("expected chain edge 1 -> 2")
	}
}

func TestQuery_Frontier(t *testing.T) {
	a := analyzeDiamond(t)

	r, err := a.Query(Request{View: ViewFrontier, Block: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !hasEdge(r, 2, 4, EdgeFrontier) {
		t.Error("expected frontier edge 2 -> 4")
	}

	r, err = a.Query(Request{View: ViewFrontier, Dir: Reverse, Block: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !hasEdge(r, 2, 1, EdgePostFrontier) {
		t.Error("expected post-frontier edge 2 -> 1")
	}
}

func TestQuery_IteratedFrontier(t *testing.T) {
	a := analyzeDiamond(t)

	// nil seeds default to the inspected block.
	r, err := a.Query(Request{View: ViewIteratedFrontier, Block: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !hasEdge(r, 2, 4, EdgeIterated) {
		t.Error("expected iterated-frontier edge 2 -> 4")
	}

	// Explicit seeds override the block; each seed points at each
	// member, nodes deduplicated.
	r, err = a.Query(Request{View: ViewIteratedFrontier, Seeds: []BlockID{2, 3}})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !hasEdge(r, 2, 4, EdgeIterated) || !hasEdge(r, 3, 4, EdgeIterated) {
		t.Error("expected both seeds to point at the member")
	}
	if !hasNode(r, 2) || !hasNode(r, 3) || !hasNode(r, 4) {
		t.Error("expected nodes for both seeds and the member")
	}
	if len(r.Nodes) != 3 {
		t.Errorf("expected 3 deduplicated nodes, got %d", len(r.Nodes))
	}

	// An explicitly empty, non-nil seed set is a valid degenerate query.
	r, err = a.Query(Request{View: ViewIteratedFrontier, Seeds: []BlockID{}})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(r.Nodes) != 0 || len(r.Edges) != 0 {
		t.Errorf("empty seed set should yield an empty result, got %d/%d", len(r.Nodes), len(r.Edges))
	}

	_, err = a.Query(Request{View: ViewIteratedFrontier, Seeds: []BlockID{99}})
	var invalid *InvalidSeedError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidSeedError, got %v", err)
	}
}

func TestQuery_UnknownBlock(t *testing.T) {
	a := analyzeDiamond(t)

	for _, view := range []View{ViewTreeChildren, ViewImmediate, ViewStrictChain, ViewFrontier} {
		_, err := a.Query(Request{View: view, Block: 99})
		var unknown *UnknownBlockError
		if !errors.As(err, &unknown) {
			t.Errorf("%s: expected *UnknownBlockError, got %v", view, err)
		}
	}
}

func TestQuery_UnknownView(t *testing.T) {
	a := analyzeDiamond(t)

	if _, err := a.Query(Request{View: View(42)}); err == nil {
		t.Error("expected an error for an unrecognized view")
	}
}

func TestImmediateRelations(t *testing.T) {
	a := analyzeDiamond(t)

	r := a.ImmediateRelations(Forward)
	if r.View != ViewImmediate {
		t.Errorf("expected immediate view, got %s", r.View)
	}
	// One edge per non-root covered block.
	if len(r.Edges) != 3 {
		t.Errorf("expected 3 edges, got %d", len(r.Edges))
	}
}

func TestQuery_PostDominators_UncoveredBlock(t *testing.T) {
	// 3 loops forever while 4 is a real exit; 3 never reaches the exit
	// and stays outside the post-dominator tree.
	p := mapProvider{"f": makeFunctionGraph(t, 1, []BlockID{1, 2, 3, 4}, [][2]BlockID{
		{1, 2}, {1, 3}, {3, 3}, {2, 4},
	})}
	a, err := Analyze(p, "f")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	_, ok, err := a.ImmediatePostDominator(3)
	if err != nil {
		t.Fatalf("ImmediatePostDominator: %v", err)
	}
	if ok {
		t.Error("a block that never reaches the exit has no post-dominator")
	}

	r, err := a.Query(Request{View: ViewImmediate, Dir: Reverse, Block: 3})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(r.Nodes) != 1 || len(r.Edges) != 0 {
		t.Errorf("uncovered block should yield one node and no edges, got %d/%d", len(r.Nodes), len(r.Edges))
	}
}
