// Package flowgraph provides the normalized control-flow graph model
// shared by all dominance algorithms.
//
// A Graph is an immutable arena snapshot: blocks are stored in a dense
// slice and all edges are integer indices into it, decoupling the
// algorithms from whatever object model the CFG provider uses. Graphs
// are built once per analysis call and never mutated afterwards.
package flowgraph

// BlockID is the provider-assigned identifier of a basic block,
// commonly its start address or an SSA block index.
type BlockID uint64

// SyntheticExitID is the sentinel identifier of the synthetic exit
// block appended to a reversed graph. It never collides with a real
// block because providers hand out addresses or small indices.
const SyntheticExitID = ^BlockID(0)

// syntheticExitLabel is the display label of the synthetic exit block.
const syntheticExitLabel = "<exit>"

// BlockInfo is one basic block as reported by the CFG provider:
// a stable identifier, a display label, and the identifiers of the
// successor and predecessor blocks.
type BlockInfo struct {
	ID    BlockID
	Label string
	Succs []BlockID
	Preds []BlockID
}

// FunctionGraph is the provider's snapshot of one function:
// its blocks and the designated entry block.
type FunctionGraph struct {
	Entry  BlockID
	Blocks []BlockInfo
}

// Block is one node of a built Graph.
type Block struct {
	ID    BlockID
	Label string
}

// Graph is the normalized CFG arena for one function.
//
// Succs and Preds are parallel to Blocks and hold indices into it.
// A Graph built by Build contains only blocks reachable from Entry;
// the identifiers of pruned blocks are recorded in Dropped.
type Graph struct {
	// Function is the identifier of the analyzed function.
	Function string

	// Blocks holds the arena. Blocks[Entry] is the analysis root.
	Blocks []Block

	// Entry is the index of the root block. For a reversed graph this
	// is the synthetic exit.
	Entry int

	// Succs[i] and Preds[i] are the successor and predecessor indices
	// of Blocks[i].
	Succs [][]int
	Preds [][]int

	// Dropped lists blocks that were unreachable from the entry and
	// excluded from the arena. Dominance is undefined for them.
	Dropped []BlockID

	// SyntheticExit is the index of the synthetic exit block in a
	// reversed graph, or -1.
	SyntheticExit int

	// ExitFallback reports that no block had zero forward successors,
	// so the synthetic exit was connected from every block instead.
	ExitFallback bool

	index map[BlockID]int
}

// Len returns the number of blocks in the arena.
func (g *Graph) Len() int { return len(g.Blocks) }

// Index returns the arena index of the block with the given identifier.
func (g *Graph) Index(id BlockID) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// ID returns the identifier of the block at index i.
func (g *Graph) ID(i int) BlockID { return g.Blocks[i].ID }

// Label returns the display label of the block at index i.
func (g *Graph) Label(i int) string { return g.Blocks[i].Label }
