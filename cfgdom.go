// Package cfgdom computes control-flow dominance information for a
// single function: immediate dominators, the full dominator tree,
// dominance frontiers, iterated dominance frontiers for SSA
// phi-placement, and the symmetric post-dominance variants over the
// reversed graph with a synthetic exit.
//
// The package consumes a CFG from a Provider (basic blocks with opaque
// identifiers and successor/predecessor lists) and trusts that graph as
// ground truth; it performs no disassembly or CFG recovery of its own.
// Each call to Analyze captures an immutable snapshot and computes
// every structure eagerly: the returned Analysis is safe for concurrent
// reads, and analyses of independent functions may run in parallel.
//
// Results are exposed as labeled relation lists (Relations) suitable
// for diagram rendering; see the render subpackage for Mermaid and
// Graphviz output.
package cfgdom

import "github.com/mpyw/cfgdom/internal/flowgraph"

// BlockID is the provider-assigned identifier of a basic block,
// commonly its start address or an SSA block index.
type BlockID = flowgraph.BlockID

// SyntheticExitID identifies the synthetic exit block that roots the
// post-dominator tree. It never collides with a real block identifier.
const SyntheticExitID = flowgraph.SyntheticExitID

// BlockInfo is one basic block as reported by the CFG provider.
type BlockInfo = flowgraph.BlockInfo

// FunctionGraph is a provider's snapshot of one function: its blocks
// and the designated entry block.
type FunctionGraph = flowgraph.FunctionGraph

// Provider yields control-flow graphs for functions. The provider has
// already performed control-flow recovery; cfgdom only cares about
// graph topology and display labels.
//
// Implementations must return a snapshot that stays immutable for the
// duration of the analysis call.
type Provider interface {
	// FunctionGraph returns the CFG snapshot of the named function.
	FunctionGraph(function string) (FunctionGraph, error)
}
