package cfgdom

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mpyw/cfgdom/internal/domtree"
	"github.com/mpyw/cfgdom/internal/flowgraph"
)

// =============================================================================
// Analysis Entry Point
// =============================================================================

// config carries the knobs of one Analyze call.
type config struct {
	logger  *slog.Logger
	maxIter int
}

// Option configures an Analyze call.
type Option func(*config)

// WithLogger directs the call's structured log output. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMaxIterations caps the fixed-point passes of the dominator
// computation. The default cap is generous; reverse-postorder ordering
// converges in a handful of passes on realistic CFGs.
func WithMaxIterations(n int) Option {
	return func(c *config) { c.maxIter = n }
}

// Analysis is the computed dominance snapshot of one function: the
// normalized graph, the dominator and post-dominator trees, and both
// frontiers. It is immutable after Analyze returns and safe for
// concurrent reads. Nothing is cached across calls; every Analyze
// recomputes from a fresh provider snapshot.
type Analysis struct {
	// Function is the identifier the snapshot was computed for.
	Function string

	// Warnings holds non-fatal findings, currently only
	// *DisconnectedEntryError when unreachable blocks were excluded.
	Warnings []error

	fwd         *flowgraph.Graph
	fwdTree     *domtree.Tree
	fwdFrontier domtree.Frontier

	rev         *flowgraph.Graph
	revTree     *domtree.Tree
	revFrontier domtree.Frontier
}

// Analyze captures the function's CFG from the provider and computes
// the full dominance snapshot: dominator tree, post-dominator tree
// (over the reversed graph with a synthetic exit), and both frontiers.
//
// Structural problems abort the call: *EmptyFunctionError when the
// function has no blocks, *MalformedProviderDataError when the
// provider's successor/predecessor lists disagree. Blocks unreachable
// from the entry are excluded and reported in Analysis.Warnings as a
// *DisconnectedEntryError; the remaining result is internally
// consistent.
func Analyze(p Provider, function string, opts ...Option) (*Analysis, error) {
	cfg := config{logger: slog.Default(), maxIter: domtree.DefaultMaxIterations}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()

	fg, err := p.FunctionGraph(function)
	if err != nil {
		return nil, fmt.Errorf("cfgdom: provider snapshot for %q: %w", function, err)
	}

	g, err := flowgraph.Build(function, fg)
	if err != nil {
		return nil, err
	}

	a := &Analysis{Function: function, fwd: g}

	if len(g.Dropped) > 0 {
		warn := &DisconnectedEntryError{Function: function, Unreachable: g.Dropped}
		a.Warnings = append(a.Warnings, warn)
		cfg.logger.Warn("cfgdom: unreachable blocks excluded from analysis",
			slog.String("function", function),
			slog.Int("dropped", len(g.Dropped)),
		)
	}

	a.fwdTree = domtree.Compute(g, cfg.maxIter)
	a.fwdFrontier = domtree.ComputeFrontier(g, a.fwdTree)

	a.rev = flowgraph.Reverse(g)
	if a.rev.ExitFallback {
		cfg.logger.Warn("cfgdom: no block has zero successors; synthetic exit connected from every block",
			slog.String("function", function),
		)
	}
	a.revTree = domtree.Compute(a.rev, cfg.maxIter)
	a.revFrontier = domtree.ComputeFrontier(a.rev, a.revTree)

	if !a.fwdTree.Converged || !a.revTree.Converged {
		cfg.logger.Warn("cfgdom: dominator computation hit the iteration cap without converging",
			slog.String("function", function),
			slog.Int("max_iterations", cfg.maxIter),
		)
	}

	cfg.logger.Debug("cfgdom: analysis complete",
		slog.String("function", function),
		slog.Int("blocks", g.Len()),
		slog.Int("dropped", len(g.Dropped)),
		slog.Int("dom_iterations", a.fwdTree.Iterations),
		slog.Int("postdom_iterations", a.revTree.Iterations),
		slog.Duration("duration", time.Since(start)),
	)

	return a, nil
}

// graphFor returns the graph, tree, and frontier of one direction.
func (a *Analysis) graphFor(dir Direction) (*flowgraph.Graph, *domtree.Tree, domtree.Frontier) {
	if dir == Reverse {
		return a.rev, a.revTree, a.revFrontier
	}
	return a.fwd, a.fwdTree, a.fwdFrontier
}

// index resolves a block identifier in one direction's arena.
func (a *Analysis) index(dir Direction, b BlockID) (int, error) {
	g, _, _ := a.graphFor(dir)
	i, ok := g.Index(b)
	if !ok {
		return 0, &UnknownBlockError{Function: a.Function, Block: b}
	}
	return i, nil
}

// =============================================================================
// Direct Accessors
//
// Thin wrappers over the computed structures for callers that want
// answers rather than renderable relation lists; the Query surface
// covers the same ground.
// =============================================================================

// Entry returns the identifier of the entry block.
func (a *Analysis) Entry() BlockID { return a.fwd.ID(a.fwd.Entry) }

// Blocks returns the analyzed blocks as labeled nodes, in arena order.
// Excluded (unreachable) blocks do not appear.
func (a *Analysis) Blocks() []Node {
	nodes := make([]Node, a.fwd.Len())
	for i := range nodes {
		nodes[i] = Node{ID: a.fwd.ID(i), Label: a.fwd.Label(i)}
	}
	return nodes
}

// Dominates reports whether a dominates b. Every block dominates
// itself.
func (a *Analysis) Dominates(x, y BlockID) (bool, error) {
	i, err := a.index(Forward, x)
	if err != nil {
		return false, err
	}
	j, err := a.index(Forward, y)
	if err != nil {
		return false, err
	}
	return a.fwdTree.Dominates(i, j), nil
}

// PostDominates reports whether a post-dominates b.
func (a *Analysis) PostDominates(x, y BlockID) (bool, error) {
	i, err := a.index(Reverse, x)
	if err != nil {
		return false, err
	}
	j, err := a.index(Reverse, y)
	if err != nil {
		return false, err
	}
	return a.revTree.Dominates(i, j), nil
}

// ImmediateDominator returns the immediate dominator of b. The second
// result is false for the entry block, which has no immediate
// dominator distinct from itself.
func (a *Analysis) ImmediateDominator(b BlockID) (BlockID, bool, error) {
	return a.immediate(Forward, b)
}

// ImmediatePostDominator returns the immediate post-dominator of b.
// The second result is false for the synthetic exit and for blocks
// from which the exit is unreachable.
func (a *Analysis) ImmediatePostDominator(b BlockID) (BlockID, bool, error) {
	return a.immediate(Reverse, b)
}

func (a *Analysis) immediate(dir Direction, b BlockID) (BlockID, bool, error) {
	g, t, _ := a.graphFor(dir)
	i, err := a.index(dir, b)
	if err != nil {
		return 0, false, err
	}
	if i == t.Root || !t.Covers(i) {
		return 0, false, nil
	}
	return g.ID(t.Parent[i]), true, nil
}

// StrictDominators returns the strict dominators of b, nearest first,
// ending with the entry block. The entry block has none.
func (a *Analysis) StrictDominators(b BlockID) ([]BlockID, error) {
	return a.strictChain(Forward, b)
}

// StrictPostDominators returns the strict post-dominators of b,
// nearest first, ending with the synthetic exit.
func (a *Analysis) StrictPostDominators(b BlockID) ([]BlockID, error) {
	return a.strictChain(Reverse, b)
}

func (a *Analysis) strictChain(dir Direction, b BlockID) ([]BlockID, error) {
	g, t, _ := a.graphFor(dir)
	i, err := a.index(dir, b)
	if err != nil {
		return nil, err
	}
	chain := t.StrictChain(i)
	ids := make([]BlockID, len(chain))
	for k, c := range chain {
		ids[k] = g.ID(c)
	}
	return ids, nil
}

// DominanceFrontier returns the dominance frontier of b.
func (a *Analysis) DominanceFrontier(b BlockID) ([]BlockID, error) {
	return a.frontierOf(Forward, b)
}

// PostDominanceFrontier returns the post-dominance frontier of b.
func (a *Analysis) PostDominanceFrontier(b BlockID) ([]BlockID, error) {
	return a.frontierOf(Reverse, b)
}

func (a *Analysis) frontierOf(dir Direction, b BlockID) ([]BlockID, error) {
	g, _, f := a.graphFor(dir)
	i, err := a.index(dir, b)
	if err != nil {
		return nil, err
	}
	ids := make([]BlockID, len(f[i]))
	for k, m := range f[i] {
		ids[k] = g.ID(m)
	}
	return ids, nil
}

// IteratedDominanceFrontier computes the iterated dominance frontier
// of the seed set: the closure used to place SSA phi nodes. An empty
// seed set is a valid degenerate query and yields an empty result. A
// seed outside the analyzed graph yields *InvalidSeedError; the
// snapshot stays usable.
func (a *Analysis) IteratedDominanceFrontier(seeds []BlockID) ([]BlockID, error) {
	idx := make([]int, len(seeds))
	for k, s := range seeds {
		i, ok := a.fwd.Index(s)
		if !ok {
			return nil, &InvalidSeedError{Function: a.Function, Seed: s}
		}
		idx[k] = i
	}
	members := a.fwdFrontier.Iterated(idx)
	ids := make([]BlockID, len(members))
	for k, m := range members {
		ids[k] = a.fwd.ID(m)
	}
	return ids, nil
}
