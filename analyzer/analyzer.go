// Package analyzer exposes cfgdom as a golang.org/x/tools/go/analysis
// pass. The pass reports no diagnostics; like buildssa it exists for
// its result, a per-function gateway to dominance analysis that other
// analyzers can require.
package analyzer

import (
	"reflect"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"
	"golang.org/x/tools/go/ssa"

	"github.com/mpyw/cfgdom"
	"github.com/mpyw/cfgdom/ssacfg"
)

// Analyzer computes dominance information for the SSA functions of a
// package.
var Analyzer = &analysis.Analyzer{
	Name:       "cfgdom",
	Doc:        "exposes dominator and post-dominator analysis of each function's control-flow graph",
	Requires:   []*analysis.Analyzer{buildssa.Analyzer},
	ResultType: reflect.TypeOf((*Result)(nil)),
	Run:        run,
}

// Result is the pass result: a provider over the package's source
// functions. Dominance snapshots are computed on demand, fresh per
// call, per the library's no-caching lifecycle.
type Result struct {
	Provider *ssacfg.Provider
}

// Analyze computes the dominance snapshot of one function.
func (r *Result) Analyze(fn *ssa.Function, opts ...cfgdom.Option) (*cfgdom.Analysis, error) {
	return cfgdom.Analyze(r.Provider, fn.String(), opts...)
}

func run(pass *analysis.Pass) (any, error) {
	ssaInfo := pass.ResultOf[buildssa.Analyzer].(*buildssa.SSA)
	return &Result{Provider: ssacfg.New(ssaInfo.SrcFuncs...)}, nil
}
