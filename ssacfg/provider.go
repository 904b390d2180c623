// Package ssacfg adapts golang.org/x/tools/go/ssa functions into the
// cfgdom.Provider contract. The SSA builder has already recovered
// control flow; this adapter only exposes block topology and display
// labels, keyed by the function's fully qualified name.
package ssacfg

import (
	"fmt"
	"strconv"

	"golang.org/x/tools/go/ssa"

	"github.com/mpyw/cfgdom"
)

// Provider serves CFG snapshots for a set of SSA functions.
//
// Block identifiers are the SSA block indices, labels the SSA block
// names (index plus comment, e.g. "1.if.then"). The zero value is
// ready to use.
type Provider struct {
	fns map[string]*ssa.Function
}

// New builds a Provider over the given functions. Functions are keyed
// by their fully qualified String() name.
func New(fns ...*ssa.Function) *Provider {
	p := &Provider{}
	for _, fn := range fns {
		p.Add(fn)
	}
	return p
}

// Add registers a function with the provider.
func (p *Provider) Add(fn *ssa.Function) {
	if p.fns == nil {
		p.fns = make(map[string]*ssa.Function)
	}
	p.fns[fn.String()] = fn
}

// Functions returns the registered function names.
func (p *Provider) Functions() []string {
	names := make([]string, 0, len(p.fns))
	for name := range p.fns {
		names = append(names, name)
	}
	return names
}

// Lookup returns the registered function with the given name.
func (p *Provider) Lookup(function string) (*ssa.Function, bool) {
	fn, ok := p.fns[function]
	return fn, ok
}

// FunctionGraph implements cfgdom.Provider. External functions have no
// blocks; cfgdom reports those as an empty-function error.
func (p *Provider) FunctionGraph(function string) (cfgdom.FunctionGraph, error) {
	fn, ok := p.fns[function]
	if !ok {
		return cfgdom.FunctionGraph{}, fmt.Errorf("ssacfg: function %q not registered", function)
	}

	var fg cfgdom.FunctionGraph
	if len(fn.Blocks) == 0 {
		return fg, nil
	}
	fg.Entry = cfgdom.BlockID(fn.Blocks[0].Index)
	fg.Blocks = make([]cfgdom.BlockInfo, len(fn.Blocks))
	for i, b := range fn.Blocks {
		info := cfgdom.BlockInfo{
			ID:    cfgdom.BlockID(b.Index),
			Label: blockLabel(b),
		}
		for _, s := range b.Succs {
			info.Succs = append(info.Succs, cfgdom.BlockID(s.Index))
		}
		for _, pred := range b.Preds {
			info.Preds = append(info.Preds, cfgdom.BlockID(pred.Index))
		}
		fg.Blocks[i] = info
	}
	return fg, nil
}

func blockLabel(b *ssa.BasicBlock) string {
	if b.Comment != "" {
		return strconv.Itoa(b.Index) + "." + b.Comment
	}
	return strconv.Itoa(b.Index)
}
