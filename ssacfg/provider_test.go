package ssacfg

import (
	"errors"
	"go/types"
	"testing"

	"golang.org/x/tools/go/ssa"

	"github.com/mpyw/cfgdom"
)

// makeFunction assembles a bare SSA function with the given block
// topology. A non-nil signature keeps fn.String() usable on a function
// built outside the SSA builder.
func makeFunction(t *testing.T, comments []string, edges [][2]int) *ssa.Function {
	t.Helper()

	blocks := make([]*ssa.BasicBlock, len(comments))
	for i, comment := range comments {
		blocks[i] = &ssa.BasicBlock{Index: i, Comment: comment}
	}
	for _, e := range edges {
		from, to := blocks[e[0]], blocks[e[1]]
		from.Succs = append(from.Succs, to)
		to.Preds = append(to.Preds, from)
	}
	return &ssa.Function{
		Signature: types.NewSignatureType(nil, nil, nil, nil, nil, false),
		Blocks:    blocks,
	}
}

func TestProvider_FunctionGraph(t *testing.T) {
	// Diamond: 0 branches to 1 and 2, which merge at 3.
	fn := makeFunction(t, []string{"entry", "if.then", "if.else", "if.done"}, [][2]int{
		{0, 1}, {0, 2}, {1, 3}, {2, 3},
	})
	p := New(fn)

	fg, err := p.FunctionGraph(fn.String())
	if err != nil {
		t.Fatalf("FunctionGraph: %v", err)
	}

	if fg.Entry != 0 {
		t.Errorf("expected entry 0, got %d", fg.Entry)
	}
	if len(fg.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(fg.Blocks))
	}
	if fg.Blocks[0].Label != "0.entry" {
		t.Errorf("expected label %q, got %q", "0.entry", fg.Blocks[0].Label)
	}
	if len(fg.Blocks[0].Succs) != 2 {
		t.Errorf("expected 2 successors for the entry, got %v", fg.Blocks[0].Succs)
	}
	if len(fg.Blocks[3].Preds) != 2 {
		t.Errorf("expected 2 predecessors for the merge point, got %v", fg.Blocks[3].Preds)
	}
}

func TestProvider_LabelWithoutComment(t *testing.T) {
	fn := makeFunction(t, []string{""}, nil)
	p := New(fn)

	fg, err := p.FunctionGraph(fn.String())
	if err != nil {
		t.Fatalf("FunctionGraph: %v", err)
	}
	if fg.Blocks[0].Label != "0" {
		t.Errorf("expected bare index label, got %q", fg.Blocks[0].Label)
	}
}

func TestProvider_UnknownFunction(t *testing.T) {
	p := New()

	_, err := p.FunctionGraph("nope")
	if err == nil {
		t.Fatal("expected an error for an unregistered function")
	}
}

func TestProvider_ExternalFunction(t *testing.T) {
	// External functions carry no blocks; the analysis reports them as
	// empty rather than the provider failing.
	fn := &ssa.Function{
		Signature: types.NewSignatureType(nil, nil, nil, nil, nil, false),
	}
	p := New(fn)

	fg, err := p.FunctionGraph(fn.String())
	if err != nil {
		t.Fatalf("FunctionGraph: %v", err)
	}
	if len(fg.Blocks) != 0 {
		t.Fatalf("expected no blocks, got %d", len(fg.Blocks))
	}

	_, err = cfgdom.Analyze(p, fn.String())
	var emptyErr *cfgdom.EmptyFunctionError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected *cfgdom.EmptyFunctionError, got %v", err)
	}
}

func TestProvider_EndToEndAnalysis(t *testing.T) {
	fn := makeFunction(t, []string{"entry", "if.then", "if.else", "if.done"}, [][2]int{
		{0, 1}, {0, 2}, {1, 3}, {2, 3},
	})
	p := New(fn)

	a, err := cfgdom.Analyze(p, fn.String())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	idom, ok, err := a.ImmediateDominator(3)
	if err != nil {
		t.Fatalf("ImmediateDominator: %v", err)
	}
	if !ok || idom != 0 {
		t.Errorf("ImmediateDominator(3) = %d, %v; want 0, true", idom, ok)
	}

	df, err := a.DominanceFrontier(1)
	if err != nil {
		t.Fatalf("DominanceFrontier: %v", err)
	}
	if len(df) != 1 || df[0] != 3 {
		t.Errorf("DominanceFrontier(1) = %v, want [3]", df)
	}
}

func TestProvider_Functions(t *testing.T) {
	fn := makeFunction(t, []string{"entry"}, nil)
	p := &Provider{}
	p.Add(fn)

	names := p.Functions()
	if len(names) != 1 {
		t.Fatalf("expected one registered function, got %v", names)
	}
	got, ok := p.Lookup(names[0])
	if !ok || got != fn {
		t.Error("Lookup should return the registered function")
	}
}
