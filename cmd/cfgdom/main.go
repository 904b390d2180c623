// Command cfgdom prints dominance diagrams for functions in a Go
// package.
//
// Usage:
//
//	cfgdom -list ./...
//	cfgdom -func example.com/pkg.Run -view tree ./...
//	cfgdom -func example.com/pkg.Run -view frontier -block 3 -format dot ./...
//
// The tool builds SSA for the matched packages, adapts the requested
// function's control-flow graph, and renders the chosen view as a
// Mermaid or Graphviz diagram on stdout.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/mpyw/cfgdom"
	"github.com/mpyw/cfgdom/render"
	"github.com/mpyw/cfgdom/ssacfg"
)

var (
	listFlag   = flag.Bool("list", false, "list analyzable functions and exit")
	funcFlag   = flag.String("func", "", "function to analyze (fully qualified name or suffix)")
	viewFlag   = flag.String("view", "tree", "view: tree, children, idom, chain, frontier, idf")
	dirFlag    = flag.String("dir", "forward", "direction: forward or reverse")
	blockFlag  = flag.Uint64("block", 0, "block identifier for per-block views (SSA block index)")
	seedsFlag  = flag.String("seeds", "", "comma-separated seed block identifiers for the idf view")
	formatFlag = flag.String("format", "mermaid", "output format: mermaid or dot")
)

var views = map[string]cfgdom.View{
	"tree":     cfgdom.ViewTree,
	"children": cfgdom.ViewTreeChildren,
	"idom":     cfgdom.ViewImmediate,
	"chain":    cfgdom.ViewStrictChain,
	"frontier": cfgdom.ViewFrontier,
	"idf":      cfgdom.ViewIteratedFrontier,
}

func main() {
	log.SetPrefix("cfgdom: ")
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] packages...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	provider := loadFunctions(flag.Args())

	names := provider.Functions()
	sort.Strings(names)

	if *listFlag {
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}
	if *funcFlag == "" {
		log.Fatal("missing -func (use -list to see analyzable functions)")
	}

	name := matchFunction(names, *funcFlag)
	view, ok := views[*viewFlag]
	if !ok {
		log.Fatalf("unknown view %q", *viewFlag)
	}
	dir := cfgdom.Forward
	switch *dirFlag {
	case "forward":
	case "reverse":
		dir = cfgdom.Reverse
	default:
		log.Fatalf("unknown direction %q", *dirFlag)
	}

	analysis, err := cfgdom.Analyze(provider, name)
	if err != nil {
		log.Fatal(err)
	}
	for _, warn := range analysis.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", warn)
	}

	req := cfgdom.Request{View: view, Dir: dir, Block: cfgdom.BlockID(*blockFlag)}
	if *seedsFlag != "" {
		req.Seeds = parseSeeds(*seedsFlag)
	}
	relations, err := analysis.Query(req)
	if err != nil {
		log.Fatal(err)
	}

	switch *formatFlag {
	case "mermaid":
		fmt.Println(render.Mermaid(relations))
	case "dot":
		fmt.Println(render.Dot(relations))
	default:
		log.Fatalf("unknown format %q", *formatFlag)
	}
}

// loadFunctions builds SSA for the matched packages and registers
// every source function (including anonymous ones) with a provider.
func loadFunctions(patterns []string) *ssacfg.Provider {
	cfg := &packages.Config{Mode: packages.LoadAllSyntax}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		log.Fatal(err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		os.Exit(1)
	}

	prog, _ := ssautil.Packages(pkgs, ssa.BuilderMode(0))
	prog.Build()

	provider := ssacfg.New()
	for fn := range ssautil.AllFunctions(prog) {
		if fn.Blocks == nil || fn.Synthetic != "" {
			continue
		}
		provider.Add(fn)
	}
	return provider
}

// matchFunction resolves a name or suffix against the function list.
func matchFunction(names []string, query string) string {
	var matches []string
	for _, name := range names {
		if name == query {
			return name
		}
		if strings.HasSuffix(name, query) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0]
	case 0:
		log.Fatalf("no function matches %q (use -list)", query)
	default:
		log.Fatalf("ambiguous function %q: matches %s", query, strings.Join(matches, ", "))
	}
	panic("unreachable")
}

func parseSeeds(s string) []cfgdom.BlockID {
	parts := strings.Split(s, ",")
	seeds := make([]cfgdom.BlockID, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 0, 64)
		if err != nil {
			log.Fatalf("bad seed %q: %v", part, err)
		}
		seeds = append(seeds, cfgdom.BlockID(id))
	}
	return seeds
}
