// Package render serializes cfgdom relation lists into diagram text.
// Rendering is a pure serialization concern: the analytical contract
// ends at the labeled node and edge sets in cfgdom.Relations.
package render

import (
	"fmt"
	"strings"

	"github.com/mpyw/cfgdom"
)

// Mermaid renders the relations as a Mermaid "graph TD" diagram inside
// a fenced code block. Tree edges are plain arrows; frontier and
// iterated-frontier edges carry their kind as an edge label.
func Mermaid(r *cfgdom.Relations) string {
	var b strings.Builder
	b.WriteString("```mermaid\ngraph TD;\n")
	for _, n := range r.Nodes {
		fmt.Fprintf(&b, "%s((\"%s\"))\n", mermaidID(n.ID), escape(n.Label))
	}
	for _, e := range r.Edges {
		switch e.Kind {
		case cfgdom.EdgeIdom, cfgdom.EdgeIpdom:
			fmt.Fprintf(&b, "%s --> %s\n", mermaidID(e.From), mermaidID(e.To))
		default:
			fmt.Fprintf(&b, "%s -->|%s| %s\n", mermaidID(e.From), e.Kind, mermaidID(e.To))
		}
	}
	b.WriteString("```")
	return b.String()
}

// Dot renders the relations in AT&T GraphViz (.dot) format.
func Dot(r *cfgdom.Relations) string {
	var b strings.Builder
	name := fmt.Sprintf("%s-%s-%s", r.View, r.Dir, r.Function)
	fmt.Fprintf(&b, "digraph %q {\n", name)
	fmt.Fprintf(&b, "\tlabel=%q\n", name)
	b.WriteString("\tnode [shape=\"rect\"]\n")
	for _, n := range r.Nodes {
		fmt.Fprintf(&b, "\t%s [label=%q]\n", dotID(n.ID), n.Label)
	}
	for _, e := range r.Edges {
		switch e.Kind {
		case cfgdom.EdgeIdom, cfgdom.EdgeIpdom:
			fmt.Fprintf(&b, "\t%s -> %s\n", dotID(e.From), dotID(e.To))
		default:
			fmt.Fprintf(&b, "\t%s -> %s [label=%q,style=\"dotted\"]\n", dotID(e.From), dotID(e.To), e.Kind.String())
		}
	}
	b.WriteString("}")
	return b.String()
}

func mermaidID(id cfgdom.BlockID) string {
	return fmt.Sprintf("BB%x", uint64(id))
}

func dotID(id cfgdom.BlockID) string {
	return fmt.Sprintf("n%x", uint64(id))
}

// escape keeps labels inside Mermaid's quoted node syntax.
func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `#quot;`)
}
