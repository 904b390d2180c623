package flowgraph

import (
	"fmt"
	"strings"
)

// =============================================================================
// Structural Errors
//
// Errors from the graph model stop the pipeline: running dominance
// algorithms over an inconsistent graph would produce wrong results
// rather than incomplete ones.
// =============================================================================

// EmptyFunctionError reports a function with no basic blocks.
// Fatal to the analysis call; there is no partial result.
type EmptyFunctionError struct {
	Function string
}

func (e *EmptyFunctionError) Error() string {
	return fmt.Sprintf("cfgdom: function %q has no basic blocks", e.Function)
}

// DisconnectedEntryError reports blocks unreachable from the entry.
// Non-fatal: the blocks are excluded from the analysis and the error is
// surfaced as a warning alongside the internally consistent result.
type DisconnectedEntryError struct {
	Function    string
	Unreachable []BlockID
}

func (e *DisconnectedEntryError) Error() string {
	ids := make([]string, len(e.Unreachable))
	for i, id := range e.Unreachable {
		ids[i] = fmt.Sprintf("%#x", uint64(id))
	}
	return fmt.Sprintf("cfgdom: function %q: %d block(s) unreachable from entry, excluded from analysis: %s",
		e.Function, len(e.Unreachable), strings.Join(ids, ", "))
}

// MalformedProviderDataError reports an inconsistent provider snapshot:
// an edge present on one side but missing its mirror, an edge to an
// unknown block, a duplicate block, or a missing entry block.
// Fatal; the pipeline stops immediately.
type MalformedProviderDataError struct {
	Function string
	From, To BlockID
	Reason   string
}

func (e *MalformedProviderDataError) Error() string {
	if e.From == 0 && e.To == 0 {
		return fmt.Sprintf("cfgdom: function %q: malformed provider data: %s", e.Function, e.Reason)
	}
	return fmt.Sprintf("cfgdom: function %q: malformed provider data on edge %#x -> %#x: %s",
		e.Function, uint64(e.From), uint64(e.To), e.Reason)
}
