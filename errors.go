package cfgdom

import (
	"fmt"

	"github.com/mpyw/cfgdom/internal/flowgraph"
)

// =============================================================================
// Error Taxonomy
//
// Structural errors (empty function, malformed provider data) are
// fatal to the whole analysis call. View-layer errors (bad seed,
// unknown block) are local to one query and leave the computed
// snapshot usable. DisconnectedEntryError is a warning: the result is
// partial but internally consistent.
// =============================================================================

// EmptyFunctionError reports a function with no basic blocks.
type EmptyFunctionError = flowgraph.EmptyFunctionError

// DisconnectedEntryError reports blocks unreachable from the entry;
// they are excluded from the analysis and the error is carried in
// Analysis.Warnings alongside the result.
type DisconnectedEntryError = flowgraph.DisconnectedEntryError

// MalformedProviderDataError reports an inconsistent provider snapshot,
// such as an edge present in a successor list but missing from the
// mirrored predecessor list.
type MalformedProviderDataError = flowgraph.MalformedProviderDataError

// InvalidSeedError reports an iterated-frontier seed block that is not
// present in the analyzed graph. Fatal to that query only.
type InvalidSeedError struct {
	Function string
	Seed     BlockID
}

func (e *InvalidSeedError) Error() string {
	return fmt.Sprintf("cfgdom: function %q: iterated-frontier seed %#x is not a block of the analyzed graph",
		e.Function, uint64(e.Seed))
}

// UnknownBlockError reports a per-block query against a block that is
// not present in the analyzed graph. Fatal to that query only.
type UnknownBlockError struct {
	Function string
	Block    BlockID
}

func (e *UnknownBlockError) Error() string {
	return fmt.Sprintf("cfgdom: function %q: block %#x is not part of the analyzed graph",
		e.Function, uint64(e.Block))
}
