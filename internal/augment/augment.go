// Package augment implements the reversible mutation markers that mutation
// strategies attach to a shader syntax tree.
//
// Each marker is itself a syntax tree node: it wraps the original subtree
// and records enough data to undo the transformation that produced it. The
// reduction driver addresses markers by integer identity and asks them to
// reverse; the printer asks them to emit explanatory commentary. Markers
// are never mutated after construction.
package augment

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
)

// ErrPrecondition marks violations of a marker's construction or reversal
// preconditions. These indicate a bug in the calling mutation or reduction
// strategy, not a recoverable runtime condition, and are kept distinct from
// type-resolution failures in logs and crash reports.
var ErrPrecondition = errors.New("marker precondition violated")

// ErrUnsupportedConstruct reports a marker built around a statement shape
// the marker does not accept.
var ErrUnsupportedConstruct = fmt.Errorf("unsupported construct: %w", ErrPrecondition)

// preconditionf builds a reversal precondition error for a marker that was
// asked to reverse against a tree node of the wrong shape.
func preconditionf(marker string, want string, got ast.Node) error {
	return fmt.Errorf("%w: %s expects %s, got %T", ErrPrecondition, marker, want, got)
}

// CommentSink is the capability a printer hands to EmitCommentary. It is an
// explicit interface rather than a closure so markers carry no hidden
// dependency on printer internals and tests can stub it trivially.
type CommentSink interface {
	// WriteLine emits one raw output line (no indentation applied).
	WriteLine(line string)
	// CurrentIndent returns the indentation prefix at the current
	// traversal position.
	CurrentIndent() string
}

// Marker is the common contract of every augmented node: a stable identity
// for addressing, the commentary text recorded at mutation time, and the
// commentary emission hook invoked by the printer.
type Marker interface {
	ast.Node

	// ID returns the identity correlating this marker to the mutation
	// event that created it. Tree position is unstable across edits;
	// the identity is not.
	ID() uint64

	// Commentary returns the human-readable text recorded when the
	// marker was constructed, empty if none.
	Commentary() string

	// EmitCommentary writes zero or more comment lines describing the
	// transformation. It never alters the semantic tree and is safe to
	// skip entirely.
	EmitCommentary(sink CommentSink)
}

// Reversible is implemented by markers that record an undoable edit.
type Reversible interface {
	Marker

	// Reverse computes what should replace this marker in the tree,
	// given the node currently occupying the marker's position (which
	// may differ from what was originally wrapped if intervening edits
	// occurred). Reverse is pure: it mutates neither the marker nor the
	// current node.
	Reverse(current ast.Node) (Reversal, error)
}

// ----------------------------------------------------------------------------
// Reversal Protocol
// ----------------------------------------------------------------------------

// ReversalKind distinguishes the two possible reversal outcomes.
type ReversalKind uint8

const (
	// ReplaceNode means the marker is replaced by Reversal.Replacement.
	ReplaceNode ReversalKind = iota
	// DeleteNode means the marker's node is removed from its parent.
	DeleteNode
)

// Reversal is the result of reversing a marker: either a node to splice in
// place of the marker, or an instruction to delete it. Splicing, including
// the structural consequences of deletion, is the reduction driver's job.
type Reversal struct {
	Kind        ReversalKind
	Replacement ast.Node
}

// Replace builds a reversal that substitutes n for the marker.
func Replace(n ast.Node) Reversal {
	return Reversal{Kind: ReplaceNode, Replacement: n}
}

// Delete builds a reversal that removes the marker from its parent.
func Delete() Reversal {
	return Reversal{Kind: DeleteNode}
}

// ----------------------------------------------------------------------------
// Identity Assignment
// ----------------------------------------------------------------------------

// IdentitySource hands out marker identities. A single source owns all ids
// for the lifetime of one tree; the atomic counter keeps the uniqueness
// invariant even when mutation construction is parallelized.
type IdentitySource struct {
	next atomic.Uint64
}

// NewIdentitySource creates an identity source starting at 1.
func NewIdentitySource() *IdentitySource {
	return &IdentitySource{}
}

// Next returns a fresh identity.
func (s *IdentitySource) Next() uint64 {
	return s.next.Add(1)
}

// commentary emission shared by all variants: the recorded text, split
// into lines by the caller at construction time if needed, prefixed with
// the shading-language comment marker at the current indentation.
func emitLines(sink CommentSink, lines ...string) {
	for _, line := range lines {
		if line == "" {
			continue
		}

		sink.WriteLine(sink.CurrentIndent() + "// " + line)
	}
}
