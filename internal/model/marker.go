package model

// MarkerKind represents the category of a mutation marker.
type MarkerKind string

const (
	// MarkerParenInsertion wraps an expression in redundant parentheses.
	MarkerParenInsertion MarkerKind = "paren_insertion"
	// MarkerBinaryLeftCollapse collapses a binary expression to its left operand.
	MarkerBinaryLeftCollapse MarkerKind = "binary_left_collapse"
	// MarkerBinaryRightCollapse collapses a binary expression to its right operand.
	MarkerBinaryRightCollapse MarkerKind = "binary_right_collapse"
	// MarkerDeletableStatement removes a statement from its enclosing list.
	MarkerDeletableStatement MarkerKind = "deletable_statement"
	// MarkerEmptiableCompound replaces a block with an empty one.
	MarkerEmptiableCompound MarkerKind = "emptiable_compound"
	// MarkerKnownFalse records an expression guaranteed to evaluate to false.
	MarkerKnownFalse MarkerKind = "known_false"
	// MarkerKnownTrue records an expression guaranteed to evaluate to true.
	MarkerKnownTrue MarkerKind = "known_true"
	// MarkerDeadCodeFragment records a statement guarded into unreachability.
	MarkerDeadCodeFragment MarkerKind = "dead_code_fragment"
)

// MarkerInfo is the displayable summary of one marker in a job.
type MarkerInfo struct {
	ID         uint64
	Kind       MarkerKind
	Function   string
	Reversible bool
	Commentary string
	// Snippet is the printed form of the marker's current code.
	Snippet string
}
