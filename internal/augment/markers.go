package augment

import (
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
)

// ----------------------------------------------------------------------------
// Reversible edit markers
// ----------------------------------------------------------------------------

// ParenInsertion records that a mutation wrapped an expression in
// parentheses. Reversing it restores the un-parenthesized expression.
type ParenInsertion struct {
	ast.ExtExpr

	id         uint64
	commentary string

	// Target is the parenthesization wrapper this marker owns.
	Target *ast.ParenExpr
}

// NewParenInsertion wraps inner in parentheses and marks the insertion.
func NewParenInsertion(ids *IdentitySource, inner ast.Expr, commentary string) *ParenInsertion {
	return &ParenInsertion{
		id:         ids.Next(),
		commentary: commentary,
		Target:     &ast.ParenExpr{Inner: inner},
	}
}

func (p *ParenInsertion) ID() uint64         { return p.id }
func (p *ParenInsertion) Commentary() string { return p.commentary }

// Reverse replaces the marker with the inner expression of the
// parenthesization wrapper currently at the marker's position.
func (p *ParenInsertion) Reverse(current ast.Node) (Reversal, error) {
	paren, ok := current.(*ast.ParenExpr)
	if !ok {
		return Reversal{}, preconditionf("paren insertion", "parenthesization wrapper", current)
	}

	return Replace(paren.Inner), nil
}

func (p *ParenInsertion) EmitCommentary(sink CommentSink) {
	emitLines(sink, p.commentary)
}

// BinaryLeftCollapse records a mutation that turned an expression into a
// binary expression whose left operand is the original. Reversing it keeps
// only the left operand.
type BinaryLeftCollapse struct {
	ast.ExtExpr

	id         uint64
	commentary string

	// Target is the binary expression this marker owns.
	Target *ast.BinaryExpr
}

// NewBinaryLeftCollapse marks target as collapsible to its left operand.
func NewBinaryLeftCollapse(ids *IdentitySource, target *ast.BinaryExpr, commentary string) *BinaryLeftCollapse {
	return &BinaryLeftCollapse{id: ids.Next(), commentary: commentary, Target: target}
}

func (b *BinaryLeftCollapse) ID() uint64         { return b.id }
func (b *BinaryLeftCollapse) Commentary() string { return b.commentary }

func (b *BinaryLeftCollapse) Reverse(current ast.Node) (Reversal, error) {
	bin, ok := current.(*ast.BinaryExpr)
	if !ok {
		return Reversal{}, preconditionf("left-operand collapse", "binary expression", current)
	}

	return Replace(bin.Left), nil
}

func (b *BinaryLeftCollapse) EmitCommentary(sink CommentSink) {
	emitLines(sink, b.commentary)
}

// BinaryRightCollapse is the symmetric marker keeping the right operand.
type BinaryRightCollapse struct {
	ast.ExtExpr

	id         uint64
	commentary string

	Target *ast.BinaryExpr
}

// NewBinaryRightCollapse marks target as collapsible to its right operand.
func NewBinaryRightCollapse(ids *IdentitySource, target *ast.BinaryExpr, commentary string) *BinaryRightCollapse {
	return &BinaryRightCollapse{id: ids.Next(), commentary: commentary, Target: target}
}

func (b *BinaryRightCollapse) ID() uint64         { return b.id }
func (b *BinaryRightCollapse) Commentary() string { return b.commentary }

func (b *BinaryRightCollapse) Reverse(current ast.Node) (Reversal, error) {
	bin, ok := current.(*ast.BinaryExpr)
	if !ok {
		return Reversal{}, preconditionf("right-operand collapse", "binary expression", current)
	}

	return Replace(bin.Right), nil
}

func (b *BinaryRightCollapse) EmitCommentary(sink CommentSink) {
	emitLines(sink, b.commentary)
}

// DeletableStatement records a statement that a mutation added and that can
// therefore be removed outright. Reversing it always deletes, regardless of
// what currently occupies the position.
type DeletableStatement struct {
	ast.ExtStmt

	id         uint64
	commentary string

	Target ast.Stmt
}

// NewDeletableStatement marks target as removable.
func NewDeletableStatement(ids *IdentitySource, target ast.Stmt, commentary string) *DeletableStatement {
	return &DeletableStatement{id: ids.Next(), commentary: commentary, Target: target}
}

func (d *DeletableStatement) ID() uint64         { return d.id }
func (d *DeletableStatement) Commentary() string { return d.commentary }

func (d *DeletableStatement) Reverse(ast.Node) (Reversal, error) {
	return Delete(), nil
}

func (d *DeletableStatement) EmitCommentary(sink CommentSink) {
	emitLines(sink, d.commentary)
}

// EmptiableCompound records a compound statement whose contents were added
// by mutation. Reversing it substitutes an empty compound statement.
type EmptiableCompound struct {
	ast.ExtStmt

	id         uint64
	commentary string

	Target *ast.CompoundStmt
}

// NewEmptiableCompound marks target as reducible to an empty block.
func NewEmptiableCompound(ids *IdentitySource, target *ast.CompoundStmt, commentary string) *EmptiableCompound {
	return &EmptiableCompound{id: ids.Next(), commentary: commentary, Target: target}
}

func (e *EmptiableCompound) ID() uint64         { return e.id }
func (e *EmptiableCompound) Commentary() string { return e.commentary }

func (e *EmptiableCompound) Reverse(ast.Node) (Reversal, error) {
	return Replace(&ast.CompoundStmt{}), nil
}

func (e *EmptiableCompound) EmitCommentary(sink CommentSink) {
	emitLines(sink, e.commentary)
}

// ----------------------------------------------------------------------------
// Semantic guarantee markers
// ----------------------------------------------------------------------------

// KnownFalse asserts, on the constructing strategy's authority, that the
// wrapped expression evaluates to false with no observable side effect, so
// later passes may treat it as the literal false.
type KnownFalse struct {
	ast.ExtExpr

	id         uint64
	commentary string

	Target ast.Expr
}

// NewKnownFalse wraps target with the known-false guarantee.
func NewKnownFalse(ids *IdentitySource, target ast.Expr, commentary string) *KnownFalse {
	return &KnownFalse{id: ids.Next(), commentary: commentary, Target: target}
}

func (k *KnownFalse) ID() uint64         { return k.id }
func (k *KnownFalse) Commentary() string { return k.commentary }

func (k *KnownFalse) EmitCommentary(sink CommentSink) {
	emitLines(sink, k.commentary)
}

// KnownTrue is the symmetric guarantee for true.
type KnownTrue struct {
	ast.ExtExpr

	id         uint64
	commentary string

	Target ast.Expr
}

// NewKnownTrue wraps target with the known-true guarantee.
func NewKnownTrue(ids *IdentitySource, target ast.Expr, commentary string) *KnownTrue {
	return &KnownTrue{id: ids.Next(), commentary: commentary, Target: target}
}

func (k *KnownTrue) ID() uint64         { return k.id }
func (k *KnownTrue) Commentary() string { return k.commentary }

func (k *KnownTrue) EmitCommentary(sink CommentSink) {
	emitLines(sink, k.commentary)
}

// DeadCodeFragment asserts that the wrapped statement is unreachable or has
// no observable effect because it is controlled by a known-false guard.
type DeadCodeFragment struct {
	ast.ExtStmt

	id         uint64
	commentary string

	Target ast.Stmt
}

// NewDeadCodeFragment wraps target with the dead-code guarantee. The target
// must be a conditional or loop statement whose guard expression is exactly
// a known-false wrapper; any other shape fails with ErrUnsupportedConstruct.
func NewDeadCodeFragment(ids *IdentitySource, target ast.Stmt, commentary string) (*DeadCodeFragment, error) {
	if !hasKnownFalseGuard(target) {
		return nil, ErrUnsupportedConstruct
	}

	return &DeadCodeFragment{id: ids.Next(), commentary: commentary, Target: target}, nil
}

func hasKnownFalseGuard(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		return isKnownFalse(s.Condition)
	case *ast.WhileStmt:
		return isKnownFalse(s.Condition)
	case *ast.ForStmt:
		return isKnownFalse(s.Condition)
	default:
		return false
	}
}

func isKnownFalse(e ast.Expr) bool {
	_, ok := e.(*KnownFalse)
	return ok
}

func (d *DeadCodeFragment) ID() uint64         { return d.id }
func (d *DeadCodeFragment) Commentary() string { return d.commentary }

func (d *DeadCodeFragment) EmitCommentary(sink CommentSink) {
	emitLines(sink, d.commentary)
}
