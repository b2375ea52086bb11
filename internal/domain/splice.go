package domain

import (
	"errors"
	"fmt"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/augment"
)

// ErrMarkerNotFound indicates the requested marker id is absent from the tree.
var ErrMarkerNotFound = errors.New("marker not found")

// ErrNotReversible indicates the marker records a guarantee rather than a
// reversible transformation.
var ErrNotReversible = errors.New("marker is not reversible")

// ApplyReversal reverses the marker with the given id, rewriting the module
// in place. The marker node is replaced by its reversal result, or removed
// from its enclosing statement list when the reversal deletes it. Callers
// that need the original tree afterwards should splice a fresh decode.
func ApplyReversal(mod *ast.Module, id uint64) error {
	sp := &splicer{id: id}

	for _, fn := range mod.Functions {
		sp.spliceCompound(fn.Body)

		if sp.err != nil {
			return sp.err
		}

		if sp.done {
			return nil
		}
	}

	return fmt.Errorf("marker %d: %w", id, ErrMarkerNotFound)
}

// splicer walks the tree looking for a single marker id. Child nodes are
// rewritten in place; only the marker node itself is replaced.
type splicer struct {
	id   uint64
	done bool
	err  error
}

func (sp *splicer) spliceCompound(c *ast.CompoundStmt) {
	out := c.Stmts[:0]

	for _, s := range c.Stmts {
		if sp.done || sp.err != nil {
			out = append(out, s)
			continue
		}

		replacement, removed := sp.spliceStmt(s, true)
		if !removed {
			out = append(out, replacement)
		}
	}

	c.Stmts = out
}

// spliceStmt rewrites one statement. inList permits deletion; elsewhere a
// delete reversal is a precondition failure.
func (sp *splicer) spliceStmt(s ast.Stmt, inList bool) (ast.Stmt, bool) {
	if marker, ok := s.(augment.Marker); ok && marker.ID() == sp.id {
		return sp.reverseStmtMarker(marker, inList)
	}

	switch stmt := s.(type) {
	case *ast.CompoundStmt:
		sp.spliceCompound(stmt)

	case *ast.IfStmt:
		stmt.Condition = sp.spliceExpr(stmt.Condition)
		sp.spliceCompound(stmt.Body)

		if stmt.Else != nil {
			replacement, removed := sp.spliceStmt(stmt.Else, false)
			if removed {
				stmt.Else = nil
			} else {
				stmt.Else = replacement
			}
		}

	case *ast.WhileStmt:
		stmt.Condition = sp.spliceExpr(stmt.Condition)
		sp.spliceCompound(stmt.Body)

	case *ast.ForStmt:
		if stmt.Init != nil {
			stmt.Init, _ = sp.spliceStmt(stmt.Init, false)
		}

		if stmt.Condition != nil {
			stmt.Condition = sp.spliceExpr(stmt.Condition)
		}

		if stmt.Update != nil {
			stmt.Update, _ = sp.spliceStmt(stmt.Update, false)
		}

		sp.spliceCompound(stmt.Body)

	case *ast.LoopStmt:
		sp.spliceCompound(stmt.Body)

	case *ast.ReturnStmt:
		if stmt.Value != nil {
			stmt.Value = sp.spliceExpr(stmt.Value)
		}

	case *ast.AssignStmt:
		stmt.Left = sp.spliceExpr(stmt.Left)
		stmt.Right = sp.spliceExpr(stmt.Right)

	case *ast.DeclStmt:
		if stmt.Initializer != nil {
			stmt.Initializer = sp.spliceExpr(stmt.Initializer)
		}

	case *ast.CallStmt:
		sp.spliceCall(stmt.Call)

	case *augment.DeletableStatement:
		stmt.Target, _ = sp.spliceStmt(stmt.Target, false)
	case *augment.EmptiableCompound:
		sp.spliceCompound(stmt.Target)
	case *augment.DeadCodeFragment:
		stmt.Target, _ = sp.spliceStmt(stmt.Target, false)
	}

	return s, false
}

func (sp *splicer) reverseStmtMarker(marker augment.Marker, inList bool) (ast.Stmt, bool) {
	sp.done = true

	rev, ok := marker.(augment.Reversible)
	if !ok {
		sp.err = fmt.Errorf("marker %d (%T): %w", marker.ID(), marker, ErrNotReversible)
		return marker.(ast.Stmt), false
	}

	reversal, err := rev.Reverse(currentStmtTarget(marker))
	if err != nil {
		sp.err = err
		return marker.(ast.Stmt), false
	}

	switch reversal.Kind {
	case augment.DeleteNode:
		if !inList {
			sp.err = fmt.Errorf("marker %d: delete outside statement list: %w", marker.ID(), augment.ErrPrecondition)
			return marker.(ast.Stmt), false
		}

		return nil, true

	case augment.ReplaceNode:
		replacement, ok := reversal.Replacement.(ast.Stmt)
		if !ok {
			sp.err = preconditionReplacement(marker, reversal.Replacement)
			return marker.(ast.Stmt), false
		}

		return replacement, false

	default:
		sp.err = fmt.Errorf("marker %d: unknown reversal kind %d: %w", marker.ID(), reversal.Kind, augment.ErrPrecondition)
		return marker.(ast.Stmt), false
	}
}

func (sp *splicer) spliceExpr(e ast.Expr) ast.Expr {
	if sp.done || sp.err != nil {
		return e
	}

	if marker, ok := e.(augment.Marker); ok && marker.ID() == sp.id {
		return sp.reverseExprMarker(marker)
	}

	switch expr := e.(type) {
	case *ast.BinaryExpr:
		expr.Left = sp.spliceExpr(expr.Left)
		expr.Right = sp.spliceExpr(expr.Right)

	case *ast.UnaryExpr:
		expr.Operand = sp.spliceExpr(expr.Operand)

	case *ast.CallExpr:
		sp.spliceCall(expr)

	case *ast.IndexExpr:
		expr.Base = sp.spliceExpr(expr.Base)
		expr.Index = sp.spliceExpr(expr.Index)

	case *ast.MemberExpr:
		expr.Base = sp.spliceExpr(expr.Base)

	case *ast.ParenExpr:
		expr.Inner = sp.spliceExpr(expr.Inner)

	case *augment.ParenInsertion:
		expr.Target.Inner = sp.spliceExpr(expr.Target.Inner)
	case *augment.BinaryLeftCollapse:
		expr.Target.Left = sp.spliceExpr(expr.Target.Left)
		expr.Target.Right = sp.spliceExpr(expr.Target.Right)
	case *augment.BinaryRightCollapse:
		expr.Target.Left = sp.spliceExpr(expr.Target.Left)
		expr.Target.Right = sp.spliceExpr(expr.Target.Right)
	case *augment.KnownFalse:
		expr.Target = sp.spliceExpr(expr.Target)
	case *augment.KnownTrue:
		expr.Target = sp.spliceExpr(expr.Target)
	}

	return e
}

func (sp *splicer) reverseExprMarker(marker augment.Marker) ast.Expr {
	sp.done = true

	rev, ok := marker.(augment.Reversible)
	if !ok {
		sp.err = fmt.Errorf("marker %d (%T): %w", marker.ID(), marker, ErrNotReversible)
		return marker.(ast.Expr)
	}

	reversal, err := rev.Reverse(currentExprTarget(marker))
	if err != nil {
		sp.err = err
		return marker.(ast.Expr)
	}

	if reversal.Kind != augment.ReplaceNode {
		sp.err = fmt.Errorf("marker %d: delete in expression position: %w", marker.ID(), augment.ErrPrecondition)
		return marker.(ast.Expr)
	}

	replacement, ok := reversal.Replacement.(ast.Expr)
	if !ok {
		sp.err = preconditionReplacement(marker, reversal.Replacement)
		return marker.(ast.Expr)
	}

	return replacement
}

func (sp *splicer) spliceCall(call *ast.CallExpr) {
	for i, arg := range call.Args {
		call.Args[i] = sp.spliceExpr(arg)
	}
}

// currentExprTarget returns the node presently occupying the marker's
// position, handed to Reverse so it can check the shape it relies on.
func currentExprTarget(marker augment.Marker) ast.Node {
	switch em := marker.(type) {
	case *augment.ParenInsertion:
		return em.Target
	case *augment.BinaryLeftCollapse:
		return em.Target
	case *augment.BinaryRightCollapse:
		return em.Target
	default:
		return nil
	}
}

func currentStmtTarget(marker augment.Marker) ast.Node {
	switch sm := marker.(type) {
	case *augment.DeletableStatement:
		return sm.Target
	case *augment.EmptiableCompound:
		return sm.Target
	default:
		return nil
	}
}

func preconditionReplacement(marker augment.Marker, replacement ast.Node) error {
	return fmt.Errorf("marker %d: replacement %T does not fit position: %w", marker.ID(), replacement, augment.ErrPrecondition)
}
