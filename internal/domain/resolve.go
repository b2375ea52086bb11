package domain

import (
	"fmt"
	"strings"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/augment"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/types"
)

// Scope maps identifiers in a function to their declared types.
type Scope map[string]types.Type

// TypeOf infers the type of an expression under the given scope. Literals
// without a suffix resolve to the abstract numeric types; binary operands are
// joined through the common-type relation, so a mixed abstract/concrete
// operation takes the concrete side's type.
func TypeOf(scope Scope, e ast.Expr) (types.Type, error) {
	switch expr := e.(type) {
	case *ast.IdentExpr:
		t, ok := scope[expr.Name]
		if !ok {
			return nil, fmt.Errorf("unknown identifier %q", expr.Name)
		}

		return t, nil

	case *ast.LiteralExpr:
		return literalType(expr.Value)

	case *ast.ParenExpr:
		return TypeOf(scope, expr.Inner)

	case *ast.UnaryExpr:
		operand, err := TypeOf(scope, expr.Operand)
		if err != nil {
			return nil, err
		}

		return types.Deref(operand), nil

	case *ast.BinaryExpr:
		return binaryType(scope, expr)

	case *ast.IndexExpr:
		base, err := TypeOf(scope, expr.Base)
		if err != nil {
			return nil, err
		}

		return elementType(base)

	case *augment.ParenInsertion:
		return TypeOf(scope, expr.Target)
	case *augment.BinaryLeftCollapse:
		return TypeOf(scope, expr.Target)
	case *augment.BinaryRightCollapse:
		return TypeOf(scope, expr.Target)
	case *augment.KnownFalse:
		return types.Bool, nil
	case *augment.KnownTrue:
		return types.Bool, nil

	default:
		return nil, fmt.Errorf("cannot infer type of %T", e)
	}
}

func binaryType(scope Scope, expr *ast.BinaryExpr) (types.Type, error) {
	left, err := TypeOf(scope, expr.Left)
	if err != nil {
		return nil, err
	}

	right, err := TypeOf(scope, expr.Right)
	if err != nil {
		return nil, err
	}

	if expr.Op.IsComparison() || expr.Op.IsLogical() {
		return types.Bool, nil
	}

	return types.FindCommonType([]types.Type{types.Deref(left), types.Deref(right)})
}

func literalType(value string) (types.Type, error) {
	switch {
	case value == "true" || value == "false":
		return types.Bool, nil
	case strings.HasSuffix(value, "i"):
		return types.I32, nil
	case strings.HasSuffix(value, "u"):
		return types.U32, nil
	case strings.HasSuffix(value, "f"):
		return types.F32, nil
	case strings.HasSuffix(value, "h"):
		return types.F16, nil
	case strings.ContainsAny(value, ".eE") && !strings.HasPrefix(value, "0x"):
		return types.AbstractFloat, nil
	default:
		return types.AbstractInt, nil
	}
}

func elementType(base types.Type) (types.Type, error) {
	switch t := types.Deref(base).(type) {
	case *types.Vector:
		return t.Element, nil
	case *types.Matrix:
		return types.Vec(t.Rows, t.Element), nil
	case *types.Array:
		return t.Element, nil
	default:
		return nil, fmt.Errorf("cannot index into %s", base)
	}
}

// moduleScope collects the types of locals whose initializers resolve,
// walking declarations in order so later initializers may use earlier
// locals. Declarations this cannot type are left out; expressions over
// them fail resolution and callers fall back to the oracle.
func moduleScope(mod *ast.Module) Scope {
	scope := Scope{}

	augment.InspectModule(mod, func(n ast.Node) bool {
		decl, ok := n.(*ast.DeclStmt)
		if !ok || decl.Initializer == nil {
			return true
		}

		if t, err := TypeOf(scope, decl.Initializer); err == nil {
			scope[decl.Name] = t
		}

		return true
	})

	return scope
}

// CollapsePreservesType reports whether collapsing a binary expression to the
// given operand keeps the expression's inferred type, once both sides are
// concretized. Collapses that would change the type of the surrounding code
// are rejected before an oracle run is spent on them.
func CollapsePreservesType(scope Scope, bin *ast.BinaryExpr, operand ast.Expr) (bool, error) {
	whole, err := binaryType(scope, bin)
	if err != nil {
		return false, err
	}

	part, err := TypeOf(scope, operand)
	if err != nil {
		return false, err
	}

	whole = types.DefaultConcretization(whole)
	part = types.DefaultConcretization(types.Deref(part))

	return whole.Equals(part) || types.IsAbstractionOf(whole, part), nil
}
