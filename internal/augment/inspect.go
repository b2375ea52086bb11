package augment

import (
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
)

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. If f returns false the children of that node are skipped.
// Marker targets are traversed like any other child, so a single pass sees
// every marker in a tree.
func Inspect(n ast.Node, f func(ast.Node) bool) {
	if n == nil || !f(n) {
		return
	}

	switch node := n.(type) {
	case *ast.IdentExpr, *ast.LiteralExpr, *ast.BreakStmt, *ast.ContinueStmt, *ast.DiscardStmt:
		// Leaves.

	case *ast.BinaryExpr:
		Inspect(node.Left, f)
		Inspect(node.Right, f)

	case *ast.UnaryExpr:
		Inspect(node.Operand, f)

	case *ast.CallExpr:
		for _, arg := range node.Args {
			Inspect(arg, f)
		}

	case *ast.IndexExpr:
		Inspect(node.Base, f)
		Inspect(node.Index, f)

	case *ast.MemberExpr:
		Inspect(node.Base, f)

	case *ast.ParenExpr:
		Inspect(node.Inner, f)

	case *ast.CompoundStmt:
		for _, s := range node.Stmts {
			Inspect(s, f)
		}

	case *ast.IfStmt:
		Inspect(node.Condition, f)
		Inspect(node.Body, f)

		if node.Else != nil {
			Inspect(node.Else, f)
		}

	case *ast.WhileStmt:
		Inspect(node.Condition, f)
		Inspect(node.Body, f)

	case *ast.ForStmt:
		if node.Init != nil {
			Inspect(node.Init, f)
		}

		if node.Condition != nil {
			Inspect(node.Condition, f)
		}

		if node.Update != nil {
			Inspect(node.Update, f)
		}

		Inspect(node.Body, f)

	case *ast.LoopStmt:
		Inspect(node.Body, f)

	case *ast.ReturnStmt:
		if node.Value != nil {
			Inspect(node.Value, f)
		}

	case *ast.AssignStmt:
		Inspect(node.Left, f)
		Inspect(node.Right, f)

	case *ast.DeclStmt:
		if node.Initializer != nil {
			Inspect(node.Initializer, f)
		}

	case *ast.CallStmt:
		Inspect(node.Call, f)

	case *ParenInsertion:
		Inspect(node.Target, f)
	case *BinaryLeftCollapse:
		Inspect(node.Target, f)
	case *BinaryRightCollapse:
		Inspect(node.Target, f)
	case *DeletableStatement:
		Inspect(node.Target, f)
	case *EmptiableCompound:
		Inspect(node.Target, f)
	case *KnownFalse:
		Inspect(node.Target, f)
	case *KnownTrue:
		Inspect(node.Target, f)
	case *DeadCodeFragment:
		Inspect(node.Target, f)
	}
}

// InspectModule applies Inspect to every function body in the module.
func InspectModule(m *ast.Module, f func(ast.Node) bool) {
	for _, fn := range m.Functions {
		Inspect(fn.Body, f)
	}
}
