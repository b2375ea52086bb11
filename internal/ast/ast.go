// Package ast defines the WGSL syntax tree nodes that mutation markers wrap
// and that reversal results rebuild.
//
// The node set is closed: expressions and statements are sealed interfaces
// with marker methods, and every consumer that dispatches on node kind is
// expected to match exhaustively.
package ast

// Node is any syntax tree node.
type Node interface {
	isNode()
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// Expr represents an expression.
type Expr interface {
	Node
	isExpr()
}

// ExtExpr anchors expression nodes defined outside this package (mutation
// markers) into the sealed hierarchy. Embed it to satisfy Expr.
type ExtExpr struct{}

func (ExtExpr) isNode() {}
func (ExtExpr) isExpr() {}

// ExtStmt anchors statement nodes defined outside this package into the
// sealed hierarchy. Embed it to satisfy Stmt.
type ExtStmt struct{}

func (ExtStmt) isNode() {}
func (ExtStmt) isStmt() {}

// IdentExpr represents an identifier reference.
type IdentExpr struct {
	Name string
}

func (*IdentExpr) isNode() {}
func (*IdentExpr) isExpr() {}

// LiteralExpr represents a literal value, stored as its source text
// ("true", "1.5f", "0x2Au", ...).
type LiteralExpr struct {
	Value string
}

func (*LiteralExpr) isNode() {}
func (*LiteralExpr) isExpr() {}

// False creates the literal false expression.
func False() *LiteralExpr {
	return &LiteralExpr{Value: "false"}
}

// True creates the literal true expression.
func True() *LiteralExpr {
	return &LiteralExpr{Value: "true"}
}

// BinaryOp represents binary operators.
type BinaryOp uint8

const (
	BinOpAdd BinaryOp = iota // +
	BinOpSub                 // -
	BinOpMul                 // *
	BinOpDiv                 // /
	BinOpMod                 // %
	BinOpAnd                 // &
	BinOpOr                  // |
	BinOpXor                 // ^
	BinOpShl                 // <<
	BinOpShr                 // >>
	BinOpLogicalAnd          // &&
	BinOpLogicalOr           // ||
	BinOpEq                  // ==
	BinOpNe                  // !=
	BinOpLt                  // <
	BinOpLe                  // <=
	BinOpGt                  // >
	BinOpGe                  // >=
)

func (op BinaryOp) String() string {
	switch op {
	case BinOpAdd:
		return "+"
	case BinOpSub:
		return "-"
	case BinOpMul:
		return "*"
	case BinOpDiv:
		return "/"
	case BinOpMod:
		return "%"
	case BinOpAnd:
		return "&"
	case BinOpOr:
		return "|"
	case BinOpXor:
		return "^"
	case BinOpShl:
		return "<<"
	case BinOpShr:
		return ">>"
	case BinOpLogicalAnd:
		return "&&"
	case BinOpLogicalOr:
		return "||"
	case BinOpEq:
		return "=="
	case BinOpNe:
		return "!="
	case BinOpLt:
		return "<"
	case BinOpLe:
		return "<="
	case BinOpGt:
		return ">"
	case BinOpGe:
		return ">="
	default:
		return "?"
	}
}

// IsComparison reports whether the operator yields a boolean comparison.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinOpEq, BinOpNe, BinOpLt, BinOpLe, BinOpGt, BinOpGe:
		return true
	default:
		return false
	}
}

// IsLogical reports whether the operator is short-circuit boolean logic.
func (op BinaryOp) IsLogical() bool {
	return op == BinOpLogicalAnd || op == BinOpLogicalOr
}

// BinaryExpr represents a binary operation.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) isNode() {}
func (*BinaryExpr) isExpr() {}

// UnaryOp represents unary operators.
type UnaryOp uint8

const (
	UnaryOpNeg    UnaryOp = iota // -
	UnaryOpNot                   // !
	UnaryOpBitNot                // ~
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryOpNeg:
		return "-"
	case UnaryOpNot:
		return "!"
	case UnaryOpBitNot:
		return "~"
	default:
		return "?"
	}
}

// UnaryExpr represents a unary operation.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) isNode() {}
func (*UnaryExpr) isExpr() {}

// CallExpr represents a function call or type constructor.
type CallExpr struct {
	Callee string
	Args   []Expr
}

func (*CallExpr) isNode() {}
func (*CallExpr) isExpr() {}

// IndexExpr represents indexing: base[index].
type IndexExpr struct {
	Base  Expr
	Index Expr
}

func (*IndexExpr) isNode() {}
func (*IndexExpr) isExpr() {}

// MemberExpr represents member access: base.member.
type MemberExpr struct {
	Base   Expr
	Member string
}

func (*MemberExpr) isNode() {}
func (*MemberExpr) isExpr() {}

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	Inner Expr
}

func (*ParenExpr) isNode() {}
func (*ParenExpr) isExpr() {}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

// Stmt represents a statement.
type Stmt interface {
	Node
	isStmt()
}

// CompoundStmt represents a block of statements: { stmts }.
type CompoundStmt struct {
	Stmts []Stmt
}

func (*CompoundStmt) isNode() {}
func (*CompoundStmt) isStmt() {}

// IfStmt represents: if cond { } [else { } | else if ...].
type IfStmt struct {
	Condition Expr
	Body      *CompoundStmt
	Else      Stmt // nil, *IfStmt, or *CompoundStmt
}

func (*IfStmt) isNode() {}
func (*IfStmt) isStmt() {}

// WhileStmt represents: while cond { }.
type WhileStmt struct {
	Condition Expr
	Body      *CompoundStmt
}

func (*WhileStmt) isNode() {}
func (*WhileStmt) isStmt() {}

// ForStmt represents: for (init; cond; update) { }.
type ForStmt struct {
	Init      Stmt // nil, declaration, or assignment
	Condition Expr // nil for infinite loop
	Update    Stmt // nil, assignment, or call
	Body      *CompoundStmt
}

func (*ForStmt) isNode() {}
func (*ForStmt) isStmt() {}

// LoopStmt represents: loop { }.
type LoopStmt struct {
	Body *CompoundStmt
}

func (*LoopStmt) isNode() {}
func (*LoopStmt) isStmt() {}

// ReturnStmt represents: return [expr];.
type ReturnStmt struct {
	Value Expr // nil for bare return
}

func (*ReturnStmt) isNode() {}
func (*ReturnStmt) isStmt() {}

// AssignStmt represents: lhs = rhs;.
type AssignStmt struct {
	Left  Expr
	Right Expr
}

func (*AssignStmt) isNode() {}
func (*AssignStmt) isStmt() {}

// DeclKind distinguishes local declaration statements.
type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
)

func (k DeclKind) String() string {
	switch k {
	case DeclVar:
		return "var"
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	default:
		return "?"
	}
}

// DeclStmt represents a local declaration: var/let/const name = expr;.
type DeclStmt struct {
	Kind        DeclKind
	Name        string
	Initializer Expr // nil for var without initializer
}

func (*DeclStmt) isNode() {}
func (*DeclStmt) isStmt() {}

// CallStmt represents a function call used as a statement.
type CallStmt struct {
	Call *CallExpr
}

func (*CallStmt) isNode() {}
func (*CallStmt) isStmt() {}

// BreakStmt represents: break;.
type BreakStmt struct{}

func (*BreakStmt) isNode() {}
func (*BreakStmt) isStmt() {}

// ContinueStmt represents: continue;.
type ContinueStmt struct{}

func (*ContinueStmt) isNode() {}
func (*ContinueStmt) isStmt() {}

// DiscardStmt represents: discard;.
type DiscardStmt struct{}

func (*DiscardStmt) isNode() {}
func (*DiscardStmt) isStmt() {}
