package augment

import (
	"encoding/json"
	"fmt"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
)

// Stable variant tags for the serialized tree form. They are part of the
// compatibility contract for persisted fuzzing sessions; renaming one breaks
// old crash reports.
const (
	tagIdent    = "ident"
	tagLiteral  = "literal"
	tagBinary   = "binary"
	tagUnary    = "unary"
	tagCall     = "call"
	tagIndex    = "index"
	tagMember   = "member"
	tagParen    = "paren"
	tagCompound = "compound"
	tagIf       = "if"
	tagWhile    = "while"
	tagFor      = "for"
	tagLoop     = "loop"
	tagReturn   = "return"
	tagAssign   = "assign"
	tagDecl     = "decl"
	tagCallStmt = "call_stmt"
	tagBreak    = "break"
	tagContinue = "continue"
	tagDiscard  = "discard"

	tagParenInsertion      = "paren_insertion"
	tagBinaryLeftCollapse  = "binary_left_collapse"
	tagBinaryRightCollapse = "binary_right_collapse"
	tagDeletableStatement  = "deletable_statement"
	tagEmptiableCompound   = "emptiable_compound"
	tagKnownFalse          = "known_false"
	tagKnownTrue           = "known_true"
	tagDeadCodeFragment    = "dead_code_fragment"
)

// DecodeError reports a serialized tree whose shape does not match any
// known node variant. It is surfaced to the persistence layer as-is.
type DecodeError struct {
	Kind   string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("decode node: %s", e.Reason)
	}

	return fmt.Sprintf("decode node %q: %s", e.Kind, e.Reason)
}

type wireNode struct {
	Kind string `json:"kind"`

	Name     string `json:"name,omitempty"`
	Value    string `json:"value,omitempty"`
	Op       string `json:"op,omitempty"`
	DeclKind string `json:"decl_kind,omitempty"`

	Left      *wireNode   `json:"left,omitempty"`
	Right     *wireNode   `json:"right,omitempty"`
	Inner     *wireNode   `json:"inner,omitempty"`
	Base      *wireNode   `json:"base,omitempty"`
	Index     *wireNode   `json:"index,omitempty"`
	Condition *wireNode   `json:"condition,omitempty"`
	Init      *wireNode   `json:"init,omitempty"`
	Update    *wireNode   `json:"update,omitempty"`
	Body      *wireNode   `json:"body,omitempty"`
	Else      *wireNode   `json:"else,omitempty"`
	Target    *wireNode   `json:"target,omitempty"`
	Stmts     []*wireNode `json:"stmts,omitempty"`
	Args      []*wireNode `json:"args,omitempty"`

	ID         uint64 `json:"id,omitempty"`
	Commentary string `json:"commentary,omitempty"`
}

var binaryOpNames = map[ast.BinaryOp]string{
	ast.BinOpAdd: "+", ast.BinOpSub: "-", ast.BinOpMul: "*", ast.BinOpDiv: "/",
	ast.BinOpMod: "%", ast.BinOpAnd: "&", ast.BinOpOr: "|", ast.BinOpXor: "^",
	ast.BinOpShl: "<<", ast.BinOpShr: ">>", ast.BinOpLogicalAnd: "&&",
	ast.BinOpLogicalOr: "||", ast.BinOpEq: "==", ast.BinOpNe: "!=",
	ast.BinOpLt: "<", ast.BinOpLe: "<=", ast.BinOpGt: ">", ast.BinOpGe: ">=",
}

var unaryOpNames = map[ast.UnaryOp]string{
	ast.UnaryOpNeg: "-", ast.UnaryOpNot: "!", ast.UnaryOpBitNot: "~",
}

var declKindNames = map[ast.DeclKind]string{
	ast.DeclVar: "var", ast.DeclLet: "let", ast.DeclConst: "const",
}

func lookupKey[K comparable](m map[K]string, name string) (K, bool) {
	for k, v := range m {
		if v == name {
			return k, true
		}
	}

	var zero K

	return zero, false
}

// ----------------------------------------------------------------------------
// Encoding
// ----------------------------------------------------------------------------

func encodeNode(n ast.Node) *wireNode {
	switch node := n.(type) {
	case nil:
		return nil

	case *ast.IdentExpr:
		return &wireNode{Kind: tagIdent, Name: node.Name}
	case *ast.LiteralExpr:
		return &wireNode{Kind: tagLiteral, Value: node.Value}
	case *ast.BinaryExpr:
		return &wireNode{Kind: tagBinary, Op: binaryOpNames[node.Op], Left: encodeNode(node.Left), Right: encodeNode(node.Right)}
	case *ast.UnaryExpr:
		return &wireNode{Kind: tagUnary, Op: unaryOpNames[node.Op], Inner: encodeNode(node.Operand)}
	case *ast.CallExpr:
		return &wireNode{Kind: tagCall, Name: node.Callee, Args: encodeExprs(node.Args)}
	case *ast.IndexExpr:
		return &wireNode{Kind: tagIndex, Base: encodeNode(node.Base), Index: encodeNode(node.Index)}
	case *ast.MemberExpr:
		return &wireNode{Kind: tagMember, Base: encodeNode(node.Base), Name: node.Member}
	case *ast.ParenExpr:
		return &wireNode{Kind: tagParen, Inner: encodeNode(node.Inner)}

	case *ast.CompoundStmt:
		return &wireNode{Kind: tagCompound, Stmts: encodeStmts(node.Stmts)}
	case *ast.IfStmt:
		return &wireNode{Kind: tagIf, Condition: encodeNode(node.Condition), Body: encodeNode(node.Body), Else: encodeNode(node.Else)}
	case *ast.WhileStmt:
		return &wireNode{Kind: tagWhile, Condition: encodeNode(node.Condition), Body: encodeNode(node.Body)}
	case *ast.ForStmt:
		return &wireNode{Kind: tagFor, Init: encodeNode(node.Init), Condition: encodeNode(node.Condition), Update: encodeNode(node.Update), Body: encodeNode(node.Body)}
	case *ast.LoopStmt:
		return &wireNode{Kind: tagLoop, Body: encodeNode(node.Body)}
	case *ast.ReturnStmt:
		return &wireNode{Kind: tagReturn, Inner: encodeNode(node.Value)}
	case *ast.AssignStmt:
		return &wireNode{Kind: tagAssign, Left: encodeNode(node.Left), Right: encodeNode(node.Right)}
	case *ast.DeclStmt:
		return &wireNode{Kind: tagDecl, DeclKind: declKindNames[node.Kind], Name: node.Name, Inner: encodeNode(node.Initializer)}
	case *ast.CallStmt:
		return &wireNode{Kind: tagCallStmt, Inner: encodeNode(node.Call)}
	case *ast.BreakStmt:
		return &wireNode{Kind: tagBreak}
	case *ast.ContinueStmt:
		return &wireNode{Kind: tagContinue}
	case *ast.DiscardStmt:
		return &wireNode{Kind: tagDiscard}

	case *ParenInsertion:
		return &wireNode{Kind: tagParenInsertion, ID: node.id, Commentary: node.commentary, Target: encodeNode(node.Target)}
	case *BinaryLeftCollapse:
		return &wireNode{Kind: tagBinaryLeftCollapse, ID: node.id, Commentary: node.commentary, Target: encodeNode(node.Target)}
	case *BinaryRightCollapse:
		return &wireNode{Kind: tagBinaryRightCollapse, ID: node.id, Commentary: node.commentary, Target: encodeNode(node.Target)}
	case *DeletableStatement:
		return &wireNode{Kind: tagDeletableStatement, ID: node.id, Commentary: node.commentary, Target: encodeNode(node.Target)}
	case *EmptiableCompound:
		return &wireNode{Kind: tagEmptiableCompound, ID: node.id, Commentary: node.commentary, Target: encodeNode(node.Target)}
	case *KnownFalse:
		return &wireNode{Kind: tagKnownFalse, ID: node.id, Commentary: node.commentary, Target: encodeNode(node.Target)}
	case *KnownTrue:
		return &wireNode{Kind: tagKnownTrue, ID: node.id, Commentary: node.commentary, Target: encodeNode(node.Target)}
	case *DeadCodeFragment:
		return &wireNode{Kind: tagDeadCodeFragment, ID: node.id, Commentary: node.commentary, Target: encodeNode(node.Target)}
	}

	return nil
}

func encodeExprs(exprs []ast.Expr) []*wireNode {
	if len(exprs) == 0 {
		return nil
	}

	out := make([]*wireNode, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, encodeNode(e))
	}

	return out
}

func encodeStmts(stmts []ast.Stmt) []*wireNode {
	if len(stmts) == 0 {
		return nil
	}

	out := make([]*wireNode, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, encodeNode(s))
	}

	return out
}

// ----------------------------------------------------------------------------
// Decoding
// ----------------------------------------------------------------------------

func decodeNode(w *wireNode) (ast.Node, error) {
	if w == nil {
		return nil, nil
	}

	switch w.Kind {
	case tagIdent:
		return &ast.IdentExpr{Name: w.Name}, nil
	case tagLiteral:
		return &ast.LiteralExpr{Value: w.Value}, nil

	case tagBinary:
		op, ok := lookupKey(binaryOpNames, w.Op)
		if !ok {
			return nil, &DecodeError{Kind: tagBinary, Reason: fmt.Sprintf("unknown operator %q", w.Op)}
		}

		left, err := decodeExpr(w.Left)
		if err != nil {
			return nil, err
		}

		right, err := decodeExpr(w.Right)
		if err != nil {
			return nil, err
		}

		return &ast.BinaryExpr{Op: op, Left: left, Right: right}, nil

	case tagUnary:
		op, ok := lookupKey(unaryOpNames, w.Op)
		if !ok {
			return nil, &DecodeError{Kind: tagUnary, Reason: fmt.Sprintf("unknown operator %q", w.Op)}
		}

		operand, err := decodeExpr(w.Inner)
		if err != nil {
			return nil, err
		}

		return &ast.UnaryExpr{Op: op, Operand: operand}, nil

	case tagCall:
		args, err := decodeExprs(w.Args)
		if err != nil {
			return nil, err
		}

		return &ast.CallExpr{Callee: w.Name, Args: args}, nil

	case tagIndex:
		base, err := decodeExpr(w.Base)
		if err != nil {
			return nil, err
		}

		index, err := decodeExpr(w.Index)
		if err != nil {
			return nil, err
		}

		return &ast.IndexExpr{Base: base, Index: index}, nil

	case tagMember:
		base, err := decodeExpr(w.Base)
		if err != nil {
			return nil, err
		}

		return &ast.MemberExpr{Base: base, Member: w.Name}, nil

	case tagParen:
		inner, err := decodeExpr(w.Inner)
		if err != nil {
			return nil, err
		}

		return &ast.ParenExpr{Inner: inner}, nil

	case tagCompound:
		stmts, err := decodeStmts(w.Stmts)
		if err != nil {
			return nil, err
		}

		return &ast.CompoundStmt{Stmts: stmts}, nil

	case tagIf:
		cond, err := decodeExpr(w.Condition)
		if err != nil {
			return nil, err
		}

		body, err := decodeCompound(w.Body)
		if err != nil {
			return nil, err
		}

		var elseStmt ast.Stmt
		if w.Else != nil {
			elseStmt, err = decodeStmt(w.Else)
			if err != nil {
				return nil, err
			}
		}

		return &ast.IfStmt{Condition: cond, Body: body, Else: elseStmt}, nil

	case tagWhile:
		cond, err := decodeExpr(w.Condition)
		if err != nil {
			return nil, err
		}

		body, err := decodeCompound(w.Body)
		if err != nil {
			return nil, err
		}

		return &ast.WhileStmt{Condition: cond, Body: body}, nil

	case tagFor:
		var (
			initStmt, update ast.Stmt
			cond             ast.Expr
			err              error
		)

		if w.Init != nil {
			if initStmt, err = decodeStmt(w.Init); err != nil {
				return nil, err
			}
		}

		if w.Condition != nil {
			if cond, err = decodeExpr(w.Condition); err != nil {
				return nil, err
			}
		}

		if w.Update != nil {
			if update, err = decodeStmt(w.Update); err != nil {
				return nil, err
			}
		}

		body, err := decodeCompound(w.Body)
		if err != nil {
			return nil, err
		}

		return &ast.ForStmt{Init: initStmt, Condition: cond, Update: update, Body: body}, nil

	case tagLoop:
		body, err := decodeCompound(w.Body)
		if err != nil {
			return nil, err
		}

		return &ast.LoopStmt{Body: body}, nil

	case tagReturn:
		var (
			value ast.Expr
			err   error
		)

		if w.Inner != nil {
			if value, err = decodeExpr(w.Inner); err != nil {
				return nil, err
			}
		}

		return &ast.ReturnStmt{Value: value}, nil

	case tagAssign:
		left, err := decodeExpr(w.Left)
		if err != nil {
			return nil, err
		}

		right, err := decodeExpr(w.Right)
		if err != nil {
			return nil, err
		}

		return &ast.AssignStmt{Left: left, Right: right}, nil

	case tagDecl:
		kind, ok := lookupKey(declKindNames, w.DeclKind)
		if !ok {
			return nil, &DecodeError{Kind: tagDecl, Reason: fmt.Sprintf("unknown declaration kind %q", w.DeclKind)}
		}

		var (
			init ast.Expr
			err  error
		)

		if w.Inner != nil {
			if init, err = decodeExpr(w.Inner); err != nil {
				return nil, err
			}
		}

		return &ast.DeclStmt{Kind: kind, Name: w.Name, Initializer: init}, nil

	case tagCallStmt:
		call, err := decodeExpr(w.Inner)
		if err != nil {
			return nil, err
		}

		callExpr, ok := call.(*ast.CallExpr)
		if !ok {
			return nil, &DecodeError{Kind: tagCallStmt, Reason: "inner node is not a call"}
		}

		return &ast.CallStmt{Call: callExpr}, nil

	case tagBreak:
		return &ast.BreakStmt{}, nil
	case tagContinue:
		return &ast.ContinueStmt{}, nil
	case tagDiscard:
		return &ast.DiscardStmt{}, nil

	case tagParenInsertion:
		target, err := decodeNode(w.Target)
		if err != nil {
			return nil, err
		}

		paren, ok := target.(*ast.ParenExpr)
		if !ok {
			return nil, &DecodeError{Kind: tagParenInsertion, Reason: "target is not a parenthesization wrapper"}
		}

		return &ParenInsertion{id: w.ID, commentary: w.Commentary, Target: paren}, nil

	case tagBinaryLeftCollapse, tagBinaryRightCollapse:
		target, err := decodeNode(w.Target)
		if err != nil {
			return nil, err
		}

		bin, ok := target.(*ast.BinaryExpr)
		if !ok {
			return nil, &DecodeError{Kind: w.Kind, Reason: "target is not a binary expression"}
		}

		if w.Kind == tagBinaryLeftCollapse {
			return &BinaryLeftCollapse{id: w.ID, commentary: w.Commentary, Target: bin}, nil
		}

		return &BinaryRightCollapse{id: w.ID, commentary: w.Commentary, Target: bin}, nil

	case tagDeletableStatement:
		target, err := decodeStmt(w.Target)
		if err != nil {
			return nil, err
		}

		return &DeletableStatement{id: w.ID, commentary: w.Commentary, Target: target}, nil

	case tagEmptiableCompound:
		target, err := decodeCompound(w.Target)
		if err != nil {
			return nil, err
		}

		return &EmptiableCompound{id: w.ID, commentary: w.Commentary, Target: target}, nil

	case tagKnownFalse, tagKnownTrue:
		target, err := decodeExpr(w.Target)
		if err != nil {
			return nil, err
		}

		if w.Kind == tagKnownFalse {
			return &KnownFalse{id: w.ID, commentary: w.Commentary, Target: target}, nil
		}

		return &KnownTrue{id: w.ID, commentary: w.Commentary, Target: target}, nil

	case tagDeadCodeFragment:
		target, err := decodeStmt(w.Target)
		if err != nil {
			return nil, err
		}

		if !hasKnownFalseGuard(target) {
			return nil, &DecodeError{Kind: tagDeadCodeFragment, Reason: "target has no known-false guard"}
		}

		return &DeadCodeFragment{id: w.ID, commentary: w.Commentary, Target: target}, nil
	}

	return nil, &DecodeError{Kind: w.Kind, Reason: "unknown node variant"}
}

func decodeExpr(w *wireNode) (ast.Expr, error) {
	if w == nil {
		return nil, &DecodeError{Reason: "missing expression"}
	}

	n, err := decodeNode(w)
	if err != nil {
		return nil, err
	}

	expr, ok := n.(ast.Expr)
	if !ok {
		return nil, &DecodeError{Kind: w.Kind, Reason: "expected an expression"}
	}

	return expr, nil
}

func decodeStmt(w *wireNode) (ast.Stmt, error) {
	if w == nil {
		return nil, &DecodeError{Reason: "missing statement"}
	}

	n, err := decodeNode(w)
	if err != nil {
		return nil, err
	}

	stmt, ok := n.(ast.Stmt)
	if !ok {
		return nil, &DecodeError{Kind: w.Kind, Reason: "expected a statement"}
	}

	return stmt, nil
}

func decodeCompound(w *wireNode) (*ast.CompoundStmt, error) {
	stmt, err := decodeStmt(w)
	if err != nil {
		return nil, err
	}

	compound, ok := stmt.(*ast.CompoundStmt)
	if !ok {
		return nil, &DecodeError{Kind: w.Kind, Reason: "expected a compound statement"}
	}

	return compound, nil
}

func decodeExprs(ws []*wireNode) ([]ast.Expr, error) {
	if len(ws) == 0 {
		return nil, nil
	}

	out := make([]ast.Expr, 0, len(ws))

	for _, w := range ws {
		e, err := decodeExpr(w)
		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, nil
}

func decodeStmts(ws []*wireNode) ([]ast.Stmt, error) {
	if len(ws) == 0 {
		return nil, nil
	}

	out := make([]ast.Stmt, 0, len(ws))

	for _, w := range ws {
		s, err := decodeStmt(w)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

// ----------------------------------------------------------------------------
// Public entry points
// ----------------------------------------------------------------------------

// MarshalNode serializes a tree, markers included, to its variant-tagged
// JSON form.
func MarshalNode(n ast.Node) ([]byte, error) {
	w := encodeNode(n)
	if w == nil {
		return nil, &DecodeError{Reason: fmt.Sprintf("unsupported node %T", n)}
	}

	return json.Marshal(w)
}

// UnmarshalNode rebuilds a tree, markers included, from its variant-tagged
// JSON form.
func UnmarshalNode(data []byte) (ast.Node, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}

	return decodeNode(&w)
}

type wireModule struct {
	Functions []wireFunction `json:"functions"`
}

type wireFunction struct {
	Name       string      `json:"name"`
	Params     []ast.Param `json:"params,omitempty"`
	ReturnType string      `json:"return_type,omitempty"`
	Body       *wireNode   `json:"body"`
}

// MarshalModule serializes a whole shader module.
func MarshalModule(m *ast.Module) ([]byte, error) {
	wm := wireModule{Functions: make([]wireFunction, 0, len(m.Functions))}

	for _, fn := range m.Functions {
		wm.Functions = append(wm.Functions, wireFunction{
			Name:       fn.Name,
			Params:     fn.Params,
			ReturnType: fn.ReturnType,
			Body:       encodeNode(fn.Body),
		})
	}

	return json.Marshal(wm)
}

// UnmarshalModule rebuilds a whole shader module.
func UnmarshalModule(data []byte) (*ast.Module, error) {
	var wm wireModule
	if err := json.Unmarshal(data, &wm); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}

	m := &ast.Module{Functions: make([]*ast.FunctionDecl, 0, len(wm.Functions))}

	for _, wf := range wm.Functions {
		body, err := decodeCompound(wf.Body)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", wf.Name, err)
		}

		m.Functions = append(m.Functions, &ast.FunctionDecl{
			Name:       wf.Name,
			Params:     wf.Params,
			ReturnType: wf.ReturnType,
			Body:       body,
		})
	}

	return m, nil
}
