// Package printer emits WGSL text from a shader tree.
//
// Mutation markers are printed as the code they currently stand for; before
// each statement the printer invokes the commentary hook of every marker the
// statement carries, so the emitted program documents the transformations
// applied to it. Commentary is purely presentational and never changes the
// code being printed.
package printer

import (
	"strings"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/augment"
)

const indentUnit = "    "

// Options controls printer output.
type Options struct {
	// OmitCommentary suppresses marker commentary lines.
	OmitCommentary bool
}

// Printer outputs WGSL code.
type Printer struct {
	options Options

	buf    strings.Builder
	indent int
}

// New creates a new printer.
func New(options Options) *Printer {
	return &Printer{options: options}
}

// PrintModule outputs the whole module as a string.
func (p *Printer) PrintModule(m *ast.Module) string {
	p.buf.Reset()

	for i, fn := range m.Functions {
		if i > 0 {
			p.buf.WriteByte('\n')
		}

		p.printFunction(fn)
	}

	return p.buf.String()
}

// PrintStmt outputs a single statement as a string.
func (p *Printer) PrintStmt(s ast.Stmt) string {
	p.buf.Reset()
	p.printStmt(s)

	return p.buf.String()
}

// PrintExpr outputs a single expression as a string.
func (p *Printer) PrintExpr(e ast.Expr) string {
	p.buf.Reset()
	p.printExpr(e)

	return p.buf.String()
}

// ----------------------------------------------------------------------------
// Commentary sink
// ----------------------------------------------------------------------------

// WriteLine appends one raw output line. Part of the augment.CommentSink
// capability handed to markers.
func (p *Printer) WriteLine(line string) {
	p.buf.WriteString(line)
	p.buf.WriteByte('\n')
}

// CurrentIndent returns the indentation prefix at the current position.
func (p *Printer) CurrentIndent() string {
	return strings.Repeat(indentUnit, p.indent)
}

var _ augment.CommentSink = (*Printer)(nil)

// ----------------------------------------------------------------------------
// Declarations
// ----------------------------------------------------------------------------

func (p *Printer) printFunction(fn *ast.FunctionDecl) {
	p.buf.WriteString("fn ")
	p.buf.WriteString(fn.Name)
	p.buf.WriteByte('(')

	for i, param := range fn.Params {
		if i > 0 {
			p.buf.WriteString(", ")
		}

		p.buf.WriteString(param.Name)
		p.buf.WriteString(": ")
		p.buf.WriteString(param.Type)
	}

	p.buf.WriteByte(')')

	if fn.ReturnType != "" {
		p.buf.WriteString(" -> ")
		p.buf.WriteString(fn.ReturnType)
	}

	p.buf.WriteByte(' ')
	p.printCompoundInline(fn.Body)
	p.buf.WriteByte('\n')
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Printer) printStmt(s ast.Stmt) {
	if !p.options.OmitCommentary {
		p.emitStatementCommentary(s)
	}

	p.buf.WriteString(p.CurrentIndent())
	p.printStmtBody(s)
	p.buf.WriteByte('\n')
}

// emitStatementCommentary invokes the commentary hook of the statement's own
// marker (if the statement is one) and of every marker carried by the
// statement's directly attached expressions. Markers inside nested statement
// bodies emit when their own statement is printed.
func (p *Printer) emitStatementCommentary(s ast.Stmt) {
	if marker, ok := s.(augment.Marker); ok {
		marker.EmitCommentary(p)
	}

	// Statement markers print as their target, so the target's attached
	// expression commentary belongs to this line too.
	switch stmt := s.(type) {
	case *augment.DeletableStatement:
		p.emitStatementCommentary(stmt.Target)
		return
	case *augment.DeadCodeFragment:
		p.emitStatementCommentary(stmt.Target)
		return
	case *augment.EmptiableCompound:
		return
	}

	for _, e := range statementExprs(s) {
		p.emitExprCommentary(e)
	}
}

func (p *Printer) emitExprCommentary(e ast.Expr) {
	augment.Inspect(e, func(n ast.Node) bool {
		if marker, ok := n.(augment.Marker); ok {
			marker.EmitCommentary(p)
		}

		return true
	})
}

// statementExprs returns the expressions directly attached to a statement.
func statementExprs(s ast.Stmt) []ast.Expr {
	switch stmt := s.(type) {
	case *ast.IfStmt:
		return []ast.Expr{stmt.Condition}
	case *ast.WhileStmt:
		return []ast.Expr{stmt.Condition}
	case *ast.ForStmt:
		if stmt.Condition != nil {
			return []ast.Expr{stmt.Condition}
		}
	case *ast.ReturnStmt:
		if stmt.Value != nil {
			return []ast.Expr{stmt.Value}
		}
	case *ast.AssignStmt:
		return []ast.Expr{stmt.Left, stmt.Right}
	case *ast.DeclStmt:
		if stmt.Initializer != nil {
			return []ast.Expr{stmt.Initializer}
		}
	case *ast.CallStmt:
		return []ast.Expr{stmt.Call}
	}

	return nil
}

func (p *Printer) printStmtBody(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.CompoundStmt:
		p.printCompoundInline(stmt)

	case *ast.IfStmt:
		p.buf.WriteString("if ")
		p.printExpr(stmt.Condition)
		p.buf.WriteByte(' ')
		p.printCompoundInline(stmt.Body)

		if stmt.Else != nil {
			p.buf.WriteString(" else ")

			switch elseStmt := stmt.Else.(type) {
			case *ast.CompoundStmt:
				p.printCompoundInline(elseStmt)
			default:
				p.printStmtBody(elseStmt)
			}
		}

	case *ast.WhileStmt:
		p.buf.WriteString("while ")
		p.printExpr(stmt.Condition)
		p.buf.WriteByte(' ')
		p.printCompoundInline(stmt.Body)

	case *ast.ForStmt:
		p.buf.WriteString("for (")

		if stmt.Init != nil {
			p.printStmtBody(stmt.Init)
		}

		p.buf.WriteString("; ")

		if stmt.Condition != nil {
			p.printExpr(stmt.Condition)
		}

		p.buf.WriteString("; ")

		if stmt.Update != nil {
			p.printStmtBody(stmt.Update)
		}

		p.buf.WriteString(") ")
		p.printCompoundInline(stmt.Body)

	case *ast.LoopStmt:
		p.buf.WriteString("loop ")
		p.printCompoundInline(stmt.Body)

	case *ast.ReturnStmt:
		p.buf.WriteString("return")

		if stmt.Value != nil {
			p.buf.WriteByte(' ')
			p.printExpr(stmt.Value)
		}

		p.buf.WriteByte(';')

	case *ast.AssignStmt:
		p.printExpr(stmt.Left)
		p.buf.WriteString(" = ")
		p.printExpr(stmt.Right)
		p.buf.WriteByte(';')

	case *ast.DeclStmt:
		p.buf.WriteString(stmt.Kind.String())
		p.buf.WriteByte(' ')
		p.buf.WriteString(stmt.Name)

		if stmt.Initializer != nil {
			p.buf.WriteString(" = ")
			p.printExpr(stmt.Initializer)
		}

		p.buf.WriteByte(';')

	case *ast.CallStmt:
		p.printExpr(stmt.Call)
		p.buf.WriteByte(';')

	case *ast.BreakStmt:
		p.buf.WriteString("break;")
	case *ast.ContinueStmt:
		p.buf.WriteString("continue;")
	case *ast.DiscardStmt:
		p.buf.WriteString("discard;")

	case *augment.DeletableStatement:
		p.printStmtBody(stmt.Target)
	case *augment.EmptiableCompound:
		p.printCompoundInline(stmt.Target)
	case *augment.DeadCodeFragment:
		p.printStmtBody(stmt.Target)
	}
}

// printCompoundInline prints a block starting at the current position,
// leaving the closing brace unterminated so callers control the line end.
func (p *Printer) printCompoundInline(c *ast.CompoundStmt) {
	if len(c.Stmts) == 0 {
		p.buf.WriteString("{}")
		return
	}

	p.buf.WriteString("{\n")
	p.indent++

	for _, s := range c.Stmts {
		p.printStmt(s)
	}

	p.indent--
	p.buf.WriteString(p.CurrentIndent())
	p.buf.WriteByte('}')
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func (p *Printer) printExpr(e ast.Expr) {
	switch expr := e.(type) {
	case *ast.IdentExpr:
		p.buf.WriteString(expr.Name)

	case *ast.LiteralExpr:
		p.buf.WriteString(expr.Value)

	case *ast.BinaryExpr:
		p.printExpr(expr.Left)
		p.buf.WriteByte(' ')
		p.buf.WriteString(expr.Op.String())
		p.buf.WriteByte(' ')
		p.printExpr(expr.Right)

	case *ast.UnaryExpr:
		p.buf.WriteString(expr.Op.String())
		p.printExpr(expr.Operand)

	case *ast.CallExpr:
		p.buf.WriteString(expr.Callee)
		p.buf.WriteByte('(')

		for i, arg := range expr.Args {
			if i > 0 {
				p.buf.WriteString(", ")
			}

			p.printExpr(arg)
		}

		p.buf.WriteByte(')')

	case *ast.IndexExpr:
		p.printExpr(expr.Base)
		p.buf.WriteByte('[')
		p.printExpr(expr.Index)
		p.buf.WriteByte(']')

	case *ast.MemberExpr:
		p.printExpr(expr.Base)
		p.buf.WriteByte('.')
		p.buf.WriteString(expr.Member)

	case *ast.ParenExpr:
		p.buf.WriteByte('(')
		p.printExpr(expr.Inner)
		p.buf.WriteByte(')')

	case *augment.ParenInsertion:
		p.printExpr(expr.Target)
	case *augment.BinaryLeftCollapse:
		p.printExpr(expr.Target)
	case *augment.BinaryRightCollapse:
		p.printExpr(expr.Target)
	case *augment.KnownFalse:
		p.printExpr(expr.Target)
	case *augment.KnownTrue:
		p.printExpr(expr.Target)
	}
}
