package augment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
)

// fullyAugmentedModule builds a module exercising every node and marker
// variant the wire format knows about.
func fullyAugmentedModule(t *testing.T) *ast.Module {
	t.Helper()

	ids := NewIdentitySource()

	paren := NewParenInsertion(ids, &ast.BinaryExpr{
		Op:    ast.BinOpAdd,
		Left:  &ast.IdentExpr{Name: "a"},
		Right: &ast.LiteralExpr{Value: "1"},
	}, "parenthesized sum")

	leftCollapse := NewBinaryLeftCollapse(ids, &ast.BinaryExpr{
		Op:    ast.BinOpMul,
		Left:  &ast.IdentExpr{Name: "b"},
		Right: &ast.CallExpr{Callee: "min", Args: []ast.Expr{&ast.IdentExpr{Name: "c"}, &ast.LiteralExpr{Value: "4u"}}},
	}, "")

	rightCollapse := NewBinaryRightCollapse(ids, &ast.BinaryExpr{
		Op:    ast.BinOpLogicalOr,
		Left:  &ast.UnaryExpr{Op: ast.UnaryOpNot, Operand: &ast.IdentExpr{Name: "flag"}},
		Right: &ast.BinaryExpr{Op: ast.BinOpLt, Left: &ast.IdentExpr{Name: "i"}, Right: &ast.LiteralExpr{Value: "10"}},
	}, "original condition kept on the right")

	deletable := NewDeletableStatement(ids, &ast.AssignStmt{
		Left:  &ast.IndexExpr{Base: &ast.IdentExpr{Name: "buf"}, Index: &ast.IdentExpr{Name: "i"}},
		Right: &ast.MemberExpr{Base: &ast.IdentExpr{Name: "v"}, Member: "x"},
	}, "store injected after the loop")

	emptiable := NewEmptiableCompound(ids, &ast.CompoundStmt{Stmts: []ast.Stmt{
		&ast.CallStmt{Call: &ast.CallExpr{Callee: "workgroupBarrier"}},
		&ast.ContinueStmt{},
	}}, "")

	guard := NewKnownFalse(ids, &ast.BinaryExpr{
		Op:    ast.BinOpGt,
		Left:  &ast.IdentExpr{Name: "zero"},
		Right: &ast.LiteralExpr{Value: "0"},
	}, "zero is never positive here")

	dead, err := NewDeadCodeFragment(ids, &ast.IfStmt{
		Condition: guard,
		Body: &ast.CompoundStmt{Stmts: []ast.Stmt{
			&ast.DiscardStmt{},
		}},
		Else: &ast.CompoundStmt{},
	}, "unreachable branch")
	require.NoError(t, err)

	knownTrue := NewKnownTrue(ids, &ast.LiteralExpr{Value: "true"}, "")

	body := &ast.CompoundStmt{Stmts: []ast.Stmt{
		&ast.DeclStmt{Kind: ast.DeclVar, Name: "acc", Initializer: paren},
		&ast.DeclStmt{Kind: ast.DeclLet, Name: "scaled", Initializer: leftCollapse},
		&ast.DeclStmt{Kind: ast.DeclConst, Name: "limit"},
		&ast.ForStmt{
			Init:      &ast.DeclStmt{Kind: ast.DeclVar, Name: "i", Initializer: &ast.LiteralExpr{Value: "0"}},
			Condition: rightCollapse,
			Update: &ast.AssignStmt{
				Left:  &ast.IdentExpr{Name: "i"},
				Right: &ast.BinaryExpr{Op: ast.BinOpAdd, Left: &ast.IdentExpr{Name: "i"}, Right: &ast.LiteralExpr{Value: "1"}},
			},
			Body: &ast.CompoundStmt{Stmts: []ast.Stmt{
				&ast.IfStmt{
					Condition: knownTrue,
					Body:      &ast.CompoundStmt{Stmts: []ast.Stmt{&ast.BreakStmt{}}},
				},
			}},
		},
		deletable,
		&ast.WhileStmt{
			Condition: &ast.ParenExpr{Inner: &ast.IdentExpr{Name: "running"}},
			Body:      &ast.CompoundStmt{Stmts: []ast.Stmt{emptiable}},
		},
		&ast.LoopStmt{Body: &ast.CompoundStmt{Stmts: []ast.Stmt{&ast.BreakStmt{}}}},
		dead,
		&ast.ReturnStmt{Value: &ast.IdentExpr{Name: "acc"}},
	}}

	return &ast.Module{Functions: []*ast.FunctionDecl{
		{
			Name:       "main",
			Params:     []ast.Param{{Name: "gid", Type: "vec3<u32>"}},
			ReturnType: "f32",
			Body:       body,
		},
		{
			Name: "helper",
			Body: &ast.CompoundStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{}}},
		},
	}}
}

func TestMarshalModule_RoundTripsEveryVariant(t *testing.T) {
	original := fullyAugmentedModule(t)

	data, err := MarshalModule(original)
	require.NoError(t, err)

	decoded, err := UnmarshalModule(data)
	require.NoError(t, err)

	// Structural equality via a second encode: the wire form is canonical.
	again, err := MarshalModule(decoded)
	require.NoError(t, err)
	require.JSONEq(t, string(data), string(again))
}

func TestMarshalModule_PreservesIdentityAndCommentary(t *testing.T) {
	original := fullyAugmentedModule(t)

	originalMarkers, err := CollectModule(original)
	require.NoError(t, err)

	data, err := MarshalModule(original)
	require.NoError(t, err)

	decoded, err := UnmarshalModule(data)
	require.NoError(t, err)

	decodedMarkers, err := CollectModule(decoded)
	require.NoError(t, err)
	require.Equal(t, originalMarkers.Len(), decodedMarkers.Len())

	for _, want := range originalMarkers.SortedByID() {
		got, ok := decodedMarkers.Lookup(want.ID())
		require.True(t, ok, "marker %d lost in round trip", want.ID())
		require.IsType(t, want, got)
		require.Equal(t, want.Commentary(), got.Commentary())
	}
}

func TestMarshalNode_RoundTripsSingleMarker(t *testing.T) {
	ids := NewIdentitySource()
	marker := NewParenInsertion(ids, &ast.IdentExpr{Name: "x"}, "note")

	data, err := MarshalNode(marker)
	require.NoError(t, err)

	decoded, err := UnmarshalNode(data)
	require.NoError(t, err)

	got, ok := decoded.(*ParenInsertion)
	require.True(t, ok)
	require.Equal(t, marker.ID(), got.ID())
	require.Equal(t, "note", got.Commentary())

	inner, ok := got.Target.Inner.(*ast.IdentExpr)
	require.True(t, ok)
	require.Equal(t, "x", inner.Name)
}

func TestUnmarshalNode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{"},
		{"unknown variant", `{"kind": "switch"}`},
		{"binary unknown operator", `{"kind": "binary", "op": "**", "left": {"kind": "ident", "name": "a"}, "right": {"kind": "ident", "name": "b"}}`},
		{"binary missing operand", `{"kind": "binary", "op": "+", "left": {"kind": "ident", "name": "a"}}`},
		{"unary unknown operator", `{"kind": "unary", "op": "++", "inner": {"kind": "ident", "name": "a"}}`},
		{"decl unknown kind", `{"kind": "decl", "decl_kind": "static", "name": "x"}`},
		{"call stmt without call", `{"kind": "call_stmt", "inner": {"kind": "ident", "name": "f"}}`},
		{"if body not compound", `{"kind": "if", "condition": {"kind": "ident", "name": "c"}, "body": {"kind": "break"}}`},
		{"statement where expression expected", `{"kind": "paren", "inner": {"kind": "break"}}`},
		{"paren insertion wrong target", `{"kind": "paren_insertion", "id": 1, "target": {"kind": "ident", "name": "x"}}`},
		{"left collapse wrong target", `{"kind": "binary_left_collapse", "id": 1, "target": {"kind": "ident", "name": "x"}}`},
		{"emptiable compound wrong target", `{"kind": "emptiable_compound", "id": 1, "target": {"kind": "break"}}`},
		{"dead code without guard", `{"kind": "dead_code_fragment", "id": 1, "target": {"kind": "if", "condition": {"kind": "literal", "value": "false"}, "body": {"kind": "compound"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalNode([]byte(tt.input))
			require.Error(t, err)

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
		})
	}
}

func TestUnmarshalNode_DeadCodeGuardRevalidated(t *testing.T) {
	// A serialized dead-code wrapper whose guard really is a known-false
	// wrapper decodes fine.
	input := `{
		"kind": "dead_code_fragment", "id": 7, "commentary": "dead",
		"target": {
			"kind": "while",
			"condition": {"kind": "known_false", "id": 8, "target": {"kind": "literal", "value": "false"}},
			"body": {"kind": "compound"}
		}
	}`

	decoded, err := UnmarshalNode([]byte(input))
	require.NoError(t, err)

	dead, ok := decoded.(*DeadCodeFragment)
	require.True(t, ok)
	require.Equal(t, uint64(7), dead.ID())
	require.Equal(t, "dead", dead.Commentary())
}
