package types

import (
	"errors"
	"testing"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
)

func sampleTypes() []Type {
	return []Type{
		Bool, I32, U32, F32, F16, AbstractInt, AbstractFloat,
		Vec(2, I32), Vec(3, AbstractFloat), Vec(4, F16),
		Mat(2, 2, F32), Mat(3, 2, AbstractFloat),
		Arr(I32, 4), Arr(Vec(3, F32), 2), RuntimeArr(U32),
		Ref(I32), Ref(Vec(4, AbstractInt)),
	}
}

func TestIsAbstractionOfReflexive(t *testing.T) {
	for _, typ := range sampleTypes() {
		if !IsAbstractionOf(typ, typ) {
			t.Errorf("expected %s to be an abstraction of itself", typ)
		}
	}
}

func TestIsAbstractionOf(t *testing.T) {
	tests := []struct {
		name     string
		general  Type
		specific Type
		expect   bool
	}{
		{"abstract int to i32", AbstractInt, I32, true},
		{"abstract int to u32", AbstractInt, U32, true},
		{"abstract int to f32", AbstractInt, F32, true},
		{"abstract int to f16", AbstractInt, F16, true},
		{"abstract int to abstract float", AbstractInt, AbstractFloat, true},
		{"abstract float to f32", AbstractFloat, F32, true},
		{"abstract float to f16", AbstractFloat, F16, true},
		{"abstract float to i32", AbstractFloat, I32, false},
		{"abstract float to abstract int", AbstractFloat, AbstractInt, false},
		{"i32 to abstract int", I32, AbstractInt, false},
		{"i32 to u32", I32, U32, false},
		{"f16 to f32", F16, F32, false},
		{"bool to i32", Bool, I32, false},
		{"vector element-wise", Vec(3, AbstractInt), Vec(3, U32), true},
		{"vector width mismatch", Vec(2, AbstractInt), Vec(3, U32), false},
		{"vector not scalar", Vec(3, AbstractInt), U32, false},
		{"matrix element-wise", Mat(2, 3, AbstractFloat), Mat(2, 3, F16), true},
		{"matrix dims mismatch", Mat(2, 3, AbstractFloat), Mat(3, 2, F16), false},
		{"array element-wise", Arr(AbstractInt, 4), Arr(I32, 4), true},
		{"array count mismatch", Arr(AbstractInt, 4), Arr(I32, 8), false},
		{"runtime array element-wise", RuntimeArr(AbstractFloat), RuntimeArr(F32), true},
		{"runtime vs sized array", RuntimeArr(AbstractInt), Arr(I32, 4), false},
		{"reference delegates to store", Ref(AbstractInt), I32, true},
		{"reference over its own store", Ref(I32), I32, true},
		{"specific reference not unwrapped", Ref(AbstractInt), Ref(I32), false},
		{"nested vector in array", Arr(Vec(2, AbstractFloat), 3), Arr(Vec(2, F16), 3), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsAbstractionOf(tt.general, tt.specific)
			if got != tt.expect {
				t.Errorf("IsAbstractionOf(%s, %s) = %v, want %v", tt.general, tt.specific, got, tt.expect)
			}
		})
	}
}

// The abstraction order is antisymmetric: two distinct types are never
// abstractions of each other.
func TestIsAbstractionOfAntisymmetric(t *testing.T) {
	samples := sampleTypes()

	for _, a := range samples {
		for _, b := range samples {
			if a.Equals(b) {
				continue
			}

			if IsAbstractionOf(a, b) && IsAbstractionOf(b, a) {
				t.Errorf("both %s and %s abstract each other", a, b)
			}
		}
	}
}

func TestFindCommonType(t *testing.T) {
	tests := []struct {
		name   string
		input  []Type
		expect Type
	}{
		{"single type", []Type{I32}, I32},
		{"all equal", []Type{F32, F32, F32}, F32},
		{"abstract and concrete int", []Type{AbstractInt, I32}, I32},
		{"concrete then abstract", []Type{U32, AbstractInt}, U32},
		{"abstract int and float", []Type{AbstractInt, AbstractFloat}, AbstractFloat},
		{"abstract chain to f16", []Type{AbstractInt, AbstractFloat, F16}, F16},
		{"vectors", []Type{Vec(3, AbstractInt), Vec(3, F32)}, Vec(3, F32)},
		{"arrays", []Type{Arr(AbstractFloat, 2), Arr(F16, 2)}, Arr(F16, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindCommonType(tt.input)
			if err != nil {
				t.Fatalf("FindCommonType: %v", err)
			}

			if !got.Equals(tt.expect) {
				t.Errorf("FindCommonType = %s, want %s", got, tt.expect)
			}
		})
	}
}

func TestFindCommonTypeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []Type
	}{
		{"empty input", nil},
		{"unrelated scalars", []Type{I32, U32}},
		{"bool and i32", []Type{Bool, I32}},
		{"f16 and f32", []Type{F16, F32}},
		{"width mismatch", []Type{Vec(2, AbstractInt), Vec(3, I32)}},
		{"late conflict", []Type{AbstractInt, I32, U32}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FindCommonType(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, ErrNoCommonType) {
				t.Errorf("error %v does not wrap ErrNoCommonType", err)
			}

			var nct *NoCommonTypeError
			if !errors.As(err, &nct) {
				t.Errorf("error %v is not a NoCommonTypeError", err)
			}
		})
	}
}

func TestDefaultConcretization(t *testing.T) {
	tests := []struct {
		name   string
		input  Type
		expect Type
	}{
		{"abstract int", AbstractInt, I32},
		{"abstract float", AbstractFloat, F32},
		{"concrete passes through", F16, F16},
		{"bool passes through", Bool, Bool},
		{"vector", Vec(4, AbstractInt), Vec(4, I32)},
		{"matrix", Mat(2, 3, AbstractFloat), Mat(2, 3, F32)},
		{"array", Arr(AbstractInt, 5), Arr(I32, 5)},
		{"runtime array", RuntimeArr(AbstractFloat), RuntimeArr(F32)},
		{"reference", Ref(Vec(2, AbstractInt)), Ref(Vec(2, I32))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultConcretization(tt.input)
			if !got.Equals(tt.expect) {
				t.Errorf("DefaultConcretization(%s) = %s, want %s", tt.input, got, tt.expect)
			}

			if !got.IsConcrete() {
				t.Errorf("DefaultConcretization(%s) = %s is not concrete", tt.input, got)
			}

			// Concretization is idempotent.
			again := DefaultConcretization(got)
			if !again.Equals(got) {
				t.Errorf("DefaultConcretization not idempotent on %s", got)
			}
		})
	}
}

// Concretization respects the abstraction order: the concrete result is
// always a specialization of its abstract input.
func TestDefaultConcretizationRefines(t *testing.T) {
	for _, typ := range sampleTypes() {
		concrete := DefaultConcretization(typ)
		if !IsAbstractionOf(Deref(typ), Deref(concrete)) {
			t.Errorf("%s is not an abstraction of its concretization %s", typ, concrete)
		}
	}
}

func TestCommonTypeOfExprs(t *testing.T) {
	scope := map[string]Type{
		"a": AbstractInt,
		"b": F16,
		"c": AbstractFloat,
	}
	resolve := func(e ast.Expr) (Type, error) {
		ident, ok := e.(*ast.IdentExpr)
		if !ok {
			return nil, errors.New("not an identifier")
		}
		typ, ok := scope[ident.Name]
		if !ok {
			return nil, errors.New("unknown identifier " + ident.Name)
		}
		return typ, nil
	}

	got, err := CommonTypeOfExprs(resolve, []ast.Expr{
		&ast.IdentExpr{Name: "a"},
		&ast.IdentExpr{Name: "c"},
		&ast.IdentExpr{Name: "b"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equals(F16) {
		t.Errorf("expected f16, got %s", got)
	}
}

func TestCommonTypeOfExprsErrors(t *testing.T) {
	failing := func(ast.Expr) (Type, error) {
		return nil, errors.New("resolution failed")
	}
	if _, err := CommonTypeOfExprs(failing, []ast.Expr{&ast.IdentExpr{Name: "x"}}); err == nil {
		t.Fatal("expected resolver error to propagate")
	}

	constant := func(ast.Expr) (Type, error) { return Bool, nil }
	if _, err := CommonTypeOfExprs(constant, nil); !errors.Is(err, ErrNoCommonType) {
		t.Errorf("expected ErrNoCommonType for empty input, got %v", err)
	}
}
