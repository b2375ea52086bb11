package types

import (
	"errors"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name   string
		input  Type
		expect string
	}{
		{"bool", Bool, "bool"},
		{"i32", I32, "i32"},
		{"u32", U32, "u32"},
		{"f32", F32, "f32"},
		{"f16", F16, "f16"},
		{"abstract int", AbstractInt, "abstract-int"},
		{"abstract float", AbstractFloat, "abstract-float"},
		{"vector", Vec(3, F32), "vec3<f32>"},
		{"matrix", Mat(4, 2, F16), "mat4x2<f16>"},
		{"sized array", Arr(I32, 8), "array<i32, 8>"},
		{"runtime array", RuntimeArr(U32), "array<u32>"},
		{"reference", Ref(Vec(2, I32)), "ref<vec2<i32>>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.String(); got != tt.expect {
				t.Errorf("String() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestEquals(t *testing.T) {
	tests := []struct {
		name   string
		left   Type
		right  Type
		expect bool
	}{
		{"same scalar", I32, &Scalar{Kind: ScalarI32}, true},
		{"different scalar", I32, U32, false},
		{"scalar vs vector", I32, Vec(2, I32), false},
		{"same vector", Vec(3, F32), Vec(3, F32), true},
		{"vector width differs", Vec(2, F32), Vec(3, F32), false},
		{"vector element differs", Vec(3, F32), Vec(3, F16), false},
		{"same matrix", Mat(2, 4, F32), Mat(2, 4, F32), true},
		{"matrix transposed", Mat(2, 4, F32), Mat(4, 2, F32), false},
		{"same array", Arr(I32, 4), Arr(I32, 4), true},
		{"array count differs", Arr(I32, 4), Arr(I32, 5), false},
		{"sized vs runtime array", Arr(I32, 4), RuntimeArr(I32), false},
		{"same reference", Ref(I32), Ref(I32), true},
		{"reference vs store", Ref(I32), I32, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.left.Equals(tt.right); got != tt.expect {
				t.Errorf("%s.Equals(%s) = %v, want %v", tt.left, tt.right, got, tt.expect)
			}
		})
	}
}

func TestIsConcrete(t *testing.T) {
	tests := []struct {
		name   string
		input  Type
		expect bool
	}{
		{"bool", Bool, true},
		{"i32", I32, true},
		{"abstract int", AbstractInt, false},
		{"abstract float", AbstractFloat, false},
		{"concrete vector", Vec(2, U32), true},
		{"abstract vector", Vec(2, AbstractInt), false},
		{"abstract matrix", Mat(3, 3, AbstractFloat), false},
		{"abstract array", Arr(AbstractInt, 2), false},
		{"concrete nested array", Arr(Vec(4, F16), 2), true},
		{"reference to abstract", Ref(AbstractFloat), false},
		{"reference to concrete", Ref(F32), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.IsConcrete(); got != tt.expect {
				t.Errorf("IsConcrete(%s) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestScalarPredicates(t *testing.T) {
	integers := []*Scalar{I32, U32, AbstractInt}
	floats := []*Scalar{F32, F16, AbstractFloat}

	for _, s := range integers {
		if !s.IsInteger() || s.IsFloat() {
			t.Errorf("%s should be integer only", s)
		}
	}

	for _, s := range floats {
		if !s.IsFloat() || s.IsInteger() {
			t.Errorf("%s should be float only", s)
		}
	}

	if Bool.IsInteger() || Bool.IsFloat() {
		t.Error("bool is neither integer nor float")
	}
}

func TestDeref(t *testing.T) {
	tests := []struct {
		name   string
		input  Type
		expect Type
	}{
		{"plain type passes through", I32, I32},
		{"single reference", Ref(F32), F32},
		{"nested reference", Ref(Ref(Vec(2, I32))), Vec(2, I32)},
		{"composite passes through", Arr(Ref(I32), 2), Arr(Ref(I32), 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Deref(tt.input); !got.Equals(tt.expect) {
				t.Errorf("Deref(%s) = %s, want %s", tt.input, got, tt.expect)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, typ := range sampleTypes() {
		t.Run(typ.String(), func(t *testing.T) {
			data, err := MarshalType(typ)
			if err != nil {
				t.Fatalf("MarshalType: %v", err)
			}

			got, err := UnmarshalType(data)
			if err != nil {
				t.Fatalf("UnmarshalType: %v", err)
			}

			if !got.Equals(typ) {
				t.Errorf("round trip changed %s into %s", typ, got)
			}
		})
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{"},
		{"unknown variant", `{"kind": "texture"}`},
		{"vector without element", `{"kind": "vector", "width": 2}`},
		{"vector bad width", `{"kind": "vector", "width": 5, "element": {"kind": "i32"}}`},
		{"vector composite element", `{"kind": "vector", "width": 2, "element": {"kind": "vector", "width": 2, "element": {"kind": "i32"}}}`},
		{"matrix integer element", `{"kind": "matrix", "cols": 2, "rows": 2, "element": {"kind": "i32"}}`},
		{"matrix bad dims", `{"kind": "matrix", "cols": 1, "rows": 2, "element": {"kind": "f32"}}`},
		{"array negative count", `{"kind": "array", "count": -1, "element": {"kind": "i32"}}`},
		{"reference without store", `{"kind": "reference"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalType([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}

			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("error %v is not a DecodeError", err)
			}
		})
	}
}
