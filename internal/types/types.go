// Package types models the WGSL value types that reduction reasoning needs:
// concrete numeric scalars, the abstract numeric types that exist before
// concretization, and the composite types built from them.
//
// Types are immutable values compared by structural equality. They are
// produced by an external type resolver and never mutated here.
package types

import "fmt"

// Type represents a WGSL value type.
type Type interface {
	// String returns the WGSL syntax for this type.
	String() string
	// Equals returns true if this type structurally equals another type.
	Equals(Type) bool
	// IsConcrete returns true if this is not an abstract numeric type
	// and contains no abstract element type.
	IsConcrete() bool
	// isType is a marker method.
	isType()
}

// ----------------------------------------------------------------------------
// Scalar Types
// ----------------------------------------------------------------------------

// ScalarKind represents the kind of scalar type.
type ScalarKind uint8

const (
	ScalarBool ScalarKind = iota
	ScalarI32
	ScalarU32
	ScalarF32
	ScalarF16
	ScalarAbstractInt
	ScalarAbstractFloat
)

// Scalar represents a scalar type, including the abstract numeric types
// that only exist before concretization.
type Scalar struct {
	Kind ScalarKind
}

func (s *Scalar) String() string {
	switch s.Kind {
	case ScalarBool:
		return "bool"
	case ScalarI32:
		return "i32"
	case ScalarU32:
		return "u32"
	case ScalarF32:
		return "f32"
	case ScalarF16:
		return "f16"
	case ScalarAbstractInt:
		return "abstract-int"
	case ScalarAbstractFloat:
		return "abstract-float"
	default:
		return "unknown"
	}
}

func (s *Scalar) Equals(other Type) bool {
	if o, ok := other.(*Scalar); ok {
		return s.Kind == o.Kind
	}

	return false
}

func (s *Scalar) IsConcrete() bool {
	return s.Kind != ScalarAbstractInt && s.Kind != ScalarAbstractFloat
}

func (s *Scalar) isType() {}

// IsInteger returns true if this is an integer type.
func (s *Scalar) IsInteger() bool {
	return s.Kind == ScalarI32 || s.Kind == ScalarU32 || s.Kind == ScalarAbstractInt
}

// IsFloat returns true if this is a floating-point type.
func (s *Scalar) IsFloat() bool {
	return s.Kind == ScalarF32 || s.Kind == ScalarF16 || s.Kind == ScalarAbstractFloat
}

// ----------------------------------------------------------------------------
// Vector Types
// ----------------------------------------------------------------------------

// Vector represents vec2<T>, vec3<T>, vec4<T>.
type Vector struct {
	Width   int // 2, 3, or 4
	Element *Scalar
}

func (v *Vector) String() string {
	return fmt.Sprintf("vec%d<%s>", v.Width, v.Element.String())
}

func (v *Vector) Equals(other Type) bool {
	if o, ok := other.(*Vector); ok {
		return v.Width == o.Width && v.Element.Equals(o.Element)
	}

	return false
}

func (v *Vector) IsConcrete() bool {
	return v.Element.IsConcrete()
}

func (v *Vector) isType() {}

// ----------------------------------------------------------------------------
// Matrix Types
// ----------------------------------------------------------------------------

// Matrix represents matCxR<T>. The element type is always a float type.
type Matrix struct {
	Cols    int // 2, 3, or 4
	Rows    int // 2, 3, or 4
	Element *Scalar
}

func (m *Matrix) String() string {
	return fmt.Sprintf("mat%dx%d<%s>", m.Cols, m.Rows, m.Element.String())
}

func (m *Matrix) Equals(other Type) bool {
	if o, ok := other.(*Matrix); ok {
		return m.Cols == o.Cols && m.Rows == o.Rows && m.Element.Equals(o.Element)
	}

	return false
}

func (m *Matrix) IsConcrete() bool {
	return m.Element.IsConcrete()
}

func (m *Matrix) isType() {}

// ----------------------------------------------------------------------------
// Array Types
// ----------------------------------------------------------------------------

// Array represents array<T, N> or array<T> (runtime-sized when Count is 0).
type Array struct {
	Element Type
	Count   int
}

func (a *Array) String() string {
	if a.Count == 0 {
		return fmt.Sprintf("array<%s>", a.Element.String())
	}

	return fmt.Sprintf("array<%s, %d>", a.Element.String(), a.Count)
}

func (a *Array) Equals(other Type) bool {
	if o, ok := other.(*Array); ok {
		return a.Count == o.Count && a.Element.Equals(o.Element)
	}

	return false
}

func (a *Array) IsConcrete() bool {
	return a.Element.IsConcrete()
}

func (a *Array) isType() {}

// IsRuntimeSized returns true if this is a runtime-sized array.
func (a *Array) IsRuntimeSized() bool {
	return a.Count == 0
}

// ----------------------------------------------------------------------------
// Reference Types
// ----------------------------------------------------------------------------

// Reference wraps a store type, representing an addressable location.
// All lattice operations delegate transparently through the store type.
type Reference struct {
	Store Type
}

func (r *Reference) String() string {
	return fmt.Sprintf("ref<%s>", r.Store.String())
}

func (r *Reference) Equals(other Type) bool {
	if o, ok := other.(*Reference); ok {
		return r.Store.Equals(o.Store)
	}

	return false
}

func (r *Reference) IsConcrete() bool {
	return r.Store.IsConcrete()
}

func (r *Reference) isType() {}

// ----------------------------------------------------------------------------
// Singleton Type Instances and Constructors
// ----------------------------------------------------------------------------

var (
	Bool          = &Scalar{Kind: ScalarBool}
	I32           = &Scalar{Kind: ScalarI32}
	U32           = &Scalar{Kind: ScalarU32}
	F32           = &Scalar{Kind: ScalarF32}
	F16           = &Scalar{Kind: ScalarF16}
	AbstractInt   = &Scalar{Kind: ScalarAbstractInt}
	AbstractFloat = &Scalar{Kind: ScalarAbstractFloat}
)

// Vec creates a vector type.
func Vec(width int, elem *Scalar) *Vector {
	return &Vector{Width: width, Element: elem}
}

// Mat creates a matrix type.
func Mat(cols, rows int, elem *Scalar) *Matrix {
	return &Matrix{Cols: cols, Rows: rows, Element: elem}
}

// Arr creates a fixed-size array type.
func Arr(elem Type, count int) *Array {
	return &Array{Element: elem, Count: count}
}

// RuntimeArr creates a runtime-sized array type.
func RuntimeArr(elem Type) *Array {
	return &Array{Element: elem}
}

// Ref creates a reference type around a store type.
func Ref(store Type) *Reference {
	return &Reference{Store: store}
}

// Deref unwraps a reference to its store type; other types pass through.
func Deref(t Type) Type {
	if ref, ok := t.(*Reference); ok {
		return Deref(ref.Store)
	}

	return t
}
