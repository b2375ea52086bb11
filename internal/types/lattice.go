package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
)

// ErrNoCommonType is the sentinel that all common-type resolution failures
// wrap. Callers performing speculative checks match it with errors.Is and
// treat the failure as "not applicable" rather than a session-fatal error.
var ErrNoCommonType = errors.New("no common type")

// NoCommonTypeError reports that a sequence of types cannot be resolved to
// a single common type.
type NoCommonTypeError struct {
	Types []Type
}

func (e *NoCommonTypeError) Error() string {
	if len(e.Types) == 0 {
		return "no common type: empty type sequence"
	}

	names := make([]string, 0, len(e.Types))
	for _, t := range e.Types {
		names = append(names, t.String())
	}

	return fmt.Sprintf("no common type among [%s]", strings.Join(names, ", "))
}

func (e *NoCommonTypeError) Unwrap() error {
	return ErrNoCommonType
}

// IsAbstractionOf returns true if general is an abstraction of specific:
// identical types, a reference delegating through its store type, an
// abstract numeric type over one of its concretizations, or a composite
// whose shape matches and whose element types are in the relation.
//
// The relation is a partial order: reflexive and transitive, not symmetric.
func IsAbstractionOf(general, specific Type) bool {
	if general.Equals(specific) {
		return true
	}

	switch g := general.(type) {
	case *Reference:
		// A reference is transparently as abstract as its store type.
		return IsAbstractionOf(g.Store, specific)

	case *Scalar:
		s, ok := specific.(*Scalar)
		if !ok {
			return false
		}

		switch g.Kind {
		case ScalarAbstractFloat:
			return s.Kind == ScalarF16 || s.Kind == ScalarF32
		case ScalarAbstractInt:
			// Integer literals may concretize to any numeric type,
			// including the abstract float family.
			return s.Kind == ScalarI32 || s.Kind == ScalarU32 ||
				s.Kind == ScalarAbstractFloat || s.Kind == ScalarF32 || s.Kind == ScalarF16
		}

		return false

	case *Vector:
		s, ok := specific.(*Vector)
		if !ok || g.Width != s.Width {
			return false
		}

		return IsAbstractionOf(g.Element, s.Element)

	case *Matrix:
		s, ok := specific.(*Matrix)
		if !ok || g.Cols != s.Cols || g.Rows != s.Rows {
			return false
		}

		return IsAbstractionOf(g.Element, s.Element)

	case *Array:
		s, ok := specific.(*Array)
		if !ok || g.Count != s.Count {
			return false
		}

		return IsAbstractionOf(g.Element, s.Element)
	}

	return false
}

// FindCommonType resolves the single type that all given types may share.
//
// It folds left to right: the running result is replaced by a later type
// whenever the result is an abstraction of it; a later type that is itself
// an abstraction of the running result leaves the result unchanged. Any
// pair related in neither direction fails with a NoCommonTypeError, as
// does an empty sequence.
func FindCommonType(ts []Type) (Type, error) {
	if len(ts) == 0 {
		return nil, &NoCommonTypeError{}
	}

	result := ts[0]

	for _, t := range ts[1:] {
		if t.Equals(result) {
			continue
		}

		switch {
		case IsAbstractionOf(result, t):
			result = t
		case IsAbstractionOf(t, result):
			// Keep the more specific running result.
		default:
			return nil, &NoCommonTypeError{Types: ts}
		}
	}

	return result, nil
}

// DefaultConcretization maps abstract-int to i32 and abstract-float to f32,
// recursing structurally through composite types. Concrete types are
// returned unchanged, which makes the operation idempotent.
func DefaultConcretization(t Type) Type {
	switch ty := t.(type) {
	case *Scalar:
		switch ty.Kind {
		case ScalarAbstractInt:
			return I32
		case ScalarAbstractFloat:
			return F32
		}

	case *Vector:
		if elem := DefaultConcretization(ty.Element); elem != ty.Element {
			return &Vector{Width: ty.Width, Element: elem.(*Scalar)}
		}

	case *Matrix:
		if elem := DefaultConcretization(ty.Element); elem != ty.Element {
			return &Matrix{Cols: ty.Cols, Rows: ty.Rows, Element: elem.(*Scalar)}
		}

	case *Array:
		if elem := DefaultConcretization(ty.Element); elem != ty.Element {
			return &Array{Element: elem, Count: ty.Count}
		}

	case *Reference:
		if store := DefaultConcretization(ty.Store); store != ty.Store {
			return &Reference{Store: store}
		}
	}

	return t
}

// Resolver maps an expression to its already inferred type. Resolution
// itself lives outside this package.
type Resolver func(ast.Expr) (Type, error)

// CommonTypeOfExprs resolves each expression and folds the results through
// FindCommonType.
func CommonTypeOfExprs(resolve Resolver, exprs []ast.Expr) (Type, error) {
	ts := make([]Type, 0, len(exprs))

	for _, e := range exprs {
		t, err := resolve(e)
		if err != nil {
			return nil, err
		}

		ts = append(ts, t)
	}

	return FindCommonType(ts)
}
