package types

import (
	"encoding/json"
	"fmt"
)

// Stable variant tags for the serialized form. These are part of the
// compatibility contract for persisted fuzzing sessions and crash reports;
// do not renumber or rename.
const (
	tagBool          = "bool"
	tagI32           = "i32"
	tagU32           = "u32"
	tagF32           = "f32"
	tagF16           = "f16"
	tagAbstractInt   = "abstract_int"
	tagAbstractFloat = "abstract_float"
	tagVector        = "vector"
	tagMatrix        = "matrix"
	tagArray         = "array"
	tagReference     = "reference"
)

// DecodeError reports a serialized form whose shape does not match any
// known Type variant. The persistence layer receives it as-is; this
// package neither swallows nor retries decoding failures.
type DecodeError struct {
	Kind   string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("decode type: %s", e.Reason)
	}

	return fmt.Sprintf("decode type %q: %s", e.Kind, e.Reason)
}

type wireType struct {
	Kind    string    `json:"kind"`
	Width   int       `json:"width,omitempty"`
	Cols    int       `json:"cols,omitempty"`
	Rows    int       `json:"rows,omitempty"`
	Count   int       `json:"count,omitempty"`
	Element *wireType `json:"element,omitempty"`
	Store   *wireType `json:"store,omitempty"`
}

func toWire(t Type) *wireType {
	switch ty := t.(type) {
	case *Scalar:
		return &wireType{Kind: scalarTag(ty.Kind)}
	case *Vector:
		return &wireType{Kind: tagVector, Width: ty.Width, Element: toWire(ty.Element)}
	case *Matrix:
		return &wireType{Kind: tagMatrix, Cols: ty.Cols, Rows: ty.Rows, Element: toWire(ty.Element)}
	case *Array:
		return &wireType{Kind: tagArray, Count: ty.Count, Element: toWire(ty.Element)}
	case *Reference:
		return &wireType{Kind: tagReference, Store: toWire(ty.Store)}
	default:
		return nil
	}
}

func scalarTag(k ScalarKind) string {
	switch k {
	case ScalarBool:
		return tagBool
	case ScalarI32:
		return tagI32
	case ScalarU32:
		return tagU32
	case ScalarF32:
		return tagF32
	case ScalarF16:
		return tagF16
	case ScalarAbstractInt:
		return tagAbstractInt
	case ScalarAbstractFloat:
		return tagAbstractFloat
	default:
		return ""
	}
}

func fromWire(w *wireType) (Type, error) {
	if w == nil {
		return nil, &DecodeError{Reason: "missing type"}
	}

	switch w.Kind {
	case tagBool:
		return Bool, nil
	case tagI32:
		return I32, nil
	case tagU32:
		return U32, nil
	case tagF32:
		return F32, nil
	case tagF16:
		return F16, nil
	case tagAbstractInt:
		return AbstractInt, nil
	case tagAbstractFloat:
		return AbstractFloat, nil

	case tagVector:
		elem, err := fromWire(w.Element)
		if err != nil {
			return nil, err
		}

		scalar, ok := elem.(*Scalar)
		if !ok {
			return nil, &DecodeError{Kind: tagVector, Reason: "element is not a scalar"}
		}

		if w.Width < 2 || w.Width > 4 {
			return nil, &DecodeError{Kind: tagVector, Reason: fmt.Sprintf("invalid width %d", w.Width)}
		}

		return &Vector{Width: w.Width, Element: scalar}, nil

	case tagMatrix:
		elem, err := fromWire(w.Element)
		if err != nil {
			return nil, err
		}

		scalar, ok := elem.(*Scalar)
		if !ok || !scalar.IsFloat() {
			return nil, &DecodeError{Kind: tagMatrix, Reason: "element is not a float scalar"}
		}

		if w.Cols < 2 || w.Cols > 4 || w.Rows < 2 || w.Rows > 4 {
			return nil, &DecodeError{Kind: tagMatrix, Reason: fmt.Sprintf("invalid dimensions %dx%d", w.Cols, w.Rows)}
		}

		return &Matrix{Cols: w.Cols, Rows: w.Rows, Element: scalar}, nil

	case tagArray:
		elem, err := fromWire(w.Element)
		if err != nil {
			return nil, err
		}

		if w.Count < 0 {
			return nil, &DecodeError{Kind: tagArray, Reason: fmt.Sprintf("invalid count %d", w.Count)}
		}

		return &Array{Element: elem, Count: w.Count}, nil

	case tagReference:
		store, err := fromWire(w.Store)
		if err != nil {
			return nil, err
		}

		return &Reference{Store: store}, nil
	}

	return nil, &DecodeError{Kind: w.Kind, Reason: "unknown type variant"}
}

// MarshalType serializes a type to its variant-tagged JSON form.
func MarshalType(t Type) ([]byte, error) {
	w := toWire(t)
	if w == nil {
		return nil, &DecodeError{Reason: fmt.Sprintf("unsupported type %T", t)}
	}

	return json.Marshal(w)
}

// UnmarshalType rebuilds a type from its variant-tagged JSON form.
func UnmarshalType(data []byte) (Type, error) {
	var w wireType
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}

	return fromWire(&w)
}
