package model

import (
	"fmt"
	"math"
	"strings"
)

type valueKind uint8

const (
	kindNone valueKind = iota
	kindScalar
	kindVector
)

// Value is a neuron output: either one real number or an ordered sequence of
// them. The zero Value has no shape and reads as scalar 0.
type Value struct {
	kind   valueKind
	scalar float64
	vector []float64
}

func Scalar(x float64) Value {
	return Value{kind: kindScalar, scalar: x}
}

// Vector copies values so later mutation of the argument does not leak in.
func Vector(values ...float64) Value {
	return Value{kind: kindVector, vector: append(make([]float64, 0, len(values)), values...)}
}

// Zeros returns a vector of n zero elements.
func Zeros(n int) Value {
	if n < 0 {
		n = 0
	}
	return Value{kind: kindVector, vector: make([]float64, n)}
}

func (v Value) IsVector() bool {
	return v.kind == kindVector
}

func (v Value) IsScalar() bool {
	return v.kind == kindScalar
}

// Float returns the scalar reading of v. Vectors and the zero Value read as 0,
// and so does NaN.
func (v Value) Float() float64 {
	if v.kind != kindScalar || math.IsNaN(v.scalar) {
		return 0
	}
	return v.scalar
}

// Len is the number of addressable elements: 1 for a scalar, 0 for the zero
// Value.
func (v Value) Len() int {
	switch v.kind {
	case kindScalar:
		return 1
	case kindVector:
		return len(v.vector)
	default:
		return 0
	}
}

// At returns element i of a vector. Scalars and out-of-range indices report
// false.
func (v Value) At(i int) (float64, bool) {
	if v.kind != kindVector || i < 0 || i >= len(v.vector) {
		return 0, false
	}
	return v.vector[i], true
}

// Slice returns a copy of the vector elements, or nil for non-vectors.
func (v Value) Slice() []float64 {
	if v.kind != kindVector {
		return nil
	}
	return append([]float64(nil), v.vector...)
}

// SameShape reports whether v and other are both scalars or both vectors of
// equal length.
func (v Value) SameShape(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	return v.kind != kindVector || len(v.vector) == len(other.vector)
}

func (v Value) Equal(other Value) bool {
	if !v.SameShape(other) {
		return false
	}
	switch v.kind {
	case kindScalar:
		return v.scalar == other.scalar
	case kindVector:
		for i := range v.vector {
			if v.vector[i] != other.vector[i] {
				return false
			}
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case kindScalar:
		return fmt.Sprintf("%g", v.scalar)
	case kindVector:
		parts := make([]string, len(v.vector))
		for i, x := range v.vector {
			parts[i] = fmt.Sprintf("%g", x)
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return "<none>"
	}
}
