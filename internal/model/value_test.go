package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarReads(t *testing.T) {
	v := Scalar(2.5)
	assert.True(t, v.IsScalar())
	assert.False(t, v.IsVector())
	assert.Equal(t, 2.5, v.Float())
	assert.Equal(t, 1, v.Len())
	_, ok := v.At(0)
	assert.False(t, ok, "scalars are not index-addressable")
}

func TestNaNAndZeroValueReadAsZero(t *testing.T) {
	assert.Equal(t, 0.0, Scalar(math.NaN()).Float())

	var empty Value
	assert.Equal(t, 0.0, empty.Float())
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, "<none>", empty.String())
}

func TestVectorCopiesInput(t *testing.T) {
	in := []float64{10, 20, 30}
	v := Vector(in...)
	in[1] = 99

	got, ok := v.At(1)
	require.True(t, ok)
	assert.Equal(t, 20.0, got)

	out := v.Slice()
	out[0] = -1
	first, _ := v.At(0)
	assert.Equal(t, 10.0, first)
	assert.Equal(t, 0.0, v.Float(), "vectors have no scalar reading")
}

func TestVectorAtBounds(t *testing.T) {
	v := Vector(1, 2, 3)
	for _, i := range []int{-1, 3, 100} {
		_, ok := v.At(i)
		assert.False(t, ok, "index %d", i)
	}
}

func TestEqualAndShape(t *testing.T) {
	assert.True(t, Vector(1, 2).Equal(Vector(1, 2)))
	assert.False(t, Vector(1, 2).Equal(Vector(1, 2, 3)))
	assert.False(t, Scalar(1).Equal(Vector(1)))
	assert.True(t, Zeros(3).SameShape(Vector(4, 5, 6)))
	assert.Equal(t, "[1 2.5]", Vector(1, 2.5).String())
}

func TestSynapseCloneDetachesIndices(t *testing.T) {
	s := Synapse{ID: "s", SourceIndex: Index(2), TargetIndex: Index(4)}
	c := s.Clone()
	*c.SourceIndex = 7

	assert.Equal(t, 2, *s.SourceIndex)
	assert.Equal(t, 4, *c.TargetIndex)
}
