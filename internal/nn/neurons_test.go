package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurograph/internal/model"
)

func signal(source model.Value, weight float64) Incoming {
	return Incoming{Synapse: model.Synapse{ID: "s", Weight: weight}, Source: source}
}

func handleSignal(source model.Value, handle string) Incoming {
	in := signal(source, 1)
	in.Synapse.SourceHandle = handle
	return in
}

func TestParsePixelHandle(t *testing.T) {
	tests := []struct {
		handle string
		want   int
		ok     bool
	}{
		{handle: "pixel-0", want: 0, ok: true},
		{handle: "pixel-17", want: 17, ok: true},
		{handle: "pixel-", ok: false},
		{handle: "pixel--1", ok: false},
		{handle: "pixel-+1", ok: false},
		{handle: "pixel-1.5", ok: false},
		{handle: "pixel-3abc", ok: false},
		{handle: "pixel-99999999999999999999999", ok: false},
		{handle: "foo", ok: false},
		{handle: "", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.handle, func(t *testing.T) {
			got, ok := ParsePixelHandle(tc.handle)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
	assert.Equal(t, "pixel-12", PixelHandle(12))
}

func TestBiasAlwaysOne(t *testing.T) {
	b := NewBias("b", "")
	assert.Equal(t, 1.0, b.Output().Float())
	assert.Equal(t, "Bias", b.Label())

	out := b.CalculateOutput([]Incoming{signal(model.Scalar(42), 3)})
	assert.Equal(t, 1.0, out.Float())
	assert.Equal(t, 1.0, b.Output().Float())
	assert.Equal(t, 1, b.Size())
}

func TestInputIgnoresIncoming(t *testing.T) {
	in := NewInput("i", "x1")
	assert.Equal(t, 0.0, in.Output().Float())

	in.Set(0.75)
	out := in.CalculateOutput([]Incoming{signal(model.Scalar(9), 1)})
	assert.Equal(t, 0.75, out.Float())
	assert.Equal(t, 0.75, in.Output().Float())
}

func TestOutputResolution(t *testing.T) {
	pixels := model.Vector(10, 20, 30)
	tests := []struct {
		name     string
		incoming []Incoming
		want     float64
	}{
		{name: "no incoming", want: 0},
		{name: "scalar ignores weight", incoming: []Incoming{signal(model.Scalar(0.4), 5)}, want: 0.4},
		{name: "nan scalar", incoming: []Incoming{signal(model.Scalar(math.NaN()), 1)}, want: 0},
		{name: "shapeless source", incoming: []Incoming{signal(model.Value{}, 1)}, want: 0},
		{name: "pixel handle", incoming: []Incoming{handleSignal(pixels, "pixel-1")}, want: 20},
		{name: "pixel out of range", incoming: []Incoming{handleSignal(pixels, "pixel-5")}, want: 0},
		{name: "malformed handle", incoming: []Incoming{handleSignal(pixels, "foo")}, want: 0},
		{name: "negative handle", incoming: []Incoming{handleSignal(pixels, "pixel--1")}, want: 0},
		{name: "no handle", incoming: []Incoming{signal(pixels, 1)}, want: 0},
		{
			name:     "only first synapse counts",
			incoming: []Incoming{signal(model.Scalar(2), 1), signal(model.Scalar(7), 1)},
			want:     2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := NewOutput("o", "")
			got := o.CalculateOutput(tc.incoming)
			assert.True(t, got.IsScalar())
			assert.Equal(t, tc.want, got.Float())
			assert.Equal(t, got, o.Output())
		})
	}
}

func TestPerceptronStep(t *testing.T) {
	p := NewPerceptron("p", "", 1.5)
	incoming := []Incoming{signal(model.Scalar(1), 1), signal(model.Scalar(1), 1)}

	assert.Equal(t, 1.0, p.CalculateOutput(incoming).Float())
	assert.Equal(t, 2.0, p.NetInput())

	p.SetThreshold(2.5)
	assert.Equal(t, 0.0, p.CalculateOutput(incoming).Float())
	assert.Equal(t, 2.5, p.EffectiveThreshold())
}

func TestPerceptronBiasHandleOverridesThreshold(t *testing.T) {
	p := NewPerceptron("p", "", 10)
	bias := signal(model.Scalar(1), 0.5)
	bias.Synapse.TargetHandle = BiasHandle
	second := signal(model.Scalar(1), -100)
	second.Synapse.TargetHandle = BiasHandle

	out := p.CalculateOutput([]Incoming{signal(model.Scalar(1), 0.6), bias, second})
	assert.Equal(t, 1.0, out.Float())
	assert.Equal(t, 0.6, p.NetInput(), "bias-handle synapses do not feed the net input")
	assert.Equal(t, 0.5, p.EffectiveThreshold())
	assert.Equal(t, 10.0, p.Threshold(), "configured threshold is untouched")
}

func TestPerceptronBiasNeuronAsOrdinaryTerm(t *testing.T) {
	p := NewPerceptron("p", "", 0)
	out := p.CalculateOutput([]Incoming{
		signal(model.Scalar(1), 0.3),
		signal(NewBias("b", "").Output(), -0.5),
	})
	assert.InDelta(t, -0.2, p.NetInput(), 1e-12)
	assert.Equal(t, 0.0, out.Float())
}

func TestPerceptronVectorAddressing(t *testing.T) {
	p := NewPerceptron("p", "", 0)
	require.NoError(t, p.SetActivation(ActivationIdentity))

	pixels := model.Vector(1, 2, 3)
	byIndex := signal(pixels, 10)
	byIndex.Synapse.SourceIndex = model.Index(2)
	byIndex.Synapse.SourceHandle = "pixel-0"
	byHandle := handleSignal(pixels, "pixel-1")
	byHandle.Synapse.Weight = 100
	badIndex := signal(pixels, 1000)
	badIndex.Synapse.SourceIndex = model.Index(3)

	out := p.CalculateOutput([]Incoming{byIndex, byHandle, badIndex, signal(pixels, 5)})
	assert.Equal(t, 230.0, out.Float())
}

func TestPerceptronActivationSelection(t *testing.T) {
	p := NewPerceptron("p", "", 1)
	assert.ErrorIs(t, p.SetActivation("missing"), ErrActivationNotFound)
	assert.Equal(t, ActivationStep, p.Activation())

	require.NoError(t, p.SetActivation(ActivationSigmoid))
	out := p.CalculateOutput([]Incoming{signal(model.Scalar(1), 1)})
	assert.InDelta(t, 0.5, out.Float(), 1e-12)
}

func TestPerceptronIdempotent(t *testing.T) {
	p := NewPerceptron("p", "", 0.2)
	incoming := []Incoming{signal(model.Scalar(0.3), 1)}
	first := p.CalculateOutput(incoming)
	second := p.CalculateOutput(incoming)
	assert.Equal(t, first, second)
}

func TestMcCullochPittsIgnoresWeights(t *testing.T) {
	n := NewMcCullochPitts("m", "", 2)
	incoming := []Incoming{signal(model.Scalar(1), -5), signal(model.Scalar(1), 0)}
	assert.Equal(t, 1.0, n.CalculateOutput(incoming).Float())
	assert.Equal(t, 2.0, n.NetInput())

	n.SetThreshold(3)
	assert.Equal(t, 0.0, n.CalculateOutput(incoming).Float())
	assert.Equal(t, "MCP", n.Label())
}

func TestPixelMatrixShapeIsFixed(t *testing.T) {
	_, err := NewPixelMatrix("m", "", 0, 3)
	assert.ErrorIs(t, err, ErrInvalidShape)

	m, err := NewPixelMatrix("m", "", 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, m.Size())
	assert.Equal(t, 6, m.Output().Len())

	assert.ErrorIs(t, m.SetPixels([]float64{1, 2}), ErrShapeChange)
	require.NoError(t, m.SetPixels([]float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, m.SetPixel(5, 9))
	assert.Error(t, m.SetPixel(6, 1))

	out := m.CalculateOutput([]Incoming{signal(model.Scalar(3), 1)})
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 9}, out.Slice())
}

func TestTensorSlots(t *testing.T) {
	_, err := NewTensor("t", "", 2, 0)
	assert.ErrorIs(t, err, ErrInvalidShape)

	scalarTensor, err := NewTensor("t0", "")
	require.NoError(t, err)
	assert.Equal(t, 1, scalarTensor.Size())
	assert.Equal(t, 0, scalarTensor.Order())

	tensor, err := NewTensor("t", "", 2, 2)
	require.NoError(t, err)
	require.NoError(t, tensor.Set([]float64{5, 5, 5, 5}))

	src := model.Vector(7, 8, 9)
	toSlot := func(source model.Value, sourceIndex *int, slot int) Incoming {
		in := signal(source, 100)
		in.Synapse.SourceIndex = sourceIndex
		in.Synapse.TargetIndex = model.Index(slot)
		return in
	}
	noSlot := signal(model.Scalar(1), 1)

	out := tensor.CalculateOutput([]Incoming{
		toSlot(src, model.Index(2), 0),
		toSlot(src, nil, 1),
		toSlot(model.Scalar(3), nil, 3),
		toSlot(src, model.Index(9), 4),
		noSlot,
	})
	assert.Equal(t, []float64{9, 7, 5, 3}, out.Slice())
	assert.Equal(t, []int{2, 2}, tensor.Shape())
}

func TestReductionOps(t *testing.T) {
	vector := signal(model.Vector(1, 5, 3), 10)
	indexed := signal(model.Vector(1, 5, 3), 2)
	indexed.Synapse.SourceIndex = model.Index(0)
	scalar := signal(model.Scalar(-1), 3)

	tests := []struct {
		op   ReduceOp
		want float64
	}{
		{op: ReduceSum, want: 1 + 5 + 3 + 2 - 3},
		{op: ReduceMean, want: (1 + 5 + 3 + 2 - 3) / 5.0},
		{op: ReduceMax, want: 5},
		{op: ReduceMin, want: -3},
		{op: ReduceArgmax, want: 1},
	}
	for _, tc := range tests {
		t.Run(string(tc.op), func(t *testing.T) {
			r, err := NewReduction("r", "", tc.op)
			require.NoError(t, err)
			out := r.CalculateOutput([]Incoming{vector, indexed, scalar})
			require.True(t, out.IsVector())
			assert.Equal(t, []float64{tc.want}, out.Slice())
		})
	}

	r, err := NewReduction("r", "", ReduceMax)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, r.CalculateOutput(nil).Slice())

	_, err = NewReduction("r", "", "median")
	assert.Error(t, err)
}

func TestElementWiseOps(t *testing.T) {
	sigmoid := func(x float64) float64 { return 1 / (1 + math.Exp(-x)) }
	toSlot := func(source model.Value, sourceIndex *int, weight float64, slot int) Incoming {
		in := signal(source, weight)
		in.Synapse.SourceIndex = sourceIndex
		in.Synapse.TargetIndex = model.Index(slot)
		return in
	}
	incoming := []Incoming{
		toSlot(model.Scalar(6), nil, 1, 0),
		toSlot(model.Vector(2, 3), model.Index(1), 1, 0),
		toSlot(model.Scalar(4), nil, 0.5, 1),
		toSlot(model.Vector(2, 3), nil, 1, 1),
		toSlot(model.Scalar(-5), nil, 1, 3),
		signal(model.Scalar(100), 1),
	}

	tests := []struct {
		op   ElementWiseOp
		want []float64
	}{
		{op: ElementAdd, want: []float64{9, 2, 0, -5}},
		{op: ElementSub, want: []float64{3, 2, 0, -5}},
		{op: ElementMul, want: []float64{18, 0, 0, -5}},
		{op: ElementDiv, want: []float64{2, 2, 0, -5}},
		{op: ElementRelu, want: []float64{9, 2, 0, 0}},
		{op: ElementSigmoid, want: []float64{sigmoid(9), sigmoid(2), 0, sigmoid(-5)}},
	}
	for _, tc := range tests {
		t.Run(string(tc.op), func(t *testing.T) {
			e, err := NewElementWise("e", "", tc.op)
			require.NoError(t, err)
			out := e.CalculateOutput(incoming)
			require.True(t, out.IsVector())
			assert.InDeltaSlice(t, tc.want, out.Slice(), 1e-12)
			assert.Equal(t, 4, e.Size())
			assert.Equal(t, tc.op, e.Op())
		})
	}

	_, err := NewElementWise("e", "", "pow")
	assert.Error(t, err)
}

func TestElementWiseWithoutSlots(t *testing.T) {
	incoming := []Incoming{
		signal(model.Scalar(2), 3),
		signal(model.Vector(4, 5), 0.5),
		signal(model.Vector(math.NaN()), 7),
	}

	e, err := NewElementWise("e", "", ElementSub)
	require.NoError(t, err)
	assert.Equal(t, "Element-wise Op", e.Label())
	assert.Equal(t, model.NeuronElementWise, e.Type())
	assert.Equal(t, []float64{8}, e.CalculateOutput(incoming).Slice())

	sig, err := NewElementWise("s", "", ElementSigmoid)
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-8)), sig.CalculateOutput(incoming).Slice()[0], 1e-12)

	out := e.CalculateOutput(nil)
	assert.True(t, out.IsVector())
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, 1, e.Size())
}

func TestIsSource(t *testing.T) {
	matrix, err := NewPixelMatrix("m", "", 1, 1)
	require.NoError(t, err)
	tensor, err := NewTensor("t", "", 2)
	require.NoError(t, err)

	assert.True(t, IsSource(NewBias("b", "")))
	assert.True(t, IsSource(NewInput("i", "")))
	assert.True(t, IsSource(matrix))
	assert.False(t, IsSource(NewOutput("o", "")))
	assert.False(t, IsSource(NewPerceptron("p", "", 0)))
	assert.False(t, IsSource(tensor))
}
