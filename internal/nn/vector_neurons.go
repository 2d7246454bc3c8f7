package nn

import (
	"errors"
	"fmt"
	"math"

	"neurograph/internal/model"
)

var (
	ErrInvalidShape = errors.New("invalid shape")
	ErrShapeChange  = errors.New("value shape mismatch")
)

// PixelMatrix is a vector source of width*height intensities in row-major
// order. Its shape is fixed at construction.
type PixelMatrix struct {
	base
	width  int
	height int
}

func NewPixelMatrix(id, label string, width, height int) (*PixelMatrix, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: pixel matrix %dx%d", ErrInvalidShape, width, height)
	}
	if label == "" {
		label = "Pixel Matrix"
	}
	return &PixelMatrix{
		base:   base{id: id, label: label, output: model.Zeros(width * height)},
		width:  width,
		height: height,
	}, nil
}

func (m *PixelMatrix) Type() model.NeuronType { return model.NeuronPixelMatrix }

func (m *PixelMatrix) Size() int { return m.width * m.height }

func (m *PixelMatrix) IgnoresIncoming() bool { return true }

func (m *PixelMatrix) Width() int { return m.width }

func (m *PixelMatrix) Height() int { return m.height }

// SetPixels replaces every intensity; len(values) must equal Size.
func (m *PixelMatrix) SetPixels(values []float64) error {
	if len(values) != m.Size() {
		return fmt.Errorf("%w: got=%d want=%d", ErrShapeChange, len(values), m.Size())
	}
	m.output = model.Vector(values...)
	return nil
}

func (m *PixelMatrix) SetPixel(i int, x float64) error {
	values := m.output.Slice()
	if i < 0 || i >= len(values) {
		return fmt.Errorf("pixel index %d out of range [0,%d)", i, len(values))
	}
	values[i] = x
	m.output = model.Vector(values...)
	return nil
}

func (m *PixelMatrix) CalculateOutput(_ []Incoming) model.Value {
	return m.output
}

// Tensor is a fixed-shape vector whose slots are written by incoming synapses
// carrying a TargetIndex. Slots nobody writes keep their previous value.
type Tensor struct {
	base
	shape []int
}

// NewTensor builds a tensor of the given dims. No dims is an order-0 tensor
// with a single slot.
func NewTensor(id, label string, shape ...int) (*Tensor, error) {
	size := 1
	for _, dim := range shape {
		if dim < 1 {
			return nil, fmt.Errorf("%w: tensor dims %v", ErrInvalidShape, shape)
		}
		size *= dim
	}
	if label == "" {
		label = "Tensor"
	}
	return &Tensor{
		base:  base{id: id, label: label, output: model.Zeros(size)},
		shape: append([]int(nil), shape...),
	}, nil
}

func (t *Tensor) Type() model.NeuronType { return model.NeuronTensor }

func (t *Tensor) Size() int { return t.output.Len() }

func (t *Tensor) Shape() []int { return append([]int(nil), t.shape...) }

func (t *Tensor) Order() int { return len(t.shape) }

func (t *Tensor) Set(values []float64) error {
	if len(values) != t.Size() {
		return fmt.Errorf("%w: got=%d want=%d", ErrShapeChange, len(values), t.Size())
	}
	t.output = model.Vector(values...)
	return nil
}

func (t *Tensor) CalculateOutput(incoming []Incoming) model.Value {
	values := t.output.Slice()
	for _, in := range incoming {
		slot := in.Synapse.TargetIndex
		if slot == nil || *slot < 0 || *slot >= len(values) {
			continue
		}
		values[*slot] = tensorInput(in)
	}
	t.output = model.Vector(values...)
	return t.output
}

// tensorInput reads a vector source by SourceIndex, falling back to its first
// element when no index is given.
func tensorInput(in Incoming) float64 {
	if !in.Source.IsVector() {
		return in.Source.Float()
	}
	idx := 0
	if in.Synapse.SourceIndex != nil {
		idx = *in.Synapse.SourceIndex
	}
	x, ok := in.Source.At(idx)
	if !ok {
		return 0
	}
	return coerce(x)
}

type ReduceOp string

const (
	ReduceSum    ReduceOp = "sum"
	ReduceMean   ReduceOp = "mean"
	ReduceMax    ReduceOp = "max"
	ReduceMin    ReduceOp = "min"
	ReduceArgmax ReduceOp = "argmax"
)

// Reduction folds every incoming value into a one-element vector.
type Reduction struct {
	base
	op ReduceOp
}

func NewReduction(id, label string, op ReduceOp) (*Reduction, error) {
	switch op {
	case ReduceSum, ReduceMean, ReduceMax, ReduceMin, ReduceArgmax:
	default:
		return nil, fmt.Errorf("unsupported reduction: %s", op)
	}
	if label == "" {
		label = "Reduction Op"
	}
	return &Reduction{base: base{id: id, label: label, output: model.Zeros(1)}, op: op}, nil
}

func (r *Reduction) Type() model.NeuronType { return model.NeuronReduction }

func (r *Reduction) Size() int { return 1 }

func (r *Reduction) Op() ReduceOp { return r.op }

func (r *Reduction) CalculateOutput(incoming []Incoming) model.Value {
	values := make([]float64, 0, len(incoming))
	for _, in := range incoming {
		switch {
		case !in.Source.IsVector():
			values = append(values, in.Source.Float()*in.Synapse.Weight)
		case in.Synapse.SourceIndex != nil:
			x, _ := in.Source.At(*in.Synapse.SourceIndex)
			values = append(values, coerce(x)*in.Synapse.Weight)
		default:
			// An unaddressed vector contributes every element, unweighted.
			for _, x := range in.Source.Slice() {
				values = append(values, coerce(x))
			}
		}
	}
	r.output = model.Vector(reduce(r.op, values))
	return r.output
}

func reduce(op ReduceOp, values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	switch op {
	case ReduceMean:
		sum := 0.0
		for _, x := range values {
			sum += x
		}
		return sum / float64(len(values))
	case ReduceMax:
		best := math.Inf(-1)
		for _, x := range values {
			best = math.Max(best, x)
		}
		return best
	case ReduceMin:
		best := math.Inf(1)
		for _, x := range values {
			best = math.Min(best, x)
		}
		return best
	case ReduceArgmax:
		idx := 0
		for i, x := range values {
			if x > values[idx] {
				idx = i
			}
		}
		return float64(idx)
	default:
		sum := 0.0
		for _, x := range values {
			sum += x
		}
		return sum
	}
}

type ElementWiseOp string

const (
	ElementAdd     ElementWiseOp = "add"
	ElementSub     ElementWiseOp = "sub"
	ElementMul     ElementWiseOp = "mul"
	ElementDiv     ElementWiseOp = "div"
	ElementRelu    ElementWiseOp = "relu"
	ElementSigmoid ElementWiseOp = "sigmoid"
)

// ElementWise combines weighted incoming values slot by slot. Synapses with a
// TargetIndex feed that slot and the output is as long as the highest slot
// addressed. With no TargetIndex on any synapse the whole weighted sum lands
// in slot 0. No incoming synapses yields an empty vector.
type ElementWise struct {
	base
	op ElementWiseOp
}

func NewElementWise(id, label string, op ElementWiseOp) (*ElementWise, error) {
	switch op {
	case ElementAdd, ElementSub, ElementMul, ElementDiv, ElementRelu, ElementSigmoid:
	default:
		return nil, fmt.Errorf("unsupported element-wise op: %s", op)
	}
	if label == "" {
		label = "Element-wise Op"
	}
	return &ElementWise{base: base{id: id, label: label, output: model.Vector()}, op: op}, nil
}

func (e *ElementWise) Type() model.NeuronType { return model.NeuronElementWise }

// Size is the current slot count, at least 1.
func (e *ElementWise) Size() int {
	if n := e.output.Len(); n > 0 {
		return n
	}
	return 1
}

func (e *ElementWise) Op() ElementWiseOp { return e.op }

func (e *ElementWise) CalculateOutput(incoming []Incoming) model.Value {
	if len(incoming) == 0 {
		e.output = model.Vector()
		return e.output
	}

	slots := make(map[int][]float64)
	last := -1
	for _, in := range incoming {
		slot := in.Synapse.TargetIndex
		if slot == nil || *slot < 0 {
			continue
		}
		slots[*slot] = append(slots[*slot], slotInput(in)*in.Synapse.Weight)
		last = max(last, *slot)
	}
	if last < 0 {
		sum := 0.0
		for _, in := range incoming {
			sum += tensorInput(Incoming{Source: in.Source}) * in.Synapse.Weight
		}
		slots[0] = []float64{sum}
		last = 0
	}

	out := make([]float64, last+1)
	for i := range out {
		if vals := slots[i]; len(vals) > 0 {
			out[i] = combine(e.op, vals)
		}
	}
	e.output = model.Vector(out...)
	return e.output
}

// slotInput reads a vector source only at an explicit SourceIndex; a vector
// addressed without one contributes 0.
func slotInput(in Incoming) float64 {
	if !in.Source.IsVector() {
		return in.Source.Float()
	}
	if in.Synapse.SourceIndex == nil {
		return 0
	}
	x, _ := in.Source.At(*in.Synapse.SourceIndex)
	return coerce(x)
}

func combine(op ElementWiseOp, vals []float64) float64 {
	sum := 0.0
	for _, x := range vals {
		sum += x
	}
	switch op {
	case ElementSub:
		acc := vals[0]
		for _, x := range vals[1:] {
			acc -= x
		}
		return acc
	case ElementMul:
		acc := 1.0
		for _, x := range vals {
			acc *= x
		}
		return acc
	case ElementDiv:
		acc := vals[0]
		for _, x := range vals[1:] {
			if x == 0 {
				x = 1
			}
			acc /= x
		}
		return acc
	case ElementRelu:
		return math.Max(0, sum)
	case ElementSigmoid:
		return 1.0 / (1.0 + math.Exp(-sum))
	default:
		return sum
	}
}
