// Package graph is the registry that owns neurons, synapses and layers.
// Synapses name their endpoints by id; removing a neuron removes every
// synapse that names it, so the registry never holds a dangling endpoint.
package graph

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"neurograph/internal/model"
	"neurograph/internal/nn"
)

var (
	ErrNeuronNotFound  = errors.New("neuron not found")
	ErrNeuronExists    = errors.New("neuron already registered")
	ErrSynapseNotFound = errors.New("synapse not found")
	ErrSynapseExists   = errors.New("synapse already registered")
	ErrLayerNotFound   = errors.New("layer not found")
	ErrNotInput        = errors.New("neuron is not an input")
	ErrNotVectorSource = errors.New("neuron does not accept vector values")
)

// IDFunc generates identifiers for neurons, synapses and layers.
type IDFunc func() string

// SequentialIDs returns an IDFunc yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) IDFunc {
	var n atomic.Int64
	return func() string {
		return prefix + "-" + strconv.FormatInt(n.Add(1), 10)
	}
}

type Option func(*Graph)

func WithIDFunc(fn IDFunc) Option {
	return func(g *Graph) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// Graph is not safe for concurrent mutation; callers serialize access.
type Graph struct {
	newID IDFunc

	neurons     map[string]nn.Neuron
	neuronOrder []string

	synapses     map[string]*model.Synapse
	synapseOrder []string

	layers     map[string]model.Layer
	layerOrder []string
	membership map[string]string
}

func New(opts ...Option) *Graph {
	g := &Graph{
		newID:      uuid.NewString,
		neurons:    make(map[string]nn.Neuron),
		synapses:   make(map[string]*model.Synapse),
		layers:     make(map[string]model.Layer),
		membership: make(map[string]string),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NextID draws an identifier from the configured IDFunc.
func (g *Graph) NextID() string {
	return g.newID()
}

// Add registers a neuron built by the caller.
func (g *Graph) Add(neuron nn.Neuron) error {
	if neuron == nil {
		return errors.New("neuron is required")
	}
	id := neuron.ID()
	if id == "" {
		return errors.New("neuron id is required")
	}
	if _, exists := g.neurons[id]; exists {
		return errors.Wrapf(ErrNeuronExists, "neuron %s", id)
	}
	g.neurons[id] = neuron
	g.neuronOrder = append(g.neuronOrder, id)
	return nil
}

func add[T nn.Neuron](g *Graph, n T) (T, error) {
	if err := g.Add(n); err != nil {
		var zero T
		return zero, err
	}
	return n, nil
}

func (g *Graph) AddBias(label string) (*nn.Bias, error) {
	n := nn.NewBias(g.newID(), label)
	return add(g, n)
}

func (g *Graph) AddInput(label string) (*nn.Input, error) {
	n := nn.NewInput(g.newID(), label)
	return add(g, n)
}

func (g *Graph) AddOutput(label string) (*nn.Output, error) {
	n := nn.NewOutput(g.newID(), label)
	return add(g, n)
}

func (g *Graph) AddPerceptron(label string, threshold float64) (*nn.Perceptron, error) {
	n := nn.NewPerceptron(g.newID(), label, threshold)
	return add(g, n)
}

func (g *Graph) AddMcCullochPitts(label string, threshold float64) (*nn.McCullochPitts, error) {
	n := nn.NewMcCullochPitts(g.newID(), label, threshold)
	return add(g, n)
}

func (g *Graph) AddPixelMatrix(label string, width, height int) (*nn.PixelMatrix, error) {
	n, err := nn.NewPixelMatrix(g.newID(), label, width, height)
	if err != nil {
		return nil, err
	}
	return add(g, n)
}

func (g *Graph) AddTensor(label string, shape ...int) (*nn.Tensor, error) {
	n, err := nn.NewTensor(g.newID(), label, shape...)
	if err != nil {
		return nil, err
	}
	return add(g, n)
}

func (g *Graph) AddReduction(label string, op nn.ReduceOp) (*nn.Reduction, error) {
	n, err := nn.NewReduction(g.newID(), label, op)
	if err != nil {
		return nil, err
	}
	return add(g, n)
}

func (g *Graph) AddElementWise(label string, op nn.ElementWiseOp) (*nn.ElementWise, error) {
	n, err := nn.NewElementWise(g.newID(), label, op)
	if err != nil {
		return nil, err
	}
	return add(g, n)
}

func (g *Graph) Neuron(id string) (nn.Neuron, bool) {
	n, ok := g.neurons[id]
	return n, ok
}

// Neurons returns every neuron in insertion order.
func (g *Graph) Neurons() []nn.Neuron {
	out := make([]nn.Neuron, 0, len(g.neuronOrder))
	for _, id := range g.neuronOrder {
		out = append(out, g.neurons[id])
	}
	return out
}

func (g *Graph) Len() int {
	return len(g.neuronOrder)
}

// RemoveNeuron deletes the neuron together with every synapse naming it and
// its layer membership. It returns the ids of the removed synapses.
func (g *Graph) RemoveNeuron(id string) ([]string, error) {
	if _, ok := g.neurons[id]; !ok {
		return nil, errors.Wrapf(ErrNeuronNotFound, "remove %s", id)
	}

	var removed []string
	kept := g.synapseOrder[:0]
	for _, sid := range g.synapseOrder {
		s := g.synapses[sid]
		if s.PreSynaptic == id || s.PostSynaptic == id {
			delete(g.synapses, sid)
			removed = append(removed, sid)
			continue
		}
		kept = append(kept, sid)
	}
	g.synapseOrder = kept

	delete(g.neurons, id)
	delete(g.membership, id)
	g.neuronOrder = without(g.neuronOrder, id)
	return removed, nil
}

// SetInput drives the value of an Input neuron.
func (g *Graph) SetInput(id string, x float64) error {
	n, ok := g.neurons[id]
	if !ok {
		return errors.Wrapf(ErrNeuronNotFound, "set input %s", id)
	}
	input, ok := n.(*nn.Input)
	if !ok {
		return errors.Wrapf(ErrNotInput, "%s is %s", id, n.Type())
	}
	input.Set(x)
	return nil
}

// SetValues replaces the contents of a pixel matrix or tensor. The element
// count must match the neuron's size.
func (g *Graph) SetValues(id string, values []float64) error {
	n, ok := g.neurons[id]
	if !ok {
		return errors.Wrapf(ErrNeuronNotFound, "set values %s", id)
	}
	switch v := n.(type) {
	case *nn.PixelMatrix:
		return v.SetPixels(values)
	case *nn.Tensor:
		return v.Set(values)
	default:
		return errors.Wrapf(ErrNotVectorSource, "%s is %s", id, n.Type())
	}
}

func without(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func (g *Graph) String() string {
	return fmt.Sprintf("graph(neurons=%d synapses=%d layers=%d)", len(g.neuronOrder), len(g.synapseOrder), len(g.layerOrder))
}
