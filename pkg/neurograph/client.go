package neurograph

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"neurograph/internal/engine"
	"neurograph/internal/graph"
	"neurograph/internal/metrics"
	"neurograph/internal/model"
	"neurograph/internal/nn"
)

type (
	Value         = model.Value
	Synapse       = model.Synapse
	Layer         = model.Layer
	NeuronType    = model.NeuronType
	SynapseOption = graph.SynapseOption
	ReduceOp      = nn.ReduceOp
	ElementWiseOp = nn.ElementWiseOp
	// ActivationSpec describes one selectable perceptron activation.
	ActivationSpec = nn.ActivationSpec
)

var (
	WithSynapseID    = graph.WithSynapseID
	WithSourceHandle = graph.WithSourceHandle
	WithTargetHandle = graph.WithTargetHandle
	WithSourceIndex  = graph.WithSourceIndex
	WithTargetIndex  = graph.WithTargetIndex

	ErrNeuronNotFound = graph.ErrNeuronNotFound
	ErrStructural     = engine.ErrStructural
)

const BiasHandle = nn.BiasHandle

// PixelHandle names the source handle that addresses element i of a vector.
func PixelHandle(i int) string {
	return nn.PixelHandle(i)
}

// Activations lists the activation names a perceptron may select.
func Activations() []string {
	return nn.ListActivations()
}

// DescribeActivations lists the registered activations with their
// descriptions, ordered by name.
func DescribeActivations() []ActivationSpec {
	return nn.DescribeActivations()
}

type Options struct {
	Logger *zap.Logger
	// Workers bounds per-level parallelism; below 2 evaluates sequentially.
	Workers int
	// Registerer receives the engine metrics when set.
	Registerer prometheus.Registerer
	// NewID overrides identifier generation (random UUIDs by default).
	NewID func() string
}

// Client owns one graph. Every method is safe for concurrent use; mutations
// and passes are serialized so a pass never observes a half-edited graph.
type Client struct {
	mu     sync.Mutex
	graph  *graph.Graph
	engine *engine.Engine
	logger *zap.Logger
}

func New(opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	collector, err := metrics.NewCollector(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	var graphOpts []graph.Option
	if opts.NewID != nil {
		graphOpts = append(graphOpts, graph.WithIDFunc(opts.NewID))
	}
	return &Client{
		graph: graph.New(graphOpts...),
		engine: engine.New(
			engine.WithLogger(logger.Named("engine")),
			engine.WithWorkers(opts.Workers),
			engine.WithMetrics(collector),
		),
		logger: logger,
	}, nil
}

func (c *Client) AddBias(label string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.graph.AddBias(label)
	if err != nil {
		return "", err
	}
	return n.ID(), nil
}

func (c *Client) AddInput(label string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.graph.AddInput(label)
	if err != nil {
		return "", err
	}
	return n.ID(), nil
}

func (c *Client) AddOutput(label string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.graph.AddOutput(label)
	if err != nil {
		return "", err
	}
	return n.ID(), nil
}

func (c *Client) AddPerceptron(label string, threshold float64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.graph.AddPerceptron(label, threshold)
	if err != nil {
		return "", err
	}
	return n.ID(), nil
}

func (c *Client) AddMcCullochPitts(label string, threshold float64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.graph.AddMcCullochPitts(label, threshold)
	if err != nil {
		return "", err
	}
	return n.ID(), nil
}

func (c *Client) AddPixelMatrix(label string, width, height int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.graph.AddPixelMatrix(label, width, height)
	if err != nil {
		return "", err
	}
	return n.ID(), nil
}

func (c *Client) AddTensor(label string, shape ...int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.graph.AddTensor(label, shape...)
	if err != nil {
		return "", err
	}
	return n.ID(), nil
}

func (c *Client) AddReduction(label string, op ReduceOp) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.graph.AddReduction(label, op)
	if err != nil {
		return "", err
	}
	return n.ID(), nil
}

func (c *Client) AddElementWise(label string, op ElementWiseOp) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.graph.AddElementWise(label, op)
	if err != nil {
		return "", err
	}
	return n.ID(), nil
}

// Connect adds a synapse and returns its id.
func (c *Client) Connect(pre, post string, weight float64, opts ...SynapseOption) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.graph.Connect(pre, post, weight, opts...)
	if err != nil {
		return "", err
	}
	return s.ID, nil
}

// RemoveNeuron deletes a neuron along with every synapse touching it and
// returns the removed synapse ids.
func (c *Client) RemoveNeuron(id string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.RemoveNeuron(id)
}

func (c *Client) RemoveSynapse(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.RemoveSynapse(id)
}

func (c *Client) SetWeight(synapseID string, weight float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.SetWeight(synapseID, weight)
}

func (c *Client) SetInput(id string, x float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.SetInput(id, x)
}

// SetValues writes every element of a pixel matrix or tensor.
func (c *Client) SetValues(id string, values []float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.SetValues(id, values)
}

func (c *Client) SetLabel(id, label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.graph.Neuron(id)
	if !ok {
		return fmt.Errorf("%w: %s", graph.ErrNeuronNotFound, id)
	}
	n.SetLabel(label)
	return nil
}

// SetActivation selects the activation of a perceptron.
func (c *Client) SetActivation(id, activation string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.graph.Neuron(id)
	if !ok {
		return fmt.Errorf("%w: %s", graph.ErrNeuronNotFound, id)
	}
	p, ok := n.(*nn.Perceptron)
	if !ok {
		return fmt.Errorf("neuron %s is %s, not a perceptron", id, n.Type())
	}
	return p.SetActivation(activation)
}

func (c *Client) AddLayer(label string) Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.AddLayer(label)
}

func (c *Client) AssignLayer(neuronID, layerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.AssignLayer(neuronID, layerID)
}

func (c *Client) RemoveLayer(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.RemoveLayer(id)
}

// Members lists the neuron ids tagged with a layer.
func (c *Client) Members(layerID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.Members(layerID)
}

func (c *Client) Layers() []Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.Layers()
}

type NeuronInfo struct {
	ID     string
	Type   NeuronType
	Label  string
	Size   int
	Layer  string
	Output Value
}

// Neurons describes every neuron in insertion order.
func (c *Client) Neurons() []NeuronInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	neurons := c.graph.Neurons()
	out := make([]NeuronInfo, 0, len(neurons))
	for _, n := range neurons {
		info := NeuronInfo{ID: n.ID(), Type: n.Type(), Label: n.Label(), Size: n.Size(), Output: n.Output()}
		if layer, ok := c.graph.LayerOf(n.ID()); ok {
			info.Layer = layer.ID
		}
		out = append(out, info)
	}
	return out
}

func (c *Client) Synapses() []Synapse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.Synapses()
}

// Snapshot is the graph state after one forward pass.
type Snapshot struct {
	Outputs map[string]Value
	Order   []string
	Levels  int
}

func (s Snapshot) Float(id string) float64 {
	return s.Outputs[id].Float()
}

// Evaluate runs one forward pass over the whole graph.
func (c *Client) Evaluate(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evaluateLocked(ctx)
}

func (c *Client) evaluateLocked(ctx context.Context) (Snapshot, error) {
	res, err := c.engine.Forward(ctx, c.graph.Neurons(), c.graph.Synapses())
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Outputs: res.Outputs, Order: res.Order, Levels: res.Levels}, nil
}
