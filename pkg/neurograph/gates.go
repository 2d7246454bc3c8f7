package neurograph

import (
	"fmt"

	"go.uber.org/zap"

	"neurograph/internal/dataset"
)

// Gate is a logic circuit wired into a client's graph.
type Gate struct {
	Kind    string
	Inputs  []string
	Output  string
	LayerID string
}

// unit is one step perceptron: it fires when Σ w·x ≥ threshold.
type unit struct {
	weights   []float64
	threshold float64
}

var singleUnitGates = map[string]unit{
	dataset.AND:  {weights: []float64{1, 1}, threshold: 1.5},
	dataset.OR:   {weights: []float64{1, 1}, threshold: 0.5},
	dataset.NAND: {weights: []float64{-1, -1}, threshold: -1.5},
	dataset.NOR:  {weights: []float64{-1, -1}, threshold: -0.5},
	dataset.NOT:  {weights: []float64{-1}, threshold: -0.5},
}

// twoLayerGates combine two hidden units with a third: XOR = AND(OR, NAND),
// XNOR = OR(AND, NOR).
var twoLayerGates = map[string][3]string{
	dataset.XOR:  {dataset.OR, dataset.NAND, dataset.AND},
	dataset.XNOR: {dataset.AND, dataset.NOR, dataset.OR},
}

// BuildGate wires a circuit with fixed weights for the named gate. All of
// its neurons join a layer labelled after the gate. Thresholds reach each
// perceptron through a synapse from one shared Bias on the bias handle.
// On error the graph is left as it was before the call.
func (c *Client) BuildGate(kind string) (Gate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	arity := 2
	if kind == dataset.NOT {
		arity = 1
	}
	_, single := singleUnitGates[kind]
	plan, layered := twoLayerGates[kind]
	if !single && !layered {
		return Gate{}, fmt.Errorf("unsupported gate: %s", kind)
	}

	b := &gateBuilder{c: c, layer: c.graph.AddLayer(kind).ID}
	gate := Gate{Kind: kind, LayerID: b.layer}
	for i := 0; i < arity; i++ {
		id := b.input(fmt.Sprintf("%s X%d", kind, i+1))
		gate.Inputs = append(gate.Inputs, id)
	}
	bias := b.bias(kind + " bias")

	var last string
	if single {
		last = b.unit(kind, singleUnitGates[kind], bias, gate.Inputs)
	} else {
		h1 := b.unit(kind+" "+plan[0], singleUnitGates[plan[0]], bias, gate.Inputs)
		h2 := b.unit(kind+" "+plan[1], singleUnitGates[plan[1]], bias, gate.Inputs)
		last = b.unit(kind+" "+plan[2], singleUnitGates[plan[2]], bias, []string{h1, h2})
	}
	gate.Output = b.output(kind+" Y", last)

	if b.err != nil {
		b.rollback()
		return Gate{}, fmt.Errorf("build %s gate: %w", kind, b.err)
	}
	return gate, nil
}

// gateBuilder threads the first error through a sequence of graph edits and
// remembers the neurons it created so a failed build can be undone.
type gateBuilder struct {
	c       *Client
	layer   string
	created []string
	err     error
}

func (b *gateBuilder) added(id string) string {
	b.created = append(b.created, id)
	return b.join(id)
}

// rollback removes every neuron the builder added, which cascades to the
// synapses between them, and then the layer.
func (b *gateBuilder) rollback() {
	for i := len(b.created) - 1; i >= 0; i-- {
		if _, err := b.c.graph.RemoveNeuron(b.created[i]); err != nil {
			b.c.logger.Warn("gate rollback: remove neuron", zap.String("neuron", b.created[i]), zap.Error(err))
		}
	}
	if err := b.c.graph.RemoveLayer(b.layer); err != nil {
		b.c.logger.Warn("gate rollback: remove layer", zap.String("layer", b.layer), zap.Error(err))
	}
	b.created = nil
}

func (b *gateBuilder) join(id string) string {
	if b.err == nil {
		b.err = b.c.graph.AssignLayer(id, b.layer)
	}
	return id
}

func (b *gateBuilder) input(label string) string {
	if b.err != nil {
		return ""
	}
	n, err := b.c.graph.AddInput(label)
	if err != nil {
		b.err = err
		return ""
	}
	return b.added(n.ID())
}

func (b *gateBuilder) bias(label string) string {
	if b.err != nil {
		return ""
	}
	n, err := b.c.graph.AddBias(label)
	if err != nil {
		b.err = err
		return ""
	}
	return b.added(n.ID())
}

func (b *gateBuilder) unit(label string, u unit, bias string, inputs []string) string {
	if b.err != nil {
		return ""
	}
	p, err := b.c.graph.AddPerceptron(label, 0)
	if err != nil {
		b.err = err
		return ""
	}
	id := b.added(p.ID())
	for i, in := range inputs {
		b.connect(in, id, u.weights[i])
	}
	b.connect(bias, id, u.threshold, WithTargetHandle(BiasHandle))
	return id
}

func (b *gateBuilder) output(label, from string) string {
	if b.err != nil {
		return ""
	}
	n, err := b.c.graph.AddOutput(label)
	if err != nil {
		b.err = err
		return ""
	}
	id := b.added(n.ID())
	b.connect(from, id, 1)
	return id
}

func (b *gateBuilder) connect(pre, post string, weight float64, opts ...SynapseOption) {
	if b.err != nil {
		return
	}
	_, b.err = b.c.graph.Connect(pre, post, weight, opts...)
}
