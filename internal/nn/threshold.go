package nn

import "neurograph/internal/model"

// Perceptron accumulates weight*input over its incoming synapses and passes
// net-threshold through an activation. With the default "step" activation the
// output is 1 when the net input reaches the threshold, else 0.
//
// A synapse on the "bias" target handle does not contribute to the net input;
// its weight replaces the configured threshold for the pass.
type Perceptron struct {
	base
	threshold  float64
	activation string

	netInput  float64
	effective float64
}

func NewPerceptron(id, label string, threshold float64) *Perceptron {
	if label == "" {
		label = "Perceptron"
	}
	return &Perceptron{
		base:       base{id: id, label: label, output: model.Scalar(0)},
		threshold:  threshold,
		activation: ActivationStep,
		effective:  threshold,
	}
}

func (p *Perceptron) Type() model.NeuronType { return model.NeuronPerceptron }

func (p *Perceptron) Size() int { return 1 }

func (p *Perceptron) Threshold() float64 { return p.threshold }

func (p *Perceptron) SetThreshold(threshold float64) {
	p.threshold = threshold
}

func (p *Perceptron) Activation() string { return p.activation }

// SetActivation selects a registered activation by name.
func (p *Perceptron) SetActivation(name string) error {
	if _, err := GetActivation(name); err != nil {
		return err
	}
	p.activation = name
	return nil
}

// NetInput is the weighted sum computed by the last pass.
func (p *Perceptron) NetInput() float64 { return p.netInput }

// EffectiveThreshold is the threshold applied by the last pass, after any
// bias-handle override.
func (p *Perceptron) EffectiveThreshold() float64 { return p.effective }

func (p *Perceptron) CalculateOutput(incoming []Incoming) model.Value {
	threshold := p.threshold
	biasSeen := false
	sum := 0.0
	for _, in := range incoming {
		if in.Synapse.TargetHandle == BiasHandle {
			if !biasSeen {
				threshold = in.Synapse.Weight
				biasSeen = true
			}
			continue
		}
		sum += sourceValue(in) * in.Synapse.Weight
	}

	fn, err := GetActivation(p.activation)
	if err != nil {
		fn = stepActivation
	}
	p.netInput = sum
	p.effective = threshold
	p.output = model.Scalar(fn(sum - threshold))
	return p.output
}

// McCullochPitts fires when the unweighted sum of its inputs reaches the
// threshold.
type McCullochPitts struct {
	base
	threshold float64
	netInput  float64
}

func NewMcCullochPitts(id, label string, threshold float64) *McCullochPitts {
	if label == "" {
		label = "MCP"
	}
	return &McCullochPitts{
		base:      base{id: id, label: label, output: model.Scalar(0)},
		threshold: threshold,
	}
}

func (n *McCullochPitts) Type() model.NeuronType { return model.NeuronMcCullochPitts }

func (n *McCullochPitts) Size() int { return 1 }

func (n *McCullochPitts) Threshold() float64 { return n.threshold }

func (n *McCullochPitts) SetThreshold(threshold float64) {
	n.threshold = threshold
}

func (n *McCullochPitts) NetInput() float64 { return n.netInput }

func (n *McCullochPitts) CalculateOutput(incoming []Incoming) model.Value {
	sum := 0.0
	for _, in := range incoming {
		sum += sourceValue(in)
	}
	n.netInput = sum
	if sum >= n.threshold {
		n.output = model.Scalar(1)
	} else {
		n.output = model.Scalar(0)
	}
	return n.output
}
