package nn

import "neurograph/internal/model"

// Bias always outputs 1. A downstream synapse weight times this constant
// becomes the bias term of the neuron it feeds, so one Bias can be shared by
// many neurons through independently weighted synapses.
type Bias struct {
	base
}

func NewBias(id, label string) *Bias {
	if label == "" {
		label = "Bias"
	}
	return &Bias{base: base{id: id, label: label, output: model.Scalar(1)}}
}

func (b *Bias) Type() model.NeuronType { return model.NeuronBias }

func (b *Bias) Size() int { return 1 }

func (b *Bias) IgnoresIncoming() bool { return true }

func (b *Bias) CalculateOutput(_ []Incoming) model.Value {
	b.output = model.Scalar(1)
	return b.output
}

// Input holds a value driven by the graph owner.
type Input struct {
	base
}

func NewInput(id, label string) *Input {
	if label == "" {
		label = "Input"
	}
	return &Input{base: base{id: id, label: label, output: model.Scalar(0)}}
}

func (n *Input) Type() model.NeuronType { return model.NeuronInput }

func (n *Input) Size() int { return 1 }

func (n *Input) IgnoresIncoming() bool { return true }

// Set replaces the externally driven value.
func (n *Input) Set(x float64) {
	n.output = model.Scalar(x)
}

func (n *Input) CalculateOutput(_ []Incoming) model.Value {
	return n.output
}

// Output mirrors the value arriving on its first incoming synapse. Further
// synapses are ignored and weights are never applied.
type Output struct {
	base
}

func NewOutput(id, label string) *Output {
	if label == "" {
		label = "Output Neuron"
	}
	return &Output{base: base{id: id, label: label, output: model.Scalar(0)}}
}

func (n *Output) Type() model.NeuronType { return model.NeuronOutput }

func (n *Output) Size() int { return 1 }

func (n *Output) CalculateOutput(incoming []Incoming) model.Value {
	if len(incoming) == 0 {
		n.output = model.Scalar(0)
		return n.output
	}

	first := incoming[0]
	if first.Source.IsVector() {
		n.output = model.Scalar(pixelValue(first))
	} else {
		n.output = model.Scalar(first.Source.Float())
	}
	return n.output
}
