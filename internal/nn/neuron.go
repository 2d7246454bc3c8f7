package nn

import (
	"math"

	"neurograph/internal/model"
)

// Neuron is the unit of computation. CalculateOutput must be a pure function
// of the incoming signals and the neuron's own persisted state, and must store
// its result so that Output returns it afterwards.
type Neuron interface {
	ID() string
	Type() model.NeuronType
	Label() string
	SetLabel(label string)
	Output() model.Value
	Size() int
	CalculateOutput(incoming []Incoming) model.Value
}

// Source is implemented by neurons whose output never depends on incoming
// synapses. Synapses into a source are not evaluation dependencies.
type Source interface {
	IgnoresIncoming() bool
}

// IsSource reports whether n declares that it ignores incoming synapses.
func IsSource(n Neuron) bool {
	s, ok := n.(Source)
	return ok && s.IgnoresIncoming()
}

// Incoming is one resolved synapse: the synapse record and the output its
// pre-synaptic neuron produced earlier in the pass.
type Incoming struct {
	Synapse model.Synapse
	Source  model.Value
}

type base struct {
	id     string
	label  string
	output model.Value
}

func (b *base) ID() string {
	return b.id
}

func (b *base) Label() string {
	return b.label
}

func (b *base) SetLabel(label string) {
	b.label = label
}

func (b *base) Output() model.Value {
	return b.output
}

func coerce(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return x
}
