package graph

import (
	"github.com/pkg/errors"

	"neurograph/internal/model"
)

type SynapseOption func(*model.Synapse)

func WithSynapseID(id string) SynapseOption {
	return func(s *model.Synapse) { s.ID = id }
}

func WithSourceHandle(handle string) SynapseOption {
	return func(s *model.Synapse) { s.SourceHandle = handle }
}

func WithTargetHandle(handle string) SynapseOption {
	return func(s *model.Synapse) { s.TargetHandle = handle }
}

func WithSourceIndex(i int) SynapseOption {
	return func(s *model.Synapse) { s.SourceIndex = model.Index(i) }
}

func WithTargetIndex(i int) SynapseOption {
	return func(s *model.Synapse) { s.TargetIndex = model.Index(i) }
}

// Connect registers a synapse from pre to post. Both endpoints must already
// be registered.
func (g *Graph) Connect(pre, post string, weight float64, opts ...SynapseOption) (model.Synapse, error) {
	if _, ok := g.neurons[pre]; !ok {
		return model.Synapse{}, errors.Wrapf(ErrNeuronNotFound, "pre-synaptic %s", pre)
	}
	if _, ok := g.neurons[post]; !ok {
		return model.Synapse{}, errors.Wrapf(ErrNeuronNotFound, "post-synaptic %s", post)
	}

	s := &model.Synapse{PreSynaptic: pre, PostSynaptic: post, Weight: weight}
	for _, opt := range opts {
		opt(s)
	}
	if s.ID == "" {
		s.ID = g.newID()
	}
	if _, exists := g.synapses[s.ID]; exists {
		return model.Synapse{}, errors.Wrapf(ErrSynapseExists, "synapse %s", s.ID)
	}

	g.synapses[s.ID] = s
	g.synapseOrder = append(g.synapseOrder, s.ID)
	return s.Clone(), nil
}

func (g *Graph) Synapse(id string) (model.Synapse, bool) {
	s, ok := g.synapses[id]
	if !ok {
		return model.Synapse{}, false
	}
	return s.Clone(), true
}

// Synapses returns copies of every synapse in insertion order. That order is
// the per-neuron incoming order the engine preserves.
func (g *Graph) Synapses() []model.Synapse {
	out := make([]model.Synapse, 0, len(g.synapseOrder))
	for _, id := range g.synapseOrder {
		out = append(out, g.synapses[id].Clone())
	}
	return out
}

func (g *Graph) RemoveSynapse(id string) error {
	if _, ok := g.synapses[id]; !ok {
		return errors.Wrapf(ErrSynapseNotFound, "remove %s", id)
	}
	delete(g.synapses, id)
	g.synapseOrder = without(g.synapseOrder, id)
	return nil
}

// SetWeight edits the only mutable synapse field.
func (g *Graph) SetWeight(id string, weight float64) error {
	s, ok := g.synapses[id]
	if !ok {
		return errors.Wrapf(ErrSynapseNotFound, "set weight %s", id)
	}
	s.Weight = weight
	return nil
}
