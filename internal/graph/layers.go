package graph

import (
	"github.com/pkg/errors"

	"neurograph/internal/model"
)

func (g *Graph) AddLayer(label string) model.Layer {
	layer := model.Layer{ID: g.newID(), Label: label, Type: model.LayerType}
	g.layers[layer.ID] = layer
	g.layerOrder = append(g.layerOrder, layer.ID)
	return layer
}

func (g *Graph) Layers() []model.Layer {
	out := make([]model.Layer, 0, len(g.layerOrder))
	for _, id := range g.layerOrder {
		out = append(out, g.layers[id])
	}
	return out
}

// AssignLayer moves a neuron into a layer, replacing any previous membership.
func (g *Graph) AssignLayer(neuronID, layerID string) error {
	if _, ok := g.neurons[neuronID]; !ok {
		return errors.Wrapf(ErrNeuronNotFound, "assign %s", neuronID)
	}
	if _, ok := g.layers[layerID]; !ok {
		return errors.Wrapf(ErrLayerNotFound, "assign %s", layerID)
	}
	g.membership[neuronID] = layerID
	return nil
}

func (g *Graph) LayerOf(neuronID string) (model.Layer, bool) {
	layerID, ok := g.membership[neuronID]
	if !ok {
		return model.Layer{}, false
	}
	return g.layers[layerID], true
}

// Members lists the neuron ids of a layer in neuron insertion order.
func (g *Graph) Members(layerID string) []string {
	var out []string
	for _, id := range g.neuronOrder {
		if g.membership[id] == layerID {
			out = append(out, id)
		}
	}
	return out
}

// RemoveLayer drops the tag. Member neurons stay in the graph.
func (g *Graph) RemoveLayer(id string) error {
	if _, ok := g.layers[id]; !ok {
		return errors.Wrapf(ErrLayerNotFound, "remove %s", id)
	}
	for neuronID, layerID := range g.membership {
		if layerID == id {
			delete(g.membership, neuronID)
		}
	}
	delete(g.layers, id)
	g.layerOrder = without(g.layerOrder, id)
	return nil
}
