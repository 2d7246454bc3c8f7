package engine

import (
	"sort"

	"neurograph/internal/model"
	"neurograph/internal/nn"
)

// Plan is a validated evaluation schedule. Neurons are grouped in dependency
// levels: every pre-synaptic neuron of a level-k neuron sits in a level below
// k, so neurons inside one level are independent of each other.
type Plan struct {
	neurons  []nn.Neuron
	index    map[string]int
	incoming [][]model.Synapse
	levels   [][]int
	synapses int
}

// Compile validates the neuron and synapse sets and orders them
// topologically. Per-neuron incoming synapses keep the order they have in
// synapses. Synapses into a source neuron (Input, Bias, PixelMatrix) are kept
// but impose no ordering, since sources never read them.
func Compile(neurons []nn.Neuron, synapses []model.Synapse) (*Plan, error) {
	p := &Plan{
		neurons:  neurons,
		index:    make(map[string]int, len(neurons)),
		incoming: make([][]model.Synapse, len(neurons)),
		synapses: len(synapses),
	}
	for i, n := range neurons {
		if _, dup := p.index[n.ID()]; dup {
			return nil, &DuplicateNeuronError{NeuronID: n.ID()}
		}
		p.index[n.ID()] = i
	}

	outgoing := make([][]int, len(neurons))
	inDegree := make([]int, len(neurons))
	for _, s := range synapses {
		pre, ok := p.index[s.PreSynaptic]
		if !ok {
			return nil, &MissingNeuronError{SynapseID: s.ID, NeuronID: s.PreSynaptic, Endpoint: "pre-synaptic"}
		}
		post, ok := p.index[s.PostSynaptic]
		if !ok {
			return nil, &MissingNeuronError{SynapseID: s.ID, NeuronID: s.PostSynaptic, Endpoint: "post-synaptic"}
		}
		p.incoming[post] = append(p.incoming[post], s.Clone())
		if nn.IsSource(neurons[post]) {
			continue
		}
		outgoing[pre] = append(outgoing[pre], post)
		inDegree[post]++
	}

	var current []int
	for i := range neurons {
		if inDegree[i] == 0 {
			current = append(current, i)
		}
	}
	placed := 0
	for len(current) > 0 {
		p.levels = append(p.levels, current)
		placed += len(current)

		var next []int
		for _, i := range current {
			for _, post := range outgoing[i] {
				inDegree[post]--
				if inDegree[post] == 0 {
					next = append(next, post)
				}
			}
		}
		sort.Ints(next)
		current = next
	}

	if placed < len(neurons) {
		return nil, &CycleError{NeuronIDs: p.cycleMembers(inDegree, outgoing)}
	}
	return p, nil
}

// cycleMembers trims the unplaced neurons down to those that still feed
// another unplaced neuron. Neurons that are merely downstream of a cycle drop
// out; what remains lies on a cycle or on a path between cycles.
func (p *Plan) cycleMembers(inDegree []int, outgoing [][]int) []string {
	remaining := make(map[int]bool)
	for i, d := range inDegree {
		if d > 0 {
			remaining[i] = true
		}
	}
	for changed := true; changed; {
		changed = false
		for i := range remaining {
			feeds := false
			for _, post := range outgoing[i] {
				if remaining[post] {
					feeds = true
					break
				}
			}
			if !feeds {
				delete(remaining, i)
				changed = true
			}
		}
	}

	idx := make([]int, 0, len(remaining))
	for i := range remaining {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	ids := make([]string, len(idx))
	for k, i := range idx {
		ids[k] = p.neurons[i].ID()
	}
	return ids
}

// Order lists neuron ids in evaluation order.
func (p *Plan) Order() []string {
	out := make([]string, 0, len(p.neurons))
	for _, level := range p.levels {
		for _, i := range level {
			out = append(out, p.neurons[i].ID())
		}
	}
	return out
}

func (p *Plan) Levels() int {
	return len(p.levels)
}

// Incoming returns the ordered synapses feeding a neuron.
func (p *Plan) Incoming(id string) []model.Synapse {
	i, ok := p.index[id]
	if !ok {
		return nil
	}
	out := make([]model.Synapse, len(p.incoming[i]))
	for k, s := range p.incoming[i] {
		out[k] = s.Clone()
	}
	return out
}

func (p *Plan) resolve(i int) []nn.Incoming {
	synapses := p.incoming[i]
	if len(synapses) == 0 {
		return nil
	}
	out := make([]nn.Incoming, len(synapses))
	for k, s := range synapses {
		out[k] = nn.Incoming{Synapse: s, Source: p.neurons[p.index[s.PreSynaptic]].Output()}
	}
	return out
}
