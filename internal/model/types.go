package model

type NeuronType string

const (
	NeuronBias           NeuronType = "bias"
	NeuronInput          NeuronType = "input"
	NeuronOutput         NeuronType = "output"
	NeuronPerceptron     NeuronType = "perceptron"
	NeuronMcCullochPitts NeuronType = "mcculloch-pitts"
	NeuronPixelMatrix    NeuronType = "pixel-matrix"
	NeuronTensor         NeuronType = "tensor"
	NeuronReduction      NeuronType = "tensor-reduce-op"
	NeuronElementWise    NeuronType = "tensor-elem-op"
	LayerType            NeuronType = "layer"
)

// Synapse is a weak association between two neurons named by id. It never
// owns either endpoint; the graph registry resolves them at evaluation time.
type Synapse struct {
	ID           string  `json:"id"`
	PreSynaptic  string  `json:"pre_synaptic"`
	PostSynaptic string  `json:"post_synaptic"`
	Weight       float64 `json:"weight"`
	SourceHandle string  `json:"source_handle,omitempty"`
	TargetHandle string  `json:"target_handle,omitempty"`
	SourceIndex  *int    `json:"source_index,omitempty"`
	TargetIndex  *int    `json:"target_index,omitempty"`
}

// Clone returns a copy that shares no index pointers with s.
func (s Synapse) Clone() Synapse {
	out := s
	if s.SourceIndex != nil {
		out.SourceIndex = Index(*s.SourceIndex)
	}
	if s.TargetIndex != nil {
		out.TargetIndex = Index(*s.TargetIndex)
	}
	return out
}

// Index returns a pointer to i, for the optional synapse index tags.
func Index(i int) *int {
	return &i
}

// Layer is an organizational tag. The engine never consults it.
type Layer struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Type  NeuronType `json:"type"`
}
