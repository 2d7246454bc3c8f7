package engine

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrStructural is matched by every error that makes a graph impossible to
// evaluate. No outputs from a pass that fails this way are meaningful.
var ErrStructural = errors.New("structural graph error")

// CycleError names the neurons that sit on, or between, dependency cycles.
type CycleError struct {
	NeuronIDs []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle among neurons: %s", strings.Join(e.NeuronIDs, ", "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrStructural
}

// MissingNeuronError reports a synapse whose endpoint is absent from the
// neuron set handed to the engine.
type MissingNeuronError struct {
	SynapseID string
	NeuronID  string
	Endpoint  string
}

func (e *MissingNeuronError) Error() string {
	return fmt.Sprintf("synapse %s: %s neuron %s not in graph", e.SynapseID, e.Endpoint, e.NeuronID)
}

func (e *MissingNeuronError) Is(target error) bool {
	return target == ErrStructural
}

// DuplicateNeuronError reports two neurons sharing one id.
type DuplicateNeuronError struct {
	NeuronID string
}

func (e *DuplicateNeuronError) Error() string {
	return fmt.Sprintf("duplicate neuron id %s", e.NeuronID)
}

func (e *DuplicateNeuronError) Is(target error) bool {
	return target == ErrStructural
}
