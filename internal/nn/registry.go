package nn

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

const (
	ActivationStep     = "step"
	ActivationIdentity = "identity"
	ActivationRelu     = "relu"
	ActivationTanh     = "tanh"
	ActivationSigmoid  = "sigmoid"
	ActivationSign     = "sign"
)

var (
	ErrActivationExists   = errors.New("activation already registered")
	ErrActivationNotFound = errors.New("activation not found")
)

// ActivationFunc maps a perceptron's net input (weighted sum minus threshold)
// to its output.
type ActivationFunc func(x float64) float64

// ActivationSpec is one named entry of the activation table. Description is
// free text shown to users choosing an activation for a perceptron.
type ActivationSpec struct {
	Name        string
	Description string
	Func        ActivationFunc
}

var activations = struct {
	mu    sync.RWMutex
	specs map[string]ActivationSpec
}{
	specs: make(map[string]ActivationSpec),
}

func builtInActivations() []ActivationSpec {
	return []ActivationSpec{
		{
			Name:        ActivationStep,
			Description: "1 when the net input reaches the threshold, else 0",
			Func:        stepActivation,
		},
		{
			Name:        ActivationIdentity,
			Description: "net input passed through unchanged",
			Func:        func(x float64) float64 { return x },
		},
		{
			Name:        ActivationRelu,
			Description: "net input clamped below at 0",
			Func:        func(x float64) float64 { return math.Max(0, x) },
		},
		{
			Name:        ActivationTanh,
			Description: "hyperbolic tangent of the net input, in (-1, 1)",
			Func:        math.Tanh,
		},
		{
			Name:        ActivationSigmoid,
			Description: "logistic curve of the net input, in (0, 1)",
			Func:        func(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) },
		},
		{
			Name:        ActivationSign,
			Description: "-1, 0 or 1 following the sign of the net input",
			Func:        signActivation,
		},
	}
}

func init() {
	for _, spec := range builtInActivations() {
		mustRegister(spec)
	}
}

func stepActivation(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return 0
}

func signActivation(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// RegisterActivation adds fn under name with no description.
func RegisterActivation(name string, fn ActivationFunc) error {
	return RegisterActivationWithSpec(ActivationSpec{Name: name, Func: fn})
}

func MustRegisterActivation(name string, fn ActivationFunc) {
	if err := RegisterActivation(name, fn); err != nil {
		panic(err)
	}
}

func mustRegister(spec ActivationSpec) {
	if err := RegisterActivationWithSpec(spec); err != nil {
		panic(err)
	}
}

// RegisterActivationWithSpec adds spec to the table. Names are unique; a
// second registration under the same name fails with ErrActivationExists.
func RegisterActivationWithSpec(spec ActivationSpec) error {
	if spec.Name == "" {
		return errors.New("activation name is required")
	}
	if spec.Func == nil {
		return fmt.Errorf("activation %s: function is required", spec.Name)
	}

	activations.mu.Lock()
	defer activations.mu.Unlock()

	if _, exists := activations.specs[spec.Name]; exists {
		return fmt.Errorf("%w: %s", ErrActivationExists, spec.Name)
	}
	activations.specs[spec.Name] = spec
	return nil
}

func GetActivation(name string) (ActivationFunc, error) {
	spec, err := LookupActivation(name)
	if err != nil {
		return nil, err
	}
	return spec.Func, nil
}

// LookupActivation returns the full table entry for name.
func LookupActivation(name string) (ActivationSpec, error) {
	activations.mu.RLock()
	spec, ok := activations.specs[name]
	activations.mu.RUnlock()
	if !ok {
		return ActivationSpec{}, fmt.Errorf("%w: %s", ErrActivationNotFound, name)
	}
	return spec, nil
}

// DescribeActivations returns every registered entry ordered by name.
func DescribeActivations() []ActivationSpec {
	activations.mu.RLock()
	specs := make([]ActivationSpec, 0, len(activations.specs))
	for _, spec := range activations.specs {
		specs = append(specs, spec)
	}
	activations.mu.RUnlock()

	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

func ListActivations() []string {
	specs := DescribeActivations()
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}

func resetActivationRegistryForTests() {
	activations.mu.Lock()
	activations.specs = make(map[string]ActivationSpec)
	activations.mu.Unlock()
	for _, spec := range builtInActivations() {
		mustRegister(spec)
	}
}
