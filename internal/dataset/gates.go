package dataset

import "github.com/pkg/errors"

const (
	AND  = "AND"
	OR   = "OR"
	NOT  = "NOT"
	NAND = "NAND"
	NOR  = "NOR"
	XOR  = "XOR"
	XNOR = "XNOR"
)

var logicGates = []Dataset{
	binaryGate(AND, 0, 0, 0, 1),
	binaryGate(OR, 0, 1, 1, 1),
	{
		ID:            NOT,
		Name:          "Logic Gate: NOT",
		ReadOnly:      true,
		InputColumns:  []string{"X1"},
		OutputColumns: []string{"Y"},
		Rows: []Row{
			{Inputs: []float64{0}, Outputs: []float64{1}},
			{Inputs: []float64{1}, Outputs: []float64{0}},
		},
	},
	binaryGate(NAND, 1, 1, 1, 0),
	binaryGate(NOR, 1, 0, 0, 0),
	binaryGate(XOR, 0, 1, 1, 0),
	binaryGate(XNOR, 1, 0, 0, 1),
}

// binaryGate lays out a two-input truth table in the order 00, 01, 10, 11.
func binaryGate(id string, y00, y01, y10, y11 float64) Dataset {
	return Dataset{
		ID:            id,
		Name:          "Logic Gate: " + id,
		ReadOnly:      true,
		InputColumns:  []string{"X1", "X2"},
		OutputColumns: []string{"Y"},
		Rows: []Row{
			{Inputs: []float64{0, 0}, Outputs: []float64{y00}},
			{Inputs: []float64{0, 1}, Outputs: []float64{y01}},
			{Inputs: []float64{1, 0}, Outputs: []float64{y10}},
			{Inputs: []float64{1, 1}, Outputs: []float64{y11}},
		},
	}
}

// Get returns a copy of a built-in dataset.
func Get(id string) (Dataset, error) {
	for _, d := range logicGates {
		if d.ID == id {
			return d.Clone(), nil
		}
	}
	return Dataset{}, errors.Wrapf(ErrNotFound, "id=%s", id)
}

// List returns copies of every built-in dataset in a stable order.
func List() []Dataset {
	out := make([]Dataset, len(logicGates))
	for i, d := range logicGates {
		out[i] = d.Clone()
	}
	return out
}

// IDs lists built-in dataset ids.
func IDs() []string {
	out := make([]string, len(logicGates))
	for i, d := range logicGates {
		out[i] = d.ID
	}
	return out
}
