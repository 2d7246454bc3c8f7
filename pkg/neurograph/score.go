package neurograph

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"neurograph/internal/dataset"
	"neurograph/internal/nn"
)

type Dataset = dataset.Dataset

// LogicGate returns a copy of a built-in truth table (AND, OR, NOT, NAND,
// NOR, XOR, XNOR).
func LogicGate(id string) (Dataset, error) {
	return dataset.Get(id)
}

func LogicGates() []Dataset {
	return dataset.List()
}

type RowResult struct {
	Inputs  []float64
	Targets []float64
	Outputs []float64
	Correct bool
}

type ScoreReport struct {
	Dataset  string
	Rows     []RowResult
	Correct  int
	Accuracy float64
	MSE      float64
}

// Score drives inputIDs from each dataset row, evaluates the graph and
// compares outputIDs with the row targets. A row is correct when every
// rounded output equals its target. Weights are never changed, and the input
// neurons get their previous values back afterwards.
func (c *Client) Score(ctx context.Context, ds Dataset, inputIDs, outputIDs []string) (ScoreReport, error) {
	if err := ds.Validate(); err != nil {
		return ScoreReport{}, err
	}
	if len(inputIDs) != len(ds.InputColumns) {
		return ScoreReport{}, fmt.Errorf("dataset %s has %d input columns, got %d input neurons", ds.ID, len(ds.InputColumns), len(inputIDs))
	}
	if len(outputIDs) != len(ds.OutputColumns) {
		return ScoreReport{}, fmt.Errorf("dataset %s has %d output columns, got %d output neurons", ds.ID, len(ds.OutputColumns), len(outputIDs))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	previous := make([]float64, len(inputIDs))
	for i, id := range inputIDs {
		n, ok := c.graph.Neuron(id)
		if !ok {
			return ScoreReport{}, fmt.Errorf("%w: input %s", ErrNeuronNotFound, id)
		}
		if _, ok := n.(*nn.Input); !ok {
			return ScoreReport{}, fmt.Errorf("neuron %s is %s, not an input", id, n.Type())
		}
		previous[i] = n.Output().Float()
	}
	defer func() {
		for i, id := range inputIDs {
			_ = c.graph.SetInput(id, previous[i])
		}
	}()

	report := ScoreReport{Dataset: ds.ID, Rows: make([]RowResult, 0, len(ds.Rows))}
	sqErr := 0.0
	samples := 0
	for _, row := range ds.Rows {
		for i, id := range inputIDs {
			if err := c.graph.SetInput(id, row.Inputs[i]); err != nil {
				return ScoreReport{}, err
			}
		}
		snap, err := c.evaluateLocked(ctx)
		if err != nil {
			return ScoreReport{}, fmt.Errorf("score %s: %w", ds.ID, err)
		}

		result := RowResult{
			Inputs:  append([]float64(nil), row.Inputs...),
			Targets: append([]float64(nil), row.Outputs...),
			Outputs: make([]float64, len(outputIDs)),
			Correct: true,
		}
		for i, id := range outputIDs {
			got := snap.Float(id)
			result.Outputs[i] = got
			diff := got - row.Outputs[i]
			sqErr += diff * diff
			samples++
			if math.Round(got) != row.Outputs[i] {
				result.Correct = false
			}
		}
		if result.Correct {
			report.Correct++
		}
		report.Rows = append(report.Rows, result)
	}

	report.Accuracy = float64(report.Correct) / float64(len(ds.Rows))
	if samples > 0 {
		report.MSE = sqErr / float64(samples)
	}
	c.logger.Debug("dataset scored",
		zap.String("dataset", ds.ID),
		zap.Int("rows", len(ds.Rows)),
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("mse", report.MSE),
	)
	return report, nil
}
