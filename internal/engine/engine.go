package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"neurograph/internal/metrics"
	"neurograph/internal/model"
	"neurograph/internal/nn"
)

// Engine runs forward passes over a neuron graph. It holds no graph state of
// its own, so one Engine may serve many graphs, though a single graph must not
// be evaluated by two passes at once.
type Engine struct {
	logger  *zap.Logger
	workers int
	metrics *metrics.Collector
}

type Option func(*Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWorkers bounds how many neurons of one dependency level are evaluated
// concurrently. Values below 2 evaluate sequentially.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) {
		e.metrics = c
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop(), workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one pass.
type Result struct {
	Outputs map[string]model.Value
	Order   []string
	Levels  int
}

// Output returns the value a neuron produced, or the zero Value when the
// neuron was not part of the pass.
func (r Result) Output(id string) model.Value {
	return r.Outputs[id]
}

// Forward compiles neurons and synapses into a plan and runs it. Structural
// problems are reported before any neuron is evaluated.
func (e *Engine) Forward(ctx context.Context, neurons []nn.Neuron, synapses []model.Synapse) (Result, error) {
	plan, err := Compile(neurons, synapses)
	if err != nil {
		e.metrics.RecordFailure(metrics.ResultStructural)
		fields := []zap.Field{zap.Error(err)}
		var cycle *CycleError
		if errors.As(err, &cycle) {
			fields = append(fields, zap.Strings("cycle", cycle.NeuronIDs))
		}
		e.logger.Warn("graph rejected", fields...)
		return Result{}, err
	}
	return e.Run(ctx, plan)
}

// Run evaluates a compiled plan. Cancellation is observed between levels; a
// canceled pass returns no Result even though earlier levels already updated
// their neurons.
func (e *Engine) Run(ctx context.Context, plan *Plan) (Result, error) {
	start := time.Now()
	for depth, level := range plan.levels {
		if err := ctx.Err(); err != nil {
			e.metrics.RecordFailure(metrics.ResultCanceled)
			return Result{}, fmt.Errorf("forward pass canceled at level %d: %w", depth, err)
		}
		if err := e.runLevel(ctx, plan, level); err != nil {
			e.metrics.RecordFailure(metrics.ResultCanceled)
			return Result{}, fmt.Errorf("forward pass level %d: %w", depth, err)
		}
	}

	res := Result{
		Outputs: make(map[string]model.Value, len(plan.neurons)),
		Order:   plan.Order(),
		Levels:  plan.Levels(),
	}
	for _, n := range plan.neurons {
		res.Outputs[n.ID()] = n.Output()
	}

	elapsed := time.Since(start)
	e.metrics.RecordPass(len(plan.neurons), plan.Levels(), elapsed)
	e.logger.Debug("forward pass complete",
		zap.Int("neurons", len(plan.neurons)),
		zap.Int("synapses", plan.synapses),
		zap.Int("levels", plan.Levels()),
		zap.Duration("elapsed", elapsed),
	)
	return res, nil
}

func (e *Engine) runLevel(ctx context.Context, plan *Plan, level []int) error {
	if e.workers < 2 || len(level) < 2 {
		for _, i := range level {
			e.evaluate(plan, i)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, i := range level {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.evaluate(plan, i)
			return nil
		})
	}
	return g.Wait()
}

func (e *Engine) evaluate(plan *Plan, i int) {
	n := plan.neurons[i]
	prev := n.Output()

	// Sources never read their incoming synapses, and their pre-synaptic
	// neurons may share the level, so nothing is resolved for them.
	var incoming []nn.Incoming
	if !nn.IsSource(n) {
		incoming = plan.resolve(i)
	}
	out := n.CalculateOutput(incoming)

	if prev.Len() > 0 && !prev.SameShape(out) {
		e.logger.Warn("neuron output changed shape",
			zap.String("neuron", n.ID()),
			zap.String("type", string(n.Type())),
			zap.Int("before", prev.Len()),
			zap.Int("after", out.Len()),
		)
	}
}
