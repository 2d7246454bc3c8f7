package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"neurograph/internal/dataset"
	api "neurograph/pkg/neurograph"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	root := newRootCmd(os.Stdout)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// app carries what every subcommand needs once flags and config are merged.
type app struct {
	cfg      Config
	logger   *zap.Logger
	registry *prometheus.Registry
	out      io.Writer
}

func (a *app) client() (*api.Client, error) {
	opts := api.Options{Logger: a.logger, Workers: a.cfg.Workers}
	if a.registry != nil {
		opts.Registerer = a.registry
	}
	return api.New(opts)
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	var (
		configPath string
		logLevel   string
		workers    int
		metrics    bool
	)

	root := &cobra.Command{
		Use:           "neurographctl",
		Short:         "Build and evaluate neuron graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("metrics") {
				cfg.Metrics = metrics
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			if cfg.Metrics {
				a.registry = prometheus.NewRegistry()
			}
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a.registry != nil {
				if err := printMetrics(a.out, a.registry); err != nil {
					return err
				}
			}
			if a.logger != nil {
				_ = a.logger.Sync()
			}
			return nil
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file")
	pf.StringVar(&logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	pf.IntVar(&workers, "workers", 1, "neurons evaluated concurrently per level")
	pf.BoolVar(&metrics, "metrics", false, "print engine metrics after the command")

	root.AddCommand(newGatesCmd(a), newPixelsCmd(a), newActivationsCmd(a))
	return root
}

func newGatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gates [names...]",
		Short: "Score the built-in logic gate circuits against their truth tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = a.cfg.Gates
			}
			if len(names) == 0 {
				names = dataset.IDs()
			}
			return runGates(cmd.Context(), a, names)
		},
	}
}

func runGates(ctx context.Context, a *app, names []string) error {
	client, err := a.client()
	if err != nil {
		return err
	}

	var missed []string
	for _, raw := range names {
		name := strings.ToUpper(raw)
		gate, err := client.BuildGate(name)
		if err != nil {
			return err
		}
		ds, err := api.LogicGate(name)
		if err != nil {
			return err
		}
		report, err := client.Score(ctx, ds, gate.Inputs, []string{gate.Output})
		if err != nil {
			return err
		}

		fmt.Fprintf(a.out, "%s accuracy=%.2f mse=%.4f\n", name, report.Accuracy, report.MSE)
		for _, row := range report.Rows {
			mark := "ok"
			if !row.Correct {
				mark = "MISS"
			}
			fmt.Fprintf(a.out, "  in=%v want=%v got=%v %s\n", row.Inputs, row.Targets, row.Outputs, mark)
		}
		if report.Accuracy < 1 {
			missed = append(missed, name)
		}
	}
	if len(missed) > 0 {
		return fmt.Errorf("gates missed rows: %s", strings.Join(missed, ", "))
	}
	return nil
}

func newPixelsCmd(a *app) *cobra.Command {
	var (
		width   int
		height  int
		indices []int
		handles []string
	)
	cmd := &cobra.Command{
		Use:   "pixels",
		Short: "Resolve output neurons addressed into a pixel matrix",
		Long: "Builds a width x height pixel matrix holding 1..n, attaches one output " +
			"neuron per --index (as pixel-<n>) and per raw --handle, and prints what " +
			"each output resolves to. Unresolvable handles read as 0.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPixels(cmd.Context(), a, width, height, indices, handles)
		},
	}
	cmd.Flags().IntVar(&width, "width", 3, "matrix width")
	cmd.Flags().IntVar(&height, "height", 3, "matrix height")
	cmd.Flags().IntSliceVar(&indices, "index", []int{0, 4}, "pixel indices to address")
	cmd.Flags().StringSliceVar(&handles, "handle", nil, "raw source handles to address")
	return cmd
}

func runPixels(ctx context.Context, a *app, width, height int, indices []int, handles []string) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	matrix, err := client.AddPixelMatrix("pixels", width, height)
	if err != nil {
		return err
	}
	ramp := make([]float64, width*height)
	for i := range ramp {
		ramp[i] = float64(i + 1)
	}
	if err := client.SetValues(matrix, ramp); err != nil {
		return err
	}

	all := make([]string, 0, len(indices)+len(handles))
	for _, i := range indices {
		all = append(all, api.PixelHandle(i))
	}
	all = append(all, handles...)

	outputs := make([]string, len(all))
	for k, handle := range all {
		id, err := client.AddOutput(handle)
		if err != nil {
			return err
		}
		if _, err := client.Connect(matrix, id, 1, api.WithSourceHandle(handle)); err != nil {
			return err
		}
		outputs[k] = id
	}

	snap, err := client.Evaluate(ctx)
	if err != nil {
		return err
	}
	for k, handle := range all {
		fmt.Fprintf(a.out, "%s -> %g\n", handle, snap.Float(outputs[k]))
	}
	return nil
}

func newActivationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activations",
		Short: "List registered activation functions",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			for _, spec := range api.DescribeActivations() {
				fmt.Fprintf(tw, "%s\t%s\n", spec.Name, spec.Description)
			}
			return tw.Flush()
		},
	}
}

func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
	return nil
}
