package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sirkon/smpath/internal/config"
	"github.com/sirkon/smpath/internal/diag"
	"github.com/sirkon/smpath/internal/fixture"
	"github.com/sirkon/smpath/internal/reconstruct"
	"github.com/sirkon/smpath/internal/render"
)

var traceCmd = &cobra.Command{
	Use:   "trace <scenario>",
	Short: "Reconstruct paths to violations of a scenario",
	Long: `Reconstruct the shortest path from an entry to every violation of the scenario.

Violations facts prove infeasible and violations no entry reaches are reported as
suppressed. Requests run concurrently and a failed one does not stop others.

Examples:
  smpath trace scenario.yaml                    # Print paths as text
  smpath trace --format dot scenario.yaml       # Print pruned error graphs
  smpath trace --dot-dir out --summary s.yaml   # Export graphs, summarize outcomes
  smpath trace --check scenario.yaml            # Fail on unmet expectations`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

var (
	traceConfigPath string
	traceFormat     = OutputFormatText
	traceDotDir     string
	traceStrict     bool
	traceMaxSteps   int
	traceWorkers    int
	traceVerbose    bool
	traceSummary    bool
	traceCheck      bool
	traceMetrics    string
)

func init() {
	flags := traceCmd.Flags()
	flags.StringVarP(&traceConfigPath, "config", "c", "", "Path to the configuration file")
	flags.Var(&traceFormat, "format", "Output format: text or dot")
	flags.StringVar(&traceDotDir, "dot-dir", "", "Export pruned error graphs of surviving violations into the directory")
	flags.BoolVar(&traceStrict, "strict", true, "Reject transitions leading off supergraph edges")
	flags.IntVar(&traceMaxSteps, "max-steps", 0, "Node expansion budget of a single request")
	flags.IntVar(&traceWorkers, "workers", 0, "Number of concurrent requests, zero means GOMAXPROCS")
	flags.BoolVarP(&traceVerbose, "verbose", "v", false, "Log reconstruction steps")
	flags.BoolVar(&traceSummary, "summary", false, "Print a summary of outcome codes")
	flags.BoolVar(&traceCheck, "check", false, "Fail when outcomes differ from expectations of the scenario")
	flags.StringVar(&traceMetrics, "metrics", "", "Write request metrics in the text exposition format into the file")
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := traceConfig(cmd)
	if err != nil {
		return err
	}
	log := cfg.Logger(cmd.ErrOrStderr())

	f, err := fixture.LoadFile(args[0])
	if err != nil {
		return err
	}
	if f.DefaultState == "" {
		f.DefaultState = cfg.DefaultState
	}

	var reporter diag.Reporter
	opts := cfg.Options(log)
	opts.Reporter = &reporter
	if cfg.DotDir != "" {
		opts.Exporter = reconstruct.NewExporter(cfg.DotDir)
	}

	var reg *prometheus.Registry
	if traceMetrics != "" {
		reg = prometheus.NewRegistry()
		if opts.Metrics, err = reconstruct.NewMetrics(reg); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if cfg.Budgets.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Budgets.Timeout)
		defer cancel()
	}

	log.Info("reconstructing", "scenario", args[0], "violations", len(f.Violations))
	items := f.Reconstructor(opts).ReconstructAll(ctx, f.Queries())

	var failed, unmet int
	out := cmd.OutOrStdout()
	printer := render.New(out)
	for i, item := range items {
		if item.Err != nil {
			failed++
			if traceFormat == OutputFormatText {
				if err := printer.Failure(item.Violation, item.Err); err != nil {
					return err
				}
			}
			continue
		}

		if traceCheck {
			if err := f.Violations[i].Check(item.Result); err != nil {
				unmet++
				var codes []string
				for _, rep := range reporter.Request(item.Result.ID.String()) {
					codes = append(codes, rep.Code.String())
				}
				log.Error("unmet expectation", "request", item.Result.ID, "codes", codes, "err", err)
			}
		}

		switch traceFormat {
		case OutputFormatText:
			err = printer.Trace(item.Result)
		case OutputFormatDot:
			err = item.Result.Graph.WriteDot(out, fmt.Sprintf("error_graph_%d", i+1))
		}
		if err != nil {
			return err
		}
	}

	if traceSummary {
		if err := reporter.PrintSummary(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	if reg != nil {
		if err := prometheus.WriteToTextfile(traceMetrics, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	switch {
	case failed > 0:
		return fmt.Errorf("%d of %d requests failed", failed, len(items))
	case unmet > 0:
		return fmt.Errorf("%d of %d requests did not meet expectations", unmet, len(items))
	}

	return nil
}

// traceConfig loads the configuration and applies flags set explicitly.
func traceConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if traceConfigPath != "" {
		var err error
		if cfg, err = config.Load(traceConfigPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("strict") {
		cfg.Strict = traceStrict
	}
	if flags.Changed("max-steps") {
		cfg.Budgets.MaxSteps = traceMaxSteps
	}
	if flags.Changed("workers") {
		cfg.Workers = traceWorkers
	}
	if flags.Changed("dot-dir") {
		cfg.DotDir = traceDotDir
	}
	if traceVerbose {
		cfg.Log.Level = slog.LevelDebug
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return cfg, nil
}
