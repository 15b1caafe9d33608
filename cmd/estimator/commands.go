package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yourusername/odds-estimator/internal/config"
	"github.com/yourusername/odds-estimator/internal/estimator"
	"github.com/yourusername/odds-estimator/internal/logger"
	"github.com/yourusername/odds-estimator/internal/metrics"
	"github.com/yourusername/odds-estimator/internal/models"
	"github.com/yourusername/odds-estimator/internal/service"
	"github.com/yourusername/odds-estimator/internal/simulation"
)

type app struct {
	out    io.Writer
	errOut io.Writer

	configPath  string
	logLevel    string
	format      string
	dumpMetrics bool

	cfg     *config.Config
	logger  *logrus.Logger
	service *service.EstimationService
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "estimator",
		Short:         "Estimate outcome probabilities from three-way decimal odds",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a.dumpMetrics {
				return metrics.WriteText(a.errOut)
			}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "config/config.yaml", "Path to config file")
	flags.StringVar(&a.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	flags.StringVar(&a.format, "format", "", "Override output format (text, json)")
	flags.BoolVar(&a.dumpMetrics, "metrics", false, "Write collected metrics to stderr on exit")

	root.AddCommand(newEstimateCommand(a), newBatchCommand(a), newSimulateCommand(a))
	return root
}

func (a *app) setup() error {
	cfg, err := config.LoadWithDefaults(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.App.LogLevel = a.logLevel
	}
	if a.format != "" {
		cfg.Output.Format = a.format
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg
	a.logger = logger.NewLoggerWithOutput(cfg.App.LogLevel, cfg.IsProduction(), a.errOut)
	a.service = service.NewEstimationService(cfg, a.logger)
	return nil
}

// oddsFlags holds the per-outcome price flags shared by estimate and simulate
type oddsFlags struct {
	name   string
	prices map[models.Outcome]*string
}

func (f *oddsFlags) register(cmd *cobra.Command) {
	f.prices = make(map[models.Outcome]*string, 3)
	cmd.Flags().StringVar(&f.name, "name", "cli", "Match name used in logs and JSON output")
	for _, o := range models.Outcomes() {
		f.prices[o] = cmd.Flags().String(string(o), "", fmt.Sprintf("Decimal odds for %s", o))
	}
}

func newEstimateCommand(a *app) *cobra.Command {
	var flags oddsFlags

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate a single market",
		Long: "Estimate a single market from --home, --draw and --away decimal odds.\n" +
			"Without any odds flags the first configured match is used.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			match, err := a.resolveMatch(cmd, &flags)
			if err != nil {
				return err
			}

			result, err := a.service.Estimate(cmd.Context(), match.Name, match.Odds)
			if err != nil {
				a.logger.WithError(err).WithField("match", match.Name).Error("Estimation failed")
				return err
			}
			return a.render([]*service.Result{result})
		},
	}

	flags.register(cmd)
	return cmd
}

// resolveMatch builds the odds mapping from the flags that were set.
// Unset flags are left out so missing outcomes surface as validation errors.
func (a *app) resolveMatch(cmd *cobra.Command, flags *oddsFlags) (config.MatchConfig, error) {
	odds := make(map[string]float64, len(flags.prices))
	for _, o := range models.Outcomes() {
		if !cmd.Flags().Changed(string(o)) {
			continue
		}
		value, err := models.ParseOddsValue(*flags.prices[o])
		if err != nil {
			return config.MatchConfig{}, fmt.Errorf("--%s: %w", o, err)
		}
		odds[string(o)] = value
	}

	if len(odds) > 0 {
		return config.MatchConfig{Name: flags.name, Odds: odds}, nil
	}
	if len(a.cfg.Matches) == 0 {
		return config.MatchConfig{}, fmt.Errorf("no odds given and no matches configured")
	}
	return a.cfg.Matches[0], nil
}

func newSimulateCommand(a *app) *cobra.Command {
	var (
		flags    oddsFlags
		override simulation.MonteCarloConfig
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay a market with monte carlo draws from its estimated probabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if override.Iterations < 0 {
				return fmt.Errorf("--iterations must be positive, got %d", override.Iterations)
			}
			match, err := a.resolveMatch(cmd, &flags)
			if err != nil {
				return err
			}

			result, err := a.service.Simulate(cmd.Context(), match.Name, match.Odds, override)
			if err != nil {
				a.logger.WithError(err).WithField("match", match.Name).Error("Simulation failed")
				return err
			}
			return a.renderSimulation(result)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&override.Iterations, "iterations", 0, "Number of simulated matches (default from config)")
	cmd.Flags().Int64Var(&override.Seed, "seed", 0, "Random seed (default from config, 0 draws a fresh seed)")
	return cmd
}

func newBatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Estimate every configured match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBatch(cmd.Context())
		},
	}
}

func (a *app) runBatch(ctx context.Context) error {
	batch := a.service.EstimateBatch(ctx, a.cfg.Matches)

	results := make([]*service.Result, 0, len(batch))
	failed := 0
	for _, item := range batch {
		if item.Err != nil {
			failed++
			a.logger.WithError(item.Err).WithField("match", item.Match).Error("Estimation failed")
			continue
		}
		results = append(results, item.Result)
	}

	if err := a.render(results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d matches failed", failed, len(batch))
	}
	return nil
}

func (a *app) render(results []*service.Result) error {
	if a.cfg.Output.Format == "json" {
		estimates := make([]*models.Estimate, 0, len(results))
		for _, r := range results {
			estimates = append(estimates, r.Estimate)
		}
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "    ")
		return enc.Encode(estimates)
	}

	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(a.out)
			}
			fmt.Fprintf(a.out, "Match: %s\n", r.Estimate.Match)
		}
		if err := r.Estimator.WriteReport(a.out); err != nil {
			return err
		}
	}
	return nil
}

type simulationOutput struct {
	Estimate   *models.Estimate            `json:"estimate"`
	Simulation simulation.MonteCarloResult `json:"simulation"`
	Deviation  models.OutcomeValues        `json:"deviation"`
}

func (a *app) renderSimulation(result *service.SimulationResult) error {
	if a.cfg.Output.Format == "json" {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "    ")
		return enc.Encode(simulationOutput{
			Estimate:   result.Estimate,
			Simulation: result.Simulation,
			Deviation:  result.Deviation,
		})
	}

	if err := result.Estimator.WriteReport(a.out); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nSimulated %d matches (seed %d)\n", result.Simulation.Iterations, result.Simulation.Seed)
	sections := []struct {
		title  string
		values models.OutcomeValues
	}{
		{"Simulated frequencies", result.Simulation.Frequency},
		{"Simulated mean returns", result.Simulation.MeanReturn},
		{"Simulated variances", result.Simulation.Variance},
		{"Standard errors from expected gains", result.Deviation},
	}
	for _, section := range sections {
		if err := estimator.WriteSection(a.out, section.title, section.values); err != nil {
			return err
		}
	}
	return nil
}
