package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/weiihann/mpisweep/harness"
	"github.com/weiihann/mpisweep/results"
	"github.com/weiihann/mpisweep/sweep"
)

type runConfig struct {
	sweep       sweep.Config
	output      string
	distributed bool
	command     string
	noNPColumn  bool
	timeout     time.Duration
	dryRun      bool
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		configPath  string
		numProcs    []int
		ns          []int
		ds          []int
		ks          []int
		nRange      string
		nPow2       string
		nLogSpace   string
		repetitions int
		dataset     string
		binary      string
		output      string
		distributed bool
		command     string
		noNPColumn  bool
		timeout     time.Duration
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark binary over a parameter sweep",
		Long: `Invoke the benchmark binary once per repetition for every combination
of process count, n, d and k (combinations with n <= k are skipped), scrape
the "Total time" it prints, and write one CSV row per invocation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := sweep.DefaultConfig()

			if configPath != "" {
				var err error
				if cfg, err = sweep.Load(configPath); err != nil {
					return err
				}
			}

			flags := cmd.Flags()
			overrideInts(flags, "np", &cfg.NumProcessors, numProcs)
			overrideInts(flags, "n", &cfg.N, ns)
			overrideInts(flags, "d", &cfg.D, ds)
			overrideInts(flags, "k", &cfg.K, ks)

			if flags.Changed("repetitions") {
				cfg.Repetitions = repetitions
			}
			if flags.Changed("dataset") {
				cfg.Dataset = dataset
			}
			if flags.Changed("binary") {
				cfg.Binary = binary
			}

			gen, err := nGenerator(nRange, nPow2, nLogSpace)
			if err != nil {
				return err
			}
			if gen != nil {
				if cfg.N, err = gen(); err != nil {
					return fmt.Errorf("generate n list: %w", err)
				}
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runSweep(cmd.Context(), logger, cmd.OutOrStdout(), runConfig{
				sweep:       cfg,
				output:      output,
				distributed: distributed,
				command:     command,
				noNPColumn:  noNPColumn,
				timeout:     timeout,
				dryRun:      dryRun,
			})
		},
	}

	defaults := sweep.DefaultConfig()

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "",
		"YAML sweep file (flags override its values)")
	flags.IntSliceVar(&numProcs, "np", defaults.NumProcessors,
		"Process counts to launch")
	flags.IntSliceVar(&ns, "n", defaults.N,
		"Sample counts")
	flags.IntSliceVar(&ds, "d", defaults.D,
		"Dimensionalities")
	flags.IntSliceVar(&ks, "k", defaults.K,
		"Neighbor counts")
	flags.StringVar(&nRange, "n-range", "",
		"Linear n list as start:end:step (end exclusive)")
	flags.StringVar(&nPow2, "n-pow2", "",
		"Powers of two n list as lo:hi (2^lo up to 2^hi exclusive)")
	flags.StringVar(&nLogSpace, "n-logspace", "",
		"Log-spaced n list as start:end:count")
	flags.IntVar(&repetitions, "repetitions", defaults.Repetitions,
		"Invocations per combination")
	flags.StringVar(&dataset, "dataset", defaults.Dataset,
		"Dataset passed to the benchmark binary")
	flags.StringVar(&binary, "binary", defaults.Binary,
		"Path to the benchmark binary")
	flags.StringVarP(&output, "output", "o", "results.csv",
		"Results CSV file (overwritten)")
	flags.BoolVar(&distributed, "distributed", false,
		"Launch through srun instead of mpirun")
	flags.StringVar(&command, "command", "",
		"Custom launcher template using {np} {binary} {dataset} {n} {d} {k}")
	flags.BoolVar(&noNPColumn, "no-np-column", false,
		"Omit the num_processors column from the CSV")
	flags.DurationVar(&timeout, "timeout", 0,
		"Per-invocation timeout (0 = none)")
	flags.BoolVar(&dryRun, "dry-run", false,
		"Print the commands without running them")

	cmd.MarkFlagsMutuallyExclusive("n", "n-range", "n-pow2", "n-logspace")

	return cmd
}

func overrideInts(flags *pflag.FlagSet, name string, dst *[]int, val []int) {
	if flags.Changed(name) {
		*dst = val
	}
}

func nGenerator(linear, pow2, logSpace string) (func() ([]int, error), error) {
	var gens []func() ([]int, error)

	if linear != "" {
		gens = append(gens, func() ([]int, error) { return sweep.ParseLinear(linear) })
	}
	if pow2 != "" {
		gens = append(gens, func() ([]int, error) { return sweep.ParsePow2(pow2) })
	}
	if logSpace != "" {
		gens = append(gens, func() ([]int, error) { return sweep.ParseLogSpace(logSpace) })
	}

	switch len(gens) {
	case 0:
		return nil, nil
	case 1:
		return gens[0], nil
	default:
		return nil, fmt.Errorf("only one of --n-range, --n-pow2, --n-logspace may be set")
	}
}

func runSweep(
	ctx context.Context,
	logger *slog.Logger,
	stdout io.Writer,
	cfg runConfig,
) error {
	template := harness.ResolveTemplate(cfg.distributed, cfg.command)
	combos := cfg.sweep.Combinations()

	logger.InfoContext(ctx, "starting sweep",
		slog.String("template", template),
		slog.String("dataset", cfg.sweep.Dataset),
		slog.Any("num_processors", cfg.sweep.NumProcessors),
		slog.Any("n", cfg.sweep.N),
		slog.Any("d", cfg.sweep.D),
		slog.Any("k", cfg.sweep.K),
		slog.Int("combinations", len(combos)),
		slog.Int("repetitions", cfg.sweep.Repetitions),
	)

	runner := harness.NewRunner(template, cfg.sweep.Binary, cfg.sweep.Dataset, logger)
	runner.Timeout = cfg.timeout

	if cfg.dryRun {
		for _, c := range combos {
			args, err := runner.Command(c)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, strings.Join(args, " "))
		}

		return nil
	}

	w, err := results.Create(cfg.output, !cfg.noNPColumn)
	if err != nil {
		return err
	}

	runErr := sweepCombinations(ctx, logger, runner, w, combos, cfg.sweep.Repetitions)

	if err := w.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close results: %w", err)
	}

	if runErr != nil {
		return runErr
	}

	logger.InfoContext(ctx, "sweep complete",
		slog.String("output", cfg.output),
		slog.Int("runs", len(combos)*cfg.sweep.Repetitions),
	)

	return nil
}

func sweepCombinations(
	ctx context.Context,
	logger *slog.Logger,
	runner *harness.Runner,
	w *results.Writer,
	combos []sweep.Combination,
	repetitions int,
) error {
	for _, c := range combos {
		args, err := runner.Command(c)
		if err != nil {
			return err
		}

		logger.InfoContext(ctx, "running command",
			slog.String("command", strings.Join(args, " ")),
		)

		missing := 0

		for i := 0; i < repetitions; i++ {
			result, err := runner.Run(ctx, c)
			if err != nil {
				return fmt.Errorf("np=%d n=%d d=%d k=%d: %w",
					c.NumProcessors, c.N, c.D, c.K, err)
			}

			if result.Time == "" {
				missing++
			}

			if err := w.Write(result); err != nil {
				return err
			}
		}

		if missing > 0 {
			logger.WarnContext(ctx, "no timing line in output",
				slog.Int("runs", missing),
				slog.Int("num_processors", c.NumProcessors),
				slog.Int("n", c.N),
				slog.Int("d", c.D),
				slog.Int("k", c.K),
			)
		}
	}

	return nil
}
