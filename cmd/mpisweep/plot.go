package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/weiihann/mpisweep/chart"
	"github.com/weiihann/mpisweep/report"
	"github.com/weiihann/mpisweep/results"
)

type plotConfig struct {
	input   string
	np      int
	chart   chart.Options
	summary bool
	json    bool
}

func newPlotCmd(logger *slog.Logger) *cobra.Command {
	var (
		input   string
		outDir  string
		format  string
		np      int
		summary bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Chart speedup and timings from a results CSV",
		Long: `Load sweep results, compute speedup against the single-process baseline
for each (n, d), average repeated runs, and save speedup, time and surface
charts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch format {
			case "png", "svg", "pdf":
			default:
				return fmt.Errorf("unsupported format %q (png, svg, pdf)", format)
			}

			opts := chart.DefaultOptions()
			opts.Dir = outDir
			opts.Format = format

			return plotResults(cmd.Context(), logger, cmd.OutOrStdout(), plotConfig{
				input:   input,
				np:      np,
				chart:   opts,
				summary: summary,
				json:    asJSON,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&input, "input", "i", results.DefaultPath,
		"Results CSV to read")
	flags.StringVar(&outDir, "out-dir", "plots",
		"Directory for chart files")
	flags.StringVar(&format, "format", "png",
		"Chart format: png, svg, pdf")
	flags.IntVar(&np, "np", 4,
		"Process count shown in the time and surface charts")
	flags.BoolVar(&summary, "summary", false,
		"Print a markdown summary table to stdout")
	flags.BoolVar(&asJSON, "json", false,
		"Print averaged results as JSON to stdout")

	return cmd
}

func plotResults(
	ctx context.Context,
	logger *slog.Logger,
	stdout io.Writer,
	cfg plotConfig,
) error {
	ms, err := results.Load(cfg.input)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "loaded results",
		slog.String("path", cfg.input),
		slog.Int("measurements", len(ms)),
	)

	points, err := report.Speedups(ms)
	if err != nil {
		return fmt.Errorf("compute speedup: %w", err)
	}

	avgs := report.Averages(points)

	path, err := chart.Speedup(points, cfg.chart)
	if err != nil {
		return fmt.Errorf("speedup chart: %w", err)
	}
	logger.InfoContext(ctx, "chart saved", slog.String("path", path))

	atNP := report.FilterProcessors(points, cfg.np)
	if len(atNP) == 0 {
		logger.WarnContext(ctx, "no measurements at process count, skipping time charts",
			slog.Int("num_processors", cfg.np),
		)
	} else {
		path, err = chart.Time(atNP, cfg.chart)
		if err != nil {
			return fmt.Errorf("time chart: %w", err)
		}
		logger.InfoContext(ctx, "chart saved", slog.String("path", path))

		var avgsAtNP []report.Average
		for _, a := range avgs {
			if a.NumProcessors == cfg.np {
				avgsAtNP = append(avgsAtNP, a)
			}
		}

		path, err = chart.Surface(avgsAtNP, cfg.chart)
		switch {
		case errors.Is(err, chart.ErrSparseGrid):
			logger.WarnContext(ctx, "skipping surface chart",
				slog.String("reason", err.Error()),
			)
		case err != nil:
			return fmt.Errorf("surface chart: %w", err)
		default:
			logger.InfoContext(ctx, "chart saved", slog.String("path", path))
		}
	}

	if cfg.json {
		if err := report.GenerateJSON(stdout, avgs); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else if cfg.summary {
		if err := report.Generate(stdout, avgs); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	return nil
}
