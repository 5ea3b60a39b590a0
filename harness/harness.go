package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/weiihann/mpisweep/sweep"
)

// waitDelay bounds how long Run waits for the child's stdout to close
// after the child has been killed. Launchers may leave grandchildren
// holding the pipe.
const waitDelay = 2 * time.Second

// Runner launches the benchmark binary through a launcher template.
type Runner struct {
	Template string
	Binary   string
	Dataset  string

	// Timeout bounds a single invocation. Zero means no limit.
	Timeout time.Duration

	// Stderr receives the child's stderr. Defaults to os.Stderr.
	Stderr io.Writer
	Logger *slog.Logger
}

// NewRunner creates a Runner for the given launcher template.
func NewRunner(template, binary, dataset string, logger *slog.Logger) *Runner {
	return &Runner{
		Template: template,
		Binary:   binary,
		Dataset:  dataset,
		Stderr:   os.Stderr,
		Logger:   logger.With(slog.String("binary", binary)),
	}
}

// Command returns the argv for a combination without running it.
func (r *Runner) Command(c sweep.Combination) ([]string, error) {
	return Expand(r.Template, r.Binary, r.Dataset, c)
}

// Run executes one invocation and returns the scraped result. The exit
// status of the child is not checked: a run that prints no timing line
// yields a Result with an empty Time. Only template errors and
// cancellation of ctx are returned as errors.
func (r *Runner) Run(ctx context.Context, c sweep.Combination) (*Result, error) {
	args, err := r.Command(c)
	if err != nil {
		return nil, err
	}

	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.WaitDelay = waitDelay

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = r.Stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return nil, fmt.Errorf("run %s: %w", args[0], ctx.Err())
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr):
		r.Logger.Debug("benchmark exited non-zero",
			slog.Int("exit_code", exitErr.ExitCode()),
		)
	default:
		r.Logger.Warn("benchmark run failed",
			slog.String("command", args[0]),
			slog.String("error", runErr.Error()),
		)
	}

	result := &Result{
		Template:    r.Template,
		Dataset:     r.Dataset,
		Combination: c,
		Time:        ExtractTime(stdout.Bytes()),
	}

	r.Logger.Debug("benchmark finished",
		slog.Duration("wall_time", elapsed),
		slog.String("time", result.Time),
	)

	return result, nil
}
