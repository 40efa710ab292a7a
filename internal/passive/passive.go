// Package passive gathers historical URLs for a domain by running external
// recon pipelines into a staging file, then reduces that file to the sorted,
// deduplicated set of non-asset URLs.
package passive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"passive/internal/config"
	"passive/internal/report"
	"passive/pkg/domain"
	"passive/pkg/executor"
	"passive/pkg/logger"
	"passive/pkg/metrics"
	"passive/pkg/serrors"
	"passive/pkg/storage"

	"go.uber.org/zap"
)

// Options configure which pipelines run and what happens to staging files.
type Options struct {
	// Commands are the pipeline templates, run in order for every domain.
	Commands []string
	// TempDir is where staging files are created. Empty uses os.TempDir.
	TempDir string
	// KeepStaging leaves the staging file on disk after Finalize.
	KeepStaging bool
}

// NewOptions constructs an Options value from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Commands:    cfg.Commands,
		TempDir:     cfg.TempDir,
		KeepStaging: cfg.KeepStaging,
	}
}

// Deps are the collaborators of the gatherer.
type Deps struct {
	// Executor runs the pipelines.
	Executor executor.Executor
	// Storage persists finalized results.
	Storage storage.ResultStorage
	// Printer receives progress lines. Nil prints nothing.
	Printer *report.Printer
	// Metrics records counters. Nil records nothing.
	Metrics *metrics.Recorder
}

type gatherer struct {
	options Options
	deps    Deps
}

// New creates a Gatherer.
func New(deps Deps, options Options) Gatherer {
	return &gatherer{
		options: options,
		deps:    deps,
	}
}

// Gather runs the pipelines one after another, appending each one's stdout
// to a fresh staging file, then finalizes it. A failing pipeline is logged and
// skipped: it contributes whatever it printed and the run goes on.
func (g *gatherer) Gather(ctx context.Context, host string) (*domain.Result, error) {
	res := &domain.Result{Domain: host}
	g.deps.Printer.Gathering(host)

	staging, err := os.CreateTemp(g.options.TempDir, "passive-*")
	if err != nil {
		g.done(ctx, host, 0, metrics.DomainFailed)

		return res, serrors.Wrap(serrors.ErrIO, err, "could not create staging file")
	}
	stagingPath := staging.Name()
	ctx = logger.WithFields(ctx, zap.String("staging", stagingPath))
	defer g.discard(ctx, staging)

	for _, tmpl := range g.options.Commands {
		if err := ctx.Err(); err != nil {
			g.done(ctx, host, 0, metrics.DomainFailed)

			return res, fmt.Errorf("gathering interrupted: %w", err)
		}

		cr, err := g.run(ctx, staging, RenderCommand(tmpl, host))
		res.Commands = append(res.Commands, cr)
		if err != nil {
			g.done(ctx, host, 0, metrics.DomainFailed)

			return res, err
		}
	}

	// a pipeline killed by cancellation leaves truncated output behind
	if err := ctx.Err(); err != nil {
		g.done(ctx, host, 0, metrics.DomainFailed)

		return res, fmt.Errorf("gathering interrupted: %w", err)
	}

	g.deps.Printer.Merging(host)
	final, err := g.Finalize(ctx, stagingPath, host)
	if err != nil {
		outcome := metrics.DomainFailed
		if errors.Is(err, serrors.ErrNoResults) {
			outcome = metrics.DomainEmpty
		}
		g.done(ctx, host, 0, outcome)

		return res, err
	}

	res.URLs = final.URLs
	res.OutputPath = final.OutputPath
	g.done(ctx, host, res.Count(), metrics.DomainWritten)

	return res, nil
}

// run executes one pipeline and appends its output to staging. Only a failure
// to write the staging file is returned as an error.
func (g *gatherer) run(ctx context.Context, staging *os.File, command string) (domain.CommandResult, error) {
	g.deps.Printer.Executing(command)

	out, runErr := g.deps.Executor.Run(ctx, command)
	cr := domain.CommandResult{
		Command:  command,
		ExitCode: out.ExitCode,
		Duration: out.Duration,
		Err:      runErr,
	}
	g.deps.Metrics.CommandFinished(ctx, out.ExitCode, out.Duration)

	if runErr != nil {
		logger.Warn(ctx, "command failed, continuing",
			zap.String("command", command),
			zap.Int("exitCode", out.ExitCode),
			zap.Error(runErr))
		g.deps.Printer.CommandFailed(command, out.ExitCode)
	}

	lines, err := appendOutput(staging, out.Stdout)
	cr.Lines = lines
	if err != nil {
		return cr, serrors.Wrap(serrors.ErrIO, err, "could not append to staging file")
	}

	logger.Debug(ctx, "command finished",
		zap.String("command", command),
		zap.Int("lines", lines),
		zap.Duration("duration", out.Duration))

	return cr, nil
}

// appendOutput writes out to f, terminating a dangling last line so the next
// pipeline never glues onto it. It returns the number of lines written.
func appendOutput(f *os.File, out []byte) (int, error) {
	if len(out) == 0 {
		return 0, nil
	}
	if out[len(out)-1] != '\n' {
		out = append(out[:len(out):len(out)], '\n')
	}
	if _, err := f.Write(out); err != nil {
		return 0, err //nolint: wrapcheck
	}

	return bytes.Count(out, []byte{'\n'}), nil
}

func (g *gatherer) done(ctx context.Context, host string, count int, outcome string) {
	g.deps.Metrics.Domain(ctx, outcome)
	g.deps.Printer.Done(host, count)
}

func (g *gatherer) discard(ctx context.Context, staging *os.File) {
	if err := staging.Close(); err != nil {
		logger.Warn(ctx, "could not close staging file", zap.Error(err))
	}
	if g.options.KeepStaging {
		logger.Info(ctx, "staging file kept")

		return
	}
	if err := os.Remove(staging.Name()); err != nil {
		logger.Warn(ctx, "could not remove staging file", zap.Error(err))
	}
}
