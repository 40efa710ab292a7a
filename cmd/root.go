package main

import (
	"context"
	"errors"
	"fmt"
	"passive/internal/config"
	"passive/internal/filter"
	"passive/internal/passive"
	"passive/internal/report"
	"passive/internal/target"
	"passive/internal/worker"
	"passive/pkg/executor"
	"passive/pkg/logger"
	"passive/pkg/metrics"
	"passive/pkg/serrors"
	"passive/pkg/storage/file"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what every command needs once flags are parsed.
type app struct {
	configPath  string
	outputDir   string
	keepStaging bool
	verbose     bool
	metricsFile string

	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "passive [domain|url|file]",
		Short: "Gathers historical URLs for domains from passive sources",
		Long: "Runs waybackurls and gau style pipelines for every domain, then keeps the\n" +
			"sorted, unique URLs that do not point at static assets in <domain>.passive.\n\n" +
			"URLs whose path ends in one of these extensions are dropped:\n  " +
			strings.Join(filter.Extensions(), " "),
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.gather,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "config.yml", "Config File Path")
	flags.StringVarP(&a.outputDir, "output-dir", "o", "", "Directory result files are written to")
	flags.BoolVar(&a.keepStaging, "keep-staging", false, "Leave staging files on disk")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Mirror pipeline output to the console")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file at exit")

	rootCmd.AddCommand(mergeCommand(a))

	return rootCmd
}

// setup loads the config, applies flag overrides and initializes logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Output.Dir = a.outputDir
	}
	if flags.Changed("keep-staging") {
		cfg.KeepStaging = a.keepStaging
	}
	if flags.Changed("verbose") {
		cfg.Verbose = a.verbose
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.File = a.metricsFile
	}
	a.cfg = cfg

	if err := logger.Setup(cfg.Environment, cfg.Debug); err != nil {
		return fmt.Errorf("could not set up logger: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithFields(ctx, zap.String("runID", uuid.NewString())))

	return nil
}

// newGatherer wires the gatherer from config. The returned function flushes
// metrics and must be called once the command is done.
func (a *app) newGatherer(cmd *cobra.Command) (passive.Gatherer, func(context.Context), error) {
	shellOptions := executor.ShellOptions{
		Shell:   a.cfg.Shell,
		Timeout: a.cfg.CommandTimeout,
		Stderr:  cmd.ErrOrStderr(),
	}
	if a.cfg.Verbose {
		shellOptions.Tee = cmd.OutOrStdout()
	}

	recorder, finish, err := a.newMetrics()
	if err != nil {
		return nil, nil, err
	}

	g := passive.New(passive.Deps{
		Executor: executor.NewShell(shellOptions),
		Storage: file.New(file.Options{
			Dir:    a.cfg.Output.Dir,
			Suffix: a.cfg.Output.Suffix,
		}),
		Printer: report.New(cmd.OutOrStdout(), !a.cfg.Output.NoColor),
		Metrics: recorder,
	}, passive.NewOptions(a.cfg))

	return g, finish, nil
}

// newMetrics returns a no-op recorder unless a metrics file is configured.
func (a *app) newMetrics() (*metrics.Recorder, func(context.Context), error) {
	path := a.cfg.Metrics.File
	if path == "" {
		return metrics.NewNop(), func(context.Context) {}, nil
	}

	exporter, err := metrics.NewExporter()
	if err != nil {
		return nil, nil, fmt.Errorf("could not create metrics exporter: %w", err)
	}
	recorder, err := metrics.NewRecorder(exporter.Meter())
	if err != nil {
		return nil, nil, fmt.Errorf("could not create metrics recorder: %w", err)
	}

	return recorder, func(ctx context.Context) {
		if err := exporter.WriteTextfile(path); err != nil {
			logger.Error(ctx, "could not write metrics", zap.Error(err))
		} else {
			logger.Debug(ctx, "metrics written", zap.String("path", path))
		}
		if err := exporter.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "could not shut down metrics exporter", zap.Error(err))
		}
	}, nil
}

// gather resolves the input and runs every domain through the gatherer.
func (a *app) gather(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	value, err := target.Resolve(cmd.InOrStdin(), args)
	if errors.Is(err, serrors.ErrNoInput) {
		target.Usage(cmd.OutOrStdout(), cmd.Root().Name())

		return nil
	}
	if err != nil {
		return fmt.Errorf("could not resolve input: %w", err)
	}

	domains, err := target.Domains(value)
	if err != nil {
		return fmt.Errorf("could not read domains: %w", err)
	}
	logger.Debug(ctx, "input resolved", zap.String("input", value), zap.Int("domains", len(domains)))

	g, finish, err := a.newGatherer(cmd)
	if err != nil {
		return err
	}
	defer finish(ctx)

	sum, err := worker.Run(ctx, g, domains)
	if err != nil {
		logger.Warn(ctx, "run stopped before all domains were gathered", zap.Error(err))
	}
	logger.Info(ctx, "run finished",
		zap.Int("domains", sum.Domains),
		zap.Int("written", sum.Written),
		zap.Int("empty", sum.Empty),
		zap.Int("failed", sum.Failed),
		zap.Int("urls", sum.URLs))

	return nil
}
