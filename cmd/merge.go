package main

import (
	"errors"
	"fmt"
	"passive/internal/report"
	"passive/internal/target"
	"passive/pkg/logger"
	"passive/pkg/serrors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// mergeCommand re-filters an existing staging file without running any
// pipeline.
func mergeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <staging-file> <domain>",
		Short: "Filters and deduplicates a saved staging file into <domain>.passive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stagingPath, host := args[0], target.Hostname(args[1])
			ctx = logger.WithFields(ctx, zap.String("domain", host), zap.String("staging", stagingPath))

			g, finish, err := a.newGatherer(cmd)
			if err != nil {
				return err
			}
			defer finish(ctx)

			printer := report.New(cmd.OutOrStdout(), !a.cfg.Output.NoColor)
			printer.Merging(host)

			res, err := g.Finalize(ctx, stagingPath, host)
			switch {
			case err == nil:
				printer.Done(host, res.Count())
			case errors.Is(err, serrors.ErrNoResults):
				printer.Done(host, 0)
			default:
				printer.Done(host, 0)

				return fmt.Errorf("could not merge %s: %w", stagingPath, err)
			}

			return nil
		},
	}

	return cmd
}
