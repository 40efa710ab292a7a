// Package worker drives the gatherer over a list of domains, one at a time.
package worker

import (
	"context"
	"errors"
	"fmt"
	"passive/internal/passive"
	"passive/pkg/logger"
	"passive/pkg/serrors"

	"go.uber.org/zap"
)

// Summary tallies the outcome of a run.
type Summary struct {
	// Domains is how many domains were attempted.
	Domains int
	// Written counts domains that produced a result file.
	Written int
	// Empty counts domains where nothing survived the filter.
	Empty int
	// Failed counts domains that hit an I/O or storage error.
	Failed int
	// URLs is the total number of URLs written across domains.
	URLs int
}

// Run gathers every domain in order. A failing domain is logged and the loop
// moves on; only cancellation of ctx stops it early, in which case the summary
// so far is returned with the context error.
func Run(ctx context.Context, gatherer passive.Gatherer, domains []string) (Summary, error) {
	var sum Summary

	for _, host := range domains {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("run interrupted: %w", err)
		}

		dctx := logger.WithFields(ctx, zap.String("domain", host))
		sum.Domains++

		res, err := gatherer.Gather(dctx, host)
		switch {
		case err == nil:
			sum.Written++
			sum.URLs += res.Count()
			logger.Info(dctx, "domain gathered", zap.Int("urls", res.Count()))
		case errors.Is(err, serrors.ErrNoResults):
			sum.Empty++
			logger.Info(dctx, "no URLs survived filtering")
		case ctx.Err() != nil:
			sum.Failed++

			return sum, fmt.Errorf("run interrupted: %w", ctx.Err())
		default:
			sum.Failed++
			logger.Error(dctx, "error in gathering domain", zap.Error(err))
		}
	}

	return sum, nil
}
