package passive

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"passive/internal/filter"
	"passive/pkg/domain"
	"passive/pkg/logger"
	"passive/pkg/metrics"
	"passive/pkg/serrors"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Finalize reads stagingPath line by line, keeps trimmed lines that pass the
// asset filter, deduplicates them by exact value and hands the sorted set to
// storage. The output does not depend on the order of the staging lines.
func (g *gatherer) Finalize(ctx context.Context, stagingPath, host string) (*domain.Result, error) {
	res := &domain.Result{Domain: host}

	urls, err := g.collect(ctx, stagingPath)
	if err != nil {
		return res, err
	}
	if len(urls) == 0 {
		logger.Info(ctx, "no URLs survived, previous result left untouched",
			zap.String("path", g.deps.Storage.Location(host)))

		return res, serrors.With(serrors.ErrNoResults, "no URLs left for %s", host)
	}

	path, err := g.deps.Storage.Store(ctx, host, urls)
	if err != nil {
		return res, fmt.Errorf("could not store result: %w", err)
	}

	res.URLs = urls
	res.OutputPath = path
	logger.Info(ctx, "result stored", zap.String("path", path), zap.Int("urls", len(urls)))

	return res, nil
}

// collect returns the sorted, unique, non-empty lines of path that pass the
// filter.
func (g *gatherer) collect(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrIO, err, "could not open staging file")
	}
	defer func() {
		_ = f.Close()
	}()

	set := make(map[string]struct{})
	var rejected, invalid int
	debug := logger.IsDebug(ctx)

	// bufio.Scanner would cap the line length; archived URLs can be huge.
	r := bufio.NewReader(f)
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, serrors.Wrap(serrors.ErrIO, readErr, "could not read staging file")
		}

		if line != "" {
			candidate := strings.TrimSpace(line)
			ok, err := filter.Allowed(candidate)
			switch {
			case err != nil:
				invalid++
				logger.Warn(ctx, "dropping unparsable URL", zap.String("line", candidate), zap.Error(err))
			case !ok:
				rejected++
				if debug {
					logger.Debug(ctx, "dropping asset URL", zap.String("url", candidate))
				}
			default:
				set[candidate] = struct{}{}
			}
		}

		if readErr != nil {
			break
		}
	}
	delete(set, "")

	urls := make([]string, 0, len(set))
	for u := range set {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	g.deps.Metrics.URLs(ctx, metrics.URLKept, len(urls))
	g.deps.Metrics.URLs(ctx, metrics.URLRejected, rejected)
	g.deps.Metrics.URLs(ctx, metrics.URLInvalid, invalid)
	logger.Debug(ctx, "staging file filtered",
		zap.Int("kept", len(urls)),
		zap.Int("rejected", rejected),
		zap.Int("invalid", invalid))

	return urls, nil
}
