package passive

import (
	"context"
	"passive/pkg/domain"
)

// Gatherer collects candidate URLs for a domain from external tools and
// reduces them to the persisted result set.
//
//go:generate mockgen -package mockpassive -source=interface.go -destination=mock/mockpassive.go *
type Gatherer interface {
	// Gather runs every configured pipeline for host, then Finalize. The
	// returned Result is never nil, even alongside an error.
	Gather(ctx context.Context, host string) (*domain.Result, error)
	// Finalize filters and deduplicates the lines of stagingPath and persists
	// the survivors for host. It returns serrors.ErrNoResults, and writes
	// nothing, when no line survives.
	Finalize(ctx context.Context, stagingPath, host string) (*domain.Result, error)
}
