// Package storage defines where finalized results are persisted. The
// gathering pipeline only depends on ResultStorage, so the on-disk layout can
// change without touching it.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import "context"

// ResultStorage persists the surviving URLs of one domain.
type ResultStorage interface {
	// Store replaces any previously stored result for domain with urls, in the
	// given order, and returns the location it was written to. urls must not be
	// empty.
	Store(ctx context.Context, domain string, urls []string) (string, error)
	// Location returns where the result for domain is or would be stored.
	Location(domain string) string
}
