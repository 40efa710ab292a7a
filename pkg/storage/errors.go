package storage

import "errors"

// ErrEmptyResult is returned by Store when it is asked to persist no URLs.
// An empty result is never written, so an old file is never truncated to
// nothing by a failed run.
var ErrEmptyResult = errors.New("empty result")
