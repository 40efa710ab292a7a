// Package executor defines the capability of running an external command
// line and capturing what it prints. The gathering pipeline only depends on
// this interface, so tests can replace the real shell with canned output.
package executor

import (
	"context"
	"time"
)

// Result is what a finished command produced.
type Result struct {
	// Stdout is everything the command wrote to standard output, even when it failed.
	Stdout []byte
	// ExitCode is the process exit status, or -1 when the command could not start.
	ExitCode int
	// Duration is the wall time between start and exit.
	Duration time.Duration
}

// Executor runs a single command line to completion.
//
//go:generate mockgen -package mockexecutor -source=interface.go -destination=mock/mockexecutor.go *
type Executor interface {
	// Run executes command and blocks until it exits. A non-zero exit status is
	// reported as an error of kind serrors.ErrCommandFailed alongside a Result
	// that still holds the captured stdout.
	Run(ctx context.Context, command string) (Result, error)
}
