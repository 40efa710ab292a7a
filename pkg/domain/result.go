package domain

import "time"

// CommandResult describes one external pipeline run for a domain.
type CommandResult struct {
	// Command is the rendered shell command, with the domain substituted.
	Command string
	// ExitCode is the process exit status, or -1 when the command could not start.
	ExitCode int
	// Lines is the number of output lines appended to the staging file.
	Lines int
	// Duration is the wall time the command took.
	Duration time.Duration
	// Err is the failure reported by the executor, if any. It never aborts the run.
	Err error
}

// Failed reports whether the command exited non-zero or did not start.
func (c CommandResult) Failed() bool { return c.Err != nil }

// Result is the outcome of gathering and finalizing one domain.
type Result struct {
	// Domain is the hostname the pipelines ran for.
	Domain string
	// URLs are the surviving URLs, sorted ascending. Empty when nothing survived.
	URLs []string
	// OutputPath is where URLs were persisted. Empty when no file was written.
	OutputPath string
	// Commands holds one entry per pipeline, in execution order.
	Commands []CommandResult
}

// Count returns the number of surviving URLs.
func (r Result) Count() int { return len(r.URLs) }
