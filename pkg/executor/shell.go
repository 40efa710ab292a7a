package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"passive/pkg/serrors"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultShell is the interpreter used when ShellOptions.Shell is empty.
const DefaultShell = "sh"

// ShellOptions configure how command lines are interpreted.
type ShellOptions struct {
	// Shell is the interpreter binary, invoked as `<Shell> -c <command>`.
	Shell string
	// Timeout bounds every command. Zero means no timeout.
	Timeout time.Duration
	// Stderr receives the command's standard error. Nil discards it.
	Stderr io.Writer
	// Tee, when set, receives a copy of the command's standard output.
	Tee io.Writer
}

// Shell runs command lines through a POSIX-style shell so pipelines such as
// `echo d | waybackurls | sort -u` behave as typed.
type Shell struct {
	options ShellOptions
}

// NewShell creates a Shell executor. An empty Shell option falls back to DefaultShell.
func NewShell(options ShellOptions) *Shell {
	if options.Shell == "" {
		options.Shell = DefaultShell
	}

	return &Shell{options: options}
}

// Run executes command and waits for it. Stdout is always returned, including
// the partial output of a failed pipeline.
func (s *Shell) Run(ctx context.Context, command string) (Result, error) {
	if s.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.Timeout)
		defer cancel()
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, s.options.Shell, "-c", command)
	cmd.Stdout = &stdout
	if s.options.Tee != nil {
		cmd.Stdout = io.MultiWriter(&stdout, s.options.Tee)
	}
	cmd.Stderr = s.options.Stderr
	// children of the shell may keep stdout open after it is killed
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.Bytes(),
		ExitCode: 0,
		Duration: time.Since(start),
	}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()

		return res, serrors.Wrap(serrors.ErrCommandFailed, err, "command %q failed", abbreviate(command))
	}

	res.ExitCode = -1

	return res, serrors.Wrap(serrors.ErrCommandFailed, err, "could not start command %q", abbreviate(command))
}

// abbreviate keeps error messages readable for long pipelines.
func abbreviate(command string) string {
	const limit = 80
	command = strings.TrimSpace(command)
	if len(command) <= limit {
		return command
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(command[cut]) {
		cut--
	}

	return command[:cut] + "..."
}
