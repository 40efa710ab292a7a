// Package report prints human-readable progress lines. Formatting state lives
// in the Printer value handed to each component, never in package globals.
package report

import (
	"io"

	"github.com/fatih/color"
)

// Printer writes gray progress lines to w.
type Printer struct {
	w    io.Writer
	gray *color.Color
}

// New creates a Printer. When colored is false, plain text is written, which
// is what tests and redirected output want.
func New(w io.Writer, colored bool) *Printer {
	gray := color.New(color.FgHiBlack)
	if colored {
		gray.EnableColor()
	} else {
		gray.DisableColor()
	}

	return &Printer{w: w, gray: gray}
}

func (p *Printer) line(format string, args ...any) {
	if p == nil {
		return
	}
	_, _ = p.gray.Fprintf(p.w, format+"\n", args...)
}

// Gathering announces the start of a domain.
func (p *Printer) Gathering(domain string) {
	p.line("gathering URLs passively for: %s", domain)
}

// Executing announces a pipeline before it runs.
func (p *Printer) Executing(command string) {
	p.line("[Executing command]: %s", command)
}

// CommandFailed reports a pipeline that exited non-zero. The run continues.
func (p *Printer) CommandFailed(command string, exitCode int) {
	p.line("[-] command exited with status %d: %s", exitCode, command)
}

// Merging announces Finalize.
func (p *Printer) Merging(domain string) {
	p.line("merging result for: %s", domain)
}

// Done reports the number of surviving URLs.
func (p *Printer) Done(domain string, results int) {
	p.line("done for %s, results: %d", domain, results)
}
