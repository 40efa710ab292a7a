package passive

import (
	"strings"

	"github.com/alessio/shellescape"
)

// Placeholder is replaced with the domain in every command template.
const Placeholder = "{domain}"

// RenderCommand substitutes the shell-quoted host into tmpl.
func RenderCommand(tmpl, host string) string {
	return strings.ReplaceAll(tmpl, Placeholder, ShellQuote(host))
}

// ShellQuote returns s unchanged when a POSIX shell reads it literally, and
// single-quotes it otherwise. Domains read from a file are untrusted, so `;`,
// `$(...)` and friends must never reach the shell.
func ShellQuote(s string) string {
	return shellescape.Quote(s)
}
