// Package target turns what the user typed or piped into the list of domains
// to gather URLs for.
package target

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"passive/pkg/serrors"
	"strings"

	"github.com/mattn/go-isatty"
)

// Interactive reports whether r is a terminal. Readers that are not files
// (pipes wrapped by tests, buffers) count as non-interactive.
func Interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Resolve picks the single input value. A non-interactive stdin wins and only
// its first line is read. Otherwise the first argument is used. When both are
// empty, an error of kind serrors.ErrNoInput is returned.
func Resolve(stdin io.Reader, args []string) (string, error) {
	if stdin != nil && !Interactive(stdin) {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", serrors.Wrap(serrors.ErrIO, err, "could not read stdin")
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}

	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}

	return "", serrors.KindOnly(serrors.ErrNoInput)
}

// Domains expands the input value. If it names an existing regular file,
// every non-blank line of the file is one domain; otherwise the value itself
// is the only domain. Each entry goes through Hostname.
func Domains(value string) ([]string, error) {
	info, err := os.Stat(value)
	if err != nil || !info.Mode().IsRegular() {
		return []string{Hostname(value)}, nil
	}

	f, err := os.Open(value)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrIO, err, "could not open domain list %s", value)
	}
	defer func() {
		_ = f.Close()
	}()

	var domains []string
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			domains = append(domains, Hostname(line))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrIO, err, "could not read domain list %s", value)
		}
	}

	return domains, nil
}

// Hostname returns the authority (host[:port]) of raw when it is an http(s)
// URL, and the trimmed input otherwise. Nothing is validated: input that does
// not parse, or has no authority, is returned trimmed but unchanged.
func Hostname(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}

	return u.Host
}

// Usage is printed when no input was supplied.
func Usage(w io.Writer, name string) {
	_, _ = fmt.Fprintf(w, "Usage: echo domain.tld | %s\n", name)
	_, _ = fmt.Fprintf(w, "Usage: cat domains.txt | %s\n", name)
	_, _ = fmt.Fprintf(w, "Usage: %s <domain|url|file>\n", name)
}
