// Package file provides a storage.ResultStorage that writes one text file per
// domain, one URL per line.
package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"passive/pkg/serrors"
	"passive/pkg/storage"
	"path/filepath"
)

// DefaultSuffix is appended to the domain to build the file name.
const DefaultSuffix = ".passive"

// Options configure where result files are written.
type Options struct {
	// Dir is the output directory. Empty means the current working directory.
	Dir string
	// Suffix is appended to the domain name. Empty means DefaultSuffix.
	Suffix string
	// Perm is the mode used when creating a new file. Zero means 0o644.
	Perm os.FileMode
}

// Storage writes `<Dir>/<domain><Suffix>`.
type Storage struct {
	options Options
}

var _ storage.ResultStorage = (*Storage)(nil)

// New creates a file Storage, filling in defaults for empty options.
func New(options Options) *Storage {
	if options.Suffix == "" {
		options.Suffix = DefaultSuffix
	}
	if options.Perm == 0 {
		options.Perm = 0o644
	}

	return &Storage{options: options}
}

// Location returns the file path used for domain.
func (s *Storage) Location(domain string) string {
	return filepath.Join(s.options.Dir, domain+s.options.Suffix)
}

// Store truncates and rewrites the domain's file, writing every URL followed
// by a single LF.
func (s *Storage) Store(_ context.Context, domain string, urls []string) (string, error) {
	if len(urls) == 0 {
		return "", storage.ErrEmptyResult
	}

	if s.options.Dir != "" {
		if err := os.MkdirAll(s.options.Dir, 0o755); err != nil {
			return "", serrors.Wrap(serrors.ErrIO, err, "could not create output directory")
		}
	}

	path := s.Location(domain)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, s.options.Perm)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrIO, err, "could not open %s", path)
	}

	w := bufio.NewWriter(f)
	for _, u := range urls {
		if _, err := fmt.Fprintln(w, u); err != nil {
			_ = f.Close()

			return "", serrors.Wrap(serrors.ErrIO, err, "could not write %s", path)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()

		return "", serrors.Wrap(serrors.ErrIO, err, "could not flush %s", path)
	}
	if err := f.Close(); err != nil {
		return "", serrors.Wrap(serrors.ErrIO, err, "could not close %s", path)
	}

	return path, nil
}
