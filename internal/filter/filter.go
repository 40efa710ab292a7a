// Package filter decides which gathered URLs are worth keeping. Static
// assets are noise when enumerating endpoints, so anything whose path ends in
// a known asset extension is dropped. Unknown extensions pass.
package filter

import (
	"errors"
	"fmt"
	"net/netip"
	"passive/pkg/serrors"
	"regexp"
	"sort"
	"strings"
)

// extensions is the deny list. Matching is case-sensitive and suffix-only.
var extensions = []string{ //nolint: gochecknoglobals
	".json", ".js", ".fnt", ".ogg", ".css", ".jpg", ".jpeg", ".png", ".svg", ".img", ".gif",
	".exe", ".mp4", ".flv", ".pdf", ".doc", ".ogv", ".webm", ".umv", ".webp", ".mov", ".mp3",
	".m4a", ".m6p", ".ppt", ".pptx", ".scss", ".tif", ".tiff", ".ttf", ".otf", ".woff",
	".woff2", ".bmp", ".ico", ".cot", ".htc", ".swf", ".rtf", ".image", ".rf", ".txt", ".xml", ".zip",
}

// Extensions returns a sorted copy of the deny list.
func Extensions() []string {
	out := make([]string, len(extensions))
	copy(out, extensions)
	sort.Strings(out)

	return out
}

// Allowed reports whether raw should be kept. Only the path component is
// inspected, so a query string, a fragment or `;params` never hide or fake an
// asset extension.
//
// A string whose authority is malformed is rejected and the error is returned
// with kind serrors.ErrInvalidURL; callers log it and continue.
func Allowed(raw string) (bool, error) {
	path, err := Path(raw)
	if err != nil {
		return false, err
	}

	return !HasAssetExtension(path), nil
}

// HasAssetExtension reports whether path ends in a deny-listed extension.
func HasAssetExtension(path string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

// paramSchemes allow `;params` after the last path segment.
var paramSchemes = map[string]bool{ //nolint: gochecknoglobals
	"": true, "ftp": true, "hdl": true, "prospero": true, "http": true, "imap": true,
	"https": true, "shttp": true, "rtsp": true, "rtspu": true, "sip": true, "sips": true,
	"mms": true, "sftp": true, "tel": true,
}

// Path returns the path component of raw exactly as written: nothing is
// unescaped, and malformed percent-escapes are left alone. The scheme, the
// authority, the query, the fragment and the last segment's `;params` are
// split off. Only an unbalanced or invalid bracketed host is refused.
func Path(raw string) (string, error) {
	s := strings.TrimLeftFunc(raw, func(r rune) bool { return r <= ' ' })
	s = strings.NewReplacer("\t", "", "\r", "", "\n", "").Replace(s)

	scheme := ""
	if i := strings.IndexByte(s, ':'); i > 0 && isScheme(s[:i]) {
		scheme, s = strings.ToLower(s[:i]), s[i+1:]
	}

	if strings.HasPrefix(s, "//") {
		netloc := s[2:]
		s = ""
		if i := strings.IndexAny(netloc, "/?#"); i >= 0 {
			netloc, s = netloc[:i], netloc[i:]
		}
		if err := checkNetloc(netloc); err != nil {
			return "", serrors.Wrap(serrors.ErrInvalidURL, err, "could not parse URL")
		}
	}

	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if paramSchemes[scheme] {
		last := max(strings.LastIndexByte(s, '/'), 0)
		if i := strings.IndexByte(s[last:], ';'); i >= 0 {
			s = s[:last+i]
		}
	}

	return s, nil
}

func isScheme(s string) bool {
	if !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isLetter(c) && !('0' <= c && c <= '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}

	return true
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// checkNetloc accepts anything but a bracketed host that is unbalanced or is
// not an IPv6 (or IPvFuture) literal.
func checkNetloc(netloc string) error {
	open, closing := strings.Contains(netloc, "["), strings.Contains(netloc, "]")
	if open != closing {
		return errors.New("invalid IPv6 URL")
	}
	if !open {
		return nil
	}

	_, rest, _ := strings.Cut(netloc, "[")
	host, _, _ := strings.Cut(rest, "]")
	if ipvFuture.MatchString(host) {
		return nil
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("invalid bracketed host %q: %w", host, err)
	}
	if !addr.Is6() {
		return fmt.Errorf("bracketed host %q is not an IPv6 address", host)
	}

	return nil
}

var ipvFuture = regexp.MustCompile(`\Av[a-fA-F0-9]+\..+\z`) //nolint: gochecknoglobals
