package filter_test

import (
	"passive/internal/filter"
	"passive/pkg/serrors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowed_RejectsEveryDenyListedExtension(t *testing.T) {
	exts := filter.Extensions()
	require.Len(t, exts, 44)
	require.True(t, sort.StringsAreSorted(exts))

	for _, ext := range exts {
		for _, raw := range []string{
			"https://a.com/file" + ext,
			"https://a.com/deep/path/file" + ext + "?v=1",
			"http://a.com:8080/x" + ext + "#top",
			"/relative/file" + ext,
		} {
			ok, err := filter.Allowed(raw)
			require.NoError(t, err, raw)
			require.False(t, ok, "expected %q to be rejected", raw)
		}
	}
}

func TestAllowed_AcceptsEverythingElse(t *testing.T) {
	cases := []string{
		"https://a.com/",
		"https://a.com",
		"https://a.com/y",
		"https://a.com/login.php?next=/x.js",
		"https://a.com/page.html",
		"https://a.com/app.jsp",
		"https://a.com/feed.jsonp",
		"https://a.com/backup.tar.gz",
		"https://a.com/photo.JPG",
		"https://a.com/Style.CSS",
		"https://a.com/search?q=logo.png",
		"https://a.com/surf",
		"",
	}

	for _, raw := range cases {
		ok, err := filter.Allowed(raw)
		require.NoError(t, err, raw)
		require.True(t, ok, "expected %q to be accepted", raw)
	}
}

func TestAllowed_InspectsRawPathOnly(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "https://a.com/100%", want: true},
		{raw: "https://a.com/%u2019-page", want: true},
		{raw: "https://a.com/%zz", want: true},
		{raw: "https://a.com/x%2Ejs", want: true},
		{raw: "https://a.com/x.js;v=1", want: false},
		{raw: "https://a.com/a.php;x.js", want: true},
		{raw: "https://a.com/dir;x.js/page", want: true},
		{raw: "https://a.com/x.js#frag", want: false},
		{raw: "https://a.com/x.php#/y.js", want: true},
		{raw: "http://a b.com/", want: true},
		{raw: "http://a b.com/logo.png", want: false},
		{raw: "HTTPS://a.com/x.css", want: false},
		{raw: "http://[::1]:8080/app.js", want: false},
		{raw: "http://[::1]:8080/app", want: true},
		{raw: "mailto:me@a.com", want: true},
		{raw: "//a.com/x.css", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ok, err := filter.Allowed(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.want, ok)
		})
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "https://a.com", want: ""},
		{raw: "https://a.com/a/b?q=1#f", want: "/a/b"},
		{raw: "https://a.com/a%2Fb%zz", want: "/a%2Fb%zz"},
		{raw: "https://a.com/a;p/b.php;x=1", want: "/a;p/b.php"},
		{raw: "ftp://a.com/f.txt;type=i", want: "/f.txt"},
		{raw: "git://a.com/f.txt;x", want: "/f.txt;x"},
		{raw: "/rel/path.js?x", want: "/rel/path.js"},
		{raw: "  https://a.com/x", want: "/x"},
		{raw: "1http://a.com/x", want: "1http://a.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := filter.Path(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAllowed_MalformedHostIsRejected(t *testing.T) {
	for _, raw := range []string{
		"http://[::1",
		"http://::1]/",
		"http://[1.2.3.4]/",
		"http://[not-an-ip]/page",
	} {
		ok, err := filter.Allowed(raw)
		require.False(t, ok, raw)
		require.ErrorIs(t, err, serrors.ErrInvalidURL, raw)
	}

	ok, err := filter.Allowed("http://[v1.fe80::a+en1]/page")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestExtensionsReturnsCopy(t *testing.T) {
	exts := filter.Extensions()
	exts[0] = ".html"

	require.False(t, filter.HasAssetExtension("/index.html"))
}
