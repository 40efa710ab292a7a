package passive_test

import (
	"passive/internal/passive"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain domain", in: "example.com", want: "example.com"},
		{name: "port and dash", in: "sub-1.example.com:8443", want: "sub-1.example.com:8443"},
		{name: "empty", in: "", want: "''"},
		{name: "semicolon", in: "a.com;id", want: "'a.com;id'"},
		{name: "command substitution", in: "$(touch pwned).com", want: "'$(touch pwned).com'"},
		{name: "backticks", in: "`id`.com", want: "'`id`.com'"},
		{name: "single quote", in: "a'b.com", want: `'a'"'"'b.com'`},
		{name: "underscore", in: "_dmarc.example.com", want: "_dmarc.example.com"},
		{name: "newline", in: "a.com\nid", want: "'a.com\nid'"},
		{name: "space", in: "a b", want: "'a b'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, passive.ShellQuote(tt.in))
		})
	}
}

func TestRenderCommand(t *testing.T) {
	require.Equal(t,
		"echo example.com | gau --subs | sort -u",
		passive.RenderCommand("echo {domain} | gau --subs | sort -u", "example.com"))

	require.Equal(t,
		"echo https://example.com/ && echo example.com",
		passive.RenderCommand("echo https://{domain}/ && echo {domain}", "example.com"))

	require.Equal(t,
		"echo 'a.com; rm -rf ~' | waybackurls",
		passive.RenderCommand("echo {domain} | waybackurls", "a.com; rm -rf ~"))

	require.Equal(t, "echo static", passive.RenderCommand("echo static", "example.com"))
}
