package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type run struct {
	out    string
	outDir string
	err    error
}

func writeConfig(t *testing.T, commands ...string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("tempDir: " + t.TempDir() + "\n")
	b.WriteString("output:\n  noColor: true\n")
	b.WriteString("commands:\n")
	for _, c := range commands {
		b.WriteString("  - " + c + "\n")
	}

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	return path
}

func execute(t *testing.T, stdin string, args ...string) run {
	t.Helper()

	outDir := t.TempDir()
	var out bytes.Buffer

	cmd := newRootCommand()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "-o", outDir))

	err := cmd.Execute()

	return run{out: out.String(), outDir: outDir, err: err}
}

func TestRoot_NoInputPrintsUsage(t *testing.T) {
	r := execute(t, "", "-c", filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, r.err)
	require.Equal(t, "Usage: echo domain.tld | passive\n"+
		"Usage: cat domains.txt | passive\n"+
		"Usage: passive <domain|url|file>\n", r.out)
}

func TestRoot_GathersArgument(t *testing.T) {
	cfg := writeConfig(t,
		"echo https://{domain}/",
		"echo https://{domain}/app.js",
		"echo https://{domain}/login; echo https://{domain}/",
	)

	r := execute(t, "", "-c", cfg, "https://example.com/some/path")
	require.NoError(t, r.err)

	b, err := os.ReadFile(filepath.Join(r.outDir, "example.com.passive"))
	require.NoError(t, err)
	require.Equal(t, "https://example.com/\nhttps://example.com/login\n", string(b))

	require.Contains(t, r.out, "gathering URLs passively for: example.com\n")
	require.Contains(t, r.out, "[Executing command]: echo https://example.com/app.js\n")
	require.Contains(t, r.out, "done for example.com, results: 2\n")
}

func TestRoot_StdinWinsOverArgument(t *testing.T) {
	cfg := writeConfig(t, "echo https://{domain}/")

	r := execute(t, "stdin.example\nignored.example\n", "-c", cfg, "arg.example")
	require.NoError(t, r.err)

	_, err := os.Stat(filepath.Join(r.outDir, "stdin.example.passive"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(r.outDir, "arg.example.passive"))
	require.True(t, os.IsNotExist(err))
}

func TestRoot_DomainFile(t *testing.T) {
	cfg := writeConfig(t, "echo https://{domain}/")
	list := filepath.Join(t.TempDir(), "domains.txt")
	require.NoError(t, os.WriteFile(list, []byte("a.example\n\nhttps://b.example/x\n"), 0o600))

	r := execute(t, "", "-c", cfg, list)
	require.NoError(t, r.err)

	for _, host := range []string{"a.example", "b.example"} {
		b, err := os.ReadFile(filepath.Join(r.outDir, host+".passive"))
		require.NoError(t, err)
		require.Equal(t, "https://"+host+"/\n", string(b))
	}
}

func TestRoot_FailingCommandStillSucceeds(t *testing.T) {
	cfg := writeConfig(t, "echo https://{domain}/a; exit 4", "echo https://{domain}/b")

	r := execute(t, "", "-c", cfg, "c.example")
	require.NoError(t, r.err)
	require.Contains(t, r.out, "[-] command exited with status 4: echo https://c.example/a; exit 4\n")

	b, err := os.ReadFile(filepath.Join(r.outDir, "c.example.passive"))
	require.NoError(t, err)
	require.Equal(t, "https://c.example/a\nhttps://c.example/b\n", string(b))
}

func TestRoot_MetricsFile(t *testing.T) {
	cfg := writeConfig(t, "echo https://{domain}/")
	metricsPath := filepath.Join(t.TempDir(), "passive.prom")

	r := execute(t, "", "-c", cfg, "--metrics-file", metricsPath, "m.example")
	require.NoError(t, r.err)

	b, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	require.Contains(t, string(b), "passive_domains")
	require.Contains(t, string(b), "passive_commands")
}

func TestMerge(t *testing.T) {
	cfg := writeConfig(t)
	staging := filepath.Join(t.TempDir(), "staging")
	require.NoError(t, os.WriteFile(staging,
		[]byte("https://a.com/y\nhttps://a.com/x.css\nhttps://a.com/\nhttps://a.com/y\n"), 0o600))

	r := execute(t, "", "merge", "-c", cfg, staging, "https://a.com/")
	require.NoError(t, r.err)
	require.Equal(t, "merging result for: a.com\ndone for a.com, results: 2\n", r.out)

	b, err := os.ReadFile(filepath.Join(r.outDir, "a.com.passive"))
	require.NoError(t, err)
	require.Equal(t, "https://a.com/\nhttps://a.com/y\n", string(b))
}

func TestMerge_MissingStaging(t *testing.T) {
	cfg := writeConfig(t)

	r := execute(t, "", "merge", "-c", cfg, filepath.Join(t.TempDir(), "nope"), "a.com")
	require.Error(t, r.err)
}

func TestRoot_HelpListsExtensions(t *testing.T) {
	r := execute(t, "", "--help")
	require.NoError(t, r.err)
	require.Contains(t, r.out, ".woff2")
	require.Contains(t, r.out, ".json")
}
