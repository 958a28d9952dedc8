package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/js2py/services/translate"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI runs js2py against a config path that does not exist and with
// the cache disabled, so tests never touch the user's cache directory.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	base := []string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "--no-cache", "--log-level", "error"}
	code := run(append(base, args...), strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestConvert_WritesNextToSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.js"), "function f() { return 1 }")
	writeFile(t, filepath.Join(dir, "lib", "b.js"), "z.push(a)")

	res := runCLI(t, "", "convert", dir)
	require.Equal(t, exitOK, res.code, res.stderr)

	assert.Equal(t, "def f():\n  return 1\n\n", readFile(t, filepath.Join(dir, "a.py")))
	assert.Equal(t, "z.append(a)\n", readFile(t, filepath.Join(dir, "lib", "b.py")))
}

func TestConvert_OutputDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "py")
	src := filepath.Join(dir, "a.js")
	writeFile(t, src, "var a = 1")

	res := runCLI(t, "", "convert", "-o", out, src)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "a = 1\n", readFile(t, filepath.Join(out, "a.py")))
	assert.NoFileExists(t, filepath.Join(dir, "a.py"))
}

func TestConvert_Stdout(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.js")
	writeFile(t, src, "a ? b : c")

	res := runCLI(t, "", "convert", "--stdout", src)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "b if a else c\n", res.stdout)
	assert.NoFileExists(t, filepath.Join(dir, "a.py"))
}

func TestConvert_Stdin(t *testing.T) {
	res := runCLI(t, "const B = require('a')\nB.run()", "convert", "-")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "from a import B\nB.run()\n", res.stdout)
}

func TestConvert_UnsupportedFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ok.js"), "var a = 1")
	writeFile(t, filepath.Join(dir, "bad.js"), "switch (a) {}")

	res := runCLI(t, "", "convert", dir)
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "switch_statement")
	assert.Contains(t, res.stderr, "1 of 2 files failed")
	assert.FileExists(t, filepath.Join(dir, "ok.py"), "good files are still written")
}

func TestConvert_NoSources(t *testing.T) {
	res := runCLI(t, "", "convert", t.TempDir())
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, translate.ErrNoSources.Error())
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.js")
	writeFile(t, src, "function f() { return 1 }")

	missing := runCLI(t, "", "check", dir)
	assert.Equal(t, exitDiff, missing.code)
	assert.Contains(t, missing.stdout, "+def f():")

	require.Equal(t, exitOK, runCLI(t, "", "convert", dir).code)

	fresh := runCLI(t, "", "check", dir)
	assert.Equal(t, exitOK, fresh.code, fresh.stderr)
	assert.Empty(t, fresh.stdout)

	writeFile(t, src, "function f() { return 2 }")
	stale := runCLI(t, "", "check", dir)
	assert.Equal(t, exitDiff, stale.code)
	assert.Contains(t, stale.stdout, "-  return 1")
	assert.Contains(t, stale.stdout, "+  return 2")
	assert.Contains(t, stale.stderr, "1 of 1 files out of date")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "js2py.yaml")

	res := runCLI(t, "", "init", path)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, readFile(t, path), "translator:")

	again := runCLI(t, "", "init", path)
	assert.Equal(t, exitFailure, again.code)
	assert.Contains(t, again.stderr, "already exists")

	forced := runCLI(t, "", "init", "--force", path)
	assert.Equal(t, exitOK, forced.code)
}

func TestConfigFileApplies(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "js2py.yaml")
	writeFile(t, cfgPath, "translator:\n  indent: \"    \"\ncache:\n  enabled: false\n")
	src := filepath.Join(dir, "a.js")
	writeFile(t, src, "function f() { return 1 }")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", cfgPath, "convert", "--stdout", src}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, "def f():\n    return 1\n\n", stdout.String())
}

func TestInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "js2py.yaml")
	writeFile(t, cfgPath, "translator:\n  indent: \"\\t\\t\"\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", cfgPath, "version"}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "translator.indent")
}

func TestInvalidLogLevel(t *testing.T) {
	res := runCLI(t, "", "--log-level", "loud", "version")
	assert.Equal(t, exitFailure, res.code)
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "", "version")
	require.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stdout, "js2py "+translate.ServiceVersion)
	assert.Contains(t, res.stdout, `indent "  "`)
}
