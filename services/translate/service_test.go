package translate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/js2py/services/translate/ast"
	"github.com/AleutianAI/js2py/services/translate/cache"
	"github.com/AleutianAI/js2py/services/translate/translator"
)

func newTestService(t *testing.T, store *cache.Store) *Service {
	t.Helper()
	cfg := DefaultServiceConfig()
	cfg.Workers = 4
	return NewService(cfg, Deps{Cache: store})
}

func openCache(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// Each case runs through the tree-sitter parser, the translator and the
// Python syntax check.
func TestTranslateSource_EndToEnd(t *testing.T) {
	svc := newTestService(t, nil)

	groups := map[string][][2]string{
		"indenting": {
			{"for (let i = 0; i < 10; i++) { for (let j = 0; j < i; j++) { i+j }}",
				"for i in range(0, 10):\n  for j in range(0, i):\n    i + j"},
			{"class A { b() { c(); d() } }", "class A:\n  def b(self):\n    c()\n    d()\n\n"},
		},
		"if": {
			{"if (true) { a() } else { b() }", "if true:\n  a()\nelse:\n  b()"},
			{"if (true) a(); else b()", "if true:\n  a()\nelse:\n  b()"},
			{"if (a) b()", "if a:\n  b()"},
			{"class A { b() { if (a) b() } }", "class A:\n  def b(self):\n    if a:\n      b()\n\n"},
			{"class A { b() { if (a) { b() } } }", "class A:\n  def b(self):\n    if a:\n      b()\n\n"},
			{"function b() { if (a) { b() } }", "def b():\n  if a:\n    b()\n"},
		},
		"module parts": {
			{"B = require('a')", "from a import B"},
			{"const B = require('a')", "from a import B"},
			{`"use static"`, ""},
			{`'use static'`, ""},
			{`"other directive"`, ""},
			{`a = "use static"`, `a = "use static"`},
			{"module.exports = a", ""},
		},
		"loops": {
			{"for (let i = 0, j = 1; i < j; i += 1) {}", "i = 0\nj = 1\nwhile i < j:\n  pass\n  i += 1"},
			{"for (let i = 0; i < period; i++) {}", "for i in range(0, period):\n  pass"},
		},
		"language parts": {
			{"var a = 1", "a = 1"},
			{"let a", ""},
			{"const a = 1", "a = 1"},
			{"const [a] = 1", "[ a ] = 1"},
			{"const [a, b] = [1, 2]", "[ a, b ] = [1, 2]"},
			{"new Foo()", "Foo()"},
			{"a.b()", "a.b()"},
			{"a[b]", "a[b]"},
			{"a.b", "a.b"},
			{"a()", "a()"},
			{"offset * (period - 1)", "offset * (period - 1)"},
			{"function a(b, c) {}", "def a(b, c):\n  pass\n"},
			{"function a() {return}", "def a():\n  return\n"},
			{"function a() {return 1}", "def a():\n  return 1\n"},
			{"class A {}", "class A:\n  pass\n"},
			{"class A extends B {}", "class A(B):\n  pass\n"},
			{"class A { constructor (b, c) {} }", "class A:\n  def __init__(self, b, c):\n    pass\n\n"},
			{"class A { b() { super.b() } }", "class A:\n  def b(self):\n    super().b()\n\n"},
			{"class A { b() { super() } }", "class A:\n  def b(self):\n    super().__init__()\n\n"},
			{"class A { b() { this.b() } }", "class A:\n  def b(self):\n    self.b()\n\n"},
			{"a === b", "a == b"},
			{"a = {}", "a = {}"},
			{"a = {b: 1}", "a = {\n  'b': 1\n}"},
			{"function f() { a = {b: 1}}", "def f():\n  a = {\n    'b': 1\n  }\n"},
			{"a = {b: 1, c:d}", "a = {\n  'b': 1,\n  'c': d\n}"},
			{"`text`", "'text'"},
			{"`hi ${a}/${b} in ${c}`", "'hi %f/%f in %f' % (a, b, c)"},
			{"delete a[0]", "del a[0]"},
			{"-a", "-a"},
			{"+a", "+a"},
			{"!a", "not a"},
			{"a || b", "a or b"},
			{"a && b", "a and b"},
			{"a ? b : c", "b if a else c"},
		},
		"big numbers": {
			{"new BigN(a)", "a"},
			{"BigN.max(list)", "max(list)"},
			{"a.minus(b)", "a - b"},
			{"a.plus(b)", "a + b"},
			{"a.times(b)", "a * b"},
			{"a.dividedBy(b)", "a / b"},
			{"tr.minus(er.times(0.5)).plus(sh.times(0.25))", "(tr - (er * 0.5)) + (sh * 0.25)"},
		},
		"arrays": {
			{"z.push(a)", "z.append(a)"},
			{"z.length", "len(z)"},
			{"z.splice(0, 1)", "del z[0]"},
			{"a[a.length - 1]", "a[-1]"},
		},
		"static attributes": {
			{`class A { fun() {return A.id}} A.id = "MyId"`, "class A:\n  def fun(self):\n    return \"MyId\"\n\n"},
		},
	}

	for name, cases := range groups {
		t.Run(name, func(t *testing.T) {
			for _, tc := range cases {
				res, err := svc.TranslateSource(context.Background(), []byte(tc[0]), "case.js")
				require.NoError(t, err, tc[0])
				assert.Equal(t, tc[1], res.Output, tc[0])
			}
		})
	}
}

func TestTranslateSource_Unsupported(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.TranslateSource(context.Background(), []byte("switch (a) { case 1: b() }"), "s.js")
	require.Error(t, err)
	assert.True(t, translator.IsUnsupported(err))

	var ue *translator.UnsupportedError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "switch_statement", ue.Kind)
	assert.Equal(t, 1, ue.Pos.Line)
}

func TestTranslateSource_ParsedEdgeCases(t *testing.T) {
	svc := newTestService(t, nil)

	cases := [][2]string{
		{"const [, b] = x", "[ _, b ] = x"},
		{"[a, , c] = x", "[ a, _, c ] = x"},
		{"a = `it\\'s`", "a = 'it\\'s'"},
		{"a = `say \\'hi\\' ${n}`", "a = 'say \\'hi\\' %f' % (n)"},
		{"for (let i = 0, j = 0; i < n; i++, j++) { if (x) continue; f(j) }",
			"i = 0\nj = 0\nwhile i < n:\n  if x:\n    i += 1\n    j += 1\n    continue\n  f(j)\n  i += 1\n  j += 1"},
		{"class A {} A.k = g(); A.k = 3; f(A.k)", "class A:\n  pass\n\ng()\nf(3)"},
	}
	for _, tc := range cases {
		res, err := svc.TranslateSource(context.Background(), []byte(tc[0]), "case.js")
		require.NoError(t, err, tc[0])
		assert.Equal(t, tc[1], res.Output, tc[0])
	}

	_, err := svc.TranslateSource(context.Background(), []byte("a = [1, , 2]"), "hole.js")
	require.Error(t, err)
	assert.True(t, translator.IsUnsupported(err))
}

func TestTranslateSource_SyntaxError(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.TranslateSource(context.Background(), []byte("let = ;"), "bad.js")
	require.Error(t, err)
	assert.ErrorIs(t, err, ast.ErrParseFailed)
	assert.Contains(t, err.Error(), "bad.js")
}

func TestTranslateSource_NotSource(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.TranslateSource(context.Background(), []byte("x"), "main.go")
	assert.ErrorIs(t, err, ErrNotSource)
}

func TestTranslateSource_EmptyPathUsesJavaScript(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.TranslateSource(context.Background(), []byte("a = 1"), "")
	require.NoError(t, err)
	assert.Equal(t, "a = 1", res.Output)
}

func TestTranslateSource_Cache(t *testing.T) {
	store := openCache(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	first, err := svc.TranslateSource(ctx, []byte("var a = 1"), "a.js")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.TranslateSource(ctx, []byte("var a = 1"), "a.js")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Output, second.Output)

	stats := store.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Writes)
}

func TestTranslateSource_CacheKeyedByOptions(t *testing.T) {
	store := openCache(t)
	ctx := context.Background()
	src := []byte("function f() { return 1 }")

	two := NewService(DefaultServiceConfig(), Deps{Cache: store})
	four := NewService(DefaultServiceConfig(), Deps{
		Cache:      store,
		Translator: translator.New(translator.WithIndent("    ")),
	})

	a, err := two.TranslateSource(ctx, src, "f.js")
	require.NoError(t, err)
	b, err := four.TranslateSource(ctx, src, "f.js")
	require.NoError(t, err)

	assert.False(t, b.Cached)
	assert.Equal(t, "def f():\n  return 1\n", a.Output)
	assert.Equal(t, "def f():\n    return 1\n", b.Output)
}

func TestTranslateSource_FailuresAreNotCached(t *testing.T) {
	store := openCache(t)
	svc := newTestService(t, store)

	_, err := svc.TranslateSource(context.Background(), []byte("switch (a) {}"), "s.js")
	require.Error(t, err)
	assert.Equal(t, int64(0), store.Stats().Writes)
}

func TestOptionsFingerprint(t *testing.T) {
	a := optionsFingerprint(translator.Options{Indent: "  ", WrapperNames: []string{"B", "A"}})
	b := optionsFingerprint(translator.Options{Indent: "  ", WrapperNames: []string{"A", "B"}})
	c := optionsFingerprint(translator.Options{Indent: "\t", WrapperNames: []string{"A", "B"}})
	assert.Equal(t, a, b, "wrapper order does not matter")
	assert.NotEqual(t, a, c)
}

func TestTranslateFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.js")
	bad := filepath.Join(dir, "bad.js")
	missing := filepath.Join(dir, "missing.js")
	writeSource(t, good, "var a = 1")
	writeSource(t, bad, "switch (a) {}")

	svc := newTestService(t, nil)
	results, err := svc.TranslateFiles(context.Background(), []string{good, bad, missing})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, good, results[0].Path)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "a = 1", results[0].Output)

	assert.True(t, translator.IsUnsupported(results[1].Err))
	assert.ErrorIs(t, results[2].Err, os.ErrNotExist)
}

func TestTranslateFiles_Canceled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.js")
	writeSource(t, path, "var a = 1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(t, nil).TranslateFiles(ctx, []string{path, path})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCollectSources(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, filepath.Join(dir, "a.js"), "")
	writeSource(t, filepath.Join(dir, "lib", "b.mjs"), "")
	writeSource(t, filepath.Join(dir, "lib", "readme.md"), "")
	writeSource(t, filepath.Join(dir, "node_modules", "x", "index.js"), "")

	svc := newTestService(t, nil)

	paths, err := svc.CollectSources([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.js"),
		filepath.Join(dir, "lib", "b.mjs"),
	}, paths)

	_, err = svc.CollectSources([]string{filepath.Join(dir, "lib", "readme.md")})
	assert.ErrorIs(t, err, ErrNotSource)

	_, err = svc.CollectSources([]string{filepath.Join(dir, "node_modules")})
	require.NoError(t, err, "a named root is walked even when its name is skipped")

	empty := t.TempDir()
	_, err = svc.CollectSources([]string{empty})
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("src", "app.py"), OutputPath(filepath.Join("src", "app.js"), ""))
	assert.Equal(t, filepath.Join("out", "app.py"), OutputPath(filepath.Join("src", "app.mjs"), "out"))
}

func TestWriteOutputAndCompare(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.js")
	dst := filepath.Join(dir, "out", "a.py")
	writeSource(t, src, "function f() { return 1 }")

	svc := newTestService(t, nil)
	ctx := context.Background()

	missing, err := svc.Compare(ctx, src, dst)
	require.NoError(t, err)
	assert.False(t, missing.Equal())
	assert.Equal(t, "/dev/null", missing.File.OrigName)

	res, err := svc.TranslateFile(ctx, src)
	require.NoError(t, err)
	require.NoError(t, WriteOutput(res, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "def f():\n  return 1\n\n", string(data))

	same, err := svc.Compare(ctx, src, dst)
	require.NoError(t, err)
	assert.True(t, same.Equal())

	writeSource(t, src, "function f() { return 2 }")
	changed, err := svc.Compare(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, changed.Added)
	assert.Equal(t, 1, changed.Removed)
}
