package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapush/interpreter-go/pkg/driver"
	"zapush/interpreter-go/pkg/interpreter"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newZapushCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, cliToolVersion+"\n", stdout)
}

func TestInitThenRunManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")

	stdout, _, err := execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+filepath.Join(dir, driver.SampleSourceFile))
	assert.FileExists(t, filepath.Join(dir, driver.ManifestFileName))

	_, stderr, err := execute(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, stderr, "already exists")

	_, _, err = execute(t, "init", "--force", dir)
	require.NoError(t, err)

	stdout, stderr, err = execute(t, "run", filepath.Join(dir, driver.ManifestFileName), "--trace")
	require.NoError(t, err)
	assert.Equal(t, "[toast LONG] hello\n", stdout)
	assert.Equal(t, []string{
		`trace: construct new java.lang.String(java.lang.String) ["hello"]`,
		"trace: field android.widget.Toast.LENGTH_LONG []",
	}, strings.Split(stderr, "\n")[:2])
	assert.Contains(t, stderr, "trace: invoke android.widget.Toast.show() []\n")

	stdout, stderr, err = execute(t, "run", filepath.Join(dir, driver.ManifestFileName), "--allow", "[")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `sandbox pattern "[": syntax error in pattern`)
}

func TestRunJavaFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Greeter.java")
	require.NoError(t, os.WriteFile(file, []byte(`
class Greeter {
    void greet(String name, int times) {
        for (int i = 0; i < times; i++) {
            System.out.println("hi " + name);
        }
    }
}
`), 0o644))

	stdout, _, err := execute(t, "run", file, "--method", "greet", "-b", "name=zap", "-b", "times=2")
	require.NoError(t, err)
	assert.Equal(t, "hi zap\nhi zap\n", stdout)

	_, stderr, err := execute(t, "run", file, "--method", "greet", "-b", "name=zap", "--allow", "android.*")
	require.Error(t, err)
	assert.Equal(t, interpreter.KindUnresolvedType, interpreter.KindOf(err))
	assert.Contains(t, stderr, "Greeter.java:3:")
}

func TestRunReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Bad.java")
	require.NoError(t, os.WriteFile(file, []byte("class Bad {\n    void run() {\n        System.out.println(mesage);\n    }\n}\n"), 0o644))

	_, stderr, err := execute(t, "run", file, "--method", "run", "-b", "message=hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, interpreter.ErrUnboundName)
	assert.Contains(t, stderr, file+":3:28: UnboundNameError: undefined variable 'mesage' (did you mean \"message\"?)")
	assert.Contains(t, stderr, "   3 |         System.out.println(mesage);")

	_, stderr, err = execute(t, "run", file)
	require.Error(t, err)
	assert.Contains(t, stderr, "method is required")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "init", dir)
	require.NoError(t, err)

	stdout, _, err := execute(t, "check", filepath.Join(dir, driver.ManifestFileName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, filepath.Join(dir, driver.SampleSourceFile)+": ok", lines[0])
	assert.Contains(t, lines, "package com.example.zapush")
	assert.Contains(t, lines, "import android.widget.Toast")
	assert.Contains(t, lines, "class Bla")
	assert.Contains(t, lines, "  field String mText")
	assert.Contains(t, lines, "  method void fire(Context context)")

	bad := filepath.Join(dir, "Broken.java")
	require.NoError(t, os.WriteFile(bad, []byte("class Broken {\n    void run() {\n        while (true) { }\n    }\n}\n"), 0o644))
	_, stderr, err := execute(t, "check", bad)
	require.Error(t, err)
	assert.Contains(t, stderr, bad+":3:9: ParseError:")
}

func TestCatalog(t *testing.T) {
	stdout, _, err := execute(t, "catalog", "android.app.*")
	require.NoError(t, err)
	assert.Equal(t, "class android.app.Application extends android.content.ContextWrapper\n", stdout)

	stdout, _, err = execute(t, "catalog", "-m", "android.widget.*")
	require.NoError(t, err)
	assert.Contains(t, stdout, "class android.widget.Toast\n")
	assert.Contains(t, stdout, "  static field int LENGTH_LONG\n")
	assert.Contains(t, stdout, "  static android.widget.Toast makeText(android.content.Context, java.lang.CharSequence, int)\n")
	assert.Contains(t, stdout, "  void show()\n")

	stdout, _, err = execute(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, stdout, "class java.lang.String implements java.lang.CharSequence\n")
	assert.NotContains(t, stdout, "class int")

	_, stderr, err := execute(t, "catalog", "[")
	require.Error(t, err)
	assert.Contains(t, stderr, "catalog: bad pattern")
}

func TestParseBindings(t *testing.T) {
	got, err := parseBindings([]string{"n=3", "s=hello", "flag=true", "c=@context", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]driver.BindingSpec{
		"n":     {Value: 3},
		"s":     {Value: "hello"},
		"flag":  {Value: true},
		"c":     {Ref: "context"},
		"empty": {Value: ""},
	}, got)

	for _, raw := range []string{"novalue", "=x", "bad=[1"} {
		_, err := parseBindings([]string{raw})
		assert.Error(t, err, raw)
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "plain", errorMessage(errors.New("plain")))

	var single *multierror.Error
	single = multierror.Append(single, errors.New("only"))
	assert.Equal(t, "only", errorMessage(single))

	var multi *multierror.Error
	multi = multierror.Append(multi, errors.New("class is required"), errors.New("method is required"))
	assert.Equal(t, "2 errors occurred:\n    1) class is required\n    2) method is required", errorMessage(errors.Wrap(multi, "manifest")))
}
