package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"zapush/interpreter-go/pkg/driver"
	"zapush/interpreter-go/pkg/interpreter"
)

const defaultPackageName = "com.example.zapush"

type runOptions struct {
	class       string
	method      string
	bindings    []string
	allow       []string
	packageName string
	trace       bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run [zapush.yml | File.java]",
		Short: "Run a method of a Java source file",
		Long: "Run a method of a Java source file\n" +
			"\n" +
			"With a manifest (zapush.yml in the current directory by default) the source, target\n" +
			"method, bindings and sandbox come from the manifest. With a .java file they come from\n" +
			"flags: --method is required and --class defaults to the file's base name.\n" +
			"\n" +
			"Bindings are name=value pairs; the value is read as a YAML scalar, so 3 is an int and\n" +
			"true a boolean. A value of @name binds a host object, for example context=@context.",
		Args: cobra.MaximumNArgs(1),
		RunE: runFunc(func(cmd *cobra.Command, args []string) error {
			m, baseDir, err := manifestForRun(args, opts)
			if err != nil {
				return err
			}
			return executeRun(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), m, baseDir, opts)
		}),
	}

	cmd.Flags().StringVar(&opts.class, "class", "", "Type declaring the method (defaults to the file name)")
	cmd.Flags().StringVar(&opts.method, "method", "", "Method to run")
	cmd.Flags().StringArrayVarP(&opts.bindings, "bind", "b", nil, "Initial binding name=value or name=@object (repeatable)")
	cmd.Flags().StringArrayVar(&opts.allow, "allow", nil, "Sandbox glob of visible host types (repeatable)")
	cmd.Flags().StringVar(&opts.packageName, "package", defaultPackageName, "Package name reported by the emulated context")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Print every host interaction after the run")

	return cmd
}

// manifestForRun builds the manifest for a run and the directory its
// relative paths resolve against.
func manifestForRun(args []string, opts runOptions) (*driver.Manifest, string, error) {
	target := driver.ManifestFileName
	if len(args) == 1 {
		target = args[0]
	}
	if strings.EqualFold(filepath.Ext(target), ".java") {
		m, err := manifestFromFlags(target, opts)
		return m, "", err
	}

	m, err := driver.LoadManifest(target)
	if err != nil {
		return nil, "", err
	}
	if opts.method != "" {
		m.Method = opts.method
	}
	if opts.class != "" {
		m.Class = opts.class
	}
	extra, err := parseBindings(opts.bindings)
	if err != nil {
		return nil, "", err
	}
	if len(extra) > 0 && m.Bindings == nil {
		m.Bindings = map[string]driver.BindingSpec{}
	}
	for name, spec := range extra {
		m.Bindings[name] = spec
	}
	if len(opts.allow) > 0 {
		m.Sandbox.Allow = opts.allow
	}
	// overrides are checked like the file they replace
	if err := m.Validate(); err != nil {
		return nil, "", errors.Wrapf(err, "manifest: %s", m.Path)
	}
	return m, filepath.Dir(m.Path), nil
}

func manifestFromFlags(file string, opts runOptions) (*driver.Manifest, error) {
	class := opts.class
	if class == "" {
		class = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	bindings, err := parseBindings(opts.bindings)
	if err != nil {
		return nil, err
	}
	m := &driver.Manifest{
		Source:   driver.SourceSpec{Path: file},
		Class:    class,
		Method:   opts.method,
		Bindings: bindings,
		Sandbox:  driver.SandboxSpec{Allow: opts.allow},
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// parseBindings reads name=value flags.
func parseBindings(flags []string) (map[string]driver.BindingSpec, error) {
	out := make(map[string]driver.BindingSpec, len(flags))
	for _, raw := range flags {
		name, value, ok := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Errorf("binding %q: expected name=value", raw)
		}
		if ref, isRef := strings.CutPrefix(value, "@"); isRef {
			out[name] = driver.BindingSpec{Ref: ref}
			continue
		}
		var scalar any
		if err := yaml.Unmarshal([]byte(value), &scalar); err != nil {
			return nil, errors.Wrapf(err, "binding %s", name)
		}
		if scalar == nil {
			scalar = value
		}
		out[name] = driver.BindingSpec{Value: scalar}
	}
	return out, nil
}

func executeRun(ctx context.Context, stdout, stderr io.Writer, m *driver.Manifest, baseDir string, opts runOptions) error {
	session, err := driver.NewSession(stdout, stdout, opts.packageName)
	if err != nil {
		return err
	}
	result, runErr := session.Run(ctx, m, baseDir)
	if opts.trace {
		for _, event := range session.Journal.Events() {
			fmt.Fprintf(stderr, "trace: %s\n", event)
		}
	}
	if runErr == nil {
		return nil
	}
	if result != nil && result.Source != nil {
		return diagnosticError(runErr, result.Source.Display, result.Source.Data)
	}
	return runErr
}

// diagnosedError carries a rendered diagnostic for an interpreter failure.
type diagnosedError struct {
	err  error
	text string
}

func (e *diagnosedError) Error() string { return e.text }
func (e *diagnosedError) Unwrap() error { return e.err }

func diagnosticError(err error, path string, source []byte) error {
	return &diagnosedError{err: err, text: interpreter.FormatDiagnostic(err, path, source)}
}
