package driver

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/interpreter"
	"zapush/interpreter-go/pkg/runtime"
)

// ManifestFileName is the conventional run manifest name.
const ManifestFileName = "zapush.yml"

// Manifest describes one run: where the source lives, which method to run,
// the initial bindings and the sandbox applied to the host surface.
type Manifest struct {
	Path string `yaml:"-"`

	Source   SourceSpec             `yaml:"source"`
	Class    string                 `yaml:"class"`
	Method   string                 `yaml:"method"`
	Bindings map[string]BindingSpec `yaml:"bindings,omitempty"`
	Sandbox  SandboxSpec            `yaml:"sandbox,omitempty"`
}

// SourceSpec is either a local path or a git checkout.
type SourceSpec struct {
	Path string   `yaml:"path,omitempty"`
	Git  *GitSpec `yaml:"git,omitempty"`
}

// GitSpec selects a file inside a git repository at a revision. At most one
// of Rev, Tag and Branch may be set; none means HEAD.
type GitSpec struct {
	URL    string `yaml:"url"`
	Rev    string `yaml:"rev,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	Path   string `yaml:"path"`
}

// BindingSpec is one initial variable: a host object named by Ref, or a
// scalar Value. Type is an optional static type hint.
type BindingSpec struct {
	Ref   string `yaml:"ref,omitempty"`
	Value any    `yaml:"value,omitempty"`
	Type  string `yaml:"type,omitempty"`
}

// SandboxSpec limits the visible host types to those matching one of the
// Allow globs. An empty list allows everything.
type SandboxSpec struct {
	Allow []string `yaml:"allow,omitempty"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(file string) (*Manifest, error) {
	if file == "" {
		return nil, errors.New("manifest: empty path")
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest: resolve %s", file)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest: read %s", abs)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest: %s", abs)
	}
	m.Path = abs
	return m, nil
}

// ParseManifest decodes manifest YAML, rejecting unknown keys, and validates
// the result.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	m.normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// WriteManifest serialises m to file.
func WriteManifest(m *Manifest, file string) error {
	if m == nil {
		return errors.New("manifest: nil manifest")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return errors.Wrapf(err, "manifest: marshal %s", file)
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "manifest: encoder close")
	}
	if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "manifest: write %s", file)
	}
	return nil
}

func (m *Manifest) normalize() {
	m.Class = strings.TrimSpace(m.Class)
	m.Method = strings.TrimSpace(m.Method)
	m.Source.Path = strings.TrimSpace(m.Source.Path)
	if g := m.Source.Git; g != nil {
		g.URL = strings.TrimSpace(g.URL)
		g.Rev = strings.TrimSpace(g.Rev)
		g.Tag = strings.TrimSpace(g.Tag)
		g.Branch = strings.TrimSpace(g.Branch)
		g.Path = strings.TrimSpace(g.Path)
	}
}

// Validate reports every problem with the manifest at once.
func (m *Manifest) Validate() error {
	var result *multierror.Error
	if m.Class == "" {
		result = multierror.Append(result, errors.New("class is required"))
	}
	if m.Method == "" {
		result = multierror.Append(result, errors.New("method is required"))
	}
	switch {
	case m.Source.Path == "" && m.Source.Git == nil:
		result = multierror.Append(result, errors.New("source needs a path or a git repository"))
	case m.Source.Path != "" && m.Source.Git != nil:
		result = multierror.Append(result, errors.New("source cannot have both a path and a git repository"))
	case m.Source.Git != nil:
		g := m.Source.Git
		if g.URL == "" {
			result = multierror.Append(result, errors.New("source.git.url is required"))
		}
		if g.Path == "" {
			result = multierror.Append(result, errors.New("source.git.path is required"))
		}
		set := 0
		for _, v := range []string{g.Rev, g.Tag, g.Branch} {
			if v != "" {
				set++
			}
		}
		if set > 1 {
			result = multierror.Append(result, errors.New("source.git accepts only one of rev, tag and branch"))
		}
	}
	for _, name := range m.bindingNames() {
		b := m.Bindings[name]
		if b.Ref != "" && b.Value != nil {
			result = multierror.Append(result, errors.Errorf("binding %s: ref and value are mutually exclusive", name))
		}
		if _, err := scalarValue(b.Value, b.Type); b.Ref == "" && err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "binding %s", name))
		}
	}
	for _, glob := range m.Sandbox.Allow {
		if _, err := path.Match(glob, ""); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "sandbox pattern %q", glob))
		}
	}
	return result.ErrorOrNil()
}

func (m *Manifest) bindingNames() []string {
	names := make([]string, 0, len(m.Bindings))
	for name := range m.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ObjectResolver supplies the host objects manifest bindings refer to by
// name, such as the application context.
type ObjectResolver interface {
	ResolveObject(name string) (runtime.Value, bool)
}

// Objects is a fixed ObjectResolver.
type Objects map[string]runtime.Value

func (o Objects) ResolveObject(name string) (runtime.Value, bool) {
	v, ok := o[name]
	return v, ok
}

// ResolveBindings turns the manifest's bindings into interpreter bindings.
func (m *Manifest) ResolveBindings(objects ObjectResolver) (map[string]interpreter.Binding, error) {
	out := make(map[string]interpreter.Binding, len(m.Bindings))
	var result *multierror.Error
	for _, name := range m.bindingNames() {
		spec := m.Bindings[name]
		if spec.Ref != "" {
			var (
				v  runtime.Value
				ok bool
			)
			if objects != nil {
				v, ok = objects.ResolveObject(spec.Ref)
			}
			if !ok {
				result = multierror.Append(result, errors.Errorf("binding %s: unknown host object %q", name, spec.Ref))
				continue
			}
			out[name] = interpreter.Binding{Value: v, TypeHint: spec.Type}
			continue
		}
		v, err := scalarValue(spec.Value, spec.Type)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "binding %s", name))
			continue
		}
		out[name] = interpreter.Binding{Value: v, TypeHint: spec.Type}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// scalarValue converts a YAML scalar. A type hint of int or boolean coerces
// strings such as "3" or "true"; without one the YAML type decides.
func scalarValue(raw any, typeHint string) (runtime.Value, error) {
	if raw == nil {
		return runtime.NullValue{}, nil
	}
	switch simpleTypeName(typeHint) {
	case host.IntType, "Integer", "long", "Long", "short", "byte":
		n, err := cast.ToInt64E(raw)
		if err != nil {
			return nil, err
		}
		return runtime.IntegerValue{Val: n}, nil
	case host.BooleanType, "Boolean":
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: b}, nil
	case "String", "CharSequence", "Object":
		s, err := cast.ToStringE(raw)
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: s}, nil
	}

	switch v := raw.(type) {
	case bool:
		return runtime.BoolValue{Val: v}, nil
	case int, int64, uint64:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return nil, err
		}
		return runtime.IntegerValue{Val: n}, nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("floating point value %v is not supported", v)
		}
		return runtime.IntegerValue{Val: int64(v)}, nil
	case string:
		return runtime.StringValue{Val: v}, nil
	default:
		return nil, fmt.Errorf("unsupported value %v (%T)", raw, raw)
	}
}

func simpleTypeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "java.lang.")
	return name
}

// Apply restricts reg to the allowed types. Without patterns reg is returned
// unchanged.
func (s SandboxSpec) Apply(reg *host.Registry) *host.Registry {
	if len(s.Allow) == 0 {
		return reg
	}
	patterns := append([]string(nil), s.Allow...)
	return reg.Restrict(func(name string) bool {
		for _, pattern := range patterns {
			if ok, _ := path.Match(pattern, name); ok {
				return true
			}
		}
		return false
	})
}
