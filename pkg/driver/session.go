package driver

import (
	"context"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/hostlib"
	"zapush/interpreter-go/pkg/interpreter"
)

// ContextObject is the binding ref name of the emulated application context.
const ContextObject = "context"

// Session is an emulated device with the stock host surface installed. Every
// host interaction of a run is recorded in Journal.
type Session struct {
	Registry *host.Registry
	Device   *hostlib.Android
	Journal  *hostlib.Journal
	Objects  Objects
}

// NewSession builds a session whose console output goes to stdout and whose
// toasts and log lines go to screen.
func NewSession(stdout, screen io.Writer, packageName string) (*Session, error) {
	reg, device, err := hostlib.NewRegistry(stdout, screen)
	if err != nil {
		return nil, errors.Wrap(err, "host surface")
	}
	if err := reg.Validate(); err != nil {
		return nil, errors.Wrap(err, "host surface")
	}
	return &Session{
		Registry: reg,
		Device:   device,
		Journal:  hostlib.NewJournal(),
		Objects:  Objects{ContextObject: device.NewContext(packageName)},
	}, nil
}

// Result carries what a run loaded, for diagnostics.
type Result struct {
	Source *Source
}

// Run loads the manifest's source, parses it and executes the configured
// method under the manifest's sandbox. The returned Result is non-nil
// whenever the source was loaded, so callers can render diagnostics against
// it.
func (s *Session) Run(ctx context.Context, m *Manifest, baseDir string) (*Result, error) {
	src, err := LoadSource(ctx, m.Source, baseDir)
	if err != nil {
		return nil, err
	}
	result := &Result{Source: src}

	bindings, err := m.ResolveBindings(s.Objects)
	if err != nil {
		return result, err
	}

	reg := m.Sandbox.Apply(s.Registry)
	interp := interpreter.New(reg, interpreter.WithObserver(s.Journal))
	if glog.V(3) {
		glog.Infof("running %s.%s from %s", m.Class, m.Method, src.Display)
	}
	if _, err := interp.ExecuteSource(ctx, src.Data, m.Class, m.Method, bindings); err != nil {
		return result, err
	}
	return result, nil
}
