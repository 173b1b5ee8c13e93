package interpreter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/hostlib"
	"zapush/interpreter-go/pkg/runtime"
)

const probeClass = "com.example.Probe"

var errProbeFailed = errors.New("probe failed")

// probe is a host class that records what scripts hand it.
type probe struct {
	ints  []int64
	notes []string
	ticks int
}

func (p *probe) class() *host.Class {
	str := []string{host.StringClass}
	integer := []string{host.IntType}
	returning := func(s string) host.Func {
		return func(*host.Call) (runtime.Value, error) { return host.Str(s), nil }
	}
	return host.NewClass(probeClass).
		Constructor(nil, func(call *host.Call) (runtime.Value, error) {
			return runtime.NewObject(call.Class, p), nil
		}).
		InstanceField("count", host.IntType).
		Method("name", nil, host.StringClass, returning("probe")).
		StaticMethod("record", integer, host.VoidType, func(call *host.Call) (runtime.Value, error) {
			n, err := host.AsInt(call.Arg(0))
			if err != nil {
				return nil, err
			}
			p.ints = append(p.ints, n)
			return nil, nil
		}).
		StaticMethod("note", str, host.VoidType, func(call *host.Call) (runtime.Value, error) {
			s, err := host.AsString(call.Arg(0))
			if err != nil {
				return nil, err
			}
			p.notes = append(p.notes, s)
			return nil, nil
		}).
		StaticMethod("tick", nil, host.BooleanType, func(*host.Call) (runtime.Value, error) {
			p.ticks++
			return host.Bool(true), nil
		}).
		StaticMethod("f", integer, host.StringClass, returning("int")).
		StaticMethod("f", str, host.StringClass, returning("String")).
		StaticMethod("g", []string{host.ObjectClass}, host.StringClass, returning("Object")).
		StaticMethod("g", []string{host.CharSequenceClass}, host.StringClass, returning("CharSequence")).
		StaticMethod("fail", nil, host.VoidType, func(*host.Call) (runtime.Value, error) {
			return nil, errProbeFailed
		}).
		StaticMethod("nothing", nil, host.StringClass, func(*host.Call) (runtime.Value, error) {
			return nil, nil
		})
}

type harness struct {
	reg     *host.Registry
	device  *hostlib.Android
	journal *hostlib.Journal
	probe   *probe
	out     *bytes.Buffer
	screen  *bytes.Buffer
}

func newHarness() (*harness, error) {
	h := &harness{
		journal: hostlib.NewJournal(),
		probe:   &probe{},
		out:     &bytes.Buffer{},
		screen:  &bytes.Buffer{},
	}
	reg, device, err := hostlib.NewRegistry(h.out, h.screen)
	if err != nil {
		return nil, err
	}
	if err := reg.Register(h.probe.class()); err != nil {
		return nil, err
	}
	h.reg = reg
	h.device = device
	return h, nil
}

func (h *harness) appContext() *runtime.ObjectValue {
	return h.device.NewContext("com.example.zapush")
}

func (h *harness) exec(source, typeName, method string, bindings map[string]Binding, opts ...Option) error {
	interp := New(h.reg, append([]Option{WithObserver(h.journal)}, opts...)...)
	_, err := interp.ExecuteSource(context.Background(), []byte(source), typeName, method, bindings)
	return err
}

// runScript executes body as the body of Script.run().
func (h *harness) runScript(body string, bindings map[string]Binding) error {
	return h.exec(script(body), "Script", "run", bindings)
}

// script wraps statements in a class with the usual imports. The first body
// line is line 9.
func script(body string) string {
	return fmt.Sprintf(`package com.example.zapush;

import android.content.Context;
import android.widget.Toast;
import com.example.Probe;

class Script {
    void run() {
%s
    }
}
`, strings.TrimRight(body, "\n"))
}

const blaSource = `package com.example.zapush;

import android.content.Context;
import android.widget.Toast;

public class Bla {
    String mText = "hello member";

    public void fire(Context context) {
        String text = new String("hello");
        Toast.makeText(context, text, Toast.LENGTH_LONG).show();
    }
}
`
