package hostlib

import (
	"fmt"
	"io"
	"sync"

	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/runtime"
)

const (
	ContextClass        = "android.content.Context"
	ContextWrapperClass = "android.content.ContextWrapper"
	ApplicationClass    = "android.app.Application"
	ToastClass          = "android.widget.Toast"
	LogClass            = "android.util.Log"

	LengthShort = 0
	LengthLong  = 1
)

// Android is the emulated device surface: toasts and log lines are rendered
// to Screen, and string resources are served from an in-memory table.
type Android struct {
	Screen io.Writer

	mu        sync.Mutex
	resources map[int64]string
	app       *host.Class
}

// Context backs android.content.Context instances handed to scripts.
type Context struct {
	PackageName string
	device      *Android
}

func (c *Context) String() string { return "Context(" + c.PackageName + ")" }

// Toast backs android.widget.Toast.
type Toast struct {
	Context  *Context
	Text     string
	Duration int64
	Shown    int
}

func (t *Toast) String() string { return "Toast(" + t.Text + ")" }

// RegisterAndroid installs Context, Toast and Log. It expects RegisterLang to
// have been called on the same registry for the java.lang types it refers to.
func RegisterAndroid(reg *host.Registry, screen io.Writer) (*Android, error) {
	if screen == nil {
		screen = io.Discard
	}
	device := &Android{Screen: screen, resources: map[int64]string{}}
	device.app = host.NewClass(ApplicationClass).Extends(ContextWrapperClass)

	err := reg.Register(
		host.NewClass(ContextClass).
			Method("getPackageName", none, host.StringClass, func(call *host.Call) (runtime.Value, error) {
				ctx, err := host.Ref[*Context](call.Receiver)
				if err != nil {
					return nil, err
				}
				return host.Str(ctx.PackageName), nil
			}).
			Method("getString", integer, host.StringClass, func(call *host.Call) (runtime.Value, error) {
				id, err := host.AsInt(call.Arg(0))
				if err != nil {
					return nil, err
				}
				text, err := device.Resource(id)
				if err != nil {
					return nil, err
				}
				return host.Str(text), nil
			}),
		host.NewClass(ContextWrapperClass).Extends(ContextClass),
		device.app,
		device.toastClass(),
		device.logClass(),
	)
	if err != nil {
		return nil, err
	}
	return device, nil
}

// NewContext builds the application context passed to scripts as a binding.
func (a *Android) NewContext(packageName string) *runtime.ObjectValue {
	return runtime.NewObject(a.app, &Context{PackageName: packageName, device: a})
}

// DefineString adds a string resource reachable by id.
func (a *Android) DefineString(id int64, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resources[id] = text
}

func (a *Android) Resource(id int64) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	text, ok := a.resources[id]
	if !ok {
		return "", fmt.Errorf("Resources$NotFoundException: String resource ID #0x%x", id)
	}
	return text, nil
}

func (a *Android) render(format string, args ...any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := fmt.Fprintf(a.Screen, format, args...)
	return err
}

func (a *Android) toastClass() *host.Class {
	makeToast := func(call *host.Call, text string) (runtime.Value, error) {
		ctx, err := host.Ref[*Context](call.Arg(0))
		if err != nil {
			return nil, err
		}
		duration, err := host.AsInt(call.Arg(2))
		if err != nil {
			return nil, err
		}
		return runtime.NewObject(call.Class, &Toast{Context: ctx, Text: text, Duration: duration}), nil
	}
	receiver := func(call *host.Call) (*Toast, error) {
		return host.Ref[*Toast](call.Receiver)
	}
	return host.NewClass(ToastClass).
		StaticField("LENGTH_SHORT", host.IntType, host.Int(LengthShort)).
		StaticField("LENGTH_LONG", host.IntType, host.Int(LengthLong)).
		StaticMethod("makeText", []string{ContextClass, host.CharSequenceClass, host.IntType}, ToastClass, func(call *host.Call) (runtime.Value, error) {
			return makeToast(call, host.AsText(call.Arg(1)))
		}).
		StaticMethod("makeText", []string{ContextClass, host.IntType, host.IntType}, ToastClass, func(call *host.Call) (runtime.Value, error) {
			id, err := host.AsInt(call.Arg(1))
			if err != nil {
				return nil, err
			}
			text, err := a.Resource(id)
			if err != nil {
				return nil, err
			}
			return makeToast(call, text)
		}).
		Method("show", none, host.VoidType, func(call *host.Call) (runtime.Value, error) {
			toast, err := receiver(call)
			if err != nil {
				return nil, err
			}
			toast.Shown++
			length := "SHORT"
			if toast.Duration == LengthLong {
				length = "LONG"
			}
			return nil, a.render("[toast %s] %s\n", length, toast.Text)
		}).
		Method("setText", []string{host.CharSequenceClass}, host.VoidType, func(call *host.Call) (runtime.Value, error) {
			toast, err := receiver(call)
			if err != nil {
				return nil, err
			}
			toast.Text = host.AsText(call.Arg(0))
			return nil, nil
		}).
		Method("setDuration", integer, host.VoidType, func(call *host.Call) (runtime.Value, error) {
			toast, err := receiver(call)
			if err != nil {
				return nil, err
			}
			toast.Duration, err = host.AsInt(call.Arg(0))
			return nil, err
		}).
		Method("getDuration", none, host.IntType, func(call *host.Call) (runtime.Value, error) {
			toast, err := receiver(call)
			if err != nil {
				return nil, err
			}
			return host.Int(toast.Duration), nil
		}).
		Method("cancel", none, host.VoidType, func(call *host.Call) (runtime.Value, error) {
			_, err := receiver(call)
			return nil, err
		})
}

func (a *Android) logClass() *host.Class {
	class := host.NewClass(LogClass)
	for _, level := range []string{"v", "d", "i", "w", "e"} {
		prefix := string(level[0] - 'a' + 'A')
		class.StaticMethod(level, []string{host.StringClass, host.StringClass}, host.IntType, func(call *host.Call) (runtime.Value, error) {
			tag, err := host.AsString(call.Arg(0))
			if err != nil {
				return nil, err
			}
			msg := host.AsText(call.Arg(1))
			line := fmt.Sprintf("%s/%s: %s\n", prefix, tag, msg)
			if err := a.render("%s", line); err != nil {
				return nil, err
			}
			return host.Int(int64(len(line))), nil
		})
	}
	return class
}
