package hostlib

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/runtime"
)

const (
	StringBuilderClass = "java.lang.StringBuilder"
	IntegerClass       = "java.lang.Integer"
	BooleanClass       = "java.lang.Boolean"
	MathClass          = "java.lang.Math"
	SystemClass        = "java.lang.System"
	PrintStreamClass   = "java.io.PrintStream"
)

var (
	none    = []string{}
	str     = []string{host.StringClass}
	integer = []string{host.IntType}
	boolean = []string{host.BooleanType}
	object  = []string{host.ObjectClass}
)

// StringBuilder backs java.lang.StringBuilder instances.
type StringBuilder struct {
	buf strings.Builder
}

func (b *StringBuilder) String() string { return b.buf.String() }

// PrintStream backs java.io.PrintStream; System.out writes to the stream
// given to RegisterLang.
type PrintStream struct {
	w io.Writer
}

func (p *PrintStream) String() string { return PrintStreamClass }

func (p *PrintStream) print(text string, newline bool) error {
	if newline {
		text += "\n"
	}
	_, err := io.WriteString(p.w, text)
	return err
}

// RegisterLang installs the java.lang subset. System.out prints to out.
func RegisterLang(reg *host.Registry, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	printStream := newPrintStreamClass()
	stdout := runtime.NewObject(printStream, &PrintStream{w: out})

	return reg.Register(
		newObjectClass(),
		host.NewInterface(host.CharSequenceClass).
			Method("length", none, host.IntType, func(call *host.Call) (runtime.Value, error) {
				return host.Int(int64(len([]rune(host.AsText(call.Receiver))))), nil
			}).
			Method("toString", none, host.StringClass, func(call *host.Call) (runtime.Value, error) {
				return host.Str(host.AsText(call.Receiver)), nil
			}),
		newStringClass(),
		newStringBuilderClass(),
		host.NewClass(IntegerClass).
			StaticField("MAX_VALUE", host.IntType, host.Int(2147483647)).
			StaticField("MIN_VALUE", host.IntType, host.Int(-2147483648)).
			StaticMethod("parseInt", str, host.IntType, func(call *host.Call) (runtime.Value, error) {
				s, err := host.AsString(call.Arg(0))
				if err != nil {
					return nil, err
				}
				n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
				if err != nil {
					return nil, fmt.Errorf("NumberFormatException: For input string: %q", s)
				}
				return host.Int(n), nil
			}).
			StaticMethod("toString", integer, host.StringClass, func(call *host.Call) (runtime.Value, error) {
				return host.Str(host.AsText(call.Arg(0))), nil
			}),
		host.NewClass(BooleanClass).
			StaticMethod("parseBoolean", str, host.BooleanType, func(call *host.Call) (runtime.Value, error) {
				s, _ := host.AsString(call.Arg(0))
				return host.Bool(strings.EqualFold(s, "true")), nil
			}).
			StaticMethod("toString", boolean, host.StringClass, func(call *host.Call) (runtime.Value, error) {
				return host.Str(host.AsText(call.Arg(0))), nil
			}),
		newMathClass(),
		printStream,
		host.NewClass(SystemClass).
			StaticGetter("out", PrintStreamClass, func(*host.Call) (runtime.Value, error) {
				return stdout, nil
			}).
			StaticMethod("lineSeparator", none, host.StringClass, func(*host.Call) (runtime.Value, error) {
				return host.Str("\n"), nil
			}),
	)
}

func newObjectClass() *host.Class {
	return host.NewClass(host.ObjectClass).
		Constructor(none, func(call *host.Call) (runtime.Value, error) {
			return runtime.NewObject(call.Class, nil), nil
		}).
		Method("toString", none, host.StringClass, func(call *host.Call) (runtime.Value, error) {
			return host.Str(runtime.Stringify(call.Receiver)), nil
		}).
		Method("equals", object, host.BooleanType, func(call *host.Call) (runtime.Value, error) {
			return host.Bool(runtime.Identical(call.Receiver, call.Arg(0))), nil
		}).
		Method("hashCode", none, host.IntType, func(call *host.Call) (runtime.Value, error) {
			return host.Int(int64(hashString(runtime.Stringify(call.Receiver)))), nil
		})
}

func newStringClass() *host.Class {
	text := func(call *host.Call) string { return host.AsText(call.Receiver) }
	transform := func(fn func(string) string) host.Func {
		return func(call *host.Call) (runtime.Value, error) {
			return host.Str(fn(text(call))), nil
		}
	}
	return host.NewClass(host.StringClass).
		Implements(host.CharSequenceClass).
		Constructor(none, func(*host.Call) (runtime.Value, error) {
			return host.Str(""), nil
		}).
		Constructor(str, func(call *host.Call) (runtime.Value, error) {
			s, err := host.AsString(call.Arg(0))
			if err != nil {
				return nil, err
			}
			return host.Str(s), nil
		}).
		Method("length", none, host.IntType, func(call *host.Call) (runtime.Value, error) {
			return host.Int(int64(len([]rune(text(call))))), nil
		}).
		Method("isEmpty", none, host.BooleanType, func(call *host.Call) (runtime.Value, error) {
			return host.Bool(text(call) == ""), nil
		}).
		Method("toString", none, host.StringClass, transform(func(s string) string { return s })).
		Method("toUpperCase", none, host.StringClass, transform(strings.ToUpper)).
		Method("toLowerCase", none, host.StringClass, transform(strings.ToLower)).
		Method("trim", none, host.StringClass, transform(strings.TrimSpace)).
		Method("concat", str, host.StringClass, func(call *host.Call) (runtime.Value, error) {
			other, err := host.AsString(call.Arg(0))
			if err != nil {
				return nil, err
			}
			return host.Str(text(call) + other), nil
		}).
		Method("contains", []string{host.CharSequenceClass}, host.BooleanType, func(call *host.Call) (runtime.Value, error) {
			return host.Bool(strings.Contains(text(call), host.AsText(call.Arg(0)))), nil
		}).
		Method("startsWith", str, host.BooleanType, func(call *host.Call) (runtime.Value, error) {
			prefix, err := host.AsString(call.Arg(0))
			if err != nil {
				return nil, err
			}
			return host.Bool(strings.HasPrefix(text(call), prefix)), nil
		}).
		Method("equals", object, host.BooleanType, func(call *host.Call) (runtime.Value, error) {
			other, ok := call.Arg(0).(runtime.StringValue)
			return host.Bool(ok && other.Val == text(call)), nil
		}).
		Method("substring", integer, host.StringClass, func(call *host.Call) (runtime.Value, error) {
			return substring(text(call), call.Arg(0), nil)
		}).
		Method("substring", []string{host.IntType, host.IntType}, host.StringClass, func(call *host.Call) (runtime.Value, error) {
			return substring(text(call), call.Arg(0), call.Arg(1))
		}).
		StaticMethod("valueOf", integer, host.StringClass, func(call *host.Call) (runtime.Value, error) {
			return host.Str(host.AsText(call.Arg(0))), nil
		}).
		StaticMethod("valueOf", boolean, host.StringClass, func(call *host.Call) (runtime.Value, error) {
			return host.Str(host.AsText(call.Arg(0))), nil
		}).
		StaticMethod("valueOf", object, host.StringClass, func(call *host.Call) (runtime.Value, error) {
			return host.Str(host.AsText(call.Arg(0))), nil
		})
}

func substring(s string, from, to runtime.Value) (runtime.Value, error) {
	runes := []rune(s)
	begin, err := host.AsInt(from)
	if err != nil {
		return nil, err
	}
	end := int64(len(runes))
	if to != nil {
		if end, err = host.AsInt(to); err != nil {
			return nil, err
		}
	}
	if begin < 0 || end > int64(len(runes)) || begin > end {
		return nil, fmt.Errorf("StringIndexOutOfBoundsException: begin %d, end %d, length %d", begin, end, len(runes))
	}
	return host.Str(string(runes[begin:end])), nil
}

func newStringBuilderClass() *host.Class {
	appendText := func(call *host.Call) (runtime.Value, error) {
		sb, err := host.Ref[*StringBuilder](call.Receiver)
		if err != nil {
			return nil, err
		}
		sb.buf.WriteString(host.AsText(call.Arg(0)))
		return call.Receiver, nil
	}
	return host.NewClass(StringBuilderClass).
		Implements(host.CharSequenceClass).
		Constructor(none, func(call *host.Call) (runtime.Value, error) {
			return runtime.NewObject(call.Class, &StringBuilder{}), nil
		}).
		Constructor(str, func(call *host.Call) (runtime.Value, error) {
			s, err := host.AsString(call.Arg(0))
			if err != nil {
				return nil, err
			}
			sb := &StringBuilder{}
			sb.buf.WriteString(s)
			return runtime.NewObject(call.Class, sb), nil
		}).
		Method("append", str, StringBuilderClass, appendText).
		Method("append", integer, StringBuilderClass, appendText).
		Method("append", boolean, StringBuilderClass, appendText).
		Method("length", none, host.IntType, func(call *host.Call) (runtime.Value, error) {
			sb, err := host.Ref[*StringBuilder](call.Receiver)
			if err != nil {
				return nil, err
			}
			return host.Int(int64(len([]rune(sb.String())))), nil
		}).
		Method("toString", none, host.StringClass, func(call *host.Call) (runtime.Value, error) {
			sb, err := host.Ref[*StringBuilder](call.Receiver)
			if err != nil {
				return nil, err
			}
			return host.Str(sb.String()), nil
		})
}

func newMathClass() *host.Class {
	binary := func(fn func(a, b int64) int64) host.Func {
		return func(call *host.Call) (runtime.Value, error) {
			a, err := host.AsInt(call.Arg(0))
			if err != nil {
				return nil, err
			}
			b, err := host.AsInt(call.Arg(1))
			if err != nil {
				return nil, err
			}
			return host.Int(fn(a, b)), nil
		}
	}
	pair := []string{host.IntType, host.IntType}
	return host.NewClass(MathClass).
		StaticMethod("abs", integer, host.IntType, func(call *host.Call) (runtime.Value, error) {
			n, err := host.AsInt(call.Arg(0))
			if err != nil {
				return nil, err
			}
			if n < 0 {
				n = -n
			}
			return host.Int(n), nil
		}).
		StaticMethod("max", pair, host.IntType, binary(func(a, b int64) int64 { return max(a, b) })).
		StaticMethod("min", pair, host.IntType, binary(func(a, b int64) int64 { return min(a, b) }))
}

func newPrintStreamClass() *host.Class {
	printLine := func(call *host.Call) (runtime.Value, error) {
		ps, err := host.Ref[*PrintStream](call.Receiver)
		if err != nil {
			return nil, err
		}
		text := ""
		if len(call.Args) > 0 {
			text = host.AsText(call.Arg(0))
		}
		return nil, ps.print(text, true)
	}
	printText := func(call *host.Call) (runtime.Value, error) {
		ps, err := host.Ref[*PrintStream](call.Receiver)
		if err != nil {
			return nil, err
		}
		return nil, ps.print(host.AsText(call.Arg(0)), false)
	}
	// Strings and host objects share the Object overloads; separate String
	// overloads would make every string argument match twice.
	return host.NewClass(PrintStreamClass).
		Method("println", none, host.VoidType, printLine).
		Method("println", object, host.VoidType, printLine).
		Method("println", integer, host.VoidType, printLine).
		Method("println", boolean, host.VoidType, printLine).
		Method("print", object, host.VoidType, printText).
		Method("print", integer, host.VoidType, printText).
		Method("print", boolean, host.VoidType, printText)
}

func hashString(s string) int32 {
	var h int32
	for _, r := range s {
		h = 31*h + int32(r)
	}
	return h
}
