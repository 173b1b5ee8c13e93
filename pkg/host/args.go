package host

import (
	"fmt"

	"zapush/interpreter-go/pkg/runtime"
)

// Helpers for thunk authors converting interpreter values to Go values.

func AsString(v runtime.Value) (string, error) {
	switch val := v.(type) {
	case runtime.StringValue:
		return val.Val, nil
	case runtime.NullValue, nil:
		return "", fmt.Errorf("host: expected String, got null")
	default:
		return "", fmt.Errorf("host: expected String, got %s", v.Kind())
	}
}

// AsText accepts any value and renders its textual form; CharSequence
// parameters use it so host objects implementing fmt.Stringer pass through.
func AsText(v runtime.Value) string {
	return runtime.Stringify(v)
}

func AsInt(v runtime.Value) (int64, error) {
	if val, ok := v.(runtime.IntegerValue); ok {
		return val.Val, nil
	}
	if v == nil {
		return 0, fmt.Errorf("host: expected int, got null")
	}
	return 0, fmt.Errorf("host: expected int, got %s", v.Kind())
}

func AsBool(v runtime.Value) (bool, error) {
	if val, ok := v.(runtime.BoolValue); ok {
		return val.Val, nil
	}
	if v == nil {
		return false, fmt.Errorf("host: expected boolean, got null")
	}
	return false, fmt.Errorf("host: expected boolean, got %s", v.Kind())
}

// Ref extracts the Go object behind a host object value.
func Ref[T any](v runtime.Value) (T, error) {
	var zero T
	obj, ok := v.(*runtime.ObjectValue)
	if !ok || obj == nil {
		if v == nil {
			return zero, fmt.Errorf("host: expected object, got null")
		}
		return zero, fmt.Errorf("host: expected object, got %s", v.Kind())
	}
	ref, ok := obj.Ref.(T)
	if !ok {
		return zero, fmt.Errorf("host: object %s holds %T", runtime.Stringify(obj), obj.Ref)
	}
	return ref, nil
}

// Str, Int and Bool build interpreter values from Go values.

func Str(s string) runtime.Value { return runtime.StringValue{Val: s} }

func Int(i int64) runtime.Value { return runtime.IntegerValue{Val: i} }

func Bool(b bool) runtime.Value { return runtime.BoolValue{Val: b} }
