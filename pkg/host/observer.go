package host

import (
	"fmt"
	"strings"

	"zapush/interpreter-go/pkg/runtime"
)

type EventKind string

const (
	EventInvoke    EventKind = "invoke"
	EventConstruct EventKind = "construct"
	EventReadField EventKind = "field"
)

// Event describes one interaction with the host surface.
type Event struct {
	Kind   EventKind
	Target string
	Static bool
	Args   []runtime.Value
}

func (e Event) String() string {
	parts := make([]string, len(e.Args))
	for idx, arg := range e.Args {
		parts[idx] = runtime.Describe(arg)
	}
	return fmt.Sprintf("%s %s [%s]", e.Kind, e.Target, strings.Join(parts, ", "))
}

// Observer is notified before each host interaction is performed.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }
