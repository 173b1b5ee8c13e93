package hostlib

import (
	"sync"

	"zapush/interpreter-go/pkg/host"
)

// Journal records every host interaction in order. It is an host.Observer and
// is safe to share between concurrent executions.
type Journal struct {
	mu     sync.Mutex
	events []host.Event
}

func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) Observe(e host.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, e)
}

// Events returns a copy of the recorded events.
func (j *Journal) Events() []host.Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]host.Event, len(j.events))
	copy(out, j.events)
	return out
}

// Calls returns the targets of invocations and constructions, skipping field
// reads.
func (j *Journal) Calls() []string {
	var out []string
	for _, e := range j.Events() {
		if e.Kind == host.EventReadField {
			continue
		}
		out = append(out, e.Target)
	}
	return out
}

func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = nil
}
