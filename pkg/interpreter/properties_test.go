package interpreter

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"zapush/interpreter-go/pkg/runtime"
)

func TestLoopVisitsEveryIndex(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		h, err := newHarness()
		if err != nil {
			t.Fatal(err)
		}
		err = h.runScript(`        for (int i = 0; i < limit; i++) { Probe.record(i); }`,
			map[string]Binding{"limit": Bind(runtime.IntegerValue{Val: int64(n)})})
		if err != nil {
			t.Fatal(err)
		}
		if len(h.probe.ints) != n {
			t.Fatalf("recorded %d values, want %d", len(h.probe.ints), n)
		}
		for i, v := range h.probe.ints {
			if v != int64(i) {
				t.Fatalf("ints[%d] = %d", i, v)
			}
		}
	})
}

func TestConcatenationMatchesStringConversion(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[a-z ]{0,12}`).Draw(t, "s")
		k := rapid.Int64Range(-1000000, 1000000).Draw(t, "k")
		h, err := newHarness()
		if err != nil {
			t.Fatal(err)
		}
		err = h.runScript(`        Probe.note(s + k);`, map[string]Binding{
			"s": Bind(runtime.StringValue{Val: s}),
			"k": Bind(runtime.IntegerValue{Val: k}),
		})
		if err != nil {
			t.Fatal(err)
		}
		if want := s + strconv.FormatInt(k, 10); len(h.probe.notes) != 1 || h.probe.notes[0] != want {
			t.Fatalf("notes = %q, want %q", h.probe.notes, want)
		}
	})
}

func TestArithmeticMatchesGo(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(-10000, 10000).Draw(t, "a")
		b := rapid.Int64Range(-100, 100).Filter(func(v int64) bool { return v != 0 }).Draw(t, "b")
		h, err := newHarness()
		if err != nil {
			t.Fatal(err)
		}
		body := `        Probe.record(a + b); Probe.record(a - b); Probe.record(a * b); Probe.record(a / b); Probe.record(a % b);`
		err = h.runScript(body, map[string]Binding{
			"a": Bind(runtime.IntegerValue{Val: a}),
			"b": Bind(runtime.IntegerValue{Val: b}),
		})
		if err != nil {
			t.Fatal(err)
		}
		want := []int64{a + b, a - b, a * b, a / b, a % b}
		if fmt.Sprint(h.probe.ints) != fmt.Sprint(want) {
			t.Fatalf("ints = %v, want %v", h.probe.ints, want)
		}
	})
}

func TestExecutionIsDeterministic(t *testing.T) {
	run := func() ([]string, []int64) {
		h, err := newHarness()
		require.NoError(t, err)
		err = h.runScript(`
        for (int i = 0; i < 3; i++) {
            Probe.record(i * 2);
            Toast.makeText(context, "n=" + i, Toast.LENGTH_SHORT).show();
        }
`, map[string]Binding{
			"context": Bind(h.appContext()),
			"a":       Bind(runtime.IntegerValue{Val: 1}),
			"b":       Bind(runtime.StringValue{Val: "x"}),
		})
		require.NoError(t, err)
		var events []string
		for _, e := range h.journal.Events() {
			events = append(events, e.String())
		}
		return events, h.probe.ints
	}
	firstEvents, firstInts := run()
	for i := 0; i < 5; i++ {
		events, ints := run()
		require.Equal(t, firstEvents, events)
		require.Equal(t, firstInts, ints)
	}
	require.Len(t, firstEvents, 12)
}
