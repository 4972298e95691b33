// Package trace implements the process-global execution trace: the
// ordered log of mutation events emitted by the history engine
// (spec.md §4.5), its JSON export, an optional SQLite mirror, and
// object-indexed query helpers for offline inspection.
package trace

import (
	"encoding/json"
	"sync"

	"github.com/oscript-lang/oscript/internal/object"
)

// Log is a process-global-style ordered event log. It implements
// object.Tracer so the evaluator can hand it directly to every Instance
// it constructs. A single Log allocates the single monotonically
// increasing step counter referenced throughout spec.md §3/§4.
type Log struct {
	mu     sync.Mutex
	step   int
	events []object.Event
	sinks  []Sink
}

// Sink receives each event as it is recorded, in addition to the Log's own
// in-memory slice. Used for the optional SQLite mirror.
type Sink interface {
	Write(object.Event) error
}

// NewLog creates an empty trace log.
func NewLog() *Log {
	return &Log{}
}

// AddSink registers an additional sink that every future event is also
// written to. Errors from a sink are swallowed at the Log layer; callers
// that care should wrap their Sink to surface them elsewhere (e.g. via
// klog) since a bad sink must never abort evaluation of user code.
func (l *Log) AddSink(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, s)
}

// NextStep implements object.Tracer.
func (l *Log) NextStep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.step++
	return l.step
}

// Record implements object.Tracer.
func (l *Log) Record(e object.Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	sinks := l.sinks
	l.mu.Unlock()

	for _, s := range sinks {
		_ = s.Write(e)
	}
}

// Events returns a snapshot of the recorded events, ordered by step.
func (l *Log) Events() []object.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]object.Event, len(l.events))
	copy(out, l.events)
	return out
}

// JSON renders the trace as a bare JSON array of event objects, ordered
// by step (spec.md §6 "Trace format"). No wrapping object and no run
// metadata are added here: any sideband identifiers (run IDs, timestamps)
// belong in a Sink, never in this array.
func (l *Log) JSON() ([]byte, error) {
	events := l.Events()
	if events == nil {
		events = []object.Event{}
	}
	return json.MarshalIndent(events, "", "  ")
}
