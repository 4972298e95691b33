package trace

import (
	"sort"

	"github.com/oscript-lang/oscript/internal/object"
)

// Index is a read-only, per-object view over a trace, built once and then
// queried by step. It is the shared library a trace inspector consumes;
// the inspector's UI itself is out of scope (spec.md §1), but this index
// is "a pure consumer of the serialized trace format" and lives in scope.
// Grounded on the reference debugger's build_index/last_event_leq.
type Index struct {
	byObject map[string][]object.Event
	minStep  int
	maxStep  int
}

// BuildIndex groups events by object label, each group sorted by step, and
// records the overall step range.
func BuildIndex(events []object.Event) *Index {
	idx := &Index{byObject: make(map[string][]object.Event)}
	first := true
	for _, e := range events {
		if first || e.Step < idx.minStep {
			idx.minStep = e.Step
		}
		if first || e.Step > idx.maxStep {
			idx.maxStep = e.Step
		}
		first = false
		if e.Object != "" {
			idx.byObject[e.Object] = append(idx.byObject[e.Object], e)
		}
	}
	for obj, evts := range idx.byObject {
		sorted := make([]object.Event, len(evts))
		copy(sorted, evts)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Step < sorted[j].Step })
		idx.byObject[obj] = sorted
	}
	return idx
}

// Objects returns the labels of every object that appears in the trace.
func (idx *Index) Objects() []string {
	out := make([]string, 0, len(idx.byObject))
	for obj := range idx.byObject {
		out = append(out, obj)
	}
	sort.Strings(out)
	return out
}

// StepRange reports the minimum and maximum step seen.
func (idx *Index) StepRange() (min, max int) { return idx.minStep, idx.maxStep }

// LastEventLEQ returns the rightmost event for objectLabel whose step is
// <= step, or nil if objectLabel has no such event (rightmost binary
// search, mirroring last_event_leq from the reference debugger).
func (idx *Index) LastEventLEQ(objectLabel string, step int) *object.Event {
	events := idx.byObject[objectLabel]
	lo, hi := 0, len(events)-1
	var ans *object.Event
	for lo <= hi {
		mid := (lo + hi) / 2
		if events[mid].Step <= step {
			e := events[mid]
			ans = &e
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return ans
}
