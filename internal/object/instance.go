package object

import "sort"

// snapshotField is the reserved marker identifying a snapshot patch
// (spec.md §3 "Patch").
const snapshotField = "__snapshot__"

// Patch is a single reversible mutation record. A field patch names a real
// field; a snapshot patch (Field == snapshotField) carries whole frozen
// field maps in Old/New instead of scalar values (spec.md §3).
type Patch struct {
	Field        string
	Old          Value
	New          Value
	FieldMapOld  map[string]Value
	FieldMapNew  map[string]Value
	Step         int
	Line         int
}

func (p *Patch) isSnapshot() bool { return p.Field == snapshotField }

// Instance is a live O-script object: its class, a stable identity, a live
// field map, and the past/future patch stacks and checkpoint table that
// implement per-instance time travel (spec.md §3 "Instance", §4.4).
type Instance struct {
	Class *Class
	ID    int64

	fields      map[string]Value
	past        []*Patch
	future      []*Patch
	checkpoints map[string]map[string]Value

	tracer Tracer
	// maxPast bounds the past stack, discarding from the bottom once
	// exceeded; zero means unbounded (spec.md §9 "History growth").
	maxPast int
}

func (i *Instance) Type() Type      { return INSTANCE_OBJ }
func (i *Instance) Inspect() string { return Serialize(i) }

// NewInstance allocates a fresh instance. It does not run the constructor
// or emit the `new` event; callers (the evaluator's `new` handling) do
// that once the instance exists so the initializer's own field writes can
// reference `this`.
func NewInstance(class *Class, id int64, tracer Tracer) *Instance {
	return &Instance{
		Class:       class,
		ID:          id,
		fields:      make(map[string]Value),
		checkpoints: make(map[string]map[string]Value),
		tracer:      tracer,
	}
}

// SetMaxHistory sets the bound on past-stack length applied by future
// writes; zero (the default) leaves history unbounded.
func (i *Instance) SetMaxHistory(n int) { i.maxPast = n }

// trimPast discards from the bottom of the past stack once it exceeds
// maxPast (spec.md §9 "History growth"). A no-op when unbounded.
func (i *Instance) trimPast() {
	if i.maxPast <= 0 || len(i.past) <= i.maxPast {
		return
	}
	excess := len(i.past) - i.maxPast
	i.past = i.past[excess:]
}

func (i *Instance) label() string {
	return classInstanceLabel(i.Class.Name, i.ID)
}

func classInstanceLabel(className string, id int64) string {
	return className + "#" + FormatNumber(float64(id))
}

func (i *Instance) serializedFields() map[string]string {
	out := make(map[string]string, len(i.fields))
	for k, v := range i.fields {
		out[k] = Serialize(v)
	}
	return out
}

func copyFieldMap(m map[string]Value) map[string]Value {
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// GetField reads a raw field value, without consulting methods or
// built-ins (used by the evaluator as the first property-lookup tier).
func (i *Instance) GetField(name string) (Value, bool) {
	v, ok := i.fields[name]
	return v, ok
}

// EmitNew emits the `new` trace event (spec.md §3 "Instance" lifecycle).
// The evaluator calls it right after allocation and before the initializer
// runs, so `new` precedes the initializer's own `set` events in the trace.
func (i *Instance) EmitNew() {
	step := i.tracer.NextStep()
	i.tracer.Record(Event{
		Type:        "new",
		Step:        step,
		Line:        nil,
		Object:      i.label(),
		FieldsAfter: i.serializedFields(),
	})
}

// Set runs the write protocol (spec.md §4.4 "Write protocol"): snapshot
// the old value, allocate a step, push a field patch, clear future,
// install the new value, emit a `set` event.
func (i *Instance) Set(field string, value Value, line int) {
	var old Value = UNDEFINED
	if existing, ok := i.fields[field]; ok {
		old = existing
	}

	step := i.tracer.NextStep()
	i.past = append(i.past, &Patch{Field: field, Old: old, New: value, Step: step, Line: line})
	i.future = nil
	i.trimPast()

	i.fields[field] = value

	i.tracer.Record(Event{
		Type:        "set",
		Step:        step,
		Line:        &line,
		Object:      i.label(),
		Field:       field,
		Old:         Serialize(old),
		New:         Serialize(value),
		FieldsAfter: i.serializedFields(),
	})
}

// Undo runs the undo protocol (spec.md §4.4 "Undo protocol"). A no-op on
// an empty past stack produces neither a mutation nor an event.
func (i *Instance) Undo(line int) {
	if len(i.past) == 0 {
		return
	}
	patch := i.past[len(i.past)-1]
	i.past = i.past[:len(i.past)-1]

	var oldSerialized, newSerialized string
	if patch.isSnapshot() {
		i.fields = copyFieldMap(patch.FieldMapOld)
		oldSerialized = "<snapshot>"
		newSerialized = "<snapshot>"
	} else {
		if _, isUndef := patch.Old.(*Undefined); isUndef {
			delete(i.fields, patch.Field)
		} else {
			i.fields[patch.Field] = patch.Old
		}
		oldSerialized = Serialize(patch.New)
		newSerialized = Serialize(patch.Old)
	}

	i.future = append(i.future, patch)

	step := i.tracer.NextStep()
	rewinds := patch.Step
	i.tracer.Record(Event{
		Type:        "undo",
		Step:        step,
		Line:        &line,
		Object:      i.label(),
		Field:       patch.Field,
		Old:         oldSerialized,
		New:         newSerialized,
		RewindsStep: &rewinds,
		FieldsAfter: i.serializedFields(),
	})
}

// Redo runs the redo protocol (spec.md §4.4 "Redo protocol"). Crucially it
// does not clear the future stack.
func (i *Instance) Redo(line int) {
	if len(i.future) == 0 {
		return
	}
	patch := i.future[len(i.future)-1]
	i.future = i.future[:len(i.future)-1]

	var oldSerialized, newSerialized string
	if patch.isSnapshot() {
		i.fields = copyFieldMap(patch.FieldMapNew)
		oldSerialized = "<snapshot>"
		newSerialized = "<snapshot>"
	} else {
		i.fields[patch.Field] = patch.New
		oldSerialized = Serialize(patch.Old)
		newSerialized = Serialize(patch.New)
	}

	i.past = append(i.past, patch)

	step := i.tracer.NextStep()
	reapplies := patch.Step
	i.tracer.Record(Event{
		Type:          "redo",
		Step:          step,
		Line:          &line,
		Object:        i.label(),
		Field:         patch.Field,
		Old:           oldSerialized,
		New:           newSerialized,
		ReappliesStep: &reapplies,
		FieldsAfter:   i.serializedFields(),
	})
}

// Checkpoint freezes the live field map under label, overwriting any prior
// binding for the same label. It does not touch past/future (spec.md
// §4.4 "Checkpoint").
func (i *Instance) Checkpoint(label string, line int) {
	i.checkpoints[label] = copyFieldMap(i.fields)

	step := i.tracer.NextStep()
	i.tracer.Record(Event{
		Type:        "checkpoint",
		Step:        step,
		Line:        &line,
		Object:      i.label(),
		Name:        label,
		FieldsAfter: i.serializedFields(),
	})
}

// Rollback restores the live field map to the named checkpoint as one
// atomic snapshot patch (spec.md §4.4 "Rollback"). Fails if no such
// checkpoint exists.
func (i *Instance) Rollback(label string, line int) *Error {
	snapshot, ok := i.checkpoints[label]
	if !ok {
		return NewError(line, "No checkpoint named '%s'", label)
	}

	oldSnapshot := copyFieldMap(i.fields)
	newSnapshot := copyFieldMap(snapshot)

	step := i.tracer.NextStep()
	i.past = append(i.past, &Patch{
		Field:       snapshotField,
		FieldMapOld: oldSnapshot,
		FieldMapNew: newSnapshot,
		Step:        step,
		Line:        line,
	})
	i.future = nil
	i.trimPast()
	i.fields = newSnapshot

	i.tracer.Record(Event{
		Type:        "rollback",
		Step:        step,
		Line:        &line,
		Object:      i.label(),
		Name:        label,
		FieldsAfter: i.serializedFields(),
	})
	return nil
}

// History returns the past stack bottom-to-top as a list value, each
// entry a dict of step/line/field/old/new, pre-serialized (spec.md §4.4
// "history()"). Snapshot patches are included per the spec's open
// question decision (see DESIGN.md).
func (i *Instance) History() *List {
	elements := make([]Value, len(i.past))
	for idx, p := range i.past {
		var field, old, new string
		if p.isSnapshot() {
			field, old, new = snapshotField, "<snapshot>", "<snapshot>"
		} else {
			field = p.Field
			old = Serialize(p.Old)
			new = Serialize(p.New)
		}
		elements[idx] = &Dict{Pairs: map[string]Value{
			"step":  &Number{Value: float64(p.Step)},
			"line":  &Number{Value: float64(p.Line)},
			"field": &String{Value: field},
			"old":   &String{Value: old},
			"new":   &String{Value: new},
		}}
	}
	return &List{Elements: elements}
}

// CheckpointNames returns the known checkpoint labels as a list, iteration
// order unspecified by the spec; sorted here for deterministic output.
func (i *Instance) CheckpointNames() *List {
	names := make([]string, 0, len(i.checkpoints))
	for name := range i.checkpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	elements := make([]Value, len(names))
	for idx, n := range names {
		elements[idx] = &String{Value: n}
	}
	return &List{Elements: elements}
}
