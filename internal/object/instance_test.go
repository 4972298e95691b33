package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeTracer is a minimal Tracer for unit-testing the history engine in
// isolation from the trace package.
type fakeTracer struct {
	step   int
	events []Event
}

func (t *fakeTracer) NextStep() int {
	t.step++
	return t.step
}

func (t *fakeTracer) Record(e Event) { t.events = append(t.events, e) }

func newTestInstance() (*Instance, *fakeTracer) {
	tr := &fakeTracer{}
	class := &Class{Name: "C", Methods: map[string]*Function{}}
	inst := NewInstance(class, 1, tr)
	return inst, tr
}

func TestUndoThenRedoRestoresOriginalMap(t *testing.T) {
	inst, _ := newTestInstance()
	inst.Set("x", &Number{Value: 1}, 1)
	inst.Set("x", &Number{Value: 2}, 2)
	inst.Set("y", &String{Value: "a"}, 3)

	inst.Undo(4)
	inst.Undo(4)
	inst.Undo(4)
	require.Empty(t, inst.fields)

	inst.Redo(5)
	inst.Redo(5)
	inst.Redo(5)

	xv, ok := inst.GetField("x")
	require.True(t, ok)
	require.Equal(t, 2.0, xv.(*Number).Value)
	yv, ok := inst.GetField("y")
	require.True(t, ok)
	require.Equal(t, "a", yv.(*String).Value)
}

func TestUndoRemovesFieldThatDidNotExistBefore(t *testing.T) {
	inst, _ := newTestInstance()
	inst.Set("x", &Number{Value: 1}, 1)
	inst.Undo(2)
	_, ok := inst.GetField("x")
	require.False(t, ok)
}

func TestSetClearsFutureStack(t *testing.T) {
	inst, _ := newTestInstance()
	inst.Set("x", &Number{Value: 1}, 1)
	inst.Undo(2)
	require.Len(t, inst.future, 1)
	inst.Set("x", &Number{Value: 5}, 3)
	require.Empty(t, inst.future)
}

func TestCheckpointRollbackRestoresExactState(t *testing.T) {
	inst, _ := newTestInstance()
	inst.Set("a", &Number{Value: 1}, 1)
	inst.Checkpoint("s", 2)
	inst.Set("a", &Number{Value: 2}, 3)
	inst.Set("b", &Number{Value: 9}, 4)

	err := inst.Rollback("s", 5)
	require.Nil(t, err)

	av, _ := inst.GetField("a")
	require.Equal(t, 1.0, av.(*Number).Value)
	_, ok := inst.GetField("b")
	require.False(t, ok)
}

func TestRollbackInvertibleByUndoAndRedo(t *testing.T) {
	inst, _ := newTestInstance()
	inst.Set("a", &Number{Value: 1}, 1)
	inst.Checkpoint("s", 2)
	inst.Set("a", &Number{Value: 2}, 3)
	inst.Set("b", &Number{Value: 9}, 4)
	require.Nil(t, inst.Rollback("s", 5))

	inst.Undo(6)
	av, _ := inst.GetField("a")
	require.Equal(t, 2.0, av.(*Number).Value)
	bv, _ := inst.GetField("b")
	require.Equal(t, 9.0, bv.(*Number).Value)

	inst.Redo(7)
	av, _ = inst.GetField("a")
	require.Equal(t, 1.0, av.(*Number).Value)
	_, ok := inst.GetField("b")
	require.False(t, ok)
}

func TestRollbackUnknownCheckpointFails(t *testing.T) {
	inst, _ := newTestInstance()
	err := inst.Rollback("nope", 1)
	require.NotNil(t, err)
	require.Contains(t, err.Message, "nope")
}

func TestStepsStrictlyIncreasing(t *testing.T) {
	inst, tr := newTestInstance()
	inst.Set("a", &Number{Value: 1}, 1)
	inst.Set("a", &Number{Value: 2}, 2)
	inst.Undo(3)
	inst.Redo(4)
	last := 0
	for _, e := range tr.events {
		require.Greater(t, e.Step, last)
		last = e.Step
	}
}

func TestRedoDoesNotClearFuture(t *testing.T) {
	inst, _ := newTestInstance()
	inst.Set("a", &Number{Value: 1}, 1)
	inst.Set("a", &Number{Value: 2}, 2)
	inst.Undo(3)
	inst.Undo(3)
	require.Len(t, inst.future, 2)
	inst.Redo(4)
	require.Len(t, inst.future, 1)
}
