package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oscript-lang/oscript/internal/lexer"
	"github.com/oscript-lang/oscript/internal/object"
	"github.com/oscript-lang/oscript/internal/parser"
	"github.com/oscript-lang/oscript/internal/trace"
)

func runSource(t *testing.T, src string) (string, *trace.Log, *object.Error) {
	t.Helper()
	tokens, err := lexer.ScanTokens(src)
	require.NoError(t, err)
	prog, err := parser.Parse(tokens)
	require.NoError(t, err)

	log := trace.NewLog()
	ev := New(log)
	var out bytes.Buffer
	ev.Out = &out

	runErr := ev.Run(prog)
	return out.String(), log, runErr
}

// Scenario A (spec.md §8): undo restores the prior value, five trace
// events are emitted.
func TestScenarioA_UndoRestoresPriorValue(t *testing.T) {
	out, log, err := runSource(t, `
	class C { fun init(v) { this.x = v; } }
	var c = new C(0);
	c.x = 1;
	c.x = 2;
	c.undo();
	print c.x;
	`)
	require.Nil(t, err)
	require.Equal(t, "1\n", out)

	events := log.Events()
	require.Len(t, events, 5)
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	require.Equal(t, []string{"new", "set", "set", "set", "undo"}, types)
}

// Scenario B: Scenario A's prefix (including its undo), then two more
// undos and one redo; the redo reapplies the initializer's write of 0.
func TestScenarioB_DoubleUndoSingleRedo(t *testing.T) {
	out, _, err := runSource(t, `
	class C { fun init(v) { this.x = v; } }
	var c = new C(0);
	c.x = 1;
	c.x = 2;
	c.undo();
	c.undo();
	c.undo();
	c.redo();
	print c.x;
	`)
	require.Nil(t, err)
	require.Equal(t, "0\n", out)
}

// Scenario C: checkpoint/rollback removes a field added after checkpoint.
func TestScenarioC_CheckpointRollback(t *testing.T) {
	out, _, err := runSource(t, `
	class P { fun init() {} }
	var p = new P();
	p.a = 1;
	p.checkpoint("s");
	p.a = 2;
	p.b = 9;
	p.rollback("s");
	print p.a;
	print p.b;
	`)
	require.Nil(t, err)
	require.Equal(t, "1\nnil\n", out)
}

// Scenario D: undo after an increment restores the pre-increment value.
func TestScenarioD_CounterIncrementUndo(t *testing.T) {
	out, _, err := runSource(t, `
	class Counter {
		fun init(v) { this.value = v; }
		fun inc() { this.value = this.value + 1; }
	}
	var c = new Counter(0);
	c.inc();
	c.undo();
	print c.value;
	`)
	require.Nil(t, err)
	require.Equal(t, "0\n", out)
}

// Scenario E: division by zero is a runtime error.
func TestScenarioE_DivisionByZero(t *testing.T) {
	_, _, err := runSource(t, `print 1/0;`)
	require.NotNil(t, err)
	require.True(t, strings.Contains(err.Message, "zero") || strings.Contains(err.Message, "Division"))
}

// Scenario F: rollback of an unknown checkpoint is a runtime error, but
// the preceding `new` event remains in the trace.
func TestScenarioF_RollbackUnknownCheckpoint(t *testing.T) {
	_, log, err := runSource(t, `
	class C { fun init(v) { this.x = v; } }
	var c = new C(0);
	c.rollback("nope");
	`)
	require.NotNil(t, err)
	require.Contains(t, err.Message, "nope")

	events := log.Events()
	require.NotEmpty(t, events)
	require.Equal(t, "new", events[0].Type)
}

func TestLogicalShortCircuitReturnsOperand(t *testing.T) {
	out, _, err := runSource(t, `print nil or "fallback"; print false and "skipped";`)
	require.Nil(t, err)
	require.Equal(t, "fallback\nfalse\n", out)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, _, err := runSource(t, `print x;`)
	require.NotNil(t, err)
	require.Contains(t, err.Message, "Undefined variable")
}

func TestBuiltinGlobals(t *testing.T) {
	out, _, err := runSource(t, `
	print type(1);
	print type("s");
	print type(nil);
	print len("hello");
	print str(3);
	assert(1 == 1, "unreachable");
	`)
	require.Nil(t, err)
	require.Equal(t, "number\nstring\nnil\n5\n3\n", out)
}
