package trace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oscript-lang/oscript/internal/object"
)

func TestBuildIndexAndLastEventLEQ(t *testing.T) {
	events := []object.Event{
		{Type: "new", Step: 1, Object: "C#1"},
		{Type: "set", Step: 2, Object: "C#1", Field: "x", Old: "<undefined>", New: "0"},
		{Type: "set", Step: 3, Object: "C#1", Field: "x", Old: "0", New: "1"},
		{Type: "new", Step: 4, Object: "C#2"},
	}
	idx := BuildIndex(events)

	require.Equal(t, []string{"C#1", "C#2"}, idx.Objects())
	min, max := idx.StepRange()
	require.Equal(t, 1, min)
	require.Equal(t, 4, max)

	e := idx.LastEventLEQ("C#1", 2)
	require.NotNil(t, e)
	require.Equal(t, 2, e.Step)

	e = idx.LastEventLEQ("C#1", 0)
	require.Nil(t, e)

	e = idx.LastEventLEQ("C#1", 100)
	require.NotNil(t, e)
	require.Equal(t, 3, e.Step)
}
