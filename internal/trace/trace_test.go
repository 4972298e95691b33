package trace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oscript-lang/oscript/internal/object"
)

func TestLogStepsStrictlyIncreasing(t *testing.T) {
	log := NewLog()
	a := log.NextStep()
	b := log.NextStep()
	c := log.NextStep()
	require.Less(t, a, b)
	require.Less(t, b, c)
}

func TestLogJSONIsBareArray(t *testing.T) {
	log := NewLog()
	step := log.NextStep()
	log.Record(object.Event{Type: "new", Step: step, Object: "C#1", FieldsAfter: map[string]string{}})

	data, err := log.JSON()
	require.NoError(t, err)

	var raw interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	arr, ok := raw.([]interface{})
	require.True(t, ok, "trace JSON must be a bare array, got %T", raw)
	require.Len(t, arr, 1)
}

func TestLogJSONEmptyIsEmptyArray(t *testing.T) {
	log := NewLog()
	data, err := log.JSON()
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(data))
}
