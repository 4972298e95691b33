package evaluator

import (
	"bufio"
	"fmt"

	"github.com/oscript-lang/oscript/internal/object"
)

// registerBuiltins defines the global built-in functions (spec.md §6
// "Built-in globals"). Their bodies are intentionally trivial — the
// spec calls them out as external collaborators whose contracts, not
// implementations, matter.
func registerBuiltins(e *Evaluator) {
	e.Globals.Define("clock", &object.Native{
		Name: "clock", Arity: 0,
		Fn: func(line int, args []object.Value) (object.Value, *object.Error) {
			return &object.Number{Value: clockSeconds()}, nil
		},
	})

	e.Globals.Define("str", &object.Native{
		Name: "str", Arity: 1,
		Fn: func(line int, args []object.Value) (object.Value, *object.Error) {
			return &object.String{Value: object.Serialize(args[0])}, nil
		},
	})

	e.Globals.Define("type", &object.Native{
		Name: "type", Arity: 1,
		Fn: func(line int, args []object.Value) (object.Value, *object.Error) {
			return &object.String{Value: object.TypeName(args[0])}, nil
		},
	})

	e.Globals.Define("len", &object.Native{
		Name: "len", Arity: 1,
		Fn: func(line int, args []object.Value) (object.Value, *object.Error) {
			switch v := args[0].(type) {
			case *object.String:
				return &object.Number{Value: float64(len(v.Value))}, nil
			case *object.List:
				return &object.Number{Value: float64(len(v.Elements))}, nil
			case *object.Dict:
				return &object.Number{Value: float64(len(v.Pairs))}, nil
			default:
				return nil, object.NewError(line, "len() is not defined for %s.", object.TypeName(args[0]))
			}
		},
	})

	e.Globals.Define("input", &object.Native{
		Name: "input", Arity: -1,
		Fn: func(line int, args []object.Value) (object.Value, *object.Error) {
			if len(args) > 1 {
				return nil, object.NewError(line, "Expected 0 or 1 arguments but got %d.", len(args))
			}
			if len(args) == 1 {
				fmt.Fprint(e.Out, object.Serialize(args[0]))
			}
			scanner := bufio.NewScanner(e.In)
			if !scanner.Scan() {
				return &object.String{Value: ""}, nil
			}
			return &object.String{Value: scanner.Text()}, nil
		},
	})

	e.Globals.Define("assert", &object.Native{
		Name: "assert", Arity: -1,
		Fn: func(line int, args []object.Value) (object.Value, *object.Error) {
			if len(args) < 1 || len(args) > 2 {
				return nil, object.NewError(line, "Expected 1 or 2 arguments but got %d.", len(args))
			}
			if object.IsTruthy(args[0]) {
				return object.NIL, nil
			}
			msg := "assertion failed"
			if len(args) == 2 {
				msg = object.Serialize(args[1])
			}
			return nil, object.NewError(line, "%s", msg)
		},
	})
}
