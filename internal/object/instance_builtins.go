package object

// BuiltinMethod resolves one of the virtual time-travel methods
// (spec.md §4.4, §9 "Dynamic dispatch of built-in object methods"). It is
// consulted as the final tier of property lookup, after real fields and
// declared methods, so a user definition of the same name shadows it.
func (i *Instance) BuiltinMethod(name string) (*Native, bool) {
	switch name {
	case "undo":
		return &Native{Name: "undo", Arity: 0, Fn: func(line int, args []Value) (Value, *Error) {
			i.Undo(line)
			return NIL, nil
		}}, true
	case "redo":
		return &Native{Name: "redo", Arity: 0, Fn: func(line int, args []Value) (Value, *Error) {
			i.Redo(line)
			return NIL, nil
		}}, true
	case "history":
		return &Native{Name: "history", Arity: 0, Fn: func(line int, args []Value) (Value, *Error) {
			return i.History(), nil
		}}, true
	case "id":
		return &Native{Name: "id", Arity: 0, Fn: func(line int, args []Value) (Value, *Error) {
			return &Number{Value: float64(i.ID)}, nil
		}}, true
	case "checkpoint":
		return &Native{Name: "checkpoint", Arity: 1, Fn: func(line int, args []Value) (Value, *Error) {
			label := args[0]
			s, ok := label.(*String)
			var name string
			if ok {
				name = s.Value
			} else {
				name = Serialize(label)
			}
			i.Checkpoint(name, line)
			return NIL, nil
		}}, true
	case "rollback":
		return &Native{Name: "rollback", Arity: 1, Fn: func(line int, args []Value) (Value, *Error) {
			label := args[0]
			s, ok := label.(*String)
			var name string
			if ok {
				name = s.Value
			} else {
				name = Serialize(label)
			}
			if err := i.Rollback(name, line); err != nil {
				return nil, err
			}
			return NIL, nil
		}}, true
	case "checkpoints":
		return &Native{Name: "checkpoints", Arity: 0, Fn: func(line int, args []Value) (Value, *Error) {
			return i.CheckpointNames(), nil
		}}, true
	default:
		return nil, false
	}
}
