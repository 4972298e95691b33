package object

import "github.com/oscript-lang/oscript/internal/ast"

// Function is a user-declared function or method: its declaration, the
// scope captured at declaration site, and whether it is a class
// initializer (spec.md §3 "Function").
type Function struct {
	Name          string
	Declaration   *ast.FunctionStatement
	Closure       *Environment
	IsInitializer bool
}

func (f *Function) Type() Type      { return FUNCTION_OBJ }
func (f *Function) Inspect() string { return Serialize(f) }

// Arity reports the function's fixed parameter count.
func (f *Function) Arity() int { return len(f.Declaration.Params) }

// Bind produces a new Function whose captured scope is extended with
// `this` bound to instance (spec.md §3 "Function").
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnclosedEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{
		Name:          f.Name,
		Declaration:   f.Declaration,
		Closure:       env,
		IsInitializer: f.IsInitializer,
	}
}

// Native is a built-in global function (clock, str, type, len, input,
// assert — spec.md §6) or a synthesized instance built-in.
type Native struct {
	Name string
	// Arity is the fixed parameter count, or -1 to accept any count.
	Arity int
	// Fn receives the call's source line (for error reporting and trace
	// events) and its evaluated arguments.
	Fn func(line int, args []Value) (Value, *Error)
}

func (n *Native) Type() Type      { return NATIVE_OBJ }
func (n *Native) Inspect() string { return Serialize(n) }

// Class is a name plus a mapping from method name to unbound function
// (spec.md §3 "Class"). There is no inheritance.
type Class struct {
	Name    string
	Methods map[string]*Function
}

func (c *Class) Type() Type      { return CLASS_OBJ }
func (c *Class) Inspect() string { return Serialize(c) }

// FindMethod looks up a declared method by name.
func (c *Class) FindMethod(name string) (*Function, bool) {
	m, ok := c.Methods[name]
	return m, ok
}

// Arity is the constructor's arity: the `init` method's parameter count if
// present, else zero (spec.md §3 "Class").
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}
