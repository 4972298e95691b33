package evaluator

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oscript-lang/oscript/internal/ast"
	"github.com/oscript-lang/oscript/internal/object"
)

// Evaluator walks a parsed Program against a tree of scopes, routing every
// field mutation through the instance it targets (spec.md §4.3).
type Evaluator struct {
	Globals *object.Environment

	Out io.Writer
	In  io.Reader

	tracer     object.Tracer
	nextID     int64
	maxHistory int
}

// New creates an Evaluator. tracer receives every mutation event emitted
// by instances constructed during evaluation (spec.md §4.5).
func New(tracer object.Tracer) *Evaluator {
	e := &Evaluator{
		Globals: object.NewEnvironment(),
		Out:     os.Stdout,
		In:      os.Stdin,
		tracer:  tracer,
	}
	registerBuiltins(e)
	return e
}

// SetMaxHistory configures the per-instance past-stack bound applied to
// every instance constructed from this point on (spec.md §9).
func (e *Evaluator) SetMaxHistory(n int) { e.maxHistory = n }

// Run evaluates every top-level statement of prog against e.Globals.
// Returns the first runtime *object.Error encountered, or nil.
func (e *Evaluator) Run(prog *ast.Program) *object.Error {
	for _, stmt := range prog.Statements {
		result := e.execute(stmt, e.Globals)
		if errVal, ok := result.(*object.Error); ok {
			return errVal
		}
	}
	return nil
}

func isError(v object.Value) bool {
	_, ok := v.(*object.Error)
	return ok
}

// --- statements ---

func (e *Evaluator) execute(stmt ast.Statement, env *object.Environment) object.Value {
	switch node := stmt.(type) {
	case *ast.ExpressionStatement:
		return e.eval(node.Expression, env)

	case *ast.PrintStatement:
		val := e.eval(node.Value, env)
		if isError(val) {
			return val
		}
		fmt.Fprintln(e.Out, object.Serialize(val))
		return object.NIL

	case *ast.VarStatement:
		var val object.Value = object.NIL
		if node.Initializer != nil {
			val = e.eval(node.Initializer, env)
			if isError(val) {
				return val
			}
		}
		env.Define(node.Name.Lexeme, val)
		return object.NIL

	case *ast.BlockStatement:
		return e.executeBlock(node.Statements, object.NewEnclosedEnvironment(env))

	case *ast.IfStatement:
		cond := e.eval(node.Condition, env)
		if isError(cond) {
			return cond
		}
		if object.IsTruthy(cond) {
			return e.execute(node.ThenBranch, env)
		} else if node.ElseBranch != nil {
			return e.execute(node.ElseBranch, env)
		}
		return object.NIL

	case *ast.WhileStatement:
		for {
			cond := e.eval(node.Condition, env)
			if isError(cond) {
				return cond
			}
			if !object.IsTruthy(cond) {
				return object.NIL
			}
			result := e.execute(node.Body, env)
			if isError(result) {
				return result
			}
			if _, ok := result.(*object.ReturnValue); ok {
				return result
			}
		}

	case *ast.FunctionStatement:
		fn := &object.Function{Name: node.Name.Lexeme, Declaration: node, Closure: env}
		env.Define(node.Name.Lexeme, fn)
		return object.NIL

	case *ast.ReturnStatement:
		var val object.Value = object.NIL
		if node.Value != nil {
			val = e.eval(node.Value, env)
			if isError(val) {
				return val
			}
		}
		return &object.ReturnValue{Value: val}

	case *ast.ClassStatement:
		methods := make(map[string]*object.Function, len(node.Methods))
		for _, m := range node.Methods {
			methods[m.Name.Lexeme] = &object.Function{
				Name:          m.Name.Lexeme,
				Declaration:   m,
				Closure:       env,
				IsInitializer: m.Name.Lexeme == "init",
			}
		}
		class := &object.Class{Name: node.Name.Lexeme, Methods: methods}
		env.Define(node.Name.Lexeme, class)
		return object.NIL

	default:
		return object.NewError(0, "Unknown statement type %T", stmt)
	}
}

func (e *Evaluator) executeBlock(statements []ast.Statement, env *object.Environment) object.Value {
	for _, stmt := range statements {
		result := e.execute(stmt, env)
		if isError(result) {
			return result
		}
		if _, ok := result.(*object.ReturnValue); ok {
			return result
		}
	}
	return object.NIL
}

// --- expressions ---

func (e *Evaluator) eval(expr ast.Expression, env *object.Environment) object.Value {
	switch node := expr.(type) {
	case *ast.Literal:
		return literalValue(node.Value)

	case *ast.Grouping:
		return e.eval(node.Expression, env)

	case *ast.Variable:
		val, ok := env.Get(node.Name.Lexeme)
		if !ok {
			return object.NewError(node.Name.Line, "Undefined variable '%s'.", node.Name.Lexeme)
		}
		return val

	case *ast.Assign:
		val := e.eval(node.Value, env)
		if isError(val) {
			return val
		}
		if !env.Assign(node.Name.Lexeme, val) {
			return object.NewError(node.Name.Line, "Undefined variable '%s'.", node.Name.Lexeme)
		}
		return val

	case *ast.Unary:
		return e.evalUnary(node, env)

	case *ast.Binary:
		return e.evalBinary(node, env)

	case *ast.Logical:
		return e.evalLogical(node, env)

	case *ast.This:
		val, ok := env.Get("this")
		if !ok {
			return object.NewError(node.Keyword.Line, "'this' used outside a method.")
		}
		return val

	case *ast.Get:
		return e.evalGet(node, env)

	case *ast.Set:
		return e.evalSet(node, env)

	case *ast.Call:
		return e.evalCall(node, env)

	case *ast.New:
		return e.evalNew(node, env)

	default:
		return object.NewError(0, "Unknown expression type %T", expr)
	}
}

func literalValue(v interface{}) object.Value {
	switch v := v.(type) {
	case nil:
		return object.NIL
	case bool:
		return object.NativeBool(v)
	case float64:
		return &object.Number{Value: v}
	case string:
		return &object.String{Value: v}
	default:
		return object.NIL
	}
}

func (e *Evaluator) evalUnary(node *ast.Unary, env *object.Environment) object.Value {
	right := e.eval(node.Right, env)
	if isError(right) {
		return right
	}
	switch node.Operator.Type {
	case "-":
		num, ok := right.(*object.Number)
		if !ok {
			return object.NewError(node.Operator.Line, "Operand must be a number.")
		}
		return &object.Number{Value: -num.Value}
	case "!":
		return object.NativeBool(!object.IsTruthy(right))
	default:
		return object.NewError(node.Operator.Line, "Unknown unary operator '%s'.", node.Operator.Lexeme)
	}
}

func (e *Evaluator) evalLogical(node *ast.Logical, env *object.Environment) object.Value {
	left := e.eval(node.Left, env)
	if isError(left) {
		return left
	}
	if node.Operator.Type == "or" {
		if object.IsTruthy(left) {
			return left
		}
	} else {
		if !object.IsTruthy(left) {
			return left
		}
	}
	return e.eval(node.Right, env)
}

func (e *Evaluator) evalBinary(node *ast.Binary, env *object.Environment) object.Value {
	left := e.eval(node.Left, env)
	if isError(left) {
		return left
	}
	right := e.eval(node.Right, env)
	if isError(right) {
		return right
	}
	line := node.Operator.Line

	switch node.Operator.Type {
	case "==":
		return object.NativeBool(object.Equal(left, right))
	case "!=":
		return object.NativeBool(!object.Equal(left, right))
	case "+":
		ln, lok := left.(*object.Number)
		rn, rok := right.(*object.Number)
		if lok && rok {
			return &object.Number{Value: ln.Value + rn.Value}
		}
		ls, lsok := left.(*object.String)
		rs, rsok := right.(*object.String)
		if lsok && rsok {
			return &object.String{Value: ls.Value + rs.Value}
		}
		return object.NewError(line, "Operands must be two numbers or two strings.")
	case "-", "*", "/", "<", "<=", ">", ">=":
		ln, lok := left.(*object.Number)
		rn, rok := right.(*object.Number)
		if !lok || !rok {
			return object.NewError(line, "Operands must be numbers.")
		}
		switch node.Operator.Type {
		case "-":
			return &object.Number{Value: ln.Value - rn.Value}
		case "*":
			return &object.Number{Value: ln.Value * rn.Value}
		case "/":
			if rn.Value == 0 {
				return object.NewError(line, "Division by zero.")
			}
			return &object.Number{Value: ln.Value / rn.Value}
		case "<":
			return object.NativeBool(ln.Value < rn.Value)
		case "<=":
			return object.NativeBool(ln.Value <= rn.Value)
		case ">":
			return object.NativeBool(ln.Value > rn.Value)
		case ">=":
			return object.NativeBool(ln.Value >= rn.Value)
		}
	}
	return object.NewError(line, "Unknown binary operator '%s'.", node.Operator.Lexeme)
}

func (e *Evaluator) evalGet(node *ast.Get, env *object.Environment) object.Value {
	objVal := e.eval(node.Object, env)
	if isError(objVal) {
		return objVal
	}
	inst, ok := objVal.(*object.Instance)
	if !ok {
		return object.NewError(node.Name.Line, "Only instances have properties.")
	}
	return e.getProperty(inst, node.Name.Lexeme, node.Name.Line)
}

// getProperty implements property lookup's three tiers: real field, real
// declared method, synthesized time-travel built-in (spec.md §4.4). A name
// that matches none of them reads as nil.
func (e *Evaluator) getProperty(inst *object.Instance, name string, line int) object.Value {
	if val, ok := inst.GetField(name); ok {
		return val
	}
	if method, ok := inst.Class.FindMethod(name); ok {
		return method.Bind(inst)
	}
	if builtin, ok := inst.BuiltinMethod(name); ok {
		return builtin
	}
	return object.NIL
}

func (e *Evaluator) evalSet(node *ast.Set, env *object.Environment) object.Value {
	objVal := e.eval(node.Object, env)
	if isError(objVal) {
		return objVal
	}
	inst, ok := objVal.(*object.Instance)
	if !ok {
		return object.NewError(node.Name.Line, "Only instances have fields.")
	}
	val := e.eval(node.Value, env)
	if isError(val) {
		return val
	}
	inst.Set(node.Name.Lexeme, val, node.Name.Line)
	return val
}

func (e *Evaluator) evalCall(node *ast.Call, env *object.Environment) object.Value {
	callee := e.eval(node.Callee, env)
	if isError(callee) {
		return callee
	}

	args := make([]object.Value, len(node.Arguments))
	for i, a := range node.Arguments {
		val := e.eval(a, env)
		if isError(val) {
			return val
		}
		args[i] = val
	}

	line := node.Paren.Line

	switch fn := callee.(type) {
	case *object.Function:
		if fn.Arity() != len(args) {
			return object.NewError(line, "Expected %d arguments but got %d.", fn.Arity(), len(args))
		}
		return e.callFunction(fn, args)

	case *object.Native:
		if fn.Arity >= 0 && fn.Arity != len(args) {
			return object.NewError(line, "Expected %d arguments but got %d.", fn.Arity, len(args))
		}
		val, err := fn.Fn(line, args)
		if err != nil {
			return err
		}
		return val

	case *object.Class:
		return e.instantiate(fn, args, line)

	default:
		return object.NewError(line, "Can only call functions and classes.")
	}
}

// callFunction runs a user function/method activation: a new scope
// enclosing the function's closure, bound to its parameters, executing
// its body, and unwrapping any ReturnValue (spec.md §4.3 "Function
// calls"). Initializers always yield the bound instance.
func (e *Evaluator) callFunction(fn *object.Function, args []object.Value) object.Value {
	callEnv := object.NewEnclosedEnvironment(fn.Closure)
	for i, param := range fn.Declaration.Params {
		callEnv.Define(param.Lexeme, args[i])
	}

	result := e.executeBlock(fn.Declaration.Body, callEnv)
	if isError(result) {
		return result
	}

	if fn.IsInitializer {
		this, _ := fn.Closure.Get("this")
		return this
	}

	if ret, ok := result.(*object.ReturnValue); ok {
		return ret.Value
	}
	return object.NIL
}

func (e *Evaluator) instantiate(class *object.Class, args []object.Value, line int) object.Value {
	if class.Arity() != len(args) {
		return object.NewError(line, "Expected %d arguments but got %d.", class.Arity(), len(args))
	}

	e.nextID++
	inst := object.NewInstance(class, e.nextID, e.tracer)
	inst.SetMaxHistory(e.maxHistory)

	if init, ok := class.FindMethod("init"); ok {
		bound := init.Bind(inst)
		inst.EmitNew()
		result := e.callFunction(bound, args)
		if isError(result) {
			return result
		}
		return inst
	}

	inst.EmitNew()
	return inst
}

func (e *Evaluator) evalNew(node *ast.New, env *object.Environment) object.Value {
	callee, ok := env.Get(node.ClassName.Lexeme)
	if !ok {
		return object.NewError(node.ClassName.Line, "Undefined variable '%s'.", node.ClassName.Lexeme)
	}
	class, ok := callee.(*object.Class)
	if !ok {
		return object.NewError(node.ClassName.Line, "'%s' is not a class.", node.ClassName.Lexeme)
	}

	args := make([]object.Value, len(node.Arguments))
	for i, a := range node.Arguments {
		val := e.eval(a, env)
		if isError(val) {
			return val
		}
		args[i] = val
	}
	return e.instantiate(class, args, node.ClassName.Line)
}

// clockSeconds is a var (not a call) so builtins.go's clock() built-in
// stays trivially testable.
var clockSeconds = func() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
