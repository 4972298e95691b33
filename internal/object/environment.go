package object

import "sync"

// Environment is a lexical scope: a name->value map plus an optional parent
// (spec.md §3 "Scope"). New scopes are created for every block, function
// activation, and method binding. A RWMutex guards against concurrent
// access if an embedding host exposes the interpreter across goroutines
// (spec.md §5); evaluation itself is single-threaded.
type Environment struct {
	mu     sync.RWMutex
	store  map[string]Value
	outer  *Environment
}

// NewEnvironment creates a top-level scope with no parent.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Value)}
}

// NewEnclosedEnvironment creates a scope whose parent is outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]Value), outer: outer}
}

// Get resolves a name, walking parent links; the first hit wins.
func (e *Environment) Get(name string) (Value, bool) {
	e.mu.RLock()
	v, ok := e.store[name]
	e.mu.RUnlock()
	if ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Define binds name to value in this scope, shadowing any outer binding.
func (e *Environment) Define(name string, val Value) {
	e.mu.Lock()
	e.store[name] = val
	e.mu.Unlock()
}

// Assign walks outward looking for an existing binding of name and updates
// it in place. Returns false if no enclosing scope has bound the name.
func (e *Environment) Assign(name string, val Value) bool {
	e.mu.Lock()
	if _, ok := e.store[name]; ok {
		e.store[name] = val
		e.mu.Unlock()
		return true
	}
	e.mu.Unlock()
	if e.outer != nil {
		return e.outer.Assign(name, val)
	}
	return false
}
