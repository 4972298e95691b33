// Package evaluator implements the tree-walking evaluator that drives
// O-script's scopes, classes, functions, and instances (spec.md §4.3).
package evaluator

import "github.com/oscript-lang/oscript/internal/object"

// NewEnvironment and NewEnclosedEnvironment are re-exported for callers
// that only import the evaluator package; the Environment type itself
// lives in internal/object so that object.Function closures (which must
// reference an enclosing scope) and the evaluator can share it without an
// import cycle.
func NewEnvironment() *object.Environment                            { return object.NewEnvironment() }
func NewEnclosedEnvironment(outer *object.Environment) *object.Environment { return object.NewEnclosedEnvironment(outer) }
