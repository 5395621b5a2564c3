// Package scope implements the lexical scope chain shared (in structure,
// not in instance — the Analyzer and Evaluator each own their own chain) by
// the Analyzer and Evaluator: a tree of name -> Variable and
// (name, arity) -> Function bindings, walked upward on lookup and written
// only at the innermost level on definition.
package scope

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/plclang/plc/internal/types"
)

// Variable is a resolved binding: a declared or parameter name, its type,
// whether it is immutable, and (for the Evaluator's instance) its current
// value. Handle is a stable identity assigned once, when the Variable is
// first defined in a scope, so that
// analyzer-owned maps and emitted diagnostics can refer to this binding
// without relying on Go pointer identity alone — the concrete realization
// of spec.md §9's "arena+index" design note.
type Variable struct {
	Handle     uuid.UUID
	Name       string
	TargetName string
	Type       types.Type
	Constant   bool
	Value      interface{} // populated only inside the Evaluator's scope
}

// Function is a resolved callable binding: its name, parameter types, and
// declared return type. Host, when non-nil, is a built-in implementation
// (e.g. print/1) invoked by the Evaluator instead of a user-defined body.
type Function struct {
	Handle     uuid.UUID
	Name       string
	TargetName string
	ParamTypes []types.Type
	ReturnType types.Type
	Host       func(args []interface{}) (interface{}, error)
}

// Arity returns the number of declared parameters.
func (f *Function) Arity() int { return len(f.ParamTypes) }

type funcKey struct {
	name  string
	arity int
}

// Scope is one level of the lexical name map, chained to a parent. A nil
// parent marks the root (global) scope.
type Scope struct {
	parent    *Scope
	variables map[string]*Variable
	functions map[funcKey]*Function
}

// New creates a scope nested inside parent. Pass nil to create a root scope.
func New(parent *Scope) *Scope {
	return &Scope{
		parent:    parent,
		variables: make(map[string]*Variable),
		functions: make(map[funcKey]*Function),
	}
}

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope { return s.parent }

// DefineVariable writes v into this (innermost) scope under v.Name,
// assigning it a fresh Handle, and reports false if the name already exists
// directly in this scope (shadowing an outer scope is fine; redefining
// within the same scope is a redefinition the caller should reject).
func (s *Scope) DefineVariable(v *Variable) bool {
	if _, exists := s.variables[v.Name]; exists {
		return false
	}
	if v.Handle == uuid.Nil {
		v.Handle = uuid.New()
	}
	s.variables[v.Name] = v
	return true
}

// LookupVariable walks this scope and its ancestors for name.
func (s *Scope) LookupVariable(name string) (*Variable, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.variables[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// DefineFunction writes f into this scope under (f.Name, arity), assigning
// it a fresh Handle, and reports false if that (name, arity) pair already
// exists directly in this scope.
func (s *Scope) DefineFunction(f *Function) bool {
	key := funcKey{f.Name, f.Arity()}
	if _, exists := s.functions[key]; exists {
		return false
	}
	if f.Handle == uuid.Nil {
		f.Handle = uuid.New()
	}
	s.functions[key] = f
	return true
}

// LookupFunction walks this scope and its ancestors for a function matching
// (name, arity).
func (s *Scope) LookupFunction(name string, arity int) (*Function, bool) {
	key := funcKey{name, arity}
	for cur := s; cur != nil; cur = cur.parent {
		if f, ok := cur.functions[key]; ok {
			return f, true
		}
	}
	return nil, false
}

func (s *Scope) String() string {
	return fmt.Sprintf("Scope(vars=%d, funcs=%d)", len(s.variables), len(s.functions))
}
