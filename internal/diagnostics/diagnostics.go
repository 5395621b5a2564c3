// Package diagnostics defines the two fatal error kinds the pipeline can
// produce: a coded, offset-carrying Error for lexer/parser failures, and the
// same type without an offset for analyzer/runtime failures.
package diagnostics

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Phase names the pass that raised an Error.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseAnalyzer Phase = "analyzer"
	PhaseRuntime  Phase = "runtime"
)

// Code identifies the shape of an Error, independent of its message text.
type Code string

const (
	ErrL001 Code = "L001" // illegal character / malformed token
	ErrL002 Code = "L002" // unterminated string
	ErrL003 Code = "L003" // unterminated character literal

	ErrP001 Code = "P001" // unexpected token
	ErrP002 Code = "P002" // unexpected end of input
	ErrP003 Code = "P003" // expected an identifier

	ErrA001 Code = "A001" // undeclared name
	ErrA002 Code = "A002" // unknown type
	ErrA003 Code = "A003" // type error
	ErrA004 Code = "A004" // redefinition
	ErrA005 Code = "A005" // assignment to constant
	ErrA006 Code = "A006" // missing main/0 returning Integer
	ErrA007 Code = "A007" // literal out of range

	ErrR001 Code = "R001" // runtime error
)

var templates = map[Code]string{
	ErrL001: "illegal character: %q",
	ErrL002: "unterminated string literal",
	ErrL003: "unterminated or invalid character literal",

	ErrP001: "unexpected token: expected %s, found %q",
	ErrP002: "unexpected end of input: expected %s",
	ErrP003: "expected an identifier, found %q",

	ErrA001: "undeclared name: %q",
	ErrA002: "unknown type: %q",
	ErrA003: "type error: %s",
	ErrA004: "%q is already defined in this scope",
	ErrA005: "cannot assign to constant %q",
	ErrA006: "program must define main() with no parameters returning Integer",
	ErrA007: "%s literal out of range: %q",

	ErrR001: "runtime error: %s",
}

// Error is the single error type produced by every pass. Offset is -1 when
// the failure carries no source position (analyzer/runtime errors).
type Error struct {
	Code   Code
	Phase  Phase
	Offset int
	Args   []interface{}
}

func New(phase Phase, code Code, offset int, args ...interface{}) *Error {
	return &Error{Code: code, Phase: phase, Offset: offset, Args: args}
}

// NewAt builds a lexer/parser error carrying a source offset.
func NewAt(phase Phase, code Code, offset int, args ...interface{}) *Error {
	return New(phase, code, offset, args...)
}

// NewWithout builds an analyzer/runtime error with no offset.
func NewWithout(phase Phase, code Code, args ...interface{}) *Error {
	return New(phase, code, -1, args...)
}

func (e *Error) Error() string {
	template, ok := templates[e.Code]
	if !ok {
		return fmt.Sprintf("[%s] unknown diagnostic code", e.Code)
	}
	message := fmt.Sprintf(template, e.Args...)
	if e.Offset >= 0 {
		return fmt.Sprintf("[%s] %s error at offset %d: %s", e.Code, e.Phase, e.Offset, message)
	}
	return fmt.Sprintf("[%s] %s error: %s", e.Code, e.Phase, message)
}

// Ordinal renders a 1-based position as "1st", "2nd", "3rd", ... for
// argument-position diagnostics (e.g. "3rd argument to 'max' must be Integer").
func Ordinal(position int) string {
	return humanize.Ordinal(position)
}
