// Package ast defines PLC's sum-typed abstract syntax tree: a Source with
// ordered fields and methods, statement and expression node variants, and
// the handful of shared node-identity maps (kept in the analyzer and
// evaluator, not on these node types — see package scope's Handle and the
// per-pass maps in analyzer/evaluator) that attach resolved types and
// symbol references without mutating the tree itself.
package ast

import "github.com/plclang/plc/internal/token"

// Node is the base interface every AST node satisfies.
type Node interface {
	Token() token.Token
	Accept(v Visitor)
}

// Visitor double-dispatches over every concrete node, grounded on the
// teacher's ast.Node/Visitor split (internal/ast/ast.go,
// internal/prettyprinter/code_printer.go). Passes that only need to inspect
// a handful of node kinds — the analyzer and evaluator, which the teacher's
// own equivalents (internal/analyzer/analyzer.go's AnalyzeHeaders/AnalyzeBodies
// walker aside) dispatch with a plain type switch in
// internal/evaluator/evaluator.go's Eval — are free to keep doing that
// instead; Visitor exists so a node-to-node re-printer like the Emitter can
// use real double dispatch the way internal/prettyprinter/code_printer.go's
// CodePrinter does.
type Visitor interface {
	VisitSource(*Source)
	VisitField(*Field)
	VisitMethod(*Method)
	VisitExpressionStatement(*ExpressionStatement)
	VisitDeclaration(*Declaration)
	VisitAssignment(*Assignment)
	VisitIf(*If)
	VisitFor(*For)
	VisitWhile(*While)
	VisitReturn(*Return)
	VisitLiteral(*Literal)
	VisitGroup(*Group)
	VisitBinary(*Binary)
	VisitAccess(*Access)
	VisitCall(*Call)
}

// Statement is a Node appearing in a method body or at block level.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that produces a value. Every Expression's resolved
// type is attached by the Analyzer in a side map (analyzer.TypeOf), never on
// the node itself.
type Expression interface {
	Node
	expressionNode()
}

// Source is the AST root: a program's fields and methods, in declaration
// order.
type Source struct {
	Fields  []*Field
	Methods []*Method
}

func (s *Source) Token() token.Token {
	if len(s.Fields) > 0 {
		return s.Fields[0].Tok
	}
	if len(s.Methods) > 0 {
		return s.Methods[0].Tok
	}
	return token.Token{}
}

func (s *Source) Accept(v Visitor) { v.VisitSource(s) }

// Field is a top-level `LET name : Type [= expr];` declaration.
type Field struct {
	Tok         token.Token
	Name        string
	TypeName    string
	Constant    bool
	Initializer Expression // nil if absent
}

func (f *Field) Token() token.Token { return f.Tok }
func (f *Field) Accept(v Visitor)   { v.VisitField(f) }

// Parameter is one `name : Type` entry in a method's parameter list.
type Parameter struct {
	Name     string
	TypeName string
}

// Method is a `DEF name(params) [: ReturnType] DO ... END` definition.
type Method struct {
	Tok        token.Token
	Name       string
	Parameters []Parameter
	// ReturnTypeName is "" when the source omitted an explicit return type,
	// which the Analyzer treats as Nil.
	ReturnTypeName string
	Statements     []Statement
}

func (m *Method) Token() token.Token { return m.Tok }
func (m *Method) Accept(v Visitor)   { v.VisitMethod(m) }

// ---- Statements ----

// ExpressionStatement wraps a bare function-call expression used as a
// statement (the only expression form valid there).
type ExpressionStatement struct {
	Tok  token.Token
	Expr Expression
}

func (s *ExpressionStatement) Token() token.Token { return s.Tok }
func (*ExpressionStatement) statementNode()       {}
func (s *ExpressionStatement) Accept(v Visitor)   { v.VisitExpressionStatement(s) }

// Declaration is a local `LET name [: Type] [= expr];`.
type Declaration struct {
	Tok         token.Token
	Name        string
	TypeName    string // "" if omitted
	Initializer Expression
}

func (s *Declaration) Token() token.Token { return s.Tok }
func (*Declaration) statementNode()       {}
func (s *Declaration) Accept(v Visitor)   { v.VisitDeclaration(s) }

// Assignment is `receiver = value;`; receiver must be an *Access.
type Assignment struct {
	Tok      token.Token
	Receiver Expression
	Value    Expression
}

func (s *Assignment) Token() token.Token { return s.Tok }
func (*Assignment) statementNode()       {}
func (s *Assignment) Accept(v Visitor)   { v.VisitAssignment(s) }

// If is `IF cond DO then... [ELSE else...] END`.
type If struct {
	Tok       token.Token
	Condition Expression
	Then      []Statement
	Else      []Statement // nil if absent
}

func (s *If) Token() token.Token { return s.Tok }
func (*If) statementNode()       {}
func (s *If) Accept(v Visitor)   { v.VisitIf(s) }

// For is `FOR (init?; cond?; incr?) DO body END`.
type For struct {
	Tok        token.Token
	Init       Statement // nil if absent
	Condition  Expression
	Increment  Statement // nil if absent
	Statements []Statement
}

func (s *For) Token() token.Token { return s.Tok }
func (*For) statementNode()       {}
func (s *For) Accept(v Visitor)   { v.VisitFor(s) }

// While is `WHILE cond DO body END`.
type While struct {
	Tok        token.Token
	Condition  Expression
	Statements []Statement
}

func (s *While) Token() token.Token { return s.Tok }
func (*While) statementNode()       {}
func (s *While) Accept(v Visitor)   { v.VisitWhile(s) }

// Return is `RETURN expr;`.
type Return struct {
	Tok   token.Token
	Value Expression
}

func (s *Return) Token() token.Token { return s.Tok }
func (*Return) statementNode()       {}
func (s *Return) Accept(v Visitor)   { v.VisitReturn(s) }

// ---- Expressions ----

// LiteralKind distinguishes the six literal value shapes.
type LiteralKind int

const (
	LiteralNil LiteralKind = iota
	LiteralBoolean
	LiteralCharacter
	LiteralString
	LiteralInteger
	LiteralDecimal
)

// Literal carries exactly one decoded value, selected by Kind:
//   - LiteralBoolean:   Bool
//   - LiteralCharacter: Char (a single rune)
//   - LiteralString:    Str
//   - LiteralInteger:   IntegerText (decimal digits, optionally signed)
//   - LiteralDecimal:   DecimalText (digits, a '.', digits, optionally signed)
type Literal struct {
	Tok         token.Token
	Kind        LiteralKind
	Bool        bool
	Char        rune
	Str         string
	IntegerText string
	DecimalText string
}

func (e *Literal) Token() token.Token { return e.Tok }
func (*Literal) expressionNode()      {}
func (e *Literal) Accept(v Visitor)   { v.VisitLiteral(e) }

// Group is a single parenthesized expression, `( expr )`. The parser accepts
// any inner expression; the Analyzer rejects an Inner that is not a *Binary.
type Group struct {
	Tok   token.Token
	Inner Expression
}

func (e *Group) Token() token.Token { return e.Tok }
func (*Group) expressionNode()      {}
func (e *Group) Accept(v Visitor)   { v.VisitGroup(e) }

// Binary is `left op right`, always left-folded by the parser.
type Binary struct {
	Tok      token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (e *Binary) Token() token.Token { return e.Tok }
func (*Binary) expressionNode()      {}
func (e *Binary) Accept(v Visitor)   { v.VisitBinary(e) }

// Access is a bare name lookup (Receiver == nil) or a field read on
// Receiver (`receiver.name`).
type Access struct {
	Tok      token.Token
	Receiver Expression // nil for a bare variable reference
	Name     string
}

func (e *Access) Token() token.Token { return e.Tok }
func (*Access) expressionNode()      {}
func (e *Access) Accept(v Visitor)   { v.VisitAccess(e) }

// Call is a bare function call (Receiver == nil) or a method call on
// Receiver (`receiver.name(args)`).
type Call struct {
	Tok       token.Token
	Receiver  Expression // nil for a bare function call
	Name      string
	Arguments []Expression
}

func (e *Call) Token() token.Token { return e.Tok }
func (*Call) expressionNode()      {}
func (e *Call) Accept(v Visitor)   { v.VisitCall(e) }
