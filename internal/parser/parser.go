// Package parser builds a PLC AST from a token stream by hand-written
// recursive descent with one-token lookahead, using the same peek/match
// idiom as the lexer — here over tokens instead of characters, where a
// pattern is either a token.Kind or an exact literal spelling.
package parser

import (
	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/diagnostics"
	"github.com/plclang/plc/internal/token"
)

// pattern matches either a token.Kind (match any token of that kind) or a
// string (match a token whose Literal is exactly that spelling, used for
// keywords and punctuation — the lexer classifies both as Identifier or
// Operator tokens, so keyword-ness is a parser-level concept).
type pattern interface{}

// Parser consumes a token stream and produces a *ast.Source, or the first
// grammar violation encountered.
type Parser struct {
	tokens  []token.Token
	index   int
	// inIncrement suppresses the trailing ';' a statement would otherwise
	// require, while parsing the init/increment clauses inside a for(...)
	// header — those clauses are terminated by the header's own ';'/')'.
	inIncrement bool
}

// New creates a Parser over tokens, which must end with an EOF token (as
// lexer.Tokenize guarantees).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse runs the full source grammar.
func Parse(tokens []token.Token) (*ast.Source, error) {
	return New(tokens).parseSource()
}

func (p *Parser) current() token.Token {
	if p.index < len(p.tokens) {
		return p.tokens[p.index]
	}
	return p.tokens[len(p.tokens)-1] // EOF
}

// offsetPastEnd is the offset reported for "unexpected end of input"
// failures: one past the last real token.
func (p *Parser) offsetPastEnd() int {
	if len(p.tokens) < 2 {
		return p.current().Start
	}
	last := p.tokens[len(p.tokens)-2]
	return last.Start + len(last.Literal)
}

func (p *Parser) matchesOne(pat pattern) bool {
	tok := p.current()
	switch v := pat.(type) {
	case token.Kind:
		return tok.Kind == v
	case string:
		return tok.Literal == v
	default:
		return false
	}
}

// peek reports whether the upcoming tokens, one per pattern, all match.
func (p *Parser) peek(patterns ...pattern) bool {
	save := p.index
	defer func() { p.index = save }()
	for i, pat := range patterns {
		p.index = save + i
		if !p.matchesOne(pat) {
			return false
		}
	}
	return true
}

// match behaves like peek and, on success, advances past the matched
// tokens.
func (p *Parser) match(patterns ...pattern) bool {
	if !p.peek(patterns...) {
		return false
	}
	p.index += len(patterns)
	return true
}

func (p *Parser) errorf(expected string) error {
	tok := p.current()
	if tok.Kind == token.EOF {
		return diagnostics.NewAt(diagnostics.PhaseParser, diagnostics.ErrP002, p.offsetPastEnd(), expected)
	}
	return diagnostics.NewAt(diagnostics.PhaseParser, diagnostics.ErrP001, tok.Start, expected, tok.Literal)
}

// expect consumes a single token matching pat or returns a parse error
// describing what was expected.
func (p *Parser) expect(pat pattern, expected string) (token.Token, error) {
	tok := p.current()
	if !p.match(pat) {
		return token.Token{}, p.errorf(expected)
	}
	return tok, nil
}

func (p *Parser) parseSource() (*ast.Source, error) {
	src := &ast.Source{}
	for !p.peek(token.EOF) {
		switch {
		case p.peek("LET"):
			field, err := p.parseField()
			if err != nil {
				return nil, err
			}
			src.Fields = append(src.Fields, field)
		case p.peek("DEF"):
			method, err := p.parseMethod()
			if err != nil {
				return nil, err
			}
			src.Methods = append(src.Methods, method)
		default:
			return nil, p.errorf("'LET' or 'DEF'")
		}
	}
	return src, nil
}

func (p *Parser) parseField() (*ast.Field, error) {
	tok, _ := p.expect("LET", "'LET'")
	field := &ast.Field{Tok: tok}
	if p.match("CONST") {
		field.Constant = true
	}
	name, err := p.expect(token.Identifier, "a field name")
	if err != nil {
		return nil, err
	}
	field.Name = name.Literal

	if _, err := p.expect(":", "':'"); err != nil {
		return nil, err
	}
	typeName, err := p.expect(token.Identifier, "a type name")
	if err != nil {
		return nil, err
	}
	field.TypeName = typeName.Literal

	if p.match("=") {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		field.Initializer = expr
	}
	if _, err := p.expect(";", "';'"); err != nil {
		return nil, err
	}
	return field, nil
}

func (p *Parser) parseMethod() (*ast.Method, error) {
	tok, _ := p.expect("DEF", "'DEF'")
	method := &ast.Method{Tok: tok}
	name, err := p.expect(token.Identifier, "a method name")
	if err != nil {
		return nil, err
	}
	method.Name = name.Literal

	if _, err := p.expect("(", "'('"); err != nil {
		return nil, err
	}
	if !p.peek(")") {
		for {
			pname, err := p.expect(token.Identifier, "a parameter name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(":", "':'"); err != nil {
				return nil, err
			}
			ptype, err := p.expect(token.Identifier, "a parameter type")
			if err != nil {
				return nil, err
			}
			method.Parameters = append(method.Parameters, ast.Parameter{Name: pname.Literal, TypeName: ptype.Literal})
			if !p.match(",") {
				break
			}
		}
	}
	if _, err := p.expect(")", "')'"); err != nil {
		return nil, err
	}

	if p.match(":") {
		rtype, err := p.expect(token.Identifier, "a return type")
		if err != nil {
			return nil, err
		}
		method.ReturnTypeName = rtype.Literal
	}

	if _, err := p.expect("DO", "'DO'"); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements("END")
	if err != nil {
		return nil, err
	}
	method.Statements = stmts
	if _, err := p.expect("END", "'END'"); err != nil {
		return nil, err
	}
	return method, nil
}

// parseStatements parses statements until the current token's literal
// matches one of the given terminator spellings (not consumed).
func (p *Parser) parseStatements(terminators ...string) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		if p.atTerminator(terminators...) {
			return stmts, nil
		}
		if p.peek(token.EOF) {
			return nil, p.errorf("one of " + joinQuoted(terminators))
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) atTerminator(terminators ...string) bool {
	for _, t := range terminators {
		if p.peek(t) {
			return true
		}
	}
	return false
}

func joinQuoted(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += "'" + s + "'"
	}
	return out
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch {
	case p.peek("LET"):
		return p.parseDecl()
	case p.peek("IF"):
		return p.parseIf()
	case p.peek("FOR"):
		return p.parseFor()
	case p.peek("WHILE"):
		return p.parseWhile()
	case p.peek("RETURN"):
		return p.parseReturn()
	default:
		return p.parseExprOrAssign()
	}
}

func (p *Parser) parseDecl() (ast.Statement, error) {
	tok, _ := p.expect("LET", "'LET'")
	decl := &ast.Declaration{Tok: tok}
	name, err := p.expect(token.Identifier, "a variable name")
	if err != nil {
		return nil, err
	}
	decl.Name = name.Literal

	if p.match(":") {
		typeName, err := p.expect(token.Identifier, "a type name")
		if err != nil {
			return nil, err
		}
		decl.TypeName = typeName.Literal
	}
	if p.match("=") {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decl.Initializer = expr
	}
	if err := p.expectStatementEnd(); err != nil {
		return nil, err
	}
	return decl, nil
}

// expectStatementEnd consumes the trailing ';' a statement needs, unless
// the parser is inside a for(...) header's init/increment clause, where the
// header's own separators already terminate it.
func (p *Parser) expectStatementEnd() error {
	if p.inIncrement {
		return nil
	}
	_, err := p.expect(";", "';'")
	return err
}

func (p *Parser) parseIf() (ast.Statement, error) {
	tok, _ := p.expect("IF", "'IF'")
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("DO", "'DO'"); err != nil {
		return nil, err
	}
	then, err := p.parseStatements("ELSE", "END")
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Tok: tok, Condition: cond, Then: then}
	if p.match("ELSE") {
		elseStmts, err := p.parseStatements("END")
		if err != nil {
			return nil, err
		}
		stmt.Else = elseStmts
	}
	if _, err := p.expect("END", "'END'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	tok, _ := p.expect("FOR", "'FOR'")
	if _, err := p.expect("(", "'('"); err != nil {
		return nil, err
	}

	stmt := &ast.For{Tok: tok}

	p.inIncrement = true
	if !p.peek(";") {
		init, err := p.parseExprOrAssign()
		if err != nil {
			p.inIncrement = false
			return nil, err
		}
		stmt.Init = init
	}
	p.inIncrement = false
	if _, err := p.expect(";", "';'"); err != nil {
		return nil, err
	}

	if !p.peek(";") {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Condition = cond
	}
	if _, err := p.expect(";", "';'"); err != nil {
		return nil, err
	}

	p.inIncrement = true
	if !p.peek(")") {
		incr, err := p.parseExprOrAssign()
		if err != nil {
			p.inIncrement = false
			return nil, err
		}
		stmt.Increment = incr
	}
	p.inIncrement = false
	if _, err := p.expect(")", "')'"); err != nil {
		return nil, err
	}

	if _, err := p.expect("DO", "'DO'"); err != nil {
		return nil, err
	}
	body, err := p.parseStatements("END")
	if err != nil {
		return nil, err
	}
	stmt.Statements = body
	if _, err := p.expect("END", "'END'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	tok, _ := p.expect("WHILE", "'WHILE'")
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("DO", "'DO'"); err != nil {
		return nil, err
	}
	body, err := p.parseStatements("END")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("END", "'END'"); err != nil {
		return nil, err
	}
	return &ast.While{Tok: tok, Condition: cond, Statements: body}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	tok, _ := p.expect("RETURN", "'RETURN'")
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";", "';'"); err != nil {
		return nil, err
	}
	return &ast.Return{Tok: tok, Value: value}, nil
}

func (p *Parser) parseExprOrAssign() (ast.Statement, error) {
	tok := p.current()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.match("=") {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectStatementEnd(); err != nil {
			return nil, err
		}
		return &ast.Assignment{Tok: tok, Receiver: expr, Value: value}, nil
	}
	if err := p.expectStatementEnd(); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Tok: tok, Expr: expr}, nil
}
