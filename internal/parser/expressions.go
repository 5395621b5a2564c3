package parser

import (
	"errors"
	"strings"

	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/token"
)

// errUnknownEscape should be unreachable: the lexer only ever accepts the
// escape characters decodeEscape knows about.
var errUnknownEscape = errors.New("unknown escape sequence")

func (p *Parser) parseExpr() (ast.Expression, error) {
	return p.parseLogical()
}

func (p *Parser) parseLogical() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek("&&") || p.peek("||") {
		tok := p.current()
		op := tok.Literal
		p.match(op)
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Tok: tok, Operator: op, Left: left, Right: right}
	}
	return left, nil
}

var comparisonOps = []string{"<=", ">=", "==", "!=", "<", ">"}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchAnyOf(comparisonOps)
		if !ok {
			return left, nil
		}
		tok := p.tokens[p.index-1]
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Tok: tok, Operator: op, Left: left, Right: right}
	}
}

// matchAnyOf tries each candidate literal, longest spellings first within a
// tie group so "<=" is never swallowed as "<" followed by "=" — consumes and
// returns the one that matched.
func (p *Parser) matchAnyOf(candidates []string) (string, bool) {
	for _, c := range candidates {
		if p.match(c) {
			return c, true
		}
	}
	return "", false
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchAnyOf([]string{"+", "-"})
		if !ok {
			return left, nil
		}
		tok := p.tokens[p.index-1]
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Tok: tok, Operator: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseSecondary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchAnyOf([]string{"*", "/"})
		if !ok {
			return left, nil
		}
		tok := p.tokens[p.index-1]
		right, err := p.parseSecondary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Tok: tok, Operator: op, Left: left, Right: right}
	}
}

func (p *Parser) parseSecondary() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek(".") {
		tok := p.current()
		p.match(".")
		name, err := p.expect(token.Identifier, "a member name")
		if err != nil {
			return nil, err
		}
		if p.match("(") {
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Tok: tok, Receiver: expr, Name: name.Literal, Arguments: args}
		} else {
			expr = &ast.Access{Tok: tok, Receiver: expr, Name: name.Literal}
		}
	}
	return expr, nil
}

func (p *Parser) parseArguments() ([]ast.Expression, error) {
	var args []ast.Expression
	if p.match(")") {
		return args, nil
	}
	for {
		if p.peek(")") {
			// trailing comma with nothing following
			return nil, p.errorf("an expression")
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.match(",") {
			continue
		}
		if _, err := p.expect(")", "')'"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.current()
	switch {
	case p.match("NIL"):
		return &ast.Literal{Tok: tok, Kind: ast.LiteralNil}, nil
	case p.match("TRUE"):
		return &ast.Literal{Tok: tok, Kind: ast.LiteralBoolean, Bool: true}, nil
	case p.match("FALSE"):
		return &ast.Literal{Tok: tok, Kind: ast.LiteralBoolean, Bool: false}, nil
	case p.peek(token.Integer):
		p.match(token.Integer)
		return &ast.Literal{Tok: tok, Kind: ast.LiteralInteger, IntegerText: tok.Literal}, nil
	case p.peek(token.Decimal):
		p.match(token.Decimal)
		return &ast.Literal{Tok: tok, Kind: ast.LiteralDecimal, DecimalText: tok.Literal}, nil
	case p.peek(token.Character):
		p.match(token.Character)
		ch, err := decodeCharacter(tok.Literal)
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Tok: tok, Kind: ast.LiteralCharacter, Char: ch}, nil
	case p.peek(token.String):
		p.match(token.String)
		str, err := decodeString(tok.Literal)
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Tok: tok, Kind: ast.LiteralString, Str: str}, nil
	case p.match("("):
		if p.peek(")") {
			return nil, p.errorf("an expression")
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")", "')'"); err != nil {
			return nil, err
		}
		return &ast.Group{Tok: tok, Inner: inner}, nil
	case p.peek(token.Identifier):
		p.match(token.Identifier)
		if p.match("(") {
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			return &ast.Call{Tok: tok, Name: tok.Literal, Arguments: args}, nil
		}
		return &ast.Access{Tok: tok, Name: tok.Literal}, nil
	default:
		return nil, p.errorf("an expression")
	}
}

// decodeCharacter strips the surrounding quotes from a Character token's
// literal and resolves its single escape sequence, if any.
func decodeCharacter(literal string) (rune, error) {
	body := literal[1 : len(literal)-1]
	if strings.HasPrefix(body, `\`) {
		return decodeEscape(body[1])
	}
	return rune(body[0]), nil
}

// decodeString strips the surrounding quotes from a String token's literal
// and resolves every escape sequence within it.
func decodeString(literal string) (string, error) {
	body := literal[1 : len(literal)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' {
			i++
			ch, err := decodeEscape(body[i])
			if err != nil {
				return "", err
			}
			b.WriteRune(ch)
			continue
		}
		b.WriteByte(body[i])
	}
	return b.String(), nil
}

func decodeEscape(b byte) (rune, error) {
	switch b {
	case 'b':
		return '\b', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '\'':
		return '\'', nil
	case '"':
		return '"', nil
	case '\\':
		return '\\', nil
	default:
		return 0, errUnknownEscape
	}
}
