// Package lexer turns a PLC source string into a flat token stream.
//
// The lexer is a single forward pass built on two small primitives —
// peek and match — each taking a sequence of single-character regex
// fragments. peek reports whether the upcoming characters satisfy the
// patterns without consuming them; match does the same check and, on
// success, advances the read position past them. Every other lexing rule
// (identifiers, numbers, characters, strings, operators) is expressed in
// terms of these two calls, mirroring the hand-rolled recursive-descent
// style the rest of this module's passes use.
package lexer

import (
	"regexp"

	"github.com/plclang/plc/internal/diagnostics"
	"github.com/plclang/plc/internal/token"
)

var whitespace = regexp.MustCompile(`^[ \b\n\r\t]$`)

// patternCache caches the ^...$ anchored regex for a single-character
// fragment so repeated peek/match calls on the same pattern don't
// recompile it.
var patternCache = map[string]*regexp.Regexp{}

func compile(pattern string) *regexp.Regexp {
	if re, ok := patternCache[pattern]; ok {
		return re
	}
	re := regexp.MustCompile("^(?:" + pattern + ")$")
	patternCache[pattern] = re
	return re
}

// Lexer walks a source string once, left to right, producing tokens.
type Lexer struct {
	input string
	index int
}

// New creates a Lexer over the given source.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize runs the lexer to completion, returning every token including a
// trailing EOF, or the first error encountered. It never returns a partial
// token list together with an error.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// peek reports whether the characters starting at the current index match
// patterns[0], patterns[1], ... in order, without consuming input.
func (l *Lexer) peek(patterns ...string) bool {
	for i, p := range patterns {
		pos := l.index + i
		if pos >= len(l.input) {
			return false
		}
		if !compile(p).MatchString(string(l.input[pos])) {
			return false
		}
	}
	return true
}

// match behaves like peek, and additionally advances the index past the
// matched characters when it succeeds.
func (l *Lexer) match(patterns ...string) bool {
	if !l.peek(patterns...) {
		return false
	}
	l.index += len(patterns)
	return true
}

func (l *Lexer) skipWhitespace() {
	for l.index < len(l.input) && whitespace.MatchString(string(l.input[l.index])) {
		l.index++
	}
}

func (l *Lexer) atEnd() bool {
	return l.index >= len(l.input)
}

// next produces the single next token, or a *diagnostics.Error carrying the
// offset at which lexing failed.
func (l *Lexer) next() (token.Token, error) {
	l.skipWhitespace()
	if l.atEnd() {
		return token.Token{Kind: token.EOF, Start: l.index}, nil
	}

	start := l.index
	switch {
	case l.peek(`[A-Za-z_]`):
		return l.lexIdentifier(start), nil
	case l.peek(`[+-]`, `\d`), l.peek(`\d`), l.peek(`\.`, `\d`):
		return l.lexNumber(start)
	case l.peek(`'`):
		return l.lexCharacter(start)
	case l.peek(`"`):
		return l.lexString(start)
	default:
		return l.lexOperator(start)
	}
}

func (l *Lexer) lexIdentifier(start int) token.Token {
	l.match(`[A-Za-z_]`)
	for l.match(`[A-Za-z0-9_-]`) {
	}
	return token.Token{Kind: token.Identifier, Literal: l.input[start:l.index], Start: start}
}

// lexNumber consumes an optional leading sign, an integer part (leading
// zero permitted only as a lone "0"), and an optional fractional part that
// promotes the token to Decimal.
func (l *Lexer) lexNumber(start int) (token.Token, error) {
	l.match(`[+-]`)

	if l.match(`0`) {
		if l.peek(`\d`) {
			return token.Token{}, diagnostics.NewAt(diagnostics.PhaseLexer, diagnostics.ErrL001, start, l.input[start:l.index+1])
		}
	} else {
		if !l.match(`[1-9]`) {
			return token.Token{}, diagnostics.NewAt(diagnostics.PhaseLexer, diagnostics.ErrL001, start, string(l.input[l.index]))
		}
		for l.match(`\d`) {
		}
	}

	kind := token.Integer
	if l.peek(`\.`, `\d`) {
		kind = token.Decimal
		l.match(`\.`)
		for l.match(`\d`) {
		}
	}
	return token.Token{Kind: kind, Literal: l.input[start:l.index], Start: start}, nil
}

func (l *Lexer) lexCharacter(start int) (token.Token, error) {
	l.match(`'`)
	switch {
	case l.match(`\\`):
		if !l.match(`[bnrt'"\\]`) {
			return token.Token{}, diagnostics.NewAt(diagnostics.PhaseLexer, diagnostics.ErrL003, start)
		}
	case l.peek(`'`):
		// empty character literal ''
		return token.Token{}, diagnostics.NewAt(diagnostics.PhaseLexer, diagnostics.ErrL003, start)
	default:
		if !l.match(`[^'\n]`) {
			return token.Token{}, diagnostics.NewAt(diagnostics.PhaseLexer, diagnostics.ErrL003, start)
		}
	}
	if !l.match(`'`) {
		return token.Token{}, diagnostics.NewAt(diagnostics.PhaseLexer, diagnostics.ErrL003, l.index)
	}
	return token.Token{Kind: token.Character, Literal: l.input[start:l.index], Start: start}, nil
}

func (l *Lexer) lexString(start int) (token.Token, error) {
	l.match(`"`)
	for !l.peek(`"`) {
		if l.atEnd() {
			return token.Token{}, diagnostics.NewAt(diagnostics.PhaseLexer, diagnostics.ErrL002, l.index)
		}
		if l.match(`\\`) {
			if !l.match(`[bnrt'"\\]`) {
				return token.Token{}, diagnostics.NewAt(diagnostics.PhaseLexer, diagnostics.ErrL002, l.index)
			}
			continue
		}
		if !l.match(`[^"\n]`) {
			return token.Token{}, diagnostics.NewAt(diagnostics.PhaseLexer, diagnostics.ErrL002, l.index)
		}
	}
	l.match(`"`)
	return token.Token{Kind: token.String, Literal: l.input[start:l.index], Start: start}, nil
}

var twoCharOperators = []string{"<=", ">=", "==", "!=", "&&", "||"}

func (l *Lexer) lexOperator(start int) (token.Token, error) {
	for _, op := range twoCharOperators {
		if l.match(regexp.QuoteMeta(string(op[0])), regexp.QuoteMeta(string(op[1]))) {
			return token.Token{Kind: token.Operator, Literal: op, Start: start}, nil
		}
	}
	if l.match(`[^ \b\n\r\t]`) {
		return token.Token{Kind: token.Operator, Literal: l.input[start:l.index], Start: start}, nil
	}
	return token.Token{}, diagnostics.NewAt(diagnostics.PhaseLexer, diagnostics.ErrL001, start, string(l.input[start]))
}
