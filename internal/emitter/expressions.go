package emitter

import (
	"strings"

	"github.com/plclang/plc/internal/ast"
)

// operatorPrecedence mirrors the parser's own climbing order (parseLogical
// > parseComparison > parseAdditive > parseMultiplicative), so a printed
// expression needs parentheses in exactly the same places the grammar
// required them on the way in.
var operatorPrecedence = map[string]int{
	"||": 1,
	"&&": 1,
	"<":  2, "<=": 2, ">": 2, ">=": 2, "==": 2, "!=": 2,
	"+": 3, "-": 3,
	"*": 4, "/": 4,
}

func precedenceOf(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 0
}

// writeExpr prints expr, parenthesizing a Binary child only when its
// precedence is lower than parentPrec (every PLC binary operator is
// left-associative, so equal precedence never needs parens on the left and
// always needs them on the right). This special-cases *ast.Binary the same
// way CodePrinter.printExpr special-cases *ast.InfixExpression — precedence
// tracking needs two extra arguments Accept's single-node signature has no
// room for — and falls back to real Accept/Visitor double dispatch for
// every other expression kind.
func (p *printer) writeExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if bin, ok := expr.(*ast.Binary); ok {
		prec := precedenceOf(bin.Operator)
		needParens := prec < parentPrec || (prec == parentPrec && isRight)
		if needParens {
			p.write("(")
		}
		p.writeExpr(bin.Left, prec, false)
		p.write(" " + bin.Operator + " ")
		p.writeExpr(bin.Right, prec, true)
		if needParens {
			p.write(")")
		}
		return
	}
	expr.Accept(p)
}

func (p *printer) VisitLiteral(lit *ast.Literal) {
	p.write(literalText(lit))
}

func (p *printer) VisitGroup(e *ast.Group) {
	p.write("(")
	p.writeExpr(e.Inner, 0, false)
	p.write(")")
}

// VisitBinary only runs when a Binary is reached through Accept directly
// (never through writeExpr, which special-cases Binary itself); it restarts
// precedence tracking from the top, the same way CodePrinter's own
// VisitInfixExpression calls back into printExpr(n, 0, false).
func (p *printer) VisitBinary(e *ast.Binary) {
	p.writeExpr(e, 0, false)
}

func (p *printer) VisitAccess(e *ast.Access) {
	if e.Receiver != nil {
		p.writeExpr(e.Receiver, 0, false)
		p.write(".")
	}
	p.write(e.Name)
}

func (p *printer) VisitCall(e *ast.Call) {
	if e.Receiver != nil {
		p.writeExpr(e.Receiver, 0, false)
		p.write(".")
	}
	p.write(targetName(e.Name) + "(")
	for i, arg := range e.Arguments {
		if i > 0 {
			p.write(", ")
		}
		p.writeExpr(arg, 0, false)
	}
	p.write(")")
}

// targetName maps PLC's sole built-in, print, to the Target call the
// Analyzer resolved it to (scope.Function.TargetName); every other name
// passes through unchanged since a PLC method keeps its own name in Target.
func targetName(name string) string {
	if name == "print" {
		return "System.out.println"
	}
	return name
}

func literalText(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.LiteralNil:
		return "null"
	case ast.LiteralBoolean:
		if lit.Bool {
			return "true"
		}
		return "false"
	case ast.LiteralCharacter:
		return "'" + escapeChar(lit.Char) + "'"
	case ast.LiteralString:
		return `"` + escapeString(lit.Str) + `"`
	case ast.LiteralInteger:
		return lit.IntegerText
	case ast.LiteralDecimal:
		return lit.DecimalText
	default:
		return ""
	}
}

func escapeChar(r rune) string {
	switch r {
	case '\b':
		return `\b`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\'':
		return `\'`
	case '\\':
		return `\\`
	default:
		return string(r)
	}
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\b':
			b.WriteString(`\b`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
