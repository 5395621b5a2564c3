package evaluator

import (
	"math/big"
	"strings"

	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/bignum"
	"github.com/plclang/plc/internal/diagnostics"
	"github.com/plclang/plc/internal/scope"
)

func (e *Evaluator) evalExpr(expr ast.Expression, s *scope.Scope) (interface{}, error) {
	switch ex := expr.(type) {
	case *ast.Literal:
		return e.evalLiteral(ex)
	case *ast.Group:
		return e.evalExpr(ex.Inner, s)
	case *ast.Binary:
		return e.evalBinary(ex, s)
	case *ast.Access:
		return e.evalAccess(ex, s)
	case *ast.Call:
		return e.evalCall(ex, s)
	default:
		return nil, diagnostics.NewWithout(diagnostics.PhaseRuntime, diagnostics.ErrR001, "unsupported expression")
	}
}

func (e *Evaluator) evalLiteral(lit *ast.Literal) (interface{}, error) {
	switch lit.Kind {
	case ast.LiteralNil:
		return nil, nil
	case ast.LiteralBoolean:
		return lit.Bool, nil
	case ast.LiteralCharacter:
		return lit.Char, nil
	case ast.LiteralString:
		return lit.Str, nil
	case ast.LiteralInteger:
		n := new(big.Int)
		n.SetString(strings.TrimPrefix(lit.IntegerText, "+"), 10)
		return n, nil
	case ast.LiteralDecimal:
		d, _ := bignum.ParseDecimal(lit.DecimalText)
		return d, nil
	default:
		return nil, diagnostics.NewWithout(diagnostics.PhaseRuntime, diagnostics.ErrR001, "unsupported literal")
	}
}

// evalAccess only ever sees a bare name: receiver-qualified Access never
// survives analysis (no primitive type declares a member), so reaching
// that branch here would mean the Evaluator ran over an unanalyzed tree.
func (e *Evaluator) evalAccess(access *ast.Access, s *scope.Scope) (interface{}, error) {
	if access.Receiver != nil {
		return nil, diagnostics.NewWithout(diagnostics.PhaseRuntime, diagnostics.ErrR001, "member access is not supported")
	}
	v, ok := s.LookupVariable(access.Name)
	if !ok {
		return nil, diagnostics.NewWithout(diagnostics.PhaseRuntime, diagnostics.ErrR001, "undeclared name: "+access.Name)
	}
	return v.Value, nil
}

func (e *Evaluator) evalCall(call *ast.Call, s *scope.Scope) (interface{}, error) {
	if call.Receiver != nil {
		return nil, diagnostics.NewWithout(diagnostics.PhaseRuntime, diagnostics.ErrR001, "member calls are not supported")
	}
	f, ok := s.LookupFunction(call.Name, len(call.Arguments))
	if !ok {
		return nil, diagnostics.NewWithout(diagnostics.PhaseRuntime, diagnostics.ErrR001, "undeclared function: "+call.Name)
	}
	args := make([]interface{}, len(call.Arguments))
	for i, arg := range call.Arguments {
		v, err := e.evalExpr(arg, s)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return e.callFunction(f, args)
}

func (e *Evaluator) evalBinary(bin *ast.Binary, s *scope.Scope) (interface{}, error) {
	switch bin.Operator {
	case "&&":
		left, err := e.evalExpr(bin.Left, s)
		if err != nil {
			return nil, err
		}
		lb, ok := left.(bool)
		if !ok {
			return nil, mixedOperandTypesError("&&")
		}
		if !lb {
			return false, nil
		}
		right, err := e.evalExpr(bin.Right, s)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(bool)
		if !ok {
			return nil, mixedOperandTypesError("&&")
		}
		return rb, nil

	case "||":
		left, err := e.evalExpr(bin.Left, s)
		if err != nil {
			return nil, err
		}
		lb, ok := left.(bool)
		if !ok {
			return nil, mixedOperandTypesError("||")
		}
		if lb {
			return true, nil
		}
		right, err := e.evalExpr(bin.Right, s)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(bool)
		if !ok {
			return nil, mixedOperandTypesError("||")
		}
		return rb, nil
	}

	left, err := e.evalExpr(bin.Left, s)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(bin.Right, s)
	if err != nil {
		return nil, err
	}

	switch bin.Operator {
	case "<", "<=", ">", ">=", "==", "!=":
		cmp, ok := compareValues(left, right)
		if !ok {
			return nil, mixedOperandTypesError(bin.Operator)
		}
		switch bin.Operator {
		case "<":
			return cmp < 0, nil
		case "<=":
			return cmp <= 0, nil
		case ">":
			return cmp > 0, nil
		case ">=":
			return cmp >= 0, nil
		case "==":
			return cmp == 0, nil
		default: // "!="
			return cmp != 0, nil
		}

	case "+":
		if ls, ok := left.(string); ok {
			return ls + stringify(right), nil
		}
		if rs, ok := right.(string); ok {
			return stringify(left) + rs, nil
		}
		switch li := left.(type) {
		case *big.Int:
			ri, ok := right.(*big.Int)
			if !ok {
				return nil, mixedOperandTypesError("+")
			}
			return new(big.Int).Add(li, ri), nil
		case bignum.Decimal:
			rd, ok := right.(bignum.Decimal)
			if !ok {
				return nil, mixedOperandTypesError("+")
			}
			return bignum.Add(li, rd), nil
		default:
			return nil, mixedOperandTypesError("+")
		}

	case "-":
		switch li := left.(type) {
		case *big.Int:
			ri, ok := right.(*big.Int)
			if !ok {
				return nil, mixedOperandTypesError("-")
			}
			return new(big.Int).Sub(li, ri), nil
		case bignum.Decimal:
			rd, ok := right.(bignum.Decimal)
			if !ok {
				return nil, mixedOperandTypesError("-")
			}
			return bignum.Sub(li, rd), nil
		default:
			return nil, mixedOperandTypesError("-")
		}

	case "*":
		switch li := left.(type) {
		case *big.Int:
			ri, ok := right.(*big.Int)
			if !ok {
				return nil, mixedOperandTypesError("*")
			}
			return new(big.Int).Mul(li, ri), nil
		case bignum.Decimal:
			rd, ok := right.(bignum.Decimal)
			if !ok {
				return nil, mixedOperandTypesError("*")
			}
			return bignum.Mul(li, rd), nil
		default:
			return nil, mixedOperandTypesError("*")
		}

	case "/":
		switch li := left.(type) {
		case *big.Int:
			ri, ok := right.(*big.Int)
			if !ok {
				return nil, mixedOperandTypesError("/")
			}
			if ri.Sign() == 0 {
				return nil, diagnostics.NewWithout(diagnostics.PhaseRuntime, diagnostics.ErrR001, "division by zero")
			}
			return new(big.Int).Quo(li, ri), nil
		case bignum.Decimal:
			rd, ok := right.(bignum.Decimal)
			if !ok {
				return nil, mixedOperandTypesError("/")
			}
			result, ok := bignum.Div(li, rd)
			if !ok {
				return nil, diagnostics.NewWithout(diagnostics.PhaseRuntime, diagnostics.ErrR001, "division by zero")
			}
			return result, nil
		default:
			return nil, mixedOperandTypesError("/")
		}

	default:
		return nil, diagnostics.NewWithout(diagnostics.PhaseRuntime, diagnostics.ErrR001, "unknown operator: "+bin.Operator)
	}
}

// mixedOperandTypesError reports an arithmetic operator applied to operands
// of different runtime kinds (e.g. Integer and Decimal). The Analyzer
// already rejects this on an analyzed tree; the Evaluator must still check
// it itself, since spec.md's Evaluator contract also covers running an
// untyped AST directly.
func mixedOperandTypesError(op string) error {
	return diagnostics.NewWithout(diagnostics.PhaseRuntime, diagnostics.ErrR001, "mismatched operand types for '"+op+"'")
}

// compareValues orders two values of the same Comparable primitive type
// (Integer, Decimal, Character, or String — the only pairing the Analyzer
// ever lets through a comparison operator). ok is false when left and right
// are not the same comparable kind, which only a comparison run over an
// unanalyzed AST can produce.
func compareValues(left, right interface{}) (cmp int, ok bool) {
	switch l := left.(type) {
	case *big.Int:
		r, ok := right.(*big.Int)
		if !ok {
			return 0, false
		}
		return l.Cmp(r), true
	case bignum.Decimal:
		r, ok := right.(bignum.Decimal)
		if !ok {
			return 0, false
		}
		return bignum.Cmp(l, r), true
	case rune:
		r, ok := right.(rune)
		if !ok {
			return 0, false
		}
		switch {
		case l < r:
			return -1, true
		case l > r:
			return 1, true
		default:
			return 0, true
		}
	case string:
		r, ok := right.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(l, r), true
	default:
		return 0, false
	}
}

// stringify renders a runtime value the way print/1 and String-widening '+'
// display it.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case rune:
		return string(val)
	case string:
		return val
	case *big.Int:
		return val.String()
	case bignum.Decimal:
		return val.String()
	default:
		return ""
	}
}
