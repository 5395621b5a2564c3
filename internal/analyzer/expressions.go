package analyzer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/diagnostics"
	"github.com/plclang/plc/internal/scope"
	"github.com/plclang/plc/internal/types"
)

func (a *analyzer) analyzeExpression(expr ast.Expression, s *scope.Scope) (types.Type, error) {
	t, err := a.inferType(expr, s)
	if err != nil {
		return types.Type{}, err
	}
	a.info.Types[expr] = t
	return t, nil
}

func (a *analyzer) inferType(expr ast.Expression, s *scope.Scope) (types.Type, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return a.inferLiteral(e)
	case *ast.Group:
		return a.inferGroup(e, s)
	case *ast.Binary:
		return a.inferBinary(e, s)
	case *ast.Access:
		return a.inferAccess(e, s)
	case *ast.Call:
		return a.inferCall(e, s)
	default:
		return types.Type{}, diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA003, fmt.Sprintf("unsupported expression %T", expr))
	}
}

func (a *analyzer) inferLiteral(lit *ast.Literal) (types.Type, error) {
	switch lit.Kind {
	case ast.LiteralNil:
		return types.Nil, nil
	case ast.LiteralBoolean:
		return types.Boolean, nil
	case ast.LiteralCharacter:
		return types.Character, nil
	case ast.LiteralString:
		return types.String, nil
	case ast.LiteralInteger:
		if _, err := strconv.ParseInt(lit.IntegerText, 10, 32); err != nil {
			return types.Type{}, diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA007, "Integer", lit.IntegerText)
		}
		return types.Integer, nil
	case ast.LiteralDecimal:
		v, err := strconv.ParseFloat(lit.DecimalText, 64)
		if err != nil || math.IsInf(v, 0) {
			return types.Type{}, diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA007, "Decimal", lit.DecimalText)
		}
		return types.Decimal, nil
	default:
		return types.Type{}, diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA003, "unknown literal kind")
	}
}

func (a *analyzer) inferGroup(group *ast.Group, s *scope.Scope) (types.Type, error) {
	if _, ok := group.Inner.(*ast.Binary); !ok {
		return types.Type{}, diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA003, "a parenthesized expression must wrap a binary expression")
	}
	return a.analyzeExpression(group.Inner, s)
}

func (a *analyzer) inferBinary(bin *ast.Binary, s *scope.Scope) (types.Type, error) {
	left, err := a.analyzeExpression(bin.Left, s)
	if err != nil {
		return types.Type{}, err
	}
	right, err := a.analyzeExpression(bin.Right, s)
	if err != nil {
		return types.Type{}, err
	}

	switch bin.Operator {
	case "&&", "||":
		if left.Equal(types.Boolean) && right.Equal(types.Boolean) {
			return types.Boolean, nil
		}
		return types.Type{}, typeErrorf("operator '%s' requires two Boolean operands, got %s and %s", bin.Operator, left, right)

	case "<", "<=", ">", ">=", "==", "!=":
		if left.Equal(right) && types.IsComparablePrimitive(left) {
			return types.Boolean, nil
		}
		return types.Type{}, typeErrorf("operator '%s' requires two operands of the same Comparable type, got %s and %s", bin.Operator, left, right)

	case "+":
		switch {
		case left.Equal(types.String) || right.Equal(types.String):
			return types.String, nil
		case left.Equal(types.Integer) && right.Equal(types.Integer):
			return types.Integer, nil
		case left.Equal(types.Decimal) && right.Equal(types.Decimal):
			return types.Decimal, nil
		default:
			return types.Type{}, typeErrorf("operator '+' cannot be applied to %s and %s", left, right)
		}

	case "-", "*", "/":
		switch {
		case left.Equal(types.Integer) && right.Equal(types.Integer):
			return types.Integer, nil
		case left.Equal(types.Decimal) && right.Equal(types.Decimal):
			return types.Decimal, nil
		default:
			return types.Type{}, typeErrorf("operator '%s' requires two Integer or two Decimal operands, got %s and %s", bin.Operator, left, right)
		}

	default:
		return types.Type{}, typeErrorf("unknown operator '%s'", bin.Operator)
	}
}

// inferAccess resolves a bare name against the scope chain, or a member
// name against a receiver's type. This language's type registry declares no
// member fields on any primitive, so a receiver-qualified Access always
// fails to resolve — the hook exists for spec conformance (spec.md §3
// "Types ... a small table of member fields/methods") but nothing in this
// core language populates it.
func (a *analyzer) inferAccess(access *ast.Access, s *scope.Scope) (types.Type, error) {
	if access.Receiver == nil {
		v, ok := s.LookupVariable(access.Name)
		if !ok {
			return types.Type{}, diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA001, access.Name)
		}
		a.info.Variables[access] = v
		return v.Type, nil
	}
	if _, err := a.analyzeExpression(access.Receiver, s); err != nil {
		return types.Type{}, err
	}
	return types.Type{}, diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA001, access.Name)
}

func (a *analyzer) inferCall(call *ast.Call, s *scope.Scope) (types.Type, error) {
	if call.Receiver != nil {
		if _, err := a.analyzeExpression(call.Receiver, s); err != nil {
			return types.Type{}, err
		}
		return types.Type{}, diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA001, call.Name)
	}

	f, ok := s.LookupFunction(call.Name, len(call.Arguments))
	if !ok {
		return types.Type{}, diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA001, call.Name)
	}
	for i, arg := range call.Arguments {
		argType, err := a.analyzeExpression(arg, s)
		if err != nil {
			return types.Type{}, err
		}
		if !types.Assignable(f.ParamTypes[i], argType) {
			return types.Type{}, typeErrorf("%s argument to '%s' must be %s, got %s",
				diagnostics.Ordinal(i+1), call.Name, f.ParamTypes[i], argType)
		}
	}
	a.info.Functions[call] = f
	return f.ReturnType, nil
}

func typeErrorf(format string, args ...interface{}) error {
	return diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA003, fmt.Sprintf(format, args...))
}
