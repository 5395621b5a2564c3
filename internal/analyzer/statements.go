package analyzer

import (
	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/diagnostics"
	"github.com/plclang/plc/internal/scope"
	"github.com/plclang/plc/internal/types"
)

// analyzeMethodBody binds a method's parameters into a fresh child scope of
// global, then walks its statements under that method's resolved return
// type.
func (a *analyzer) analyzeMethodBody(method *ast.Method) error {
	f := a.info.Functions[method]
	methodScope := scope.New(a.global)
	for i, p := range method.Parameters {
		v := &scope.Variable{Name: p.Name, TargetName: p.Name, Type: f.ParamTypes[i]}
		if !methodScope.DefineVariable(v) {
			return diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA004, p.Name)
		}
	}

	outerReturn, outerInMethod := a.currentReturn, a.inMethod
	a.currentReturn, a.inMethod = f.ReturnType, true
	defer func() { a.currentReturn, a.inMethod = outerReturn, outerInMethod }()

	return a.analyzeStatements(method.Statements, methodScope)
}

func (a *analyzer) analyzeStatements(stmts []ast.Statement, s *scope.Scope) error {
	for _, stmt := range stmts {
		if err := a.analyzeStatement(stmt, s); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) analyzeStatement(stmt ast.Statement, s *scope.Scope) error {
	switch st := stmt.(type) {
	case *ast.ExpressionStatement:
		return a.analyzeExpressionStatement(st, s)
	case *ast.Declaration:
		return a.analyzeDeclaration(st, s)
	case *ast.Assignment:
		return a.analyzeAssignment(st, s)
	case *ast.If:
		return a.analyzeIf(st, s)
	case *ast.For:
		return a.analyzeFor(st, s)
	case *ast.While:
		return a.analyzeWhile(st, s)
	case *ast.Return:
		return a.analyzeReturn(st, s)
	default:
		return typeErrorf("unsupported statement %T", stmt)
	}
}

// analyzeExpressionStatement requires the expression to be a call: PLC has
// no other expression form with a useful side effect to execute for its
// value alone.
func (a *analyzer) analyzeExpressionStatement(st *ast.ExpressionStatement, s *scope.Scope) error {
	if _, ok := st.Expr.(*ast.Call); !ok {
		return typeErrorf("a statement expression must be a call")
	}
	_, err := a.analyzeExpression(st.Expr, s)
	return err
}

func (a *analyzer) analyzeDeclaration(st *ast.Declaration, s *scope.Scope) error {
	if st.TypeName == "" && st.Initializer == nil {
		return typeErrorf("declaration of '%s' needs a type or an initializer", st.Name)
	}

	var declared types.Type
	if st.TypeName != "" {
		t, ok := types.Lookup(st.TypeName)
		if !ok {
			return diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA002, st.TypeName)
		}
		declared = t
	}

	if st.Initializer != nil {
		exprType, err := a.analyzeExpression(st.Initializer, s)
		if err != nil {
			return err
		}
		if st.TypeName == "" {
			declared = exprType
		} else if !types.Assignable(declared, exprType) {
			return typeErrorf("'%s' initializer has type %s, expected %s", st.Name, exprType, declared)
		}
	}

	v := &scope.Variable{Name: st.Name, TargetName: st.Name, Type: declared}
	if !s.DefineVariable(v) {
		return diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA004, st.Name)
	}
	a.info.Variables[st] = v
	return nil
}

func (a *analyzer) analyzeAssignment(st *ast.Assignment, s *scope.Scope) error {
	access, ok := st.Receiver.(*ast.Access)
	if !ok {
		return typeErrorf("the left side of an assignment must be a variable")
	}
	receiverType, err := a.analyzeExpression(access, s)
	if err != nil {
		return err
	}
	if v, ok := a.info.Variables[access]; ok && v.Constant {
		return diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA005, access.Name)
	}

	valueType, err := a.analyzeExpression(st.Value, s)
	if err != nil {
		return err
	}
	if !types.Assignable(receiverType, valueType) {
		return typeErrorf("cannot assign %s to '%s' of type %s", valueType, access.Name, receiverType)
	}
	return nil
}

func (a *analyzer) analyzeIf(st *ast.If, s *scope.Scope) error {
	if err := a.requireBoolean(st.Condition, s); err != nil {
		return err
	}
	if len(st.Then) == 0 {
		return typeErrorf("an 'IF' branch must not be empty")
	}
	if err := a.analyzeStatements(st.Then, scope.New(s)); err != nil {
		return err
	}
	if st.Else != nil {
		if len(st.Else) == 0 {
			return typeErrorf("an 'ELSE' branch must not be empty")
		}
		if err := a.analyzeStatements(st.Else, scope.New(s)); err != nil {
			return err
		}
	}
	return nil
}

// analyzeFor analyzes init and condition directly in the surrounding scope
// s, then the body followed by the increment in one child scope of s (a
// single scope object, since iteration is not replayed here the way the
// Evaluator replays it at runtime with a fresh scope per iteration).
func (a *analyzer) analyzeFor(st *ast.For, s *scope.Scope) error {
	if st.Init != nil {
		if err := a.analyzeStatement(st.Init, s); err != nil {
			return err
		}
	}
	if st.Condition != nil {
		if err := a.requireBoolean(st.Condition, s); err != nil {
			return err
		}
	}
	if len(st.Statements) == 0 {
		return typeErrorf("a 'FOR' body must not be empty")
	}
	iteration := scope.New(s)
	if err := a.analyzeStatements(st.Statements, iteration); err != nil {
		return err
	}
	if st.Increment != nil {
		// Analyzed in the same per-iteration scope the Evaluator shares
		// between body and increment (spec.md §4.4), so an increment
		// referencing a body-declared local resolves the same way here.
		if err := a.analyzeStatement(st.Increment, iteration); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) analyzeWhile(st *ast.While, s *scope.Scope) error {
	if err := a.requireBoolean(st.Condition, s); err != nil {
		return err
	}
	if len(st.Statements) == 0 {
		return typeErrorf("a 'WHILE' body must not be empty")
	}
	return a.analyzeStatements(st.Statements, scope.New(s))
}

func (a *analyzer) analyzeReturn(st *ast.Return, s *scope.Scope) error {
	if !a.inMethod {
		return typeErrorf("'RETURN' outside a method body")
	}
	valueType, err := a.analyzeExpression(st.Value, s)
	if err != nil {
		return err
	}
	if !types.Assignable(a.currentReturn, valueType) {
		return typeErrorf("return value has type %s, expected %s", valueType, a.currentReturn)
	}
	return nil
}

func (a *analyzer) requireBoolean(expr ast.Expression, s *scope.Scope) error {
	t, err := a.analyzeExpression(expr, s)
	if err != nil {
		return err
	}
	if !t.Equal(types.Boolean) {
		return typeErrorf("condition must be Boolean, got %s", t)
	}
	return nil
}
