// Package analyzer performs semantic analysis over a parsed *ast.Source:
// name resolution, type inference and checking, and the program-level
// main/0->Integer rule. It does not restructure the AST; every resolved
// type and every resolved Variable/Function reference is recorded in an
// *Info keyed by node identity, per spec.md §9's design note against
// interior AST mutation.
package analyzer

import (
	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/diagnostics"
	"github.com/plclang/plc/internal/scope"
	"github.com/plclang/plc/internal/types"
)

// Info is the side-table the Analyzer fills in: every Expression's resolved
// type, and every Access/Call/Field/Method node's resolved Variable or
// Function.
type Info struct {
	Types     map[ast.Expression]types.Type
	Variables map[ast.Node]*scope.Variable
	Functions map[ast.Node]*scope.Function
}

func newInfo() *Info {
	return &Info{
		Types:     make(map[ast.Expression]types.Type),
		Variables: make(map[ast.Node]*scope.Variable),
		Functions: make(map[ast.Node]*scope.Function),
	}
}

// TypeOf returns the resolved type of e, which must have already been
// analyzed.
func (info *Info) TypeOf(e ast.Expression) types.Type {
	return info.Types[e]
}

type analyzer struct {
	global        *scope.Scope
	info          *Info
	currentReturn types.Type
	inMethod      bool
}

// Analyze runs semantic analysis over src, returning the resolved Info or
// the first semantic violation found.
func Analyze(src *ast.Source) (*Info, error) {
	a := &analyzer{global: scope.New(nil), info: newInfo()}
	a.registerBuiltins()

	if err := a.registerSignatures(src); err != nil {
		return nil, err
	}
	for _, field := range src.Fields {
		if err := a.analyzeFieldBody(field); err != nil {
			return nil, err
		}
	}
	for _, method := range src.Methods {
		if err := a.analyzeMethodBody(method); err != nil {
			return nil, err
		}
	}
	if err := a.checkMain(); err != nil {
		return nil, err
	}
	return a.info, nil
}

// registerBuiltins installs the single built-in function print/1, taking
// Any and returning Nil, with a target name the Emitter prints instead of
// the source name (spec.md §4.5 "Access / Call").
func (a *analyzer) registerBuiltins() {
	a.global.DefineFunction(&scope.Function{
		Name:       "print",
		TargetName: "System.out.println",
		ParamTypes: []types.Type{types.Any},
		ReturnType: types.Nil,
	})
}

// registerSignatures is pass 1: every field and method name/type is bound
// in the global scope before any body is analyzed, so forward references
// (a method calling one declared later) resolve correctly.
func (a *analyzer) registerSignatures(src *ast.Source) error {
	for _, field := range src.Fields {
		fieldType, ok := types.Lookup(field.TypeName)
		if !ok {
			return diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA002, field.TypeName)
		}
		v := &scope.Variable{Name: field.Name, TargetName: field.Name, Type: fieldType, Constant: field.Constant}
		if !a.global.DefineVariable(v) {
			return diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA004, field.Name)
		}
		a.info.Variables[field] = v
	}
	for _, method := range src.Methods {
		returnType := types.Nil
		if method.ReturnTypeName != "" {
			t, ok := types.Lookup(method.ReturnTypeName)
			if !ok {
				return diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA002, method.ReturnTypeName)
			}
			returnType = t
		}
		paramTypes := make([]types.Type, len(method.Parameters))
		for i, p := range method.Parameters {
			t, ok := types.Lookup(p.TypeName)
			if !ok {
				return diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA002, p.TypeName)
			}
			paramTypes[i] = t
		}
		f := &scope.Function{Name: method.Name, TargetName: method.Name, ParamTypes: paramTypes, ReturnType: returnType}
		if !a.global.DefineFunction(f) {
			return diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA004, method.Name)
		}
		a.info.Functions[method] = f
	}
	return nil
}

func (a *analyzer) analyzeFieldBody(field *ast.Field) error {
	if field.Initializer == nil {
		return nil
	}
	v := a.info.Variables[field]
	exprType, err := a.analyzeExpression(field.Initializer, a.global)
	if err != nil {
		return err
	}
	if !types.Assignable(v.Type, exprType) {
		return diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA003,
			"field '"+field.Name+"' initializer has type "+exprType.String()+", expected "+v.Type.String())
	}
	return nil
}

func (a *analyzer) checkMain() error {
	main, ok := a.global.LookupFunction("main", 0)
	if !ok || !main.ReturnType.Equal(types.Integer) {
		return diagnostics.NewWithout(diagnostics.PhaseAnalyzer, diagnostics.ErrA006)
	}
	return nil
}
