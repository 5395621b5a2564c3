// Package evaluator tree-walks an analyzed *ast.Source and runs it: fields
// become global Variables, methods become Functions, and main()'s Integer
// result becomes the process's exit code. Conditions and assignment
// receivers are narrowed with trusted type assertions; binary operators
// check their operands' runtime kinds and report a mismatch as a runtime
// error, so an unanalyzed tree can also be run.
package evaluator

import (
	"io"
	"math/big"

	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/bignum"
	"github.com/plclang/plc/internal/diagnostics"
	"github.com/plclang/plc/internal/scope"
	"github.com/plclang/plc/internal/types"
)

// Evaluator owns the global scope a program runs against and the mapping
// from a resolved *scope.Function back to the method body that implements
// it (scope.Function carries no AST reference, by the same side-map design
// the Analyzer uses for its own back-references).
type Evaluator struct {
	global  *scope.Scope
	methods map[*scope.Function]*ast.Method
	out     io.Writer
}

// New creates an Evaluator that writes print/1 output to out.
func New(out io.Writer) *Evaluator {
	return &Evaluator{
		global:  scope.New(nil),
		methods: make(map[*scope.Function]*ast.Method),
		out:     out,
	}
}

// Run binds src's fields and methods into a fresh global scope and invokes
// main(), returning its Integer result as the process exit code.
func Run(src *ast.Source, out io.Writer) (int64, error) {
	e := New(out)
	if err := e.bind(src); err != nil {
		return 0, err
	}
	main, ok := e.global.LookupFunction("main", 0)
	if !ok {
		return 0, diagnostics.NewWithout(diagnostics.PhaseRuntime, diagnostics.ErrR001, "main/0 is not defined")
	}
	result, err := e.callFunction(main, nil)
	if err != nil {
		return 0, err
	}
	n, ok := result.(*big.Int)
	if !ok {
		return 0, diagnostics.NewWithout(diagnostics.PhaseRuntime, diagnostics.ErrR001, "main did not return an Integer")
	}
	return n.Int64(), nil
}

func (e *Evaluator) registerBuiltins() {
	e.global.DefineFunction(&scope.Function{
		Name:       "print",
		TargetName: "System.out.println",
		ParamTypes: []types.Type{types.Any},
		ReturnType: types.Nil,
		Host: func(args []interface{}) (interface{}, error) {
			io.WriteString(e.out, stringify(args[0])+"\n")
			return nil, nil
		},
	})
}

func (e *Evaluator) bind(src *ast.Source) error {
	e.registerBuiltins()

	for _, field := range src.Fields {
		fieldType, _ := types.Lookup(field.TypeName)
		var value interface{}
		if field.Initializer != nil {
			v, err := e.evalExpr(field.Initializer, e.global)
			if err != nil {
				return err
			}
			value = v
		} else {
			value = zeroValue(fieldType)
		}
		e.global.DefineVariable(&scope.Variable{
			Name: field.Name, TargetName: field.Name,
			Type: fieldType, Constant: field.Constant, Value: value,
		})
	}

	for _, method := range src.Methods {
		returnType := types.Nil
		if method.ReturnTypeName != "" {
			returnType, _ = types.Lookup(method.ReturnTypeName)
		}
		paramTypes := make([]types.Type, len(method.Parameters))
		for i, p := range method.Parameters {
			paramTypes[i], _ = types.Lookup(p.TypeName)
		}
		f := &scope.Function{Name: method.Name, TargetName: method.Name, ParamTypes: paramTypes, ReturnType: returnType}
		e.global.DefineFunction(f)
		e.methods[f] = method
	}
	return nil
}

// callFunction invokes f with args already evaluated, dispatching to its
// host implementation (built-ins) or its method body.
func (e *Evaluator) callFunction(f *scope.Function, args []interface{}) (interface{}, error) {
	if f.Host != nil {
		return f.Host(args)
	}
	method := e.methods[f]
	methodScope := scope.New(e.global)
	for i, p := range method.Parameters {
		methodScope.DefineVariable(&scope.Variable{Name: p.Name, TargetName: p.Name, Value: args[i]})
	}
	outcome, err := e.execStatements(method.Statements, methodScope)
	if err != nil {
		return nil, err
	}
	if outcome.Returned {
		return outcome.Value, nil
	}
	return nil, nil
}

// zeroValue is the value a field of type t holds when declared without an
// initializer.
func zeroValue(t types.Type) interface{} {
	switch {
	case t.Equal(types.Integer):
		return big.NewInt(0)
	case t.Equal(types.Decimal):
		return bignum.Decimal{Unscaled: big.NewInt(0), Scale: 0}
	case t.Equal(types.Boolean):
		return false
	case t.Equal(types.Character):
		return rune(0)
	case t.Equal(types.String):
		return ""
	default:
		return nil
	}
}
