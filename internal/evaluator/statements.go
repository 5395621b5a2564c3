package evaluator

import (
	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/scope"
)

// Outcome is the tagged result of running a statement list: either nothing
// noteworthy happened (Returned == false) or a RETURN unwound to here with
// Value, per spec.md §9's design note against modeling non-local return as
// a Go panic/recover pair.
type Outcome struct {
	Returned bool
	Value    interface{}
}

func (e *Evaluator) execStatements(stmts []ast.Statement, s *scope.Scope) (Outcome, error) {
	for _, stmt := range stmts {
		outcome, err := e.execStatement(stmt, s)
		if err != nil {
			return Outcome{}, err
		}
		if outcome.Returned {
			return outcome, nil
		}
	}
	return Outcome{}, nil
}

func (e *Evaluator) execStatement(stmt ast.Statement, s *scope.Scope) (Outcome, error) {
	switch st := stmt.(type) {
	case *ast.ExpressionStatement:
		_, err := e.evalExpr(st.Expr, s)
		return Outcome{}, err
	case *ast.Declaration:
		return Outcome{}, e.execDeclaration(st, s)
	case *ast.Assignment:
		return Outcome{}, e.execAssignment(st, s)
	case *ast.If:
		return e.execIf(st, s)
	case *ast.For:
		return e.execFor(st, s)
	case *ast.While:
		return e.execWhile(st, s)
	case *ast.Return:
		value, err := e.evalExpr(st.Value, s)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Returned: true, Value: value}, nil
	default:
		return Outcome{}, nil
	}
}

func (e *Evaluator) execDeclaration(st *ast.Declaration, s *scope.Scope) error {
	var value interface{}
	if st.Initializer != nil {
		v, err := e.evalExpr(st.Initializer, s)
		if err != nil {
			return err
		}
		value = v
	}
	s.DefineVariable(&scope.Variable{Name: st.Name, TargetName: st.Name, Value: value})
	return nil
}

// execAssignment only ever sees a bare-name receiver: the Analyzer rejects
// every other Access shape before the program can reach the Evaluator.
func (e *Evaluator) execAssignment(st *ast.Assignment, s *scope.Scope) error {
	access := st.Receiver.(*ast.Access)
	value, err := e.evalExpr(st.Value, s)
	if err != nil {
		return err
	}
	v, _ := s.LookupVariable(access.Name)
	v.Value = value
	return nil
}

func (e *Evaluator) execIf(st *ast.If, s *scope.Scope) (Outcome, error) {
	cond, err := e.evalExpr(st.Condition, s)
	if err != nil {
		return Outcome{}, err
	}
	if cond.(bool) {
		return e.execStatements(st.Then, scope.New(s))
	}
	if st.Else != nil {
		return e.execStatements(st.Else, scope.New(s))
	}
	return Outcome{}, nil
}

func (e *Evaluator) execWhile(st *ast.While, s *scope.Scope) (Outcome, error) {
	for {
		cond, err := e.evalExpr(st.Condition, s)
		if err != nil {
			return Outcome{}, err
		}
		if !cond.(bool) {
			return Outcome{}, nil
		}
		outcome, err := e.execStatements(st.Statements, scope.New(s))
		if err != nil {
			return Outcome{}, err
		}
		if outcome.Returned {
			return outcome, nil
		}
	}
}

// execFor runs the optional init once in the surrounding scope s, then
// repeatedly: evaluates the condition in s, and — while true — runs the
// body and the increment together inside one fresh per-iteration scope
// before discarding it, per spec.md §4.4.
func (e *Evaluator) execFor(st *ast.For, s *scope.Scope) (Outcome, error) {
	if st.Init != nil {
		if _, err := e.execStatement(st.Init, s); err != nil {
			return Outcome{}, err
		}
	}
	for {
		if st.Condition != nil {
			cond, err := e.evalExpr(st.Condition, s)
			if err != nil {
				return Outcome{}, err
			}
			if !cond.(bool) {
				return Outcome{}, nil
			}
		}

		iteration := scope.New(s)
		outcome, err := e.execStatements(st.Statements, iteration)
		if err != nil {
			return Outcome{}, err
		}
		if outcome.Returned {
			return outcome, nil
		}
		if st.Increment != nil {
			if _, err := e.execStatement(st.Increment, iteration); err != nil {
				return Outcome{}, err
			}
		}
	}
}
