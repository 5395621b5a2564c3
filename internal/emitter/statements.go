package emitter

import (
	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/types"
)

func (p *printer) emitStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		stmt.Accept(p)
	}
}

func (p *printer) VisitExpressionStatement(st *ast.ExpressionStatement) {
	p.writeIndent()
	p.writeExpr(st.Expr, 0, false)
	p.write(";\n")
}

func (p *printer) VisitDeclaration(st *ast.Declaration) {
	p.writeIndent()
	p.write(localTypeName(st.TypeName) + " " + st.Name)
	if st.Initializer != nil {
		p.write(" = ")
		p.writeExpr(st.Initializer, 0, false)
	}
	p.write(";\n")
}

func (p *printer) VisitAssignment(st *ast.Assignment) {
	p.writeIndent()
	p.writeExpr(st.Receiver, 0, false)
	p.write(" = ")
	p.writeExpr(st.Value, 0, false)
	p.write(";\n")
}

func (p *printer) VisitIf(st *ast.If) {
	p.writeIndent()
	p.write("if (")
	p.writeExpr(st.Condition, 0, false)
	p.write(") {\n")
	p.indent++
	p.emitStatements(st.Then)
	p.indent--
	if st.Else != nil {
		p.line("} else {")
		p.indent++
		p.emitStatements(st.Else)
		p.indent--
	}
	p.line("}")
}

func (p *printer) VisitWhile(st *ast.While) {
	p.writeIndent()
	p.write("while (")
	p.writeExpr(st.Condition, 0, false)
	p.write(") {\n")
	p.indent++
	p.emitStatements(st.Statements)
	p.indent--
	p.line("}")
}

func (p *printer) VisitFor(st *ast.For) {
	p.writeIndent()
	p.write("for (")
	if st.Init != nil {
		p.writeInline(st.Init)
	}
	p.write("; ")
	if st.Condition != nil {
		p.writeExpr(st.Condition, 0, false)
	}
	p.write("; ")
	if st.Increment != nil {
		p.writeInline(st.Increment)
	}
	p.write(") {\n")
	p.indent++
	p.emitStatements(st.Statements)
	p.indent--
	p.line("}")
}

func (p *printer) VisitReturn(st *ast.Return) {
	p.writeIndent()
	p.write("return ")
	p.writeExpr(st.Value, 0, false)
	p.write(";\n")
}

// writeInline renders a Declaration or Assignment without its trailing ';'
// or newline, for a for(...) header's init/increment clause. This is a
// special-cased type switch rather than Accept dispatch, the same way
// CodePrinter's own printExpr special-cases operator precedence before
// falling back to Accept — the trailing punctuation differs too much from
// the Visit methods' own statement-level output to reuse them here.
func (p *printer) writeInline(stmt ast.Statement) {
	switch st := stmt.(type) {
	case *ast.Declaration:
		p.write(localTypeName(st.TypeName) + " " + st.Name)
		if st.Initializer != nil {
			p.write(" = ")
			p.writeExpr(st.Initializer, 0, false)
		}
	case *ast.Assignment:
		p.writeExpr(st.Receiver, 0, false)
		p.write(" = ")
		p.writeExpr(st.Value, 0, false)
	case *ast.ExpressionStatement:
		p.writeExpr(st.Expr, 0, false)
	}
}

// localTypeName is the Target type keyword for a local declaration: the
// declared type's target name, or Target's own inferred-local keyword when
// PLC's grammar let the type annotation be omitted.
func localTypeName(typeName string) string {
	if typeName == "" {
		return "var"
	}
	t, ok := types.Lookup(typeName)
	if !ok {
		return "var"
	}
	return t.TargetName()
}
