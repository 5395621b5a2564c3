// Package emitter prints an *ast.Source back out as equivalent Target
// source: a single public class wrapping PLC's fields as static fields and
// its methods as static methods, grounded on the teacher's
// internal/prettyprinter code printer — including its Accept/Visitor double
// dispatch — but collapsed to PLC's much simpler operator-precedence ladder
// and type system.
package emitter

import (
	"bytes"
	"fmt"

	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/types"
)

// printer accumulates Target source with indent-tracked line writes, the
// same bytes.Buffer + indent-counter shape as CodePrinter, and implements
// ast.Visitor the same way CodePrinter implements prettyprinter.Visitor.
type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *printer) line(format string, args ...interface{}) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) write(s string) {
	p.buf.WriteString(s)
}

// Emit renders src as a complete Target-language compilation unit: a class
// wrapper around whatever VisitSource prints for it.
func Emit(src *ast.Source) string {
	p := &printer{}
	p.line("public class Program {")
	p.indent++
	src.Accept(p)
	p.indent--
	p.line("}")
	return p.buf.String()
}

// VisitSource prints each Field, the conventional entry point that invokes
// main and exits with its return value, then each Method — the order
// spec.md §4.5 names.
func (p *printer) VisitSource(src *ast.Source) {
	for _, field := range src.Fields {
		field.Accept(p)
	}
	if len(src.Fields) > 0 {
		p.buf.WriteByte('\n')
	}
	p.emitEntryPoint()
	if len(src.Methods) > 0 {
		p.buf.WriteByte('\n')
	}
	for i, method := range src.Methods {
		if i > 0 {
			p.buf.WriteByte('\n')
		}
		method.Accept(p)
	}
}

// emitEntryPoint prints the conventional `public static void main(String[])`
// the JVM looks for, which in turn invokes this program's own main/0 and
// exits with its result.
func (p *printer) emitEntryPoint() {
	p.line("public static void main(String[] args) {")
	p.indent++
	p.line("System.exit(main());")
	p.indent--
	p.line("}")
}

func (p *printer) VisitField(field *ast.Field) {
	fieldType, _ := types.Lookup(field.TypeName)
	modifiers := "static"
	if field.Constant {
		modifiers = "static final"
	}
	if field.Initializer != nil {
		p.writeIndent()
		fmt.Fprintf(&p.buf, "%s %s %s = ", modifiers, fieldType.TargetName(), field.Name)
		p.writeExpr(field.Initializer, 0, false)
		p.write(";\n")
		return
	}
	p.line("%s %s %s;", modifiers, fieldType.TargetName(), field.Name)
}

func (p *printer) VisitMethod(method *ast.Method) {
	returnType := types.Nil
	if method.ReturnTypeName != "" {
		returnType, _ = types.Lookup(method.ReturnTypeName)
	}

	params := ""
	for i, param := range method.Parameters {
		if i > 0 {
			params += ", "
		}
		paramType, _ := types.Lookup(param.TypeName)
		params += paramType.TargetName() + " " + param.Name
	}

	p.line("static %s %s(%s) {", returnType.TargetName(), method.Name, params)
	p.indent++
	p.emitStatements(method.Statements)
	p.indent--
	p.line("}")
}
