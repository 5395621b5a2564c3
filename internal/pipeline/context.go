package pipeline

import (
	"io"

	"github.com/plclang/plc/internal/analyzer"
	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/token"
)

// Context holds everything passed between pipeline stages. Each stage only
// writes the field(s) it owns; Err, once set, stops the Pipeline.
type Context struct {
	Source string
	Output io.Writer

	Tokens []token.Token
	AST    *ast.Source
	Info   *analyzer.Info

	// Emitted holds the target-language source EmitProcessor produced.
	Emitted string
	// ExitCode holds RunProcessor's result: main()'s returned Integer.
	ExitCode int64

	Err error
}

// NewContext starts a fresh run over source, writing any print/1 output to
// out.
func NewContext(source string, out io.Writer) *Context {
	return &Context{Source: source, Output: out}
}
