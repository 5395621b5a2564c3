package pipeline

import (
	"github.com/plclang/plc/internal/analyzer"
	"github.com/plclang/plc/internal/emitter"
	"github.com/plclang/plc/internal/evaluator"
	"github.com/plclang/plc/internal/lexer"
	"github.com/plclang/plc/internal/parser"
)

// LexProcessor tokenizes ctx.Source into ctx.Tokens.
type LexProcessor struct{}

func (LexProcessor) Process(ctx *Context) *Context {
	tokens, err := lexer.Tokenize(ctx.Source)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Tokens = tokens
	return ctx
}

// ParseProcessor builds ctx.AST from ctx.Tokens.
type ParseProcessor struct{}

func (ParseProcessor) Process(ctx *Context) *Context {
	src, err := parser.Parse(ctx.Tokens)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.AST = src
	return ctx
}

// AnalyzeProcessor validates ctx.AST and fills in ctx.Info.
type AnalyzeProcessor struct{}

func (AnalyzeProcessor) Process(ctx *Context) *Context {
	info, err := analyzer.Analyze(ctx.AST)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Info = info
	return ctx
}

// RunProcessor evaluates ctx.AST, writing print/1 output to ctx.Output and
// recording main()'s result in ctx.ExitCode.
type RunProcessor struct{}

func (RunProcessor) Process(ctx *Context) *Context {
	exitCode, err := evaluator.Run(ctx.AST, ctx.Output)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.ExitCode = exitCode
	return ctx
}

// EmitProcessor prints ctx.AST as target-language source into ctx.Emitted.
type EmitProcessor struct{}

func (EmitProcessor) Process(ctx *Context) *Context {
	ctx.Emitted = emitter.Emit(ctx.AST)
	return ctx
}

// Lex runs only the lexer stage, for tools that need just a token stream.
func Lex(source string) *Context {
	return New(LexProcessor{}).Run(NewContext(source, nil))
}

// Analyze runs lex, parse, and analyze.
func Analyze(source string) *Context {
	return New(LexProcessor{}, ParseProcessor{}, AnalyzeProcessor{}).Run(NewContext(source, nil))
}
