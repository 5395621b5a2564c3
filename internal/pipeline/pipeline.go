// Package pipeline composes PLC's passes — lex, parse, analyze, and then
// either evaluate or emit — into a single ordered run over a shared
// Context, the way cmd/plc's subcommands and the REPL both drive the
// front end.
package pipeline

// Processor is one stage that consumes and updates a Context.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline runs an ordered list of Processors over one Context, short
// circuiting as soon as a stage records an error.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline from stages in run order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, stopping at the first one that leaves
// ctx.Err set.
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, processor := range p.processors {
		if ctx.Err != nil {
			return ctx
		}
		ctx = processor.Process(ctx)
	}
	return ctx
}
