// Package repl implements an interactive PLC session: the user types a
// complete program (LET/DEF declarations, terminated by a blank line) and
// the REPL lexes, parses, analyzes, and runs it, the way cmd/plc's own
// `run` subcommand does for a file — grounded on the teacher corpus's
// readline + fatih/color REPL shape.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"

	"github.com/plclang/plc/internal/pipeline"
)

var (
	promptColor = color.New(color.FgCyan)
	errorColor  = color.New(color.FgRed)
	infoColor   = color.New(color.FgYellow)
)

// Repl is an interactive PLC session reading from a readline-backed prompt
// and writing program output and diagnostics to Writer.
type Repl struct {
	Prompt string
	Writer io.Writer
}

// New creates a Repl with the given prompt, writing to a colorable stdout
// wrapper so ANSI codes still work from a Windows console, with color
// disabled automatically when stdout is not a terminal.
func New(prompt string) *Repl {
	out := colorable.NewColorableStdout()
	if !isatty.IsTerminal(uintptr(1)) && !isatty.IsCygwinTerminal(uintptr(1)) {
		color.NoColor = true
	}
	return &Repl{Prompt: prompt, Writer: out}
}

// Start runs the read-eval-print loop until '.exit' or EOF.
func (r *Repl) Start() error {
	rl, err := readline.New(r.Prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	infoColor.Fprintln(r.Writer, "PLC interactive session. Enter a program, then a blank line to run it. Type '.exit' to quit.")

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil {
			return nil // EOF (Ctrl+D) or interrupt: exit quietly
		}
		trimmed := strings.TrimSpace(line)

		if buf.Len() == 0 && trimmed == ".exit" {
			return nil
		}
		if trimmed == "" {
			if buf.Len() == 0 {
				continue
			}
			rl.SaveHistory(buf.String())
			r.run(buf.String())
			buf.Reset()
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

func (r *Repl) run(source string) {
	ctx := pipeline.New(
		pipeline.LexProcessor{},
		pipeline.ParseProcessor{},
		pipeline.AnalyzeProcessor{},
		pipeline.RunProcessor{},
	).Run(pipeline.NewContext(source, r.Writer))

	if ctx.Err != nil {
		errorColor.Fprintln(r.Writer, ctx.Err.Error())
		return
	}
	promptColor.Fprintf(r.Writer, "(exit code %d)\n", ctx.ExitCode)
}
