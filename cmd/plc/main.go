// Command plc drives the PLC front end and evaluator: lex, parse, analyze,
// run, or emit a source file, plus an interactive 'repl' subcommand.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/plclang/plc/internal/pipeline"
	"github.com/plclang/plc/internal/repl"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "lex":
		run(os.Args[2:], cmdLex)
	case "parse":
		run(os.Args[2:], cmdParse)
	case "analyze":
		run(os.Args[2:], cmdAnalyze)
	case "run":
		run(os.Args[2:], cmdRun)
	case "emit":
		run(os.Args[2:], cmdEmit)
	case "repl":
		if err := repl.New("plc> ").Start(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "plc: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: plc <lex|parse|analyze|run|emit> <file> | plc repl")
}

// run parses the shared single-file-argument flag set for a subcommand and
// invokes fn with the file's contents, exiting 1 on error.
func run(args []string, fn func(source string) error) {
	fs := flag.NewFlagSet("plc", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := fn(string(data)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func cmdLex(source string) error {
	ctx := pipeline.Lex(source)
	if ctx.Err != nil {
		return ctx.Err
	}
	for _, tok := range ctx.Tokens {
		fmt.Println(tok.String())
	}
	return nil
}

func cmdParse(source string) error {
	ctx := pipeline.New(pipeline.LexProcessor{}, pipeline.ParseProcessor{}).Run(pipeline.NewContext(source, os.Stdout))
	if ctx.Err != nil {
		return ctx.Err
	}
	fmt.Printf("parsed: %d field(s), %d method(s)\n", len(ctx.AST.Fields), len(ctx.AST.Methods))
	return nil
}

func cmdAnalyze(source string) error {
	ctx := pipeline.Analyze(source)
	if ctx.Err != nil {
		return ctx.Err
	}
	fmt.Println("ok")
	return nil
}

func cmdRun(source string) error {
	ctx := pipeline.New(
		pipeline.LexProcessor{},
		pipeline.ParseProcessor{},
		pipeline.AnalyzeProcessor{},
		pipeline.RunProcessor{},
	).Run(pipeline.NewContext(source, os.Stdout))
	if ctx.Err != nil {
		return ctx.Err
	}
	os.Exit(int(ctx.ExitCode))
	return nil
}

func cmdEmit(source string) error {
	ctx := pipeline.New(
		pipeline.LexProcessor{},
		pipeline.ParseProcessor{},
		pipeline.AnalyzeProcessor{},
		pipeline.EmitProcessor{},
	).Run(pipeline.NewContext(source, os.Stdout))
	if ctx.Err != nil {
		return ctx.Err
	}
	fmt.Print(ctx.Emitted)
	return nil
}
