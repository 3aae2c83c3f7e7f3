package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"github.com/intalyze/intalyze/internal/analyze"
	"github.com/intalyze/intalyze/internal/errors"
	"github.com/intalyze/intalyze/grammar"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: intalyze <program.ia> [none|left|right|both]")
		os.Exit(1)
	}

	path := os.Args[1]
	modeArg := ""
	if len(os.Args) > 2 {
		modeArg = os.Args[2]
	}

	mode, err := analyze.ParseReductionMode(modeArg)
	if err != nil {
		color.Red("%s", err)
		os.Exit(1)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	result, err := analyze.Run(path, string(source), mode)
	if err != nil {
		reportRunError(string(source), err)
		os.Exit(1)
	}

	if len(result.Warnings) > 0 {
		reporter := errors.NewErrorReporter("program", string(source))
		for _, w := range result.Warnings {
			fmt.Println(reporter.FormatError(w))
		}
	}

	unproved := 0
	for _, a := range result.Assertions {
		if a.Proved {
			color.Green("✓ %s: proved %s", a.Label, a.Pred)
			continue
		}
		unproved++
		color.Yellow("? %s: could not prove %s", a.Label, a.Pred)
	}

	color.Cyan("reduction mode: %s, %d assertion(s), %d unproved", mode, len(result.Assertions), unproved)
}

// reportRunError renders whichever error shape analyze.Run returned: a raw
// participle parse error, or an errors.Errors bundle of CompilerErrors
// (undefined variable, AST-contract violation, missing/ambiguous start
// node, fixpoint divergence). The final fallback prints any other error,
// such as a duplicate variable declaration or a program with no lines.
func reportRunError(source string, err error) {
	if violations, ok := err.(errors.Errors); ok {
		reporter := errors.NewErrorReporter("program", source)
		for _, v := range violations {
			fmt.Println(reporter.FormatError(v))
		}
		return
	}
	if _, ok := err.(participle.Error); ok {
		grammar.ReportParseError(source, err)
		return
	}
	color.Red("%s", err)
}
