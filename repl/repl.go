// Package repl is an interactive convenience wrapper over the analyze
// pipeline: read one program from stdin (terminated by a blank line or
// EOF), run it, print proved/unproved assertions, and loop for the next
// program. See SPEC_FULL.md §11.5.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"github.com/intalyze/intalyze/internal/analyze"
	"github.com/intalyze/intalyze/internal/combined"
	"github.com/intalyze/intalyze/internal/errors"
)

const prompt = ">> "

// Start runs the REPL loop, reading programs from in and writing output
// to out, analyzing each one under mode.
func Start(in io.Reader, out io.Writer, mode combined.ReductionMode) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, prompt)
		src, ok := readProgram(scanner)
		if !ok {
			return
		}

		result, err := analyze.Run("<repl>", src, mode)
		if err != nil {
			reportError(out, src, err)
			continue
		}

		if len(result.Warnings) > 0 {
			reporter := errors.NewErrorReporter("<repl>", src)
			for _, w := range result.Warnings {
				fmt.Fprintln(out, reporter.FormatError(w))
			}
		}

		for _, a := range result.Assertions {
			if a.Proved {
				fmt.Fprintln(out, color.GreenString("✓ %s: proved %s", a.Label, a.Pred))
			} else {
				fmt.Fprintln(out, color.YellowString("? %s: could not prove %s", a.Label, a.Pred))
			}
		}
	}
}

// readProgram accumulates lines until a blank line, EOF, or scanner error.
// It reports ok=false when no program line was read: at EOF, or when the
// first line is blank.
func readProgram(scanner *bufio.Scanner) (string, bool) {
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

// reportError writes err to out, the same writer the rest of the loop
// uses, rather than to stdout directly — unlike grammar.ReportParseError,
// which always prints to the terminal regardless of the caller's writer.
func reportError(out io.Writer, src string, err error) {
	if violations, ok := err.(errors.Errors); ok {
		reporter := errors.NewErrorReporter("<repl>", src)
		for _, v := range violations {
			fmt.Fprintln(out, reporter.FormatError(v))
		}
		return
	}

	if pe, ok := err.(participle.Error); ok {
		pos := pe.Position()
		lines := strings.Split(src, "\n")
		if pos.Line > 0 && pos.Line <= len(lines) {
			indent := ""
			if pos.Column > 1 {
				indent = strings.Repeat(" ", pos.Column-1)
			}
			fmt.Fprintln(out, color.RedString("syntax error in <repl> at line %d, column %d:", pos.Line, pos.Column))
			fmt.Fprintln(out, lines[pos.Line-1])
			fmt.Fprintln(out, color.HiRedString(indent+"^"))
			fmt.Fprintf(out, "-> %s\n", pe.Message())
			return
		}
	}

	fmt.Fprintln(out, color.RedString("error: %s", err))
}
