package grammar

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
)

var (
	parserOnce sync.Once
	parser     *participle.Parser[Program]
	parserErr  error
)

func buildParser() (*participle.Parser[Program], error) {
	parserOnce.Do(func() {
		parser, parserErr = participle.Build[Program](
			participle.Lexer(Lexer),
			participle.Elide("Whitespace", "Comment"),
			participle.UseLookahead(5),
		)
	})
	return parser, parserErr
}

// Parse parses source (named sourceName for diagnostics) into a Program.
func Parse(sourceName, source string) (*Program, error) {
	p, err := buildParser()
	if err != nil {
		return nil, fmt.Errorf("grammar: failed to build parser: %w", err)
	}
	return p.ParseString(sourceName, source)
}

// ReportParseError prints a caret-style syntax error to stdout, matching
// the front end's ambient error-reporting style (see internal/errors).
func ReportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", max(0, pos.Column-1)) + "^"

	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
