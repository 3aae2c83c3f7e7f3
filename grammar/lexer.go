package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes the tiny imperative integer-variable language: a VAR
// declaration line followed by label-to-label command lines. See
// SPEC_FULL.md §11.1 for the concrete syntax this front end accepts.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `#[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `-?[0-9]+`, nil},
		{"Operator", `(:=|!=|[=+?-])`, nil},
		{"Punctuation", `[()]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
