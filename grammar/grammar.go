// Package grammar defines the participle struct-tag grammar for the
// program-source language consumed by the front end. Concrete syntax is
// not specified by the distilled assertion/abstract-domain design this
// analyzer implements; this is the front end's own choice, modeled after
// the label-edge notation used throughout the design's worked examples.
// See SPEC_FULL.md §11.1.
package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Program is "VAR <idents>" followed by zero or more label-to-label lines.
type Program struct {
	VarDecl *VarDecl `@@`
	Lines   []*Line  `@@*`
}

// VarDecl declares every program variable; declaration order fixes dense
// variable ids 0..n-1.
type VarDecl struct {
	Pos   lexer.Position
	Names []string `"VAR" @Ident*`
}

// Line is one CFG edge: a source label, the command that runs when control
// crosses it, and a destination label.
type Line struct {
	Pos  lexer.Position
	From string   `@Ident`
	Cmd  *Command `@@`
	To   string   `@Ident`
}

// Command is the union of every command form a line may carry.
type Command struct {
	Skip   *SkipCmd   `  @@`
	Assume *AssumeCmd `| @@`
	Assert *AssertCmd `| @@`
	Assign *AssignCmd `| @@`
}

// SkipCmd is the no-op command.
type SkipCmd struct {
	Keyword string `@"skip"`
}

// AssumeCmd narrows (or falsifies) the state on a single predicate.
type AssumeCmd struct {
	Keyword string     `"assume"`
	Cond    *Predicate `@@`
}

// AssertCmd checks an OR-of-AND predicate against the incoming state.
type AssertCmd struct {
	Keyword string      `"assert"`
	Ands    []*AndChain `@@+`
}

// AndChain is one parenthesized conjunction of predicates.
type AndChain struct {
	Preds []*Predicate `"(" @@+ ")"`
}

// AssignCmd is "dest := rhs".
type AssignCmd struct {
	Dest string `@Ident ":="`
	RHS  *RHS   `@@`
}

// RHS is the right-hand side of an assignment: a literal, an unknown, an
// increment/decrement of another variable, or a plain copy. Inc/Dec are
// tried before a bare variable copy so "Y + 1" and "Y - 1" are recognized
// before falling back to a plain "Y".
type RHS struct {
	Unknown bool     `  @"?"`
	Const   *int     `| @Integer`
	Inc     *IncExpr `| @@`
	Dec     *DecExpr `| @@`
	Var     *string  `| @Ident`
}

// IncExpr is "src + 1".
type IncExpr struct {
	Src string `@Ident "+" "1"`
}

// DecExpr is "src - 1".
type DecExpr struct {
	Src string `@Ident "-" "1"`
}

// Predicate is the union of every boolean-expression form usable in an
// Assume or inside an Assert's AndChains. Sum is tried before Eq since
// "SUM" lexes as a plain identifier and would otherwise be consumed as an
// EqPred's left-hand variable name.
type Predicate struct {
	True  bool     `  @"TRUE"`
	False bool     `| @"FALSE"`
	Even  *string  `| "EVEN" @Ident`
	Odd   *string  `| "ODD" @Ident`
	Sum   *SumPred `| @@`
	Eq    *EqPred  `| @@`
}

// SumPred is "SUM <idents> = SUM <idents>".
type SumPred struct {
	L []string `"SUM" @Ident+`
	_ string   `"="`
	R []string `"SUM" @Ident+`
}

// EqPred is "I = const|var" or "I != const|var".
type EqPred struct {
	I        string  `@Ident`
	Neq      bool    `(   @"!="`
	Eq       bool    `  | @"=" )`
	ConstVal *int    `(   @Integer`
	VarVal   *string `  | @Ident )`
}
