package errors

import (
	"fmt"
	"strings"

	"github.com/intalyze/intalyze/internal/ast"
)

// SemanticErrorBuilder provides a fluent interface for building a
// CompilerError with suggestions, notes, and help text.
type SemanticErrorBuilder struct {
	err CompilerError
}

// NewSemanticError creates a new error builder.
func NewSemanticError(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewSemanticWarning creates a new warning builder.
func NewSemanticWarning(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

func (b *SemanticErrorBuilder) WithLength(length int) *SemanticErrorBuilder {
	b.err.Length = length
	return b
}

func (b *SemanticErrorBuilder) WithSuggestion(message string) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

func (b *SemanticErrorBuilder) WithNote(note string) *SemanticErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *SemanticErrorBuilder) WithHelp(help string) *SemanticErrorBuilder {
	b.err.HelpText = help
	return b
}

func (b *SemanticErrorBuilder) Build() CompilerError {
	return b.err
}

// UndefinedVariable creates an error for a command referencing an
// undeclared variable.
func UndefinedVariable(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorUndefinedVariable, fmt.Sprintf("undefined variable '%s'", name), pos).
		WithLength(len(name)).
		WithSuggestion("declare the variable on the VAR line before first use").
		Build()
}

// NonDenseVarIDs creates an error for a variable id gap, per the AST
// contract's dense-ids invariant.
func NonDenseVarIDs(declared, expectedCount int, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNonDenseVarIDs,
		fmt.Sprintf("variable ids must be dense: got %d declared variables but ids do not cover 0..%d", declared, expectedCount), pos).
		WithHelp("every id in [0, n) must be assigned to exactly one declared variable").
		Build()
}

// DuplicateUnknownID creates an error for two '?' occurrences sharing an id.
func DuplicateUnknownID(uid int, first, second ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateUnknownID,
		fmt.Sprintf("unknown id %d is assigned to more than one '?' occurrence", uid), second).
		WithNote(fmt.Sprintf("first occurrence at %s", first)).
		Build()
}

// NestedOrChain creates an error for an Assert body that is not a flat OR
// of ANDs; contract.Check raises it for an empty OrChain or AndChain.
func NestedOrChain(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNestedOrChain, "assertion must be a non-empty OR of non-empty AND chains of plain predicates", pos).
		WithHelp("rewrite the assertion in disjunctive normal form: an OR of ANDs of plain predicates").
		Build()
}

// EmptySumList creates an error for a SUM clause with an empty side.
func EmptySumList(side string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorEmptySumList, fmt.Sprintf("SUM clause has an empty %s-hand variable list", side), pos).
		Build()
}

// NoStartNode creates an error for a control-flow graph with no entry point.
func NoStartNode(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNoStartNode, "every label has an incoming edge; there is no entry point", pos).
		WithHelp("the program must have exactly one label with no predecessor").
		Build()
}

// AmbiguousStartNode creates an error for a control-flow graph with more
// than one entry candidate.
func AmbiguousStartNode(labels []string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorAmbiguousStartNode,
		fmt.Sprintf("more than one label has no incoming edge: %s", strings.Join(labels, ", ")), pos).
		Build()
}

// SolverDivergence creates an error for chaotic iteration that failed to
// settle within the iteration cap.
func SolverDivergence(iterations int, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorSolverDivergence,
		fmt.Sprintf("chaotic iteration did not settle after %d iterations", iterations), pos).
		WithHelp("every domain here has bounded lattice height for a fixed variable count; this indicates a non-monotone Transform or Join").
		Build()
}

// UnusedVariable creates a warning for a declared-but-never-used variable.
func UnusedVariable(name string, pos ast.Position) CompilerError {
	return NewSemanticWarning(WarningUnusedVariable, fmt.Sprintf("variable '%s' is declared but never used", name), pos).
		WithLength(len(name)).
		Build()
}
