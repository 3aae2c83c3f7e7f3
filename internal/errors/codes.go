package errors

// Error codes for the intalyze toolchain.
//
// Error code ranges:
// F001-F099: Front-end errors (lexing/parsing the program source)
// P001-P099: AST-contract violations (the well-formedness checks of C6)
// C001-C099: Control-flow-graph errors (start node, solver divergence)

const (
	// F001: Lexer/grammar rejected the input
	ErrorSyntax = "F001"

	// F003: A variable was referenced but never declared
	ErrorUndefinedVariable = "F003"

	// P001: Variable ids are not dense (a gap in 0..n)
	ErrorNonDenseVarIDs = "P001"

	// P002: Two '?' occurrences share an unknown id
	ErrorDuplicateUnknownID = "P002"

	// P003: An Assert's body is not a non-empty OR of non-empty AND chains
	ErrorNestedOrChain = "P003"

	// P004: A SUM clause names an empty variable list
	ErrorEmptySumList = "P004"

	// C001: The control-flow graph has no node with zero in-degree
	ErrorNoStartNode = "C001"

	// C002: The control-flow graph has more than one node with zero in-degree
	ErrorAmbiguousStartNode = "C002"

	// C003: Chaotic iteration did not settle within the iteration cap
	ErrorSolverDivergence = "C003"

	// Warning codes

	// W001: A declared variable is never assigned or read
	WarningUnusedVariable = "W001"
)

// GetErrorDescription returns a human-readable description of the error code.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorSyntax:
		return "the program source does not match the grammar"
	case ErrorUndefinedVariable:
		return "a command references a variable that was never declared"
	case ErrorNonDenseVarIDs:
		return "variable ids must be dense, covering 0..n with no gaps"
	case ErrorDuplicateUnknownID:
		return "every '?' occurrence must have its own unknown id"
	case ErrorNestedOrChain:
		return "an assertion must be a non-empty OR of non-empty AND chains of plain predicates"
	case ErrorEmptySumList:
		return "a SUM clause must name at least one variable on each side"
	case ErrorNoStartNode:
		return "the control-flow graph has no node with zero in-degree"
	case ErrorAmbiguousStartNode:
		return "the control-flow graph has more than one node with zero in-degree"
	case ErrorSolverDivergence:
		return "chaotic iteration did not settle within the iteration cap"
	case WarningUnusedVariable:
		return "variable is declared but never assigned or read"
	default:
		return "unknown error code"
	}
}

// IsWarning reports whether code represents a warning rather than an error.
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code.
func GetErrorCategory(code string) string {
	if code == "" {
		return "Unknown"
	}
	switch code[0] {
	case 'F':
		return "Front End"
	case 'P':
		return "AST Contract"
	case 'C':
		return "Control Flow"
	case 'W':
		return "Warning"
	default:
		return "Unknown"
	}
}
