package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intalyze/intalyze/internal/ast"
)

func TestErrorReporterFormatsUndefinedVariable(t *testing.T) {
	source := `VAR x0
L0 x0 := 4 L1`

	reporter := NewErrorReporter("test.ia", source)

	err := UndefinedVariable("x1", ast.Position{Line: 2, Column: 4})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedVariable+"]")
	assert.Contains(t, formatted, "undefined variable")
	assert.Contains(t, formatted, "x1")
	assert.Contains(t, formatted, "test.ia:2:4")
	assert.Contains(t, formatted, "declare the variable")
}

func TestUndefinedVariableError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := UndefinedVariable("x3", pos)
	assert.Equal(t, ErrorUndefinedVariable, err.Code)
	assert.Contains(t, err.Message, "x3")
	assert.Len(t, err.Suggestions, 1)
}

func TestNonDenseVarIDsError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 1}
	err := NonDenseVarIDs(2, 3, pos)
	assert.Equal(t, ErrorNonDenseVarIDs, err.Code)
	assert.Contains(t, err.Message, "dense")
}

func TestDuplicateUnknownIDError(t *testing.T) {
	first := ast.Position{Line: 2, Column: 1}
	second := ast.Position{Line: 5, Column: 1}
	err := DuplicateUnknownID(3, first, second)
	assert.Equal(t, ErrorDuplicateUnknownID, err.Code)
	assert.Contains(t, err.Message, "unknown id 3")
	assert.Len(t, err.Notes, 1)
}

func TestAmbiguousStartNodeError(t *testing.T) {
	pos := ast.Position{}
	err := AmbiguousStartNode([]string{"L0", "L3"}, pos)
	assert.Equal(t, ErrorAmbiguousStartNode, err.Code)
	assert.Contains(t, err.Message, "L0")
	assert.Contains(t, err.Message, "L3")
}

func TestWarningFormatting(t *testing.T) {
	source := `VAR x0`
	reporter := NewErrorReporter("test.ia", source)

	err := UnusedVariable("x0", ast.Position{Line: 1, Column: 5})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "warning["+WarningUnusedVariable+"]")
	assert.Contains(t, formatted, "never used")
}

func TestErrorMarkerCreation(t *testing.T) {
	source := `L0 x0 := 4 L1`
	reporter := NewErrorReporter("test.ia", source)

	marker := reporter.createMarker(5, 8, Error)

	spaces := strings.Count(marker, " ")
	assert.Equal(t, 4, spaces)
	carets := strings.Count(marker, "^")
	assert.Equal(t, 8, carets)
}

func TestErrorLevels(t *testing.T) {
	source := `test`
	reporter := NewErrorReporter("test.ia", source)
	pos := ast.Position{Line: 1, Column: 1}

	errorErr := CompilerError{Level: Error, Message: "test error", Position: pos}
	warningErr := CompilerError{Level: Warning, Message: "test warning", Position: pos}

	errorFormatted := reporter.FormatError(errorErr)
	warningFormatted := reporter.FormatError(warningErr)

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "Front End", GetErrorCategory(ErrorSyntax))
	assert.Equal(t, "AST Contract", GetErrorCategory(ErrorNonDenseVarIDs))
	assert.Equal(t, "Control Flow", GetErrorCategory(ErrorNoStartNode))
	assert.Equal(t, "Warning", GetErrorCategory(WarningUnusedVariable))
}

func TestIsWarning(t *testing.T) {
	assert.True(t, IsWarning(WarningUnusedVariable))
	assert.False(t, IsWarning(ErrorSyntax))
}
