package lsp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/intalyze/intalyze/internal/ast"
	"github.com/intalyze/intalyze/internal/errors"
	"github.com/intalyze/intalyze/internal/solver"
)

func TestDiagnosticsForRunErrorHandlesGenericError(t *testing.T) {
	diags := diagnosticsForRunError(fmt.Errorf("boom"))
	require.Len(t, diags, 1)
	require.Equal(t, "boom", diags[0].Message)
}

func TestConvertViolationsSetsSeverityFromCode(t *testing.T) {
	violations := errors.Errors{
		errors.NonDenseVarIDs(2, 3, ast.Position{Line: 4, Column: 2}),
	}
	diags := convertViolations(violations)
	require.Len(t, diags, 1)
	require.Equal(t, uint32(3), diags[0].Range.Start.Line)
	require.Equal(t, uint32(1), diags[0].Range.Start.Character)
	require.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
}

func TestDiagnosticsForUnprovedAssertionsSkipsProved(t *testing.T) {
	results := []solver.AssertionResult{
		{Label: "L0", Proved: true},
		{Label: "L1", Proved: false, Pos: ast.Position{Line: 1, Column: 1}},
	}
	diags := diagnosticsForUnprovedAssertions(results)
	require.Len(t, diags, 1)
}
