package lsp

import (
	"github.com/alecthomas/participle/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/intalyze/intalyze/internal/errors"
	"github.com/intalyze/intalyze/internal/solver"
)

// diagnosticsForRunError converts whichever error shape analyze.Run can
// return into LSP diagnostics: a contract-violation bundle, a participle
// parse error, or anything else as a single unlocated diagnostic.
func diagnosticsForRunError(err error) []protocol.Diagnostic {
	if violations, ok := err.(errors.Errors); ok {
		return convertViolations(violations)
	}
	if pe, ok := err.(participle.Error); ok {
		return convertParseError(pe)
	}
	return []protocol.Diagnostic{{
		Range:    zeroRange(),
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("intalyze"),
		Message:  err.Error(),
	}}
}

// convertViolations transforms AST-contract errors into LSP diagnostics.
func convertViolations(violations errors.Errors) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(violations))
	for _, v := range violations {
		severity := protocol.DiagnosticSeverityError
		if errors.IsWarning(v.Code) {
			severity = protocol.DiagnosticSeverityWarning
		}
		line, col := zeroBasedPosition(v.Position.Line, v.Position.Column)
		length := uint32(v.Length)
		if length == 0 {
			length = 1
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: col},
				End:   protocol.Position{Line: line, Character: col + length},
			},
			Severity: ptrSeverity(severity),
			Code:     &protocol.IntegerOrString{Value: v.Code},
			Source:   ptrString("intalyze-contract"),
			Message:  v.Message,
		})
	}
	return diagnostics
}

// convertParseError transforms a participle syntax error into a diagnostic.
func convertParseError(pe participle.Error) []protocol.Diagnostic {
	pos := pe.Position()
	line, col := zeroBasedPosition(pos.Line, pos.Column)
	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 1},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("intalyze-parser"),
		Message:  pe.Message(),
	}}
}

// diagnosticsForUnprovedAssertions publishes one diagnostic per assertion
// the fixpoint solver could not discharge; proved assertions are not
// noteworthy for an editor, matching "could not prove" being the only
// actionable verdict a reviewer needs to see.
func diagnosticsForUnprovedAssertions(results []solver.AssertionResult) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	for _, r := range results {
		if r.Proved {
			continue
		}
		line, col := zeroBasedPosition(r.Pos.Line, r.Pos.Column)
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: col},
				End:   protocol.Position{Line: line, Character: col + 6},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityWarning),
			Source:   ptrString("intalyze"),
			Message:  "could not prove " + r.Pred.String() + " at " + r.Label,
		})
	}
	return diagnostics
}

func zeroBasedPosition(line, col int) (uint32, uint32) {
	l, c := uint32(0), uint32(0)
	if line > 0 {
		l = uint32(line - 1)
	}
	if col > 0 {
		c = uint32(col - 1)
	}
	return l, c
}

func zeroRange() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 1},
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
