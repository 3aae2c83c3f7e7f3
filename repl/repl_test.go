package repl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intalyze/intalyze/internal/combined"
	"github.com/intalyze/intalyze/repl"
)

func TestReplProvesAssertion(t *testing.T) {
	in := strings.NewReader("VAR X\nL0 X := 2 L1\nL1 assert (EVEN X) L2\n\n")
	var out bytes.Buffer

	repl.Start(in, &out, combined.ReductionNone)

	require.Contains(t, out.String(), "proved")
}

func TestReplReportsUndefinedVariable(t *testing.T) {
	in := strings.NewReader("VAR X\nL0 Y := 0 L1\n\n")
	var out bytes.Buffer

	repl.Start(in, &out, combined.ReductionNone)

	require.Contains(t, out.String(), "undefined")
}

func TestReplExitsImmediatelyOnLeadingBlankLine(t *testing.T) {
	in := strings.NewReader("\n\n")
	var out bytes.Buffer

	repl.Start(in, &out, combined.ReductionNone)

	require.Equal(t, ">> ", out.String())
}
