// Package analyze wires the front end (grammar -> internal/parse ->
// internal/contract -> internal/cfg) to the core engine (internal/combined
// + internal/solver) so the CLI, REPL, and language server share one
// pipeline instead of three copies of it.
package analyze

import (
	"fmt"

	"github.com/intalyze/intalyze/internal/cfg"
	"github.com/intalyze/intalyze/internal/combined"
	"github.com/intalyze/intalyze/internal/contract"
	"github.com/intalyze/intalyze/internal/errors"
	"github.com/intalyze/intalyze/internal/parse"
	"github.com/intalyze/intalyze/internal/solver"
	"github.com/intalyze/intalyze/grammar"
)

// Result is everything downstream consumers (CLI output, LSP diagnostics,
// the REPL) need after a successful run of the pipeline.
type Result struct {
	VarNames   []string
	Graph      *cfg.Graph
	Assertions []solver.AssertionResult
	Warnings   errors.Errors
}

// Run parses source, lowers and contract-checks it, builds the CFG, runs
// the fixpoint solver under mode, and discharges every assertion. The
// returned error is one of: a participle parse error (caller should
// render it with grammar.ReportParseError); an errors.Errors bundle of
// one or more CompilerErrors — from contract.Check (P0xx), parse.Lower
// (F003 undefined variable), or solver.Solve (C001/C002 missing/ambiguous
// entry node via Graph.StartNode, C003 fixpoint divergence); or a plain
// error from parse.Lower (a variable declared twice) or cfg.Build (a
// program with no lines).
func Run(sourceName, source string, mode combined.ReductionMode) (*Result, error) {
	prog, err := grammar.Parse(sourceName, source)
	if err != nil {
		return nil, err
	}

	lowered, err := parse.Lower(sourceName, prog)
	if err != nil {
		return nil, err
	}

	if violations := contract.Check(len(lowered.VarNames), lowered.Edges); len(violations) > 0 {
		return nil, errors.Errors(violations)
	}

	g, err := cfg.Build(lowered.Edges)
	if err != nil {
		return nil, err
	}

	dom := combined.New(len(lowered.VarNames), mode)

	fixpoint, err := solver.Solve(g, dom)
	if err != nil {
		return nil, err
	}

	return &Result{
		VarNames:   lowered.VarNames,
		Graph:      g,
		Assertions: solver.DischargeAssertions(g, dom, fixpoint),
		Warnings:   lowered.Warnings,
	}, nil
}

// ParseReductionMode maps a CLI/config token (and common synonyms) to a
// combined.ReductionMode. See SPEC_FULL.md §10.2.
func ParseReductionMode(s string) (combined.ReductionMode, error) {
	switch s {
	case "", "none", "no", "off":
		return combined.ReductionNone, nil
	case "left", "l":
		return combined.ReductionLeft, nil
	case "right", "r":
		return combined.ReductionRight, nil
	case "both", "all", "b":
		return combined.ReductionBoth, nil
	default:
		return combined.ReductionNone, fmt.Errorf("analyze: unknown reduction mode %q (want none|left|right|both)", s)
	}
}
