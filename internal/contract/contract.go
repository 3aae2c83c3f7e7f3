// Package contract validates the AST-level invariants the abstract domains
// assume and never re-check themselves: dense variable ids, distinct
// unknown ids, a flat OR-of-AND assertion shape, and non-empty SUM operand
// lists. The front end (grammar + internal/parse) already builds ASTs that
// satisfy all of these by construction, but a hand-built or externally
// produced AST is not guaranteed to, so every domain leans on Check having
// run first. See SPEC_FULL.md §11.2.
package contract

import (
	"github.com/intalyze/intalyze/internal/ast"
	"github.com/intalyze/intalyze/internal/cfg"
	"github.com/intalyze/intalyze/internal/errors"
)

// Check walks every edge's command (and, transitively, its predicates) and
// returns every contract violation found. n is the declared variable count;
// valid VarIDs are 0..n-1. An empty result means the AST is well-formed.
func Check(n int, edges []cfg.LabelEdge) []errors.CompilerError {
	c := &checker{n: n, seenUIDs: make(map[ast.UnknownID]ast.Position)}
	for _, e := range edges {
		c.checkCommand(e.Cmd)
	}
	return c.errs
}

type checker struct {
	n        int
	seenUIDs map[ast.UnknownID]ast.Position
	errs     []errors.CompilerError
}

func (c *checker) varID(id ast.VarID, pos ast.Position) {
	if int(id) < 0 || int(id) >= c.n {
		c.errs = append(c.errs, errors.NonDenseVarIDs(c.n, int(id)+1, pos))
	}
}

func (c *checker) checkCommand(cmd ast.Command) {
	switch cmd := cmd.(type) {
	case *ast.Skip:
	case *ast.Assume:
		c.checkExpr(cmd.Cond)
	case *ast.Assert:
		c.checkOrChain(cmd.Pred, cmd.At)
	case *ast.ConstAssign:
		c.varID(cmd.Dest, cmd.At)
	case *ast.UnknownAssign:
		c.varID(cmd.Dest, cmd.At)
		if first, dup := c.seenUIDs[cmd.UID]; dup {
			c.errs = append(c.errs, errors.DuplicateUnknownID(int(cmd.UID), first, cmd.At))
		} else {
			c.seenUIDs[cmd.UID] = cmd.At
		}
	case *ast.VarAssign:
		c.varID(cmd.Dest, cmd.At)
		c.varID(cmd.Src, cmd.At)
	case *ast.IncAssign:
		c.varID(cmd.Dest, cmd.At)
		c.varID(cmd.Src, cmd.At)
	case *ast.DecAssign:
		c.varID(cmd.Dest, cmd.At)
		c.varID(cmd.Src, cmd.At)
	}
}

// checkOrChain validates an Assert's predicate is a genuinely flat OR of
// ANDs: both levels non-empty, and every leaf a plain predicate (the Go
// type of AndChain.Preds already rules out a nested OrChain, but an empty
// chain at either level is still possible from a hand-built AST).
func (c *checker) checkOrChain(or ast.OrChain, pos ast.Position) {
	if len(or.Ands) == 0 {
		c.errs = append(c.errs, errors.NestedOrChain(pos))
		return
	}
	for _, and := range or.Ands {
		if len(and.Preds) == 0 {
			c.errs = append(c.errs, errors.NestedOrChain(pos))
			continue
		}
		for _, p := range and.Preds {
			c.checkExpr(p)
		}
	}
}

func (c *checker) checkExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.True, *ast.False:
	case *ast.VarEq:
		c.varID(e.I, e.At)
		c.varID(e.J, e.At)
	case *ast.VarNeq:
		c.varID(e.I, e.At)
		c.varID(e.J, e.At)
	case *ast.VarConsEq:
		c.varID(e.I, e.At)
	case *ast.VarConsNeq:
		c.varID(e.I, e.At)
	case *ast.TestEven:
		c.varID(e.I, e.At)
	case *ast.TestOdd:
		c.varID(e.I, e.At)
	case *ast.SumEq:
		if len(e.L) == 0 {
			c.errs = append(c.errs, errors.EmptySumList("left", e.At))
		}
		if len(e.R) == 0 {
			c.errs = append(c.errs, errors.EmptySumList("right", e.At))
		}
		for _, id := range e.L {
			c.varID(id, e.At)
		}
		for _, id := range e.R {
			c.varID(id, e.At)
		}
	}
}
