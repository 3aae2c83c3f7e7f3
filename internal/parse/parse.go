// Package parse lowers a parsed grammar.Program into the ast.Command/
// cfg.LabelEdge form the rest of the analyzer consumes: it assigns dense
// variable ids in declaration order, mints a fresh unknown id for every
// '?' occurrence, and resolves every identifier reference against the
// declared variable set. See SPEC_FULL.md §11.1.
package parse

import (
	"fmt"

	"github.com/intalyze/intalyze/internal/ast"
	"github.com/intalyze/intalyze/internal/cfg"
	"github.com/intalyze/intalyze/internal/errors"
	"github.com/intalyze/intalyze/grammar"
)

// Result is everything the rest of the pipeline needs: the dense variable
// table and the label-edge list ready for cfg.Build, plus any non-fatal
// warnings collected while lowering (W001 unused-variable).
type Result struct {
	VarNames []string
	VarIDs   map[string]ast.VarID
	Edges    []cfg.LabelEdge
	Warnings errors.Errors
}

// Lower converts prog into a Result, or the first error encountered.
func Lower(sourceName string, prog *grammar.Program) (*Result, error) {
	l := &lowerer{
		sourceName: sourceName,
		varIDs:     make(map[string]ast.VarID),
		used:       make(map[ast.VarID]bool),
	}
	declAt := make(map[ast.VarID]ast.Position, len(prog.VarDecl.Names))

	for i, name := range prog.VarDecl.Names {
		if _, dup := l.varIDs[name]; dup {
			return nil, fmt.Errorf("parse: variable %q declared more than once", name)
		}
		id := ast.VarID(i)
		l.varIDs[name] = id
		declAt[id] = ast.Position{Filename: sourceName, Line: prog.VarDecl.Pos.Line, Column: prog.VarDecl.Pos.Column}
	}

	var edges []cfg.LabelEdge
	for _, line := range prog.Lines {
		l.cur = ast.Position{Filename: sourceName, Line: line.Pos.Line, Column: line.Pos.Column}
		cmd, err := l.lowerCommand(line.Cmd)
		if err != nil {
			return nil, err
		}
		edges = append(edges, cfg.LabelEdge{From: line.From, To: line.To, Cmd: cmd})
	}

	var warnings errors.Errors
	for i, name := range prog.VarDecl.Names {
		id := ast.VarID(i)
		if !l.used[id] {
			warnings = append(warnings, errors.UnusedVariable(name, declAt[id]))
		}
	}

	return &Result{
		VarNames: append([]string(nil), prog.VarDecl.Names...),
		VarIDs:   l.varIDs,
		Edges:    edges,
		Warnings: warnings,
	}, nil
}

type lowerer struct {
	sourceName string
	varIDs     map[string]ast.VarID
	used       map[ast.VarID]bool
	nextUID    int
	cur        ast.Position
}

func (l *lowerer) pos() ast.Position { return l.cur }

func (l *lowerer) resolve(name string) (ast.VarID, error) {
	id, ok := l.varIDs[name]
	if !ok {
		return 0, errors.Errors{errors.UndefinedVariable(name, l.pos())}
	}
	l.used[id] = true
	return id, nil
}

func (l *lowerer) lowerCommand(c *grammar.Command) (ast.Command, error) {
	switch {
	case c.Skip != nil:
		return &ast.Skip{At: l.pos()}, nil
	case c.Assume != nil:
		cond, err := l.lowerPredicate(c.Assume.Cond)
		if err != nil {
			return nil, err
		}
		return &ast.Assume{At: l.pos(), Cond: cond}, nil
	case c.Assert != nil:
		or, err := l.lowerOrChain(c.Assert.Ands)
		if err != nil {
			return nil, err
		}
		return &ast.Assert{At: l.pos(), Pred: or}, nil
	case c.Assign != nil:
		return l.lowerAssign(c.Assign)
	default:
		return nil, fmt.Errorf("parse: empty command")
	}
}

func (l *lowerer) lowerAssign(a *grammar.AssignCmd) (ast.Command, error) {
	dest, err := l.resolve(a.Dest)
	if err != nil {
		return nil, err
	}
	rhs := a.RHS
	switch {
	case rhs.Unknown:
		uid := l.nextUID
		l.nextUID++
		return &ast.UnknownAssign{At: l.pos(), Dest: dest, UID: ast.UnknownID(uid)}, nil
	case rhs.Const != nil:
		return &ast.ConstAssign{At: l.pos(), Dest: dest, Val: *rhs.Const}, nil
	case rhs.Inc != nil:
		src, err := l.resolve(rhs.Inc.Src)
		if err != nil {
			return nil, err
		}
		return &ast.IncAssign{At: l.pos(), Dest: dest, Src: src}, nil
	case rhs.Dec != nil:
		src, err := l.resolve(rhs.Dec.Src)
		if err != nil {
			return nil, err
		}
		return &ast.DecAssign{At: l.pos(), Dest: dest, Src: src}, nil
	case rhs.Var != nil:
		src, err := l.resolve(*rhs.Var)
		if err != nil {
			return nil, err
		}
		return &ast.VarAssign{At: l.pos(), Dest: dest, Src: src}, nil
	default:
		return nil, fmt.Errorf("parse: empty assignment right-hand side")
	}
}

func (l *lowerer) lowerOrChain(ands []*grammar.AndChain) (ast.OrChain, error) {
	var out ast.OrChain
	for _, and := range ands {
		var preds []ast.Expr
		for _, p := range and.Preds {
			e, err := l.lowerPredicate(p)
			if err != nil {
				return ast.OrChain{}, err
			}
			preds = append(preds, e)
		}
		out.Ands = append(out.Ands, ast.AndChain{Preds: preds})
	}
	return out, nil
}

func (l *lowerer) lowerPredicate(p *grammar.Predicate) (ast.Expr, error) {
	switch {
	case p.True:
		return &ast.True{At: l.pos()}, nil
	case p.False:
		return &ast.False{At: l.pos()}, nil
	case p.Even != nil:
		i, err := l.resolve(*p.Even)
		if err != nil {
			return nil, err
		}
		return &ast.TestEven{At: l.pos(), I: i}, nil
	case p.Odd != nil:
		i, err := l.resolve(*p.Odd)
		if err != nil {
			return nil, err
		}
		return &ast.TestOdd{At: l.pos(), I: i}, nil
	case p.Sum != nil:
		return l.lowerSum(p.Sum)
	case p.Eq != nil:
		return l.lowerEq(p.Eq)
	default:
		return nil, fmt.Errorf("parse: empty predicate")
	}
}

func (l *lowerer) lowerSum(s *grammar.SumPred) (ast.Expr, error) {
	lhs, err := l.resolveAll(s.L)
	if err != nil {
		return nil, err
	}
	rhs, err := l.resolveAll(s.R)
	if err != nil {
		return nil, err
	}
	return &ast.SumEq{At: l.pos(), L: lhs, R: rhs}, nil
}

func (l *lowerer) resolveAll(names []string) ([]ast.VarID, error) {
	ids := make([]ast.VarID, len(names))
	for i, n := range names {
		id, err := l.resolve(n)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func (l *lowerer) lowerEq(e *grammar.EqPred) (ast.Expr, error) {
	i, err := l.resolve(e.I)
	if err != nil {
		return nil, err
	}
	switch {
	case e.ConstVal != nil && e.Eq:
		return &ast.VarConsEq{At: l.pos(), I: i, C: *e.ConstVal}, nil
	case e.ConstVal != nil && e.Neq:
		return &ast.VarConsNeq{At: l.pos(), I: i, C: *e.ConstVal}, nil
	case e.VarVal != nil && e.Eq:
		j, err := l.resolve(*e.VarVal)
		if err != nil {
			return nil, err
		}
		return &ast.VarEq{At: l.pos(), I: i, J: j}, nil
	case e.VarVal != nil && e.Neq:
		j, err := l.resolve(*e.VarVal)
		if err != nil {
			return nil, err
		}
		return &ast.VarNeq{At: l.pos(), I: i, J: j}, nil
	default:
		return nil, fmt.Errorf("parse: malformed equality predicate")
	}
}
