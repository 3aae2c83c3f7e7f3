// Package combined implements the combined domain (C4): the Cartesian
// product of parity and summation, optionally strengthened by information
// exchange (reduction) between the two components. See SPEC_FULL.md §4.4.
package combined

import (
	"fmt"

	"github.com/intalyze/intalyze/internal/ast"
	"github.com/intalyze/intalyze/internal/lattice"
	"github.com/intalyze/intalyze/internal/parity"
	"github.com/intalyze/intalyze/internal/summation"
)

// ReductionMode selects which direction(s) of information exchange the
// combined domain performs after every Transform step.
type ReductionMode int

const (
	// ReductionNone is the plain reduced-product-free Cartesian product.
	ReductionNone ReductionMode = iota
	// ReductionLeft strengthens parity using summation's exact constants.
	ReductionLeft
	// ReductionRight drops summation tuples inconsistent with parity.
	ReductionRight
	// ReductionBoth iterates left then right to a local fixpoint.
	ReductionBoth
)

func (m ReductionMode) String() string {
	switch m {
	case ReductionNone:
		return "none"
	case ReductionLeft:
		return "left"
	case ReductionRight:
		return "right"
	case ReductionBoth:
		return "both"
	default:
		return "unknown"
	}
}

// maxReductionRounds bounds the ReductionBoth iteration performed by
// reduce() (the other modes apply at most one step); both components are finite lattices of bounded height for a
// fixed N, so this is generous headroom rather than a tight bound.
const maxReductionRounds = 100

// State pairs a parity state with a summation state over the same N
// variables.
type State = lattice.Product[parity.State, summation.State]

// Domain is the combined abstract domain: parity x summation, with
// reduction driven by Mode.
type Domain struct {
	N    int
	Mode ReductionMode

	parity    *parity.Domain
	summation *summation.Domain
}

// New builds a combined domain over n variables with the given reduction
// mode.
func New(n int, mode ReductionMode) *Domain {
	return &Domain{
		N:         n,
		Mode:      mode,
		parity:    &parity.Domain{N: n},
		summation: &summation.Domain{N: n},
	}
}

func (d *Domain) Bottom() State {
	return lattice.ProductBottom[parity.State, summation.State](d.parity, d.summation)
}

func (d *Domain) Top() State {
	return lattice.ProductTop[parity.State, summation.State](d.parity, d.summation)
}

func (d *Domain) Join(xs []State) State {
	return lattice.ProductJoin[parity.State, summation.State](d.parity, d.summation, xs)
}

func (d *Domain) Equiv(x, y State) bool {
	return lattice.ProductEquiv[parity.State, summation.State](d.parity, d.summation, x, y)
}

// Stabilize reduces the pair to a local fixpoint before it is shared as a
// join operand or a solver's per-node result. Reduction under ReductionNone
// is the identity, matching SPEC_FULL.md §4.4's "no exchange" semantics.
func (d *Domain) Stabilize(x State) State {
	return d.reduce(x)
}

// Transform applies cmd to each component independently, then reduces.
func (d *Domain) Transform(cmd ast.Command, x State) State {
	next := State{
		Left:  d.parity.Transform(cmd, x.Left),
		Right: d.summation.Transform(cmd, x.Right),
	}
	return d.reduce(next)
}

// VerifyAssertion discharges an assertion if either component can prove it
// — the two domains see different constructs (parity predicates vs SumEq),
// so this is the natural "either suffices" combination.
func (d *Domain) VerifyAssertion(pred ast.OrChain, x State) bool {
	return d.parity.VerifyAssertion(pred, x.Left) || d.summation.VerifyAssertion(pred, x.Right)
}

// reduce iterates the selected reduction direction(s) to a local fixpoint,
// capped at maxReductionRounds. Exceeding the cap indicates a bug in one of
// the reduction steps (they are each contractive on a domain of bounded
// height) rather than a condition callers can recover from.
func (d *Domain) reduce(x State) State {
	switch d.Mode {
	case ReductionNone:
		return x
	case ReductionLeft:
		return State{Left: d.reduceLeftByRight(x.Left, x.Right), Right: x.Right}
	case ReductionRight:
		return State{Left: x.Left, Right: d.reduceRightByLeft(x.Left, x.Right)}
	case ReductionBoth:
		cur := x
		for i := 0; i < maxReductionRounds; i++ {
			next := State{
				Left:  d.reduceLeftByRight(cur.Left, cur.Right),
				Right: d.reduceRightByLeft(cur.Left, cur.Right),
			}
			if d.Equiv(cur, next) {
				return next
			}
			cur = next
		}
		panic("combined: reduction did not converge within the round cap")
	default:
		panic(fmt.Sprintf("combined: unhandled reduction mode %v", d.Mode))
	}
}

// reduceLeftByRight strengthens parity with every exact constant the
// summation side has pinned down: for each summation tuple, assume the
// parity of each constant-valued variable, then join the results back
// together. Grounded on combination_analysis.py's reduce_left.
func (d *Domain) reduceLeftByRight(p parity.State, s summation.State) parity.State {
	if s.Len() == 0 {
		return p
	}
	var joined []parity.State
	for _, tup := range s.Elems() {
		refined := p
		for i, v := range tup {
			mv, ok := v.MidValue()
			if !ok || mv.HasUnknown {
				continue
			}
			refined = d.parity.Transform(&ast.Assume{
				Cond: &ast.VarConsEq{I: ast.VarID(i), C: mv.Const},
			}, refined)
		}
		joined = append(joined, refined)
	}
	return d.parity.Join(joined)
}

// reduceRightByLeft drops every summation tuple inconsistent with parity:
// a tuple survives only if narrowing parity down to that single tuple's
// known constants leaves a non-bottom result. Grounded on
// combination_analysis.py's reduce_right.
func (d *Domain) reduceRightByLeft(p parity.State, s summation.State) summation.State {
	if p.Len() == 0 {
		return d.summation.Bottom()
	}
	var kept []summation.Tuple
	for _, tup := range s.Elems() {
		if d.tupleConsistentWithParity(p, tup) {
			kept = append(kept, tup)
		}
	}
	return lattice.FromSlice(kept)
}

func (d *Domain) tupleConsistentWithParity(p parity.State, tup summation.Tuple) bool {
	refined := p
	for i, v := range tup {
		mv, ok := v.MidValue()
		if !ok || mv.HasUnknown {
			continue
		}
		refined = d.parity.Transform(&ast.Assume{
			Cond: &ast.VarConsEq{I: ast.VarID(i), C: mv.Const},
		}, refined)
		if refined.Len() == 0 {
			return false
		}
	}
	return true
}
