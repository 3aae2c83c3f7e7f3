// Package summation implements the summation domain (C3): for each of N
// program variables, track either a known constant or a distinctly-tagged
// unknown ('?'), disjoint over tuples it cannot distinguish, and verify
// SUM-equality assertions by matching constant totals and unknown-tag
// multisets. See SPEC_FULL.md §4.3.
package summation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/intalyze/intalyze/internal/ast"
	"github.com/intalyze/intalyze/internal/lattice"
)

// ConstUnknown is the mid-value of one variable's AbsVal: a constant,
// optionally added to an unknown tagged by the '?' occurrence that
// produced it.
type ConstUnknown struct {
	HasUnknown bool
	UnknownTag int
	Const      int
}

func constOf(n int) ConstUnknown { return ConstUnknown{Const: n} }

func unknownOf(tag int) ConstUnknown { return ConstUnknown{HasUnknown: true, UnknownTag: tag} }

// Inc returns the value one higher, preserving the unknown tag if any.
func (c ConstUnknown) Inc() ConstUnknown {
	c.Const++
	return c
}

// Dec returns the value one lower, preserving the unknown tag if any.
func (c ConstUnknown) Dec() ConstUnknown {
	c.Const--
	return c
}

// Equal reports structural equality: same unknown tag (or none on both
// sides) and same constant.
func (c ConstUnknown) Equal(o ConstUnknown) bool {
	if c.HasUnknown != o.HasUnknown {
		return false
	}
	if c.HasUnknown && c.UnknownTag != o.UnknownTag {
		return false
	}
	return c.Const == o.Const
}

func (c ConstUnknown) String() string {
	if c.HasUnknown {
		return fmt.Sprintf("?%d", c.UnknownTag)
	}
	return fmt.Sprintf("%d", c.Const)
}

type cuOps struct{}

// JoinMid escalates to Top unless the two mid-values are structurally
// equal: two different constants (or two differently-tagged unknowns) have
// no shared summary value below Top.
func (cuOps) JoinMid(a, b ConstUnknown) lattice.Element[ConstUnknown] {
	if a.Equal(b) {
		return lattice.Mid(a)
	}
	return lattice.Top[ConstUnknown]()
}

func (cuOps) EquivMid(a, b ConstUnknown) bool { return a.Equal(b) }

// AbsVal is one variable's abstract value: Bottom (unreachable), Top
// (could be anything), or Mid(ConstUnknown).
type AbsVal = lattice.Element[ConstUnknown]

// Tuple is one row: the AbsVal of every variable, x0..x(n-1).
type Tuple []AbsVal

func (t Tuple) clone() Tuple {
	c := make(Tuple, len(t))
	copy(c, t)
	return c
}

func (t Tuple) equal(o Tuple) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if !lattice.Equiv(cuOps{}, t[i], o[i]) {
			return false
		}
	}
	return true
}

func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		switch {
		case v.IsBottom():
			parts[i] = fmt.Sprintf("x%d:bot", i)
		case v.IsTop():
			parts[i] = fmt.Sprintf("x%d:top", i)
		default:
			mv, _ := v.MidValue()
			parts[i] = fmt.Sprintf("x%d:%s", i, mv)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

type tupleOps struct{}

func (tupleOps) EquivMid(a, b Tuple) bool { return a.equal(b) }

// State is a disjunctive set of tuples — the empty set is bottom.
type State = lattice.Disjunctive[Tuple]

// Domain is the summation abstract domain over N dense variable ids.
type Domain struct {
	N int
}

// Bottom is the empty tuple set; per SPEC_FULL.md §4.3 this domain
// normalizes bottom to "no tuples" rather than a singleton all-bottom row.
func (d *Domain) Bottom() State { return lattice.Empty[Tuple]() }

// Top is the singleton all-Top tuple.
func (d *Domain) Top() State {
	t := make(Tuple, d.N)
	for i := range t {
		t[i] = lattice.Top[ConstUnknown]()
	}
	return lattice.Singleton(t)
}

// Join is deduplicated union.
func (d *Domain) Join(xs []State) State {
	return lattice.Union[Tuple](tupleOps{}, xs)
}

// Equiv is mutual-subset equivalence.
func (d *Domain) Equiv(x, y State) bool {
	return lattice.SetEquiv[Tuple](tupleOps{}, x, y)
}

// Stabilize is the identity.
func (d *Domain) Stabilize(x State) State { return x }

// Transform applies cmd's transfer function to every tuple of x. See
// SPEC_FULL.md §4.3 for the per-command table.
func (d *Domain) Transform(cmd ast.Command, x State) State {
	switch c := cmd.(type) {
	case *ast.Skip:
		return x
	case *ast.Assume:
		return d.filterExpr(c.Cond, x)
	case *ast.Assert:
		return d.filterOrChain(c.Pred, x)
	case *ast.ConstAssign:
		return d.mapTuples(x, func(t Tuple) Tuple {
			t = t.clone()
			t[c.Dest] = lattice.Mid(constOf(c.Val))
			return t
		})
	case *ast.UnknownAssign:
		return d.mapTuples(x, func(t Tuple) Tuple {
			t = t.clone()
			t[c.Dest] = lattice.Mid(unknownOf(int(c.UID)))
			return t
		})
	case *ast.VarAssign:
		return d.mapTuples(x, func(t Tuple) Tuple {
			t = t.clone()
			t[c.Dest] = t[c.Src]
			return t
		})
	case *ast.IncAssign:
		return d.mapTuples(x, func(t Tuple) Tuple {
			t = t.clone()
			t[c.Dest] = liftUnary(t[c.Src], ConstUnknown.Inc)
			return t
		})
	case *ast.DecAssign:
		return d.mapTuples(x, func(t Tuple) Tuple {
			t = t.clone()
			t[c.Dest] = liftUnary(t[c.Src], ConstUnknown.Dec)
			return t
		})
	default:
		panic(fmt.Sprintf("summation: unhandled command %T", cmd))
	}
}

func liftUnary(v AbsVal, f func(ConstUnknown) ConstUnknown) AbsVal {
	mv, ok := v.MidValue()
	if !ok {
		return v
	}
	return lattice.Mid(f(mv))
}

func (d *Domain) mapTuples(x State, f func(Tuple) Tuple) State {
	var out []Tuple
	for _, t := range x.Elems() {
		nt := f(t)
		if !containsTuple(out, nt) {
			out = append(out, nt)
		}
	}
	return lattice.FromSlice(out)
}

func containsTuple(ts []Tuple, t Tuple) bool {
	for _, e := range ts {
		if e.equal(t) {
			return true
		}
	}
	return false
}

// filterExpr keeps only tuples satisfying cond; parity-only predicates
// (TestEven/TestOdd) are no-ops here since this domain cannot decide
// parity. Var(Cons)Neq drops only tuples whose two sides are structurally
// equal Mid values; any other tuple (a Top or Bottom side, or two
// different Mid values) is kept unchanged.
func (d *Domain) filterExpr(e ast.Expr, x State) State {
	switch c := e.(type) {
	case *ast.True:
		return x
	case *ast.False:
		return d.Bottom()
	case *ast.VarEq:
		return d.filterTuples(x, func(t Tuple) (Tuple, bool) { return meetEqual(t, c.I, c.J) })
	case *ast.VarConsEq:
		return d.filterTuples(x, func(t Tuple) (Tuple, bool) {
			return meetConst(t, c.I, constOf(c.C))
		})
	case *ast.VarNeq:
		return d.keep(x, func(t Tuple) bool { return !definitelyEqual(t[c.I], t[c.J]) })
	case *ast.VarConsNeq:
		return d.keep(x, func(t Tuple) bool {
			return !definitelyEqual(t[c.I], lattice.Mid(constOf(c.C)))
		})
	case *ast.TestEven, *ast.TestOdd:
		return x
	case *ast.SumEq:
		return x
	default:
		panic(fmt.Sprintf("summation: unhandled expr %T", e))
	}
}

// filterTuples narrows or drops each tuple per f, deduplicating survivors.
func (d *Domain) filterTuples(x State, f func(Tuple) (Tuple, bool)) State {
	var out []Tuple
	for _, t := range x.Elems() {
		nt, ok := f(t)
		if !ok {
			continue
		}
		if !containsTuple(out, nt) {
			out = append(out, nt)
		}
	}
	return lattice.FromSlice(out)
}

// meetConst narrows t[i] to target: Top is refined to target, an equal Mid
// is kept as-is, and an unequal Mid makes the tuple infeasible.
func meetConst(t Tuple, i ast.VarID, target ConstUnknown) (Tuple, bool) {
	mv, ok := t[i].MidValue()
	switch {
	case t[i].IsTop():
		t = t.clone()
		t[i] = lattice.Mid(target)
		return t, true
	case ok:
		return t, mv.Equal(target)
	default:
		return t, false // i is bottom: infeasible
	}
}

// meetEqual narrows t[i] and t[j] to agree when Assume(x_i = x_j) holds: if
// exactly one side is concrete, the other is refined to match; if both are
// concrete, the tuple survives only when they already agree; if both are
// Top, nothing can be learned and the tuple is kept unchanged.
func meetEqual(t Tuple, i, j ast.VarID) (Tuple, bool) {
	vi, iOK := t[i].MidValue()
	vj, jOK := t[j].MidValue()
	switch {
	case iOK && jOK:
		return t, vi.Equal(vj)
	case iOK && t[j].IsTop():
		t = t.clone()
		t[j] = lattice.Mid(vi)
		return t, true
	case jOK && t[i].IsTop():
		t = t.clone()
		t[i] = lattice.Mid(vj)
		return t, true
	case t[i].IsBottom() || t[j].IsBottom():
		return t, false
	default:
		return t, true
	}
}

func (d *Domain) keep(x State, pred func(Tuple) bool) State {
	var out []Tuple
	for _, t := range x.Elems() {
		if pred(t) {
			out = append(out, t)
		}
	}
	return lattice.FromSlice(out)
}

func (d *Domain) filterOrChain(o ast.OrChain, x State) State {
	var out []Tuple
	for _, t := range x.Elems() {
		if d.tupleSatisfiesOr(o, t) {
			out = append(out, t)
		}
	}
	return lattice.FromSlice(out)
}

func (d *Domain) tupleSatisfiesOr(o ast.OrChain, t Tuple) bool {
	for _, and := range o.Ands {
		if d.tupleSatisfiesAnd(and, t) {
			return true
		}
	}
	return false
}

func (d *Domain) tupleSatisfiesAnd(a ast.AndChain, t Tuple) bool {
	for _, p := range a.Preds {
		if !d.tupleSatisfiesPred(p, t) {
			return false
		}
	}
	return true
}

// tupleSatisfiesPred evaluates one tuple against one predicate. Only
// constructs this domain can decide precisely — SumEq, and Mid-vs-Mid
// (in)equality — return a definite answer; everything parity-shaped is
// false, since this domain has no sound way to prove it.
func (d *Domain) tupleSatisfiesPred(p ast.Expr, t Tuple) bool {
	switch c := p.(type) {
	case *ast.True:
		return true
	case *ast.False:
		return false
	case *ast.VarEq:
		return definitelyEqual(t[c.I], t[c.J])
	case *ast.VarNeq:
		return definitelyUnequal(t[c.I], t[c.J])
	case *ast.VarConsEq:
		return definitelyEqual(t[c.I], lattice.Mid(constOf(c.C)))
	case *ast.VarConsNeq:
		return definitelyUnequal(t[c.I], lattice.Mid(constOf(c.C)))
	case *ast.TestEven, *ast.TestOdd:
		return false
	case *ast.SumEq:
		return d.sumEqHolds(c, t)
	default:
		panic(fmt.Sprintf("summation: unhandled expr %T", p))
	}
}

func definitelyEqual(a, b AbsVal) bool {
	av, aok := a.MidValue()
	bv, bok := b.MidValue()
	return aok && bok && av.Equal(bv)
}

func definitelyUnequal(a, b AbsVal) bool {
	av, aok := a.MidValue()
	bv, bok := b.MidValue()
	if !aok || !bok {
		return false
	}
	if av.HasUnknown || bv.HasUnknown {
		return false
	}
	return av.Const != bv.Const
}

// sumEqHolds decides SUM L = SUM R for a concrete tuple: the constant
// portions must add up equal, and the multiset of unknown tags on each
// side must match exactly (an unknown can only be proven equal to itself).
func (d *Domain) sumEqHolds(c *ast.SumEq, t Tuple) bool {
	lConst, lTags, lOK := splitSum(c.L, t)
	rConst, rTags, rOK := splitSum(c.R, t)
	if !lOK || !rOK {
		return false
	}
	if lConst != rConst {
		return false
	}
	return sameMultiset(lTags, rTags)
}

func splitSum(vars []ast.VarID, t Tuple) (sum int, tags []int, ok bool) {
	for _, v := range vars {
		mv, isMid := t[v].MidValue()
		if !isMid {
			return 0, nil, false
		}
		if mv.HasUnknown {
			tags = append(tags, mv.UnknownTag)
		}
		sum += mv.Const
	}
	return sum, tags, true
}

func sameMultiset(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]int(nil), a...)
	bs := append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// VerifyAssertion reports whether every tuple of x satisfies at least one
// AndChain of pred. A vacuously empty x (bottom) verifies trivially.
func (d *Domain) VerifyAssertion(pred ast.OrChain, x State) bool {
	for _, t := range x.Elems() {
		if !d.tupleSatisfiesOr(pred, t) {
			return false
		}
	}
	return true
}
