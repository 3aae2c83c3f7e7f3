package parity

import (
	"testing"

	"github.com/intalyze/intalyze/internal/ast"
)

func TestTopHasAllRows(t *testing.T) {
	d := &Domain{N: 2}
	top := d.Top()
	if top.Len() != 4 {
		t.Fatalf("expected 4 rows for N=2, got %d", top.Len())
	}
}

func TestBottomIsEmpty(t *testing.T) {
	d := &Domain{N: 2}
	if d.Bottom().Len() != 0 {
		t.Fatalf("bottom should have no rows")
	}
}

func TestConstAssignSetsParity(t *testing.T) {
	d := &Domain{N: 1}
	x := d.Top()
	x = d.Transform(&ast.ConstAssign{Dest: 0, Val: 4}, x)
	if x.Len() != 1 {
		t.Fatalf("expected a single row after const-assign, got %d", x.Len())
	}
	if x.Elems()[0][0] != Even {
		t.Fatalf("expected x0 even after x0 := 4")
	}

	y := d.Top()
	y = d.Transform(&ast.ConstAssign{Dest: 0, Val: 3}, y)
	if y.Elems()[0][0] != Odd {
		t.Fatalf("expected x0 odd after x0 := 3")
	}
}

func TestIncFlipsParity(t *testing.T) {
	d := &Domain{N: 2}
	x := d.Top()
	x = d.Transform(&ast.ConstAssign{Dest: 0, Val: 2}, x)
	x = d.Transform(&ast.IncAssign{Dest: 1, Src: 0}, x)
	for _, r := range x.Elems() {
		if r[1] != Odd {
			t.Fatalf("expected x1 odd after x1 := x0+1 where x0 even")
		}
	}
}

func TestAssumeFalseGoesBottom(t *testing.T) {
	d := &Domain{N: 1}
	x := d.Top()
	x = d.Transform(&ast.Assume{Cond: &ast.False{}}, x)
	if x.Len() != 0 {
		t.Fatalf("assume false should drive state to bottom")
	}
}

func TestAssumeEvenFilters(t *testing.T) {
	d := &Domain{N: 1}
	x := d.Top()
	x = d.Transform(&ast.Assume{Cond: &ast.TestEven{I: 0}}, x)
	if x.Len() != 1 || x.Elems()[0][0] != Even {
		t.Fatalf("expected only the even row to survive")
	}
}

func TestAssumeVarNeqIsNoOp(t *testing.T) {
	d := &Domain{N: 2}
	x := d.Top()
	filtered := d.Transform(&ast.Assume{Cond: &ast.VarNeq{I: 0, J: 1}}, x)
	if filtered.Len() != x.Len() {
		t.Fatalf("VarNeq should not narrow the parity domain: unsound to filter on inequality of unknown values")
	}
}

func TestUnknownAssignSplitsRow(t *testing.T) {
	d := &Domain{N: 1}
	x := d.Transform(&ast.ConstAssign{Dest: 0, Val: 1}, d.Top())
	x = d.Transform(&ast.UnknownAssign{Dest: 0}, x)
	if x.Len() != 2 {
		t.Fatalf("unknown-assign should produce both parities, got %d", x.Len())
	}
}

func TestVerifyAssertionVacuousOnBottom(t *testing.T) {
	d := &Domain{N: 1}
	pred := ast.OrChain{Ands: []ast.AndChain{{Preds: []ast.Expr{&ast.False{}}}}}
	if !d.VerifyAssertion(pred, d.Bottom()) {
		t.Fatalf("an assertion over a bottom (unreachable) state should vacuously verify")
	}
}

func TestVerifyAssertionEvenOrOdd(t *testing.T) {
	d := &Domain{N: 1}
	x := d.Top()
	pred := ast.OrChain{Ands: []ast.AndChain{
		{Preds: []ast.Expr{&ast.TestEven{I: 0}}},
		{Preds: []ast.Expr{&ast.TestOdd{I: 0}}},
	}}
	if !d.VerifyAssertion(pred, x) {
		t.Fatalf("every row is even or odd, assertion should hold")
	}
}

func TestJoinUnionsDistinctRows(t *testing.T) {
	d := &Domain{N: 1}
	even := d.Transform(&ast.ConstAssign{Dest: 0, Val: 0}, d.Top())
	odd := d.Transform(&ast.ConstAssign{Dest: 0, Val: 1}, d.Top())
	joined := d.Join([]State{even, odd})
	if joined.Len() != 2 {
		t.Fatalf("expected joined set of 2 rows, got %d", joined.Len())
	}
	if !d.Equiv(joined, d.Top()) {
		t.Fatalf("joining the only even row with the only odd row for N=1 should equal top")
	}
}
