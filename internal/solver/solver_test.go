package solver

import (
	"testing"

	"github.com/intalyze/intalyze/internal/ast"
	"github.com/intalyze/intalyze/internal/cfg"
	"github.com/intalyze/intalyze/internal/errors"
	"github.com/intalyze/intalyze/internal/parity"
)

// buildLinear builds L0 -cmd0-> L1 -cmd1-> L2 ... as a straight-line graph.
func buildLinear(t *testing.T, cmds []ast.Command) *cfg.Graph {
	t.Helper()
	var edges []cfg.LabelEdge
	for i, c := range cmds {
		from := labelOf(i)
		to := labelOf(i + 1)
		edges = append(edges, cfg.LabelEdge{From: from, To: to, Cmd: c})
	}
	g, err := cfg.Build(edges)
	if err != nil {
		t.Fatalf("unexpected error building cfg: %v", err)
	}
	return g
}

func labelOf(i int) string {
	return "L" + string(rune('0'+i))
}

func TestSolveStraightLineProgram(t *testing.T) {
	d := &parity.Domain{N: 1}
	g := buildLinear(t, []ast.Command{
		&ast.ConstAssign{Dest: 0, Val: 4},
		&ast.IncAssign{Dest: 0, Src: 0},
	})

	result, err := Solve[parity.State](g, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start, _ := g.StartNode()
	if !d.Equiv(result[start], d.Top()) {
		t.Fatalf("entry state should be top")
	}

	last := cfg.NodeID(2)
	if result[last].Len() != 1 || result[last].Elems()[0][0] != parity.Odd {
		t.Fatalf("expected x0 odd at the end of x0:=4; x0:=x0+1, got %v", result[last])
	}
}

func TestSolveLoopConverges(t *testing.T) {
	d := &parity.Domain{N: 1}
	// L0 -x0:=0-> L1 -assume true-> L2 -x0:=x0+1-> L1 (loop back)
	edges := []cfg.LabelEdge{
		{From: "L0", To: "L1", Cmd: &ast.ConstAssign{Dest: 0, Val: 0}},
		{From: "L1", To: "L2", Cmd: &ast.Assume{Cond: &ast.True{}}},
		{From: "L2", To: "L1", Cmd: &ast.IncAssign{Dest: 0, Src: 0}},
	}
	g, err := cfg.Build(edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := Solve[parity.State](g, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l1, _ := labelIndex(g, "L1")
	if result[l1].Len() != 2 {
		t.Fatalf("loop header should see both parities at the fixpoint, got %d", result[l1].Len())
	}
}

func labelIndex(g *cfg.Graph, label string) (cfg.NodeID, bool) {
	for _, id := range g.NodeIDs() {
		if g.OriginalLabel(id) == label {
			return id, true
		}
	}
	return 0, false
}

func TestDischargeAssertions(t *testing.T) {
	d := &parity.Domain{N: 1}
	pred := ast.OrChain{Ands: []ast.AndChain{{Preds: []ast.Expr{&ast.TestEven{I: 0}}}}}
	edges := []cfg.LabelEdge{
		{From: "L0", To: "L1", Cmd: &ast.ConstAssign{Dest: 0, Val: 4}},
		{From: "L1", To: "L2", Cmd: &ast.Assert{Pred: pred}},
	}
	g, err := cfg.Build(edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := Solve[parity.State](g, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := DischargeAssertions[parity.State](g, d, result)
	if len(results) != 1 {
		t.Fatalf("expected exactly 1 discharged assertion, got %d", len(results))
	}
	if !results[0].Proved {
		t.Fatalf("x0 even should be proved after x0 := 4")
	}
}

// everIncreasingDomain never reaches a fixpoint: every Transform strictly
// increases the counter, so Solve must hit MaxIterations and report C003.
type everIncreasingDomain struct{}

func (everIncreasingDomain) Bottom() int  { return 0 }
func (everIncreasingDomain) Top() int     { return 0 }
func (everIncreasingDomain) Stabilize(x int) int { return x }

func (everIncreasingDomain) Transform(cmd ast.Command, x int) int { return x + 1 }

func (everIncreasingDomain) Equiv(x, y int) bool { return x == y }

func (everIncreasingDomain) Join(xs []int) int {
	max := xs[0]
	for _, x := range xs[1:] {
		if x > max {
			max = x
		}
	}
	return max
}

func TestSolveReportsDivergenceAsCompilerError(t *testing.T) {
	// L0 is the unique entry point; L1/L2 form a cycle whose state keeps
	// strictly increasing under everIncreasingDomain and so never settles.
	edges := []cfg.LabelEdge{
		{From: "L0", To: "L1", Cmd: &ast.Skip{}},
		{From: "L1", To: "L2", Cmd: &ast.Skip{}},
		{From: "L2", To: "L1", Cmd: &ast.Skip{}},
	}
	g, err := cfg.Build(edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = Solve[int](g, everIncreasingDomain{})
	if err == nil {
		t.Fatalf("expected a divergence error")
	}
	violations, ok := err.(errors.Errors)
	if !ok || len(violations) != 1 || violations[0].Code != "C003" {
		t.Fatalf("expected a single C003 CompilerError, got %v", err)
	}
}
