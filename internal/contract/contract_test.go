package contract_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intalyze/intalyze/internal/ast"
	"github.com/intalyze/intalyze/internal/cfg"
	"github.com/intalyze/intalyze/internal/contract"
)

func edge(from, to string, cmd ast.Command) cfg.LabelEdge {
	return cfg.LabelEdge{From: from, To: to, Cmd: cmd}
}

func TestCheckAcceptsWellFormedProgram(t *testing.T) {
	edges := []cfg.LabelEdge{
		edge("L0", "L1", &ast.ConstAssign{Dest: 0, Val: 3}),
		edge("L1", "L2", &ast.UnknownAssign{Dest: 1, UID: 0}),
		edge("L2", "L3", &ast.Assert{Pred: ast.OrChain{Ands: []ast.AndChain{
			{Preds: []ast.Expr{&ast.TestEven{I: 0}}},
		}}}),
	}
	require.Empty(t, contract.Check(2, edges))
}

func TestCheckCatchesOutOfRangeVarID(t *testing.T) {
	edges := []cfg.LabelEdge{
		edge("L0", "L1", &ast.ConstAssign{Dest: 5, Val: 3}),
	}
	errs := contract.Check(2, edges)
	require.Len(t, errs, 1)
}

func TestCheckCatchesDuplicateUnknownID(t *testing.T) {
	edges := []cfg.LabelEdge{
		edge("L0", "L1", &ast.UnknownAssign{Dest: 0, UID: 7}),
		edge("L1", "L2", &ast.UnknownAssign{Dest: 0, UID: 7}),
	}
	errs := contract.Check(1, edges)
	require.Len(t, errs, 1)
	require.Equal(t, "P002", errs[0].Code)
}

func TestCheckCatchesEmptyAndChain(t *testing.T) {
	edges := []cfg.LabelEdge{
		edge("L0", "L1", &ast.Assert{Pred: ast.OrChain{Ands: []ast.AndChain{{Preds: nil}}}}),
	}
	errs := contract.Check(1, edges)
	require.Len(t, errs, 1)
	require.Equal(t, "P003", errs[0].Code)
}

func TestCheckCatchesEmptyOrChain(t *testing.T) {
	edges := []cfg.LabelEdge{
		edge("L0", "L1", &ast.Assert{Pred: ast.OrChain{}}),
	}
	errs := contract.Check(1, edges)
	require.Len(t, errs, 1)
	require.Equal(t, "P003", errs[0].Code)
}

func TestCheckCatchesEmptySumList(t *testing.T) {
	edges := []cfg.LabelEdge{
		edge("L0", "L1", &ast.Assume{Cond: &ast.SumEq{L: nil, R: []ast.VarID{0}}}),
	}
	errs := contract.Check(1, edges)
	require.Len(t, errs, 1)
	require.Equal(t, "P004", errs[0].Code)
}

func TestCheckCatchesMultipleViolationsInOnePass(t *testing.T) {
	edges := []cfg.LabelEdge{
		edge("L0", "L1", &ast.ConstAssign{Dest: 9, Val: 1}),
		edge("L1", "L2", &ast.Assume{Cond: &ast.SumEq{L: nil, R: nil}}),
	}
	errs := contract.Check(1, edges)
	require.Len(t, errs, 3)
}
