// Package solver implements chaotic iteration (C5): a deterministic
// worklist fixpoint solver over a cfg.Graph, generic over any abstract
// domain satisfying Analysis. See SPEC_FULL.md §4.5.
package solver

import (
	"github.com/intalyze/intalyze/internal/ast"
	"github.com/intalyze/intalyze/internal/cfg"
	"github.com/intalyze/intalyze/internal/errors"
)

// MaxIterations bounds the number of worklist pops before the solver gives
// up and reports a divergence error (C003). Every domain this analyzer
// ships has bounded lattice height for a fixed variable count, so a
// converging program terminates well under this; exceeding it means a
// domain's Transform or Join is not actually monotone.
const MaxIterations = 1024

// divergencePos picks a representative source position to anchor a C003
// diagnostic on: chaotic iteration has no single offending line, so this
// just needs any edge in the graph to point the reporter somewhere real.
func divergencePos(g *cfg.Graph) ast.Position {
	for _, id := range g.NodeIDs() {
		if succs := g.Successors(id); len(succs) > 0 {
			return succs[0].Cmd.Pos()
		}
	}
	return ast.Position{}
}

// Analysis is the capability an abstract domain exposes to the solver: its
// own state type S, the lattice operations over S, and the single Command
// transfer function every edge applies.
type Analysis[S any] interface {
	Bottom() S
	Top() S
	Join(xs []S) S
	Equiv(x, y S) bool
	Stabilize(x S) S
	Transform(cmd ast.Command, x S) S
}

// Solve runs chaotic iteration to a fixpoint over g using a. The result is
// indexed by cfg.NodeID: result[n] is the abstract state that holds on
// entry to n (transform-before-join: an edge is applied before its result
// is joined into the successor, not after — see SPEC_FULL.md §4.5).
func Solve[S any](g *cfg.Graph, a Analysis[S]) ([]S, error) {
	n := g.NumNodes()
	start, err := g.StartNode()
	if err != nil {
		return nil, err
	}

	state := make([]S, n)
	for i := range state {
		state[i] = a.Bottom()
	}
	state[start] = a.Top()

	worklist := newQueue(g.NodeIDs())
	iterations := 0

	for !worklist.empty() {
		iterations++
		if iterations > MaxIterations {
			return nil, errors.Errors{errors.SolverDivergence(iterations, divergencePos(g))}
		}

		node := worklist.pop()
		cur := state[node]

		for _, e := range g.Successors(node) {
			transformed := a.Stabilize(a.Transform(e.Cmd, cur))
			joined := a.Join([]S{state[e.To], transformed})
			joined = a.Stabilize(joined)
			if !a.Equiv(joined, state[e.To]) {
				state[e.To] = joined
				worklist.push(e.To)
			}
		}
	}

	return state, nil
}

// queue is a deterministic FIFO worklist with membership tracking so a node
// is never queued twice concurrently; this is what "deterministic, not
// random" popping (SPEC_FULL.md §4.5) means in practice.
type queue struct {
	items  []cfg.NodeID
	queued map[cfg.NodeID]bool
}

func newQueue(seed []cfg.NodeID) *queue {
	q := &queue{queued: make(map[cfg.NodeID]bool, len(seed))}
	for _, id := range seed {
		q.push(id)
	}
	return q
}

func (q *queue) push(id cfg.NodeID) {
	if q.queued[id] {
		return
	}
	q.queued[id] = true
	q.items = append(q.items, id)
}

func (q *queue) pop() cfg.NodeID {
	id := q.items[0]
	q.items = q.items[1:]
	q.queued[id] = false
	return id
}

func (q *queue) empty() bool { return len(q.items) == 0 }

// AssertionResult is one discharged Assert's outcome.
type AssertionResult struct {
	Label  string
	Pos    ast.Position
	Pred   ast.OrChain
	Proved bool
}

// VerifyAnalysis is the subset of Analysis a domain exposes for discharging
// assertions once the fixpoint states are known.
type VerifyAnalysis[S any] interface {
	VerifyAssertion(pred ast.OrChain, x S) bool
}

// DischargeAssertions walks every edge whose command is an Assert and
// checks it against the fixpoint state that holds on entry to that edge's
// source node — the same state the transfer function saw.
func DischargeAssertions[S any](g *cfg.Graph, a VerifyAnalysis[S], fixpoint []S) []AssertionResult {
	var out []AssertionResult
	for _, id := range g.NodeIDs() {
		for _, e := range g.Successors(id) {
			assert, ok := e.Cmd.(*ast.Assert)
			if !ok {
				continue
			}
			out = append(out, AssertionResult{
				Label:  g.OriginalLabel(id),
				Pos:    assert.Pos(),
				Pred:   assert.Pred,
				Proved: a.VerifyAssertion(assert.Pred, fixpoint[id]),
			})
		}
	}
	return out
}
