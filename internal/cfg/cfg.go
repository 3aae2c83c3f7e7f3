// Package cfg builds the label-indexed control-flow graph that the solver
// iterates over: one edge per program line, each carrying the command that
// runs when control crosses it. See SPEC_FULL.md §3/§4.5.
package cfg

import (
	"fmt"
	"sort"

	"github.com/intalyze/intalyze/internal/ast"
	"github.com/intalyze/intalyze/internal/errors"
)

// NodeID is a dense node identifier assigned by Build, in the order labels
// are first seen.
type NodeID int

// LabelEdge is one parsed "L_from <cmd> L_to" program line, before labels
// have been relabeled to dense NodeIDs.
type LabelEdge struct {
	From string
	To   string
	Cmd  ast.Command
}

// Edge is a relabeled LabelEdge.
type Edge struct {
	From, To NodeID
	Cmd      ast.Command
}

// Graph is the relabeled control-flow graph together with the original
// source labels, kept for diagnostics.
type Graph struct {
	edges []Edge
	preds map[NodeID][]Edge
	succs map[NodeID][]Edge

	labelOf    map[string]NodeID
	originalOf map[NodeID]string
}

// Build relabels the program's textual labels densely in first-seen order
// and indexes predecessor/successor edges.
func Build(edges []LabelEdge) (*Graph, error) {
	g := &Graph{
		preds:      make(map[NodeID][]Edge),
		succs:      make(map[NodeID][]Edge),
		labelOf:    make(map[string]NodeID),
		originalOf: make(map[NodeID]string),
	}

	intern := func(label string) NodeID {
		if id, ok := g.labelOf[label]; ok {
			return id
		}
		id := NodeID(len(g.labelOf))
		g.labelOf[label] = id
		g.originalOf[id] = label
		return id
	}

	for _, le := range edges {
		from := intern(le.From)
		to := intern(le.To)
		e := Edge{From: from, To: to, Cmd: le.Cmd}
		g.edges = append(g.edges, e)
		g.succs[from] = append(g.succs[from], e)
		g.preds[to] = append(g.preds[to], e)
	}

	if len(g.edges) == 0 {
		return nil, fmt.Errorf("cfg: program has no edges")
	}

	return g, nil
}

// NumNodes reports the number of distinct labels seen.
func (g *Graph) NumNodes() int { return len(g.labelOf) }

// Predecessors returns the edges whose To is id.
func (g *Graph) Predecessors(id NodeID) []Edge { return g.preds[id] }

// Successors returns the edges whose From is id.
func (g *Graph) Successors(id NodeID) []Edge { return g.succs[id] }

// OriginalLabel returns the textual label a NodeID was assigned from.
func (g *Graph) OriginalLabel(id NodeID) string { return g.originalOf[id] }

// NodeIDs returns every node id in ascending order.
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.labelOf))
	for id := range g.originalOf {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// StartNode returns the unique node with no incoming edges. Programs with
// zero or more than one such node are malformed — there is no well-defined
// entry point — and this is a fatal, not recoverable, condition (C001/C002).
func (g *Graph) StartNode() (NodeID, error) {
	var starts []NodeID
	for _, id := range g.NodeIDs() {
		if len(g.preds[id]) == 0 {
			starts = append(starts, id)
		}
	}

	pos := g.edges[0].Cmd.Pos()
	switch len(starts) {
	case 0:
		return 0, errors.Errors{errors.NoStartNode(pos)}
	case 1:
		return starts[0], nil
	default:
		labels := make([]string, len(starts))
		for i, id := range starts {
			labels[i] = g.OriginalLabel(id)
		}
		return 0, errors.Errors{errors.AmbiguousStartNode(labels, pos)}
	}
}
