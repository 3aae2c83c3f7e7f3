// Package ast defines the command and predicate node kinds consumed by the
// abstract domains' transfer functions. Every CFG edge carries exactly one
// Command; every Assume/Assert carries an Expr drawn from the same
// predicate set.
package ast

import "fmt"

// Position tracks where a node came from in the source for diagnostics.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return "?"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// VarID is a dense variable identifier in [0, n).
type VarID int

// UnknownID identifies a specific '?' occurrence; distinct occurrences get
// distinct ids even when textually identical.
type UnknownID int
