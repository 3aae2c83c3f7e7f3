package lattice

// Disjunctive is the disjunctive completion of a lattice whose mid-values
// have type V: a finite, duplicate-free set of V. Both the parity domain
// (columns of a parity vector) and the summation domain (tuples of
// per-variable AbsVal) are built on top of this. SPEC_FULL.md §4.1 defines
// the generic completion's top/bottom as the singletons {top_L}/{bot_L};
// concrete domains are free to normalize bottom to the empty set when
// their own representation makes that the more natural choice (see the
// summation domain, where bottom genuinely is "no tuples").
type Disjunctive[V any] struct {
	elems []V
}

// EquivOps is the equivalence test used to deduplicate and compare
// elements of a Disjunctive set; it is the only capability the base
// lattice L needs to expose for this constructor.
type EquivOps[V any] interface {
	EquivMid(a, b V) bool
}

// Empty returns the empty disjunctive set.
func Empty[V any]() Disjunctive[V] { return Disjunctive[V]{} }

// Singleton returns the disjunctive set containing exactly v.
func Singleton[V any](v V) Disjunctive[V] { return Disjunctive[V]{elems: []V{v}} }

// FromSlice builds a disjunctive set from already-deduplicated elements,
// without re-checking uniqueness. Callers that cannot guarantee dedup
// should use Union instead.
func FromSlice[V any](vs []V) Disjunctive[V] { return Disjunctive[V]{elems: vs} }

// Elems returns the set's elements. The returned slice must not be
// mutated by the caller — Disjunctive values are shared after Stabilize.
func (d Disjunctive[V]) Elems() []V { return d.elems }

// Len returns the number of elements in the set.
func (d Disjunctive[V]) Len() int { return len(d.elems) }

// Union computes the deduplicated union of a sequence of disjunctive sets.
func Union[V any](ops EquivOps[V], xs []Disjunctive[V]) Disjunctive[V] {
	var out []V
	for _, x := range xs {
		for _, e := range x.elems {
			if !containsMid(ops, out, e) {
				out = append(out, e)
			}
		}
	}
	return Disjunctive[V]{elems: out}
}

// SetEquiv is mutual-subset equivalence under ops.EquivMid.
func SetEquiv[V any](ops EquivOps[V], x, y Disjunctive[V]) bool {
	return isSubsetMid(ops, x.elems, y.elems) && isSubsetMid(ops, y.elems, x.elems)
}

func containsMid[V any](ops EquivOps[V], in []V, v V) bool {
	for _, e := range in {
		if ops.EquivMid(e, v) {
			return true
		}
	}
	return false
}

func isSubsetMid[V any](ops EquivOps[V], a, b []V) bool {
	for _, v := range a {
		if !containsMid(ops, b, v) {
			return false
		}
	}
	return true
}
