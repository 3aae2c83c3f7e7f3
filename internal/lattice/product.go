package lattice

// Product is the Cartesian-product lattice element pairing two
// independently-analyzed domains. Bottom/top/join/equiv are componentwise
// per SPEC_FULL.md §4.1/§4.4; there is no extra Bottom/Top wrapper around
// the pair itself, matching how the combined domain (C4) uses it.
type Product[L, R any] struct {
	Left  L
	Right R
}

// ProductBottom builds the componentwise bottom of l x r.
func ProductBottom[L, R any](l Domain[L], r Domain[R]) Product[L, R] {
	return Product[L, R]{Left: l.Bottom(), Right: r.Bottom()}
}

// ProductTop builds the componentwise top of l x r.
func ProductTop[L, R any](l Domain[L], r Domain[R]) Product[L, R] {
	return Product[L, R]{Left: l.Top(), Right: r.Top()}
}

// ProductJoin joins a sequence of pairs componentwise.
func ProductJoin[L, R any](l Domain[L], r Domain[R], xs []Product[L, R]) Product[L, R] {
	ls := make([]L, len(xs))
	rs := make([]R, len(xs))
	for i, x := range xs {
		ls[i] = x.Left
		rs[i] = x.Right
	}
	return Product[L, R]{Left: l.Join(ls), Right: r.Join(rs)}
}

// ProductEquiv is the conjunction of componentwise equivalence.
func ProductEquiv[L, R any](l Domain[L], r Domain[R], x, y Product[L, R]) bool {
	return l.Equiv(x.Left, y.Left) && r.Equiv(x.Right, y.Right)
}
