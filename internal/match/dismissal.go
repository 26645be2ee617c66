package match

// Entity type keys for the dismissed-pair store.
const (
	EntityTypeCustomer = "customer"
	EntityTypeBuilding = "building"
)

type pairKey struct {
	low  int64
	high int64
}

// DismissalSet is a read-only snapshot of "never suggest this pair again"
// decisions for one tenant and entity type. Detectors receive it explicitly
// per call, never as ambient state.
type DismissalSet struct {
	pairs map[pairKey]struct{}
}

// NewDismissalSet builds a set from id pairs. Pair order does not matter.
func NewDismissalSet(pairs [][2]int64) DismissalSet {
	set := DismissalSet{pairs: make(map[pairKey]struct{}, len(pairs))}
	for _, p := range pairs {
		set.pairs[canonicalPair(p[0], p[1])] = struct{}{}
	}
	return set
}

// Contains reports whether (a, b) was dismissed, in either order.
func (s DismissalSet) Contains(a, b int64) bool {
	if s.pairs == nil {
		return false
	}
	_, ok := s.pairs[canonicalPair(a, b)]
	return ok
}

// Len returns the number of dismissed pairs.
func (s DismissalSet) Len() int {
	return len(s.pairs)
}

func canonicalPair(a, b int64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{low: a, high: b}
}
