package tree

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Compare returns an integer comparing two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
//
// Mappings compare by their entries sorted by key, so key order does not
// matter. Numbers compare numerically when both parse as floats.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	rankA, rankB := rank(a), rank(b)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}
	switch a.Type {
	case MappingType:
		return compareMappings(a, b)
	case SequenceType:
		return compareSequences(a, b)
	}
	switch a.Kind {
	case NullKind:
		return 0
	case NumberKind:
		return compareNumbers(a.Value, b.Value)
	}
	return strings.Compare(a.Value, b.Value)
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

// rank returns the sorting rank of a node.
// Order: Null < Bool < Number < String < Sequence < Mapping
func rank(n *Node) int {
	switch n.Type {
	case SequenceType:
		return 5
	case MappingType:
		return 6
	}
	switch n.Kind {
	case NullKind:
		return 1
	case BoolKind:
		return 2
	case NumberKind:
		return 3
	case StringKind:
		return 4
	}
	return 100
}

func compareNumbers(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		if c := cmp.Compare(fa, fb); c != 0 {
			return c
		}
		ia, errA := strconv.ParseInt(a, 10, 64)
		ib, errB := strconv.ParseInt(b, 10, 64)
		if errA == nil && errB == nil {
			return cmp.Compare(ia, ib)
		}
		return 0
	}
	return strings.Compare(a, b)
}

func compareSequences(a, b *Node) int {
	lenA := len(a.Values)
	lenB := len(b.Values)
	for i := range min(lenA, lenB) {
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

func compareMappings(a, b *Node) int {
	ka := sortedIndex(a)
	kb := sortedIndex(b)
	for i := range min(len(ka), len(kb)) {
		if c := strings.Compare(a.Fields[ka[i]], b.Fields[kb[i]]); c != 0 {
			return c
		}
		if c := Compare(a.Values[ka[i]], b.Values[kb[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ka), len(kb))
}

func sortedIndex(n *Node) []int {
	idx := make([]int, len(n.Fields))
	for i := range idx {
		idx[i] = i
	}
	slices.SortFunc(idx, func(i, j int) int {
		return strings.Compare(n.Fields[i], n.Fields[j])
	})
	return idx
}
