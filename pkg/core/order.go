package core

import "sort"

// ApplyOrder computes the order list that results from asking for ids on top
// of the current order.
//
// Each requested identifier is resolved to its index in order; unknown ones are
// discarded. If any index resolves twice the request is rejected with
// ErrDuplicateID and order is returned unchanged. Otherwise the resolved
// identifiers lead in the requested order and identifiers the request omitted
// follow in their previous relative order. The result is always a permutation
// of order.
func ApplyOrder(order, ids []Identifier) ([]Identifier, error) {
	position := make(map[Identifier]int, len(order))
	for i, id := range order {
		position[id] = i
	}

	resolved := make([]int, 0, len(ids))
	for _, id := range ids {
		if i, ok := position[id]; ok {
			resolved = append(resolved, i)
		}
	}

	sorted := append([]int(nil), resolved...)
	sort.Ints(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return order, ErrDuplicateID
		}
	}

	taken := make([]bool, len(order))
	next := make([]Identifier, 0, len(order))
	for _, i := range resolved {
		taken[i] = true
		next = append(next, order[i])
	}
	for i, id := range order {
		if !taken[i] {
			next = append(next, id)
		}
	}
	return next, nil
}
