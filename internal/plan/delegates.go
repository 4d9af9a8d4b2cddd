package plan

import "sort"

// delegateOrder sorts the methods of dao so that every delegate comes
// before the methods delegating to it.
//
// The order is deterministic: among the methods that are ready, the one
// declared first is picked. Methods that are on a delegate cycle, or that
// delegate into one, cannot be ordered and are returned in cyclic. Unknown
// delegates and self-delegation are reported by the method planner and
// ignored here.
func delegateOrder(dao *DAO) (order, cyclic []int) {
	n := len(dao.Methods)
	if n == 0 {
		return nil, nil
	}

	index := make(map[string]int, n)
	for i := range dao.Methods {
		index[dao.Methods[i].Name] = i
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range dao.Methods {
		d, ok := index[dao.Methods[i].Delegate]
		if !ok || d == i {
			continue
		}

		indeg[i]++
		out[d] = append(out[d], i)
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order = make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	for i := range n {
		if indeg[i] > 0 {
			cyclic = append(cyclic, i)
		}
	}

	return order, cyclic
}
