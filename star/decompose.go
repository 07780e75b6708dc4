package star

// Decompose derives the child Stars of s. Walking the columns in canonical
// order, the column at position i roots a child made of the rows containing
// it, restricted to the columns ranked after i. Children are pruned against
// threshold and handed to fn with their position; children left without
// columns are dropped. The last position never roots a child since it has
// nothing ranked after it.
//
// s must not be used once Decompose returns.
func (s *Star) Decompose(threshold int, fn func(pos int, child *Star)) {
	if s.NumVertex < 2 {
		return
	}
	order := s.CanonicalOrder()
	for i := 0; i < s.NumVertex-1; i++ {
		child := s.project(order, i).Prune(threshold)
		if child.NumVertex == 0 {
			continue
		}
		fn(i, child)
	}
}

// project builds the unpruned child rooted at order[pos].
func (s *Star) project(order []int, pos int) *Star {
	root := order[pos]
	cols := order[pos+1:]

	child := newStar(s.Support[root], len(cols))
	child.Core = make([]int, 0, len(s.Core)+1)
	child.Core = append(child.Core, s.Core...)
	child.Core = append(child.Core, s.VertexName[root])
	child.Count = s.Support[root]
	for c, col := range cols {
		child.VertexName[c] = s.VertexName[col]
	}

	m := 0
	for row := 0; row < s.NumSimplex; row++ {
		if !s.Connected(row, root) {
			continue
		}
		for c, col := range cols {
			if s.Connected(row, col) {
				child.set(m, c)
				child.Support[c]++
			}
		}
		m++
	}
	return child
}
