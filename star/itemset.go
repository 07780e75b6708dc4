package star

import "fmt"

// Itemset is a discovered frequent item combination. Items are in the order
// they were fixed during decomposition, not sorted.
type Itemset struct {
	Items   []int
	Support int
}

// String renders the itemset the way result files store it:
// two leading spaces, the item ids, then the support in brackets.
func (is Itemset) String() string {
	return fmt.Sprintf("  %s [%d]", JoinItems(is.Items), is.Support)
}

// Extend returns the itemset made of the core of s and the item of column
// col. Its support is capped by the support of the core.
func (s *Star) Extend(col int) Itemset {
	items := make([]int, 0, len(s.Core)+1)
	items = append(items, s.Core...)
	items = append(items, s.VertexName[col])

	support := s.Support[col]
	if len(s.Core) > 0 && s.Count < support {
		support = s.Count
	}
	return Itemset{Items: items, Support: support}
}
