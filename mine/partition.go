package mine

import (
	"starmine/star"
)

// Partition emits every column of the pruned top level table as a single
// item, then decomposes the table once and deals the child at position i to
// worker i mod p.Workers. The table must not be used afterwards.
func Partition(table *star.Star, p Params) ([]star.Itemset, [][]*star.Star) {
	topLevel := make([]star.Itemset, 0, table.NumVertex)
	queues := make([][]*star.Star, p.Workers)

	if !p.allows(1) {
		return topLevel, queues
	}
	for col := 0; col < table.NumVertex; col++ {
		if table.Support[col] >= p.MinSupport {
			topLevel = append(topLevel, table.Extend(col))
		}
	}

	if !p.allows(2) {
		return topLevel, queues
	}
	table.Decompose(p.MinSupport, func(pos int, child *star.Star) {
		w := pos % p.Workers
		queues[w] = append(queues[w], child)
	})
	return topLevel, queues
}
