package star

// SortBySupport sorts support ascending in place and applies every swap to
// names as well, so names[i] keeps describing support[i]. Items of equal
// support end up in an unspecified but deterministic order.
func SortBySupport(support, names []int) {
	quickSort(support, names, 0, len(support)-1)
}

func quickSort(support, names []int, lo, hi int) {
	for lo < hi {
		p := partition(support, names, lo, hi)
		// recurse on the smaller half, loop on the larger one
		if p-lo < hi-p {
			quickSort(support, names, lo, p)
			lo = p + 1
		} else {
			quickSort(support, names, p+1, hi)
			hi = p
		}
	}
}

// partition is Hoare's scheme around the middle element. On return every
// element of [lo, j] is <= every element of [j+1, hi].
func partition(support, names []int, lo, hi int) int {
	pivot := support[lo+(hi-lo)/2]
	i, j := lo-1, hi+1
	for {
		for {
			i++
			if support[i] >= pivot {
				break
			}
		}
		for {
			j--
			if support[j] <= pivot {
				break
			}
		}
		if i >= j {
			return j
		}
		support[i], support[j] = support[j], support[i]
		names[i], names[j] = names[j], names[i]
	}
}

// CanonicalOrder returns the column indexes of s sorted by ascending support.
// This is the order Decompose walks.
func (s *Star) CanonicalOrder() []int {
	order := make([]int, s.NumVertex)
	support := make([]int, s.NumVertex)
	for i := range order {
		order[i] = i
		support[i] = s.Support[i]
	}
	SortBySupport(support, order)
	return order
}
