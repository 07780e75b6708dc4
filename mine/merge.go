package mine

import (
	"starmine/star"
)

// Result holds the output of a run: the single items emitted while
// partitioning and each worker's private output, indexed by worker.
type Result struct {
	TopLevel []star.Itemset
	Workers  [][]star.Itemset
	Stats    []WorkerStats
}

// Merge concatenates the top level items and the worker outputs in worker
// index order.
func Merge(topLevel []star.Itemset, outputs [][]star.Itemset) []star.Itemset {
	total := len(topLevel)
	for _, out := range outputs {
		total += len(out)
	}
	merged := make([]star.Itemset, 0, total)
	merged = append(merged, topLevel...)
	for _, out := range outputs {
		merged = append(merged, out...)
	}
	return merged
}

// Itemsets returns the merged output.
func (r *Result) Itemsets() []star.Itemset {
	return Merge(r.TopLevel, r.Workers)
}

// Len is the number of itemsets in the merged output.
func (r *Result) Len() int {
	n := len(r.TopLevel)
	for _, out := range r.Workers {
		n += len(out)
	}
	return n
}

// Each calls fn for every itemset in merged order and stops at the first
// error.
func (r *Result) Each(fn func(star.Itemset) error) error {
	if err := each(r.TopLevel, fn); err != nil {
		return err
	}
	for _, out := range r.Workers {
		if err := each(out, fn); err != nil {
			return err
		}
	}
	return nil
}

func each(itemsets []star.Itemset, fn func(star.Itemset) error) error {
	for _, is := range itemsets {
		if err := fn(is); err != nil {
			return err
		}
	}
	return nil
}
