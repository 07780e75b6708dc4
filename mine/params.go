// Package mine runs the Star decomposition over a transaction table: it
// partitions the first level of the decomposition across workers, lets each
// worker traverse its subtrees depth first and merges their outputs in
// worker order.
package mine

import (
	"github.com/pkg/errors"
)

var ErrInvalidParams = errors.New("invalid mining parameters")

// Params are fixed for the whole run.
type Params struct {
	// MinSupport is the absolute support threshold, at least 1.
	MinSupport int
	// Workers is the number of independent traversals.
	Workers int
	// MaxLength bounds the number of items of an emitted itemset. 0 means no bound.
	MaxLength int
}

func (p Params) Validate() error {
	if p.MinSupport < 1 {
		return errors.Wrapf(ErrInvalidParams, "min support %d < 1", p.MinSupport)
	}
	if p.Workers < 1 {
		return errors.Wrapf(ErrInvalidParams, "workers %d < 1", p.Workers)
	}
	if p.MaxLength < 0 {
		return errors.Wrapf(ErrInvalidParams, "max length %d < 0", p.MaxLength)
	}
	return nil
}

// allows reports whether itemsets of n items may be emitted.
func (p Params) allows(n int) bool {
	return p.MaxLength == 0 || n <= p.MaxLength
}
