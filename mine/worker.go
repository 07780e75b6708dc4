package mine

import (
	"context"

	"starmine/star"

	log "github.com/sirupsen/logrus"
)

// WorkerStats describes one worker's traversal.
type WorkerStats struct {
	Worker   int `json:"worker"`
	Seeded   int `json:"seeded"`
	Stars    int `json:"stars"`
	Itemsets int `json:"itemsets"`
	MaxDepth int `json:"max_depth"`
}

// worker owns a stack of Stars and everything pushed on it. Nothing it
// touches is shared with another worker.
type worker struct {
	id     int
	params Params
	stack  []*star.Star
	out    []star.Itemset
	stats  WorkerStats
}

func newWorker(id int, p Params, seed []*star.Star) *worker {
	return &worker{
		id:     id,
		params: p,
		stack:  seed,
		out:    make([]star.Itemset, 0),
		stats:  WorkerStats{Worker: id, Seeded: len(seed), MaxDepth: len(seed)},
	}
}

// run drains the stack depth first. The most recently pushed Star is always
// processed next.
func (w *worker) run(ctx context.Context) error {
	logCtx := log.WithFields(log.Fields{"worker": w.id, "seeded": w.stats.Seeded})
	logCtx.Debug("Worker started.")

	for len(w.stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		top := len(w.stack) - 1
		s := w.stack[top]
		w.stack[top] = nil
		w.stack = w.stack[:top]

		w.visit(s)
	}

	logCtx.WithFields(log.Fields{"stars": w.stats.Stars, "itemsets": w.stats.Itemsets,
		"max_depth": w.stats.MaxDepth}).Debug("Worker done.")
	return nil
}

// visit emits the frequent extensions of the core of s and pushes its
// children.
func (w *worker) visit(s *star.Star) {
	w.stats.Stars++
	length := len(s.Core) + 1

	if w.params.allows(length) {
		for col := 0; col < s.NumVertex; col++ {
			if s.Support[col] >= w.params.MinSupport {
				w.out = append(w.out, s.Extend(col))
			}
		}
		w.stats.Itemsets = len(w.out)
	}

	if s.NumVertex > 1 && w.params.allows(length+1) {
		s.Decompose(w.params.MinSupport, w.push)
	}
}

func (w *worker) push(_ int, child *star.Star) {
	w.stack = append(w.stack, child)
	if len(w.stack) > w.stats.MaxDepth {
		w.stats.MaxDepth = len(w.stack)
	}
}
