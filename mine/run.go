package mine

import (
	"context"
	"time"

	"starmine/metrics"
	"starmine/star"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Mine builds the incidence table from trns and runs the decomposition on it.
func Mine(ctx context.Context, p Params, numRows, numColumns int, trns [][]int) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	table, err := star.New(numRows, numColumns, trns)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build incidence table")
	}
	return Run(ctx, p, table)
}

// Run prunes the table, partitions its first level across p.Workers workers,
// waits for all of them and returns their outputs. Workers start only once
// the partition is complete. The table must not be used afterwards.
func Run(ctx context.Context, p Params, table *star.Star) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	logCtx := log.WithFields(log.Fields{
		"min_support": p.MinSupport,
		"workers":     p.Workers,
		"max_length":  p.MaxLength,
		"rows":        table.NumSimplex,
		"columns":     table.NumVertex,
	})

	start := time.Now()
	pruned := table.Prune(p.MinSupport)
	metrics.CountInt(metrics.CountPrunedColumns, int64(table.NumVertex-pruned.NumVertex))

	topLevel, queues := Partition(pruned, p)
	elapsed := metrics.RecordSince(metrics.LatencyBuildStacks, start)
	logCtx.WithFields(log.Fields{
		"frequent_items": len(topLevel),
		"seconds":        elapsed.Seconds(),
	}).Info("Building Stacks done.")

	start = time.Now()
	workers := make([]*worker, p.Workers)
	g, gctx := errgroup.WithContext(ctx)
	for i := range workers {
		w := newWorker(i, p, queues[i])
		queues[i] = nil
		workers[i] = w
		g.Go(func() error {
			return w.run(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		metrics.Increment(metrics.IncrRunFailed)
		return nil, errors.Wrap(err, "mining workers failed")
	}

	result := &Result{
		TopLevel: topLevel,
		Workers:  make([][]star.Itemset, p.Workers),
		Stats:    make([]WorkerStats, p.Workers),
	}
	stars := 0
	for i, w := range workers {
		result.Workers[i] = w.out
		result.Stats[i] = w.stats
		stars += w.stats.Stars
	}

	elapsed = metrics.RecordSince(metrics.LatencyFrequentPatterns, start)
	metrics.CountInt(metrics.CountStarsProcessed, int64(stars))
	metrics.CountInt(metrics.CountItemsetsEmitted, int64(result.Len()))
	metrics.Increment(metrics.IncrRunCompleted)
	logCtx.WithFields(log.Fields{
		"stars":    stars,
		"itemsets": result.Len(),
		"seconds":  elapsed.Seconds(),
	}).Info("Frequent Patterns done.")

	return result, nil
}
