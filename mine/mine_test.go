package mine

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"testing"

	"starmine/star"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioTransactions() [][]int {
	return [][]int{{0, 1}, {1, 2}, {0, 1, 2}, {1}}
}

func keyOf(items []int) string {
	sorted := append([]int{}, items...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, itm := range sorted {
		parts[i] = strconv.Itoa(itm)
	}
	return strings.Join(parts, ",")
}

// asMap indexes itemsets by their sorted items and fails on duplicates.
func asMap(t *testing.T, itemsets []star.Itemset) map[string]int {
	t.Helper()
	res := make(map[string]int, len(itemsets))
	for _, is := range itemsets {
		k := keyOf(is.Items)
		_, dup := res[k]
		assert.False(t, dup, "itemset %s emitted twice", k)
		res[k] = is.Support
	}
	return res
}

// bruteForce enumerates every item combination of at most maxLength items.
func bruteForce(trns [][]int, cols, threshold, maxLength int) map[string]int {
	res := make(map[string]int)
	for mask := 1; mask < 1<<uint(cols); mask++ {
		items := make([]int, 0)
		for c := 0; c < cols; c++ {
			if mask&(1<<uint(c)) != 0 {
				items = append(items, c)
			}
		}
		if maxLength > 0 && len(items) > maxLength {
			continue
		}
		support := 0
		for _, trn := range trns {
			present := make(map[int]bool)
			for _, itm := range trn {
				present[itm] = true
			}
			all := true
			for _, itm := range items {
				if !present[itm] {
					all = false
					break
				}
			}
			if all {
				support++
			}
		}
		if support >= threshold {
			res[keyOf(items)] = support
		}
	}
	return res
}

func randomTransactions(rng *rand.Rand, rows, cols int, density float64) [][]int {
	trns := make([][]int, rows)
	for r := range trns {
		trns[r] = make([]int, 0)
		for c := 0; c < cols; c++ {
			if rng.Float64() < density {
				trns[r] = append(trns[r], c)
			}
		}
	}
	return trns
}

func TestMineScenario(t *testing.T) {
	res, err := Mine(context.Background(), Params{MinSupport: 2, Workers: 1}, 4, 3, scenarioTransactions())
	require.NoError(t, err)

	assert.Equal(t, []star.Itemset{
		{Items: []int{0}, Support: 2},
		{Items: []int{1}, Support: 4},
		{Items: []int{2}, Support: 2},
	}, res.TopLevel)

	got := asMap(t, res.Itemsets())
	assert.Equal(t, map[string]int{
		"0": 2, "1": 4, "2": 2,
		"0,1": 2, "1,2": 2,
	}, got)
	assert.NotContains(t, got, "0,2")
	assert.NotContains(t, got, "0,1,2")
}

func TestMineThresholdAboveEverySupport(t *testing.T) {
	res, err := Mine(context.Background(), Params{MinSupport: 5, Workers: 3}, 4, 3, scenarioTransactions())
	require.NoError(t, err)
	assert.Empty(t, res.TopLevel)
	assert.Equal(t, 0, res.Len())
	assert.Len(t, res.Workers, 3)
}

func TestMineCompletenessRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 25; round++ {
		rows, cols := 4+rng.Intn(30), 1+rng.Intn(8)
		trns := randomTransactions(rng, rows, cols, 0.3+rng.Float64()*0.5)
		threshold := 1 + rng.Intn(4)
		workers := 1 + rng.Intn(4)

		res, err := Mine(context.Background(), Params{MinSupport: threshold, Workers: workers}, rows, cols, trns)
		require.NoError(t, err)

		assert.Equal(t, bruteForce(trns, cols, threshold, 0), asMap(t, res.Itemsets()),
			"round %d rows=%d cols=%d threshold=%d workers=%d", round, rows, cols, threshold, workers)
	}
}

func TestMineWorkerCountInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	trns := randomTransactions(rng, 40, 9, 0.45)

	single, err := Mine(context.Background(), Params{MinSupport: 3, Workers: 1}, 40, 9, trns)
	require.NoError(t, err)
	expected := asMap(t, single.Itemsets())

	for _, workers := range []int{2, 4, 7, 16} {
		res, err := Mine(context.Background(), Params{MinSupport: 3, Workers: workers}, 40, 9, trns)
		require.NoError(t, err)
		assert.Equal(t, expected, asMap(t, res.Itemsets()), "workers=%d", workers)
		assert.Equal(t, single.TopLevel, res.TopLevel)
	}
}

func TestMineMaxLength(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	trns := randomTransactions(rng, 30, 7, 0.6)

	for _, maxLength := range []int{1, 2, 3} {
		res, err := Mine(context.Background(), Params{MinSupport: 2, Workers: 2, MaxLength: maxLength}, 30, 7, trns)
		require.NoError(t, err)
		for _, is := range res.Itemsets() {
			assert.LessOrEqual(t, len(is.Items), maxLength)
		}
		assert.Equal(t, bruteForce(trns, 7, 2, maxLength), asMap(t, res.Itemsets()), "max length %d", maxLength)
	}
}

func TestMineOutputLayout(t *testing.T) {
	res, err := Mine(context.Background(), Params{MinSupport: 1, Workers: 3}, 4, 3, scenarioTransactions())
	require.NoError(t, err)

	merged := res.Itemsets()
	require.Equal(t, res.Len(), len(merged))

	// top level single items come first, then worker 0, worker 1, ...
	offset := len(res.TopLevel)
	assert.Equal(t, res.TopLevel, merged[:offset])
	for _, out := range res.Workers {
		assert.Equal(t, out, merged[offset:offset+len(out)])
		for _, is := range out {
			assert.GreaterOrEqual(t, len(is.Items), 2)
		}
		offset += len(out)
	}
}

func TestMineInvalidParams(t *testing.T) {
	for _, p := range []Params{
		{MinSupport: 0, Workers: 1},
		{MinSupport: 1, Workers: 0},
		{MinSupport: 1, Workers: 1, MaxLength: -1},
	} {
		_, err := Mine(context.Background(), p, 4, 3, scenarioTransactions())
		assert.Equal(t, ErrInvalidParams, errors.Cause(err), "%+v", p)
	}
}

func TestMineBadInput(t *testing.T) {
	_, err := Mine(context.Background(), Params{MinSupport: 1, Workers: 1}, 2, 2, [][]int{{0}, {2}})
	assert.Equal(t, star.ErrItemOutOfRange, errors.Cause(err))
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Mine(ctx, Params{MinSupport: 1, Workers: 1}, 4, 3, scenarioTransactions())
	assert.Equal(t, context.Canceled, errors.Cause(err))
}

func TestPartitionRoundRobin(t *testing.T) {
	trns := [][]int{{0, 1, 2, 3, 4}, {0, 1, 2, 3, 4}, {0, 1, 2, 3, 4}}
	table, err := star.New(3, 5, trns)
	require.NoError(t, err)

	topLevel, queues := Partition(table, Params{MinSupport: 1, Workers: 2})
	assert.Len(t, topLevel, 5)
	require.Len(t, queues, 2)
	// positions 0..3 root a child; even ones go to worker 0
	assert.Len(t, queues[0], 2)
	assert.Len(t, queues[1], 2)
	assert.Equal(t, 4, queues[0][0].NumVertex)
	assert.Equal(t, 2, queues[0][1].NumVertex)
	assert.Equal(t, 3, queues[1][0].NumVertex)
	assert.Equal(t, 1, queues[1][1].NumVertex)
}

func TestPartitionSingleItems(t *testing.T) {
	table, err := star.New(4, 3, scenarioTransactions())
	require.NoError(t, err)

	topLevel, queues := Partition(table.Prune(2), Params{MinSupport: 2, Workers: 1, MaxLength: 1})
	assert.Len(t, topLevel, 3)
	assert.Empty(t, queues[0], "no worker seeds when only single items are wanted")
}

func TestWorkerLIFO(t *testing.T) {
	table, err := star.New(4, 3, scenarioTransactions())
	require.NoError(t, err)
	p := Params{MinSupport: 2, Workers: 1}

	_, queues := Partition(table.Prune(2), p)
	require.Len(t, queues[0], 2)
	lastRoot := queues[0][1].Core[0]
	firstRoot := queues[0][0].Core[0]

	w := newWorker(0, p, queues[0])
	require.NoError(t, w.run(context.Background()))

	require.Len(t, w.out, 2)
	assert.Equal(t, lastRoot, w.out[0].Items[0], "the last seeded star is visited first")
	assert.Equal(t, firstRoot, w.out[1].Items[0])
	assert.Equal(t, 2, w.stats.Stars)
	assert.Equal(t, 2, w.stats.Itemsets)
	assert.Empty(t, w.stack)
}

func TestResultEachStopsOnError(t *testing.T) {
	res := &Result{
		TopLevel: []star.Itemset{{Items: []int{1}, Support: 3}},
		Workers: [][]star.Itemset{
			{{Items: []int{1, 2}, Support: 2}},
			{{Items: []int{3, 4}, Support: 2}},
		},
	}
	stop := errors.New("stop")
	seen := 0
	err := res.Each(func(is star.Itemset) error {
		seen++
		if len(is.Items) == 2 {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 2, seen)
	assert.Equal(t, 3, res.Len())
}
