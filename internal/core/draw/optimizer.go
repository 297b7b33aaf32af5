package draw

import "math/rand"

// Default search bounds: 40 restarts of 4000 swap iterations keep the worst
// case deterministic and sub-second for realistic tournament sizes.
const (
	defaultRestarts   = 40
	defaultIterations = 4000
)

func (o Options) withDefaults() Options {
	if o.Restarts <= 0 {
		o.Restarts = defaultRestarts
	}
	if o.Iterations <= 0 {
		o.Iterations = defaultIterations
	}
	return o
}

// optimize partitions ids into 4-seat tables via randomized restarts with
// local swap search. It returns the lowest-cost partition found and its
// cost; there is no optimality guarantee. Every random decision comes from
// rng, so the whole search replays bit for bit under the same seed.
func optimize(rng *rand.Rand, ids []int64, seqNo map[int64]int, history PairSet, opts Options) ([][]int64, int) {
	opts = opts.withDefaults()

	var best [][]int64
	bestCost := 0

	for restart := 0; restart < opts.Restarts; restart++ {
		working := append([]int64(nil), ids...)
		shuffle(rng, working)
		tables := splitTables(working)
		cost := localSearch(rng, tables, seqNo, history, opts.Iterations)

		if best == nil || cost < bestCost {
			bestCost = cost
			best = copyTables(tables)
		}
		if bestCost == 0 {
			break
		}
	}

	if best == nil {
		working := append([]int64(nil), ids...)
		shuffle(rng, working)
		best = splitTables(working)
		bestCost = planCost(seqNo, best, history)
	}
	return best, bestCost
}

// localSearch improves tables in place by swapping two occupants at a time,
// accepting a swap only when the cost does not increase. The sequence of
// accepted costs is therefore non-increasing. Returns the final cost and
// stops early once it reaches zero.
func localSearch(rng *rand.Rand, tables [][]int64, seqNo map[int64]int, history PairSet, iterations int) int {
	cur := planCost(seqNo, tables, history)
	for iter := 0; iter < iterations && cur > 0; iter++ {
		t1 := rng.Intn(len(tables))
		t2 := rng.Intn(len(tables))
		i1 := rng.Intn(TableSize)
		i2 := rng.Intn(TableSize)
		if t1 == t2 && i1 == i2 {
			continue
		}

		tables[t1][i1], tables[t2][i2] = tables[t2][i2], tables[t1][i1]
		next := planCost(seqNo, tables, history)
		if next <= cur {
			cur = next
		} else {
			tables[t1][i1], tables[t2][i2] = tables[t2][i2], tables[t1][i1]
		}
	}
	return cur
}

// splitTables partitions ids sequentially into consecutive groups of 4.
// Callers validate divisibility first.
func splitTables(ids []int64) [][]int64 {
	tables := make([][]int64, 0, len(ids)/TableSize)
	for i := 0; i < len(ids); i += TableSize {
		tables = append(tables, ids[i:i+TableSize])
	}
	return tables
}

func copyTables(tables [][]int64) [][]int64 {
	out := make([][]int64, len(tables))
	for i, table := range tables {
		out[i] = append([]int64(nil), table...)
	}
	return out
}
