package draw

import (
	"math/rand"
	"testing"
)

func testParticipantIDs(n int) ([]int64, map[int64]int) {
	ids := make([]int64, n)
	seqNo := make(map[int64]int, n)
	for i := 0; i < n; i++ {
		id := int64(i + 1)
		ids[i] = id
		seqNo[id] = i + 1
	}
	return ids, seqNo
}

func TestOptimizeDeterministic(t *testing.T) {
	t.Parallel()

	ids, seqNo := testParticipantIDs(16)

	first, firstCost := optimize(rand.New(rand.NewSource(17)), ids, seqNo, PairSet{}, Options{})
	second, secondCost := optimize(rand.New(rand.NewSource(17)), ids, seqNo, PairSet{}, Options{})

	if firstCost != secondCost {
		t.Fatalf("cost differs: %d != %d", firstCost, secondCost)
	}
	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("table %d slot %d: %d != %d", i, j, first[i][j], second[i][j])
			}
		}
	}
}

func TestOptimizeCoversAllParticipants(t *testing.T) {
	t.Parallel()

	ids, seqNo := testParticipantIDs(24)
	tables, _ := optimize(rand.New(rand.NewSource(3)), ids, seqNo, PairSet{}, Options{})

	if len(tables) != 6 {
		t.Fatalf("got %d tables, want 6", len(tables))
	}
	seen := make(map[int64]bool)
	for _, table := range tables {
		if len(table) != TableSize {
			t.Fatalf("table size %d, want %d", len(table), TableSize)
		}
		for _, id := range table {
			if seen[id] {
				t.Fatalf("participant %d seated twice", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != len(ids) {
		t.Fatalf("%d participants seated, want %d", len(seen), len(ids))
	}
}

func TestLocalSearchNeverWorsensCost(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 10; seed++ {
		ids, seqNo := testParticipantIDs(12)
		rng := rand.New(rand.NewSource(seed))
		shuffle(rng, ids)
		tables := splitTables(ids)

		initial := planCost(seqNo, tables, PairSet{})
		final := localSearch(rng, tables, seqNo, PairSet{}, 500)

		if final > initial {
			t.Fatalf("seed %d: cost rose from %d to %d", seed, initial, final)
		}
		if got := planCost(seqNo, tables, PairSet{}); got != final {
			t.Fatalf("seed %d: reported cost %d, recomputed %d", seed, final, got)
		}
	}
}

func TestOptimizeReducedBounds(t *testing.T) {
	t.Parallel()

	ids, seqNo := testParticipantIDs(8)
	opts := Options{Restarts: 2, Iterations: 50}

	first, firstCost := optimize(rand.New(rand.NewSource(9)), ids, seqNo, PairSet{}, opts)
	second, secondCost := optimize(rand.New(rand.NewSource(9)), ids, seqNo, PairSet{}, opts)

	if firstCost != secondCost {
		t.Fatalf("cost differs under reduced bounds: %d != %d", firstCost, secondCost)
	}
	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("plans differ under reduced bounds at table %d slot %d", i, j)
			}
		}
	}
}
