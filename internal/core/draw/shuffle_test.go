package draw

import (
	"math/rand"
	"testing"
)

func TestShuffleDeterministic(t *testing.T) {
	t.Parallel()

	first := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	second := []int64{1, 2, 3, 4, 5, 6, 7, 8}

	shuffle(rand.New(rand.NewSource(99)), first)
	shuffle(rand.New(rand.NewSource(99)), second)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("index %d: %d != %d", i, first[i], second[i])
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	t.Parallel()

	ids := []int64{10, 20, 30, 40, 50, 60, 70, 80}
	shuffle(rand.New(rand.NewSource(5)), ids)

	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d after shuffle", id)
		}
		seen[id] = true
	}
	for _, want := range []int64{10, 20, 30, 40, 50, 60, 70, 80} {
		if !seen[want] {
			t.Fatalf("id %d lost by shuffle", want)
		}
	}
}

func TestShuffleSingleElement(t *testing.T) {
	t.Parallel()

	ids := []int64{42}
	shuffle(rand.New(rand.NewSource(1)), ids)
	if ids[0] != 42 {
		t.Fatalf("single element changed: %d", ids[0])
	}
}
