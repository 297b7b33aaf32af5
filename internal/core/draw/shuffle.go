package draw

import "math/rand"

// shuffle permutes ids in place with a Fisher-Yates walk driven only by the
// provided source. Identical seed and input order always yield the same
// permutation.
func shuffle(rng *rand.Rand, ids []int64) {
	for i := len(ids) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}
