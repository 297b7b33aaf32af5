package draw

// Pair is an unordered pair of participant ids, canonicalized with the
// smaller id first.
type Pair struct {
	A, B int64
}

// MakePair canonicalizes two participant ids into a Pair.
func MakePair(a, b int64) Pair {
	if a < b {
		return Pair{A: a, B: b}
	}
	return Pair{A: b, B: a}
}

// PairSet is the set of participant pairs that already shared a table.
type PairSet map[Pair]struct{}

// Contains reports whether the unordered pair (a, b) is in the set.
func (s PairSet) Contains(a, b int64) bool {
	_, ok := s[MakePair(a, b)]
	return ok
}

// BuildHistoryPairs indexes every unordered pair of participants that
// co-occupied a table in the supplied seat tuples. Tuples are grouped by
// (round, table) and participant ids are deduplicated within a group before
// pairs are emitted.
//
// Callers must supply only rounds strictly earlier than the round being
// drawn, so a redraw never sees its own discarded seating.
func BuildHistoryPairs(seats []HistorySeat) PairSet {
	type roundTable struct {
		round, table int
	}

	groups := make(map[roundTable][]int64)
	for _, seat := range seats {
		key := roundTable{round: seat.RoundNo, table: seat.TableNo}
		ids := groups[key]
		seen := false
		for _, id := range ids {
			if id == seat.ParticipantID {
				seen = true
				break
			}
		}
		if !seen {
			groups[key] = append(ids, seat.ParticipantID)
		}
	}

	pairs := make(PairSet)
	for _, ids := range groups {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				pairs[MakePair(ids[i], ids[j])] = struct{}{}
			}
		}
	}
	return pairs
}
