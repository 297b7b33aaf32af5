package draw

// Penalty weights for one pair of participants sharing a table. The
// relative ordering matters: seating direct signup neighbours together must
// dominate everything else, a repeated pairing from an earlier round is the
// next worst, and near-neighbours (two apart in the signup order) carry a
// small nudge.
const (
	penaltyAdjacentSeq = 10_000
	penaltyRepeatPair  = 2_000
	penaltyNearSeq     = 500
)

// planCost scores a candidate partition. Each table contributes one term
// per unordered pair of its occupants (6 per 4-seat table); a zero total is
// a perfect plan.
func planCost(seqNo map[int64]int, tables [][]int64, history PairSet) int {
	cost := 0
	for _, table := range tables {
		for i := 0; i < len(table); i++ {
			for j := i + 1; j < len(table); j++ {
				a, b := table[i], table[j]
				d := seqNo[a] - seqNo[b]
				if d < 0 {
					d = -d
				}
				switch d {
				case 1:
					cost += penaltyAdjacentSeq
				case 2:
					cost += penaltyNearSeq
				}
				if history.Contains(a, b) {
					cost += penaltyRepeatPair
				}
			}
		}
	}
	return cost
}
