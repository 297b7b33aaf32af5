package draw

import "math/rand"

// assignSeats shuffles one table's occupants with the seeded source and
// zips them with the fixed label order A-D.
func assignSeats(rng *rand.Rand, tableNo int, ids []int64) Table {
	occupants := append([]int64(nil), ids...)
	shuffle(rng, occupants)

	seats := make([]Seat, len(occupants))
	for i, id := range occupants {
		seats[i] = Seat{Label: SeatLabels[i], ParticipantID: id}
	}
	return Table{TableNo: tableNo, Seats: seats}
}
