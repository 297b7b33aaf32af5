// Package draw computes deterministic table assignments for one round of a
// 4-seat card-game tournament.
//
// The draw is a pure computation: given the same tournament, round, attempt
// and inputs it always produces the same plan. All randomness flows from a
// single seeded source derived via DeriveSeed; no global source is read.
package draw

import "errors"

// TableSize is the fixed number of seats per table.
const TableSize = 4

// SeatLabels are the positional labels within a table, in assignment order.
var SeatLabels = [TableSize]string{"A", "B", "C", "D"}

// ErrInvalidParticipantCount indicates the participant count is zero, below
// the table size, or not a positive multiple of the table size.
var ErrInvalidParticipantCount = errors.New("participant count must be a positive multiple of 4")

// ErrMalformedParticipant indicates a duplicate id, duplicate sequence
// number, or a non-positive id or sequence number.
var ErrMalformedParticipant = errors.New("malformed participant")

// Participant is one tournament entrant eligible for seating.
type Participant struct {
	ID         int64
	SequenceNo int
}

// HistorySeat is one persisted seat tuple from an earlier round.
type HistorySeat struct {
	RoundNo       int
	TableNo       int
	ParticipantID int64
}

// Seat binds a positional label to a participant.
type Seat struct {
	Label         string
	ParticipantID int64
}

// Table is one group of 4 participants seated together for the round.
type Table struct {
	TableNo int
	Seats   []Seat
}

// Options bounds the optimizer search. Zero values select the defaults;
// lower both to cap running time for unusually large tournaments without
// losing reproducibility.
type Options struct {
	Restarts   int
	Iterations int
}

// Request describes one draw of one round.
type Request struct {
	TournamentID int64
	RoundNo      int
	Attempt      int
	Participants []Participant
	History      []HistorySeat
	Options      Options
}

// Result is the drawn plan for the round.
//
// Cost is the plan's score under the assignment cost model. A zero cost
// means no adjacent signup neighbours and no repeated pairings; a non-zero
// cost means the optimizer exhausted its search without a perfect plan and
// returns the best one found. That is informational, never an error.
type Result struct {
	Seed   int64
	Tables []Table
	Cost   int
}
