// Package storage defines persistence contracts for tournament draw state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Tournament is one multi-round tournament.
type Tournament struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Participant is one tournament entrant. SequenceNo is the 1-based signup
// order, unique within a tournament.
type Participant struct {
	ID           int64
	TournamentID int64
	Name         string
	SequenceNo   int
}

// Round stores the draw metadata for one round of a tournament. DrawSeed
// and DrawAttempt are persisted so a draw can be reproduced and audited;
// the attempt increments on every manual redraw.
type Round struct {
	TournamentID int64
	RoundNo      int
	DrawSeed     int64
	DrawAttempt  int
	DrawnAt      time.Time
}

// SeatRecord is one persisted seat: participant at a labelled position of a
// numbered table in one round.
type SeatRecord struct {
	TournamentID  int64
	RoundNo       int
	TableNo       int
	SeatLabel     string
	ParticipantID int64
}

// Store persists tournaments, participants and round plans.
//
// ReplaceRoundPlan must be atomic: a redraw fully overwrites the round's
// previous plan or leaves it untouched, never a mix. Implementations also
// serialize concurrent replacements of the same (tournament, round).
type Store interface {
	CreateTournament(ctx context.Context, name string) (Tournament, error)
	GetTournament(ctx context.Context, tournamentID int64) (Tournament, error)

	AddParticipant(ctx context.Context, tournamentID int64, name string) (Participant, error)
	// ListParticipants returns a tournament's participants ordered by
	// sequence number.
	ListParticipants(ctx context.Context, tournamentID int64) ([]Participant, error)

	GetRound(ctx context.Context, tournamentID int64, roundNo int) (Round, error)
	ListRounds(ctx context.Context, tournamentID int64) ([]Round, error)
	// ListSeatsBefore returns every seat record of the tournament with a
	// round number strictly below roundNo, the input for history pairing.
	ListSeatsBefore(ctx context.Context, tournamentID int64, roundNo int) ([]SeatRecord, error)
	// ListSeats returns one round's plan ordered by table and seat label.
	ListSeats(ctx context.Context, tournamentID int64, roundNo int) ([]SeatRecord, error)
	// ReplaceRoundPlan deletes any prior plan for the round and persists
	// the new round metadata and seats in one transaction.
	ReplaceRoundPlan(ctx context.Context, round Round, seats []SeatRecord) error
}
