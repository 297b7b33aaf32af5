package draw

import (
	"fmt"
	"math/rand"
)

// Draw computes the table plan for one round.
//
// # Determinism
//
// Draw is deterministic with respect to (TournamentID, RoundNo, Attempt)
// and the request inputs. Two independent runs with the same request
// produce the same Result; a different Attempt reseeds the whole search and
// yields a different plan with overwhelming probability.
//
// # Errors
//
//   - ErrInvalidParticipantCount when the participant count is zero, below
//     4, or not a multiple of 4.
//   - ErrMalformedParticipant on duplicate ids, duplicate sequence numbers,
//     or non-positive ids or sequence numbers.
//
// Both are detected before any computation starts, so callers can surface
// them before discarding a previously persisted plan. An imperfect plan is
// not an error; see Result.Cost.
func Draw(req Request) (Result, error) {
	if err := validate(req.Participants); err != nil {
		return Result{}, err
	}

	seed := DeriveSeed(req.TournamentID, req.RoundNo, req.Attempt)
	rng := rand.New(rand.NewSource(seed))

	ids := make([]int64, len(req.Participants))
	seqNo := make(map[int64]int, len(req.Participants))
	for i, p := range req.Participants {
		ids[i] = p.ID
		seqNo[p.ID] = p.SequenceNo
	}

	history := BuildHistoryPairs(req.History)
	tables, cost := optimize(rng, ids, seqNo, history, req.Options)

	result := Result{
		Seed:   seed,
		Tables: make([]Table, 0, len(tables)),
		Cost:   cost,
	}
	for i, table := range tables {
		result.Tables = append(result.Tables, assignSeats(rng, i+1, table))
	}
	return result, nil
}

// validate fails fast on malformed input. The divisible-by-4 precondition
// belongs to the caller but is re-checked here: an undetected violation
// would silently produce a partially filled table.
func validate(participants []Participant) error {
	n := len(participants)
	if n == 0 || n < TableSize || n%TableSize != 0 {
		return fmt.Errorf("%w: got %d participants", ErrInvalidParticipantCount, n)
	}

	ids := make(map[int64]struct{}, n)
	seqs := make(map[int]struct{}, n)
	for _, p := range participants {
		if p.ID <= 0 {
			return fmt.Errorf("%w: non-positive id %d", ErrMalformedParticipant, p.ID)
		}
		if p.SequenceNo <= 0 {
			return fmt.Errorf("%w: participant %d has non-positive sequence number %d", ErrMalformedParticipant, p.ID, p.SequenceNo)
		}
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrMalformedParticipant, p.ID)
		}
		if _, dup := seqs[p.SequenceNo]; dup {
			return fmt.Errorf("%w: duplicate sequence number %d", ErrMalformedParticipant, p.SequenceNo)
		}
		ids[p.ID] = struct{}{}
		seqs[p.SequenceNo] = struct{}{}
	}
	return nil
}
