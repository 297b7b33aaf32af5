package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/quartett/tischplan/internal/core/draw"
	"github.com/quartett/tischplan/internal/services/tournament/storage"
	"github.com/quartett/tischplan/internal/services/tournament/storage/sqlite"
)

func TestDrawRoundPersistsPlan(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)
	tournament := seedTournament(t, store, 8)

	result, err := service.DrawRound(context.Background(), tournament.ID, 1)
	if err != nil {
		t.Fatalf("draw round: %v", err)
	}
	if len(result.Tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(result.Tables))
	}

	plan, err := service.RoundPlan(context.Background(), tournament.ID, 1)
	if err != nil {
		t.Fatalf("round plan: %v", err)
	}
	if plan.Round.DrawAttempt != 1 {
		t.Fatalf("attempt = %d, want 1", plan.Round.DrawAttempt)
	}
	if plan.Round.DrawSeed != result.Seed {
		t.Fatalf("persisted seed %d, draw returned %d", plan.Round.DrawSeed, result.Seed)
	}
	if len(plan.Seats) != 8 {
		t.Fatalf("got %d seats, want 8", len(plan.Seats))
	}

	seated := make(map[int64]bool)
	for _, seat := range plan.Seats {
		if seated[seat.ParticipantID] {
			t.Fatalf("participant %d seated twice", seat.ParticipantID)
		}
		seated[seat.ParticipantID] = true
	}
}

func TestDrawRoundIsReproducible(t *testing.T) {
	t.Parallel()

	serviceA, storeA := newTestService(t)
	serviceB, storeB := newTestService(t)
	tournamentA := seedTournament(t, storeA, 12)
	tournamentB := seedTournament(t, storeB, 12)

	first, err := serviceA.DrawRound(context.Background(), tournamentA.ID, 1)
	if err != nil {
		t.Fatalf("draw A: %v", err)
	}
	second, err := serviceB.DrawRound(context.Background(), tournamentB.ID, 1)
	if err != nil {
		t.Fatalf("draw B: %v", err)
	}

	if first.Seed != second.Seed {
		t.Fatalf("seeds differ across identical databases: %d != %d", first.Seed, second.Seed)
	}
	for i := range first.Tables {
		for j := range first.Tables[i].Seats {
			a := first.Tables[i].Seats[j]
			b := second.Tables[i].Seats[j]
			if a != b {
				t.Fatalf("table %d seat %d differs: %+v != %+v", i+1, j, a, b)
			}
		}
	}
}

func TestRedrawIncrementsAttemptAndChangesPlan(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)
	tournament := seedTournament(t, store, 16)

	first, err := service.DrawRound(context.Background(), tournament.ID, 1)
	if err != nil {
		t.Fatalf("first draw: %v", err)
	}
	second, err := service.DrawRound(context.Background(), tournament.ID, 1)
	if err != nil {
		t.Fatalf("redraw: %v", err)
	}

	if first.Seed == second.Seed {
		t.Fatalf("redraw reused seed %d", first.Seed)
	}

	plan, err := service.RoundPlan(context.Background(), tournament.ID, 1)
	if err != nil {
		t.Fatalf("round plan: %v", err)
	}
	if plan.Round.DrawAttempt != 2 {
		t.Fatalf("attempt = %d, want 2", plan.Round.DrawAttempt)
	}
	if plan.Round.DrawSeed != second.Seed {
		t.Fatalf("persisted seed %d, want %d", plan.Round.DrawSeed, second.Seed)
	}
	if len(plan.Seats) != 16 {
		t.Fatalf("got %d seats after redraw, want 16", len(plan.Seats))
	}
}

func TestDrawRoundEnforcesOrder(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)
	tournament := seedTournament(t, store, 8)

	if _, err := service.DrawRound(context.Background(), tournament.ID, 2); !errors.Is(err, ErrRoundOutOfOrder) {
		t.Fatalf("round 2 before 1: err = %v, want ErrRoundOutOfOrder", err)
	}

	if _, err := service.DrawRound(context.Background(), tournament.ID, 1); err != nil {
		t.Fatalf("draw round 1: %v", err)
	}

	if _, err := service.DrawRound(context.Background(), tournament.ID, 3); !errors.Is(err, ErrRoundOutOfOrder) {
		t.Fatalf("skipping round 2: err = %v, want ErrRoundOutOfOrder", err)
	}

	if _, err := service.DrawRound(context.Background(), tournament.ID, 2); err != nil {
		t.Fatalf("draw round 2: %v", err)
	}
}

func TestDrawRoundAvoidsHistoryPairs(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)
	tournament := seedTournament(t, store, 16)

	if _, err := service.DrawRound(context.Background(), tournament.ID, 1); err != nil {
		t.Fatalf("draw round 1: %v", err)
	}

	round1, err := store.ListSeats(context.Background(), tournament.ID, 1)
	if err != nil {
		t.Fatalf("round 1 seats: %v", err)
	}
	history := make([]draw.HistorySeat, len(round1))
	for i, seat := range round1 {
		history[i] = draw.HistorySeat{RoundNo: seat.RoundNo, TableNo: seat.TableNo, ParticipantID: seat.ParticipantID}
	}
	pairs := draw.BuildHistoryPairs(history)

	if _, err := service.DrawRound(context.Background(), tournament.ID, 2); err != nil {
		t.Fatalf("draw round 2: %v", err)
	}
	round2, err := store.ListSeats(context.Background(), tournament.ID, 2)
	if err != nil {
		t.Fatalf("round 2 seats: %v", err)
	}

	byTable := make(map[int][]int64)
	for _, seat := range round2 {
		byTable[seat.TableNo] = append(byTable[seat.TableNo], seat.ParticipantID)
	}
	for tableNo, ids := range byTable {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if pairs.Contains(ids[i], ids[j]) {
					t.Fatalf("round 2 table %d repeats pair (%d, %d)", tableNo, ids[i], ids[j])
				}
			}
		}
	}
}

func TestDrawRoundRejectsBadCountWithoutDeletingPlan(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)
	tournament := seedTournament(t, store, 8)

	if _, err := service.DrawRound(context.Background(), tournament.ID, 1); err != nil {
		t.Fatalf("draw round 1: %v", err)
	}

	// A ninth signup makes the count invalid. The redraw must fail before
	// the persisted plan is touched.
	if _, err := store.AddParticipant(context.Background(), tournament.ID, "Nachzügler"); err != nil {
		t.Fatalf("add participant: %v", err)
	}

	_, err := service.DrawRound(context.Background(), tournament.ID, 1)
	if !errors.Is(err, draw.ErrInvalidParticipantCount) {
		t.Fatalf("err = %v, want ErrInvalidParticipantCount", err)
	}

	plan, err := service.RoundPlan(context.Background(), tournament.ID, 1)
	if err != nil {
		t.Fatalf("round plan after failed redraw: %v", err)
	}
	if plan.Round.DrawAttempt != 1 || len(plan.Seats) != 8 {
		t.Fatalf("existing plan was disturbed: attempt %d, %d seats", plan.Round.DrawAttempt, len(plan.Seats))
	}
}

func TestDrawRoundInvalidInputs(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)
	tournament := seedTournament(t, store, 8)

	if _, err := service.DrawRound(context.Background(), tournament.ID, 0); !errors.Is(err, ErrInvalidRoundNumber) {
		t.Fatalf("round 0: err = %v, want ErrInvalidRoundNumber", err)
	}
	if _, err := service.DrawRound(context.Background(), 999, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown tournament: err = %v, want ErrNotFound", err)
	}
}

func TestDrawRoundHonorsReducedBounds(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	service := New(store, draw.Options{Restarts: 2, Iterations: 100})
	tournament := seedTournament(t, store, 8)

	if _, err := service.DrawRound(context.Background(), tournament.ID, 1); err != nil {
		t.Fatalf("draw with reduced bounds: %v", err)
	}
}

func newTestService(t *testing.T) (*Service, *sqlite.Store) {
	t.Helper()

	store := openTempStore(t)
	return New(store, draw.Options{}), store
}

func openTempStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "tischplan.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func seedTournament(t *testing.T, store *sqlite.Store, participants int) storage.Tournament {
	t.Helper()

	tournament, err := store.CreateTournament(context.Background(), "Vereinsturnier")
	if err != nil {
		t.Fatalf("create tournament: %v", err)
	}
	for i := 1; i <= participants; i++ {
		if _, err := store.AddParticipant(context.Background(), tournament.ID, fmt.Sprintf("Spieler %d", i)); err != nil {
			t.Fatalf("add participant %d: %v", i, err)
		}
	}
	return tournament
}
