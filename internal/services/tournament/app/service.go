// Package app wires tournament storage to the deterministic draw core.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/quartett/tischplan/internal/core/draw"
	"github.com/quartett/tischplan/internal/platform/config"
	"github.com/quartett/tischplan/internal/services/tournament/storage"
)

const tracerName = "github.com/quartett/tischplan/internal/services/tournament/app"

// ErrRoundOutOfOrder indicates a draw was requested for a round whose
// predecessor has not been drawn yet, or that would skip a round.
var ErrRoundOutOfOrder = errors.New("rounds must be drawn in order")

// ErrInvalidRoundNumber indicates a non-positive round number.
var ErrInvalidRoundNumber = errors.New("round number must be positive")

// Env is the service configuration loaded from the environment.
type Env struct {
	DBPath     string `env:"TISCHPLAN_DB_PATH"`
	Restarts   int    `env:"TISCHPLAN_DRAW_RESTARTS"`
	Iterations int    `env:"TISCHPLAN_DRAW_ITERATIONS"`
}

// LoadEnv reads the service environment, falling back to defaults for
// anything unset.
func LoadEnv() Env {
	var e Env
	_ = config.ParseEnv(&e)
	if strings.TrimSpace(e.DBPath) == "" {
		e.DBPath = filepath.Join("data", "tischplan.db")
	}
	return e
}

// RoundPlan is one drawn round read back from storage.
type RoundPlan struct {
	Round storage.Round
	Seats []storage.SeatRecord
}

// Service owns the draw lifecycle for tournaments.
type Service struct {
	store  storage.Store
	opts   draw.Options
	tracer trace.Tracer
}

// New creates a draw service on top of the provided store. Zero option
// values select the optimizer defaults.
func New(store storage.Store, opts draw.Options) *Service {
	return &Service{
		store:  store,
		opts:   opts,
		tracer: otel.Tracer(tracerName),
	}
}

// DrawRound draws (or redraws) one round and persists the resulting plan.
//
// A redraw increments the round's stored attempt counter, which reseeds the
// search, and fully overwrites the prior plan. Validation happens before
// anything is deleted, so a failed draw leaves an existing plan intact. An
// imperfect plan (Result.Cost > 0) is persisted and logged, never rejected.
func (s *Service) DrawRound(ctx context.Context, tournamentID int64, roundNo int) (draw.Result, error) {
	ctx, span := s.tracer.Start(ctx, "tournament.DrawRound", trace.WithAttributes(
		attribute.Int64("tournament.id", tournamentID),
		attribute.Int("round.no", roundNo),
	))
	defer span.End()

	if roundNo <= 0 {
		return draw.Result{}, ErrInvalidRoundNumber
	}
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return draw.Result{}, fmt.Errorf("load tournament %d: %w", tournamentID, err)
	}

	if err := s.checkRoundOrder(ctx, tournamentID, roundNo); err != nil {
		return draw.Result{}, err
	}

	participants, err := s.store.ListParticipants(ctx, tournamentID)
	if err != nil {
		return draw.Result{}, fmt.Errorf("load participants: %w", err)
	}

	attempt := 1
	if prev, err := s.store.GetRound(ctx, tournamentID, roundNo); err == nil {
		attempt = prev.DrawAttempt + 1
	} else if !errors.Is(err, storage.ErrNotFound) {
		return draw.Result{}, fmt.Errorf("load round %d: %w", roundNo, err)
	}

	history, err := s.store.ListSeatsBefore(ctx, tournamentID, roundNo)
	if err != nil {
		return draw.Result{}, fmt.Errorf("load seating history: %w", err)
	}

	req := draw.Request{
		TournamentID: tournamentID,
		RoundNo:      roundNo,
		Attempt:      attempt,
		Participants: toDrawParticipants(participants),
		History:      toDrawHistory(history),
		Options:      s.opts,
	}
	result, err := draw.Draw(req)
	if err != nil {
		return draw.Result{}, err
	}

	round := storage.Round{
		TournamentID: tournamentID,
		RoundNo:      roundNo,
		DrawSeed:     result.Seed,
		DrawAttempt:  attempt,
	}
	if err := s.store.ReplaceRoundPlan(ctx, round, toSeatRecords(tournamentID, roundNo, result)); err != nil {
		return draw.Result{}, fmt.Errorf("persist round plan: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("draw.seed", result.Seed),
		attribute.Int("draw.attempt", attempt),
		attribute.Int("draw.cost", result.Cost),
	)
	if result.Cost > 0 {
		log.Printf("tournament %d round %d: optimizer exhausted, best plan kept (cost %d)", tournamentID, roundNo, result.Cost)
	}
	return result, nil
}

// RoundPlan reads back one drawn round.
func (s *Service) RoundPlan(ctx context.Context, tournamentID int64, roundNo int) (RoundPlan, error) {
	round, err := s.store.GetRound(ctx, tournamentID, roundNo)
	if err != nil {
		return RoundPlan{}, fmt.Errorf("load round %d: %w", roundNo, err)
	}
	seats, err := s.store.ListSeats(ctx, tournamentID, roundNo)
	if err != nil {
		return RoundPlan{}, fmt.Errorf("load seats: %w", err)
	}
	return RoundPlan{Round: round, Seats: seats}, nil
}

// checkRoundOrder enforces sequential draws: a fresh round N needs round
// N-1 drawn first and may not skip ahead. Redrawing an existing round is
// always allowed.
func (s *Service) checkRoundOrder(ctx context.Context, tournamentID int64, roundNo int) error {
	rounds, err := s.store.ListRounds(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("load rounds: %w", err)
	}

	lastRound := 0
	for _, round := range rounds {
		if round.RoundNo == roundNo {
			return nil // redraw
		}
		if round.RoundNo > lastRound {
			lastRound = round.RoundNo
		}
	}
	if roundNo != lastRound+1 {
		return fmt.Errorf("%w: round %d requested, next undrawn round is %d", ErrRoundOutOfOrder, roundNo, lastRound+1)
	}
	return nil
}

func toDrawParticipants(participants []storage.Participant) []draw.Participant {
	out := make([]draw.Participant, len(participants))
	for i, p := range participants {
		out[i] = draw.Participant{ID: p.ID, SequenceNo: p.SequenceNo}
	}
	return out
}

func toDrawHistory(seats []storage.SeatRecord) []draw.HistorySeat {
	out := make([]draw.HistorySeat, len(seats))
	for i, seat := range seats {
		out[i] = draw.HistorySeat{
			RoundNo:       seat.RoundNo,
			TableNo:       seat.TableNo,
			ParticipantID: seat.ParticipantID,
		}
	}
	return out
}

func toSeatRecords(tournamentID int64, roundNo int, result draw.Result) []storage.SeatRecord {
	var out []storage.SeatRecord
	for _, table := range result.Tables {
		for _, seat := range table.Seats {
			out = append(out, storage.SeatRecord{
				TournamentID:  tournamentID,
				RoundNo:       roundNo,
				TableNo:       table.TableNo,
				SeatLabel:     seat.Label,
				ParticipantID: seat.ParticipantID,
			})
		}
	}
	return out
}
