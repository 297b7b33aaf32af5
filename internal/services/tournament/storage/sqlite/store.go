// Package sqlite provides a SQLite-backed tournament storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/quartett/tischplan/internal/platform/storage/sqlitemigrate"
	"github.com/quartett/tischplan/internal/services/tournament/storage"
	"github.com/quartett/tischplan/internal/services/tournament/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists tournament draw state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite tournament store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateTournament inserts one tournament record.
func (s *Store) CreateTournament(ctx context.Context, name string) (storage.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return storage.Tournament{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Tournament{}, fmt.Errorf("storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Tournament{}, fmt.Errorf("tournament name is required")
	}

	createdAt := time.Now().UTC()
	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tournaments (name, created_at) VALUES (?, ?)`,
		name,
		toMillis(createdAt),
	)
	if err != nil {
		return storage.Tournament{}, fmt.Errorf("create tournament: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storage.Tournament{}, fmt.Errorf("tournament insert id: %w", err)
	}
	return storage.Tournament{ID: id, Name: name, CreatedAt: createdAt}, nil
}

// GetTournament returns one tournament by id.
func (s *Store) GetTournament(ctx context.Context, tournamentID int64) (storage.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return storage.Tournament{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Tournament{}, fmt.Errorf("storage is not configured")
	}

	var (
		tournament storage.Tournament
		createdAt  int64
	)
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, created_at FROM tournaments WHERE id = ?`,
		tournamentID,
	)
	if err := row.Scan(&tournament.ID, &tournament.Name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Tournament{}, storage.ErrNotFound
		}
		return storage.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	tournament.CreatedAt = fromMillis(createdAt)
	return tournament, nil
}

// AddParticipant appends one participant to the tournament's signup order.
// The next sequence number is claimed inside the insert so concurrent adds
// cannot collide.
func (s *Store) AddParticipant(ctx context.Context, tournamentID int64, name string) (storage.Participant, error) {
	if err := ctx.Err(); err != nil {
		return storage.Participant{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Participant{}, fmt.Errorf("storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Participant{}, fmt.Errorf("participant name is required")
	}
	if _, err := s.GetTournament(ctx, tournamentID); err != nil {
		return storage.Participant{}, err
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tournament_participants (tournament_id, name, sequence_no)
		 SELECT ?, ?, COALESCE(MAX(sequence_no), 0) + 1
		 FROM tournament_participants WHERE tournament_id = ?`,
		tournamentID,
		name,
		tournamentID,
	)
	if err != nil {
		return storage.Participant{}, fmt.Errorf("add participant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storage.Participant{}, fmt.Errorf("participant insert id: %w", err)
	}

	var seq int
	row := s.sqlDB.QueryRowContext(ctx, `SELECT sequence_no FROM tournament_participants WHERE id = ?`, id)
	if err := row.Scan(&seq); err != nil {
		return storage.Participant{}, fmt.Errorf("read participant sequence: %w", err)
	}
	return storage.Participant{ID: id, TournamentID: tournamentID, Name: name, SequenceNo: seq}, nil
}

// ListParticipants returns the tournament's participants in signup order.
func (s *Store) ListParticipants(ctx context.Context, tournamentID int64) ([]storage.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, tournament_id, name, sequence_no
		 FROM tournament_participants
		 WHERE tournament_id = ?
		 ORDER BY sequence_no ASC`,
		tournamentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var participants []storage.Participant
	for rows.Next() {
		var p storage.Participant
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.Name, &p.SequenceNo); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return participants, nil
}

// GetRound returns one round's draw metadata.
func (s *Store) GetRound(ctx context.Context, tournamentID int64, roundNo int) (storage.Round, error) {
	if err := ctx.Err(); err != nil {
		return storage.Round{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Round{}, fmt.Errorf("storage is not configured")
	}

	var (
		round   storage.Round
		drawnAt int64
	)
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT tournament_id, round_no, draw_seed, draw_attempt, drawn_at
		 FROM tournament_rounds
		 WHERE tournament_id = ? AND round_no = ?`,
		tournamentID,
		roundNo,
	)
	if err := row.Scan(&round.TournamentID, &round.RoundNo, &round.DrawSeed, &round.DrawAttempt, &drawnAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Round{}, storage.ErrNotFound
		}
		return storage.Round{}, fmt.Errorf("get round: %w", err)
	}
	round.DrawnAt = fromMillis(drawnAt)
	return round, nil
}

// ListRounds returns a tournament's drawn rounds in ascending order.
func (s *Store) ListRounds(ctx context.Context, tournamentID int64) ([]storage.Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT tournament_id, round_no, draw_seed, draw_attempt, drawn_at
		 FROM tournament_rounds
		 WHERE tournament_id = ?
		 ORDER BY round_no ASC`,
		tournamentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []storage.Round
	for rows.Next() {
		var (
			round   storage.Round
			drawnAt int64
		)
		if err := rows.Scan(&round.TournamentID, &round.RoundNo, &round.DrawSeed, &round.DrawAttempt, &drawnAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		round.DrawnAt = fromMillis(drawnAt)
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rounds: %w", err)
	}
	return rounds, nil
}

// ListSeatsBefore returns every seat record with round_no strictly below
// roundNo, the history input for a draw of that round.
func (s *Store) ListSeatsBefore(ctx context.Context, tournamentID int64, roundNo int) ([]storage.SeatRecord, error) {
	return s.listSeats(
		ctx,
		`SELECT tournament_id, round_no, table_no, seat, participant_id
		 FROM tournament_seats
		 WHERE tournament_id = ? AND round_no < ?
		 ORDER BY round_no, table_no, seat`,
		tournamentID,
		roundNo,
	)
}

// ListSeats returns one round's persisted plan.
func (s *Store) ListSeats(ctx context.Context, tournamentID int64, roundNo int) ([]storage.SeatRecord, error) {
	return s.listSeats(
		ctx,
		`SELECT tournament_id, round_no, table_no, seat, participant_id
		 FROM tournament_seats
		 WHERE tournament_id = ? AND round_no = ?
		 ORDER BY table_no, seat`,
		tournamentID,
		roundNo,
	)
}

func (s *Store) listSeats(ctx context.Context, query string, args ...any) ([]storage.SeatRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	defer rows.Close()

	var seats []storage.SeatRecord
	for rows.Next() {
		var seat storage.SeatRecord
		if err := rows.Scan(&seat.TournamentID, &seat.RoundNo, &seat.TableNo, &seat.SeatLabel, &seat.ParticipantID); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seats = append(seats, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seats: %w", err)
	}
	return seats, nil
}

// ReplaceRoundPlan overwrites the round's plan in one transaction: prior
// seats and round metadata are deleted, then the new round and seats are
// inserted. Concurrent replacements of the same round serialize on the
// database write lock.
func (s *Store) ReplaceRoundPlan(ctx context.Context, round storage.Round, seats []storage.SeatRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if round.RoundNo <= 0 {
		return fmt.Errorf("round number must be positive")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(
		ctx,
		`DELETE FROM tournament_seats WHERE tournament_id = ? AND round_no = ?`,
		round.TournamentID,
		round.RoundNo,
	); err != nil {
		return fmt.Errorf("delete prior seats: %w", err)
	}
	if _, err := tx.ExecContext(
		ctx,
		`DELETE FROM tournament_rounds WHERE tournament_id = ? AND round_no = ?`,
		round.TournamentID,
		round.RoundNo,
	); err != nil {
		return fmt.Errorf("delete prior round: %w", err)
	}

	drawnAt := round.DrawnAt
	if drawnAt.IsZero() {
		drawnAt = time.Now().UTC()
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO tournament_rounds (tournament_id, round_no, draw_seed, draw_attempt, drawn_at)
		 VALUES (?, ?, ?, ?, ?)`,
		round.TournamentID,
		round.RoundNo,
		round.DrawSeed,
		round.DrawAttempt,
		toMillis(drawnAt),
	); err != nil {
		return fmt.Errorf("insert round: %w", err)
	}

	for _, seat := range seats {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO tournament_seats (tournament_id, round_no, table_no, seat, participant_id)
			 VALUES (?, ?, ?, ?, ?)`,
			round.TournamentID,
			round.RoundNo,
			seat.TableNo,
			seat.SeatLabel,
			seat.ParticipantID,
		); err != nil {
			return fmt.Errorf("insert seat: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit round plan: %w", err)
	}
	return nil
}
