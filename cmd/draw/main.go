// Command draw draws (or redraws) one tournament round and prints the
// resulting table plan. Every invocation for the same round increments the
// stored attempt counter, so re-running deterministically produces a new
// plan while a fresh database always reproduces the first one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/quartett/tischplan/internal/core/draw"
	"github.com/quartett/tischplan/internal/platform/config"
	"github.com/quartett/tischplan/internal/platform/otel"
	"github.com/quartett/tischplan/internal/services/tournament/app"
	"github.com/quartett/tischplan/internal/services/tournament/storage/sqlite"
)

var (
	tournamentID = flag.Int64("tournament", 0, "tournament id")
	roundNo      = flag.Int("round", 0, "round number to draw")
	dbPath       = flag.String("db", "", "sqlite database path (defaults to TISCHPLAN_DB_PATH)")
)

func main() {
	flag.Parse()
	if *tournamentID <= 0 || *roundNo <= 0 {
		config.Exitf("both -tournament and -round are required and must be positive")
	}

	env := app.LoadEnv()
	path := *dbPath
	if path == "" {
		path = env.DBPath
	}

	ctx := context.Background()
	shutdown, err := otel.Setup(ctx, "tischplan-draw")
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Printf("flush traces: %v", err)
		}
	}()

	store, err := sqlite.Open(path)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	service := app.New(store, draw.Options{
		Restarts:   env.Restarts,
		Iterations: env.Iterations,
	})

	result, err := service.DrawRound(ctx, *tournamentID, *roundNo)
	if err != nil {
		log.Fatalf("draw failed: %v", err)
	}

	names := participantNames(ctx, store, *tournamentID)
	fmt.Printf("tournament %d round %d (seed %d, cost %d)\n", *tournamentID, *roundNo, result.Seed, result.Cost)
	for _, table := range result.Tables {
		fmt.Printf("  table %d:\n", table.TableNo)
		for _, seat := range table.Seats {
			name := names[seat.ParticipantID]
			if name == "" {
				name = fmt.Sprintf("participant %d", seat.ParticipantID)
			}
			fmt.Printf("    %s  %s\n", seat.Label, name)
		}
	}
}

func participantNames(ctx context.Context, store *sqlite.Store, tournamentID int64) map[int64]string {
	names := make(map[int64]string)
	participants, err := store.ListParticipants(ctx, tournamentID)
	if err != nil {
		log.Printf("list participants: %v", err)
		return names
	}
	for _, p := range participants {
		names[p.ID] = p.Name
	}
	return names
}
