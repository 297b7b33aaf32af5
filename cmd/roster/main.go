// Command roster creates a tournament and registers its participants in
// signup order, one name per argument, so a draw can be run against the
// database without the surrounding club software.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/quartett/tischplan/internal/platform/config"
	"github.com/quartett/tischplan/internal/services/tournament/app"
	"github.com/quartett/tischplan/internal/services/tournament/storage/sqlite"
)

var (
	name   = flag.String("name", "", "tournament name")
	dbPath = flag.String("db", "", "sqlite database path (defaults to TISCHPLAN_DB_PATH)")
)

func main() {
	flag.Parse()
	if *name == "" {
		config.Exitf("-name is required")
	}
	if flag.NArg() == 0 {
		config.Exitf("at least one participant name is required")
	}

	env := app.LoadEnv()
	path := *dbPath
	if path == "" {
		path = env.DBPath
	}

	store, err := sqlite.Open(path)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	ctx := context.Background()
	tournament, err := store.CreateTournament(ctx, *name)
	if err != nil {
		log.Fatalf("create tournament: %v", err)
	}
	for _, participant := range flag.Args() {
		added, err := store.AddParticipant(ctx, tournament.ID, participant)
		if err != nil {
			log.Fatalf("add participant %q: %v", participant, err)
		}
		fmt.Printf("  %2d  %s\n", added.SequenceNo, added.Name)
	}
	fmt.Printf("tournament %d (%s): %d participants\n", tournament.ID, tournament.Name, flag.NArg())
}
