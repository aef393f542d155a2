package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tourney/cmd"
	"tourney/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "migrate" {
		if err := handleMigrationCommand(args[1:]); err != nil {
			log.WithError(err).Fatal("Migration error")
		}
		return
	}
	if len(args) > 0 && args[0] != "serve" {
		log.Fatalf("unknown command %q, usage: tourney [serve|migrate]", args[0])
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Run(ctx); err != nil {
		log.WithError(err).Fatal("Application error")
	}
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: tourney migrate [up|down|status] [args...]")
	}

	switch args[0] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
