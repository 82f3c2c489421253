package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/personaforge/personaforge/internal/adapter/postgres"
	"github.com/personaforge/personaforge/internal/config"
)

const migrateUsage = `Usage: personaforge migrate <command>

Commands:
  up              apply all pending migrations
  down [steps]    roll back migrations (default 1 step)
  status          print the current migration version
`

// runMigrate handles the `personaforge migrate` subcommand. It reads
// the same configuration hierarchy as the server but only needs the DSN.
func runMigrate(args []string) error {
	if len(args) == 0 {
		fmt.Print(migrateUsage)
		return fmt.Errorf("missing migrate command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch args[0] {
	case "up":
		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		fmt.Println("migrations applied")
		return nil

	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
			steps = n
		}
		if err := postgres.RollbackMigrations(ctx, cfg.Postgres.DSN, steps); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		fmt.Printf("rolled back %d migration(s)\n", steps)
		return nil

	case "status":
		version, err := postgres.MigrationVersion(ctx, cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		fmt.Printf("current migration version: %d\n", version)
		return nil

	default:
		fmt.Print(migrateUsage)
		return fmt.Errorf("unknown migrate command %q", args[0])
	}
}
