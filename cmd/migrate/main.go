package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/planner/internal/pkg/config"
)

// migration pairs an up SQL file with its inline down statement.
// Dropping the pgcrypto extension is left alone: other databases on the
// same cluster may share it.
type migration struct {
	file string
	down string
}

var migrations = []migration{
	{file: "migrations/001_init_extensions.sql"},
	{
		file: "migrations/002_core_tables.sql",
		down: `DROP TABLE IF EXISTS participants; DROP TABLE IF EXISTS trips;`,
	},
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("planner-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		migrateUp(ctx, pool)
	case "down":
		migrateDown(ctx, pool)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) {
	for _, m := range migrations {
		data, err := os.ReadFile(m.file)
		if err != nil {
			log.Fatalf("read %s: %v", m.file, err)
		}

		if _, err := pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", m.file, err)
		}

		fmt.Printf("OK  %s\n", m.file)
	}

	log.Println("all migrations applied")
}

func migrateDown(ctx context.Context, pool *pgxpool.Pool) {
	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		if m.down == "" {
			fmt.Printf("--  %s (nothing to undo)\n", m.file)
			continue
		}

		if _, err := pool.Exec(ctx, m.down); err != nil {
			log.Fatalf("undo %s: %v", m.file, err)
		}

		fmt.Printf("OK  undid %s\n", m.file)
	}

	log.Println("schema dropped")
}
