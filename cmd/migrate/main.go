package main

import (
	"context"
	"log"
	"os"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"fieldready/adapters/db/postgres/migrations"
	"fieldready/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	databaseURL := cfg.Database.URL
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("usage: migrate [database_url] (or set FIELDREADY_DATABASE__URL)")
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	migrator := migrations.NewMigrator(db.DB)
	if err := migrator.Up(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		log.Fatalf("migration status: %v", err)
	}
	names := make([]string, 0, len(status))
	for name := range status {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		log.Printf("%s applied=%v", name, status[name])
	}
}
