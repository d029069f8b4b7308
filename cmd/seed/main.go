package main

import (
	"context"
	"flag"
	"log"

	"fitlog/internal/config"
	"fitlog/internal/db"
	"fitlog/internal/repository"
	"fitlog/internal/seed"
)

func main() {
	url := flag.String("url", "", "fetch the exercise catalog from this URL instead of the built-in one")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	var entries []seed.Entry
	if *url != "" {
		log.Printf("Fetching exercises from: %s", *url)
		entries, err = seed.Fetch(ctx, *url)
	} else {
		entries, err = seed.Catalog()
	}
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Loaded %d catalog entries", len(entries))

	seeder := seed.NewSeeder(repository.NewExerciseRepository(gormDB))
	res, err := seeder.Run(ctx, entries, nil)
	if err != nil {
		log.Fatalf("Failed to seed exercises: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New exercises created: %d", res.Created)
	log.Printf("  - Already present: %d", res.Existing)
	log.Printf("  - Skipped invalid entries: %d", res.Skipped)
}
