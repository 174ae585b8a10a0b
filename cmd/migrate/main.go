package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cassiomorais/storenotify/internal/infrastructure/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var (
		direction string
		dbURL     string
		path      string
	)

	flag.StringVar(&direction, "direction", "up", "Migration direction: up or down")
	flag.StringVar(&dbURL, "db", "", "Database URL (or set DATABASE_URL env var)")
	flag.StringVar(&path, "path", "internal/repository/postgres/migrations", "Path to migration files")
	flag.Parse()

	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		// Built from the same STORENOTIFY_DATABASE_* settings the services use.
		cfg := config.DatabaseConfig{
			Host:     envOr("STORENOTIFY_DATABASE_HOST", "localhost"),
			Port:     5432,
			User:     envOr("STORENOTIFY_DATABASE_USER", "storenotify"),
			Password: envOr("STORENOTIFY_DATABASE_PASSWORD", "storenotify"),
			Database: envOr("STORENOTIFY_DATABASE_DATABASE", "storenotify"),
			SSLMode:  envOr("STORENOTIFY_DATABASE_SSL_MODE", "disable"),
		}
		dbURL = cfg.DatabaseURL()
	}

	m, err := migrate.New("file://"+path, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create migrate instance: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	switch direction {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fmt.Fprintf(os.Stderr, "Migration up failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fmt.Fprintf(os.Stderr, "Migration down failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations rolled back successfully")
	default:
		fmt.Fprintf(os.Stderr, "Unknown direction: %s (use 'up' or 'down')\n", direction)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
