package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/AnthoniusHendriyanto/academy-service/config"
	"github.com/AnthoniusHendriyanto/academy-service/db"
	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/repository/postgres"
	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/service"
)

// Seeds the countries table from COUNTRIES_API_URL.
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("Database: %v", err)
	}
	defer dbPool.Close()

	if err := db.Migrate(ctx, dbPool); err != nil {
		log.Fatalf("Migration: %v", err)
	}

	countries := service.NewCountryService(
		postgres.NewCountryRepository(dbPool),
		&http.Client{Timeout: 30 * time.Second},
	)

	n, err := countries.Seed(ctx, cfg.CountriesAPIURL)
	if err != nil {
		log.Fatalf("Seeding countries stopped after %d: %v", n, err)
	}
}
