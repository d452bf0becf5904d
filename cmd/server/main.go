package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/trogers1052/portfolio-ledger/internal/advisor"
	"github.com/trogers1052/portfolio-ledger/internal/api"
	"github.com/trogers1052/portfolio-ledger/internal/config"
	"github.com/trogers1052/portfolio-ledger/internal/database"
	"github.com/trogers1052/portfolio-ledger/internal/kafka"
	"github.com/trogers1052/portfolio-ledger/internal/ledger"
	"github.com/trogers1052/portfolio-ledger/internal/marketdata"
	"github.com/trogers1052/portfolio-ledger/internal/redis"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(cfg.Database.ConnectionString()); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Println("Connected to PostgreSQL database")

	// Connect to Redis
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (continuing without cache)", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Connected to Redis cache")
	}

	// Create Kafka producer for trade events
	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TradesTopic)
	defer producer.Close()
	log.Printf("Kafka producer initialized (brokers: %v)", cfg.Kafka.Brokers)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create and start Kafka consumer for quote events
	quotesConsumer := kafka.NewQuotesConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.QuotesTopic,
		cfg.Kafka.ConsumerGroup,
		db,
	)
	go func() {
		log.Printf("Starting Kafka quotes consumer for topic: %s (group: %s-quotes)",
			cfg.Kafka.QuotesTopic, cfg.Kafka.ConsumerGroup)
		if err := quotesConsumer.Start(ctx); err != nil {
			log.Printf("Kafka quotes consumer error: %v", err)
		}
	}()

	// Wire the advisor and the batch price refresher
	advisorEngine := advisor.New(db, advisorPolicy(cfg.Advisor))
	provider := marketdata.NewHTTPProvider(cfg.Market.ProviderURL, cfg.Market.FetchTimeout)
	updater := marketdata.NewUpdater(db, provider, redisClient, cfg.Market.ChunkSize, cfg.Market.CacheTTL)
	taxPolicy := ledger.TaxPolicy{ShortRate: cfg.Tax.ShortRate, LongRate: cfg.Tax.LongRate}

	// Set up HTTP handler and routes
	handler := api.NewHandler(db, advisorEngine, updater, producer, redisClient, taxPolicy)
	router := api.SetupRoutes(handler)

	// Create HTTP server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Cancel context to stop the Kafka consumer
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close Kafka consumer
	if err := quotesConsumer.Close(); err != nil {
		log.Printf("Error closing Kafka quotes consumer: %v", err)
	}

	log.Println("Server stopped")
}

// advisorPolicy converts the env-driven config into the advisor's policy,
// preserving the configured target order.
func advisorPolicy(cfg config.AdvisorConfig) advisor.Policy {
	targets := make([]advisor.SectorTarget, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		targets = append(targets, advisor.SectorTarget{Sector: t.Sector, Percent: t.Percent})
	}
	return advisor.Policy{
		Targets:              targets,
		OverweightThreshold:  cfg.OverweightThreshold,
		UnderweightThreshold: cfg.UnderweightThreshold,
		CashFloor:            cfg.CashFloor,
		CashReserve:          cfg.CashReserve,
		MaxBuyAmount:         cfg.MaxBuyAmount,
	}
}

func runMigrations(databaseUrl string) error {
	m, err := migrate.New("file://./db/migrations", databaseUrl)
	if err != nil {
		return err
	}

	// Apply all available migrations up to the latest version
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}
