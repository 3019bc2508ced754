// Skipjack - Import-cost estimation for cross-border trade.
// Copyright (c) 2025 opensource.trade
// Licensed under the Apache License 2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/opensource-trade/skipjack/internal/api"
	"github.com/opensource-trade/skipjack/internal/bus"
	"github.com/opensource-trade/skipjack/internal/cache"
	"github.com/opensource-trade/skipjack/internal/calc"
	"github.com/opensource-trade/skipjack/internal/catalog"
	"github.com/opensource-trade/skipjack/internal/compare"
	"github.com/opensource-trade/skipjack/internal/currency"
	"github.com/opensource-trade/skipjack/internal/domain"
	"github.com/opensource-trade/skipjack/internal/history"
	"github.com/opensource-trade/skipjack/internal/repository"
	"github.com/opensource-trade/skipjack/internal/resolve"
	"github.com/opensource-trade/skipjack/internal/store"
	"github.com/opensource-trade/skipjack/internal/worker"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("SKIPJACK_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Log startup
	slog.Info("starting skipjack",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	// Load configuration
	cfg := domain.DefaultConfig()

	// Check for Pro tier via environment
	if os.Getenv("SKIPJACK_TIER") == "pro" {
		cfg = domain.ProConfig()
		slog.Info("running in Pro tier mode")
	}

	// Optional config file overlay
	if path := os.Getenv("SKIPJACK_CONFIG"); path != "" {
		var err error
		cfg, err = domain.LoadConfigFile(path, cfg)
		if err != nil {
			slog.Error("failed to load config file", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("configuration file loaded", "path", path)
	}

	slog.Info("configuration loaded",
		"tier", cfg.Tier,
		"repository", cfg.Repository.Driver,
		"cache", cfg.Cache.Type,
		"eventbus", cfg.EventBus.Type,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Repository
	repo, err := repository.New(cfg.Repository)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	// Initialize Cache
	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer cacheImpl.Close()
	slog.Info("cache initialized", "type", cfg.Cache.Type)

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Seed the catalog and the definition store
	cat := catalog.New()
	if err := seedCatalog(ctx, repo, cat); err != nil {
		slog.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	}

	st := store.New()
	st.SeedBase(cat.BaseDefinitions())
	if err := loadDefinitions(ctx, repo, st); err != nil {
		slog.Error("failed to load definitions", "error", err)
		os.Exit(1)
	}
	base, overlay, user := st.Counts()
	slog.Info("definition store ready", "base", base, "overlay", overlay, "user", user)

	// Initialize services
	resolver := resolve.New(st, cat, logger)

	currencySvc := currency.New(cfg.Currency, cacheImpl, busImpl, logger)
	slog.Info("currency service initialized", "base", cfg.Currency.BaseCurrency)

	calculator := calc.New(cat, resolver, currencySvc)
	comparer := compare.NewEngine(resolver, cat, logger, 0)
	historySvc := history.NewService(repo, cacheImpl)

	// Initialize async Worker for calculation persistence
	asyncWorker := worker.NewWorker(busImpl, repo, historySvc)

	ownerIDs := []string{}
	if envOwners := os.Getenv("SKIPJACK_OWNERS"); envOwners != "" {
		ownerIDs = strings.Split(envOwners, ",")
	}

	workerCfg := worker.Config{
		OwnerIDs: ownerIDs,
	}

	if err := asyncWorker.Start(workerCfg); err != nil {
		slog.Error("failed to start async worker", "error", err)
	} else {
		slog.Info("async worker started", "owner_count", len(ownerIDs))
	}

	// Initialize Server
	srv := api.NewServer(cfg.Server, repo, cacheImpl, busImpl, st, cat, calculator, comparer, currencySvc, historySvc, Version)

	// Start Server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("skipjack is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	// Stop async worker first
	if err := asyncWorker.Stop(); err != nil {
		slog.Error("failed to stop async worker", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("skipjack shutdown complete")
}

// seedCatalog writes the reference products and country-pair rates into
// the repository so reporting queries can join against them. Upserts keep
// restarts idempotent.
func seedCatalog(ctx context.Context, repo domain.Repository, cat *catalog.Catalog) error {
	for _, p := range cat.Products() {
		if err := repo.SaveProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %s/%s: %w", p.Name, p.Brand, err)
		}
	}
	for _, r := range cat.Rates() {
		if err := repo.SaveCountryRate(ctx, r); err != nil {
			return fmt.Errorf("seed rate %s->%s: %w", r.ExportingFrom, r.ImportingTo, err)
		}
	}
	slog.Info("catalog seeded", "products", len(cat.Products()), "rates", len(cat.Rates()))
	return nil
}

// loadDefinitions rebuilds the in-memory store from persisted overlay and
// user definitions.
func loadDefinitions(ctx context.Context, repo domain.Repository, st *store.Store) error {
	for _, layer := range []domain.DefinitionLayer{domain.LayerOverlay, domain.LayerUser} {
		defs, err := repo.ListDefinitions(ctx, "", layer)
		if err != nil {
			slog.Warn("failed to list persisted definitions", "layer", layer, "error", err)
			continue
		}
		for _, def := range defs {
			if err := st.Load(def); err != nil {
				slog.Warn("skipping invalid persisted definition", "id", def.ID, "error", err)
			}
		}
		if len(defs) > 0 {
			slog.Info("definitions loaded", "layer", layer, "count", len(defs))
		}
	}
	return nil
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  ╔═════════════════════════════════════════╗")
	fmt.Println("  ║              🐟 SKIPJACK                ║")
	fmt.Println("  ║   Tariff Resolution & Cost Estimation   ║")
	fmt.Println("  ║      Know the landed cost first.        ║")
	fmt.Println("  ╚═════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Tier:     %s\n", cfg.Tier)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    POST /calculate               - Estimate import cost")
	fmt.Println("    POST /compare                 - Compare tariffs across countries")
	fmt.Println("    GET  /definitions/{layer}     - List tariff definitions")
	fmt.Println("    GET  /definitions/global      - Merged global view (overlay over base)")
	fmt.Println("    POST /definitions/{layer}     - Create or update a definition")
	fmt.Println("    DELETE /definitions/{id}      - Delete a definition")
	fmt.Println("    GET  /calculations/{id}       - Get a stored calculation")
	fmt.Println("    GET  /history                 - List recent calculations")
	fmt.Println("    GET  /countries               - List catalog countries")
	fmt.Println("    GET  /products                - List catalog products")
	fmt.Println("    GET  /currencies              - List display currencies")
	fmt.Println("    GET  /health                  - Health check")
	fmt.Println()
}
