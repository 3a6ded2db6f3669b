package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/partylink/internal/config"
	"github.com/MrJamesThe3rd/partylink/internal/database"
	partylinkHttp "github.com/MrJamesThe3rd/partylink/internal/http"
	instrumentHandler "github.com/MrJamesThe3rd/partylink/internal/http/instrument"
	linkingHandler "github.com/MrJamesThe3rd/partylink/internal/http/linking"
	partyHandler "github.com/MrJamesThe3rd/partylink/internal/http/party"
	"github.com/MrJamesThe3rd/partylink/internal/importer"
	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	instrumentStore "github.com/MrJamesThe3rd/partylink/internal/instrument/store"
	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	linkageStore "github.com/MrJamesThe3rd/partylink/internal/linkage/store"
	"github.com/MrJamesThe3rd/partylink/internal/linking"
	suggestionStore "github.com/MrJamesThe3rd/partylink/internal/linking/store"
	"github.com/MrJamesThe3rd/partylink/internal/lock"
	"github.com/MrJamesThe3rd/partylink/internal/matching"
	"github.com/MrJamesThe3rd/partylink/internal/normalize"
	"github.com/MrJamesThe3rd/partylink/internal/party"
	partyStore "github.com/MrJamesThe3rd/partylink/internal/party/store"
	"github.com/MrJamesThe3rd/partylink/internal/reconcile"
	"github.com/MrJamesThe3rd/partylink/internal/similarity"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	applied, err := database.Migrate(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("database schema ready", "migrated", applied)

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	locker, err := newLocker(cfg)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// Load already validated the locale.
	tag, _ := cfg.Language()

	var (
		parties     = partyStore.New(db)
		instruments = instrumentStore.New(db)
		suggestions = suggestionStore.New(db)
	)

	var (
		partyService      = party.NewService(parties)
		instrumentService = instrument.NewService(instruments)
		linkageService    = linkage.NewService(linkageStore.New(db), instruments, parties)
		importService     = importer.NewService()
		matcher           = matching.NewEngine(similarity.NewScorer(normalize.NewNameNormalizer(tag)), cfg.MatchingConfig())
		reconciler        = reconcile.NewEngine(parties, linkageService, instruments, reconcile.WithRiskPolicy(cfg.RiskPolicy()))
	)

	orchestrator := linking.New(linking.Deps{
		Parties:     parties,
		Instruments: instruments,
		Links:       linkageService,
		Suggestions: suggestions,
		Matcher:     matcher,
		Reconciler:  reconciler,
	},
		linking.WithLocker(locker),
		linking.WithWorkers(cfg.Linking.Workers),
		linking.WithActor(cfg.Linking.Actor),
		linking.WithHighConfidence(cfg.Linking.HighConfidence),
	)

	var (
		partyH      = partyHandler.NewHandler(partyService, linkageService, orchestrator, importService)
		instrumentH = instrumentHandler.NewHandler(instrumentService, linkageService, orchestrator, importService)
		linkingH    = linkingHandler.NewHandler(orchestrator, linkageService)
	)

	router := partylinkHttp.New(cfg.Server.CORSOrigins, partyH, instrumentH, linkingH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	slog.Info("starting server", "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// newLocker shares party locks through Redis when REDIS_ADDR is set and keeps them in-process otherwise.
func newLocker(cfg *config.Config) (lock.Locker, error) {
	if cfg.Redis.Addr == "" {
		slog.Info("REDIS_ADDR not set; using in-process party locks")
		return lock.NewLocal(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Redis.Addr, err)
	}

	slog.Info("using redis party locks", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.LockTTL)

	return lock.NewRedis(rdb, cfg.Redis.LockTTL), nil
}
