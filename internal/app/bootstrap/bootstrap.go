package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	feedranking "boostfeed/contexts/discovery/feed-ranking"
	feedpostgres "boostfeed/contexts/discovery/feed-ranking/adapters/postgres"
	rewardledger "boostfeed/contexts/engagement/reward-ledger"
	rewardpostgres "boostfeed/contexts/engagement/reward-ledger/adapters/postgres"
	rewardworkers "boostfeed/contexts/engagement/reward-ledger/application/workers"
	callerresolver "boostfeed/contexts/identity-access/caller-resolver"
	resolverpostgres "boostfeed/contexts/identity-access/caller-resolver/adapters/postgres"
	"boostfeed/internal/platform/config"
	"boostfeed/internal/platform/db"
	"boostfeed/internal/platform/httpserver"
	"boostfeed/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  rewardworkers.OutboxRelay
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	feedRepo := feedpostgres.NewRepository(pg.DB, logger)
	feedModule := feedranking.NewModule(feedranking.Dependencies{
		Catalog:  feedRepo,
		Comments: feedRepo,
		Logger:   logger,
	})

	rewardRepo := rewardpostgres.NewRepository(pg.DB, logger)
	rewardModule := rewardledger.NewModule(rewardledger.Dependencies{
		Ledger: rewardRepo,
		Outbox: rewardRepo,
		Clock:  rewardpostgres.SystemClock{},
		IDGen:  rewardpostgres.UUIDGenerator{},
		Logger: logger,
	})

	resolverRepo := resolverpostgres.NewRepository(pg.DB, logger)
	resolverModule := callerresolver.NewModule(callerresolver.Dependencies{
		Directory: resolverRepo,
		Logger:    logger,
	})

	server := httpserver.New(feedModule, rewardModule, resolverModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	rewardRepo := rewardpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: rewardworkers.OutboxRelay{
			Outbox:    rewardRepo,
			Publisher: kafka,
			Clock:     rewardpostgres.SystemClock{},
			Topic:     "reward.xp_granted",
			BatchSize: 100,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableRewardOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"relay_enabled", w.relayEnabled,
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
