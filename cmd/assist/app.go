package main

import (
	"context"
	"fmt"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	natsclient "github.com/telhawk-systems/telhawk-assist/common/messaging/nats"
	"github.com/telhawk-systems/telhawk-assist/internal/alertstore"
	"github.com/telhawk-systems/telhawk-assist/internal/config"
	"github.com/telhawk-systems/telhawk-assist/internal/engine"
	"github.com/telhawk-systems/telhawk-assist/internal/executor"
	"github.com/telhawk-systems/telhawk-assist/internal/nats"
	"github.com/telhawk-systems/telhawk-assist/internal/orchestrator"
	"github.com/telhawk-systems/telhawk-assist/internal/service"
	"github.com/telhawk-systems/telhawk-assist/internal/stats"
	"github.com/telhawk-systems/telhawk-assist/internal/transcript"
)

// app holds the wired assist components.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	store   *alertstore.PostgresStore
	service *service.Service
	closers []func() error
}

func openStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*alertstore.PostgresStore, error) {
	store, err := alertstore.NewPostgresStore(ctx, cfg.Database.Postgres.ConnString(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	return store, nil
}

// newApp connects every dependency and assembles the service. Callers must
// Close the returned app.
func newApp(ctx context.Context, cfg *config.Config, logger *logging.Logger) (a *app, err error) {
	a = &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.Close()
			a = nil
		}
	}()

	a.store, err = openStore(ctx, cfg, logger)
	if err != nil {
		return a, err
	}
	a.closers = append(a.closers, a.store.Close)

	exec, err := executor.New(a.store, logger)
	if err != nil {
		return a, fmt.Errorf("failed to build tool executor: %w", err)
	}

	engineCfg := engine.Config{
		BaseURL:   cfg.Engine.BaseURL,
		APIKey:    cfg.Engine.APIKey,
		Model:     cfg.Engine.Model,
		MaxTokens: cfg.Engine.MaxTokens,
		Timeout:   cfg.Engine.Timeout,
	}
	temperature := cfg.Engine.Temperature
	engineCfg.Temperature = &temperature
	eng, err := engine.NewOpenAIClient(engineCfg, logger)
	if err != nil {
		return a, fmt.Errorf("failed to build reasoning engine: %w", err)
	}

	var transcripts transcript.Store
	var redisStore *transcript.RedisStore
	switch cfg.Transcript.Backend {
	case config.TranscriptRedis:
		client, err := transcript.NewRedisClient(ctx, cfg.Redis.URL, cfg.Redis.PoolSize)
		if err != nil {
			return a, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		redisStore = transcript.NewRedisStore(client, cfg.Transcript.KeyPrefix, logger)
		a.closers = append(a.closers, redisStore.Close)
		transcripts = redisStore
	default:
		transcripts = transcript.NewMemoryStore()
	}

	var publisher orchestrator.EventPublisher
	if cfg.NATS.Enabled {
		natsCfg := natsclient.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		natsCfg.MaxReconnects = cfg.NATS.MaxReconnects
		natsCfg.ReconnectWait = cfg.NATS.ReconnectWait
		client, err := natsclient.NewClient(natsCfg)
		if err != nil {
			return a, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		publisher = nats.NewPublisher(client)
		logger.Info("NATS event publishing enabled", "url", cfg.NATS.URL)
	}

	orch := orchestrator.New(eng, exec, transcripts, publisher, orchestrator.Config{
		HistoryTurns: cfg.Engine.HistoryTurns,
	}, logger)

	a.service = service.NewService(orch, transcripts, stats.NewPipeline(a.store, logger)).
		WithDependency("postgres", a.store)
	if redisStore != nil {
		a.service.WithDependency("redis", redisStore)
	}
	return a, nil
}

// Close releases dependencies in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close dependency", logging.Error(err))
		}
	}
	a.closers = nil
}
