package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	_ "github.com/lusoedu/sge-console/api/swagger"
	"github.com/lusoedu/sge-console/internal/handler"
	"github.com/lusoedu/sge-console/internal/metrics"
	"github.com/lusoedu/sge-console/internal/screen"
	"github.com/lusoedu/sge-console/internal/upstream"
	"github.com/lusoedu/sge-console/pkg/cache"
	"github.com/lusoedu/sge-console/pkg/config"
	"github.com/lusoedu/sge-console/pkg/jobs"
	"github.com/lusoedu/sge-console/pkg/logger"
	"github.com/lusoedu/sge-console/pkg/storage"
)

// @title SGE Console Gateway
// @version 0.1.0
// @description Session-holding gateway between the admin console UI and the school-management platform API
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()

	env := screen.Env{
		UpstreamURL:     cfg.Upstream.BaseURL,
		UpstreamTimeout: cfg.Upstream.Timeout,
		Console:         cfg.Console,
		Validate:        validator.New(),
		Metrics:         m,
		Log:             logr,
	}

	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, lookup caching disabled", "error", err)
		} else {
			env.Redis = rdb
			defer rdb.Close() //nolint:errcheck
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := screen.NewRegistry(env, cfg.Workspace.IdleTTL)
	registry.StartSweeper(ctx, cfg.Workspace.SweepInterval)

	queue := jobs.NewQueue("maintenance", jobs.QueueConfig{Workers: 2, Logger: logr})
	queue.Start(ctx)
	defer queue.Stop()

	store, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export staging", "error", err)
	}
	signer := storage.NewDownloadSigner(cfg.Export.SigningSecret, cfg.Export.TTL)

	// staged exports outlive their signed URLs only until the next sweep
	go func() {
		ticker := time.NewTicker(cfg.Export.TTL)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = queue.Enqueue(jobs.Task{
					ID:   "export-cleanup",
					Name: "export_cleanup",
					Run: func(context.Context) error {
						removed, err := store.CleanupOlderThan(cfg.Export.TTL)
						if len(removed) > 0 {
							logr.Sugar().Infow("stale exports removed", "count", len(removed))
						}
						return err
					},
				})
			}
		}
	}()

	loginClient := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, nil, logr)
	loginClient.Observe = m.ObserveUpstreamRequest

	r := handler.NewRouter(handler.RouterDeps{
		Config:      cfg,
		Log:         logr,
		Registry:    registry,
		LoginClient: loginClient,
		Metrics:     m,
		Warmup:      queue,
		Store:       store,
		Signer:      signer,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("console gateway starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
