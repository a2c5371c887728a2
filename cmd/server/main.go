package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clavinorach/kratos-dashboard/internal/api"
	"github.com/clavinorach/kratos-dashboard/internal/infrastructure/config"
	mongodb "github.com/clavinorach/kratos-dashboard/internal/infrastructure/db/mongo"
	redisdb "github.com/clavinorach/kratos-dashboard/internal/infrastructure/db/redis"
	"github.com/clavinorach/kratos-dashboard/internal/infrastructure/kratos"
	"github.com/clavinorach/kratos-dashboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.NewRoleRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure role indexes")
	}
	if err := mongodb.NewPageRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure page indexes")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Identity provider: Kratos behind a directory cache ---
	kratosClient := kratos.NewClient(cfg.Kratos.PublicURL, cfg.Kratos.AdminURL, log)
	provider := redisdb.NewIdentityCache(kratosClient, rdb, cfg.Redis.IdentityTTL, log)

	e := api.NewRouter(api.Deps{
		DB:       db,
		Redis:    rdb,
		Provider: provider,
		Kratos:   kratosClient,
		Config:   cfg,
		Log:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Env).
		Str("kratos_public_url", cfg.Kratos.PublicURL).
		Msg("kratos-dashboard started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("kratos-dashboard stopped cleanly")
}
