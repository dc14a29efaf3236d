package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/MalithGihan/protocol-extract/internal/config"
	"github.com/MalithGihan/protocol-extract/internal/extraction"
	"github.com/MalithGihan/protocol-extract/internal/logging"
	"github.com/MalithGihan/protocol-extract/internal/parser"
	"github.com/MalithGihan/protocol-extract/internal/server"
	"github.com/MalithGihan/protocol-extract/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger, closer, err := logging.Setup(cfg.Logging)
	if err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to open %s store: %v", cfg.Store.Backend, err)
	}
	go store.RunJanitor(ctx, st, cfg.Store.TTL, cfg.Store.CleanupInterval, logger)

	svc := extraction.NewService(parser.NewRegistry(logger), st, logger, extraction.Options{
		Timeout:         cfg.Server.ProcessTimeout,
		DefaultProvider: cfg.Parser.DefaultProvider,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.New(svc, logger, cfg.MaxUploadBytes()).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("graceful shutdown failed")
		}
	}()

	logger.WithFields(logrus.Fields{
		"port":    cfg.Server.Port,
		"store":   cfg.Store.Backend,
		"default": cfg.Parser.DefaultProvider,
	}).Info("protocol-extract listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(err)
	}
	logger.Info("protocol-extract stopped")
}

func openStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (store.Store, error) {
	log = logging.For(log, logging.Store)
	switch cfg.Store.Backend {
	case "fs":
		log.WithField("root", cfg.Store.DataRoot).Info("using filesystem store")
		return store.NewFS(cfg.Store.DataRoot, cfg.Store.TTL)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		log.WithField("addr", cfg.Redis.Addr).Info("using redis store")
		return store.NewRedis(client, store.WithRedisPrefix(cfg.Redis.Prefix), store.WithTTL(cfg.Store.TTL)), nil
	default:
		log.Info("using in-memory store")
		return store.NewMemory(cfg.Store.TTL), nil
	}
}
