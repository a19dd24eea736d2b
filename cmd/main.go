package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/auth"
	"github.com/siahsang/devconnector/internal/cache"
	"github.com/siahsang/devconnector/internal/config"
	"github.com/siahsang/devconnector/internal/core"
	"github.com/siahsang/devconnector/internal/events"
	"github.com/siahsang/devconnector/internal/github"
	"github.com/siahsang/devconnector/internal/store"
	"github.com/siahsang/devconnector/internal/store/memstore"
	"github.com/siahsang/devconnector/internal/store/mongostore"
	"github.com/siahsang/devconnector/internal/store/pgstore"
)

type application struct {
	config  *config.Config
	logger  *slog.Logger
	core    *core.Core
	auth    *auth.Auth
	limiter *clientLimiter
	wg      sync.WaitGroup
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", xerrors.Sprint(err))
		os.Exit(1)
	}

	logger := configLogger(cfg)
	if err := run(cfg, logger); err != nil {
		logger.Error("Application stopped with error", slog.String("stack", xerrors.Sprint(err)))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Starting application...", slog.String("store", cfg.Store.Driver))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Error("Error closing store", slog.String("error", err.Error()))
		}
	}()

	var publisher events.Publisher = events.Nop{}
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.ConnectNATS(cfg.NATS.URL, logger)
		if err != nil {
			return err
		}
		publisher = natsPublisher
	}
	defer publisher.Close()

	var repoCache cache.Cache = cache.NewMemory()
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password)
		if err := redisCache.Ping(ctx); err != nil {
			return err
		}
		defer redisCache.Close()
		logger.Info("Redis cache connected", slog.String("addr", cfg.Redis.Addr))
		repoCache = redisCache
	}

	githubClient := github.NewClient(github.Options{
		BaseURL:      cfg.GitHub.APIURL,
		ClientID:     cfg.GitHub.ClientID,
		ClientSecret: cfg.GitHub.Secret,
		Cache:        repoCache,
		CacheTTL:     cfg.CacheDuration(),
	}, logger)

	authenticator := auth.New(cfg.JWT.Secret, cfg.TokenTTL())

	app := &application{
		config:  cfg,
		logger:  logger,
		core:    core.NewCore(st, authenticator, publisher, githubClient, logger),
		auth:    authenticator,
		limiter: newClientLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}

	return app.serve()
}

func configLogger(cfg *config.Config) *slog.Logger {
	if !cfg.IsDevelopment() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
			},
			NewLineAfterLog: false,
		})

	return slog.New(handler)
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return pgstore.Open(ctx, cfg.Store.DatabaseURL, logger)
	case "memory":
		logger.Warn("Using in-memory store, data is lost on restart")
		return memstore.New(), nil
	default:
		return mongostore.Open(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase, logger)
	}
}
