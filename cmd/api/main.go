package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotel-assistant-api/internal/accounts"
	"hotel-assistant-api/internal/analytics"
	"hotel-assistant-api/internal/audit"
	"hotel-assistant-api/internal/auth"
	"hotel-assistant-api/internal/cache"
	"hotel-assistant-api/internal/config"
	"hotel-assistant-api/internal/httpapi"
	"hotel-assistant-api/internal/identity"
	"hotel-assistant-api/internal/metrics"
	"hotel-assistant-api/internal/realtime"
	"hotel-assistant-api/internal/retry"
	"hotel-assistant-api/internal/vapi"
	"hotel-assistant-api/pkg/logger"
	"hotel-assistant-api/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local convenience; a missing .env is fine, real env always wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	var store cache.Store
	if cfg.CacheBackend() == "redis" {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.Redis.Addr})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		store = cache.NewRedis(rdb, log)
	} else {
		log.Warn("REDIS_ADDR not set, using in-process cache (single instance only)")
		store = cache.NewMemory()
	}

	metrics.Init()

	accountStore := accounts.NewPGStore(db)
	provider := identity.NewProvider(identity.NewPGCredentialStore(db), authManager)
	accountSvc := accounts.NewService(accountStore, provider, log)
	auditSvc := audit.NewService(audit.NewPGRepo(db))
	upstream := vapi.NewClient(cfg.Vapi)
	agg := analytics.NewAggregator(log)
	broadcaster := realtime.NewBroadcaster(log)
	ws := realtime.NewWSHandler(broadcaster, upstream, agg)

	h := httpapi.Handlers{
		Identity: provider,
		Accounts: accountSvc,
		Upstream: upstream,
		Agg:      agg,
		Cache:    store,
		Audit:    auditSvc,
		Retry:    retry.Options{},
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(metrics.Middleware())

	registerRoutes(r, h, httpapi.RequireAuth(provider, accountStore), ws)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "cache", cfg.CacheBackend())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
