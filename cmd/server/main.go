package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/pixelgram/pixelgram/internal/auth"
	"github.com/pixelgram/pixelgram/internal/cache"
	"github.com/pixelgram/pixelgram/internal/config"
	"github.com/pixelgram/pixelgram/internal/db"
	apphttp "github.com/pixelgram/pixelgram/internal/http"
	"github.com/pixelgram/pixelgram/internal/http/middleware"
	"github.com/pixelgram/pixelgram/internal/metrics"
	"github.com/pixelgram/pixelgram/internal/realtime"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("db connect", "error", err)
		os.Exit(1)
	}
	if err := db.ApplyMigrations(ctx, pool, filepath.Join("internal", "db", "migrations")); err != nil {
		log.Error("apply migrations", "error", err)
		os.Exit(1)
	}

	msgCache, err := cache.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		log.Error("redis connect", "error", err)
		os.Exit(1)
	}

	metrics.Register()

	authSvc := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	authMW := middleware.NewAuth(authSvc, pool)
	hub := realtime.NewHub(log)

	handler := apphttp.NewHandler(pool, authSvc, cfg, log, hub, msgCache)
	router := apphttp.NewRouter(apphttp.RouterDeps{
		Handler: handler,
		AuthMW:  authMW,
	})

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()
	log.Info("shutting down...")
	_ = srv.Shutdown(context.Background())
}

// ensure gin uses release mode in production
func init() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
}
