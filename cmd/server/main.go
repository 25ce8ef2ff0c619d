package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/idfuturestars/starguide/internal/ai"
	app "github.com/idfuturestars/starguide/internal/app"
	httpx "github.com/idfuturestars/starguide/internal/http"
	store "github.com/idfuturestars/starguide/internal/store"
	ws "github.com/idfuturestars/starguide/internal/ws"
	"github.com/idfuturestars/starguide/pkg/auth"
)

func main() {
	// Load local .env (dev only)
	_ = godotenv.Load()

	cfg := app.LoadConfig()
	logger := app.NewLogger(cfg.Env)

	// Cancel on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Postgres connection + migrations + question bank
	pg, err := store.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("postgres connect", "err", err)
		log.Fatal(err)
	}
	defer pg.Close()
	if err := store.RunMigrations(ctx, pg, logger); err != nil {
		logger.Error("migrations", "err", err)
		log.Fatal(err)
	}
	if err := store.SeedQuestions(ctx, pg, logger); err != nil {
		logger.Error("seed", "err", err)
		log.Fatal(err)
	}

	// Redis bus for WS fanout (optional)
	var bus *ws.RedisBus
	if cfg.RedisAddr != "" {
		bus, err = ws.NewRedisBus(ctx, cfg, logger)
		if err != nil {
			logger.Error("redis connect", "err", err)
			log.Fatal(err)
		}
		defer bus.Close()
	}

	// Realtime gateway
	hub := ws.NewHub(logger, bus, pg, auth.New(cfg.JWTSecret), cfg.PodJoinPolicy, cfg.BattleTTL)
	go hub.Run(ctx)

	// AI tutor
	tutor := ai.New(cfg, logger)

	// HTTP + WS router
	router := httpx.NewRouter(cfg, logger, hub, pg, tutor)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("server.listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server.crash", "err", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("server.shutdown.start")

	// shutdown
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info("server.shutdown.complete")
	_ = os.Stdout.Sync()
}
