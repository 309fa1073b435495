package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"fieldready/adapters/api"
	"fieldready/adapters/postgres"
	"fieldready/app"
	"fieldready/internal"
	"fieldready/internal/config"
	"fieldready/internal/telemetry"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.RequireServer(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := internal.NewLogger(internal.LevelFromName(cfg.Log.Level))

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	samples := postgres.NewSampleRepository(db)
	manual := postgres.NewManualEntryRepository(db)
	profiles := postgres.NewProfileRepository(db)
	scores := postgres.NewScoreRepository(db)
	audit := postgres.NewAuditRepository(db)

	engine := app.NewReadinessEngine(samples, manual, profiles, scores, logger)
	issuer := api.NewTokenIssuer(cfg.Server.JWTSecret, cfg.Server.TokenTTL)
	server := api.NewServer(engine, samples, manual, scores, audit, issuer,
		telemetry.NewMetrics(), logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API listening on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown: %v", err)
	}
}
