// Command server runs the career-assistance HTTP API.
//
// Startup order: env → config → logging → tracing → database → background
// sweeper → HTTP server. Shutdown drains in-flight requests before closing
// the tracer provider.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/careermate/go-career-backend/docs"
	"github.com/careermate/go-career-backend/internal/config"
	httpapi "github.com/careermate/go-career-backend/internal/http"
	"github.com/careermate/go-career-backend/internal/observability"
	"github.com/careermate/go-career-backend/internal/repo"
	"github.com/careermate/go-career-backend/internal/services"
	"github.com/careermate/go-career-backend/internal/sysutil"
	"github.com/careermate/go-career-backend/internal/uploads"
)

const version = "1.0.0"

// @title        Career Assistance API
// @version      1.0
// @description  Chatbot sessions, feedback threads, voice replies, and external job/mentor/event search for the career-assistance platform.
//
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	gin.SetMode(cfg.GinMode)

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if err := sysutil.EnsureDirs(cfg.Upload.Dir, cfg.Voice.AudioDir); err != nil {
		log.Fatal().Err(err).Msg("prepare directories")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup tracing")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	// Reap expired conversations and stale uploads in the background.
	sweeper := &services.Sweeper{
		DB:      db,
		Uploads: uploads.NewStore(cfg.Upload.Dir, cfg.Upload.TTL),
	}
	go sweeper.Run(ctx)

	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}
	log.Info().Msg("bye")
}
