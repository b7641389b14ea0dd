// @title        GeoNotes API
// @version      1.0
// @description  Authenticated CRUD over users and geotagged notes.
// @BasePath     /api
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/geonotes/notes-api/internal/api"
	"github.com/geonotes/notes-api/internal/api/handler"
	"github.com/geonotes/notes-api/internal/core/ports"
	"github.com/geonotes/notes-api/internal/core/service"
	"github.com/geonotes/notes-api/internal/infrastructure/db/mongo"
	"github.com/geonotes/notes-api/internal/infrastructure/db/redis"
	"github.com/geonotes/notes-api/internal/infrastructure/queue"
	"github.com/geonotes/notes-api/internal/infrastructure/token"
	"github.com/geonotes/notes-api/internal/pkg/config"
	"github.com/geonotes/notes-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		// The logger may not exist yet when config fails.
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("geonotes api stopped")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "geonotes-api",
	})

	codec, err := token.NewCodec(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}

	// --- MongoDB ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	userRepo := mongo.NewUserRepository(db)
	noteRepo := mongo.NewNoteRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := noteRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	readiness := map[string]handler.Pinger{"mongodb": handler.MongoPinger(db)}

	// --- Redis (optional) ---
	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		cache, err := redis.Open(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = cache.Close() }()
		idem = cache.Idempotency()
		readiness["redis"] = cache.Ping
	} else {
		log.Warn().Msg("REDIS_ADDR not set, Idempotency-Key replay disabled")
	}

	// --- Audit trail ---
	auditSvc := service.NewAuditService(mongo.NewAuditRepository(db), log)
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditSvc, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Logger:    log,
		Verifier:  codec,
		Users:     service.NewUserService(userRepo, codec, cfg.Auth.TokenTTL, cfg.Auth.AdminEmails, log),
		Notes:     service.NewNoteService(noteRepo, idem, dispatcher, log),
		Readiness: readiness,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
