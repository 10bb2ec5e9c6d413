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

	_ "github.com/challengehub/challenge-api/docs"
	"github.com/challengehub/challenge-api/internal/api"
	"github.com/challengehub/challenge-api/internal/api/handler"
	"github.com/challengehub/challenge-api/internal/core/service"
	"github.com/challengehub/challenge-api/internal/infrastructure/db/mongo"
	"github.com/challengehub/challenge-api/internal/infrastructure/db/redis"
	"github.com/challengehub/challenge-api/internal/infrastructure/security"
	"github.com/challengehub/challenge-api/internal/pkg/config"
	"github.com/challengehub/challenge-api/pkg/logger"
)

// @title                       Challenge Platform API
// @version                     1.0
// @description                 Registration, login, challenges and graded submissions.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "challenge-api",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Security ---
	tokens, err := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	// --- Services ---
	users := mongo.NewUserRepository(db)
	challenges := mongo.NewChallengeRepository(db)
	submissions := mongo.NewSubmissionRepository(db)

	authService := service.NewAuthService(users, hasher, tokens, log.With().Str("component", "auth").Logger())
	userService := service.NewUserService(users, log.With().Str("component", "users").Logger())
	challengeService := service.NewChallengeService(challenges, log.With().Str("component", "challenges").Logger())
	submissionService := service.NewSubmissionService(
		submissions, users, challenges,
		redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL),
		log.With().Str("component", "submissions").Logger(),
	)

	if cfg.Admin.Enabled() {
		created, err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return err
		}
		log.Info().Bool("created", created).Str("email", cfg.Admin.Email).Msg("admin account checked")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:        authService,
		Users:       userService,
		Challenges:  challengeService,
		Submissions: submissionService,
		Tokens:      tokens,
		Health: map[string]handler.Pinger{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
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

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
