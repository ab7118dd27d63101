package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Alarion239/studentrecords/internal/config"
	constants "github.com/Alarion239/studentrecords/internal/constants"
	"github.com/Alarion239/studentrecords/internal/logger"
	"github.com/Alarion239/studentrecords/internal/server"
	"github.com/Alarion239/studentrecords/pkg/credential"
	"github.com/Alarion239/studentrecords/pkg/db"
	"github.com/Alarion239/studentrecords/pkg/graphapi"
	"github.com/Alarion239/studentrecords/pkg/roster"
	"github.com/Alarion239/studentrecords/pkg/store"
	"github.com/Alarion239/studentrecords/pkg/store/memory"
	"github.com/Alarion239/studentrecords/pkg/store/postgres"
	"github.com/Alarion239/studentrecords/pkg/store/sqlite"
	"github.com/Alarion239/studentrecords/pkg/token"
)

type backend interface {
	store.StudentStore
	store.AccountStore
}

func main() {
	envFile := pflag.String("env-file", ".env", "file with environment variables to load before reading config")
	pflag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.LogError("Failed to load config", err)
		os.Exit(1)
	}
	logger.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	st, pinger, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.LogError("Failed to open store", err, "driver", cfg.DatabaseDriver)
		os.Exit(1)
	}
	defer closeStore()

	secret, err := jwtSecret(cfg)
	if err != nil {
		logger.LogError("Failed to generate JWT secret", err)
		os.Exit(1)
	}
	issuer, err := token.NewIssuer(secret, cfg.TokenTTL)
	if err != nil {
		logger.LogError("Failed to create token issuer", err)
		os.Exit(1)
	}

	svc := roster.NewService(st, st, credential.NewHasher(cfg.BcryptCost), issuer)

	schema, err := graphapi.NewSchema(svc)
	if err != nil {
		logger.LogError("Failed to build GraphQL schema", err)
		os.Exit(1)
	}

	srv := server.New(server.Options{
		Addr:           cfg.Addr(),
		AllowedOrigins: cfg.AllowedOrigins(),
		RateLimit:      cfg.RateLimitPerMinute,
		Pinger:         pinger,
	}, svc, graphapi.NewHandler(schema))

	if err := srv.Run(ctx); err != nil {
		logger.LogError("Server stopped", err)
		os.Exit(1)
	}
	logger.LogInfo("Server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (backend, server.Pinger, func(), error) {
	switch cfg.DatabaseDriver {
	case constants.DRIVER_POSTGRES:
		database, err := db.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return postgres.New(database), database, database.Close, nil
	case constants.DRIVER_SQLITE:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := s.Close(); err != nil {
				logger.LogError("Failed to close sqlite database", err)
			}
		}
		return s, s, closeFn, nil
	case constants.DRIVER_MEMORY:
		logger.LogWarn("Using in-memory store, data is lost on exit")
		return memory.New(), nil, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// jwtSecret falls back to a random per-process secret, which invalidates
// every token on restart.
func jwtSecret(cfg *config.Config) ([]byte, error) {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret), nil
	}

	logger.LogWarn(constants.JWT_SECRET + " is not set, generating a random secret")
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return secret, nil
}
