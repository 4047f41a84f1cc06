package main

import (
	"context"
	"time"

	"github.com/pinmapa/pinmapa-backend/internal/auth"
	"github.com/pinmapa/pinmapa-backend/internal/config"
	"github.com/pinmapa/pinmapa-backend/internal/db"
	"github.com/pinmapa/pinmapa-backend/internal/server"
	"github.com/pinmapa/pinmapa-backend/internal/token"
	"github.com/pinmapa/pinmapa-backend/internal/users"
	"github.com/pinmapa/pinmapa-backend/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := utils.New(cfg)

	conn := db.InitDB(logger, cfg)
	if err := db.RunMigrations(context.Background(), conn); err != nil {
		logger.Fatal("failed to run migrations: ", err)
	}

	// Token manager setup: the secret and validity window are fixed for the
	// life of the process.
	tokenManager := token.NewManager(token.Options{
		Secret:        cfg.JWTSecret,
		Validity:      time.Duration(cfg.JWTExpiry) * time.Second,
		RequireExpiry: cfg.JWTRequireExp,
	})

	userRepo := users.NewPostgresRepository(conn)
	authService := auth.NewAuthService(userRepo, tokenManager, logger)
	authHandler := auth.NewAuthHandler(authService, logger, cfg.DebugMode)

	s := server.New(cfg, logger, conn)
	s.SetupRoutes(authHandler, tokenManager)

	if err := s.Start(); err != nil {
		logger.Fatal("server failed to start: ", err)
	}
}
