package main

import (
	"context"
	"flag"
	"time"

	"cashierhub-api/internal/config"
	"cashierhub-api/internal/repository"
	"cashierhub-api/internal/service"
	"cashierhub-api/pkg/database"
	"cashierhub-api/pkg/logger"
)

func main() {
	username := flag.String("username", "admin", "username whose password is reset")
	password := flag.String("password", "", "new password (at least 6 characters)")
	flag.Parse()

	log := logger.New(logger.Options{Service: "reset-password", Format: "console"})

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *password == "" {
		log.Fatal().Msg("-password is required")
	}

	db, err := database.Connect(database.Options{DSN: cfg.DB.DSN(), MaxOpenConns: 1, SlowQuery: cfg.DB.SlowQuery}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	auth := service.NewAuthService(repository.NewUserRepo(db), cfg.Security.BcryptCost, log)
	err = auth.ResetPassword(ctx, *username, *password)
	cancel()
	database.Close(db)
	if err != nil {
		log.Fatal().Err(err).Str("username", *username).Msg("password reset failed")
	}
	log.Info().Str("username", *username).Msg("password updated")
}
