package main

import (
	"context"
	"flag"
	"time"

	"cashierhub-api/internal/config"
	"cashierhub-api/pkg/database"
	"cashierhub-api/pkg/logger"
)

func main() {
	command := flag.String("cmd", "up", "goose command: up, down, redo, status, version")
	to := flag.String("to", "", "migrate up or down to this version instead of running -cmd")
	flag.Parse()

	log := logger.New(logger.Options{Service: "migrate", Format: "console"})

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	db, err := database.Connect(database.Options{DSN: cfg.DB.DSN(), MaxOpenConns: 1, SlowQuery: cfg.DB.SlowQuery}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *to != "" {
		err = database.MigrateTo(ctx, db, *to)
	} else {
		err = database.Migrate(ctx, db, *command, flag.Args()...)
	}
	cancel()
	database.Close(db)
	if err != nil {
		log.Fatal().Err(err).Str("cmd", *command).Str("to", *to).Msg("migration failed")
	}
	log.Info().Str("cmd", *command).Str("to", *to).Msg("migration finished")
}
