package main

import (
	"context"

	"go.uber.org/zap"

	"os-sistema/pkg/config"
	"os-sistema/pkg/database/postgresql"
	"os-sistema/pkg/logger"
	"os-sistema/seeders"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg := config.New()
	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	if err := seeders.RunAll(context.Background(), db, log.Sugar(), seeders.UsersSeeder{}); err != nil {
		log.Fatal("falha ao executar seeders", zap.Error(err))
	}
}
