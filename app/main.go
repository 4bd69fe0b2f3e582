package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"os-sistema/internal/jobs"
	"os-sistema/internal/routes"
	"os-sistema/internal/services"
	"os-sistema/pkg/config"
	"os-sistema/pkg/database/postgresql"
	"os-sistema/pkg/logger"
	"os-sistema/pkg/middleware"
	"os-sistema/pkg/utils"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg := config.New()

	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	if err := postgresql.Migrate(cfg.Postgres.DSN, "migrations"); err != nil {
		log.Fatal("falha ao aplicar migrações", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("falha ao conectar no Redis", zap.Error(err))
	}
	defer redisClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.InjectLogger(log))
	e.Validator = utils.NewValidator(validator.New())

	heartbeat := services.NewHeartbeatTracker()

	if err := routes.InitRouter(e, db, redisClient, cfg, heartbeat, log); err != nil {
		log.Fatal("falha ao montar rotas", zap.Error(err))
	}

	keepAlive := jobs.NewKeepAliveJob(db, cfg.Jobs.KeepAliveInterval, log.Sugar())
	if err := keepAlive.Start(); err != nil {
		log.Fatal("falha ao agendar keep-alive", zap.Error(err))
	}
	defer keepAlive.Stop()

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			log.Info("servidor encerrado", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("desligando...")
	if err := e.Shutdown(context.Background()); err != nil {
		log.Error("falha no shutdown", zap.Error(err))
	}
}
