package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-sistema/internal/controllers"
	tgcontroller "os-sistema/internal/controllers/telegram"
	"os-sistema/internal/repositories"
	"os-sistema/internal/services"
	"os-sistema/pkg/config"
	"os-sistema/pkg/filestorage"
	"os-sistema/pkg/middleware"
	"os-sistema/pkg/service"
	"os-sistema/pkg/telegram"
)

// InitRouter monta repositórios, serviços e controllers e registra todas as
// rotas da aplicação.
func InitRouter(
	e *echo.Echo,
	db *pgxpool.Pool,
	redisClient *redis.Client,
	cfg *config.Config,
	heartbeat *services.HeartbeatTracker,
	logger *zap.Logger,
) error {
	sugar := logger.Sugar()

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Server.UploadsDir)
	if err != nil {
		return err
	}

	userRepo := repositories.NewUserRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	dashRepo := repositories.NewDashboardRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	jwtService := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)
	authService := services.NewAuthService(userRepo, jwtService, sugar)
	userService := services.NewUserService(userRepo, sugar)
	orderService := services.NewOrderService(orderRepo, userRepo, sugar)
	dashService := services.NewDashboardService(dashRepo, sugar)

	tgService := telegram.NewService(cfg.Telegram.BotToken)
	fetcher := tgcontroller.NewPhotoFetcher(tgService, fileStorage, cfg.Intake.UploadTimeout, cfg.Intake.UploadRetries)
	conversation := tgcontroller.NewConversation(tgService, cacheRepo, orderService, fetcher, cfg.Intake, sugar)

	authController := controllers.NewAuthController(authService, logger)
	userController := controllers.NewUserController(userService, authService, logger)
	orderController := controllers.NewOrderController(orderService, fileStorage, logger)
	dashController := controllers.NewDashboardController(dashService, authService, logger)
	reportController := controllers.NewReportController(reportRepo, authService, logger)
	healthController := controllers.NewHealthController(db, heartbeat, cfg.Jobs.BotOfflineThreshold, logger)
	telegramController := tgcontroller.NewController(
		tgService, userRepo, conversation, heartbeat, cfg.Telegram.WebhookSecret, sugar)

	authMW := middleware.NewAuthMiddleware(jwtService, logger)

	// rotas abertas
	e.GET("/health", healthController.Health)
	e.GET("/keepalive", healthController.KeepAlive)
	e.GET("/bot-status", healthController.BotStatus)
	e.POST("/telegram/webhook", telegramController.Webhook)
	e.Static("/uploads", cfg.Server.UploadsDir)

	api := e.Group("/api")
	api.POST("/auth/login", authController.Login)

	protected := api.Group("", authMW.Auth)
	protected.GET("/auth/me", authController.Me)

	registerOrderRoutes(protected, orderController)
	registerUserRoutes(protected, userController)
	registerReportRoutes(protected, dashController, reportController)

	return nil
}
