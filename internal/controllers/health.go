package controllers

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-sistema/internal/services"
	apperrors "os-sistema/pkg/errors"
	"os-sistema/pkg/utils"
)

type HealthController struct {
	db        *pgxpool.Pool
	heartbeat *services.HeartbeatTracker
	offline   time.Duration
	logger    *zap.Logger
}

func NewHealthController(
	db *pgxpool.Pool,
	heartbeat *services.HeartbeatTracker,
	offlineThreshold time.Duration,
	logger *zap.Logger,
) *HealthController {
	return &HealthController{db: db, heartbeat: heartbeat, offline: offlineThreshold, logger: logger}
}

func (hc *HealthController) Health(c echo.Context) error {
	if err := hc.db.Ping(c.Request().Context()); err != nil {
		hc.logger.Error("health: banco indisponível", zap.Error(err))
		return utils.ErrorResponse(c,
			apperrors.NewDependencyUnavailableError("banco de dados indisponível", err), hc.logger)
	}
	return utils.SuccessResponse(c, map[string]string{"database": "ok"}, "", http.StatusOK)
}

// KeepAlive é o alvo dos pings externos de uptime; toca o banco para a
// instância não hibernar.
func (hc *HealthController) KeepAlive(c echo.Context) error {
	if err := hc.db.Ping(c.Request().Context()); err != nil {
		hc.logger.Warn("keepalive: ping no banco falhou", zap.Error(err))
	}
	return utils.SuccessResponse(c, map[string]string{"status": "alive"}, "", http.StatusOK)
}

func (hc *HealthController) BotStatus(c echo.Context) error {
	last := hc.heartbeat.Last()
	body := map[string]any{
		"online": hc.heartbeat.Online(hc.offline),
	}
	if !last.IsZero() {
		body["ultimo_heartbeat"] = last
	}
	return utils.SuccessResponse(c, body, "", http.StatusOK)
}
