package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// KeepAliveJob toca o banco periodicamente para a instância gratuita não
// hibernar por inatividade.
type KeepAliveJob struct {
	db       *pgxpool.Pool
	interval time.Duration
	logger   *zap.SugaredLogger

	cron *cron.Cron
}

func NewKeepAliveJob(db *pgxpool.Pool, interval time.Duration, logger *zap.SugaredLogger) *KeepAliveJob {
	return &KeepAliveJob{db: db, interval: interval, logger: logger}
}

func (j *KeepAliveJob) Start() error {
	j.cron = cron.New()
	spec := fmt.Sprintf("@every %s", j.interval)
	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Infow("keep-alive agendado", "intervalo", j.interval)
	return nil
}

func (j *KeepAliveJob) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

func (j *KeepAliveJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := j.db.Ping(ctx); err != nil {
		j.logger.Warnw("keep-alive: ping no banco falhou", "err", err)
		return
	}
	j.logger.Debug("keep-alive: banco ok")
}
