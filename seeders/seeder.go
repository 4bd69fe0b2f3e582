package seeders

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db *pgxpool.Pool) error
}

// RunAll executa os seeders na ordem; cada um é idempotente.
func RunAll(ctx context.Context, db *pgxpool.Pool, logger *zap.SugaredLogger, seeders ...Seeder) error {
	for _, s := range seeders {
		if err := s.Run(ctx, db); err != nil {
			return err
		}
		logger.Infow("seeder executado", "seeder", s.Name())
	}
	return nil
}
