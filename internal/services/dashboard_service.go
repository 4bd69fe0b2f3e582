package services

import (
	"context"

	"go.uber.org/zap"

	"os-sistema/internal/dto"
	"os-sistema/internal/repositories"
)

type DashboardServiceInterface interface {
	Dashboard(ctx context.Context, filter dto.ReportFilterDTO) (*dto.DashboardDTO, error)
}

type dashboardService struct {
	dashRepo repositories.DashboardRepositoryInterface
	logger   *zap.SugaredLogger
}

func NewDashboardService(dashRepo repositories.DashboardRepositoryInterface, logger *zap.SugaredLogger) DashboardServiceInterface {
	return &dashboardService{dashRepo: dashRepo, logger: logger}
}

func (s *dashboardService) Dashboard(ctx context.Context, filter dto.ReportFilterDTO) (*dto.DashboardDTO, error) {
	totais, err := s.dashRepo.Totais(ctx, filter)
	if err != nil {
		return nil, err
	}

	metricas, err := s.dashRepo.Metricas(ctx, filter)
	if err != nil {
		return nil, err
	}

	porTecnico, err := s.dashRepo.PorTecnico(ctx, filter)
	if err != nil {
		return nil, err
	}

	porCidade, err := s.dashRepo.PorCidade(ctx, filter)
	if err != nil {
		return nil, err
	}

	porMotivo, err := s.dashRepo.PorMotivo(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardDTO{
		Totais:     totais,
		Metricas:   metricas,
		PorTecnico: porTecnico,
		PorCidade:  porCidade,
		PorMotivo:  porMotivo,
	}, nil
}
