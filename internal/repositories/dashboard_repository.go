package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"os-sistema/internal/dto"
	"os-sistema/internal/entities"
)

const (
	esperaMinExpr   = "EXTRACT(EPOCH FROM (iniciado_em - criado_em)) / 60"
	execucaoMinExpr = "EXTRACT(EPOCH FROM (concluido_em - iniciado_em)) / 60"
	totalMinExpr    = "EXTRACT(EPOCH FROM (concluido_em - criado_em)) / 60"
)

type DashboardRepositoryInterface interface {
	Totais(ctx context.Context, filter dto.ReportFilterDTO) (dto.DashboardTotaisDTO, error)
	Metricas(ctx context.Context, filter dto.ReportFilterDTO) (dto.DashboardMetricasDTO, error)
	PorTecnico(ctx context.Context, filter dto.ReportFilterDTO) ([]dto.TecnicoStatsDTO, error)
	PorCidade(ctx context.Context, filter dto.ReportFilterDTO) ([]dto.CidadeStatsDTO, error)
	PorMotivo(ctx context.Context, filter dto.ReportFilterDTO) ([]dto.MotivoStatsDTO, error)
}

type dashboardRepository struct {
	db Querier
}

func NewDashboardRepository(db Querier) DashboardRepositoryInterface {
	return &dashboardRepository{db: db}
}

func reportConditions(filter dto.ReportFilterDTO) sq.And {
	where := sq.And{sq.Expr("TRUE")}
	if filter.DataInicio != "" {
		where = append(where, sq.GtOrEq{"criado_em": filter.DataInicio})
	}
	if filter.DataFim != "" {
		where = append(where, sq.LtOrEq{"criado_em": filter.DataFim})
	}
	if filter.Cidade != "" {
		where = append(where, sq.Eq{"cidade": filter.Cidade})
	}
	if filter.TipoOS != "" {
		where = append(where, sq.Eq{"tipo_os": filter.TipoOS})
	}
	return where
}

func (r *dashboardRepository) Totais(ctx context.Context, filter dto.ReportFilterDTO) (dto.DashboardTotaisDTO, error) {
	var out dto.DashboardTotaisDTO

	query, args, err := psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status = 'aguardando')",
		"COUNT(*) FILTER (WHERE status = 'em_andamento')",
		"COUNT(*) FILTER (WHERE status = 'concluido')",
	).From("ordens_servico").Where(reportConditions(filter)).ToSql()
	if err != nil {
		return out, err
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(
		&out.Total, &out.Aguardando, &out.EmAndamento, &out.Concluidas,
	)
	return out, err
}

func (r *dashboardRepository) Metricas(ctx context.Context, filter dto.ReportFilterDTO) (dto.DashboardMetricasDTO, error) {
	var out dto.DashboardMetricasDTO

	where := reportConditions(filter)
	where = append(where, sq.Eq{"status": entities.StatusConcluido})

	query, args, err := psql.Select(
		"AVG("+esperaMinExpr+")",
		"AVG("+execucaoMinExpr+")",
		"AVG("+totalMinExpr+")",
	).From("ordens_servico").Where(where).ToSql()
	if err != nil {
		return out, err
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(
		&out.TempoMedioEsperaMin, &out.TempoMedioExecucaoMin, &out.TempoMedioTotalMin,
	)
	return out, err
}

func (r *dashboardRepository) PorTecnico(ctx context.Context, filter dto.ReportFilterDTO) ([]dto.TecnicoStatsDTO, error) {
	where := reportConditions(filter)
	where = append(where, sq.Eq{"os.status": entities.StatusConcluido})

	query, args, err := psql.Select(
		"u.id", "u.nome",
		"COUNT(*)",
		"AVG(EXTRACT(EPOCH FROM (os.concluido_em - os.iniciado_em)) / 60)",
	).
		From("ordens_servico os").
		Join("users u ON u.id = os.tecnico_executor_id").
		Where(where).
		GroupBy("u.id", "u.nome").
		OrderBy("COUNT(*) DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []dto.TecnicoStatsDTO
	for rows.Next() {
		var s dto.TecnicoStatsDTO
		if err := rows.Scan(&s.TecnicoID, &s.Nome, &s.Concluidas, &s.TempoMedioExecucaoMin); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *dashboardRepository) PorCidade(ctx context.Context, filter dto.ReportFilterDTO) ([]dto.CidadeStatsDTO, error) {
	query, args, err := psql.Select("cidade", "COUNT(*)").
		From("ordens_servico").
		Where(reportConditions(filter)).
		GroupBy("cidade").
		OrderBy("COUNT(*) DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []dto.CidadeStatsDTO
	for rows.Next() {
		var s dto.CidadeStatsDTO
		if err := rows.Scan(&s.Cidade, &s.Total); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// PorMotivo cobre apenas os tipos com prazo; dentro/fora usa concluido_em
// contra prazo_fim.
func (r *dashboardRepository) PorMotivo(ctx context.Context, filter dto.ReportFilterDTO) ([]dto.MotivoStatsDTO, error) {
	where := reportConditions(filter)
	where = append(where, sq.Eq{"tipo_os": []entities.OrderType{entities.TipoRompimento, entities.TipoManutencao}})

	query, args, err := psql.Select(
		"motivo_abertura",
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE concluido_em IS NOT NULL AND concluido_em <= prazo_fim)",
		"COUNT(*) FILTER (WHERE concluido_em IS NOT NULL AND concluido_em > prazo_fim)",
	).
		From("ordens_servico").
		Where(where).
		GroupBy("motivo_abertura").
		OrderBy("COUNT(*) DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []dto.MotivoStatsDTO
	for rows.Next() {
		var s dto.MotivoStatsDTO
		if err := rows.Scan(&s.Motivo, &s.Total, &s.DentroPrazo, &s.ForaPrazo); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
