package repositories

import (
	"context"

	"github.com/aarondl/null/v8"

	"os-sistema/internal/dto"
)

// ReportItem é a linha achatada da exportação, com o nome dos técnicos já
// resolvido e os tempos calculados no banco.
type ReportItem struct {
	NumeroOS        string
	Status          string
	TipoOS          string
	Cidade          string
	MotivoAbertura  string
	TecnicoCampo    string
	TecnicoExecutor null.String
	CriadoEm        null.Time
	IniciadoEm      null.Time
	ConcluidoEm     null.Time
	TempoEsperaMin  null.Float64
	TempoExecMin    null.Float64
	TempoTotalMin   null.Float64
}

type ReportRepositoryInterface interface {
	Items(ctx context.Context, filter dto.ReportFilterDTO) ([]ReportItem, error)
}

type reportRepository struct {
	db Querier
}

func NewReportRepository(db Querier) ReportRepositoryInterface {
	return &reportRepository{db: db}
}

func (r *reportRepository) Items(ctx context.Context, filter dto.ReportFilterDTO) ([]ReportItem, error) {
	query, args, err := psql.Select(
		"os.numero_os", "os.status", "os.tipo_os", "os.cidade", "os.motivo_abertura",
		"campo.nome",
		"executor.nome",
		"os.criado_em", "os.iniciado_em", "os.concluido_em",
		esperaMinExpr, execucaoMinExpr, totalMinExpr,
	).
		From("ordens_servico os").
		Join("users campo ON campo.id = os.tecnico_campo_id").
		LeftJoin("users executor ON executor.id = os.tecnico_executor_id").
		Where(reportConditions(filter)).
		OrderBy("os.criado_em").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ReportItem
	for rows.Next() {
		var it ReportItem
		err := rows.Scan(
			&it.NumeroOS, &it.Status, &it.TipoOS, &it.Cidade, &it.MotivoAbertura,
			&it.TecnicoCampo, &it.TecnicoExecutor,
			&it.CriadoEm, &it.IniciadoEm, &it.ConcluidoEm,
			&it.TempoEsperaMin, &it.TempoExecMin, &it.TempoTotalMin,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
