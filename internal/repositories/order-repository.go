package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"os-sistema/internal/dto"
	"os-sistema/internal/entities"
	apperrors "os-sistema/pkg/errors"
)

var orderColumns = []string{
	"id", "numero_os", "status", "tipo_os",
	"tecnico_campo_id", "tecnico_executor_id",
	"foto_power_meter", "foto_caixa", "print_os_cliente", "foto_comprovacao",
	"localizacao_lat", "localizacao_lng", "localizacao_precisao",
	"pppoe_cliente", "motivo_abertura", "telegram_nick", "telegram_phone",
	"cidade", "porta_placa_olt", "observacoes",
	"prazo_horas", "prazo_fim",
	"criado_em", "iniciado_em", "concluido_em",
}

type OrderRepositoryInterface interface {
	Create(ctx context.Context, order *entities.ServiceOrder) error
	FindByID(ctx context.Context, id int64) (*entities.ServiceOrder, error)
	List(ctx context.Context, filter dto.OrderFilterDTO, visibleTo *entities.User) ([]entities.ServiceOrder, uint64, error)
	Assign(ctx context.Context, id int64, executorID int64, iniciadoEm time.Time) error
	Complete(ctx context.Context, id int64, fotoComprovacao, observacoes string, concluidoEm time.Time) error
	ForceUpdate(ctx context.Context, id int64, changes map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepositoryInterface {
	return &orderRepository{db: db}
}

// Create gera o número sequencial e insere a O.S na mesma transação. O
// contador por ano vive em os_counters; o upsert com RETURNING serializa a
// numeração sob concorrência.
func (r *orderRepository) Create(ctx context.Context, order *entities.ServiceOrder) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ano := order.CriadoEm.Year()
	var seq int64
	err = tx.QueryRow(ctx, `
		INSERT INTO os_counters (ano, last_seq) VALUES ($1, 1)
		ON CONFLICT (ano) DO UPDATE SET last_seq = os_counters.last_seq + 1
		RETURNING last_seq`, ano).Scan(&seq)
	if err != nil {
		return err
	}
	order.NumeroOS = fmt.Sprintf("OS-%d-%03d", ano, seq)

	query, args, err := psql.Insert("ordens_servico").
		Columns(
			"numero_os", "status", "tipo_os",
			"tecnico_campo_id", "tecnico_executor_id",
			"foto_power_meter", "foto_caixa", "print_os_cliente", "foto_comprovacao",
			"localizacao_lat", "localizacao_lng", "localizacao_precisao",
			"pppoe_cliente", "motivo_abertura", "telegram_nick", "telegram_phone",
			"cidade", "porta_placa_olt", "observacoes",
			"prazo_horas", "prazo_fim", "criado_em",
		).
		Values(
			order.NumeroOS, order.Status, order.TipoOS,
			order.TecnicoCampoID, order.TecnicoExecutorID,
			order.FotoPowerMeter, order.FotoCaixa, order.PrintOSCliente, order.FotoComprovacao,
			order.LocalizacaoLat, order.LocalizacaoLng, order.LocalizacaoPrecisao,
			order.PPPoECliente, order.MotivoAbertura, order.TelegramNick, order.TelegramPhone,
			order.Cidade, order.PortaPlacaOLT, order.Observacoes,
			order.PrazoHoras, order.PrazoFim, order.CriadoEm,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&order.ID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*entities.ServiceOrder, error) {
	query, args, err := psql.Select(orderColumns...).
		From("ordens_servico").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	o, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// List aplica os filtros e, para o papel execução, restringe às O.S em
// aguardando ou atribuídas ao próprio técnico.
func (r *orderRepository) List(ctx context.Context, filter dto.OrderFilterDTO, visibleTo *entities.User) ([]entities.ServiceOrder, uint64, error) {
	where := orderFilterConditions(filter, visibleTo)

	countQuery, countArgs, err := psql.Select("COUNT(*)").
		From("ordens_servico").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(orderColumns...).
		From("ordens_servico").
		Where(where).
		OrderBy("criado_em DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []entities.ServiceOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

func orderFilterConditions(filter dto.OrderFilterDTO, visibleTo *entities.User) sq.And {
	where := sq.And{}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}
	if filter.TipoOS != "" {
		where = append(where, sq.Eq{"tipo_os": filter.TipoOS})
	}
	if filter.Cidade != "" {
		where = append(where, sq.Eq{"cidade": filter.Cidade})
	}
	if filter.TecnicoCampoID != nil {
		where = append(where, sq.Eq{"tecnico_campo_id": *filter.TecnicoCampoID})
	}
	if filter.ExecutorID != nil {
		where = append(where, sq.Eq{"tecnico_executor_id": *filter.ExecutorID})
	}
	if visibleTo != nil && visibleTo.Role == entities.RoleExecucao {
		where = append(where, sq.Or{
			sq.Eq{"status": entities.StatusAguardando},
			sq.Eq{"tecnico_executor_id": visibleTo.ID},
		})
	}
	if len(where) == 0 {
		where = append(where, sq.Expr("TRUE"))
	}
	return where
}

// Assign move aguardando→em_andamento; o WHERE no status faz a transição
// falhar com ErrNotFound quando outra requisição assumiu antes.
func (r *orderRepository) Assign(ctx context.Context, id int64, executorID int64, iniciadoEm time.Time) error {
	query, args, err := psql.Update("ordens_servico").
		Set("status", entities.StatusEmAndamento).
		Set("tecnico_executor_id", executorID).
		Set("iniciado_em", iniciadoEm).
		Where(sq.Eq{"id": id, "status": entities.StatusAguardando}).
		ToSql()
	if err != nil {
		return err
	}
	return r.execExpectingRow(ctx, query, args)
}

func (r *orderRepository) Complete(ctx context.Context, id int64, fotoComprovacao, observacoes string, concluidoEm time.Time) error {
	query, args, err := psql.Update("ordens_servico").
		Set("status", entities.StatusConcluido).
		Set("foto_comprovacao", fotoComprovacao).
		Set("observacoes", observacoes).
		Set("concluido_em", concluidoEm).
		Where(sq.Eq{"id": id, "status": entities.StatusEmAndamento}).
		ToSql()
	if err != nil {
		return err
	}
	return r.execExpectingRow(ctx, query, args)
}

func (r *orderRepository) ForceUpdate(ctx context.Context, id int64, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	query, args, err := psql.Update("ordens_servico").
		SetMap(changes).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	return r.execExpectingRow(ctx, query, args)
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("ordens_servico").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return r.execExpectingRow(ctx, query, args)
}

func (r *orderRepository) execExpectingRow(ctx context.Context, query string, args []any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*entities.ServiceOrder, error) {
	var o entities.ServiceOrder
	err := row.Scan(
		&o.ID, &o.NumeroOS, &o.Status, &o.TipoOS,
		&o.TecnicoCampoID, &o.TecnicoExecutorID,
		&o.FotoPowerMeter, &o.FotoCaixa, &o.PrintOSCliente, &o.FotoComprovacao,
		&o.LocalizacaoLat, &o.LocalizacaoLng, &o.LocalizacaoPrecisao,
		&o.PPPoECliente, &o.MotivoAbertura, &o.TelegramNick, &o.TelegramPhone,
		&o.Cidade, &o.PortaPlacaOLT, &o.Observacoes,
		&o.PrazoHoras, &o.PrazoFim,
		&o.CriadoEm, &o.IniciadoEm, &o.ConcluidoEm,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
