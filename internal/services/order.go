package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"os-sistema/internal/authz"
	"os-sistema/internal/dto"
	"os-sistema/internal/entities"
	"os-sistema/internal/repositories"
	apperrors "os-sistema/pkg/errors"
)

type OrderServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateOrderDTO) (*dto.OrderDTO, error)
	FindByID(ctx context.Context, actorID, orderID int64) (*dto.OrderDTO, error)
	List(ctx context.Context, actorID int64, filter dto.OrderFilterDTO) (*dto.OrderListDTO, error)
	Assign(ctx context.Context, actorID, orderID int64, payload dto.AssignOrderDTO) (*dto.OrderDTO, error)
	Complete(ctx context.Context, actorID, orderID int64, payload dto.CompleteOrderDTO) (*dto.OrderDTO, error)
	ForceUpdate(ctx context.Context, actorID, orderID int64, payload dto.ForceUpdateOrderDTO) (*dto.OrderDTO, error)
	Delete(ctx context.Context, actorID, orderID int64) error
}

type orderService struct {
	orderRepo repositories.OrderRepositoryInterface
	userRepo  repositories.UserRepositoryInterface
	logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.SugaredLogger,
) OrderServiceInterface {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create valida os campos obrigatórios por tipo e calcula o prazo. Fotos de
// power meter, print da O.S e PPPoE só são exigidos no tipo normal; os tipos
// com prazo exigem prazo_horas e porta/placa da OLT.
func (s *orderService) Create(ctx context.Context, payload dto.CreateOrderDTO) (*dto.OrderDTO, error) {
	tipo := entities.OrderType(payload.TipoOS)
	if !tipo.Valid() {
		return nil, apperrors.NewValidationError("tipo_os inválido: %s", payload.TipoOS)
	}

	opener, err := s.userRepo.FindByID(ctx, payload.TecnicoCampoID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("técnico de campo %d não encontrado", payload.TecnicoCampoID)
	}
	if !authz.Can(opener.Role, authz.OrdersCreate) {
		return nil, apperrors.NewForbiddenError("usuário '%s' não pode abrir O.S", opener.Username)
	}

	if tipo == entities.TipoNormal {
		if payload.FotoPowerMeter == "" {
			return nil, apperrors.NewValidationError("foto_power_meter é obrigatória")
		}
		if payload.PrintOSCliente == "" {
			return nil, apperrors.NewValidationError("print_os_cliente é obrigatório")
		}
		if payload.PPPoECliente == "" {
			return nil, apperrors.NewValidationError("pppoe_cliente é obrigatório")
		}
	}

	criadoEm := s.now()
	order := &entities.ServiceOrder{
		Status:              entities.StatusAguardando,
		TipoOS:              tipo,
		TecnicoCampoID:      payload.TecnicoCampoID,
		FotoPowerMeter:      payload.FotoPowerMeter,
		FotoCaixa:           payload.FotoCaixa,
		PrintOSCliente:      payload.PrintOSCliente,
		LocalizacaoLat:      payload.LocalizacaoLat,
		LocalizacaoLng:      payload.LocalizacaoLng,
		LocalizacaoPrecisao: payload.LocalizacaoPrecisao,
		PPPoECliente:        payload.PPPoECliente,
		MotivoAbertura:      payload.MotivoAbertura,
		TelegramNick:        payload.TelegramNick,
		TelegramPhone:       payload.TelegramPhone,
		Cidade:              payload.Cidade,
		PortaPlacaOLT:       payload.PortaPlacaOLT,
		CriadoEm:            criadoEm,
	}

	if tipo.HasPrazo() {
		if payload.PrazoHoras == nil || *payload.PrazoHoras <= 0 {
			return nil, apperrors.NewValidationError("prazo_horas é obrigatório para o tipo %s", tipo)
		}
		if payload.PortaPlacaOLT == "" {
			return nil, apperrors.NewValidationError("porta_placa_olt é obrigatória para o tipo %s", tipo)
		}
		fim := criadoEm.Add(time.Duration(*payload.PrazoHoras) * time.Hour)
		order.PrazoHoras = payload.PrazoHoras
		order.PrazoFim = &fim
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Infow("O.S criada",
		"numero_os", order.NumeroOS, "tipo", order.TipoOS, "cidade", order.Cidade,
		"tecnico_campo_id", order.TecnicoCampoID)

	out := dto.ToOrderDTO(order, s.now())
	return &out, nil
}

func (s *orderService) FindByID(ctx context.Context, actorID, orderID int64) (*dto.OrderDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor.Role, authz.OrdersView) {
		return nil, apperrors.NewForbiddenError("papel '%s' não pode consultar O.S", actor.Role)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewOrder(actor, order) {
		return nil, apperrors.NewForbiddenError("O.S atribuída a outro técnico")
	}

	out := dto.ToOrderDTO(order, s.now())
	return &out, nil
}

func (s *orderService) List(ctx context.Context, actorID int64, filter dto.OrderFilterDTO) (*dto.OrderListDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor.Role, authz.OrdersView) {
		return nil, apperrors.NewForbiddenError("papel '%s' não pode consultar O.S", actor.Role)
	}

	orders, total, err := s.orderRepo.List(ctx, filter, actor)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]dto.OrderDTO, 0, len(orders))
	for i := range orders {
		items = append(items, dto.ToOrderDTO(&orders[i], now))
	}
	return &dto.OrderListDTO{Items: items, Total: total}, nil
}

// Assign move a O.S de aguardando para em_andamento. O executor é o próprio
// ator, exceto quando o admin indica outro técnico no corpo.
func (s *orderService) Assign(ctx context.Context, actorID, orderID int64, payload dto.AssignOrderDTO) (*dto.OrderDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor.Role, authz.OrdersAssign) {
		return nil, apperrors.NewForbiddenError("papel '%s' não pode assumir O.S", actor.Role)
	}

	executorID := actorID
	if payload.TecnicoExecutorID != nil && *payload.TecnicoExecutorID != actorID {
		if actor.Role != entities.RoleAdmin {
			return nil, apperrors.NewForbiddenError("apenas admin atribui O.S a outro técnico")
		}
		executorID = *payload.TecnicoExecutorID
	}

	// executor inexistente e executor sem papel de execução são o mesmo
	// erro de entrada: 422
	executor, err := s.userRepo.FindByID(ctx, executorID)
	if err != nil {
		return nil, apperrors.NewValidationError("técnico executor %d inválido", executorID)
	}
	if !authz.CanBeExecutor(executor.Role) {
		return nil, apperrors.NewValidationError("usuário '%s' não é técnico de execução", executor.Username)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entities.StatusAguardando {
		return nil, apperrors.NewConflictError("O.S %s não está aguardando (status atual: %s)", order.NumeroOS, order.Status)
	}

	if err := s.orderRepo.Assign(ctx, orderID, executorID, s.now()); err != nil {
		if order, ferr := s.orderRepo.FindByID(ctx, orderID); ferr == nil {
			// corrida: outro técnico assumiu entre a leitura e o update
			return nil, apperrors.NewConflictError("O.S %s não está aguardando (status atual: %s)", order.NumeroOS, order.Status)
		}
		return nil, err
	}
	s.logger.Infow("O.S assumida", "numero_os", order.NumeroOS, "executor_id", executorID)

	return s.findFresh(ctx, orderID)
}

func (s *orderService) Complete(ctx context.Context, actorID, orderID int64, payload dto.CompleteOrderDTO) (*dto.OrderDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor.Role, authz.OrdersComplete) {
		return nil, apperrors.NewForbiddenError("papel '%s' não pode finalizar O.S", actor.Role)
	}

	if payload.FotoComprovacao == "" {
		return nil, apperrors.NewValidationError("foto_comprovacao é obrigatória para finalizar")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entities.StatusEmAndamento {
		return nil, apperrors.NewConflictError("O.S %s não está em andamento (status atual: %s)", order.NumeroOS, order.Status)
	}
	if !authz.CanCompleteOrder(actor, order) {
		return nil, apperrors.NewForbiddenError("O.S %s está atribuída a outro técnico", order.NumeroOS)
	}

	if err := s.orderRepo.Complete(ctx, orderID, payload.FotoComprovacao, payload.Observacoes, s.now()); err != nil {
		return nil, err
	}
	s.logger.Infow("O.S finalizada", "numero_os", order.NumeroOS, "executor_id", actorID)

	return s.findFresh(ctx, orderID)
}

// ForceUpdate é a edição administrativa: altera qualquer campo presente sem
// passar pelas guardas de transição.
func (s *orderService) ForceUpdate(ctx context.Context, actorID, orderID int64, payload dto.ForceUpdateOrderDTO) (*dto.OrderDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor.Role, authz.OrdersForceUpdate) {
		return nil, apperrors.NewForbiddenError("apenas admin edita O.S diretamente")
	}

	changes := map[string]any{}
	if payload.Status != nil {
		if !entities.OrderStatus(*payload.Status).Valid() {
			return nil, apperrors.NewValidationError("status inválido: %s", *payload.Status)
		}
		changes["status"] = *payload.Status
	}
	if payload.TipoOS != nil {
		if !entities.OrderType(*payload.TipoOS).Valid() {
			return nil, apperrors.NewValidationError("tipo_os inválido: %s", *payload.TipoOS)
		}
		changes["tipo_os"] = *payload.TipoOS
	}
	if payload.MotivoAbertura != nil {
		changes["motivo_abertura"] = *payload.MotivoAbertura
	}
	if payload.Cidade != nil {
		changes["cidade"] = *payload.Cidade
	}
	if payload.TecnicoExecutorID != nil {
		changes["tecnico_executor_id"] = *payload.TecnicoExecutorID
	}
	if payload.FotoPowerMeter != nil {
		changes["foto_power_meter"] = *payload.FotoPowerMeter
	}
	if payload.FotoCaixa != nil {
		changes["foto_caixa"] = *payload.FotoCaixa
	}
	if payload.PrintOSCliente != nil {
		changes["print_os_cliente"] = *payload.PrintOSCliente
	}
	if payload.FotoComprovacao != nil {
		changes["foto_comprovacao"] = *payload.FotoComprovacao
	}
	if payload.PPPoECliente != nil {
		changes["pppoe_cliente"] = *payload.PPPoECliente
	}
	if payload.PortaPlacaOLT != nil {
		changes["porta_placa_olt"] = *payload.PortaPlacaOLT
	}
	if payload.Observacoes != nil {
		changes["observacoes"] = *payload.Observacoes
	}
	if payload.PrazoHoras != nil {
		changes["prazo_horas"] = *payload.PrazoHoras
	}
	if payload.PrazoFim != nil {
		changes["prazo_fim"] = *payload.PrazoFim
	}
	if payload.IniciadoEm != nil {
		changes["iniciado_em"] = *payload.IniciadoEm
	}
	if payload.ConcluidoEm != nil {
		changes["concluido_em"] = *payload.ConcluidoEm
	}

	if len(changes) == 0 {
		return nil, apperrors.NewValidationError("nenhum campo para atualizar")
	}

	if err := s.orderRepo.ForceUpdate(ctx, orderID, changes); err != nil {
		return nil, err
	}
	s.logger.Infow("O.S editada pelo admin", "order_id", orderID, "campos", len(changes))

	return s.findFresh(ctx, orderID)
}

func (s *orderService) Delete(ctx context.Context, actorID, orderID int64) error {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !authz.Can(actor.Role, authz.OrdersDelete) {
		return apperrors.NewForbiddenError("apenas admin remove O.S")
	}
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}
	s.logger.Infow("O.S removida", "order_id", orderID, "admin_id", actorID)
	return nil
}

func (s *orderService) findFresh(ctx context.Context, orderID int64) (*dto.OrderDTO, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := dto.ToOrderDTO(order, s.now())
	return &out, nil
}
