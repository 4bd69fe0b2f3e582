package dto

import (
	"time"

	"os-sistema/internal/entities"
)

type CreateOrderDTO struct {
	TipoOS         string `json:"tipo_os" validate:"required,oneof=normal rompimento manutencao"`
	MotivoAbertura string `json:"motivo_abertura" validate:"required"`
	Cidade         string `json:"cidade" validate:"required"`

	TecnicoCampoID int64 `json:"tecnico_campo_id" validate:"required"`

	FotoPowerMeter string `json:"foto_power_meter,omitempty"`
	FotoCaixa      string `json:"foto_caixa,omitempty"`
	PrintOSCliente string `json:"print_os_cliente,omitempty"`
	PPPoECliente   string `json:"pppoe_cliente,omitempty"`

	LocalizacaoLat      *float64 `json:"localizacao_lat,omitempty"`
	LocalizacaoLng      *float64 `json:"localizacao_lng,omitempty"`
	LocalizacaoPrecisao *float64 `json:"localizacao_precisao,omitempty"`

	TelegramNick  string `json:"telegram_nick,omitempty"`
	TelegramPhone string `json:"telegram_phone,omitempty"`

	PortaPlacaOLT string `json:"porta_placa_olt,omitempty"`
	PrazoHoras    *int   `json:"prazo_horas,omitempty" validate:"omitempty,gt=0"`
}

type AssignOrderDTO struct {
	TecnicoExecutorID *int64 `json:"tecnico_executor_id,omitempty"`
}

type CompleteOrderDTO struct {
	FotoComprovacao string `json:"foto_comprovacao" validate:"required"`
	Observacoes     string `json:"observacoes,omitempty"`
}

// ForceUpdateOrderDTO é a edição administrativa sem guardas de transição.
// Só campos presentes são alterados.
type ForceUpdateOrderDTO struct {
	Status            *string    `json:"status,omitempty" validate:"omitempty,oneof=aguardando em_andamento concluido"`
	TipoOS            *string    `json:"tipo_os,omitempty" validate:"omitempty,oneof=normal rompimento manutencao"`
	MotivoAbertura    *string    `json:"motivo_abertura,omitempty"`
	Cidade            *string    `json:"cidade,omitempty"`
	TecnicoExecutorID *int64     `json:"tecnico_executor_id,omitempty"`
	FotoPowerMeter    *string    `json:"foto_power_meter,omitempty"`
	FotoCaixa         *string    `json:"foto_caixa,omitempty"`
	PrintOSCliente    *string    `json:"print_os_cliente,omitempty"`
	FotoComprovacao   *string    `json:"foto_comprovacao,omitempty"`
	PPPoECliente      *string    `json:"pppoe_cliente,omitempty"`
	PortaPlacaOLT     *string    `json:"porta_placa_olt,omitempty"`
	Observacoes       *string    `json:"observacoes,omitempty"`
	PrazoHoras        *int       `json:"prazo_horas,omitempty"`
	PrazoFim          *time.Time `json:"prazo_fim,omitempty"`
	IniciadoEm        *time.Time `json:"iniciado_em,omitempty"`
	ConcluidoEm       *time.Time `json:"concluido_em,omitempty"`
}

type OrderFilterDTO struct {
	Status         string
	TipoOS         string
	Cidade         string
	TecnicoCampoID *int64
	ExecutorID     *int64
	Limit          uint64
	Offset         uint64
}

type OrderDTO struct {
	ID       int64  `json:"id"`
	NumeroOS string `json:"numero_os"`
	Status   string `json:"status"`
	TipoOS   string `json:"tipo_os"`

	TecnicoCampoID    int64  `json:"tecnico_campo_id"`
	TecnicoExecutorID *int64 `json:"tecnico_executor_id,omitempty"`

	FotoPowerMeter  string `json:"foto_power_meter,omitempty"`
	FotoCaixa       string `json:"foto_caixa,omitempty"`
	PrintOSCliente  string `json:"print_os_cliente,omitempty"`
	FotoComprovacao string `json:"foto_comprovacao,omitempty"`

	LocalizacaoLat      *float64 `json:"localizacao_lat,omitempty"`
	LocalizacaoLng      *float64 `json:"localizacao_lng,omitempty"`
	LocalizacaoPrecisao *float64 `json:"localizacao_precisao,omitempty"`

	PPPoECliente   string `json:"pppoe_cliente,omitempty"`
	MotivoAbertura string `json:"motivo_abertura"`
	TelegramNick   string `json:"telegram_nick,omitempty"`
	TelegramPhone  string `json:"telegram_phone,omitempty"`
	Cidade         string `json:"cidade"`
	PortaPlacaOLT  string `json:"porta_placa_olt,omitempty"`
	Observacoes    string `json:"observacoes,omitempty"`

	PrazoHoras       *int       `json:"prazo_horas,omitempty"`
	PrazoFim         *time.Time `json:"prazo_fim,omitempty"`
	MinutosRestantes *int64     `json:"minutos_restantes,omitempty"`
	Atrasada         bool       `json:"atrasada"`
	TempoEsperaMin   *int64     `json:"tempo_espera_min,omitempty"`
	TempoExecucaoMin *int64     `json:"tempo_execucao_min,omitempty"`
	TempoTotalMin    *int64     `json:"tempo_total_min,omitempty"`

	CriadoEm    time.Time  `json:"criado_em"`
	IniciadoEm  *time.Time `json:"iniciado_em,omitempty"`
	ConcluidoEm *time.Time `json:"concluido_em,omitempty"`
}

type OrderListDTO struct {
	Items []OrderDTO `json:"items"`
	Total uint64     `json:"total"`
}

func ToOrderDTO(o *entities.ServiceOrder, now time.Time) OrderDTO {
	return OrderDTO{
		ID:                  o.ID,
		NumeroOS:            o.NumeroOS,
		Status:              string(o.Status),
		TipoOS:              string(o.TipoOS),
		TecnicoCampoID:      o.TecnicoCampoID,
		TecnicoExecutorID:   o.TecnicoExecutorID,
		FotoPowerMeter:      o.FotoPowerMeter,
		FotoCaixa:           o.FotoCaixa,
		PrintOSCliente:      o.PrintOSCliente,
		FotoComprovacao:     o.FotoComprovacao,
		LocalizacaoLat:      o.LocalizacaoLat,
		LocalizacaoLng:      o.LocalizacaoLng,
		LocalizacaoPrecisao: o.LocalizacaoPrecisao,
		PPPoECliente:        o.PPPoECliente,
		MotivoAbertura:      o.MotivoAbertura,
		TelegramNick:        o.TelegramNick,
		TelegramPhone:       o.TelegramPhone,
		Cidade:              o.Cidade,
		PortaPlacaOLT:       o.PortaPlacaOLT,
		Observacoes:         o.Observacoes,
		PrazoHoras:          o.PrazoHoras,
		PrazoFim:            o.PrazoFim,
		MinutosRestantes:    o.MinutosRestantes(now),
		Atrasada:            o.Atrasada(now),
		TempoEsperaMin:      o.TempoEsperaMin(),
		TempoExecucaoMin:    o.TempoExecucaoMin(),
		TempoTotalMin:       o.TempoTotalMin(),
		CriadoEm:            o.CriadoEm,
		IniciadoEm:          o.IniciadoEm,
		ConcluidoEm:         o.ConcluidoEm,
	}
}
