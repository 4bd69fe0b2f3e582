package entities

import (
	"math"
	"time"
)

type OrderStatus string

const (
	StatusAguardando  OrderStatus = "aguardando"
	StatusEmAndamento OrderStatus = "em_andamento"
	StatusConcluido   OrderStatus = "concluido"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusAguardando, StatusEmAndamento, StatusConcluido:
		return true
	}
	return false
}

type OrderType string

const (
	TipoNormal     OrderType = "normal"
	TipoRompimento OrderType = "rompimento"
	TipoManutencao OrderType = "manutencao"
)

func (t OrderType) Valid() bool {
	switch t {
	case TipoNormal, TipoRompimento, TipoManutencao:
		return true
	}
	return false
}

// HasPrazo indica os tipos com prazo de atendimento obrigatório.
func (t OrderType) HasPrazo() bool {
	return t == TipoRompimento || t == TipoManutencao
}

// ServiceOrder é a O.S aberta pelo técnico de campo via bot e trabalhada pela
// equipe de execução. Campos de foto guardam URLs do armazenamento externo.
type ServiceOrder struct {
	ID       int64
	NumeroOS string
	Status   OrderStatus
	TipoOS   OrderType

	TecnicoCampoID    int64
	TecnicoExecutorID *int64

	FotoPowerMeter  string
	FotoCaixa       string
	PrintOSCliente  string
	FotoComprovacao string

	LocalizacaoLat      *float64
	LocalizacaoLng      *float64
	LocalizacaoPrecisao *float64

	PPPoECliente   string
	MotivoAbertura string
	TelegramNick   string
	TelegramPhone  string
	Cidade         string
	PortaPlacaOLT  string
	Observacoes    string

	PrazoHoras *int
	PrazoFim   *time.Time

	CriadoEm    time.Time
	IniciadoEm  *time.Time
	ConcluidoEm *time.Time
}

// TempoEsperaMin é criado→iniciado em minutos inteiros; nil se faltar ponta.
func (o *ServiceOrder) TempoEsperaMin() *int64 {
	return wholeMinutes(&o.CriadoEm, o.IniciadoEm)
}

// TempoExecucaoMin é iniciado→concluído em minutos inteiros.
func (o *ServiceOrder) TempoExecucaoMin() *int64 {
	return wholeMinutes(o.IniciadoEm, o.ConcluidoEm)
}

// TempoTotalMin é criado→concluído em minutos inteiros.
func (o *ServiceOrder) TempoTotalMin() *int64 {
	return wholeMinutes(&o.CriadoEm, o.ConcluidoEm)
}

// MinutosRestantes é o tempo até o prazo, arredondado para cima, nunca
// negativo. nil para O.S sem prazo.
func (o *ServiceOrder) MinutosRestantes(now time.Time) *int64 {
	if o.PrazoFim == nil {
		return nil
	}
	remaining := int64(math.Ceil(o.PrazoFim.Sub(now).Seconds() / 60))
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// Atrasada é falsa para O.S sem prazo.
func (o *ServiceOrder) Atrasada(now time.Time) bool {
	return o.PrazoFim != nil && now.After(*o.PrazoFim)
}

func wholeMinutes(from, to *time.Time) *int64 {
	if from == nil || to == nil {
		return nil
	}
	minutes := int64(to.Sub(*from).Minutes())
	return &minutes
}
