package dto

import "github.com/aarondl/null/v8"

type DashboardTotaisDTO struct {
	Total       uint64 `json:"total"`
	Aguardando  uint64 `json:"aguardando"`
	EmAndamento uint64 `json:"em_andamento"`
	Concluidas  uint64 `json:"concluidas"`
}

// Médias em minutos sobre as O.S concluídas do período; nulas quando não
// houve conclusão.
type DashboardMetricasDTO struct {
	TempoMedioEsperaMin   null.Float64 `json:"tempo_medio_espera_min"`
	TempoMedioExecucaoMin null.Float64 `json:"tempo_medio_execucao_min"`
	TempoMedioTotalMin    null.Float64 `json:"tempo_medio_total_min"`
}

type TecnicoStatsDTO struct {
	TecnicoID             int64        `json:"tecnico_id"`
	Nome                  string       `json:"nome"`
	Concluidas            uint64       `json:"concluidas"`
	TempoMedioExecucaoMin null.Float64 `json:"tempo_medio_execucao_min"`
}

type CidadeStatsDTO struct {
	Cidade string `json:"cidade"`
	Total  uint64 `json:"total"`
}

type MotivoStatsDTO struct {
	Motivo      string `json:"motivo"`
	Total       uint64 `json:"total"`
	DentroPrazo uint64 `json:"dentro_prazo"`
	ForaPrazo   uint64 `json:"fora_prazo"`
}

type DashboardDTO struct {
	Totais     DashboardTotaisDTO   `json:"totais"`
	Metricas   DashboardMetricasDTO `json:"metricas"`
	PorTecnico []TecnicoStatsDTO    `json:"por_tecnico"`
	PorCidade  []CidadeStatsDTO     `json:"por_cidade"`
	PorMotivo  []MotivoStatsDTO     `json:"por_motivo"`
}

type ReportFilterDTO struct {
	DataInicio string
	DataFim    string
	Cidade     string
	TipoOS     string
}
