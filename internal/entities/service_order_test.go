package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestServiceOrder_TemposDerivados(t *testing.T) {
	criado := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	o := &ServiceOrder{
		CriadoEm:    criado,
		IniciadoEm:  timePtr(criado.Add(45 * time.Minute)),
		ConcluidoEm: timePtr(criado.Add(2 * time.Hour)),
	}

	require.NotNil(t, o.TempoEsperaMin())
	assert.Equal(t, int64(45), *o.TempoEsperaMin())
	assert.Equal(t, int64(75), *o.TempoExecucaoMin())
	assert.Equal(t, int64(120), *o.TempoTotalMin())
}

func TestServiceOrder_TemposNulosSemEndpoints(t *testing.T) {
	o := &ServiceOrder{CriadoEm: time.Now()}

	assert.Nil(t, o.TempoEsperaMin())
	assert.Nil(t, o.TempoExecucaoMin())
	assert.Nil(t, o.TempoTotalMin())
}

func TestServiceOrder_MinutosRestantes(t *testing.T) {
	criado := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	prazo := criado.Add(2 * time.Hour)
	o := &ServiceOrder{
		TipoOS:   TipoRompimento,
		CriadoEm: criado,
		PrazoFim: &prazo,
	}

	// 30 minutos antes do prazo
	restante := o.MinutosRestantes(prazo.Add(-30 * time.Minute))
	require.NotNil(t, restante)
	assert.Equal(t, int64(30), *restante)
	assert.False(t, o.Atrasada(prazo.Add(-30*time.Minute)))

	// frações arredondam para cima
	restante = o.MinutosRestantes(prazo.Add(-90 * time.Second))
	require.NotNil(t, restante)
	assert.Equal(t, int64(2), *restante)

	// no prazo exato e depois dele
	restante = o.MinutosRestantes(prazo)
	require.NotNil(t, restante)
	assert.Equal(t, int64(0), *restante)
	assert.False(t, o.Atrasada(prazo))

	restante = o.MinutosRestantes(prazo.Add(time.Minute))
	require.NotNil(t, restante)
	assert.Equal(t, int64(0), *restante)
	assert.True(t, o.Atrasada(prazo.Add(time.Minute)))
}

func TestServiceOrder_SemPrazo(t *testing.T) {
	o := &ServiceOrder{TipoOS: TipoNormal, CriadoEm: time.Now()}

	assert.Nil(t, o.MinutosRestantes(time.Now()))
	assert.False(t, o.Atrasada(time.Now()))
}

func TestOrderType_HasPrazo(t *testing.T) {
	assert.False(t, TipoNormal.HasPrazo())
	assert.True(t, TipoRompimento.HasPrazo())
	assert.True(t, TipoManutencao.HasPrazo())
}
