package telegram

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"os-sistema/internal/dto"
	"os-sistema/internal/entities"
	"os-sistema/pkg/config"
	apperrors "os-sistema/pkg/errors"
	tgsvc "os-sistema/pkg/telegram"
)

type fakeCache struct {
	data map[string]string
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

type recordingTgService struct {
	sent []string
}

func (r *recordingTgService) SendMessage(_ context.Context, _ int64, text string) error {
	r.sent = append(r.sent, text)
	return nil
}

func (r *recordingTgService) SendMessageEx(_ context.Context, _ int64, text string, _ ...tgsvc.MessageOption) error {
	r.sent = append(r.sent, text)
	return nil
}

func (r *recordingTgService) GetFile(_ context.Context, fileID string) (*tgsvc.File, error) {
	return &tgsvc.File{FileID: fileID, FilePath: "photos/" + fileID + ".jpg"}, nil
}

func (r *recordingTgService) DownloadFile(_ context.Context, _ string) (io.ReadCloser, error) {
	return io.NopCloser(nil), nil
}

func (r *recordingTgService) last() string {
	if len(r.sent) == 0 {
		return ""
	}
	return r.sent[len(r.sent)-1]
}

type fakeOrderService struct {
	created []dto.CreateOrderDTO
	fail    error
}

func (f *fakeOrderService) Create(_ context.Context, payload dto.CreateOrderDTO) (*dto.OrderDTO, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.created = append(f.created, payload)
	return &dto.OrderDTO{ID: int64(len(f.created)), NumeroOS: fmt.Sprintf("OS-2026-%03d", len(f.created))}, nil
}

func (f *fakeOrderService) FindByID(context.Context, int64, int64) (*dto.OrderDTO, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeOrderService) List(context.Context, int64, dto.OrderFilterDTO) (*dto.OrderListDTO, error) {
	return &dto.OrderListDTO{}, nil
}

func (f *fakeOrderService) Assign(context.Context, int64, int64, dto.AssignOrderDTO) (*dto.OrderDTO, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeOrderService) Complete(context.Context, int64, int64, dto.CompleteOrderDTO) (*dto.OrderDTO, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeOrderService) ForceUpdate(context.Context, int64, int64, dto.ForceUpdateOrderDTO) (*dto.OrderDTO, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeOrderService) Delete(context.Context, int64, int64) error {
	return apperrors.ErrNotFound
}

type fakeFetcher struct {
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, fileID, prefix string) (string, error) {
	f.calls++
	return fmt.Sprintf("/uploads/%s/%s.jpg", prefix, fileID), nil
}

func setupConversation() (*Conversation, *recordingTgService, *fakeCache, *fakeOrderService) {
	tg := &recordingTgService{}
	cache := &fakeCache{data: map[string]string{}}
	orders := &fakeOrderService{}
	cfg := config.IntakeConfig{
		MaxLocationAccuracyMeters: 5.0,
		Cidades:                   []string{"Colniza", "Aripuanã"},
		UploadTimeout:             time.Second,
		UploadRetries:             1,
	}
	cv := NewConversation(tg, cache, orders, &fakeFetcher{}, cfg, zap.NewNop().Sugar())
	return cv, tg, cache, orders
}

func textMsg(userID int64, text string) *Message {
	return &Message{
		From: &User{ID: userID, Username: "tecnico"},
		Chat: Chat{ID: userID},
		Date: time.Now().Unix(),
		Text: text,
	}
}

func locationMsg(userID int64, accuracy float64) *Message {
	m := textMsg(userID, "")
	m.Location = &Location{Latitude: -9.43, Longitude: -58.99, HorizontalAccuracy: &accuracy}
	return m
}

func photoMsg(userID int64, fileID string) *Message {
	m := textMsg(userID, "")
	m.Photo = []PhotoSize{{FileID: fileID + "_small"}, {FileID: fileID}}
	return m
}

var opener = &entities.User{ID: 5, Username: "campo1", Nome: "Campo", Role: entities.RoleCampo}

func TestConversation_LocationAccuracyGate(t *testing.T) {
	cv, tg, _, _ := setupConversation()
	ctx := context.Background()

	require.NoError(t, cv.Start(ctx, 10, 10))

	// 12 m fica no mesmo passo
	require.NoError(t, cv.Handle(ctx, locationMsg(10, 12.0), opener))
	assert.Contains(t, tg.last(), "precisão do GPS")

	st, err := cv.loadState(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, stepLocalizacao, st.Step)

	// 3 m avança para cidade
	require.NoError(t, cv.Handle(ctx, locationMsg(10, 3.0), opener))
	st, err = cv.loadState(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, stepCidade, st.Step)
	require.NotNil(t, st.Precisao)
	assert.Equal(t, 3.0, *st.Precisao)
}

func TestConversation_RejectsTextWhenExpectingLocation(t *testing.T) {
	cv, tg, _, _ := setupConversation()
	ctx := context.Background()

	require.NoError(t, cv.Start(ctx, 10, 10))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "estou aqui"), opener))
	assert.Equal(t, msgLocalizacaoInvalida, tg.last())
}

func TestConversation_CityMustBeFromList(t *testing.T) {
	cv, tg, _, _ := setupConversation()
	ctx := context.Background()

	require.NoError(t, cv.Start(ctx, 10, 10))
	require.NoError(t, cv.Handle(ctx, locationMsg(10, 3.0), opener))

	require.NoError(t, cv.Handle(ctx, textMsg(10, "Cuiabá"), opener))
	assert.Equal(t, msgCidadeInvalida, tg.last())

	require.NoError(t, cv.Handle(ctx, textMsg(10, "Colniza"), opener))
	st, err := cv.loadState(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, stepMotivo, st.Step)
	assert.Equal(t, "Colniza", st.Cidade)
}

func TestConversation_NormalFlowCreatesOrder(t *testing.T) {
	cv, tg, cache, orders := setupConversation()
	ctx := context.Background()

	require.NoError(t, cv.Start(ctx, 10, 10))
	require.NoError(t, cv.Handle(ctx, locationMsg(10, 3.0), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "Colniza"), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "Caixa sem sinal"), opener))

	st, err := cv.loadState(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, stepFotoPowerMeter, st.Step)

	require.NoError(t, cv.Handle(ctx, photoMsg(10, "pm"), opener))
	require.NoError(t, cv.Handle(ctx, photoMsg(10, "caixa"), opener))
	require.NoError(t, cv.Handle(ctx, photoMsg(10, "print"), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "cliente01"), opener))

	st, err = cv.loadState(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, stepConfirmacao, st.Step)

	require.NoError(t, cv.Handle(ctx, textMsg(10, btnConfirmar), opener))

	require.Len(t, orders.created, 1)
	created := orders.created[0]
	assert.Equal(t, "normal", created.TipoOS)
	assert.Equal(t, "Caixa sem sinal", created.MotivoAbertura)
	assert.Equal(t, "Colniza", created.Cidade)
	assert.Equal(t, opener.ID, created.TecnicoCampoID)
	assert.Equal(t, "cliente01", created.PPPoECliente)
	assert.Equal(t, "/uploads/power_meter/pm.jpg", created.FotoPowerMeter)
	assert.Nil(t, created.PrazoHoras)

	assert.Contains(t, tg.last(), "OS\\-2026\\-001")
	assert.Empty(t, cache.data)
}

func TestConversation_RompimentoBranchInsertsPrazoSteps(t *testing.T) {
	cv, _, _, orders := setupConversation()
	ctx := context.Background()

	require.NoError(t, cv.Start(ctx, 10, 10))
	require.NoError(t, cv.Handle(ctx, locationMsg(10, 2.0), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "Aripuanã"), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "Rompimento"), opener))

	st, err := cv.loadState(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, stepPrazo, st.Step)

	require.NoError(t, cv.Handle(ctx, textMsg(10, "abc"), opener))
	st, _ = cv.loadState(ctx, 10)
	assert.Equal(t, stepPrazo, st.Step)

	require.NoError(t, cv.Handle(ctx, textMsg(10, "4"), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "1/2/7"), opener))

	// depois da OLT o fluxo volta para as fotos
	st, _ = cv.loadState(ctx, 10)
	assert.Equal(t, stepFotoPowerMeter, st.Step)

	require.NoError(t, cv.Handle(ctx, photoMsg(10, "pm"), opener))
	require.NoError(t, cv.Handle(ctx, photoMsg(10, "caixa"), opener))
	require.NoError(t, cv.Handle(ctx, photoMsg(10, "print"), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "cliente02"), opener))

	st, _ = cv.loadState(ctx, 10)
	assert.Equal(t, stepConfirmacao, st.Step)

	require.NoError(t, cv.Handle(ctx, textMsg(10, btnConfirmar), opener))

	require.Len(t, orders.created, 1)
	created := orders.created[0]
	assert.Equal(t, "rompimento", created.TipoOS)
	require.NotNil(t, created.PrazoHoras)
	assert.Equal(t, 4, *created.PrazoHoras)
	assert.Equal(t, "1/2/7", created.PortaPlacaOLT)
	assert.Equal(t, "/uploads/power_meter/pm.jpg", created.FotoPowerMeter)
}

func TestConversation_NegativeConfirmationCancels(t *testing.T) {
	cv, tg, cache, orders := setupConversation()
	ctx := context.Background()

	require.NoError(t, cv.Start(ctx, 10, 10))
	require.NoError(t, cv.Handle(ctx, locationMsg(10, 2.0), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "Colniza"), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "Caixa sem sinal"), opener))
	require.NoError(t, cv.Handle(ctx, photoMsg(10, "pm"), opener))
	require.NoError(t, cv.Handle(ctx, photoMsg(10, "caixa"), opener))
	require.NoError(t, cv.Handle(ctx, photoMsg(10, "print"), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "cliente01"), opener))

	require.NoError(t, cv.Handle(ctx, textMsg(10, "não"), opener))
	assert.Equal(t, msgOperacaoCancelada, tg.last())
	assert.Empty(t, cache.data)
	assert.Empty(t, orders.created)
}

func TestConversation_CancelFromAnyStep(t *testing.T) {
	cv, tg, cache, _ := setupConversation()
	ctx := context.Background()

	require.NoError(t, cv.Start(ctx, 10, 10))
	require.NoError(t, cv.Handle(ctx, locationMsg(10, 2.0), opener))

	require.NoError(t, cv.Handle(ctx, textMsg(10, btnCancelar), opener))
	assert.Equal(t, msgOperacaoCancelada, tg.last())
	assert.Empty(t, cache.data)

	// sem estado, cancelar avisa que não há nada
	require.NoError(t, cv.Cancel(ctx, 10, 10))
	assert.Equal(t, msgNadaParaCancelar, tg.last())
}

func TestConversation_CreateFailureKeepsState(t *testing.T) {
	cv, tg, cache, orders := setupConversation()
	orders.fail = apperrors.NewValidationError("pppoe_cliente é obrigatório")
	ctx := context.Background()

	require.NoError(t, cv.Start(ctx, 10, 10))
	require.NoError(t, cv.Handle(ctx, locationMsg(10, 2.0), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "Colniza"), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "Caixa sem sinal"), opener))
	require.NoError(t, cv.Handle(ctx, photoMsg(10, "pm"), opener))
	require.NoError(t, cv.Handle(ctx, photoMsg(10, "caixa"), opener))
	require.NoError(t, cv.Handle(ctx, photoMsg(10, "print"), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, "cliente01"), opener))
	require.NoError(t, cv.Handle(ctx, textMsg(10, btnConfirmar), opener))

	assert.Contains(t, tg.last(), "pppoe_cliente é obrigatório")
	assert.NotEmpty(t, cache.data)
}
