package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"os-sistema/internal/dto"
	"os-sistema/internal/entities"
	apperrors "os-sistema/pkg/errors"
)

type fakeUserRepo struct {
	users map[int64]*entities.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *entities.User) (int64, error) {
	id := int64(len(f.users) + 1)
	u.ID = id
	f.users[id] = u
	return id, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entities.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*entities.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) FindByTelegramID(_ context.Context, telegramID int64) (*entities.User, error) {
	for _, u := range f.users {
		if u.TelegramID != nil && *u.TelegramID == telegramID {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]entities.User, error) {
	var out []entities.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders  map[int64]*entities.ServiceOrder
	nextID  int64
	nextSeq int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*entities.ServiceOrder{}}
}

func (f *fakeOrderRepo) Create(_ context.Context, o *entities.ServiceOrder) error {
	f.nextID++
	f.nextSeq++
	o.ID = f.nextID
	o.NumeroOS = fmt.Sprintf("OS-%d-%03d", o.CriadoEm.Year(), f.nextSeq)
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id int64) (*entities.ServiceOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) List(_ context.Context, _ dto.OrderFilterDTO, _ *entities.User) ([]entities.ServiceOrder, uint64, error) {
	var out []entities.ServiceOrder
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeOrderRepo) Assign(_ context.Context, id, executorID int64, iniciadoEm time.Time) error {
	o, ok := f.orders[id]
	if !ok || o.Status != entities.StatusAguardando {
		return apperrors.ErrNotFound
	}
	o.Status = entities.StatusEmAndamento
	o.TecnicoExecutorID = &executorID
	o.IniciadoEm = &iniciadoEm
	return nil
}

func (f *fakeOrderRepo) Complete(_ context.Context, id int64, foto, obs string, concluidoEm time.Time) error {
	o, ok := f.orders[id]
	if !ok || o.Status != entities.StatusEmAndamento {
		return apperrors.ErrNotFound
	}
	o.Status = entities.StatusConcluido
	o.FotoComprovacao = foto
	o.Observacoes = obs
	o.ConcluidoEm = &concluidoEm
	return nil
}

func (f *fakeOrderRepo) ForceUpdate(_ context.Context, id int64, changes map[string]any) error {
	o, ok := f.orders[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if v, ok := changes["status"]; ok {
		o.Status = entities.OrderStatus(fmt.Sprint(v))
	}
	if v, ok := changes["cidade"]; ok {
		o.Cidade = fmt.Sprint(v)
	}
	return nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.orders[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func setupOrderService() (*orderService, *fakeOrderRepo, *fakeUserRepo) {
	users := &fakeUserRepo{users: map[int64]*entities.User{
		1: {ID: 1, Username: "admin", Nome: "Admin", Role: entities.RoleAdmin},
		2: {ID: 2, Username: "monitor", Nome: "Monitor", Role: entities.RoleMonitoramento},
		3: {ID: 3, Username: "exec1", Nome: "Executor 1", Role: entities.RoleExecucao},
		4: {ID: 4, Username: "exec2", Nome: "Executor 2", Role: entities.RoleExecucao},
		5: {ID: 5, Username: "campo1", Nome: "Campo 1", Role: entities.RoleCampo},
	}}
	orders := newFakeOrderRepo()
	svc := NewOrderService(orders, users, zap.NewNop().Sugar()).(*orderService)
	return svc, orders, users
}

func validCreatePayload() dto.CreateOrderDTO {
	return dto.CreateOrderDTO{
		TipoOS:         "normal",
		MotivoAbertura: "Caixa sem sinal",
		Cidade:         "Colniza",
		TecnicoCampoID: 5,
		FotoPowerMeter: "/uploads/pm.jpg",
		PrintOSCliente: "/uploads/print.jpg",
		PPPoECliente:   "cliente01",
	}
}

func assertHTTPCode(t *testing.T, err error, code int) {
	t.Helper()
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, code, httpErr.Code)
}

func TestOrderService_Create(t *testing.T) {
	svc, _, _ := setupOrderService()
	ctx := context.Background()

	out, err := svc.Create(ctx, validCreatePayload())
	require.NoError(t, err)
	assert.Equal(t, "aguardando", out.Status)
	assert.Regexp(t, `^OS-\d{4}-\d{3}$`, out.NumeroOS)
	assert.Nil(t, out.PrazoFim)
}

func TestOrderService_CreateRequiredFieldsNormal(t *testing.T) {
	svc, _, _ := setupOrderService()
	ctx := context.Background()

	p := validCreatePayload()
	p.FotoPowerMeter = ""
	_, err := svc.Create(ctx, p)
	assertHTTPCode(t, err, 422)

	p = validCreatePayload()
	p.PPPoECliente = ""
	_, err = svc.Create(ctx, p)
	assertHTTPCode(t, err, 422)
}

func TestOrderService_CreateRompimentoComputesPrazo(t *testing.T) {
	svc, repo, _ := setupOrderService()
	ctx := context.Background()

	horas := 4
	p := dto.CreateOrderDTO{
		TipoOS:         "rompimento",
		MotivoAbertura: "Rompimento",
		Cidade:         "Aripuanã",
		TecnicoCampoID: 5,
		PortaPlacaOLT:  "1/2/3",
		PrazoHoras:     &horas,
	}

	out, err := svc.Create(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, out.PrazoFim)

	stored := repo.orders[out.ID]
	assert.Equal(t, stored.CriadoEm.Add(4*time.Hour), *stored.PrazoFim)

	// sem prazo_horas o tipo com prazo falha
	p.PrazoHoras = nil
	_, err = svc.Create(ctx, p)
	assertHTTPCode(t, err, 422)
}

func TestOrderService_CreateOpenerNotFound(t *testing.T) {
	svc, _, _ := setupOrderService()

	p := validCreatePayload()
	p.TecnicoCampoID = 999
	_, err := svc.Create(context.Background(), p)
	assertHTTPCode(t, err, 404)
}

func TestOrderService_AssignLifecycle(t *testing.T) {
	svc, _, _ := setupOrderService()
	ctx := context.Background()

	out, err := svc.Create(ctx, validCreatePayload())
	require.NoError(t, err)

	// monitoramento não assume
	_, err = svc.Assign(ctx, 2, out.ID, dto.AssignOrderDTO{})
	assertHTTPCode(t, err, 403)

	got, err := svc.Assign(ctx, 3, out.ID, dto.AssignOrderDTO{})
	require.NoError(t, err)
	assert.Equal(t, "em_andamento", got.Status)
	require.NotNil(t, got.TecnicoExecutorID)
	assert.Equal(t, int64(3), *got.TecnicoExecutorID)

	// já assumida
	_, err = svc.Assign(ctx, 4, out.ID, dto.AssignOrderDTO{})
	assertHTTPCode(t, err, 409)
}

func TestOrderService_AssignToAnotherRequiresAdmin(t *testing.T) {
	svc, _, _ := setupOrderService()
	ctx := context.Background()

	out, err := svc.Create(ctx, validCreatePayload())
	require.NoError(t, err)

	outro := int64(4)
	_, err = svc.Assign(ctx, 3, out.ID, dto.AssignOrderDTO{TecnicoExecutorID: &outro})
	assertHTTPCode(t, err, 403)

	got, err := svc.Assign(ctx, 1, out.ID, dto.AssignOrderDTO{TecnicoExecutorID: &outro})
	require.NoError(t, err)
	assert.Equal(t, outro, *got.TecnicoExecutorID)

	// admin não atribui a quem não executa
	out2, err := svc.Create(ctx, validCreatePayload())
	require.NoError(t, err)
	campo := int64(5)
	_, err = svc.Assign(ctx, 1, out2.ID, dto.AssignOrderDTO{TecnicoExecutorID: &campo})
	assertHTTPCode(t, err, 422)

	// executor inexistente é entrada inválida, não recurso ausente
	fantasma := int64(999)
	_, err = svc.Assign(ctx, 1, out2.ID, dto.AssignOrderDTO{TecnicoExecutorID: &fantasma})
	assertHTTPCode(t, err, 422)
}

func TestOrderService_Complete(t *testing.T) {
	svc, _, _ := setupOrderService()
	ctx := context.Background()

	out, err := svc.Create(ctx, validCreatePayload())
	require.NoError(t, err)

	// ainda aguardando
	_, err = svc.Complete(ctx, 3, out.ID, dto.CompleteOrderDTO{FotoComprovacao: "/uploads/p.jpg"})
	assertHTTPCode(t, err, 409)

	_, err = svc.Assign(ctx, 3, out.ID, dto.AssignOrderDTO{})
	require.NoError(t, err)

	// sem comprovação
	_, err = svc.Complete(ctx, 3, out.ID, dto.CompleteOrderDTO{})
	assertHTTPCode(t, err, 422)

	// outro executor não finaliza
	_, err = svc.Complete(ctx, 4, out.ID, dto.CompleteOrderDTO{FotoComprovacao: "/uploads/p.jpg"})
	assertHTTPCode(t, err, 403)

	got, err := svc.Complete(ctx, 3, out.ID, dto.CompleteOrderDTO{FotoComprovacao: "/uploads/p.jpg", Observacoes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "concluido", got.Status)
	assert.Equal(t, "/uploads/p.jpg", got.FotoComprovacao)
	assert.NotNil(t, got.TempoTotalMin)

	// já concluída
	_, err = svc.Complete(ctx, 3, out.ID, dto.CompleteOrderDTO{FotoComprovacao: "/uploads/p.jpg"})
	assertHTTPCode(t, err, 409)
}

func TestOrderService_AdminCompletesAnyOrder(t *testing.T) {
	svc, _, _ := setupOrderService()
	ctx := context.Background()

	out, err := svc.Create(ctx, validCreatePayload())
	require.NoError(t, err)
	_, err = svc.Assign(ctx, 3, out.ID, dto.AssignOrderDTO{})
	require.NoError(t, err)

	got, err := svc.Complete(ctx, 1, out.ID, dto.CompleteOrderDTO{FotoComprovacao: "/uploads/p.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "concluido", got.Status)
}

func TestOrderService_FindByIDVisibility(t *testing.T) {
	svc, _, _ := setupOrderService()
	ctx := context.Background()

	out, err := svc.Create(ctx, validCreatePayload())
	require.NoError(t, err)
	_, err = svc.Assign(ctx, 4, out.ID, dto.AssignOrderDTO{})
	require.NoError(t, err)

	// exec1 não vê a O.S de exec2
	_, err = svc.FindByID(ctx, 3, out.ID)
	assertHTTPCode(t, err, 403)

	// o dono e o monitoramento veem
	_, err = svc.FindByID(ctx, 4, out.ID)
	require.NoError(t, err)
	_, err = svc.FindByID(ctx, 2, out.ID)
	require.NoError(t, err)
}

func TestOrderService_ViewRequiresKnownRole(t *testing.T) {
	svc, _, users := setupOrderService()
	ctx := context.Background()

	out, err := svc.Create(ctx, validCreatePayload())
	require.NoError(t, err)

	users.users[9] = &entities.User{ID: 9, Username: "legado", Role: entities.Role("suporte")}

	_, err = svc.FindByID(ctx, 9, out.ID)
	assertHTTPCode(t, err, 403)

	_, err = svc.List(ctx, 9, dto.OrderFilterDTO{Limit: 50})
	assertHTTPCode(t, err, 403)
}

func TestOrderService_ForceUpdate(t *testing.T) {
	svc, _, _ := setupOrderService()
	ctx := context.Background()

	out, err := svc.Create(ctx, validCreatePayload())
	require.NoError(t, err)

	status := "concluido"
	_, err = svc.ForceUpdate(ctx, 3, out.ID, dto.ForceUpdateOrderDTO{Status: &status})
	assertHTTPCode(t, err, 403)

	got, err := svc.ForceUpdate(ctx, 1, out.ID, dto.ForceUpdateOrderDTO{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "concluido", got.Status)

	invalido := "qualquer"
	_, err = svc.ForceUpdate(ctx, 1, out.ID, dto.ForceUpdateOrderDTO{Status: &invalido})
	assertHTTPCode(t, err, 422)

	_, err = svc.ForceUpdate(ctx, 1, out.ID, dto.ForceUpdateOrderDTO{})
	assertHTTPCode(t, err, 422)
}

func TestOrderService_Delete(t *testing.T) {
	svc, _, _ := setupOrderService()
	ctx := context.Background()

	out, err := svc.Create(ctx, validCreatePayload())
	require.NoError(t, err)

	err = svc.Delete(ctx, 3, out.ID)
	assertHTTPCode(t, err, 403)

	require.NoError(t, svc.Delete(ctx, 1, out.ID))

	err = svc.Delete(ctx, 1, out.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
