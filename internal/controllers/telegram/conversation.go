package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"os-sistema/internal/dto"
	"os-sistema/internal/entities"
	"os-sistema/internal/repositories"
	"os-sistema/internal/services"
	"os-sistema/pkg/config"
	apperrors "os-sistema/pkg/errors"
	"os-sistema/pkg/filestorage"
	"os-sistema/pkg/telegram"
)

type intakeStep string

const (
	stepLocalizacao    intakeStep = "localizacao"
	stepCidade         intakeStep = "cidade"
	stepMotivo         intakeStep = "motivo"
	stepPrazo          intakeStep = "prazo"
	stepPortaPlaca     intakeStep = "porta_placa"
	stepFotoPowerMeter intakeStep = "foto_power_meter"
	stepFotoCaixa      intakeStep = "foto_caixa"
	stepPrintOS        intakeStep = "print_os"
	stepPPPoE          intakeStep = "pppoe"
	stepConfirmacao    intakeStep = "confirmacao"
)

// intakeState é o rascunho da O.S durante a conversa, serializado em JSON no
// Redis. Sem TTL: o técnico retoma de onde parou.
type intakeState struct {
	Step intakeStep `json:"step"`

	TipoOS string `json:"tipo_os,omitempty"`
	Motivo string `json:"motivo,omitempty"`
	Cidade string `json:"cidade,omitempty"`

	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	Precisao *float64 `json:"precisao,omitempty"`

	PrazoHoras *int   `json:"prazo_horas,omitempty"`
	PortaPlaca string `json:"porta_placa,omitempty"`

	FotoPowerMeter string `json:"foto_power_meter,omitempty"`
	FotoCaixa      string `json:"foto_caixa,omitempty"`
	PrintOS        string `json:"print_os,omitempty"`
	PPPoE          string `json:"pppoe,omitempty"`
}

func intakeStateKey(telegramUserID int64) string {
	return fmt.Sprintf("intake_state:%d", telegramUserID)
}

// PhotoFetcher baixa uma foto do Telegram e devolve a URL no armazenamento
// local.
type PhotoFetcher interface {
	Fetch(ctx context.Context, fileID, prefix string) (string, error)
}

// Conversation conduz o passo a passo de abertura de O.S.
type Conversation struct {
	tgService    telegram.ServiceInterface
	cacheRepo    repositories.CacheRepositoryInterface
	orderService services.OrderServiceInterface
	fetcher      PhotoFetcher
	intakeCfg    config.IntakeConfig
	logger       *zap.SugaredLogger
}

func NewConversation(
	tgService telegram.ServiceInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	orderService services.OrderServiceInterface,
	fetcher PhotoFetcher,
	intakeCfg config.IntakeConfig,
	logger *zap.SugaredLogger,
) *Conversation {
	return &Conversation{
		tgService:    tgService,
		cacheRepo:    cacheRepo,
		orderService: orderService,
		fetcher:      fetcher,
		intakeCfg:    intakeCfg,
		logger:       logger,
	}
}

func (cv *Conversation) loadState(ctx context.Context, telegramUserID int64) (*intakeState, error) {
	raw, err := cv.cacheRepo.Get(ctx, intakeStateKey(telegramUserID))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var st intakeState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		// estado corrompido: descarta e recomeça
		cv.logger.Warnw("estado de conversa inválido, descartando", "telegram_user_id", telegramUserID)
		_ = cv.cacheRepo.Delete(ctx, intakeStateKey(telegramUserID))
		return nil, nil
	}
	return &st, nil
}

func (cv *Conversation) saveState(ctx context.Context, telegramUserID int64, st *intakeState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return cv.cacheRepo.Set(ctx, intakeStateKey(telegramUserID), string(raw), 0)
}

func (cv *Conversation) clearState(ctx context.Context, telegramUserID int64) {
	if err := cv.cacheRepo.Delete(ctx, intakeStateKey(telegramUserID)); err != nil {
		cv.logger.Warnw("falha ao limpar estado de conversa", "telegram_user_id", telegramUserID, "err", err)
	}
}

// InProgress diz se o técnico tem uma abertura pendente.
func (cv *Conversation) InProgress(ctx context.Context, telegramUserID int64) (bool, error) {
	st, err := cv.loadState(ctx, telegramUserID)
	return st != nil, err
}

// Start zera qualquer rascunho anterior e pede a localização.
func (cv *Conversation) Start(ctx context.Context, chatID, telegramUserID int64) error {
	st := &intakeState{Step: stepLocalizacao}
	if err := cv.saveState(ctx, telegramUserID, st); err != nil {
		return err
	}
	return cv.tgService.SendMessageEx(ctx, chatID, msgPedirLocalizacao,
		telegram.WithMarkdownV2(),
		telegram.WithOneTimeReplyKeyboard([][]telegram.ReplyKeyboardButton{
			{{Text: btnLocal, RequestLocation: true}},
			{{Text: btnCancelar}},
		}))
}

// Cancel abandona o rascunho, de qualquer passo.
func (cv *Conversation) Cancel(ctx context.Context, chatID, telegramUserID int64) error {
	st, err := cv.loadState(ctx, telegramUserID)
	if err != nil {
		return err
	}
	if st == nil {
		return cv.tgService.SendMessage(ctx, chatID, msgNadaParaCancelar)
	}
	cv.clearState(ctx, telegramUserID)
	return cv.tgService.SendMessageEx(ctx, chatID, msgOperacaoCancelada,
		telegram.WithReplyKeyboard(mainMenuKeyboard()))
}

// Handle processa a mensagem no passo atual. opener é o usuário do sistema
// vinculado ao telegram_id.
func (cv *Conversation) Handle(ctx context.Context, msg *Message, opener *entities.User) error {
	st, err := cv.loadState(ctx, msg.From.ID)
	if err != nil {
		return err
	}
	if st == nil {
		return cv.tgService.SendMessageEx(ctx, msg.Chat.ID, msgUsaMenu,
			telegram.WithReplyKeyboard(mainMenuKeyboard()))
	}

	if strings.TrimSpace(msg.Text) == btnCancelar {
		return cv.Cancel(ctx, msg.Chat.ID, msg.From.ID)
	}

	switch st.Step {
	case stepLocalizacao:
		return cv.handleLocalizacao(ctx, msg, st)
	case stepCidade:
		return cv.handleCidade(ctx, msg, st)
	case stepMotivo:
		return cv.handleMotivo(ctx, msg, st)
	case stepPrazo:
		return cv.handlePrazo(ctx, msg, st)
	case stepPortaPlaca:
		return cv.handlePortaPlaca(ctx, msg, st)
	case stepFotoPowerMeter:
		return cv.handleFoto(ctx, msg, st, "power_meter", &st.FotoPowerMeter, stepFotoCaixa, msgPedirFotoCaixa)
	case stepFotoCaixa:
		return cv.handleFoto(ctx, msg, st, "caixa", &st.FotoCaixa, stepPrintOS, msgPedirPrintOS)
	case stepPrintOS:
		return cv.handleFoto(ctx, msg, st, "print_os", &st.PrintOS, stepPPPoE, msgPedirPPPoE)
	case stepPPPoE:
		return cv.handlePPPoE(ctx, msg, st)
	case stepConfirmacao:
		return cv.handleConfirmacao(ctx, msg, st, opener)
	default:
		cv.clearState(ctx, msg.From.ID)
		return cv.tgService.SendMessageEx(ctx, msg.Chat.ID, msgUsaMenu,
			telegram.WithReplyKeyboard(mainMenuKeyboard()))
	}
}

func (cv *Conversation) handleLocalizacao(ctx context.Context, msg *Message, st *intakeState) error {
	if msg.Location == nil {
		return cv.tgService.SendMessage(ctx, msg.Chat.ID, msgLocalizacaoInvalida)
	}

	max := cv.intakeCfg.MaxLocationAccuracyMeters
	if msg.Location.HorizontalAccuracy != nil && *msg.Location.HorizontalAccuracy > max {
		return cv.tgService.SendMessage(ctx, msg.Chat.ID,
			fmt.Sprintf(msgPrecisaoRuim, *msg.Location.HorizontalAccuracy, max))
	}

	st.Lat = &msg.Location.Latitude
	st.Lng = &msg.Location.Longitude
	st.Precisao = msg.Location.HorizontalAccuracy
	st.Step = stepCidade
	if err := cv.saveState(ctx, msg.From.ID, st); err != nil {
		return err
	}

	return cv.tgService.SendMessageEx(ctx, msg.Chat.ID, msgPedirCidade,
		telegram.WithMarkdownV2(),
		telegram.WithOneTimeReplyKeyboard(buttonColumn(cv.intakeCfg.Cidades)))
}

func (cv *Conversation) handleCidade(ctx context.Context, msg *Message, st *intakeState) error {
	cidade := strings.TrimSpace(msg.Text)
	if !contains(cv.intakeCfg.Cidades, cidade) {
		return cv.tgService.SendMessage(ctx, msg.Chat.ID, msgCidadeInvalida)
	}

	st.Cidade = cidade
	st.Step = stepMotivo
	if err := cv.saveState(ctx, msg.From.ID, st); err != nil {
		return err
	}

	motivos := append(append([]string{}, motivosNormais...), motivosComPrazo...)
	return cv.tgService.SendMessageEx(ctx, msg.Chat.ID, msgPedirMotivo,
		telegram.WithMarkdownV2(),
		telegram.WithOneTimeReplyKeyboard(buttonColumn(motivos)))
}

func (cv *Conversation) handleMotivo(ctx context.Context, msg *Message, st *intakeState) error {
	motivo := strings.TrimSpace(msg.Text)

	switch {
	case contains(motivosNormais, motivo):
		st.TipoOS = string(entities.TipoNormal)
	case motivo == "Rompimento":
		st.TipoOS = string(entities.TipoRompimento)
	case motivo == "Manutenção":
		st.TipoOS = string(entities.TipoManutencao)
	default:
		return cv.tgService.SendMessage(ctx, msg.Chat.ID, msgMotivoInvalido)
	}

	st.Motivo = motivo

	// tipos com prazo inserem prazo + OLT antes das fotos
	if entities.OrderType(st.TipoOS).HasPrazo() {
		st.Step = stepPrazo
		if err := cv.saveState(ctx, msg.From.ID, st); err != nil {
			return err
		}
		return cv.tgService.SendMessageEx(ctx, msg.Chat.ID, msgPedirPrazo, telegram.WithMarkdownV2())
	}

	st.Step = stepFotoPowerMeter
	if err := cv.saveState(ctx, msg.From.ID, st); err != nil {
		return err
	}
	return cv.tgService.SendMessageEx(ctx, msg.Chat.ID, msgPedirFotoPowerMeter, telegram.WithMarkdownV2())
}

func (cv *Conversation) handlePrazo(ctx context.Context, msg *Message, st *intakeState) error {
	horas, err := strconv.Atoi(strings.TrimSpace(msg.Text))
	if err != nil || horas <= 0 {
		return cv.tgService.SendMessage(ctx, msg.Chat.ID, msgPrazoInvalido)
	}

	st.PrazoHoras = &horas
	st.Step = stepPortaPlaca
	if err := cv.saveState(ctx, msg.From.ID, st); err != nil {
		return err
	}
	return cv.tgService.SendMessage(ctx, msg.Chat.ID, msgPedirPortaPlaca)
}

func (cv *Conversation) handlePortaPlaca(ctx context.Context, msg *Message, st *intakeState) error {
	porta := strings.TrimSpace(msg.Text)
	if porta == "" {
		return cv.tgService.SendMessage(ctx, msg.Chat.ID, msgPedirPortaPlaca)
	}

	st.PortaPlaca = porta
	st.Step = stepFotoPowerMeter
	if err := cv.saveState(ctx, msg.From.ID, st); err != nil {
		return err
	}
	return cv.tgService.SendMessageEx(ctx, msg.Chat.ID, msgPedirFotoPowerMeter, telegram.WithMarkdownV2())
}

func (cv *Conversation) handleFoto(
	ctx context.Context,
	msg *Message,
	st *intakeState,
	prefix string,
	dest *string,
	next intakeStep,
	nextPrompt string,
) error {
	if len(msg.Photo) == 0 {
		return cv.tgService.SendMessage(ctx, msg.Chat.ID, msgPrecisoDeFoto)
	}

	// o Telegram manda a foto em vários tamanhos; o último é o maior
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	url, err := cv.fetcher.Fetch(ctx, fileID, prefix)
	if err != nil {
		cv.logger.Errorw("falha ao baixar foto do Telegram", "file_id", fileID, "err", err)
		return cv.tgService.SendMessage(ctx, msg.Chat.ID, msgFalhaUpload)
	}

	*dest = url
	st.Step = next
	if err := cv.saveState(ctx, msg.From.ID, st); err != nil {
		return err
	}
	return cv.tgService.SendMessageEx(ctx, msg.Chat.ID, nextPrompt, telegram.WithMarkdownV2())
}

func (cv *Conversation) handlePPPoE(ctx context.Context, msg *Message, st *intakeState) error {
	pppoe := strings.TrimSpace(msg.Text)
	if pppoe == "" {
		return cv.tgService.SendMessage(ctx, msg.Chat.ID, msgPedirPPPoE)
	}

	st.PPPoE = pppoe
	st.Step = stepConfirmacao
	if err := cv.saveState(ctx, msg.From.ID, st); err != nil {
		return err
	}
	return cv.sendSummary(ctx, msg.Chat.ID, st)
}

func (cv *Conversation) sendSummary(ctx context.Context, chatID int64, st *intakeState) error {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "*%s:* %s\n", label, telegram.EscapeTextForMarkdownV2(value))
		}
	}

	line("Tipo", st.TipoOS)
	line("Motivo", st.Motivo)
	line("Cidade", st.Cidade)
	if st.PrazoHoras != nil {
		line("Prazo", fmt.Sprintf("%d horas", *st.PrazoHoras))
	}
	line("Porta/Placa OLT", st.PortaPlaca)
	line("PPPoE", st.PPPoE)
	if st.FotoPowerMeter != "" {
		line("Fotos", "power meter, caixa e print recebidos")
	}

	return cv.tgService.SendMessageEx(ctx, chatID,
		fmt.Sprintf(msgConfirmacao, b.String()),
		telegram.WithMarkdownV2(),
		telegram.WithOneTimeReplyKeyboard([][]telegram.ReplyKeyboardButton{
			{{Text: btnConfirmar}},
			{{Text: btnCancelar}},
		}))
}

func (cv *Conversation) handleConfirmacao(ctx context.Context, msg *Message, st *intakeState, opener *entities.User) error {
	switch strings.ToLower(strings.TrimSpace(msg.Text)) {
	case strings.ToLower(btnConfirmar), "confirmar", "sim", "s":
	case "não", "nao", "n":
		return cv.Cancel(ctx, msg.Chat.ID, msg.From.ID)
	default:
		return cv.tgService.SendMessage(ctx, msg.Chat.ID, msgConfirmacaoInvalida)
	}

	payload := dto.CreateOrderDTO{
		TipoOS:              st.TipoOS,
		MotivoAbertura:      st.Motivo,
		Cidade:              st.Cidade,
		TecnicoCampoID:      opener.ID,
		FotoPowerMeter:      st.FotoPowerMeter,
		FotoCaixa:           st.FotoCaixa,
		PrintOSCliente:      st.PrintOS,
		PPPoECliente:        st.PPPoE,
		LocalizacaoLat:      st.Lat,
		LocalizacaoLng:      st.Lng,
		LocalizacaoPrecisao: st.Precisao,
		TelegramNick:        msg.From.Username,
		PortaPlacaOLT:       st.PortaPlaca,
		PrazoHoras:          st.PrazoHoras,
	}
	if msg.Contact != nil {
		payload.TelegramPhone = msg.Contact.PhoneNumber
	}

	order, err := cv.orderService.Create(ctx, payload)
	if err != nil {
		cv.logger.Errorw("falha ao criar O.S pelo bot", "telegram_user_id", msg.From.ID, "err", err)
		var httpErr *apperrors.HttpError
		if errors.As(err, &httpErr) {
			return cv.tgService.SendMessage(ctx, msg.Chat.ID, fmt.Sprintf(msgErroCriarOS, httpErr.Message))
		}
		return cv.tgService.SendMessage(ctx, msg.Chat.ID, fmt.Sprintf(msgErroCriarOS, "erro interno"))
	}

	cv.clearState(ctx, msg.From.ID)
	return cv.tgService.SendMessageEx(ctx, msg.Chat.ID,
		fmt.Sprintf(msgOSCriada, telegram.EscapeTextForMarkdownV2(order.NumeroOS)),
		telegram.WithMarkdownV2(),
		telegram.WithReplyKeyboard(mainMenuKeyboard()))
}

func mainMenuKeyboard() [][]telegram.ReplyKeyboardButton {
	return [][]telegram.ReplyKeyboardButton{
		{{Text: btnAbrirOS}},
		{{Text: btnAjuda}},
	}
}

func buttonColumn(labels []string) [][]telegram.ReplyKeyboardButton {
	rows := make([][]telegram.ReplyKeyboardButton, 0, len(labels)+1)
	for _, l := range labels {
		rows = append(rows, []telegram.ReplyKeyboardButton{{Text: l}})
	}
	rows = append(rows, []telegram.ReplyKeyboardButton{{Text: btnCancelar}})
	return rows
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// telegramPhotoFetcher implementa PhotoFetcher com timeout e uma nova
// tentativa no download.
type telegramPhotoFetcher struct {
	tgService telegram.ServiceInterface
	storage   filestorage.FileStorageInterface
	timeout   time.Duration
	retries   int
}

func NewPhotoFetcher(tgService telegram.ServiceInterface, storage filestorage.FileStorageInterface, timeout time.Duration, retries int) PhotoFetcher {
	return &telegramPhotoFetcher{tgService: tgService, storage: storage, timeout: timeout, retries: retries}
}

func (f *telegramPhotoFetcher) Fetch(ctx context.Context, fileID, prefix string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		url, err := f.fetchOnce(ctx, fileID, prefix)
		if err == nil {
			return url, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func (f *telegramPhotoFetcher) fetchOnce(ctx context.Context, fileID, prefix string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	file, err := f.tgService.GetFile(ctx, fileID)
	if err != nil {
		return "", err
	}

	body, err := f.tgService.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return "", err
	}
	defer body.Close()

	return f.storage.Save(body, file.FilePath, prefix)
}
