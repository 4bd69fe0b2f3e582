package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-sistema/internal/repositories"
	"os-sistema/internal/services"
	apperrors "os-sistema/pkg/errors"
	"os-sistema/pkg/telegram"
)

const (
	// updates mais velhos que isso são descartados (reentrega após downtime)
	maxMessageAge = 2 * time.Minute

	maxConcurrentUpdates = 32

	secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// Controller recebe o webhook do Bot API e despacha cada update para o fluxo
// de conversa em uma goroutine própria.
type Controller struct {
	tgService     telegram.ServiceInterface
	userRepo      repositories.UserRepositoryInterface
	conversation  *Conversation
	heartbeat     *services.HeartbeatTracker
	webhookSecret string
	logger        *zap.SugaredLogger

	sem chan struct{}
}

func NewController(
	tgService telegram.ServiceInterface,
	userRepo repositories.UserRepositoryInterface,
	conversation *Conversation,
	heartbeat *services.HeartbeatTracker,
	webhookSecret string,
	logger *zap.SugaredLogger,
) *Controller {
	return &Controller{
		tgService:     tgService,
		userRepo:      userRepo,
		conversation:  conversation,
		heartbeat:     heartbeat,
		webhookSecret: webhookSecret,
		logger:        logger,
		sem:           make(chan struct{}, maxConcurrentUpdates),
	}
}

// Webhook responde 200 imediatamente; o processamento segue em background
// para o Telegram não reenviar o update.
func (tc *Controller) Webhook(c echo.Context) error {
	if tc.webhookSecret != "" && c.Request().Header.Get(secretTokenHeader) != tc.webhookSecret {
		tc.logger.Warn("webhook: secret token inválido")
		return c.NoContent(http.StatusForbidden)
	}

	var update Update
	if err := c.Bind(&update); err != nil {
		tc.logger.Warnw("webhook: update ilegível", "err", err)
		return c.NoContent(http.StatusOK)
	}

	tc.heartbeat.Beat()

	if update.Message == nil || update.Message.From == nil {
		return c.NoContent(http.StatusOK)
	}
	if !tc.isMessageRecent(update.Message) {
		tc.logger.Debugw("webhook: mensagem velha descartada", "update_id", update.UpdateID)
		return c.NoContent(http.StatusOK)
	}

	// O semáforo limita a concorrência total, não a ordem por chat.
	// No modo webhook o Bot API entrega um update por chat de cada vez,
	// então o estado em intake_state:<chat> não sofre escrita concorrente.
	tc.sem <- struct{}{}
	go func(msg *Message) {
		defer func() { <-tc.sem }()
		defer tc.recoverPanic(msg)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := tc.dispatch(ctx, msg); err != nil {
			tc.logger.Errorw("webhook: falha ao processar mensagem",
				"telegram_user_id", msg.From.ID, "err", err)
		}
	}(update.Message)

	return c.NoContent(http.StatusOK)
}

func (tc *Controller) isMessageRecent(msg *Message) bool {
	sent := time.Unix(msg.Date, 0)
	return time.Since(sent) <= maxMessageAge
}

func (tc *Controller) recoverPanic(msg *Message) {
	if r := recover(); r != nil {
		tc.logger.Errorw("webhook: panic ao processar mensagem",
			"telegram_user_id", msg.From.ID, "panic", r)
	}
}

func (tc *Controller) dispatch(ctx context.Context, msg *Message) error {
	opener, err := tc.userRepo.FindByTelegramID(ctx, msg.From.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return tc.tgService.SendMessage(ctx, msg.Chat.ID, msgNaoCadastrado)
		}
		return err
	}

	text := strings.TrimSpace(msg.Text)
	switch text {
	case "/start":
		return tc.tgService.SendMessageEx(ctx, msg.Chat.ID,
			fmt.Sprintf(msgBoasVindas, opener.DisplayName()),
			telegram.WithReplyKeyboard(mainMenuKeyboard()))
	case "/help", btnAjuda:
		return tc.tgService.SendMessageEx(ctx, msg.Chat.ID, msgAjuda, telegram.WithMarkdownV2())
	case "/cancelar", btnCancelar:
		return tc.conversation.Cancel(ctx, msg.Chat.ID, msg.From.ID)
	case btnAbrirOS:
		return tc.conversation.Start(ctx, msg.Chat.ID, msg.From.ID)
	}

	return tc.conversation.Handle(ctx, msg, opener)
}
