package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type ServiceInterface interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageEx(ctx context.Context, chatID int64, text string, options ...MessageOption) error
	GetFile(ctx context.Context, fileID string) (*File, error)
	DownloadFile(ctx context.Context, filePath string) (io.ReadCloser, error)
}

type Service struct {
	botToken   string
	httpClient *http.Client
	debug      bool
}

func NewService(botToken string) ServiceInterface {
	debug := strings.Contains(strings.ToLower(os.Getenv("DEBUG")), "telegram")

	return &Service{
		botToken:   botToken,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		debug:      debug,
	}
}

type sendMessageRequest struct {
	ChatID      int64       `json:"chat_id"`
	Text        string      `json:"text"`
	ParseMode   string      `json:"parse_mode,omitempty"`
	ReplyMarkup interface{} `json:"reply_markup,omitempty"`
}

type ReplyKeyboardButton struct {
	Text            string `json:"text"`
	RequestLocation bool   `json:"request_location,omitempty"`
}

type replyKeyboardMarkup struct {
	Keyboard        [][]ReplyKeyboardButton `json:"keyboard"`
	ResizeKeyboard  bool                    `json:"resize_keyboard"`
	OneTimeKeyboard bool                    `json:"one_time_keyboard,omitempty"`
}

type replyKeyboardRemove struct {
	RemoveKeyboard bool `json:"remove_keyboard"`
}

// File é a resposta do método getFile; FilePath alimenta DownloadFile.
type File struct {
	FileID   string `json:"file_id"`
	FileSize int64  `json:"file_size,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}

type MessageOption func(*sendMessageRequest)

func WithMarkdownV2() MessageOption {
	return func(req *sendMessageRequest) {
		req.ParseMode = "MarkdownV2"
	}
}

func WithReplyKeyboard(rows [][]ReplyKeyboardButton) MessageOption {
	return func(req *sendMessageRequest) {
		if len(rows) > 0 {
			req.ReplyMarkup = replyKeyboardMarkup{
				Keyboard:       rows,
				ResizeKeyboard: true,
			}
		}
	}
}

func WithOneTimeReplyKeyboard(rows [][]ReplyKeyboardButton) MessageOption {
	return func(req *sendMessageRequest) {
		if len(rows) > 0 {
			req.ReplyMarkup = replyKeyboardMarkup{
				Keyboard:        rows,
				ResizeKeyboard:  true,
				OneTimeKeyboard: true,
			}
		}
	}
}

func WithRemoveKeyboard() MessageOption {
	return func(req *sendMessageRequest) {
		req.ReplyMarkup = replyKeyboardRemove{RemoveKeyboard: true}
	}
}

func (s *Service) SendMessage(ctx context.Context, chatID int64, text string) error {
	escapedText := EscapeTextForMarkdownV2(text)
	return s.SendMessageEx(ctx, chatID, escapedText, WithMarkdownV2())
}

func (s *Service) SendMessageEx(ctx context.Context, chatID int64, text string, options ...MessageOption) error {
	if s.botToken == "" {
		return fmt.Errorf("token do bot Telegram não configurado")
	}

	reqPayload := &sendMessageRequest{
		ChatID: chatID,
		Text:   text,
	}

	for _, opt := range options {
		opt(reqPayload)
	}

	return s.sendRequest(ctx, "sendMessage", reqPayload, nil)
}

func (s *Service) GetFile(ctx context.Context, fileID string) (*File, error) {
	var file File
	payload := map[string]string{"file_id": fileID}
	if err := s.sendRequest(ctx, "getFile", payload, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// DownloadFile baixa o conteúdo apontado por File.FilePath. O chamador fecha o
// ReadCloser retornado.
func (s *Service) DownloadFile(ctx context.Context, filePath string) (io.ReadCloser, error) {
	if s.botToken == "" {
		return nil, fmt.Errorf("token do bot Telegram não configurado")
	}

	fileURL := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", s.botToken, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao baixar arquivo do Telegram: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("telegram retornou status %d ao baixar arquivo", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *Service) sendRequest(ctx context.Context, methodName string, payload interface{}, result interface{}) error {
	if s.botToken == "" {
		return fmt.Errorf("token do bot Telegram não configurado")
	}

	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/%s", s.botToken, methodName)

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao serializar JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao enviar requisição ao Telegram: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if s.debug {
		fmt.Printf("[telegram] %s → %s\nRequest: %s\nResponse: %s\n\n", methodName, apiURL, string(reqBody), string(body))
	}

	// Telegram devolve 200 OK mesmo em erro; o campo "ok" é que manda.
	var telegramResp struct {
		OK          bool            `json:"ok"`
		Description string          `json:"description,omitempty"`
		ErrorCode   int             `json:"error_code,omitempty"`
		Result      json.RawMessage `json:"result,omitempty"`
	}

	if err := json.Unmarshal(body, &telegramResp); err != nil {
		return fmt.Errorf("erro ao decodificar resposta do Telegram: %w", err)
	}

	if !telegramResp.OK {
		return fmt.Errorf("telegram API erro (%s): código %d, descrição: %s", methodName, telegramResp.ErrorCode, telegramResp.Description)
	}

	if result != nil && len(telegramResp.Result) > 0 {
		if err := json.Unmarshal(telegramResp.Result, result); err != nil {
			return fmt.Errorf("erro ao decodificar resultado do Telegram: %w", err)
		}
	}

	return nil
}

func EscapeTextForMarkdownV2(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
		"(", "\\(", ")", "\\)", "\\", "\\\\",
		"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+",
		"-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}
