package client

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier posts alert text to a single Telegram chat or channel
// through the Bot API.
type TelegramNotifier struct {
	client   *fasthttp.Client
	baseURL  string
	botToken string
	chatID   string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewTelegramNotifier creates a notifier bound to one bot token and chat.
func NewTelegramNotifier(botToken, chatID string, timeout time.Duration, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		client:   &fasthttp.Client{},
		baseURL:  telegramAPIBase,
		botToken: botToken,
		chatID:   chatID,
		timeout:  timeout,
		logger:   logger.Named("TelegramNotifier"),
	}
}

// sendMessageRequest is the Bot API sendMessage payload. Alerts are HTML
// formatted and link previews are suppressed, as the channel expects.
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// Post implements the outbound channel capability consumed by the
// dispatcher. It does not retry: a failed send surfaces as an error and the
// caller decides what to do with it.
func (t *TelegramNotifier) Post(ctx context.Context, text string) error {
	requestURL := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshal sendMessage payload: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = t.client.DoDeadline(req, resp, deadline)
	} else {
		err = t.client.DoTimeout(req, resp, t.timeout)
	}
	if err != nil {
		t.logger.Error("Failed to reach Telegram API", zap.Error(err))
		return fmt.Errorf("telegram sendMessage request: %w", err)
	}

	var apiResp sendMessageResponse
	if unmarshalErr := json.Unmarshal(resp.Body(), &apiResp); unmarshalErr == nil && !apiResp.OK {
		t.logger.Error("Telegram API rejected message",
			zap.Int("errorCode", apiResp.ErrorCode),
			zap.String("description", apiResp.Description))
		return fmt.Errorf("telegram API error %d: %s", apiResp.ErrorCode, apiResp.Description)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		t.logger.Error("Telegram API returned unexpected status", zap.Int("statusCode", resp.StatusCode()))
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode())
	}

	t.logger.Debug("Alert sent to Telegram", zap.String("chatID", t.chatID))
	return nil
}
