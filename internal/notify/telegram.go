package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram delivers check notifications over the Telegram Bot API. Owners
// are addressed by their chat ID; operational alerts go to a dedicated
// operator chat.
type Telegram struct {
	bot            *tgbotapi.BotAPI
	operatorChatID int64
	logger         *slog.Logger
}

func NewTelegram(token string, operatorChatID int64, logger *slog.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger = logger.With("component", "notify")
	logger.Info("telegram notifier ready", "bot", bot.Self.UserName)

	return &Telegram{
		bot:            bot,
		operatorChatID: operatorChatID,
		logger:         logger,
	}, nil
}

// Bot exposes the underlying API client for the command handler.
func (t *Telegram) Bot() *tgbotapi.BotAPI {
	return t.bot
}

func (t *Telegram) NotifyOwner(ctx context.Context, ownerID int64, text string) error {
	return t.send(ownerID, text)
}

// NotifyOperator sends an operational alert. With no operator chat
// configured the alert is dropped, the caller's log line is the record.
func (t *Telegram) NotifyOperator(ctx context.Context, text string) error {
	if t.operatorChatID == 0 {
		t.logger.Debug("no operator chat configured, dropping alert")
		return nil
	}
	return t.send(t.operatorChatID, text)
}

func (t *Telegram) send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}
